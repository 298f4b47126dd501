// Package google provides shared infrastructure for the Google Drive
// connector:
//   - Service factory for creating an authenticated Drive API client
//     (service account JWT with optional domain-wide delegation, or
//     Application Default Credentials)
//   - Error handling for common Google API errors (401, 403, 404, 429)
//   - Rate limiting to respect Drive API quotas
//
// The connector only requests the read-only Drive scope:
// https://www.googleapis.com/auth/drive.readonly
package google
