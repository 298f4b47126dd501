// Package github implements the source tree over a GitHub repository.
//
// A repository branch is presented as a folder hierarchy: directory entries
// become folders, blobs become files identified by their repository-relative
// path. Authentication uses a personal access token; unauthenticated access
// works for public repositories at a reduced rate limit.
package github
