package google

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	googleauth "golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// NewDriveService creates a Google Drive API client. When a service
// account key file is given, it authenticates with a JWT token source,
// optionally impersonating a user via domain-wide delegation. Without a
// key file it falls back to Application Default Credentials.
func NewDriveService(ctx context.Context, credentialsFile, impersonate string) (*drive.Service, error) {
	if credentialsFile == "" {
		svc, err := drive.NewService(ctx, option.WithScopes(drive.DriveReadonlyScope))
		if err != nil {
			return nil, fmt.Errorf("create drive service with default credentials: %w", err)
		}
		return svc, nil
	}

	ts, err := serviceAccountTokenSource(ctx, credentialsFile, impersonate)
	if err != nil {
		return nil, err
	}

	svc, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return svc, nil
}

// serviceAccountTokenSource builds a token source from a service account
// JSON key. A non-empty impersonate email enables domain-wide delegation.
func serviceAccountTokenSource(ctx context.Context, credentialsFile, impersonate string) (oauth2.TokenSource, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	cfg, err := googleauth.JWTConfigFromJSON(data, drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	cfg.Subject = impersonate

	return cfg.TokenSource(ctx), nil
}
