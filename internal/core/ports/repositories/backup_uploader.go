package repositories

import (
	"context"
	"io"
)

// BackupUploader ships exported backup files to off-site storage.
type BackupUploader interface {
	// Upload stores body under key and returns where it ended up.
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}
