package services

import "context"

// BackupSvcFacade exports the store to CSV files and optionally uploads them.
type BackupSvcFacade interface {
	// Export writes one CSV per table into dir and returns the written paths.
	Export(ctx context.Context, dir string) ([]string, error)

	// Upload sends previously exported files to the configured uploader and
	// returns their remote locations.
	Upload(ctx context.Context, paths []string) ([]string, error)
}
