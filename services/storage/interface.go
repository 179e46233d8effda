package storage

import (
	"context"
	"time"
)

// StorageService stores media attached to knowledge entries and hands back
// stable refs for the staff UI.
type StorageService interface {
	UploadFile(ctx context.Context, localFilePath, destFolder string) (string, error)
	DeleteFile(ctx context.Context, publicID string) error
	GetDownloadURL(ctx context.Context, resourceType, publicID string, expires time.Duration) (string, error)
}
