package cloudwriter

import (
	"context"
	"fmt"

	"github.com/chrisdamba/foodadmin/internal/models"
)

// CloudWriter buffers one object and uploads it on Close.
type CloudWriter interface {
	Write(data []byte) (int, error)
	Close() error
}

type CloudWriterFactory interface {
	NewWriter(bucket, objectPath string) (CloudWriter, error)
}

// NewFactory returns the writer factory for the configured provider.
func NewFactory(ctx context.Context, cfg models.CloudStorageConfig) (CloudWriterFactory, error) {
	if cfg.BucketName == "" {
		return nil, models.Invalid("cloud storage bucket name is required")
	}
	switch cfg.Provider {
	case "", "s3":
		factory, err := NewS3WriterFactory(ctx, cfg.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
		}
		return factory, nil
	default:
		return nil, fmt.Errorf("unsupported cloud storage provider: %s", cfg.Provider)
	}
}
