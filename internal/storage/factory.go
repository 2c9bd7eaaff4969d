package storage

import (
	"context"
	"fmt"

	"nutri-go/internal/config"
	"nutri-go/internal/nutri"
)

// NewObjectStoreFromConfig creates an ObjectStore implementation based on the storage config type.
func NewObjectStoreFromConfig(ctx context.Context, cfg config.StorageConfig, clock nutri.Clock) (nutri.ObjectStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(cfg.Name, clock), nil
	case "filesystem":
		if cfg.FSRoot == "" {
			return nil, fmt.Errorf("filesystem storage requires fs_root to be set")
		}
		return NewFileSystemStore(cfg.Name, cfg.FSRoot, clock)
	case "s3":
		return NewS3Store(ctx, cfg.Name, S3Options{
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		})
	case "minio":
		return NewMinIOStore(cfg.Name, MinIOOptions{
			Endpoint:  cfg.MinioEndpoint,
			Bucket:    cfg.MinioBucket,
			Region:    cfg.MinioRegion,
			UseSSL:    cfg.MinioUseSSL,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		})
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
