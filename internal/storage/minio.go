package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"nutri-go/internal/nutri"
)

// MinIOOptions configures a MinIOStore. Endpoint is host[:port] without a scheme.
type MinIOOptions struct {
	Endpoint  string
	Bucket    string
	Region    string
	UseSSL    bool
	AccessKey string
	SecretKey string
}

// MinIOStore stores objects in a MinIO (or other S3-compatible) bucket
// through minio-go.
type MinIOStore struct {
	name   string
	bucket string
	client *minio.Client
}

// NewMinIOStore creates a MinIOStore. No request is made until the store is
// used; setting Region avoids a bucket-location lookup when presigning.
func NewMinIOStore(name string, opts MinIOOptions) (*MinIOStore, error) {
	if opts.Endpoint == "" || opts.Bucket == "" {
		return nil, fmt.Errorf("minio store requires an endpoint and a bucket")
	}
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}
	return &MinIOStore{name: name, bucket: opts.Bucket, client: client}, nil
}

func (m *MinIOStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	_, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("uploading %s/%s: %w", m.bucket, key, err)
	}
	return nil
}

func (m *MinIOStore) Get(ctx context.Context, key string, w io.Writer) error {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("downloading %s/%s: %w", m.bucket, key, err)
	}
	defer obj.Close()

	if _, err := obj.Stat(); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return fmt.Errorf("object %s: %w", key, nutri.ErrNotFound)
		}
		return fmt.Errorf("stat %s/%s: %w", m.bucket, key, err)
	}
	if _, err := io.Copy(w, obj); err != nil {
		return fmt.Errorf("reading %s/%s: %w", m.bucket, key, err)
	}
	return nil
}

func (m *MinIOStore) Delete(ctx context.Context, key string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("deleting %s/%s: %w", m.bucket, key, err)
	}
	return nil
}

func (m *MinIOStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("presigning %s/%s: %w", m.bucket, key, err)
	}
	return u.String(), nil
}

// ValidateSetup checks that the bucket exists, creating it if it does not.
func (m *MinIOStore) ValidateSetup(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %s: %w", m.bucket, err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed creating bucket %s: %w", m.bucket, err)
	}
	return nil
}

// Compile-time check that MinIOStore implements nutri.ObjectStore interface
var _ nutri.ObjectStore = (*MinIOStore)(nil)
