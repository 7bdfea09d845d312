// Package media stores sighting images in MinIO and hands back the public
// URL the rest of the system treats as an opaque image reference.
package media

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Storage struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewStorage(endpoint, accessKey, secretKey, bucket, publicURL string, useSSL bool) (*Storage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &Storage{client: client, bucket: bucket, publicURL: publicURL}, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (s *Storage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("bucket check: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket: %w", err)
	}
	log.Printf("media: created bucket %s", s.bucket)
	return nil
}

// Store uploads one image and returns its public URL. The object key is a
// fresh uuid so uploads never collide.
func (s *Storage) Store(ctx context.Context, r io.Reader, size int64, filename string) (string, error) {
	ext := filepath.Ext(filename)
	key := fmt.Sprintf("sightings/%s%s", uuid.NewString(), ext)

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key), nil
}
