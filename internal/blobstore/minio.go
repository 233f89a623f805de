package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// MinIO stores blobs in an S3-compatible bucket. Objects are addressed by
// absolute bucket URLs, so no metadata records or download routes are needed.
type MinIO struct {
	client *minio.Client
	bucket string
}

// NewMinIO constructs the adapter over a connected client.
func NewMinIO(client *minio.Client, bucket string) *MinIO {
	return &MinIO{client: client, bucket: bucket}
}

// Store writes the buffer under a uuid-prefixed object name so distinct
// uploads of the same filename never collide.
func (m *MinIO) Store(ctx context.Context, up Upload) (Object, error) {
	objectName := fmt.Sprintf("%s-%s", uuid.New().String(), sanitizeObjectName(up.Filename))

	_, err := m.client.PutObject(ctx, m.bucket, objectName, bytes.NewReader(up.Data), int64(len(up.Data)), minio.PutObjectOptions{
		ContentType: up.ContentType,
	})
	if err != nil {
		return Object{}, fmt.Errorf("minio put %q: %w", objectName, err)
	}

	return minioObject(up, objectName, m.client.EndpointURL().String(), m.bucket), nil
}

// minioObject keeps the client's filename on the object; the uuid-prefixed
// name exists only for addressing.
func minioObject(up Upload, objectName, endpointURL, bucket string) Object {
	return Object{
		ID:          objectName,
		Filename:    up.Filename,
		URL:         fmt.Sprintf("%s/%s/%s", endpointURL, bucket, objectName),
		ContentType: up.ContentType,
		SizeBytes:   int64(len(up.Data)),
	}
}

// Delete removes the object by name.
func (m *MinIO) Delete(ctx context.Context, id string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, id, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio remove %q: %w", id, err)
	}
	return nil
}

// CheckHealth verifies the bucket is reachable and exists.
func (m *MinIO) CheckHealth(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("minio health: %w", err)
	}
	if !exists {
		return fmt.Errorf("minio health: bucket %q missing", m.bucket)
	}
	return nil
}

func sanitizeObjectName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "/", "_")
	if name == "" {
		return "upload"
	}
	return name
}
