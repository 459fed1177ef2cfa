package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// ObjectStore wraps the S3 bucket holding raw upload bytes. Keys are scoped
// per owner: {userID}/{uuid}{ext}.
type ObjectStore struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

func NewObjectStore(client *minio.Client, bucket, publicBase string) *ObjectStore {
	return &ObjectStore{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}
}

func (s *ObjectStore) Put(ctx context.Context, ownerID uint, filename, contentType string, data []byte) (string, string, error) {
	key := fmt.Sprintf("%d/%s%s", ownerID, uuid.NewString(), path.Ext(filename))

	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", "", fmt.Errorf("put object failed: %w", err)
	}

	return key, s.PublicURL(key), nil
}

func (s *ObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object failed: %w", err)
	}
	defer object.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(object); err != nil {
		return nil, fmt.Errorf("read object failed: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *ObjectStore) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object failed: %w", err)
	}
	return nil
}

func (s *ObjectStore) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBase, s.bucket, key)
}
