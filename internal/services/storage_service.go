package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var ErrBucketNotFound = errors.New("bucket not found")

// StorageService is the object store holding menu images.
type StorageService interface {
	Upload(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error
	CreatePublicBucket(ctx context.Context, bucketName string) error
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	Remove(ctx context.Context, bucketName, objectName string) error
	PublicURL(bucketName, objectName string) string
	// ObjectFromURL reverses PublicURL; ok is false for URLs outside bucketName.
	ObjectFromURL(bucketName, url string) (string, bool)
}

type minioStorage struct {
	client    *minio.Client
	publicURL string
}

func NewMinioStorage(endpoint, accessKey, secretKey string, useSSL bool, publicURL string) (StorageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioStorage{client: client, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// Upload reports ErrBucketNotFound when the bucket does not exist yet.
func (m *minioStorage) Upload(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	_, err := m.client.PutObject(ctx, bucketName, objectName, reader, objectSize, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=3600",
	})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchBucket" {
			return fmt.Errorf("%w: %s", ErrBucketNotFound, bucketName)
		}
		return err
	}
	return nil
}

func publicReadPolicy(bucketName string) string {
	return fmt.Sprintf(`{
	"Version": "2012-10-17",
	"Statement": [{
		"Effect": "Allow",
		"Principal": {"AWS": ["*"]},
		"Action": ["s3:GetObject"],
		"Resource": ["arn:aws:s3:::%s/*"]
	}]
}`, bucketName)
}

// CreatePublicBucket creates bucketName with anonymous read access.
// MIME type and size limits are enforced before upload, MinIO has no bucket-level equivalent.
func (m *minioStorage) CreatePublicBucket(ctx context.Context, bucketName string) error {
	err := m.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
	if err != nil {
		code := minio.ToErrorResponse(err).Code
		if code != "BucketAlreadyOwnedByYou" && code != "BucketAlreadyExists" {
			return fmt.Errorf("failed to create bucket %s: %w", bucketName, err)
		}
	}
	if err := m.client.SetBucketPolicy(ctx, bucketName, publicReadPolicy(bucketName)); err != nil {
		return fmt.Errorf("failed to set bucket policy on %s: %w", bucketName, err)
	}
	return nil
}

func (m *minioStorage) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return m.client.BucketExists(ctx, bucketName)
}

func (m *minioStorage) Remove(ctx context.Context, bucketName, objectName string) error {
	return m.client.RemoveObject(ctx, bucketName, objectName, minio.RemoveObjectOptions{})
}

func (m *minioStorage) PublicURL(bucketName, objectName string) string {
	return fmt.Sprintf("%s/%s/%s", m.publicURL, bucketName, objectName)
}

func (m *minioStorage) ObjectFromURL(bucketName, url string) (string, bool) {
	prefix := fmt.Sprintf("%s/%s/", m.publicURL, bucketName)
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}
