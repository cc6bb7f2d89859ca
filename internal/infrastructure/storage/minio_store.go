// Package storage keeps rendered sanction letters in an S3-compatible object store.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config holds the object store connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Secure    bool
	// URLExpiry is how long a returned document link stays valid. S3 caps
	// presigned links at seven days.
	URLExpiry time.Duration
}

// MaxURLExpiry is the longest lifetime S3 accepts for a presigned link.
const MaxURLExpiry = 7 * 24 * time.Hour

// objectClient is the subset of *minio.Client used by DocumentStore.
type objectClient interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// DocumentStore implements port.DocumentStore on MinIO.
type DocumentStore struct {
	client objectClient
	bucket string
	expiry time.Duration
}

// NewDocumentStore connects to the object store and makes sure the bucket exists.
func NewDocumentStore(ctx context.Context, cfg Config) (*DocumentStore, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "http://"), "https://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: create client: %w", err)
	}

	s := newDocumentStore(client, cfg.Bucket, cfg.URLExpiry)
	if err := s.ensureBucket(ctx, cfg.Region); err != nil {
		return nil, err
	}
	return s, nil
}

func newDocumentStore(client objectClient, bucket string, expiry time.Duration) *DocumentStore {
	if expiry <= 0 || expiry > MaxURLExpiry {
		expiry = MaxURLExpiry
	}
	return &DocumentStore{client: client, bucket: bucket, expiry: expiry}
}

func (s *DocumentStore) ensureBucket(ctx context.Context, region string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("storage: check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("storage: create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Put uploads body under key into the private bucket and returns a presigned
// download link for it.
func (s *DocumentStore) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("storage: put %s: %w", key, err)
	}
	return s.URL(ctx, key)
}

// URL returns a fresh time-limited download link for key.
func (s *DocumentStore) URL(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.expiry, nil)
	if err != nil {
		return "", fmt.Errorf("storage: presign %s: %w", key, err)
	}
	return u.String(), nil
}
