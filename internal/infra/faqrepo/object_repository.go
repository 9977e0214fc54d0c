package faqrepo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/semantic-faq/internal/domain/faq"
)

// ObjectConfig addresses the entries document in an S3 compatible bucket.
type ObjectConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Key       string
}

// ObjectRepository stores the entries document in R2, MinIO or S3.
type ObjectRepository struct {
	client *minio.Client
	bucket string
	key    string
	logger *slog.Logger
}

// NewObjectRepository constructs the storage adapter.
func NewObjectRepository(cfg ObjectConfig, logger *slog.Logger) (*ObjectRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	useSSL := !strings.HasPrefix(strings.ToLower(strings.TrimSpace(cfg.Endpoint)), "http://")
	client, err := minio.New(sanitizeEndpoint(cfg.Endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       useSSL,
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init object storage client: %w", err)
	}
	key := cfg.Key
	if key == "" {
		key = "faq_entries.json"
	}
	return &ObjectRepository{
		client: client,
		bucket: cfg.Bucket,
		key:    key,
		logger: logger.With("component", "faqrepo.object"),
	}, nil
}

// LoadAll downloads the document. A missing bucket or object yields an empty collection.
func (r *ObjectRepository) LoadAll(ctx context.Context) ([]faq.Entry, error) {
	obj, err := r.client.GetObject(ctx, r.bucket, r.key, minio.GetObjectOptions{})
	if err != nil {
		if err := r.missingOrErr(err); err != nil {
			return nil, err
		}
		return []faq.Entry{}, nil
	}
	defer obj.Close()
	// GetObject is lazy; a missing object surfaces on the first read
	data, err := io.ReadAll(obj)
	if err != nil {
		if err := r.missingOrErr(err); err != nil {
			return nil, err
		}
		return []faq.Entry{}, nil
	}
	return decodeEntries(data)
}

// SaveAll uploads the document, creating the bucket on first use.
func (r *ObjectRepository) SaveAll(ctx context.Context, entries []faq.Entry) error {
	payload, err := encodeEntries(entries)
	if err != nil {
		return err
	}
	if err := r.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket %s: %w", r.bucket, err)
	}
	_, err = r.client.PutObject(ctx, r.bucket, r.key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType:      "application/json",
		DisableMultipart: true,
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", r.bucket, r.key, err)
	}
	return nil
}

func (r *ObjectRepository) ensureBucket(ctx context.Context) error {
	exists, err := r.client.BucketExists(ctx, r.bucket)
	if err == nil && exists {
		return nil
	}
	err = r.client.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return err
	}
	return nil
}

// missingOrErr returns nil for not-found responses.
func (r *ObjectRepository) missingOrErr(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		r.logger.Info("faq entries object not found, starting empty", "bucket", r.bucket, "key", r.key)
		return nil
	}
	return fmt.Errorf("get %s/%s: %w", r.bucket, r.key, err)
}

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if host, _, found := strings.Cut(raw, "/"); found {
		raw = host
	}
	return raw
}

var _ faq.Repository = (*ObjectRepository)(nil)
