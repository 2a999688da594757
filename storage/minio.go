// Copyright 2026 The Stowage Authors
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	defaultMaxBuckets = 5
	defaultMaxKeys    = 1000
)

// MinioGatewayConfig carries everything needed to construct a
// [MinioGateway]. Endpoint is host:port without a scheme; Secure
// selects https.
type MinioGatewayConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Secure    bool
	Region    string

	// MaxBuckets caps ListBuckets results. Zero means the default.
	MaxBuckets int

	// MaxKeys caps ListObjects results when the caller does not set
	// its own bound. Zero means the default.
	MaxKeys int
}

// MinioGateway implements [Gateway] against MinIO or any S3-compatible
// endpoint.
type MinioGateway struct {
	client     *minio.Client
	maxBuckets int
	maxKeys    int
}

var _ Gateway = (*MinioGateway)(nil)

// NewMinioGateway dials nothing: construction only validates the
// endpoint and prepares credentials. The first operation performs the
// first network call.
func NewMinioGateway(config MinioGatewayConfig) (*MinioGateway, error) {
	options := &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.Secure,
	}
	if config.Region != "" {
		options.Region = config.Region
	}
	client, err := minio.New(config.Endpoint, options)
	if err != nil {
		return nil, fmt.Errorf("constructing minio client for %q: %w", config.Endpoint, err)
	}
	gateway := &MinioGateway{
		client:     client,
		maxBuckets: config.MaxBuckets,
		maxKeys:    config.MaxKeys,
	}
	if gateway.maxBuckets <= 0 {
		gateway.maxBuckets = defaultMaxBuckets
	}
	if gateway.maxKeys <= 0 {
		gateway.maxKeys = defaultMaxKeys
	}
	return gateway, nil
}

// ListBuckets implements [Gateway]. The store has no server-side
// pagination for buckets, so the start-after filter and the cap are
// applied to the full listing here.
func (g *MinioGateway) ListBuckets(ctx context.Context, startAfter string) ([]BucketInfo, error) {
	listed, err := g.client.ListBuckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing buckets: %w", err)
	}
	raw := make([]BucketInfo, 0, len(listed))
	for _, bucket := range listed {
		raw = append(raw, BucketInfo{Name: bucket.Name, CreationDate: bucket.CreationDate})
	}
	return filterBuckets(raw, startAfter, g.maxBuckets), nil
}

// filterBuckets applies the start-after cursor and the result cap to a
// bucket listing, preserving the store's order.
func filterBuckets(buckets []BucketInfo, startAfter string, limit int) []BucketInfo {
	filtered := make([]BucketInfo, 0, len(buckets))
	for _, bucket := range buckets {
		if startAfter != "" && bucket.Name <= startAfter {
			continue
		}
		filtered = append(filtered, bucket)
		if len(filtered) >= limit {
			break
		}
	}
	return filtered
}

// ListObjects implements [Gateway]. Listing is recursive: keys under
// "directories" appear with their full paths rather than being grouped
// behind a delimiter.
func (g *MinioGateway) ListObjects(ctx context.Context, bucket string, opts ListOptions) ([]ObjectInfo, error) {
	limit := opts.MaxKeys
	if limit <= 0 {
		limit = g.maxKeys
	}

	// Cancel the listing goroutine inside minio-go once we have
	// enough keys, otherwise it keeps paging until exhaustion.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objects := make([]ObjectInfo, 0, limit)
	for object := range g.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    opts.Prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("listing objects in bucket %q: %w", bucket, object.Err)
		}
		objects = append(objects, ObjectInfo{
			Key:          object.Key,
			Size:         object.Size,
			ETag:         object.ETag,
			LastModified: object.LastModified,
			ContentType:  object.ContentType,
		})
		if len(objects) >= limit {
			break
		}
	}
	return objects, nil
}

// GetObject implements [Gateway]. The whole payload is read into
// memory; objects served over MCP are bounded by what a JSON-RPC
// response can carry anyway.
func (g *MinioGateway) GetObject(ctx context.Context, bucket, key string) (*ObjectPayload, error) {
	object, err := g.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("getting object %q from bucket %q: %w", key, bucket, err)
	}
	defer object.Close()

	// Stat surfaces NoSuchKey and friends before any read; GetObject
	// itself defers the request until the first operation.
	stat, err := object.Stat()
	if err != nil {
		return nil, fmt.Errorf("getting object %q from bucket %q: %w", key, bucket, err)
	}
	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("reading object %q from bucket %q: %w", key, bucket, err)
	}
	return &ObjectPayload{
		Data:         data,
		ContentType:  stat.ContentType,
		Size:         stat.Size,
		ETag:         stat.ETag,
		LastModified: stat.LastModified,
	}, nil
}

// PutObject implements [Gateway].
func (g *MinioGateway) PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64) (UploadInfo, error) {
	uploaded, err := g.client.PutObject(ctx, bucket, key, reader, size, minio.PutObjectOptions{})
	if err != nil {
		return UploadInfo{}, fmt.Errorf("putting object %q into bucket %q: %w", key, bucket, err)
	}
	return UploadInfo{
		Bucket: uploaded.Bucket,
		Key:    uploaded.Key,
		ETag:   uploaded.ETag,
		Size:   uploaded.Size,
	}, nil
}
