// Copyright 2026 The Stowage Authors
// SPDX-License-Identifier: Apache-2.0

// Package storage defines the gateway to the object store. The rest of
// the server (catalog construction, tool handlers) programs against the
// [Gateway] interface; the MinIO implementation lives in this package
// and tests substitute hand-written stubs.
package storage

import (
	"context"
	"io"
	"time"
)

// BucketInfo describes one bucket from a listing.
type BucketInfo struct {
	Name         string    `json:"name"`
	CreationDate time.Time `json:"creation_date"`
}

// ObjectInfo describes one object from a bucket listing.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"last_modified"`
	ContentType  string    `json:"content_type,omitempty"`
}

// ObjectPayload is the materialized content of one object together
// with the metadata the store reported for it.
type ObjectPayload struct {
	Data         []byte
	ContentType  string
	Size         int64
	ETag         string
	LastModified time.Time
}

// UploadInfo reports a completed upload.
type UploadInfo struct {
	Bucket string `json:"bucket_name"`
	Key    string `json:"object_name"`
	ETag   string `json:"etag"`
	Size   int64  `json:"size"`
}

// ListOptions bounds an object listing. A MaxKeys of zero or less
// means "use the gateway's configured default".
type ListOptions struct {
	// Prefix restricts the listing to keys beginning with it.
	Prefix string

	// MaxKeys caps how many keys are returned.
	MaxKeys int
}

// Gateway is the narrow boundary to an object store. Implementations
// wrap whole-operation failures with context (bucket, key) and keep
// the underlying driver error reachable through errors.Is/As.
type Gateway interface {
	// ListBuckets enumerates buckets in the order the store yields
	// them, skipping names less than or equal to startAfter when it
	// is non-empty, capped at the gateway's configured maximum.
	ListBuckets(ctx context.Context, startAfter string) ([]BucketInfo, error)

	// ListObjects lists keys in one bucket recursively (no delimiter
	// grouping), bounded by opts.
	ListObjects(ctx context.Context, bucket string, opts ListOptions) ([]ObjectInfo, error)

	// GetObject retrieves an object's full payload and metadata.
	GetObject(ctx context.Context, bucket, key string) (*ObjectPayload, error)

	// PutObject uploads size bytes from reader to bucket/key.
	PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64) (UploadInfo, error)
}
