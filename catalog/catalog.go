// Copyright 2026 The Stowage Authors
// SPDX-License-Identifier: Apache-2.0

// Package catalog maintains the resource catalog served over MCP: a
// snapshot of the store's objects addressed by minio:// identifiers,
// rebuilt wholesale on each refresh and consulted on every resource
// read.
package catalog

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/stowage-dev/stowage/storage"
)

const (
	defaultMaxKeys           = 1000
	defaultBucketConcurrency = 3
)

// Options configures a [Catalog]. Zero values select the defaults.
type Options struct {
	// MaxKeys bounds how many objects each bucket contributes.
	MaxKeys int

	// BucketConcurrency bounds how many buckets are listed at once
	// during a refresh.
	BucketConcurrency int

	Logger *slog.Logger
}

// Catalog is the in-memory resource catalog. All methods are safe for
// concurrent use; a refresh never blocks lookups against the previous
// snapshot.
type Catalog struct {
	gateway     storage.Gateway
	maxKeys     int
	concurrency int64
	logger      *slog.Logger

	mu        sync.RWMutex
	snapshot  []Resource
	byURI     map[string]Resource
}

// New builds an empty catalog over the given gateway. The catalog
// stays empty until the first Refresh.
func New(gateway storage.Gateway, opts Options) *Catalog {
	c := &Catalog{
		gateway:     gateway,
		maxKeys:     opts.MaxKeys,
		concurrency: int64(opts.BucketConcurrency),
		logger:      opts.Logger,
		byURI:       map[string]Resource{},
	}
	if c.maxKeys <= 0 {
		c.maxKeys = defaultMaxKeys
	}
	if c.concurrency <= 0 {
		c.concurrency = defaultBucketConcurrency
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Refresh rebuilds the catalog from the store and returns the new
// snapshot in arrival order. Failing to enumerate buckets is fatal
// and leaves the previous snapshot untouched. A failure listing any
// single bucket is logged and that bucket contributes nothing; the
// refresh still succeeds. Bucket listings run concurrently, bounded
// by the configured concurrency.
func (c *Catalog) Refresh(ctx context.Context) ([]Resource, error) {
	buckets, err := c.gateway.ListBuckets(ctx, "")
	if err != nil {
		return nil, &CatalogUnavailableError{Err: err}
	}

	sem := semaphore.NewWeighted(c.concurrency)
	var wg sync.WaitGroup
	var stagingMu sync.Mutex
	staged := []Resource{}

	for _, bucket := range buckets {
		wg.Add(1)
		go func(bucket string) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				c.logger.Error("skipping bucket, refresh canceled", "bucket", bucket, "error", err)
				return
			}
			defer sem.Release(1)

			objects, err := c.gateway.ListObjects(ctx, bucket, storage.ListOptions{MaxKeys: c.maxKeys})
			if err != nil {
				c.logger.Error("listing objects failed", "bucket", bucket, "error", err)
				return
			}
			batch := make([]Resource, 0, len(objects))
			for _, object := range objects {
				// Empty keys and directory markers are not resources.
				if object.Key == "" || strings.HasSuffix(object.Key, "/") {
					continue
				}
				batch = append(batch, Materialize(bucket, object.Key))
			}
			stagingMu.Lock()
			staged = append(staged, batch...)
			stagingMu.Unlock()
		}(bucket.Name)
	}
	wg.Wait()

	// A canceled refresh produced an arbitrary subset; keep the old
	// snapshot rather than installing it.
	if err := ctx.Err(); err != nil {
		return nil, &CatalogUnavailableError{Err: err}
	}

	byURI := make(map[string]Resource, len(staged))
	for _, resource := range staged {
		byURI[resource.URI] = resource
	}
	c.mu.Lock()
	c.snapshot = staged
	c.byURI = byURI
	c.mu.Unlock()

	c.logger.Info("catalog refreshed", "buckets", len(buckets), "resources", len(staged))
	return staged, nil
}

// Lookup returns the cataloged resource for an identifier, if the
// last refresh saw it.
func (c *Catalog) Lookup(uri string) (Resource, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	resource, ok := c.byURI[uri]
	return resource, ok
}

// Len reports how many resources the current snapshot holds.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.snapshot)
}

// Resolve maps an identifier to fetched content. Cataloged resources
// fetch directly. An unknown identifier gets one fallback: if it
// decodes into bucket and key the object is fetched anyway, so that
// objects created after the last refresh still resolve. If it does
// not decode, the caller sees not-found for the identifier it sent,
// with the decode failure attached as the cause.
func (c *Catalog) Resolve(ctx context.Context, uri string) (*Content, error) {
	if resource, ok := c.Lookup(uri); ok {
		return resource.Fetch(ctx, c.gateway)
	}
	bucket, key, err := DecodeURI(uri)
	if err != nil {
		return nil, &NotFoundError{URI: uri, Err: err}
	}
	return Materialize(bucket, key).Fetch(ctx, c.gateway)
}
