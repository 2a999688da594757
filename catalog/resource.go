// Copyright 2026 The Stowage Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"errors"

	"github.com/stowage-dev/stowage/storage"
)

// Resource is one catalog entry: an object addressed by its minio://
// identifier, classified as text or binary from its key.
type Resource struct {
	URI      string
	Name     string
	Bucket   string
	Key      string
	IsText   bool
	MIMEType string
}

// Materialize builds the catalog entry for an object. The name is the
// object key, and the MIME type is the classification default; the
// store's own content type is only known once the object is fetched.
func Materialize(bucket, key string) Resource {
	isText := IsTextFile(key)
	return Resource{
		URI:      EncodeURI(bucket, key),
		Name:     key,
		Bucket:   bucket,
		Key:      key,
		IsText:   isText,
		MIMEType: DefaultMIMEType(isText),
	}
}

// Content is a fetched resource: the raw bytes plus the MIME type that
// should accompany them.
type Content struct {
	Resource Resource
	Data     []byte
	MIMEType string
}

// Fetch retrieves the resource's content from the store. Retrieval
// failures and empty objects both surface as
// [ResourceUnavailableError]; an object that exists but has no bytes
// is indistinguishable from one that could not be read, and clients
// get a consistent error either way. The store's reported content
// type wins over the classification default when present.
func (r Resource) Fetch(ctx context.Context, gateway storage.Gateway) (*Content, error) {
	payload, err := gateway.GetObject(ctx, r.Bucket, r.Key)
	if err != nil {
		return nil, &ResourceUnavailableError{Bucket: r.Bucket, Key: r.Key, Err: err}
	}
	if len(payload.Data) == 0 {
		return nil, &ResourceUnavailableError{Bucket: r.Bucket, Key: r.Key, Err: errors.New("object has no content")}
	}
	mimeType := payload.ContentType
	if mimeType == "" {
		mimeType = r.MIMEType
	}
	return &Content{Resource: r, Data: payload.Data, MIMEType: mimeType}, nil
}
