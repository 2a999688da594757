// Copyright 2026 The Stowage Authors
// SPDX-License-Identifier: Apache-2.0

package mcp

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"

	"github.com/stowage-dev/stowage/catalog"
)

// storageProvider adapts the object catalog to the MCP resource
// interface.
type storageProvider struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

func newStorageProvider(cat *catalog.Catalog, logger *slog.Logger) *storageProvider {
	return &storageProvider{catalog: cat, logger: logger}
}

// Handles claims every URI under the minio scheme, including ones the
// catalog has not seen: reads fall back to direct resolution.
func (p *storageProvider) Handles(uri string) bool {
	return strings.HasPrefix(uri, catalog.Scheme+"://")
}

// List rebuilds the catalog and describes the fresh snapshot. The
// template advertises that arbitrary bucket/key pairs are readable
// even when a listing cap kept them out of the snapshot.
func (p *storageProvider) List(ctx context.Context) ([]resourceDescription, []resourceTemplate, error) {
	resources, err := p.catalog.Refresh(ctx)
	if err != nil {
		p.logger.Error("catalog refresh failed", "error", err)
		return nil, nil, err
	}

	descriptions := make([]resourceDescription, 0, len(resources))
	for _, resource := range resources {
		descriptions = append(descriptions, resourceDescription{
			URI:      resource.URI,
			Name:     resource.Name,
			MIMEType: resource.MIMEType,
		})
	}
	templates := []resourceTemplate{{
		URITemplate: "minio://{bucket}/{key}",
		Name:        "Object by bucket and key",
		Description: "Any object in the store, cataloged or not; reads resolve the bucket and key directly.",
	}}
	return descriptions, templates, nil
}

// Read resolves and fetches one object. Content is base64-encoded on
// the wire in both cases: binary resources carry it in the blob field
// per MCP, and text resources carry base64 in the text field rather
// than raw text. Clients decode the text field unconditionally; the
// encoding is a compatibility contract, not an accident.
func (p *storageProvider) Read(ctx context.Context, uri string) ([]resourceContent, error) {
	content, err := p.catalog.Resolve(ctx, uri)
	if err != nil {
		p.logger.Error("resource read failed", "uri", uri, "error", err)
		return nil, err
	}

	encoded := base64.StdEncoding.EncodeToString(content.Data)
	if content.Resource.IsText {
		return []resourceContent{{URI: uri, MIMEType: content.MIMEType, Text: encoded}}, nil
	}
	return []resourceContent{{URI: uri, MIMEType: content.MIMEType, Blob: encoded}}, nil
}
