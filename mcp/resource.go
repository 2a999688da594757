// Copyright 2026 The Stowage Authors
// SPDX-License-Identifier: Apache-2.0

package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/stowage-dev/stowage/catalog"
)

// ResourceProvider is the interface for a class of MCP resources. A
// provider owns a URI prefix and knows how to list available
// instances and read their content.
//
// The provider is registered on the Server at construction and
// dispatched by the resource request handlers based on URI matching.
type ResourceProvider interface {
	// Handles returns true if this provider owns the given URI. The
	// server routes resources/read to the provider only when it
	// returns true.
	Handles(uri string) bool

	// List returns concrete resource descriptions and URI templates
	// available from this provider. Listing may hit the backing
	// store; a failure there fails the whole resources/list request.
	List(ctx context.Context) ([]resourceDescription, []resourceTemplate, error)

	// Read returns the current content of a resource. The URI has
	// already been validated by Handles. Returns an error if the
	// resource cannot be read (unknown identifier, store unavailable).
	Read(ctx context.Context, uri string) ([]resourceContent, error)
}

func (s *Server) handleResourcesList(ctx context.Context, req *request) response {
	if s.provider == nil {
		return resultResponse(req.ID, resourcesListResult{Resources: []resourceDescription{}})
	}

	resources, templates, err := s.provider.List(ctx)
	if err != nil {
		return errorResponse(req.ID, codeInternalError, err.Error())
	}
	if resources == nil {
		resources = []resourceDescription{}
	}
	return resultResponse(req.ID, resourcesListResult{
		Resources:         resources,
		ResourceTemplates: templates,
	})
}

func (s *Server) handleResourcesRead(ctx context.Context, req *request) response {
	if len(req.Params) == 0 {
		return errorResponse(req.ID, codeInvalidParams, "params required for resources/read")
	}

	var params resourcesReadParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "invalid resources/read params: "+err.Error())
	}
	if params.URI == "" {
		return errorResponse(req.ID, codeInvalidParams, "uri is required")
	}

	if s.provider == nil || !s.provider.Handles(params.URI) {
		return errorResponse(req.ID, codeInvalidParams, "unknown resource: "+params.URI)
	}

	contents, err := s.provider.Read(ctx, params.URI)
	if err != nil {
		var notFound *catalog.NotFoundError
		if errors.As(err, &notFound) {
			return errorResponse(req.ID, codeInvalidParams, err.Error())
		}
		return errorResponse(req.ID, codeInternalError, err.Error())
	}
	return resultResponse(req.ID, resourcesReadResult{Contents: contents})
}
