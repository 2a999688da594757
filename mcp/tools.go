// Copyright 2026 The Stowage Authors
// SPDX-License-Identifier: Apache-2.0

package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/stowage-dev/stowage/storage"
)

type listBucketsParams struct {
	StartAfter string `json:"start_after" desc:"only list buckets whose names sort strictly after this name"`
	MaxBuckets int    `json:"max_buckets" desc:"maximum number of buckets to return"`
}

type listObjectsParams struct {
	BucketName string `json:"bucket_name" desc:"bucket to list" required:"true"`
	Prefix     string `json:"prefix" desc:"only list keys beginning with this prefix"`
	MaxKeys    int    `json:"max_keys" desc:"maximum number of keys to return"`
}

type getObjectParams struct {
	BucketName string `json:"bucket_name" desc:"bucket holding the object" required:"true"`
	ObjectName string `json:"object_name" desc:"key of the object to retrieve" required:"true"`
}

type putObjectParams struct {
	BucketName string `json:"bucket_name" desc:"destination bucket" required:"true"`
	ObjectName string `json:"object_name" desc:"key to store the object under" required:"true"`
	FilePath   string `json:"file_path" desc:"path to a local file whose content becomes the object" required:"true"`
}

// getObjectResult is the GetObject tool result. Body is always
// base64-encoded regardless of content type, so binary objects survive
// the JSON transport unchanged.
type getObjectResult struct {
	BucketName   string    `json:"bucket_name"`
	ObjectName   string    `json:"object_name"`
	ContentType  string    `json:"content_type,omitempty" desc:"content type reported by the store"`
	Size         int64     `json:"size"`
	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"last_modified"`
	Body         string    `json:"body" desc:"object content, base64-encoded"`
}

// registerTools builds the four storage tools. The configured listing
// caps are advertised as schema defaults so clients see the server's
// actual limits rather than a hardcoded number.
func (s *Server) registerTools(gateway storage.Gateway) {
	s.tools = []tool{
		s.listBucketsTool(gateway),
		s.listObjectsTool(gateway),
		s.getObjectTool(gateway),
		s.putObjectTool(gateway),
	}
	s.toolsByName = make(map[string]*tool, len(s.tools))
	for i := range s.tools {
		s.toolsByName[s.tools[i].name] = &s.tools[i]
	}
}

func (s *Server) listBucketsTool(gateway storage.Gateway) tool {
	inputSchema := mustParamsSchema(&listBucketsParams{})
	inputSchema.Properties["max_buckets"].Default = s.maxBuckets

	return tool{
		name:  "ListBuckets",
		title: "List buckets",
		description: "List buckets in the object store, in store order. " +
			"For pagination, pass the last bucket name of the previous page as start_after.",
		annotations:  readOnlyAnnotations(),
		inputSchema:  inputSchema,
		outputSchema: mustOutputSchema([]storage.BucketInfo{}),
		handler: func(ctx context.Context, arguments json.RawMessage) (any, error) {
			var params listBucketsParams
			if err := unmarshalArguments(arguments, &params); err != nil {
				return nil, err
			}
			buckets, err := gateway.ListBuckets(ctx, params.StartAfter)
			if err != nil {
				return nil, err
			}
			// The gateway enforces the configured cap; the caller may
			// narrow further but never widen.
			if params.MaxBuckets > 0 && len(buckets) > params.MaxBuckets {
				buckets = buckets[:params.MaxBuckets]
			}
			return buckets, nil
		},
	}
}

func (s *Server) listObjectsTool(gateway storage.Gateway) tool {
	inputSchema := mustParamsSchema(&listObjectsParams{})
	inputSchema.Properties["max_keys"].Default = s.maxKeys

	return tool{
		name:  "ListObjects",
		title: "List objects",
		description: "List object keys in a bucket recursively, with their sizes and " +
			"modification times. An optional prefix narrows the listing.",
		annotations:  readOnlyAnnotations(),
		inputSchema:  inputSchema,
		outputSchema: mustOutputSchema([]storage.ObjectInfo{}),
		handler: func(ctx context.Context, arguments json.RawMessage) (any, error) {
			var params listObjectsParams
			if err := unmarshalArguments(arguments, &params); err != nil {
				return nil, err
			}
			if params.BucketName == "" {
				return nil, Validation("bucket_name is required")
			}
			return gateway.ListObjects(ctx, params.BucketName, storage.ListOptions{
				Prefix:  params.Prefix,
				MaxKeys: params.MaxKeys,
			})
		},
	}
}

func (s *Server) getObjectTool(gateway storage.Gateway) tool {
	return tool{
		name:  "GetObject",
		title: "Get object",
		description: "Retrieve an object's content and metadata. The body is " +
			"base64-encoded regardless of content type.",
		annotations:  readOnlyAnnotations(),
		inputSchema:  mustParamsSchema(&getObjectParams{}),
		outputSchema: mustOutputSchema(getObjectResult{}),
		handler: func(ctx context.Context, arguments json.RawMessage) (any, error) {
			var params getObjectParams
			if err := unmarshalArguments(arguments, &params); err != nil {
				return nil, err
			}
			if params.BucketName == "" {
				return nil, Validation("bucket_name is required")
			}
			if params.ObjectName == "" {
				return nil, Validation("object_name is required")
			}
			payload, err := gateway.GetObject(ctx, params.BucketName, params.ObjectName)
			if err != nil {
				return nil, err
			}
			return getObjectResult{
				BucketName:   params.BucketName,
				ObjectName:   params.ObjectName,
				ContentType:  payload.ContentType,
				Size:         payload.Size,
				ETag:         payload.ETag,
				LastModified: payload.LastModified,
				Body:         base64.StdEncoding.EncodeToString(payload.Data),
			}, nil
		},
	}
}

func (s *Server) putObjectTool(gateway storage.Gateway) tool {
	return tool{
		name:  "PutObject",
		title: "Put object",
		description: "Upload a file from the server's local filesystem to a bucket. " +
			"An existing object under the same key is overwritten.",
		annotations: &toolAnnotations{
			ReadOnlyHint:    boolPtr(false),
			DestructiveHint: boolPtr(false),
			IdempotentHint:  boolPtr(true),
			OpenWorldHint:   boolPtr(true),
		},
		inputSchema:  mustParamsSchema(&putObjectParams{}),
		outputSchema: mustOutputSchema(storage.UploadInfo{}),
		handler: func(ctx context.Context, arguments json.RawMessage) (any, error) {
			var params putObjectParams
			if err := unmarshalArguments(arguments, &params); err != nil {
				return nil, err
			}
			if params.BucketName == "" {
				return nil, Validation("bucket_name is required")
			}
			if params.ObjectName == "" {
				return nil, Validation("object_name is required")
			}
			if params.FilePath == "" {
				return nil, Validation("file_path is required")
			}

			file, err := os.Open(params.FilePath)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil, NotFound("file not found: %s", params.FilePath)
				}
				return nil, Internal("opening %s: %w", params.FilePath, err)
			}
			defer file.Close()

			stat, err := file.Stat()
			if err != nil {
				return nil, Internal("stat %s: %w", params.FilePath, err)
			}
			return gateway.PutObject(ctx, params.BucketName, params.ObjectName, file, stat.Size())
		},
	}
}

// readOnlyAnnotations marks a tool as a safe, repeatable read against
// the external store.
func readOnlyAnnotations() *toolAnnotations {
	return &toolAnnotations{
		ReadOnlyHint:    boolPtr(true),
		DestructiveHint: boolPtr(false),
		IdempotentHint:  boolPtr(true),
		OpenWorldHint:   boolPtr(true),
	}
}

func boolPtr(value bool) *bool {
	return &value
}

// unmarshalArguments overlays the client's JSON arguments onto params.
// Absent or null arguments leave params at its zero value.
func unmarshalArguments(arguments json.RawMessage, params any) error {
	if len(arguments) == 0 || string(arguments) == "null" {
		return nil
	}
	if err := json.Unmarshal(arguments, params); err != nil {
		return Validation("invalid arguments: %w", err)
	}
	return nil
}

// mustParamsSchema builds the input schema for a tool's parameter
// struct. Registration runs once at startup; a failure here is a
// programming error in the struct tags, not a runtime condition.
func mustParamsSchema(params any) *Schema {
	schema, err := ParamsSchema(params)
	if err != nil {
		panic("mcp: tool input schema: " + err.Error())
	}
	return schema
}

// mustOutputSchema builds the output schema for a tool's result type.
func mustOutputSchema(output any) *Schema {
	schema, err := OutputSchema(output)
	if err != nil {
		panic("mcp: tool output schema: " + err.Error())
	}
	return schema
}
