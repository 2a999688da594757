// Copyright 2026 The Stowage Authors
// SPDX-License-Identifier: Apache-2.0

// Package mcp implements the MCP server surface: a JSON-RPC 2.0
// dispatch loop over newline-delimited stdio or single-exchange HTTP,
// four object-storage tools with reflected JSON Schemas, and a
// catalog-backed resource provider.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/minio/minio-go/v7"

	"github.com/stowage-dev/stowage/catalog"
	"github.com/stowage-dev/stowage/lib/version"
	"github.com/stowage-dev/stowage/storage"
)

// serverName is reported in the initialize response.
const serverName = "stowage"

// Server is an MCP server fronting an object store: storage tools over
// tools/call and the object catalog over resources/list and
// resources/read. A single Server instance serves either transport;
// state shared across requests (the initialized flag) is safe for the
// concurrent requests the HTTP transport produces.
type Server struct {
	tools       []tool
	toolsByName map[string]*tool
	provider    ResourceProvider
	logger      *slog.Logger
	initialized atomic.Bool

	// Advertised as schema defaults on the listing tools.
	maxBuckets int
	maxKeys    int
}

// Options configures a Server. Zero values select the defaults.
type Options struct {
	// MaxBuckets is the configured bucket listing cap, advertised as
	// the ListBuckets max_buckets default.
	MaxBuckets int

	// MaxKeys is the configured object listing cap, advertised as the
	// ListObjects max_keys default.
	MaxKeys int

	Logger *slog.Logger
}

// tool is one registered MCP tool.
type tool struct {
	name         string
	title        string
	description  string
	annotations  *toolAnnotations
	inputSchema  *Schema
	outputSchema *Schema
	handler      func(ctx context.Context, arguments json.RawMessage) (any, error)
}

// NewServer assembles the MCP server: the four storage tools bound to
// the gateway, and the resource provider bound to the catalog.
func NewServer(gateway storage.Gateway, cat *catalog.Catalog, opts Options) *Server {
	s := &Server{
		logger:     opts.Logger,
		maxBuckets: opts.MaxBuckets,
		maxKeys:    opts.MaxKeys,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.maxBuckets <= 0 {
		s.maxBuckets = 5
	}
	if s.maxKeys <= 0 {
		s.maxKeys = 1000
	}

	s.registerTools(gateway)
	s.provider = newStorageProvider(cat, s.logger)

	return s
}

// Serve runs the stdio transport on os.Stdin and os.Stdout until EOF.
func (s *Server) Serve(ctx context.Context) error {
	return s.Run(ctx, os.Stdin, os.Stdout)
}

// Run processes JSON-RPC 2.0 requests from input and writes responses
// to output until input reaches EOF or ctx is canceled. Each request
// occupies a single line (newline-delimited JSON-RPC, not
// Content-Length framed).
func (s *Server) Run(ctx context.Context, input io.Reader, output io.Writer) error {
	scanner := bufio.NewScanner(input)
	// MCP messages can be large (object payloads travel base64-encoded
	// inside tool results).
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	encoder := json.NewEncoder(output)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			if writeErr := encoder.Encode(errorResponse(json.RawMessage("null"), codeParseError, "parse error: "+err.Error())); writeErr != nil {
				return Internal("writing parse error response: %w", writeErr)
			}
			continue
		}

		if req.JSONRPC != "2.0" {
			if !req.isNotification() {
				if writeErr := encoder.Encode(errorResponse(req.ID, codeInvalidRequest, "unsupported JSON-RPC version")); writeErr != nil {
					return Internal("writing version error response: %w", writeErr)
				}
			}
			continue
		}

		// Notifications have no ID and receive no response.
		if req.isNotification() {
			continue
		}

		if err := encoder.Encode(s.handle(ctx, &req)); err != nil {
			return Internal("writing response: %w", err)
		}
	}

	return scanner.Err()
}

// handle routes a single JSON-RPC request to its handler and returns
// the response. Both transports funnel through here.
func (s *Server) handle(ctx context.Context, req *request) response {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "ping":
		return resultResponse(req.ID, map[string]any{})
	case "tools/list":
		if !s.initialized.Load() {
			return errorResponse(req.ID, codeInvalidRequest, "server not initialized (call initialize first)")
		}
		return s.handleToolsList(req)
	case "tools/call":
		if !s.initialized.Load() {
			return errorResponse(req.ID, codeInvalidRequest, "server not initialized (call initialize first)")
		}
		return s.handleToolsCall(ctx, req)
	case "resources/list":
		if !s.initialized.Load() {
			return errorResponse(req.ID, codeInvalidRequest, "server not initialized (call initialize first)")
		}
		return s.handleResourcesList(ctx, req)
	case "resources/read":
		if !s.initialized.Load() {
			return errorResponse(req.ID, codeInvalidRequest, "server not initialized (call initialize first)")
		}
		return s.handleResourcesRead(ctx, req)
	default:
		return errorResponse(req.ID, codeMethodNotFound, "unknown method: "+req.Method)
	}
}

func (s *Server) handleInitialize(req *request) response {
	if len(req.Params) == 0 {
		return errorResponse(req.ID, codeInvalidParams, "params required for initialize")
	}

	var params initializeParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "invalid initialize params: "+err.Error())
	}

	// The MCP specification says the server responds with its own
	// protocol version and the client decides whether it can proceed.
	// We do not reject clients that request a different version —
	// all MCP versions are additive, so older clients will simply
	// ignore fields they don't recognize.
	s.initialized.Store(true)

	return resultResponse(req.ID, initializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities: serverCapabilities{
			Tools:     &toolCapability{},
			Resources: &resourceCapability{},
		},
		ServerInfo: serverInfo{
			Name:    serverName,
			Version: version.Short(),
		},
	})
}

func (s *Server) handleToolsList(req *request) response {
	descriptions := make([]toolDescription, 0, len(s.tools))
	for _, t := range s.tools {
		descriptions = append(descriptions, toolDescription{
			Name:         t.name,
			Title:        t.title,
			Description:  t.description,
			InputSchema:  t.inputSchema,
			OutputSchema: t.outputSchema,
			Annotations:  t.annotations,
		})
	}
	return resultResponse(req.ID, toolsListResult{Tools: descriptions})
}

func (s *Server) handleToolsCall(ctx context.Context, req *request) response {
	if len(req.Params) == 0 {
		return errorResponse(req.ID, codeInvalidParams, "params required for tools/call")
	}

	var params toolsCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "invalid tools/call params: "+err.Error())
	}

	t, ok := s.toolsByName[params.Name]
	if !ok {
		return errorResponse(req.ID, codeInvalidParams, "unknown tool: "+params.Name)
	}

	s.logger.Debug("tool call", "tool", t.name)
	output, runErr := t.handler(ctx, params.Arguments)
	return resultResponse(req.ID, buildToolResult(t, output, runErr))
}

// buildToolResult assembles a toolsCallResult from a tool's typed
// output and an optional run error. Successful output is serialized
// into a text content block; when the tool declares an output schema
// the typed value also travels as structuredContent, per the MCP
// specification.
func buildToolResult(t *tool, output any, runErr error) toolsCallResult {
	result := toolsCallResult{}

	if runErr != nil {
		result.IsError = true
		result.Content = append(result.Content, contentBlock{
			Type: "text",
			Text: runErr.Error(),
		})
		result.ErrorInfo = classifyError(runErr)
		return result
	}

	data, err := json.Marshal(output)
	if err != nil {
		// The handler produced a value its own result type cannot
		// serialize. A bug, not a runtime condition.
		result.IsError = true
		result.Content = append(result.Content, contentBlock{
			Type: "text",
			Text: "serializing tool output: " + err.Error(),
		})
		result.ErrorInfo = &errorInfo{Category: string(CategoryInternal)}
		return result
	}

	result.Content = append(result.Content, contentBlock{Type: "text", Text: string(data)})
	if t.outputSchema != nil {
		result.StructuredContent = output
	}

	// MCP requires at least one content block in the result.
	if len(result.Content) == 0 {
		result.Content = []contentBlock{{Type: "text", Text: ""}}
	}
	return result
}

// classifyError extracts structured error metadata from an error. It
// checks for ToolError first (handlers categorize their own
// validation failures), then falls back to known error types (MinIO
// API errors, context errors).
func classifyError(err error) *errorInfo {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return &errorInfo{
			Category:  string(toolErr.Category),
			Retryable: toolErr.Category == CategoryTransient,
		}
	}

	var minioErr minio.ErrorResponse
	if errors.As(err, &minioErr) {
		return classifyMinioError(minioErr)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &errorInfo{Category: string(CategoryTransient), Retryable: true}
	}

	return &errorInfo{Category: string(CategoryInternal), Retryable: false}
}

// classifyMinioError maps an S3 API error code to an error category.
func classifyMinioError(err minio.ErrorResponse) *errorInfo {
	switch err.Code {
	case "NoSuchBucket", "NoSuchKey", "NotFound":
		return &errorInfo{Category: string(CategoryNotFound), Retryable: false}
	case "AccessDenied", "AllAccessDisabled", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return &errorInfo{Category: string(CategoryForbidden), Retryable: false}
	case "BucketAlreadyExists", "BucketAlreadyOwnedByYou":
		return &errorInfo{Category: string(CategoryConflict), Retryable: false}
	case "SlowDown", "RequestTimeout":
		return &errorInfo{Category: string(CategoryTransient), Retryable: true}
	case "InvalidBucketName", "XMinioInvalidObjectName":
		return &errorInfo{Category: string(CategoryValidation), Retryable: false}
	default:
		return &errorInfo{Category: string(CategoryInternal), Retryable: false}
	}
}

// resultResponse builds a JSON-RPC 2.0 success response.
func resultResponse(id json.RawMessage, result any) response {
	return response{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}
}

// errorResponse builds a JSON-RPC 2.0 error response.
func errorResponse(id json.RawMessage, code int, message string) response {
	return response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &rpcError{Code: code, Message: message},
	}
}
