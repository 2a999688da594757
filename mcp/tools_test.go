// Copyright 2026 The Stowage Authors
// SPDX-License-Identifier: Apache-2.0

package mcp

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/stowage-dev/stowage/storage"
)

// callTool runs one tools/call through an initialized session and
// returns the parsed tool result.
func callTool(t *testing.T, server *Server, name string, args map[string]any) toolsCallResult {
	t.Helper()
	responses := initializedSession(t, server, map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params":  map[string]any{"name": name, "arguments": args},
	})
	resp := responses[1]
	if resp.Error != nil {
		t.Fatalf("tools/call %s: rpc error %d: %s", name, resp.Error.Code, resp.Error.Message)
	}

	var result toolsCallResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("unmarshal tool result: %v", err)
	}
	return result
}

// toolOutput unmarshals the serialized tool output from the first
// content block, failing the test if the tool reported an error.
func toolOutput(t *testing.T, result toolsCallResult, out any) {
	t.Helper()
	if result.IsError {
		t.Fatalf("tool returned error: %s", result.Content[0].Text)
	}
	if len(result.Content) == 0 {
		t.Fatal("tool result has no content blocks")
	}
	if err := json.Unmarshal([]byte(result.Content[0].Text), out); err != nil {
		t.Fatalf("unmarshal tool output: %v\nraw: %s", err, result.Content[0].Text)
	}
}

func TestListBucketsTool(t *testing.T) {
	gateway := &fakeGateway{
		buckets: []storage.BucketInfo{
			{Name: "alpha", CreationDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)},
			{Name: "beta", CreationDate: time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)},
			{Name: "gamma", CreationDate: time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC)},
		},
	}
	server := testServer(gateway)

	result := callTool(t, server, "ListBuckets", map[string]any{})

	var buckets []storage.BucketInfo
	toolOutput(t, result, &buckets)
	if len(buckets) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(buckets))
	}
	if buckets[0].Name != "alpha" || buckets[2].Name != "gamma" {
		t.Errorf("bucket order = %q, %q, %q", buckets[0].Name, buckets[1].Name, buckets[2].Name)
	}
	if !buckets[1].CreationDate.Equal(gateway.buckets[1].CreationDate) {
		t.Errorf("creation_date = %v, want %v", buckets[1].CreationDate, gateway.buckets[1].CreationDate)
	}
	if result.StructuredContent == nil {
		t.Error("expected structuredContent for schema-declared tool")
	}
}

func TestListBucketsToolPagination(t *testing.T) {
	gateway := &fakeGateway{
		buckets: []storage.BucketInfo{
			{Name: "gamma"},
			{Name: "delta"},
		},
	}
	server := testServer(gateway)

	result := callTool(t, server, "ListBuckets", map[string]any{
		"start_after": "beta",
		"max_buckets": 1,
	})

	// The cursor travels to the gateway; the count cap narrows the
	// gateway's reply.
	if gateway.startAfter != "beta" {
		t.Errorf("gateway received start_after = %q, want %q", gateway.startAfter, "beta")
	}
	var buckets []storage.BucketInfo
	toolOutput(t, result, &buckets)
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket after max_buckets=1, got %d", len(buckets))
	}
	if buckets[0].Name != "gamma" {
		t.Errorf("bucket = %q, want %q", buckets[0].Name, "gamma")
	}
}

func TestListObjectsTool(t *testing.T) {
	gateway := &fakeGateway{
		objects: map[string][]storage.ObjectInfo{
			"docs": {
				{Key: "a/readme.md", Size: 17},
				{Key: "a/schema.sql", Size: 1024},
			},
		},
	}
	server := testServer(gateway)

	result := callTool(t, server, "ListObjects", map[string]any{
		"bucket_name": "docs",
		"prefix":      "a/",
		"max_keys":    7,
	})

	if gateway.lastList.Prefix != "a/" || gateway.lastList.MaxKeys != 7 {
		t.Errorf("gateway received opts %+v, want prefix a/ max 7", gateway.lastList)
	}
	var objects []storage.ObjectInfo
	toolOutput(t, result, &objects)
	if len(objects) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(objects))
	}
	if objects[0].Key != "a/readme.md" || objects[1].Size != 1024 {
		t.Errorf("objects = %+v", objects)
	}
}

func TestListObjectsToolRequiresBucket(t *testing.T) {
	server := testServer(&fakeGateway{})

	result := callTool(t, server, "ListObjects", map[string]any{})

	if !result.IsError {
		t.Fatal("expected isError for missing bucket_name")
	}
	if result.Content[0].Text != "bucket_name is required" {
		t.Errorf("error text = %q", result.Content[0].Text)
	}
	if result.ErrorInfo == nil || result.ErrorInfo.Category != "validation" {
		t.Errorf("errorInfo = %+v, want validation category", result.ErrorInfo)
	}
	if result.ErrorInfo != nil && result.ErrorInfo.Retryable {
		t.Error("validation errors must not be retryable")
	}
}

func TestGetObjectTool(t *testing.T) {
	modified := time.Date(2026, 4, 2, 15, 4, 5, 0, time.UTC)
	gateway := &fakeGateway{
		payloads: map[string]*storage.ObjectPayload{
			"docs/notes/readme.md": {
				Data:         []byte("hello, stowage"),
				ContentType:  "text/markdown",
				Size:         14,
				ETag:         "abc123",
				LastModified: modified,
			},
		},
	}
	server := testServer(gateway)

	result := callTool(t, server, "GetObject", map[string]any{
		"bucket_name": "docs",
		"object_name": "notes/readme.md",
	})

	var got getObjectResult
	toolOutput(t, result, &got)
	if got.BucketName != "docs" || got.ObjectName != "notes/readme.md" {
		t.Errorf("identity = %q/%q", got.BucketName, got.ObjectName)
	}
	if got.ContentType != "text/markdown" || got.Size != 14 || got.ETag != "abc123" {
		t.Errorf("metadata = %+v", got)
	}
	if !got.LastModified.Equal(modified) {
		t.Errorf("last_modified = %v, want %v", got.LastModified, modified)
	}
	body, err := base64.StdEncoding.DecodeString(got.Body)
	if err != nil {
		t.Fatalf("body is not valid base64: %v", err)
	}
	if string(body) != "hello, stowage" {
		t.Errorf("body = %q, want %q", body, "hello, stowage")
	}
}

func TestGetObjectToolMissingObject(t *testing.T) {
	server := testServer(&fakeGateway{})

	result := callTool(t, server, "GetObject", map[string]any{
		"bucket_name": "docs",
		"object_name": "missing.txt",
	})

	if !result.IsError {
		t.Fatal("expected isError for missing object")
	}
	if result.ErrorInfo == nil || result.ErrorInfo.Category != "not_found" {
		t.Errorf("errorInfo = %+v, want not_found category", result.ErrorInfo)
	}
}

func TestGetObjectToolInvalidArguments(t *testing.T) {
	server := testServer(&fakeGateway{})

	result := callTool(t, server, "GetObject", map[string]any{
		"bucket_name": 42,
	})

	if !result.IsError {
		t.Fatal("expected isError for mistyped arguments")
	}
	if result.ErrorInfo == nil || result.ErrorInfo.Category != "validation" {
		t.Errorf("errorInfo = %+v, want validation category", result.ErrorInfo)
	}
}

func TestPutObjectTool(t *testing.T) {
	content := []byte("quarterly numbers\n")
	path := filepath.Join(t.TempDir(), "report.txt")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	gateway := &fakeGateway{}
	server := testServer(gateway)

	result := callTool(t, server, "PutObject", map[string]any{
		"bucket_name": "reports",
		"object_name": "2026/q1.txt",
		"file_path":   path,
	})

	var info storage.UploadInfo
	toolOutput(t, result, &info)
	if info.Bucket != "reports" || info.Key != "2026/q1.txt" {
		t.Errorf("upload identity = %q/%q", info.Bucket, info.Key)
	}
	if info.Size != int64(len(content)) {
		t.Errorf("size = %d, want %d", info.Size, len(content))
	}

	if len(gateway.puts) != 1 {
		t.Fatalf("gateway received %d uploads, want 1", len(gateway.puts))
	}
	put := gateway.puts[0]
	if put.bucket != "reports" || put.key != "2026/q1.txt" {
		t.Errorf("put destination = %q/%q", put.bucket, put.key)
	}
	if string(put.data) != string(content) {
		t.Errorf("put data = %q, want %q", put.data, content)
	}
	if put.size != int64(len(content)) {
		t.Errorf("put size = %d, want %d", put.size, len(content))
	}
}

func TestPutObjectToolMissingFile(t *testing.T) {
	server := testServer(&fakeGateway{})

	result := callTool(t, server, "PutObject", map[string]any{
		"bucket_name": "reports",
		"object_name": "x.txt",
		"file_path":   filepath.Join(t.TempDir(), "does-not-exist.txt"),
	})

	if !result.IsError {
		t.Fatal("expected isError for missing local file")
	}
	if result.ErrorInfo == nil || result.ErrorInfo.Category != "not_found" {
		t.Errorf("errorInfo = %+v, want not_found category", result.ErrorInfo)
	}
}

func TestPutObjectToolGatewayFailure(t *testing.T) {
	content := []byte("payload")
	path := filepath.Join(t.TempDir(), "payload.bin")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	gateway := &fakeGateway{
		putErr: minio.ErrorResponse{Code: "NoSuchBucket", Message: "The specified bucket does not exist"},
	}
	server := testServer(gateway)

	result := callTool(t, server, "PutObject", map[string]any{
		"bucket_name": "absent",
		"object_name": "payload.bin",
		"file_path":   path,
	})

	if !result.IsError {
		t.Fatal("expected isError when the store rejects the upload")
	}
	if result.ErrorInfo == nil || result.ErrorInfo.Category != "not_found" {
		t.Errorf("errorInfo = %+v, want not_found category", result.ErrorInfo)
	}
}
