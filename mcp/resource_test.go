// Copyright 2026 The Stowage Authors
// SPDX-License-Identifier: Apache-2.0

package mcp

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stowage-dev/stowage/storage"
)

// listResources runs one resources/list through an initialized session.
func listResources(t *testing.T, server *Server) testResponse {
	t.Helper()
	responses := initializedSession(t, server, map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "resources/list",
	})
	return responses[1]
}

// readResource runs one resources/read through an initialized session.
func readResource(t *testing.T, server *Server, params map[string]any) testResponse {
	t.Helper()
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "resources/read",
	}
	if params != nil {
		msg["params"] = params
	}
	responses := initializedSession(t, server, msg)
	return responses[1]
}

func TestResourcesList(t *testing.T) {
	gateway := &fakeGateway{
		buckets: []storage.BucketInfo{{Name: "docs"}, {Name: "media"}},
		objects: map[string][]storage.ObjectInfo{
			"docs":  {{Key: "readme.md"}, {Key: "logo.png"}},
			"media": {{Key: "clip.mp4"}},
		},
	}
	server := testServer(gateway)

	resp := listResources(t, server)
	if resp.Error != nil {
		t.Fatalf("resources/list failed: %q", resp.Error.Message)
	}

	var result resourcesListResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}

	// Buckets are walked concurrently, so listing order is not fixed.
	mimeByURI := make(map[string]string, len(result.Resources))
	for _, resource := range result.Resources {
		mimeByURI[resource.URI] = resource.MIMEType
	}
	want := map[string]string{
		"minio://docs/readme.md": "text/plain",
		"minio://docs/logo.png":  "application/octet-stream",
		"minio://media/clip.mp4": "application/octet-stream",
	}
	if len(mimeByURI) != len(want) {
		t.Fatalf("resources = %v, want %d entries", mimeByURI, len(want))
	}
	for uri, mime := range want {
		if mimeByURI[uri] != mime {
			t.Errorf("resource %s mimeType = %q, want %q", uri, mimeByURI[uri], mime)
		}
	}

	if len(result.ResourceTemplates) != 1 {
		t.Fatalf("expected 1 resource template, got %d", len(result.ResourceTemplates))
	}
	if result.ResourceTemplates[0].URITemplate != "minio://{bucket}/{key}" {
		t.Errorf("uriTemplate = %q", result.ResourceTemplates[0].URITemplate)
	}
}

func TestResourcesListRefreshFailure(t *testing.T) {
	gateway := &fakeGateway{bucketsErr: errors.New("connection refused")}
	server := testServer(gateway)

	resp := listResources(t, server)
	if resp.Error == nil {
		t.Fatal("expected error when bucket enumeration fails")
	}
	if resp.Error.Code != codeInternalError {
		t.Errorf("error code = %d, want %d", resp.Error.Code, codeInternalError)
	}
	if !strings.Contains(resp.Error.Message, "catalog unavailable") {
		t.Errorf("error = %q, want it to mention catalog unavailability", resp.Error.Message)
	}
}

func TestResourcesReadTextEncodesBase64(t *testing.T) {
	gateway := &fakeGateway{
		payloads: map[string]*storage.ObjectPayload{
			"docs/readme.md": {Data: []byte("# Stowage\n"), Size: 10},
		},
	}
	server := testServer(gateway)

	resp := readResource(t, server, map[string]any{"uri": "minio://docs/readme.md"})
	if resp.Error != nil {
		t.Fatalf("resources/read failed: %q", resp.Error.Message)
	}

	var result resourcesReadResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("expected 1 content item, got %d", len(result.Contents))
	}

	content := result.Contents[0]
	if content.URI != "minio://docs/readme.md" {
		t.Errorf("uri = %q", content.URI)
	}
	if content.MIMEType != "text/plain" {
		t.Errorf("mimeType = %q, want text/plain", content.MIMEType)
	}
	if content.Blob != "" {
		t.Errorf("text resource has blob field: %q", content.Blob)
	}
	// Text resources still travel base64-encoded in the text field.
	decoded, err := base64.StdEncoding.DecodeString(content.Text)
	if err != nil {
		t.Fatalf("text field is not valid base64: %v", err)
	}
	if string(decoded) != "# Stowage\n" {
		t.Errorf("decoded text = %q, want %q", decoded, "# Stowage\n")
	}
}

func TestResourcesReadBinaryUsesBlob(t *testing.T) {
	raw := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}
	gateway := &fakeGateway{
		payloads: map[string]*storage.ObjectPayload{
			"docs/logo.png": {Data: raw, ContentType: "image/png", Size: int64(len(raw))},
		},
	}
	server := testServer(gateway)

	resp := readResource(t, server, map[string]any{"uri": "minio://docs/logo.png"})
	if resp.Error != nil {
		t.Fatalf("resources/read failed: %q", resp.Error.Message)
	}

	var result resourcesReadResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	content := result.Contents[0]
	if content.MIMEType != "image/png" {
		t.Errorf("mimeType = %q, want image/png", content.MIMEType)
	}
	if content.Text != "" {
		t.Errorf("binary resource has text field: %q", content.Text)
	}
	decoded, err := base64.StdEncoding.DecodeString(content.Blob)
	if err != nil {
		t.Fatalf("blob field is not valid base64: %v", err)
	}
	if string(decoded) != string(raw) {
		t.Errorf("decoded blob = %v, want %v", decoded, raw)
	}
}

func TestResourcesReadUnknownScheme(t *testing.T) {
	server := testServer(&fakeGateway{})

	resp := readResource(t, server, map[string]any{"uri": "vault://docs/readme.md"})
	if resp.Error == nil {
		t.Fatal("expected error for foreign scheme")
	}
	if resp.Error.Code != codeInvalidParams {
		t.Errorf("error code = %d, want %d", resp.Error.Code, codeInvalidParams)
	}
	if resp.Error.Message != "unknown resource: vault://docs/readme.md" {
		t.Errorf("error = %q", resp.Error.Message)
	}
}

func TestResourcesReadMalformedURI(t *testing.T) {
	server := testServer(&fakeGateway{})

	resp := readResource(t, server, map[string]any{"uri": "minio://bucketonly"})
	if resp.Error == nil {
		t.Fatal("expected error for identifier without a key")
	}
	if resp.Error.Code != codeInvalidParams {
		t.Errorf("error code = %d, want %d", resp.Error.Code, codeInvalidParams)
	}
	if resp.Error.Message != "unknown resource: minio://bucketonly" {
		t.Errorf("error = %q", resp.Error.Message)
	}
}

func TestResourcesReadMissingURI(t *testing.T) {
	server := testServer(&fakeGateway{})

	resp := readResource(t, server, map[string]any{})
	if resp.Error == nil || resp.Error.Message != "uri is required" {
		t.Fatalf("response = %+v, want 'uri is required'", resp.Error)
	}

	resp = readResource(t, server, nil)
	if resp.Error == nil || !strings.Contains(resp.Error.Message, "params required") {
		t.Fatalf("response = %+v, want missing-params error", resp.Error)
	}
}

func TestResourcesReadStoreFailure(t *testing.T) {
	gateway := &fakeGateway{getErr: errors.New("connection reset")}
	server := testServer(gateway)

	resp := readResource(t, server, map[string]any{"uri": "minio://docs/readme.md"})
	if resp.Error == nil {
		t.Fatal("expected error when the store cannot serve the object")
	}
	if resp.Error.Code != codeInternalError {
		t.Errorf("error code = %d, want %d", resp.Error.Code, codeInternalError)
	}
	if !strings.Contains(resp.Error.Message, "unavailable") {
		t.Errorf("error = %q, want it to mention unavailability", resp.Error.Message)
	}
}
