// Copyright 2026 The Stowage Authors
// SPDX-License-Identifier: Apache-2.0

// stowage is an MCP server in front of a MinIO (or any S3-compatible)
// object store. It exposes the store two ways over the Model Context
// Protocol:
//
//   - Tools: ListBuckets, ListObjects, GetObject, and PutObject, each
//     with a reflected JSON Schema and structured results.
//   - Resources: every object appears as a minio://bucket/key resource;
//     resources/list rebuilds the catalog from the live store, and
//     resources/read fetches content — cataloged or not — with text
//     objects classified by file extension.
//
// Two transports are supported. The default, stdio, speaks
// newline-delimited JSON-RPC 2.0 on stdin/stdout, with all logging on
// stderr. The http transport (alias: streamable-http) accepts one
// JSON-RPC message per POST on a configurable path.
//
// Configuration comes from the environment (plus an optional .env
// file) or from a YAML file given via --config; --transport, --host,
// and --port overlay the loaded configuration. See lib/config for the
// full surface.
package main
