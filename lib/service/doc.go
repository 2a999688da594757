// Copyright 2026 The Stowage Authors
// SPDX-License-Identifier: Apache-2.0

// Package service provides process-level plumbing shared by stowage
// binaries: structured logger bootstrap and HTTP listener lifecycle.
//
// [NewLogger] builds the standard JSON-to-stderr logger and installs
// it as the slog default. [HTTPServer] wraps net/http with early
// listener binding (so callers can learn OS-assigned ports through
// [HTTPServer.Addr]), a [HTTPServer.Ready] channel, and graceful
// context-driven shutdown.
//
// The binary composes these utilities in its own main() rather than
// subclassing a framework. The package provides building blocks, not
// a runtime.
package service
