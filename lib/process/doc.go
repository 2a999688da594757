// Copyright 2026 The Stowage Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides entrypoint helpers for the stowage binary:
// fatal error reporting to stderr for errors that surface before the
// structured logger exists or after it is gone.
//
// Raw writes anywhere else in the server either interleave with the
// JSON log stream or, worse, land on stdout and corrupt the JSON-RPC
// channel of the stdio transport. Keeping the one legitimate
// raw-stderr pattern here (and the --version output in lib/version)
// makes every other fmt.Fprintf a review flag.
package process
