// Copyright 2026 The Stowage Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import "fmt"

// MalformedIdentifierError reports a resource identifier that does not
// name a bucket/key pair under the minio scheme.
type MalformedIdentifierError struct {
	URI    string
	Reason string
	Err    error
}

func (e *MalformedIdentifierError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed resource identifier %q: %s: %v", e.URI, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed resource identifier %q: %s", e.URI, e.Reason)
}

func (e *MalformedIdentifierError) Unwrap() error { return e.Err }

// NotFoundError reports a resource identifier the catalog cannot
// resolve. When the fallback decode also failed, Err carries that
// cause, but the message stays a plain not-found so callers see the
// identifier they asked for rather than parser internals.
type NotFoundError struct {
	URI string
	Err error
}

func (e *NotFoundError) Error() string { return "unknown resource: " + e.URI }

func (e *NotFoundError) Unwrap() error { return e.Err }

// ResourceUnavailableError reports an object whose identity resolved
// but whose content could not be retrieved.
type ResourceUnavailableError struct {
	Bucket string
	Key    string
	Err    error
}

func (e *ResourceUnavailableError) Error() string {
	return fmt.Sprintf("resource %s/%s unavailable: %v", e.Bucket, e.Key, e.Err)
}

func (e *ResourceUnavailableError) Unwrap() error { return e.Err }

// CatalogUnavailableError reports a refresh that could not even
// enumerate buckets. The previous catalog contents stay in place when
// this is returned.
type CatalogUnavailableError struct {
	Err error
}

func (e *CatalogUnavailableError) Error() string {
	return fmt.Sprintf("catalog unavailable: %v", e.Err)
}

func (e *CatalogUnavailableError) Unwrap() error { return e.Err }
