// Copyright 2026 The Stowage Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"net/url"
	"strings"
)

// Scheme is the URI scheme under which catalog resources are
// published.
const Scheme = "minio"

const schemePrefix = Scheme + "://"

// EncodeURI builds the canonical identifier for an object. Bucket and
// key are embedded verbatim; keys with unusual characters round-trip
// because DecodeURI splits on the first slash only, and bucket names
// cannot contain slashes.
func EncodeURI(bucket, key string) string {
	return schemePrefix + bucket + "/" + key
}

// DecodeURI splits an identifier back into bucket and key. The
// remainder after the scheme is percent-decoded before the split, so
// clients that escape their URIs and clients that send them raw both
// resolve.
func DecodeURI(uri string) (bucket, key string, err error) {
	if !strings.HasPrefix(uri, schemePrefix) {
		return "", "", &MalformedIdentifierError{URI: uri, Reason: "unsupported scheme"}
	}
	rest, unescapeErr := url.PathUnescape(uri[len(schemePrefix):])
	if unescapeErr != nil {
		return "", "", &MalformedIdentifierError{URI: uri, Reason: "invalid percent-encoding", Err: unescapeErr}
	}
	slash := strings.IndexByte(rest, '/')
	if slash <= 0 || slash == len(rest)-1 {
		return "", "", &MalformedIdentifierError{URI: uri, Reason: "want bucket/key after scheme"}
	}
	return rest[:slash], rest[slash+1:], nil
}
