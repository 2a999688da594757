// Copyright 2026 The Stowage Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"path"
	"strings"
)

// textExtensions lists the file extensions served as text resources.
// Everything else is treated as binary.
var textExtensions = map[string]struct{}{
	".txt":  {},
	".md":   {},
	".json": {},
	".xml":  {},
	".html": {},
	".htm":  {},
	".css":  {},
	".js":   {},
	".py":   {},
	".java": {},
	".c":    {},
	".cpp":  {},
	".h":    {},
	".hpp":  {},
	".sh":   {},
	".bat":  {},
	".yml":  {},
	".yaml": {},
	".toml": {},
	".ini":  {},
	".cfg":  {},
	".conf": {},
	".log":  {},
	".csv":  {},
	".tsv":  {},
	".sql":  {},
	".r":    {},
	".rb":   {},
	".go":   {},
	".rs":   {},
	".php":  {},
}

// IsTextFile classifies an object key by its extension, case
// insensitively. Keys without a listed extension are binary.
func IsTextFile(key string) bool {
	_, ok := textExtensions[strings.ToLower(path.Ext(key))]
	return ok
}

// DefaultMIMEType is the MIME type assumed for a resource when the
// store does not report one.
func DefaultMIMEType(isText bool) string {
	if isText {
		return "text/plain"
	}
	return "application/octet-stream"
}
