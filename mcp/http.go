// Copyright 2026 The Stowage Authors
// SPDX-License-Identifier: Apache-2.0

package mcp

import (
	"encoding/json"
	"io"
	"net/http"
)

// maxHTTPBody bounds a single JSON-RPC message read from an HTTP
// request body, matching the stdio scanner limit.
const maxHTTPBody = 1024 * 1024

// Handler returns the streamable-HTTP transport: one JSON-RPC message
// per POST exchange. Requests receive the JSON-RPC response as the
// body; notifications receive 202 Accepted with no body. The server
// never emits notifications, so there is no server-push stream and
// GET is rejected.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.serveHTTP)
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxHTTPBody))
	if err != nil {
		http.Error(w, "reading request body", http.StatusBadRequest)
		return
	}

	var req request
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse(json.RawMessage("null"), codeParseError, "parse error: "+err.Error()))
		return
	}

	if req.JSONRPC != "2.0" && !req.isNotification() {
		s.writeJSON(w, http.StatusOK, errorResponse(req.ID, codeInvalidRequest, "unsupported JSON-RPC version"))
		return
	}

	if req.isNotification() {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	s.writeJSON(w, http.StatusOK, s.handle(r.Context(), &req))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, resp response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		// The client is gone; there is no channel left to report on.
		s.logger.Debug("writing HTTP response failed", "error", err)
	}
}
