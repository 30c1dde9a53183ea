// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey holds the typed keys of the per-request context values.
package ctxkey

// key keeps these values apart from string keys set by other packages.
type key string

const (
	// KeyRequestID carries the X-Request-ID of the request.
	KeyRequestID key = "request_id"

	// KeyViewID carries the view addressed by a /views request.
	KeyViewID key = "view_id"

	// KeyLogger carries the request-scoped [*log/slog.Logger].
	KeyLogger key = "logger"
)
