// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil reads and writes the per-request values of [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/folio/internal/platform/ctxkey"
)

func value[T any](ctx context.Context, key any) (T, bool) {
	v, ok := ctx.Value(key).(T)
	return v, ok
}

// # Request Tracing

// WithRequestID attaches the request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID returns the request ID, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := value[string](ctx, ctxkey.KeyRequestID)
	return id
}

// # View Sessions

// WithViewID attaches the ID of the view a request operates on.
func WithViewID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyViewID, id)
}

// viewID returns the view ID, or "" when the request addresses no view.
func viewID(ctx context.Context) string {
	id, _ := value[string](ctx, ctxkey.KeyViewID)
	return id
}

// # Structured Logging

// WithLogger attaches the request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger returns the request-scoped logger, or [slog.Default] when none is
// attached. When the request addresses a view, records carry its view_id.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := value[*slog.Logger](ctx, ctxkey.KeyLogger)
	if !ok || logger == nil {
		logger = slog.Default()
	}
	if id := viewID(ctx); id != "" {
		return logger.With(slog.String("view_id", id))
	}
	return logger
}
