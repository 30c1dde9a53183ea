// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware holds the HTTP chain mounted in front of every folio route.

Order matters: [RequestID] must run before [StructuredLogger] so the request
logger carries the ID, and [PanicRecovery] must sit inside the logger so a
recovered panic is still logged as a finished request.

Failures are written with [respond.Error], so clients see the same error
envelope from the chain as from the handlers.
*/
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/constants"
	"github.com/taibuivan/folio/internal/platform/ctxutil"
	"github.com/taibuivan/folio/internal/platform/respond"
)

// # Request Tracing

// RequestID keeps the client's X-Request-ID or issues a UUIDv7 one, and echoes
// it on the response.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestID := request.Header.Get(constants.HeaderXRequestID)
			if requestID == "" {
				requestID = newRequestID()
			}

			writer.Header().Set(constants.HeaderXRequestID, requestID)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithRequestID(request.Context(), requestID)))
		})
	}
}

func newRequestID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// # Activity Logging

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

/*
StructuredLogger attaches a request-scoped logger and logs every finished
request.

Description: The level follows the status (5xx error, 4xx warn, else info).
Records carry the chi route pattern so /views/{viewID} requests group by
endpoint rather than by view.
*/
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			start := time.Now()

			// 1. Request logger
			requestLogger := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)
			ctx := ctxutil.WithLogger(request.Context(), requestLogger)
			recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(recorder, request.WithContext(ctx))

			// 2. Completion record
			level := slog.LevelInfo
			switch {
			case recorder.status >= http.StatusInternalServerError:
				level = slog.LevelError
			case recorder.status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			attrs := []any{
				slog.Int("status", recorder.status),
				slog.Int64("latency_ms", time.Since(start).Milliseconds()),
			}
			if pattern := routePattern(request); pattern != "" {
				attrs = append(attrs, slog.String("route", pattern))
			}
			requestLogger.Log(ctx, level, "http_request_finished", attrs...)
		})
	}
}

// # Rate Limiting

// Limit is the token bucket granted to each client IP.
type Limit struct {
	RPS   float64
	Burst int
}

// DefaultLimit is the bucket used by the API server.
var DefaultLimit = Limit{RPS: constants.DefaultRateLimitRPS, Burst: constants.DefaultRateLimitBurst}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type visitors struct {
	mu     sync.Mutex
	limit  Limit
	byAddr map[string]*visitor
}

func (set *visitors) allow(addr string, now time.Time) bool {
	set.mu.Lock()
	defer set.mu.Unlock()

	entry, ok := set.byAddr[addr]
	if !ok {
		entry = &visitor{limiter: rate.NewLimiter(rate.Limit(set.limit.RPS), set.limit.Burst)}
		set.byAddr[addr] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

func (set *visitors) evictIdle(now time.Time) {
	set.mu.Lock()
	defer set.mu.Unlock()

	for addr, entry := range set.byAddr {
		if now.Sub(entry.lastSeen) > constants.RateLimitClientTTL {
			delete(set.byAddr, addr)
		}
	}
}

/*
RateLimit throttles each client IP to limit and answers 429 RATE_LIMITED once
its bucket is empty.

Description: Idle clients are evicted in the background until ctx is done.
Sentinel and viewer activity calls arrive in bursts while scrolling, so the
burst is sized above the steady rate.
*/
func RateLimit(ctx context.Context, limit Limit) func(http.Handler) http.Handler {
	set := &visitors{limit: limit, byAddr: make(map[string]*visitor)}

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				set.evictIdle(now)
			case <-ctx.Done():
				return
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if !set.allow(RealIP(request), time.Now()) {
				respond.Error(writer, request, apperr.RateLimited(1))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// # Safety

// PanicRecovery logs a panic with its stack and answers 500 INTERNAL_ERROR.
func PanicRecovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}

				stack := make([]byte, 4096)
				stack = stack[:runtime.Stack(stack, false)]

				requestLogger := ctxutil.GetLogger(request.Context())
				if requestLogger == slog.Default() {
					requestLogger = logger
				}
				requestLogger.ErrorContext(request.Context(), "panic_recovered",
					slog.Any("error", recovered),
					slog.String("stack", string(stack)),
				)

				respond.Error(writer, request, apperr.Internal(fmt.Errorf("panic: %v", recovered)))
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Cross-Origin Resource Sharing

// AppConfig is the part of the configuration CORS reads.
type AppConfig interface {
	IsDevelopment() bool
	OriginSuffix() string
	ExtraOriginList() []string
}

/*
CORS admits browser origins for the gallery UI.

Description: Development admits every origin. Otherwise an origin must end
with the configured suffix or be listed in the extra origins (LAN tablets and
desktops serving the UI from another host). Pre-flight requests end here with
204.
*/
func CORS(cfg AppConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			if originAllowed(cfg, origin) {
				header := writer.Header()
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				header.Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, X-Request-ID")
				header.Set("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")
				header.Set("Access-Control-Max-Age", "300")
				header.Add("Vary", constants.HeaderOrigin)
			}

			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

func originAllowed(cfg AppConfig, origin string) bool {
	if cfg.IsDevelopment() {
		return true
	}
	if suffix := cfg.OriginSuffix(); suffix != "" && strings.HasSuffix(origin, suffix) {
		return true
	}
	return slices.Contains(cfg.ExtraOriginList(), origin)
}

// # Helpers

// RealIP returns the client address, preferring X-Real-IP, then the first
// X-Forwarded-For hop, then the connection address.
func RealIP(request *http.Request) string {
	if ip := request.Header.Get(constants.HeaderXRealIP); ip != "" {
		return ip
	}
	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}

func routePattern(request *http.Request) string {
	if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
		return routeContext.RoutePattern()
	}
	return ""
}
