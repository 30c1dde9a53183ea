// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package upstream is the typed client of the media-library REST API.

Every folio operation that reads or mutates catalogue data goes through this
client. It owns the translation between the library's wire format and the
[catalog] domain types, and maps every failure onto the [apperr] taxonomy:

  - Transport failure: UPSTREAM_UNAVAILABLE (502), retryable by the caller.
  - Non-2xx answer: the "error" field of the body when present, otherwise
    "HTTP <status>", with the upstream status preserved.
  - Empty result: an empty slice, never an error.
*/
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/constants"
	"github.com/taibuivan/folio/internal/platform/ctxutil"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// # Client

// Client talks to one media-library instance.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// New constructs a [Client] for baseURL ("http://localhost:8080").
func New(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("upstream: invalid base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("upstream: base URL %q must be absolute", baseURL)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

/*
Ping checks that the media library answers at all.

Any HTTP answer counts as reachable; only transport failures are reported.
*/
func (client *Client) Ping(context context.Context) error {
	request, err := http.NewRequestWithContext(context, http.MethodGet, client.endpoint("/api/doujinshi", nil), nil)
	if err != nil {
		return err
	}
	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("upstream: ping failed: %w", err)
	}
	_ = response.Body.Close()
	return nil
}

// # Transport

// call describes one request to the media library.
type call struct {
	method string
	path   string
	query  url.Values
	body   any
	out    any
}

func (client *Client) endpoint(path string, query url.Values) string {
	target := *client.baseURL
	target.Path = client.baseURL.Path + path
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}
	return target.String()
}

// do executes c and decodes the answer into c.out.
func (client *Client) do(context context.Context, c call) error {
	logger := ctxutil.GetLogger(context)

	// 1. Encode the request body
	var body io.Reader
	if c.body != nil {
		payload, err := json.Marshal(c.body)
		if err != nil {
			return apperr.Internal(fmt.Errorf("upstream: encode %s %s: %w", c.method, c.path, err))
		}
		body = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(context, c.method, client.endpoint(c.path, c.query), body)
	if err != nil {
		return apperr.Internal(fmt.Errorf("upstream: build %s %s: %w", c.method, c.path, err))
	}
	request.Header.Set("Accept", constants.MimeJSON)
	if c.body != nil {
		request.Header.Set(constants.HeaderContentType, constants.MimeJSON)
	}
	if requestID := ctxutil.GetRequestID(context); requestID != "" {
		request.Header.Set(constants.HeaderXRequestID, requestID)
	}

	// 2. Send
	startTime := time.Now()
	response, err := client.httpClient.Do(request)
	if err != nil {
		logger.WarnContext(context, "upstream_request_failed",
			slog.String("method", c.method),
			slog.String("path", c.path),
			slog.Any("error", err),
		)
		return apperr.UpstreamUnavailable(err)
	}
	defer response.Body.Close()

	logger.DebugContext(context, "upstream_request_finished",
		slog.String("method", c.method),
		slog.String("path", c.path),
		slog.Int("status", response.StatusCode),
		slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
	)

	// 3. Map non-2xx answers
	if response.StatusCode < 200 || response.StatusCode > 299 {
		message := errorMessage(response.Body)
		logger.WarnContext(context, "upstream_request_rejected",
			slog.String("method", c.method),
			slog.String("path", c.path),
			slog.Int("status", response.StatusCode),
			slog.String("message", message),
		)
		return apperr.Upstream(response.StatusCode, message)
	}

	// 4. Decode the answer, treating an empty body as an empty result
	if c.out == nil || response.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, response.Body)
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(c.out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperr.BadGateway(fmt.Errorf("upstream: decode %s %s: %w", c.method, c.path, err))
	}

	return nil
}

// errorMessage extracts the "error" field of a failed answer. Bodies that are
// not JSON, or whose error is not a string, yield "".
func errorMessage(body io.Reader) string {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&envelope); err != nil {
		return ""
	}

	var message string
	if err := json.Unmarshal(envelope.Error, &message); err != nil {
		return ""
	}
	return strings.TrimSpace(message)
}
