// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/folio/internal/catalog"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/ctxutil"
)

// sidebarConcurrency bounds the parallel list fetches of the filter sidebar.
const sidebarConcurrency = 5

// # Entities

// ListEntities fetches every entity of one kind ("GET /api/artists").
func (client *Client) ListEntities(context context.Context, kind catalog.EntityKind) ([]catalog.Entity, error) {
	var envelope map[string]json.RawMessage
	if err := client.do(context, call{method: http.MethodGet, path: "/api/" + kind.Plural, out: &envelope}); err != nil {
		return nil, err
	}

	raw, ok := envelope[kind.Plural]
	if !ok || isNull(raw) {
		return []catalog.Entity{}, nil
	}

	var entities []catalog.Entity
	if err := json.Unmarshal(raw, &entities); err != nil {
		return nil, apperr.BadGateway(fmt.Errorf("upstream: decode %s: %w", kind.Plural, err))
	}
	if entities == nil {
		return []catalog.Entity{}, nil
	}
	return entities, nil
}

// GetEntity fetches the detail page of one entity by name.
func (client *Client) GetEntity(context context.Context, kind catalog.EntityKind, name string) (catalog.EntityPage, error) {
	var envelope entityPageDTO
	query := url.Values{"name": {name}}
	if err := client.do(context, call{method: http.MethodGet, path: "/api/" + kind.Singular + "/0", query: query, out: &envelope}); err != nil {
		return catalog.EntityPage{}, err
	}

	page, err := envelope.page(kind)
	if err != nil {
		return catalog.EntityPage{}, apperr.BadGateway(fmt.Errorf("upstream: decode %s details: %w", kind.Singular, err))
	}
	if page.Details.Name == "" {
		page.Details.Name = name
	}
	return page, nil
}

/*
Sidebar fetches the entity lists of the filter sidebar concurrently.

Each list is independent: a failing kind is logged and left out of the
result, the other kinds are still returned.
*/
func (client *Client) Sidebar(context context.Context, kinds []catalog.EntityKind) map[catalog.Dimension][]catalog.Entity {
	var (
		mu     sync.Mutex
		result = make(map[catalog.Dimension][]catalog.Entity, len(kinds))
		group  errgroup.Group
	)
	group.SetLimit(sidebarConcurrency)

	for _, kind := range kinds {
		group.Go(func() error {
			entities, err := client.ListEntities(context, kind)
			if err != nil {
				ctxutil.GetLogger(context).WarnContext(context, "sidebar_list_failed",
					slog.String("kind", kind.Plural),
					slog.Any("error", err),
				)
				return nil
			}

			mu.Lock()
			result[kind.Dimension] = entities
			mu.Unlock()
			return nil
		})
	}

	_ = group.Wait()
	return result
}
