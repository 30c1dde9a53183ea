// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package entity

import (
	"context"
	"log/slog"
	"sync"

	"github.com/taibuivan/folio/internal/catalog"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/pkg/optimistic"
	"github.com/taibuivan/folio/pkg/pagination"
)

// Library is the media-library surface of the entity pages.
type Library interface {
	ListEntities(context context.Context, kind catalog.EntityKind) ([]catalog.Entity, error)
	GetEntity(context context.Context, kind catalog.EntityKind, name string) (catalog.EntityPage, error)
	SetFavorite(context context.Context, target string, id int64, favorite bool) error
}

// Service lists entities and toggles their favorite flag.
//
// The last fetched list of every kind is kept so favorites can be toggled by
// name and patched optimistically.
type Service struct {
	library Library
	logger  *slog.Logger

	mu    sync.Mutex
	lists map[catalog.Dimension][]catalog.Entity
}

// NewService constructs a new [Service].
func NewService(library Library, logger *slog.Logger) *Service {
	return &Service{
		library: library,
		logger:  logger,
		lists:   make(map[catalog.Dimension][]catalog.Entity),
	}
}

// ListPage is one page of an entity list.
type ListPage struct {
	Kind     string           `json:"kind"`
	Label    string           `json:"label"`
	Entities []catalog.Entity `json:"entities"`
	Seed     uint64           `json:"seed,omitempty"`
}

/*
List fetches, filters, orders and paginates the entities of one kind.

Parameters:
  - context: context.Context
  - kind: catalog.EntityKind
  - query: Query
  - params: pagination.Params

Returns:
  - ListPage: The requested page
  - int: Number of matching entities
  - error: Library errors
*/
func (service *Service) List(context context.Context, kind catalog.EntityKind, query Query, params pagination.Params) (ListPage, int, error) {
	entities, err := service.library.ListEntities(context, kind)
	if err != nil {
		return ListPage{}, 0, err
	}

	service.mu.Lock()
	service.lists[kind.Dimension] = entities
	service.mu.Unlock()

	matched := Apply(entities, query)
	page := ListPage{
		Kind:     kind.Plural,
		Label:    kind.PluralLabel,
		Entities: pagination.Slice(matched, params),
	}
	if query.Sort == SortRandom {
		page.Seed = query.Seed
	}
	return page, len(matched), nil
}

// Get fetches the detail page of one entity.
func (service *Service) Get(context context.Context, kind catalog.EntityKind, name string) (catalog.EntityPage, error) {
	return service.library.GetEntity(context, kind, name)
}

/*
SetFavorite marks or unmarks an entity as favorite.

Description: The cached list is patched before the request and restored when
the library rejects it.

Returns:
  - catalog.Entity: The entity as it stands afterwards
  - error: apperr.NotFound for unknown names, or the library error
*/
func (service *Service) SetFavorite(ctx context.Context, kind catalog.EntityKind, name string, favorite bool) (catalog.Entity, error) {

	// 1. Resolve the name, fetching the list once if needed
	entity, ok := service.lookup(kind, name)
	if !ok {
		entities, err := service.library.ListEntities(ctx, kind)
		if err != nil {
			return catalog.Entity{}, err
		}
		service.mu.Lock()
		service.lists[kind.Dimension] = entities
		service.mu.Unlock()

		if entity, ok = service.lookup(kind, name); !ok {
			return catalog.Entity{}, apperr.NotFound(kind.Label)
		}
	}

	// 2. Optimistic toggle
	result, err := optimistic.Do(ctx, service.entityStore(kind, entity.ID), optimistic.Mutation[catalog.Entity]{
		Apply: func(current catalog.Entity) catalog.Entity {
			current.IsFavorite = favorite
			return current
		},
		Commit: func(ctx context.Context) error {
			return service.library.SetFavorite(ctx, kind.Singular, entity.ID, favorite)
		},
	})
	if err != nil {
		return catalog.Entity{}, err
	}

	service.logger.Info("entity_favorite_set",
		slog.String("kind", kind.Singular),
		slog.Int64("entity_id", entity.ID),
		slog.Bool("favorite", favorite),
	)
	return result, nil
}

func (service *Service) lookup(kind catalog.EntityKind, name string) (catalog.Entity, bool) {
	service.mu.Lock()
	defer service.mu.Unlock()

	for _, entity := range service.lists[kind.Dimension] {
		if entity.Name == name {
			return entity, true
		}
	}
	return catalog.Entity{}, false
}

func (service *Service) entityStore(kind catalog.EntityKind, id int64) optimistic.Store[catalog.Entity] {
	return optimistic.Func[catalog.Entity]{
		LoadFunc: func() catalog.Entity {
			service.mu.Lock()
			defer service.mu.Unlock()
			for _, entity := range service.lists[kind.Dimension] {
				if entity.ID == id {
					return entity
				}
			}
			return catalog.Entity{ID: id}
		},
		StoreFunc: func(updated catalog.Entity) {
			service.mu.Lock()
			defer service.mu.Unlock()
			list := service.lists[kind.Dimension]
			for i, entity := range list {
				if entity.ID == id {
					next := append([]catalog.Entity{}, list...)
					next[i] = updated
					service.lists[kind.Dimension] = next
					return
				}
			}
		},
	}
}

// Cached returns the last fetched list of a kind.
func (service *Service) Cached(kind catalog.EntityKind) []catalog.Entity {
	service.mu.Lock()
	defer service.mu.Unlock()
	return service.lists[kind.Dimension]
}
