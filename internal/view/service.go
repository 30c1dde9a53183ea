// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package view

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taibuivan/folio/internal/catalog"
	"github.com/taibuivan/folio/internal/filter"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/pkg/clock"
)

// # Service

/*
Service mounts, looks up and unmounts views.

Snapshots are written after every change of criteria, viewport or cursor. A
lookup of an id that is not in memory restores the view from its snapshot, so
views survive a restart of the process. Snapshot failures are logged and never
fail the request.

Views unused for the configured TTL are closed on the next mount or lookup.
Reads restart the snapshot expiry, so a view and its snapshot expire together.
*/
type Service struct {
	mu     sync.Mutex
	views  map[string]*View
	seen   map[string]time.Time
	closed bool

	library   Library
	snapshots SnapshotStore
	settings  Settings
	clock     clock.Clock
	logger    *slog.Logger
}

// NewService constructs a new [Service].
func NewService(library Library, snapshots SnapshotStore, settings Settings, timeSource clock.Clock, logger *slog.Logger) *Service {
	if timeSource == nil {
		timeSource = clock.Real()
	}
	return &Service{
		views:     make(map[string]*View),
		seen:      make(map[string]time.Time),
		library:   library,
		snapshots: snapshots,
		settings:  settings,
		clock:     timeSource,
		logger:    logger,
	}
}

// ViewportInput is a viewport measurement. Missing row height and gap fall
// back to the configured defaults.
type ViewportInput struct {
	Width     float64  `json:"width"`
	RowHeight *float64 `json:"rowHeight"`
	Gap       *float64 `json:"gap"`
	Touch     bool     `json:"touch"`
}

func (input ViewportInput) resolve(settings Settings) (Viewport, error) {
	viewport := Viewport{Width: input.Width, RowHeight: settings.RowHeight, Gap: settings.Gap, Touch: input.Touch}
	if input.RowHeight != nil {
		viewport.RowHeight = *input.RowHeight
	}
	if input.Gap != nil {
		viewport.Gap = *input.Gap
	}

	validator := &validate.Validator{}
	validator.Custom("viewport.width", viewport.Width < 0, "Must not be negative")
	validator.Custom("viewport.rowHeight", viewport.RowHeight <= 0, "Must be positive")
	validator.Custom("viewport.gap", viewport.Gap < 0, "Must not be negative")
	if err := validator.Err(); err != nil {
		return Viewport{}, err
	}
	return viewport, nil
}

// MountInput describes a new view.
type MountInput struct {
	Source   Source        `json:"source"`
	Criteria Criteria      `json:"criteria"`
	Viewport ViewportInput `json:"viewport"`
}

// # Lifecycle

/*
Mount creates a view and loads its collection.

Parameters:
  - context: context.Context
  - input: MountInput

Returns:
  - Page: The first rendered page
  - error: Validation or library errors
*/
func (service *Service) Mount(context context.Context, input MountInput) (Page, error) {
	service.evictIdle()

	// 1. Validate the request
	if err := input.Source.Validate(); err != nil {
		return Page{}, err
	}
	criteria := input.Criteria.Normalize()
	if err := criteria.Validate(); err != nil {
		return Page{}, err
	}
	viewport, err := input.Viewport.resolve(service.settings)
	if err != nil {
		return Page{}, err
	}

	// 2. Load the collection
	id, err := uuid.NewV7()
	if err != nil {
		return Page{}, fmt.Errorf("view_id_generation_failed: %w", err)
	}
	view := newView(id.String(), input.Source, service.library, service.settings, service.clock, Snapshot{
		Criteria: criteria,
		Viewport: viewport,
		Page:     1,
	})
	if _, err := view.Refresh(context); err != nil {
		view.Close()
		return Page{}, err
	}

	// 3. Register and persist
	service.mu.Lock()
	if service.closed {
		service.mu.Unlock()
		view.Close()
		return Page{}, errShuttingDown()
	}
	service.views[view.ID()] = view
	service.seen[view.ID()] = service.clock.Now()
	service.mu.Unlock()

	service.persist(context, view)
	service.logger.Info("view_mounted",
		slog.String("view_id", view.ID()),
		slog.String("source", string(input.Source.Kind)),
	)

	return view.Render(), nil
}

/*
Get returns a mounted view, restoring it from its snapshot when needed.

Returns:
  - *View: The live view
  - error: apperr.NotFound when the view was never mounted or has expired
*/
func (service *Service) Get(context context.Context, id string) (*View, error) {
	service.evictIdle()

	service.mu.Lock()
	view, ok := service.views[id]
	if ok {
		service.seen[id] = service.clock.Now()
	}
	service.mu.Unlock()
	if ok {
		return view, nil
	}

	// 1. Restore from the snapshot store
	snapshot, err := service.snapshots.Load(context, id)
	if err != nil {
		return nil, err
	}

	restored := newView(snapshot.ID, snapshot.Source, service.library, service.settings, service.clock, snapshot)
	if _, err := restored.Refresh(context); err != nil {
		restored.Close()
		return nil, err
	}

	// 2. A concurrent lookup may have restored it first
	service.mu.Lock()
	if existing, ok := service.views[id]; ok || service.closed {
		service.mu.Unlock()
		restored.Close()
		if !ok {
			return nil, errShuttingDown()
		}
		return existing, nil
	}
	service.views[id] = restored
	service.seen[id] = service.clock.Now()
	service.mu.Unlock()

	service.logger.Info("view_restored", slog.String("view_id", id), slog.Int("page", snapshot.Page))
	return restored, nil
}

// Unmount closes a view and forgets its snapshot.
func (service *Service) Unmount(context context.Context, id string) error {
	service.mu.Lock()
	view, ok := service.views[id]
	delete(service.views, id)
	delete(service.seen, id)
	service.mu.Unlock()

	if ok {
		view.Close()
	} else if _, err := service.snapshots.Load(context, id); err != nil {
		return err
	}

	if err := service.snapshots.Delete(context, id); err != nil {
		service.logger.Warn("view_snapshot_delete_failed", slog.String("view_id", id), slog.Any("error", err))
	}

	service.logger.Info("view_unmounted", slog.String("view_id", id))
	return nil
}

// Close persists and closes every mounted view. It is called on shutdown;
// later mounts and restores fail with SERVICE_UNAVAILABLE.
func (service *Service) Close(context context.Context) {
	service.mu.Lock()
	views := service.views
	service.views = make(map[string]*View)
	service.seen = make(map[string]time.Time)
	service.closed = true
	service.mu.Unlock()

	for _, view := range views {
		service.persist(context, view)
		view.Close()
	}
	service.logger.Info("views_closed", slog.Int("count", len(views)))
}

// evictIdle closes the views that were not used for the TTL. A zero TTL
// keeps views until they are unmounted.
func (service *Service) evictIdle() {
	if service.settings.TTL <= 0 {
		return
	}
	deadline := service.clock.Now().Add(-service.settings.TTL)

	service.mu.Lock()
	var idle []*View
	for id, seen := range service.seen {
		if seen.After(deadline) {
			continue
		}
		idle = append(idle, service.views[id])
		delete(service.views, id)
		delete(service.seen, id)
	}
	service.mu.Unlock()

	for _, view := range idle {
		view.Close()
		service.logger.Info("view_evicted", slog.String("view_id", view.ID()))
	}
}

func errShuttingDown() error {
	return apperr.ServiceUnavailable("Views are shutting down")
}

// Mounted returns the number of views held in memory.
func (service *Service) Mounted() int {
	service.mu.Lock()
	defer service.mu.Unlock()
	return len(service.views)
}

func (service *Service) persist(context context.Context, view *View) {
	if err := service.snapshots.Save(context, view.Snapshot(), service.settings.TTL); err != nil {
		service.logger.Warn("view_snapshot_save_failed", slog.String("view_id", view.ID()), slog.Any("error", err))
	}
}

func (service *Service) touch(context context.Context, view *View) {
	if service.settings.TTL <= 0 {
		return
	}
	if err := service.snapshots.Touch(context, view.ID(), service.settings.TTL); err != nil {
		service.logger.Warn("view_snapshot_touch_failed", slog.String("view_id", view.ID()), slog.Any("error", err))
	}
}

// # Operations

// with runs op on a view. When persist is set the snapshot is written after a
// successful op.
func (service *Service) with(context context.Context, id string, persist bool, op func(*View) (Page, error)) (Page, error) {
	view, err := service.Get(context, id)
	if err != nil {
		return Page{}, err
	}

	page, err := op(view)
	if err != nil {
		return Page{}, err
	}

	if persist {
		service.persist(context, view)
	} else {
		service.touch(context, view)
	}
	return page, nil
}

// Render returns the current page of a view.
func (service *Service) Render(context context.Context, id string) (Page, error) {
	return service.with(context, id, false, func(view *View) (Page, error) {
		return view.Render(), nil
	})
}

// SetCriteria replaces the filter and sort of a view.
func (service *Service) SetCriteria(context context.Context, id string, criteria Criteria) (Page, error) {
	return service.with(context, id, true, func(view *View) (Page, error) {
		return view.SetCriteria(criteria)
	})
}

// RemoveChip drops one selected filter value.
func (service *Service) RemoveChip(context context.Context, id string, chip filter.Chip) (Page, error) {
	return service.with(context, id, true, func(view *View) (Page, error) {
		return view.RemoveChip(chip)
	})
}

// Resize applies a new viewport measurement.
func (service *Service) Resize(context context.Context, id string, input ViewportInput) (Page, error) {
	viewport, err := input.resolve(service.settings)
	if err != nil {
		return Page{}, err
	}
	return service.with(context, id, true, func(view *View) (Page, error) {
		return view.Resize(viewport)
	})
}

// Sentinel reports the sentinel row entering the viewport.
func (service *Service) Sentinel(context context.Context, id string, row int) (Page, error) {
	return service.with(context, id, true, func(view *View) (Page, error) {
		return view.Sentinel(row)
	})
}

// Refresh reloads the collection of a view.
func (service *Service) Refresh(context context.Context, id string) (Page, error) {
	return service.with(context, id, true, func(view *View) (Page, error) {
		applied, err := view.Refresh(context)
		if err != nil {
			return Page{}, err
		}
		if !applied {
			service.logger.Debug("view_refresh_superseded", slog.String("view_id", id))
		}
		return view.Render(), nil
	})
}

// OpenViewer opens the overlay at a position.
func (service *Service) OpenViewer(context context.Context, id string, position int) (Page, error) {
	return service.with(context, id, false, func(view *View) (Page, error) {
		return view.OpenViewer(position)
	})
}

// NavigateViewer moves the overlay by delta positions.
func (service *Service) NavigateViewer(context context.Context, id string, delta int) (Page, error) {
	return service.with(context, id, false, func(view *View) (Page, error) {
		return view.NavigateViewer(delta)
	})
}

// ViewerActivity restarts the overlay idle timer.
func (service *Service) ViewerActivity(context context.Context, id string) (Page, error) {
	return service.with(context, id, false, func(view *View) (Page, error) {
		return view.ViewerActivity()
	})
}

// CloseViewer closes the overlay.
func (service *Service) CloseViewer(context context.Context, id string) (Page, error) {
	return service.with(context, id, false, func(view *View) (Page, error) {
		return view.CloseViewer()
	})
}

// # Mutations

// ItemRef addresses an item of a view. Kind may be empty when the view lists
// a single kind.
type ItemRef struct {
	Kind catalog.Kind
	ID   int64
}

func (ref ItemRef) key(view *View) (catalog.Key, error) {
	kind := ref.Kind
	if kind == "" {
		kind = view.source.defaultKind()
	}
	if !kind.IsValid() {
		return catalog.Key{}, validate.RequiredError("kind", "Must be one of: doujinshi, image")
	}
	return catalog.Key{Kind: kind, ID: ref.ID}, nil
}

func (service *Service) mutate(context context.Context, id string, ref ItemRef, op func(*View, catalog.Key) (Page, error)) (Page, error) {
	return service.with(context, id, false, func(view *View) (Page, error) {
		key, err := ref.key(view)
		if err != nil {
			return Page{}, err
		}
		return op(view, key)
	})
}

// ToggleFavorite marks or unmarks an item as favorite.
func (service *Service) ToggleFavorite(context context.Context, id string, ref ItemRef, favorite bool) (Page, error) {
	return service.mutate(context, id, ref, func(view *View, key catalog.Key) (Page, error) {
		return view.ToggleFavorite(context, key, favorite)
	})
}

// SetRating sets the rating of an item.
func (service *Service) SetRating(context context.Context, id string, ref ItemRef, rating int) (Page, error) {
	return service.mutate(context, id, ref, func(view *View, key catalog.Key) (Page, error) {
		return view.SetRating(context, key, rating)
	})
}

// IncrementOCount adds one to the oCount of an item.
func (service *Service) IncrementOCount(context context.Context, id string, ref ItemRef) (Page, error) {
	return service.mutate(context, id, ref, func(view *View, key catalog.Key) (Page, error) {
		return view.IncrementOCount(context, key)
	})
}

// MutateValues adds or removes dimension values of an image.
func (service *Service) MutateValues(context context.Context, id string, ref ItemRef, dimension catalog.Dimension, values []string, add bool) (Page, error) {
	return service.mutate(context, id, ref, func(view *View, key catalog.Key) (Page, error) {
		return view.MutateValues(context, key, dimension, values, add)
	})
}

// BatchResult is the outcome of a batch tagging request.
type BatchResult struct {
	Updated int  `json:"updatedCount"`
	View    Page `json:"view"`
}

// Batch adds dimension values to several images of a view.
func (service *Service) Batch(context context.Context, id string, dimension catalog.Dimension, imageIDs []int64, values []string) (BatchResult, error) {
	var updated int
	page, err := service.with(context, id, false, func(view *View) (Page, error) {
		page, count, err := view.Batch(context, dimension, imageIDs, values)
		updated = count
		return page, err
	})
	if err != nil {
		return BatchResult{}, err
	}

	service.logger.Info("view_batch_tagged",
		slog.String("view_id", id),
		slog.String("dimension", string(dimension)),
		slog.Int("updated", updated),
	)
	return BatchResult{Updated: updated, View: page}, nil
}

// # Sidebar Options

// Options are the values offered by the filter sidebar.
type Options struct {
	Values   map[catalog.Dimension][]string         `json:"values"`
	Entities map[catalog.Dimension][]catalog.Entity `json:"entities"`
}

/*
Options lists the filter values of a view's collection, plus the entity lists
of the requested kinds.

Parameters:
  - context: context.Context
  - id: string
  - kinds: []string (singular or plural entity names; empty means all)

Returns:
  - Options: Values and entity lists; failed entity lists are left out
  - error: Unknown view or entity kind
*/
func (service *Service) Options(context context.Context, id string, kinds []string) (Options, error) {
	entityKinds := catalog.EntityKinds
	if len(kinds) > 0 {
		entityKinds = make([]catalog.EntityKind, 0, len(kinds))
		for _, name := range kinds {
			kind, ok := catalog.LookupEntityKind(name)
			if !ok {
				return Options{}, apperr.ValidationError("Unknown entity kind", apperr.FieldError{
					Field:   "dimensions",
					Message: fmt.Sprintf("%q is not an entity kind", name),
				})
			}
			entityKinds = append(entityKinds, kind)
		}
	}

	view, err := service.Get(context, id)
	if err != nil {
		return Options{}, err
	}

	return Options{
		Values:   view.Options(),
		Entities: service.library.Sidebar(context, entityKinds),
	}, nil
}
