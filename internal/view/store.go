// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package view

import (
	"context"
	"time"

	"github.com/taibuivan/folio/internal/catalog"
	"github.com/taibuivan/folio/internal/upstream"
)

// # Library Contract

/*
Library is the media-library surface a view depends on.

It is implemented by [upstream.Client].
*/
type Library interface {
	// ListItems fetches every item of one kind.
	ListItems(context context.Context, kind catalog.Kind) ([]catalog.Item, error)

	// GetEntity fetches the detail page of one entity.
	GetEntity(context context.Context, kind catalog.EntityKind, name string) (catalog.EntityPage, error)

	// Sidebar fetches entity lists concurrently; failing kinds are left out.
	Sidebar(context context.Context, kinds []catalog.EntityKind) map[catalog.Dimension][]catalog.Entity

	// SetFavorite marks or unmarks an item as favorite.
	SetFavorite(context context.Context, target string, id int64, favorite bool) error

	// SetProgress writes rating, last page or oCount.
	SetProgress(context context.Context, key catalog.Key, progress upstream.Progress) error

	// MutateValues adds or removes dimension values of one image.
	MutateValues(context context.Context, imageID int64, dimension catalog.Dimension, values []string, add bool) error

	// BatchValues adds dimension values to many images.
	BatchValues(context context.Context, dimension catalog.Dimension, imageIDs []int64, values []string) (int, error)
}

// # Snapshot Persistence

// Snapshot is the persisted state of a view.
type Snapshot struct {
	ID       string    `json:"id"`
	Source   Source    `json:"source"`
	Criteria Criteria  `json:"criteria"`
	Viewport Viewport  `json:"viewport"`
	Page     int       `json:"page"`
	Seed     uint64    `json:"seed"`
	SavedAt  time.Time `json:"savedAt"`
}

/*
SnapshotStore persists view snapshots with an expiry.
*/
type SnapshotStore interface {
	/*
		Save stores the snapshot and (re)starts its expiry.

		Parameters:
		  - context: context.Context
		  - snapshot: Snapshot
		  - ttl: time.Duration

		Returns:
		  - error: Storage failures
	*/
	Save(context context.Context, snapshot Snapshot, ttl time.Duration) error

	/*
		Load retrieves a snapshot.

		Returns:
		  - Snapshot: The stored state
		  - error: apperr.NotFound if absent or expired
	*/
	Load(context context.Context, id string) (Snapshot, error)

	// Touch restarts the expiry of a stored snapshot. Missing snapshots are ignored.
	Touch(context context.Context, id string, ttl time.Duration) error

	// Delete removes a snapshot. Deleting a missing snapshot is not an error.
	Delete(context context.Context, id string) error
}
