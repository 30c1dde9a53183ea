// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package view

import (
	"context"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/taibuivan/folio/internal/catalog"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/internal/upstream"
	"github.com/taibuivan/folio/pkg/optimistic"
	"github.com/taibuivan/folio/pkg/pointer"
	"github.com/taibuivan/folio/pkg/slice"
)

// # Item Patches

/*
Patch applies a local change to one item, then commits it.

Description: The item is replaced in the collection before commit runs. When
commit fails the item is restored, unless it changed again or the collection
was reloaded in the meantime. Other items are never touched.

Parameters:
  - ctx: context.Context
  - key: catalog.Key
  - apply: func(catalog.Item) catalog.Item
  - commit: func(context.Context, catalog.Item) error (receives the patched item)

Returns:
  - Page: The rendered view after the patch settled
  - error: apperr.NotFound for unknown items, or the commit error
*/
func (view *View) Patch(ctx context.Context, key catalog.Key, apply func(catalog.Item) catalog.Item, commit func(context.Context, catalog.Item) error) (Page, error) {

	// 1. The item must be listed
	view.mu.Lock()
	if err := view.checkOpen(); err != nil {
		view.mu.Unlock()
		return Page{}, err
	}
	found, ok := view.collection.Find(key)
	if !ok {
		view.mu.Unlock()
		return Page{}, apperr.NotFound("Item")
	}
	view.mu.Unlock()

	// 2. Apply, commit and roll back through the item store
	patched := apply(found)
	_, err := optimistic.Do[itemSet](ctx, view.items([]catalog.Key{key}), optimistic.Mutation[itemSet]{
		Apply: func(current itemSet) itemSet {
			next := make(itemSet, len(current))
			for itemKey, item := range current {
				patched = apply(item)
				next[itemKey] = patched
			}
			return next
		},
		Commit: func(ctx context.Context) error {
			return commit(ctx, patched)
		},
	})

	view.mu.Lock()
	defer view.mu.Unlock()

	if openErr := view.checkOpen(); openErr != nil {
		return Page{}, openErr
	}
	if err != nil {
		return Page{}, err
	}
	return view.render(), nil
}

// itemSet is the subset of the collection a mutation patches.
type itemSet map[catalog.Key]catalog.Item

// itemStore exposes some items of the collection to [optimistic.Do]. Writes
// swap the collection snapshot, so cached results are recomputed.
type itemStore struct {
	view *View
	keys []catalog.Key

	// loads is the reload count seen by the optimistic write.
	loads uint64
}

func (view *View) items(keys []catalog.Key) *itemStore {
	return &itemStore{view: view, keys: keys}
}

func (store *itemStore) Load() itemSet {
	store.view.mu.Lock()
	defer store.view.mu.Unlock()

	set := make(itemSet, len(store.keys))
	for _, key := range store.keys {
		if item, ok := store.view.collection.Find(key); ok {
			set[key] = item
		}
	}
	return set
}

func (store *itemStore) Store(set itemSet) {
	store.view.mu.Lock()
	defer store.view.mu.Unlock()

	store.loads = store.view.loads
	store.view.collection = store.view.collection.ReplaceAll(slices.Collect(maps.Values(set)))
}

// Revert restores the items that still hold the optimistic value. A reload
// since the optimistic write wins over the snapshot.
func (store *itemStore) Revert(snapshot, applied itemSet) {
	store.view.mu.Lock()
	defer store.view.mu.Unlock()

	if store.view.loads != store.loads {
		return
	}

	restore := make([]catalog.Item, 0, len(applied))
	for key, optimisticItem := range applied {
		current, ok := store.view.collection.Find(key)
		if ok && reflect.DeepEqual(current, optimisticItem) {
			restore = append(restore, snapshot[key])
		}
	}
	store.view.collection = store.view.collection.ReplaceAll(restore)
}

// ToggleFavorite marks or unmarks an item as favorite.
func (view *View) ToggleFavorite(ctx context.Context, key catalog.Key, favorite bool) (Page, error) {
	return view.Patch(ctx, key,
		func(item catalog.Item) catalog.Item {
			item.IsFavorite = favorite
			return item
		},
		func(ctx context.Context, item catalog.Item) error {
			return view.library.SetFavorite(ctx, string(item.Kind), item.ID, favorite)
		},
	)
}

// SetRating sets the rating of an item (0-5, 0 clears it).
func (view *View) SetRating(ctx context.Context, key catalog.Key, rating int) (Page, error) {
	validator := &validate.Validator{}
	validator.Range("rating", rating, 0, 5)
	if err := validator.Err(); err != nil {
		return Page{}, err
	}

	return view.Patch(ctx, key,
		func(item catalog.Item) catalog.Item {
			item.Rating = rating
			return item
		},
		func(ctx context.Context, item catalog.Item) error {
			return view.library.SetProgress(ctx, item.Key(), upstream.Progress{Rating: pointer.To(rating)})
		},
	)
}

// IncrementOCount adds one to the oCount of an item.
func (view *View) IncrementOCount(ctx context.Context, key catalog.Key) (Page, error) {
	return view.Patch(ctx, key,
		func(item catalog.Item) catalog.Item {
			item.OCount++
			return item
		},
		func(ctx context.Context, item catalog.Item) error {
			return view.library.SetProgress(ctx, item.Key(), upstream.Progress{OCount: pointer.To(item.OCount)})
		},
	)
}

/*
MutateValues adds or removes dimension values of one image.

Description: Only images carry editable dimensions, and languages are not
editable. Added values already present are skipped.
*/
func (view *View) MutateValues(ctx context.Context, key catalog.Key, dimension catalog.Dimension, values []string, add bool) (Page, error) {
	values, err := editableValues(dimension, values)
	if err != nil {
		return Page{}, err
	}
	if key.Kind != catalog.KindImage {
		return Page{}, apperr.Unprocessable("Only images can be tagged")
	}

	return view.Patch(ctx, key,
		func(item catalog.Item) catalog.Item {
			if add {
				return item.WithValues(dimension, slice.Union(item.Values(dimension), values))
			}
			return item.WithValues(dimension, slice.Difference(item.Values(dimension), values))
		},
		func(ctx context.Context, item catalog.Item) error {
			return view.library.MutateValues(ctx, item.ID, dimension, values, add)
		},
	)
}

// # Batch Tagging

/*
Batch adds dimension values to several images at once.

Description: Every listed image is patched locally. When the library rejects
the batch those images are restored, except where they changed again or the
collection was reloaded during the request. IDs of images that are not in the
view are still sent to the library.

Returns:
  - Page: The rendered view
  - int: Number of images the library updated
  - error: Validation or library errors
*/
func (view *View) Batch(ctx context.Context, dimension catalog.Dimension, imageIDs []int64, values []string) (Page, int, error) {
	values, err := editableValues(dimension, values)
	if err != nil {
		return Page{}, 0, err
	}
	if len(imageIDs) == 0 {
		return Page{}, 0, validate.RequiredError("imageIds", "Select at least one image")
	}

	view.mu.Lock()
	if err := view.checkOpen(); err != nil {
		view.mu.Unlock()
		return Page{}, 0, err
	}
	view.mu.Unlock()

	keys := slice.Map(imageIDs, func(id int64) catalog.Key {
		return catalog.Key{Kind: catalog.KindImage, ID: id}
	})

	var updated int
	_, err = optimistic.Do[itemSet](ctx, view.items(keys), optimistic.Mutation[itemSet]{
		Apply: func(current itemSet) itemSet {
			next := make(itemSet, len(current))
			for key, item := range current {
				next[key] = item.WithValues(dimension, slice.Union(item.Values(dimension), values))
			}
			return next
		},
		Commit: func(ctx context.Context) error {
			var commitErr error
			updated, commitErr = view.library.BatchValues(ctx, dimension, imageIDs, values)
			return commitErr
		},
	})

	view.mu.Lock()
	defer view.mu.Unlock()

	if openErr := view.checkOpen(); openErr != nil {
		return Page{}, 0, openErr
	}
	if err != nil {
		return Page{}, 0, err
	}
	return view.render(), updated, nil
}

// # Value Helpers

func editableValues(dimension catalog.Dimension, values []string) ([]string, error) {
	validator := &validate.Validator{}
	validator.Custom("dimension", !dimension.IsValid() || dimension == catalog.DimensionLanguages,
		"Must be one of: tags, artists, characters, parodies, groups, categories")

	cleaned := slice.Filter(slice.Map(values, strings.TrimSpace), func(value string) bool {
		return value != ""
	})
	validator.Custom("values", len(cleaned) == 0, "At least one value is required")

	if err := validator.Err(); err != nil {
		return nil, err
	}
	return cleaned, nil
}
