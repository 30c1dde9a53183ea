// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package view_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/catalog"
	"github.com/taibuivan/folio/internal/filter"
	"github.com/taibuivan/folio/internal/ordering"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/upstream"
	"github.com/taibuivan/folio/internal/view"
	"github.com/taibuivan/folio/pkg/clock"
)

// # Fixtures

type fakeLibrary struct {
	mu sync.Mutex

	items  map[catalog.Kind][]catalog.Item
	entity catalog.EntityPage
	queue  []func() ([]catalog.Item, error)

	commitErr error
	onCommit  func()

	favorites []bool
	progress  []upstream.Progress
	mutated   [][]string
	batched   []int64
}

func newFakeLibrary(images ...catalog.Item) *fakeLibrary {
	return &fakeLibrary{items: map[catalog.Kind][]catalog.Item{catalog.KindImage: images}}
}

func (library *fakeLibrary) enqueue(fetch func() ([]catalog.Item, error)) {
	library.mu.Lock()
	defer library.mu.Unlock()
	library.queue = append(library.queue, fetch)
}

func (library *fakeLibrary) ListItems(ctx context.Context, kind catalog.Kind) ([]catalog.Item, error) {
	library.mu.Lock()
	if len(library.queue) > 0 {
		fetch := library.queue[0]
		library.queue = library.queue[1:]
		library.mu.Unlock()
		return fetch()
	}
	defer library.mu.Unlock()
	return library.items[kind], nil
}

func (library *fakeLibrary) GetEntity(ctx context.Context, kind catalog.EntityKind, name string) (catalog.EntityPage, error) {
	return library.entity, nil
}

func (library *fakeLibrary) Sidebar(ctx context.Context, kinds []catalog.EntityKind) map[catalog.Dimension][]catalog.Entity {
	sidebar := make(map[catalog.Dimension][]catalog.Entity)
	for _, kind := range kinds {
		sidebar[kind.Dimension] = []catalog.Entity{{ID: 1, Name: kind.Singular + "-one"}}
	}
	return sidebar
}

func (library *fakeLibrary) commit() error {
	if library.onCommit != nil {
		library.onCommit()
	}
	return library.commitErr
}

func (library *fakeLibrary) SetFavorite(ctx context.Context, target string, id int64, favorite bool) error {
	library.favorites = append(library.favorites, favorite)
	return library.commit()
}

func (library *fakeLibrary) SetProgress(ctx context.Context, key catalog.Key, progress upstream.Progress) error {
	library.progress = append(library.progress, progress)
	return library.commit()
}

func (library *fakeLibrary) MutateValues(ctx context.Context, imageID int64, dimension catalog.Dimension, values []string, add bool) error {
	library.mutated = append(library.mutated, values)
	return library.commit()
}

func (library *fakeLibrary) BatchValues(ctx context.Context, dimension catalog.Dimension, imageIDs []int64, values []string) (int, error) {
	library.batched = append(library.batched, imageIDs...)
	if err := library.commit(); err != nil {
		return 0, err
	}
	return len(imageIDs), nil
}

func image(id int64, tags ...string) catalog.Item {
	return catalog.Item{
		ID:       id,
		Kind:     catalog.KindImage,
		Filename: "image-" + string(rune('a'+id)) + ".jpg",
		Uploaded: time.Date(2024, 1, int(id), 0, 0, 0, 0, time.UTC),
		Width:    1600,
		Height:   900,
		Tags:     tags,
	}
}

func images(count int) []catalog.Item {
	items := make([]catalog.Item, count)
	for i := range items {
		items[i] = image(int64(i + 1))
	}
	return items
}

var testSettings = view.Settings{
	PageSize:    2,
	RowHeight:   250,
	Gap:         4,
	IdleDesktop: 6 * time.Second,
	IdleTouch:   8 * time.Second,
	TTL:         time.Hour,
}

func newService(library view.Library, store view.SnapshotStore, timeSource clock.Clock) *view.Service {
	return view.NewService(library, store, testSettings, timeSource, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func mountGallery(t *testing.T, service *view.Service) view.Page {
	t.Helper()
	page, err := service.Mount(context.Background(), view.MountInput{
		Source:   view.Source{Kind: view.SourceGallery},
		Viewport: view.ViewportInput{Width: 1200},
	})
	require.NoError(t, err)
	return page
}

func ids(page view.Page) []int64 {
	var result []int64
	for _, row := range page.Rows {
		for _, tile := range row.Tiles {
			result = append(result, tile.Item.ID)
		}
	}
	return result
}

// # Rendering

/*
TestRender_Idempotent returns the cached rows when nothing changed.
*/
func TestRender_Idempotent(t *testing.T) {
	service := newService(newFakeLibrary(images(4)...), view.NewMemorySnapshotStore(nil), nil)
	mounted := mountGallery(t, service)
	ctx := context.Background()

	first, err := service.Render(ctx, mounted.ID)
	require.NoError(t, err)
	second, err := service.Render(ctx, mounted.ID)
	require.NoError(t, err)

	require.NotEmpty(t, first.Rows)
	assert.Same(t, &first.Rows[0], &second.Rows[0])

	resized, err := service.Resize(ctx, mounted.ID, view.ViewportInput{Width: 800})
	require.NoError(t, err)
	assert.NotSame(t, &first.Rows[0], &resized.Rows[0])
}

/*
TestPagination_GrowAndReset reveals a page per sentinel and resets on new criteria.
*/
func TestPagination_GrowAndReset(t *testing.T) {
	service := newService(newFakeLibrary(images(5)...), view.NewMemorySnapshotStore(nil), nil)
	mounted := mountGallery(t, service)
	ctx := context.Background()

	assert.Equal(t, 5, mounted.Total)
	assert.Equal(t, 2, mounted.Visible)
	assert.True(t, mounted.HasMore)
	assert.Equal(t, []int64{5, 4}, ids(mounted))

	// Stale sentinel rows are ignored
	stale, err := service.Sentinel(ctx, mounted.ID, mounted.Sentinel+10)
	require.NoError(t, err)
	assert.Equal(t, 1, stale.Page)

	grown, err := service.Sentinel(ctx, mounted.ID, mounted.Sentinel)
	require.NoError(t, err)
	assert.Equal(t, 2, grown.Page)
	assert.Equal(t, 4, grown.Visible)

	grown, err = service.Sentinel(ctx, mounted.ID, grown.Sentinel)
	require.NoError(t, err)
	assert.Equal(t, 5, grown.Visible)
	assert.False(t, grown.HasMore)

	// The row index is required
	_, err = service.Sentinel(ctx, mounted.ID, -1)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	reset, err := service.SetCriteria(ctx, mounted.ID, view.Criteria{
		Sort: ordering.Spec{Key: ordering.KeyUploaded, Order: ordering.OrderAsc},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, reset.Page)
	assert.Equal(t, []int64{1, 2}, ids(reset))
}

/*
TestSetCriteria_Invalid rejects unknown sort keys and inverted ranges.
*/
func TestSetCriteria_Invalid(t *testing.T) {
	service := newService(newFakeLibrary(images(2)...), view.NewMemorySnapshotStore(nil), nil)
	mounted := mountGallery(t, service)

	tests := []struct {
		name     string
		criteria view.Criteria
	}{
		{"unknown sort", view.Criteria{Sort: ordering.Spec{Key: "popularity"}}},
		{"inverted rating", view.Criteria{Filter: filter.Spec{Rating: &filter.Range{Min: 4, Max: 2}}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.SetCriteria(context.Background(), mounted.ID, tc.criteria)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

/*
TestRemoveChip drops one include selection.
*/
func TestRemoveChip(t *testing.T) {
	library := newFakeLibrary(image(1, "cat"), image(2, "dog"), image(3, "cat", "dog"))
	service := newService(library, view.NewMemorySnapshotStore(nil), nil)
	mounted := mountGallery(t, service)
	ctx := context.Background()

	filtered, err := service.SetCriteria(ctx, mounted.ID, view.Criteria{
		Filter: filter.Spec{Tags: filter.Group{Included: []string{"cat", "dog"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, filtered.Total)
	assert.Len(t, filtered.Chips, 2)

	widened, err := service.RemoveChip(ctx, mounted.ID, filter.Chip{Dimension: catalog.DimensionTags, Value: "dog"})
	require.NoError(t, err)
	assert.Equal(t, 2, widened.Total)
	assert.Len(t, widened.Chips, 1)
}

// # Refresh

/*
TestRefresh_StaleResultDiscarded keeps the newest issued fetch.
*/
func TestRefresh_StaleResultDiscarded(t *testing.T) {
	library := newFakeLibrary(images(2)...)
	service := newService(library, view.NewMemorySnapshotStore(nil), nil)
	mounted := mountGallery(t, service)
	ctx := context.Background()

	current, err := service.Get(ctx, mounted.ID)
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	library.enqueue(func() ([]catalog.Item, error) {
		close(entered)
		<-release
		return images(1), nil
	})
	library.enqueue(func() ([]catalog.Item, error) {
		return images(3), nil
	})

	staleApplied := make(chan bool)
	go func() {
		applied, _ := current.Refresh(ctx)
		staleApplied <- applied
	}()
	<-entered

	applied, err := current.Refresh(ctx)
	require.NoError(t, err)
	assert.True(t, applied)

	close(release)
	assert.False(t, <-staleApplied)
	assert.Equal(t, 3, current.Render().CollectionSize)
}

// # Viewer

/*
TestViewer_IdleTimer hides the controls after the idle delay and never fires
after close.
*/
func TestViewer_IdleTimer(t *testing.T) {
	manual := clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	service := newService(newFakeLibrary(images(3)...), view.NewMemorySnapshotStore(manual), manual)
	mounted := mountGallery(t, service)
	ctx := context.Background()

	opened, err := service.OpenViewer(ctx, mounted.ID, 0)
	require.NoError(t, err)
	require.NotNil(t, opened.Viewer)
	assert.True(t, opened.Viewer.UIVisible)

	manual.Advance(5 * time.Second)
	_, err = service.ViewerActivity(ctx, mounted.ID)
	require.NoError(t, err)

	manual.Advance(5 * time.Second)
	page, err := service.Render(ctx, mounted.ID)
	require.NoError(t, err)
	assert.True(t, page.Viewer.UIVisible)

	manual.Advance(time.Second)
	page, err = service.Render(ctx, mounted.ID)
	require.NoError(t, err)
	assert.False(t, page.Viewer.UIVisible)

	_, err = service.ViewerActivity(ctx, mounted.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, manual.Pending())

	closed, err := service.CloseViewer(ctx, mounted.ID)
	require.NoError(t, err)
	assert.Nil(t, closed.Viewer)
	assert.Equal(t, 0, manual.Pending())
}

/*
TestViewer_Navigate wraps around both ends and suspends growth.
*/
func TestViewer_Navigate(t *testing.T) {
	service := newService(newFakeLibrary(images(3)...), view.NewMemorySnapshotStore(nil), nil)
	mounted := mountGallery(t, service)
	ctx := context.Background()

	_, err := service.OpenViewer(ctx, mounted.ID, 0)
	require.NoError(t, err)

	previous, err := service.NavigateViewer(ctx, mounted.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, 2, previous.Viewer.Position)
	assert.Equal(t, int64(1), previous.Viewer.Item.ID)

	next, err := service.NavigateViewer(ctx, mounted.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, next.Viewer.Position)

	suspended, err := service.Sentinel(ctx, mounted.ID, mounted.Sentinel)
	require.NoError(t, err)
	assert.Equal(t, 1, suspended.Page)

	_, err = service.OpenViewer(ctx, mounted.ID, 3)
	require.Error(t, err)
}

/*
TestUnmount_StopsTimers releases the viewer timer and forgets the view.
*/
func TestUnmount_StopsTimers(t *testing.T) {
	manual := clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	service := newService(newFakeLibrary(images(3)...), view.NewMemorySnapshotStore(manual), manual)
	mounted := mountGallery(t, service)
	ctx := context.Background()

	_, err := service.OpenViewer(ctx, mounted.ID, 1)
	require.NoError(t, err)
	require.Equal(t, 1, manual.Pending())

	require.NoError(t, service.Unmount(ctx, mounted.ID))
	assert.Equal(t, 0, manual.Pending())
	manual.Advance(time.Minute)

	_, err = service.Render(ctx, mounted.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	assert.Error(t, service.Unmount(ctx, mounted.ID))
}

/*
TestEviction_IdleViews closes views that were not used for the TTL and keeps
the ones that were, along with their snapshots.
*/
func TestEviction_IdleViews(t *testing.T) {
	manual := clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	library := newFakeLibrary(images(3)...)
	store := view.NewMemorySnapshotStore(manual)
	service := newService(library, store, manual)
	idle := mountGallery(t, service)
	active := mountGallery(t, service)
	ctx := context.Background()

	_, err := service.OpenViewer(ctx, idle.ID, 0)
	require.NoError(t, err)
	require.Equal(t, 2, service.Mounted())

	for range 3 {
		manual.Advance(30 * time.Minute)
		_, err = service.Render(ctx, active.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, service.Mounted())
	assert.Equal(t, 0, manual.Pending())

	// Reads kept the snapshot of the active view alive
	restarted := newService(library, store, manual)
	_, err = restarted.Render(ctx, active.ID)
	require.NoError(t, err)
	restarted.Close(ctx)

	manual.Advance(48 * time.Hour)
	_, err = service.Render(ctx, active.ID)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	assert.Equal(t, 0, service.Mounted())

	_, err = service.Render(ctx, idle.ID)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// # Mutations

/*
TestToggleFavorite_Rollback shows the optimistic value during the request and
restores it on failure.
*/
func TestToggleFavorite_Rollback(t *testing.T) {
	library := newFakeLibrary(images(1)...)
	service := newService(library, view.NewMemorySnapshotStore(nil), nil)
	mounted := mountGallery(t, service)
	ctx := context.Background()

	var duringCommit bool
	library.onCommit = func() {
		page, _ := service.Render(ctx, mounted.ID)
		duringCommit = page.Rows[0].Tiles[0].Item.IsFavorite
	}
	library.commitErr = apperr.Upstream(500, "boom")

	_, err := service.ToggleFavorite(ctx, mounted.ID, view.ItemRef{ID: 1}, true)
	require.Error(t, err)
	assert.True(t, duringCommit)

	page, err := service.Render(ctx, mounted.ID)
	require.NoError(t, err)
	assert.False(t, page.Rows[0].Tiles[0].Item.IsFavorite)

	library.commitErr = nil
	page, err = service.ToggleFavorite(ctx, mounted.ID, view.ItemRef{ID: 1}, true)
	require.NoError(t, err)
	assert.True(t, page.Rows[0].Tiles[0].Item.IsFavorite)
	assert.Equal(t, []bool{true, true}, library.favorites)
}

/*
TestRatingAndOCount patches the item and sends a partial progress update.
*/
func TestRatingAndOCount(t *testing.T) {
	library := newFakeLibrary(images(1)...)
	service := newService(library, view.NewMemorySnapshotStore(nil), nil)
	mounted := mountGallery(t, service)
	ctx := context.Background()

	_, err := service.SetRating(ctx, mounted.ID, view.ItemRef{ID: 1}, 6)
	require.Error(t, err)

	page, err := service.SetRating(ctx, mounted.ID, view.ItemRef{ID: 1}, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, page.Rows[0].Tiles[0].Item.Rating)

	page, err = service.IncrementOCount(ctx, mounted.ID, view.ItemRef{ID: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Rows[0].Tiles[0].Item.OCount)

	require.Len(t, library.progress, 2)
	assert.Equal(t, 4, *library.progress[0].Rating)
	assert.Nil(t, library.progress[0].OCount)
	assert.Equal(t, 1, *library.progress[1].OCount)

	_, err = service.IncrementOCount(ctx, mounted.ID, view.ItemRef{ID: 99})
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestMutateValues adds without duplicates and removes values of an image.
*/
func TestMutateValues(t *testing.T) {
	library := newFakeLibrary(image(1, "cat"))
	service := newService(library, view.NewMemorySnapshotStore(nil), nil)
	mounted := mountGallery(t, service)
	ctx := context.Background()

	page, err := service.MutateValues(ctx, mounted.ID, view.ItemRef{ID: 1}, catalog.DimensionTags, []string{"cat", " dog "}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog"}, page.Rows[0].Tiles[0].Item.Tags)
	assert.Equal(t, []string{"cat", "dog"}, library.mutated[0])

	page, err = service.MutateValues(ctx, mounted.ID, view.ItemRef{ID: 1}, catalog.DimensionTags, []string{"cat"}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"dog"}, page.Rows[0].Tiles[0].Item.Tags)

	_, err = service.MutateValues(ctx, mounted.ID, view.ItemRef{ID: 1}, catalog.DimensionLanguages, []string{"english"}, true)
	assert.Error(t, err)

	_, err = service.MutateValues(ctx, mounted.ID, view.ItemRef{Kind: catalog.KindDoujinshi, ID: 1}, catalog.DimensionTags, []string{"x"}, true)
	assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)
}

/*
TestBatch_Rollback restores every image when the batch fails.
*/
func TestBatch_Rollback(t *testing.T) {
	library := newFakeLibrary(image(1), image(2), image(3))
	service := newService(library, view.NewMemorySnapshotStore(nil), nil)
	mounted := mountGallery(t, service)
	ctx := context.Background()

	result, err := service.Batch(ctx, mounted.ID, catalog.DimensionArtists, []int64{1, 2}, []string{"someone"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Updated)

	current, err := service.Get(ctx, mounted.ID)
	require.NoError(t, err)
	tagged := current.Options()[catalog.DimensionArtists]
	assert.Equal(t, []string{"someone"}, tagged)

	library.commitErr = apperr.UpstreamUnavailable(assert.AnError)
	_, err = service.Batch(ctx, mounted.ID, catalog.DimensionGroups, []int64{1, 3}, []string{"circle"})
	require.Error(t, err)
	assert.Empty(t, current.Options()[catalog.DimensionGroups])

	_, err = service.Batch(ctx, mounted.ID, catalog.DimensionGroups, nil, []string{"circle"})
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestBatch_RollbackKeepsConcurrentWrites checks that a failed batch only
restores its own images and never undoes a reload or a patch that landed
while the library request was in flight.
*/
func TestBatch_RollbackKeepsConcurrentWrites(t *testing.T) {
	ctx := context.Background()

	t.Run("ReloadDuringCommit", func(t *testing.T) {
		library := newFakeLibrary(image(1), image(2), image(3))
		service := newService(library, view.NewMemorySnapshotStore(nil), nil)
		mounted := mountGallery(t, service)

		library.enqueue(func() ([]catalog.Item, error) {
			return []catalog.Item{image(1), image(2), image(3), image(4)}, nil
		})
		library.onCommit = func() {
			library.onCommit = nil
			_, err := service.Refresh(ctx, mounted.ID)
			require.NoError(t, err)
		}
		library.commitErr = apperr.UpstreamUnavailable(assert.AnError)

		_, err := service.Batch(ctx, mounted.ID, catalog.DimensionGroups, []int64{1, 2}, []string{"circle"})
		require.Error(t, err)

		page, err := service.Render(ctx, mounted.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, page.CollectionSize)
	})

	t.Run("PatchDuringCommit", func(t *testing.T) {
		library := newFakeLibrary(image(1), image(2), image(3))
		service := newService(library, view.NewMemorySnapshotStore(nil), nil)
		mounted := mountGallery(t, service)

		library.onCommit = func() {
			library.onCommit = func() { library.commitErr = nil }
			_, err := service.SetRating(ctx, mounted.ID, view.ItemRef{ID: 3}, 5)
			require.NoError(t, err)
			library.commitErr = apperr.UpstreamUnavailable(assert.AnError)
		}
		library.commitErr = apperr.UpstreamUnavailable(assert.AnError)

		_, err := service.Batch(ctx, mounted.ID, catalog.DimensionGroups, []int64{1, 2}, []string{"circle"})
		require.Error(t, err)

		current, err := service.Get(ctx, mounted.ID)
		require.NoError(t, err)
		assert.Empty(t, current.Options()[catalog.DimensionGroups])

		page := current.Render()
		require.Equal(t, int64(3), page.Rows[0].Tiles[0].Item.ID)
		assert.Equal(t, 5, page.Rows[0].Tiles[0].Item.Rating)
	})
}

// # Persistence

/*
TestSnapshot_RestoreAfterRestart rebuilds criteria, cursor and shuffle order.
*/
func TestSnapshot_RestoreAfterRestart(t *testing.T) {
	library := newFakeLibrary(images(6)...)
	store := view.NewMemorySnapshotStore(nil)
	before := newService(library, store, nil)
	mounted := mountGallery(t, before)
	ctx := context.Background()

	sorted, err := before.SetCriteria(ctx, mounted.ID, view.Criteria{Sort: ordering.Spec{Key: ordering.KeyRandom}})
	require.NoError(t, err)
	shuffled, err := before.Sentinel(ctx, mounted.ID, sorted.Sentinel)
	require.NoError(t, err)
	require.Equal(t, 2, shuffled.Page)

	after := newService(library, store, nil)
	restored, err := after.Render(ctx, mounted.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, after.Mounted())
	assert.Equal(t, shuffled.Page, restored.Page)
	assert.Equal(t, shuffled.Criteria, restored.Criteria)
	assert.Equal(t, ids(shuffled), ids(restored))
}

/*
TestClose_PersistsAndRejects saves every view on shutdown and refuses new ones.
*/
func TestClose_PersistsAndRejects(t *testing.T) {
	library := newFakeLibrary(images(4)...)
	store := view.NewMemorySnapshotStore(nil)
	service := newService(library, store, nil)
	mounted := mountGallery(t, service)
	ctx := context.Background()

	service.Close(ctx)
	assert.Equal(t, 0, service.Mounted())

	snapshot, err := store.Load(ctx, mounted.ID)
	require.NoError(t, err)
	assert.Equal(t, mounted.ID, snapshot.ID)

	_, err = service.Mount(ctx, view.MountInput{Source: view.Source{Kind: view.SourceGallery}})
	require.Error(t, err)
	assert.Equal(t, "SERVICE_UNAVAILABLE", apperr.As(err).Code)

	_, err = service.Render(ctx, mounted.ID)
	require.Error(t, err)
	assert.Equal(t, "SERVICE_UNAVAILABLE", apperr.As(err).Code)
}

/*
TestSnapshot_Expires treats an expired snapshot as unknown and restarts the
expiry on touch.
*/
func TestSnapshot_Expires(t *testing.T) {
	manual := clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	store := view.NewMemorySnapshotStore(manual)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, view.Snapshot{ID: "a"}, time.Minute))
	_, err := store.Load(ctx, "a")
	require.NoError(t, err)

	// Touch restarts the expiry
	manual.Advance(50 * time.Second)
	require.NoError(t, store.Touch(ctx, "a", time.Minute))
	manual.Advance(50 * time.Second)
	_, err = store.Load(ctx, "a")
	require.NoError(t, err)

	manual.Advance(time.Minute)
	_, err = store.Load(ctx, "a")
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	// Expired snapshots are not revived
	require.NoError(t, store.Touch(ctx, "a", time.Minute))
	_, err = store.Load(ctx, "a")
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// # Options

/*
TestOptions lists collection values and the requested entity lists.
*/
func TestOptions(t *testing.T) {
	service := newService(newFakeLibrary(image(1, "b", "a"), image(2, "a")), view.NewMemorySnapshotStore(nil), nil)
	mounted := mountGallery(t, service)
	ctx := context.Background()

	options, err := service.Options(ctx, mounted.ID, []string{"artist"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, options.Values[catalog.DimensionTags])
	assert.Len(t, options.Entities, 1)
	assert.Contains(t, options.Entities, catalog.DimensionArtists)

	_, err = service.Options(ctx, mounted.ID, []string{"studio"})
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestMount_EntitySource lists both kinds of an entity page.
*/
func TestMount_EntitySource(t *testing.T) {
	library := newFakeLibrary()
	library.entity = catalog.EntityPage{
		Doujinshi: []catalog.Item{{ID: 1, Kind: catalog.KindDoujinshi, Title: "Work", Languages: []string{"english"}}},
		Images:    []catalog.Item{image(1)},
	}
	service := newService(library, view.NewMemorySnapshotStore(nil), nil)
	ctx := context.Background()

	page, err := service.Mount(ctx, view.MountInput{
		Source:   view.Source{Kind: view.SourceEntity, Entity: "artist", Name: "someone"},
		Viewport: view.ViewportInput{Width: 1200},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	_, err = service.ToggleFavorite(ctx, page.ID, view.ItemRef{ID: 1}, true)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	_, err = service.Mount(ctx, view.MountInput{Source: view.Source{Kind: view.SourceEntity, Entity: "studio"}})
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}
