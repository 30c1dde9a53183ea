// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package view owns the gallery, browse and entity-detail view sessions.

A view is the server-side state of one mounted list page: the collection it
was loaded with, the filter and sort criteria, the viewport geometry, the
infinite-scroll cursor and an optional overlay viewer. Every read renders the
pipeline

	collection -> filter -> sort -> revealed window -> justified rows

and returns ready-to-draw rows.

# Lifecycle

Views are mounted and unmounted explicitly. Each view owns its timers and
releases them on unmount, on every path. The [Service] persists a snapshot of
the criteria, cursor, viewport and shuffle seed so a view survives a restart.
*/
package view

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/taibuivan/folio/internal/catalog"
	"github.com/taibuivan/folio/internal/filter"
	"github.com/taibuivan/folio/internal/layout"
	"github.com/taibuivan/folio/internal/ordering"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/internal/scroll"
	"github.com/taibuivan/folio/pkg/clock"
	"github.com/taibuivan/folio/pkg/generation"
)

// # Sources

// SourceKind selects what a view lists.
type SourceKind string

const (
	// SourceBrowse lists every doujinshi.
	SourceBrowse SourceKind = "browse"

	// SourceGallery lists every standalone image.
	SourceGallery SourceKind = "gallery"

	// SourceEntity lists the doujinshi and images of one entity.
	SourceEntity SourceKind = "entity"
)

// Source identifies the collection behind a view.
type Source struct {
	Kind   SourceKind `json:"kind"`
	Entity string     `json:"entity,omitempty"`
	Name   string     `json:"name,omitempty"`
}

// Validate checks that the source can be loaded.
func (source Source) Validate() error {
	validator := &validate.Validator{}
	validator.OneOf("source.kind", string(source.Kind), string(SourceBrowse), string(SourceGallery), string(SourceEntity))

	if source.Kind == SourceEntity {
		_, known := catalog.LookupEntityKind(source.Entity)
		validator.Custom("source.entity", !known, "Must be one of: artist, group, tag, character, parody")
		validator.Required("source.name", source.Name)
	}
	return validator.Err()
}

// defaultKind is the item kind addressed by a bare item ID.
func (source Source) defaultKind() catalog.Kind {
	switch source.Kind {
	case SourceGallery:
		return catalog.KindImage
	case SourceBrowse:
		return catalog.KindDoujinshi
	}
	return ""
}

// # Criteria

// Criteria is the filter and sort state of a view.
type Criteria struct {
	Filter filter.Spec   `json:"filter"`
	Sort   ordering.Spec `json:"sort"`
}

// Normalize canonicalises both halves so equal criteria serialise equally.
func (criteria Criteria) Normalize() Criteria {
	criteria.Filter = criteria.Filter.Normalize()
	criteria.Sort = criteria.Sort.Normalize()
	return criteria
}

// Validate checks the filter ranges and the sort key.
func (criteria Criteria) Validate() error {
	if !criteria.Sort.IsValid() {
		return validate.RequiredError("sort.key", "Must be one of: uploaded, rating, oCount, title, random")
	}
	return criteria.Filter.Validate()
}

// Fingerprint identifies the normalized criteria. Any change of a filter or
// sort field changes the fingerprint.
func (criteria Criteria) Fingerprint() uint64 {
	payload, err := json.Marshal(criteria.Normalize())
	if err != nil {
		return 0
	}
	return xxhash.Sum64(payload)
}

// # Viewport

// Viewport is the measured geometry of the list container.
type Viewport struct {
	Width     float64 `json:"width"`
	RowHeight float64 `json:"rowHeight"`
	Gap       float64 `json:"gap"`
	Touch     bool    `json:"touch"`
}

func (viewport Viewport) options() layout.Options {
	return layout.Options{
		TargetRowHeight: viewport.RowHeight,
		ContainerWidth:  layout.ClampWidth(viewport.Width),
		Gap:             viewport.Gap,
	}
}

// # Rendered Output

// Tile is one placed item.
type Tile struct {
	Position int          `json:"position"`
	Item     catalog.Item `json:"item"`
	Flag     string       `json:"flag,omitempty"`
	Width    float64      `json:"width"`
	Height   float64      `json:"height"`
}

// Row is one justified row of tiles.
type Row struct {
	Tiles  []Tile  `json:"tiles"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Scale  float64 `json:"scale"`
}

// Page is the rendered state of a view.
type Page struct {
	ID             string        `json:"id"`
	Source         Source        `json:"source"`
	Criteria       Criteria      `json:"criteria"`
	Viewport       Viewport      `json:"viewport"`
	Chips          []filter.Chip `json:"chips"`
	CollectionSize int           `json:"collectionSize"`
	Total          int           `json:"total"`
	Visible        int           `json:"visible"`
	Page           int           `json:"page"`
	HasMore        bool          `json:"hasMore"`
	Sentinel       int           `json:"sentinel"`
	Rows           []Row         `json:"rows"`
	Viewer         *ViewerState  `json:"viewer,omitempty"`
	Version        uint64        `json:"version"`
}

// # View

// Settings are the defaults and timers shared by every view.
type Settings struct {
	PageSize    int
	RowHeight   float64
	Gap         float64
	IdleDesktop time.Duration
	IdleTouch   time.Duration
	TTL         time.Duration
}

type resultKey struct {
	version     uint64
	fingerprint uint64
	seed        uint64
}

type rowKey struct {
	result  resultKey
	options layout.Options
	visible int
}

// View is one mounted list page. All methods are safe for concurrent use.
type View struct {
	mu sync.Mutex

	id       string
	source   Source
	library  Library
	settings Settings

	collection  *catalog.Collection
	loads       uint64
	criteria    Criteria
	fingerprint uint64
	viewport    Viewport
	scroll      *scroll.Controller
	seed        uint64

	fetches generation.Token
	timers  *clock.Group
	viewer  *viewer
	closed  bool

	resultCacheKey resultKey
	resultCache    []catalog.Item
	rowCacheKey    rowKey
	rowCache       []Row
}

// newView builds an empty view. The collection is loaded by [View.Refresh].
func newView(id string, source Source, library Library, settings Settings, timeSource clock.Clock, snapshot Snapshot) *View {
	criteria := snapshot.Criteria.Normalize()
	fingerprint := criteria.Fingerprint()

	view := &View{
		id:          id,
		source:      source,
		library:     library,
		settings:    settings,
		collection:  catalog.NewCollection(nil, 0),
		criteria:    criteria,
		fingerprint: fingerprint,
		viewport:    snapshot.Viewport,
		scroll:      scroll.Restore(settings.PageSize, snapshot.Page, fingerprint),
		seed:        snapshot.Seed,
	}
	if view.seed == 0 {
		view.seed = ordering.NewSeed()
	}
	view.timers = clock.NewGroup(timeSource, &view.mu)
	return view
}

// ID returns the view identifier.
func (view *View) ID() string {
	return view.id
}

// Render returns the current page.
func (view *View) Render() Page {
	view.mu.Lock()
	defer view.mu.Unlock()
	return view.render()
}

// Snapshot captures the persisted state.
func (view *View) Snapshot() Snapshot {
	view.mu.Lock()
	defer view.mu.Unlock()
	return view.snapshot()
}

func (view *View) snapshot() Snapshot {
	return Snapshot{
		ID:       view.id,
		Source:   view.source,
		Criteria: view.criteria,
		Viewport: view.viewport,
		Page:     view.scroll.Page(),
		Seed:     view.seed,
	}
}

// # State Transitions

/*
SetCriteria replaces the filter and sort state.

Any change resets the cursor to page 1. A changed sort draws a new shuffle
seed so "random" reshuffles when it is selected again.
*/
func (view *View) SetCriteria(criteria Criteria) (Page, error) {
	criteria = criteria.Normalize()
	if err := criteria.Validate(); err != nil {
		return Page{}, err
	}

	view.mu.Lock()
	defer view.mu.Unlock()

	if err := view.checkOpen(); err != nil {
		return Page{}, err
	}

	if criteria.Sort != view.criteria.Sort {
		view.seed = ordering.NewSeed()
	}
	view.criteria = criteria
	view.fingerprint = criteria.Fingerprint()
	view.scroll.Invalidate(view.fingerprint)

	return view.render(), nil
}

// RemoveChip drops one selected filter value.
func (view *View) RemoveChip(chip filter.Chip) (Page, error) {
	view.mu.Lock()
	criteria := view.criteria
	view.mu.Unlock()

	criteria.Filter = criteria.Filter.Without(chip)
	return view.SetCriteria(criteria)
}

// Resize applies a new container measurement. The cursor is kept.
func (view *View) Resize(viewport Viewport) (Page, error) {
	view.mu.Lock()
	defer view.mu.Unlock()

	if err := view.checkOpen(); err != nil {
		return Page{}, err
	}

	view.viewport = viewport
	if view.viewer != nil {
		view.viewer.touch = viewport.Touch
	}
	return view.render(), nil
}

/*
Sentinel handles the last rendered row entering the viewport.

The row reported by the client must be the attached sentinel; events for any
other row come from a stale node and are ignored.
*/
func (view *View) Sentinel(row int) (Page, error) {
	if row < 0 {
		return Page{}, validate.RequiredError("row", "Must be the index of the sentinel row")
	}

	view.mu.Lock()
	defer view.mu.Unlock()

	if err := view.checkOpen(); err != nil {
		return Page{}, err
	}

	view.render()
	if row == view.scroll.Sentinel() {
		view.scroll.SentinelVisible(len(view.results()))
	}
	return view.render(), nil
}

/*
Refresh reloads the collection from the library.

Fetches are ordered by issuance: when a newer refresh was started before this
one completed, this result is discarded and applied reports false. Reloading a
randomly sorted view reshuffles it; the first load keeps the restored seed.
*/
func (view *View) Refresh(context context.Context) (applied bool, err error) {
	view.mu.Lock()
	if err := view.checkOpen(); err != nil {
		view.mu.Unlock()
		return false, err
	}
	token := view.fetches.Next()
	source := view.source
	view.mu.Unlock()

	items, err := loadSource(context, view.library, source)

	view.mu.Lock()
	defer view.mu.Unlock()

	if !view.fetches.IsCurrent(token) || view.closed {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	reload := view.collection.Version() > 0
	view.collection = catalog.NewCollection(items, view.collection.Version()+1)
	view.loads++
	if reload && view.criteria.Sort.Key == ordering.KeyRandom {
		view.seed = ordering.NewSeed()
	}
	return true, nil
}

// Options returns the distinct dimension values of the loaded collection.
func (view *View) Options() map[catalog.Dimension][]string {
	view.mu.Lock()
	defer view.mu.Unlock()
	return filter.Options(view.collection.Items())
}

// Close releases every timer of the view. It is idempotent.
func (view *View) Close() {
	view.mu.Lock()
	defer view.mu.Unlock()

	view.closeViewer()
	view.timers.Close()
	view.closed = true
}

func (view *View) checkOpen() error {
	if view.closed {
		return apperr.NotFound("View")
	}
	return nil
}

// # Rendering

// results returns the filtered and sorted collection, cached by collection
// version, criteria and seed.
func (view *View) results() []catalog.Item {
	key := resultKey{version: view.collection.Version(), fingerprint: view.fingerprint, seed: view.seed}
	if view.resultCache != nil && key == view.resultCacheKey {
		return view.resultCache
	}

	filtered := filter.Apply(view.collection.Items(), view.criteria.Filter)
	view.resultCache = ordering.Sort(filtered, view.criteria.Sort, view.seed)
	view.resultCacheKey = key
	return view.resultCache
}

// rows packs the revealed window, cached by results, geometry and window size.
func (view *View) rows(results []catalog.Item) []Row {
	window := scroll.Window(view.scroll, results)
	options := view.viewport.options()

	key := rowKey{result: view.resultCacheKey, options: options, visible: len(window)}
	if view.rowCache != nil && key == view.rowCacheKey {
		return view.rowCache
	}

	ratios := make([]float64, len(window))
	for i, item := range window {
		ratios[i] = layout.AspectRatio(item.Width, item.Height)
	}

	packed := layout.Pack(ratios, options)
	rows := make([]Row, len(packed))
	for i, packedRow := range packed {
		tiles := make([]Tile, len(packedRow.Boxes))
		for j, box := range packedRow.Boxes {
			item := window[box.Index]
			tiles[j] = Tile{Position: box.Index, Item: item, Width: box.Width, Height: box.Height}
			if item.Kind == catalog.KindDoujinshi {
				tiles[j].Flag = catalog.LanguageFlag(item.Languages)
			}
		}
		rows[i] = Row{Tiles: tiles, Width: packedRow.TotalWidth, Height: packedRow.MaxHeight, Scale: packedRow.Scale}
	}

	view.rowCache = rows
	view.rowCacheKey = key
	return rows
}

func (view *View) render() Page {
	results := view.results()
	view.locateViewer(results)

	rows := view.rows(results)
	view.scroll.Sync(len(rows))

	page := Page{
		ID:             view.id,
		Source:         view.source,
		Criteria:       view.criteria,
		Viewport:       view.viewport,
		Chips:          view.criteria.Filter.Chips(),
		CollectionSize: view.collection.Len(),
		Total:          len(results),
		Visible:        view.scroll.Visible(len(results)),
		Page:           view.scroll.Page(),
		HasMore:        view.scroll.HasMore(len(results)),
		Sentinel:       view.scroll.Sentinel(),
		Rows:           rows,
		Version:        view.collection.Version(),
	}
	if view.viewer != nil {
		state := view.viewer.state(results)
		page.Viewer = &state
	}
	return page
}

// # Loading

func loadSource(context context.Context, library Library, source Source) ([]catalog.Item, error) {
	switch source.Kind {
	case SourceBrowse:
		return library.ListItems(context, catalog.KindDoujinshi)
	case SourceGallery:
		return library.ListItems(context, catalog.KindImage)
	case SourceEntity:
		kind, ok := catalog.LookupEntityKind(source.Entity)
		if !ok {
			return nil, apperr.NotFound("Entity kind")
		}
		entityPage, err := library.GetEntity(context, kind, source.Name)
		if err != nil {
			return nil, err
		}
		items := make([]catalog.Item, 0, len(entityPage.Doujinshi)+len(entityPage.Images))
		items = append(items, entityPage.Doujinshi...)
		items = append(items, entityPage.Images...)
		return items, nil
	}
	return nil, source.Validate()
}
