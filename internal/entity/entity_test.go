// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package entity_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/catalog"
	"github.com/taibuivan/folio/internal/entity"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/pkg/pagination"
)

// # Fixtures

type favoriteCall struct {
	target   string
	id       int64
	favorite bool
}

type fakeLibrary struct {
	mu sync.Mutex

	entities    []catalog.Entity
	listCalls   int
	favorites   []favoriteCall
	favoriteErr error
	onFavorite  func()
}

func (library *fakeLibrary) ListEntities(ctx context.Context, kind catalog.EntityKind) ([]catalog.Entity, error) {
	library.mu.Lock()
	defer library.mu.Unlock()
	library.listCalls++
	return append([]catalog.Entity{}, library.entities...), nil
}

func (library *fakeLibrary) GetEntity(ctx context.Context, kind catalog.EntityKind, name string) (catalog.EntityPage, error) {
	for _, candidate := range library.entities {
		if candidate.Name == name {
			return catalog.EntityPage{Details: candidate, Doujinshi: []catalog.Item{}, Images: []catalog.Item{}}, nil
		}
	}
	return catalog.EntityPage{}, apperr.NotFound(kind.Label)
}

func (library *fakeLibrary) SetFavorite(ctx context.Context, target string, id int64, favorite bool) error {
	if library.onFavorite != nil {
		library.onFavorite()
	}
	library.mu.Lock()
	defer library.mu.Unlock()
	library.favorites = append(library.favorites, favoriteCall{target, id, favorite})
	return library.favoriteErr
}

func rated(value float64) *float64 { return &value }

func fixtures() []catalog.Entity {
	return []catalog.Entity{
		{ID: 1, Name: "Zeta", DoujinCount: 4, TotalOCount: 1, AverageRating: rated(3)},
		{ID: 2, Name: "alpha", DoujinCount: 10, TotalOCount: 9, IsFavorite: true},
		{ID: 3, Name: "Émile", DoujinCount: 1, TotalOCount: 5, AverageRating: rated(4.5)},
		{ID: 4, Name: "Beta", DoujinCount: 7, TotalOCount: 0, AverageRating: rated(2)},
	}
}

func names(entities []catalog.Entity) []string {
	out := make([]string, len(entities))
	for i, entity := range entities {
		out[i] = entity.Name
	}
	return out
}

func newService(library *fakeLibrary) *entity.Service {
	return entity.NewService(library, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// # Apply

/*
TestApply_Sort checks every sort key and direction.
*/
func TestApply_Sort(t *testing.T) {
	tests := []struct {
		name  string
		query entity.Query
		want  []string
	}{
		{"NameAscending", entity.Query{Sort: entity.SortName}, []string{"alpha", "Beta", "Émile", "Zeta"}},
		{"NameDescending", entity.Query{Sort: entity.SortName, Descending: true}, []string{"Zeta", "Émile", "Beta", "alpha"}},
		{"CountDescending", entity.Query{Sort: entity.SortCount, Descending: true}, []string{"alpha", "Beta", "Zeta", "Émile"}},
		{"OCountAscending", entity.Query{Sort: entity.SortOCount}, []string{"Beta", "Zeta", "Émile", "alpha"}},
		{"RatingUnratedLast", entity.Query{Sort: entity.SortRating, Descending: true}, []string{"Émile", "Zeta", "Beta", "alpha"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(entity.Apply(fixtures(), tt.query)))
		})
	}
}

/*
TestApply_Filters checks search and the minimum thresholds.
*/
func TestApply_Filters(t *testing.T) {
	tests := []struct {
		name  string
		query entity.Query
		want  []string
	}{
		{"SearchCaseInsensitive", entity.Query{Search: "ALP"}, []string{"alpha"}},
		{"SearchNoMatch", entity.Query{Search: "nothing"}, []string{}},
		{"FavoritesOnly", entity.Query{FavoritesOnly: true}, []string{"alpha"}},
		{"MinCount", entity.Query{MinCount: 5}, []string{"alpha", "Beta"}},
		{"MinOCount", entity.Query{MinOCount: 5}, []string{"alpha", "Émile"}},
		{"MinRatingSkipsUnrated", entity.Query{MinRating: 3}, []string{"Émile", "Zeta"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(entity.Apply(fixtures(), tt.query)))
		})
	}
}

/*
TestApply_RandomSeeded keeps one permutation per seed and leaves the input alone.
*/
func TestApply_RandomSeeded(t *testing.T) {
	input := fixtures()
	first := entity.Apply(input, entity.Query{Sort: entity.SortRandom, Seed: 42})
	second := entity.Apply(input, entity.Query{Sort: entity.SortRandom, Seed: 42})

	assert.Equal(t, names(first), names(second))
	assert.ElementsMatch(t, names(fixtures()), names(first))
	assert.Equal(t, names(fixtures()), names(input))
}

// # Service

/*
TestService_ListPaginates returns the requested page and the full match count.
*/
func TestService_ListPaginates(t *testing.T) {
	service := newService(&fakeLibrary{entities: fixtures()})

	page, total, err := service.List(context.Background(), catalog.EntityArtist,
		entity.Query{Sort: entity.SortName}, pagination.Params{Page: 2, Limit: 3})
	require.NoError(t, err)

	assert.Equal(t, 4, total)
	assert.Equal(t, "artists", page.Kind)
	assert.Equal(t, []string{"Zeta"}, names(page.Entities))
}

/*
TestService_SetFavorite patches the cached list and rolls back on failure.
*/
func TestService_SetFavorite(t *testing.T) {
	library := &fakeLibrary{entities: fixtures()}
	service := newService(library)

	// 1. Unknown in cache: the list is fetched once
	updated, err := service.SetFavorite(context.Background(), catalog.EntityTag, "Beta", true)
	require.NoError(t, err)
	assert.True(t, updated.IsFavorite)
	assert.Equal(t, 1, library.listCalls)
	assert.Equal(t, []favoriteCall{{"tag", 4, true}}, library.favorites)

	// 2. Optimistic value is visible during the request, then restored
	library.favoriteErr = errors.New("boom")
	var during bool
	library.onFavorite = func() {
		for _, cached := range service.Cached(catalog.EntityTag) {
			if cached.ID == 1 {
				during = cached.IsFavorite
			}
		}
	}

	_, err = service.SetFavorite(context.Background(), catalog.EntityTag, "Zeta", true)
	require.Error(t, err)
	assert.True(t, during)
	for _, cached := range service.Cached(catalog.EntityTag) {
		if cached.ID == 1 {
			assert.False(t, cached.IsFavorite)
		}
	}

	// 3. Unknown names
	_, err = service.SetFavorite(context.Background(), catalog.EntityTag, "Missing", true)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// # HTTP

func serve(handler http.Handler, method, path string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(method, path, nil))
	return recorder
}

/*
TestHandler_List parses the query string and wraps the page with its meta.
*/
func TestHandler_List(t *testing.T) {
	router := entity.NewHandler(newService(&fakeLibrary{entities: fixtures()})).Routes()

	recorder := serve(router, http.MethodGet, "/tags?sort=count&limit=2&minCount=2")
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var envelope struct {
		Data entity.ListPage `json:"data"`
		Meta pagination.Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))

	assert.Equal(t, []string{"alpha", "Beta"}, names(envelope.Data.Entities))
	assert.Equal(t, 3, envelope.Meta.Total)
	assert.Equal(t, 2, envelope.Meta.TotalPages)
}

/*
TestHandler_Errors maps malformed requests to the error envelope.
*/
func TestHandler_Errors(t *testing.T) {
	router := entity.NewHandler(newService(&fakeLibrary{entities: fixtures()})).Routes()

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"UnknownKind", http.MethodGet, "/studios", http.StatusBadRequest},
		{"BadSort", http.MethodGet, "/tags?sort=size", http.StatusBadRequest},
		{"BadDirection", http.MethodGet, "/tags?dir=up", http.StatusBadRequest},
		{"BadRating", http.MethodGet, "/tags?minRating=9", http.StatusBadRequest},
		{"UnknownEntity", http.MethodGet, "/tags/Missing", http.StatusNotFound},
		{"UnknownFavorite", http.MethodPost, "/tags/Missing/favorite", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := serve(router, tt.method, tt.path)
			assert.Equal(t, tt.status, recorder.Code, recorder.Body.String())
		})
	}
}

/*
TestHandler_Detail resolves escaped names.
*/
func TestHandler_Detail(t *testing.T) {
	library := &fakeLibrary{entities: append(fixtures(), catalog.Entity{ID: 9, Name: "Some Show"})}
	router := entity.NewHandler(newService(library)).Routes()

	recorder := serve(router, http.MethodGet, "/parody/Some%20Show")
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var envelope struct {
		Data catalog.EntityPage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, int64(9), envelope.Data.Details.ID)
}
