// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upstream_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/catalog"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/upstream"
)

func newClient(t *testing.T, handler http.Handler) *upstream.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := upstream.New(server.URL, 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return client
}

/*
TestListItems_Doujinshi converts the library's wire format into items.
*/
func TestListItems_Doujinshi(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/doujinshi", request.URL.Path)
		_, _ = io.WriteString(writer, `{"doujinshi":[{
			"ID": 7, "Title": "Catalog #1", "Pages": "24", "Uploaded": "2024-05-01T10:00:00Z",
			"Tags": ["a","b"], "Languages": null, "thumbnail_url": "/api/doujinshi/7/thumbnail",
			"progress": {"rating": 4, "lastPage": 3}
		}]}`)
	}))

	items, err := client.ListItems(context.Background(), catalog.KindDoujinshi)
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, int64(7), item.ID)
	assert.Equal(t, catalog.KindDoujinshi, item.Kind)
	assert.Equal(t, 24, item.Pages)
	assert.Equal(t, 4, item.Rating)
	assert.Equal(t, 3, item.LastPage)
	assert.Equal(t, []string{"a", "b"}, item.Tags)
	assert.NotNil(t, item.Languages)
	assert.NotNil(t, item.Artists)
	assert.Equal(t, 2024, item.Uploaded.Year())
}

/*
TestListItems_EmptyIsNotAnError maps an absent list to an empty slice.
*/
func TestListItems_EmptyIsNotAnError(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = io.WriteString(writer, `{"images": null}`)
	}))

	items, err := client.ListItems(context.Background(), catalog.KindImage)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

/*
TestErrorTaxonomy maps upstream failures onto application errors.
*/
func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		code    string
		message string
	}{
		{"error_field", http.StatusNotFound, `{"error":"Doujinshi not found"}`, "UPSTREAM_ERROR", "Doujinshi not found"},
		{"non_string_error", http.StatusInternalServerError, `{"error":{}}`, "UPSTREAM_ERROR", "HTTP 500"},
		{"plain_text", http.StatusBadRequest, `bad request`, "UPSTREAM_ERROR", "HTTP 400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				writer.WriteHeader(tt.status)
				_, _ = io.WriteString(writer, tt.body)
			}))

			_, err := client.ListItems(context.Background(), catalog.KindDoujinshi)
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, tt.code, appError.Code)
			assert.Equal(t, tt.message, appError.Message)
			assert.Equal(t, tt.status, appError.HTTPStatus)
		})
	}
}

/*
TestTransportFailure reports an unreachable library as UPSTREAM_UNAVAILABLE.
*/
func TestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client, err := upstream.New(server.URL, time.Second, nil)
	require.NoError(t, err)

	_, err = client.GetPages(context.Background(), 1)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", appError.Code)
	assert.Equal(t, http.StatusBadGateway, appError.HTTPStatus)
}

/*
TestGetDoujinshiWithPages joins both fetches and fails when either fails.
*/
func TestGetDoujinshiWithPages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/doujinshi/3", func(writer http.ResponseWriter, request *http.Request) {
		_, _ = io.WriteString(writer, `{"doujinshiData":{"ID":3,"Title":"Reader","Pages":"2"}}`)
	})
	mux.HandleFunc("/api/doujinshi/3/pages", func(writer http.ResponseWriter, request *http.Request) {
		_, _ = io.WriteString(writer, `{"pages":["/api/doujinshi/3/page/1.jpg","/api/doujinshi/3/page/2.jpg"]}`)
	})
	mux.HandleFunc("/api/doujinshi/4", func(writer http.ResponseWriter, request *http.Request) {
		_, _ = io.WriteString(writer, `{"doujinshiData":{"ID":4}}`)
	})
	mux.HandleFunc("/api/doujinshi/4/pages", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(writer, `{"error":"Failed to read pages"}`)
	})
	client := newClient(t, mux)

	item, pages, err := client.GetDoujinshiWithPages(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Reader", item.Title)
	assert.Len(t, pages, 2)

	_, _, err = client.GetDoujinshiWithPages(context.Background(), 4)
	require.Error(t, err)
	assert.Equal(t, "Failed to read pages", err.Error())
}

/*
TestOverviewLists reads the similar works and the works of an artist.
*/
func TestOverviewLists(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/doujinshi/3/similar/metadata", func(writer http.ResponseWriter, request *http.Request) {
		_, _ = io.WriteString(writer, `{"similarDoujins":[{"ID":5,"Title":"Five","Characters":["c"]}]}`)
	})
	mux.HandleFunc("/api/artist/", func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/artist/Some One", request.URL.Path)
		_, _ = io.WriteString(writer, `{"doujinshi":null}`)
	})
	client := newClient(t, mux)

	similar, err := client.ListSimilar(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, similar, 1)
	assert.Equal(t, int64(5), similar[0].ID)
	assert.Equal(t, []string{"c"}, similar[0].Characters)

	works, err := client.ListArtistWorks(context.Background(), "Some One")
	require.NoError(t, err)
	assert.NotNil(t, works)
	assert.Empty(t, works)
}

/*
TestMutations sends the documented request shapes.
*/
func TestMutations(t *testing.T) {
	var seen atomic.Value
	client := newClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		body, _ := io.ReadAll(request.Body)
		seen.Store(request.Method + " " + request.URL.RequestURI() + " " + string(body))
		if request.URL.Path == "/api/images/batch/tags" {
			_, _ = io.WriteString(writer, `{"updated_count": 2}`)
		}
	}))
	ctx := context.Background()

	require.NoError(t, client.SetFavorite(ctx, "artist", 5, false))
	assert.Equal(t, "DELETE /api/user/favorite/artist/5 ", seen.Load())

	rating := 4
	require.NoError(t, client.SetProgress(ctx, catalog.Key{Kind: catalog.KindImage, ID: 9}, upstream.Progress{Rating: &rating}))
	assert.Equal(t, `POST /api/user/images/9/progress {"rating":4}`, seen.Load())

	require.NoError(t, client.MutateValues(ctx, 9, catalog.DimensionArtists, []string{"x"}, true))
	assert.Equal(t, `POST /api/images/9/artists {"artists":["x"]}`, seen.Load())

	updated, err := client.BatchValues(ctx, catalog.DimensionTags, []int64{1, 2}, []string{"t"})
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	var batch map[string]any
	raw := seen.Load().(string)
	require.NoError(t, json.Unmarshal([]byte(raw[len("POST /api/images/batch/tags "):]), &batch))
	assert.Equal(t, []any{1.0, 2.0}, batch["image_ids"])
	assert.Equal(t, []any{"t"}, batch["tags"])

	require.NoError(t, client.RemoveBookmark(ctx, 3, "p 1.jpg"))
	assert.Equal(t, "DELETE /api/user/doujinshi/3/bookmark?filename=p+1.jpg ", seen.Load())
}

/*
TestGetEntity reads the kind-specific details key.
*/
func TestGetEntity(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/parody/0", request.URL.Path)
		assert.Equal(t, "Some Show", request.URL.Query().Get("name"))
		_, _ = io.WriteString(writer, `{
			"parodyDetails": {"id": 11, "name": "Some Show", "isFavorite": true, "doujinCount": 1},
			"doujinshiList": [{"ID": 1, "Title": "One"}],
			"imagesList": null
		}`)
	}))

	page, err := client.GetEntity(context.Background(), catalog.EntityParody, "Some Show")
	require.NoError(t, err)
	assert.Equal(t, int64(11), page.Details.ID)
	assert.True(t, page.Details.IsFavorite)
	assert.Len(t, page.Doujinshi, 1)
	assert.NotNil(t, page.Images)
	assert.Empty(t, page.Images)
}

/*
TestSidebar keeps the lists that succeeded when one kind fails.
*/
func TestSidebar(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/api/tags":
			_, _ = io.WriteString(writer, `{"tags":[{"id":1,"name":"a"}]}`)
		case "/api/artists":
			writer.WriteHeader(http.StatusInternalServerError)
		default:
			_, _ = io.WriteString(writer, `{}`)
		}
	}))

	lists := client.Sidebar(context.Background(), []catalog.EntityKind{catalog.EntityTag, catalog.EntityArtist, catalog.EntityGroup})

	assert.Len(t, lists[catalog.DimensionTags], 1)
	assert.NotContains(t, lists, catalog.DimensionArtists)
	assert.NotNil(t, lists[catalog.DimensionGroups])
}
