// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/taibuivan/folio/internal/filter"
)

// # Saved Filters

// SavedFilter is a named filter specification stored by the library.
type SavedFilter struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Filters   filter.Spec `json:"filters"`
	CreatedAt time.Time   `json:"createdAt"`
}

// ListSavedFilters fetches every saved filter.
func (client *Client) ListSavedFilters(context context.Context) ([]SavedFilter, error) {
	var envelope struct {
		SavedFilters []SavedFilter `json:"savedFilters"`
	}
	if err := client.do(context, call{method: http.MethodGet, path: "/api/user/saved-filters", out: &envelope}); err != nil {
		return nil, err
	}
	if envelope.SavedFilters == nil {
		return []SavedFilter{}, nil
	}
	return envelope.SavedFilters, nil
}

// CreateSavedFilter stores a new saved filter and returns it as the library
// recorded it.
func (client *Client) CreateSavedFilter(context context.Context, name string, spec filter.Spec) (SavedFilter, error) {
	body := struct {
		Name    string      `json:"name"`
		Filters filter.Spec `json:"filters"`
	}{Name: name, Filters: spec}

	var envelope struct {
		SavedFilter *SavedFilter `json:"savedFilter"`
	}
	if err := client.do(context, call{method: http.MethodPost, path: "/api/user/saved-filters", body: body, out: &envelope}); err != nil {
		return SavedFilter{}, err
	}
	if envelope.SavedFilter == nil {
		return SavedFilter{Name: name, Filters: spec}, nil
	}
	return *envelope.SavedFilter, nil
}

// DeleteSavedFilter removes one saved filter.
func (client *Client) DeleteSavedFilter(context context.Context, id int64) error {
	path := "/api/user/saved-filters/" + strconv.FormatInt(id, 10)
	return client.do(context, call{method: http.MethodDelete, path: path})
}

// # Bookmarks

// Bookmark marks one page of a doujinshi.
type Bookmark struct {
	ID       int64  `json:"id,omitempty"`
	Filename string `json:"filename"`
	Name     string `json:"name"`
}

// ListBookmarks fetches the bookmarks of one doujinshi.
func (client *Client) ListBookmarks(context context.Context, doujinshiID int64) ([]Bookmark, error) {
	var envelope struct {
		Bookmarks []Bookmark `json:"bookmarks"`
	}
	path := "/api/user/doujinshi/" + strconv.FormatInt(doujinshiID, 10) + "/bookmarks"
	if err := client.do(context, call{method: http.MethodGet, path: path, out: &envelope}); err != nil {
		return nil, err
	}
	if envelope.Bookmarks == nil {
		return []Bookmark{}, nil
	}
	return envelope.Bookmarks, nil
}

// AddBookmark bookmarks one page.
func (client *Client) AddBookmark(context context.Context, doujinshiID int64, bookmark Bookmark) error {
	path := "/api/user/doujinshi/" + strconv.FormatInt(doujinshiID, 10) + "/bookmark"
	return client.do(context, call{method: http.MethodPost, path: path, body: bookmark})
}

// RemoveBookmark removes the bookmark of one page.
func (client *Client) RemoveBookmark(context context.Context, doujinshiID int64, filename string) error {
	path := "/api/user/doujinshi/" + strconv.FormatInt(doujinshiID, 10) + "/bookmark"
	return client.do(context, call{method: http.MethodDelete, path: path, query: url.Values{"filename": {filename}}})
}
