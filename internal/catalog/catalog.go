// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog defines the domain entities shared by every folio view.

It models the two kinds of catalogue entries served by the media library
(doujinshi and standalone images) as a single [Item] shape, together with the
named multi-valued attributes ("dimensions") that filters and editors work on.

Core Responsibility:

  - Identity: a catalogue entry is addressed by its kind and numeric ID.
  - Dimensions: tags, artists, characters, parodies, groups, categories and
    languages are read through one accessor, [Item.Values].
  - Entities: the five browsable entity kinds share one configuration shape.

Items are values. The filter, sort and layout pipeline never mutates them.
*/
package catalog

import (
	"strings"
	"time"
)

// # Domain Enums

// Kind distinguishes the two kinds of catalogue entries.
type Kind string

const (
	// KindDoujinshi is a multi-page work read through the reader.
	KindDoujinshi Kind = "doujinshi"

	// KindImage is a standalone image shown in the gallery.
	KindImage Kind = "image"
)

// IsValid reports whether k is a recognised [Kind].
func (k Kind) IsValid() bool {
	return k == KindDoujinshi || k == KindImage
}

// # Core Entities

// Item is a single catalogue entry as seen by the views.
//
// Dimension slices may be nil on construction; [Item.Values] always yields a
// non-nil slice so callers never need to special-case a missing dimension.
type Item struct {
	ID          int64     `json:"id"`
	Kind        Kind      `json:"kind"`
	Title       string    `json:"title"`
	SecondTitle string    `json:"secondTitle,omitempty"`
	Filename    string    `json:"filename,omitempty"`
	Format      string    `json:"format,omitempty"`
	Pages       int       `json:"pages"`
	Uploaded    time.Time `json:"uploaded"`

	Tags       []string `json:"tags"`
	Artists    []string `json:"artists"`
	Characters []string `json:"characters"`
	Parodies   []string `json:"parodies"`
	Groups     []string `json:"groups"`
	Categories []string `json:"categories"`
	Languages  []string `json:"languages"`

	// # Counters
	OCount        int   `json:"oCount"`
	Rating        int   `json:"rating"` // 0-5
	BookmarkCount int   `json:"bookmarkCount"`
	FileSize      int64 `json:"fileSize,omitempty"`
	LastPage      int   `json:"lastPage"`

	// # Geometry (images only)
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	ThumbnailURL string `json:"thumbnailUrl"`
	IsFavorite   bool   `json:"isFavorite"`
}

// Key identifies an item across kinds.
type Key struct {
	Kind Kind
	ID   int64
}

// Key returns the identity of the item.
func (item Item) Key() Key {
	return Key{Kind: item.Kind, ID: item.ID}
}

// Name is the text used for search and alphabetical sorting: the title for
// doujinshi and the filename for images without a title.
func (item Item) Name() string {
	if item.Title != "" {
		return item.Title
	}
	return item.Filename
}

// DisplayTitle prefers the secondary title when it is not blank.
func (item Item) DisplayTitle() string {
	if strings.TrimSpace(item.SecondTitle) != "" {
		return item.SecondTitle
	}
	return item.Name()
}

// IsReading reports whether the reader stopped somewhere inside the work.
func (item Item) IsReading() bool {
	return item.Pages > 0 && item.LastPage > 0 && item.LastPage < item.Pages
}

// # Dimension Access

// Values returns the values of a dimension. Missing dimensions yield an empty,
// non-nil slice.
func (item Item) Values(dimension Dimension) []string {
	var values []string
	switch dimension {
	case DimensionTags:
		values = item.Tags
	case DimensionArtists:
		values = item.Artists
	case DimensionCharacters:
		values = item.Characters
	case DimensionParodies:
		values = item.Parodies
	case DimensionGroups:
		values = item.Groups
	case DimensionCategories:
		values = item.Categories
	case DimensionLanguages:
		values = item.Languages
	}
	if values == nil {
		return []string{}
	}
	return values
}

// WithValues returns a copy of the item with the dimension replaced. The
// original item and its slices are left untouched.
func (item Item) WithValues(dimension Dimension, values []string) Item {
	cloned := append([]string{}, values...)
	switch dimension {
	case DimensionTags:
		item.Tags = cloned
	case DimensionArtists:
		item.Artists = cloned
	case DimensionCharacters:
		item.Characters = cloned
	case DimensionParodies:
		item.Parodies = cloned
	case DimensionGroups:
		item.Groups = cloned
	case DimensionCategories:
		item.Categories = cloned
	case DimensionLanguages:
		item.Languages = cloned
	}
	return item
}
