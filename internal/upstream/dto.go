// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upstream

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/folio/internal/catalog"
	"github.com/taibuivan/folio/pkg/slice"
)

// # Wire Primitives

// flexInt accepts a JSON number, a numeric string, or null.
type flexInt int

func (value *flexInt) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if raw == "" || raw == "null" {
		*value = 0
		return nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		// Page counts such as "24 pages" keep their leading number.
		fields := strings.Fields(raw)
		if len(fields) == 0 {
			*value = 0
			return nil
		}
		if parsed, err = strconv.Atoi(fields[0]); err != nil {
			*value = 0
			return nil
		}
	}
	*value = flexInt(parsed)
	return nil
}

// flexTime accepts RFC 3339 timestamps, an empty string, or null.
type flexTime time.Time

func (value *flexTime) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if raw == "" || raw == "null" {
		*value = flexTime(time.Time{})
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			*value = flexTime(parsed)
			return nil
		}
	}
	*value = flexTime(time.Time{})
	return nil
}

// # Items

type progressDTO struct {
	Rating   int `json:"rating"`
	LastPage int `json:"lastPage"`
}

// doujinshiDTO is a doujinshi as listed by the media library. Identifiers and
// dimensions use the library's exported Go field names.
type doujinshiDTO struct {
	ID            int64        `json:"ID"`
	Title         string       `json:"Title"`
	SecondTitle   string       `json:"SecondTitle"`
	Pages         flexInt      `json:"Pages"`
	Uploaded      flexTime     `json:"Uploaded"`
	FolderName    string       `json:"FolderName"`
	Tags          []string     `json:"Tags"`
	Artists       []string     `json:"Artists"`
	Characters    []string     `json:"Characters"`
	Parodies      []string     `json:"Parodies"`
	Groups        []string     `json:"Groups"`
	Languages     []string     `json:"Languages"`
	Categories    []string     `json:"Categories"`
	ThumbnailURL  string       `json:"thumbnail_url"`
	OCount        int          `json:"oCount"`
	BookmarkCount int          `json:"bookmark_count"`
	IsFavorite    bool         `json:"isFavorite"`
	Progress      *progressDTO `json:"progress"`
}

func (dto doujinshiDTO) item() catalog.Item {
	item := catalog.Item{
		ID:            dto.ID,
		Kind:          catalog.KindDoujinshi,
		Title:         dto.Title,
		SecondTitle:   dto.SecondTitle,
		Filename:      dto.FolderName,
		Pages:         int(dto.Pages),
		Uploaded:      time.Time(dto.Uploaded),
		Tags:          nonNil(dto.Tags),
		Artists:       nonNil(dto.Artists),
		Characters:    nonNil(dto.Characters),
		Parodies:      nonNil(dto.Parodies),
		Groups:        nonNil(dto.Groups),
		Categories:    nonNil(dto.Categories),
		Languages:     nonNil(dto.Languages),
		OCount:        dto.OCount,
		BookmarkCount: dto.BookmarkCount,
		ThumbnailURL:  dto.ThumbnailURL,
		IsFavorite:    dto.IsFavorite,
	}
	if dto.Progress != nil {
		item.Rating = dto.Progress.Rating
		item.LastPage = dto.Progress.LastPage
	}
	return item
}

// imageDTO is a standalone image as listed by the media library.
type imageDTO struct {
	ID           int64    `json:"id"`
	Filename     string   `json:"filename"`
	FileSize     int64    `json:"file_size"`
	Width        int      `json:"width"`
	Height       int      `json:"height"`
	Format       string   `json:"format"`
	Uploaded     flexTime `json:"uploaded"`
	Tags         []string `json:"tags"`
	Artists      []string `json:"artists"`
	Characters   []string `json:"characters"`
	Parodies     []string `json:"parodies"`
	Groups       []string `json:"groups"`
	Categories   []string `json:"categories"`
	Rating       int      `json:"rating"`
	OCount       int      `json:"o_count"`
	ThumbnailURL string   `json:"thumbnail_url"`
	IsFavorite   bool     `json:"isFavorite"`
}

func (dto imageDTO) item() catalog.Item {
	return catalog.Item{
		ID:           dto.ID,
		Kind:         catalog.KindImage,
		Filename:     dto.Filename,
		Format:       strings.ToLower(dto.Format),
		Pages:        1,
		Uploaded:     time.Time(dto.Uploaded),
		Tags:         nonNil(dto.Tags),
		Artists:      nonNil(dto.Artists),
		Characters:   nonNil(dto.Characters),
		Parodies:     nonNil(dto.Parodies),
		Groups:       nonNil(dto.Groups),
		Categories:   nonNil(dto.Categories),
		Languages:    []string{},
		OCount:       dto.OCount,
		Rating:       dto.Rating,
		FileSize:     dto.FileSize,
		Width:        dto.Width,
		Height:       dto.Height,
		ThumbnailURL: dto.ThumbnailURL,
		IsFavorite:   dto.IsFavorite,
	}
}

func doujinshiItems(dtos []doujinshiDTO) []catalog.Item {
	items := slice.Map(dtos, doujinshiDTO.item)
	if items == nil {
		return []catalog.Item{}
	}
	return items
}

func imageItems(dtos []imageDTO) []catalog.Item {
	items := slice.Map(dtos, imageDTO.item)
	if items == nil {
		return []catalog.Item{}
	}
	return items
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// # Entities

// entityPageDTO is the detail answer. The details live under a kind-specific
// key ("artistDetails"), so the body is decoded field by field.
type entityPageDTO map[string]json.RawMessage

func (dto entityPageDTO) page(kind catalog.EntityKind) (catalog.EntityPage, error) {
	page := catalog.EntityPage{Doujinshi: []catalog.Item{}, Images: []catalog.Item{}}

	if raw, ok := dto[kind.DetailsKey]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &page.Details); err != nil {
			return page, err
		}
	}
	if raw, ok := dto["doujinshiList"]; ok && !isNull(raw) {
		var doujinshi []doujinshiDTO
		if err := json.Unmarshal(raw, &doujinshi); err != nil {
			return page, err
		}
		page.Doujinshi = doujinshiItems(doujinshi)
	}
	if raw, ok := dto["imagesList"]; ok && !isNull(raw) {
		var images []imageDTO
		if err := json.Unmarshal(raw, &images); err != nil {
			return page, err
		}
		page.Images = imageItems(images)
	}
	return page, nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null"
}
