// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upstream

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/folio/internal/catalog"
	"github.com/taibuivan/folio/internal/platform/apperr"
)

// # Catalogue Items

/*
ListItems fetches every item of one kind.

Parameters:
  - context: context.Context
  - kind: catalog.Kind (doujinshi or image)

Returns:
  - []catalog.Item: Never nil
  - error: Upstream failures
*/
func (client *Client) ListItems(context context.Context, kind catalog.Kind) ([]catalog.Item, error) {
	switch kind {
	case catalog.KindDoujinshi:
		var envelope struct {
			Doujinshi []doujinshiDTO `json:"doujinshi"`
		}
		if err := client.do(context, call{method: http.MethodGet, path: "/api/doujinshi", out: &envelope}); err != nil {
			return nil, err
		}
		return doujinshiItems(envelope.Doujinshi), nil

	case catalog.KindImage:
		var envelope struct {
			Images []imageDTO `json:"images"`
		}
		if err := client.do(context, call{method: http.MethodGet, path: "/api/images", out: &envelope}); err != nil {
			return nil, err
		}
		return imageItems(envelope.Images), nil
	}

	return nil, apperr.ValidationError(fmt.Sprintf("Unknown item kind %q", kind))
}

// GetDoujinshi fetches the detail record of one doujinshi.
func (client *Client) GetDoujinshi(context context.Context, id int64) (catalog.Item, error) {
	var envelope struct {
		Data *doujinshiDTO `json:"doujinshiData"`
	}
	path := "/api/doujinshi/" + strconv.FormatInt(id, 10)
	if err := client.do(context, call{method: http.MethodGet, path: path, out: &envelope}); err != nil {
		return catalog.Item{}, err
	}
	if envelope.Data == nil {
		return catalog.Item{}, apperr.NotFound("Doujinshi")
	}
	return envelope.Data.item(), nil
}

// GetPages fetches the page URLs of one doujinshi, in reading order.
func (client *Client) GetPages(context context.Context, id int64) ([]string, error) {
	var envelope struct {
		Pages []string `json:"pages"`
	}
	path := "/api/doujinshi/" + strconv.FormatInt(id, 10) + "/pages"
	if err := client.do(context, call{method: http.MethodGet, path: path, out: &envelope}); err != nil {
		return nil, err
	}
	return nonNil(envelope.Pages), nil
}

/*
GetDoujinshiWithPages fetches an item and its pages concurrently.

Both are required before a reader can render, so the two calls are joined:
the first failure cancels the other and is returned.
*/
func (client *Client) GetDoujinshiWithPages(context context.Context, id int64) (catalog.Item, []string, error) {
	var (
		item  catalog.Item
		pages []string
	)

	group, groupContext := errgroup.WithContext(context)
	group.Go(func() error {
		var err error
		item, err = client.GetDoujinshi(groupContext, id)
		return err
	})
	group.Go(func() error {
		var err error
		pages, err = client.GetPages(groupContext, id)
		return err
	})

	if err := group.Wait(); err != nil {
		return catalog.Item{}, nil, err
	}
	return item, pages, nil
}

// ListSimilar fetches the doujinshi that share metadata with one work.
func (client *Client) ListSimilar(context context.Context, id int64) ([]catalog.Item, error) {
	var envelope struct {
		Similar []doujinshiDTO `json:"similarDoujins"`
	}
	path := "/api/doujinshi/" + strconv.FormatInt(id, 10) + "/similar/metadata"
	if err := client.do(context, call{method: http.MethodGet, path: path, out: &envelope}); err != nil {
		return nil, err
	}
	return doujinshiItems(envelope.Similar), nil
}

// ListArtistWorks fetches the doujinshi credited to one artist. The name is
// escaped when the URL is built.
func (client *Client) ListArtistWorks(context context.Context, artist string) ([]catalog.Item, error) {
	var envelope struct {
		Doujinshi []doujinshiDTO `json:"doujinshi"`
	}
	path := "/api/artist/" + artist
	if err := client.do(context, call{method: http.MethodGet, path: path, out: &envelope}); err != nil {
		return nil, err
	}
	return doujinshiItems(envelope.Doujinshi), nil
}

// # Progress

// Progress is a partial progress update. Nil fields are left unchanged.
type Progress struct {
	Rating   *int `json:"rating,omitempty"`
	LastPage *int `json:"lastPage,omitempty"`
	OCount   *int `json:"o_count,omitempty"`
}

// SetProgress writes rating, last page or oCount of one item.
func (client *Client) SetProgress(context context.Context, key catalog.Key, progress Progress) error {
	var path string
	switch key.Kind {
	case catalog.KindDoujinshi:
		path = "/api/user/doujinshi/" + strconv.FormatInt(key.ID, 10) + "/progress"
	case catalog.KindImage:
		path = "/api/user/images/" + strconv.FormatInt(key.ID, 10) + "/progress"
	default:
		return apperr.ValidationError(fmt.Sprintf("Unknown item kind %q", key.Kind))
	}
	return client.do(context, call{method: http.MethodPost, path: path, body: progress})
}

// # Favorites

/*
SetFavorite marks or unmarks a favorite.

Parameters:
  - context: context.Context
  - target: string (doujinshi, image, or an entity's singular name)
  - id: int64
  - favorite: bool (POST when true, DELETE when false)
*/
func (client *Client) SetFavorite(context context.Context, target string, id int64, favorite bool) error {
	method := http.MethodPost
	if !favorite {
		method = http.MethodDelete
	}
	path := "/api/user/favorite/" + target + "/" + strconv.FormatInt(id, 10)
	return client.do(context, call{method: method, path: path})
}

// # Dimension Mutations

// MutateValues adds or removes dimension values on one image.
func (client *Client) MutateValues(context context.Context, imageID int64, dimension catalog.Dimension, values []string, add bool) error {
	method := http.MethodPost
	if !add {
		method = http.MethodDelete
	}
	path := "/api/images/" + strconv.FormatInt(imageID, 10) + "/" + string(dimension)
	body := map[string][]string{string(dimension): values}
	return client.do(context, call{method: method, path: path, body: body})
}

// BatchValues adds dimension values to many images at once. It returns the
// number of images the library updated.
func (client *Client) BatchValues(context context.Context, dimension catalog.Dimension, imageIDs []int64, values []string) (int, error) {
	body := map[string]any{
		"image_ids":       imageIDs,
		string(dimension): values,
	}
	var envelope struct {
		UpdatedCount int `json:"updated_count"`
	}
	path := "/api/images/batch/" + string(dimension)
	if err := client.do(context, call{method: http.MethodPost, path: path, body: body, out: &envelope}); err != nil {
		return 0, err
	}
	return envelope.UpdatedCount, nil
}
