// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package overview

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/folio/internal/catalog"
)

// Library is the media-library surface of the overview page.
type Library interface {
	GetDoujinshiWithPages(context context.Context, id int64) (catalog.Item, []string, error)
	ListArtistWorks(context context.Context, artist string) ([]catalog.Item, error)
	ListSimilar(context context.Context, id int64) ([]catalog.Item, error)
}

// Service builds overview pages.
type Service struct {
	library Library
	logger  *slog.Logger
}

// NewService constructs a new [Service].
func NewService(library Library, logger *slog.Logger) *Service {
	return &Service{library: library, logger: logger}
}

/*
Get loads the overview of one doujinshi.

Description: The work and its pages are required. The works of the first
artist and the similar works are fetched concurrently afterwards; a failure
there is logged and leaves that list empty.

Returns:
  - Overview: The assembled page
  - error: NotFound or library errors of the work itself
*/
func (service *Service) Get(ctx context.Context, id int64) (Overview, error) {

	// 1. Work and pages, joined
	item, pages, err := service.library.GetDoujinshiWithPages(ctx, id)
	if err != nil {
		return Overview{}, err
	}

	overview := Overview{
		Item:        item,
		Pages:       pages,
		Preview:     pages[:min(len(pages), PreviewLimit)],
		ArtistWorks: []catalog.Item{},
		Similar:     []catalog.Item{},
	}
	if len(item.Artists) > 0 {
		overview.Artist = item.Artists[0]
	}

	// 2. Side lists, best effort
	var group errgroup.Group
	if overview.Artist != "" {
		group.Go(func() error {
			works, err := service.library.ListArtistWorks(ctx, overview.Artist)
			if err != nil {
				service.logger.Warn("overview_artist_works_failed",
					slog.Int64("doujinshi_id", id),
					slog.String("artist", overview.Artist),
					slog.Any("error", err),
				)
				return nil
			}
			overview.ArtistWorks = otherWorks(id, works)
			return nil
		})
	}
	group.Go(func() error {
		candidates, err := service.library.ListSimilar(ctx, id)
		if err != nil {
			service.logger.Warn("overview_similar_failed", slog.Int64("doujinshi_id", id), slog.Any("error", err))
			return nil
		}
		overview.Similar = RankSimilar(item, candidates)
		return nil
	})
	_ = group.Wait()

	return overview, nil
}
