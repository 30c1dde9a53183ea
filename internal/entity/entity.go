// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package entity serves the list and detail pages of the five entity kinds
(artist, group, tag, character, parody).

Every kind shares one handler and one service. The kind only selects the
library endpoints and labels through [catalog.EntityKind].
*/
package entity

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/taibuivan/folio/internal/catalog"
	"github.com/taibuivan/folio/internal/ordering"
	"github.com/taibuivan/folio/pkg/pointer"
	"github.com/taibuivan/folio/pkg/slice"
)

// SortKey selects the list order.
type SortKey string

const (
	SortName   SortKey = "name"
	SortCount  SortKey = "count"
	SortOCount SortKey = "oCount"
	SortRating SortKey = "rating"
	SortRandom SortKey = "random"
)

// ParseSortKey accepts the canonical keys and the field names used by the
// list page ("doujinCount", "totalOCount", "averageRating").
func ParseSortKey(raw string) (SortKey, bool) {
	switch strings.ToLower(raw) {
	case "", "name":
		return SortName, true
	case "count", "doujincount":
		return SortCount, true
	case "ocount", "totalocount":
		return SortOCount, true
	case "rating", "averagerating":
		return SortRating, true
	case "random":
		return SortRandom, true
	}
	return "", false
}

// Query is the search, filter and sort state of a list page.
type Query struct {
	Search        string
	FavoritesOnly bool
	MinCount      int
	MinOCount     int64
	MinRating     float64
	Sort          SortKey
	Descending    bool
	Seed          uint64
}

// Apply filters and orders entities. The input slice is left untouched.
func Apply(entities []catalog.Entity, query Query) []catalog.Entity {

	// 1. Filters
	needle := cases.Fold().String(strings.TrimSpace(query.Search))
	folder := cases.Fold()
	matched := slice.Filter(entities, func(entity catalog.Entity) bool {
		if needle != "" && !strings.Contains(folder.String(entity.Name), needle) {
			return false
		}
		if query.FavoritesOnly && !entity.IsFavorite {
			return false
		}
		if entity.DoujinCount < query.MinCount || entity.TotalOCount < query.MinOCount {
			return false
		}
		if query.MinRating > 0 && (entity.AverageRating == nil || *entity.AverageRating < query.MinRating) {
			return false
		}
		return true
	})
	if matched == nil {
		matched = []catalog.Entity{}
	}

	// 2. Order
	if query.Sort == SortRandom {
		ordering.Shuffle(matched, ordering.NewRand(query.Seed))
		return matched
	}

	compare := comparator(query.Sort)
	if query.Descending {
		ascending := compare
		compare = func(a, b catalog.Entity) int { return -ascending(a, b) }
	}
	slices.SortStableFunc(matched, compare)
	return matched
}

func comparator(key SortKey) func(a, b catalog.Entity) int {
	switch key {
	case SortCount:
		return func(a, b catalog.Entity) int { return cmp.Compare(a.DoujinCount, b.DoujinCount) }
	case SortOCount:
		return func(a, b catalog.Entity) int { return cmp.Compare(a.TotalOCount, b.TotalOCount) }
	case SortRating:
		return func(a, b catalog.Entity) int { return cmp.Compare(rating(a), rating(b)) }
	}
	collator := ordering.NewCollator()
	return func(a, b catalog.Entity) int { return collator.CompareString(a.Name, b.Name) }
}

// rating ranks unrated entities below every rated one.
func rating(entity catalog.Entity) float64 {
	return pointer.Fallback(entity.AverageRating, -1)
}
