// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package overview assembles the detail page of one doujinshi.

The page joins the work, its pages, other works by its first artist and a
ranked list of works that share characters, parodies or tags.
*/
package overview

import (
	"slices"

	"github.com/taibuivan/folio/internal/catalog"
)

// PreviewLimit is the number of pages shown before the reader is opened.
const PreviewLimit = 6

// Overview is the payload of a doujinshi detail page.
type Overview struct {
	Item    catalog.Item `json:"item"`
	Pages   []string     `json:"pages"`
	Preview []string     `json:"preview"`

	// Artist is the first credited artist, empty when none is credited.
	Artist      string         `json:"artist,omitempty"`
	ArtistWorks []catalog.Item `json:"artistWorks"`
	Similar     []catalog.Item `json:"similar"`
}

/*
RankSimilar orders suggestions for a work.

Candidates sharing a character come first, then those sharing a parody, then
those sharing a tag. Input order is kept inside each tier. Candidates sharing
nothing, the work itself and repeated IDs are dropped.
*/
func RankSimilar(item catalog.Item, candidates []catalog.Item) []catalog.Item {
	tiers := []func(catalog.Item) bool{
		func(candidate catalog.Item) bool { return sharesAny(candidate.Characters, item.Characters) },
		func(candidate catalog.Item) bool { return sharesAny(candidate.Parodies, item.Parodies) },
		func(candidate catalog.Item) bool { return sharesAny(candidate.Tags, item.Tags) },
	}

	seen := map[int64]bool{item.ID: true}
	ranked := make([]catalog.Item, 0, len(candidates))
	for _, matches := range tiers {
		for _, candidate := range candidates {
			if seen[candidate.ID] || !matches(candidate) {
				continue
			}
			seen[candidate.ID] = true
			ranked = append(ranked, candidate)
		}
	}
	return ranked
}

// otherWorks drops the work itself from the works of its artist.
func otherWorks(id int64, works []catalog.Item) []catalog.Item {
	others := make([]catalog.Item, 0, len(works))
	for _, work := range works {
		if work.ID != id {
			others = append(others, work)
		}
	}
	return others
}

func sharesAny(values, wanted []string) bool {
	for _, value := range values {
		if slices.Contains(wanted, value) {
			return true
		}
	}
	return false
}
