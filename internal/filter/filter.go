// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package filter evaluates catalogue items against a composite filter.

A [Spec] combines a free-text search, inclusive numeric ranges, language and
format allow-lists, a currently-reading flag, and one include/exclude [Group]
per tag dimension.

Semantics:

  - Inclusion is conjunctive: every included value must match some item value.
  - Exclusion is disjunctive: any excluded value matching any item value rejects.
  - All string comparisons are case-insensitive substring matches.

Checks run cheapest first and stop at the first rejection.
*/
package filter

import (
	"slices"
	"strings"

	"github.com/taibuivan/folio/internal/catalog"
	"github.com/taibuivan/folio/internal/platform/validate"
)

// AllValues is the allow-list entry that disables an allow-list.
const AllValues = "all"

// # Filter Specification

// Group is the include/exclude pair of one dimension.
type Group struct {
	Included []string `json:"included"`
	Excluded []string `json:"excluded"`
}

// IsEmpty reports whether the group constrains nothing.
func (g Group) IsEmpty() bool {
	return len(g.Included) == 0 && len(g.Excluded) == 0
}

// Range is an inclusive numeric bound. A nil *Range is unbounded.
type Range struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// Contains reports whether value lies in [Min, Max].
func (r *Range) Contains(value int64) bool {
	if r == nil {
		return true
	}
	return value >= r.Min && value <= r.Max
}

// Spec is the complete filter state of a view.
type Spec struct {
	Search string `json:"search"`

	Tags       Group `json:"tags"`
	Artists    Group `json:"artists"`
	Characters Group `json:"characters"`
	Parodies   Group `json:"parodies"`
	Groups     Group `json:"groups"`
	Categories Group `json:"categories"`

	Languages []string `json:"languages"`
	Formats   []string `json:"formats"`

	Rating        *Range `json:"rating,omitempty"`
	OCount        *Range `json:"oCount,omitempty"`
	PageCount     *Range `json:"pageCount,omitempty"`
	BookmarkCount *Range `json:"bookmarkCount,omitempty"`
	FileSize      *Range `json:"fileSize,omitempty"`

	CurrentlyReading bool `json:"currentlyReading"`
}

// Group returns the include/exclude group of a filter dimension.
func (s Spec) Group(dimension catalog.Dimension) Group {
	switch dimension {
	case catalog.DimensionTags:
		return s.Tags
	case catalog.DimensionArtists:
		return s.Artists
	case catalog.DimensionCharacters:
		return s.Characters
	case catalog.DimensionParodies:
		return s.Parodies
	case catalog.DimensionGroups:
		return s.Groups
	case catalog.DimensionCategories:
		return s.Categories
	}
	return Group{}
}

// WithGroup returns a copy of the spec with one dimension group replaced.
func (s Spec) WithGroup(dimension catalog.Dimension, group Group) Spec {
	switch dimension {
	case catalog.DimensionTags:
		s.Tags = group
	case catalog.DimensionArtists:
		s.Artists = group
	case catalog.DimensionCharacters:
		s.Characters = group
	case catalog.DimensionParodies:
		s.Parodies = group
	case catalog.DimensionGroups:
		s.Groups = group
	case catalog.DimensionCategories:
		s.Categories = group
	}
	return s
}

// Normalize trims blank entries and replaces nil lists with empty ones so two
// equivalent specs serialise identically.
func (s Spec) Normalize() Spec {
	s.Search = strings.TrimSpace(s.Search)
	for _, dimension := range catalog.FilterDimensions {
		group := s.Group(dimension)
		s = s.WithGroup(dimension, Group{
			Included: cleanList(group.Included),
			Excluded: cleanList(group.Excluded),
		})
	}
	s.Languages = cleanList(s.Languages)
	s.Formats = cleanList(s.Formats)
	return s
}

// Validate checks range bounds and returns a VALIDATION_ERROR on failure.
func (s Spec) Validate() error {
	validator := &validate.Validator{}

	ranges := []struct {
		field string
		value *Range
	}{
		{"rating", s.Rating},
		{"oCount", s.OCount},
		{"pageCount", s.PageCount},
		{"bookmarkCount", s.BookmarkCount},
		{"fileSize", s.FileSize},
	}
	for _, r := range ranges {
		if r.value == nil {
			continue
		}
		validator.Custom(r.field, r.value.Min > r.value.Max, "Minimum must not exceed maximum")
		validator.Custom(r.field, r.value.Min < 0, "Minimum must not be negative")
	}

	if s.Rating != nil {
		validator.Custom("rating", s.Rating.Max > 5, "Rating must be between 0 and 5")
	}

	return validator.Err()
}

// # Selected Filters

// Chip is one active include/exclude selection, as shown in the selected
// filters bar.
type Chip struct {
	Dimension catalog.Dimension `json:"dimension"`
	Value     string            `json:"value"`
	Excluded  bool              `json:"excluded"`
}

// Chips lists every active selection in dimension order.
func (s Spec) Chips() []Chip {
	chips := make([]Chip, 0)
	for _, dimension := range catalog.FilterDimensions {
		group := s.Group(dimension)
		for _, value := range group.Included {
			chips = append(chips, Chip{Dimension: dimension, Value: value})
		}
		for _, value := range group.Excluded {
			chips = append(chips, Chip{Dimension: dimension, Value: value, Excluded: true})
		}
	}
	return chips
}

// Without returns a copy of the spec with one chip removed.
func (s Spec) Without(chip Chip) Spec {
	group := s.Group(chip.Dimension)
	if chip.Excluded {
		group.Excluded = remove(group.Excluded, chip.Value)
	} else {
		group.Included = remove(group.Included, chip.Value)
	}
	return s.WithGroup(chip.Dimension, group)
}

// # Sidebar Options

// Options returns the distinct, sorted, non-blank values of every dimension
// across the items.
func Options(items []catalog.Item) map[catalog.Dimension][]string {
	options := make(map[catalog.Dimension][]string, len(catalog.AllDimensions))
	for _, dimension := range catalog.AllDimensions {
		seen := make(map[string]struct{})
		values := make([]string, 0)
		for _, item := range items {
			for _, value := range item.Values(dimension) {
				if strings.TrimSpace(value) == "" {
					continue
				}
				if _, ok := seen[value]; ok {
					continue
				}
				seen[value] = struct{}{}
				values = append(values, value)
			}
		}
		slices.Sort(values)
		options[dimension] = values
	}
	return options
}

func cleanList(values []string) []string {
	cleaned := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

func remove(values []string, target string) []string {
	return slices.DeleteFunc(slices.Clone(values), func(value string) bool {
		return value == target
	})
}
