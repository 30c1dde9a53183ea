// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ordering sorts and shuffles catalogue items.

Sorting is stable and never mutates its input. Titles are compared with a
locale-aware collator; counters by difference; upload dates by epoch
milliseconds. The random key performs an unbiased Fisher-Yates shuffle from a
caller-supplied seed, so a view can reproduce the same order while it grows.
*/
package ordering

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/taibuivan/folio/internal/catalog"
)

// # Sort Specification

// Key selects the sort attribute.
type Key string

const (
	KeyUploaded Key = "uploaded"
	KeyRating   Key = "rating"
	KeyOCount   Key = "oCount"
	KeyTitle    Key = "title"
	KeyRandom   Key = "random"
)

// Order is the sort direction. [KeyRandom] ignores it.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Spec is the sort state of a view.
type Spec struct {
	Key   Key   `json:"key"`
	Order Order `json:"order"`
}

// Default is newest uploads first.
var Default = Spec{Key: KeyUploaded, Order: OrderDesc}

// ParseKey accepts the canonical keys plus the lowercase and filename aliases
// used by older clients.
func ParseKey(raw string) (Key, bool) {
	switch strings.ToLower(raw) {
	case "uploaded", "date", "":
		return KeyUploaded, true
	case "rating":
		return KeyRating, true
	case "ocount":
		return KeyOCount, true
	case "title", "filename", "name":
		return KeyTitle, true
	case "random", "shuffle":
		return KeyRandom, true
	}
	return "", false
}

// Normalize fills defaults and canonicalises aliases.
func (s Spec) Normalize() Spec {
	if key, ok := ParseKey(string(s.Key)); ok {
		s.Key = key
	}
	if s.Order != OrderAsc {
		s.Order = OrderDesc
	}
	return s
}

// IsValid reports whether the key is recognised.
func (s Spec) IsValid() bool {
	_, ok := ParseKey(string(s.Key))
	return ok
}

// # Sorting

// Sort returns a new slice ordered by spec. The seed is only consulted for
// [KeyRandom].
func Sort(items []catalog.Item, spec Spec, seed uint64) []catalog.Item {
	sorted := slices.Clone(items)
	spec = spec.Normalize()

	if spec.Key == KeyRandom {
		Shuffle(sorted, NewRand(seed))
		return sorted
	}

	compare := Comparator(spec)
	slices.SortStableFunc(sorted, compare)
	return sorted
}

// Comparator returns the two-argument comparison for a non-random spec.
func Comparator(spec Spec) func(a, b catalog.Item) int {
	spec = spec.Normalize()

	var compare func(a, b catalog.Item) int
	switch spec.Key {
	case KeyTitle:
		collator := NewCollator()
		compare = func(a, b catalog.Item) int {
			return collator.CompareString(a.Name(), b.Name())
		}
	case KeyRating:
		compare = func(a, b catalog.Item) int { return a.Rating - b.Rating }
	case KeyOCount:
		compare = func(a, b catalog.Item) int { return a.OCount - b.OCount }
	default:
		compare = func(a, b catalog.Item) int {
			return cmp.Compare(a.Uploaded.UnixMilli(), b.Uploaded.UnixMilli())
		}
	}

	if spec.Order == OrderDesc {
		return func(a, b catalog.Item) int { return -compare(a, b) }
	}
	return compare
}

// NewCollator returns a root-locale collator. Collators are not safe for
// concurrent use; take one per sort pass.
func NewCollator() *collate.Collator {
	return collate.New(language.Und)
}

// # Shuffling

// NewRand returns a deterministic generator for a seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewSeed draws a fresh seed from the runtime source.
func NewSeed() uint64 {
	return rand.Uint64()
}

// Shuffle permutes items in place with an unbiased Fisher-Yates pass: walk
// from the last index down to 1 and swap with a uniform index in [0, i].
func Shuffle[T any](items []T, rng *rand.Rand) {
	for i := len(items) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
