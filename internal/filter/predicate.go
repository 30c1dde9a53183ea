// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/taibuivan/folio/internal/catalog"
)

// Predicate is a compiled [Spec]. Needles are case-folded once at compile time.
//
// # Concurrency
//
// A Predicate holds a stateful case folder and must not be shared between
// goroutines.
type Predicate struct {
	folder cases.Caser

	search string

	rating        *Range
	oCount        *Range
	pageCount     *Range
	bookmarkCount *Range
	fileSize      *Range
	reading       bool

	languages []string
	formats   []string

	groups []compiledGroup
}

type compiledGroup struct {
	dimension catalog.Dimension
	included  []string
	excluded  []string
}

// Compile prepares a spec for repeated evaluation.
func Compile(spec Spec) *Predicate {
	predicate := &Predicate{
		folder:        cases.Fold(),
		rating:        spec.Rating,
		oCount:        spec.OCount,
		pageCount:     spec.PageCount,
		bookmarkCount: spec.BookmarkCount,
		fileSize:      spec.FileSize,
		reading:       spec.CurrentlyReading,
	}

	predicate.search = predicate.fold(strings.TrimSpace(spec.Search))
	predicate.languages = predicate.allowList(spec.Languages)
	predicate.formats = predicate.allowList(spec.Formats)

	for _, dimension := range catalog.FilterDimensions {
		group := spec.Group(dimension)
		if group.IsEmpty() {
			continue
		}
		predicate.groups = append(predicate.groups, compiledGroup{
			dimension: dimension,
			included:  predicate.needles(group.Included),
			excluded:  predicate.needles(group.Excluded),
		})
	}

	return predicate
}

// Matches evaluates a single item against a spec.
func Matches(item catalog.Item, spec Spec) bool {
	return Compile(spec).Matches(item)
}

// Apply returns the matching items in their original order.
func Apply(items []catalog.Item, spec Spec) []catalog.Item {
	predicate := Compile(spec)
	matched := make([]catalog.Item, 0, len(items))
	for _, item := range items {
		if predicate.Matches(item) {
			matched = append(matched, item)
		}
	}
	return matched
}

// Matches reports whether no rejection rule fires for the item.
func (p *Predicate) Matches(item catalog.Item) bool {

	// 1. Free-text search
	if p.search != "" && !strings.Contains(p.fold(item.Name()), p.search) {
		return false
	}

	// 2. Scalar ranges and flags
	if !p.rating.Contains(int64(item.Rating)) ||
		!p.oCount.Contains(int64(item.OCount)) ||
		!p.pageCount.Contains(int64(item.Pages)) ||
		!p.bookmarkCount.Contains(int64(item.BookmarkCount)) ||
		!p.fileSize.Contains(item.FileSize) {
		return false
	}
	if p.reading && !item.IsReading() {
		return false
	}

	// 3. Allow-lists
	if p.languages != nil && !p.anyContains(item.Values(catalog.DimensionLanguages), p.languages) {
		return false
	}
	if p.formats != nil && !p.anyContains([]string{item.Format}, p.formats) {
		return false
	}

	// 4. Dimension groups: exclusion first, then conjunctive inclusion
	for _, group := range p.groups {
		values := p.foldAll(item.Values(group.dimension))

		for _, excluded := range group.excluded {
			if containsSubstring(values, excluded) {
				return false
			}
		}
		for _, included := range group.included {
			if !containsSubstring(values, included) {
				return false
			}
		}
	}

	return true
}

// allowList folds an allow-list; nil means unrestricted.
func (p *Predicate) allowList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	folded := make([]string, 0, len(values))
	for _, value := range values {
		value = p.fold(strings.TrimSpace(value))
		if value == AllValues {
			return nil
		}
		if value != "" {
			folded = append(folded, value)
		}
	}
	if len(folded) == 0 {
		return nil
	}
	return folded
}

// anyContains reports whether some item value contains some allowed code.
func (p *Predicate) anyContains(values []string, allowed []string) bool {
	for _, value := range values {
		folded := p.fold(value)
		for _, code := range allowed {
			if strings.Contains(folded, code) {
				return true
			}
		}
	}
	return false
}

func (p *Predicate) fold(value string) string {
	return p.folder.String(value)
}

func (p *Predicate) foldAll(values []string) []string {
	folded := make([]string, len(values))
	for i, value := range values {
		folded[i] = p.fold(value)
	}
	return folded
}

// needles folds filter values and drops blank ones, which would match anything.
func (p *Predicate) needles(values []string) []string {
	folded := make([]string, 0, len(values))
	for _, value := range values {
		if value = p.fold(strings.TrimSpace(value)); value != "" {
			folded = append(folded, value)
		}
	}
	return folded
}

func containsSubstring(values []string, needle string) bool {
	for _, value := range values {
		if strings.Contains(value, needle) {
			return true
		}
	}
	return false
}
