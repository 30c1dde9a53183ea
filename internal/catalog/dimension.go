// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

// Dimension names a multi-valued attribute of an [Item].
type Dimension string

const (
	DimensionTags       Dimension = "tags"
	DimensionArtists    Dimension = "artists"
	DimensionCharacters Dimension = "characters"
	DimensionParodies   Dimension = "parodies"
	DimensionGroups     Dimension = "groups"
	DimensionCategories Dimension = "categories"
	DimensionLanguages  Dimension = "languages"
)

// FilterDimensions is the fixed evaluation order of include/exclude groups.
var FilterDimensions = []Dimension{
	DimensionTags,
	DimensionArtists,
	DimensionCharacters,
	DimensionParodies,
	DimensionGroups,
	DimensionCategories,
}

// AllDimensions lists every dimension, languages included.
var AllDimensions = append(append([]Dimension{}, FilterDimensions...), DimensionLanguages)

// IsValid reports whether d is a recognised [Dimension].
func (d Dimension) IsValid() bool {
	for _, known := range AllDimensions {
		if d == known {
			return true
		}
	}
	return false
}

// ParseDimension resolves a plural or singular dimension name ("tag", "tags").
func ParseDimension(raw string) (Dimension, bool) {
	candidate := Dimension(raw)
	if candidate.IsValid() {
		return candidate, true
	}
	for _, kind := range EntityKinds {
		if kind.Singular == raw {
			return kind.Dimension, true
		}
	}
	switch raw {
	case "category":
		return DimensionCategories, true
	case "language":
		return DimensionLanguages, true
	}
	return "", false
}

// Singular returns the singular noun used by the tag mutation endpoints.
func (d Dimension) Singular() string {
	switch d {
	case DimensionParodies:
		return "parody"
	case DimensionCategories:
		return "category"
	}
	name := string(d)
	if len(name) > 1 && name[len(name)-1] == 's' {
		return name[:len(name)-1]
	}
	return name
}
