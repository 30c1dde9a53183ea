// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import "strings"

// # Entity Kinds

// EntityKind is the configuration record of one browsable entity type.
//
// The five kinds (tag, artist, character, parody, group) only differ by these
// fields, so list pages, detail pages, favorites and editors are written once
// against this record.
type EntityKind struct {
	// Label is the singular display name ("Artist").
	Label string
	// PluralLabel is the plural display name ("Artists").
	PluralLabel string
	// Icon is the glyph rendered next to the entity name.
	Icon string
	// Singular is the path segment of detail endpoints ("artist").
	Singular string
	// Plural is the path segment of list endpoints ("artists").
	Plural string
	// DetailsKey is the response field holding the entity details.
	DetailsKey string
	// Dimension is the item attribute this entity populates.
	Dimension Dimension
}

var (
	EntityTag = EntityKind{
		Label: "Tag", PluralLabel: "Tags", Icon: "🏷️",
		Singular: "tag", Plural: "tags", DetailsKey: "tagDetails",
		Dimension: DimensionTags,
	}
	EntityArtist = EntityKind{
		Label: "Artist", PluralLabel: "Artists", Icon: "🎨",
		Singular: "artist", Plural: "artists", DetailsKey: "artistDetails",
		Dimension: DimensionArtists,
	}
	EntityCharacter = EntityKind{
		Label: "Character", PluralLabel: "Characters", Icon: "👤",
		Singular: "character", Plural: "characters", DetailsKey: "characterDetails",
		Dimension: DimensionCharacters,
	}
	EntityParody = EntityKind{
		Label: "Parody", PluralLabel: "Parodies", Icon: "📚",
		Singular: "parody", Plural: "parodies", DetailsKey: "parodyDetails",
		Dimension: DimensionParodies,
	}
	EntityGroup = EntityKind{
		Label: "Group", PluralLabel: "Groups", Icon: "👥",
		Singular: "group", Plural: "groups", DetailsKey: "groupDetails",
		Dimension: DimensionGroups,
	}
)

// EntityKinds lists every entity kind in navigation order.
var EntityKinds = []EntityKind{EntityArtist, EntityGroup, EntityTag, EntityCharacter, EntityParody}

// LookupEntityKind resolves a singular or plural path segment.
func LookupEntityKind(name string) (EntityKind, bool) {
	name = strings.ToLower(name)
	for _, kind := range EntityKinds {
		if kind.Singular == name || kind.Plural == name {
			return kind, true
		}
	}
	return EntityKind{}, false
}

// Entity is one row of an entity list page.
type Entity struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	IsFavorite    bool     `json:"isFavorite"`
	DoujinCount   int      `json:"doujinCount"`
	ImageCount    int      `json:"imageCount"`
	TotalOCount   int64    `json:"totalOCount"`
	AverageRating *float64 `json:"averageRating"`
}

// EntityPage is the payload of an entity detail page.
type EntityPage struct {
	Details   Entity `json:"details"`
	Doujinshi []Item `json:"doujinshiList"`
	Images    []Item `json:"imagesList"`
}
