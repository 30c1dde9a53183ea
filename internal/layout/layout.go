// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package layout packs fixed-aspect-ratio boxes into justified rows.

Every row except the last is scaled so that its boxes plus the gaps between
them fill the container width exactly. The last row keeps its natural size,
upscaled by at most [MaxLastRowScale], so a short tail never looks stretched.

Usage:

	rows := layout.Pack(ratios, layout.Options{
	    TargetRowHeight: 250,
	    ContainerWidth:  layout.ClampWidth(measured),
	    Gap:             4,
	})

Pack is a pure function of its inputs: same ratios, same options, same rows.
*/
package layout

const (
	// MaxLastRowScale bounds the upscale of an under-filled trailing row.
	MaxLastRowScale = 1.2

	// MinContainerWidth is the smallest width callers should pack for.
	MinContainerWidth = 300.0
)

// # Geometry

// AspectRatio derives width/height from pixel dimensions. Unknown or
// degenerate sizes are treated as square.
func AspectRatio(width, height int) float64 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float64(width) / float64(height)
}

// ClampWidth applies the container-width precondition of [Pack].
func ClampWidth(width float64) float64 {
	if width < MinContainerWidth {
		return MinContainerWidth
	}
	return width
}

// Box is one placed item.
type Box struct {
	// Index is the position of the item in the packed input.
	Index       int     `json:"index"`
	AspectRatio float64 `json:"aspectRatio"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
}

// Row is one justified row.
type Row struct {
	Boxes      []Box   `json:"boxes"`
	TotalWidth float64 `json:"totalWidth"`
	MaxHeight  float64 `json:"maxHeight"`
	Scale      float64 `json:"scale"`
}

// Options configures a packing pass.
type Options struct {
	TargetRowHeight float64 `json:"rowHeight"`
	ContainerWidth  float64 `json:"width"`
	Gap             float64 `json:"gap"`
}

// # Packing

// Pack lays out the given aspect ratios in order.
//
// A box wider than the container still gets a row of its own and is scaled
// down. Non-positive ratios are treated as square.
func Pack(ratios []float64, options Options) []Row {
	if len(ratios) == 0 {
		return []Row{}
	}

	rows := make([]Row, 0, len(ratios)/4+1)
	current := make([]Box, 0, 8)

	// Sum of unscaled box widths; gaps are derived from the box count.
	boxesWidth := 0.0

	for index, ratio := range ratios {
		if ratio <= 0 {
			ratio = 1
		}
		box := Box{
			Index:       index,
			AspectRatio: ratio,
			Width:       options.TargetRowHeight * ratio,
			Height:      options.TargetRowHeight,
		}

		if len(current) > 0 {
			withBox := boxesWidth + box.Width + float64(len(current))*options.Gap
			if withBox > options.ContainerWidth {
				rows = append(rows, closeRow(current, boxesWidth, options, false))
				current = make([]Box, 0, 8)
				boxesWidth = 0
			}
		}

		current = append(current, box)
		boxesWidth += box.Width
	}

	if len(current) > 0 {
		rows = append(rows, closeRow(current, boxesWidth, options, true))
	}

	return rows
}

// closeRow scales the boxes of a finished row. Full rows fill the available
// width exactly; the last row is capped at [MaxLastRowScale].
func closeRow(boxes []Box, boxesWidth float64, options Options, last bool) Row {
	gaps := float64(len(boxes)-1) * options.Gap
	available := options.ContainerWidth - gaps

	scale := 1.0
	if boxesWidth > 0 {
		scale = available / boxesWidth
	}
	if last && scale > MaxLastRowScale {
		scale = MaxLastRowScale
	}
	if scale < 0 {
		scale = 0
	}

	row := Row{Boxes: boxes, Scale: scale, TotalWidth: gaps}
	for i := range row.Boxes {
		row.Boxes[i].Width *= scale
		row.Boxes[i].Height *= scale
		row.TotalWidth += row.Boxes[i].Width
		if row.Boxes[i].Height > row.MaxHeight {
			row.MaxHeight = row.Boxes[i].Height
		}
	}

	return row
}
