/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders a board arrangement to shareable formats: SVG for
// the web, PNG for quick screenshots, and PDF for printable worksheets.
package export

import (
	"fmt"
	"strings"

	"algebratiles/internal/geom"
	"algebratiles/internal/tile"
)

// Color is an 8-bit RGBA color for export styling.
type Color struct {
	R, G, B, A uint8
}

// Stroke couples a color with a line width in scene units.
type Stroke struct {
	Color Color
	Width float64
}

// Options controls rendering for all exporters.
// The scene coordinate system is board pixels; Margin pads the content
// bounding box on all sides. Zero-valued styles get the defaults below.
type Options struct {
	Margin        float64
	IncludeLabels bool
	Title         string

	Background   Color
	TileStroke   Stroke
	SquareFill   Color
	BarFill      Color
	UnitFill     Color
	NegativeFill Color
}

func (o Options) withDefaults() Options {
	if o.Margin <= 0 {
		o.Margin = 20
	}
	if o.Background == (Color{}) {
		o.Background = Color{255, 255, 255, 255}
	}
	if o.TileStroke.Width == 0 {
		o.TileStroke = Stroke{Color: Color{40, 40, 40, 255}, Width: 1}
	}
	if o.SquareFill == (Color{}) {
		o.SquareFill = Color{74, 144, 217, 255} // blue
	}
	if o.BarFill == (Color{}) {
		o.BarFill = Color{106, 168, 79, 255} // green
	}
	if o.UnitFill == (Color{}) {
		o.UnitFill = Color{241, 194, 50, 255} // yellow
	}
	if o.NegativeFill == (Color{}) {
		o.NegativeFill = Color{204, 65, 37, 255} // red
	}
	return o
}

func (o Options) fillFor(v tile.TileView) Color {
	if v.Negative {
		return o.NegativeFill
	}
	switch v.Kind {
	case tile.Square:
		return o.SquareFill
	case tile.Bar:
		return o.BarFill
	default:
		return o.UnitFill
	}
}

// sceneBounds returns the padded content box of the snapshot. Empty boards
// get a small placeholder canvas so exporters still produce a valid file.
func sceneBounds(views []tile.TileView, margin float64) geom.Rect {
	rects := make([]geom.Rect, len(views))
	for i, v := range views {
		rects[i] = v.Rect
	}
	bb, ok := geom.BoundsOf(rects)
	if !ok {
		bb = geom.R(0, 0, 200, 120)
	}
	m := float32(margin)
	return geom.R(bb.X-m, bb.Y-m, bb.W+2*m, bb.H+2*m)
}

// asciiLabel rewrites a tile label for renderers without full glyph
// coverage: the superscript two and the minus sign fall back to ASCII.
func asciiLabel(s string) string {
	s = strings.ReplaceAll(s, "²", "^2")
	return strings.ReplaceAll(s, "−", "-")
}

func ensurePositive(bb geom.Rect) (w, h float64, err error) {
	w = float64(bb.W)
	h = float64(bb.H)
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("degenerate scene %gx%g", w, h)
	}
	return w, h, nil
}
