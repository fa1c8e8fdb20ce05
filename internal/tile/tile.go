/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package tile models algebra tiles: the rectangular pieces standing for the
// x², x and 1 terms of a quadratic, plus the ordered arrangement they live in.
package tile

import "algebratiles/internal/geom"

// Kind identifies which term a tile represents.
type Kind int

const (
	Square Kind = iota // x², squareLen × squareLen
	Bar                // x, squareLen × unitLen (orientation-dependent)
	Unit               // 1, unitLen × unitLen
)

func (k Kind) String() string {
	switch k {
	case Square:
		return "square"
	case Bar:
		return "bar"
	case Unit:
		return "unit"
	}
	return "unknown"
}

// Orientation selects which axis a bar's long dimension runs along.
// It is meaningful only for Bar tiles.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// Metrics holds the global scale parameters. It is passed explicitly to any
// operation that derives tile sizes; tiles never consult ambient state.
// The square/unit ratio stays in the 4:1–10:1 band so the pieces remain
// visually distinguishable.
type Metrics struct {
	UnitLen   float32
	SquareLen float32
}

// DefaultMetrics returns the scale used for wide viewports.
func DefaultMetrics() Metrics { return Metrics{UnitLen: 18, SquareLen: 80} }

// MetricsForWidth picks a size class for the given viewport width.
// All existing tiles must be re-measured via Arrangement.ApplyMetrics after
// the class changes.
func MetricsForWidth(w float32) Metrics {
	if w < 700 {
		return Metrics{UnitLen: 12, SquareLen: 54}
	}
	return DefaultMetrics()
}

// Tile is the elementary piece. Pos is the top-left corner in board
// coordinates. W/H are derived from Kind, Orientation and Metrics and are
// recomputed immediately after any of those change.
type Tile struct {
	ID          int
	Kind        Kind
	Negative    bool
	Orientation Orientation
	Pos         geom.Pt
	W, H        float32

	// Target is set by the layout planner and cleared by the animation
	// stepper once reached. Nil means the tile is at rest.
	Target *geom.Pt
}

// New creates a tile with its size resolved against the given metrics.
func New(id int, k Kind, negative bool, o Orientation, m Metrics, pos geom.Pt) *Tile {
	t := &Tile{ID: id, Kind: k, Negative: negative, Orientation: o, Pos: pos}
	t.RecomputeSize(m)
	return t
}

// RecomputeSize derives W/H from Kind, Orientation and the metrics.
// It is a pure function of those inputs and therefore idempotent.
func (t *Tile) RecomputeSize(m Metrics) {
	switch t.Kind {
	case Square:
		t.W, t.H = m.SquareLen, m.SquareLen
	case Unit:
		t.W, t.H = m.UnitLen, m.UnitLen
	case Bar:
		if t.Orientation == Horizontal {
			t.W, t.H = m.SquareLen, m.UnitLen
		} else {
			t.W, t.H = m.UnitLen, m.SquareLen
		}
	}
}

// Rect returns the occupied rectangle.
func (t *Tile) Rect() geom.Rect { return geom.R(t.Pos.X, t.Pos.Y, t.W, t.H) }

// ContainsPoint reports whether p lies within the closed tile rectangle.
func (t *Tile) ContainsPoint(p geom.Pt) bool { return t.Rect().Contains(p) }

// ToggleOrientation flips a bar between horizontal and vertical and
// re-measures it. Squares and units are rotation-symmetric, so this is a
// no-op for them.
func (t *Tile) ToggleOrientation(m Metrics) {
	if t.Kind != Bar {
		return
	}
	if t.Orientation == Horizontal {
		t.Orientation = Vertical
	} else {
		t.Orientation = Horizontal
	}
	t.RecomputeSize(m)
}

// Label returns the display text for the tile face.
func (t *Tile) Label() string {
	var s string
	switch t.Kind {
	case Square:
		s = "x²"
	case Bar:
		s = "x"
	case Unit:
		s = "1"
	}
	if t.Negative {
		return "−" + s
	}
	return s
}

// Area returns the unsigned pixel area.
func (t *Tile) Area() float32 { return t.W * t.H }
