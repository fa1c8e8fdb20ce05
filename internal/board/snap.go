/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package board hosts the interactive pieces of the engine: snapping of a
// dragged tile against its neighbors, the modal drag controller, and the
// per-frame animation stepper. Everything here is deterministic and
// UI-agnostic so the same engine drives the desktop shell and the tests.
package board

import (
	"algebratiles/internal/geom"
	"algebratiles/internal/tile"
)

// DefaultSnapTolerance is the pixel distance within which two edges are
// considered aligned. It is independent of tile size.
const DefaultSnapTolerance = 10

// ResolveSnap computes the adjusted position for a released tile against the
// stationary tiles. Candidates are scanned in arrangement order and the
// first edge pair within tolerance wins; this is deliberately not a
// nearest-match search, and reordering the arrangement can change the
// outcome. Only one snap is applied per release. ok is false when nothing is
// within tolerance, leaving the tile at its free-form position.
func ResolveSnap(moving *tile.Tile, others []*tile.Tile, tolerance float32) (geom.Pt, bool) {
	if tolerance <= 0 {
		tolerance = DefaultSnapTolerance
	}
	m := moving.Rect()
	for _, o := range others {
		if o == moving || o.ID == moving.ID {
			continue
		}
		r := o.Rect()
		if p, ok := snapOuter(m, r, tolerance); ok {
			return p, true
		}
		if p, ok := snapStacking(m, r, tolerance); ok {
			return p, true
		}
	}
	return moving.Pos, false
}

func near(a, b, tol float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

// snapOuter places the moving rect flush against one of the four sides of o,
// requiring the perpendicular edges to line up (top-top or bottom-bottom for
// horizontal adjacency, left-left or right-right for vertical adjacency).
func snapOuter(m, o geom.Rect, tol float32) (geom.Pt, bool) {
	mr, ob := m.Max(), o.Max()

	// moving sits to the right of o
	if near(m.X, ob.X, tol) {
		if near(m.Y, o.Y, tol) {
			return geom.Pt{X: ob.X, Y: o.Y}, true
		}
		if near(mr.Y, ob.Y, tol) {
			return geom.Pt{X: ob.X, Y: ob.Y - m.H}, true
		}
	}
	// moving sits to the left of o
	if near(mr.X, o.X, tol) {
		if near(m.Y, o.Y, tol) {
			return geom.Pt{X: o.X - m.W, Y: o.Y}, true
		}
		if near(mr.Y, ob.Y, tol) {
			return geom.Pt{X: o.X - m.W, Y: ob.Y - m.H}, true
		}
	}
	// moving sits below o
	if near(m.Y, ob.Y, tol) {
		if near(m.X, o.X, tol) {
			return geom.Pt{X: o.X, Y: ob.Y}, true
		}
		if near(mr.X, ob.X, tol) {
			return geom.Pt{X: ob.X - m.W, Y: ob.Y}, true
		}
	}
	// moving sits above o
	if near(mr.Y, o.Y, tol) {
		if near(m.X, o.X, tol) {
			return geom.Pt{X: o.X, Y: o.Y - m.H}, true
		}
		if near(mr.X, ob.X, tol) {
			return geom.Pt{X: ob.X - m.W, Y: o.Y - m.H}, true
		}
	}
	return geom.Pt{}, false
}

// snapStacking aligns the moving rect co-linearly with o: left edges shared
// while stacking along Y (including edge-to-edge abutment and permitted
// overlap at the same top), and the symmetric top-edge family along X. This
// is how unit rows, bar columns and overlapping bar stacks are built.
func snapStacking(m, o geom.Rect, tol float32) (geom.Pt, bool) {
	mr, ob := m.Max(), o.Max()

	// shared left edge, stack vertically
	if near(m.X, o.X, tol) {
		switch {
		case near(m.Y, o.Y, tol):
			return geom.Pt{X: o.X, Y: o.Y}, true
		case near(m.Y, ob.Y, tol):
			return geom.Pt{X: o.X, Y: ob.Y}, true
		case near(mr.Y, o.Y, tol):
			return geom.Pt{X: o.X, Y: o.Y - m.H}, true
		case near(mr.Y, ob.Y, tol):
			return geom.Pt{X: o.X, Y: ob.Y - m.H}, true
		}
	}
	// shared top edge, stack horizontally
	if near(m.Y, o.Y, tol) {
		switch {
		case near(m.X, ob.X, tol):
			return geom.Pt{X: ob.X, Y: o.Y}, true
		case near(mr.X, o.X, tol):
			return geom.Pt{X: o.X - m.W, Y: o.Y}, true
		case near(mr.X, ob.X, tol):
			return geom.Pt{X: ob.X - m.W, Y: o.Y}, true
		}
	}
	return geom.Pt{}, false
}
