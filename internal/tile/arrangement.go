/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tile

import (
	"encoding/json"
	"fmt"
	"sort"

	"algebratiles/internal/geom"
)

// Arrangement is the ordered collection of live tiles. Order is the
// z-stacking order: the last tile is topmost for hit-testing and rendering.
// It is created empty and never persisted across sessions.
type Arrangement struct {
	tiles  []*Tile
	nextID int
}

func NewArrangement() *Arrangement { return &Arrangement{nextID: 1} }

// Spawn creates a tile sized against m and appends it on top of the stack.
func (a *Arrangement) Spawn(k Kind, negative bool, o Orientation, m Metrics, pos geom.Pt) *Tile {
	t := New(a.nextID, k, negative, o, m, pos)
	a.nextID++
	a.tiles = append(a.tiles, t)
	return t
}

// Tiles returns the live tile slice in z-order. Callers may mutate the tiles
// but must not reorder or resize the slice; use the Arrangement operations.
func (a *Arrangement) Tiles() []*Tile { return a.tiles }

func (a *Arrangement) Len() int { return len(a.tiles) }

// ByID returns the tile with the given id, or nil.
func (a *Arrangement) ByID(id int) *Tile {
	for _, t := range a.tiles {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Delete removes the tile with the given id, preserving z-order of the rest.
func (a *Arrangement) Delete(id int) bool {
	for i, t := range a.tiles {
		if t.ID == id {
			a.tiles = append(a.tiles[:i], a.tiles[i+1:]...)
			return true
		}
	}
	return false
}

// Reset drops all tiles.
func (a *Arrangement) Reset() { a.tiles = nil }

// TopmostAt returns the frontmost tile containing p, or nil.
func (a *Arrangement) TopmostAt(p geom.Pt) *Tile {
	for i := len(a.tiles) - 1; i >= 0; i-- {
		if a.tiles[i].ContainsPoint(p) {
			return a.tiles[i]
		}
	}
	return nil
}

// BringToFront moves the tile to the end of the stack (topmost).
func (a *Arrangement) BringToFront(id int) {
	for i, t := range a.tiles {
		if t.ID == id {
			a.tiles = append(append(a.tiles[:i], a.tiles[i+1:]...), t)
			return
		}
	}
}

// ApplyMetrics re-measures every tile against m. Called whenever the display
// size class changes so no stale size is ever observed.
func (a *Arrangement) ApplyMetrics(m Metrics) {
	for _, t := range a.tiles {
		t.RecomputeSize(m)
	}
}

// SortForOverlap stacks squares behind bars behind units so the overlap
// regions of a planned layout stay legible. The sort is stable, preserving
// relative order inside each kind.
func (a *Arrangement) SortForOverlap() {
	sort.SliceStable(a.tiles, func(i, j int) bool {
		return a.tiles[i].Kind < a.tiles[j].Kind
	})
}

// Rects returns the occupied rectangles in z-order.
func (a *Arrangement) Rects() []geom.Rect {
	out := make([]geom.Rect, len(a.tiles))
	for i, t := range a.tiles {
		out[i] = t.Rect()
	}
	return out
}

// Animating reports whether any tile still has a pending target.
func (a *Arrangement) Animating() bool {
	for _, t := range a.tiles {
		if t.Target != nil {
			return true
		}
	}
	return false
}

// Count returns the number of tiles of the given kind and sign.
func (a *Arrangement) Count(k Kind, negative bool) int {
	n := 0
	for _, t := range a.tiles {
		if t.Kind == k && t.Negative == negative {
			n++
		}
	}
	return n
}

// TileView is a read-only render snapshot of one tile.
type TileView struct {
	ID          int
	Kind        Kind
	Negative    bool
	Orientation Orientation
	Rect        geom.Rect
	Label       string
}

// Snapshot returns the arrangement in z-order for the drawing layer.
func (a *Arrangement) Snapshot() []TileView {
	out := make([]TileView, len(a.tiles))
	for i, t := range a.tiles {
		out[i] = TileView{
			ID:          t.ID,
			Kind:        t.Kind,
			Negative:    t.Negative,
			Orientation: t.Orientation,
			Rect:        t.Rect(),
			Label:       t.Label(),
		}
	}
	return out
}

// tileState is the JSON shape used for undo snapshots. Sizes are derived, so
// only the defining fields are stored.
type tileState struct {
	ID          int     `json:"id"`
	Kind        Kind    `json:"kind"`
	Negative    bool    `json:"negative"`
	Orientation int     `json:"orientation"`
	X           float32 `json:"x"`
	Y           float32 `json:"y"`
}

// MarshalState encodes the arrangement for the undo manager. Pending
// animation targets are intentionally not captured.
func (a *Arrangement) MarshalState() ([]byte, error) {
	states := make([]tileState, len(a.tiles))
	for i, t := range a.tiles {
		states[i] = tileState{
			ID:          t.ID,
			Kind:        t.Kind,
			Negative:    t.Negative,
			Orientation: int(t.Orientation),
			X:           t.Pos.X,
			Y:           t.Pos.Y,
		}
	}
	return json.Marshal(states)
}

// RestoreState replaces the arrangement with a previously marshaled state,
// re-deriving sizes from m.
func (a *Arrangement) RestoreState(data []byte, m Metrics) error {
	var states []tileState
	if err := json.Unmarshal(data, &states); err != nil {
		return fmt.Errorf("decode arrangement state: %w", err)
	}
	tiles := make([]*Tile, len(states))
	maxID := 0
	for i, s := range states {
		tiles[i] = New(s.ID, s.Kind, s.Negative, Orientation(s.Orientation), m, geom.Pt{X: s.X, Y: s.Y})
		if s.ID > maxID {
			maxID = s.ID
		}
	}
	a.tiles = tiles
	a.nextID = maxID + 1
	return nil
}
