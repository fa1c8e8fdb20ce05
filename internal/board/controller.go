/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import (
	"log/slog"

	"algebratiles/internal/geom"
	applog "algebratiles/internal/log"
	"algebratiles/internal/tile"
)

// Controller turns normalized pointer gestures into arrangement mutations.
// Dragging is modal: the single grabbed slot holds at most one tile id, so
// the one-grab-at-a-time invariant holds by construction rather than by
// policing per-tile flags.
type Controller struct {
	arr     *tile.Arrangement
	metrics tile.Metrics

	// SnapTolerance in pixels; DefaultSnapTolerance when zero.
	SnapTolerance float32

	grabbed    int // 0 means nothing grabbed
	grabOffset geom.Pt

	deleteZone    geom.Rect
	hasDeleteZone bool

	log *slog.Logger
}

// NewController wires a controller to an arrangement.
func NewController(arr *tile.Arrangement, m tile.Metrics) *Controller {
	return &Controller{arr: arr, metrics: m, log: applog.WithComponent("board")}
}

// Metrics returns the current scale parameters.
func (c *Controller) Metrics() tile.Metrics { return c.metrics }

// SetMetrics switches the size class and re-measures every tile so no stale
// size is ever observed.
func (c *Controller) SetMetrics(m tile.Metrics) {
	c.metrics = m
	c.arr.ApplyMetrics(m)
}

// SetDeleteZone registers the trash rectangle in screen coordinates.
// Releases inside it delete the grabbed tile instead of snapping it.
func (c *Controller) SetDeleteZone(r geom.Rect) {
	c.deleteZone = r
	c.hasDeleteZone = true
}

// Grabbed returns the grabbed tile id, if any.
func (c *Controller) Grabbed() (int, bool) { return c.grabbed, c.grabbed != 0 }

// PointerDown grabs the frontmost tile under p and raises it. A second down
// while something is grabbed is ignored; the slot is already taken.
func (c *Controller) PointerDown(p geom.Pt) {
	if c.grabbed != 0 {
		return
	}
	t := c.arr.TopmostAt(p)
	if t == nil {
		return
	}
	c.grabbed = t.ID
	c.grabOffset = geom.Pt{X: p.X - t.Pos.X, Y: p.Y - t.Pos.Y}
	c.arr.BringToFront(t.ID)
}

// PointerMove drags the grabbed tile, keeping the initial grab offset.
func (c *Controller) PointerMove(p geom.Pt) {
	if c.grabbed == 0 {
		return
	}
	t := c.arr.ByID(c.grabbed)
	if t == nil {
		c.grabbed = 0
		return
	}
	t.Pos = geom.Pt{X: p.X - c.grabOffset.X, Y: p.Y - c.grabOffset.Y}
}

// PointerUp releases the grab. If the screen position falls inside the
// delete zone the tile is removed; otherwise a single snap is attempted
// against the stationary tiles.
func (c *Controller) PointerUp(screen geom.Pt) {
	if c.grabbed == 0 {
		return
	}
	id := c.grabbed
	c.grabbed = 0
	t := c.arr.ByID(id)
	if t == nil {
		return
	}
	if c.hasDeleteZone && c.deleteZone.Contains(screen) {
		c.arr.Delete(id)
		c.log.Debug("tile deleted via trash", slog.Int("id", id))
		return
	}
	if p, ok := ResolveSnap(t, c.arr.Tiles(), c.SnapTolerance); ok {
		t.Pos = p
	}
}

// CancelDrag releases the grab without snapping or deleting, e.g. when the
// pointer is lost mid-gesture. The tile keeps its current free position and
// is never left stuck in a grabbed state.
func (c *Controller) CancelDrag() { c.grabbed = 0 }

// DoubleActivate rotates the bar under p. Squares and units ignore it.
func (c *Controller) DoubleActivate(p geom.Pt) {
	t := c.arr.TopmostAt(p)
	if t == nil {
		return
	}
	t.ToggleOrientation(c.metrics)
}

// SpawnRequest creates a tile of the requested kind at pos and immediately
// grabs it, matching the drag-in gesture from the palette.
func (c *Controller) SpawnRequest(k tile.Kind, negative bool, pos geom.Pt) *tile.Tile {
	t := c.arr.Spawn(k, negative, tile.Horizontal, c.metrics, pos)
	if c.grabbed == 0 {
		c.grabbed = t.ID
		c.grabOffset = geom.Pt{X: t.W / 2, Y: t.H / 2}
	}
	return t
}
