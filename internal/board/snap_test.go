/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import (
	"testing"

	"algebratiles/internal/geom"
	"algebratiles/internal/tile"
)

func TestResolveSnapFlushRightSide(t *testing.T) {
	m := tile.DefaultMetrics()
	arr := tile.NewArrangement()
	anchor := arr.Spawn(tile.Square, false, tile.Horizontal, m, geom.Pt{X: 100, Y: 100})
	moving := arr.Spawn(tile.Square, false, tile.Horizontal, m, geom.Pt{X: 100 + m.SquareLen + 4, Y: 103})

	p, ok := ResolveSnap(moving, arr.Tiles(), DefaultSnapTolerance)
	if !ok {
		t.Fatalf("expected a snap within tolerance")
	}
	if p.X != anchor.Pos.X+m.SquareLen || p.Y != anchor.Pos.Y {
		t.Fatalf("snap = %+v, want flush at {%v %v}", p, anchor.Pos.X+m.SquareLen, anchor.Pos.Y)
	}
	// zero residual gap
	moving.Pos = p
	if moving.Pos.X-(anchor.Pos.X+anchor.W) != 0 {
		t.Fatalf("residual gap after snap")
	}
}

func TestResolveSnapBottomBottomAlignment(t *testing.T) {
	m := tile.DefaultMetrics()
	arr := tile.NewArrangement()
	anchor := arr.Spawn(tile.Square, false, tile.Horizontal, m, geom.Pt{X: 100, Y: 100})
	// unit left of the square, bottom edges nearly level, tops far apart
	moving := arr.Spawn(tile.Unit, false, tile.Horizontal, m, geom.Pt{X: 100 - m.UnitLen - 3, Y: 100 + m.SquareLen - m.UnitLen + 2})

	p, ok := ResolveSnap(moving, arr.Tiles(), DefaultSnapTolerance)
	if !ok {
		t.Fatalf("expected a snap")
	}
	wantX := anchor.Pos.X - moving.W
	wantY := anchor.Pos.Y + anchor.H - moving.H
	if p.X != wantX || p.Y != wantY {
		t.Fatalf("snap = %+v, want {%v %v}", p, wantX, wantY)
	}
}

func TestResolveSnapStackingAbutment(t *testing.T) {
	m := tile.DefaultMetrics()
	arr := tile.NewArrangement()
	anchor := arr.Spawn(tile.Unit, false, tile.Horizontal, m, geom.Pt{X: 50, Y: 50})
	// unit dropped just below the anchor, left edges roughly shared
	moving := arr.Spawn(tile.Unit, false, tile.Horizontal, m, geom.Pt{X: 52, Y: 50 + m.UnitLen + 3})

	p, ok := ResolveSnap(moving, arr.Tiles(), DefaultSnapTolerance)
	if !ok {
		t.Fatalf("expected stacking snap")
	}
	if p.X != anchor.Pos.X || p.Y != anchor.Pos.Y+anchor.H {
		t.Fatalf("snap = %+v, want column below anchor", p)
	}
}

func TestResolveSnapFirstMatchWins(t *testing.T) {
	m := tile.DefaultMetrics()
	arr := tile.NewArrangement()
	first := arr.Spawn(tile.Square, false, tile.Horizontal, m, geom.Pt{X: 0, Y: 0})
	second := arr.Spawn(tile.Square, false, tile.Horizontal, m, geom.Pt{X: 300, Y: 0})
	// near the right edge of first; second is a candidate later in order
	moving := arr.Spawn(tile.Unit, false, tile.Horizontal, m, geom.Pt{X: m.SquareLen + 2, Y: 1})

	p, ok := ResolveSnap(moving, arr.Tiles(), DefaultSnapTolerance)
	if !ok {
		t.Fatalf("expected snap")
	}
	if p.X != first.Pos.X+first.W || p.Y != first.Pos.Y {
		t.Fatalf("first tile in arrangement order must win, got %+v", p)
	}
	_ = second
}

func TestResolveSnapOutsideToleranceKeepsPosition(t *testing.T) {
	m := tile.DefaultMetrics()
	arr := tile.NewArrangement()
	arr.Spawn(tile.Square, false, tile.Horizontal, m, geom.Pt{X: 0, Y: 0})
	moving := arr.Spawn(tile.Unit, false, tile.Horizontal, m, geom.Pt{X: 500, Y: 500})

	p, ok := ResolveSnap(moving, arr.Tiles(), DefaultSnapTolerance)
	if ok {
		t.Fatalf("no snap expected far away")
	}
	if p != moving.Pos {
		t.Fatalf("position must be unchanged, got %+v", p)
	}
}
