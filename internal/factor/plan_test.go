/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package factor

import (
	"testing"

	"algebratiles/internal/geom"
	"algebratiles/internal/tile"
)

func settle(arr *tile.Arrangement) {
	for _, t := range arr.Tiles() {
		if t.Target != nil {
			t.Pos = *t.Target
			t.Target = nil
		}
	}
}

func TestGenerateCounts(t *testing.T) {
	m := tile.DefaultMetrics()
	arr := tile.NewArrangement()
	Generate(arr, m, 1, 5, 6, geom.Pt{X: 50, Y: 400})
	if got := arr.Count(tile.Square, false); got != 1 {
		t.Fatalf("squares = %d, want 1", got)
	}
	if got := arr.Count(tile.Bar, false); got != 5 {
		t.Fatalf("bars = %d, want 5", got)
	}
	if got := arr.Count(tile.Unit, false); got != 6 {
		t.Fatalf("units = %d, want 6", got)
	}
	// negative coefficients spawn negative tiles
	Generate(arr, m, 1, 1, -2, geom.Pt{})
	if got := arr.Count(tile.Unit, true); got != 2 {
		t.Fatalf("negative units = %d, want 2", got)
	}
}

func TestPlanAssemblesValidRectangle(t *testing.T) {
	m := tile.DefaultMetrics()
	arr := tile.NewArrangement()
	origin := geom.Pt{X: 100, Y: 100}
	Generate(arr, m, 1, 5, 6, geom.Pt{X: 0, Y: 500})
	f, err := Plan(arr, m, 1, 5, 6, origin)
	if err != nil {
		t.Fatalf("Plan(1,5,6): %v", err)
	}
	if f.M != 1 || f.N != 1 || f.P != 2 || f.Q != 3 {
		t.Fatalf("factorization = %+v", f)
	}
	if !arr.Animating() {
		t.Fatalf("plan must leave tiles animating toward targets")
	}
	settle(arr)
	// planner self-check: the settled layout validates silently
	res := Validate(arr, m, 1, 5, 6)
	if !res.Valid {
		t.Fatalf("planned layout failed its own validation: %s", res.Message)
	}
}

func TestPlanZOrderLayering(t *testing.T) {
	m := tile.DefaultMetrics()
	arr := tile.NewArrangement()
	Generate(arr, m, 1, 5, 6, geom.Pt{})
	if _, err := Plan(arr, m, 1, 5, 6, geom.Pt{}); err != nil {
		t.Fatalf("Plan: %v", err)
	}
	lastKind := tile.Square
	for _, tl := range arr.Tiles() {
		if tl.Kind < lastKind {
			t.Fatalf("z-order must be squares, then bars, then units")
		}
		lastKind = tl.Kind
	}
}

func TestPlanUnsatisfiableLeavesArrangementAlone(t *testing.T) {
	m := tile.DefaultMetrics()
	arr := tile.NewArrangement()
	tl := arr.Spawn(tile.Square, false, tile.Horizontal, m, geom.Pt{X: 33, Y: 44})
	if _, err := Plan(arr, m, 1, 0, 7, geom.Pt{}); err == nil {
		t.Fatalf("x²+7 must be unsatisfiable")
	}
	if tl.Pos.X != 33 || tl.Pos.Y != 44 || tl.Target != nil {
		t.Fatalf("failed plan must not touch the arrangement: %+v", tl)
	}
}

func TestPlanNegativeOverlapPlacement(t *testing.T) {
	m := tile.DefaultMetrics()
	arr := tile.NewArrangement()
	// x²+x-2 = (x+2)(x-1); solver picks p=-1, q=2 or p=2, q=-1 family
	Generate(arr, m, 1, 1, -2, geom.Pt{})
	f, err := Plan(arr, m, 1, 1, -2, geom.Pt{X: 0, Y: 0})
	if err != nil {
		t.Fatalf("Plan(1,1,-2): %v", err)
	}
	if f.M*f.Q+f.N*f.P != 1 || f.P*f.Q != -2 {
		t.Fatalf("bad factorization %+v", f)
	}
	settle(arr)
	// the negative group must overlap the base (inward), not extend it
	neg := 0
	base := geom.R(0, 0, m.SquareLen, m.SquareLen)
	for _, tl := range arr.Tiles() {
		if tl.Negative && tl.Kind == tile.Bar {
			neg++
			if !tl.Rect().Intersects(base) {
				t.Fatalf("negative bar at %+v must overlap the base square", tl.Rect())
			}
		}
	}
	if neg == 0 {
		t.Fatalf("expected negative bars in the overlap layout")
	}
}

func TestPlanTruncatesWhenTilesMissing(t *testing.T) {
	m := tile.DefaultMetrics()
	arr := tile.NewArrangement()
	arr.Spawn(tile.Square, false, tile.Horizontal, m, geom.Pt{})
	// only one square exists for x²+5x+6; plan must not error or invent tiles
	if _, err := Plan(arr, m, 1, 5, 6, geom.Pt{}); err != nil {
		t.Fatalf("Plan with missing tiles: %v", err)
	}
	if arr.Len() != 1 {
		t.Fatalf("plan must not spawn tiles, len=%d", arr.Len())
	}
}
