/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package factor

import (
	"log/slog"

	"algebratiles/internal/geom"
	applog "algebratiles/internal/log"
	"algebratiles/internal/tile"
)

// Generate replaces the arrangement with the tile population implied by the
// coefficients: |a| squares, |b| bars, |c| units, negative when the
// coefficient is negative. Tiles are scattered on a loose grid below the
// spawn point so the subsequent animation visibly assembles them.
func Generate(arr *tile.Arrangement, m tile.Metrics, a, b, c int, at geom.Pt) {
	arr.Reset()
	i := 0
	spawn := func(k tile.Kind, negative bool) {
		col := i % 6
		row := i / 6
		pos := geom.Pt{
			X: at.X + float32(col)*(m.SquareLen+m.UnitLen),
			Y: at.Y + float32(row)*(m.SquareLen+m.UnitLen),
		}
		arr.Spawn(k, negative, tile.Horizontal, m, pos)
		i++
	}
	for n := 0; n < abs(a); n++ {
		spawn(tile.Square, a < 0)
	}
	for n := 0; n < abs(b); n++ {
		spawn(tile.Bar, b < 0)
	}
	for n := 0; n < abs(c); n++ {
		spawn(tile.Unit, c < 0)
	}
}

// Plan computes a factorization for the coefficients and assigns every tile
// a target position reproducing the rectangular construction at origin:
// an M×N square grid, |P| vertical bar columns beside the base (outward for
// additions, overlapping inward for subtractions), |Q| horizontal bar rows
// below it, and a |P|×|Q| unit block at their corner. Tiles are drawn from
// the existing arrangement; missing tiles leave layout slots unfilled and
// surplus tiles keep their place. On ErrNoNiceRectangle the arrangement is
// left untouched.
func Plan(arr *tile.Arrangement, m tile.Metrics, a, b, c int, origin geom.Pt) (Factorization, error) {
	f, err := Solve(a, b, c)
	if err != nil {
		return Factorization{}, err
	}
	l := applog.WithComponent("factor")
	l.Debug("layout planned", slog.String("equation", FormatQuadratic(a, b, c)), slog.String("factors", f.String()))

	sq, u := m.SquareLen, m.UnitLen
	baseW := float32(f.M) * sq
	baseH := float32(f.N) * sq

	var squares, bars, units []*tile.Tile
	for _, t := range arr.Tiles() {
		switch t.Kind {
		case tile.Square:
			squares = append(squares, t)
		case tile.Bar:
			bars = append(bars, t)
		case tile.Unit:
			units = append(units, t)
		}
	}

	take := func(pool *[]*tile.Tile) *tile.Tile {
		if len(*pool) == 0 {
			return nil // silent truncation: slot stays unfilled
		}
		t := (*pool)[0]
		*pool = (*pool)[1:]
		return t
	}

	// M columns × N rows of squares form the base.
	for j := 0; j < f.N; j++ {
		for i := 0; i < f.M; i++ {
			t := take(&squares)
			if t == nil {
				break
			}
			t.Target = &geom.Pt{X: origin.X + float32(i)*sq, Y: origin.Y + float32(j)*sq}
		}
	}

	// |P| vertical bar columns at the base's right edge, N bars each.
	colX := func(k int) float32 {
		if f.P > 0 {
			return origin.X + baseW + float32(k)*u
		}
		return origin.X + baseW - float32(k+1)*u
	}
	for k := 0; k < abs(f.P); k++ {
		for j := 0; j < f.N; j++ {
			t := take(&bars)
			if t == nil {
				break
			}
			t.Orientation = tile.Vertical
			t.Negative = f.P < 0
			t.RecomputeSize(m)
			t.Target = &geom.Pt{X: colX(k), Y: origin.Y + float32(j)*sq}
		}
	}

	// |Q| horizontal bar rows at the base's bottom edge, M bars each.
	rowY := func(k int) float32 {
		if f.Q > 0 {
			return origin.Y + baseH + float32(k)*u
		}
		return origin.Y + baseH - float32(k+1)*u
	}
	for k := 0; k < abs(f.Q); k++ {
		for i := 0; i < f.M; i++ {
			t := take(&bars)
			if t == nil {
				break
			}
			t.Orientation = tile.Horizontal
			t.Negative = f.Q < 0
			t.RecomputeSize(m)
			t.Target = &geom.Pt{X: origin.X + float32(i)*sq, Y: rowY(k)}
		}
	}

	// |P|×|Q| unit block where the bar groups meet.
	for k := 0; k < abs(f.P); k++ {
		for r := 0; r < abs(f.Q); r++ {
			t := take(&units)
			if t == nil {
				break
			}
			t.Negative = f.P*f.Q < 0
			t.Target = &geom.Pt{X: colX(k), Y: rowY(r)}
		}
	}

	arr.SortForOverlap()
	return f, nil
}
