/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package factor implements the algebraic side of the board: deciding whether
// a free-form tile arrangement is a valid rectangular factorization of a
// target quadratic, finding an integer factorization for given coefficients,
// and planning the tile layout that demonstrates it.
package factor

import (
	"fmt"
	"math"

	"algebratiles/internal/geom"
	"algebratiles/internal/tile"
)

// AreaTolerance absorbs sub-pixel slack between the bounding box and the
// summed tile areas. Snapped tiles are pixel-exact, so this stays small.
const AreaTolerance = 50

// maxCut bounds the (p, q) search in the mixed-sign case. Cuts deeper than a
// dozen unit rows or columns do not occur in classroom equations.
const maxCut = 12

// Result is the validator verdict. Message is user-facing and always set.
type Result struct {
	Valid   bool
	Message string
}

// Validate decides whether the arrangement is a correct rectangular model of
// a·x² + b·x + c. The literal pixel geometry must reproduce both the
// algebraic product and, when negative tiles are present, the overlap area
// implied by removing p unit columns and q unit rows from the positive base.
func Validate(arr *tile.Arrangement, m tile.Metrics, a, b, c int) Result {
	tiles := arr.Tiles()
	if len(tiles) == 0 {
		return Result{Valid: false, Message: "Nothing to check — the board is empty."}
	}

	bbox, _ := geom.BoundsOf(arr.Rects())
	var posArea, negArea float32
	for _, t := range tiles {
		if t.Negative {
			negArea += t.Area()
		} else {
			posArea += t.Area()
		}
	}

	if negArea == 0 {
		return validateAllPositive(bbox, posArea, m, a, b, c)
	}
	if posArea == 0 {
		return Result{Valid: false, Message: "That is not a valid rectangle for " + FormatQuadratic(a, b, c) + "."}
	}
	return validateMixed(bbox, posArea, negArea, m, a, b, c)
}

// validateAllPositive accepts when the positive tiles fill the bounding box
// with no large gaps or overlaps and the box's side lengths expand to the
// target product.
func validateAllPositive(bbox geom.Rect, posArea float32, m tile.Metrics, a, b, c int) Result {
	if absf(bbox.Area()-posArea) >= AreaTolerance {
		return Result{Valid: false, Message: "The tiles leave gaps or overlap — they must fill one solid rectangle."}
	}
	w, okW := geom.InferSideSplit(bbox.W, m.SquareLen, m.UnitLen)
	h, okH := geom.InferSideSplit(bbox.H, m.SquareLen, m.UnitLen)
	if !okW || !okH {
		return Result{Valid: false, Message: "The rectangle's sides do not line up with whole tiles."}
	}
	ra := w.Squares * h.Squares
	rb := w.Squares*h.Units + h.Squares*w.Units
	rc := w.Units * h.Units
	if ra != a || rb != b || rc != c {
		return Result{
			Valid: false,
			Message: fmt.Sprintf("This rectangle shows %s, not %s.",
				FormatQuadratic(ra, rb, rc), FormatQuadratic(a, b, c)),
		}
	}
	return Result{
		Valid: true,
		Message: fmt.Sprintf("Correct! %s = (%s)(%s)", FormatQuadratic(a, b, c),
			FormatLinear(w.Squares, w.Units), FormatLinear(h.Squares, h.Units)),
	}
}

// validateMixed handles arrangements with negative tiles: the positive tiles
// must already form a clean base rectangle, and the negative area must match
// the inclusion–exclusion area of the (p, q) cut that expands to the target.
func validateMixed(bbox geom.Rect, posArea, negArea float32, m tile.Metrics, a, b, c int) Result {
	if absf(bbox.Area()-posArea) >= AreaTolerance {
		return Result{Valid: false, Message: "The positive tiles must form one solid base rectangle first."}
	}
	w, okW := geom.InferSideSplit(bbox.W, m.SquareLen, m.UnitLen)
	h, okH := geom.InferSideSplit(bbox.H, m.SquareLen, m.UnitLen)
	if !okW || !okH {
		return Result{Valid: false, Message: "The base rectangle's sides do not line up with whole tiles."}
	}

	for p := 0; p <= maxCut; p++ {
		for q := 0; q <= maxCut; q++ {
			if p == 0 && q == 0 {
				continue
			}
			ra := w.Squares * h.Squares
			rb := w.Squares*(h.Units-q) + h.Squares*(w.Units-p)
			rc := (w.Units - p) * (h.Units - q)
			if ra != a || rb != b || rc != c {
				continue
			}
			cut := float32(p)*m.UnitLen*bbox.H + float32(q)*m.UnitLen*bbox.W -
				float32(p*q)*m.UnitLen*m.UnitLen
			if absf(negArea-cut) < AreaTolerance {
				return Result{
					Valid: true,
					Message: fmt.Sprintf("Correct! %s = (%s)(%s)", FormatQuadratic(a, b, c),
						FormatLinear(w.Squares, w.Units-p), FormatLinear(h.Squares, h.Units-q)),
				}
			}
			return Result{Valid: false, Message: "The removed area does not match the cut — check the negative tiles."}
		}
	}
	return Result{Valid: false, Message: "That is not a valid rectangle for " + FormatQuadratic(a, b, c) + "."}
}

func absf(v float32) float32 { return float32(math.Abs(float64(v))) }
