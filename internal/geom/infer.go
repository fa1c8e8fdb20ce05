/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import "math"

// SideSplit expresses a measured pixel length as an integer combination of
// square-side and unit-side lengths: Squares*squareLen + Units*unitLen.
type SideSplit struct {
	Squares int
	Units   int
}

const (
	// maxSideCount bounds the exhaustive search. Classroom equations stay
	// well inside a dozen squares or units per side.
	maxSideCount = 12
	// inferTolerance is the max pixel error accepted for a side split.
	inferTolerance = 3.0
)

// InferSideSplit finds the small non-negative pair (Squares, Units) whose
// combined length best matches the measured length. The search is a bounded
// exhaustive scan; ok is false when even the best candidate misses by more
// than the pixel tolerance, so callers never see a sentinel zero split.
func InferSideSplit(length, squareLen, unitLen float32) (SideSplit, bool) {
	if length <= 0 || squareLen <= 0 || unitLen <= 0 {
		return SideSplit{}, false
	}
	best := SideSplit{}
	bestErr := math.MaxFloat64
	for s := 0; s <= maxSideCount; s++ {
		for u := 0; u <= maxSideCount; u++ {
			got := float64(s)*float64(squareLen) + float64(u)*float64(unitLen)
			err := math.Abs(got - float64(length))
			if err < bestErr {
				bestErr = err
				best = SideSplit{Squares: s, Units: u}
			}
		}
	}
	if bestErr > inferTolerance {
		return SideSplit{}, false
	}
	return best, true
}
