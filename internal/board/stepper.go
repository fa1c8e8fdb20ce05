/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import "algebratiles/internal/tile"

// Stepper advances tiles toward their planned targets. The calling loop
// (frame scheduler) invokes Step until it reports settled; the engine does
// no pacing of its own.
type Stepper struct {
	// Fraction of the remaining distance covered per step and axis.
	// Defaults to 0.1.
	Fraction float32
	// SettleDist is the remaining distance below which a tile snaps exactly
	// onto its target. Defaults to 0.5 px.
	SettleDist float32
}

// Step moves every animating tile a fraction of the remaining distance to
// its target, independently per axis. A tile within SettleDist lands exactly
// on the target and its target is cleared. Returns true while any tile is
// still in motion; the first false return is the settle signal.
func (s Stepper) Step(arr *tile.Arrangement) bool {
	fraction := s.Fraction
	if fraction <= 0 || fraction > 1 {
		fraction = 0.1
	}
	settle := s.SettleDist
	if settle <= 0 {
		settle = 0.5
	}

	active := false
	for _, t := range arr.Tiles() {
		if t.Target == nil {
			continue
		}
		dx := t.Target.X - t.Pos.X
		dy := t.Target.Y - t.Pos.Y
		if dx*dx+dy*dy <= settle*settle {
			if dx != 0 || dy != 0 {
				active = true
			}
			t.Pos = *t.Target
			t.Target = nil
			continue
		}
		t.Pos.X += dx * fraction
		t.Pos.Y += dy * fraction
		active = true
	}
	return active
}
