/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package factor

import (
	"errors"
	"fmt"
)

// ErrNoNiceRectangle is returned when the bounded search finds no integer
// factorization. It is a reported, recoverable condition, never a crash.
var ErrNoNiceRectangle = errors.New("equation does not favor nice integer rectangles")

// Factorization describes (M·x + P)(N·x + Q) for the target quadratic:
// M·N = a, M·Q + N·P = b, P·Q = c.
type Factorization struct {
	M, N int
	P, Q int
}

func (f Factorization) String() string {
	return fmt.Sprintf("(%s)(%s)", FormatLinear(f.M, f.P), FormatLinear(f.N, f.Q))
}

// Solve finds an integer factorization of a·x² + b·x + c via bounded
// exhaustive search. |a| is split into the most nearly square divisor pair;
// p then scans a small signed range, taking the first divisor pair of c that
// satisfies the cross-term. The search is deterministic: identical inputs
// yield identical factorizations.
func Solve(a, b, c int) (Factorization, error) {
	m, n := splitFactor(abs(a))

	limit := abs(c)
	if c == 0 {
		limit = abs(b)
	}
	for p := -limit; p <= limit; p++ {
		var q int
		if c != 0 {
			if p == 0 || c%p != 0 {
				continue
			}
			q = c / p
		} else {
			if p != 0 {
				continue
			}
			if m != 0 && b%m == 0 {
				q = b / m
			}
		}
		if m*q+n*p == b {
			return Factorization{M: m, N: n, P: p, Q: q}, nil
		}
	}
	return Factorization{}, ErrNoNiceRectangle
}

// splitFactor returns the divisor pair (m, n) of v with m ≤ n and m as large
// as possible, i.e. the most nearly square split. Zero yields (0, 0).
func splitFactor(v int) (int, int) {
	if v == 0 {
		return 0, 0
	}
	m := 1
	for d := 1; d*d <= v; d++ {
		if v%d == 0 {
			m = d
		}
	}
	return m, v / m
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
