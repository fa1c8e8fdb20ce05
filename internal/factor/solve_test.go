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
	"testing"
)

func TestSolveSimpleMonic(t *testing.T) {
	f, err := Solve(1, 5, 6)
	if err != nil {
		t.Fatalf("Solve(1,5,6): %v", err)
	}
	if f.M != 1 || f.N != 1 || f.P != 2 || f.Q != 3 {
		t.Fatalf("factorization = %+v, want {1 1 2 3}", f)
	}
	if got := f.String(); got != "(x + 2)(x + 3)" {
		t.Fatalf("String() = %q", got)
	}
}

func TestSolveLeadingCoefficient(t *testing.T) {
	f, err := Solve(2, 7, 3)
	if err != nil {
		t.Fatalf("Solve(2,7,3): %v", err)
	}
	// identity check rather than pinning one decomposition
	if f.M*f.N != 2 || f.M*f.Q+f.N*f.P != 7 || f.P*f.Q != 3 {
		t.Fatalf("%+v does not multiply back to 2x²+7x+3", f)
	}
}

func TestSolveDifferenceOfSquares(t *testing.T) {
	f, err := Solve(1, 0, -4)
	if err != nil {
		t.Fatalf("Solve(1,0,-4): %v", err)
	}
	if f.M*f.N != 1 || f.M*f.Q+f.N*f.P != 0 || f.P*f.Q != -4 {
		t.Fatalf("%+v does not multiply back to x²-4", f)
	}
}

func TestSolveZeroConstant(t *testing.T) {
	f, err := Solve(1, 3, 0)
	if err != nil {
		t.Fatalf("Solve(1,3,0): %v", err)
	}
	if f.P != 0 || f.Q != 3 {
		t.Fatalf("factorization = %+v, want p=0 q=3 (x(x+3))", f)
	}
}

func TestSolvePureSquareTerm(t *testing.T) {
	f, err := Solve(4, 0, 0)
	if err != nil {
		t.Fatalf("Solve(4,0,0): %v", err)
	}
	if f.M != 2 || f.N != 2 || f.P != 0 || f.Q != 0 {
		t.Fatalf("factorization = %+v, want near-square split {2 2 0 0}", f)
	}
}

func TestSolveIrreducible(t *testing.T) {
	// x²+7 has irrational roots; the bounded search must fail cleanly.
	if _, err := Solve(1, 0, 7); !errors.Is(err, ErrNoNiceRectangle) {
		t.Fatalf("Solve(1,0,7) err = %v, want ErrNoNiceRectangle", err)
	}
	if _, err := Solve(1, 1, 1); !errors.Is(err, ErrNoNiceRectangle) {
		t.Fatalf("Solve(1,1,1) err = %v, want ErrNoNiceRectangle", err)
	}
}

func TestSolveDeterministic(t *testing.T) {
	a, err := Solve(1, -3, 2)
	if err != nil {
		t.Fatalf("Solve(1,-3,2): %v", err)
	}
	bf, err := Solve(1, -3, 2)
	if err != nil {
		t.Fatalf("repeat Solve: %v", err)
	}
	if a != bf {
		t.Fatalf("solver not deterministic: %+v vs %+v", a, bf)
	}
}

func TestFormatQuadratic(t *testing.T) {
	cases := []struct {
		a, b, c int
		want    string
	}{
		{1, 5, 6, "x² + 5x + 6"},
		{2, -7, 0, "2x² - 7x"},
		{0, 0, 0, "0"},
		{-1, 0, 3, "-x² + 3"},
	}
	for _, tc := range cases {
		if got := FormatQuadratic(tc.a, tc.b, tc.c); got != tc.want {
			t.Fatalf("FormatQuadratic(%d,%d,%d) = %q, want %q", tc.a, tc.b, tc.c, got, tc.want)
		}
	}
}
