/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import "testing"

func TestParseCoeff(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"1", 1},
		{"-3", -3},
		{"  12 ", 12},
		{"", 0},
		{"   ", 0},
		{"x", 0},
		{"2.5", 0},
		{"1e3", 0},
	}
	for _, tc := range cases {
		if got := parseCoeff(tc.in); got != tc.want {
			t.Fatalf("parseCoeff(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
