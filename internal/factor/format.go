/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package factor

import (
	"fmt"
	"strings"
)

// FormatQuadratic renders a·x² + b·x + c in conventional textbook form,
// dropping zero terms and unit coefficients ("x² + 5x + 6", "2x² - 3").
func FormatQuadratic(a, b, c int) string {
	var sb strings.Builder
	writeTerm(&sb, a, "x²")
	writeTerm(&sb, b, "x")
	writeTerm(&sb, c, "")
	if sb.Len() == 0 {
		return "0"
	}
	return sb.String()
}

// FormatLinear renders s·x + u, used for the factor pair display.
func FormatLinear(s, u int) string {
	var sb strings.Builder
	writeTerm(&sb, s, "x")
	writeTerm(&sb, u, "")
	if sb.Len() == 0 {
		return "0"
	}
	return sb.String()
}

func writeTerm(sb *strings.Builder, coeff int, sym string) {
	if coeff == 0 {
		return
	}
	switch {
	case sb.Len() == 0 && coeff < 0:
		sb.WriteString("-")
	case sb.Len() > 0 && coeff < 0:
		sb.WriteString(" - ")
	case sb.Len() > 0:
		sb.WriteString(" + ")
	}
	abs := coeff
	if abs < 0 {
		abs = -abs
	}
	if abs != 1 || sym == "" {
		fmt.Fprintf(sb, "%d", abs)
	}
	sb.WriteString(sym)
}
