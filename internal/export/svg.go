/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"algebratiles/internal/tile"
)

// ExportSVG writes the arrangement as a standalone SVG document. Tiles are
// drawn in snapshot z-order so overlap layering survives the export.
func ExportSVG(arr *tile.Arrangement, outPath string, opt Options) error {
	if arr == nil {
		return fmt.Errorf("arrangement is nil")
	}
	opt = opt.withDefaults()
	views := arr.Snapshot()
	bb := sceneBounds(views, opt.Margin)
	w, h, err := ensurePositive(bb)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%gpx\" height=\"%gpx\" viewBox=\"%g %g %g %g\">\n",
		w, h, bb.X, bb.Y, w, h)
	if opt.Title != "" {
		wf("  <title>%s</title>\n", escText(opt.Title))
	}
	wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n",
		bb.X, bb.Y, w, h, svgColor(opt.Background))

	sc := svgColor(opt.TileStroke.Color)
	for _, v := range views {
		r := v.Rect
		wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\" fill-opacity=\"0.85\" stroke=\"%s\" stroke-width=\"%g\"/>\n",
			r.X, r.Y, r.W, r.H, svgColor(opt.fillFor(v)), sc, opt.TileStroke.Width)
		if opt.IncludeLabels {
			cx := r.X + r.W/2
			cy := r.Y + r.H/2
			wf("  <text x=\"%g\" y=\"%g\" text-anchor=\"middle\" dominant-baseline=\"central\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"12\" fill=\"#000\">%s</text>\n",
				cx, cy, escText(v.Label))
		}
	}

	wf("</svg>\n")
	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func svgColor(c Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '>':
			out = append(out, '&', 'g', 't', ';')
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
