/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"algebratiles/internal/tile"
)

// ExportPDF writes the arrangement as a single-page PDF worksheet at 1pt per
// board pixel. Built-in Helvetica keeps text vector without embedding fonts.
func ExportPDF(arr *tile.Arrangement, outPath string, opt Options) error {
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

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
		OrientationStr: "",
	})
	title := opt.Title
	if title == "" {
		title = "Algebra Tiles Board"
	}
	pdf.SetTitle(title, false)
	pdf.SetAuthor("Algebra Tiles", false)
	pdf.SetFont("Helvetica", "", 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPageFormat("", gofpdf.SizeType{Wd: w, Ht: h})

	// scene -> page coordinates
	ox, oy := float64(bb.X), float64(bb.Y)

	setDrawColor(pdf, opt.TileStroke.Color)
	pdf.SetLineWidth(opt.TileStroke.Width)
	for _, v := range views {
		r := v.Rect
		x := float64(r.X) - ox
		y := float64(r.Y) - oy
		rw := float64(r.W)
		rh := float64(r.H)
		setFillColor(pdf, opt.fillFor(v))
		pdf.Rect(x, y, rw, rh, "FD")
		if opt.IncludeLabels {
			// U+2212 has no cp1252 slot; the hyphen-minus renders the same
			label := tr(strings.ReplaceAll(v.Label, "−", "-"))
			tw := pdf.GetStringWidth(label)
			pdf.Text(x+rw/2-tw/2, y+rh/2+4, label)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func setDrawColor(pdf *gofpdf.Fpdf, c Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
