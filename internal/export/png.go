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
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"algebratiles/internal/tile"
)

// ExportPNG rasterizes the arrangement at 1 board pixel per image pixel.
// Labels use the embedded bitmap face, so superscripts fall back to ASCII.
func ExportPNG(arr *tile.Arrangement, outPath string, opt Options) error {
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

	pixW := int(math.Ceil(w))
	pixH := int(math.Ceil(h))
	img := image.NewRGBA(image.Rect(0, 0, pixW, pixH))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: toRGBA(opt.Background)}, image.Point{}, draw.Src)

	// scene -> image coordinates
	ox, oy := float64(bb.X), float64(bb.Y)
	px := func(v float32) int { return int(math.Round(float64(v) - ox)) }
	py := func(v float32) int { return int(math.Round(float64(v) - oy)) }

	sc := toRGBA(opt.TileStroke.Color)
	for _, v := range views {
		r := v.Rect
		x0, y0 := px(r.X), py(r.Y)
		x1, y1 := px(r.X+r.W)-1, py(r.Y+r.H)-1
		fillRect(img, x0, y0, x1, y1, toRGBA(opt.fillFor(v)))
		strokeRect(img, x0, y0, x1, y1, sc)
		if opt.IncludeLabels {
			drawLabel(img, asciiLabel(v.Label), (x0+x1)/2, (y0+y1)/2)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

func toRGBA(c Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// drawLabel centers the text on (cx, cy) using the 7x13 bitmap face.
func drawLabel(img *image.RGBA, s string, cx, cy int) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{0, 0, 0, 255}),
		Face: face,
	}
	wid := d.MeasureString(s)
	d.Dot = fixed.Point26_6{
		X: fixed.I(cx) - wid/2,
		Y: fixed.I(cy + face.Height/2 - face.Descent),
	}
	d.DrawString(s)
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	// top and bottom
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	// left and right
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}
