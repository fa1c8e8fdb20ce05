//go:build fyne && cgo

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

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"algebratiles/internal/backend"
	"algebratiles/internal/board"
	"algebratiles/internal/config"
	"algebratiles/internal/crash"
	"algebratiles/internal/export"
	"algebratiles/internal/factor"
	"algebratiles/internal/geom"
	applog "algebratiles/internal/log"
	"algebratiles/internal/telemetry"
	"algebratiles/internal/tile"
	"algebratiles/internal/undo"
	"algebratiles/internal/version"
)

// Run starts the Fyne-based desktop UI with the interactive tile board.
// stateDir is where crash autosaves land; empty falls back to the temp dir.
func Run(stateDir string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	cfg, token, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", "err", err)
		cfg = config.Defaults()
	}

	arr := tile.NewArrangement()
	defer crash.Recover(stateDir, arr)

	fyneApp := app.NewWithID("algebratiles")
	w := fyneApp.NewWindow("Algebra Tiles")
	// Restore window size from preferences (with sane minimums)
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1100)
	winH := prefs.IntWithFallback("window.height", 760)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	ctrl := board.NewController(arr, tile.DefaultMetrics())
	ctrl.SnapTolerance = cfg.Engine.SnapTolerance
	stepper := board.Stepper{Fraction: cfg.Engine.StepFraction}

	status := widget.NewLabel("Ready")
	bc := NewBoardCanvas(arr, ctrl)

	// Undo manager with safeguards (snapshots capture the whole board)
	undoMgr := undo.NewManager(undo.Config{
		MaxBytes:    32 * 1024 * 1024, // 32 MiB in-memory cap
		MaxDepth:    50,
		MinInterval: 300 * time.Millisecond,
	})
	// Capture the pre-mutation state so Undo lands on it.
	remember := func() {
		blob, err := arr.MarshalState()
		if err != nil {
			l.Warn("snapshot failed", "err", err)
			return
		}
		undoMgr.PushSnapshot(undo.Snapshot{Blob: blob, TS: time.Now()})
	}
	bc.OnBeforeChange = remember
	bc.OnChange = func() { bc.Refresh() }

	// Equation inputs
	entryA := widget.NewEntry()
	entryA.SetPlaceHolder("a")
	entryA.SetText("1")
	entryB := widget.NewEntry()
	entryB.SetPlaceHolder("b")
	entryB.SetText("5")
	entryC := widget.NewEntry()
	entryC.SetPlaceHolder("c")
	entryC.SetText("6")
	eqLabel := widget.NewLabel("")
	// Malformed or empty entries count as 0; a=0 is rejected where it
	// matters (building and solving need a quadratic).
	coeffs := func() (int, int, int) {
		return parseCoeff(entryA.Text), parseCoeff(entryB.Text), parseCoeff(entryC.Text)
	}
	refreshEq := func() {
		a, b, c := coeffs()
		eqLabel.SetText(factor.FormatQuadratic(a, b, c))
	}
	entryA.OnChanged = func(string) { refreshEq() }
	entryB.OnChanged = func(string) { refreshEq() }
	entryC.OnChanged = func(string) { refreshEq() }
	refreshEq()

	// Animation pump for planned layouts. One goroutine at a time; the
	// stepper reports settled and the pump exits.
	animating := false
	animate := func() {
		if animating {
			return
		}
		animating = true
		go func() {
			tick := time.NewTicker(16 * time.Millisecond)
			defer tick.Stop()
			for range tick.C {
				// Step mutates tile positions, so it runs on the event
				// thread alongside any concurrent drag.
				var more bool
				fyne.DoAndWait(func() {
					more = stepper.Step(arr)
					bc.Refresh()
				})
				if !more {
					break
				}
			}
			fyne.Do(func() {
				animating = false
				// Planner self-check: the settled layout must validate.
				a, b, c := coeffs()
				v := factor.Validate(arr, ctrl.Metrics(), a, b, c)
				l.Debug("layout settled", "valid", v.Valid)
				status.SetText("Layout settled")
			})
		}()
	}

	lastVerdict := factor.Result{}
	checkBtn := widget.NewButton("Check", func() {
		a, b, c := coeffs()
		lastVerdict = factor.Validate(arr, ctrl.Metrics(), a, b, c)
		telemetry.Check(a, b, c, lastVerdict.Valid, arr.Len())
		status.SetText(lastVerdict.Message)
		if lastVerdict.Valid {
			dialog.ShowInformation("Check", lastVerdict.Message, w)
		}
	})
	buildBtn := widget.NewButton("Tiles for equation", func() {
		a, b, c := coeffs()
		if a == 0 {
			dialog.ShowInformation("Tiles for equation", "Coefficient a must be non-zero.", w)
			return
		}
		remember()
		factor.Generate(arr, ctrl.Metrics(), a, b, c, geom.Pt{X: 80, Y: 80})
		status.SetText("Spawned tiles for " + factor.FormatQuadratic(a, b, c))
		bc.Refresh()
	})
	solveBtn := widget.NewButton("Show solution", func() {
		a, b, c := coeffs()
		if a == 0 {
			dialog.ShowInformation("Solve", "Coefficient a must be non-zero.", w)
			return
		}
		remember()
		if arr.Len() == 0 {
			factor.Generate(arr, ctrl.Metrics(), a, b, c, geom.Pt{X: 80, Y: 80})
		}
		f, err := factor.Plan(arr, ctrl.Metrics(), a, b, c, geom.Pt{X: 120, Y: 100})
		telemetry.Solve(a, b, c, err == nil)
		if err != nil {
			dialog.ShowInformation("Solve", err.Error(), w)
			return
		}
		status.SetText("Solution: " + f.String())
		animate()
	})

	// Tile palette: click spawns near the board origin, then the piece is
	// dragged into place like any other tile.
	negCheck := widget.NewCheck("negative", nil)
	spawn := func(k tile.Kind) {
		remember()
		pos := geom.Pt{X: 90 + float32(arr.Len()%6)*24, Y: 90 + float32(arr.Len()%6)*24}
		ctrl.SpawnRequest(k, negCheck.Checked, pos)
		ctrl.CancelDrag()
		bc.Refresh()
	}
	palette := container.NewVBox(
		widget.NewLabel("Palette"),
		widget.NewButton("x²", func() { spawn(tile.Square) }),
		widget.NewButton("x", func() { spawn(tile.Bar) }),
		widget.NewButton("1", func() { spawn(tile.Unit) }),
		negCheck,
		widget.NewSeparator(),
		widget.NewButton("Clear board", func() {
			remember()
			arr.Reset()
			status.SetText("Board cleared")
			bc.Refresh()
		}),
	)

	// Undo and redo hand the manager the state being left, so the opposite
	// stack can bring it back.
	here := func() (undo.Snapshot, bool) {
		blob, err := arr.MarshalState()
		if err != nil {
			dialog.ShowError(err, w)
			return undo.Snapshot{}, false
		}
		return undo.Snapshot{Blob: blob, TS: time.Now()}, true
	}
	doUndo := func() {
		cur, ok := here()
		if !ok {
			return
		}
		if s, ok := undoMgr.Undo(cur); ok {
			if err := arr.RestoreState(s.Blob, ctrl.Metrics()); err != nil {
				dialog.ShowError(err, w)
				return
			}
			status.SetText("Undid last action")
			bc.Refresh()
		} else {
			status.SetText("Nothing to undo")
		}
	}
	doRedo := func() {
		cur, ok := here()
		if !ok {
			return
		}
		if s, ok := undoMgr.Redo(cur); ok {
			if err := arr.RestoreState(s.Blob, ctrl.Metrics()); err != nil {
				dialog.ShowError(err, w)
				return
			}
			status.SetText("Redid last action")
			bc.Refresh()
		} else {
			status.SetText("Nothing to redo")
		}
	}

	// File menu: image exports and result submission. Board state itself is
	// deliberately session-local; only the crash path writes it to disk.
	exportItemFor := func(label, ext string, fn func(*tile.Arrangement, string, export.Options) error) *fyne.MenuItem {
		return fyne.NewMenuItem(label, func() {
			fd := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
				if err != nil || wc == nil {
					return
				}
				path := wc.URI().Path()
				_ = wc.Close()
				a, b, c := coeffs()
				opt := export.Options{IncludeLabels: true, Title: factor.FormatQuadratic(a, b, c)}
				if err := fn(arr, path, opt); err != nil {
					dialog.ShowError(err, w)
					return
				}
				status.SetText("Exported " + path)
			}, w)
			fd.SetFileName("board" + ext)
			fd.SetFilter(fstorage.NewExtensionFileFilter([]string{ext}))
			fd.Show()
		})
	}
	worksheetItem := fyne.NewMenuItem("Export Worksheet…", func() {
		fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil || uri == nil {
				return
			}
			a, b, c := coeffs()
			opt := export.BatchOptions{
				Preset: export.PresetWorksheet,
				Title:  factor.FormatQuadratic(a, b, c),
				OutDir: uri.Path(),
			}
			if err := export.BatchExport(arr, opt); err != nil {
				dialog.ShowError(err, w)
				return
			}
			status.SetText("Worksheet exported to " + uri.Path())
		}, w)
		fd.Show()
	})
	submitItem := fyne.NewMenuItem("Submit Result…", func() {
		if strings.TrimSpace(cfg.Backend.BaseURL) == "" {
			dialog.ShowInformation("Submit", "No backend configured. Set backend.base_url in the config file.", w)
			return
		}
		nameEntry := widget.NewEntry()
		nameEntry.SetText(prefs.StringWithFallback("student.name", ""))
		form := dialog.NewForm("Submit Result", "Submit", "Cancel", []*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
		}, func(ok bool) {
			if !ok {
				return
			}
			student := strings.TrimSpace(nameEntry.Text)
			prefs.SetString("student.name", student)
			a, b, c := coeffs()
			res := backend.Result{
				Student: student,
				A:       a, B: b, C: c,
				Valid:      lastVerdict.Valid,
				DurationMs: time.Since(sessionStart).Milliseconds(),
			}
			if f, err := factor.Solve(a, b, c); err == nil && lastVerdict.Valid {
				res.Factors = f.String()
			}
			client := backend.NewClient(cfg.Backend.BaseURL, token)
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				id, err := client.SubmitResult(ctx, res)
				fyne.Do(func() {
					if err != nil {
						dialog.ShowError(err, w)
						return
					}
					status.SetText(fmt.Sprintf("Result #%d submitted", id))
				})
			}()
		}, w)
		form.Show()
	})

	undoItem := fyne.NewMenuItem("Undo", doUndo)
	undoItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl}
	redoItem := fyne.NewMenuItem("Redo", doRedo)
	redoItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierControl}
	aboutItem := fyne.NewMenuItem("About", func() {
		dialog.ShowInformation("Algebra Tiles", "Algebra Tiles "+version.String(), w)
	})
	w.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("File",
			exportItemFor("Export SVG…", ".svg", export.ExportSVG),
			exportItemFor("Export PNG…", ".png", export.ExportPNG),
			exportItemFor("Export PDF…", ".pdf", export.ExportPDF),
			worksheetItem, fyne.NewMenuItemSeparator(), submitItem),
		fyne.NewMenu("Edit", undoItem, redoItem),
		fyne.NewMenu("Help", aboutItem),
	))
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { doUndo() })
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { doRedo() })

	eqRow := container.NewVBox(
		widget.NewLabel("Equation"),
		container.NewGridWithColumns(3, entryA, entryB, entryC),
		eqLabel,
		checkBtn, buildBtn, solveBtn,
	)
	right := container.NewVBox(eqRow, widget.NewSeparator(), palette)
	content := container.NewBorder(nil, status, nil, right, bc)
	w.SetContent(content)

	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		_ = config.Save(cfg, token)
	})

	w.ShowAndRun()
	l.Info("UI closed")
	return nil
}

var sessionStart = time.Now()

// BoardCanvas renders the arrangement and feeds pointer gestures to the
// controller. Event positions are widget-local, which is also the board
// coordinate space; no zoom or pan is applied.
type BoardCanvas struct {
	widget.BaseWidget

	arr  *tile.Arrangement
	ctrl *board.Controller

	dragging bool
	lastDrag fyne.Position

	// OnBeforeChange fires before a gesture mutates the arrangement
	// (snapshot hook); OnChange fires after.
	OnBeforeChange func()
	OnChange       func()
}

func NewBoardCanvas(arr *tile.Arrangement, ctrl *board.Controller) *BoardCanvas {
	bc := &BoardCanvas{arr: arr, ctrl: ctrl}
	bc.ExtendBaseWidget(bc)
	return bc
}

// PreferredSize sets a decent default size for the widget.
func (bc *BoardCanvas) PreferredSize() fyne.Size { return fyne.NewSize(800, 600) }

func (bc *BoardCanvas) toBoard(p fyne.Position) geom.Pt {
	return geom.Pt{X: p.X, Y: p.Y}
}

// Dragged grabs the tile under the press point on the first event, then
// tracks the pointer. The press point is the event position minus the
// accumulated drag delta.
func (bc *BoardCanvas) Dragged(e *fyne.DragEvent) {
	if !bc.dragging {
		start := fyne.NewPos(e.Position.X-e.Dragged.DX, e.Position.Y-e.Dragged.DY)
		if bc.OnBeforeChange != nil {
			bc.OnBeforeChange()
		}
		bc.ctrl.PointerDown(bc.toBoard(start))
		bc.dragging = true
	}
	bc.ctrl.PointerMove(bc.toBoard(e.Position))
	bc.lastDrag = e.Position
	bc.Refresh()
}

// DragEnd releases the grab at the last tracked position; the controller
// decides between trash-delete and snap.
func (bc *BoardCanvas) DragEnd() {
	if !bc.dragging {
		return
	}
	bc.dragging = false
	bc.ctrl.PointerUp(bc.toBoard(bc.lastDrag))
	if bc.OnChange != nil {
		bc.OnChange()
	}
	bc.Refresh()
}

// Tapped is required alongside DoubleTapped; a single tap raises the tile
// under the pointer.
func (bc *BoardCanvas) Tapped(e *fyne.PointEvent) {
	if t := bc.arr.TopmostAt(bc.toBoard(e.Position)); t != nil {
		bc.arr.BringToFront(t.ID)
		bc.Refresh()
	}
}

// DoubleTapped rotates the bar under the pointer.
func (bc *BoardCanvas) DoubleTapped(e *fyne.PointEvent) {
	if bc.OnBeforeChange != nil {
		bc.OnBeforeChange()
	}
	bc.ctrl.DoubleActivate(bc.toBoard(e.Position))
	if bc.OnChange != nil {
		bc.OnChange()
	}
	bc.Refresh()
}

func (bc *BoardCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 250, G: 250, B: 248, A: 255})
	trash := canvas.NewRectangle(color.RGBA{R: 0, G: 0, B: 0, A: 0})
	trash.StrokeColor = color.RGBA{R: 160, G: 60, B: 50, A: 255}
	trash.StrokeWidth = 2
	trashLabel := canvas.NewText("trash", color.RGBA{R: 160, G: 60, B: 50, A: 255})
	trashLabel.TextSize = 11
	r := &boardCanvasRenderer{bc: bc, bg: bg, trash: trash, trashLabel: trashLabel}
	r.rebuild()
	return r
}

// tileFill mirrors the export palette so the screen and the exported
// images agree on colors.
func tileFill(v tile.TileView) color.RGBA {
	if v.Negative {
		return color.RGBA{R: 204, G: 65, B: 37, A: 217}
	}
	switch v.Kind {
	case tile.Square:
		return color.RGBA{R: 74, G: 144, B: 217, A: 217}
	case tile.Bar:
		return color.RGBA{R: 106, G: 168, B: 79, A: 217}
	default:
		return color.RGBA{R: 241, G: 194, B: 50, A: 217}
	}
}

type boardCanvasRenderer struct {
	bc         *BoardCanvas
	bg         *canvas.Rectangle
	trash      *canvas.Rectangle
	trashLabel *canvas.Text
	rects      []*canvas.Rectangle
	labels     []*canvas.Text
	objects    []fyne.CanvasObject
}

func (r *boardCanvasRenderer) Destroy()                     {}
func (r *boardCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *boardCanvasRenderer) MinSize() fyne.Size           { return r.bc.PreferredSize() }

func (r *boardCanvasRenderer) Refresh() {
	r.rebuild()
	r.Layout(r.bc.Size())
	canvas.Refresh(r.bc)
}

// rebuild recreates the per-tile canvas objects from the current snapshot.
func (r *boardCanvasRenderer) rebuild() {
	views := r.bc.arr.Snapshot()
	r.rects = r.rects[:0]
	r.labels = r.labels[:0]
	r.objects = []fyne.CanvasObject{r.bg, r.trash, r.trashLabel}
	for _, v := range views {
		rect := canvas.NewRectangle(tileFill(v))
		rect.StrokeColor = color.RGBA{R: 34, G: 34, B: 34, A: 255}
		rect.StrokeWidth = 1
		r.rects = append(r.rects, rect)
		r.objects = append(r.objects, rect)

		txt := canvas.NewText(v.Label, color.White)
		txt.TextSize = 12
		if v.Kind == tile.Unit && !v.Negative {
			txt.Color = color.RGBA{R: 60, G: 50, B: 10, A: 255}
		}
		r.labels = append(r.labels, txt)
		r.objects = append(r.objects, txt)
	}
}

func (r *boardCanvasRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))

	// Trash zone bottom-left; the controller needs it in board coords.
	trashRect := geom.R(10, size.Height-66, 56, 56)
	r.trash.Resize(fyne.NewSize(trashRect.W, trashRect.H))
	r.trash.Move(fyne.NewPos(trashRect.X, trashRect.Y))
	r.trashLabel.Move(fyne.NewPos(trashRect.X+12, trashRect.Y+20))
	r.bc.ctrl.SetDeleteZone(trashRect)

	// Size class follows the viewport width.
	if m := tile.MetricsForWidth(size.Width); m != r.bc.ctrl.Metrics() {
		r.bc.ctrl.SetMetrics(m)
	}

	views := r.bc.arr.Snapshot()
	if len(views) != len(r.rects) {
		r.rebuild()
		views = r.bc.arr.Snapshot()
	}
	for i, v := range views {
		r.rects[i].Resize(fyne.NewSize(v.Rect.W, v.Rect.H))
		r.rects[i].Move(fyne.NewPos(v.Rect.X, v.Rect.Y))
		t := r.labels[i]
		ts := t.MinSize()
		t.Move(fyne.NewPos(v.Rect.X+v.Rect.W/2-ts.Width/2, v.Rect.Y+v.Rect.H/2-ts.Height/2))
		// Unit tiles are too small for inline text
		t.Hidden = v.Rect.W < ts.Width+2 || v.Rect.H < ts.Height+2
	}
}
