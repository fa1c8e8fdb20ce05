/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"algebratiles/internal/backend"
	"algebratiles/internal/board"
	"algebratiles/internal/crash"
	"algebratiles/internal/export"
	"algebratiles/internal/factor"
	"algebratiles/internal/geom"
	applog "algebratiles/internal/log"
	"algebratiles/internal/problems"
	"algebratiles/internal/telemetry"
	"algebratiles/internal/tile"
	"algebratiles/internal/ui"
	"algebratiles/internal/version"
)

func usage() {
	fmt.Println("Algebra Tiles — interactive quadratic factoring")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  algebratiles version|-v|--version           Show version")
	fmt.Println("  algebratiles solve <a> <b> <c>              Factor a·x² + b·x + c")
	fmt.Println("  algebratiles check <board.json> <a> <b> <c> Validate a saved board against an equation")
	fmt.Println("  algebratiles export <board.json> <out>      Render a saved board (.svg, .png or .pdf)")
	fmt.Println("  algebratiles problems <dir> <cmd> [...]     Problem bank: seed|list|add|del|import|export")
	fmt.Println("  algebratiles serve                          Start the classroom results server (Postgres)")
	fmt.Println("  algebratiles ui [<stateDir>]                Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	defer crash.Recover("", nil)

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("Algebra Tiles — interactive quadratic factoring")
			fmt.Println(version.String())
			return
		case "solve":
			if len(args) < 5 {
				fmt.Println("solve requires <a> <b> <c>")
				usage()
				os.Exit(2)
			}
			a, b, c := atoiCoeffs(args[2], args[3], args[4])
			f, err := factor.Solve(a, b, c)
			telemetry.Solve(a, b, c, err == nil)
			telemetry.Flush(context.Background())
			if err != nil {
				if errors.Is(err, factor.ErrNoNiceRectangle) {
					fmt.Printf("%s = no integer factorization\n", factor.FormatQuadratic(a, b, c))
					os.Exit(1)
				}
				l.Error("solve failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Printf("%s = %s\n", factor.FormatQuadratic(a, b, c), f)
			printLayout(a, b, c)
			return
		case "check":
			if len(args) < 6 {
				fmt.Println("check requires <board.json> <a> <b> <c>")
				usage()
				os.Exit(2)
			}
			arr, err := loadBoard(args[2])
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			a, b, c := atoiCoeffs(args[3], args[4], args[5])
			res := factor.Validate(arr, tile.DefaultMetrics(), a, b, c)
			telemetry.Check(a, b, c, res.Valid, len(arr.Snapshot()))
			telemetry.Flush(context.Background())
			fmt.Println(res.Message)
			if !res.Valid {
				os.Exit(1)
			}
			return
		case "export":
			if len(args) < 4 {
				fmt.Println("export requires <board.json> <out>")
				usage()
				os.Exit(2)
			}
			arr, err := loadBoard(args[2])
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			out := args[3]
			opt := export.Options{IncludeLabels: true}
			switch strings.ToLower(filepath.Ext(out)) {
			case ".svg":
				err = export.ExportSVG(arr, out, opt)
			case ".png":
				err = export.ExportPNG(arr, out, opt)
			case ".pdf":
				err = export.ExportPDF(arr, out, opt)
			default:
				err = fmt.Errorf("unsupported output format %q (want .svg, .png or .pdf)", filepath.Ext(out))
			}
			if err != nil {
				l.Error("export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Exported", out)
			return
		case "problems":
			if len(args) < 4 {
				fmt.Println("problems requires <dir> and a subcommand")
				usage()
				os.Exit(2)
			}
			if err := runProblems(args[2], args[3], args[4:]); err != nil {
				l.Error("problems command failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "serve":
			l.Info("starting results server")
			if err := backend.Start(); err != nil {
				l.Error("server failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "ui":
			var dir string
			if len(args) >= 3 {
				dir = args[2]
			}
			if err := ui.Run(dir); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}

func atoiCoeffs(sa, sb, sc string) (int, int, int) {
	a, errA := strconv.Atoi(sa)
	b, errB := strconv.Atoi(sb)
	c, errC := strconv.Atoi(sc)
	if errA != nil || errB != nil || errC != nil {
		fmt.Println("coefficients must be integers")
		os.Exit(2)
	}
	return a, b, c
}

// printLayout assembles the rectangle headless and prints where each tile
// settles.
func printLayout(a, b, c int) {
	arr := tile.NewArrangement()
	m := tile.DefaultMetrics()
	factor.Generate(arr, m, a, b, c, geom.Pt{X: 0, Y: 0})
	if _, err := factor.Plan(arr, m, a, b, c, geom.Pt{X: 0, Y: 0}); err != nil {
		return
	}
	st := board.Stepper{}
	for st.Step(arr) {
	}
	fmt.Printf("Layout: %d square(s), %d bar(s), %d unit(s)\n",
		arr.Count(tile.Square, false)+arr.Count(tile.Square, true),
		arr.Count(tile.Bar, false)+arr.Count(tile.Bar, true),
		arr.Count(tile.Unit, false)+arr.Count(tile.Unit, true))
	for _, v := range arr.Snapshot() {
		fmt.Printf("  %-4s %5s at (%.0f, %.0f) %gx%g\n", v.Kind, v.Label, v.Rect.X, v.Rect.Y, v.Rect.W, v.Rect.H)
	}
}

func loadBoard(path string) (*tile.Arrangement, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	arr := tile.NewArrangement()
	if err := arr.RestoreState(blob, tile.DefaultMetrics()); err != nil {
		return nil, fmt.Errorf("restore board: %w", err)
	}
	return arr, nil
}

func runProblems(dir, cmd string, rest []string) error {
	abs, _ := filepath.Abs(dir)
	bank, err := problems.Open(filepath.Join(abs, problems.BankFileName))
	if err != nil {
		return err
	}
	defer bank.Close()
	ctx := context.Background()

	switch cmd {
	case "seed":
		if err := bank.Seed(ctx); err != nil {
			return err
		}
		fmt.Println("Seeded starter problems.")
		return nil
	case "list":
		difficulty := 0
		if len(rest) > 0 {
			difficulty, _ = strconv.Atoi(rest[0])
		}
		list, err := bank.List(ctx, difficulty)
		if err != nil {
			return err
		}
		for _, p := range list {
			fmt.Printf("%4d  [%d] %-20s %s\n", p.ID, p.Difficulty, p.Topic, p.Equation())
		}
		fmt.Printf("%d problem(s)\n", len(list))
		return nil
	case "add":
		if len(rest) < 3 {
			return fmt.Errorf("add requires <a> <b> <c> [difficulty] [topic]")
		}
		a, b, c := atoiCoeffs(rest[0], rest[1], rest[2])
		p := problems.Problem{A: a, B: b, C: c}
		if len(rest) > 3 {
			p.Difficulty, _ = strconv.Atoi(rest[3])
		}
		if len(rest) > 4 {
			p.Topic = rest[4]
		}
		id, err := bank.Add(ctx, p)
		if err != nil {
			return err
		}
		fmt.Printf("Added problem %d: %s\n", id, p.Equation())
		return nil
	case "del":
		if len(rest) < 1 {
			return fmt.Errorf("del requires <id>")
		}
		id, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", rest[0])
		}
		return bank.Delete(ctx, id)
	case "import":
		if len(rest) < 1 {
			return fmt.Errorf("import requires <file.json>")
		}
		data, err := os.ReadFile(rest[0])
		if err != nil {
			return err
		}
		n, err := bank.ImportJSON(ctx, data)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d problem(s).\n", n)
		return nil
	case "export":
		if len(rest) < 1 {
			return fmt.Errorf("export requires <file.json>")
		}
		data, err := bank.ExportJSON(ctx)
		if err != nil {
			return err
		}
		if err := os.WriteFile(rest[0], data, 0o644); err != nil {
			return err
		}
		fmt.Println("Exported problem collection to", rest[0])
		return nil
	}
	return fmt.Errorf("unknown problems subcommand %q", cmd)
}
