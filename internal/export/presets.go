/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"algebratiles/internal/tile"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb       PresetName = "web"       // SVG + PNG, no labels
	PresetWorksheet PresetName = "worksheet" // PDF + PNG with labels for handouts
)

// BatchOptions controls exporting one board into multiple formats at once.
//
// Path semantics:
//   - OutDir is created if missing; empty falls back to the preset name.
//   - Outputs are named board.(svg|png|pdf) inside OutDir.
type BatchOptions struct {
	Preset        PresetName
	Formats       []string // allowed: pdf, png, svg; empty means preset defaults
	IncludeLabels *bool    // when set, overrides the preset's default
	Title         string
	OutDir        string
}

// BatchExport renders the arrangement into every requested format.
func BatchExport(arr *tile.Arrangement, opt BatchOptions) error {
	if arr == nil {
		return fmt.Errorf("arrangement is nil")
	}

	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	for i := range formats {
		formats[i] = strings.ToLower(strings.TrimSpace(formats[i]))
	}

	baseOut := opt.OutDir
	if baseOut == "" {
		baseOut = string(opt.Preset)
	}

	labels := presetIncludeLabels(opt.Preset)
	if opt.IncludeLabels != nil {
		labels = *opt.IncludeLabels
	}
	base := Options{IncludeLabels: labels, Title: opt.Title}

	for _, f := range formats {
		switch f {
		case "pdf":
			if err := ExportPDF(arr, filepath.Join(baseOut, "board.pdf"), base); err != nil {
				return fmt.Errorf("pdf: %w", err)
			}
		case "png":
			if err := ExportPNG(arr, filepath.Join(baseOut, "board.png"), base); err != nil {
				return fmt.Errorf("png: %w", err)
			}
		case "svg":
			if err := ExportSVG(arr, filepath.Join(baseOut, "board.svg"), base); err != nil {
				return fmt.Errorf("svg: %w", err)
			}
		default:
			return fmt.Errorf("unknown format: %s", f)
		}
	}
	return nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetWeb:
		return []string{"svg", "png"}
	case PresetWorksheet:
		return []string{"pdf", "png"}
	default:
		return []string{"svg"}
	}
}

func presetIncludeLabels(p PresetName) bool {
	switch p {
	case PresetWeb:
		return false
	default:
		return true
	}
}
