package ui

import (
	"fmt"
	"time"

	"worldgen/internal/build"
	"worldgen/internal/core"
	"worldgen/internal/heightmap"
	"worldgen/internal/terrain"
)

const maxTimingLines = 8

// statusLines is the text shown in the HUD panel: the effective
// parameters, the calibration outcome and liquid totals, then build progress
// with the most recent timing entries.
func statusLines(params core.ParameterSnapshot, ocean heightmap.Result, liquids *terrain.Liquids, s *build.Session) []string {
	var lines []string
	for _, g := range params.Groups {
		lines = append(lines, g.Name)
		for _, p := range g.Params {
			lines = append(lines, fmt.Sprintf("  %-12s %s", p.Label, p.Value))
		}
	}
	if ocean.Mask != nil {
		lines = append(lines, "",
			fmt.Sprintf("Sea level %.2f", ocean.SeaLevel),
			fmt.Sprintf("Ocean %.1f%% in %d passes", 100*ocean.Fraction, ocean.Passes))
	}
	if liquids != nil && liquids.Len() > 0 {
		var volume float64
		liquids.ForEach(func(_ terrain.Pos, v float32) { volume += float64(v) })
		lines = append(lines, fmt.Sprintf("Liquid %d voxels, volume %.1f", liquids.Len(), volume))
	}
	if s == nil {
		return lines
	}
	done, total := s.Progress()
	lines = append(lines, "", fmt.Sprintf("Build %d/%d (%v)", done, total, s.Status()))
	if err := s.Err(); err != nil {
		lines = append(lines, "  "+err.Error())
	} else if !s.Status().Terminal() && done < total {
		lines = append(lines, "  next: "+s.Stages()[done].Name)
	}
	entries := s.Timings().Entries()
	if len(entries) > maxTimingLines {
		entries = entries[len(entries)-maxTimingLines:]
	}
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("  %-10s %v", e.Label, e.Duration.Round(time.Microsecond)))
	}
	return lines
}
