//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"worldgen/internal/build"
	"worldgen/internal/core"
	"worldgen/internal/heightmap"
	"worldgen/internal/terrain"
)

// HUD renders the status panel to the right of the map views.
type HUD struct {
	width      int
	panel      *ebiten.Image
	lastHeight int
	lines      []string
}

// NewHUD constructs a HUD with the given panel width.
func NewHUD(width int) *HUD {
	return &HUD{width: max(width, 0)}
}

// Update refreshes the panel text.
func (h *HUD) Update(params core.ParameterSnapshot, ocean heightmap.Result, liquids *terrain.Liquids, s *build.Session) {
	if h == nil {
		return
	}
	h.lines = statusLines(params, ocean, liquids, s)
}

// Draw paints the panel at offsetX, height pixels tall.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})

	face := basicfont.Face7x13
	fg := color.RGBA{R: 220, G: 220, B: 230, A: 255}
	y := panelPadding + headerBaseline
	for _, line := range h.lines {
		if y > height-panelPadding {
			break
		}
		text.Draw(h.panel, line, face, panelPadding, y, fg)
		y += lineHeight
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

const (
	panelPadding   = 12
	lineHeight     = 16
	headerBaseline = 12
)
