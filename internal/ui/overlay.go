//go:build ebiten

package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"worldgen/internal/heightmap"
	"worldgen/internal/terrain"
)

// Overlay draws optional debugging visuals on top of the two map views.
type Overlay struct {
	scale     int
	showOcean bool
	showElev  bool

	maskImg *ebiten.Image
	maskBuf []byte

	elevationImg *ebiten.Image
	elevationBuf []byte
}

// NewOverlay constructs a new overlay instance. The ocean tint starts on.
func NewOverlay(scale int) *Overlay {
	return &Overlay{scale: max(scale, 1), showOcean: true}
}

// Update toggles layers: 1 ocean mask, 2 surface elevation.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showOcean = !o.showOcean
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showElev = !o.showElev
	}
}

// DrawOcean tints the ocean cells of m over the heightmap view at (ox, oy).
func (o *Overlay) DrawOcean(screen *ebiten.Image, m *heightmap.Mask, ox, oy float64) {
	if !o.showOcean || m == nil {
		return
	}
	n := m.Size()
	if o.maskImg == nil || o.maskImg.Bounds().Dx() != n {
		o.maskImg = ebiten.NewImage(n, n)
		o.maskBuf = make([]byte, 4*n*n)
	}
	fillMaskRGBA(o.maskBuf, m, oceanTint)
	o.maskImg.WritePixels(o.maskBuf)
	o.blit(screen, o.maskImg, ox, oy)
}

// DrawElevation colors the surface view at (ox, oy) by column height.
func (o *Overlay) DrawElevation(screen *ebiten.Image, s terrain.Store, ox, oy float64) {
	if !o.showElev {
		return
	}
	w, h := s.Width(), s.Height()
	if o.elevationImg == nil || o.elevationImg.Bounds().Dx() != w || o.elevationImg.Bounds().Dy() != h {
		o.elevationImg = ebiten.NewImage(w, h)
		o.elevationBuf = make([]byte, 4*w*h)
	}
	fillElevationRGBA(o.elevationBuf, s)
	o.elevationImg.WritePixels(o.elevationBuf)
	o.blit(screen, o.elevationImg, ox, oy)
}

func (o *Overlay) blit(screen, img *ebiten.Image, ox, oy float64) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(o.scale), float64(o.scale))
	op.GeoM.Translate(ox, oy)
	screen.DrawImage(img, op)
}
