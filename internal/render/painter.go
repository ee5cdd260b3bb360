//go:build ebiten

package render

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Painter keeps one ebiten image and refreshes it from RGBA buffers.
type Painter struct {
	w, h int
	img  *ebiten.Image
}

// NewPainter allocates a painter for w×h pixels.
func NewPainter(w, h int) *Painter {
	return &Painter{w: w, h: h, img: ebiten.NewImage(w, h)}
}

// Blit uploads src and draws it scaled onto dst at offset (ox, oy).
// Buffers of the wrong size are ignored.
func (p *Painter) Blit(dst *ebiten.Image, src *image.RGBA, scale int, ox, oy float64) {
	if src.Bounds().Dx() != p.w || src.Bounds().Dy() != p.h {
		return
	}
	p.img.WritePixels(src.Pix)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	op.GeoM.Translate(ox, oy)
	dst.DrawImage(p.img, op)
}
