package ui

import (
	"image/color"
	"math"

	"worldgen/internal/heightmap"
	"worldgen/internal/terrain"
)

var oceanTint = color.RGBA{R: 64, G: 164, B: 223, A: 0}

const maskAlpha = 140

// fillMaskRGBA paints ocean cells of m with a translucent tint and leaves
// land transparent.
func fillMaskRGBA(buf []byte, m *heightmap.Mask, tint color.RGBA) {
	n := m.Size()
	for i := 0; i < n*n; i++ {
		base := i * 4
		if !m.Ocean(i%n, i/n) {
			buf[base+0], buf[base+1], buf[base+2], buf[base+3] = 0, 0, 0, 0
			continue
		}
		buf[base+0] = tint.R
		buf[base+1] = tint.G
		buf[base+2] = tint.B
		buf[base+3] = maskAlpha
	}
}

// fillElevationRGBA colors every column of s by its surface height relative
// to the store depth. Empty columns stay transparent.
func fillElevationRGBA(buf []byte, s terrain.Store) {
	w, h, d := s.Width(), s.Height(), s.Depth()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			base := (y*w + x) * 4
			z := s.SurfaceHeight(x, y)
			if z < 0 {
				buf[base+0], buf[base+1], buf[base+2], buf[base+3] = 0, 0, 0, 0
				continue
			}
			c := elevationColor(float64(z) / float64(max(d-1, 1)))
			buf[base+0], buf[base+1], buf[base+2], buf[base+3] = c.R, c.G, c.B, c.A
		}
	}
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

func elevationColor(t float64) color.RGBA {
	t = clamp01(t)
	stops := []struct {
		t   float64
		col color.RGBA
	}{
		{0.0, color.RGBA{R: 40, G: 60, B: 120, A: 150}},
		{0.25, color.RGBA{R: 70, G: 105, B: 160, A: 165}},
		{0.5, color.RGBA{R: 90, G: 150, B: 100, A: 185}},
		{0.75, color.RGBA{R: 190, G: 160, B: 80, A: 205}},
		{1.0, color.RGBA{R: 240, G: 235, B: 215, A: 215}},
	}
	for i := 1; i < len(stops); i++ {
		curr := stops[i]
		if t <= curr.t {
			prev := stops[i-1]
			span := curr.t - prev.t
			var local float64
			if span > 0 {
				local = (t - prev.t) / span
			}
			return lerpRGBA(prev.col, curr.col, clamp01(local))
		}
	}
	return stops[len(stops)-1].col
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	t = clamp01(t)
	return color.RGBA{
		R: lerpComponent(a.R, b.R, t),
		G: lerpComponent(a.G, b.G, t),
		B: lerpComponent(a.B, b.B, t),
		A: lerpComponent(a.A, b.A, t),
	}
}

func lerpComponent(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}
