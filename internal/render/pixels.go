// Package render turns heightmaps and terrain surfaces into RGBA pixel
// buffers for display. It never encodes images.
package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"worldgen/internal/heightmap"
	"worldgen/internal/terrain"
)

// shade maps v linearly from [lo, hi] to [0, 255]. A flat range maps to 0.
func shade(v, lo, hi float64) uint8 {
	if hi <= lo {
		return 0
	}
	s := (v - lo) / (hi - lo) * 255
	return uint8(min(max(s, 0), 255))
}

// fillHeightRGBA converts elevations into RGBA pixels in buf. Land cells are
// gray; ocean cells carry their intensity in the blue channel only.
func fillHeightRGBA(buf []byte, cells []float64, ocean func(i int) bool, lo, hi float64) {
	for i, v := range cells {
		base := i * 4
		s := shade(v, lo, hi)
		if ocean != nil && ocean(i) {
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = s
		} else {
			buf[base+0] = s
			buf[base+1] = s
			buf[base+2] = s
		}
		buf[base+3] = 0xff
	}
}

// Heightmap renders g as a size×size image, pixel (x, y) showing cell
// (x, y). m may be nil to draw everything as land.
func Heightmap(g *heightmap.Grid, m *heightmap.Mask) *image.RGBA {
	n := g.Size()
	img := image.NewRGBA(image.Rect(0, 0, n, n))
	var ocean func(i int) bool
	if m != nil {
		ocean = func(i int) bool { return m.Ocean(i%n, i/n) }
	}
	fillHeightRGBA(img.Pix, g.Cells(), ocean, g.Min(), g.Max())
	return img
}

// Palette colors surface pixels by the tile on top of each column.
// Entries past the end reuse the last color.
var Palette = []color.RGBA{
	{0, 0, 0, 0xff},
	{0x8a, 0x7f, 0x72, 0xff},
	{0x5b, 0x8c, 0x3e, 0xff},
	{0xc2, 0xb2, 0x80, 0xff},
}

// fillSurfaceRGBA paints one pixel per column from its top tile, darkened
// by depth. Empty columns use palette[0].
func fillSurfaceRGBA(buf []byte, heights []int, tops []terrain.TileType, depth int, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf)
		return
	}
	last := len(palette) - 1
	for i, h := range heights {
		base := i * 4
		col := palette[0]
		if h >= 0 {
			col = palette[min(int(tops[i]), last)]
		}
		k := 0.4 + 0.6*float64(h+1)/float64(max(depth, 1))
		buf[base+0] = uint8(float64(col.R) * k)
		buf[base+1] = uint8(float64(col.G) * k)
		buf[base+2] = uint8(float64(col.B) * k)
		buf[base+3] = col.A
	}
}

// Surface renders the current surface of s as a width×height image. It
// reads the store only and may be called between build steps.
func Surface(s terrain.Store) *image.RGBA {
	w, h := s.Width(), s.Height()
	heights := make([]int, w*h)
	tops := make([]terrain.TileType, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			z := s.SurfaceHeight(x, y)
			heights[y*w+x] = z
			if z >= 0 {
				tops[y*w+x] = s.Tile(x, y, z)
			}
		}
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillSurfaceRGBA(img.Pix, heights, tops, s.Depth(), Palette)
	return img
}

// Scale enlarges src by an integer factor with nearest-neighbor sampling.
func Scale(src image.Image, factor int) *image.RGBA {
	factor = max(factor, 1)
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
