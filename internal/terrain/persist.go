package terrain

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// maxVoxels guards Load against absurd headers.
const maxVoxels = 1 << 28

// ErrCorrupt reports an unreadable saved store.
var ErrCorrupt = errors.New("terrain: corrupt store data")

// Save writes the dimensions as little-endian int32 followed by the raw
// tile matrix.
func (v *Voxels) Save(w io.Writer) error {
	dims := [3]int32{int32(v.w), int32(v.h), int32(v.d)}
	if err := binary.Write(w, binary.LittleEndian, dims); err != nil {
		return fmt.Errorf("write dimensions: %w", err)
	}
	buf := make([]byte, len(v.tiles))
	for i, t := range v.tiles {
		buf[i] = byte(t)
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write tiles: %w", err)
	}
	return nil
}

// Load replaces the store's dimensions and tiles with data written by Save.
// The mesh is left untouched until the next Regenerate.
func (v *Voxels) Load(r io.Reader) error {
	var dims [3]int32
	if err := binary.Read(r, binary.LittleEndian, &dims); err != nil {
		return fmt.Errorf("read dimensions: %w", err)
	}
	w, h, d := int(dims[0]), int(dims[1]), int(dims[2])
	if w <= 0 || h <= 0 || d <= 0 || int64(w)*int64(h) > maxVoxels/int64(d) {
		return fmt.Errorf("%w: dimensions %dx%dx%d", ErrCorrupt, w, h, d)
	}
	buf := make([]byte, w*h*d)
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("%w: read tiles: %v", ErrCorrupt, err)
	}
	tiles := make([]TileType, len(buf))
	for i, b := range buf {
		tiles[i] = TileType(b)
	}
	v.w, v.h, v.d, v.tiles = w, h, d, tiles
	return nil
}
