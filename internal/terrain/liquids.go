package terrain

// Pos addresses one voxel.
type Pos struct {
	X, Y, Z int
}

// Liquids is a sparse map of liquid volumes in [0, 1] keyed by voxel.
type Liquids struct {
	cells map[Pos]float32
}

// NewLiquids returns an empty liquid map.
func NewLiquids() *Liquids {
	return &Liquids{cells: make(map[Pos]float32)}
}

// SetLiquid stores a volume at (x, y, z); zero removes the entry.
func (l *Liquids) SetLiquid(x, y, z int, volume float32) {
	p := Pos{x, y, z}
	if volume <= 0 {
		delete(l.cells, p)
		return
	}
	l.cells[p] = min(volume, 1)
}

// Liquid returns the volume at (x, y, z).
func (l *Liquids) Liquid(x, y, z int) float32 { return l.cells[Pos{x, y, z}] }

// Len counts voxels holding liquid.
func (l *Liquids) Len() int { return len(l.cells) }

// ForEach calls fn for every liquid voxel in unspecified order.
func (l *Liquids) ForEach(fn func(p Pos, volume float32)) {
	for p, v := range l.cells {
		fn(p, v)
	}
}
