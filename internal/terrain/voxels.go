package terrain

// Voxels is a dense tile matrix stored z-major, then y, then x.
type Voxels struct {
	w, h, d int
	tiles   []TileType

	autoUpdate bool
	finalize   bool

	mesh        *Mesh
	generations int
}

// NewVoxels allocates an empty w×h×d store with auto-update disabled.
func NewVoxels(w, h, d int) *Voxels {
	w, h, d = max(w, 1), max(h, 1), max(d, 1)
	return &Voxels{w: w, h: h, d: d, tiles: make([]TileType, w*h*d)}
}

// Width returns the x extent.
func (v *Voxels) Width() int { return v.w }

// Height returns the y extent.
func (v *Voxels) Height() int { return v.h }

// Depth returns the z extent.
func (v *Voxels) Depth() int { return v.d }

func (v *Voxels) index(x, y, z int) int { return (z*v.h+y)*v.w + x }

func (v *Voxels) in(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < v.w && y < v.h && z < v.d
}

// Tile returns the tile at (x, y, z), or Empty when out of bounds.
func (v *Voxels) Tile(x, y, z int) TileType {
	if !v.in(x, y, z) {
		return Empty
	}
	return v.tiles[v.index(x, y, z)]
}

// SetTile writes a tile. Out-of-bounds writes are ignored.
func (v *Voxels) SetTile(x, y, z int, t TileType) {
	if !v.in(x, y, z) {
		return
	}
	v.tiles[v.index(x, y, z)] = t
	if v.autoUpdate {
		v.Regenerate()
	}
}

// SurfaceHeight scans the clamped column from the top down.
func (v *Voxels) SurfaceHeight(x, y int) int {
	x = min(max(x, 0), v.w-1)
	y = min(max(y, 0), v.h-1)
	for z := v.d - 1; z >= 0; z-- {
		if v.tiles[v.index(x, y, z)] != Empty {
			return z
		}
	}
	return -1
}

// SetAutoUpdate toggles regeneration on every write.
func (v *Voxels) SetAutoUpdate(enabled bool) { v.autoUpdate = enabled }

// AutoUpdate reports whether writes regenerate the mesh.
func (v *Voxels) AutoUpdate() bool { return v.autoUpdate }

// SetFinalize selects final or preview geometry for the next Regenerate.
func (v *Voxels) SetFinalize(enabled bool) { v.finalize = enabled }

// Regenerate rebuilds the surface mesh, discarding the previous one.
func (v *Voxels) Regenerate() {
	v.mesh = BuildMesh(v, v.finalize)
	v.generations++
}

// Mesh returns the most recent surface mesh, or nil before the first
// regeneration.
func (v *Voxels) Mesh() *Mesh { return v.mesh }

// Generations counts completed regenerations.
func (v *Voxels) Generations() int { return v.generations }

// Clear empties every tile without touching the mesh.
func (v *Voxels) Clear() {
	for i := range v.tiles {
		v.tiles[i] = Empty
	}
}
