// Package terrain holds the voxel terrain a build session shapes.
package terrain

// TileType identifies the material of one voxel. Empty marks air.
type TileType uint8

// Empty is the tile type of an unfilled voxel.
const Empty TileType = 0

// Store is a 3D tile grid with a derived surface representation. Writers
// should disable auto-update while making many changes and call Regenerate
// once they are done.
type Store interface {
	Width() int
	Height() int
	Depth() int

	Tile(x, y, z int) TileType
	SetTile(x, y, z int, t TileType)

	// SurfaceHeight returns the highest filled z of the column at (x, y),
	// clamping the coordinates into range, or -1 for an empty column.
	SurfaceHeight(x, y int) int

	// SetAutoUpdate toggles regeneration on every SetTile.
	SetAutoUpdate(enabled bool)
	// SetFinalize selects whether the next regeneration produces final
	// geometry (with normals) or a cheap preview.
	SetFinalize(enabled bool)
	// Regenerate rebuilds the derived representation from the tiles.
	Regenerate()
}
