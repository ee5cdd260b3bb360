package terrain

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrShadowMismatch reports a store that disagrees with its shadow copy.
var ErrShadowMismatch = errors.New("terrain: store diverged from shadow copy")

// Mismatch is one voxel where the wrapped store and the shadow disagree.
type Mismatch struct {
	Pos    Pos
	Store  TileType
	Shadow TileType
}

// Verifier wraps a Store, mirrors every write into a shadow matrix, and
// cross-checks reads against it. It is meant for debug builds.
type Verifier struct {
	Store
	shadow []TileType
	log    *slog.Logger
}

// NewVerifier wraps inner, seeding the shadow from its current tiles.
func NewVerifier(inner Store, log *slog.Logger) *Verifier {
	if log == nil {
		log = slog.Default()
	}
	v := &Verifier{
		Store:  inner,
		shadow: make([]TileType, inner.Width()*inner.Height()*inner.Depth()),
		log:    log,
	}
	for z := 0; z < inner.Depth(); z++ {
		for y := 0; y < inner.Height(); y++ {
			for x := 0; x < inner.Width(); x++ {
				v.shadow[v.index(x, y, z)] = inner.Tile(x, y, z)
			}
		}
	}
	return v
}

func (v *Verifier) index(x, y, z int) int {
	return (z*v.Store.Height()+y)*v.Store.Width() + x
}

func (v *Verifier) in(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < v.Store.Width() && y < v.Store.Height() && z < v.Store.Depth()
}

// SetTile forwards the write and records it in the shadow.
func (v *Verifier) SetTile(x, y, z int, t TileType) {
	v.Store.SetTile(x, y, z, t)
	if !v.in(x, y, z) {
		return
	}
	v.shadow[v.index(x, y, z)] = t
	if got := v.Store.Tile(x, y, z); got != t {
		v.log.Warn("tile write not visible", "x", x, "y", y, "z", z, "want", t, "got", got)
	}
}

// Tile reads from the wrapped store and logs disagreement with the shadow.
func (v *Verifier) Tile(x, y, z int) TileType {
	got := v.Store.Tile(x, y, z)
	if v.in(x, y, z) {
		if want := v.shadow[v.index(x, y, z)]; want != got {
			v.log.Warn("tile read diverged", "x", x, "y", y, "z", z, "shadow", want, "store", got)
		}
	}
	return got
}

// SurfaceHeight answers from the store and checks it against the shadow.
func (v *Verifier) SurfaceHeight(x, y int) int {
	got := v.Store.SurfaceHeight(x, y)
	cx := min(max(x, 0), v.Store.Width()-1)
	cy := min(max(y, 0), v.Store.Height()-1)
	want := -1
	for z := v.Store.Depth() - 1; z >= 0; z-- {
		if v.shadow[v.index(cx, cy, z)] != Empty {
			want = z
			break
		}
	}
	if want != got {
		v.log.Warn("surface height diverged", "x", x, "y", y, "shadow", want, "store", got)
	}
	return got
}

// Diff lists every voxel where the store and the shadow disagree.
func (v *Verifier) Diff() []Mismatch {
	var out []Mismatch
	for z := 0; z < v.Store.Depth(); z++ {
		for y := 0; y < v.Store.Height(); y++ {
			for x := 0; x < v.Store.Width(); x++ {
				got, want := v.Store.Tile(x, y, z), v.shadow[v.index(x, y, z)]
				if got != want {
					out = append(out, Mismatch{Pos: Pos{x, y, z}, Store: got, Shadow: want})
				}
			}
		}
	}
	return out
}

// Check returns ErrShadowMismatch wrapped with a count when Diff is non-empty.
func (v *Verifier) Check() error {
	if diff := v.Diff(); len(diff) > 0 {
		return fmt.Errorf("%w: %d voxels, first at %+v", ErrShadowMismatch, len(diff), diff[0].Pos)
	}
	return nil
}
