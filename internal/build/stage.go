package build

import (
	"errors"
	"fmt"
	"math"

	"worldgen/internal/terrain"
	"worldgen/internal/transform"
)

// ErrBadArgs reports stage arguments that do not fit the operation.
var ErrBadArgs = errors.New("build: bad stage arguments")

// Op names one Terrain Transform Service operation.
type Op int

const (
	OpAddLayer Op = iota + 1
	OpCompositeLayer
	OpShear
	OpRiverbeds
	OpAverage
	OpFillOcean
)

var opNames = map[Op]string{
	OpAddLayer:       "add_layer",
	OpCompositeLayer: "composite_layer",
	OpShear:          "shear",
	OpRiverbeds:      "generate_riverbeds",
	OpAverage:        "average",
	OpFillOcean:      "fill_ocean",
}

func (o Op) String() string {
	if n, ok := opNames[o]; ok {
		return n
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// ParseOp maps an operation name back to its Op.
func ParseOp(name string) (Op, error) {
	for op, n := range opNames {
		if n == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown operation %q", ErrBadArgs, name)
}

// Stage is one named transform step. Args are passed positionally to the
// operation named by Op.
type Stage struct {
	Name  string
	Op    Op
	Final bool
	Args  []any
}

// AddLayer builds a stage stacking a noise layer of tile.
func AddLayer(tile terrain.TileType, low, high, scale, persistence float64) Stage {
	return Stage{Name: OpAddLayer.String(), Op: OpAddLayer, Args: []any{tile, low, high, scale, persistence}}
}

// CompositeLayer builds a stage replacing existing tiles below a noise
// boundary.
func CompositeLayer(tile terrain.TileType, low, high, scale, persistence float64) Stage {
	return Stage{Name: OpCompositeLayer.String(), Op: OpCompositeLayer, Args: []any{tile, low, high, scale, persistence}}
}

// Shear builds a stage shearing the terrain along two axes.
func Shear(magnitude float64, axisA, axisB int) Stage {
	return Stage{Name: OpShear.String(), Op: OpShear, Args: []any{magnitude, axisA, axisB}}
}

// Riverbeds builds a stage carving riverbeds lined with tile.
func Riverbeds(tile terrain.TileType) Stage {
	return Stage{Name: OpRiverbeds.String(), Op: OpRiverbeds, Args: []any{tile}}
}

// Average builds a stage smoothing surface heights passes times.
func Average(passes int) Stage {
	return Stage{Name: OpAverage.String(), Op: OpAverage, Args: []any{passes}}
}

// FillOcean builds a stage flooding the map into liquids.
func FillOcean(liquids transform.LiquidManager) Stage {
	return Stage{Name: OpFillOcean.String(), Op: OpFillOcean, Args: []any{liquids}}
}

// Named returns a copy of s with a new display name.
func (s Stage) Named(name string) Stage {
	s.Name = name
	return s
}

// AsFinal returns a copy of s marked as producing final geometry.
func (s Stage) AsFinal() Stage {
	s.Final = true
	return s
}

// Validate checks that Args fit Op without running anything.
func (s Stage) Validate() error {
	_, err := bind(s)
	return err
}

type call func(svc transform.Service, t terrain.Store) error

// bind type-checks the stage arguments and returns the operation call.
func bind(s Stage) (call, error) {
	want := map[Op]int{
		OpAddLayer: 5, OpCompositeLayer: 5, OpShear: 3,
		OpRiverbeds: 1, OpAverage: 1, OpFillOcean: 1,
	}
	n, ok := want[s.Op]
	if !ok {
		return nil, fmt.Errorf("%w: unknown operation %v", ErrBadArgs, s.Op)
	}
	if len(s.Args) != n {
		return nil, fmt.Errorf("%w: %v takes %d arguments, got %d", ErrBadArgs, s.Op, n, len(s.Args))
	}
	a := argReader{args: s.Args}

	switch s.Op {
	case OpAddLayer, OpCompositeLayer:
		tile := a.tile()
		low, high, scale, persistence := a.float(), a.float(), a.float(), a.float()
		if a.err != nil {
			return nil, a.err
		}
		if s.Op == OpAddLayer {
			return func(svc transform.Service, t terrain.Store) error {
				return svc.AddLayer(t, tile, low, high, scale, persistence)
			}, nil
		}
		return func(svc transform.Service, t terrain.Store) error {
			return svc.CompositeLayer(t, tile, low, high, scale, persistence)
		}, nil
	case OpShear:
		magnitude, axisA, axisB := a.float(), a.int(), a.int()
		if a.err != nil {
			return nil, a.err
		}
		return func(svc transform.Service, t terrain.Store) error {
			return svc.Shear(t, magnitude, axisA, axisB)
		}, nil
	case OpRiverbeds:
		tile := a.tile()
		if a.err != nil {
			return nil, a.err
		}
		return func(svc transform.Service, t terrain.Store) error {
			return svc.GenerateRiverbeds(t, tile)
		}, nil
	case OpAverage:
		passes := a.int()
		if a.err != nil {
			return nil, a.err
		}
		return func(svc transform.Service, t terrain.Store) error {
			return svc.Average(t, passes)
		}, nil
	default:
		liquids, ok := s.Args[0].(transform.LiquidManager)
		if !ok || liquids == nil {
			return nil, fmt.Errorf("%w: argument 0 is %T, want a liquid manager", ErrBadArgs, s.Args[0])
		}
		return func(svc transform.Service, t terrain.Store) error {
			return svc.FillOcean(t, liquids)
		}, nil
	}
}

// argReader pulls typed positional arguments, keeping the first error.
// Numbers decoded from JSON arrive as float64 and are accepted for integer
// parameters when they hold an integral value.
type argReader struct {
	args []any
	pos  int
	err  error
}

func (a *argReader) next() (any, int) {
	i := a.pos
	a.pos++
	return a.args[i], i
}

func (a *argReader) fail(i int, v any, want string) {
	if a.err == nil {
		a.err = fmt.Errorf("%w: argument %d is %T(%v), want %s", ErrBadArgs, i, v, v, want)
	}
}

func (a *argReader) float() float64 {
	v, i := a.next()
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	a.fail(i, v, "float64")
	return 0
}

func (a *argReader) int() int {
	v, i := a.next()
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			return int(n)
		}
	}
	a.fail(i, v, "int")
	return 0
}

func (a *argReader) tile() terrain.TileType {
	v, i := a.next()
	var n float64
	switch t := v.(type) {
	case terrain.TileType:
		return t
	case int:
		n = float64(t)
	case float64:
		n = t
	default:
		a.fail(i, v, "tile type")
		return 0
	}
	if n != math.Trunc(n) || n < 0 || n > math.MaxUint8 {
		a.fail(i, v, "tile type")
		return 0
	}
	return terrain.TileType(n)
}
