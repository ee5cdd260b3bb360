package core

// Size describes the dimensions of a grid.
type Size struct {
	W int
	H int
}

// Stepper is anything advanced one cooperative unit of work at a time, such
// as a terrain build session driven once per frame.
type Stepper interface {
	// Advance runs one unit of work and reports whether nothing remains.
	Advance() (done bool, err error)
}
