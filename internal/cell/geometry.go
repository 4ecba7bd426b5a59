package cell

import "fmt"

// Coordinate is a (row, column) pair. It doubles as a size.
type Coordinate struct {
	Row, Column int
}

// Add returns the component-wise sum of c and o.
func (c Coordinate) Add(o Coordinate) Coordinate {
	return Coordinate{Row: c.Row + o.Row, Column: c.Column + o.Column}
}

// Cells returns the number of cells in a buffer of this size.
func (c Coordinate) Cells() int {
	if c.Row <= 0 || c.Column <= 0 {
		return 0
	}
	return c.Row * c.Column
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Column)
}

// Geometry places a window relative to its parent.
type Geometry struct {
	Position Coordinate
	Size     Coordinate
}

// Contains reports whether (row, col) is a valid cell of a buffer sized g.Size.
func (g Geometry) Contains(row, col int) bool {
	return row >= 0 && row < g.Size.Row && col >= 0 && col < g.Size.Column
}

// Offset returns the index of (row, col) in a row-major buffer.
func (g Geometry) Offset(row, col int) int {
	return row*g.Size.Column + col
}

// Region is an inclusive rectangle of cells.
type Region struct {
	Min, Max Coordinate
}

// NoDamage returns the empty-damage sentinel for a buffer of the given size.
// Its bounds only behave as an empty range because the owner's damage flag,
// not the numbers, is authoritative.
func NoDamage(size Coordinate) Region {
	return Region{Min: size}
}

// Extend grows r to include p.
func (r Region) Extend(p Coordinate) Region {
	r.Min.Row = min(r.Min.Row, p.Row)
	r.Min.Column = min(r.Min.Column, p.Column)
	r.Max.Row = max(r.Max.Row, p.Row)
	r.Max.Column = max(r.Max.Column, p.Column)
	return r
}

// Contains reports whether p lies inside r.
func (r Region) Contains(p Coordinate) bool {
	return p.Row >= r.Min.Row && p.Row <= r.Max.Row &&
		p.Column >= r.Min.Column && p.Column <= r.Max.Column
}

func (r Region) String() string {
	return fmt.Sprintf("min: %v max: %v", r.Min, r.Max)
}
