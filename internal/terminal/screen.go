package terminal

import (
	"strings"

	"github.com/Gaurav-Gosain/twin/internal/cell"
)

// Screen mirrors what the device is believed to show: the last emitted cell
// at every position, plus the cursor and style the device was last left in.
// A stale cell is re-emitted on the next sync even when it matches.
type Screen struct {
	geometry cell.Geometry
	cells    []cell.Cell
	stale    []bool

	cursor      cell.Coordinate
	cursorKnown bool
	style       cell.Cell
	styleKnown  bool
}

func newScreen(size cell.Coordinate) *Screen {
	s := &Screen{
		geometry: cell.Geometry{Size: size},
		cells:    make([]cell.Cell, size.Cells()),
		stale:    make([]bool, size.Cells()),
		// The soft reset in the open sequence leaves the default rendition.
		style:      cell.Blank,
		styleKnown: true,
	}
	s.reset()
	return s
}

// Size returns the mirror's size in rows and columns.
func (s *Screen) Size() cell.Coordinate { return s.geometry.Size }

// Cell returns the last cell emitted at (row, col).
func (s *Screen) Cell(row, col int) (cell.Cell, bool) {
	if !s.geometry.Contains(row, col) {
		return cell.Cell{}, false
	}
	return s.cells[s.geometry.Offset(row, col)], true
}

// Stale reports whether (row, col) must be re-emitted regardless of its value.
func (s *Screen) Stale(row, col int) bool {
	if !s.geometry.Contains(row, col) {
		return false
	}
	return s.stale[s.geometry.Offset(row, col)]
}

// Cursor returns the device cursor position, if known.
func (s *Screen) Cursor() (cell.Coordinate, bool) { return s.cursor, s.cursorKnown }

// Style returns the device rendition, if known.
func (s *Screen) Style() (cell.Cell, bool) { return s.style, s.styleKnown }

// Dump returns the mirror as text rows, as Window.Dump does.
func (s *Screen) Dump() []string {
	size := s.geometry.Size
	rows := make([]string, 0, size.Row)
	var sb strings.Builder
	for r := 0; r < size.Row; r++ {
		sb.Reset()
		for c := 0; c < size.Column; c++ {
			sb.WriteRune(s.cells[s.geometry.Offset(r, c)].Preview())
		}
		rows = append(rows, sb.String())
	}
	return rows
}

// current reports whether the device already shows c at offset.
func (s *Screen) current(offset int, c cell.Cell) bool {
	return !s.stale[offset] && s.cells[offset] == c
}

// put records c as emitted at offset.
func (s *Screen) put(offset int, c cell.Cell) {
	s.cells[offset] = c
	s.stale[offset] = false
}

// reset records a cleared device.
func (s *Screen) reset() {
	for i := range s.cells {
		s.cells[i] = cell.Blank
		s.stale[i] = false
	}
}

// forget drops cursor and style knowledge after a failed write.
func (s *Screen) forget() {
	s.cursorKnown = false
	s.styleKnown = false
}

func (s *Screen) markStale(offsets []int) {
	for _, o := range offsets {
		s.stale[o] = true
	}
}

func (s *Screen) markAllStale() {
	for i := range s.stale {
		s.stale[i] = true
	}
}
