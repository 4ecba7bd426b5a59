// Package window implements text windows: rectangular cell buffers that track
// damage, expose drawing primitives, and compose into their ancestors.
package window

import (
	"strings"

	"github.com/Gaurav-Gosain/twin/internal/cell"
)

// State is a set of window state flags.
type State uint8

const (
	// Damaged means the damage region holds cells changed since the last reset.
	Damaged State = 1 << iota
	// Visible windows take part in composition.
	Visible
)

// Window is a node in a Tree owning one cell buffer.
// Windows are not safe for concurrent use.
type Window struct {
	handle   Handle
	name     string
	geometry cell.Geometry
	damage   cell.Region // only meaningful while state&Damaged
	cursor   cell.Coordinate
	style    cell.Cell
	state    State
	frame    []cell.Cell

	parent  Handle
	child   Handle
	sibling Handle
}

func newWindow(name string, position, size cell.Coordinate) *Window {
	w := &Window{
		name:     name,
		geometry: cell.Geometry{Position: position, Size: size},
		style:    cell.Blank,
		state:    Visible,
		frame:    make([]cell.Cell, size.Cells()),
		parent:   NoWindow,
		child:    NoWindow,
		sibling:  NoWindow,
	}
	w.ResetDamage()
	w.Clear()
	return w
}

// Handle returns the window's handle in its tree.
func (w *Window) Handle() Handle { return w.handle }

// Name returns the window's name.
func (w *Window) Name() string { return w.name }

// Geometry returns the position (relative to the parent) and size.
func (w *Window) Geometry() cell.Geometry { return w.geometry }

// Position returns the window's offset within its parent.
func (w *Window) Position() cell.Coordinate { return w.geometry.Position }

// Size returns the window's size in rows and columns.
func (w *Window) Size() cell.Coordinate { return w.geometry.Size }

// Visible reports whether the window takes part in composition.
func (w *Window) Visible() bool { return w.state&Visible != 0 }

// SetVisible shows or hides the window and its subtree.
func (w *Window) SetVisible(visible bool) {
	if visible {
		w.state |= Visible
	} else {
		w.state &^= Visible
	}
}

// Damaged reports whether the window has cells changed since the last reset.
func (w *Window) Damaged() bool { return w.state&Damaged != 0 }

// Damage returns the damage rectangle. The rectangle is only valid when ok.
func (w *Window) Damage() (region cell.Region, ok bool) {
	if !w.Damaged() {
		return cell.Region{}, false
	}
	return w.damage, true
}

// ResetDamage marks the window clean. Only renderers call this, once the
// damaged cells have been consumed.
func (w *Window) ResetDamage() {
	w.damage = cell.NoDamage(w.geometry.Size)
	w.state &^= Damaged
}

// Invalidate marks every cell as damaged.
func (w *Window) Invalidate() {
	size := w.geometry.Size
	if size.Cells() == 0 {
		return
	}
	w.damage = cell.Region{Max: cell.Coordinate{Row: size.Row - 1, Column: size.Column - 1}}
	w.state |= Damaged
}

// MoveCursor sets the drawing cursor used by PutText.
func (w *Window) MoveCursor(row, col int) {
	w.cursor = cell.Coordinate{Row: row, Column: col}
}

// Cursor returns the drawing cursor.
func (w *Window) Cursor() cell.Coordinate { return w.cursor }

// SetStyle sets the template cell for subsequent writes.
func (w *Window) SetStyle(style cell.Cell) { w.style = style }

// Style returns the current style template.
func (w *Window) Style() cell.Cell { return w.style }

// Cell returns the cell at (row, col).
func (w *Window) Cell(row, col int) (cell.Cell, bool) {
	if !w.geometry.Contains(row, col) {
		return cell.Cell{}, false
	}
	return w.frame[w.geometry.Offset(row, col)], true
}

// SetCell writes c at (row, col) and extends the damage region when the
// value changes. It returns false, without writing, when (row, col) is
// outside the window.
func (w *Window) SetCell(row, col int, c cell.Cell) bool {
	if !w.geometry.Contains(row, col) {
		return false
	}
	offset := w.geometry.Offset(row, col)
	if w.frame[offset] == c {
		return true
	}
	w.frame[offset] = c
	p := cell.Coordinate{Row: row, Column: col}
	if w.Damaged() {
		w.damage = w.damage.Extend(p)
	} else {
		w.damage = cell.Region{Min: p, Max: p}
		w.state |= Damaged
	}
	return true
}

// Clear fills the buffer with blank cells. Damage is left alone: Clear
// initialises a buffer, it does not draw. Call Invalidate to repaint.
func (w *Window) Clear() {
	for i := range w.frame {
		w.frame[i] = cell.Blank
	}
}

// Dump returns the buffer as text, one string per row, with line graphics
// shown as box-drawing characters.
func (w *Window) Dump() []string {
	size := w.geometry.Size
	rows := make([]string, 0, max(size.Row, 0))
	var sb strings.Builder
	for r := 0; r < size.Row; r++ {
		sb.Reset()
		for c := 0; c < size.Column; c++ {
			sb.WriteRune(w.frame[w.geometry.Offset(r, c)].Preview())
		}
		rows = append(rows, sb.String())
	}
	return rows
}

// release drops the buffer; the window can no longer hold cells.
func (w *Window) release() {
	w.frame = nil
	w.geometry.Size = cell.Coordinate{}
	w.parent, w.child, w.sibling = NoWindow, NoWindow, NoWindow
	w.ResetDamage()
}
