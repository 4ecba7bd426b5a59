package window

import (
	"fmt"

	"github.com/Gaurav-Gosain/twin/internal/cell"
	"github.com/Gaurav-Gosain/twin/internal/logging"
)

// PutText writes text in the current style from the drawing cursor, one rune
// per cell. Text past the right edge is dropped; the cursor is left after the
// last column written.
func (w *Window) PutText(text string) {
	c := w.style
	col := w.cursor.Column
	for _, ch := range text {
		if col >= w.geometry.Size.Column {
			break // overflow
		}
		c.Ch = ch
		w.SetCell(w.cursor.Row, col, c)
		col++
	}
	w.cursor.Column = col
}

// Printf formats according to format and writes the result with PutText.
func (w *Window) Printf(format string, args ...any) {
	w.PutText(fmt.Sprintf(format, args...))
}

// HLine draws a horizontal line of length cells starting at (row, col). A
// negative length draws leftwards, ending at col. Cells outside the window
// are skipped.
func (w *Window) HLine(row, col, length int) {
	logging.Debug("hline", "window", w.name, "row", row, "col", col, "length", length)
	start, end, ok := span(col, length)
	if !ok {
		return
	}
	for c := start; c <= end; c++ {
		w.lineCell(row, c, fragment(cell.HorizontalLine, c, start, end))
	}
}

// VLine draws a vertical line of length cells starting at (row, col). A
// negative length draws upwards, ending at row.
func (w *Window) VLine(row, col, length int) {
	logging.Debug("vline", "window", w.name, "row", row, "col", col, "length", length)
	start, end, ok := span(row, length)
	if !ok {
		return
	}
	for r := start; r <= end; r++ {
		w.lineCell(r, col, fragment(cell.VerticalLine, r, start, end))
	}
}

// Box draws a rectangle outline; corners come from merging the lines.
func (w *Window) Box(row, col, height, width int) {
	w.HLine(row, col, width)
	w.VLine(row, col+width-1, height)
	w.HLine(row+height-1, col, width)
	w.VLine(row, col, height)
}

// span returns the inclusive range covered by a line of length cells
// anchored at origin.
func span(origin, length int) (start, end int, ok bool) {
	switch {
	case length > 0:
		return origin, origin + length - 1, true
	case length < 0:
		return origin + length + 1, origin, true
	}
	return 0, 0, false
}

func fragment(f cell.LineFragments, at, start, end int) rune {
	switch at {
	case start:
		return f.Start
	case end:
		return f.End
	}
	return f.Mid
}

// lineCell writes a line-graphic code, OR-ing it into an existing line
// graphic of the same style.
func (w *Window) lineCell(row, col int, code rune) {
	current, ok := w.Cell(row, col)
	if !ok {
		return // clipped
	}
	next := w.style
	next.Attr |= cell.AltCharset
	if current.IsLineGraphic() && cell.SameStyle(current, next) {
		next.Ch = current.Ch | code
	} else {
		next.Ch = code
	}
	w.SetCell(row, col, next)
}
