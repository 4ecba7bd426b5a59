// Package vt replays twin's terminal output into a cell grid. It understands
// the subset of ANSI the terminal driver emits: cursor positioning, erase
// display, SGR attributes and palette colours, and the DEC special graphics
// set selected with shift-out and shift-in.
package vt

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/ansi/parser"

	"github.com/Gaurav-Gosain/twin/internal/cell"
	"github.com/Gaurav-Gosain/twin/internal/terminal"
)

// Emulator is a minimal virtual terminal. Writes past the right edge are
// dropped rather than wrapped, matching how the driver tracks its cursor.
type Emulator struct {
	size    cell.Coordinate
	cells   []cell.Cell
	cursor  cell.Coordinate
	pen     cell.Cell // colours and attributes, without the character set
	shifted bool      // G1 (DEC graphics) invoked by SO

	altScreen bool
	printed   int // cells written since creation
	unknown   int // sequences that were ignored

	parser *ansi.Parser
}

// NewEmulator creates a new virtual terminal emulator.
func NewEmulator(rows, cols int) *Emulator {
	e := &Emulator{
		size:  cell.Coordinate{Row: rows, Column: cols},
		cells: make([]cell.Cell, cell.Coordinate{Row: rows, Column: cols}.Cells()),
		pen:   cell.Blank,
	}
	e.eraseDisplay()
	e.parser = ansi.NewParser()
	e.parser.SetParamsSize(parser.MaxParamsSize)
	e.parser.SetHandler(ansi.Handler{
		Print:     e.handlePrint,
		Execute:   e.handleControl,
		HandleCsi: e.handleCsi,
		HandleEsc: e.handleEsc,
	})
	return e
}

// Write feeds terminal output to the emulator.
func (e *Emulator) Write(p []byte) (int, error) {
	for _, b := range p {
		e.parser.Advance(b)
	}
	return len(p), nil
}

// WriteString writes a string to the terminal output buffer.
func (e *Emulator) WriteString(s string) (int, error) {
	return e.Write([]byte(s))
}

// Size returns the screen size in rows and columns.
func (e *Emulator) Size() cell.Coordinate { return e.size }

// Cell returns the cell at (row, col).
func (e *Emulator) Cell(row, col int) (cell.Cell, bool) {
	if row < 0 || row >= e.size.Row || col < 0 || col >= e.size.Column {
		return cell.Cell{}, false
	}
	return e.cells[row*e.size.Column+col], true
}

// CursorPosition returns the cursor position.
func (e *Emulator) CursorPosition() cell.Coordinate { return e.cursor }

// IsAltScreen reports whether the alternate screen is active.
func (e *Emulator) IsAltScreen() bool { return e.altScreen }

// Printed returns the number of cells written.
func (e *Emulator) Printed() int { return e.printed }

// Ignored returns the number of sequences the emulator did not understand.
func (e *Emulator) Ignored() int { return e.unknown }

// Dump returns the screen as text rows, with line graphics shown as
// box-drawing characters.
func (e *Emulator) Dump() []string {
	rows := make([]string, 0, e.size.Row)
	var sb strings.Builder
	for r := range e.size.Row {
		sb.Reset()
		for c := range e.size.Column {
			sb.WriteRune(e.cells[r*e.size.Column+c].Preview())
		}
		rows = append(rows, sb.String())
	}
	return rows
}

// String returns the screen as text, one line per row.
func (e *Emulator) String() string {
	return strings.Join(e.Dump(), "\n")
}

func (e *Emulator) eraseDisplay() {
	for i := range e.cells {
		e.cells[i] = cell.Blank
	}
}

// decGraphics maps DEC special graphics characters back to line-graphic
// codes. Characters drawn by several codes resolve to the canonical one.
var decGraphics = func() map[rune]rune {
	m := map[rune]rune{}
	for code := cell.LineCodes - 1; code >= 0; code-- {
		m[rune(terminal.DECGlyph(rune(code)))] = rune(code)
	}
	// Prefer full runs over the half-segment codes sharing their glyph.
	m['q'] = cell.LineLeft | cell.LineRight
	m['x'] = cell.LineUp | cell.LineDown
	return m
}()

func (e *Emulator) handlePrint(r rune) {
	c := e.pen
	c.Ch = r
	if e.shifted {
		c.Attr |= cell.AltCharset
		if code, ok := decGraphics[r]; ok {
			c.Ch = code
		}
	}
	if e.cursor.Row >= 0 && e.cursor.Row < e.size.Row &&
		e.cursor.Column >= 0 && e.cursor.Column < e.size.Column {
		e.cells[e.cursor.Row*e.size.Column+e.cursor.Column] = c
		e.printed++
	}
	e.cursor.Column++
}

func (e *Emulator) handleControl(b byte) {
	switch b {
	case ansi.SO:
		e.shifted = true
	case ansi.SI:
		e.shifted = false
	case ansi.CR:
		e.cursor.Column = 0
	case ansi.LF:
		e.cursor.Row++
	case ansi.BS:
		if e.cursor.Column > 0 {
			e.cursor.Column--
		}
	}
}

func (e *Emulator) handleEsc(cmd ansi.Cmd) {
	switch {
	case cmd.Intermediate() == ')' && cmd.Final() == '0':
		// G1 = DEC special graphics; SO/SI select it.
	case cmd.Final() == '>' || cmd.Final() == '=':
		// Keypad mode.
	default:
		e.unknown++
	}
}

func (e *Emulator) handleCsi(cmd ansi.Cmd, params ansi.Params) {
	switch {
	case cmd.Prefix() == 0 && cmd.Intermediate() == 0 && cmd.Final() == 'H':
		row, _, _ := params.Param(0, 1)
		col, _, _ := params.Param(1, 1)
		e.cursor = cell.Coordinate{Row: max(row, 1) - 1, Column: max(col, 1) - 1}
	case cmd.Prefix() == 0 && cmd.Intermediate() == 0 && cmd.Final() == 'J':
		if n, _, _ := params.Param(0, 0); n == 2 {
			e.eraseDisplay()
		} else {
			e.unknown++
		}
	case cmd.Prefix() == 0 && cmd.Intermediate() == 0 && cmd.Final() == 'm':
		e.handleSgr(params)
	case cmd.Prefix() == '?' && (cmd.Final() == 'h' || cmd.Final() == 'l'):
		for i := range len(params) {
			if n, _, _ := params.Param(i, 0); n == 1049 || n == 1047 {
				e.altScreen = cmd.Final() == 'h'
			}
		}
	case cmd.Intermediate() == '!' && cmd.Final() == 'p':
		// Soft reset.
		e.pen = cell.Blank
		e.shifted = false
	case cmd.Final() == 'l' || cmd.Final() == 'h':
		// ANSI modes (insert/replace).
	default:
		e.unknown++
	}
}
