package terminal

import (
	"bufio"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// lineGlyphs maps each line-graphic code to its DEC special graphics
// character, printed while shifted out to G1.
const lineGlyphs = "~xqmxxltqjqvkuwn"

// DECGlyph returns the DEC special graphics character that draws the
// line-graphic code, or 0 for a code out of range.
func DECGlyph(code rune) byte {
	if code < 0 || int(code) >= len(lineGlyphs) {
		return 0
	}
	return lineGlyphs[code]
}

// sequences holds the control strings the driver emits. The readable variant
// spells the control characters out for debugging.
type sequences struct {
	esc string
	so  string
	si  string

	open  string // soft reset, no 132-column / smooth scroll, replace mode, normal keypad, G1 = DEC graphics, alternate screen
	close string // back to the primary screen
	clear string

	perCell string // written after every emitted cell
}

func newSequences(readable bool) sequences {
	s := sequences{
		esc: string(rune(ansi.ESC)),
		so:  string(rune(ansi.SO)),
		si:  string(rune(ansi.SI)),
	}
	if readable {
		s.esc, s.so, s.si = "<esc>", "<so>", "<si>"
		s.perCell = "\n"
	}
	e := s.esc
	s.open = strings.Join([]string{
		e + "[!p",
		e + "[?3;4l",
		e + "[4l",
		e + ">",
		e + ")0",
		e + "[?1049h",
	}, "")
	s.close = e + "[?1049l"
	s.clear = e + "[2J"
	return s
}

// writeInt writes a non-negative integer without allocating.
func writeInt(w *bufio.Writer, n int) {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		w.WriteByte(byte(n) + '0')
		return
	}
	if n < 100 {
		w.WriteByte(byte(n/10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte(n%10) + '0'
		n /= 10
	}
	w.Write(buf[i:])
}

// writeCursorPos writes CUP for a 0-indexed (row, col).
func (s *sequences) writeCursorPos(w *bufio.Writer, row, col int) {
	w.WriteString(s.esc)
	w.WriteByte('[')
	writeInt(w, row+1)
	w.WriteByte(';')
	writeInt(w, col+1)
	w.WriteByte('H')
}

// writeColour writes a foreground (base 3) or background (base 4) colour:
// the short form for indices up to 9, 38;5;N / 48;5;N above that.
func (s *sequences) writeColour(w *bufio.Writer, base byte, colour int) {
	w.WriteString(s.esc)
	w.WriteByte('[')
	w.WriteByte(base)
	if colour <= 9 {
		writeInt(w, colour)
	} else {
		w.WriteString("8;5;")
		writeInt(w, colour)
	}
	w.WriteByte('m')
}
