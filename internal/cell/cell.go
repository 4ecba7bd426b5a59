// Package cell defines the value types shared by windows and the terminal
// driver: a styled character cell, coordinates, and damage regions.
package cell

// Colour is a terminal palette index.
type Colour uint8

// DefaultColour selects the terminal's default foreground or background.
const DefaultColour Colour = 9

// Attr is a bitmask of cell attributes.
type Attr uint8

const (
	Normal       Attr = 0x00 // a value, not a bit
	Bold         Attr = 0x01
	Dim          Attr = 0x02
	Italic       Attr = 0x04
	Underline    Attr = 0x08
	Flashing     Attr = 0x10
	FastFlashing Attr = 0x20
	Reverse      Attr = 0x40
	AltCharset   Attr = 0x80
)

// Cell is one character position's full visual state.
// Two cells are the same only if every field matches.
type Cell struct {
	Fg   Colour
	Bg   Colour
	Attr Attr
	Ch   rune // codepoint, or line-graphic bits when AltCharset is set
}

// Blank is the default cell: default colours, normal attributes, a space.
var Blank = Cell{Fg: DefaultColour, Bg: DefaultColour, Attr: Normal, Ch: ' '}

// SameStyle reports whether a and b differ only in their character.
func SameStyle(a, b Cell) bool {
	return a.Fg == b.Fg && a.Bg == b.Bg && a.Attr == b.Attr
}

// IsLineGraphic reports whether the cell's character is a line-graphic code
// rather than a literal.
func (c Cell) IsLineGraphic() bool {
	return c.Attr&AltCharset != 0 && c.Ch >= 0 && c.Ch < LineCodes
}

// WithChar returns a copy of c showing ch.
func (c Cell) WithChar(ch rune) Cell {
	c.Ch = ch
	return c
}

// Preview returns a printable rune for the cell, mapping line-graphic codes
// to Unicode box drawing.
func (c Cell) Preview() rune {
	if c.IsLineGraphic() {
		return LinePreview[c.Ch]
	}
	if c.Ch < ' ' {
		return ' '
	}
	return c.Ch
}
