package cell

// Line-graphic codes are four direction bits; OR-ing two codes joins their
// segments (a horizontal run crossed by a vertical one becomes a cross).
const (
	LineUp    rune = 0x01
	LineRight rune = 0x02
	LineDown  rune = 0x04
	LineLeft  rune = 0x08

	// LineCodes is the number of distinct line-graphic codes.
	LineCodes = 16
)

// LineFragments holds the codes drawn at the start, middle and end of a line.
type LineFragments struct {
	Start, Mid, End rune
}

var (
	// HorizontalLine draws left to right: " -", "--", "- ".
	HorizontalLine = LineFragments{Start: LineRight, Mid: LineLeft | LineRight, End: LineLeft}
	// VerticalLine draws top to bottom.
	VerticalLine = LineFragments{Start: LineDown, Mid: LineUp | LineDown, End: LineUp}
)

// LinePreview renders each line-graphic code as Unicode box drawing.
var LinePreview = [LineCodes]rune{
	'·', '╵', '╶', '└',
	'╷', '│', '┌', '├',
	'╴', '┘', '─', '┴',
	'┐', '┤', '┬', '┼',
}

// AttributeParam maps one attribute bit to its SGR parameter.
type AttributeParam struct {
	Attr  Attr
	Param int
}

// AttributeParams lists the SGR parameter for every attribute bit except
// AltCharset, which is switched with shift-out/shift-in instead. Emission
// order follows this table.
var AttributeParams = []AttributeParam{
	{Attr: Bold, Param: 1},
	{Attr: Dim, Param: 2},
	{Attr: Italic, Param: 3},
	{Attr: Underline, Param: 4},
	{Attr: Flashing, Param: 5},
	{Attr: FastFlashing, Param: 6},
	{Attr: Reverse, Param: 7},
}

var attrNames = []struct {
	attr Attr
	name string
}{
	{Bold, "Bold"},
	{Dim, "Dim"},
	{Italic, "Italic"},
	{Underline, "Underline"},
	{Flashing, "Flash"},
	{FastFlashing, "FastFlash"},
	{Reverse, "Reverse"},
	{AltCharset, "Alt"},
}

// ParseAttr returns the attribute named name ("Normal", "Bold", ...).
func ParseAttr(name string) (Attr, bool) {
	if name == "Normal" {
		return Normal, true
	}
	for _, a := range attrNames {
		if a.name == name {
			return a.attr, true
		}
	}
	return Normal, false
}

func (a Attr) String() string {
	if a == Normal {
		return "Normal"
	}
	s := ""
	for _, n := range attrNames {
		if a&n.attr != 0 {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	return s
}
