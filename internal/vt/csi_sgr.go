package vt

import (
	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/twin/internal/cell"
)

// handleSgr handles Select Graphic Rendition (SGR) escape sequences.
func (e *Emulator) handleSgr(params ansi.Params) {
	if len(params) == 0 {
		e.resetPen()
		return
	}

	for i := 0; i < len(params); i++ {
		param, _, _ := params.Param(i, 0)
		switch {
		case param == 0: // Reset
			e.resetPen()
		case param >= 1 && param <= 7:
			for _, p := range cell.AttributeParams {
				if p.Param == param {
					e.pen.Attr |= p.Attr
				}
			}
		case param == 22: // Normal intensity
			e.pen.Attr &^= cell.Bold | cell.Dim
		case param == 23:
			e.pen.Attr &^= cell.Italic
		case param == 24:
			e.pen.Attr &^= cell.Underline
		case param == 25:
			e.pen.Attr &^= cell.Flashing | cell.FastFlashing
		case param == 27:
			e.pen.Attr &^= cell.Reverse
		case param >= 30 && param <= 37, param == 39: // Foreground, 39 is the default
			e.pen.Fg = cell.Colour(param - 30)
		case param >= 40 && param <= 47, param == 49: // Background, 49 is the default
			e.pen.Bg = cell.Colour(param - 40)
		case param == 38 || param == 48: // 256 colours: 38;5;N, or colour 8 alone
			mode, _, more := params.Param(i+1, -1)
			if !more {
				e.setColour(param, 8)
				continue
			}
			index, _, ok := params.Param(i+2, -1)
			if mode != 5 || !ok || index < 0 || index > 255 {
				e.unknown++
				return
			}
			e.setColour(param, index)
			i += 2
		case param >= 90 && param <= 97: // Bright foreground
			e.pen.Fg = cell.Colour(param - 90 + 8)
		case param >= 100 && param <= 107: // Bright background
			e.pen.Bg = cell.Colour(param - 100 + 8)
		default:
			e.unknown++
		}
	}
}

func (e *Emulator) setColour(param, index int) {
	if param == 38 {
		e.pen.Fg = cell.Colour(index)
	} else {
		e.pen.Bg = cell.Colour(index)
	}
}

func (e *Emulator) resetPen() {
	e.pen.Fg, e.pen.Bg = cell.DefaultColour, cell.DefaultColour
	e.pen.Attr = cell.Normal
}
