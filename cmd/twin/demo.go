package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/colorprofile"

	"github.com/Gaurav-Gosain/twin/internal/cell"
	"github.com/Gaurav-Gosain/twin/internal/tape"
)

// samplerName is the window the sampler box is drawn in.
const samplerName = "sampler"

// demoOptions shapes the built-in demo.
type demoOptions struct {
	Size    cell.Coordinate
	Delay   time.Duration // frame delay; pauses between scenes are five frames
	Seed    int64
	Boxes   int
	Profile colorprofile.Profile
}

// scene accumulates demo commands.
type scene struct {
	commands []tape.Command
	delay    time.Duration
}

func (s *scene) add(t tape.CommandType, args []string, ints ...int) {
	s.commands = append(s.commands, tape.Command{Type: t, Args: args, Ints: ints})
}

func (s *scene) style(fg, bg int, attrs ...string) {
	s.add(tape.CommandType_Style, attrs, fg, bg)
}

func (s *scene) text(row, col int, text string) {
	s.add(tape.CommandType_Cursor, nil, row, col)
	s.add(tape.CommandType_Text, []string{text})
}

func (s *scene) box(row, col, rows, cols int) {
	s.add(tape.CommandType_Box, nil, row, col, rows, cols)
}

// frame syncs and waits frames frame delays.
func (s *scene) frame(frames int) {
	s.add(tape.CommandType_Sync, nil)
	if s.delay > 0 && frames > 0 {
		s.commands = append(s.commands, tape.Command{
			Type:  tape.CommandType_Sleep,
			Delay: s.delay * time.Duration(frames),
		})
	}
}

const (
	short = 1
	pause = 5
)

// demoScript builds the demo: a framed root, a style box, an attribute
// sampler in its own window, a colour box, clipped boxes at the edges, and
// random boxes.
func demoScript(o demoOptions) []tape.Command {
	s := &scene{delay: o.Delay}
	rows, cols := o.Size.Row, o.Size.Column

	s.box(0, 0, rows, cols)
	s.text(0, 1, "twin-root")
	s.frame(0)

	styleBox(s, 3, 5)
	samplerBox(s, 15, 2)
	colourBox(s, 3, 30, colourPages(o.Profile))
	clipBoxes(s, rows, cols)
	randomBoxes(s, rows, cols, o.Seed, o.Boxes)
	return s.commands
}

func styleBox(s *scene, row, col int) {
	s.style(2, int(cell.DefaultColour))
	s.box(row, col, 9, 12)
	s.style(int(cell.DefaultColour), int(cell.DefaultColour))
	col++
	s.text(row, col, "styles")
	s.frame(pause)

	for _, attr := range []string{"Normal", "Bold", "Dim", "Italic", "Underline", "Flash", "Reverse"} {
		row++
		s.style(int(cell.DefaultColour), int(cell.DefaultColour), attr)
		s.text(row, col, attr)
	}
	s.style(int(cell.DefaultColour), int(cell.DefaultColour))
	s.frame(2 * pause)
}

// samplerBox shows the printable range '`'..'~' twice: as text and through
// the alternate character set.
func samplerBox(s *scene, row, col int) {
	s.add(tape.CommandType_Window, []string{samplerName}, row, col, 4, 63)
	s.style(3, int(cell.DefaultColour))
	s.box(0, 0, 4, 63)
	s.style(int(cell.DefaultColour), int(cell.DefaultColour))
	s.text(0, 1, "sampler")
	s.frame(pause)

	for i := range 31 {
		s.text(1, 1+2*i, string(rune('`'+i)))
	}
	s.frame(pause)

	s.style(int(cell.DefaultColour), int(cell.DefaultColour), "Alt")
	for i := range 31 {
		s.text(2, 1+2*i, string(rune('`'+i)))
		s.frame(short)
	}
	s.style(int(cell.DefaultColour), int(cell.DefaultColour))
	s.add(tape.CommandType_Select, []string{"root"})
	s.frame(2 * pause)
}

// colourPages returns the background colours the colour box cycles through,
// six rows of six per page, limited to what the profile can show.
func colourPages(p colorprofile.Profile) [][]int {
	var pages [][]int
	switch p {
	case colorprofile.TrueColor, colorprofile.ANSI256:
		// The 6x6x6 cube, one red level per page.
		for base := 16; base < 255-36; base += 36 {
			page := make([]int, 36)
			for i := range page {
				page[i] = base + i
			}
			pages = append(pages, page)
		}
	case colorprofile.ANSI:
		page := make([]int, 36)
		for i := range page {
			page[i] = (i/6 + i%6) % 8
		}
		pages = append(pages, page)
	}
	return pages
}

func colourBox(s *scene, row, col int, pages [][]int) {
	s.style(6, int(cell.DefaultColour))
	s.box(row, col, 8, 14)
	s.style(int(cell.DefaultColour), int(cell.DefaultColour))
	col++
	s.text(row, col, "colour")
	s.frame(pause)
	row++

	for _, page := range pages {
		for r := range 6 {
			s.add(tape.CommandType_Cursor, nil, row+r, col)
			for c := range 6 {
				s.style(int(cell.DefaultColour), page[6*r+c])
				s.add(tape.CommandType_Text, []string{"  "})
			}
		}
		s.frame(pause)
	}
	s.style(int(cell.DefaultColour), int(cell.DefaultColour))
	s.frame(2 * pause)
}

// clipBoxes draws boxes hanging off every edge and corner.
func clipBoxes(s *scene, rows, cols int) {
	for _, r := range []int{-1, rows / 2, rows - 2} {
		for _, c := range []int{-1, cols / 2, cols - 2} {
			if r == rows/2 && c == cols/2 {
				continue
			}
			s.box(r, c, 3, 3)
			s.frame(pause)
		}
	}
	s.frame(2 * pause)
}

func randomBoxes(s *scene, rows, cols int, seed int64, n int) {
	if rows <= 3 || cols <= 8 {
		return
	}
	rng := rand.New(rand.NewPCG(uint64(seed), 0))
	for range n {
		s.box(rng.IntN(rows-3), rng.IntN(cols-8), rng.IntN(4)+2, rng.IntN(8)+2)
		s.frame(short)
	}
}

// demoHeader names the demo in recorded tapes.
func demoHeader(o demoOptions) string {
	return fmt.Sprintf("twin demo %dx%d, seed %d", o.Size.Row, o.Size.Column, o.Seed)
}
