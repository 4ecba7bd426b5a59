package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/colorprofile"

	"github.com/Gaurav-Gosain/twin/internal/cell"
	"github.com/Gaurav-Gosain/twin/internal/config"
	"github.com/Gaurav-Gosain/twin/internal/tape"
	"github.com/Gaurav-Gosain/twin/internal/terminal"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in         string
		rows, cols int
		wantErr    bool
	}{
		{"24x80", 24, 80, false},
		{" 50X132 ", 50, 132, false},
		{"24", 0, 0, true},
		{"ax80", 0, 0, true},
		{"24x", 0, 0, true},
		{"0x80", 0, 0, true},
		{"-3x10", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			rows, cols, err := parseSize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if rows != tt.rows || cols != tt.cols {
				t.Errorf("parseSize(%q) = %dx%d, want %dx%d", tt.in, rows, cols, tt.rows, tt.cols)
			}
		})
	}
}

func TestFlagOverrides(t *testing.T) {
	f := globalFlags{debug: true, readable: true, logFile: "/tmp/twin.log", fallbackSize: "30x100"}
	o, err := f.overrides()
	if err != nil {
		t.Fatal(err)
	}
	want := config.Overrides{Readable: true, Debug: true, LogFile: "/tmp/twin.log", FallbackRows: 30, FallbackColumns: 100}
	if o != want {
		t.Errorf("overrides = %+v, want %+v", o, want)
	}

	f.fallbackSize = "huge"
	if _, err := f.overrides(); err == nil {
		t.Error("expected an error for a bad fallback size")
	}
}

func newDriver(t *testing.T, rows, cols int) (*terminal.Driver, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	d, err := terminal.New(nil, &out, terminal.WithSize(rows, cols))
	if err != nil {
		t.Fatalf("terminal.New: %v", err)
	}
	return d, &out
}

func runScript(t *testing.T, d *terminal.Driver, commands []tape.Command) {
	t.Helper()
	if err := tape.NewPlayer(commands).Run(context.Background(), d); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestDemoScriptPlays(t *testing.T) {
	o := demoOptions{
		Size:    cell.Coordinate{Row: 24, Column: 80},
		Seed:    1,
		Profile: colorprofile.ANSI256,
	}
	commands := demoScript(o)
	for _, cmd := range commands {
		if cmd.Type == tape.CommandType_Sleep {
			t.Fatal("zero delay should not produce sleeps")
		}
	}

	d, out := newDriver(t, 24, 80)
	runScript(t, d, commands)

	sampler := d.Tree().Lookup(samplerName)
	if sampler == nil {
		t.Fatal("no sampler window")
	}
	if row := sampler.Dump()[1]; !strings.HasPrefix(row, "│` a b c") {
		t.Errorf("sampler row 1 = %q", row)
	}
	if alt, _ := sampler.Cell(2, 3); alt.Attr != cell.AltCharset || alt.Ch != 'a' {
		t.Errorf("sampler alt cell = %+v", alt)
	}
	if !slices.Equal(d.Screen().Dump(), d.Canvas().Dump()) {
		t.Error("device mirror differs from the canvas after the final sync")
	}
	if !strings.Contains(out.String(), "\x1b[48;5;16m") {
		t.Error("colour box did not use the 256-colour palette")
	}
}

func TestDemoScriptRoundTrips(t *testing.T) {
	o := demoOptions{
		Size:    cell.Coordinate{Row: 30, Column: 100},
		Delay:   100 * time.Millisecond,
		Seed:    7,
		Boxes:   20,
		Profile: colorprofile.ANSI,
	}
	commands := demoScript(o)
	again, err := tape.Parse(tape.Format(commands))
	if err != nil {
		t.Fatalf("demo script does not parse: %v", err)
	}
	if len(again) != len(commands) {
		t.Errorf("round trip changed length: %d -> %d", len(commands), len(again))
	}

	if tape.Format(demoScript(o)) != tape.Format(commands) {
		t.Error("same seed produced a different script")
	}
}

func TestColourPages(t *testing.T) {
	tests := []struct {
		profile colorprofile.Profile
		pages   int
		max     int
	}{
		{colorprofile.TrueColor, 6, 231},
		{colorprofile.ANSI256, 6, 231},
		{colorprofile.ANSI, 1, 7},
		{colorprofile.Ascii, 0, 0},
		{colorprofile.NoTTY, 0, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.profile), func(t *testing.T) {
			pages := colourPages(tt.profile)
			if len(pages) != tt.pages {
				t.Fatalf("got %d pages, want %d", len(pages), tt.pages)
			}
			highest := 0
			for _, page := range pages {
				if len(page) != 36 {
					t.Errorf("page has %d colours", len(page))
				}
				highest = max(highest, slices.Max(page))
			}
			if highest != tt.max {
				t.Errorf("highest colour %d, want %d", highest, tt.max)
			}
		})
	}
}

func TestReadKeys(t *testing.T) {
	keys := config.NewKeyMap(config.DefaultKeys())
	actions := readKeys(context.Background(), strings.NewReader("xq\x0c s"), keys)

	var got []string
	for a := range actions {
		got = append(got, a)
	}
	want := []string{config.ActionQuit, config.ActionRedraw, config.ActionPause, config.ActionToggleSampler}
	if !slices.Equal(got, want) {
		t.Errorf("actions = %v, want %v", got, want)
	}
}

func TestToggleSampler(t *testing.T) {
	d, _ := newDriver(t, 6, 10)
	commands, err := tape.Parse("Window sampler 2 2 2 3\nText \"abc\"\nSync\n")
	if err != nil {
		t.Fatal(err)
	}
	runScript(t, d, commands)
	s := &session{driver: d}

	if err := s.toggleSampler(); err != nil {
		t.Fatal(err)
	}
	if c, _ := d.Screen().Cell(2, 2); c != cell.Blank {
		t.Errorf("hidden sampler still on screen: %+v", c)
	}
	if d.Tree().Lookup(samplerName).Visible() {
		t.Error("sampler still visible")
	}

	if err := s.toggleSampler(); err != nil {
		t.Fatal(err)
	}
	if c, _ := d.Screen().Cell(2, 4); c.Ch != 'c' {
		t.Errorf("shown sampler not redrawn, got %q", c.Ch)
	}
}

func TestSessionHandle(t *testing.T) {
	d, out := newDriver(t, 3, 3)
	s := &session{driver: d}

	if quit, err := s.handle(config.ActionQuit); !quit || err != nil {
		t.Errorf("quit = %v, %v", quit, err)
	}
	if _, err := s.handle(config.ActionPause); err != nil || !s.paused {
		t.Errorf("pause did not pause: %v", err)
	}
	if _, err := s.handle(config.ActionRedraw); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "\x1b[2J") {
		t.Error("redraw did not clear the screen")
	}
}

func closedActions() <-chan string {
	ch := make(chan string)
	close(ch)
	return ch
}

func TestHoldReturnsWhenInputCloses(t *testing.T) {
	s := &session{actions: closedActions()}
	done := make(chan error, 1)
	go func() { done <- s.hold(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("hold: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hold still waiting after the input closed")
	}
	if s.actions != nil {
		t.Error("closed input channel kept")
	}
}

func TestPausedPlayResumesWhenInputCloses(t *testing.T) {
	d, _ := newDriver(t, 2, 4)
	commands, err := tape.Parse("Text \"hi\"\nSync\n")
	if err != nil {
		t.Fatal(err)
	}
	s := &session{driver: d, actions: closedActions(), paused: true}

	type result struct {
		quit bool
		err  error
	}
	done := make(chan result, 1)
	go func() {
		quit, err := s.play(context.Background(), tape.NewPlayer(commands), nil)
		done <- result{quit, err}
	}()

	select {
	case r := <-done:
		if r.quit || r.err != nil {
			t.Errorf("play = %v, %v; want the script to finish", r.quit, r.err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("paused play never resumed after the input closed")
	}
	if s.paused {
		t.Error("still paused")
	}
	if c, _ := d.Screen().Cell(0, 1); c.Ch != 'i' {
		t.Errorf("script not played, got %q", c.Ch)
	}
}

func TestPausedPlayStopsOnCancel(t *testing.T) {
	d, _ := newDriver(t, 2, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &session{driver: d, actions: make(chan string), paused: true}

	quit, err := s.play(ctx, tape.NewPlayer([]tape.Command{{Type: tape.CommandType_Sync}}), nil)
	if !quit || err != nil {
		t.Errorf("play = %v, %v; want quit", quit, err)
	}
}

func TestGlyphRows(t *testing.T) {
	rows := glyphRows()
	if len(rows) != cell.LineCodes {
		t.Fatalf("got %d rows", len(rows))
	}
	want := []string{"0xa", "right+left", "─", "q"}
	if !slices.Equal(rows[10], want) {
		t.Errorf("row 10 = %v, want %v", rows[10], want)
	}
	if segments(0) != "none" {
		t.Errorf("segments(0) = %q", segments(0))
	}
}

func TestKeybindingRows(t *testing.T) {
	keys := config.NewKeyMap(config.KeysConfig{Quit: []string{"q", "ctrl+c"}})
	rows := keybindingRows(keys)
	if len(rows) != 1 || rows[0][0] != "q, ctrl+c" || rows[0][1] != config.ActionDescriptions[config.ActionQuit] {
		t.Errorf("rows = %v", rows)
	}
}

func TestDecodeOutput(t *testing.T) {
	d, out := newDriver(t, 4, 6)
	if err := d.Open(); err != nil {
		t.Fatal(err)
	}
	commands, err := tape.Parse("Box 0 0 4 6\nCursor 1 1\nStyle 2 9 Bold\nText \"hey\"\nSync\n")
	if err != nil {
		t.Fatal(err)
	}
	runScript(t, d, commands)
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}

	e, err := decodeOutput(bytes.NewReader(out.Bytes()), 4, 6)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(e.Dump(), d.Canvas().Dump()) {
		t.Errorf("decoded %q, want %q", e.Dump(), d.Canvas().Dump())
	}
	if c, _ := e.Cell(1, 1); c.Fg != 2 || c.Attr != cell.Bold || c.Ch != 'h' {
		t.Errorf("styled cell = %+v", c)
	}
	if e.IsAltScreen() {
		t.Error("closed output still on the alternate screen")
	}
	if !strings.Contains(renderScreen(e), "sequences ignored") {
		t.Error("summary missing")
	}
}

func TestDecodeReadableOutput(t *testing.T) {
	var out bytes.Buffer
	d, err := terminal.New(nil, &out, terminal.WithSize(2, 2), terminal.WithReadable(true))
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Open(); err != nil {
		t.Fatal(err)
	}
	if _, err := decodeOutput(&out, 2, 2); !errors.Is(err, errReadableOutput) {
		t.Errorf("err = %v, want errReadableOutput", err)
	}
}

func TestInspectSizeFlag(t *testing.T) {
	rows, cols, err := inspectSize(&globalFlags{}, "10x20")
	if err != nil || rows != 10 || cols != 20 {
		t.Errorf("inspectSize = %d, %d, %v", rows, cols, err)
	}
	if _, _, err := inspectSize(&globalFlags{}, "10"); err == nil {
		t.Error("expected an error for a bad size")
	}
}
