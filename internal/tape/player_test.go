package tape

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gaurav-Gosain/twin/internal/cell"
	"github.com/Gaurav-Gosain/twin/internal/terminal"
	"github.com/Gaurav-Gosain/twin/internal/window"
)

func newTarget(t *testing.T, rows, cols int) *terminal.Driver {
	t.Helper()
	d, err := terminal.New(nil, &bytes.Buffer{}, terminal.WithSize(rows, cols))
	if err != nil {
		t.Fatalf("terminal.New: %v", err)
	}
	return d
}

func play(t *testing.T, d *terminal.Driver, script string) *Player {
	t.Helper()
	commands, err := Parse(script)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p := NewPlayer(commands)
	p.sleep = func(context.Context, time.Duration) error { return nil }
	if err := p.Run(context.Background(), d); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return p
}

func TestPlayerDrawsWindows(t *testing.T) {
	d := newTarget(t, 5, 8)
	p := play(t, d, `
Window box 1 1 3 5
Box 0 0 3 5
Cursor 1 1
Text "hi"
Sync
`)

	want := []string{
		"        ",
		" ┌───┐  ",
		" │hi │  ",
		" └───┘  ",
		"        ",
	}
	got := d.Canvas().Dump()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("canvas row %d: got %q, want %q", i, got[i], want[i])
		}
	}
	if screen := d.Screen().Dump(); screen[2] != want[2] {
		t.Errorf("device row 2: got %q", screen[2])
	}
	if p.Changes() != 14 {
		t.Errorf("Changes() = %d, want 14", p.Changes())
	}
	if p.Selected().Name() != "box" {
		t.Errorf("selected %q, want box", p.Selected().Name())
	}
	if !p.IsFinished() || p.Progress() != 100 {
		t.Errorf("player not finished: %v", p)
	}
}

func TestPlayerStyle(t *testing.T) {
	d := newTarget(t, 2, 4)
	play(t, d, `
Style 1 9 Bold Underline
Text "a"
`)
	got, _ := d.Canvas().Cell(0, 0)
	want := cell.Cell{Fg: 1, Bg: 9, Attr: cell.Bold | cell.Underline, Ch: 'a'}
	if got != want {
		t.Errorf("cell = %+v, want %+v", got, want)
	}
}

func TestPlayerSelectAndFree(t *testing.T) {
	d := newTarget(t, 6, 6)
	p := play(t, d, `
Window a 0 0 4 4
Window b 1 1 2 2
Select root
Free a
`)
	if d.Tree().Len() != 1 {
		t.Errorf("Len() = %d, want 1 after freeing a subtree", d.Tree().Len())
	}
	if p.Selected() != d.Canvas() {
		t.Errorf("selected %q, want the canvas", p.Selected().Name())
	}
}

func TestPlayerFreeingSelectedFallsBackToCanvas(t *testing.T) {
	d := newTarget(t, 4, 4)
	p := play(t, d, `
Window a 0 0 2 2
Free a
Text "x"
`)
	if p.Selected() != d.Canvas() {
		t.Fatalf("selected %q, want the canvas", p.Selected().Name())
	}
	if c, _ := d.Canvas().Cell(0, 0); c.Ch != 'x' {
		t.Errorf("text went to %q", c.Ch)
	}
}

func TestPlayerHideSkipsCompose(t *testing.T) {
	d := newTarget(t, 3, 3)
	p := play(t, d, `
Window w 0 0 1 1
Text "x"
Hide w
Sync
`)
	if p.Changes() != 0 {
		t.Errorf("hidden window reached the device: %d changes", p.Changes())
	}

	play(t, d, "Show w\nSync\n")
	if c, _ := d.Screen().Cell(0, 0); c.Ch != 'x' {
		t.Errorf("shown window not rendered, device has %q", c.Ch)
	}
}

func TestPlayerAttachDetach(t *testing.T) {
	d := newTarget(t, 6, 6)
	play(t, d, `
Window a 0 0 3 3
Select root
Window b 2 2 1 1
Attach b a
`)
	a, b := d.Tree().Lookup("a"), d.Tree().Lookup("b")
	if d.Tree().Parent(b) != a {
		t.Fatal("Attach did not move b under a")
	}
	play(t, d, "Detach b\n")
	if d.Tree().Parent(b) != nil {
		t.Error("Detach did not unlink b")
	}
}

func TestPlayerErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		is     error
	}{
		{"unknown window", "Select nowhere", window.ErrUnknownWindow},
		{"invalid size", "Window w 0 0 -1 3", window.ErrInvalidSize},
		{"free canvas", "Free root", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTarget(t, 3, 3)
			commands, err := Parse(tt.script)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			p := NewPlayer(commands)
			err = p.Run(context.Background(), d)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error %v is not %v", err, tt.is)
			}
			if p.CurrentIndex() != 0 {
				t.Errorf("failed command should not advance, index %d", p.CurrentIndex())
			}
		})
	}
}

func TestPlayerRejectsMalformedCommand(t *testing.T) {
	d := newTarget(t, 3, 3)
	p := NewPlayer([]Command{{Type: CommandType_Box, Ints: []int{1}}})
	if err := p.Run(context.Background(), d); err == nil {
		t.Error("expected an arity error")
	}
}

func TestPlayerStopsOnCancel(t *testing.T) {
	d := newTarget(t, 3, 3)
	commands, err := Parse("Sleep 1h\nText \"x\"\n")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewPlayer(commands)
	if err := p.Run(ctx, d); !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
	if p.IsFinished() {
		t.Error("player finished despite cancellation")
	}
}

func TestSleepContextHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("sleepContext = %v", err)
	}
	if err := sleepContext(context.Background(), time.Millisecond); err != nil {
		t.Errorf("short sleep failed: %v", err)
	}
}
