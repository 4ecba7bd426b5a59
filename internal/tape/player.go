package tape

import (
	"context"
	"fmt"
	"time"

	"github.com/Gaurav-Gosain/twin/internal/cell"
	"github.com/Gaurav-Gosain/twin/internal/logging"
	"github.com/Gaurav-Gosain/twin/internal/window"
)

// Target is what a script draws on. *terminal.Driver implements it.
type Target interface {
	Tree() *window.Tree
	Canvas() *window.Window
	Refresh() (int, error)
	Redraw() error
}

// Player executes commands against a Target. Drawing commands apply to the
// selected window, which starts as the canvas.
type Player struct {
	commands []Command
	index    int // Current command index
	selected *window.Window
	changes  int // Cells written by Sync commands
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewPlayer creates a new script player from a list of commands
func NewPlayer(commands []Command) *Player {
	return &Player{
		commands: commands,
		sleep:    sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Append queues more commands after the existing ones.
func (p *Player) Append(commands ...Command) {
	p.commands = append(p.commands, commands...)
}

// NextCommand returns the next command to execute without advancing
func (p *Player) NextCommand() *Command {
	if p.index >= len(p.commands) {
		return nil
	}
	return &p.commands[p.index]
}

// IsFinished returns true if all commands have been executed
func (p *Player) IsFinished() bool {
	return p.index >= len(p.commands)
}

// Reset rewinds the player to the beginning
func (p *Player) Reset() {
	p.index = 0
	p.selected = nil
	p.changes = 0
}

// CurrentIndex returns the current command index
func (p *Player) CurrentIndex() int {
	return p.index
}

// TotalCommands returns the total number of commands
func (p *Player) TotalCommands() int {
	return len(p.commands)
}

// Progress returns a value between 0 and 100 representing playback progress
func (p *Player) Progress() int {
	if len(p.commands) == 0 {
		return 100
	}
	return (p.index * 100) / len(p.commands)
}

// Changes returns the number of cells written to the device so far.
func (p *Player) Changes() int {
	return p.changes
}

// Selected returns the window drawing commands apply to.
func (p *Player) Selected() *window.Window {
	return p.selected
}

// Run executes the remaining commands in order. It stops at the first
// failing command or when ctx is cancelled.
func (p *Player) Run(ctx context.Context, t Target) error {
	logging.Debug("tape: run", "commands", len(p.commands), "from", p.index)
	for !p.IsFinished() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.Step(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// Step executes the next command.
func (p *Player) Step(ctx context.Context, t Target) error {
	cmd := p.NextCommand()
	if cmd == nil {
		return nil
	}
	if p.selected == nil || t.Tree().Get(p.selected.Handle()) == nil {
		p.selected = t.Canvas()
	}
	if err := cmd.check(); err != nil {
		return fmt.Errorf("line %d: %w", cmd.Line, err)
	}
	if err := p.execute(ctx, t, cmd); err != nil {
		return fmt.Errorf("line %d: %s: %w", cmd.Line, cmd.Type, err)
	}
	p.index++
	return nil
}

func (p *Player) lookup(t Target, name string) (*window.Window, error) {
	if w := t.Tree().Lookup(name); w != nil {
		return w, nil
	}
	return nil, fmt.Errorf("%q: %w", name, window.ErrUnknownWindow)
}

func (p *Player) execute(ctx context.Context, t Target, cmd *Command) error {
	w := p.selected
	n := cmd.Ints

	switch cmd.Type {
	case CommandType_Window:
		child, err := t.Tree().New(w.Handle(), cmd.Arg(0),
			cell.Coordinate{Row: n[0], Column: n[1]}, cell.Coordinate{Row: n[2], Column: n[3]})
		if err != nil {
			return err
		}
		// Paint the new window's background on the next Sync.
		child.Invalidate()
		p.selected = child

	case CommandType_Select:
		target, err := p.lookup(t, cmd.Arg(0))
		if err != nil {
			return err
		}
		p.selected = target

	case CommandType_Free:
		target, err := p.lookup(t, cmd.Arg(0))
		if err != nil {
			return err
		}
		if target == t.Canvas() {
			return fmt.Errorf("cannot free the canvas")
		}
		released := t.Tree().Free(target.Handle())
		logging.Debug("tape: free", "window", cmd.Arg(0), "released", released)
		if t.Tree().Get(p.selected.Handle()) == nil {
			p.selected = t.Canvas()
		}

	case CommandType_Show, CommandType_Hide:
		target, err := p.lookup(t, cmd.Arg(0))
		if err != nil {
			return err
		}
		target.SetVisible(cmd.Type == CommandType_Show)
		if cmd.Type == CommandType_Show {
			target.Invalidate()
		}

	case CommandType_Attach:
		child, err := p.lookup(t, cmd.Arg(0))
		if err != nil {
			return err
		}
		parent, err := p.lookup(t, cmd.Arg(1))
		if err != nil {
			return err
		}
		if err := t.Tree().Attach(parent.Handle(), child.Handle()); err != nil {
			return err
		}
		child.Invalidate()

	case CommandType_Detach:
		target, err := p.lookup(t, cmd.Arg(0))
		if err != nil {
			return err
		}
		return t.Tree().Detach(target.Handle())

	case CommandType_Cursor:
		w.MoveCursor(n[0], n[1])

	case CommandType_Text:
		w.PutText(cmd.Arg(0))

	case CommandType_Style:
		style := cell.Cell{Fg: cell.Colour(n[0]), Bg: cell.Colour(n[1]), Ch: ' '}
		for _, name := range cmd.Args {
			attr, ok := cell.ParseAttr(name)
			if !ok {
				return fmt.Errorf("unknown attribute %q", name)
			}
			style.Attr |= attr
		}
		w.SetStyle(style)

	case CommandType_Box:
		w.Box(n[0], n[1], n[2], n[3])

	case CommandType_HLine:
		w.HLine(n[0], n[1], n[2])

	case CommandType_VLine:
		w.VLine(n[0], n[1], n[2])

	case CommandType_Clear:
		w.Clear()

	case CommandType_Invalidate:
		w.Invalidate()

	case CommandType_Compose:
		t.Tree().Compose(t.Canvas(), t.Canvas(), cell.Coordinate{})

	case CommandType_Sync:
		changes, err := t.Refresh()
		p.changes += changes
		return err

	case CommandType_Redraw:
		return t.Redraw()

	case CommandType_Sleep:
		return p.sleep(ctx, cmd.Delay)

	default:
		return fmt.Errorf("unsupported command")
	}
	return nil
}

// String returns a debug string representation
func (p *Player) String() string {
	return fmt.Sprintf("Player{index=%d/%d, changes=%d}", p.index, len(p.commands), p.changes)
}
