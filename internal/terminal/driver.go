// Package terminal renders a window tree to an xterm-compatible device,
// emitting only the cells that differ from what the device already shows.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/Gaurav-Gosain/twin/internal/cell"
	"github.com/Gaurav-Gosain/twin/internal/logging"
	"github.com/Gaurav-Gosain/twin/internal/window"
)

// DefaultBufferSize is the output buffer size used when none is configured.
const DefaultBufferSize = 64 * 1024

// ErrSizeUnavailable is returned by New when the device size cannot be
// determined and no fallback size was given.
var ErrSizeUnavailable = errors.New("terminal size unavailable")

// Health describes how a driver was initialised.
type Health int

const (
	// Healthy drivers know the real device size.
	Healthy Health = iota
	// Degraded drivers fell back to a configured size.
	Degraded
)

func (h Health) String() string {
	switch h {
	case Healthy:
		return "healthy"
	case Degraded:
		return "degraded"
	default:
		return fmt.Sprintf("Health(%d)", int(h))
	}
}

// SizeQuery reports the device size in rows and columns.
type SizeQuery func() (rows, cols int, err error)

type options struct {
	size       *cell.Coordinate
	fallback   *cell.Coordinate
	query      SizeQuery
	readable   bool
	bufferSize int
}

// Option configures a Driver.
type Option func(*options)

// WithSize fixes the device size; no query is made.
func WithSize(rows, cols int) Option {
	return func(o *options) { o.size = &cell.Coordinate{Row: rows, Column: cols} }
}

// WithFallbackSize sets the size used when the size query fails.
func WithFallbackSize(rows, cols int) Option {
	return func(o *options) { o.fallback = &cell.Coordinate{Row: rows, Column: cols} }
}

// WithSizeQuery replaces the default ioctl-based size query.
func WithSizeQuery(q SizeQuery) Option {
	return func(o *options) { o.query = q }
}

// WithReadable spells control characters out and ends every emitted cell
// with a newline, for inspecting output in a file or pager.
func WithReadable(readable bool) Option {
	return func(o *options) { o.readable = readable }
}

// WithBufferSize sets the output buffer size.
func WithBufferSize(n int) Option {
	return func(o *options) { o.bufferSize = n }
}

// Driver owns the canvas (the root of its own window tree) and the mirror of
// the device screen. It is not safe for concurrent use.
type Driver struct {
	in  io.Reader
	out io.Writer
	w   *bufio.Writer
	seq sequences

	tree   *window.Tree
	canvas *window.Window
	screen *Screen
	health Health

	touched []int
}

// New creates a driver for the device behind in and out. Nothing is written
// until Open.
func New(in io.Reader, out io.Writer, opts ...Option) (*Driver, error) {
	o := options{bufferSize: DefaultBufferSize}
	for _, opt := range opts {
		opt(&o)
	}

	health := Healthy
	var size cell.Coordinate
	switch {
	case o.size != nil:
		size = *o.size
	default:
		query := o.query
		if query == nil {
			query = fdSizeQuery(out)
		}
		rows, cols, err := query()
		switch {
		case err == nil:
			size = cell.Coordinate{Row: rows, Column: cols}
		case o.fallback != nil:
			logging.Warn("cannot get window size, using fallback",
				"err", err, "rows", o.fallback.Row, "cols", o.fallback.Column)
			size = *o.fallback
			health = Degraded
		default:
			logging.Error("cannot get window size", "err", err)
			return nil, fmt.Errorf("%w: %w", ErrSizeUnavailable, err)
		}
	}
	logging.Debug("terminal size", "rows", size.Row, "cols", size.Column, "health", health)

	tree := window.NewTree()
	canvas, err := tree.New(window.NoWindow, "root", cell.Coordinate{}, size)
	if err != nil {
		return nil, fmt.Errorf("create canvas: %w", err)
	}
	if o.bufferSize <= 0 {
		o.bufferSize = DefaultBufferSize
	}

	return &Driver{
		in:     in,
		out:    out,
		w:      bufio.NewWriterSize(out, o.bufferSize),
		seq:    newSequences(o.readable),
		tree:   tree,
		canvas: canvas,
		screen: newScreen(size),
		health: health,
	}, nil
}

// fdSizeQuery asks the terminal behind out for its size.
func fdSizeQuery(out io.Writer) SizeQuery {
	return func() (int, int, error) {
		f, ok := out.(interface{ Fd() uintptr })
		if !ok {
			return 0, 0, errors.New("output has no file descriptor")
		}
		cols, rows, err := term.GetSize(int(f.Fd()))
		if err != nil {
			return 0, 0, err
		}
		return rows, cols, nil
	}
}

// Tree returns the window tree rooted at the canvas.
func (d *Driver) Tree() *window.Tree { return d.tree }

// Canvas returns the root window; windows drawn to the device are its
// descendants.
func (d *Driver) Canvas() *window.Window { return d.canvas }

// Screen returns the mirror of the device.
func (d *Driver) Screen() *Screen { return d.screen }

// Size returns the device size in rows and columns.
func (d *Driver) Size() cell.Coordinate { return d.canvas.Size() }

// Health reports whether the device size was real or a fallback.
func (d *Driver) Health() Health { return d.health }

// Input returns the device's input stream.
func (d *Driver) Input() io.Reader { return d.in }

// Open prepares the device: soft reset, replace mode, DEC graphics in G1,
// and the alternate screen.
func (d *Driver) Open() error {
	d.w.WriteString(d.seq.open)
	if err := d.flush(); err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	return nil
}

// Close restores the default rendition and leaves the alternate screen.
func (d *Driver) Close() error {
	d.screen.styleKnown = false
	d.applyStyle(cell.Blank)
	d.w.WriteString(d.seq.close)
	if err := d.flush(); err != nil {
		return fmt.Errorf("close terminal: %w", err)
	}
	return nil
}

// Clear erases the device and invalidates the canvas, so the next Sync
// repaints every non-blank canvas cell.
func (d *Driver) Clear() error {
	err := d.erase()
	d.canvas.Invalidate()
	return err
}

// Redraw clears the device and repaints the composed canvas at once.
func (d *Driver) Redraw() error {
	if err := d.Clear(); err != nil {
		return err
	}
	_, err := d.Refresh()
	return err
}

// Reset frees every window except the canvas, blanks the canvas and clears
// the device. The canvas is left clean since it matches the cleared mirror.
func (d *Driver) Reset() error {
	var handles []window.Handle
	for w := range d.tree.All() {
		if w != d.canvas {
			handles = append(handles, w.Handle())
		}
	}
	freed := 0
	for _, h := range handles {
		freed += d.tree.Free(h)
	}
	logging.Debug("reset", "freed", freed)

	d.canvas.SetStyle(cell.Blank)
	d.canvas.MoveCursor(0, 0)
	d.canvas.Clear()
	if err := d.erase(); err != nil {
		d.canvas.Invalidate()
		return err
	}
	d.canvas.ResetDamage()
	return nil
}

// erase emits a full-screen erase and records the mirror as blank.
func (d *Driver) erase() error {
	d.applyStyle(cell.Blank)
	d.w.WriteString(d.seq.clear)
	d.screen.reset()
	if err := d.flush(); err != nil {
		d.screen.markAllStale()
		return fmt.Errorf("clear terminal: %w", err)
	}
	return nil
}

// Refresh composes every damaged window into the canvas and syncs.
func (d *Driver) Refresh() (int, error) {
	d.tree.Compose(d.canvas, d.canvas, cell.Coordinate{})
	return d.Sync()
}

// Sync writes the canvas cells in its damage region that differ from the
// mirror, then resets the canvas damage. It returns the number of cells
// written. When the write fails the damage is kept and the affected cells
// are re-emitted by the next Sync.
func (d *Driver) Sync() (int, error) {
	region, ok := d.canvas.Damage()
	if !ok {
		return 0, nil
	}

	geometry := d.canvas.Geometry()
	d.touched = d.touched[:0]
	for r := region.Min.Row; r <= region.Max.Row; r++ {
		for c := region.Min.Column; c <= region.Max.Column; c++ {
			want, _ := d.canvas.Cell(r, c)
			offset := geometry.Offset(r, c)
			if d.screen.current(offset, want) {
				continue
			}
			d.moveCursor(r, c)
			d.applyStyle(want)
			d.writeGlyph(want)
			d.screen.put(offset, want)
			d.screen.cursor.Column++
			d.touched = append(d.touched, offset)
			d.w.WriteString(d.seq.perCell)
		}
	}

	if err := d.flush(); err != nil {
		d.screen.markStale(d.touched)
		logging.Error("sync failed", "err", err, "pending", len(d.touched))
		return 0, fmt.Errorf("sync: %w", err)
	}
	d.canvas.ResetDamage()
	logging.Debug("sync", "damage", region, "changes", len(d.touched))
	return len(d.touched), nil
}

// flush writes buffered output. A failed flush leaves the device in an
// unknown state, so cursor and style are forgotten and the buffer is
// discarded.
func (d *Driver) flush() error {
	if err := d.w.Flush(); err != nil {
		d.w.Reset(d.out)
		d.screen.forget()
		return err
	}
	return nil
}

func (d *Driver) moveCursor(row, col int) {
	s := d.screen
	if s.cursorKnown && s.cursor.Row == row && s.cursor.Column == col {
		return
	}
	d.seq.writeCursorPos(d.w, row, col)
	s.cursor = cell.Coordinate{Row: row, Column: col}
	s.cursorKnown = true
}

// applyStyle brings the device rendition to style. Changing any attribute
// other than the character set rewrites the whole SGR state, which resets
// the colours to the default.
func (d *Driver) applyStyle(style cell.Cell) {
	s := d.screen
	prev, known := s.style, s.styleKnown
	s.style, s.styleKnown = style.WithChar(' '), true

	if !known || prev.Attr != style.Attr {
		changed := prev.Attr ^ style.Attr
		if !known || changed&cell.AltCharset != 0 {
			if style.Attr&cell.AltCharset != 0 {
				d.w.WriteString(d.seq.so)
			} else {
				d.w.WriteString(d.seq.si)
			}
		}
		if !known || changed&^cell.AltCharset != 0 {
			d.w.WriteString(d.seq.esc)
			d.w.WriteByte('[')
			for _, p := range cell.AttributeParams {
				if style.Attr&p.Attr != 0 {
					d.w.WriteByte(';')
					writeInt(d.w, p.Param)
				}
			}
			d.w.WriteByte('m')
			prev.Fg, prev.Bg = cell.DefaultColour, cell.DefaultColour
		}
	}

	if prev.Fg != style.Fg {
		d.seq.writeColour(d.w, '3', int(style.Fg))
	}
	if prev.Bg != style.Bg {
		d.seq.writeColour(d.w, '4', int(style.Bg))
	}
}

func (d *Driver) writeGlyph(c cell.Cell) {
	if c.IsLineGraphic() {
		d.w.WriteByte(lineGlyphs[c.Ch])
		return
	}
	if c.Ch < 0x80 && c.Ch >= 0 {
		d.w.WriteByte(byte(c.Ch))
		return
	}
	d.w.WriteRune(c.Ch)
}
