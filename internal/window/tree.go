package window

import (
	"errors"
	"fmt"
	"iter"

	"github.com/Gaurav-Gosain/twin/internal/cell"
)

// MaxCells bounds a single window buffer.
const MaxCells = 1 << 24

var (
	// ErrInvalidSize is returned for negative or oversized windows.
	ErrInvalidSize = errors.New("invalid window size")
	// ErrUnknownWindow is returned for handles that do not name a live window.
	ErrUnknownWindow = errors.New("unknown window")
)

// Handle addresses a window in a Tree. Handles of freed windows never
// resolve again, even after their slot is reused.
type Handle struct {
	index int32
	gen   uint32
}

// NoWindow is the nil handle.
var NoWindow = Handle{index: -1}

// Valid reports whether h could name a window.
func (h Handle) Valid() bool { return h.index >= 0 }

func (h Handle) String() string {
	if !h.Valid() {
		return "none"
	}
	return fmt.Sprintf("#%d.%d", h.index, h.gen)
}

type slot struct {
	win *Window
	gen uint32
}

// Tree is an arena owning a forest of windows. Parent, child and sibling
// links are handles into the arena.
type Tree struct {
	slots []slot
	free  []int32
	live  int
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{}
}

// New creates a window at position (relative to parent) with size rows and
// columns, filled with blank cells. With a valid parent the window is
// appended to the parent's children; NoWindow creates a root.
func (t *Tree) New(parent Handle, name string, position, size cell.Coordinate) (*Window, error) {
	if size.Row < 0 || size.Column < 0 {
		return nil, fmt.Errorf("%w: %d rows, %d columns", ErrInvalidSize, size.Row, size.Column)
	}
	if size.Row > 0 && size.Column > MaxCells/size.Row {
		return nil, fmt.Errorf("%w: %d x %d exceeds %d cells", ErrInvalidSize, size.Row, size.Column, MaxCells)
	}
	var p *Window
	if parent.Valid() {
		if p = t.Get(parent); p == nil {
			return nil, fmt.Errorf("parent %v: %w", parent, ErrUnknownWindow)
		}
	}

	w := newWindow(name, position, size)
	w.handle = t.alloc(w)
	if p != nil {
		t.link(p, w)
	}
	return w, nil
}

func (t *Tree) alloc(w *Window) Handle {
	t.live++
	if n := len(t.free); n > 0 {
		index := t.free[n-1]
		t.free = t.free[:n-1]
		s := &t.slots[index]
		s.win = w
		return Handle{index: index, gen: s.gen}
	}
	t.slots = append(t.slots, slot{win: w})
	return Handle{index: int32(len(t.slots) - 1)}
}

// Get returns the window named by h, or nil.
func (t *Tree) Get(h Handle) *Window {
	if !h.Valid() || int(h.index) >= len(t.slots) {
		return nil
	}
	s := t.slots[h.index]
	if s.win == nil || s.gen != h.gen {
		return nil
	}
	return s.win
}

// Len returns the number of live windows.
func (t *Tree) Len() int { return t.live }

// Lookup returns the first live window called name.
func (t *Tree) Lookup(name string) *Window {
	for _, s := range t.slots {
		if s.win != nil && s.win.name == name {
			return s.win
		}
	}
	return nil
}

// All iterates over every live window in slot order.
func (t *Tree) All() iter.Seq[*Window] {
	return func(yield func(*Window) bool) {
		for _, s := range t.slots {
			if s.win != nil && !yield(s.win) {
				return
			}
		}
	}
}

// Parent returns w's parent, or nil for a root.
func (t *Tree) Parent(w *Window) *Window {
	return t.Get(w.parent)
}

// Children iterates over w's children in attachment order.
func (t *Tree) Children(w *Window) iter.Seq[*Window] {
	return func(yield func(*Window) bool) {
		for c := t.Get(w.child); c != nil; c = t.Get(c.sibling) {
			if !yield(c) {
				return
			}
		}
	}
}

// Attach appends child to parent's children, detaching it from any previous
// parent first.
func (t *Tree) Attach(parent, child Handle) error {
	p, c := t.Get(parent), t.Get(child)
	if p == nil || c == nil {
		return fmt.Errorf("attach %v to %v: %w", child, parent, ErrUnknownWindow)
	}
	for a := p; a != nil; a = t.Get(a.parent) {
		if a == c {
			return fmt.Errorf("attach %v to its own descendant %v", child, parent)
		}
	}
	t.unlink(c)
	t.link(p, c)
	return nil
}

// Detach removes child from its parent, leaving it as a root.
func (t *Tree) Detach(child Handle) error {
	c := t.Get(child)
	if c == nil {
		return fmt.Errorf("detach %v: %w", child, ErrUnknownWindow)
	}
	t.unlink(c)
	return nil
}

// Free unlinks the window named by h and releases it together with every
// descendant. It returns the number of windows released.
func (t *Tree) Free(h Handle) int {
	w := t.Get(h)
	if w == nil {
		return 0
	}
	t.unlink(w)
	return t.release(w)
}

func (t *Tree) release(w *Window) int {
	n := 1
	for c := t.Get(w.child); c != nil; {
		next := t.Get(c.sibling)
		n += t.release(c)
		c = next
	}
	s := &t.slots[w.handle.index]
	s.win = nil
	s.gen++
	t.free = append(t.free, w.handle.index)
	t.live--
	w.release()
	return n
}

func (t *Tree) link(p, w *Window) {
	w.parent = p.handle
	w.sibling = NoWindow
	last := t.Get(p.child)
	if last == nil {
		p.child = w.handle
		return
	}
	for next := t.Get(last.sibling); next != nil; next = t.Get(last.sibling) {
		last = next
	}
	last.sibling = w.handle
}

func (t *Tree) unlink(w *Window) {
	p := t.Get(w.parent)
	if p == nil {
		w.parent = NoWindow
		return
	}
	if p.child == w.handle {
		p.child = w.sibling
	} else {
		for c := t.Get(p.child); c != nil; c = t.Get(c.sibling) {
			if c.sibling == w.handle {
				c.sibling = w.sibling
				break
			}
		}
	}
	w.parent = NoWindow
	w.sibling = NoWindow
}
