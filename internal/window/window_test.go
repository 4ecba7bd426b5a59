package window

import (
	"math/rand"
	"testing"

	"github.com/Gaurav-Gosain/twin/internal/cell"
)

func newRoot(t *testing.T, rows, cols int) (*Tree, *Window) {
	t.Helper()
	tree := NewTree()
	w, err := tree.New(NoWindow, "root", cell.Coordinate{}, cell.Coordinate{Row: rows, Column: cols})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tree, w
}

func mustDamage(t *testing.T, w *Window) cell.Region {
	t.Helper()
	region, ok := w.Damage()
	if !ok {
		t.Fatalf("window %q has no damage", w.Name())
	}
	return region
}

func TestNewWindowIsBlankAndClean(t *testing.T) {
	_, w := newRoot(t, 3, 4)

	if w.Damaged() {
		t.Error("new window should not be damaged")
	}
	if !w.Visible() {
		t.Error("new window should be visible")
	}
	if w.Style() != cell.Blank {
		t.Errorf("expected blank style, got %+v", w.Style())
	}
	if w.Cursor() != (cell.Coordinate{}) {
		t.Errorf("expected cursor at origin, got %v", w.Cursor())
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			if got, _ := w.Cell(r, c); got != cell.Blank {
				t.Fatalf("cell (%d,%d) = %+v, want blank", r, c, got)
			}
		}
	}
}

func TestNewRejectsInvalidSize(t *testing.T) {
	tree := NewTree()
	if _, err := tree.New(NoWindow, "neg", cell.Coordinate{}, cell.Coordinate{Row: -1, Column: 3}); err == nil {
		t.Error("negative size should fail")
	}
	if _, err := tree.New(NoWindow, "huge", cell.Coordinate{}, cell.Coordinate{Row: MaxCells, Column: 2}); err == nil {
		t.Error("oversized window should fail")
	}
	if _, err := tree.New(Handle{index: 7}, "orphan", cell.Coordinate{}, cell.Coordinate{Row: 1, Column: 1}); err == nil {
		t.Error("unknown parent should fail")
	}
}

func TestSetCellBounds(t *testing.T) {
	_, w := newRoot(t, 4, 6)
	x := cell.Blank.WithChar('x')

	tests := []struct {
		name     string
		row, col int
		want     bool
	}{
		{"origin", 0, 0, true},
		{"last cell", 3, 5, true},
		{"row equals rows", 4, 0, false},
		{"column equals columns", 0, 6, false},
		{"negative row", -1, 0, false},
		{"negative column", 0, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.SetCell(tt.row, tt.col, x); got != tt.want {
				t.Errorf("SetCell(%d, %d) = %v, want %v", tt.row, tt.col, got, tt.want)
			}
		})
	}

	region := mustDamage(t, w)
	want := cell.Region{Min: cell.Coordinate{0, 0}, Max: cell.Coordinate{3, 5}}
	if region != want {
		t.Errorf("out of bounds writes leaked into damage: got %v, want %v", region, want)
	}
}

func TestZeroSizedWindowNeverDamaged(t *testing.T) {
	_, w := newRoot(t, 0, 5)
	if w.SetCell(0, 0, cell.Blank.WithChar('x')) {
		t.Error("zero-row window accepted a write")
	}
	w.Box(0, 0, 3, 3)
	w.Invalidate()
	if w.Damaged() {
		t.Error("zero-row window should never be damaged")
	}
}

func TestDamageIsBoundingBoxOfChanges(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial++ {
		_, w := newRoot(t, 12, 20)
		var box cell.Region
		changed := false

		for i := 0; i < 1+rng.Intn(8); i++ {
			r, c := rng.Intn(12), rng.Intn(20)
			v := cell.Cell{Fg: cell.Colour(rng.Intn(16)), Bg: cell.DefaultColour, Ch: rune('a' + i)}
			before, _ := w.Cell(r, c)
			w.SetCell(r, c, v)
			if before == v {
				continue
			}
			p := cell.Coordinate{Row: r, Column: c}
			if !changed {
				box = cell.Region{Min: p, Max: p}
				changed = true
			} else {
				box = box.Extend(p)
			}
		}

		region, ok := w.Damage()
		if ok != changed {
			t.Fatalf("trial %d: damaged = %v, expected %v", trial, ok, changed)
		}
		if ok && region != box {
			t.Fatalf("trial %d: damage %v, expected bounding box %v", trial, region, box)
		}
	}
}

func TestSetCellIdempotent(t *testing.T) {
	_, w := newRoot(t, 10, 10)
	x := cell.Blank.WithChar('x')

	w.SetCell(2, 2, x)
	w.ResetDamage()

	if !w.SetCell(2, 2, x) {
		t.Fatal("rewriting the same value should succeed")
	}
	if w.Damaged() {
		t.Error("rewriting the same value should not damage")
	}

	// Writing a blank over a blank is also a no-op.
	w.SetCell(9, 9, cell.Blank)
	if w.Damaged() {
		t.Error("writing blank over blank should not damage")
	}
}

func TestClearDoesNotDamage(t *testing.T) {
	_, w := newRoot(t, 3, 3)
	w.SetCell(1, 1, cell.Blank.WithChar('x'))
	w.ResetDamage()

	w.Clear()
	if w.Damaged() {
		t.Error("Clear should not touch damage")
	}
	if got, _ := w.Cell(1, 1); got != cell.Blank {
		t.Errorf("Clear left %+v behind", got)
	}
}

func TestInvalidateDamagesWholeWindow(t *testing.T) {
	_, w := newRoot(t, 4, 7)
	w.Invalidate()
	want := cell.Region{Max: cell.Coordinate{Row: 3, Column: 6}}
	if got := mustDamage(t, w); got != want {
		t.Errorf("Invalidate damage = %v, want %v", got, want)
	}
}

func TestPutTextTruncates(t *testing.T) {
	_, w := newRoot(t, 1, 5)
	w.MoveCursor(0, 0)
	w.PutText("root-demo")

	if got := w.Dump()[0]; got != "root-" {
		t.Errorf("expected %q, got %q", "root-", got)
	}
	if w.Cursor().Column != 5 {
		t.Errorf("expected cursor column 5, got %d", w.Cursor().Column)
	}
}

func TestPutTextUsesStyleAndAdvances(t *testing.T) {
	_, w := newRoot(t, 2, 10)
	style := cell.Cell{Fg: 2, Bg: cell.DefaultColour, Attr: cell.Bold}
	w.SetStyle(style)
	w.MoveCursor(1, 2)
	w.PutText("ab")
	w.Printf("%d", 42)

	if got := w.Dump()[1]; got != "  ab42    " {
		t.Errorf("unexpected row %q", got)
	}
	if got, _ := w.Cell(1, 3); got != style.WithChar('b') {
		t.Errorf("cell (1,3) = %+v", got)
	}
	if w.Cursor() != (cell.Coordinate{Row: 1, Column: 6}) {
		t.Errorf("cursor = %v", w.Cursor())
	}
}

func TestBoxGlyphs(t *testing.T) {
	_, w := newRoot(t, 3, 4)
	w.Box(0, 0, 3, 4)

	want := []string{
		"┌──┐",
		"│  │",
		"└──┘",
	}
	got := w.Dump()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: got %q, want %q", i, got[i], want[i])
		}
	}

	corner, _ := w.Cell(0, 0)
	if corner.Attr&cell.AltCharset == 0 || corner.Ch != cell.LineRight|cell.LineDown {
		t.Errorf("top-left corner = %+v", corner)
	}
}

func TestBoxDamage(t *testing.T) {
	_, w := newRoot(t, 10, 10)
	w.Box(2, 2, 4, 6)

	want := cell.Region{Min: cell.Coordinate{Row: 2, Column: 2}, Max: cell.Coordinate{Row: 5, Column: 7}}
	if got := mustDamage(t, w); got != want {
		t.Errorf("box damage = %v, want %v", got, want)
	}
}

func TestLineJunctionMerge(t *testing.T) {
	_, w := newRoot(t, 5, 5)
	w.HLine(2, 0, 5)
	w.VLine(0, 2, 5)

	got, _ := w.Cell(2, 2)
	want := cell.LineUp | cell.LineRight | cell.LineDown | cell.LineLeft
	if got.Ch != want {
		t.Errorf("junction code = %#x, want %#x", got.Ch, want)
	}
}

func TestLineDifferentStyleOverwrites(t *testing.T) {
	_, w := newRoot(t, 5, 5)
	w.HLine(2, 0, 5)

	w.SetStyle(cell.Cell{Fg: 3, Bg: cell.DefaultColour, Attr: cell.Normal, Ch: ' '})
	w.VLine(0, 2, 5)

	got, _ := w.Cell(2, 2)
	if got.Ch != cell.VerticalLine.Mid {
		t.Errorf("expected plain vertical segment, got %#x", got.Ch)
	}
	if got.Fg != 3 {
		t.Errorf("expected new style, got fg %d", got.Fg)
	}
}

func TestLineOverLiteralReplaces(t *testing.T) {
	_, w := newRoot(t, 1, 3)
	w.MoveCursor(0, 0)
	w.PutText("abc")
	w.HLine(0, 0, 3)
	if got := w.Dump()[0]; got != "╶─╴" {
		t.Errorf("got %q", got)
	}
}

func TestNegativeLengthLines(t *testing.T) {
	_, w := newRoot(t, 4, 6)
	w.HLine(1, 5, -3)
	if got := w.Dump()[1]; got != "   ╶─╴" {
		t.Errorf("reversed hline: got %q", got)
	}

	w.VLine(3, 0, -3)
	rows := w.Dump()
	col := []rune{[]rune(rows[0])[0], []rune(rows[1])[0], []rune(rows[2])[0], []rune(rows[3])[0]}
	if string(col) != " ╷│╵" {
		t.Errorf("reversed vline: got %q", string(col))
	}
}

func TestZeroLengthLineDrawsNothing(t *testing.T) {
	_, w := newRoot(t, 3, 3)
	w.HLine(1, 1, 0)
	w.VLine(1, 1, 0)
	if w.Damaged() {
		t.Error("zero-length lines should not damage")
	}
}

func TestBoxClipsOffWindow(t *testing.T) {
	_, w := newRoot(t, 5, 5)
	w.Box(-1, -1, 3, 3)

	rows := w.Dump()
	if rows[0] != " │   " || rows[1] != "─┘   " {
		t.Errorf("clipped box rows: %q %q", rows[0], rows[1])
	}
	want := cell.Region{Max: cell.Coordinate{Row: 1, Column: 1}}
	if got := mustDamage(t, w); got != want {
		t.Errorf("clipped box damage = %v, want %v", got, want)
	}
}
