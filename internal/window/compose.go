package window

import "github.com/Gaurav-Gosain/twin/internal/cell"

// Compose copies the damaged cells of src and of every visible descendant
// into dst, translated by offset plus each window's position. Copies go
// through dst.SetCell, so they damage dst. A source's damage is reset once
// it has been copied. Children are visited even when src itself is clean,
// since damage may sit arbitrarily deep in the tree.
func (t *Tree) Compose(dst, src *Window, offset cell.Coordinate) {
	if !src.Visible() {
		return
	}
	origin := offset.Add(src.geometry.Position)
	if region, ok := src.Damage(); ok && src != dst {
		for r := region.Min.Row; r <= region.Max.Row; r++ {
			for c := region.Min.Column; c <= region.Max.Column; c++ {
				dst.SetCell(origin.Row+r, origin.Column+c, src.frame[src.geometry.Offset(r, c)])
			}
		}
		src.ResetDamage()
	}
	for child := range t.Children(src) {
		t.Compose(dst, child, origin)
	}
}
