package main

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/Gaurav-Gosain/twin/internal/cell"
	"github.com/Gaurav-Gosain/twin/internal/terminal"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

// newTable returns a rounded table with the shared header style.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return cellStyle
		})
}

// segments names the directions joined by a line-graphic code.
func segments(code rune) string {
	var parts []string
	for _, d := range []struct {
		bit  rune
		name string
	}{
		{cell.LineUp, "up"},
		{cell.LineRight, "right"},
		{cell.LineDown, "down"},
		{cell.LineLeft, "left"},
	} {
		if code&d.bit != 0 {
			parts = append(parts, d.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// glyphRows returns one table row per line-graphic code.
func glyphRows() [][]string {
	rows := make([][]string, 0, cell.LineCodes)
	for code := range rune(cell.LineCodes) {
		rows = append(rows, []string{
			fmt.Sprintf("0x%x", code),
			segments(code),
			string(cell.LinePreview[code]),
			string(rune(terminal.DECGlyph(code))),
		})
	}
	return rows
}

// printGlyphTable prints the line-graphic codes in a table
func printGlyphTable() {
	fmt.Println()
	fmt.Println(titleStyle.Render("Line graphics"))
	fmt.Println()
	fmt.Println(newTable("Code", "Segments", "Preview", "DEC").Rows(glyphRows()...).Render())
	fmt.Println()
	fmt.Println(noteStyle.Render("Codes OR together: a horizontal line crossed by a vertical one becomes a cross."))
	fmt.Println()
}
