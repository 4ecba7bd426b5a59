package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"charm.land/lipgloss/v2"

	"github.com/Gaurav-Gosain/twin/internal/vt"
)

var errReadableOutput = errors.New("output was written with --readable and cannot be decoded")

// decodeOutput replays recorded terminal output into an emulator of the
// given size.
func decodeOutput(r io.Reader, rows, cols int) (*vt.Emulator, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}
	if bytes.Contains(data, []byte("<esc>")) {
		return nil, errReadableOutput
	}
	e := vt.NewEmulator(rows, cols)
	if _, err := e.Write(data); err != nil {
		return nil, err
	}
	return e, nil
}

// inspectSize picks the screen size: the --size flag, or the configured
// fallback size the output was most likely rendered with.
func inspectSize(f *globalFlags, size string) (rows, cols int, err error) {
	if size != "" {
		return parseSize(size)
	}
	cfg, err := loadConfig(f)
	if err != nil {
		return 0, 0, err
	}
	if !cfg.HasFallback() {
		return 0, 0, errors.New("no size given: use --size or configure a fallback size")
	}
	return cfg.Terminal.FallbackRows, cfg.Terminal.FallbackColumns, nil
}

// renderScreen frames the decoded screen and adds a summary line.
func renderScreen(e *vt.Emulator) string {
	screen := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Render(e.String())

	size := e.Size()
	summary := fmt.Sprintf("%dx%d, %d cells written, %d sequences ignored", size.Row, size.Column, e.Printed(), e.Ignored())
	if e.IsAltScreen() {
		summary += ", still on the alternate screen"
	}
	return lipgloss.JoinVertical(lipgloss.Left, screen, noteStyle.Render(summary))
}

// inspectOutput prints the final screen of a file written with --output.
func inspectOutput(f *globalFlags, path, size string) error {
	rows, cols, err := inspectSize(f, size)
	if err != nil {
		return err
	}
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	e, err := decodeOutput(file, rows, cols)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fmt.Println(titleStyle.Render(path))
	fmt.Println(renderScreen(e))
	return nil
}
