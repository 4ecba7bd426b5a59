package terminal

import (
	"io"
	"os"
)

// ResetTerminal writes a best-effort restore sequence to w. It does not
// consult any driver state, so it is safe to call after a panic.
func ResetTerminal(w io.Writer) {
	seq := newSequences(false)
	// Back to the G0 character set
	io.WriteString(w, seq.si)
	// Reset all text attributes
	io.WriteString(w, seq.esc+"[0m")
	// Show cursor
	io.WriteString(w, seq.esc+"[?25h")
	// Exit alternate screen buffer
	io.WriteString(w, seq.close)
	// Ensure clean line ending
	io.WriteString(w, "\r\n")
	if f, ok := w.(*os.File); ok {
		_ = f.Sync()
	}
}
