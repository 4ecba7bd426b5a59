package tape

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Recorder captures the commands a program executes as a replayable tape.
// Gaps between recorded commands become Sleep commands.
type Recorder struct {
	commands      []Command
	startTime     time.Time
	lastEventTime time.Time
	enabled       bool
	minDelay      time.Duration // Shorter gaps are not recorded as sleeps
	now           func() time.Time
}

// NewRecorder creates a new tape recorder
func NewRecorder() *Recorder {
	r := &Recorder{
		minDelay: 10 * time.Millisecond,
		now:      time.Now,
	}
	r.startTime = r.now()
	r.lastEventTime = r.startTime
	return r
}

// Start begins recording
func (r *Recorder) Start() {
	r.enabled = true
	r.startTime = r.now()
	r.lastEventTime = r.startTime
	r.commands = nil
}

// Stop ends recording
func (r *Recorder) Stop() {
	r.enabled = false
}

// IsRecording returns whether recording is active
func (r *Recorder) IsRecording() bool {
	return r.enabled
}

// Record appends cmd, preceded by a Sleep covering the time since the
// previous command.
func (r *Recorder) Record(cmd Command) {
	if !r.enabled {
		return
	}
	now := r.now()
	if delay := now.Sub(r.lastEventTime).Round(time.Millisecond); delay >= r.minDelay {
		r.commands = append(r.commands, Command{
			Type:  CommandType_Sleep,
			Delay: delay,
			Line:  len(r.commands) + 1,
		})
	}
	cmd.Line = len(r.commands) + 1
	r.commands = append(r.commands, cmd)
	r.lastEventTime = now
}

// GetCommands returns all recorded commands
func (r *Recorder) GetCommands() []Command {
	return r.commands
}

// CommandCount returns the number of recorded commands
func (r *Recorder) CommandCount() int {
	return len(r.commands)
}

// String returns the tape content, optionally preceded by a comment header.
func (r *Recorder) String(header string) string {
	var sb strings.Builder
	if header != "" {
		fmt.Fprintf(&sb, "# %s\n", header)
		fmt.Fprintf(&sb, "# Recorded: %s\n\n", r.startTime.Format(time.RFC3339))
	}
	sb.WriteString(Format(r.commands))
	return sb.String()
}

// WriteToFile saves the recorded tape to a file
func (r *Recorder) WriteToFile(filename string, header string) error {
	return os.WriteFile(filename, []byte(r.String(header)), 0o644)
}

// RecordingStats contains statistics about the recording
type RecordingStats struct {
	CommandCount int
	Duration     time.Duration
	IsRecording  bool
}

// GetStats returns recording statistics
func (r *Recorder) GetStats() RecordingStats {
	return RecordingStats{
		CommandCount: len(r.commands),
		Duration:     r.now().Sub(r.startTime),
		IsRecording:  r.enabled,
	}
}

// Clear clears all recorded commands
func (r *Recorder) Clear() {
	r.commands = nil
	r.startTime = r.now()
	r.lastEventTime = r.startTime
}
