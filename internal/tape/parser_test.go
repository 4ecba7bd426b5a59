package tape

import (
	"slices"
	"strings"
	"testing"
	"time"
)

const sampleScript = `# framed root with a sampler
Box 0 0 10 40
Window sampler 2 3 5 20
Style 2 9 Bold Underline
Cursor 1 1
Text "Bold text"
HLine 4 0 -20
Select root
Sleep 250ms
Sync
`

func TestParseScript(t *testing.T) {
	commands, errs := ParseFile(sampleScript)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	want := []Command{
		{Type: CommandType_Box, Ints: []int{0, 0, 10, 40}, Line: 2},
		{Type: CommandType_Window, Args: []string{"sampler"}, Ints: []int{2, 3, 5, 20}, Line: 3},
		{Type: CommandType_Style, Args: []string{"Bold", "Underline"}, Ints: []int{2, 9}, Line: 4},
		{Type: CommandType_Cursor, Ints: []int{1, 1}, Line: 5},
		{Type: CommandType_Text, Args: []string{"Bold text"}, Line: 6},
		{Type: CommandType_HLine, Ints: []int{4, 0, -20}, Line: 7},
		{Type: CommandType_Select, Args: []string{"root"}, Line: 8},
		{Type: CommandType_Sleep, Delay: 250 * time.Millisecond, Line: 9},
		{Type: CommandType_Sync, Line: 10},
	}

	if len(commands) != len(want) {
		t.Fatalf("Expected %d commands, got %d: %v", len(want), len(commands), commands)
	}
	for i, w := range want {
		if !sameCommand(commands[i], w) {
			t.Errorf("command %d: got %+v, want %+v", i, commands[i], w)
		}
	}
}

func sameCommand(a, b Command) bool {
	return a.Type == b.Type && a.Line == b.Line && a.Delay == b.Delay &&
		slices.Equal(a.Args, b.Args) && slices.Equal(a.Ints, b.Ints)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"missing argument", "Box 1 2 3", "expects a number"},
		{"extra argument", "Sync now", "unexpected"},
		{"colour out of range", "Style 300 0", "out of range"},
		{"unknown attribute", "Style 1 2 Sparkly", "unknown attribute"},
		{"unknown command", "Teleport 3", "unexpected token"},
		{"name must be a word", "Select 12", "expects a window name"},
		{"text must be quoted", "Text hello", "expects a string"},
		{"unterminated string", `Text "open`, "expects a string"},
		{"sleep needs a duration", "Sleep 5", "expects a duration"},
		{"bad duration unit", "Sleep 5parsecs", "invalid duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commands, errs := ParseFile(tt.input)
			if len(commands) != 0 {
				t.Errorf("Expected no commands, got %v", commands)
			}
			if len(errs) != 1 {
				t.Fatalf("Expected one error, got %v", errs)
			}
			if !strings.HasPrefix(errs[0], "line 1: ") || !strings.Contains(errs[0], tt.message) {
				t.Errorf("error %q does not mention %q", errs[0], tt.message)
			}
		})
	}
}

func TestParseRecoversAfterError(t *testing.T) {
	commands, errs := ParseFile("Box 1\nClear\nBogus 1 2\nSync\n")
	if len(errs) != 2 {
		t.Errorf("Expected 2 errors, got %v", errs)
	}
	if len(commands) != 2 || commands[0].Type != CommandType_Clear || commands[1].Type != CommandType_Sync {
		t.Errorf("Expected Clear and Sync, got %v", commands)
	}
	if errs[1] != `line 3: unexpected token IDENTIFIER "Bogus"` {
		t.Errorf("unexpected message %q", errs[1])
	}
}

func TestParseJoinsErrors(t *testing.T) {
	if _, err := Parse("Box\nHLine\n"); err == nil {
		t.Fatal("Expected an error")
	} else if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("joined error lacks the second line: %v", err)
	}

	commands, err := Parse(sampleScript)
	if err != nil || len(commands) != 9 {
		t.Errorf("Parse(sample) = %d commands, %v", len(commands), err)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	src := sampleScript + "Attach \"my window\" root\nText \"tab\\there\"\nStyle 0 255\n"
	commands, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	again, err := Parse(Format(commands))
	if err != nil {
		t.Fatalf("re-parse of %q: %v", Format(commands), err)
	}
	if len(again) != len(commands) {
		t.Fatalf("round trip changed length: %d -> %d", len(commands), len(again))
	}
	for i := range commands {
		a, b := commands[i], again[i]
		a.Line, b.Line = 0, 0
		if !sameCommand(a, b) {
			t.Errorf("command %d: %+v became %+v", i, commands[i], again[i])
		}
	}
}

func TestCommandString(t *testing.T) {
	tests := []struct {
		cmd  Command
		want string
	}{
		{Command{Type: CommandType_Window, Args: []string{"box"}, Ints: []int{1, 2, 3, 4}}, `Window "box" 1 2 3 4`},
		{Command{Type: CommandType_Style, Args: []string{"Bold"}, Ints: []int{1, 9}}, `Style 1 9 Bold`},
		{Command{Type: CommandType_Sleep, Delay: 1500 * time.Millisecond}, `Sleep 1.5s`},
		{Command{Type: CommandType_Text, Args: []string{`say "hi"`}}, `Text "say \"hi\""`},
		{Command{Type: CommandType_Redraw}, `Redraw`},
	}
	for _, tt := range tests {
		if got := tt.cmd.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
