package tape

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CommandType represents the type of a tape command
type CommandType string

const (
	// Windows
	CommandType_Window CommandType = "Window"
	CommandType_Select CommandType = "Select"
	CommandType_Free   CommandType = "Free"
	CommandType_Show   CommandType = "Show"
	CommandType_Hide   CommandType = "Hide"
	CommandType_Attach CommandType = "Attach"
	CommandType_Detach CommandType = "Detach"

	// Drawing
	CommandType_Cursor     CommandType = "Cursor"
	CommandType_Text       CommandType = "Text"
	CommandType_Style      CommandType = "Style"
	CommandType_Box        CommandType = "Box"
	CommandType_HLine      CommandType = "HLine"
	CommandType_VLine      CommandType = "VLine"
	CommandType_Clear      CommandType = "Clear"
	CommandType_Invalidate CommandType = "Invalidate"

	// Output
	CommandType_Compose CommandType = "Compose"
	CommandType_Sync    CommandType = "Sync"
	CommandType_Redraw  CommandType = "Redraw"

	// Timing
	CommandType_Sleep CommandType = "Sleep"
)

// argKind is the kind of a positional command argument.
type argKind int

const (
	argName     argKind = iota // window name: identifier or string
	argInt                     // signed integer
	argColour                  // integer 0-255
	argString                  // quoted string
	argDuration                // duration literal
)

// signature describes the arguments a command takes. Commands with attrs
// accept any number of trailing attribute names.
type signature struct {
	cmd   CommandType
	args  []argKind
	attrs bool
}

var commandForToken = map[TokenType]signature{
	TOKEN_WINDOW: {cmd: CommandType_Window, args: []argKind{argName, argInt, argInt, argInt, argInt}},
	TOKEN_SELECT: {cmd: CommandType_Select, args: []argKind{argName}},
	TOKEN_FREE:   {cmd: CommandType_Free, args: []argKind{argName}},
	TOKEN_SHOW:   {cmd: CommandType_Show, args: []argKind{argName}},
	TOKEN_HIDE:   {cmd: CommandType_Hide, args: []argKind{argName}},
	TOKEN_ATTACH: {cmd: CommandType_Attach, args: []argKind{argName, argName}},
	TOKEN_DETACH: {cmd: CommandType_Detach, args: []argKind{argName}},

	TOKEN_CURSOR:     {cmd: CommandType_Cursor, args: []argKind{argInt, argInt}},
	TOKEN_TEXT:       {cmd: CommandType_Text, args: []argKind{argString}},
	TOKEN_STYLE:      {cmd: CommandType_Style, args: []argKind{argColour, argColour}, attrs: true},
	TOKEN_BOX:        {cmd: CommandType_Box, args: []argKind{argInt, argInt, argInt, argInt}},
	TOKEN_HLINE:      {cmd: CommandType_HLine, args: []argKind{argInt, argInt, argInt}},
	TOKEN_VLINE:      {cmd: CommandType_VLine, args: []argKind{argInt, argInt, argInt}},
	TOKEN_CLEAR:      {cmd: CommandType_Clear},
	TOKEN_INVALIDATE: {cmd: CommandType_Invalidate},

	TOKEN_COMPOSE: {cmd: CommandType_Compose},
	TOKEN_SYNC:    {cmd: CommandType_Sync},
	TOKEN_REDRAW:  {cmd: CommandType_Redraw},

	TOKEN_SLEEP: {cmd: CommandType_Sleep, args: []argKind{argDuration}},
}

// Command represents a parsed tape command. Integer arguments are stored in
// Ints, text arguments (names, strings, attribute names) in Args, in source
// order within each slice.
type Command struct {
	Type  CommandType
	Args  []string
	Ints  []int
	Delay time.Duration // Sleep duration
	Line  int           // Source line number
}

// Arg returns the i-th text argument, or "".
func (c *Command) Arg(i int) string {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return ""
}

// String renders the command in tape syntax.
func (c *Command) String() string {
	var sb strings.Builder
	sb.WriteString(string(c.Type))

	switch c.Type {
	case CommandType_Sleep:
		sb.WriteByte(' ')
		sb.WriteString(c.Delay.String())
		return sb.String()
	case CommandType_Text:
		sb.WriteByte(' ')
		sb.WriteString(strconv.Quote(c.Arg(0)))
		return sb.String()
	case CommandType_Style:
		for _, n := range c.Ints {
			sb.WriteByte(' ')
			sb.WriteString(strconv.Itoa(n))
		}
		for _, a := range c.Args {
			sb.WriteByte(' ')
			sb.WriteString(a)
		}
		return sb.String()
	}

	for _, a := range c.Args {
		sb.WriteByte(' ')
		sb.WriteString(strconv.Quote(a))
	}
	for _, n := range c.Ints {
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(n))
	}
	return sb.String()
}

// Format renders commands as a tape script, one command per line.
func Format(commands []Command) string {
	var sb strings.Builder
	for i := range commands {
		sb.WriteString(commands[i].String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseDuration parses a duration string (e.g., "500ms", "1s")
func ParseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}

// check reports commands whose arguments do not match their signature, so
// hand-built commands fail instead of panicking.
func (c *Command) check() error {
	for _, sig := range commandForToken {
		if sig.cmd != c.Type {
			continue
		}
		ints, texts := 0, 0
		for _, kind := range sig.args {
			switch kind {
			case argInt, argColour:
				ints++
			case argName, argString:
				texts++
			}
		}
		if len(c.Ints) != ints || len(c.Args) < texts || (!sig.attrs && len(c.Args) != texts) {
			return fmt.Errorf("%s: want %d numbers and %d names, got %d and %d",
				c.Type, ints, texts, len(c.Ints), len(c.Args))
		}
		return nil
	}
	return fmt.Errorf("unknown command %q", c.Type)
}
