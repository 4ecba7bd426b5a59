package tape

// TokenType represents the type of a token in a .tape file
type TokenType string

const (
	// Special tokens
	TOKEN_EOF     TokenType = "EOF"
	TOKEN_ILLEGAL TokenType = "ILLEGAL"
	TOKEN_NEWLINE TokenType = "NEWLINE"

	// Literals
	TOKEN_STRING     TokenType = "STRING"
	TOKEN_NUMBER     TokenType = "NUMBER"
	TOKEN_DURATION   TokenType = "DURATION"
	TOKEN_IDENTIFIER TokenType = "IDENTIFIER"

	// Commands - Windows
	TOKEN_WINDOW TokenType = "Window"
	TOKEN_SELECT TokenType = "Select"
	TOKEN_FREE   TokenType = "Free"
	TOKEN_SHOW   TokenType = "Show"
	TOKEN_HIDE   TokenType = "Hide"
	TOKEN_ATTACH TokenType = "Attach"
	TOKEN_DETACH TokenType = "Detach"

	// Commands - Drawing
	TOKEN_CURSOR     TokenType = "Cursor"
	TOKEN_TEXT       TokenType = "Text"
	TOKEN_STYLE      TokenType = "Style"
	TOKEN_BOX        TokenType = "Box"
	TOKEN_HLINE      TokenType = "HLine"
	TOKEN_VLINE      TokenType = "VLine"
	TOKEN_CLEAR      TokenType = "Clear"
	TOKEN_INVALIDATE TokenType = "Invalidate"

	// Commands - Output
	TOKEN_COMPOSE TokenType = "Compose"
	TOKEN_SYNC    TokenType = "Sync"
	TOKEN_REDRAW  TokenType = "Redraw"

	// Commands - Timing
	TOKEN_SLEEP TokenType = "Sleep"
)

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// IsCommand returns true if the token type is a command
func (tt TokenType) IsCommand() bool {
	_, ok := commandForToken[tt]
	return ok
}

// KeywordTokenMap maps string keywords to token types
var KeywordTokenMap = map[string]TokenType{
	// Windows
	"Window": TOKEN_WINDOW,
	"Select": TOKEN_SELECT,
	"Free":   TOKEN_FREE,
	"Show":   TOKEN_SHOW,
	"Hide":   TOKEN_HIDE,
	"Attach": TOKEN_ATTACH,
	"Detach": TOKEN_DETACH,

	// Drawing
	"Cursor":     TOKEN_CURSOR,
	"Text":       TOKEN_TEXT,
	"Style":      TOKEN_STYLE,
	"Box":        TOKEN_BOX,
	"HLine":      TOKEN_HLINE,
	"VLine":      TOKEN_VLINE,
	"Clear":      TOKEN_CLEAR,
	"Invalidate": TOKEN_INVALIDATE,

	// Output
	"Compose": TOKEN_COMPOSE,
	"Sync":    TOKEN_SYNC,
	"Redraw":  TOKEN_REDRAW,

	// Timing
	"Sleep": TOKEN_SLEEP,
}

// LookupKeyword returns the token type for a keyword, or TOKEN_IDENTIFIER if not a keyword
func LookupKeyword(ident string) TokenType {
	if tt, ok := KeywordTokenMap[ident]; ok {
		return tt
	}
	return TOKEN_IDENTIFIER
}
