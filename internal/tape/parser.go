package tape

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Gaurav-Gosain/twin/internal/cell"
)

// Parser parses .tape files into commands
type Parser struct {
	lexer  *Lexer
	curTok Token
	errors []string
}

// NewParser creates a new parser from a lexer
func NewParser(l *Lexer) *Parser {
	p := &Parser{
		lexer:  l,
		errors: []string{},
	}
	p.nextToken()
	return p
}

// nextToken advances to the next token
func (p *Parser) nextToken() {
	p.curTok = p.lexer.NextToken()
}

// Parse parses the entire tape file and returns all commands. Lines with
// errors are skipped; see Errors.
func (p *Parser) Parse() []Command {
	var commands []Command

	for p.curTok.Type != TOKEN_EOF {
		// Skip newlines
		if p.curTok.Type == TOKEN_NEWLINE {
			p.nextToken()
			continue
		}

		cmd, ok := p.parseCommand()
		if !ok {
			p.skipToNextLine()
			continue
		}

		commands = append(commands, cmd)
	}

	return commands
}

// parseCommand parses a single command line
func (p *Parser) parseCommand() (Command, bool) {
	sig, ok := commandForToken[p.curTok.Type]
	if !ok {
		p.addError(fmt.Sprintf("unexpected token %v %q", p.curTok.Type, p.curTok.Literal))
		return Command{}, false
	}

	cmd := Command{Type: sig.cmd, Line: p.curTok.Line}
	p.nextToken()

	for _, kind := range sig.args {
		if !p.parseArg(&cmd, kind) {
			return cmd, false
		}
		p.nextToken()
	}

	if sig.attrs {
		for p.curTok.Type == TOKEN_IDENTIFIER {
			if _, ok := cell.ParseAttr(p.curTok.Literal); !ok {
				p.addError(fmt.Sprintf("%s: unknown attribute %q", cmd.Type, p.curTok.Literal))
				return cmd, false
			}
			cmd.Args = append(cmd.Args, p.curTok.Literal)
			p.nextToken()
		}
	}

	if p.curTok.Type != TOKEN_NEWLINE && p.curTok.Type != TOKEN_EOF {
		p.addError(fmt.Sprintf("%s: unexpected %v %q", cmd.Type, p.curTok.Type, p.curTok.Literal))
		return cmd, false
	}
	return cmd, true
}

// parseArg checks the current token against kind and stores its value
func (p *Parser) parseArg(cmd *Command, kind argKind) bool {
	tok := p.curTok
	switch kind {
	case argName:
		if tok.Type == TOKEN_IDENTIFIER || tok.Type == TOKEN_STRING {
			cmd.Args = append(cmd.Args, tok.Literal)
			return true
		}
		p.addError(fmt.Sprintf("%s expects a window name, got %v", cmd.Type, tok.Type))

	case argString:
		if tok.Type == TOKEN_STRING {
			cmd.Args = append(cmd.Args, tok.Literal)
			return true
		}
		p.addError(fmt.Sprintf("%s expects a string, got %v", cmd.Type, tok.Type))

	case argInt, argColour:
		if tok.Type != TOKEN_NUMBER {
			p.addError(fmt.Sprintf("%s expects a number, got %v", cmd.Type, tok.Type))
			return false
		}
		n, err := strconv.Atoi(tok.Literal)
		if err != nil {
			p.addError(fmt.Sprintf("%s: invalid number %q", cmd.Type, tok.Literal))
			return false
		}
		if kind == argColour && (n < 0 || n > 255) {
			p.addError(fmt.Sprintf("%s: colour %d out of range 0-255", cmd.Type, n))
			return false
		}
		cmd.Ints = append(cmd.Ints, n)
		return true

	case argDuration:
		if tok.Type != TOKEN_DURATION {
			p.addError(fmt.Sprintf("%s expects a duration, got %v", cmd.Type, tok.Type))
			return false
		}
		d, err := ParseDuration(tok.Literal)
		if err != nil {
			p.addError(fmt.Sprintf("invalid duration: %s", tok.Literal))
			return false
		}
		cmd.Delay = d
		return true
	}
	return false
}

// skipToNextLine skips tokens until the start of the next line
func (p *Parser) skipToNextLine() {
	for p.curTok.Type != TOKEN_NEWLINE && p.curTok.Type != TOKEN_EOF {
		p.nextToken()
	}
}

// addError adds an error to the parser's error list
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: %s", p.curTok.Line, msg))
}

// Errors returns the list of parser errors
func (p *Parser) Errors() []string {
	return p.errors
}

// ParseFile parses content and returns the commands and any errors
func ParseFile(content string) ([]Command, []string) {
	p := NewParser(NewLexer(content))
	commands := p.Parse()
	return commands, p.Errors()
}

// Parse parses content, failing if any line is invalid.
func Parse(content string) ([]Command, error) {
	commands, msgs := ParseFile(content)
	if len(msgs) > 0 {
		errs := make([]error, len(msgs))
		for i, m := range msgs {
			errs[i] = errors.New(m)
		}
		return nil, errors.Join(errs...)
	}
	return commands, nil
}
