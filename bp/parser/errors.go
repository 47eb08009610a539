package parser

import (
	"fmt"
	"strings"
)

// LexError reports malformed input found while scanning. The lexer stops
// producing tokens after the first one.
type LexError struct {
	Pos     Position
	Message string
}

func (e *LexError) Error() string {
	return e.Pos.String() + ": " + e.Message
}

// SyntaxError reports a token that does not fit the grammar at the point it
// was found.
type SyntaxError struct {
	Pos      Position
	Message  string
	Expected []TokenKind
	Got      Token
}

func (e *SyntaxError) Error() string {
	msg := e.Pos.String() + ": " + e.Message
	if len(e.Expected) > 0 {
		names := make([]string, len(e.Expected))
		for i, k := range e.Expected {
			names[i] = k.String()
		}
		msg += fmt.Sprintf(" (expected %s", strings.Join(names, " or "))
		msg += ", got " + describe(e.Got) + ")"
	} else if e.Got.Kind != 0 {
		msg += " (got " + describe(e.Got) + ")"
	}
	return msg
}

func describe(tok Token) string {
	switch tok.Kind {
	case TokenEOF:
		return "end of input"
	case TokenIdent, TokenIntLiteral, TokenFloatLiteral, TokenCharLiteral:
		return tok.Kind.String() + " " + tok.Literal
	}
	return tok.Kind.String()
}

// Warning is a non-fatal diagnostic recorded in lenient mode.
type Warning struct {
	Pos     Position
	Message string
}

func (w Warning) String() string {
	return w.Pos.String() + ": " + w.Message
}
