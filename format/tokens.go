package format

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dhamidi/blueprint/bp/parser"
)

// TokenText returns the canonical source spelling of tok. Lexing the result
// yields a token of the same kind and payload.
func TokenText(tok parser.Token) string {
	switch tok.Kind {
	case parser.TokenEOF:
		return ""
	case parser.TokenIdent:
		return tok.Literal
	case parser.TokenIntLiteral:
		return intText(tok.Int)
	case parser.TokenFloatLiteral:
		return floatText(tok.Float)
	case parser.TokenCharLiteral:
		return charText(tok.Char)
	}
	if tok.Kind.IsPunct() {
		return string(rune(tok.Kind))
	}
	return tok.Kind.String()
}

// CanonicalTokens re-serializes toks as source text, one space between
// tokens. The halves of a two-character operator that touched in the source
// stay together, so the text parses the same as the original.
func CanonicalTokens(toks []parser.Token) string {
	var b strings.Builder
	for i, tok := range toks {
		if tok.Kind == parser.TokenEOF {
			break
		}
		if i > 0 && !joinsOperator(toks[i-1], tok) {
			b.WriteByte(' ')
		}
		b.WriteString(TokenText(tok))
	}
	return b.String()
}

// joinsOperator reports whether prev and tok are the adjacent halves of one
// of <= >= == != && ||.
func joinsOperator(prev, tok parser.Token) bool {
	if prev.Span.End.Offset <= prev.Span.Start.Offset || prev.Span.End.Offset != tok.Span.Start.Offset {
		return false
	}
	switch prev.Kind {
	case '<', '>', '=', '!':
		return tok.Kind == '='
	case '&':
		return tok.Kind == '&'
	case '|':
		return tok.Kind == '|'
	}
	return false
}

// TokenWriter prints one line per token: position, kind and canonical text.
type TokenWriter struct {
	w         io.Writer
	Positions bool
}

func NewTokenWriter(w io.Writer) *TokenWriter {
	return &TokenWriter{w: w}
}

// WriteAll lexes input to the end and writes every token, including the
// final EOF. A lexical error is returned after the tokens before it have
// been written.
func (tw *TokenWriter) WriteAll(input []byte, file string) error {
	lexer := parser.NewLexer(input, file)
	for {
		kind := lexer.Next()
		if err := tw.Write(lexer.Token()); err != nil {
			return err
		}
		if kind == parser.TokenEOF {
			return lexer.Err()
		}
	}
}

func (tw *TokenWriter) Write(tok parser.Token) error {
	line := fmt.Sprintf("%-14s %s", tok.Kind, TokenText(tok))
	if tw.Positions {
		line = fmt.Sprintf("%-8s %s", tok.Span.Start, line)
	}
	_, err := fmt.Fprintln(tw.w, strings.TrimRight(line, " "))
	return err
}

// intText prints v so that the lexer's wrapping accumulation reads it back
// as the same int64.
func intText(v int64) string {
	return strconv.FormatUint(uint64(v), 10)
}

// floatText always contains a '.' so the text lexes as a float literal.
func floatText(v float64) string {
	if math.IsInf(v, 1) {
		// Larger than any float64; the lexer saturates it back to +Inf.
		return "1" + strings.Repeat("0", 309) + ".0"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func charText(c byte) string {
	switch c {
	case '\n':
		return `'\n'`
	case '\t':
		return `'\t'`
	case '\r':
		return `'\r'`
	case 0:
		return `'\0'`
	case '\\':
		return `'\\'`
	case '\'':
		return `'\''`
	}
	return "'" + string([]byte{c}) + "'"
}
