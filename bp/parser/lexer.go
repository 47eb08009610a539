package parser

import (
	"strconv"
)

// Lexer turns a source buffer into tokens on demand. It holds the whole
// buffer and a cursor; the current token and its payload are replaced by
// every call to Next.
type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int

	// last is the cursor before the most recent read, restored by Unread.
	last      Position
	canUnread bool

	tok Token
	err error
}

func NewLexer(input []byte, file string) *Lexer {
	l := &Lexer{
		input:  input,
		file:   file,
		pos:    0,
		line:   1,
		column: 1,
	}
	l.tok = Token{Kind: TokenEOF, Span: Span{Start: l.Position(), End: l.Position()}}
	return l
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

// Current returns the most recently produced token kind without consuming
// input.
func (l *Lexer) Current() TokenKind {
	return l.tok.Kind
}

// Token returns a snapshot of the current token and its payload.
func (l *Lexer) Token() Token {
	return l.tok
}

// Err returns the lexical error that forced the end of the token stream, or
// nil.
func (l *Lexer) Err() error {
	return l.err
}

// IntValue returns the current integer literal narrowed to 32 bits.
func (l *Lexer) IntValue() int32 {
	if l.tok.Kind != TokenIntLiteral {
		return 0
	}
	return int32(l.tok.Int)
}

// Int64Value returns the current integer literal as scanned.
func (l *Lexer) Int64Value() int64 {
	if l.tok.Kind != TokenIntLiteral {
		return 0
	}
	return l.tok.Int
}

func (l *Lexer) FloatValue() float64 {
	if l.tok.Kind != TokenFloatLiteral {
		return 0
	}
	return l.tok.Float
}

func (l *Lexer) BoolValue() bool {
	return l.tok.Kind == TokenTrue
}

func (l *Lexer) CharValue() byte {
	if l.tok.Kind != TokenCharLiteral {
		return 0
	}
	return l.tok.Char
}

func (l *Lexer) IdentName() string {
	if l.tok.Kind != TokenIdent {
		return ""
	}
	return l.tok.Literal
}

func (l *Lexer) peek() (byte, bool) {
	if l.pos >= len(l.input) {
		return 0, false
	}
	return l.input[l.pos], true
}

func (l *Lexer) read() (byte, bool) {
	l.last = l.Position()
	l.canUnread = true
	if l.pos >= len(l.input) {
		return 0, false
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch, true
}

// Unread moves the cursor back by the one character consumed by the last
// read. It only undoes a single read; further calls are no-ops until the
// next read.
func (l *Lexer) Unread() {
	if !l.canUnread {
		return
	}
	l.pos = l.last.Offset
	l.line = l.last.Line
	l.column = l.last.Column
	l.canUnread = false
}

// Next consumes input up to and including the next token and returns its
// kind. After a lexical error every call returns TokenEOF.
func (l *Lexer) Next() TokenKind {
	if l.err != nil {
		return l.emit(TokenEOF, l.Position())
	}
	for {
		ch, ok := l.read()
		for ok && isSpace(ch) {
			ch, ok = l.read()
		}
		start := l.last
		if !ok {
			return l.emit(TokenEOF, start)
		}

		switch {
		case isAlpha(ch):
			return l.scanWord(start)
		case isDigit(ch):
			return l.scanNumber(start, false)
		case ch == '.':
			if next, ok := l.peek(); ok && isDigit(next) {
				return l.scanNumber(start, true)
			}
		case ch == '\'':
			return l.scanChar(start)
		case ch == '/':
			next, ok := l.read()
			if ok && next == '/' {
				l.skipLineComment()
				continue
			}
			if ok && next == '*' {
				if !l.skipBlockComment() {
					return l.fail(start, "unterminated block comment")
				}
				continue
			}
			l.Unread()
		}
		return l.emit(TokenKind(ch), start)
	}
}

func (l *Lexer) scanWord(start Position) TokenKind {
	for {
		ch, ok := l.read()
		if !ok {
			break
		}
		if !isAlnum(ch) {
			l.Unread()
			break
		}
	}
	kind := LookupKeyword(string(l.input[start.Offset:l.pos]))
	return l.emit(kind, start)
}

func (l *Lexer) scanNumber(start Position, seenDot bool) TokenKind {
	for {
		ch, ok := l.read()
		if !ok {
			break
		}
		if ch == '.' {
			if seenDot {
				return l.fail(start, "malformed number: second '.' in numeric literal")
			}
			seenDot = true
			continue
		}
		if !isDigit(ch) {
			l.Unread()
			break
		}
	}

	literal := l.input[start.Offset:l.pos]
	if seenDot {
		// Out-of-range literals saturate to ±Inf; the text is always
		// well-formed here.
		value, _ := strconv.ParseFloat(string(literal), 64)
		kind := l.emit(TokenFloatLiteral, start)
		l.tok.Float = value
		return kind
	}

	var value int64
	for _, d := range literal {
		value = value*10 + int64(d-'0')
	}
	kind := l.emit(TokenIntLiteral, start)
	l.tok.Int = value
	return kind
}

func (l *Lexer) scanChar(start Position) TokenKind {
	ch, ok := l.read()
	if !ok || ch == '\n' {
		return l.fail(start, "unterminated char literal")
	}
	if ch == '\'' {
		return l.fail(start, "empty char literal")
	}
	if ch == '\\' {
		esc, ok := l.read()
		if !ok {
			return l.fail(start, "unterminated char literal")
		}
		switch esc {
		case 'n':
			ch = '\n'
		case 't':
			ch = '\t'
		case 'r':
			ch = '\r'
		case '0':
			ch = 0
		case '\\', '\'':
			ch = esc
		default:
			return l.fail(start, "unknown escape sequence '\\"+string(rune(esc))+"'")
		}
	}
	if closing, ok := l.read(); !ok || closing != '\'' {
		return l.fail(start, "unterminated char literal")
	}
	kind := l.emit(TokenCharLiteral, start)
	l.tok.Char = ch
	return kind
}

func (l *Lexer) skipLineComment() {
	for {
		ch, ok := l.read()
		if !ok || ch == '\n' {
			return
		}
	}
}

func (l *Lexer) skipBlockComment() bool {
	var prev byte
	for {
		ch, ok := l.read()
		if !ok {
			return false
		}
		if prev == '*' && ch == '/' {
			return true
		}
		prev = ch
	}
}

func (l *Lexer) emit(kind TokenKind, start Position) TokenKind {
	end := l.Position()
	l.tok = Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
	return kind
}

func (l *Lexer) fail(start Position, msg string) TokenKind {
	l.err = &LexError{Pos: start, Message: msg}
	return l.emit(TokenEOF, l.Position())
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\v' || ch == '\f'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isAlnum(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}
