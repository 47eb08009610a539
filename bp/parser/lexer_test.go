package parser

import (
	"errors"
	"math"
	"testing"
)

func lexAll(t *testing.T, input string) ([]Token, error) {
	t.Helper()
	lexer := NewLexer([]byte(input), "test.bp")
	var toks []Token
	for lexer.Next() != TokenEOF {
		toks = append(toks, lexer.Token())
		if len(toks) > 1000 {
			t.Fatalf("lexer did not terminate on %q", input)
		}
	}
	return toks, lexer.Err()
}

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexerNewLexer(t *testing.T) {
	lexer := NewLexer([]byte("class Foo"), "Test.bp")
	pos := lexer.Position()

	if pos.File != "Test.bp" {
		t.Errorf("File = %q, want %q", pos.File, "Test.bp")
	}
	if pos.Line != 1 || pos.Column != 1 || pos.Offset != 0 {
		t.Errorf("Position = %+v, want line 1 column 1 offset 0", pos)
	}
	if lexer.Current() != TokenEOF {
		t.Errorf("Current() before Next = %v, want EOF", lexer.Current())
	}
}

func TestLexerKeywords(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"i32", TokenI32},
		{"f32", TokenF32},
		{"bool", TokenBool},
		{"char", TokenChar},
		{"void", TokenVoid},
		{"true", TokenTrue},
		{"false", TokenFalse},
		{"class", TokenClass},
		{"if", TokenIf},
		{"else", TokenElse},
		{"while", TokenWhile},
		{"public", TokenPublic},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.bp")
			kind := lexer.Next()
			if kind != tt.kind {
				t.Errorf("Kind = %v, want %v", kind, tt.kind)
			}
			if lexer.Current() != tt.kind {
				t.Errorf("Current() = %v, want %v", lexer.Current(), tt.kind)
			}
			if lexer.Token().Literal != tt.input {
				t.Errorf("Literal = %q, want %q", lexer.Token().Literal, tt.input)
			}
		})
	}
}

func TestLexerIdentifiers(t *testing.T) {
	tests := []string{
		"foo",
		"Bar",
		"camelCase",
		"with123Numbers",
		"i64",
		"classy",
		"If",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			lexer := NewLexer([]byte(input), "test.bp")
			if kind := lexer.Next(); kind != TokenIdent {
				t.Errorf("Kind = %v, want %v", kind, TokenIdent)
			}
			if lexer.IdentName() != input {
				t.Errorf("IdentName() = %q, want %q", lexer.IdentName(), input)
			}
		})
	}
}

func TestLexerIdentifierPushesBackSeparator(t *testing.T) {
	toks, err := lexAll(t, "foo(bar)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []TokenKind{TokenIdent, '(', TokenIdent, ')'}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if toks[1].Span.Start.Column != 4 {
		t.Errorf("'(' column = %d, want 4", toks[1].Span.Start.Column)
	}
}

func TestLexerPunctuation(t *testing.T) {
	toks, err := lexAll(t, "( ) { } ; : , = < > ! & | + - * / %")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []TokenKind{'(', ')', '{', '}', ';', ':', ',', '=', '<', '>', '!', '&', '|', '+', '-', '*', '/', '%'}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexerMultiCharOperatorsAreSplit(t *testing.T) {
	toks, err := lexAll(t, "<= == != && ||")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []TokenKind{'<', '=', '=', '=', '!', '=', '&', '&', '|', '|'}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexerIntegerLiteral(t *testing.T) {
	lexer := NewLexer([]byte("123"), "test.bp")
	if kind := lexer.Next(); kind != TokenIntLiteral {
		t.Fatalf("Kind = %v, want %v", kind, TokenIntLiteral)
	}
	if lexer.IntValue() != 123 {
		t.Errorf("IntValue() = %d, want 123", lexer.IntValue())
	}
	if lexer.Int64Value() != 123 {
		t.Errorf("Int64Value() = %d, want 123", lexer.Int64Value())
	}
}

func TestLexerIntegerLiteralWraps(t *testing.T) {
	lexer := NewLexer([]byte("9223372036854775808"), "test.bp")
	lexer.Next()
	if lexer.Int64Value() != math.MinInt64 {
		t.Errorf("Int64Value() = %d, want %d", lexer.Int64Value(), int64(math.MinInt64))
	}

	lexer = NewLexer([]byte("4294967297"), "test.bp")
	lexer.Next()
	if lexer.IntValue() != 1 {
		t.Errorf("IntValue() = %d, want 1", lexer.IntValue())
	}
}

func TestLexerFloatLiteral(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"3.14", 3.14},
		{"0.5", 0.5},
		{".5", 0.5},
		{"2.", 2},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.bp")
			if kind := lexer.Next(); kind != TokenFloatLiteral {
				t.Fatalf("Kind = %v, want %v", kind, TokenFloatLiteral)
			}
			if math.Abs(lexer.FloatValue()-tt.want) > 1e-12 {
				t.Errorf("FloatValue() = %v, want %v", lexer.FloatValue(), tt.want)
			}
		})
	}
}

func TestLexerSecondDecimalPointIsError(t *testing.T) {
	lexer := NewLexer([]byte("1.2.3"), "test.bp")
	if kind := lexer.Next(); kind != TokenEOF {
		t.Errorf("Kind = %v, want EOF", kind)
	}
	var lexErr *LexError
	if !errors.As(lexer.Err(), &lexErr) {
		t.Fatalf("Err() = %v, want *LexError", lexer.Err())
	}
	if lexErr.Pos.Column != 1 {
		t.Errorf("error column = %d, want 1", lexErr.Pos.Column)
	}
	if kind := lexer.Next(); kind != TokenEOF {
		t.Errorf("Next after error = %v, want EOF", kind)
	}
}

func TestLexerLoneDotIsPunctuation(t *testing.T) {
	lexer := NewLexer([]byte(". x"), "test.bp")
	if kind := lexer.Next(); kind != '.' {
		t.Errorf("Kind = %v, want '.'", kind)
	}
}

func TestLexerCharLiteral(t *testing.T) {
	tests := []struct {
		input string
		want  byte
	}{
		{`'a'`, 'a'},
		{`'Z'`, 'Z'},
		{`' '`, ' '},
		{`'\n'`, '\n'},
		{`'\t'`, '\t'},
		{`'\0'`, 0},
		{`'\\'`, '\\'},
		{`'\''`, '\''},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.bp")
			if kind := lexer.Next(); kind != TokenCharLiteral {
				t.Fatalf("Kind = %v, want %v (err %v)", kind, TokenCharLiteral, lexer.Err())
			}
			if lexer.CharValue() != tt.want {
				t.Errorf("CharValue() = %q, want %q", lexer.CharValue(), tt.want)
			}
		})
	}
}

func TestLexerBadCharLiterals(t *testing.T) {
	tests := []string{`''`, `'a`, `'ab'`, `'\q'`, "'\n'"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			lexer := NewLexer([]byte(input), "test.bp")
			if kind := lexer.Next(); kind != TokenEOF {
				t.Errorf("Kind = %v, want EOF", kind)
			}
			if lexer.Err() == nil {
				t.Errorf("expected a lexical error")
			}
		})
	}
}

func TestLexerBoolValue(t *testing.T) {
	lexer := NewLexer([]byte("true false"), "test.bp")
	lexer.Next()
	if !lexer.BoolValue() {
		t.Errorf("BoolValue() = false after true")
	}
	lexer.Next()
	if lexer.BoolValue() {
		t.Errorf("BoolValue() = true after false")
	}
}

func TestLexerAccessorsGuardKind(t *testing.T) {
	lexer := NewLexer([]byte("foo"), "test.bp")
	lexer.Next()
	if lexer.IntValue() != 0 || lexer.FloatValue() != 0 || lexer.CharValue() != 0 {
		t.Errorf("payload accessors returned non-zero values for an identifier")
	}

	lexer = NewLexer([]byte("42"), "test.bp")
	lexer.Next()
	if lexer.IdentName() != "" {
		t.Errorf("IdentName() = %q for an integer literal", lexer.IdentName())
	}
}

func TestLexerComments(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"line comment", "a // comment\n42"},
		{"line comment at eof", "a 42 // trailing"},
		{"block comment", "a /* comment */ 42"},
		{"block comment with stars", "a /** ** **/ 42"},
		{"multi-line block comment", "a /* one\ntwo\n*/42"},
		{"adjacent block comment", "a/**/42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := lexAll(t, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(toks) != 2 {
				t.Fatalf("got %d tokens %v, want 2", len(toks), kinds(toks))
			}
			if toks[0].Kind != TokenIdent || toks[0].Literal != "a" {
				t.Errorf("first token = %v %q, want identifier a", toks[0].Kind, toks[0].Literal)
			}
			if toks[1].Kind != TokenIntLiteral || toks[1].Int != 42 {
				t.Errorf("second token = %v %d, want integer 42", toks[1].Kind, toks[1].Int)
			}
		})
	}
}

func TestLexerSlashIsDivision(t *testing.T) {
	toks, err := lexAll(t, "a / b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := kinds(toks)
	if len(got) != 3 || got[1] != '/' {
		t.Errorf("got %v, want [Identifier '/' Identifier]", got)
	}
}

func TestLexerUnterminatedBlockComment(t *testing.T) {
	toks, err := lexAll(t, "a /* never closed")
	if len(toks) != 1 {
		t.Errorf("got %d tokens, want 1", len(toks))
	}
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("Err() = %v, want *LexError", err)
	}
	if lexErr.Pos.Column != 3 {
		t.Errorf("error column = %d, want 3", lexErr.Pos.Column)
	}
}

func TestLexerPositions(t *testing.T) {
	toks, err := lexAll(t, "class Foo\n  : Bar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []struct {
		line, col int
	}{
		{1, 1}, {1, 7}, {2, 3}, {2, 5},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, w := range want {
		pos := toks[i].Span.Start
		if pos.Line != w.line || pos.Column != w.col {
			t.Errorf("token %d at %d:%d, want %d:%d", i, pos.Line, pos.Column, w.line, w.col)
		}
	}
	if end := toks[1].Span.End; end.Column != 10 {
		t.Errorf("Foo ends at column %d, want 10", end.Column)
	}
}

func TestLexerUnreadSingleSlot(t *testing.T) {
	lexer := NewLexer([]byte("ab"), "test.bp")
	lexer.read()
	lexer.read()
	lexer.Unread()
	lexer.Unread()
	if pos := lexer.Position(); pos.Offset != 1 {
		t.Errorf("Offset after double Unread = %d, want 1", pos.Offset)
	}
}

func TestLexerEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   \n\t ", "// only a comment"} {
		lexer := NewLexer([]byte(input), "test.bp")
		if kind := lexer.Next(); kind != TokenEOF {
			t.Errorf("Next() on %q = %v, want EOF", input, kind)
		}
		if lexer.Err() != nil {
			t.Errorf("Err() on %q = %v, want nil", input, lexer.Err())
		}
	}
}
