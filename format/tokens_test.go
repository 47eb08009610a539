package format

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/dhamidi/blueprint/bp/ast"
	"github.com/dhamidi/blueprint/bp/parser"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func lex(t *testing.T, input string) []parser.Token {
	t.Helper()
	l := parser.NewLexer([]byte(input), "")
	var toks []parser.Token
	for l.Next() != parser.TokenEOF {
		toks = append(toks, l.Token())
	}
	if err := l.Err(); err != nil {
		t.Fatalf("lex(%q): %v", input, err)
	}
	return toks
}

// Literal and Span depend on spelling and layout; kind and payload must
// survive.
var tokenPayload = cmpopts.IgnoreFields(parser.Token{}, "Span", "Literal")

func TestTokenRoundTrip(t *testing.T) {
	inputs := []string{
		"class Foo : Application { public void bar() { } }",
		"i32 f32 bool char void true false if else while public",
		"0 7 123 2147483648 9223372036854775807 9223372036854775808 18446744073709551617",
		"3.14 0.5 .5 2. 1000000.0 0.000001 123456789.125",
		"'a' '\\n' '\\t' '\\r' '\\0' '\\\\' '\\'' ' '",
		"a<=b&&c||!d==e!=f%g",
		"( ) { } , ; : . @ # $",
		"x1 y22 Zed",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			want := lex(t, input)
			text := CanonicalTokens(want)
			got := lex(t, text)
			if diff := cmp.Diff(want, got, tokenPayload); diff != "" {
				t.Errorf("lex(print(lex(%q))) mismatch (-want +got):\n%s\nprinted: %s", input, diff, text)
			}
		})
	}
}

func TestCanonicalTokensText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a<=b&&c||d", "a <= b && c || d"},
		{"a < = b", "a < = b"},
		{"x=-1", "x = - 1"},
		{"a!=!b", "a != ! b"},
		{"a==(b)", "a == ( b )"},
		{"i32 x=1;", "i32 x = 1 ;"},
	}
	for _, tt := range tests {
		if got := CanonicalTokens(lex(t, tt.input)); got != tt.want {
			t.Errorf("CanonicalTokens(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCanonicalTokensParseLikeSource(t *testing.T) {
	inputs := []string{
		"a<=b&&c||!d==e!=f%g",
		"x>=1||y>2",
		"a < = b",
		"a & & b",
		"(a+b)*-c",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			want, wantErr := parser.New([]byte(input)).ParseExpr()
			text := CanonicalTokens(lex(t, input))
			got, gotErr := parser.New([]byte(text)).ParseExpr()
			if (wantErr == nil) != (gotErr == nil) {
				t.Fatalf("source error = %v, canonical error = %v (printed %q)", wantErr, gotErr, text)
			}
			if wantErr != nil {
				return
			}
			if diff := cmp.Diff(ast.Dump(want), ast.Dump(got)); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s\nprinted: %s", diff, text)
			}
		})
	}
}

func TestTokenText(t *testing.T) {
	tests := []struct {
		tok  parser.Token
		want string
	}{
		{parser.Token{Kind: parser.TokenIntLiteral, Int: 42}, "42"},
		{parser.Token{Kind: parser.TokenIntLiteral, Int: math.MinInt64}, "9223372036854775808"},
		{parser.Token{Kind: parser.TokenFloatLiteral, Float: 3}, "3.0"},
		{parser.Token{Kind: parser.TokenFloatLiteral, Float: 0.25}, "0.25"},
		{parser.Token{Kind: parser.TokenCharLiteral, Char: '\''}, `'\''`},
		{parser.Token{Kind: parser.TokenIdent, Literal: "foo"}, "foo"},
		{parser.Token{Kind: parser.TokenWhile}, "while"},
		{parser.Token{Kind: '{'}, "{"},
		{parser.Token{Kind: parser.TokenEOF}, ""},
	}
	for _, tt := range tests {
		if got := TokenText(tt.tok); got != tt.want {
			t.Errorf("TokenText(%v) = %q, want %q", tt.tok.Kind, got, tt.want)
		}
	}
}

func TestFloatTextInfinity(t *testing.T) {
	toks := lex(t, floatText(math.Inf(1)))
	if len(toks) != 1 || !math.IsInf(toks[0].Float, 1) {
		t.Errorf("infinity did not survive the round trip: %+v", toks)
	}
}

func TestTokenWriter(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTokenWriter(&buf)
	tw.Positions = true
	if err := tw.WriteAll([]byte("class A\n  42"), "a.bp"); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	want := strings.Join([]string{
		"a.bp:1:1 class          class",
		"a.bp:1:7 Identifier     A",
		"a.bp:2:3 IntLiteral     42",
		"a.bp:2:5 EOF",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenWriterStopsAtLexError(t *testing.T) {
	var buf bytes.Buffer
	err := NewTokenWriter(&buf).WriteAll([]byte("x 1.2.3 y"), "")
	var lexErr *parser.LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("err = %v, want *LexError", err)
	}
	if strings.Contains(buf.String(), "y") {
		t.Errorf("tokens after the error were written:\n%s", buf.String())
	}
}
