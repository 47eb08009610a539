package grammar

import (
	"bytes"
	"errors"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/dhamidi/blueprint/bp/parser"
	"github.com/dhamidi/blueprint/format"
)

func TestLoad(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, name := range []string{Start, "Class", "Method", "Statement", "Expression", "identifier"} {
		if g[name] == nil {
			t.Errorf("production %s missing", name)
		}
	}
}

func TestLoadDefinesOnlyWrittenProductions(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var want []string
	for _, m := range regexp.MustCompile(`(?m)^([A-Za-z]\w*)\s*=`).FindAllStringSubmatch(string(Source()), -1) {
		want = append(want, m[1])
	}
	var got []string
	for name := range g {
		got = append(got, name)
	}
	slices.Sort(want)
	slices.Sort(got)
	if !slices.Equal(got, want) {
		t.Errorf("productions = %v, want %v", got, want)
	}
}

func TestGrammarMentionsEveryKeyword(t *testing.T) {
	src := string(Source())
	for _, kw := range []string{"i32", "f32", "bool", "char", "void", "true", "false", "class", "if", "else", "while", "public"} {
		if parser.LookupKeyword(kw) == parser.TokenIdent {
			t.Fatalf("%s is not a keyword", kw)
		}
		if !strings.Contains(src, `"`+kw+`"`) {
			t.Errorf("grammar never uses keyword %s", kw)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		start string
		want  string
	}{
		{"syntax", `Program = "a" `, "", "expected"},
		{"undefined", `Program = Missing .`, "Program", "missing production Missing"},
		{"unused", "Program = \"a\" .\nOther = \"b\" .", "Program", "unused"},
		{"no start", `Program = "a" .`, "Main", "no start production Main"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("test.ebnf", []byte(tt.src), tt.start)
			if err == nil {
				t.Fatalf("Parse succeeded")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestNewRecognizerErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unbound lexical", "Program = word .\nword = \"a\" { \"a\" } .", `no token kind for lexical production "word"`},
		{"range", `Program = "a" … "z" .`, "character range outside a lexical production"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Parse("test.ebnf", []byte(tt.src), "")
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			_, err = NewRecognizer(g, "Program")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to contain %q", err, tt.want)
			}
		})
	}

	g, _ := Parse("test.ebnf", []byte(`Program = "a" .`), "")
	if _, err := NewRecognizer(g, "Main"); err == nil {
		t.Errorf("missing start production accepted")
	}
}

func TestRecognizeSmallGrammar(t *testing.T) {
	g, err := Parse("test.ebnf", []byte(`
		List  = "[" [ Items ] "]" .
		Items = identifier { "," identifier } .
		identifier = "a" … "z" .
	`), "List")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r, err := NewRecognizer(g, "List")
	if err != nil {
		t.Fatalf("NewRecognizer: %v", err)
	}

	tests := []struct {
		input string
		ok    bool
	}{
		{"[]", true},
		{"[a]", true},
		{"[a, b, c]", true},
		{"[a,]", false},
		{"[a b]", false},
		{"[", false},
		{"", false},
	}
	for _, tt := range tests {
		err := r.Recognize([]byte(tt.input), "t")
		if (err == nil) != tt.ok {
			t.Errorf("Recognize(%q) = %v, want ok=%v", tt.input, err, tt.ok)
		}
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		line    int
		column  int
		message string
	}{
		{
			name:    "missing semicolon",
			input:   "class A : B { public void m() { x = 1 } }",
			line:    1,
			column:  39,
			message: "';'",
		},
		{
			name:    "end of input",
			input:   "class A : B {",
			line:    1,
			column:  14,
			message: "'public'",
		},
		{
			name:    "void variable",
			input:   "class A : B {\n  public void m() { void x = 1; }\n}",
			line:    2,
			column:  21,
			message: "token not allowed by grammar",
		},
		{
			name:    "spaced operator",
			input:   "a < = b",
			line:    1,
			column:  5,
			message: "token not allowed by grammar",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check([]byte(tt.input), "x.bp")
			var syntaxErr *parser.SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("err = %v, want a SyntaxError", err)
			}
			if syntaxErr.Pos.Line != tt.line || syntaxErr.Pos.Column != tt.column {
				t.Errorf("position = %d:%d, want %d:%d", syntaxErr.Pos.Line, syntaxErr.Pos.Column, tt.line, tt.column)
			}
			if !strings.Contains(syntaxErr.Message, tt.message) {
				t.Errorf("Message = %q, want it to contain %q", syntaxErr.Message, tt.message)
			}
		})
	}
}

func TestCheckLexError(t *testing.T) {
	err := Check([]byte("class A : B { public void m() { f32 x = 1.2.3; } }"), "x.bp")
	var lexErr *parser.LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("err = %v, want a LexError", err)
	}
}

// corpus mixes inputs the parser accepts with inputs it rejects. The
// grammar must agree on every one.
var corpus = []string{
	"",
	"class A : B { }",
	"class A : B, C, D { }",
	"class A : B { public void m() { } public void n(i32 a, f32 b, bool c, char d) { } }",
	"class A : B { public void m() { i32 x = 1 + 2 * 3; f32 y = .5; char c = '\\n'; bool b = !true; } }",
	"class A : B { public void m() { x = (a + b) * -c % 4; } }",
	"class A : B { public void m() { if (a <= b && c != d || !e) x = 1; else { y = 2; } } }",
	"class A : B { public void m() { if (a) if (b) x = 1; else x = 2; } }",
	"class A : B { public void m() { while (i < 10) { i = i + 1; } } }",
	"class A : B { public void m() { { { } } } }",
	"class A : B { public void m(void v) { } }",
	"1 + 2; class A : B { } (x) == y",
	"true false 'c'",
	"a == --b",
	"// comment\nclass A : B { /* block */ }",

	"class",
	"class A B { }",
	"class A : { }",
	"class A : B, { }",
	"class A : B { void m() { } }",
	"class A : B { public i32 m() { } }",
	"class A : B { public void m( { } }",
	"class A : B { public void m(i32) { } }",
	"class A : B { public void m(i32 a,) { } }",
	"class A : B { public void m() { void x = 1; } }",
	"class A : B { public void m() { x == 1; } }",
	"class A : B { public void m() { x = ; } }",
	"class A : B { public void m() { if x { } } }",
	"class A : B { public void m() { while (x) } }",
	"class A : B { public void m() { else { } } }",
	"-1",
	"!a",
	"a = 1;",
	"a < = b",
	"a & b",
	"(a",
	"a + ",
	";",
	"class A : B { } }",
}

func TestRecognizerAgreesWithParser(t *testing.T) {
	for _, src := range corpus {
		_, parseErr := parser.New([]byte(src)).ParseProgram()
		checkErr := Check([]byte(src), "x.bp")
		if (parseErr == nil) != (checkErr == nil) {
			t.Errorf("%q: parser error = %v, grammar error = %v", src, parseErr, checkErr)
		}
	}
}

func TestFormattedSourceMatchesGrammar(t *testing.T) {
	for _, src := range corpus {
		prog, err := parser.New([]byte(src)).ParseProgram()
		if err != nil {
			continue
		}
		var buf bytes.Buffer
		if err := format.NewSourcePrinter(&buf).Encode(prog); err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if err := Check(buf.Bytes(), "formatted.bp"); err != nil {
			t.Errorf("formatted %q rejected: %v\n%s", src, err, buf.String())
		}
	}
}
