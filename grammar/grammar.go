// Package grammar carries the EBNF description of blueprint source and an
// Earley recognizer that checks token streams against it. The recognizer
// is independent of the hand-written parser in bp/parser, which makes it
// useful for cross-checking the two.
package grammar

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/dhamidi/blueprint/bp/parser"
	"github.com/tliron/commonlog"
	"golang.org/x/exp/ebnf"
)

// Start is the production a whole source file must match.
const Start = "Program"

//go:embed blueprint.ebnf
var source []byte

var log = commonlog.GetLogger("bp.grammar")

// lexicalKinds binds the lexical productions referenced from syntactic
// ones to the token kinds the lexer produces for them.
var lexicalKinds = map[string]parser.TokenKind{
	"identifier":   parser.TokenIdent,
	"intLiteral":   parser.TokenIntLiteral,
	"floatLiteral": parser.TokenFloatLiteral,
	"charLiteral":  parser.TokenCharLiteral,
}

// Source returns the grammar text.
func Source() []byte {
	return bytes.Clone(source)
}

// Load parses and verifies the built-in grammar.
func Load() (ebnf.Grammar, error) {
	return Parse("blueprint.ebnf", source, Start)
}

// Parse parses an EBNF grammar and verifies it from start. An empty start
// only checks the syntax.
func Parse(filename string, src []byte, start string) (ebnf.Grammar, error) {
	g, err := ebnf.Parse(filename, bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	if start != "" {
		if err := ebnf.Verify(g, start); err != nil {
			return nil, err
		}
	}
	return g, nil
}

var defaultRecognizer = sync.OnceValues(func() (*Recognizer, error) {
	g, err := Load()
	if err != nil {
		return nil, fmt.Errorf("load grammar: %w", err)
	}
	return NewRecognizer(g, Start)
})

// Check lexes input and reports whether the built-in grammar accepts it.
func Check(input []byte, file string) error {
	r, err := defaultRecognizer()
	if err != nil {
		return err
	}
	return r.Recognize(input, file)
}
