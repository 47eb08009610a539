package grammar

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/blueprint/bp/parser"
	"golang.org/x/exp/ebnf"
)

// symbol is one element of a rule's right-hand side. Terminals either
// match a token kind (identifiers and literals) or the exact spelling of a
// keyword or operator.
type symbol struct {
	name     string
	terminal bool
	kind     parser.TokenKind
}

func (s symbol) matches(t terminal) bool {
	if s.kind != 0 {
		return t.tok.Kind == s.kind
	}
	return t.text != "" && t.text == s.name
}

func (s symbol) String() string {
	switch {
	case s.kind != 0:
		return s.kind.String()
	case s.terminal:
		return "'" + s.name + "'"
	}
	return s.name
}

type rule struct {
	lhs string
	rhs []symbol
}

// Recognizer decides whether a token stream is a sentence of a grammar.
// The EBNF productions are flattened into plain rules up front; options,
// repetitions and groups become helper nonterminals.
type Recognizer struct {
	start    string
	rules    []rule
	byLHS    map[string][]int
	nullable map[string]bool
}

// NewRecognizer compiles the syntactic productions of g. Lexical
// productions referenced from them must be bound to a token kind.
func NewRecognizer(g ebnf.Grammar, start string) (*Recognizer, error) {
	if g[start] == nil {
		return nil, fmt.Errorf("production %q not found in grammar", start)
	}
	b := &builder{r: &Recognizer{start: start, byLHS: make(map[string][]int)}}

	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if isLexical(name) {
			continue
		}
		b.production(name, g[name].Expr)
	}
	if b.err != nil {
		return nil, b.err
	}

	b.r.computeNullable()
	log.Debugf("compiled %d rules from %d productions", len(b.r.rules), len(g))
	return b.r, nil
}

type builder struct {
	r     *Recognizer
	fresh int
	err   error
}

func (b *builder) add(lhs string, rhs []symbol) {
	b.r.byLHS[lhs] = append(b.r.byLHS[lhs], len(b.r.rules))
	b.r.rules = append(b.r.rules, rule{lhs: lhs, rhs: rhs})
}

func (b *builder) helper(kind string) string {
	b.fresh++
	return fmt.Sprintf("%s#%d", kind, b.fresh)
}

func (b *builder) fail(pos fmt.Stringer, format string, args ...any) {
	if b.err == nil {
		b.err = fmt.Errorf("%s: %s", pos, fmt.Sprintf(format, args...))
	}
}

// production adds one rule per alternative of expr.
func (b *builder) production(name string, expr ebnf.Expression) {
	if expr == nil {
		b.add(name, nil)
		return
	}
	if alt, ok := expr.(ebnf.Alternative); ok {
		for _, e := range alt {
			b.add(name, b.sequence(e))
		}
		return
	}
	b.add(name, b.sequence(expr))
}

func (b *builder) sequence(expr ebnf.Expression) []symbol {
	seq, ok := expr.(ebnf.Sequence)
	if !ok {
		return []symbol{b.symbol(expr)}
	}
	syms := make([]symbol, 0, len(seq))
	for _, e := range seq {
		syms = append(syms, b.symbol(e))
	}
	return syms
}

func (b *builder) symbol(expr ebnf.Expression) symbol {
	switch e := expr.(type) {
	case *ebnf.Name:
		if !isLexical(e.String) {
			return symbol{name: e.String}
		}
		kind, ok := lexicalKinds[e.String]
		if !ok {
			b.fail(e.Pos(), "no token kind for lexical production %q", e.String)
		}
		return symbol{name: e.String, terminal: true, kind: kind}
	case *ebnf.Token:
		return symbol{name: e.String, terminal: true}
	case *ebnf.Group:
		return b.symbol(e.Body)
	case ebnf.Sequence, ebnf.Alternative:
		name := b.helper("group")
		b.production(name, e)
		return symbol{name: name}
	case *ebnf.Option:
		name := b.helper("option")
		b.add(name, nil)
		b.production(name, e.Body)
		return symbol{name: name}
	case *ebnf.Repetition:
		name := b.helper("repeat")
		self := symbol{name: name}
		b.add(name, nil)
		if seq, ok := e.Body.(ebnf.Sequence); ok {
			b.add(name, append(b.sequence(seq), self))
		} else {
			b.add(name, []symbol{b.symbol(e.Body), self})
		}
		return self
	case *ebnf.Range:
		b.fail(e.Pos(), "character range outside a lexical production")
	default:
		b.fail(expr.Pos(), "unsupported expression %T", expr)
	}
	return symbol{}
}

func (r *Recognizer) computeNullable() {
	r.nullable = make(map[string]bool)
	for changed := true; changed; {
		changed = false
		for _, rl := range r.rules {
			if r.nullable[rl.lhs] {
				continue
			}
			empty := true
			for _, s := range rl.rhs {
				if s.terminal || !r.nullable[s.name] {
					empty = false
					break
				}
			}
			if empty {
				r.nullable[rl.lhs] = true
				changed = true
			}
		}
	}
}

// item is an Earley item: a rule, how much of it has been matched, and the
// chart position where matching started.
type item struct {
	rule   int
	dot    int
	origin int
}

type itemSet struct {
	items []item
	seen  map[item]bool
}

func (s *itemSet) add(it item) {
	if s.seen[it] {
		return
	}
	s.seen[it] = true
	s.items = append(s.items, it)
}

// Recognize lexes input and runs the Earley algorithm over the tokens. It
// returns the lexer's error for malformed input and a *parser.SyntaxError
// at the first token no sentence of the grammar can continue with.
func (r *Recognizer) Recognize(input []byte, file string) error {
	tokens, eof, err := tokenize(input, file)
	if err != nil {
		return err
	}

	n := len(tokens)
	chart := make([]itemSet, n+1)
	for i := range chart {
		chart[i].seen = make(map[item]bool)
	}
	for _, ri := range r.byLHS[r.start] {
		chart[0].add(item{rule: ri})
	}

	for i := 0; i <= n; i++ {
		set := &chart[i]
		for j := 0; j < len(set.items); j++ {
			it := set.items[j]
			rl := r.rules[it.rule]

			if it.dot == len(rl.rhs) {
				origin := &chart[it.origin]
				for k := 0; k < len(origin.items); k++ {
					waiting := origin.items[k]
					wr := r.rules[waiting.rule]
					if waiting.dot < len(wr.rhs) && !wr.rhs[waiting.dot].terminal && wr.rhs[waiting.dot].name == rl.lhs {
						set.add(item{rule: waiting.rule, dot: waiting.dot + 1, origin: waiting.origin})
					}
				}
				continue
			}

			next := rl.rhs[it.dot]
			if next.terminal {
				if i < n && next.matches(tokens[i]) {
					chart[i+1].add(item{rule: it.rule, dot: it.dot + 1, origin: it.origin})
				}
				continue
			}
			for _, ri := range r.byLHS[next.name] {
				set.add(item{rule: ri, origin: i})
			}
			if r.nullable[next.name] {
				set.add(item{rule: it.rule, dot: it.dot + 1, origin: it.origin})
			}
		}

		if i < n && len(chart[i+1].items) == 0 {
			return r.unexpected(set, tokens[i].tok)
		}
	}

	for _, it := range chart[n].items {
		rl := r.rules[it.rule]
		if rl.lhs == r.start && it.origin == 0 && it.dot == len(rl.rhs) {
			return nil
		}
	}
	return r.unexpected(&chart[n], eof)
}

func (r *Recognizer) unexpected(set *itemSet, got parser.Token) error {
	seen := make(map[string]bool)
	var expected []string
	for _, it := range set.items {
		rl := r.rules[it.rule]
		if it.dot == len(rl.rhs) || !rl.rhs[it.dot].terminal {
			continue
		}
		name := rl.rhs[it.dot].String()
		if !seen[name] {
			seen[name] = true
			expected = append(expected, name)
		}
	}
	sort.Strings(expected)

	msg := "token not allowed by grammar"
	if len(expected) > 0 {
		msg += ", expected one of " + strings.Join(expected, " ")
	}
	return &parser.SyntaxError{Pos: got.Span.Start, Message: msg, Got: got}
}

// terminal is a token as the grammar sees it. text is the spelling of
// keywords and operators and empty for identifiers and literals.
type terminal struct {
	tok  parser.Token
	text string
}

// compoundOps are the operators the lexer delivers as two adjacent
// single-character tokens.
var compoundOps = map[string]bool{
	"<=": true, ">=": true, "==": true, "!=": true, "&&": true, "||": true,
}

func tokenize(input []byte, file string) ([]terminal, parser.Token, error) {
	lx := parser.NewLexer(input, file)
	var toks []terminal
	for lx.Next() != parser.TokenEOF {
		tok := lx.Token()
		text := spelling(tok)
		if n := len(toks); n > 0 && tok.Kind.IsPunct() {
			prev := &toks[n-1]
			if len(prev.text) == 1 && prev.tok.Kind.IsPunct() &&
				prev.tok.Span.End.Offset == tok.Span.Start.Offset &&
				compoundOps[prev.text+text] {
				prev.text += text
				prev.tok.Literal = prev.text
				prev.tok.Span.End = tok.Span.End
				continue
			}
		}
		toks = append(toks, terminal{tok: tok, text: text})
	}
	if err := lx.Err(); err != nil {
		return nil, parser.Token{}, err
	}
	return toks, lx.Token(), nil
}

func spelling(tok parser.Token) string {
	switch {
	case tok.Kind.IsPunct():
		return string(rune(tok.Kind))
	case tok.Kind == parser.TokenIdent, tok.Kind == parser.TokenIntLiteral,
		tok.Kind == parser.TokenFloatLiteral, tok.Kind == parser.TokenCharLiteral:
		return ""
	}
	return tok.Kind.String()
}

// isLexical follows the ebnf package: lower-case names are lexical.
func isLexical(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(r)
}
