package parser

import (
	"fmt"
	"io"

	"github.com/dhamidi/blueprint/bp/ast"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("bp.parser")

// Policy decides what the top-level driver does with a token that cannot
// start any top-level construct.
type Policy int

const (
	// PolicyStrict aborts the parse with a SyntaxError.
	PolicyStrict Policy = iota
	// PolicyLenient records a Warning, skips the token and continues.
	PolicyLenient
)

func (p Policy) String() string {
	switch p {
	case PolicyStrict:
		return "strict"
	case PolicyLenient:
		return "lenient"
	}
	return "Unknown"
}

func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "strict":
		return PolicyStrict, nil
	case "lenient":
		return PolicyLenient, nil
	}
	return PolicyStrict, fmt.Errorf("unknown error policy %q (expected strict or lenient)", s)
}

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

func WithPolicy(policy Policy) Option {
	return func(p *Parser) {
		p.policy = policy
	}
}

// WithTrace logs every token the parser consumes at debug level.
func WithTrace() Option {
	return func(p *Parser) {
		p.trace = true
	}
}

// Parser builds an AST from the tokens of a single Lexer. A Parser is
// single-use: call exactly one of ParseProgram or ParseExpr.
type Parser struct {
	file   string
	policy Policy
	trace  bool

	lexer *Lexer
	tok   Token
	// ahead holds a token read past tok, see peek.
	ahead   *Token
	prevEnd Position

	warnings []Warning
}

func New(input []byte, opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	p.lexer = NewLexer(input, p.file)
	return p
}

// Parse reads a whole compilation unit from r.
func Parse(r io.Reader, opts ...Option) (*ast.Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return New(data, opts...).ParseProgram()
}

// ParseExpression reads r as a single expression.
func ParseExpression(r io.Reader, opts ...Option) (ast.Expr, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return New(data, opts...).ParseExpr()
}

// Warnings returns the diagnostics recorded for skipped tokens in lenient
// mode.
func (p *Parser) Warnings() []Warning {
	return p.warnings
}

// ParseProgram parses every top-level construct in the input. Classes are
// collected into the returned Program. Bare expressions outside a class are
// parsed for diagnostics and then discarded.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	p.next()
	prog := &ast.Program{File: p.file}
	start := p.tok.Span.Start

	for !p.check(TokenEOF) {
		switch {
		case p.check(TokenClass):
			class, err := p.parseClass()
			if err != nil {
				return nil, err
			}
			log.Debugf("parsed class %s with %d methods", class.Name, len(class.Methods))
			prog.Classes = append(prog.Classes, class)
		case p.tok.Kind.IsLiteral(), p.check(TokenIdent), p.check('('):
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			log.Debugf("discarding top-level expression %s at %s", ast.Kind(expr), expr.Span().Start)
			if p.check(';') {
				p.next()
			}
		default:
			if p.policy == PolicyLenient {
				w := Warning{Pos: p.tok.Span.Start, Message: "skipping unexpected token " + describe(p.tok)}
				log.Warningf("%s", w)
				p.warnings = append(p.warnings, w)
				p.next()
				continue
			}
			return nil, p.errorExpected("unexpected token at top level", TokenClass)
		}
	}

	if err := p.lexer.Err(); err != nil {
		return nil, err
	}
	prog.Loc = Span{Start: start, End: p.tok.Span.End}
	return prog, nil
}

// ParseExpr parses the whole input as one expression.
func (p *Parser) ParseExpr() (ast.Expr, error) {
	p.next()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.check(TokenEOF) {
		return nil, p.errorExpected("unexpected token after expression", TokenEOF)
	}
	if err := p.lexer.Err(); err != nil {
		return nil, err
	}
	return expr, nil
}

// next makes the following token current, taking it from the lookahead
// buffer when peek has already read it.
func (p *Parser) next() Token {
	p.prevEnd = p.tok.Span.End
	if p.ahead != nil {
		p.tok = *p.ahead
		p.ahead = nil
	} else {
		p.lexer.Next()
		p.tok = p.lexer.Token()
	}
	if p.trace {
		log.Debugf("token %s %q at %s", p.tok.Kind, p.tok.Literal, p.tok.Span.Start)
	}
	return p.tok
}

// peek returns the token after the current one without consuming it.
func (p *Parser) peek() Token {
	if p.ahead == nil {
		p.lexer.Next()
		tok := p.lexer.Token()
		p.ahead = &tok
	}
	return *p.ahead
}

func (p *Parser) check(kind TokenKind) bool {
	return p.tok.Kind == kind
}

func (p *Parser) expect(kind TokenKind, msg string) (Token, error) {
	if !p.check(kind) {
		return Token{}, p.errorExpected(msg, kind)
	}
	tok := p.tok
	p.next()
	return tok, nil
}

// errorExpected reports the current token as unexpected. When the token
// stream ended because of a lexical error, that error is returned instead.
func (p *Parser) errorExpected(msg string, expected ...TokenKind) error {
	if p.check(TokenEOF) {
		if err := p.lexer.Err(); err != nil {
			return err
		}
	}
	return &SyntaxError{
		Pos:      p.tok.Span.Start,
		Message:  msg,
		Expected: expected,
		Got:      p.tok,
	}
}

func (p *Parser) span(start Position) Span {
	return Span{Start: start, End: p.prevEnd}
}
