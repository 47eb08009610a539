package parser

import (
	"fmt"

	"github.com/dhamidi/blueprint/bp/ast"
)

var primitiveTypeTokens = []TokenKind{TokenI32, TokenF32, TokenBool, TokenChar, TokenVoid}

// parseClass parses
//
//	class Name : Base {, Base} { MethodImpl* }
//
// Any unexpected token aborts the whole declaration.
func (p *Parser) parseClass() (*ast.Class, error) {
	start := p.tok.Span.Start
	log.Debugf("parsing class at %s", start)

	if _, err := p.expect(TokenClass, "expected 'class' keyword"); err != nil {
		return nil, err
	}
	name, err := p.expect(TokenIdent, "expected class name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(':', "expected ':' after class name"); err != nil {
		return nil, err
	}
	bases, err := p.parseBaseList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect('{', "expected '{' to open class body"); err != nil {
		return nil, err
	}

	var methods []*ast.MethodImpl
	for !p.check('}') {
		method, err := p.parseMethodImpl()
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}
	p.next()

	return &ast.Class{
		Loc:     p.span(start),
		NameLoc: name.Span,
		Name:    name.Literal,
		Methods: methods,
		Bases:   bases,
	}, nil
}

func (p *Parser) parseBaseList() ([]string, error) {
	var bases []string
	seen := make(map[string]bool)
	for {
		tok, err := p.expect(TokenIdent, "expected base type name")
		if err != nil {
			return nil, err
		}
		if seen[tok.Literal] {
			return nil, &SyntaxError{
				Pos:     tok.Span.Start,
				Message: fmt.Sprintf("duplicate base type %q", tok.Literal),
				Got:     tok,
			}
		}
		seen[tok.Literal] = true
		bases = append(bases, tok.Literal)

		if !p.check(',') {
			return bases, nil
		}
		p.next()
	}
}

// parseMethodImpl parses
//
//	public void name ( [type ident {, type ident}] ) { Stmt* }
func (p *Parser) parseMethodImpl() (*ast.MethodImpl, error) {
	start := p.tok.Span.Start

	if !p.tok.Kind.IsAccessModifier() {
		return nil, p.errorExpected("expected access modifier before method implementation", TokenPublic)
	}
	modifiers := []ast.AccessModifier{ast.Public}
	p.next()

	if !p.check(TokenVoid) {
		return nil, p.errorExpected("expected void return type", TokenVoid)
	}
	returnType := &ast.PrimitiveType{Loc: p.tok.Span, Kind: ast.Void}
	p.next()

	name, err := p.expect(TokenIdent, "expected method name")
	if err != nil {
		return nil, err
	}
	log.Debugf("parsing method %s at %s", name.Literal, start)

	if _, err := p.expect('(', "expected '(' after method name"); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect('{', "expected '{' to open method body"); err != nil {
		return nil, err
	}
	var body []ast.Stmt
	for !p.check('}') {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	p.next()

	return &ast.MethodImpl{
		Loc:        p.span(start),
		NameLoc:    name.Span,
		Modifiers:  modifiers,
		ReturnType: returnType,
		Name:       name.Literal,
		Params:     params,
		Body:       body,
	}, nil
}

// parseParams parses a parameter list after its opening '(' up to and
// including the closing ')'.
func (p *Parser) parseParams() ([]*ast.TypedIdentifier, error) {
	var params []*ast.TypedIdentifier
	if p.check(')') {
		p.next()
		return params, nil
	}
	for {
		param, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		params = append(params, param)

		switch {
		case p.check(')'):
			p.next()
			return params, nil
		case p.check(','):
			p.next()
		default:
			return nil, p.errorExpected("expected ',' or ')' after parameter", ',', ')')
		}
	}
}

func (p *Parser) parseParam() (*ast.TypedIdentifier, error) {
	start := p.tok.Span.Start
	if !p.tok.Kind.IsPrimitiveType() {
		return nil, p.errorExpected("expected parameter type", primitiveTypeTokens...)
	}
	typ := p.parseType()
	name, err := p.expect(TokenIdent, "expected parameter name")
	if err != nil {
		return nil, err
	}
	return &ast.TypedIdentifier{Loc: p.span(start), Type: typ, Name: name.Literal}, nil
}

// parseType consumes the current primitive type token. The caller has
// already checked that the current token is one.
func (p *Parser) parseType() *ast.PrimitiveType {
	kind, _ := primitiveKind(p.tok.Kind)
	typ := &ast.PrimitiveType{Loc: p.tok.Span, Kind: kind}
	p.next()
	return typ
}
