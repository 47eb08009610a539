package parser

import "github.com/dhamidi/blueprint/bp/ast"

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch {
	case p.tok.Kind.IsPrimitiveType():
		return p.parseVarDecl()
	case p.check(TokenIdent):
		return p.parseAssignment()
	case p.check(TokenIf):
		return p.parseIf()
	case p.check(TokenWhile):
		return p.parseWhile()
	case p.check('{'):
		return p.parseBlock()
	}
	return nil, p.errorExpected("expected statement",
		TokenI32, TokenF32, TokenBool, TokenChar, TokenIdent, TokenIf, TokenWhile, '{')
}

// parseVarDecl parses `type name = expr ;`.
func (p *Parser) parseVarDecl() (ast.Stmt, error) {
	start := p.tok.Span.Start
	if p.check(TokenVoid) {
		return nil, &SyntaxError{Pos: start, Message: "variable cannot have type void", Got: p.tok}
	}
	typ := p.parseType()

	name, err := p.expect(TokenIdent, "expected variable name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect('=', "expected '=' after variable name"); err != nil {
		return nil, err
	}
	init, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(';', "expected ';' after variable declaration"); err != nil {
		return nil, err
	}
	return &ast.VarDecl{Loc: p.span(start), Type: typ, Name: name.Literal, Init: init}, nil
}

// parseAssignment parses `name = expr ;`.
func (p *Parser) parseAssignment() (ast.Stmt, error) {
	start := p.tok.Span.Start
	name := p.tok
	p.next()

	if _, err := p.expect('=', "expected '=' after variable name"); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(';', "expected ';' after assignment"); err != nil {
		return nil, err
	}
	return &ast.Assignment{Loc: p.span(start), Name: name.Literal, Value: value}, nil
}

// parseIf parses `if ( expr ) stmt [else stmt]`. An else belongs to the
// nearest preceding if.
func (p *Parser) parseIf() (ast.Stmt, error) {
	start := p.tok.Span.Start
	p.next()

	cond, err := p.parseCondition("if")
	if err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt := &ast.If{Cond: cond, Then: then}
	if p.check(TokenElse) {
		p.next()
		stmt.Else, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	stmt.Loc = p.span(start)
	return stmt, nil
}

// parseWhile parses `while ( expr ) stmt`.
func (p *Parser) parseWhile() (ast.Stmt, error) {
	start := p.tok.Span.Start
	p.next()

	cond, err := p.parseCondition("while")
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.While{Loc: p.span(start), Cond: cond, Body: body}, nil
}

func (p *Parser) parseCondition(keyword string) (ast.Expr, error) {
	if _, err := p.expect('(', "expected '(' after "+keyword); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(')', "expected ')' after "+keyword+" condition"); err != nil {
		return nil, err
	}
	return cond, nil
}

// parseBlock parses `{ stmt* }`.
func (p *Parser) parseBlock() (ast.Stmt, error) {
	start := p.tok.Span.Start
	p.next()

	var stmts []ast.Stmt
	for !p.check('}') {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	p.next()
	return &ast.Block{Loc: p.span(start), Stmts: stmts}, nil
}
