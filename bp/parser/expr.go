package parser

import "github.com/dhamidi/blueprint/bp/ast"

func (p *Parser) parseExpression() (ast.Expr, error) {
	lhs, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return p.parseBinaryRHS(0, lhs)
}

// parseBinaryRHS folds binary operators of precedence minPrec or higher onto
// lhs. Operators that bind tighter than the one just consumed are folded
// into its right operand first, which makes every level left-associative.
func (p *Parser) parseBinaryRHS(minPrec int, lhs ast.Expr) (ast.Expr, error) {
	for {
		op, width, ok := p.binaryOp()
		if !ok || op.Precedence() < minPrec {
			return lhs, nil
		}
		prec := op.Precedence()
		for i := 0; i < width; i++ {
			p.next()
		}

		rhs, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		if nextOp, _, ok := p.binaryOp(); ok && nextOp.Precedence() > prec {
			rhs, err = p.parseBinaryRHS(prec+1, rhs)
			if err != nil {
				return nil, err
			}
		}

		lhs = &ast.Binary{
			Loc: Span{Start: lhs.Span().Start, End: rhs.Span().End},
			Op:  op,
			LHS: lhs,
			RHS: rhs,
		}
	}
}

// binaryOp classifies the operator starting at the current token without
// consuming it. Two-character operators are spelled as two adjacent
// single-character tokens; width is the number of tokens the operator
// spans.
func (p *Parser) binaryOp() (op ast.BinaryOp, width int, ok bool) {
	switch p.tok.Kind {
	case '+':
		return ast.Add, 1, true
	case '-':
		return ast.Sub, 1, true
	case '*':
		return ast.Mul, 1, true
	case '/':
		return ast.Div, 1, true
	case '%':
		return ast.Mod, 1, true
	case '<':
		if p.adjacent('=') {
			return ast.Le, 2, true
		}
		return ast.Lt, 1, true
	case '>':
		if p.adjacent('=') {
			return ast.Ge, 2, true
		}
		return ast.Gt, 1, true
	case '=':
		if p.adjacent('=') {
			return ast.Eq, 2, true
		}
	case '!':
		if p.adjacent('=') {
			return ast.Ne, 2, true
		}
	case '&':
		if p.adjacent('&') {
			return ast.And, 2, true
		}
	case '|':
		if p.adjacent('|') {
			return ast.Or, 2, true
		}
	}
	return 0, 0, false
}

// adjacent reports whether the next token is kind and starts exactly where
// the current token ends.
func (p *Parser) adjacent(kind TokenKind) bool {
	next := p.peek()
	return next.Kind == kind && next.Span.Start.Offset == p.tok.Span.End.Offset
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.tok
	switch tok.Kind {
	case TokenIntLiteral:
		p.next()
		return &ast.IntegerLiteral{Loc: tok.Span, Value: tok.Int}, nil
	case TokenFloatLiteral:
		p.next()
		return &ast.FloatLiteral{Loc: tok.Span, Value: tok.Float}, nil
	case TokenTrue, TokenFalse:
		p.next()
		return &ast.BoolLiteral{Loc: tok.Span, Value: tok.Kind == TokenTrue}, nil
	case TokenCharLiteral:
		p.next()
		return &ast.CharLiteral{Loc: tok.Span, Value: tok.Char}, nil
	case TokenIdent:
		p.next()
		return &ast.Identifier{Loc: tok.Span, Name: tok.Literal}, nil
	case '(':
		return p.parseParenExpr()
	case '-', '!':
		return p.parseUnary()
	}
	return nil, p.errorExpected("expected expression")
}

func (p *Parser) parseParenExpr() (ast.Expr, error) {
	p.next()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(')', "expected ')' to close parenthesized expression"); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseUnary parses a prefix '-' or '!'. The operand is a primary, so unary
// operators bind tighter than any binary operator.
func (p *Parser) parseUnary() (ast.Expr, error) {
	start := p.tok.Span.Start
	op := ast.Neg
	if p.check('!') {
		op = ast.Not
	}
	p.next()
	operand, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return &ast.Unary{
		Loc:     Span{Start: start, End: operand.Span().End},
		Op:      op,
		Operand: operand,
	}, nil
}
