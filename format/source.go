package format

import (
	"bytes"
	"io"
	"strings"

	"github.com/dhamidi/blueprint/bp/ast"
	"github.com/dhamidi/blueprint/bp/parser"
)

// SourcePrinter writes an AST back out as canonical blueprint source. For
// any tree the parser produced, parsing the output yields an equal tree,
// spans aside.
type SourcePrinter struct {
	w           io.Writer
	indent      int
	indentStr   string
	atLineStart bool
	err         error
}

func NewSourcePrinter(w io.Writer) *SourcePrinter {
	return &SourcePrinter{
		w:           w,
		indentStr:   "    ",
		atLineStart: true,
	}
}

func (p *SourcePrinter) Encode(node ast.Node) error {
	p.printNode(node)
	return p.err
}

func (p *SourcePrinter) MarshalText(node ast.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewSourcePrinter(&buf).Encode(node); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PrettyPrint parses source and returns it in canonical form.
func PrettyPrint(source []byte, opts ...parser.Option) ([]byte, error) {
	prog, err := parser.New(source, opts...).ParseProgram()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := NewSourcePrinter(&buf).Encode(prog); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *SourcePrinter) printNode(node ast.Node) {
	switch n := node.(type) {
	case *ast.Program:
		for i, class := range n.Classes {
			if i > 0 {
				p.newline()
			}
			p.printClass(class)
		}
	case *ast.Class:
		p.printClass(n)
	case *ast.MethodImpl:
		p.printMethod(n)
	case ast.Stmt:
		p.printStmt(n)
		p.newline()
	case ast.Expr:
		p.write(exprText(n))
		p.newline()
	case *ast.TypedIdentifier:
		p.write(ast.TypeName(n.Type) + " " + n.Name)
		p.newline()
	case *ast.PrimitiveType:
		p.write(n.Kind.String())
		p.newline()
	}
}

func (p *SourcePrinter) printClass(n *ast.Class) {
	p.writeIndent()
	p.write("class " + n.Name + " : " + strings.Join(n.Bases, ", ") + " {")
	if len(n.Methods) == 0 {
		p.write("}")
		p.newline()
		return
	}
	p.newline()
	p.indent++
	for i, m := range n.Methods {
		if i > 0 {
			p.newline()
		}
		p.printMethod(m)
	}
	p.indent--
	p.writeIndent()
	p.write("}")
	p.newline()
}

func (p *SourcePrinter) printMethod(n *ast.MethodImpl) {
	p.writeIndent()
	for _, m := range n.Modifiers {
		p.write(m.String() + " ")
	}
	p.write(ast.TypeName(n.ReturnType) + " " + n.Name + "(")
	for i, param := range n.Params {
		if i > 0 {
			p.write(", ")
		}
		p.write(ast.TypeName(param.Type) + " " + param.Name)
	}
	p.write(") ")
	p.printBody(n.Body)
	p.newline()
}

// printBody writes a braced statement list, leaving the cursor after the
// closing brace.
func (p *SourcePrinter) printBody(stmts []ast.Stmt) {
	if len(stmts) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	p.newline()
	p.indent++
	for _, stmt := range stmts {
		p.printStmt(stmt)
		p.newline()
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

// printStmt writes stmt starting at the current indentation and leaves the
// cursor at the end of its last line.
func (p *SourcePrinter) printStmt(stmt ast.Stmt) {
	p.writeIndent()
	switch n := stmt.(type) {
	case *ast.VarDecl:
		p.write(ast.TypeName(n.Type) + " " + n.Name + " = " + exprText(n.Init) + ";")
	case *ast.Assignment:
		p.write(n.Name + " = " + exprText(n.Value) + ";")
	case *ast.Block:
		p.printBody(n.Stmts)
	case *ast.While:
		p.write("while (" + exprText(n.Cond) + ")")
		p.printNested(n.Body, false)
	case *ast.If:
		p.printIf(n)
	}
}

func (p *SourcePrinter) printIf(n *ast.If) {
	p.write("if (" + exprText(n.Cond) + ")")
	if n.Else == nil {
		p.printNested(n.Then, false)
		return
	}
	// An else would bind to an open if inside Then, so Then gets braces.
	if p.printNested(n.Then, endsInOpenIf(n.Then)) {
		p.write(" else")
	} else {
		p.newline()
		p.writeIndent()
		p.write("else")
	}
	if elseIf, ok := n.Else.(*ast.If); ok {
		p.write(" ")
		p.printIf(elseIf)
		return
	}
	p.printNested(n.Else, false)
}

// printNested writes the body of a control-flow statement right after its
// header. It reports whether the body was written in braces.
func (p *SourcePrinter) printNested(stmt ast.Stmt, forceBraces bool) bool {
	if block, ok := stmt.(*ast.Block); ok {
		p.write(" ")
		p.printBody(block.Stmts)
		return true
	}
	if forceBraces {
		p.write(" ")
		p.printBody([]ast.Stmt{stmt})
		return true
	}
	p.newline()
	p.indent++
	p.printStmt(stmt)
	p.indent--
	return false
}

// endsInOpenIf reports whether stmt ends with an if that has no else.
func endsInOpenIf(stmt ast.Stmt) bool {
	switch n := stmt.(type) {
	case *ast.If:
		if n.Else == nil {
			return true
		}
		return endsInOpenIf(n.Else)
	case *ast.While:
		return endsInOpenIf(n.Body)
	}
	return false
}

func (p *SourcePrinter) writeIndent() {
	if !p.atLineStart {
		return
	}
	for i := 0; i < p.indent; i++ {
		p.write(p.indentStr)
	}
	p.atLineStart = false
}

func (p *SourcePrinter) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *SourcePrinter) newline() {
	p.write("\n")
	p.atLineStart = true
}

// exprText renders e with the minimum parentheses needed to parse back to
// the same tree.
func exprText(e ast.Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeExpr(b *strings.Builder, e ast.Expr) {
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		b.WriteString(intText(n.Value))
	case *ast.FloatLiteral:
		b.WriteString(floatText(n.Value))
	case *ast.BoolLiteral:
		if n.Value {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case *ast.CharLiteral:
		b.WriteString(charText(n.Value))
	case *ast.Identifier:
		b.WriteString(n.Name)
	case *ast.Unary:
		b.WriteString(n.Op.String())
		if _, ok := n.Operand.(*ast.Binary); ok {
			b.WriteString("(")
			writeExpr(b, n.Operand)
			b.WriteString(")")
			return
		}
		writeExpr(b, n.Operand)
	case *ast.Binary:
		prec := n.Op.Precedence()
		writeOperand(b, n.LHS, func(p int) bool { return p < prec })
		b.WriteString(" " + n.Op.String() + " ")
		writeOperand(b, n.RHS, func(p int) bool { return p <= prec })
	}
}

func writeOperand(b *strings.Builder, e ast.Expr, needParens func(prec int) bool) {
	if bin, ok := e.(*ast.Binary); ok && needParens(bin.Op.Precedence()) {
		b.WriteString("(")
		writeExpr(b, e)
		b.WriteString(")")
		return
	}
	writeExpr(b, e)
}
