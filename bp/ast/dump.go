package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Dump renders the tree rooted at node as an indented outline, one node per
// line.
func Dump(node Node) string {
	var b strings.Builder
	dump(&b, node, 0, false)
	return b.String()
}

// DumpWithPositions is like Dump but appends each node's span.
func DumpWithPositions(node Node) string {
	var b strings.Builder
	dump(&b, node, 0, true)
	return b.String()
}

func dump(b *strings.Builder, node Node, indent int, showPositions bool) {
	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString(Label(node))
	if showPositions {
		b.WriteString(" [" + node.Span().String() + "]")
	}
	b.WriteString("\n")
	for _, child := range Children(node) {
		dump(b, child, indent+1, showPositions)
	}
}

// Kind returns the variant name of node.
func Kind(node Node) string {
	switch node.(type) {
	case *Program:
		return "Program"
	case *Class:
		return "Class"
	case *MethodImpl:
		return "MethodImpl"
	case *TypedIdentifier:
		return "TypedIdentifier"
	case *PrimitiveType:
		return "PrimitiveType"
	case *VarDecl:
		return "VarDecl"
	case *Assignment:
		return "Assignment"
	case *If:
		return "If"
	case *While:
		return "While"
	case *Block:
		return "Block"
	case *IntegerLiteral:
		return "IntegerLiteral"
	case *FloatLiteral:
		return "FloatLiteral"
	case *BoolLiteral:
		return "BoolLiteral"
	case *CharLiteral:
		return "CharLiteral"
	case *Identifier:
		return "Identifier"
	case *Binary:
		return "Binary"
	case *Unary:
		return "Unary"
	}
	panic(fmt.Sprintf("ast: unexpected node %T", node))
}

// Value returns the scalar payload of node as text: a name, an operator, a
// literal value or a type keyword. It is empty for purely structural nodes.
func Value(node Node) string {
	switch n := node.(type) {
	case *Program:
		return n.File
	case *Class:
		return n.Name
	case *MethodImpl:
		return n.Name
	case *TypedIdentifier:
		return n.Name
	case *PrimitiveType:
		return n.Kind.String()
	case *VarDecl:
		return n.Name
	case *Assignment:
		return n.Name
	case *IntegerLiteral:
		return strconv.FormatInt(n.Value, 10)
	case *FloatLiteral:
		return strconv.FormatFloat(n.Value, 'g', -1, 64)
	case *BoolLiteral:
		return strconv.FormatBool(n.Value)
	case *CharLiteral:
		return strconv.QuoteRuneToASCII(rune(n.Value))
	case *Identifier:
		return n.Name
	case *Binary:
		return n.Op.String()
	case *Unary:
		return n.Op.String()
	}
	return ""
}

// Label is the one-line description Dump prints for node.
func Label(node Node) string {
	label := Kind(node)
	if v := Value(node); v != "" {
		label += " " + v
	}
	switch n := node.(type) {
	case *Class:
		if len(n.Bases) > 0 {
			label += " : " + strings.Join(n.Bases, ", ")
		}
	case *MethodImpl:
		for _, m := range n.Modifiers {
			label = m.String() + " " + label
		}
	}
	return label
}

// TypeName returns the source spelling of t.
func TypeName(t Type) string {
	switch n := t.(type) {
	case *PrimitiveType:
		return n.Kind.String()
	}
	panic(fmt.Sprintf("ast: unexpected type %T", t))
}
