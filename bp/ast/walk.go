package ast

import "fmt"

// Inspect traverses the tree rooted at node in depth-first order, calling f
// for each node. If f returns false the children of that node are skipped.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	for _, child := range Children(node) {
		Inspect(child, f)
	}
}

// Children returns the direct children of node in source order.
func Children(node Node) []Node {
	switch n := node.(type) {
	case *Program:
		out := make([]Node, 0, len(n.Classes))
		for _, c := range n.Classes {
			out = append(out, c)
		}
		return out
	case *Class:
		out := make([]Node, 0, len(n.Methods))
		for _, m := range n.Methods {
			out = append(out, m)
		}
		return out
	case *MethodImpl:
		out := []Node{n.ReturnType}
		for _, p := range n.Params {
			out = append(out, p)
		}
		for _, s := range n.Body {
			out = append(out, s)
		}
		return out
	case *TypedIdentifier:
		return []Node{n.Type}
	case *VarDecl:
		return []Node{n.Type, n.Init}
	case *Assignment:
		return []Node{n.Value}
	case *If:
		if n.Else != nil {
			return []Node{n.Cond, n.Then, n.Else}
		}
		return []Node{n.Cond, n.Then}
	case *While:
		return []Node{n.Cond, n.Body}
	case *Block:
		out := make([]Node, 0, len(n.Stmts))
		for _, s := range n.Stmts {
			out = append(out, s)
		}
		return out
	case *Binary:
		return []Node{n.LHS, n.RHS}
	case *Unary:
		return []Node{n.Operand}
	case *IntegerLiteral, *FloatLiteral, *BoolLiteral, *CharLiteral, *Identifier, *PrimitiveType:
		return nil
	}
	panic(fmt.Sprintf("ast: unexpected node %T", node))
}
