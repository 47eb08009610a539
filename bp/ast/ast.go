// Package ast declares the syntax tree produced by the blueprint parser.
//
// Each node family (Expr, Stmt, Type) is a closed set of variants. The
// family interfaces carry an unexported marker method so no type outside
// this package can join them, and code that consumes the tree is expected
// to switch over the variants exhaustively.
//
// A parent exclusively owns its children: the tree is acyclic and no node
// is reachable from two parents. All child fields are non-nil in a tree
// returned by the parser, with the single exception of If.Else.
package ast

import "fmt"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

func (s Span) String() string {
	return s.Start.String() + "-" + fmt.Sprintf("%d:%d", s.End.Line, s.End.Column)
}

// Node is implemented by every tree node.
type Node interface {
	Span() Span
}

type Expr interface {
	Node
	exprNode()
}

type Stmt interface {
	Node
	stmtNode()
}

type Type interface {
	Node
	typeNode()
}

// Expressions

type IntegerLiteral struct {
	Loc   Span
	Value int64
}

type FloatLiteral struct {
	Loc   Span
	Value float64
}

type BoolLiteral struct {
	Loc   Span
	Value bool
}

type CharLiteral struct {
	Loc   Span
	Value byte
}

type Identifier struct {
	Loc  Span
	Name string
}

type Binary struct {
	Loc Span
	Op  BinaryOp
	LHS Expr
	RHS Expr
}

type Unary struct {
	Loc     Span
	Op      UnaryOp
	Operand Expr
}

func (n *IntegerLiteral) Span() Span { return n.Loc }
func (n *FloatLiteral) Span() Span   { return n.Loc }
func (n *BoolLiteral) Span() Span    { return n.Loc }
func (n *CharLiteral) Span() Span    { return n.Loc }
func (n *Identifier) Span() Span     { return n.Loc }
func (n *Binary) Span() Span         { return n.Loc }
func (n *Unary) Span() Span          { return n.Loc }

func (*IntegerLiteral) exprNode() {}
func (*FloatLiteral) exprNode()   {}
func (*BoolLiteral) exprNode()    {}
func (*CharLiteral) exprNode()    {}
func (*Identifier) exprNode()     {}
func (*Binary) exprNode()         {}
func (*Unary) exprNode()          {}

type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	And
	Or
)

var binaryOpNames = map[BinaryOp]string{
	Add: "+",
	Sub: "-",
	Mul: "*",
	Div: "/",
	Mod: "%",
	Eq:  "==",
	Ne:  "!=",
	Lt:  "<",
	Le:  "<=",
	Gt:  ">",
	Ge:  ">=",
	And: "&&",
	Or:  "||",
}

func (op BinaryOp) String() string {
	if name, ok := binaryOpNames[op]; ok {
		return name
	}
	return "Unknown"
}

// Precedence returns the binding strength of op; higher binds tighter. All
// binary operators are left-associative.
func (op BinaryOp) Precedence() int {
	switch op {
	case Mul, Div, Mod:
		return 40
	case Add, Sub:
		return 20
	case Lt, Gt, Le, Ge:
		return 15
	case Eq, Ne:
		return 10
	case And, Or:
		return 5
	}
	return 0
}

type UnaryOp int

const (
	Neg UnaryOp = iota
	Not
)

func (op UnaryOp) String() string {
	switch op {
	case Neg:
		return "-"
	case Not:
		return "!"
	}
	return "Unknown"
}

// Statements

// VarDecl declares a local variable. Init is always present.
type VarDecl struct {
	Loc  Span
	Type Type
	Name string
	Init Expr
}

type Assignment struct {
	Loc   Span
	Name  string
	Value Expr
}

// If is a conditional statement. Else is nil when there is no else branch.
type If struct {
	Loc  Span
	Cond Expr
	Then Stmt
	Else Stmt
}

type While struct {
	Loc  Span
	Cond Expr
	Body Stmt
}

type Block struct {
	Loc   Span
	Stmts []Stmt
}

func (n *VarDecl) Span() Span    { return n.Loc }
func (n *Assignment) Span() Span { return n.Loc }
func (n *If) Span() Span         { return n.Loc }
func (n *While) Span() Span      { return n.Loc }
func (n *Block) Span() Span      { return n.Loc }

func (*VarDecl) stmtNode()    {}
func (*Assignment) stmtNode() {}
func (*If) stmtNode()         {}
func (*While) stmtNode()      {}
func (*Block) stmtNode()      {}

// Types

type PrimitiveKind int

const (
	I32 PrimitiveKind = iota
	F32
	Bool
	Char
	Void
)

func (k PrimitiveKind) String() string {
	switch k {
	case I32:
		return "i32"
	case F32:
		return "f32"
	case Bool:
		return "bool"
	case Char:
		return "char"
	case Void:
		return "void"
	}
	return "Unknown"
}

type PrimitiveType struct {
	Loc  Span
	Kind PrimitiveKind
}

func (n *PrimitiveType) Span() Span { return n.Loc }
func (*PrimitiveType) typeNode()    {}

// Declarations

type TypedIdentifier struct {
	Loc  Span
	Type Type
	Name string
}

func (n *TypedIdentifier) Span() Span { return n.Loc }

type AccessModifier int

const (
	Public AccessModifier = iota
)

func (m AccessModifier) String() string {
	if m == Public {
		return "public"
	}
	return "Unknown"
}

type MethodImpl struct {
	Loc        Span
	NameLoc    Span
	Modifiers  []AccessModifier
	ReturnType Type
	Name       string
	Params     []*TypedIdentifier
	Body       []Stmt
}

func (n *MethodImpl) Span() Span { return n.Loc }

// Class is a class declaration. Bases lists the base type names in
// declaration order.
type Class struct {
	Loc     Span
	NameLoc Span
	Name    string
	Methods []*MethodImpl
	Bases   []string
}

func (n *Class) Span() Span { return n.Loc }

// Program is one compilation unit.
type Program struct {
	Loc     Span
	File    string
	Classes []*Class
}

func (n *Program) Span() Span { return n.Loc }
