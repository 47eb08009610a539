// Package parser turns blueprint source text into an ast.Program.
//
// # Overview
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│   Parser    │
//	│  (bytes)    │     │  (tokens)   │     │   (AST)     │
//	└─────────────┘     └─────────────┘     └─────────────┘
//
// The Lexer produces one token per call to Next. Keywords, literals and
// identifiers get reserved negative TokenKind codes; every other character
// is returned as its own code, so the parser sees '<' and '=' as separate
// tokens and assembles "<=" itself.
//
// The Lexer can un-read exactly one character (Unread). The Parser keeps a
// separate one-token lookahead buffer. The two never stand in for each
// other.
//
// # Grammar
//
//	Program    = { Class | Expr [";"] } .
//	Class      = "class" ident ":" ident { "," ident } "{" { MethodImpl } "}" .
//	MethodImpl = "public" "void" ident "(" [ Param { "," Param } ] ")" "{" { Stmt } "}" .
//	Param      = PrimType ident .
//	Stmt       = VarDecl | Assignment | If | While | Block .
//	VarDecl    = PrimType ident "=" Expr ";" .
//	Assignment = ident "=" Expr ";" .
//	If         = "if" "(" Expr ")" Stmt [ "else" Stmt ] .
//	While      = "while" "(" Expr ")" Stmt .
//	Block      = "{" { Stmt } "}" .
//	Expr       = Primary { BinaryOp Primary } .
//	Primary    = int | float | char | "true" | "false" | ident
//	           | "(" Expr ")" | ( "-" | "!" ) Primary .
//	PrimType   = "i32" | "f32" | "bool" | "char" | "void" .
//
// Binary operators, loosest to tightest: "&&" "||" (5), "==" "!=" (10),
// "<" ">" "<=" ">=" (15), "+" "-" (20), "*" "/" "%" (40). All are
// left-associative.
//
// # Errors
//
// Parsing stops at the first error. A LexError ends the token stream and is
// returned as is; anything else that does not fit the grammar is a
// SyntaxError. No partial tree is ever returned.
//
// Tokens that cannot start a top-level construct are governed by Policy:
// PolicyStrict fails, PolicyLenient records a Warning and skips the token.
package parser
