package parser

import (
	"fmt"

	"github.com/dhamidi/blueprint/bp/ast"
)

type (
	Position = ast.Position
	Span     = ast.Span
)

// TokenKind classifies a token. Single-character punctuation is represented
// by its own character value; everything else uses the reserved negative
// range below.
type TokenKind int

const (
	TokenEOF TokenKind = -1

	// Primitive types
	TokenI32  TokenKind = -10
	TokenF32  TokenKind = -11
	TokenBool TokenKind = -12
	TokenChar TokenKind = -13
	TokenVoid TokenKind = -14

	// Literals
	TokenTrue         TokenKind = -50
	TokenFalse        TokenKind = -51
	TokenIntLiteral   TokenKind = -52
	TokenFloatLiteral TokenKind = -53
	TokenCharLiteral  TokenKind = -54

	TokenIdent TokenKind = -100

	TokenClass TokenKind = -150

	// Control flow
	TokenIf    TokenKind = -200
	TokenElse  TokenKind = -201
	TokenWhile TokenKind = -202

	// Access modifiers
	TokenPublic TokenKind = -250
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:          "EOF",
	TokenI32:          "i32",
	TokenF32:          "f32",
	TokenBool:         "bool",
	TokenChar:         "char",
	TokenVoid:         "void",
	TokenTrue:         "true",
	TokenFalse:        "false",
	TokenIntLiteral:   "IntLiteral",
	TokenFloatLiteral: "FloatLiteral",
	TokenCharLiteral:  "CharLiteral",
	TokenIdent:        "Identifier",
	TokenClass:        "class",
	TokenIf:           "if",
	TokenElse:         "else",
	TokenWhile:        "while",
	TokenPublic:       "public",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	if k > 0 && k < 128 {
		return fmt.Sprintf("'%c'", rune(k))
	}
	return "Unknown"
}

// IsPunct reports whether k is a raw single-character token.
func (k TokenKind) IsPunct() bool {
	return k > 0
}

func (k TokenKind) IsPrimitiveType() bool {
	switch k {
	case TokenI32, TokenF32, TokenBool, TokenChar, TokenVoid:
		return true
	}
	return false
}

func (k TokenKind) IsLiteral() bool {
	switch k {
	case TokenIntLiteral, TokenFloatLiteral, TokenCharLiteral, TokenTrue, TokenFalse:
		return true
	}
	return false
}

func (k TokenKind) IsControlFlow() bool {
	switch k {
	case TokenIf, TokenElse, TokenWhile:
		return true
	}
	return false
}

func (k TokenKind) IsAccessModifier() bool {
	return k == TokenPublic
}

// Token is a snapshot of one lexed token. The payload fields are only
// meaningful for the matching Kind: Int for TokenIntLiteral, Float for
// TokenFloatLiteral and Char for TokenCharLiteral.
type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
	Int     int64
	Float   float64
	Char    byte
}

var keywords = map[string]TokenKind{
	"i32":    TokenI32,
	"f32":    TokenF32,
	"bool":   TokenBool,
	"char":   TokenChar,
	"void":   TokenVoid,
	"true":   TokenTrue,
	"false":  TokenFalse,
	"class":  TokenClass,
	"if":     TokenIf,
	"else":   TokenElse,
	"while":  TokenWhile,
	"public": TokenPublic,
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}

func primitiveKind(k TokenKind) (ast.PrimitiveKind, bool) {
	switch k {
	case TokenI32:
		return ast.I32, true
	case TokenF32:
		return ast.F32, true
	case TokenBool:
		return ast.Bool, true
	case TokenChar:
		return ast.Char, true
	case TokenVoid:
		return ast.Void, true
	}
	return 0, false
}
