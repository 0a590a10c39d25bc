// Copyright 2025 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package token defines the lexical tokens of the supported Solidity subset.
// Package token 定义了所支持的 Solidity 子集的词法标记。
package token

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the discriminant of a token.
// Kind 是标记的判别类型。
type Kind int

const (
	Identifier Kind = iota

	// Literals. Only NumberLiteral and the boolean literals are produced by
	// the lexer today, the remaining kinds are understood by the type system.
	NumberLiteral
	HexNumberLiteral
	StringLiteral
	HexStringLiteral
	TrueLiteral
	FalseLiteral
	PragmaValue

	// Punctuation
	LParen
	RParen
	LBrack
	RBrack
	LBrace
	RBrace
	Colon
	Semicolon
	Period
	Comma
	Conditional
	Arrow

	// Assignment operators
	Assign
	AssignBitOr
	AssignBitXor
	AssignBitAnd
	AssignShl
	AssignSar
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignMod

	// Binary operators
	Or
	And
	BitOr
	BitXor
	BitAnd
	Shl
	Sar
	Add
	Sub
	Mul
	Div
	Mod
	Exp
	Equal
	NotEqual
	LessThan
	GreaterThan
	LessThanOrEqual
	GreaterThanOrEqual

	// Unary operators
	Not
	BitNot
	Inc
	Dec

	keywordStart
	Abstract
	Anonymous
	As
	Assembly
	Break
	Calldata
	Catch
	Constant
	Constructor
	Continue
	Contract
	Delete
	Do
	Else
	Emit
	Enum
	Event
	External
	Fallback
	For
	Function
	If
	Immutable
	Import
	Indexed
	Interface
	Internal
	Is
	Library
	Mapping
	Memory
	Modifier
	New
	Override
	Payable
	Pragma
	Private
	Public
	Pure
	Receive
	Return
	Returns
	Storage
	Struct
	Try
	Type
	Unchecked
	Using
	View
	Virtual
	While
	keywordEnd

	elementaryStart
	Address
	Bool
	String
	Bytes
	UInt
	Int
	FixedBytes
	elementaryEnd
)

var kindNames = map[Kind]string{
	Identifier:       "identifier",
	NumberLiteral:    "number",
	HexNumberLiteral: "hex number",
	StringLiteral:    "string literal",
	HexStringLiteral: "hex string literal",
	TrueLiteral:      "true",
	FalseLiteral:     "false",
	PragmaValue:      "pragma value",

	LParen:      "(",
	RParen:      ")",
	LBrack:      "[",
	RBrack:      "]",
	LBrace:      "{",
	RBrace:      "}",
	Colon:       ":",
	Semicolon:   ";",
	Period:      ".",
	Comma:       ",",
	Conditional: "?",
	Arrow:       "=>",

	Assign:       "=",
	AssignBitOr:  "|=",
	AssignBitXor: "^=",
	AssignBitAnd: "&=",
	AssignShl:    "<<=",
	AssignSar:    ">>=",
	AssignAdd:    "+=",
	AssignSub:    "-=",
	AssignMul:    "*=",
	AssignDiv:    "/=",
	AssignMod:    "%=",

	Or:                 "||",
	And:                "&&",
	BitOr:              "|",
	BitXor:             "^",
	BitAnd:             "&",
	Shl:                "<<",
	Sar:                ">>",
	Add:                "+",
	Sub:                "-",
	Mul:                "*",
	Div:                "/",
	Mod:                "%",
	Exp:                "**",
	Equal:              "==",
	NotEqual:           "!=",
	LessThan:           "<",
	GreaterThan:        ">",
	LessThanOrEqual:    "<=",
	GreaterThanOrEqual: ">=",

	Not:    "!",
	BitNot: "~",
	Inc:    "++",
	Dec:    "--",

	Address:    "address",
	Bool:       "bool",
	String:     "string",
	Bytes:      "bytes",
	UInt:       "uint",
	Int:        "int",
	FixedBytes: "bytesN",
}

// keywords maps every supported keyword spelling to its kind.
// keywords 将每个受支持的关键字拼写映射到其类型。
var keywords = map[string]Kind{
	"abstract":    Abstract,
	"anonymous":   Anonymous,
	"as":          As,
	"assembly":    Assembly,
	"break":       Break,
	"calldata":    Calldata,
	"catch":       Catch,
	"constant":    Constant,
	"constructor": Constructor,
	"continue":    Continue,
	"contract":    Contract,
	"delete":      Delete,
	"do":          Do,
	"else":        Else,
	"emit":        Emit,
	"enum":        Enum,
	"event":       Event,
	"external":    External,
	"fallback":    Fallback,
	"for":         For,
	"function":    Function,
	"if":          If,
	"immutable":   Immutable,
	"import":      Import,
	"indexed":     Indexed,
	"interface":   Interface,
	"internal":    Internal,
	"is":          Is,
	"library":     Library,
	"mapping":     Mapping,
	"memory":      Memory,
	"modifier":    Modifier,
	"new":         New,
	"override":    Override,
	"payable":     Payable,
	"pragma":      Pragma,
	"private":     Private,
	"public":      Public,
	"pure":        Pure,
	"receive":     Receive,
	"return":      Return,
	"returns":     Returns,
	"storage":     Storage,
	"struct":      Struct,
	"try":         Try,
	"type":        Type,
	"unchecked":   Unchecked,
	"using":       Using,
	"view":        View,
	"virtual":     Virtual,
	"while":       While,
	"true":        TrueLiteral,
	"false":       FalseLiteral,
	"address":     Address,
	"bool":        Bool,
	"string":      String,
	"bytes":       Bytes,
}

func init() {
	for k, v := range keywords {
		if v > keywordStart && v < keywordEnd {
			kindNames[v] = k
		}
	}
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsKeyword reports whether k is a reserved word of the language.
func (k Kind) IsKeyword() bool { return k > keywordStart && k < keywordEnd }

// IsElementaryType reports whether k names an elementary type.
// IsElementaryType 判断 k 是否为基本类型。
func (k Kind) IsElementaryType() bool { return k > elementaryStart && k < elementaryEnd }

// IsLiteral reports whether k is one of the literal kinds.
func (k Kind) IsLiteral() bool { return k >= NumberLiteral && k <= FalseLiteral }

// IsBoolLiteral reports whether k is true or false.
func (k Kind) IsBoolLiteral() bool { return k == TrueLiteral || k == FalseLiteral }

// IsNumberLiteral reports whether k is a decimal or hex number literal.
func (k Kind) IsNumberLiteral() bool { return k == NumberLiteral || k == HexNumberLiteral }

// IsAssignment reports whether k is "=" or a compound assignment operator.
func (k Kind) IsAssignment() bool { return k >= Assign && k <= AssignMod }

// IsCompare reports whether k is an equality or ordering operator.
func (k Kind) IsCompare() bool { return k >= Equal && k <= GreaterThanOrEqual }

// IsStateMutability reports whether k is a mutability specifier keyword.
func (k Kind) IsStateMutability() bool { return k == Pure || k == View || k == Payable }

// IsVisibility reports whether k is a visibility specifier keyword.
func (k Kind) IsVisibility() bool {
	return k == Public || k == External || k == Internal || k == Private
}

// IsDataLocation reports whether k is memory, storage or calldata.
func (k Kind) IsDataLocation() bool { return k == Memory || k == Storage || k == Calldata }

// BinaryOf returns the binary operator underlying a compound assignment,
// e.g. Add for "+=". It returns false for plain "=" and non-assignments.
// BinaryOf 返回复合赋值运算符对应的二元运算符，例如 "+=" 对应 Add。
func (k Kind) BinaryOf() (Kind, bool) {
	switch k {
	case AssignBitOr:
		return BitOr, true
	case AssignBitXor:
		return BitXor, true
	case AssignBitAnd:
		return BitAnd, true
	case AssignShl:
		return Shl, true
	case AssignSar:
		return Sar, true
	case AssignAdd:
		return Add, true
	case AssignSub:
		return Sub, true
	case AssignMul:
		return Mul, true
	case AssignDiv:
		return Div, true
	case AssignMod:
		return Mod, true
	}
	return 0, false
}

// Token is a single lexeme. Size carries the bit width of uintN/intN and the
// byte width of bytesN, it is zero for every other kind.
// Token 是单个词素。Size 对 uintN/intN 表示位宽，对 bytesN 表示字节宽度，其余为零。
type Token struct {
	Kind Kind
	Text string
	Size int
	Span Span
}

// String implements fmt.Stringer.
func (t Token) String() string {
	switch t.Kind {
	case Identifier, NumberLiteral, HexNumberLiteral, PragmaValue:
		return fmt.Sprintf("%v(%s)", t.Kind, t.Text)
	}
	if t.Kind.IsElementaryType() {
		return t.TypeName()
	}
	return t.Kind.String()
}

// TypeName returns the canonical spelling of an elementary type token, with
// the implicit width of "uint" and "int" made explicit.
// TypeName 返回基本类型标记的规范拼写，"uint" 和 "int" 的隐式宽度会被显式写出。
func (t Token) TypeName() string {
	switch t.Kind {
	case UInt:
		return "uint" + strconv.Itoa(t.Size)
	case Int:
		return "int" + strconv.Itoa(t.Size)
	case FixedBytes:
		return "bytes" + strconv.Itoa(t.Size)
	}
	return t.Kind.String()
}

// Lookup classifies an identifier-shaped lexeme. It returns the keyword or
// elementary type kind (with its size) when the lexeme is one, and
// Identifier otherwise.
// Lookup 对标识符形式的词素进行分类。
func Lookup(ident string) (Kind, int) {
	if kind, ok := keywords[ident]; ok {
		return kind, 0
	}
	switch {
	case ident == "uint":
		return UInt, 256
	case ident == "int":
		return Int, 256
	case strings.HasPrefix(ident, "uint"):
		if n, ok := sizeSuffix(ident[4:], 8, 256, 8); ok {
			return UInt, n
		}
	case strings.HasPrefix(ident, "int"):
		if n, ok := sizeSuffix(ident[3:], 8, 256, 8); ok {
			return Int, n
		}
	case strings.HasPrefix(ident, "bytes"):
		if n, ok := sizeSuffix(ident[5:], 1, 32, 1); ok {
			return FixedBytes, n
		}
	}
	return Identifier, 0
}

// ElementaryTypeNames lists the spelling of every elementary type name, in
// a stable order.
func ElementaryTypeNames() []string {
	names := []string{"address", "bool", "string", "bytes"}
	for n := 8; n <= 256; n += 8 {
		names = append(names, "uint"+strconv.Itoa(n), "int"+strconv.Itoa(n))
	}
	for n := 1; n <= 32; n++ {
		names = append(names, "bytes"+strconv.Itoa(n))
	}
	return names
}

func sizeSuffix(s string, lo, hi, step int) (int, bool) {
	if s == "" || s[0] == '0' {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi || n%step != 0 {
		return 0, false
	}
	return n, true
}
