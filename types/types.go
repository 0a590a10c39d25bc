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

// Package types implements the semantic types of the compiler and the rules
// for converting between them.
//
// Semantic types are distinct from the syntactic type names of package ast:
// they describe the resolved type of every expression and symbol. Literals
// stay weakly typed until a context forces them into an elementary type.
//
// Package types 实现编译器的语义类型及其相互转换规则。
// 语义类型不同于 ast 包中的语法类型名：它们描述每个表达式和符号解析后的类型。
// 字面量在上下文将其强制为基本类型之前保持弱类型。
package types

import (
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/sunyihoo/go-solidity/ast"
	"github.com/sunyihoo/go-solidity/token"
)

// Type is implemented by every semantic type.
type Type interface {
	String() string
	isType()
}

// Literal is the type of a literal expression before it is forced into an
// elementary type. Constant holds the exact value of a folded constant
// expression such as "-1" or "10 ** 18"; it is nil for a literal taken from
// the source, whose value is read from the token.
// Literal 是字面量表达式在被强制为基本类型之前的类型。Constant 保存折叠后常量表达式的精确值。
type Literal struct {
	Token    token.Token
	Constant *big.Int
}

// Elementary is one of address, bool, string, bytes, uintN, intN and bytesN.
// Size is the bit width of integers and the byte width of bytesN.
// Elementary 是 address、bool、string、bytes、uintN、intN 和 bytesN 之一。
type Elementary struct {
	Kind    token.Kind
	Size    int
	Payable bool
}

// Function is the type of a callable. Conversion marks the pseudo-functions
// standing for explicit type conversions such as uint8(x) or C(addr).
// Function 是可调用对象的类型。Conversion 标记表示显式类型转换的伪函数。
type Function struct {
	Params     []Type
	Returns    []Type
	Conversion bool
}

// Contract maps each function name of a contract to its overloads.
type Contract struct {
	Name      string
	Functions map[string][]*Function
}

// Field is a named member of a struct.
type Field struct {
	Name string
	Type Type
}

// Struct has ordered named members.
type Struct struct {
	Name    string
	Members []Field
}

// Tuple is an ordered, possibly empty list of types. It types multi-value
// returns and grouped assignment targets. A nil element stands for an
// omitted component, as in (a, , b).
type Tuple struct {
	Elements []Type
}

func (*Literal) isType()    {}
func (*Elementary) isType() {}
func (*Function) isType()   {}
func (*Contract) isType()   {}
func (*Struct) isType()     {}
func (*Tuple) isType()      {}

// Elementary type constructors.
func Uint(bits int) *Elementary     { return &Elementary{Kind: token.UInt, Size: bits} }
func Int(bits int) *Elementary      { return &Elementary{Kind: token.Int, Size: bits} }
func FixedBytes(n int) *Elementary  { return &Elementary{Kind: token.FixedBytes, Size: n} }
func Address() *Elementary          { return &Elementary{Kind: token.Address} }
func PayableAddress() *Elementary   { return &Elementary{Kind: token.Address, Payable: true} }
func Bool() *Elementary             { return &Elementary{Kind: token.Bool} }
func String() *Elementary           { return &Elementary{Kind: token.String} }
func Bytes() *Elementary            { return &Elementary{Kind: token.Bytes} }
func EmptyTuple() *Tuple            { return &Tuple{} }
func NewTuple(elems ...Type) *Tuple { return &Tuple{Elements: elems} }
func NewContract(name string) *Contract {
	return &Contract{Name: name, Functions: make(map[string][]*Function)}
}

// FromTypeName converts an elementary type name of the syntax tree.
// FromTypeName 转换语法树中的基本类型名。
func FromTypeName(n *ast.ElementaryTypeName) *Elementary {
	return &Elementary{Kind: n.Token.Kind, Size: n.Token.Size, Payable: n.Payable}
}

// FromToken converts an elementary type keyword token.
func FromToken(tok token.Token) *Elementary {
	return &Elementary{Kind: tok.Kind, Size: tok.Size}
}

// IsInteger reports whether t is uintN or intN.
func (t *Elementary) IsInteger() bool { return t.Kind == token.UInt || t.Kind == token.Int }

// IsSigned reports whether t is intN.
func (t *Elementary) IsSigned() bool { return t.Kind == token.Int }

// IsFixedBytes reports whether t is bytesN.
func (t *Elementary) IsFixedBytes() bool { return t.Kind == token.FixedBytes }

// IsDynamic reports whether t is string or bytes.
func (t *Elementary) IsDynamic() bool { return t.Kind == token.String || t.Kind == token.Bytes }

// Bits returns the width of the value in bits, zero for dynamic types.
// Bits 返回值的位宽，动态类型返回零。
func (t *Elementary) Bits() int {
	switch t.Kind {
	case token.UInt, token.Int:
		return t.Size
	case token.FixedBytes:
		return t.Size * 8
	case token.Address:
		return 160
	case token.Bool:
		return 8
	}
	return 0
}

// Canonical returns the canonical ABI spelling, e.g. "uint256". The payable
// marker is dropped.
func (t *Elementary) Canonical() string {
	switch t.Kind {
	case token.UInt:
		return "uint" + strconv.Itoa(t.Size)
	case token.Int:
		return "int" + strconv.Itoa(t.Size)
	case token.FixedBytes:
		return "bytes" + strconv.Itoa(t.Size)
	}
	return t.Kind.String()
}

func (t *Elementary) String() string {
	if t.Payable {
		return t.Canonical() + " payable"
	}
	return t.Canonical()
}

func (t *Literal) String() string {
	switch {
	case t.Token.Kind.IsBoolLiteral():
		return "bool_const " + t.Token.Text
	case t.Token.Kind.IsNumberLiteral():
		return "int_const " + t.Token.Text
	}
	return "literal_string " + strconv.Quote(t.Token.Text)
}

func (t *Function) String() string {
	var b strings.Builder
	b.WriteString("function (")
	b.WriteString(joinTypes(t.Params))
	b.WriteString(")")
	if len(t.Returns) > 0 {
		b.WriteString(" returns (")
		b.WriteString(joinTypes(t.Returns))
		b.WriteString(")")
	}
	return b.String()
}

func (t *Contract) String() string { return "contract " + t.Name }
func (t *Struct) String() string   { return "struct " + t.Name }

func (t *Tuple) String() string {
	return "tuple(" + joinTypes(t.Elements) + ")"
}

// FunctionNames returns the names of the contract functions, sorted.
func (t *Contract) FunctionNames() []string {
	names := make([]string, 0, len(t.Functions))
	for name := range t.Functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Member looks up a struct field by name.
func (t *Struct) Member(name string) (Type, bool) {
	for _, f := range t.Members {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// Result is the type a call of the function evaluates to: the single return
// type, or a tuple for zero and several return values.
// Result 是调用函数所得的类型：单个返回类型，或零个及多个返回值时的元组。
func (t *Function) Result() Type {
	if len(t.Returns) == 1 {
		return t.Returns[0]
	}
	return &Tuple{Elements: t.Returns}
}

// Target is the type a conversion pseudo-function converts to.
func (t *Function) Target() Type {
	if !t.Conversion || len(t.Returns) != 1 {
		return nil
	}
	return t.Returns[0]
}

// SameParams reports whether both functions take identical parameter types.
// It decides whether two definitions collide as overloads.
func (t *Function) SameParams(o *Function) bool {
	if len(t.Params) != len(o.Params) {
		return false
	}
	for i := range t.Params {
		if !Identical(t.Params[i], o.Params[i]) {
			return false
		}
	}
	return true
}

// Accepts reports whether the function can be called with arguments of the
// given types. Conversions take exactly one argument explicitly convertible
// to their target, regular functions need implicitly convertible arguments.
// Accepts 判断函数能否以给定类型的实参调用。
func (t *Function) Accepts(args []Type) bool {
	if len(args) != len(t.Params) {
		return false
	}
	if t.Conversion {
		return ExplicitlyConvertible(args[0], t.Target())
	}
	for i, arg := range args {
		if !ImplicitlyConvertible(arg, t.Params[i]) {
			return false
		}
	}
	return true
}

// Identical reports whether two types are the same type.
// Identical 判断两个类型是否相同。
func Identical(a, b Type) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case *Literal:
		b, ok := b.(*Literal)
		return ok && a.Token.Kind == b.Token.Kind && a.Token.Text == b.Token.Text
	case *Elementary:
		b, ok := b.(*Elementary)
		return ok && a.Kind == b.Kind && a.Size == b.Size && a.Payable == b.Payable
	case *Function:
		b, ok := b.(*Function)
		return ok && a.Conversion == b.Conversion && identicalList(a.Params, b.Params) && identicalList(a.Returns, b.Returns)
	case *Contract:
		b, ok := b.(*Contract)
		return ok && a.Name == b.Name
	case *Struct:
		b, ok := b.(*Struct)
		return ok && a.Name == b.Name
	case *Tuple:
		b, ok := b.(*Tuple)
		return ok && identicalList(a.Elements, b.Elements)
	}
	panic(fmt.Sprintf("types: unexpected type %T", a))
}

func identicalList(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Identical(a[i], b[i]) {
			return false
		}
	}
	return true
}

func joinTypes(list []Type) string {
	parts := make([]string, len(list))
	for i, t := range list {
		if t == nil {
			parts[i] = ""
			continue
		}
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}
