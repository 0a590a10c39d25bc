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

// Package ast declares the syntax tree of the supported Solidity subset.
//
// Every node carries a NodeID that is unique within one parsed program. Later
// stages key their side tables (inferred types, memory slots) by that id, so
// two nodes of identical shape never alias.
//
// Package ast 声明了所支持的 Solidity 子集的语法树。
// 每个节点都带有在一次解析的程序中唯一的 NodeID，后续阶段以此为键建立辅助表。
package ast

import "github.com/sunyihoo/go-solidity/token"

// NodeID identifies a node within one program.
type NodeID int

// Node is implemented by every syntax tree node.
type Node interface {
	ID() NodeID
	Span() token.Span
}

// Header holds the identity and source location shared by all nodes.
type Header struct {
	NodeID NodeID
	Source token.Span
}

func (h *Header) ID() NodeID       { return h.NodeID }
func (h *Header) Span() token.Span { return h.Source }

// Expression nodes produce values.
type Expression interface {
	Node
	exprNode()
}

// Statement nodes appear inside function and modifier bodies.
type Statement interface {
	Node
	stmtNode()
}

// TypeName nodes are the syntactic spelling of a type.
type TypeName interface {
	Node
	typeNode()
}

// SourceUnit is a top-level item of a program: a definition or a directive.
type SourceUnit interface {
	Node
	unitNode()
}

// Definition nodes introduce a name, at top level or inside a contract.
type Definition interface {
	SourceUnit
	DefinitionName() string
}

// Program is an ordered sequence of top-level source units.
// Program 是顶层源单元的有序序列。
type Program struct {
	Units []SourceUnit
}

// Expressions
type (
	// Identifier is a reference to a named symbol.
	Identifier struct {
		Header
		Name string
	}

	// Literal is a number or boolean literal, kept as its raw token.
	Literal struct {
		Header
		Token token.Token
	}

	// ElementaryTypeNameExpression is an elementary type used in expression
	// position, e.g. the callee of uint8(x).
	ElementaryTypeNameExpression struct {
		Header
		Type *ElementaryTypeName
	}

	Assignment struct {
		Header
		Operator token.Kind
		Left     Expression
		Right    Expression
	}

	UnaryOperation struct {
		Header
		Operator token.Kind
		Prefix   bool
		Operand  Expression
	}

	BinaryOperation struct {
		Header
		Operator token.Kind
		Left     Expression
		Right    Expression
	}

	Conditional struct {
		Header
		Condition       Expression
		TrueExpression  Expression
		FalseExpression Expression
	}

	FunctionCall struct {
		Header
		Expression Expression
		Arguments  []Expression
	}

	// MemberAccess is expr.Member, the member is always an identifier.
	MemberAccess struct {
		Header
		Expression Expression
		Member     string
		MemberSpan token.Span
	}

	// IndexAccess is base[index], index is nil for base[].
	IndexAccess struct {
		Header
		Base  Expression
		Index Expression
	}

	// IndexRangeAccess is base[start:end], both bounds are optional.
	IndexRangeAccess struct {
		Header
		Base  Expression
		Start Expression
		End   Expression
	}

	NewExpression struct {
		Header
		Type TypeName
	}

	// TupleExpression is a parenthesized, comma separated list. Components
	// may be nil for omitted entries, as in (a, , b).
	TupleExpression struct {
		Header
		Components []Expression
	}
)

func (*Identifier) exprNode()                   {}
func (*Literal) exprNode()                      {}
func (*ElementaryTypeNameExpression) exprNode() {}
func (*Assignment) exprNode()                   {}
func (*UnaryOperation) exprNode()               {}
func (*BinaryOperation) exprNode()              {}
func (*Conditional) exprNode()                  {}
func (*FunctionCall) exprNode()                 {}
func (*MemberAccess) exprNode()                 {}
func (*IndexAccess) exprNode()                  {}
func (*IndexRangeAccess) exprNode()             {}
func (*NewExpression) exprNode()                {}
func (*TupleExpression) exprNode()              {}

// Statements
type (
	Block struct {
		Header
		Statements []Statement
	}

	// UncheckedBlock groups statements like Block, with arithmetic overflow
	// checks disabled.
	UncheckedBlock struct {
		Header
		Statements []Statement
	}

	ExpressionStatement struct {
		Header
		Expression Expression
	}

	// VariableDeclarationStatement declares one variable, or several in the
	// tuple form (a, , b) = ...; omitted slots are nil.
	VariableDeclarationStatement struct {
		Header
		Declarations []*VariableDeclaration
		Initial      Expression
	}

	IfStatement struct {
		Header
		Condition Expression
		TrueBody  Statement
		FalseBody Statement
	}

	// ForStatement has optional Init, Condition and Loop parts.
	ForStatement struct {
		Header
		Init      Statement
		Condition Expression
		Loop      Expression
		Body      Statement
	}

	WhileStatement struct {
		Header
		Condition Expression
		Body      Statement
	}

	DoWhileStatement struct {
		Header
		Body      Statement
		Condition Expression
	}

	Continue struct{ Header }
	Break    struct{ Header }

	// Return carries an optional value.
	Return struct {
		Header
		Expression Expression
	}

	EmitStatement struct {
		Header
		Call *FunctionCall
	}

	RevertStatement struct {
		Header
		Call *FunctionCall
	}

	// PlaceholderStatement is the "_;" of modifier bodies.
	PlaceholderStatement struct{ Header }
)

func (*Block) stmtNode()                        {}
func (*UncheckedBlock) stmtNode()               {}
func (*ExpressionStatement) stmtNode()          {}
func (*VariableDeclarationStatement) stmtNode() {}
func (*IfStatement) stmtNode()                  {}
func (*ForStatement) stmtNode()                 {}
func (*WhileStatement) stmtNode()               {}
func (*DoWhileStatement) stmtNode()             {}
func (*Continue) stmtNode()                     {}
func (*Break) stmtNode()                        {}
func (*Return) stmtNode()                       {}
func (*EmitStatement) stmtNode()                {}
func (*RevertStatement) stmtNode()              {}
func (*PlaceholderStatement) stmtNode()         {}

// Type names
type (
	// ElementaryTypeName is address, bool, string, bytes, uintN, intN or
	// bytesN. Payable marks "address payable".
	ElementaryTypeName struct {
		Header
		Token   token.Token
		Payable bool
	}

	// UserDefinedTypeName refers to a contract or struct by name.
	UserDefinedTypeName struct {
		Header
		Name string
	}

	ArrayTypeName struct {
		Header
		Base   TypeName
		Length Expression
	}

	Mapping struct {
		Header
		Key   TypeName
		Value TypeName
	}
)

func (*ElementaryTypeName) typeNode()  {}
func (*UserDefinedTypeName) typeNode() {}
func (*ArrayTypeName) typeNode()       {}
func (*Mapping) typeNode()             {}

// Definitions
type (
	// VariableDeclaration is used for parameters, return values, local
	// variables, struct members and state variables. Only state variables
	// use Visibility, Constant, Immutable and Initial, only event parameters
	// use Indexed.
	VariableDeclaration struct {
		Header
		Type       TypeName
		Name       string
		Location   token.Kind // Memory, Storage, Calldata or zero
		Indexed    bool
		Visibility token.Kind
		Constant   bool
		Immutable  bool
		Initial    Expression
	}

	// FunctionDefinition has a nil Body when it is only declared.
	FunctionDefinition struct {
		Header
		Name       string
		Parameters []*VariableDeclaration
		Returns    []*VariableDeclaration
		Visibility token.Kind // zero when not given
		Mutability token.Kind // Pure, View, Payable or zero for nonpayable
		Virtual    bool
		Override   bool
		Modifiers  []*ModifierInvocation
		Body       *Block
	}

	ModifierInvocation struct {
		Header
		Name      string
		Arguments []Expression
	}

	ContractDefinition struct {
		Header
		Name    string
		Members []Definition
	}

	EventDefinition struct {
		Header
		Name       string
		Parameters []*VariableDeclaration
		Anonymous  bool
	}

	ErrorDefinition struct {
		Header
		Name       string
		Parameters []*VariableDeclaration
	}

	StructDefinition struct {
		Header
		Name    string
		Members []*VariableDeclaration
	}

	ModifierDefinition struct {
		Header
		Name       string
		Parameters []*VariableDeclaration
		Virtual    bool
		Override   bool
		Body       *Block
	}

	// PragmaDirective keeps the raw text following the pragma keyword.
	PragmaDirective struct {
		Header
		Value string
	}
)

func (*VariableDeclaration) unitNode() {}
func (*FunctionDefinition) unitNode()  {}
func (*ContractDefinition) unitNode()  {}
func (*EventDefinition) unitNode()     {}
func (*ErrorDefinition) unitNode()     {}
func (*StructDefinition) unitNode()    {}
func (*ModifierDefinition) unitNode()  {}
func (*PragmaDirective) unitNode()     {}

func (d *VariableDeclaration) DefinitionName() string { return d.Name }
func (d *FunctionDefinition) DefinitionName() string  { return d.Name }
func (d *ContractDefinition) DefinitionName() string  { return d.Name }
func (d *EventDefinition) DefinitionName() string     { return d.Name }
func (d *ErrorDefinition) DefinitionName() string     { return d.Name }
func (d *StructDefinition) DefinitionName() string    { return d.Name }
func (d *ModifierDefinition) DefinitionName() string  { return d.Name }

// IsDispatchable reports whether the function can be called from outside
// the contract, i.e. it is declared external or public.
// IsDispatchable 判断函数是否可以从合约外部调用，即声明为 external 或 public。
func (f *FunctionDefinition) IsDispatchable() bool {
	return f.Visibility == token.External || f.Visibility == token.Public
}
