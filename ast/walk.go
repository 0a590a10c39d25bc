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

package ast

import "fmt"

// Inspect traverses the tree rooted at node in depth-first order, calling f
// for every node. If f returns false the children of that node are skipped.
// Nil children are not visited.
// Inspect 以深度优先顺序遍历以 node 为根的树，对每个节点调用 f。
func Inspect(node Node, f func(Node) bool) {
	if isNil(node) || !f(node) {
		return
	}
	for _, child := range children(node) {
		Inspect(child, f)
	}
}

// InspectProgram calls Inspect on every source unit of the program.
func InspectProgram(program *Program, f func(Node) bool) {
	for _, unit := range program.Units {
		Inspect(unit, f)
	}
}

// isNil catches typed nil pointers stored in the optional child slots.
func isNil(node Node) bool {
	switch n := node.(type) {
	case nil:
		return true
	case *VariableDeclaration:
		return n == nil
	case *Block:
		return n == nil
	case *FunctionCall:
		return n == nil
	case *ElementaryTypeName:
		return n == nil
	}
	return false
}

func children(node Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, n := range nodes {
			if !isNil(n) {
				out = append(out, n)
			}
		}
	}
	addExprs := func(exprs []Expression) {
		for _, e := range exprs {
			if e != nil {
				add(e)
			}
		}
	}
	addDecls := func(decls []*VariableDeclaration) {
		for _, d := range decls {
			if d != nil {
				add(d)
			}
		}
	}
	addStmts := func(stmts []Statement) {
		for _, s := range stmts {
			add(s)
		}
	}
	switch n := node.(type) {
	// Expressions
	case *Identifier, *Literal:
	case *ElementaryTypeNameExpression:
		add(n.Type)
	case *Assignment:
		add(n.Left, n.Right)
	case *UnaryOperation:
		add(n.Operand)
	case *BinaryOperation:
		add(n.Left, n.Right)
	case *Conditional:
		add(n.Condition, n.TrueExpression, n.FalseExpression)
	case *FunctionCall:
		add(n.Expression)
		addExprs(n.Arguments)
	case *MemberAccess:
		add(n.Expression)
	case *IndexAccess:
		add(n.Base)
		if n.Index != nil {
			add(n.Index)
		}
	case *IndexRangeAccess:
		add(n.Base)
		addExprs([]Expression{n.Start, n.End})
	case *NewExpression:
		add(n.Type)
	case *TupleExpression:
		addExprs(n.Components)

	// Statements
	case *Block:
		addStmts(n.Statements)
	case *UncheckedBlock:
		addStmts(n.Statements)
	case *ExpressionStatement:
		add(n.Expression)
	case *VariableDeclarationStatement:
		addDecls(n.Declarations)
		if n.Initial != nil {
			add(n.Initial)
		}
	case *IfStatement:
		add(n.Condition, n.TrueBody)
		if n.FalseBody != nil {
			add(n.FalseBody)
		}
	case *ForStatement:
		if n.Init != nil {
			add(n.Init)
		}
		addExprs([]Expression{n.Condition, n.Loop})
		add(n.Body)
	case *WhileStatement:
		add(n.Condition, n.Body)
	case *DoWhileStatement:
		add(n.Body, n.Condition)
	case *Continue, *Break, *PlaceholderStatement:
	case *Return:
		if n.Expression != nil {
			add(n.Expression)
		}
	case *EmitStatement:
		add(n.Call)
	case *RevertStatement:
		add(n.Call)

	// Type names
	case *ElementaryTypeName, *UserDefinedTypeName:
	case *ArrayTypeName:
		add(n.Base)
		if n.Length != nil {
			add(n.Length)
		}
	case *Mapping:
		add(n.Key, n.Value)

	// Definitions
	case *VariableDeclaration:
		add(n.Type)
		if n.Initial != nil {
			add(n.Initial)
		}
	case *FunctionDefinition:
		addDecls(n.Parameters)
		addDecls(n.Returns)
		for _, m := range n.Modifiers {
			add(m)
		}
		add(n.Body)
	case *ModifierInvocation:
		addExprs(n.Arguments)
	case *ContractDefinition:
		for _, m := range n.Members {
			add(m)
		}
	case *EventDefinition:
		addDecls(n.Parameters)
	case *ErrorDefinition:
		addDecls(n.Parameters)
	case *StructDefinition:
		addDecls(n.Members)
	case *ModifierDefinition:
		addDecls(n.Parameters)
		add(n.Body)
	case *PragmaDirective:
	default:
		panic(fmt.Sprintf("ast: unexpected node type %T", node))
	}
	return out
}
