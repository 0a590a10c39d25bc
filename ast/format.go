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

import (
	"fmt"
	"strings"
)

// Format renders an expression or type name as a fully parenthesized
// s-expression, e.g. "(+ a (* b c))". Other nodes render as their Go type.
// Format 将表达式或类型名渲染为完全加括号的 S 表达式。
func Format(node Node) string {
	var b strings.Builder
	format(&b, node)
	return b.String()
}

func format(b *strings.Builder, node Node) {
	if isNil(node) {
		b.WriteString("_")
		return
	}
	switch n := node.(type) {
	case *Identifier:
		b.WriteString(n.Name)
	case *Literal:
		b.WriteString(n.Token.Text)
	case *ElementaryTypeNameExpression:
		format(b, n.Type)
	case *ElementaryTypeName:
		b.WriteString(n.Token.TypeName())
		if n.Payable {
			b.WriteString(" payable")
		}
	case *UserDefinedTypeName:
		b.WriteString(n.Name)
	case *Assignment:
		list(b, n.Operator.String(), n.Left, n.Right)
	case *UnaryOperation:
		op := n.Operator.String()
		if !n.Prefix {
			op = "post" + op
		}
		list(b, op, n.Operand)
	case *BinaryOperation:
		list(b, n.Operator.String(), n.Left, n.Right)
	case *Conditional:
		list(b, "?:", n.Condition, n.TrueExpression, n.FalseExpression)
	case *FunctionCall:
		nodes := []Node{n.Expression}
		for _, arg := range n.Arguments {
			nodes = append(nodes, arg)
		}
		list(b, "call", nodes...)
	case *MemberAccess:
		format(b, n.Expression)
		b.WriteString(".")
		b.WriteString(n.Member)
	case *IndexAccess:
		list(b, "index", n.Base, n.Index)
	case *IndexRangeAccess:
		list(b, "slice", n.Base, n.Start, n.End)
	case *NewExpression:
		list(b, "new", n.Type)
	case *TupleExpression:
		nodes := make([]Node, len(n.Components))
		for i, c := range n.Components {
			nodes[i] = c
		}
		list(b, "tuple", nodes...)
	default:
		fmt.Fprintf(b, "<%T>", node)
	}
}

func list(b *strings.Builder, head string, nodes ...Node) {
	b.WriteString("(")
	b.WriteString(head)
	for _, n := range nodes {
		b.WriteString(" ")
		format(b, n)
	}
	b.WriteString(")")
}
