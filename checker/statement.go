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

package checker

import (
	"github.com/sunyihoo/go-solidity/ast"
	"github.com/sunyihoo/go-solidity/diag"
	"github.com/sunyihoo/go-solidity/types"
)

func (c *checker) checkStatements(stmts []ast.Statement) error {
	for _, stmt := range stmts {
		if err := c.checkStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// checkScoped checks a statement in a scope of its own, so declarations in
// the body of a branch or loop do not leak.
func (c *checker) checkScoped(stmt ast.Statement) error {
	c.push()
	defer c.pop()
	return c.checkStatement(stmt)
}

// checkStatement checks a single statement.
// checkStatement 检查单条语句。
func (c *checker) checkStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.VariableDeclarationStatement:
		return c.checkVariableDeclaration(s)
	case *ast.ExpressionStatement:
		_, err := c.checkExpression(s.Expression)
		return err
	case *ast.Block:
		c.push()
		defer c.pop()
		return c.checkStatements(s.Statements)
	case *ast.UncheckedBlock:
		c.push()
		defer c.pop()
		return c.checkStatements(s.Statements)
	case *ast.IfStatement:
		if err := c.checkCondition(s.Condition); err != nil {
			return err
		}
		if err := c.checkScoped(s.TrueBody); err != nil {
			return err
		}
		if s.FalseBody != nil {
			return c.checkScoped(s.FalseBody)
		}
		return nil
	case *ast.ForStatement:
		c.push()
		defer c.pop()
		if s.Init != nil {
			if err := c.checkStatement(s.Init); err != nil {
				return err
			}
		}
		if s.Condition != nil {
			if err := c.checkCondition(s.Condition); err != nil {
				return err
			}
		}
		if s.Loop != nil {
			if _, err := c.checkExpression(s.Loop); err != nil {
				return err
			}
		}
		return c.checkScoped(s.Body)
	case *ast.WhileStatement:
		if err := c.checkCondition(s.Condition); err != nil {
			return err
		}
		return c.checkScoped(s.Body)
	case *ast.DoWhileStatement:
		if err := c.checkScoped(s.Body); err != nil {
			return err
		}
		return c.checkCondition(s.Condition)
	case *ast.Return:
		return c.checkReturn(s)
	case *ast.EmitStatement:
		// Events and errors are not callable symbols, only the arguments
		// get types.
		_, err := c.checkExpressions(s.Call.Arguments)
		return err
	case *ast.RevertStatement:
		_, err := c.checkExpressions(s.Call.Arguments)
		return err
	case *ast.Continue, *ast.Break, *ast.PlaceholderStatement:
		return nil
	}
	return diag.Invariant("unexpected statement %T", stmt)
}

// checkVariableDeclaration checks the initializer before binding the new
// variables, so it cannot refer to them.
func (c *checker) checkVariableDeclaration(s *ast.VariableDeclarationStatement) error {
	declared := make([]types.Type, len(s.Declarations))
	for i, decl := range s.Declarations {
		if decl == nil {
			continue
		}
		t, err := c.resolveTypeName(decl.Type)
		if err != nil {
			return err
		}
		declared[i] = t
	}
	if s.Initial != nil {
		init, err := c.checkExpression(s.Initial)
		if err != nil {
			return err
		}
		if len(s.Declarations) == 1 {
			if !types.ImplicitlyConvertible(init, declared[0]) {
				return c.errorf(diag.CodeDeclarationConvert, s.Initial.Span(),
					"Type %v is not implicitly convertible to expected type %v.", init, declared[0])
			}
		} else {
			tuple, ok := init.(*types.Tuple)
			if !ok || len(tuple.Elements) != len(declared) {
				return c.errorf(diag.CodeTupleComponents, s.Span(),
					"Different number of components on the left hand side (%d) than on the right hand side (%d).",
					len(declared), componentCount(init))
			}
			for i, t := range declared {
				if t != nil && !types.ImplicitlyConvertible(tuple.Elements[i], t) {
					return c.errorf(diag.CodeDeclarationConvert, s.Initial.Span(),
						"Type %v is not implicitly convertible to expected type %v.", tuple.Elements[i], t)
				}
			}
		}
	}
	for i, decl := range s.Declarations {
		if decl == nil {
			continue
		}
		if err := c.bind(decl.Name, &symbol{kind: symVariable, typ: declared[i]}, decl.Span()); err != nil {
			return err
		}
	}
	return nil
}

func componentCount(t types.Type) int {
	if tuple, ok := t.(*types.Tuple); ok {
		return len(tuple.Elements)
	}
	return 1
}

// checkCondition checks an expression used as a branch or loop condition.
func (c *checker) checkCondition(expr ast.Expression) error {
	t, err := c.checkExpression(expr)
	if err != nil {
		return err
	}
	if !types.ImplicitlyConvertible(t, types.Bool()) {
		return c.errorf(diag.CodeImplicitConvert, expr.Span(),
			"Type %v is not implicitly convertible to expected type bool.", t)
	}
	return nil
}

// checkReturn matches the returned value against the return types of the
// enclosing function. A bare return is always allowed.
// checkReturn 将返回值与所在函数的返回类型进行匹配，不带值的 return 总是允许的。
func (c *checker) checkReturn(s *ast.Return) error {
	if s.Expression == nil {
		return nil
	}
	t, err := c.checkExpression(s.Expression)
	if err != nil {
		return err
	}
	switch len(c.returns) {
	case 0:
		return c.errorf(diag.CodeReturnArity, s.Span(),
			"Different number of arguments in return statement than in returns declaration.")
	case 1:
		if !types.ImplicitlyConvertible(t, c.returns[0]) {
			return c.errorf(diag.CodeReturnConvert, s.Expression.Span(),
				"Return argument type %v is not implicitly convertible to expected type (type of first return variable) %v.", t, c.returns[0])
		}
		return nil
	}
	tuple, ok := t.(*types.Tuple)
	if !ok || len(tuple.Elements) != len(c.returns) {
		return c.errorf(diag.CodeReturnArity, s.Span(),
			"Different number of arguments in return statement than in returns declaration.")
	}
	for i, elem := range tuple.Elements {
		if !types.ImplicitlyConvertible(elem, c.returns[i]) {
			return c.errorf(diag.CodeReturnConvert, s.Expression.Span(),
				"Return argument type %v is not implicitly convertible to expected type %v.", elem, c.returns[i])
		}
	}
	return nil
}
