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
	"github.com/sunyihoo/go-solidity/token"
	"github.com/sunyihoo/go-solidity/types"
)

// checkExpression resolves the type of an expression and records it.
// checkExpression 解析表达式的类型并记录下来。
func (c *checker) checkExpression(expr ast.Expression) (types.Type, error) {
	t, err := c.expression(expr)
	if err != nil {
		return nil, err
	}
	c.ann.set(expr, t)
	return t, nil
}

// checkExpressions checks a list of expressions in order. Nil entries, the
// omitted components of a tuple, have a nil type.
func (c *checker) checkExpressions(exprs []ast.Expression) ([]types.Type, error) {
	out := make([]types.Type, len(exprs))
	for i, e := range exprs {
		if e == nil {
			continue
		}
		t, err := c.checkExpression(e)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func (c *checker) expression(expr ast.Expression) (types.Type, error) {
	switch e := expr.(type) {
	case *ast.Identifier:
		return c.identifier(e)
	case *ast.Literal:
		return &types.Literal{Token: e.Token}, nil
	case *ast.ElementaryTypeNameExpression:
		return c.elementaryConversion(e)
	case *ast.Assignment:
		return c.assignment(e)
	case *ast.UnaryOperation:
		return c.unary(e)
	case *ast.BinaryOperation:
		return c.binary(e)
	case *ast.Conditional:
		return c.conditional(e)
	case *ast.FunctionCall:
		return c.call(e)
	case *ast.MemberAccess:
		return c.memberAccess(e)
	case *ast.TupleExpression:
		elems, err := c.checkExpressions(e.Components)
		if err != nil {
			return nil, err
		}
		return &types.Tuple{Elements: elems}, nil
	case *ast.IndexAccess:
		return nil, diag.NotImplemented("index access", e.Span())
	case *ast.IndexRangeAccess:
		return nil, diag.NotImplemented("index range access", e.Span())
	case *ast.NewExpression:
		return nil, diag.NotImplemented("new expression", e.Span())
	}
	return nil, diag.Invariant("unexpected expression %T", expr)
}

// identifier resolves a name. When the identifier is the target of a call,
// the argument types are used to pick the matching overload.
// identifier 解析名称。当标识符是调用目标时，使用实参类型选择匹配的重载。
func (c *checker) identifier(e *ast.Identifier) (types.Type, error) {
	sym, fns := c.lookup(e.Name)
	if sym == nil && fns == nil {
		return nil, c.errorf(diag.CodeUndeclared, e.Span(), "Undeclared identifier.")
	}
	if sym != nil {
		return sym.typ, nil
	}
	args, isCall := c.pending[e.ID()]
	if !isCall {
		if len(fns) > 1 {
			return nil, c.errorf(diag.CodeAmbiguousOverload, e.Span(), "No unique declaration found after argument-dependent lookup.")
		}
		return fns[0], nil
	}
	return c.selectOverload(fns, args, e.Span())
}

// selectOverload picks the single overload accepting the argument types.
// With a single candidate the precise reason of a mismatch is reported.
func (c *checker) selectOverload(fns []*types.Function, args []types.Type, span token.Span) (*types.Function, error) {
	if len(fns) == 1 {
		if err := c.matchArguments(fns[0], args, span); err != nil {
			return nil, err
		}
		return fns[0], nil
	}
	var matches []*types.Function
	for _, fn := range fns {
		if fn.Accepts(args) {
			matches = append(matches, fn)
		}
	}
	switch len(matches) {
	case 0:
		return nil, c.errorf(diag.CodeNoMatchingOverload, span, "No matching declaration found after argument-dependent lookup.")
	case 1:
		return matches[0], nil
	}
	return nil, c.errorf(diag.CodeAmbiguousOverload, span, "No unique declaration found after argument-dependent lookup.")
}

// matchArguments reports why a call with the given argument types does not
// fit the function, or nil if it does.
func (c *checker) matchArguments(fn *types.Function, args []types.Type, span token.Span) error {
	if len(args) != len(fn.Params) {
		return c.errorf(diag.CodeArgumentCount, span,
			"Wrong argument count for function call: %d arguments given but expected %d.", len(args), len(fn.Params))
	}
	if fn.Conversion {
		if !types.ExplicitlyConvertible(args[0], fn.Target()) {
			return c.errorf(diag.CodeExplicitConvert, span,
				"Explicit type conversion not allowed from %v to %v.", args[0], fn.Target())
		}
		return nil
	}
	for i, arg := range args {
		if !types.ImplicitlyConvertible(arg, fn.Params[i]) {
			return c.errorf(diag.CodeImplicitConvert, span,
				"Invalid implicit conversion from %v to %v requested.", arg, fn.Params[i])
		}
	}
	return nil
}

// elementaryConversion resolves uint8(x), address(x) and friends to the
// conversion pseudo-function of the named type.
func (c *checker) elementaryConversion(e *ast.ElementaryTypeNameExpression) (types.Type, error) {
	target := types.FromTypeName(e.Type)
	fn := conversion(target)
	if !target.Payable {
		if _, fns := c.lookup(target.Canonical()); len(fns) == 1 {
			fn = fns[0]
		}
	}
	if args, isCall := c.pending[e.ID()]; isCall {
		if err := c.matchArguments(fn, args, e.Span()); err != nil {
			return nil, err
		}
	}
	return fn, nil
}

// call checks the arguments first and then resolves the call target with
// the argument types at hand.
// call 先检查实参，再利用实参类型解析调用目标。
func (c *checker) call(e *ast.FunctionCall) (types.Type, error) {
	args, err := c.checkExpressions(e.Arguments)
	if err != nil {
		return nil, err
	}
	c.pending[e.Expression.ID()] = args
	target, err := c.checkExpression(e.Expression)
	delete(c.pending, e.Expression.ID())
	if err != nil {
		return nil, err
	}
	fn, ok := target.(*types.Function)
	if !ok {
		return nil, c.errorf(diag.CodeNotCallable, e.Expression.Span(), "Type %v is not callable.", target)
	}
	if err := c.matchArguments(fn, args, e.Span()); err != nil {
		return nil, err
	}
	if fn.Conversion {
		return fn.Target(), nil
	}
	return fn.Result(), nil
}

// memberAccess resolves functions of contracts, fields of structs and the
// balance of addresses.
func (c *checker) memberAccess(e *ast.MemberAccess) (types.Type, error) {
	base, err := c.checkExpression(e.Expression)
	if err != nil {
		return nil, err
	}
	switch b := base.(type) {
	case *types.Contract:
		fns := b.Functions[e.Member]
		if len(fns) == 0 {
			return nil, c.errorf(diag.CodeMemberNotFound, e.MemberSpan,
				"Member %q not found or not visible after argument-dependent lookup in %v.", e.Member, b)
		}
		args, isCall := c.pending[e.ID()]
		if !isCall {
			if len(fns) > 1 {
				return nil, c.errorf(diag.CodeAmbiguousOverload, e.MemberSpan, "No unique declaration found after argument-dependent lookup.")
			}
			return fns[0], nil
		}
		var matches []*types.Function
		for _, fn := range fns {
			if fn.Accepts(args) {
				matches = append(matches, fn)
			}
		}
		switch len(matches) {
		case 0:
			return nil, c.errorf(diag.CodeMemberNotFound, e.MemberSpan,
				"Member %q not found or not visible after argument-dependent lookup in %v.", e.Member, b)
		case 1:
			return matches[0], nil
		}
		return nil, c.errorf(diag.CodeAmbiguousOverload, e.MemberSpan, "No unique declaration found after argument-dependent lookup.")
	case *types.Struct:
		if t, ok := b.Member(e.Member); ok {
			return t, nil
		}
		return nil, c.errorf(diag.CodeMemberNotFound, e.MemberSpan,
			"Member %q not found or not visible after argument-dependent lookup in %v.", e.Member, b)
	case *types.Elementary:
		if b.Kind == token.Address && e.Member == "balance" {
			return types.Uint(256), nil
		}
	}
	return nil, c.errorf(diag.CodeMemberNotFound, e.MemberSpan,
		"Member %q not found or not visible after argument-dependent lookup in %v.", e.Member, base)
}

// isLValue reports whether the expression denotes assignable storage: a
// variable, or a tuple of variables and omitted components.
func (c *checker) isLValue(expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.Identifier:
		sym, ok := c.lookupValue(e.Name)
		return ok && sym.kind == symVariable
	case *ast.TupleExpression:
		for _, comp := range e.Components {
			if comp != nil && !c.isLValue(comp) {
				return false
			}
		}
		return true
	}
	return false
}

func (c *checker) assignment(e *ast.Assignment) (types.Type, error) {
	left, err := c.checkExpression(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.checkExpression(e.Right)
	if err != nil {
		return nil, err
	}
	if !c.isLValue(e.Left) {
		return nil, c.errorf(diag.CodeNotLValue, e.Left.Span(), "Expression has to be an lvalue.")
	}
	op, compound := e.Operator.BinaryOf()
	if !compound {
		if !types.ImplicitlyConvertible(right, left) {
			return nil, c.errorf(diag.CodeImplicitConvert, e.Right.Span(),
				"Type %v is not implicitly convertible to expected type %v.", right, left)
		}
		return left, nil
	}
	if !compoundCompatible(op, left, right) {
		return nil, c.errorf(diag.CodeCompoundAssignment, e.Span(),
			"Operator %v not compatible with types %v and %v.", e.Operator, left, right)
	}
	return left, nil
}

// compoundCompatible implements the operand rule of "x op= y": both sides of
// the same numeric or byte kind, the left at least as wide. Shifts only need
// an unsigned right side.
func compoundCompatible(op token.Kind, left, right types.Type) bool {
	l, ok := left.(*types.Elementary)
	if !ok || !(l.IsInteger() || l.IsFixedBytes()) {
		return false
	}
	if lit, ok := right.(*types.Literal); ok && op != token.Shl && op != token.Sar && types.ImplicitlyConvertible(lit, l) {
		return true
	}
	w, err := types.Weaken(right)
	if err != nil {
		return false
	}
	r, ok := w.(*types.Elementary)
	if !ok {
		return false
	}
	if op == token.Shl || op == token.Sar {
		return r.Kind == token.UInt
	}
	return l.Kind == r.Kind && l.Size >= r.Size
}

// unary checks the prefix and postfix operators.
// unary 检查前缀和后缀运算符。
func (c *checker) unary(e *ast.UnaryOperation) (types.Type, error) {
	operand, err := c.checkExpression(e.Operand)
	if err != nil {
		return nil, err
	}
	unaryErr := func() error {
		return c.errorf(diag.CodeUnaryOperator, e.Span(),
			"Unary operator %v cannot be applied to type %v.", e.Operator, operand)
	}
	switch e.Operator {
	case token.Inc, token.Dec:
		if !c.isLValue(e.Operand) {
			return nil, c.errorf(diag.CodeNotLValue, e.Operand.Span(), "Expression has to be an lvalue.")
		}
		if t, ok := operand.(*types.Elementary); !ok || !t.IsInteger() {
			return nil, unaryErr()
		}
		return operand, nil
	case token.Delete:
		if !c.isLValue(e.Operand) {
			return nil, c.errorf(diag.CodeNotLValue, e.Operand.Span(), "Expression has to be an lvalue.")
		}
		return types.EmptyTuple(), nil
	case token.Sub:
		if lit, ok := operand.(*types.Literal); ok {
			if !lit.Token.Kind.IsNumberLiteral() {
				return nil, c.errorf(diag.CodeUnaryMinus, e.Span(),
					"Built-in unary operator - cannot be applied to type %v.", operand)
			}
			return c.foldUnary(e, lit)
		}
		w, err := types.Weaken(operand)
		if err != nil {
			return nil, err
		}
		t, ok := w.(*types.Elementary)
		if !ok || !t.IsInteger() {
			return nil, c.errorf(diag.CodeUnaryMinus, e.Span(),
				"Built-in unary operator - cannot be applied to type %v.", operand)
		}
		return types.Int(t.Size), nil
	case token.Not:
		w, err := types.Weaken(operand)
		if err != nil {
			return nil, err
		}
		if t, ok := w.(*types.Elementary); !ok || t.Kind != token.Bool {
			return nil, unaryErr()
		}
		return w, nil
	case token.BitNot:
		if lit, ok := operand.(*types.Literal); ok && lit.Token.Kind.IsNumberLiteral() {
			return c.foldUnary(e, lit)
		}
		w, err := types.Weaken(operand)
		if err != nil {
			return nil, err
		}
		if t, ok := w.(*types.Elementary); !ok || !(t.IsInteger() || t.IsFixedBytes()) {
			return nil, unaryErr()
		}
		return w, nil
	}
	return nil, diag.Invariant("unexpected unary operator %v", e.Operator)
}

func (c *checker) foldUnary(e *ast.UnaryOperation, lit *types.Literal) (types.Type, error) {
	folded, err := types.FoldUnary(e.Operator, lit, e.Span())
	if err != nil {
		return nil, c.errorf(diag.CodeUnaryOperator, e.Span(),
			"Unary operator %v cannot be applied to type %v: %v.", e.Operator, lit, err)
	}
	return folded, nil
}

// numberLiterals returns both operands when they are number literals, whose
// operations are evaluated at compile time.
func numberLiterals(left, right types.Type) (*types.Literal, *types.Literal, bool) {
	l, lok := left.(*types.Literal)
	r, rok := right.(*types.Literal)
	if !lok || !rok || !l.Token.Kind.IsNumberLiteral() || !r.Token.Kind.IsNumberLiteral() {
		return nil, nil, false
	}
	return l, r, true
}

// binary checks the binary operators.
// binary 检查二元运算符。
func (c *checker) binary(e *ast.BinaryOperation) (types.Type, error) {
	left, err := c.checkExpression(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.checkExpression(e.Right)
	if err != nil {
		return nil, err
	}
	binaryErr := func() error {
		return c.errorf(diag.CodeBinaryOperator, e.Span(),
			"Operator %v not compatible with types %v and %v.", e.Operator, left, right)
	}
	if l, r, ok := numberLiterals(left, right); ok && types.Foldable(e.Operator) {
		folded, err := types.FoldBinary(e.Operator, l, r, e.Span())
		if err != nil {
			return nil, c.errorf(diag.CodeBinaryOperator, e.Span(),
				"Operator %v not compatible with types %v and %v: %v.", e.Operator, left, right, err)
		}
		return folded, nil
	}
	switch op := e.Operator; {
	case op == token.And || op == token.Or:
		l, err := types.Weaken(left)
		if err != nil {
			return nil, err
		}
		r, err := types.Weaken(right)
		if err != nil {
			return nil, err
		}
		if !isKind(l, token.Bool) || !isKind(r, token.Bool) {
			return nil, binaryErr()
		}
		return types.Bool(), nil

	case op.IsCompare():
		common, err := types.CommonType(left, right)
		if err != nil {
			return nil, err
		}
		t, ok := common.(*types.Elementary)
		if !ok || t.IsDynamic() {
			return nil, binaryErr()
		}
		if op != token.Equal && op != token.NotEqual && t.Kind == token.Bool {
			return nil, binaryErr()
		}
		return types.Bool(), nil

	case op == token.Add || op == token.Sub || op == token.Mul || op == token.Div || op == token.Mod:
		common, err := types.CommonType(left, right)
		if err != nil {
			return nil, err
		}
		if t, ok := common.(*types.Elementary); !ok || !t.IsInteger() {
			return nil, binaryErr()
		}
		return common, nil

	case op == token.Exp:
		return c.exponent(e, left, right, binaryErr)

	case op == token.BitAnd || op == token.BitOr || op == token.BitXor:
		common, err := types.CommonType(left, right)
		if err != nil {
			return nil, err
		}
		t, ok := common.(*types.Elementary)
		if !ok || !(t.IsInteger() || t.IsFixedBytes()) {
			return nil, binaryErr()
		}
		l, _ := types.Weaken(left)
		r, _ := types.Weaken(right)
		_, lLit := left.(*types.Literal)
		_, rLit := right.(*types.Literal)
		if !lLit && !rLit && !types.Identical(l, r) {
			return nil, binaryErr()
		}
		return common, nil

	case op == token.Shl || op == token.Sar:
		l, err := types.Weaken(left)
		if err != nil {
			return nil, err
		}
		r, err := types.Weaken(right)
		if err != nil {
			return nil, err
		}
		lt, ok := l.(*types.Elementary)
		if !ok || !(lt.IsInteger() || lt.IsFixedBytes()) || !isKind(r, token.UInt) {
			return nil, binaryErr()
		}
		return l, nil
	}
	return nil, diag.Invariant("unexpected binary operator %v", e.Operator)
}

// exponent checks "base ** exp". The result has the type of the base, a
// literal base takes the type of the exponent.
func (c *checker) exponent(e *ast.BinaryOperation, left, right types.Type, binaryErr func() error) (types.Type, error) {
	r, err := types.Weaken(right)
	if err != nil {
		return nil, err
	}
	exp, ok := r.(*types.Elementary)
	if !ok || exp.Kind != token.UInt {
		return nil, binaryErr()
	}
	var base *types.Elementary
	if lit, isLit := left.(*types.Literal); isLit {
		if !lit.Token.Kind.IsNumberLiteral() {
			return nil, binaryErr()
		}
		base = exp
		if !types.ImplicitlyConvertible(lit, base) {
			w, err := types.Weaken(lit)
			if err != nil {
				return nil, err
			}
			base = w.(*types.Elementary)
		}
		return base, nil
	}
	base, ok = left.(*types.Elementary)
	if !ok || !base.IsInteger() {
		return nil, binaryErr()
	}
	if _, rLit := right.(*types.Literal); !rLit && exp.Size > base.Size {
		c.warnf(diag.CodeExponentWidth, e.Span(),
			"The result type of the exponentiation operation is equal to the type of the first operand (%v) ignoring the (larger) type of the second operand (%v) which might be unexpected. Silence this warning by either converting the first or the second operand to the type of the other.",
			base, exp)
	}
	return base, nil
}

// conditional checks "cond ? a : b", both branches need a common type.
func (c *checker) conditional(e *ast.Conditional) (types.Type, error) {
	if err := c.checkCondition(e.Condition); err != nil {
		return nil, err
	}
	yes, err := c.checkExpression(e.TrueExpression)
	if err != nil {
		return nil, err
	}
	no, err := c.checkExpression(e.FalseExpression)
	if err != nil {
		return nil, err
	}
	common, err := types.CommonType(yes, no)
	if err != nil {
		return nil, err
	}
	if common == nil {
		return nil, c.errorf(diag.CodeConditionalMismatch, e.Span(),
			"True expression's type %v does not match false expression's type %v.", yes, no)
	}
	return common, nil
}

func isKind(t types.Type, kind token.Kind) bool {
	e, ok := t.(*types.Elementary)
	return ok && e.Kind == kind
}
