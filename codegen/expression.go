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

package codegen

import (
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/holiman/uint256"

	"github.com/sunyihoo/go-solidity/abi"
	"github.com/sunyihoo/go-solidity/ast"
	"github.com/sunyihoo/go-solidity/checker"
	"github.com/sunyihoo/go-solidity/diag"
	"github.com/sunyihoo/go-solidity/token"
	"github.com/sunyihoo/go-solidity/types"
)

// opcodes maps binary operators to their unsigned and signed opcodes.
var opcodes = map[token.Kind][2]vm.OpCode{
	token.Add:         {vm.ADD, vm.ADD},
	token.Sub:         {vm.SUB, vm.SUB},
	token.Mul:         {vm.MUL, vm.MUL},
	token.Div:         {vm.DIV, vm.SDIV},
	token.Mod:         {vm.MOD, vm.SMOD},
	token.Equal:       {vm.EQ, vm.EQ},
	token.LessThan:    {vm.LT, vm.SLT},
	token.GreaterThan: {vm.GT, vm.SGT},
	token.BitAnd:      {vm.AND, vm.AND},
	token.BitOr:       {vm.OR, vm.OR},
	token.BitXor:      {vm.XOR, vm.XOR},
}

// Block, message and transaction members read by a single opcode.
var (
	blockOps = map[string]vm.OpCode{
		"basefee":    vm.BASEFEE,
		"chainid":    vm.CHAINID,
		"coinbase":   vm.COINBASE,
		"difficulty": vm.DIFFICULTY,
		"gaslimit":   vm.GASLIMIT,
		"number":     vm.NUMBER,
		"prevrandao": vm.PREVRANDAO,
		"timestamp":  vm.TIMESTAMP,
	}
	msgOps = map[string]vm.OpCode{
		"sender": vm.CALLER,
		"value":  vm.CALLVALUE,
	}
	txOps = map[string]vm.OpCode{
		"gasprice": vm.GASPRICE,
		"origin":   vm.ORIGIN,
	}
)

func (g *generator) typeOf(e ast.Expression) types.Type {
	t, _ := g.ann.TypeOf(e)
	return t
}

// expression emits code pushing the values of e and returns how many.
// expression 发出压入 e 的值的代码，并返回压入值的个数。
func (g *generator) expression(e ast.Expression) (int, error) {
	if lit, ok := g.typeOf(e).(*types.Literal); ok && lit.Constant != nil {
		// Folded constant expression.
		v, err := lit.Value()
		if err != nil {
			return 0, err
		}
		g.p.push(v)
		return 1, nil
	}
	switch e := e.(type) {
	case *ast.Identifier:
		slot, ok := g.lookup(e.Name)
		if !ok {
			return 0, diag.NotImplemented("access to "+e.Name, e.Span())
		}
		g.p.pushUint(slot)
		g.p.op(vm.MLOAD)
		return 1, nil
	case *ast.Literal:
		return 1, g.literal(e)
	case *ast.FunctionCall:
		return g.call(e)
	case *ast.MemberAccess:
		return 1, g.memberAccess(e)
	case *ast.BinaryOperation:
		return 1, g.binary(e)
	case *ast.UnaryOperation:
		return g.unary(e)
	case *ast.Assignment:
		return g.assignment(e)
	case *ast.Conditional:
		return 1, g.conditional(e)
	case *ast.TupleExpression:
		total := 0
		for _, comp := range e.Components {
			if comp == nil {
				return 0, diag.NotImplemented("tuple with omitted components", e.Span())
			}
			n, err := g.expression(comp)
			if err != nil {
				return 0, err
			}
			total += n
		}
		return total, nil
	case *ast.ElementaryTypeNameExpression:
		return 0, diag.NotImplemented("type as value", e.Span())
	case *ast.IndexAccess:
		return 0, diag.NotImplemented("index access", e.Span())
	case *ast.IndexRangeAccess:
		return 0, diag.NotImplemented("index range access", e.Span())
	case *ast.NewExpression:
		return 0, diag.NotImplemented("new expression", e.Span())
	}
	return 0, diag.Invariant("unexpected expression %T", e)
}

// single emits an expression that has to produce exactly one value.
func (g *generator) single(e ast.Expression) (types.Type, error) {
	n, err := g.expression(e)
	if err != nil {
		return nil, err
	}
	if n != 1 {
		return nil, diag.NotImplemented("expression with several values", e.Span())
	}
	return g.typeOf(e), nil
}

// converted emits a single value implicitly converted to the target type.
func (g *generator) converted(e ast.Expression, to types.Type) (types.Type, error) {
	from, err := g.single(e)
	if err != nil {
		return nil, err
	}
	g.implicit(from, to)
	return to, nil
}

// values emits the components of e, each converted to its target type.
// A tuple expression is converted component wise.
func (g *generator) values(e ast.Expression, targets []types.Type) (int, error) {
	if tuple, ok := e.(*ast.TupleExpression); ok && len(tuple.Components) == len(targets) {
		for i, comp := range tuple.Components {
			if comp == nil {
				return 0, diag.NotImplemented("tuple with omitted components", tuple.Span())
			}
			if _, err := g.converted(comp, targets[i]); err != nil {
				return 0, err
			}
		}
		return len(targets), nil
	}
	n, err := g.expression(e)
	if err != nil {
		return 0, err
	}
	if n == 1 && len(targets) == 1 {
		g.implicit(g.typeOf(e), targets[0])
	}
	return n, nil
}

func (g *generator) literal(e *ast.Literal) error {
	lit := &types.Literal{Token: e.Token}
	if !e.Token.Kind.IsNumberLiteral() && !e.Token.Kind.IsBoolLiteral() {
		return diag.NotImplemented(e.Token.Kind.String(), e.Span())
	}
	v, err := lit.Value()
	if err != nil {
		return err
	}
	g.p.push(v)
	return nil
}

// implicit converts the value on top of the stack. Numbers are right
// aligned in a word and fixed bytes left aligned, so only a number literal
// typed as fixed bytes needs code.
func (g *generator) implicit(from, to types.Type) {
	if _, ok := from.(*types.Literal); !ok {
		return
	}
	if t, ok := to.(*types.Elementary); ok && t.IsFixedBytes() && t.Size < 32 {
		g.p.pushUint(uint64(256 - 8*t.Size))
		g.p.op(vm.SHL)
	}
}

// convert implements an explicit conversion of the value on top of the
// stack.
// convert 对栈顶的值执行显式类型转换。
func (g *generator) convert(from, to types.Type) {
	target, ok := to.(*types.Elementary)
	if !ok {
		return
	}
	if _, ok := from.(*types.Literal); ok {
		g.implicit(from, to)
		if !target.IsFixedBytes() {
			g.cleanup(target)
		}
		return
	}
	source, ok := from.(*types.Elementary)
	if !ok {
		return
	}
	switch {
	case source.IsFixedBytes() && !target.IsFixedBytes():
		g.p.pushUint(uint64(256 - 8*source.Size))
		g.p.op(vm.SHR)
	case !source.IsFixedBytes() && target.IsFixedBytes():
		g.p.pushUint(uint64(256 - 8*target.Size))
		g.p.op(vm.SHL)
	}
	g.cleanup(target)
}

// cleanup truncates the value on top of the stack to the width of t. Signed
// integers are sign extended, fixed bytes keep their high bytes.
// cleanup 将栈顶的值截断为 t 的宽度。有符号整数进行符号扩展，定长字节保留高位字节。
func (g *generator) cleanup(t types.Type) {
	e, ok := t.(*types.Elementary)
	if !ok {
		return
	}
	switch {
	case e.Kind == token.UInt && e.Size < 256:
		g.p.push(lowMask(e.Size))
		g.p.op(vm.AND)
	case e.Kind == token.Int && e.Size < 256:
		g.p.pushUint(uint64(e.Size/8 - 1))
		g.p.op(vm.SIGNEXTEND)
	case e.Kind == token.FixedBytes && e.Size < 32:
		mask := lowMask(256 - 8*e.Size)
		g.p.push(mask.Not(mask))
		g.p.op(vm.AND)
	case e.Kind == token.Address:
		g.p.push(lowMask(160))
		g.p.op(vm.AND)
	}
}

// lowMask returns 2^bits - 1.
func lowMask(bits int) *uint256.Int {
	one := uint256.NewInt(1)
	return new(uint256.Int).Sub(new(uint256.Int).Lsh(one, uint(bits)), one)
}

func isSigned(t types.Type) bool {
	e, ok := t.(*types.Elementary)
	return ok && e.IsSigned()
}

// isBuiltin reports whether t is one of the block, msg or tx globals.
func isBuiltin(t types.Type) bool {
	return t == types.Type(checker.BlockType) || t == types.Type(checker.MsgType) || t == types.Type(checker.TxType)
}

func (g *generator) memberAccess(e *ast.MemberAccess) error {
	base := g.typeOf(e.Expression)
	if isBuiltin(base) {
		var op vm.OpCode
		var found bool
		switch base {
		case types.Type(checker.BlockType):
			op, found = blockOps[e.Member]
		case types.Type(checker.MsgType):
			op, found = msgOps[e.Member]
			if e.Member == "sig" {
				g.p.pushUint(0)
				g.p.op(vm.CALLDATALOAD)
				g.cleanup(types.FixedBytes(4))
				return nil
			}
		case types.Type(checker.TxType):
			op, found = txOps[e.Member]
		}
		if !found {
			return diag.NotImplemented("member "+e.Member, e.MemberSpan)
		}
		g.p.op(op)
		return nil
	}
	if t, ok := base.(*types.Elementary); ok && t.Kind == token.Address && e.Member == "balance" {
		if _, err := g.single(e.Expression); err != nil {
			return err
		}
		g.p.op(vm.BALANCE)
		return nil
	}
	return diag.NotImplemented("member access "+e.Member, e.Span())
}

// call emits conversions and external calls. Calls of functions in the
// same contract are not supported.
func (g *generator) call(e *ast.FunctionCall) (int, error) {
	fn, ok := g.typeOf(e.Expression).(*types.Function)
	if !ok {
		return 0, diag.Invariant("call target without function type at %v", e.Span())
	}
	if fn.Conversion {
		if len(e.Arguments) != 1 {
			return 0, diag.Invariant("conversion with %d arguments", len(e.Arguments))
		}
		from, err := g.single(e.Arguments[0])
		if err != nil {
			return 0, err
		}
		g.convert(from, fn.Target())
		return 1, nil
	}
	if target, ok := e.Expression.(*ast.MemberAccess); ok {
		return g.externalCall(target, fn, e.Arguments)
	}
	return 0, diag.NotImplemented("internal function call", e.Span())
}

// selector computes the selector of a function type called by name.
func selector(name string, fn *types.Function, span token.Span) ([4]byte, error) {
	entry := abi.Entry{Type: abi.Function, Name: name}
	for _, p := range fn.Params {
		var typ string
		switch p := p.(type) {
		case *types.Elementary:
			typ = p.Canonical()
		case *types.Contract:
			typ = "address"
		default:
			return [4]byte{}, diag.NotImplemented("parameter of type "+p.String(), span)
		}
		entry.Inputs = append(entry.Inputs, abi.Argument{Type: typ})
	}
	return entry.Selector(), nil
}

// externalCall emits a message call. The selector and the arguments are
// written at the free memory pointer, the return words overwrite them and
// are loaded back onto the stack before the pointer is rewound. A failed
// call reverts with its return data.
// externalCall 发出消息调用。选择器和参数写入空闲内存指针处，返回字被覆盖写入后再加载回栈上，然后回退指针。调用失败时以其返回数据回滚。
func (g *generator) externalCall(target *ast.MemberAccess, fn *types.Function, args []ast.Expression) (int, error) {
	if _, ok := g.typeOf(target.Expression).(*types.Contract); !ok {
		return 0, diag.NotImplemented("member call on "+typeName(g.typeOf(target.Expression)), target.Span())
	}
	sel, err := selector(target.Member, fn, target.MemberSpan)
	if err != nil {
		return 0, err
	}
	for _, r := range fn.Returns {
		if e, ok := r.(*types.Elementary); ok && e.IsDynamic() {
			return 0, diag.NotImplemented("dynamic return type "+e.String(), target.Span())
		}
	}
	if _, err := g.single(target.Expression); err != nil {
		return 0, err
	}
	argsSize := 4 + 32*uint64(len(fn.Params))
	retSize := 32 * uint64(len(fn.Returns))
	base := g.alloc(max(argsSize, retSize))

	g.selectorWord(sel, base)
	for i, arg := range args {
		if _, err := g.converted(arg, fn.Params[i]); err != nil {
			return 0, err
		}
		g.p.pushUint(base + 4 + 32*uint64(i))
		g.p.op(vm.MSTORE)
	}
	g.p.pushUint(retSize)
	g.p.pushUint(base)
	g.p.pushUint(argsSize)
	g.p.pushUint(base)
	g.p.pushUint(0)
	g.p.op(vm.DUP6, vm.GAS, vm.CALL)

	ok := g.p.newLabel()
	g.p.jumpIf(ok)
	g.p.op(vm.RETURNDATASIZE)
	g.p.pushUint(0)
	g.p.op(vm.DUP1, vm.RETURNDATACOPY, vm.RETURNDATASIZE)
	g.p.pushUint(0)
	g.p.op(vm.REVERT)
	g.p.mark(ok)
	g.p.op(vm.POP)

	for i := range fn.Returns {
		g.p.pushUint(base + 32*uint64(i))
		g.p.op(vm.MLOAD)
	}
	g.free = base
	return len(fn.Returns), nil
}

func typeName(t types.Type) string {
	if t == nil {
		return "unknown type"
	}
	return t.String()
}

// binary emits a binary operation. Arithmetic on number literals has been
// folded by the checker and never gets here.
// binary 发出二元运算。数字字面量之间的算术运算已由类型检查器折叠，不会到达这里。
func (g *generator) binary(e *ast.BinaryOperation) error {
	result := g.typeOf(e)
	switch e.Operator {
	case token.And, token.Or:
		return g.shortCircuit(e)

	case token.Shl, token.Sar:
		if _, err := g.converted(e.Left, result); err != nil {
			return err
		}
		if _, err := g.single(e.Right); err != nil {
			return err
		}
		switch {
		case e.Operator == token.Shl:
			g.p.op(vm.SHL)
		case isSigned(result):
			g.p.op(vm.SAR)
		default:
			g.p.op(vm.SHR)
		}
		g.cleanup(result)
		return nil

	case token.Exp:
		if _, err := g.single(e.Right); err != nil {
			return err
		}
		if _, err := g.converted(e.Left, result); err != nil {
			return err
		}
		return g.power(result)
	}

	common, err := types.CommonType(g.typeOf(e.Left), g.typeOf(e.Right))
	if err != nil {
		return err
	}
	if common == nil {
		return diag.Invariant("operands without common type at %v", e.Span())
	}
	// The left operand ends on top of the stack.
	if _, err := g.converted(e.Right, common); err != nil {
		return err
	}
	if _, err := g.converted(e.Left, common); err != nil {
		return err
	}
	switch e.Operator {
	case token.Add, token.Sub, token.Mul, token.Div, token.Mod:
		return g.arithmetic(e.Operator, common)
	}
	signed := 0
	if isSigned(common) {
		signed = 1
	}
	switch e.Operator {
	case token.NotEqual:
		g.p.op(vm.EQ, vm.ISZERO)
	case token.LessThanOrEqual:
		g.p.op(opcodes[token.GreaterThan][signed], vm.ISZERO)
	case token.GreaterThanOrEqual:
		g.p.op(opcodes[token.LessThan][signed], vm.ISZERO)
	default:
		ops, ok := opcodes[e.Operator]
		if !ok {
			return diag.Invariant("unexpected binary operator %v", e.Operator)
		}
		g.p.op(ops[signed])
	}
	return nil
}

// shortCircuit emits && and ||, evaluating the right operand only when the
// left one does not decide the result.
func (g *generator) shortCircuit(e *ast.BinaryOperation) error {
	end := g.p.newLabel()
	if _, err := g.single(e.Left); err != nil {
		return err
	}
	g.p.op(vm.DUP1)
	if e.Operator == token.And {
		g.p.op(vm.ISZERO)
	}
	g.p.jumpIf(end)
	g.p.op(vm.POP)
	if _, err := g.single(e.Right); err != nil {
		return err
	}
	g.p.mark(end)
	return nil
}

func (g *generator) conditional(e *ast.Conditional) error {
	result := g.typeOf(e)
	elseLabel, end := g.p.newLabel(), g.p.newLabel()
	if err := g.condition(e.Condition, elseLabel); err != nil {
		return err
	}
	if _, err := g.converted(e.TrueExpression, result); err != nil {
		return err
	}
	g.p.jump(end)
	g.p.mark(elseLabel)
	if _, err := g.converted(e.FalseExpression, result); err != nil {
		return err
	}
	g.p.mark(end)
	return nil
}

// slotOf returns the memory slot of an assignable identifier.
func (g *generator) slotOf(e ast.Expression) (uint64, error) {
	id, ok := e.(*ast.Identifier)
	if !ok {
		return 0, diag.NotImplemented("assignment to a non-identifier", e.Span())
	}
	slot, ok := g.lookup(id.Name)
	if !ok {
		return 0, diag.NotImplemented("assignment to "+id.Name, e.Span())
	}
	return slot, nil
}

func (g *generator) unary(e *ast.UnaryOperation) (int, error) {
	result := g.typeOf(e)
	switch e.Operator {
	case token.Sub:
		operand, err := g.single(e.Operand)
		if err != nil {
			return 0, err
		}
		g.negate(operand, result)
		return 1, nil
	case token.Not:
		if _, err := g.single(e.Operand); err != nil {
			return 0, err
		}
		g.p.op(vm.ISZERO)
		return 1, nil
	case token.BitNot:
		if _, err := g.converted(e.Operand, result); err != nil {
			return 0, err
		}
		g.p.op(vm.NOT)
		g.cleanup(result)
		return 1, nil
	case token.Delete:
		slot, err := g.slotOf(e.Operand)
		if err != nil {
			return 0, err
		}
		g.p.pushUint(0)
		g.p.pushUint(slot)
		g.p.op(vm.MSTORE)
		return 0, nil
	case token.Inc, token.Dec:
		slot, err := g.slotOf(e.Operand)
		if err != nil {
			return 0, err
		}
		g.p.pushUint(slot)
		g.p.op(vm.MLOAD)
		if !e.Prefix {
			g.p.op(vm.DUP1)
		}
		g.p.pushUint(1)
		op := token.Add
		if e.Operator == token.Dec {
			op = token.Sub
			g.p.op(vm.SWAP1)
		}
		if err := g.arithmetic(op, result); err != nil {
			return 0, err
		}
		if e.Prefix {
			g.p.op(vm.DUP1)
		}
		g.p.pushUint(slot)
		g.p.op(vm.MSTORE)
		return 1, nil
	}
	return 0, diag.Invariant("unexpected unary operator %v", e.Operator)
}

// assignment stores into identifiers and leaves the assigned value on the
// stack. Tuple assignments leave nothing.
// assignment 向标识符赋值并将所赋的值留在栈上，元组赋值不留下任何值。
func (g *generator) assignment(e *ast.Assignment) (int, error) {
	if tuple, ok := e.Left.(*ast.TupleExpression); ok {
		if e.Operator != token.Assign {
			return 0, diag.NotImplemented("compound assignment to a tuple", e.Span())
		}
		targets := make([]types.Type, len(tuple.Components))
		for i, comp := range tuple.Components {
			if comp != nil {
				targets[i] = g.typeOf(comp)
			}
		}
		n, err := g.values(e.Right, targets)
		if err != nil {
			return 0, err
		}
		if n != len(tuple.Components) {
			return 0, diag.Invariant("assignment of %d values to %d components", n, len(tuple.Components))
		}
		for i := n - 1; i >= 0; i-- {
			if tuple.Components[i] == nil {
				g.p.op(vm.POP)
				continue
			}
			slot, err := g.slotOf(tuple.Components[i])
			if err != nil {
				return 0, err
			}
			g.p.pushUint(slot)
			g.p.op(vm.MSTORE)
		}
		return 0, nil
	}

	slot, err := g.slotOf(e.Left)
	if err != nil {
		return 0, err
	}
	left := g.typeOf(e.Left)
	op, compound := e.Operator.BinaryOf()
	switch {
	case !compound:
		if _, err := g.converted(e.Right, left); err != nil {
			return 0, err
		}
	case op == token.Shl || op == token.Sar:
		g.p.pushUint(slot)
		g.p.op(vm.MLOAD)
		if _, err := g.single(e.Right); err != nil {
			return 0, err
		}
		switch {
		case op == token.Shl:
			g.p.op(vm.SHL)
		case isSigned(left):
			g.p.op(vm.SAR)
		default:
			g.p.op(vm.SHR)
		}
		g.cleanup(left)
	default:
		if _, err := g.converted(e.Right, left); err != nil {
			return 0, err
		}
		g.p.pushUint(slot)
		g.p.op(vm.MLOAD)
		switch op {
		case token.Add, token.Sub, token.Mul, token.Div, token.Mod:
			if err := g.arithmetic(op, left); err != nil {
				return 0, err
			}
		default:
			signed := 0
			if isSigned(left) {
				signed = 1
			}
			g.p.op(opcodes[op][signed])
			g.cleanup(left)
		}
	}
	g.p.op(vm.DUP1)
	g.p.pushUint(slot)
	g.p.op(vm.MSTORE)
	return 1, nil
}
