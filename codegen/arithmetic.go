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
	"slices"

	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/holiman/uint256"

	"github.com/sunyihoo/go-solidity/diag"
	"github.com/sunyihoo/go-solidity/token"
	"github.com/sunyihoo/go-solidity/types"
)

// Codes of the Panic(uint256) error.
const (
	panicOverflow       = 0x11
	panicDivisionByZero = 0x12
)

// panicSelector is the selector of Panic(uint256).
var panicSelector = [4]byte{0x4e, 0x48, 0x7b, 0x71}

// panicLabel returns the label of the block reverting with Panic(code).
// The blocks are emitted once per function, after its body.
func (g *generator) panicLabel(code uint64) label {
	if l, ok := g.panics[code]; ok {
		return l
	}
	if g.panics == nil {
		g.panics = make(map[uint64]label)
	}
	l := g.p.newLabel()
	g.panics[code] = l
	return l
}

// panicBlocks emits the revert blocks of every panic label in use.
// panicBlocks 为每个用到的 panic 标签发出回滚代码块。
func (g *generator) panicBlocks() {
	codes := make([]uint64, 0, len(g.panics))
	for code := range g.panics {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	for _, code := range codes {
		g.p.mark(g.panics[code])
		g.selectorWord(panicSelector, 0)
		g.p.pushUint(code)
		g.p.pushUint(4)
		g.p.op(vm.MSTORE)
		g.p.pushUint(0x24)
		g.p.pushUint(0)
		g.p.op(vm.REVERT)
	}
}

// minWord is the word holding the smallest intN.
func minWord(bits int) *uint256.Int {
	mask := lowMask(bits - 1)
	return mask.Not(mask)
}

func integerType(t types.Type) (*types.Elementary, error) {
	e, ok := t.(*types.Elementary)
	if !ok || !e.IsInteger() {
		return nil, diag.Invariant("arithmetic on %v", typeName(t))
	}
	return e, nil
}

// arithmetic emits "left op right" for the operands on the stack, left on
// top, both of type t. Outside unchecked blocks an overflow reverts with
// Panic(0x11), inside them the result wraps. Division and modulo by zero
// always revert with Panic(0x12).
// arithmetic 对栈上的操作数发出 "left op right"，left 位于栈顶。在 unchecked 块之外溢出以 Panic(0x11) 回滚，
// 在 unchecked 块内结果回绕。除以零和对零取模总是以 Panic(0x12) 回滚。
func (g *generator) arithmetic(op token.Kind, t types.Type) error {
	e, err := integerType(t)
	if err != nil {
		return err
	}
	signed := 0
	if e.IsSigned() {
		signed = 1
	}
	if op == token.Div || op == token.Mod {
		g.p.op(vm.DUP2, vm.ISZERO)
		g.p.jumpIf(g.panicLabel(panicDivisionByZero))
	}
	if g.unchecked {
		ops, ok := opcodes[op]
		if !ok {
			return diag.Invariant("unexpected arithmetic operator %v", op)
		}
		g.p.op(ops[signed])
		g.cleanup(e)
		return nil
	}
	switch op {
	case token.Add:
		g.checkedAdd(e)
	case token.Sub:
		g.checkedSub(e)
	case token.Mul:
		g.checkedMul(e)
	case token.Div:
		g.checkedDiv(e)
	case token.Mod:
		g.p.op(opcodes[op][signed])
	default:
		return diag.Invariant("unexpected arithmetic operator %v", op)
	}
	return nil
}

// fitCheck reverts when the value on top of the stack is not a clean value
// of t.
func (g *generator) fitCheck(t *types.Elementary) {
	if t.Size == 256 {
		return
	}
	g.p.op(vm.DUP1)
	g.cleanup(t)
	g.p.op(vm.DUP2, vm.EQ, vm.ISZERO)
	g.p.jumpIf(g.panicLabel(panicOverflow))
}

func (g *generator) checkedAdd(t *types.Elementary) {
	overflow := g.panicLabel(panicOverflow)
	switch {
	case t.Size < 256:
		g.p.op(vm.ADD)
		g.fitCheck(t)
	case !t.IsSigned():
		// [r l] -> [r s], overflow when s < r.
		g.p.op(vm.DUP2, vm.ADD)
		g.p.op(vm.DUP2, vm.DUP2, vm.LT)
		g.p.jumpIf(overflow)
		g.p.op(vm.SWAP1, vm.POP)
	default:
		// [r l] -> [r l s], overflow when (r < 0) != (s < l).
		g.p.op(vm.DUP2, vm.DUP2, vm.ADD)
		g.p.op(vm.DUP2, vm.DUP2, vm.SLT)
		g.p.pushUint(0)
		g.p.op(vm.DUP5, vm.SLT, vm.XOR)
		g.p.jumpIf(overflow)
		g.p.op(vm.SWAP2, vm.POP, vm.POP)
	}
}

func (g *generator) checkedSub(t *types.Elementary) {
	overflow := g.panicLabel(panicOverflow)
	switch {
	case !t.IsSigned():
		g.p.op(vm.DUP2, vm.DUP2, vm.LT)
		g.p.jumpIf(overflow)
		g.p.op(vm.SUB)
	case t.Size < 256:
		g.p.op(vm.SUB)
		g.fitCheck(t)
	default:
		// [r l] -> [r l s], overflow when (r > 0) != (s < l).
		g.p.op(vm.DUP2, vm.DUP2, vm.SUB)
		g.p.op(vm.DUP2, vm.DUP2, vm.SLT)
		g.p.pushUint(0)
		g.p.op(vm.DUP5, vm.SGT, vm.XOR)
		g.p.jumpIf(overflow)
		g.p.op(vm.SWAP2, vm.POP, vm.POP)
	}
}

// checkedMul multiplies the two values on top of the stack. Products of
// operands up to 128 bits never wrap a word, wider ones are verified by
// dividing the product again.
func (g *generator) checkedMul(t *types.Elementary) {
	if t.Size <= 128 {
		g.p.op(vm.MUL)
		g.fitCheck(t)
		return
	}
	overflow := g.panicLabel(panicOverflow)
	div := vm.DIV
	if t.IsSigned() {
		div = vm.SDIV
	}
	skip := g.p.newLabel()
	// [r l] -> [r l p], overflow when l != 0 and p / l != r.
	g.p.op(vm.DUP2, vm.DUP2, vm.MUL)
	g.p.op(vm.DUP2, vm.ISZERO)
	g.p.jumpIf(skip)
	g.p.op(vm.DUP2, vm.DUP2, div, vm.DUP4, vm.EQ, vm.ISZERO)
	g.p.jumpIf(overflow)
	if t.IsSigned() && t.Size == 256 {
		// -1 * MIN wraps to MIN and passes the division test.
		g.p.op(vm.DUP2, vm.NOT, vm.ISZERO, vm.DUP4)
		g.p.push(minWord(256))
		g.p.op(vm.EQ, vm.AND)
		g.p.jumpIf(overflow)
	}
	g.p.mark(skip)
	g.p.op(vm.SWAP2, vm.POP, vm.POP)
	g.fitCheck(t)
}

func (g *generator) checkedDiv(t *types.Elementary) {
	switch {
	case !t.IsSigned():
		g.p.op(vm.DIV)
	case t.Size < 256:
		g.p.op(vm.SDIV)
		g.fitCheck(t)
	default:
		// MIN / -1 is the only overflow.
		g.p.op(vm.DUP1)
		g.p.push(minWord(256))
		g.p.op(vm.EQ, vm.DUP3, vm.NOT, vm.ISZERO, vm.AND)
		g.p.jumpIf(g.panicLabel(panicOverflow))
		g.p.op(vm.SDIV)
	}
}

// negate emits "-x" for the operand on top of the stack. The result is the
// signed type of the operand's width.
func (g *generator) negate(operand, result types.Type) {
	if src, ok := operand.(*types.Elementary); ok && !g.unchecked {
		g.p.op(vm.DUP1)
		if src.IsSigned() {
			g.p.push(minWord(src.Size))
			g.p.op(vm.EQ)
		} else {
			// -x is an intN for x up to 2^(N-1).
			g.p.push(new(uint256.Int).Lsh(uint256.NewInt(1), uint(src.Size-1)))
			g.p.op(vm.LT)
		}
		g.p.jumpIf(g.panicLabel(panicOverflow))
	}
	g.p.pushUint(0)
	g.p.op(vm.SUB)
	g.cleanup(result)
}

// power emits "base ** exp" for [exp base] on the stack. Checked powers
// square and multiply through three scratch words so that every product is
// checked.
// power 对栈上的 [exp base] 发出 "base ** exp"。带检查的幂运算通过三个临时字进行平方乘，以便检查每次乘法。
func (g *generator) power(t types.Type) error {
	e, err := integerType(t)
	if err != nil {
		return err
	}
	if g.unchecked {
		g.p.op(vm.EXP)
		g.cleanup(e)
		return nil
	}
	slots := g.alloc(96)
	base, exp, acc := slots, slots+32, slots+64
	top, square, done := g.p.newLabel(), g.p.newLabel(), g.p.newLabel()

	g.p.pushUint(base)
	g.p.op(vm.MSTORE)
	g.p.pushUint(exp)
	g.p.op(vm.MSTORE)
	g.p.pushUint(1)
	g.p.pushUint(acc)
	g.p.op(vm.MSTORE)

	g.p.mark(top)
	g.p.pushUint(exp)
	g.p.op(vm.MLOAD, vm.ISZERO)
	g.p.jumpIf(done)
	g.p.pushUint(exp)
	g.p.op(vm.MLOAD)
	g.p.pushUint(1)
	g.p.op(vm.AND, vm.ISZERO)
	g.p.jumpIf(square)
	g.p.pushUint(base)
	g.p.op(vm.MLOAD)
	g.p.pushUint(acc)
	g.p.op(vm.MLOAD)
	g.checkedMul(e)
	g.p.pushUint(acc)
	g.p.op(vm.MSTORE)

	g.p.mark(square)
	g.p.pushUint(exp)
	g.p.op(vm.MLOAD)
	g.p.pushUint(1)
	g.p.op(vm.SHR, vm.DUP1)
	g.p.pushUint(exp)
	g.p.op(vm.MSTORE, vm.ISZERO)
	g.p.jumpIf(done)
	// The base is only squared while bits are left, so a square that
	// overflows means the result does too.
	g.p.pushUint(base)
	g.p.op(vm.MLOAD, vm.DUP1)
	g.checkedMul(e)
	g.p.pushUint(base)
	g.p.op(vm.MSTORE)
	g.p.jump(top)

	g.p.mark(done)
	g.p.pushUint(acc)
	g.p.op(vm.MLOAD)
	g.free = slots
	return nil
}
