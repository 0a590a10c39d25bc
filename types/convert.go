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

package types

import "github.com/sunyihoo/go-solidity/token"

// ImplicitlyConvertible reports whether a value of type from may be used
// where a value of type to is expected, without an explicit conversion.
// ImplicitlyConvertible 判断 from 类型的值是否可以在无需显式转换的情况下用于需要 to 类型的位置。
func ImplicitlyConvertible(from, to Type) bool {
	if from == nil || to == nil {
		// Omitted tuple components match anything.
		return true
	}
	switch f := from.(type) {
	case *Literal:
		return literalImplicit(f, to)
	case *Elementary:
		t, ok := to.(*Elementary)
		return ok && elementaryImplicit(f, t)
	case *Tuple:
		t, ok := to.(*Tuple)
		if !ok || len(f.Elements) != len(t.Elements) {
			return false
		}
		for i := range f.Elements {
			if !ImplicitlyConvertible(f.Elements[i], t.Elements[i]) {
				return false
			}
		}
		return true
	case *Contract:
		t, ok := to.(*Contract)
		return ok && f.Name == t.Name
	case *Struct:
		t, ok := to.(*Struct)
		return ok && f.Name == t.Name
	case *Function:
		return Identical(from, to)
	}
	return false
}

func literalImplicit(lit *Literal, to Type) bool {
	t, ok := to.(*Elementary)
	if !ok {
		return false
	}
	kind := lit.Token.Kind
	switch t.Kind {
	case token.Bool:
		return kind.IsBoolLiteral()
	case token.UInt, token.Int:
		return kind.IsNumberLiteral() && lit.fits(t.Kind == token.Int, t.Size)
	case token.FixedBytes:
		if lit.IsZero() {
			return true
		}
		return kind == token.HexNumberLiteral && lit.Constant == nil && len(hexDigits(lit.Token.Text)) == 2*t.Size
	case token.Address:
		return lit.isChecksumAddress()
	}
	return false
}

func elementaryImplicit(from, to *Elementary) bool {
	if from.Kind != to.Kind {
		return false
	}
	switch from.Kind {
	case token.UInt, token.Int, token.FixedBytes:
		return from.Size <= to.Size
	case token.Address:
		// address payable converts to address, not the other way around.
		return from.Payable || !to.Payable
	}
	return true
}

// ExplicitlyConvertible reports whether T(x) is allowed for x of type from
// and T = to. Every implicit conversion is also an explicit one.
// ExplicitlyConvertible 判断显式转换 T(x) 是否合法，所有隐式转换同时也是显式转换。
func ExplicitlyConvertible(from, to Type) bool {
	if ImplicitlyConvertible(from, to) {
		return true
	}
	switch f := from.(type) {
	case *Literal:
		return literalExplicit(f, to)
	case *Elementary:
		switch t := to.(type) {
		case *Elementary:
			return elementaryExplicit(f, t)
		case *Contract:
			return f.Kind == token.Address
		}
	case *Contract:
		t, ok := to.(*Elementary)
		return ok && t.Kind == token.Address
	case *Tuple:
		t, ok := to.(*Tuple)
		if !ok || len(f.Elements) != len(t.Elements) {
			return false
		}
		for i := range f.Elements {
			if !ExplicitlyConvertible(f.Elements[i], t.Elements[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func literalExplicit(lit *Literal, to Type) bool {
	t, ok := to.(*Elementary)
	if !ok {
		return false
	}
	kind := lit.Token.Kind
	if !kind.IsNumberLiteral() {
		return false
	}
	switch t.Kind {
	case token.UInt:
		return lit.fits(false, t.Size)
	case token.Int:
		// A positive literal may fill the sign bit, int8(255) is -1.
		return lit.fits(true, t.Size) || lit.fits(false, t.Size)
	case token.FixedBytes:
		return kind == token.HexNumberLiteral && lit.Constant == nil && len(hexDigits(lit.Token.Text)) <= 2*t.Size
	case token.Address:
		return lit.IsZero()
	}
	return false
}

// elementaryExplicit follows Solidity: integers may change either their sign
// or their width in one conversion, never both.
func elementaryExplicit(from, to *Elementary) bool {
	switch {
	case from.IsInteger() && to.IsInteger():
		return from.Size == to.Size || from.Kind == to.Kind
	case from.IsInteger() && to.Kind == token.Address:
		return from.Kind == token.UInt && from.Size == 160
	case from.Kind == token.Address && to.IsInteger():
		return to.Kind == token.UInt && to.Size == 160
	case from.IsInteger() && to.IsFixedBytes(), from.IsFixedBytes() && to.IsInteger():
		return from.Bits() == to.Bits()
	case from.IsFixedBytes() && to.IsFixedBytes():
		return true
	case from.IsFixedBytes() && to.Kind == token.Address, from.Kind == token.Address && to.IsFixedBytes():
		return from.Bits() == to.Bits()
	case from.Kind == token.Address && to.Kind == token.Address:
		return true
	case from.IsDynamic() && to.IsDynamic():
		return true
	case from.Kind == token.Bytes && to.IsFixedBytes():
		return true
	}
	return false
}

// CommonType returns the type both operands of a binary operation or the
// branches of a conditional are converted to, or nil when there is none. A
// literal adopts the type of a concrete operand it converts to. Otherwise
// literals are weakened and the wider of the two directions is chosen.
// CommonType 返回二元运算的两个操作数或条件表达式两个分支共同转换到的类型，不存在时返回 nil。
func CommonType(a, b Type) (Type, error) {
	la, aLit := a.(*Literal)
	lb, bLit := b.(*Literal)
	switch {
	case aLit && !bLit && ImplicitlyConvertible(a, b):
		return b, nil
	case bLit && !aLit && ImplicitlyConvertible(b, a):
		return a, nil
	case aLit && bLit && la.isNumber() && lb.isNumber():
		return commonConstant(la, lb)
	}
	wa, err := Weaken(a)
	if err != nil {
		return nil, err
	}
	wb, err := Weaken(b)
	if err != nil {
		return nil, err
	}
	switch {
	case ImplicitlyConvertible(wa, wb):
		return wb, nil
	case ImplicitlyConvertible(wb, wa):
		return wa, nil
	}
	return nil, nil
}

// commonConstant is the smallest integer type holding two number literals,
// signed when either of them is negative.
func commonConstant(a, b *Literal) (Type, error) {
	va, err := a.Int()
	if err != nil {
		return nil, err
	}
	vb, err := b.Int()
	if err != nil {
		return nil, err
	}
	signed := va.Sign() < 0 || vb.Sign() < 0
	ba, okA := mobileBits(va, signed)
	bb, okB := mobileBits(vb, signed)
	if !okA || !okB {
		return nil, nil
	}
	if signed {
		return Int(max(ba, bb)), nil
	}
	return Uint(max(ba, bb)), nil
}
