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

import (
	"errors"
	"math/big"

	"github.com/sunyihoo/go-solidity/token"
)

var (
	errDivisionByZero  = errors.New("division by zero")
	errNegativeExp     = errors.New("exponent is negative")
	errConstantTooWide = errors.New("constant does not fit in 256 bits")
	errShiftNegative   = errors.New("shift amount is negative")
)

// maxShift bounds the shift amounts and exponents that are folded, any
// larger one overflows a word unless the operand is 0, 1 or -1.
const maxShift = 256

// Foldable reports whether a binary operator on two number literals is
// evaluated at compile time.
func Foldable(op token.Kind) bool {
	switch op {
	case token.Add, token.Sub, token.Mul, token.Div, token.Mod, token.Exp,
		token.BitAnd, token.BitOr, token.BitXor, token.Shl, token.Sar:
		return true
	}
	return false
}

// FoldBinary evaluates "a op b" for two number literals with unlimited
// precision and returns the result as a literal spanning span. Division
// truncates towards zero. The result has to fit in a word.
// FoldBinary 以无限精度计算两个数字字面量的 "a op b"，并将结果作为覆盖 span 的字面量返回。
func FoldBinary(op token.Kind, a, b *Literal, span token.Span) (*Literal, error) {
	x, err := a.Int()
	if err != nil {
		return nil, err
	}
	y, err := b.Int()
	if err != nil {
		return nil, err
	}
	z := new(big.Int)
	switch op {
	case token.Add:
		z.Add(x, y)
	case token.Sub:
		z.Sub(x, y)
	case token.Mul:
		z.Mul(x, y)
	case token.Div, token.Mod:
		if y.Sign() == 0 {
			return nil, errDivisionByZero
		}
		if op == token.Div {
			z.Quo(x, y)
		} else {
			z.Rem(x, y)
		}
	case token.Exp:
		if y.Sign() < 0 {
			return nil, errNegativeExp
		}
		if x.CmpAbs(big.NewInt(1)) > 0 && y.Cmp(big.NewInt(maxShift)) > 0 {
			return nil, errConstantTooWide
		}
		z.Exp(x, y, nil)
	case token.BitAnd:
		z.And(x, y)
	case token.BitOr:
		z.Or(x, y)
	case token.BitXor:
		z.Xor(x, y)
	case token.Shl, token.Sar:
		if y.Sign() < 0 {
			return nil, errShiftNegative
		}
		if y.Cmp(big.NewInt(maxShift)) > 0 {
			if op == token.Shl && x.Sign() != 0 {
				return nil, errConstantTooWide
			}
			y = big.NewInt(maxShift)
		}
		if op == token.Shl {
			z.Lsh(x, uint(y.Uint64()))
		} else {
			// Rsh rounds towards negative infinity like SAR.
			z.Rsh(x, uint(y.Uint64()))
		}
	default:
		return nil, errors.New("operator " + op.String() + " is not folded")
	}
	return constant(z, span)
}

// FoldUnary evaluates "-a" or "~a" for a number literal.
// FoldUnary 计算数字字面量的 "-a" 或 "~a"。
func FoldUnary(op token.Kind, a *Literal, span token.Span) (*Literal, error) {
	x, err := a.Int()
	if err != nil {
		return nil, err
	}
	z := new(big.Int)
	switch op {
	case token.Sub:
		z.Neg(x)
	case token.BitNot:
		z.Not(x)
	default:
		return nil, errors.New("operator " + op.String() + " is not folded")
	}
	return constant(z, span)
}

func constant(v *big.Int, span token.Span) (*Literal, error) {
	if !inWordRange(v) {
		return nil, errConstantTooWide
	}
	return &Literal{
		Token:    token.Token{Kind: token.NumberLiteral, Text: v.String(), Span: span},
		Constant: v,
	}, nil
}
