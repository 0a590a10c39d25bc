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
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-solidity/diag"
	"github.com/sunyihoo/go-solidity/token"
)

var (
	errNotNumber      = errors.New("literal is not a number")
	errNumberOverflow = errors.New("number literal does not fit in 256 bits")
)

// Int returns the exact value of a number literal or folded constant.
// Boolean literals evaluate to 0 and 1.
// Int 返回数字字面量或折叠常量的精确值，布尔字面量求值为 0 和 1。
func (t *Literal) Int() (*big.Int, error) {
	if t.Constant != nil {
		return new(big.Int).Set(t.Constant), nil
	}
	switch t.Token.Kind {
	case token.TrueLiteral:
		return big.NewInt(1), nil
	case token.FalseLiteral:
		return new(big.Int), nil
	case token.NumberLiteral:
		v, ok := new(big.Int).SetString(strings.ReplaceAll(t.Token.Text, "_", ""), 10)
		if !ok {
			return nil, errNotNumber
		}
		return v, nil
	case token.HexNumberLiteral:
		v, ok := new(big.Int).SetString(strings.ReplaceAll(hexDigits(t.Token.Text), "_", ""), 16)
		if !ok {
			return nil, errNotNumber
		}
		return v, nil
	}
	return nil, errNotNumber
}

// Value returns the word holding the literal: the value itself, or its
// two's complement when it is negative.
// Value 返回保存字面量的字：值本身，或负数的二进制补码。
func (t *Literal) Value() (*uint256.Int, error) {
	v, err := t.Int()
	if err != nil {
		return nil, err
	}
	if !inWordRange(v) {
		return nil, errNumberOverflow
	}
	w, _ := uint256.FromBig(new(big.Int).Abs(v))
	if v.Sign() < 0 {
		w.Neg(w)
	}
	return w, nil
}

// IsZero reports whether the literal is a number literal with value zero.
func (t *Literal) IsZero() bool {
	if !t.Token.Kind.IsNumberLiteral() {
		return false
	}
	v, err := t.Int()
	return err == nil && v.Sign() == 0
}

// isNumber reports whether the literal is a number that is not an address.
func (t *Literal) isNumber() bool {
	return t.Token.Kind.IsNumberLiteral() && !t.isChecksumAddress()
}

// IsNegative reports whether the literal is a negative constant.
func (t *Literal) IsNegative() bool {
	v, err := t.Int()
	return err == nil && v.Sign() < 0
}

// fits reports whether the value lies in the range of a signed or unsigned
// integer of the given bit width.
func (t *Literal) fits(signed bool, bits int) bool {
	v, err := t.Int()
	if err != nil {
		return false
	}
	return fitsInteger(v, signed, bits)
}

func fitsInteger(v *big.Int, signed bool, bits int) bool {
	switch {
	case !signed:
		return v.Sign() >= 0 && v.BitLen() <= bits
	case v.Sign() >= 0:
		return v.BitLen() <= bits-1
	}
	// The smallest value is -2^(bits-1), so |v|-1 needs at most bits-1 bits.
	return new(big.Int).Add(v, big.NewInt(1)).BitLen() <= bits-1
}

// inWordRange reports whether v is representable in a word as either a
// uint256 or an int256.
func inWordRange(v *big.Int) bool {
	return fitsInteger(v, false, 256) || fitsInteger(v, true, 256)
}

// mobileBits is the smallest integer width, in whole bytes, holding v.
func mobileBits(v *big.Int, signed bool) (int, bool) {
	for bits := 8; bits <= 256; bits += 8 {
		if fitsInteger(v, signed, bits) {
			return bits, true
		}
	}
	return 0, false
}

// isChecksumAddress reports whether the literal is a 20 byte hex literal in
// EIP-55 mixed case checksum form.
// isChecksumAddress 判断字面量是否为 EIP-55 校验和格式的 20 字节十六进制字面量。
func (t *Literal) isChecksumAddress() bool {
	if t.Constant != nil || t.Token.Kind != token.HexNumberLiteral || len(hexDigits(t.Token.Text)) != 2*common.AddressLength {
		return false
	}
	if !common.IsHexAddress(t.Token.Text) {
		return false
	}
	return common.HexToAddress(t.Token.Text).Hex() == "0x"+hexDigits(t.Token.Text)
}

func hexDigits(text string) string {
	if len(text) >= 2 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X') {
		return text[2:]
	}
	return text
}

// Weaken forces a literal type into its natural elementary type: bool for
// boolean literals, address for a checksummed 20 byte hex literal, the
// smallest fitting int for a negative constant and the smallest fitting uint
// otherwise. Non-literal types are returned as they are.
// Weaken 将字面量类型强制为其自然的基本类型，非字面量类型原样返回。
func Weaken(t Type) (Type, error) {
	lit, ok := t.(*Literal)
	if !ok {
		return t, nil
	}
	switch kind := lit.Token.Kind; {
	case kind.IsBoolLiteral():
		return Bool(), nil
	case kind.IsNumberLiteral():
		if lit.isChecksumAddress() {
			return Address(), nil
		}
		v, err := lit.Int()
		if err != nil {
			return nil, err
		}
		signed := v.Sign() < 0
		bits, ok := mobileBits(v, signed)
		if !ok {
			return nil, &diag.TypeError{
				Code:    diag.CodeImplicitConvert,
				Message: "Invalid literal " + lit.Token.Text + ": " + errNumberOverflow.Error(),
				Span:    lit.Token.Span,
			}
		}
		if signed {
			return Int(bits), nil
		}
		return Uint(bits), nil
	}
	return nil, diag.NotImplemented("string literal type", lit.Token.Span)
}

// WeakenAll weakens every element of a list.
func WeakenAll(list []Type) ([]Type, error) {
	out := make([]Type, len(list))
	for i, t := range list {
		w, err := Weaken(t)
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}
