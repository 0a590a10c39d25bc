// Copyright 2015 The go-ethereum Authors
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
	"testing"

	"github.com/holiman/uint256"

	"github.com/sunyihoo/go-solidity/diag"
	"github.com/sunyihoo/go-solidity/token"
)

func number(text string) *Literal {
	return &Literal{Token: token.Token{Kind: token.NumberLiteral, Text: text}}
}

func hexNumber(text string) *Literal {
	return &Literal{Token: token.Token{Kind: token.HexNumberLiteral, Text: text}}
}

func folded(v int64) *Literal {
	lit, err := constant(big.NewInt(v), token.Span{})
	if err != nil {
		panic(err)
	}
	return lit
}

func boolean(v bool) *Literal {
	if v {
		return &Literal{Token: token.Token{Kind: token.TrueLiteral, Text: "true"}}
	}
	return &Literal{Token: token.Token{Kind: token.FalseLiteral, Text: "false"}}
}

func TestImplicitConversion(t *testing.T) {
	tests := []struct {
		from, to Type
		want     bool
	}{
		{Uint(8), Uint(256), true},
		{Uint(256), Uint(8), false},
		{Int(8), Uint(8), false},
		{Uint(8), Int(16), false},
		{FixedBytes(4), FixedBytes(8), true},
		{FixedBytes(8), FixedBytes(4), false},
		{PayableAddress(), Address(), true},
		{Address(), PayableAddress(), false},
		{String(), Bytes(), false},
		{Bool(), Bool(), true},
		{number("255"), Uint(8), true},
		{number("256"), Uint(8), false},
		{number("127"), Int(8), true},
		{number("128"), Int(8), false},
		{folded(-128), Int(8), true},
		{folded(-129), Int(8), false},
		{folded(-129), Int(16), true},
		{folded(-1), Uint(8), false},
		{folded(-1), Uint(256), false},
		{folded(0), FixedBytes(4), false},
		{number("0"), FixedBytes(4), true},
		{number("1"), FixedBytes(4), false},
		{hexNumber("0x12345678"), FixedBytes(4), true},
		{hexNumber("0x1234"), FixedBytes(4), false},
		{hexNumber("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"), Address(), true},
		{hexNumber("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"), Address(), false},
		{boolean(true), Bool(), true},
		{boolean(true), Uint(8), false},
		{NewContract("C"), NewContract("C"), true},
		{NewContract("C"), NewContract("D"), false},
		{NewTuple(number("1"), Bool()), NewTuple(Uint(8), Bool()), true},
		{NewTuple(Uint(8)), NewTuple(Uint(8), Bool()), false},
	}
	for i, test := range tests {
		if have := ImplicitlyConvertible(test.from, test.to); have != test.want {
			t.Errorf("test %d: %v -> %v: have %v, want %v", i, test.from, test.to, have, test.want)
		}
	}
}

func TestExplicitConversion(t *testing.T) {
	tests := []struct {
		from, to Type
		want     bool
	}{
		{Uint(256), Uint(8), true},
		{Int(8), Uint(8), true},
		{Int(8), Uint(16), false},
		{Uint(160), Address(), true},
		{Uint(256), Address(), false},
		{Address(), Uint(160), true},
		{FixedBytes(32), Uint(256), true},
		{FixedBytes(4), Uint(256), false},
		{Uint(32), FixedBytes(4), true},
		{FixedBytes(32), FixedBytes(1), true},
		{FixedBytes(20), Address(), true},
		{Address(), PayableAddress(), true},
		{String(), Bytes(), true},
		{Bool(), Uint(8), false},
		{number("300"), Uint(8), false},
		{number("255"), Uint(8), true},
		{number("255"), Int(8), true},
		{folded(-1), Int(8), true},
		{folded(-1), Uint(8), false},
		{number("0"), Address(), true},
		{number("1"), Address(), false},
		{Address(), NewContract("C"), true},
		{NewContract("C"), Address(), true},
		{NewContract("C"), Uint(160), false},
	}
	for i, test := range tests {
		if have := ExplicitlyConvertible(test.from, test.to); have != test.want {
			t.Errorf("test %d: %v -> %v: have %v, want %v", i, test.from, test.to, have, test.want)
		}
	}
}

func TestCommonType(t *testing.T) {
	tests := []struct {
		a, b Type
		want Type
	}{
		{Uint(8), Uint(256), Uint(256)},
		{Uint(256), Uint(8), Uint(256)},
		{number("1"), Uint(8), Uint(8)},
		{Int(64), number("5"), Int(64)},
		{number("1"), number("300"), Uint(16)},
		{folded(-1), number("300"), Int(16)},
		{folded(-128), folded(127), Int(8)},
		{boolean(true), Bool(), Bool()},
		{Uint(256), String(), nil},
		{Int(8), Uint(8), nil},
	}
	for i, test := range tests {
		have, err := CommonType(test.a, test.b)
		if err != nil {
			t.Fatalf("test %d: %v", i, err)
		}
		if !Identical(have, test.want) {
			t.Errorf("test %d: common type of %v and %v is %v, want %v", i, test.a, test.b, have, test.want)
		}
	}
}

func TestWeaken(t *testing.T) {
	tests := []struct {
		in   Type
		want Type
	}{
		{number("0"), Uint(8)},
		{number("255"), Uint(8)},
		{number("256"), Uint(16)},
		{folded(-1), Int(8)},
		{folded(-129), Int(16)},
		{folded(300), Uint(16)},
		{boolean(false), Bool()},
		{hexNumber("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"), Address()},
		{Int(32), Int(32)},
	}
	for _, test := range tests {
		have, err := Weaken(test.in)
		if err != nil {
			t.Fatalf("%v: %v", test.in, err)
		}
		if !Identical(have, test.want) {
			t.Errorf("%v weakens to %v, want %v", test.in, have, test.want)
		}
	}
	// 2**256 does not fit into any integer type.
	_, err := Weaken(number("115792089237316195423570985008687907853269984665640564039457584007913129639936"))
	var te *diag.TypeError
	if !errors.As(err, &te) {
		t.Fatalf("have %v, want a type error", err)
	}
}

func TestLiteralValue(t *testing.T) {
	v, err := number("1000").Value()
	if err != nil || v.Uint64() != 1000 {
		t.Fatalf("have %v %v", v, err)
	}
	v, err = hexNumber("0xff").Value()
	if err != nil || v.Uint64() != 255 {
		t.Fatalf("have %v %v", v, err)
	}
	if v, _ := boolean(true).Value(); v.Uint64() != 1 {
		t.Fatalf("true evaluates to %v", v)
	}
	v, err = folded(-1).Value()
	if err != nil || !v.Eq(new(uint256.Int).SetAllOne()) {
		t.Fatalf("-1 evaluates to %v %v", v, err)
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		op   token.Kind
		a, b *Literal
		want string
	}{
		{token.Add, number("200"), number("100"), "300"},
		{token.Sub, number("1"), number("2"), "-1"},
		{token.Mul, hexNumber("0x10"), number("3"), "48"},
		{token.Div, folded(-7), number("2"), "-3"},
		{token.Mod, folded(-7), number("2"), "-1"},
		{token.Exp, number("10"), number("18"), "1000000000000000000"},
		{token.Exp, folded(-1), number("1000"), "1"},
		{token.Exp, number("0"), number("0"), "1"},
		{token.Shl, number("1"), number("255"), "57896044618658097711785492504343953926634992332820282019728792003956564819968"},
		{token.Shl, number("0"), number("1000"), "0"},
		{token.Sar, folded(-5), number("1"), "-3"},
		{token.Sar, folded(-5), number("1000"), "-1"},
		{token.BitAnd, number("12"), number("10"), "8"},
		{token.BitOr, number("12"), number("10"), "14"},
		{token.BitXor, number("12"), number("10"), "6"},
	}
	for i, test := range tests {
		have, err := FoldBinary(test.op, test.a, test.b, token.Span{})
		if err != nil {
			t.Errorf("test %d: %v %v %v: %v", i, test.a, test.op, test.b, err)
			continue
		}
		if have.Token.Text != test.want {
			t.Errorf("test %d: %v %v %v = %s, want %s", i, test.a, test.op, test.b, have.Token.Text, test.want)
		}
	}
	failures := []struct {
		op   token.Kind
		a, b *Literal
		want error
	}{
		{token.Div, number("1"), number("0"), errDivisionByZero},
		{token.Mod, number("1"), number("0"), errDivisionByZero},
		{token.Exp, number("2"), folded(-1), errNegativeExp},
		{token.Exp, number("2"), number("256"), errConstantTooWide},
		{token.Exp, number("2"), number("100000"), errConstantTooWide},
		{token.Shl, number("1"), folded(-1), errShiftNegative},
		{token.Shl, number("1"), number("256"), errConstantTooWide},
	}
	for i, test := range failures {
		if _, err := FoldBinary(test.op, test.a, test.b, token.Span{}); !errors.Is(err, test.want) {
			t.Errorf("failure %d: %v %v %v: have %v, want %v", i, test.a, test.op, test.b, err, test.want)
		}
	}
	neg, err := FoldUnary(token.Sub, number("5"), token.Span{})
	if err != nil || neg.Token.Text != "-5" {
		t.Errorf("-5 folds to %v %v", neg, err)
	}
	not, err := FoldUnary(token.BitNot, number("5"), token.Span{})
	if err != nil || not.Token.Text != "-6" {
		t.Errorf("~5 folds to %v %v", not, err)
	}
	top := number("115792089237316195423570985008687907853269984665640564039457584007913129639935")
	if _, err := FoldUnary(token.Sub, top, token.Span{}); !errors.Is(err, errConstantTooWide) {
		t.Errorf("negated max word: have %v, want %v", err, errConstantTooWide)
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{Uint(256), "uint256"},
		{Int(8), "int8"},
		{FixedBytes(32), "bytes32"},
		{PayableAddress(), "address payable"},
		{String(), "string"},
		{number("7"), "int_const 7"},
		{boolean(true), "bool_const true"},
		{&Function{Params: []Type{Uint(8), Bool()}, Returns: []Type{Address()}}, "function (uint8,bool) returns (address)"},
		{NewContract("C"), "contract C"},
	}
	for _, test := range tests {
		if have := test.typ.String(); have != test.want {
			t.Errorf("have %q, want %q", have, test.want)
		}
	}
}

func TestFunctionAccepts(t *testing.T) {
	fn := &Function{Params: []Type{Uint(256), Bool()}, Returns: []Type{Uint(8)}}
	if !fn.Accepts([]Type{number("1"), boolean(true)}) {
		t.Error("literal arguments rejected")
	}
	if fn.Accepts([]Type{Int(256), Bool()}) {
		t.Error("signed argument accepted")
	}
	if fn.Accepts([]Type{Uint(256)}) {
		t.Error("missing argument accepted")
	}
	conv := &Function{Params: []Type{nil}, Returns: []Type{Uint(8)}, Conversion: true}
	if !conv.Accepts([]Type{Uint(256)}) || !Identical(conv.Target(), Uint(8)) {
		t.Error("narrowing conversion rejected")
	}
	if !Identical(fn.Result(), Uint(8)) {
		t.Errorf("result %v", fn.Result())
	}
	if res := (&Function{}).Result(); !Identical(res, EmptyTuple()) {
		t.Errorf("result %v, want empty tuple", res)
	}
}
