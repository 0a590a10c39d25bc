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

package lexer

import (
	"errors"
	"testing"

	"github.com/sunyihoo/go-solidity/diag"
	"github.com/sunyihoo/go-solidity/token"
)

// lexeme is a token without its position.
type lexeme struct {
	kind token.Kind
	text string
}

func lexemes(t *testing.T, src string) []lexeme {
	t.Helper()
	tokens, err := Tokenize(src)
	if err != nil {
		t.Fatalf("%q: unexpected error: %v", src, err)
	}
	out := make([]lexeme, len(tokens))
	for i, tok := range tokens {
		out[i] = lexeme{tok.Kind, tok.Text}
	}
	return out
}

func equal(a, b []lexeme) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEmpty(t *testing.T) {
	for _, src := range []string{"", "  \n\t", "// only a comment", "/* block */"} {
		if have := lexemes(t, src); len(have) != 0 {
			t.Errorf("%q: have %v, want no tokens", src, have)
		}
	}
}

func TestNumbers(t *testing.T) {
	for _, src := range []string{"0", "7", "10", "00042", "115792089237316195423570985008687907853269984665640564039457584007913129639935"} {
		have := lexemes(t, src)
		if want := []lexeme{{token.NumberLiteral, src}}; !equal(have, want) {
			t.Errorf("%q: have %v, want %v", src, have, want)
		}
	}
}

func TestIdentifiers(t *testing.T) {
	for _, src := range []string{"hi", "_", "_x", "a1_b2", "camelCase", "uint7", "bytes33"} {
		have := lexemes(t, src)
		if want := []lexeme{{token.Identifier, src}}; !equal(have, want) {
			t.Errorf("%q: have %v, want %v", src, have, want)
		}
	}
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		src  string
		kind token.Kind
		size int
	}{
		{"contract", token.Contract, 0},
		{"function", token.Function, 0},
		{"true", token.TrueLiteral, 0},
		{"uint", token.UInt, 256},
		{"int64", token.Int, 64},
		{"bytes4", token.FixedBytes, 4},
		{"address", token.Address, 0},
	}
	for _, test := range tests {
		tokens, err := Tokenize(test.src)
		if err != nil {
			t.Fatalf("%q: %v", test.src, err)
		}
		if len(tokens) != 1 || tokens[0].Kind != test.kind || tokens[0].Size != test.size {
			t.Errorf("%q: have %v, want %v/%d", test.src, tokens, test.kind, test.size)
		}
	}
}

func TestWhitespaceAndComments(t *testing.T) {
	want := []lexeme{{token.Identifier, "hi"}}
	for _, src := range []string{"hi", " hi ", "\thi\n", "// x\nhi", "/* x */hi", "hi// trailing", "/* a\n b */ hi /**/"} {
		if have := lexemes(t, src); !equal(have, want) {
			t.Errorf("%q: have %v, want %v", src, have, want)
		}
	}
	// Comments separate tokens like whitespace does.
	have := lexemes(t, "a/**/b")
	if want := []lexeme{{token.Identifier, "a"}, {token.Identifier, "b"}}; !equal(have, want) {
		t.Errorf("have %v, want %v", have, want)
	}
}

// Spans are byte offsets into the source, so leading whitespace shifts them
// while kind and text stay the same.
func TestWhitespaceShiftsSpans(t *testing.T) {
	padded, err := Tokenize(" hi ")
	if err != nil {
		t.Fatal(err)
	}
	plain, err := Tokenize("hi")
	if err != nil {
		t.Fatal(err)
	}
	if len(padded) != 1 || len(plain) != 1 {
		t.Fatalf("token count mismatch: have %d and %d, want 1", len(padded), len(plain))
	}
	if padded[0].Kind != plain[0].Kind || padded[0].Text != plain[0].Text {
		t.Errorf("lexeme mismatch: have %v/%q, want %v/%q", padded[0].Kind, padded[0].Text, plain[0].Kind, plain[0].Text)
	}
	if want := (token.Span{Start: 0, End: 2}); plain[0].Span != want {
		t.Errorf("plain span mismatch: have %v, want %v", plain[0].Span, want)
	}
	if want := (token.Span{Start: 1, End: 3}); padded[0].Span != want {
		t.Errorf("padded span mismatch: have %v, want %v", padded[0].Span, want)
	}
}

func TestOperators(t *testing.T) {
	tests := []struct {
		src  string
		want []token.Kind
	}{
		{"a<<=b", []token.Kind{token.Identifier, token.AssignShl, token.Identifier}},
		{"a<<b", []token.Kind{token.Identifier, token.Shl, token.Identifier}},
		{"a<=b", []token.Kind{token.Identifier, token.LessThanOrEqual, token.Identifier}},
		{"a>>=b", []token.Kind{token.Identifier, token.AssignSar, token.Identifier}},
		{"a**b", []token.Kind{token.Identifier, token.Exp, token.Identifier}},
		{"a*=b", []token.Kind{token.Identifier, token.AssignMul, token.Identifier}},
		{"a++", []token.Kind{token.Identifier, token.Inc}},
		{"--a", []token.Kind{token.Dec, token.Identifier}},
		{"a&&b||c", []token.Kind{token.Identifier, token.And, token.Identifier, token.Or, token.Identifier}},
		{"a==b!=c", []token.Kind{token.Identifier, token.Equal, token.Identifier, token.NotEqual, token.Identifier}},
		{"x?y:z", []token.Kind{token.Identifier, token.Conditional, token.Identifier, token.Colon, token.Identifier}},
		{"=>", []token.Kind{token.Arrow}},
		{"!~", []token.Kind{token.Not, token.BitNot}},
		{"f(a,b);", []token.Kind{token.Identifier, token.LParen, token.Identifier, token.Comma, token.Identifier, token.RParen, token.Semicolon}},
	}
	for _, test := range tests {
		tokens, err := Tokenize(test.src)
		if err != nil {
			t.Fatalf("%q: %v", test.src, err)
		}
		if len(tokens) != len(test.want) {
			t.Fatalf("%q: have %v, want %v", test.src, tokens, test.want)
		}
		for i, tok := range tokens {
			if tok.Kind != test.want[i] {
				t.Errorf("%q: token %d is %v, want %v", test.src, i, tok.Kind, test.want[i])
			}
		}
	}
}

func TestSpans(t *testing.T) {
	tokens, err := Tokenize("uint256 x = 10;")
	if err != nil {
		t.Fatal(err)
	}
	want := []token.Span{{Start: 0, End: 7}, {Start: 8, End: 9}, {Start: 10, End: 11}, {Start: 12, End: 14}, {Start: 14, End: 15}}
	if len(tokens) != len(want) {
		t.Fatalf("have %d tokens, want %d", len(tokens), len(want))
	}
	for i, tok := range tokens {
		if tok.Span != want[i] {
			t.Errorf("token %v: span %v, want %v", tok, tok.Span, want[i])
		}
	}
}

func TestPragma(t *testing.T) {
	have := lexemes(t, "pragma solidity ^0.8.0 ;\ncontract")
	want := []lexeme{
		{token.Pragma, "pragma"},
		{token.PragmaValue, "solidity ^0.8.0"},
		{token.Semicolon, ";"},
		{token.Contract, "contract"},
	}
	if !equal(have, want) {
		t.Fatalf("have %v, want %v", have, want)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		src  string
		kind diag.LexErrorKind
	}{
		{"@", diag.UnrecognizedSymbol},
		{"a $ b", diag.UnrecognizedSymbol},
		{"var x", diag.ReservedKeyword},
		{"uint256 typeof;", diag.ReservedKeyword},
		{"/* open", diag.UnterminatedComment},
	}
	for _, test := range tests {
		_, err := Tokenize(test.src)
		var lexErr *diag.LexError
		if !errors.As(err, &lexErr) {
			t.Errorf("%q: have error %v, want a lex error", test.src, err)
			continue
		}
		if lexErr.Kind != test.kind {
			t.Errorf("%q: have %v, want %v", test.src, lexErr.Kind, test.kind)
		}
	}
}

func TestNotImplementedLiterals(t *testing.T) {
	for _, src := range []string{"0x10", "1.5", "1e3", "2E-4", "\"abc\"", "'abc'", "hex\"00\"", "unicode\"x\""} {
		_, err := Tokenize(src)
		var nie *diag.NotImplementedError
		if !errors.As(err, &nie) {
			t.Errorf("%q: have error %v, want not implemented", src, err)
		}
	}
}

func TestMemberAccessAfterNumber(t *testing.T) {
	// "1." followed by a letter is a number and a period, not a rational.
	have := lexemes(t, "1.x")
	want := []lexeme{{token.NumberLiteral, "1"}, {token.Period, "."}, {token.Identifier, "x"}}
	if !equal(have, want) {
		t.Fatalf("have %v, want %v", have, want)
	}
}
