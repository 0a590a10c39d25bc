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

package checker

import (
	"errors"
	"testing"

	"github.com/sunyihoo/go-solidity/ast"
	"github.com/sunyihoo/go-solidity/diag"
	"github.com/sunyihoo/go-solidity/parser"
	"github.com/sunyihoo/go-solidity/token"
	"github.com/sunyihoo/go-solidity/types"
)

func checkStatement(t *testing.T, src string) (ast.Statement, *Annotations, error) {
	t.Helper()
	stmt, err := parser.ParseStatement(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	ann, err := CheckStatement(src, stmt)
	return stmt, ann, err
}

func checkSource(t *testing.T, src string) (*Annotations, error) {
	t.Helper()
	prog, err := parser.ParseSource(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return Check(src, prog)
}

func errorCode(t *testing.T, err error) diag.Code {
	t.Helper()
	var terr *diag.TypeError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TypeError, got %v", err)
	}
	return terr.Code
}

func TestStatementErrors(t *testing.T) {
	tests := []struct {
		src  string
		code diag.Code
	}{
		{"{ uint256 a; string b; a + b; }", diag.CodeBinaryOperator},
		{"{ bool a; bool b; a < b; }", diag.CodeBinaryOperator},
		{"{ uint8 a; uint16 b; a & b; }", diag.CodeBinaryOperator},
		{"{ x = 1; }", diag.CodeUndeclared},
		{"{ uint256 a; uint256 a; }", diag.CodeDuplicateSymbol},
		{"{ uint256 a; 1 = a; }", diag.CodeNotLValue},
		{"{ bool b; b++; }", diag.CodeUnaryOperator},
		{"{ uint256 a; !a; }", diag.CodeUnaryOperator},
		{"{ string s; -s; }", diag.CodeUnaryMinus},
		{`{ -"abc"; }`, diag.CodeUnaryMinus},
		{"{ uint256 a; a(); }", diag.CodeNotCallable},
		{"{ uint8(1, 2); }", diag.CodeArgumentCount},
		{"{ msg.foo; }", diag.CodeMemberNotFound},
		{"{ uint256 a; a.balance; }", diag.CodeMemberNotFound},
		{"{ uint8 a = 300; }", diag.CodeDeclarationConvert},
		{"{ int8 a = -200; }", diag.CodeDeclarationConvert},
		{"{ int8 a = 128; }", diag.CodeDeclarationConvert},
		{"{ uint8 a = 200 + 100; }", diag.CodeDeclarationConvert},
		{"{ uint256 a = -1; }", diag.CodeDeclarationConvert},
		{"{ 1 / 0; }", diag.CodeBinaryOperator},
		{"{ 7 % (2 - 2); }", diag.CodeBinaryOperator},
		{"{ 2 ** 256; }", diag.CodeBinaryOperator},
		{"{ uint8 a; uint256 b; a = b; }", diag.CodeImplicitConvert},
		{"{ uint256 a; if (a) {} }", diag.CodeImplicitConvert},
		{"{ string s; uint256 a = uint256(s); }", diag.CodeExplicitConvert},
		{"{ bool c; uint256 a; string s; c ? a : s; }", diag.CodeConditionalMismatch},
		{"{ uint8 a; uint256 b; a += b; }", diag.CodeCompoundAssignment},
		{"{ uint256 a; (uint256 x, uint256 y) = a; }", diag.CodeTupleComponents},
		{"{ return 1; }", diag.CodeReturnArity},
	}
	for _, tt := range tests {
		_, _, err := checkStatement(t, tt.src)
		if err == nil {
			t.Errorf("%q: expected error %d, got none", tt.src, tt.code)
			continue
		}
		if code := errorCode(t, err); code != tt.code {
			t.Errorf("%q: error code mismatch: have %d, want %d (%v)", tt.src, code, tt.code, err)
		}
	}
}

func TestSourceErrors(t *testing.T) {
	tests := []struct {
		src  string
		code diag.Code
	}{
		{"contract C { function f(uint256 a) public {} function f(uint256 b) public {} }", diag.CodeDuplicateOverload},
		{"contract C { uint256 x; uint256 x; }", diag.CodeDuplicateSymbol},
		{"contract C { struct S { uint256 a; bool a; } }", diag.CodeDuplicateSymbol},
		{"contract C { uint8 x = 300; }", diag.CodeDeclarationConvert},
		{"contract C { function f() public returns (uint256) { return true; } }", diag.CodeReturnConvert},
		{"contract C { function f() public { return 1; } }", diag.CodeReturnArity},
		{"contract C { function f() public returns (uint256, uint256) { return 1; } }", diag.CodeReturnArity},
		{"contract C { function f(uint256 x) public { x y; } }", diag.CodeNotAType},
		{"contract C { function f(D d) public {} }", diag.CodeUndeclared},
		{"contract C { function f(uint8 a) public {} function f(uint16 a) public {} function g() public { f(1); } }", diag.CodeAmbiguousOverload},
		{`contract C { function f(uint8 a) public {} function f(bool a) public {} function g() public { f("x"); } }`, diag.CodeNoMatchingOverload},
		{"contract C { function f(uint8 a) public {} function g() public { f(1, 2); } }", diag.CodeArgumentCount},
		{"contract C { function f() public {} } contract D { function g(C c) public { c.h(); } }", diag.CodeMemberNotFound},
	}
	for _, tt := range tests {
		_, err := checkSource(t, tt.src)
		if err == nil {
			t.Errorf("%q: expected error %d, got none", tt.src, tt.code)
			continue
		}
		if code := errorCode(t, err); code != tt.code {
			t.Errorf("%q: error code mismatch: have %d, want %d (%v)", tt.src, code, tt.code, err)
		}
	}
}

func TestErrorPosition(t *testing.T) {
	src := "{\n  uint256 a;\n  a + true;\n}"
	_, _, err := checkStatement(t, src)
	var terr *diag.TypeError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TypeError, got %v", err)
	}
	if terr.Pos.Line != 3 || terr.Pos.Column != 3 {
		t.Errorf("position mismatch: have %v, want 3:3", terr.Pos)
	}
	if span, ok := diag.SpanOf(err); !ok || src[span.Start:span.End] != "a + true" {
		t.Errorf("span mismatch: have %v", span)
	}
}

func TestExpressionTypes(t *testing.T) {
	tests := []struct {
		src  string
		want types.Type
	}{
		{"{ uint8 a; a + 1; }", types.Uint(8)},
		{"{ uint8 a; 1 + a; }", types.Uint(8)},
		{"{ uint8 a; uint16 b; a + b; }", types.Uint(16)},
		{"{ int8 a; -a; }", types.Int(8)},
		{"{ uint256 a; a < 2; }", types.Bool()},
		{"{ bytes4 a; a << 1; }", types.FixedBytes(4)},
		{"{ uint8 a; 2 ** a; }", types.Uint(8)},
		{"{ uint64 a; a ** 2; }", types.Uint(64)},
		{"{ bool c; uint8 a; c ? a : 1; }", types.Uint(8)},
		{"{ uint256 a; uint8(a); }", types.Uint(8)},
		{"{ address a; a.balance; }", types.Uint(256)},
		{"{ msg.sender; }", types.Address()},
		{"{ block.coinbase; }", types.PayableAddress()},
		{"{ uint256 a; a += 1; }", types.Uint(256)},
		{"{ uint256 a; delete a; }", types.EmptyTuple()},
		{"{ 200 + 100; }", constant("300")},
		{"{ 10 ** 18; }", constant("1000000000000000000")},
		{"{ -(2 ** 255); }", constant("-57896044618658097711785492504343953926634992332820282019728792003956564819968")},
		{"{ 7 / 2 - 8 % 3; }", constant("1")},
		{"{ ~0; }", constant("-1")},
		{"{ 1 << 8 | 1; }", constant("257")},
		{"{ uint8 a; a + (200 + 55); }", types.Uint(8)},
	}
	for _, tt := range tests {
		stmt, ann, err := checkStatement(t, tt.src)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.src, err)
			continue
		}
		block := stmt.(*ast.Block)
		last := block.Statements[len(block.Statements)-1].(*ast.ExpressionStatement)
		have, ok := ann.TypeOf(last.Expression)
		if !ok {
			t.Errorf("%q: expression not annotated", tt.src)
			continue
		}
		if !types.Identical(have, tt.want) {
			t.Errorf("%q: type mismatch: have %v, want %v", tt.src, have, tt.want)
		}
	}
}

func constant(text string) *types.Literal {
	return &types.Literal{Token: token.Token{Kind: token.NumberLiteral, Text: text}}
}

func TestFoldedDeclarations(t *testing.T) {
	valid := []string{
		"{ int8 a = -128; }",
		"{ int8 a = -(64 + 64); }",
		"{ uint8 a = 200 + 55; }",
		"{ uint256 a = 10 ** 18; }",
		"{ uint256 a = 2 ** 255 - 1 + 2 ** 255; }",
		"{ int256 a = -2 ** 255; }",
		"{ bool b = -1 < 1; }",
		"{ uint8 a = uint8(255); int8 b = int8(255); }",
	}
	for _, src := range valid {
		if _, _, err := checkStatement(t, src); err != nil {
			t.Errorf("%q: unexpected error: %v", src, err)
		}
	}
}

func TestScopes(t *testing.T) {
	valid := []string{
		"{ { uint256 a; } { uint256 a; } }",
		"{ for (uint256 i = 0; i < 10; i++) {} for (uint256 i = 0; i < 10; i++) {} }",
		"{ uint256 a; if (a > 1) { uint256 b; } else { uint256 b; } }",
		"{ while (true) { uint256 a; break; } }",
		"{ unchecked { uint8 a; a++; } }",
	}
	for _, src := range valid {
		if _, _, err := checkStatement(t, src); err != nil {
			t.Errorf("%q: unexpected error: %v", src, err)
		}
	}
	leaking := []string{
		"{ { uint256 a; } a; }",
		"{ for (uint256 i = 0; i < 10; i++) {} i; }",
	}
	for _, src := range leaking {
		_, _, err := checkStatement(t, src)
		if err == nil {
			t.Errorf("%q: expected error", src)
			continue
		}
		if code := errorCode(t, err); code != diag.CodeUndeclared {
			t.Errorf("%q: error code mismatch: have %d, want %d", src, code, diag.CodeUndeclared)
		}
	}
}

func TestDeclarationInitializerScope(t *testing.T) {
	_, _, err := checkStatement(t, "{ uint256 a = a; }")
	if err == nil {
		t.Fatal("initializer resolved the variable it declares")
	}
	if code := errorCode(t, err); code != diag.CodeUndeclared {
		t.Errorf("error code mismatch: have %d, want %d", code, diag.CodeUndeclared)
	}
}

func TestExponentWarning(t *testing.T) {
	_, ann, err := checkStatement(t, "{ uint8 a; uint256 b; a ** b; }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ann.Warnings) != 1 {
		t.Fatalf("warning count mismatch: have %d, want 1", len(ann.Warnings))
	}
	if w := ann.Warnings[0]; w.Code != diag.CodeExponentWidth || !w.Warning {
		t.Errorf("unexpected warning: %v", w)
	}
	_, ann, err = checkStatement(t, "{ uint256 a; uint8 b; a ** b; }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ann.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", ann.Warnings)
	}
}

func TestValidContract(t *testing.T) {
	src := `
pragma solidity ^0.8.0;

contract Identity {
	function id(uint256 x) external pure returns (uint256) { return x; }
}

contract Caller {
	event Called(uint256 value);
	error Failed(uint256 code);

	uint256 counter = 1;

	function f(uint8 a) public {}
	function f(bool a) public {}

	function run(Identity target) public returns (uint256 r) {
		f(true);
		f(uint8(1));
		r = target.id(10);
		(uint256 x, , uint256 y) = (1, 2, 3);
		x = x + y;
		if (r != 10) {
			revert Failed(r);
		}
		emit Called(r);
	}
}`
	ann, err := checkSource(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ann.Len() == 0 {
		t.Error("no expressions annotated")
	}
}

func TestNotImplemented(t *testing.T) {
	tests := []string{
		"uint256 constant X = 1;",
		"contract C { function f() public { uint256[] memory a; } }",
		"contract C { function f(uint256 a) public { a[0]; } }",
	}
	for _, src := range tests {
		prog, err := parser.ParseSource(src)
		if err != nil {
			var nerr *diag.NotImplementedError
			if errors.As(err, &nerr) {
				continue
			}
			t.Fatalf("parse %q: %v", src, err)
		}
		_, err = Check(src, prog)
		var nerr *diag.NotImplementedError
		if !errors.As(err, &nerr) {
			t.Errorf("%q: expected NotImplementedError, got %v", src, err)
		}
	}
}
