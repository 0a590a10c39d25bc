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

package parser

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/sunyihoo/go-solidity/ast"
	"github.com/sunyihoo/go-solidity/diag"
	"github.com/sunyihoo/go-solidity/token"
)

// ignorePositions compares trees by shape, leaving out node ids and spans.
var ignorePositions = cmp.Options{
	cmpopts.IgnoreTypes(ast.Header{}, token.Span{}),
	cmpopts.EquateEmpty(),
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a + b * c", "(+ a (* b c))"},
		{"a * b + c", "(+ (* a b) c)"},
		{"a - b - c", "(- (- a b) c)"},
		{"(a + b) * c", "(* (+ a b) c)"},
		{"a = b = c", "(= a (= b c))"},
		{"a += b = c", "(+= a (= b c))"},
		{"a || b && c", "(|| a (&& b c))"},
		{"a && b || c", "(|| (&& a b) c)"},
		{"a == b < c", "(== a (< b c))"},
		{"a | b ^ c & d", "(| a (^ b (& c d)))"},
		{"a << b + c", "(<< a (+ b c))"},
		{"a & b == c", "(== (& a b) c)"},
		{"!a && b", "(&& (! a) b)"},
		{"-a ** b", "(** (- a) b)"},
		{"a++ + b", "(+ (post++ a) b)"},
		{"++a", "(++ a)"},
		{"delete a", "(delete a)"},
		{"a ? b : c ? d : e", "(?: a b (?: c d e))"},
		{"a = b ? c : d", "(= a (?: b c d))"},
		{"a ? b = c : d", "(?: a (= b c) d)"},
		{"f(a, b).c", "(call f a b).c"},
		{"a.b.c(1)", "(call a.b.c 1)"},
		{"x[1] + y[]", "(+ (index x 1) (index y _))"},
		{"x[1:]", "(slice x 1 _)"},
		{"(a, , b)", "(tuple a _ b)"},
		{"()", "(tuple)"},
		{"uint8(x)", "(call uint8 x)"},
		{"uint(x)", "(call uint256 x)"},
		{"payable(x)", "(call address payable x)"},
		{"new C", "(new C)"},
		{"true != false", "(!= true false)"},
	}
	for _, test := range tests {
		expr, err := ParseExpression(test.src)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", test.src, err)
			continue
		}
		if diff := cmp.Diff(test.want, ast.Format(expr)); diff != "" {
			t.Errorf("%q: mismatch (-want +have):\n%s", test.src, diff)
		}
	}
}

func TestPrecedenceTree(t *testing.T) {
	expr, err := ParseExpression("a + b * c")
	if err != nil {
		t.Fatal(err)
	}
	add, ok := expr.(*ast.BinaryOperation)
	if !ok || add.Operator != token.Add {
		t.Fatalf("root is %s, want +", ast.Format(expr))
	}
	mul, ok := add.Right.(*ast.BinaryOperation)
	if !ok || mul.Operator != token.Mul {
		t.Fatalf("right child is %s, want *", ast.Format(add.Right))
	}
}

func TestRightAssociativeAssignment(t *testing.T) {
	expr, err := ParseExpression("a = b = c")
	if err != nil {
		t.Fatal(err)
	}
	want := &ast.Assignment{
		Operator: token.Assign,
		Left:     &ast.Identifier{Name: "a"},
		Right: &ast.Assignment{
			Operator: token.Assign,
			Left:     &ast.Identifier{Name: "b"},
			Right:    &ast.Identifier{Name: "c"},
		},
	}
	if diff := cmp.Diff(want, expr, ignorePositions); diff != "" {
		t.Fatalf("mismatch (-want +have):\n%s", diff)
	}
}

func TestBinaryOperators(t *testing.T) {
	ops := map[string]token.Kind{
		"+": token.Add, "-": token.Sub, "*": token.Mul, "/": token.Div, "%": token.Mod,
		"**": token.Exp, "&&": token.And, "||": token.Or, "==": token.Equal,
		"!=": token.NotEqual, "<": token.LessThan, "<=": token.LessThanOrEqual,
		">": token.GreaterThan, ">=": token.GreaterThanOrEqual, "&": token.BitAnd,
		"|": token.BitOr, "^": token.BitXor, ">>": token.Sar, "<<": token.Shl,
	}
	if len(ops) != 19 {
		t.Fatalf("have %d operators", len(ops))
	}
	for text, kind := range ops {
		expr, err := ParseExpression("a " + text + " b")
		if err != nil {
			t.Errorf("%q: %v", text, err)
			continue
		}
		bin, ok := expr.(*ast.BinaryOperation)
		if !ok {
			t.Errorf("%q: have %T, want binary operation", text, expr)
			continue
		}
		if bin.Operator != kind {
			t.Errorf("%q: have operator %v, want %v", text, bin.Operator, kind)
		}
	}
}

func TestFunctionDefinition(t *testing.T) {
	program, err := ParseSource("function f(uint256 a) external pure returns (uint256) { return a; }")
	if err != nil {
		t.Fatal(err)
	}
	uint256 := func() *ast.ElementaryTypeName {
		return &ast.ElementaryTypeName{Token: token.Token{Kind: token.UInt, Text: "uint256", Size: 256}}
	}
	want := []ast.SourceUnit{
		&ast.FunctionDefinition{
			Name:       "f",
			Parameters: []*ast.VariableDeclaration{{Type: uint256(), Name: "a"}},
			Returns:    []*ast.VariableDeclaration{{Type: uint256()}},
			Visibility: token.External,
			Mutability: token.Pure,
			Body: &ast.Block{Statements: []ast.Statement{
				&ast.Return{Expression: &ast.Identifier{Name: "a"}},
			}},
		},
	}
	if diff := cmp.Diff(want, program.Units, ignorePositions); diff != "" {
		t.Fatalf("mismatch (-want +have):\n%s", diff)
	}
}

func TestContract(t *testing.T) {
	src := `pragma solidity ^0.8.0;
contract C {
	uint256 public x;
	event Done(address indexed who, uint256 value);
	error Failed(uint256 code);
	struct Pair { uint256 a; bool b; }
	function run() external returns (uint256) { return 10; }
}`
	program, err := ParseSource(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(program.Units) != 2 {
		t.Fatalf("have %d units, want 2", len(program.Units))
	}
	if pragma, ok := program.Units[0].(*ast.PragmaDirective); !ok || pragma.Value != "solidity ^0.8.0" {
		t.Fatalf("unexpected pragma %#v", program.Units[0])
	}
	contract, ok := program.Units[1].(*ast.ContractDefinition)
	if !ok || contract.Name != "C" {
		t.Fatalf("unexpected unit %#v", program.Units[1])
	}
	var kinds []string
	for _, m := range contract.Members {
		switch m.(type) {
		case *ast.VariableDeclaration:
			kinds = append(kinds, "variable")
		case *ast.EventDefinition:
			kinds = append(kinds, "event")
		case *ast.ErrorDefinition:
			kinds = append(kinds, "error")
		case *ast.StructDefinition:
			kinds = append(kinds, "struct")
		case *ast.FunctionDefinition:
			kinds = append(kinds, "function")
		}
	}
	if diff := cmp.Diff([]string{"variable", "event", "error", "struct", "function"}, kinds); diff != "" {
		t.Fatalf("members mismatch (-want +have):\n%s", diff)
	}
	event := contract.Members[1].(*ast.EventDefinition)
	if !event.Parameters[0].Indexed || event.Parameters[1].Indexed {
		t.Errorf("wrong indexed flags on %s", event.Name)
	}
	if v := contract.Members[0].(*ast.VariableDeclaration); v.Visibility != token.Public {
		t.Errorf("state variable visibility %v, want public", v.Visibility)
	}
}

func TestStatements(t *testing.T) {
	tests := []struct {
		src  string
		want interface{}
	}{
		{"{ }", &ast.Block{}},
		{"x = 1;", &ast.ExpressionStatement{}},
		{"uint256 x = 1;", &ast.VariableDeclarationStatement{}},
		{"(uint256 a, , bool b) = f();", &ast.VariableDeclarationStatement{}},
		{"(a, b) = (b, a);", &ast.ExpressionStatement{}},
		{"if (a) b(); else c();", &ast.IfStatement{}},
		{"for (uint256 i = 0; i < 10; i++) { }", &ast.ForStatement{}},
		{"for (;;) break;", &ast.ForStatement{}},
		{"while (a) continue;", &ast.WhileStatement{}},
		{"do { } while (a);", &ast.DoWhileStatement{}},
		{"return;", &ast.Return{}},
		{"emit E(1);", &ast.EmitStatement{}},
		{"revert Failed(1);", &ast.RevertStatement{}},
		{"unchecked { x++; }", &ast.UncheckedBlock{}},
		{"_;", &ast.PlaceholderStatement{}},
	}
	for _, test := range tests {
		stmt, err := ParseStatement(test.src)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", test.src, err)
			continue
		}
		if have, want := typeName(stmt), typeName(test.want); have != want {
			t.Errorf("%q: have %s, want %s", test.src, have, want)
		}
	}
}

func typeName(v interface{}) string {
	return fmt.Sprintf("%T", v)
}

func TestUniqueNodeIDs(t *testing.T) {
	src := `contract C {
	function f(uint256 a, uint256 b) external returns (uint256 r) {
		uint256 c = a + b * 2;
		if (c > 10) { r = c; } else { r = uint8(c); }
		for (uint256 i = 0; i < a; i++) { c += i; }
		return c == 0 ? a : b;
	}
}`
	program, err := ParseSource(src)
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[ast.NodeID]ast.Node)
	ast.InspectProgram(program, func(n ast.Node) bool {
		if n.ID() == 0 {
			t.Errorf("%T at %v has no id", n, n.Span())
		}
		if prev, ok := seen[n.ID()]; ok {
			t.Errorf("id %d shared by %T and %T", n.ID(), prev, n)
		}
		seen[n.ID()] = n
		return true
	})
	if len(seen) < 30 {
		t.Fatalf("visited only %d nodes", len(seen))
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		"contract C {",
		"contract C { function f() external { x = ; } }",
		"contract C { function f() external { emit E; } }",
		"contract C { function f() external { }",
		"contract { }",
	} {
		_, err := ParseSource(src)
		var pe *diag.ParseError
		if !errors.As(err, &pe) {
			t.Errorf("%q: have %v, want a parse error", src, err)
		}
	}
	if _, err := ParseExpression("a +"); err == nil {
		t.Error("incomplete expression accepted")
	}
	if _, err := ParseExpression("a b"); err == nil {
		t.Error("trailing tokens accepted")
	}
}

func TestNotImplemented(t *testing.T) {
	for _, src := range []string{
		"import \"x\";",
		"interface I { }",
		"library L { }",
		"contract C { constructor() { } }",
		"contract C { enum E { A } }",
		"contract C { function f() external { assembly { } } }",
		"contract C { function f() external { x = 1 ether; } }",
		"contract C { function f() external { x = [1, 2]; } }",
	} {
		_, err := ParseSource(src)
		var nie *diag.NotImplementedError
		if !errors.As(err, &nie) {
			t.Errorf("%q: have %v, want not implemented", src, err)
		}
	}
}
