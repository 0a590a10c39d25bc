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

package token

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		ident string
		kind  Kind
		size  int
	}{
		{"contract", Contract, 0},
		{"true", TrueLiteral, 0},
		{"uint", UInt, 256},
		{"int", Int, 256},
		{"uint8", UInt, 8},
		{"int128", Int, 128},
		{"bytes", Bytes, 0},
		{"bytes1", FixedBytes, 1},
		{"bytes32", FixedBytes, 32},
		{"uint7", Identifier, 0},
		{"uint264", Identifier, 0},
		{"uint08", Identifier, 0},
		{"bytes33", Identifier, 0},
		{"bytes0", Identifier, 0},
		{"counter", Identifier, 0},
	}
	for _, test := range tests {
		kind, size := Lookup(test.ident)
		if kind != test.kind || size != test.size {
			t.Errorf("Lookup(%q) = %v/%d, want %v/%d", test.ident, kind, size, test.kind, test.size)
		}
	}
}

func TestTypeName(t *testing.T) {
	tok := Token{Kind: UInt, Text: "uint", Size: 256}
	if have := tok.TypeName(); have != "uint256" {
		t.Fatalf("have %q, want uint256", have)
	}
	if have := tok.String(); have != "uint256" {
		t.Fatalf("have %q, want uint256", have)
	}
}

func TestElementaryTypeNames(t *testing.T) {
	names := ElementaryTypeNames()
	if len(names) != 4+64+32 {
		t.Fatalf("have %d names", len(names))
	}
	for _, name := range names {
		if kind, _ := Lookup(name); !kind.IsElementaryType() {
			t.Errorf("%q is not classified as an elementary type", name)
		}
	}
}

func TestBinaryOf(t *testing.T) {
	if op, ok := AssignAdd.BinaryOf(); !ok || op != Add {
		t.Fatalf("+= maps to %v %v", op, ok)
	}
	if _, ok := Assign.BinaryOf(); ok {
		t.Fatal("plain assignment has no binary operator")
	}
}

func TestLocate(t *testing.T) {
	src := "ab\ncd\n\u00e9f"
	tests := []struct {
		offset int
		want   Position
	}{
		{0, Position{1, 1}},
		{1, Position{1, 2}},
		{3, Position{2, 1}},
		{4, Position{2, 2}},
		{6, Position{3, 1}},
		{8, Position{3, 2}}, // after the two byte rune
		{100, Position{3, 3}},
	}
	for _, test := range tests {
		if have := Locate(src, test.offset); have != test.want {
			t.Errorf("Locate(%d) = %v, want %v", test.offset, have, test.want)
		}
	}
	if have := Line(src, 2); have != "cd" {
		t.Errorf("Line(2) = %q", have)
	}
	if have := Line(src, 3); have != "\u00e9f" {
		t.Errorf("Line(3) = %q", have)
	}
}

func TestJoin(t *testing.T) {
	if have := Join(Span{4, 6}, Span{1, 2}); have != (Span{1, 6}) {
		t.Fatalf("have %v", have)
	}
}
