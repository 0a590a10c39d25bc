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

package abi

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sunyihoo/go-solidity/diag"
	"github.com/sunyihoo/go-solidity/parser"
)

func compile(t *testing.T, src string) *Interface {
	t.Helper()
	prog, err := parser.ParseSource(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	iface, err := CompileABI(prog)
	if err != nil {
		t.Fatalf("compile %q: %v", src, err)
	}
	return iface
}

func TestEmptyContract(t *testing.T) {
	iface := compile(t, "contract C { }")
	if iface.Name != "C" || len(iface.Entries) != 0 {
		t.Fatalf("unexpected interface: %+v", iface)
	}
	blob, err := iface.JSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(blob) != "[]" {
		t.Errorf("JSON mismatch: have %s, want []", blob)
	}
}

func TestStateVariableGetter(t *testing.T) {
	iface := compile(t, "contract C { uint256 x; }")
	want := []Entry{{
		Type:            Function,
		Name:            "x",
		Inputs:          []Argument{},
		Outputs:         []Argument{{Type: "uint256"}},
		StateMutability: "view",
	}}
	if diff := cmp.Diff(want, iface.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +have):\n%s", diff)
	}
}

func TestEntries(t *testing.T) {
	src := `
event Loose(address indexed who);
contract Token {
	event Transfer(address indexed from, address indexed to, uint value);
	event Ping() anonymous;
	error Insufficient(uint256 needed);
	function transfer(address to, uint amount) external returns (bool) {}
	function balance(Token t) public view returns (uint256) {}
	function id(bytes32 x) public pure returns (bytes32) {}
	function deposit() external payable {}
}
contract Ignored { function f() public {} }`
	iface := compile(t, src)
	want := []Entry{
		{Type: Event, Name: "Loose", Inputs: []Argument{{Name: "who", Type: "address", Indexed: true}}},
		{Type: Event, Name: "Transfer", Inputs: []Argument{
			{Name: "from", Type: "address", Indexed: true},
			{Name: "to", Type: "address", Indexed: true},
			{Name: "value", Type: "uint256"},
		}},
		{Type: Event, Name: "Ping", Inputs: []Argument{}, Anonymous: true},
		{Type: Error, Name: "Insufficient", Inputs: []Argument{{Name: "needed", Type: "uint256"}}},
		{Type: Function, Name: "transfer",
			Inputs:          []Argument{{Name: "to", Type: "address"}, {Name: "amount", Type: "uint256"}},
			Outputs:         []Argument{{Type: "bool"}},
			StateMutability: "nonpayable"},
		{Type: Function, Name: "balance",
			Inputs:          []Argument{{Name: "t", Type: "address"}},
			Outputs:         []Argument{{Type: "uint256"}},
			StateMutability: "view"},
		{Type: Function, Name: "id",
			Inputs:          []Argument{{Name: "x", Type: "bytes32"}},
			Outputs:         []Argument{{Type: "bytes32"}},
			StateMutability: "pure"},
		{Type: Function, Name: "deposit", Inputs: []Argument{}, Outputs: []Argument{}, StateMutability: "payable"},
	}
	if iface.Name != "Token" {
		t.Errorf("name mismatch: have %s, want Token", iface.Name)
	}
	if diff := cmp.Diff(want, iface.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +have):\n%s", diff)
	}
}

func TestSelectors(t *testing.T) {
	tests := []struct {
		entry Entry
		sig   string
		sel   string
	}{
		{
			Entry{Name: "transfer", Inputs: []Argument{{Type: "address"}, {Type: "uint256"}}},
			"transfer(address,uint256)", "a9059cbb",
		},
		{
			Entry{Name: "balanceOf", Inputs: []Argument{{Type: "address"}}},
			"balanceOf(address)", "70a08231",
		},
		{
			Entry{Name: "totalSupply"},
			"totalSupply()", "18160ddd",
		},
	}
	for _, tt := range tests {
		if sig := tt.entry.Signature(); sig != tt.sig {
			t.Errorf("signature mismatch: have %s, want %s", sig, tt.sig)
		}
		sel := tt.entry.Selector()
		if have := hex.EncodeToString(sel[:]); have != tt.sel {
			t.Errorf("%s: selector mismatch: have %s, want %s", tt.sig, have, tt.sel)
		}
	}
}

func TestParse(t *testing.T) {
	iface := compile(t, `contract C {
	event E(uint8 indexed a);
	function run() external returns (uint256) {}
	function run(uint256 x) external returns (uint256) {}
}`)
	parsed, err := iface.Parse()
	if err != nil {
		t.Fatalf("go-ethereum rejected the interface: %v", err)
	}
	if len(parsed.Methods) != 2 {
		t.Fatalf("method count mismatch: have %d, want 2", len(parsed.Methods))
	}
	for _, entry := range iface.Entries {
		if entry.Type != Function {
			continue
		}
		var found bool
		sel := entry.Selector()
		for _, m := range parsed.Methods {
			if m.Sig == entry.Signature() {
				found = true
				if string(m.ID) != string(sel[:]) {
					t.Errorf("%s: selector mismatch: have %x, want %x", m.Sig, sel, m.ID)
				}
			}
		}
		if !found {
			t.Errorf("%s: missing from parsed interface", entry.Signature())
		}
	}
	if ev, ok := parsed.Events["E"]; !ok || ev.ID != iface.Entries[0].ID() {
		t.Errorf("event id mismatch")
	}
}

func TestNoContract(t *testing.T) {
	prog, err := parser.ParseSource("function f() {}")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := CompileABI(prog); !errors.Is(err, ErrNoContract) {
		t.Errorf("error mismatch: have %v, want %v", err, ErrNoContract)
	}
}

func TestNotImplemented(t *testing.T) {
	tests := []string{
		"contract C { struct S { uint256 a; } }",
		"contract C { contract D { } }",
		"contract C { modifier m() { _; } }",
	}
	for _, src := range tests {
		prog, err := parser.ParseSource(src)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		_, err = CompileABI(prog)
		var nerr *diag.NotImplementedError
		if !errors.As(err, &nerr) {
			t.Errorf("%q: expected NotImplementedError, got %v", src, err)
		}
	}
}
