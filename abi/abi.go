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

// Package abi derives the contract interface description from a parsed
// program. The walk is purely structural and does not need type annotations.
//
// Package abi 从已解析的程序中推导合约的接口描述。该遍历是纯结构性的，不依赖类型注解。
package abi

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/crypto/sha3"

	"github.com/sunyihoo/go-solidity/ast"
	"github.com/sunyihoo/go-solidity/diag"
	"github.com/sunyihoo/go-solidity/token"
	"github.com/sunyihoo/go-solidity/types"
)

// ErrNoContract is returned when a program declares no contract.
var ErrNoContract = errors.New("no contract found")

// EntryType is the kind of an ABI entry.
type EntryType string

const (
	Function EntryType = "function"
	Event    EntryType = "event"
	Error    EntryType = "error"
)

// Argument is one input or output of an entry. Indexed is only meaningful
// for event inputs.
// Argument 是条目的一个输入或输出，Indexed 仅对事件输入有意义。
type Argument struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Indexed bool   `json:"indexed,omitempty"`
}

// Entry is a function, event or error of the contract interface.
// Entry 是合约接口中的函数、事件或错误。
type Entry struct {
	Type            EntryType  `json:"type"`
	Name            string     `json:"name"`
	Inputs          []Argument `json:"inputs"`
	Outputs         []Argument `json:"outputs,omitempty"`
	StateMutability string     `json:"stateMutability,omitempty"`
	Anonymous       bool       `json:"anonymous,omitempty"`
}

// Signature returns the canonical signature, e.g. "transfer(address,uint256)".
func (e *Entry) Signature() string {
	names := make([]string, len(e.Inputs))
	for i, in := range e.Inputs {
		names[i] = in.Type
	}
	return e.Name + "(" + strings.Join(names, ",") + ")"
}

// ID returns the keccak256 hash of the canonical signature. For events it is
// the first log topic.
// ID 返回规范签名的 keccak256 哈希，对于事件它是第一个日志主题。
func (e *Entry) ID() common.Hash {
	d := sha3.NewLegacyKeccak256()
	d.Write([]byte(e.Signature()))
	return common.BytesToHash(d.Sum(nil))
}

// Selector returns the first four bytes of ID, which select a function in
// call data.
func (e *Entry) Selector() [4]byte {
	var sel [4]byte
	copy(sel[:], e.ID().Bytes())
	return sel
}

// Interface is the interface description of one contract.
type Interface struct {
	Name    string
	Entries []Entry
}

// JSON renders the entries in the standard JSON ABI layout.
// JSON 以标准 JSON ABI 布局输出条目。
func (i *Interface) JSON() ([]byte, error) {
	entries := i.Entries
	if entries == nil {
		entries = []Entry{}
	}
	return json.MarshalIndent(entries, "", "  ")
}

// Parse decodes the JSON rendering with go-ethereum's ABI parser, which
// validates every type name.
func (i *Interface) Parse() (gethabi.ABI, error) {
	blob, err := i.JSON()
	if err != nil {
		return gethabi.ABI{}, err
	}
	return gethabi.JSON(bytes.NewReader(blob))
}

// CompileABI walks the program up to the first contract. Functions, events
// and errors declared before it are included, everything after it is
// ignored.
// CompileABI 遍历程序直到第一个合约。合约之前声明的函数、事件和错误也会包含在内，之后的一切都被忽略。
func CompileABI(program *ast.Program) (*Interface, error) {
	var loose []Entry
	for _, unit := range program.Units {
		switch def := unit.(type) {
		case *ast.ContractDefinition:
			entries, err := contractEntries(def)
			if err != nil {
				return nil, err
			}
			iface := &Interface{Name: def.Name, Entries: append(loose, entries...)}
			log.Trace("Compiled interface", "contract", def.Name, "entries", len(iface.Entries))
			return iface, nil
		case ast.Definition:
			entry, err := EntryOf(def)
			if err != nil {
				return nil, err
			}
			loose = append(loose, entry)
		}
	}
	return nil, ErrNoContract
}

func contractEntries(def *ast.ContractDefinition) ([]Entry, error) {
	var entries []Entry
	for _, member := range def.Members {
		entry, err := EntryOf(member)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// EntryOf translates one function, state variable, event or error
// definition into its interface entry.
// EntryOf 将单个函数、状态变量、事件或错误定义转换为接口条目。
func EntryOf(def ast.Definition) (Entry, error) {
	switch d := def.(type) {
	case *ast.FunctionDefinition:
		inputs, err := arguments(d.Parameters)
		if err != nil {
			return Entry{}, err
		}
		outputs, err := arguments(d.Returns)
		if err != nil {
			return Entry{}, err
		}
		return Entry{
			Type:            Function,
			Name:            d.Name,
			Inputs:          inputs,
			Outputs:         outputs,
			StateMutability: mutability(d.Mutability),
		}, nil

	case *ast.VariableDeclaration:
		typ, err := typeName(d.Type)
		if err != nil {
			return Entry{}, err
		}
		return Entry{
			Type:            Function,
			Name:            d.Name,
			Inputs:          []Argument{},
			Outputs:         []Argument{{Type: typ}},
			StateMutability: "view",
		}, nil

	case *ast.EventDefinition:
		inputs, err := arguments(d.Parameters)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Type: Event, Name: d.Name, Inputs: inputs, Anonymous: d.Anonymous}, nil

	case *ast.ErrorDefinition:
		inputs, err := arguments(d.Parameters)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Type: Error, Name: d.Name, Inputs: inputs}, nil

	case *ast.StructDefinition:
		return Entry{}, diag.NotImplemented("struct in interface", d.Span())
	case *ast.ModifierDefinition:
		return Entry{}, diag.NotImplemented("modifier in interface", d.Span())
	case *ast.ContractDefinition:
		return Entry{}, diag.NotImplemented("nested contract", d.Span())
	}
	return Entry{}, diag.Invariant("unexpected definition %T", def)
}

func arguments(params []*ast.VariableDeclaration) ([]Argument, error) {
	args := make([]Argument, len(params))
	for i, p := range params {
		typ, err := typeName(p.Type)
		if err != nil {
			return nil, err
		}
		args[i] = Argument{Name: p.Name, Type: typ, Indexed: p.Indexed}
	}
	return args, nil
}

// typeName returns the canonical ABI spelling of a type. User defined
// types are contracts here and travel as addresses.
// typeName 返回类型的规范 ABI 拼写。用户定义类型在这里是合约，以地址形式传递。
func typeName(n ast.TypeName) (string, error) {
	switch n := n.(type) {
	case *ast.ElementaryTypeName:
		return types.FromTypeName(n).Canonical(), nil
	case *ast.UserDefinedTypeName:
		return "address", nil
	case *ast.ArrayTypeName:
		return "", diag.NotImplemented("array type in interface", n.Span())
	case *ast.Mapping:
		return "", diag.NotImplemented("mapping type in interface", n.Span())
	}
	return "", diag.Invariant("unexpected type name %T", n)
}

func mutability(k token.Kind) string {
	switch k {
	case token.Pure, token.View, token.Payable:
		return k.String()
	}
	return "nonpayable"
}
