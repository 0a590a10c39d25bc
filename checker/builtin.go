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

package checker

import (
	"github.com/sunyihoo/go-solidity/lexer"
	"github.com/sunyihoo/go-solidity/token"
	"github.com/sunyihoo/go-solidity/types"
)

// defaults is the global scope every check starts from. It is built once and
// only ever cloned, never modified.
// defaults 是每次检查开始时的全局作用域，只构建一次，之后只会被复制而不会被修改。
var defaults = newDefaults()

// Builtin globals and their members.
var (
	BlockType = &types.Struct{Name: "block", Members: []types.Field{
		{Name: "basefee", Type: types.Uint(256)},
		{Name: "chainid", Type: types.Uint(256)},
		{Name: "coinbase", Type: types.PayableAddress()},
		{Name: "difficulty", Type: types.Uint(256)},
		{Name: "gaslimit", Type: types.Uint(256)},
		{Name: "number", Type: types.Uint(256)},
		{Name: "prevrandao", Type: types.Uint(256)},
		{Name: "timestamp", Type: types.Uint(256)},
	}}
	MsgType = &types.Struct{Name: "msg", Members: []types.Field{
		{Name: "data", Type: types.Bytes()},
		{Name: "sender", Type: types.Address()},
		{Name: "sig", Type: types.FixedBytes(4)},
		{Name: "value", Type: types.Uint(256)},
	}}
	TxType = &types.Struct{Name: "tx", Members: []types.Field{
		{Name: "gasprice", Type: types.Uint(256)},
		{Name: "origin", Type: types.Address()},
	}}
)

func newDefaults() *frame {
	f := newFrame()
	f.values["block"] = &symbol{kind: symBuiltin, typ: BlockType}
	f.values["msg"] = &symbol{kind: symBuiltin, typ: MsgType}
	f.values["tx"] = &symbol{kind: symBuiltin, typ: TxType}

	for _, name := range token.ElementaryTypeNames() {
		tokens, err := lexer.Tokenize(name)
		if err != nil || len(tokens) != 1 {
			panic("checker: bad elementary type name " + name)
		}
		f.functions[name] = []*types.Function{conversion(types.FromToken(tokens[0]))}
	}
	return f
}

// conversion builds the pseudo-function converting a value to target.
func conversion(target types.Type) *types.Function {
	return &types.Function{
		Params:     []types.Type{target},
		Returns:    []types.Type{target},
		Conversion: true,
	}
}

// contractConversion builds the pseudo-function C(address).
func contractConversion(c *types.Contract) *types.Function {
	return &types.Function{
		Params:     []types.Type{types.Address()},
		Returns:    []types.Type{c},
		Conversion: true,
	}
}
