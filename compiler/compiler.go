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

// Package compiler chains the compilation stages: tokenize, parse, check,
// derive the interface and generate code.
//
// Package compiler 串联各编译阶段：词法分析、语法分析、类型检查、推导接口和生成代码。
package compiler

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"

	"github.com/sunyihoo/go-solidity/abi"
	"github.com/sunyihoo/go-solidity/ast"
	"github.com/sunyihoo/go-solidity/checker"
	"github.com/sunyihoo/go-solidity/codegen"
	"github.com/sunyihoo/go-solidity/lexer"
	"github.com/sunyihoo/go-solidity/parser"
)

// ErrNoContract is returned when the source declares no contract.
var ErrNoContract = abi.ErrNoContract

// Config is the compiler configuration.
type Config struct {
	Codegen codegen.Config
}

// DefaultConfig contains the default settings.
var DefaultConfig = Config{
	Codegen: codegen.DefaultConfig,
}

// Contract is the result of a compilation.
// Contract 是编译的结果。
type Contract struct {
	*codegen.Contract

	// Warnings holds the non-fatal diagnostics of the type checker.
	Warnings []error
}

// Hex returns the 0x prefixed bytecode.
func (c *Contract) Hex() string {
	return hexutil.Encode(c.Code)
}

// Interface returns the interface description of the contract.
func (c *Contract) Interface() *abi.Interface {
	return &abi.Interface{Name: c.Name, Entries: c.ABI}
}

// Result holds the intermediate products of all stages, for tools that
// show them.
type Result struct {
	Program     *ast.Program
	Annotations *checker.Annotations
	Contract    *Contract
}

// CompileSource compiles the first contract of the source.
// CompileSource 编译源代码中的第一个合约。
func CompileSource(source string, cfg Config) (*Contract, error) {
	res, err := Run(source, cfg)
	if err != nil {
		return nil, err
	}
	return res.Contract, nil
}

// Run runs every stage and keeps the intermediate results. The first error
// of any stage aborts the compilation.
// Run 运行每个阶段并保留中间结果，任何阶段的第一个错误都会中止编译。
func Run(source string, cfg Config) (*Result, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	program, err := parser.Parse(tokens)
	if err != nil {
		return nil, err
	}
	if !hasContract(program) {
		return nil, ErrNoContract
	}
	ann, err := checker.Check(source, program)
	if err != nil {
		return nil, err
	}
	contract, err := codegen.Compile(program, ann, cfg.Codegen)
	if err != nil {
		return nil, err
	}
	warnings := make([]error, len(ann.Warnings))
	for i, w := range ann.Warnings {
		warnings[i] = w
	}
	log.Debug("Compiled contract", "name", contract.Name, "entries", len(contract.ABI), "size", len(contract.Code))
	return &Result{
		Program:     program,
		Annotations: ann,
		Contract:    &Contract{Contract: contract, Warnings: warnings},
	}, nil
}

func hasContract(program *ast.Program) bool {
	for _, unit := range program.Units {
		if _, ok := unit.(*ast.ContractDefinition); ok {
			return true
		}
	}
	return false
}
