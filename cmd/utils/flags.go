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

// Package utils contains internal helper functions for the compiler commands.
package utils

import (
	"github.com/sunyihoo/go-solidity/codegen"
	"github.com/sunyihoo/go-solidity/internal/flags"
	"github.com/urfave/cli/v2"
)

// These are all the command line flags we support.
// If you add to this list, please remember to include the
// flag in the appropriate command definition.
//
// The flags are defined here so their names and help texts
// are the same for all commands.

var (
	// Code generation settings
	ConfigFileFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "TOML configuration file",
		Category: flags.CompilerCategory,
	}
	JumpAddressWidthFlag = &cli.IntFlag{
		Name:     "jumpwidth",
		Usage:    "Bytes of every jump destination (1-4)",
		Value:    codegen.DefaultConfig.JumpAddressWidth,
		Category: flags.CompilerCategory,
	}
	FreeMemoryStartFlag = &cli.Uint64Flag{
		Name:     "memorystart",
		Usage:    "First memory byte available to local variables",
		Value:    codegen.DefaultConfig.FreeMemoryStart,
		Category: flags.CompilerCategory,
	}

	// Output selection
	ABIFlag = &cli.BoolFlag{
		Name:     "abi",
		Usage:    "Print the contract interface as JSON",
		Category: flags.OutputCategory,
	}
	BinFlag = &cli.BoolFlag{
		Name:     "bin",
		Usage:    "Print the 0x prefixed bytecode",
		Category: flags.OutputCategory,
	}
	AsmFlag = &cli.BoolFlag{
		Name:     "asm",
		Usage:    "Print the disassembled bytecode",
		Category: flags.OutputCategory,
	}
	HashesFlag = &cli.BoolFlag{
		Name:     "hashes",
		Usage:    "Print the selectors of the functions and the ids of the events and errors",
		Category: flags.OutputCategory,
	}
	OutputDirFlag = &flags.DirectoryFlag{
		Name:     "outdir",
		Usage:    "Write <contract>.bin and <contract>.abi into this directory",
		Category: flags.OutputCategory,
		EnvVars:  []string{"SOLC_OUTDIR"},
	}
	NoColorFlag = &cli.BoolFlag{
		Name:     "nocolor",
		Usage:    "Disable colored diagnostics",
		Category: flags.OutputCategory,
	}
)

// CompilerFlags are the flags that change the generated code.
var CompilerFlags = []cli.Flag{
	ConfigFileFlag,
	JumpAddressWidthFlag,
	FreeMemoryStartFlag,
}

// SetCodegenConfig applies codegen related command line flags to the config.
// SetCodegenConfig 将与代码生成相关的命令行标志应用到配置中。
func SetCodegenConfig(ctx *cli.Context, cfg *codegen.Config) {
	if ctx.IsSet(JumpAddressWidthFlag.Name) {
		cfg.JumpAddressWidth = ctx.Int(JumpAddressWidthFlag.Name)
	}
	if ctx.IsSet(FreeMemoryStartFlag.Name) {
		cfg.FreeMemoryStart = ctx.Uint64(FreeMemoryStartFlag.Name)
	}
}
