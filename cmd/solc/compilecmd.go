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

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/olekukonko/tablewriter"
	"github.com/sunyihoo/go-solidity/abi"
	"github.com/sunyihoo/go-solidity/asm"
	"github.com/sunyihoo/go-solidity/ast"
	"github.com/sunyihoo/go-solidity/checker"
	"github.com/sunyihoo/go-solidity/cmd/utils"
	"github.com/sunyihoo/go-solidity/compiler"
	"github.com/sunyihoo/go-solidity/internal/flags"
	"github.com/sunyihoo/go-solidity/lexer"
	"github.com/sunyihoo/go-solidity/parser"
	"github.com/sunyihoo/go-solidity/token"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

var (
	compileCommand = &cli.Command{
		Action:    compile,
		Name:      "compile",
		Usage:     "Compile the first contract of every source file",
		ArgsUsage: "<file.sol> [<file.sol> ...]",
		Flags: flags.Merge(utils.CompilerFlags, []cli.Flag{
			utils.ABIFlag,
			utils.BinFlag,
			utils.AsmFlag,
			utils.HashesFlag,
			utils.OutputDirFlag,
		}),
		Description: `
The compile command prints the bytecode and the interface of the first
contract declared in each file. Files are compiled in parallel, the output
follows the order of the arguments. Use - or no argument to read from stdin.`,
	}
	tokensCommand = &cli.Command{
		Action:    dumpTokens,
		Name:      "tokens",
		Usage:     "Print the tokens of a source file",
		ArgsUsage: "<file.sol>",
	}
	sexprFlag = &cli.BoolFlag{
		Name:  "sexpr",
		Usage: "Print the tree as a compact s-expression",
	}
	astCommand = &cli.Command{
		Action:    dumpAST,
		Name:      "ast",
		Usage:     "Print the syntax tree of a source file",
		ArgsUsage: "<file.sol>",
		Flags:     []cli.Flag{sexprFlag},
	}
	checkCommand = &cli.Command{
		Action:    check,
		Name:      "check",
		Usage:     "Type check a source file without generating code",
		ArgsUsage: "<file.sol>",
	}
)

// readSource reads the file named by the first argument, or stdin.
func readSource(ctx *cli.Context) (*source, error) {
	if ctx.NArg() > 1 {
		return nil, fmt.Errorf("expected one source file, got %d", ctx.NArg())
	}
	return readFile(ctx.Args().First())
}

// readSources reads every file named on the command line, or stdin when
// there are none.
func readSources(ctx *cli.Context) ([]*source, error) {
	if ctx.NArg() == 0 {
		src, err := readFile("-")
		if err != nil {
			return nil, err
		}
		return []*source{src}, nil
	}
	srcs := make([]*source, ctx.NArg())
	for i, name := range ctx.Args().Slice() {
		src, err := readFile(name)
		if err != nil {
			return nil, err
		}
		srcs[i] = src
	}
	return srcs, nil
}

func readFile(name string) (*source, error) {
	var (
		data []byte
		err  error
	)
	if name == "" || name == "-" {
		name = "<stdin>"
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, err
	}
	return &source{name: name, text: string(data)}, nil
}

// compileAll compiles the sources concurrently. Compilations share no
// state, so the result of each source only depends on its text.
func compileAll(srcs []*source, cfg compiler.Config) ([]*compiler.Contract, []error) {
	var (
		contracts = make([]*compiler.Contract, len(srcs))
		errs      = make([]error, len(srcs))
		g         errgroup.Group
	)
	g.SetLimit(runtime.NumCPU())
	for i, src := range srcs {
		g.Go(func() error {
			contracts[i], errs[i] = compiler.CompileSource(src.text, cfg)
			return nil
		})
	}
	g.Wait()
	return contracts, errs
}

func compile(ctx *cli.Context) error {
	srcs, err := readSources(ctx)
	if err != nil {
		return err
	}
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	contracts, errs := compileAll(srcs, cfg.Compiler)

	var failed bool
	for i, src := range srcs {
		if errs[i] != nil {
			src.report(os.Stderr, errs[i])
			failed = true
			continue
		}
		for _, w := range contracts[i].Warnings {
			src.report(os.Stderr, w)
		}
		if err := writeContract(ctx, src, contracts[i], len(srcs) > 1); err != nil {
			return err
		}
	}
	if failed {
		return errReported
	}
	return nil
}

// writeContract prints the selected outputs of a contract, or writes them
// into the output directory.
func writeContract(ctx *cli.Context, src *source, contract *compiler.Contract, header bool) error {
	iface := contract.Interface()
	if _, err := iface.Parse(); err != nil {
		return fmt.Errorf("invalid interface of %s: %v", contract.Name, err)
	}
	abiJSON, err := iface.JSON()
	if err != nil {
		return err
	}

	if dir := ctx.String(utils.OutputDirFlag.Name); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		bin := filepath.Join(dir, contract.Name+".bin")
		if err := os.WriteFile(bin, []byte(contract.Hex()), 0644); err != nil {
			return err
		}
		abiFile := filepath.Join(dir, contract.Name+".abi")
		if err := os.WriteFile(abiFile, abiJSON, 0644); err != nil {
			return err
		}
		log.Info("Wrote contract", "source", src.name, "name", contract.Name, "bin", bin, "abi", abiFile)
		return nil
	}

	var (
		showABI    = ctx.Bool(utils.ABIFlag.Name)
		showBin    = ctx.Bool(utils.BinFlag.Name)
		showAsm    = ctx.Bool(utils.AsmFlag.Name)
		showHashes = ctx.Bool(utils.HashesFlag.Name)
	)
	if !showABI && !showBin && !showAsm && !showHashes {
		showABI, showBin = true, true
	}
	if header {
		fmt.Printf("======= %s:%s =======\n", src.name, contract.Name)
	}
	if showBin {
		fmt.Println(contract.Hex())
	}
	if showABI {
		fmt.Println(string(abiJSON))
	}
	if showHashes {
		printHashes(os.Stdout, iface)
	}
	if showAsm {
		return asm.Fprint(os.Stdout, contract.Code)
	}
	return nil
}

// printHashes renders the selector of every function and the topic of
// every event as a table.
func printHashes(w io.Writer, iface *abi.Interface) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Kind", "Signature", "Hash"})
	table.SetAutoWrapText(false)
	for _, entry := range iface.Entries {
		var hash string
		if entry.Type == abi.Event {
			hash = entry.ID().Hex()
		} else {
			sel := entry.Selector()
			hash = hexutil.Encode(sel[:])
		}
		table.Append([]string{string(entry.Type), entry.Signature(), hash})
	}
	table.Render()
}

func dumpTokens(ctx *cli.Context) error {
	src, err := readSource(ctx)
	if err != nil {
		return err
	}
	tokens, err := lexer.Tokenize(src.text)
	if err != nil {
		src.report(os.Stderr, err)
		return errReported
	}
	for _, tok := range tokens {
		fmt.Printf("%-8v %v\n", token.Locate(src.text, tok.Span.Start), tok)
	}
	return nil
}

func dumpAST(ctx *cli.Context) error {
	src, err := readSource(ctx)
	if err != nil {
		return err
	}
	program, err := parser.ParseSource(src.text)
	if err != nil {
		src.report(os.Stderr, err)
		return errReported
	}
	if ctx.Bool(sexprFlag.Name) {
		fmt.Println(ast.Format(program))
		return nil
	}
	dumper := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
	dumper.Fdump(os.Stdout, program)
	return nil
}

func check(ctx *cli.Context) error {
	src, err := readSource(ctx)
	if err != nil {
		return err
	}
	program, err := parser.ParseSource(src.text)
	if err != nil {
		src.report(os.Stderr, err)
		return errReported
	}
	ann, err := checker.Check(src.text, program)
	if err != nil {
		src.report(os.Stderr, err)
		return errReported
	}
	for _, w := range ann.Warnings {
		src.report(os.Stderr, w)
	}
	contracts, functions := countDefinitions(program)
	fmt.Printf("%s: %d contracts, %d functions, %d typed expressions, %d warnings\n", src.name, contracts, functions, ann.Len(), len(ann.Warnings))
	return nil
}

// countDefinitions counts the contracts and functions anywhere in the
// program.
func countDefinitions(program *ast.Program) (contracts, functions int) {
	ast.InspectProgram(program, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.ContractDefinition:
			contracts++
		case *ast.FunctionDefinition:
			functions++
		case ast.Statement, ast.Expression:
			return false
		}
		return true
	})
	return contracts, functions
}
