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

// solc is a command-line compiler for a subset of Solidity.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sunyihoo/go-solidity/cmd/utils"
	"github.com/sunyihoo/go-solidity/internal/debug"
	"github.com/sunyihoo/go-solidity/internal/flags"
	"github.com/urfave/cli/v2"
)

var app = flags.NewApp("the solidity subset compiler command line interface")

func init() {
	app.Commands = []*cli.Command{
		compileCommand,
		tokensCommand,
		astCommand,
		checkCommand,
		replCommand,
		dumpConfigCommand,
	}
	app.Flags = flags.Merge(debug.Flags, []cli.Flag{utils.NoColorFlag})
	app.Before = func(ctx *cli.Context) error {
		if err := flags.CheckEnvVars(app, "SOLC"); err != nil {
			return err
		}
		setColor(ctx)
		return debug.Setup(ctx)
	}
	app.After = func(ctx *cli.Context) error {
		debug.Exit()
		return nil
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
