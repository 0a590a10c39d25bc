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

package flags

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sunyihoo/go-solidity/internal/version"
	"github.com/urfave/cli/v2"
)

// NewApp creates an app with sane defaults.
// NewApp 创建一个具有合理默认值的应用。
func NewApp(usage string) *cli.App {
	app := cli.NewApp()
	app.EnableBashCompletion = true
	app.Name = filepath.Base(os.Args[0])
	git, _ := version.VCS()
	app.Version = version.WithCommit(git.Commit, git.Date)
	app.Usage = usage
	app.Copyright = "Copyright 2025 The go-ethereum Authors"
	return app
}

// Merge merges the given flag slices.
func Merge(groups ...[]cli.Flag) []cli.Flag {
	var ret []cli.Flag
	for _, group := range groups {
		ret = append(ret, group...)
	}
	return ret
}

// CheckEnvVars rejects environment variables with the given prefix that do
// not belong to any flag of the app or its commands, which catches
// misspelled settings.
// CheckEnvVars 拒绝带有给定前缀但不属于应用或其命令任何标志的环境变量，用于发现拼写错误的设置。
func CheckEnvVars(app *cli.App, prefix string) error {
	known := make(map[string]bool)
	collect := func(flags []cli.Flag) {
		for _, f := range flags {
			if ef, ok := f.(cli.DocGenerationFlag); ok {
				for _, name := range ef.GetEnvVars() {
					known[name] = true
				}
			}
		}
	}
	collect(app.Flags)
	for _, cmd := range app.Commands {
		collect(cmd.Flags)
	}
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, prefix+"_") && !known[name] {
			return fmt.Errorf("unknown environment variable %s", name)
		}
	}
	return nil
}
