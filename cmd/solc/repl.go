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
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sunyihoo/go-solidity/ast"
	"github.com/sunyihoo/go-solidity/checker"
	"github.com/sunyihoo/go-solidity/parser"
	"github.com/urfave/cli/v2"
)

var replCommand = &cli.Command{
	Action: repl,
	Name:   "repl",
	Usage:  "Start an interactive type checker",
	Description: `
Every line is checked as a statement of a function body. Declarations stay
in scope for the following lines, expressions print their type. A missing
trailing semicolon is added.`,
}

// session holds the statements accepted so far.
// session 保存目前已接受的语句。
type session struct {
	stmts []string
}

// eval checks line after the accepted statements and returns the type of
// the line if it is an expression. The line is only kept when it checks.
// The returned source is the text the diagnostics refer to.
// eval 在已接受的语句之后检查 line，如果它是表达式则返回其类型。只有检查通过的行才会被保留。
func (s *session) eval(line string) (string, *source, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil, nil
	}
	if !strings.HasSuffix(line, ";") && !strings.HasSuffix(line, "}") {
		line += ";"
	}
	body := strings.Join(append(s.stmts, line), "\n")
	src := &source{name: "<repl>", text: "{\n" + body + "\n}"}
	offset := len(src.text) - len(line) - 2

	stmt, err := parser.ParseStatement(src.text)
	if err != nil {
		return "", src, err
	}
	ann, err := checker.CheckStatement(src.text, stmt)
	if err != nil {
		return "", src, err
	}
	s.stmts = append(s.stmts, line)

	for _, w := range ann.Warnings {
		if w.Span.Start >= offset {
			src.report(os.Stderr, w)
		}
	}
	block, ok := stmt.(*ast.Block)
	if !ok || len(block.Statements) == 0 {
		return "", src, nil
	}
	if es, ok := block.Statements[len(block.Statements)-1].(*ast.ExpressionStatement); ok {
		if t, ok := ann.TypeOf(es.Expression); ok {
			return fmt.Sprint(t), src, nil
		}
	}
	return "", src, nil
}

func repl(ctx *cli.Context) error {
	rl, err := readline.New(">>> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	var s session
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			fmt.Println(err)
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}
		typ, src, err := s.eval(line)
		if err != nil {
			src.report(os.Stderr, err)
			continue
		}
		if typ != "" {
			fmt.Println(typ)
		}
	}
}
