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
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/sunyihoo/go-solidity/cmd/utils"
	"github.com/sunyihoo/go-solidity/diag"
	"github.com/sunyihoo/go-solidity/token"
	"github.com/urfave/cli/v2"
)

// errReported is returned by the commands once a diagnostic has been
// printed, so main does not print it again.
var errReported = errors.New("compilation failed")

var (
	errorLabel   = color.New(color.FgRed, color.Bold)
	warningLabel = color.New(color.FgYellow, color.Bold)
	gutterStyle  = color.New(color.FgBlue, color.Bold)
)

func setColor(ctx *cli.Context) {
	if ctx.Bool(utils.NoColorFlag.Name) {
		color.NoColor = true
	}
}

// source is a named input of the compiler.
type source struct {
	name string
	text string
}

// report prints the diagnostic with a frame showing the offending source
// line. Errors without a location are printed on a single line.
//
//	error: TypeError 7576 at 3:5: Undeclared identifier.
//	 --> token.sol:3:5
//	  |
//	3 |     x = 1;
//	  |     ^
func (src *source) report(w io.Writer, err error) {
	label := errorLabel.Sprint("error")
	var te *diag.TypeError
	if errors.As(err, &te) && te.Warning {
		label = warningLabel.Sprint("warning")
	}
	fmt.Fprintf(w, "%s: %v\n", label, err)

	span, ok := diag.SpanOf(err)
	if !ok {
		return
	}
	pos := token.Locate(src.text, span.Start)
	line := token.Line(src.text, pos.Line)
	num := strconv.Itoa(pos.Line)
	pad := strings.Repeat(" ", len(num))

	fmt.Fprintf(w, "%s %s:%v\n", gutterStyle.Sprint(pad+"-->"), src.name, pos)
	fmt.Fprintf(w, "%s\n", gutterStyle.Sprint(pad+" |"))
	fmt.Fprintf(w, "%s %s\n", gutterStyle.Sprint(num+" |"), line)
	fmt.Fprintf(w, "%s %s%s\n", gutterStyle.Sprint(pad+" |"), indent(line, pos.Column), errorLabel.Sprint(strings.Repeat("^", underline(src.text, line, span, pos))))
}

// indent returns the blank prefix that aligns a marker with the given
// column, keeping the tabs of the line.
func indent(line string, column int) string {
	var (
		b strings.Builder
		n int
	)
	for _, r := range line {
		if n >= column-1 {
			break
		}
		if r == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteByte(' ')
		}
		n++
	}
	return b.String()
}

// underline is the marker width, clamped to the first line of the span.
func underline(text, line string, span token.Span, pos token.Position) int {
	end := token.Locate(text, span.End)
	width := utf8.RuneCountInString(line) - pos.Column + 1
	if end.Line == pos.Line {
		width = end.Column - pos.Column
	}
	return max(width, 1)
}
