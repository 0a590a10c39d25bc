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

package token

import (
	"fmt"
	"unicode/utf8"
)

// Span is a half-open byte range [Start, End) into the source text.
// Span 是源文本中的半开字节区间 [Start, End)。
type Span struct {
	Start int
	End   int
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Join returns the smallest span covering both a and b.
func Join(a, b Span) Span {
	return Span{Start: min(a.Start, b.Start), End: max(a.End, b.End)}
}

// Position is a 1-based line and column, columns count runes.
// Position 是从 1 开始的行号和列号，列按符文计数。
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Locate converts a byte offset of source into a line/column position.
// Offsets past the end of the source are clamped.
func Locate(source string, offset int) Position {
	if offset > len(source) {
		offset = len(source)
	}
	pos := Position{Line: 1, Column: 1}
	for _, r := range source[:offset] {
		if r == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	return pos
}

// Line returns the full text of the 1-based line number n, without the
// trailing newline.
func Line(source string, n int) string {
	line := 1
	start := 0
	for i := 0; i < len(source); {
		r, w := utf8.DecodeRuneInString(source[i:])
		if r == '\n' {
			if line == n {
				return source[start:i]
			}
			line++
			start = i + w
		}
		i += w
	}
	if line == n {
		return source[start:]
	}
	return ""
}
