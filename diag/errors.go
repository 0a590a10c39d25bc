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

// Package diag defines the error taxonomy shared by every compiler stage.
//
// Compilation is fail-fast: each stage returns the first problem it finds as
// one of the error types below. Callers inspect them with errors.As.
//
// Package diag 定义了所有编译阶段共享的错误分类。
// 编译采用快速失败策略：每个阶段返回遇到的第一个问题。
package diag

import (
	"errors"
	"fmt"

	"github.com/sunyihoo/go-solidity/token"
)

// LexErrorKind distinguishes the lexical failures.
type LexErrorKind int

const (
	UnrecognizedSymbol LexErrorKind = iota
	ReservedKeyword
	UnterminatedComment
)

func (k LexErrorKind) String() string {
	switch k {
	case UnrecognizedSymbol:
		return "unrecognized symbol"
	case ReservedKeyword:
		return "reserved keyword"
	case UnterminatedComment:
		return "unterminated comment"
	}
	return fmt.Sprintf("lex error(%d)", int(k))
}

// LexError is returned by the lexer for input it cannot tokenize.
// LexError 由词法分析器在无法标记化输入时返回。
type LexError struct {
	Kind LexErrorKind
	Text string
	Span token.Span
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%v %q at %v", e.Kind, e.Text, e.Span)
}

// ParseError reports an unexpected token, a premature end of input, or an
// expression of the wrong shape.
// ParseError 报告意外的标记、过早的输入结束或形状错误的表达式。
type ParseError struct {
	Got  string // description of what was found, "end of input" at EOF
	Want string // description of what was expected, may be empty
	Span token.Span
}

func (e *ParseError) Error() string {
	if e.Want == "" {
		return fmt.Sprintf("syntax error at %v: unexpected %s", e.Span, e.Got)
	}
	return fmt.Sprintf("syntax error at %v: unexpected %s, expected %s", e.Span, e.Got, e.Want)
}

// TypeError is a semantic diagnostic carrying a numeric code compatible with
// the reference Solidity compiler. Warnings are reported through the same
// type with Warning set, they never abort compilation.
// TypeError 是带有数字代码的语义诊断信息。
type TypeError struct {
	Code    Code
	Message string
	Span    token.Span
	Pos     token.Position
	Warning bool
}

func (e *TypeError) Error() string {
	kind := "TypeError"
	if e.Warning {
		kind = "Warning"
	}
	if e.Pos.Line > 0 {
		return fmt.Sprintf("%s %d at %v: %s", kind, e.Code, e.Pos, e.Message)
	}
	return fmt.Sprintf("%s %d: %s", kind, e.Code, e.Message)
}

// NotImplementedError signals a language feature that the compiler does not
// cover yet. It is a scope gap, not a mistake in the input program.
// NotImplementedError 表示编译器尚未覆盖的语言特性。
type NotImplementedError struct {
	Feature string
	Span    token.Span
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("not implemented: %s at %v", e.Feature, e.Span)
}

// NotImplemented returns a NotImplementedError for the given feature.
func NotImplemented(feature string, span token.Span) error {
	return &NotImplementedError{Feature: feature, Span: span}
}

// InvariantError is an internal failure, it indicates a compiler bug.
// InvariantError 是内部错误，表示编译器本身存在缺陷。
type InvariantError struct {
	Message string
}

func (e *InvariantError) Error() string {
	return "invariant violation: " + e.Message
}

// Invariant formats an InvariantError.
func Invariant(format string, args ...interface{}) error {
	return &InvariantError{Message: fmt.Sprintf(format, args...)}
}

// SpanOf extracts the source span from any error of this package, looking
// through wrapped errors.
func SpanOf(err error) (token.Span, bool) {
	var (
		lex *LexError
		par *ParseError
		typ *TypeError
		nie *NotImplementedError
	)
	switch {
	case errors.As(err, &lex):
		return lex.Span, true
	case errors.As(err, &par):
		return par.Span, true
	case errors.As(err, &typ):
		return typ.Span, true
	case errors.As(err, &nie):
		return nie.Span, true
	}
	return token.Span{}, false
}
