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

// Package checker resolves names and types of a parsed program.
//
// The checker walks the syntax tree with a stack of scope frames, resolves
// identifiers and overloads, enforces the conversion rules of package types
// and records the type of every expression in an annotation table keyed by
// node id. It stops at the first error, which is a *diag.TypeError carrying
// a solc compatible numeric code, or a *diag.NotImplementedError.
//
// Package checker 解析已解析程序中的名称和类型。
// 检查器使用作用域帧栈遍历语法树，解析标识符和重载，执行 types 包的转换规则，
// 并以节点 ID 为键记录每个表达式的类型。遇到第一个错误即停止。
package checker

import (
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/sunyihoo/go-solidity/ast"
	"github.com/sunyihoo/go-solidity/diag"
	"github.com/sunyihoo/go-solidity/token"
	"github.com/sunyihoo/go-solidity/types"
)

// Annotations maps every checked expression to its resolved type.
// Annotations 将每个已检查的表达式映射到其解析后的类型。
type Annotations struct {
	types map[ast.NodeID]types.Type

	// Warnings holds the non-fatal diagnostics in the order they were found.
	Warnings []*diag.TypeError
}

func newAnnotations() *Annotations {
	return &Annotations{types: make(map[ast.NodeID]types.Type)}
}

// TypeOf returns the type recorded for the expression.
func (a *Annotations) TypeOf(expr ast.Expression) (types.Type, bool) {
	t, ok := a.types[expr.ID()]
	return t, ok
}

// Len returns the number of annotated expressions.
func (a *Annotations) Len() int {
	return len(a.types)
}

func (a *Annotations) set(expr ast.Expression, t types.Type) {
	a.types[expr.ID()] = t
}

// symbolKind tells what a value name stands for.
type symbolKind int

const (
	symVariable symbolKind = iota // assignable variable or parameter
	symType                       // contract or struct name
	symBuiltin                    // block, msg, tx
	symEvent                      // event, error and modifier names only reserve the name
)

type symbol struct {
	kind symbolKind
	typ  types.Type
}

// frame is one lexical scope.
// frame 是一个词法作用域。
type frame struct {
	values    map[string]*symbol
	functions map[string][]*types.Function
}

func newFrame() *frame {
	return &frame{
		values:    make(map[string]*symbol),
		functions: make(map[string][]*types.Function),
	}
}

// clone copies the frame maps. Symbols and function types are immutable and
// shared.
func (f *frame) clone() *frame {
	cpy := newFrame()
	for name, sym := range f.values {
		cpy.values[name] = sym
	}
	for name, fns := range f.functions {
		cpy.functions[name] = append([]*types.Function(nil), fns...)
	}
	return cpy
}

// declared reports whether the frame already binds name to anything.
func (f *frame) declared(name string) bool {
	if _, ok := f.values[name]; ok {
		return true
	}
	_, ok := f.functions[name]
	return ok
}

// checker carries the state of one Check call.
type checker struct {
	source string
	scopes []*frame
	ann    *Annotations

	// pending holds the argument types of a call while its target is being
	// resolved, keyed by the id of the target expression.
	pending map[ast.NodeID][]types.Type

	returns []types.Type // return types of the enclosing function

	signatures map[*ast.FunctionDefinition]*types.Function
	structs    map[*ast.StructDefinition]*types.Struct
}

func newChecker(source string) *checker {
	return &checker{
		source:     source,
		scopes:     []*frame{defaults.clone()},
		ann:        newAnnotations(),
		pending:    make(map[ast.NodeID][]types.Type),
		signatures: make(map[*ast.FunctionDefinition]*types.Function),
		structs:    make(map[*ast.StructDefinition]*types.Struct),
	}
}

// Check resolves and type checks the program. The source text is used to
// compute line and column information of diagnostics.
// Check 对程序进行名称解析和类型检查，源代码文本用于计算诊断信息的行列位置。
func Check(source string, program *ast.Program) (*Annotations, error) {
	c := newChecker(source)
	c.push()
	if err := c.checkUnits(program.Units); err != nil {
		return nil, err
	}
	c.pop()

	if len(c.scopes) != 1 {
		return nil, diag.Invariant("unbalanced scopes after check: %d", len(c.scopes))
	}
	for _, w := range c.ann.Warnings {
		log.Debug("Type check warning", "code", int(w.Code), "pos", w.Pos, "msg", w.Message)
	}
	log.Trace("Checked program", "annotations", c.ann.Len(), "warnings", len(c.ann.Warnings))
	return c.ann, nil
}

// CheckStatement checks a statement fragment as if it were the body of a
// function without parameters and return values.
// CheckStatement 将语句片段视为无参数、无返回值函数的函数体进行检查。
func CheckStatement(source string, stmt ast.Statement) (*Annotations, error) {
	c := newChecker(source)
	c.push()
	if err := c.checkStatement(stmt); err != nil {
		return nil, err
	}
	c.pop()
	return c.ann, nil
}

func (c *checker) push() {
	c.scopes = append(c.scopes, newFrame())
}

func (c *checker) pop() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

func (c *checker) top() *frame {
	return c.scopes[len(c.scopes)-1]
}

// lookupValue finds the innermost value binding of name. Names that only
// reserve an identifier (events, errors, modifiers) are skipped.
func (c *checker) lookupValue(name string) (*symbol, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if sym, ok := c.scopes[i].values[name]; ok && sym.kind != symEvent {
			return sym, true
		}
	}
	return nil, false
}

// lookup finds the innermost frame binding name either as a value or as a
// function, and returns what it binds there.
// lookup 查找将 name 绑定为值或函数的最内层帧，并返回其绑定内容。
func (c *checker) lookup(name string) (*symbol, []*types.Function) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		f := c.scopes[i]
		if fns, ok := f.functions[name]; ok {
			return nil, fns
		}
		if sym, ok := f.values[name]; ok && sym.kind != symEvent {
			return sym, nil
		}
	}
	return nil, nil
}

// bind declares a value in the innermost frame.
func (c *checker) bind(name string, sym *symbol, span token.Span) error {
	if name == "" {
		return nil
	}
	if c.top().declared(name) {
		return c.errorf(diag.CodeDuplicateSymbol, span, "Identifier already declared.")
	}
	c.top().values[name] = sym
	return nil
}

// bindFunction declares a function overload in the innermost frame.
func (c *checker) bindFunction(name string, fn *types.Function, span token.Span) error {
	f := c.top()
	if _, ok := f.values[name]; ok {
		return c.errorf(diag.CodeDuplicateSymbol, span, "Identifier already declared.")
	}
	for _, other := range f.functions[name] {
		if other.SameParams(fn) {
			return c.errorf(diag.CodeDuplicateOverload, span, "Function with same name and parameter types defined twice.")
		}
	}
	f.functions[name] = append(f.functions[name], fn)
	return nil
}

// errorf builds a TypeError located at span.
func (c *checker) errorf(code diag.Code, span token.Span, format string, args ...interface{}) error {
	return &diag.TypeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
		Pos:     token.Locate(c.source, span.Start),
	}
}

// warnf records a non-fatal diagnostic.
func (c *checker) warnf(code diag.Code, span token.Span, format string, args ...interface{}) {
	c.ann.Warnings = append(c.ann.Warnings, &diag.TypeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
		Pos:     token.Locate(c.source, span.Start),
		Warning: true,
	})
}

// resolveTypeName converts a syntactic type into a semantic type.
// resolveTypeName 将语法类型转换为语义类型。
func (c *checker) resolveTypeName(n ast.TypeName) (types.Type, error) {
	switch n := n.(type) {
	case *ast.ElementaryTypeName:
		return types.FromTypeName(n), nil
	case *ast.UserDefinedTypeName:
		sym, ok := c.lookupValue(n.Name)
		if !ok {
			return nil, c.errorf(diag.CodeUndeclared, n.Span(), "Identifier not found or not unique.")
		}
		if sym.kind != symType {
			return nil, c.errorf(diag.CodeNotAType, n.Span(), "Name has to refer to a user-defined type.")
		}
		return sym.typ, nil
	case *ast.ArrayTypeName:
		return nil, diag.NotImplemented("array type", n.Span())
	case *ast.Mapping:
		return nil, diag.NotImplemented("mapping type", n.Span())
	}
	return nil, diag.Invariant("unexpected type name %T", n)
}

// resolveParams resolves the types of a parameter list.
func (c *checker) resolveParams(params []*ast.VariableDeclaration) ([]types.Type, error) {
	out := make([]types.Type, len(params))
	for i, p := range params {
		t, err := c.resolveTypeName(p.Type)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}
