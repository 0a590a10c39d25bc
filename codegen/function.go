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

package codegen

import (
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/log"

	"github.com/sunyihoo/go-solidity/abi"
	"github.com/sunyihoo/go-solidity/ast"
	"github.com/sunyihoo/go-solidity/checker"
	"github.com/sunyihoo/go-solidity/diag"
	"github.com/sunyihoo/go-solidity/types"
)

type loop struct {
	brk, cont label
}

// generator emits the body of one function. Every local lives in its own
// 32 byte memory slot, the operand stack is balanced between statements.
// generator 生成单个函数的函数体。每个局部变量占用独立的 32 字节内存槽，语句之间操作数栈保持平衡。
type generator struct {
	ann      *checker.Annotations
	contract *ast.ContractDefinition // nil for functions outside a contract
	p        *program

	scopes []map[string]uint64 // name -> memory slot
	free   uint64              // free memory pointer
	loops  []loop

	unchecked bool             // inside an unchecked block
	panics    map[uint64]label // panic code -> revert block

	retTypes []types.Type
	retBase  uint64 // first slot of the return values
}

func newGenerator(ann *checker.Annotations, cfg Config, contract *ast.ContractDefinition) *generator {
	return &generator{
		ann:      ann,
		contract: contract,
		p:        newProgram(cfg.JumpAddressWidth),
		free:     cfg.FreeMemoryStart,
	}
}

func (g *generator) pushScope() { g.scopes = append(g.scopes, make(map[string]uint64)) }
func (g *generator) popScope()  { g.scopes = g.scopes[:len(g.scopes)-1] }

func (g *generator) bind(name string, slot uint64) {
	if name != "" {
		g.scopes[len(g.scopes)-1][name] = slot
	}
}

func (g *generator) lookup(name string) (uint64, bool) {
	for i := len(g.scopes) - 1; i >= 0; i-- {
		if slot, ok := g.scopes[i][name]; ok {
			return slot, true
		}
	}
	return 0, false
}

// alloc reserves size bytes, rounded up to whole words.
func (g *generator) alloc(size uint64) uint64 {
	off := g.free
	g.free += (size + 31) / 32 * 32
	return off
}

// function generates the body of a function definition. Parameters are
// copied from call data into fresh slots, return values get consecutive
// slots so a single RETURN hands them all back.
// function 生成函数定义的函数体。参数从调用数据复制到新的内存槽，返回值占用连续的内存槽，以便一次 RETURN 全部返回。
func (g *generator) function(def *ast.FunctionDefinition) (*program, error) {
	g.pushScope()
	defer g.popScope()

	if len(def.Modifiers) > 0 {
		return nil, diag.NotImplemented("modifier invocation", def.Modifiers[0].Span())
	}
	for i, param := range def.Parameters {
		if _, err := g.declType(param.Type); err != nil {
			return nil, err
		}
		slot := g.alloc(32)
		g.p.pushUint(32)
		g.p.pushUint(4 + 32*uint64(i))
		g.p.pushUint(slot)
		g.p.op(vm.CALLDATACOPY)
		g.bind(param.Name, slot)
	}
	for _, ret := range def.Returns {
		t, err := g.declType(ret.Type)
		if err != nil {
			return nil, err
		}
		g.retTypes = append(g.retTypes, t)
	}
	if len(def.Returns) > 0 {
		g.retBase = g.alloc(32 * uint64(len(def.Returns)))
		for i, ret := range def.Returns {
			g.bind(ret.Name, g.retBase+32*uint64(i))
		}
	}
	if def.Body == nil {
		return g.p, nil
	}
	if err := g.statements(def.Body.Statements); err != nil {
		return nil, err
	}
	if len(g.retTypes) > 0 {
		g.returnSlots()
	}
	if len(g.panics) > 0 {
		if len(g.retTypes) == 0 {
			g.p.op(vm.STOP)
		}
		g.panicBlocks()
	}
	log.Trace("Compiled function", "name", def.Name, "size", g.p.len())
	return g.p, nil
}

// declType resolves the type of a declaration as far as code generation
// cares. User defined types are contracts, held as addresses.
func (g *generator) declType(n ast.TypeName) (types.Type, error) {
	switch n := n.(type) {
	case *ast.ElementaryTypeName:
		t := types.FromTypeName(n)
		if t.IsDynamic() {
			return nil, diag.NotImplemented("dynamic type "+t.String(), n.Span())
		}
		return t, nil
	case *ast.UserDefinedTypeName:
		return types.Address(), nil
	}
	return nil, diag.NotImplemented("type name", n.Span())
}

func (g *generator) statements(stmts []ast.Statement) error {
	for _, stmt := range stmts {
		if err := g.statement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// statement emits one statement, leaving the operand stack as it found it.
// statement 发出一条语句，并保持操作数栈不变。
func (g *generator) statement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.VariableDeclarationStatement:
		return g.variableDeclaration(s)

	case *ast.ExpressionStatement:
		n, err := g.expression(s.Expression)
		if err != nil {
			return err
		}
		g.pop(n)
		return nil

	case *ast.Block:
		return g.scoped(s.Statements)
	case *ast.UncheckedBlock:
		outer := g.unchecked
		g.unchecked = true
		defer func() { g.unchecked = outer }()
		return g.scoped(s.Statements)

	case *ast.Return:
		return g.returnStatement(s)

	case *ast.IfStatement:
		return g.ifStatement(s)
	case *ast.WhileStatement:
		return g.whileStatement(s)
	case *ast.DoWhileStatement:
		return g.doWhileStatement(s)
	case *ast.ForStatement:
		return g.forStatement(s)

	case *ast.Break:
		// Outside of a loop there is nothing to leave, no code.
		if len(g.loops) > 0 {
			g.p.jump(g.loops[len(g.loops)-1].brk)
		}
		return nil
	case *ast.Continue:
		if len(g.loops) > 0 {
			g.p.jump(g.loops[len(g.loops)-1].cont)
		}
		return nil

	case *ast.EmitStatement:
		return g.emit(s)
	case *ast.RevertStatement:
		return g.revert(s)
	case *ast.PlaceholderStatement:
		return nil
	}
	return diag.Invariant("unexpected statement %T", stmt)
}

func (g *generator) scoped(stmts []ast.Statement) error {
	g.pushScope()
	defer g.popScope()
	return g.statements(stmts)
}

func (g *generator) pop(n int) {
	for i := 0; i < n; i++ {
		g.p.op(vm.POP)
	}
}

// variableDeclaration evaluates the initializer, or zero, before the new
// names come into scope.
func (g *generator) variableDeclaration(s *ast.VariableDeclarationStatement) error {
	targets := make([]types.Type, len(s.Declarations))
	for i, decl := range s.Declarations {
		if decl == nil {
			continue
		}
		t, err := g.declType(decl.Type)
		if err != nil {
			return err
		}
		targets[i] = t
	}
	n := 1
	if s.Initial == nil {
		g.p.pushUint(0)
	} else {
		var err error
		if n, err = g.values(s.Initial, targets); err != nil {
			return err
		}
	}
	if n != len(s.Declarations) {
		return diag.Invariant("declaration of %d variables from %d values", len(s.Declarations), n)
	}
	for i := n - 1; i >= 0; i-- {
		decl := s.Declarations[i]
		if decl == nil {
			g.p.op(vm.POP)
			continue
		}
		slot := g.alloc(32)
		g.p.pushUint(slot)
		g.p.op(vm.MSTORE)
		g.bind(decl.Name, slot)
	}
	return nil
}

// returnStatement stores the returned values into the return slots and
// returns them. A bare return hands back the current return slots.
func (g *generator) returnStatement(s *ast.Return) error {
	if s.Expression != nil {
		n, err := g.values(s.Expression, g.retTypes)
		if err != nil {
			return err
		}
		if n != len(g.retTypes) {
			return diag.Invariant("return of %d values from a function returning %d", n, len(g.retTypes))
		}
		for i := n - 1; i >= 0; i-- {
			g.p.pushUint(g.retBase + 32*uint64(i))
			g.p.op(vm.MSTORE)
		}
	}
	g.returnSlots()
	return nil
}

func (g *generator) returnSlots() {
	if len(g.retTypes) == 0 {
		g.p.pushUint(0)
		g.p.pushUint(0)
		g.p.op(vm.RETURN)
		return
	}
	g.p.pushUint(32 * uint64(len(g.retTypes)))
	g.p.pushUint(g.retBase)
	g.p.op(vm.RETURN)
}

// condition emits the condition and jumps to target when it is false.
func (g *generator) condition(cond ast.Expression, target label) error {
	if _, err := g.single(cond); err != nil {
		return err
	}
	g.p.op(vm.ISZERO)
	g.p.jumpIf(target)
	return nil
}

func (g *generator) ifStatement(s *ast.IfStatement) error {
	elseLabel, end := g.p.newLabel(), g.p.newLabel()
	if err := g.condition(s.Condition, elseLabel); err != nil {
		return err
	}
	if err := g.scoped([]ast.Statement{s.TrueBody}); err != nil {
		return err
	}
	if s.FalseBody == nil {
		g.p.mark(elseLabel)
		return nil
	}
	g.p.jump(end)
	g.p.mark(elseLabel)
	if err := g.scoped([]ast.Statement{s.FalseBody}); err != nil {
		return err
	}
	g.p.mark(end)
	return nil
}

func (g *generator) loopBody(body ast.Statement, brk, cont label) error {
	g.loops = append(g.loops, loop{brk: brk, cont: cont})
	defer func() { g.loops = g.loops[:len(g.loops)-1] }()
	return g.scoped([]ast.Statement{body})
}

func (g *generator) whileStatement(s *ast.WhileStatement) error {
	start, end := g.p.newLabel(), g.p.newLabel()
	g.p.mark(start)
	if err := g.condition(s.Condition, end); err != nil {
		return err
	}
	if err := g.loopBody(s.Body, end, start); err != nil {
		return err
	}
	g.p.jump(start)
	g.p.mark(end)
	return nil
}

func (g *generator) doWhileStatement(s *ast.DoWhileStatement) error {
	start, cont, end := g.p.newLabel(), g.p.newLabel(), g.p.newLabel()
	g.p.mark(start)
	if err := g.loopBody(s.Body, end, cont); err != nil {
		return err
	}
	g.p.mark(cont)
	if _, err := g.single(s.Condition); err != nil {
		return err
	}
	g.p.jumpIf(start)
	g.p.mark(end)
	return nil
}

func (g *generator) forStatement(s *ast.ForStatement) error {
	g.pushScope()
	defer g.popScope()

	if s.Init != nil {
		if err := g.statement(s.Init); err != nil {
			return err
		}
	}
	start, cont, end := g.p.newLabel(), g.p.newLabel(), g.p.newLabel()
	g.p.mark(start)
	if s.Condition != nil {
		if err := g.condition(s.Condition, end); err != nil {
			return err
		}
	}
	if err := g.loopBody(s.Body, end, cont); err != nil {
		return err
	}
	g.p.mark(cont)
	if s.Loop != nil {
		n, err := g.expression(s.Loop)
		if err != nil {
			return err
		}
		g.pop(n)
	}
	g.p.jump(start)
	g.p.mark(end)
	return nil
}

// member finds an event or error declaration of the enclosing contract.
func (g *generator) member(name string) ast.Definition {
	if g.contract == nil {
		return nil
	}
	for _, m := range g.contract.Members {
		switch m.(type) {
		case *ast.EventDefinition, *ast.ErrorDefinition:
			if m.DefinitionName() == name {
				return m
			}
		}
	}
	return nil
}

func (g *generator) callee(call *ast.FunctionCall) (string, bool) {
	id, ok := call.Expression.(*ast.Identifier)
	if !ok {
		return "", false
	}
	return id.Name, true
}

// emit writes the non-indexed arguments to memory as data and passes the
// indexed ones as topics, after the event id unless the event is anonymous.
// emit 将非索引参数作为数据写入内存，索引参数作为主题传递；非匿名事件的第一个主题是事件 ID。
func (g *generator) emit(s *ast.EmitStatement) error {
	name, ok := g.callee(s.Call)
	if !ok {
		return diag.NotImplemented("emit of a member event", s.Span())
	}
	ev, ok := g.member(name).(*ast.EventDefinition)
	if !ok {
		return diag.NotImplemented("emit of an event outside the contract", s.Span())
	}
	if len(s.Call.Arguments) != len(ev.Parameters) {
		return diag.NotImplemented("emit with a different number of arguments", s.Span())
	}
	entry, err := abi.EntryOf(ev)
	if err != nil {
		return err
	}
	var indexed, data []int
	for i, p := range ev.Parameters {
		if p.Indexed {
			indexed = append(indexed, i)
		} else {
			data = append(data, i)
		}
	}
	topics := len(indexed)
	if !ev.Anonymous {
		topics++
	}
	if topics > 4 {
		return diag.NotImplemented("event with more than four topics", s.Span())
	}
	base := g.alloc(32 * uint64(len(data)))
	for k, i := range data {
		if err := g.argument(s.Call.Arguments[i], ev.Parameters[i]); err != nil {
			return err
		}
		g.p.pushUint(base + 32*uint64(k))
		g.p.op(vm.MSTORE)
	}
	for k := len(indexed) - 1; k >= 0; k-- {
		i := indexed[k]
		if err := g.argument(s.Call.Arguments[i], ev.Parameters[i]); err != nil {
			return err
		}
	}
	if !ev.Anonymous {
		id := entry.ID()
		g.p.pushBytes(id[:])
	}
	g.p.pushUint(32 * uint64(len(data)))
	g.p.pushUint(base)
	g.p.op(vm.LOG0 + vm.OpCode(topics))
	g.free = base
	return nil
}

// revert aborts with the selector of the error followed by its arguments.
func (g *generator) revert(s *ast.RevertStatement) error {
	name, ok := g.callee(s.Call)
	if !ok {
		return diag.NotImplemented("revert with a member error", s.Span())
	}
	def, ok := g.member(name).(*ast.ErrorDefinition)
	if !ok {
		return diag.NotImplemented("revert with an error outside the contract", s.Span())
	}
	if len(s.Call.Arguments) != len(def.Parameters) {
		return diag.NotImplemented("revert with a different number of arguments", s.Span())
	}
	entry, err := abi.EntryOf(def)
	if err != nil {
		return err
	}
	size := 4 + 32*uint64(len(def.Parameters))
	base := g.alloc(size)
	g.selectorWord(entry.Selector(), base)
	for i, arg := range s.Call.Arguments {
		if err := g.argument(arg, def.Parameters[i]); err != nil {
			return err
		}
		g.p.pushUint(base + 4 + 32*uint64(i))
		g.p.op(vm.MSTORE)
	}
	g.p.pushUint(size)
	g.p.pushUint(base)
	g.p.op(vm.REVERT)
	g.free = base
	return nil
}

// argument evaluates an event or error argument converted to the parameter
// type.
func (g *generator) argument(arg ast.Expression, param *ast.VariableDeclaration) error {
	t, err := g.declType(param.Type)
	if err != nil {
		return err
	}
	_, err = g.converted(arg, t)
	return err
}

// selectorWord stores the selector left aligned in the word at base.
func (g *generator) selectorWord(sel [4]byte, base uint64) {
	g.p.pushBytes(sel[:])
	g.p.pushUint(0xe0)
	g.p.op(vm.SHL)
	g.p.pushUint(base)
	g.p.op(vm.MSTORE)
}
