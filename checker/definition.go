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

package checker

import (
	"github.com/sunyihoo/go-solidity/ast"
	"github.com/sunyihoo/go-solidity/diag"
	"github.com/sunyihoo/go-solidity/types"
)

// checkUnits checks the top-level units in two passes. The first pass
// declares every contract and function, so bodies may refer to definitions
// further down the file. The second pass checks the bodies.
// checkUnits 分两遍检查顶层单元：第一遍声明所有合约和函数，第二遍检查函数体。
func (c *checker) checkUnits(units []ast.SourceUnit) error {
	var (
		contracts []*ast.ContractDefinition
		ctypes    []*types.Contract
	)

	// Contract names first, function signatures may mention any of them.
	for _, unit := range units {
		def, ok := unit.(*ast.ContractDefinition)
		if !ok {
			continue
		}
		typ := types.NewContract(def.Name)
		if err := c.bind(def.Name, &symbol{kind: symType, typ: typ}, def.Span()); err != nil {
			return err
		}
		c.top().functions[def.Name] = []*types.Function{contractConversion(typ)}
		contracts = append(contracts, def)
		ctypes = append(ctypes, typ)
	}
	for _, unit := range units {
		switch def := unit.(type) {
		case *ast.PragmaDirective, *ast.ContractDefinition:
		case *ast.FunctionDefinition:
			if err := c.declareFunction(def); err != nil {
				return err
			}
		case *ast.VariableDeclaration:
			return diag.NotImplemented("file-level variable", def.Span())
		case *ast.EventDefinition:
			return diag.NotImplemented("file-level event", def.Span())
		case *ast.ErrorDefinition:
			return diag.NotImplemented("file-level error", def.Span())
		case *ast.StructDefinition:
			return diag.NotImplemented("file-level struct", def.Span())
		case *ast.ModifierDefinition:
			return diag.NotImplemented("file-level modifier", def.Span())
		default:
			return diag.Invariant("unexpected source unit %T", unit)
		}
	}
	for i, def := range contracts {
		if err := c.declareInterface(def, ctypes[i]); err != nil {
			return err
		}
	}
	for _, unit := range units {
		switch def := unit.(type) {
		case *ast.FunctionDefinition:
			if err := c.checkFunctionBody(def); err != nil {
				return err
			}
		case *ast.ContractDefinition:
			if err := c.checkContract(def); err != nil {
				return err
			}
		}
	}
	return nil
}

// declareInterface fills the function table of a contract type, so that
// calls on contract values resolve before the contract body is checked.
func (c *checker) declareInterface(def *ast.ContractDefinition, typ *types.Contract) error {
	c.push()
	defer c.pop()

	if err := c.declareStructs(def); err != nil {
		return err
	}
	for _, member := range def.Members {
		fn, ok := member.(*ast.FunctionDefinition)
		if !ok {
			continue
		}
		sig, err := c.signature(fn)
		if err != nil {
			return err
		}
		for _, other := range typ.Functions[fn.Name] {
			if other.SameParams(sig) {
				return c.errorf(diag.CodeDuplicateOverload, fn.Span(), "Function with same name and parameter types defined twice.")
			}
		}
		typ.Functions[fn.Name] = append(typ.Functions[fn.Name], sig)
	}
	return nil
}

// declareStructs binds the struct types of a contract in the current frame.
// Member types are resolved once all struct names are bound.
func (c *checker) declareStructs(def *ast.ContractDefinition) error {
	var fresh []*ast.StructDefinition
	for _, member := range def.Members {
		s, ok := member.(*ast.StructDefinition)
		if !ok {
			continue
		}
		typ, cached := c.structs[s]
		if !cached {
			typ = &types.Struct{Name: s.Name}
			c.structs[s] = typ
			fresh = append(fresh, s)
		}
		if err := c.bind(s.Name, &symbol{kind: symType, typ: typ}, s.Span()); err != nil {
			return err
		}
	}
	for _, s := range fresh {
		typ := c.structs[s]
		for _, field := range s.Members {
			ft, err := c.resolveTypeName(field.Type)
			if err != nil {
				return err
			}
			if _, dup := typ.Member(field.Name); dup {
				return c.errorf(diag.CodeDuplicateSymbol, field.Span(), "Identifier already declared.")
			}
			typ.Members = append(typ.Members, types.Field{Name: field.Name, Type: ft})
		}
	}
	return nil
}

// signature resolves, once, the function type of a definition.
func (c *checker) signature(def *ast.FunctionDefinition) (*types.Function, error) {
	if sig, ok := c.signatures[def]; ok {
		return sig, nil
	}
	params, err := c.resolveParams(def.Parameters)
	if err != nil {
		return nil, err
	}
	returns, err := c.resolveParams(def.Returns)
	if err != nil {
		return nil, err
	}
	sig := &types.Function{Params: params, Returns: returns}
	c.signatures[def] = sig
	return sig, nil
}

// declareFunction registers the function overload in the current frame.
func (c *checker) declareFunction(def *ast.FunctionDefinition) error {
	sig, err := c.signature(def)
	if err != nil {
		return err
	}
	return c.bindFunction(def.Name, sig, def.Span())
}

// checkFunctionBody checks the body of a function with its parameters and
// named return variables in scope.
// checkFunctionBody 在参数和命名返回变量可见的作用域中检查函数体。
func (c *checker) checkFunctionBody(def *ast.FunctionDefinition) error {
	sig, err := c.signature(def)
	if err != nil {
		return err
	}
	c.push()
	defer c.pop()

	for i, p := range def.Parameters {
		if err := c.bind(p.Name, &symbol{kind: symVariable, typ: sig.Params[i]}, p.Span()); err != nil {
			return err
		}
	}
	for i, r := range def.Returns {
		if err := c.bind(r.Name, &symbol{kind: symVariable, typ: sig.Returns[i]}, r.Span()); err != nil {
			return err
		}
	}
	for _, mod := range def.Modifiers {
		if _, err := c.checkExpressions(mod.Arguments); err != nil {
			return err
		}
	}
	if def.Body == nil {
		return nil
	}
	saved := c.returns
	c.returns = sig.Returns
	defer func() { c.returns = saved }()

	return c.checkStatements(def.Body.Statements)
}

// checkContract checks all members of a contract in a scope of their own.
// Members are declared before any body is checked.
// checkContract 在独立作用域中检查合约的所有成员，成员在检查任何函数体之前声明。
func (c *checker) checkContract(def *ast.ContractDefinition) error {
	c.push()
	defer c.pop()

	if err := c.declareStructs(def); err != nil {
		return err
	}
	for _, member := range def.Members {
		switch m := member.(type) {
		case *ast.StructDefinition:
		case *ast.FunctionDefinition:
			if err := c.declareFunction(m); err != nil {
				return err
			}
		case *ast.VariableDeclaration:
			typ, err := c.resolveTypeName(m.Type)
			if err != nil {
				return err
			}
			if err := c.bind(m.Name, &symbol{kind: symVariable, typ: typ}, m.Span()); err != nil {
				return err
			}
		case *ast.EventDefinition, *ast.ErrorDefinition, *ast.ModifierDefinition:
			if err := c.bind(m.DefinitionName(), &symbol{kind: symEvent}, m.Span()); err != nil {
				return err
			}
		case *ast.ContractDefinition:
			return diag.NotImplemented("nested contract", m.Span())
		default:
			return diag.Invariant("unexpected contract member %T", member)
		}
	}
	for _, member := range def.Members {
		switch m := member.(type) {
		case *ast.FunctionDefinition:
			if err := c.checkFunctionBody(m); err != nil {
				return err
			}
		case *ast.VariableDeclaration:
			if err := c.checkStateVariable(m); err != nil {
				return err
			}
		case *ast.EventDefinition:
			if _, err := c.resolveParams(m.Parameters); err != nil {
				return err
			}
		case *ast.ErrorDefinition:
			if _, err := c.resolveParams(m.Parameters); err != nil {
				return err
			}
		case *ast.ModifierDefinition:
			if err := c.checkModifier(m); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkStateVariable checks the initializer of a state variable.
func (c *checker) checkStateVariable(def *ast.VariableDeclaration) error {
	if def.Initial == nil {
		return nil
	}
	sym, _ := c.lookupValue(def.Name)
	init, err := c.checkExpression(def.Initial)
	if err != nil {
		return err
	}
	if !types.ImplicitlyConvertible(init, sym.typ) {
		return c.errorf(diag.CodeDeclarationConvert, def.Initial.Span(),
			"Type %v is not implicitly convertible to expected type %v.", init, sym.typ)
	}
	return nil
}

// checkModifier checks a modifier body with its parameters in scope.
func (c *checker) checkModifier(def *ast.ModifierDefinition) error {
	params, err := c.resolveParams(def.Parameters)
	if err != nil {
		return err
	}
	c.push()
	defer c.pop()

	for i, p := range def.Parameters {
		if err := c.bind(p.Name, &symbol{kind: symVariable, typ: params[i]}, p.Span()); err != nil {
			return err
		}
	}
	if def.Body == nil {
		return nil
	}
	saved := c.returns
	c.returns = nil
	defer func() { c.returns = saved }()

	return c.checkStatements(def.Body.Statements)
}
