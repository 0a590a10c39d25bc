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

package parser

import (
	"github.com/sunyihoo/go-solidity/ast"
	"github.com/sunyihoo/go-solidity/token"
)

// parseSourceUnit parses one top-level item.
func (p *parser) parseSourceUnit() (ast.SourceUnit, error) {
	switch {
	case p.at(token.Pragma):
		return p.parsePragma()
	case p.at(token.Import):
		return nil, p.notImplemented("import directive")
	}
	return p.parseDefinition()
}

// parsePragma parses "pragma <raw text>;".
func (p *parser) parsePragma() (*ast.PragmaDirective, error) {
	start := p.start()
	p.next()

	var value string
	if p.at(token.PragmaValue) {
		value = p.next().Text
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.PragmaDirective{Header: p.header(start), Value: value}, nil
}

// parseDefinition parses a definition at top level or inside a contract
// body. Anything that is none of the keyword introduced definitions is tried
// as a state variable.
// parseDefinition 解析顶层或合约体内的定义。
func (p *parser) parseDefinition() (ast.Definition, error) {
	tok := p.peek()
	if tok == nil {
		return nil, p.unexpected("definition")
	}
	switch tok.Kind {
	case token.Function:
		return p.parseFunction()
	case token.Contract:
		return p.parseContract()
	case token.Event:
		return p.parseEvent()
	case token.Struct:
		return p.parseStruct()
	case token.Modifier:
		return p.parseModifier()
	case token.Abstract:
		return nil, p.notImplemented("abstract contract")
	case token.Interface:
		return nil, p.notImplemented("interface")
	case token.Library:
		return nil, p.notImplemented("library")
	case token.Constructor:
		return nil, p.notImplemented("constructor")
	case token.Fallback:
		return nil, p.notImplemented("fallback function")
	case token.Receive:
		return nil, p.notImplemented("receive function")
	case token.Enum:
		return nil, p.notImplemented("enum")
	case token.Using:
		return nil, p.notImplemented("using directive")
	}
	if def, err := p.tryParseErrorDefinition(); err != nil {
		return nil, err
	} else if def != nil {
		return def, nil
	}
	def, err := p.tryParseStateVariable()
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, p.unexpected("definition")
	}
	return def, nil
}

// parseFunction parses
//
//	function name(params) specifiers [returns (params)] (; | block)
func (p *parser) parseFunction() (*ast.FunctionDefinition, error) {
	start := p.start()
	p.next()

	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	fn := &ast.FunctionDefinition{Name: name.Text}
	if fn.Parameters, err = p.parseParameterList(false); err != nil {
		return nil, err
	}
	// Specifiers may come in any order, each at most once.
specifiers:
	for {
		tok := p.peek()
		if tok == nil {
			return nil, p.unexpected("function body")
		}
		switch {
		case tok.Kind.IsVisibility() && fn.Visibility == 0:
			fn.Visibility = p.next().Kind
		case tok.Kind.IsStateMutability() && fn.Mutability == 0:
			fn.Mutability = p.next().Kind
		case tok.Kind == token.Virtual && !fn.Virtual:
			p.next()
			fn.Virtual = true
		case tok.Kind == token.Override && !fn.Override:
			p.next()
			if p.at(token.LParen) {
				return nil, p.notImplemented("override specifier list")
			}
			fn.Override = true
		case tok.Kind == token.Identifier:
			mod, err := p.parseModifierInvocation()
			if err != nil {
				return nil, err
			}
			fn.Modifiers = append(fn.Modifiers, mod)
		default:
			break specifiers
		}
	}
	if p.accept(token.Returns) {
		if fn.Returns, err = p.parseParameterList(false); err != nil {
			return nil, err
		}
	}
	if !p.accept(token.Semicolon) {
		if fn.Body, err = p.parseBlock(); err != nil {
			return nil, err
		}
	}
	fn.Header = p.header(start)
	return fn, nil
}

// parseModifierInvocation parses "name" or "name(args)" in a function header.
func (p *parser) parseModifierInvocation() (*ast.ModifierInvocation, error) {
	start := p.start()
	mod := &ast.ModifierInvocation{Name: p.next().Text}
	if p.at(token.LParen) {
		args, err := p.parseCallArguments()
		if err != nil {
			return nil, err
		}
		mod.Arguments = args
	}
	mod.Header = p.header(start)
	return mod, nil
}

// parseContract parses "contract name { members }".
func (p *parser) parseContract() (*ast.ContractDefinition, error) {
	start := p.start()
	p.next()

	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if p.at(token.Is) {
		return nil, p.notImplemented("inheritance")
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	contract := &ast.ContractDefinition{Name: name.Text}
	for !p.accept(token.RBrace) {
		if p.done() {
			return nil, p.unexpected(token.RBrace.String())
		}
		member, err := p.parseDefinition()
		if err != nil {
			return nil, err
		}
		if _, ok := member.(*ast.ContractDefinition); ok {
			return nil, p.notImplemented("nested contract")
		}
		contract.Members = append(contract.Members, member)
	}
	contract.Header = p.header(start)
	return contract, nil
}

// parseEvent parses "event name(params) [anonymous];".
func (p *parser) parseEvent() (*ast.EventDefinition, error) {
	start := p.start()
	p.next()

	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	event := &ast.EventDefinition{Name: name.Text}
	if event.Parameters, err = p.parseParameterList(true); err != nil {
		return nil, err
	}
	event.Anonymous = p.accept(token.Anonymous)
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	event.Header = p.header(start)
	return event, nil
}

// tryParseErrorDefinition parses "error name(params);". The word "error" is
// not a keyword, so this only matches when it is followed by a name.
func (p *parser) tryParseErrorDefinition() (*ast.ErrorDefinition, error) {
	if !p.atIdent("error") {
		return nil, nil
	}
	if next := p.peekAt(1); next == nil || next.Kind != token.Identifier {
		return nil, nil
	}
	start := p.start()
	p.next()
	def := &ast.ErrorDefinition{Name: p.next().Text}

	var err error
	if def.Parameters, err = p.parseParameterList(false); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	def.Header = p.header(start)
	return def, nil
}

// parseStruct parses "struct name { (type name;)* }".
func (p *parser) parseStruct() (*ast.StructDefinition, error) {
	start := p.start()
	p.next()

	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	def := &ast.StructDefinition{Name: name.Text}
	for !p.accept(token.RBrace) {
		memberStart := p.start()
		typ, err := p.parseTypeName()
		if err != nil {
			return nil, err
		}
		if typ == nil {
			return nil, p.unexpected("type name")
		}
		ident, err := p.expect(token.Identifier)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		def.Members = append(def.Members, &ast.VariableDeclaration{
			Header: p.header(memberStart),
			Type:   typ,
			Name:   ident.Text,
		})
	}
	def.Header = p.header(start)
	return def, nil
}

// parseModifier parses "modifier name[(params)] [virtual] [override] (; | block)".
func (p *parser) parseModifier() (*ast.ModifierDefinition, error) {
	start := p.start()
	p.next()

	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	mod := &ast.ModifierDefinition{Name: name.Text}
	if p.at(token.LParen) {
		if mod.Parameters, err = p.parseParameterList(false); err != nil {
			return nil, err
		}
	}
	for {
		if p.accept(token.Virtual) {
			mod.Virtual = true
		} else if p.accept(token.Override) {
			mod.Override = true
		} else {
			break
		}
	}
	if !p.accept(token.Semicolon) {
		if mod.Body, err = p.parseBlock(); err != nil {
			return nil, err
		}
	}
	mod.Header = p.header(start)
	return mod, nil
}

// tryParseStateVariable parses
//
//	type (visibility | constant | immutable | override)* name [= expr];
//
// It reports no match when the cursor is not at a type name.
func (p *parser) tryParseStateVariable() (*ast.VariableDeclaration, error) {
	start := p.start()
	mark := p.pos

	typ, err := p.parseTypeName()
	if err != nil || typ == nil {
		return nil, err
	}
	decl := &ast.VariableDeclaration{Type: typ}
specifiers:
	for {
		tok := p.peek()
		if tok == nil {
			p.pos = mark
			return nil, nil
		}
		switch {
		case tok.Kind.IsVisibility() && decl.Visibility == 0:
			decl.Visibility = p.next().Kind
		case tok.Kind == token.Constant && !decl.Constant:
			p.next()
			decl.Constant = true
		case tok.Kind == token.Immutable && !decl.Immutable:
			p.next()
			decl.Immutable = true
		case tok.Kind == token.Override:
			p.next()
		default:
			break specifiers
		}
	}
	if !p.at(token.Identifier) {
		p.pos = mark
		return nil, nil
	}
	decl.Name = p.next().Text
	if p.accept(token.Assign) {
		if decl.Initial, err = p.parseExpression(0); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	decl.Header = p.header(start)
	return decl, nil
}

// parseParameterList parses a parenthesized, comma separated list of
//
//	type [indexed] [location] [name]
//
// The indexed flag is only accepted for event parameters.
// parseParameterList 解析带括号、逗号分隔的参数列表。
func (p *parser) parseParameterList(event bool) ([]*ast.VariableDeclaration, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	var params []*ast.VariableDeclaration
	if p.accept(token.RParen) {
		return params, nil
	}
	for {
		start := p.start()
		typ, err := p.parseTypeName()
		if err != nil {
			return nil, err
		}
		if typ == nil {
			return nil, p.unexpected("type name")
		}
		param := &ast.VariableDeclaration{Type: typ}
		if event && p.accept(token.Indexed) {
			param.Indexed = true
		}
		if tok := p.peek(); tok != nil && tok.Kind.IsDataLocation() {
			param.Location = p.next().Kind
		}
		if p.at(token.Identifier) {
			param.Name = p.next().Text
		}
		param.Header = p.header(start)
		params = append(params, param)

		if p.accept(token.RParen) {
			return params, nil
		}
		if _, err := p.expect(token.Comma); err != nil {
			return nil, err
		}
	}
}

// parseTypeName parses an elementary or user defined type name. It returns
// a nil node without consuming anything when the cursor is not at a type.
// Arrays and mappings are recognised and rejected.
// parseTypeName 解析基本类型或用户定义类型名，不在类型处时返回 nil 节点。
func (p *parser) parseTypeName() (ast.TypeName, error) {
	tok := p.peek()
	if tok == nil {
		return nil, nil
	}
	start := tok.Span.Start

	var typ ast.TypeName
	switch {
	case tok.Kind.IsElementaryType():
		elem := &ast.ElementaryTypeName{Token: p.next()}
		if elem.Token.Kind == token.Address && p.accept(token.Payable) {
			elem.Payable = true
		}
		elem.Header = p.header(start)
		typ = elem
	case tok.Kind == token.Identifier:
		p.next()
		typ = &ast.UserDefinedTypeName{Header: p.header(start), Name: tok.Text}
	case tok.Kind == token.Mapping:
		return nil, p.notImplemented("mapping type")
	case tok.Kind == token.Function:
		return nil, p.notImplemented("function type")
	default:
		return nil, nil
	}
	if p.isArraySuffix() {
		return nil, p.notImplemented("array type")
	}
	return typ, nil
}

// isArraySuffix reports whether the cursor is at "[]" or "[N]" followed by a
// token that can only follow a type, so that index expressions like a[i]
// are left alone.
func (p *parser) isArraySuffix() bool {
	if !p.at(token.LBrack) {
		return false
	}
	next := p.peekAt(1)
	if next == nil {
		return false
	}
	if next.Kind == token.RBrack {
		return true
	}
	if next.Kind != token.NumberLiteral {
		return false
	}
	if closing := p.peekAt(2); closing == nil || closing.Kind != token.RBrack {
		return false
	}
	after := p.peekAt(3)
	return after != nil && (after.Kind == token.Identifier || after.Kind.IsDataLocation() ||
		after.Kind.IsVisibility() || after.Kind == token.LBrack)
}
