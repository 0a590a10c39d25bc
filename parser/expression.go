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
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sunyihoo/go-solidity/ast"
	"github.com/sunyihoo/go-solidity/diag"
	"github.com/sunyihoo/go-solidity/token"
)

// Binding powers, loosest first. Left associative binary operators recurse
// with lbp+1, the right associative ones with lbp-1.
// 绑定力，从最松到最紧。左结合的二元运算符以 lbp+1 递归，右结合的以 lbp-1 递归。
const (
	bpAssignment = 2
	bpTernary    = 4
	bpPrefix     = 28
	bpPostfix    = 30
	bpMember     = 32
)

// binaryPower is the left binding power of each binary operator.
var binaryPower = map[token.Kind]int{
	token.Or:                 6,
	token.And:                8,
	token.Equal:              10,
	token.NotEqual:           10,
	token.LessThan:           12,
	token.GreaterThan:        12,
	token.LessThanOrEqual:    12,
	token.GreaterThanOrEqual: 12,
	token.BitOr:              14,
	token.BitXor:             16,
	token.BitAnd:             18,
	token.Shl:                20,
	token.Sar:                20,
	token.Add:                22,
	token.Sub:                22,
	token.Mul:                24,
	token.Div:                24,
	token.Mod:                24,
	token.Exp:                26,
}

// prefixOperators are the unary operators written before their operand.
var prefixOperators = mapset.NewThreadUnsafeSet(
	token.Inc, token.Dec, token.Sub, token.Not, token.BitNot, token.Delete,
)

// denominations are the unit suffixes that may follow a number literal.
var denominations = mapset.NewThreadUnsafeSet(
	"wei", "gwei", "ether", "seconds", "minutes", "hours", "days", "weeks",
)

// parseExpression is the Pratt loop. It parses a prefix expression and then
// keeps folding operators whose left binding power is at least minBP.
// parseExpression 是 Pratt 循环：先解析前缀表达式，然后不断折叠左绑定力不小于 minBP 的运算符。
func (p *parser) parseExpression(minBP int) (ast.Expression, error) {
	start := p.start()
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok == nil {
			return left, nil
		}
		switch kind := tok.Kind; {
		case kind == token.Period:
			if bpMember < minBP {
				return left, nil
			}
			if left, err = p.parseMemberAccess(start, left); err != nil {
				return nil, err
			}
		case kind == token.Inc || kind == token.Dec:
			if bpPostfix < minBP {
				return left, nil
			}
			p.next()
			left = &ast.UnaryOperation{Header: p.header(start), Operator: kind, Operand: left}
		case kind == token.LBrack:
			if bpPostfix < minBP {
				return left, nil
			}
			if left, err = p.parseIndexAccess(start, left); err != nil {
				return nil, err
			}
		case kind == token.LParen:
			if bpPostfix < minBP {
				return left, nil
			}
			args, err := p.parseCallArguments()
			if err != nil {
				return nil, err
			}
			left = &ast.FunctionCall{Header: p.header(start), Expression: left, Arguments: args}
		case kind == token.LBrace:
			// Call options such as f{value: 1}() only appear right before a
			// call, a brace anywhere else ends the expression.
			if _, isCallee := left.(*ast.MemberAccess); isCallee && p.isCallOptions() {
				return nil, p.notImplemented("call options")
			}
			return left, nil
		case kind == token.Conditional:
			if bpTernary < minBP {
				return left, nil
			}
			if left, err = p.parseConditional(start, left); err != nil {
				return nil, err
			}
		case kind.IsAssignment():
			if bpAssignment < minBP {
				return left, nil
			}
			p.next()
			right, err := p.parseExpression(bpAssignment - 1)
			if err != nil {
				return nil, err
			}
			left = &ast.Assignment{Header: p.header(start), Operator: kind, Left: left, Right: right}
		default:
			lbp, ok := binaryPower[kind]
			if !ok || lbp < minBP {
				return left, nil
			}
			p.next()
			right, err := p.parseExpression(lbp + 1)
			if err != nil {
				return nil, err
			}
			left = &ast.BinaryOperation{Header: p.header(start), Operator: kind, Left: left, Right: right}
		}
	}
}

// parsePrefix parses a primary expression or a prefix operator application.
// parsePrefix 解析基本表达式或前缀运算符表达式。
func (p *parser) parsePrefix() (ast.Expression, error) {
	tok := p.peek()
	if tok == nil {
		return nil, p.unexpected("expression")
	}
	start := tok.Span.Start

	switch kind := tok.Kind; {
	case kind.IsLiteral():
		p.next()
		if next := p.peek(); next != nil && next.Kind == token.Identifier && denominations.Contains(next.Text) {
			return nil, diag.NotImplemented("unit denomination", next.Span)
		}
		return &ast.Literal{Header: p.header(start), Token: *tok}, nil
	case kind == token.Identifier:
		p.next()
		return &ast.Identifier{Header: p.header(start), Name: tok.Text}, nil
	case kind.IsElementaryType():
		typ, err := p.parseTypeName()
		if err != nil {
			return nil, err
		}
		elem := typ.(*ast.ElementaryTypeName)
		return &ast.ElementaryTypeNameExpression{Header: p.headerOf(elem.Span()), Type: elem}, nil
	case kind == token.Payable:
		// payable(x) converts to "address payable".
		p.next()
		elem := &ast.ElementaryTypeName{
			Header:  p.header(start),
			Token:   token.Token{Kind: token.Address, Text: tok.Text, Span: tok.Span},
			Payable: true,
		}
		return &ast.ElementaryTypeNameExpression{Header: p.headerOf(elem.Span()), Type: elem}, nil
	case kind == token.LParen:
		return p.parseTuple()
	case kind == token.LBrack:
		return nil, p.notImplemented("inline array")
	case kind == token.New:
		p.next()
		typ, err := p.parseTypeName()
		if err != nil {
			return nil, err
		}
		if typ == nil {
			return nil, p.unexpected("type name")
		}
		return &ast.NewExpression{Header: p.header(start), Type: typ}, nil
	case kind == token.Type:
		return nil, p.notImplemented("type information expression")
	case prefixOperators.Contains(kind):
		p.next()
		operand, err := p.parseExpression(bpPrefix)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOperation{Header: p.header(start), Operator: kind, Prefix: true, Operand: operand}, nil
	}
	return nil, p.unexpected("expression")
}

// parseTuple parses a parenthesized expression. Without a top-level comma
// it is plain grouping and yields the inner expression, "()" and lists with
// commas build a TupleExpression.
// parseTuple 解析带括号的表达式，包含顶层逗号时构建 TupleExpression。
func (p *parser) parseTuple() (ast.Expression, error) {
	start := p.start()
	p.next()

	if p.accept(token.RParen) {
		return &ast.TupleExpression{Header: p.header(start)}, nil
	}
	var (
		components []ast.Expression
		commas     int
	)
	for {
		var component ast.Expression
		if !p.at(token.Comma) && !p.at(token.RParen) {
			expr, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			component = expr
		}
		components = append(components, component)

		if p.accept(token.RParen) {
			break
		}
		if _, err := p.expect(token.Comma); err != nil {
			return nil, err
		}
		commas++
	}
	if commas == 0 {
		if components[0] == nil {
			return nil, p.unexpected("expression")
		}
		return components[0], nil
	}
	return &ast.TupleExpression{Header: p.header(start), Components: components}, nil
}

// parseCallArguments parses "(arg, ...)". Named arguments in braces are
// rejected.
func (p *parser) parseCallArguments() ([]ast.Expression, error) {
	p.next()
	if p.at(token.LBrace) {
		return nil, p.notImplemented("named arguments")
	}
	var args []ast.Expression
	if p.accept(token.RParen) {
		return args, nil
	}
	for {
		arg, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.accept(token.RParen) {
			return args, nil
		}
		if _, err := p.expect(token.Comma); err != nil {
			return nil, err
		}
	}
}

// parseMemberAccess parses ".member", the member must be an identifier.
func (p *parser) parseMemberAccess(start int, base ast.Expression) (ast.Expression, error) {
	p.next()
	tok := p.peek()
	if tok == nil || tok.Kind != token.Identifier {
		return nil, p.unexpected("member name")
	}
	p.next()
	return &ast.MemberAccess{
		Header:     p.header(start),
		Expression: base,
		Member:     tok.Text,
		MemberSpan: tok.Span,
	}, nil
}

// parseIndexAccess parses "[index]", "[]" or the range form "[start:end]".
func (p *parser) parseIndexAccess(start int, base ast.Expression) (ast.Expression, error) {
	p.next()

	var (
		first ast.Expression
		err   error
	)
	if !p.at(token.RBrack) && !p.at(token.Colon) {
		if first, err = p.parseExpression(0); err != nil {
			return nil, err
		}
	}
	if p.accept(token.Colon) {
		var end ast.Expression
		if !p.at(token.RBrack) {
			if end, err = p.parseExpression(0); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(token.RBrack); err != nil {
			return nil, err
		}
		return &ast.IndexRangeAccess{Header: p.header(start), Base: base, Start: first, End: end}, nil
	}
	if _, err := p.expect(token.RBrack); err != nil {
		return nil, err
	}
	return &ast.IndexAccess{Header: p.header(start), Base: base, Index: first}, nil
}

// parseConditional parses "? a : b" with the right associative ternary
// binding power.
func (p *parser) parseConditional(start int, cond ast.Expression) (ast.Expression, error) {
	p.next()
	yes, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Colon); err != nil {
		return nil, err
	}
	no, err := p.parseExpression(bpTernary - 1)
	if err != nil {
		return nil, err
	}
	return &ast.Conditional{Header: p.header(start), Condition: cond, TrueExpression: yes, FalseExpression: no}, nil
}

// isCallOptions reports whether the brace at the cursor opens a call option
// list, i.e. "{ identifier :".
func (p *parser) isCallOptions() bool {
	name, colon := p.peekAt(1), p.peekAt(2)
	return name != nil && name.Kind == token.Identifier && colon != nil && colon.Kind == token.Colon
}
