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
	"github.com/sunyihoo/go-solidity/diag"
	"github.com/sunyihoo/go-solidity/token"
)

// parseBlock parses "{ statements }".
func (p *parser) parseBlock() (*ast.Block, error) {
	start := p.start()
	stmts, err := p.parseStatementList()
	if err != nil {
		return nil, err
	}
	return &ast.Block{Header: p.header(start), Statements: stmts}, nil
}

// parseStatementList parses the braces of a block and the statements inside.
func (p *parser) parseStatementList() ([]ast.Statement, error) {
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	var stmts []ast.Statement
	for !p.accept(token.RBrace) {
		if p.done() {
			return nil, p.unexpected(token.RBrace.String())
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// parseStatement dispatches on the leading token of a statement.
// parseStatement 根据语句的首个标记进行分派。
func (p *parser) parseStatement() (ast.Statement, error) {
	tok := p.peek()
	if tok == nil {
		return nil, p.unexpected("statement")
	}
	start := tok.Span.Start

	switch tok.Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.Unchecked:
		p.next()
		stmts, err := p.parseStatementList()
		if err != nil {
			return nil, err
		}
		return &ast.UncheckedBlock{Header: p.header(start), Statements: stmts}, nil
	case token.If:
		return p.parseIf()
	case token.For:
		return p.parseFor()
	case token.While:
		return p.parseWhile()
	case token.Do:
		return p.parseDoWhile()
	case token.Continue:
		p.next()
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		return &ast.Continue{Header: p.header(start)}, nil
	case token.Break:
		p.next()
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		return &ast.Break{Header: p.header(start)}, nil
	case token.Return:
		return p.parseReturn()
	case token.Emit:
		p.next()
		call, err := p.parseCallStatement("emit")
		if err != nil {
			return nil, err
		}
		return &ast.EmitStatement{Header: p.header(start), Call: call}, nil
	case token.Assembly:
		return nil, p.notImplemented("inline assembly")
	case token.Try:
		return nil, p.notImplemented("try statement")
	case token.Identifier:
		if stmt := p.tryParsePlaceholder(); stmt != nil {
			return stmt, nil
		}
		if next := p.peekAt(1); tok.Text == "revert" && next != nil && next.Kind == token.Identifier {
			p.next()
			call, err := p.parseCallStatement("revert")
			if err != nil {
				return nil, err
			}
			return &ast.RevertStatement{Header: p.header(start), Call: call}, nil
		}
	}
	if stmt, err := p.tryParseVariableDeclarationStatement(); err != nil {
		return nil, err
	} else if stmt != nil {
		return stmt, nil
	}
	return p.parseExpressionStatement()
}

// parseCallStatement parses the "call(args);" part of emit and revert, the
// expression must be a function call.
func (p *parser) parseCallStatement(keyword string) (*ast.FunctionCall, error) {
	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	call, ok := expr.(*ast.FunctionCall)
	if !ok {
		return nil, &diag.ParseError{Got: "expression", Want: "function call after " + keyword, Span: expr.Span()}
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return call, nil
}

// tryParsePlaceholder matches the modifier placeholder "_;".
func (p *parser) tryParsePlaceholder() ast.Statement {
	if !p.atIdent("_") {
		return nil
	}
	if next := p.peekAt(1); next == nil || next.Kind != token.Semicolon {
		return nil
	}
	start := p.start()
	p.next()
	p.next()
	return &ast.PlaceholderStatement{Header: p.header(start)}
}

func (p *parser) parseIf() (*ast.IfStatement, error) {
	start := p.start()
	p.next()

	cond, err := p.parseParenthesized()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStatement{Condition: cond}
	if stmt.TrueBody, err = p.parseStatement(); err != nil {
		return nil, err
	}
	if p.accept(token.Else) {
		if stmt.FalseBody, err = p.parseStatement(); err != nil {
			return nil, err
		}
	}
	stmt.Header = p.header(start)
	return stmt, nil
}

// parseFor parses "for (init; cond; loop) body" where every part between the
// parentheses is optional.
func (p *parser) parseFor() (*ast.ForStatement, error) {
	start := p.start()
	p.next()
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	stmt := new(ast.ForStatement)

	var err error
	if !p.accept(token.Semicolon) {
		// The init statement consumes its own semicolon.
		decl, err := p.tryParseVariableDeclarationStatement()
		if err != nil {
			return nil, err
		}
		if decl != nil {
			stmt.Init = decl
		} else if stmt.Init, err = p.parseExpressionStatement(); err != nil {
			return nil, err
		}
	}
	if !p.at(token.Semicolon) {
		if stmt.Condition, err = p.parseExpression(0); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	if !p.at(token.RParen) {
		if stmt.Loop, err = p.parseExpression(0); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	if stmt.Body, err = p.parseStatement(); err != nil {
		return nil, err
	}
	stmt.Header = p.header(start)
	return stmt, nil
}

func (p *parser) parseWhile() (*ast.WhileStatement, error) {
	start := p.start()
	p.next()

	cond, err := p.parseParenthesized()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Header: p.header(start), Condition: cond, Body: body}, nil
}

func (p *parser) parseDoWhile() (*ast.DoWhileStatement, error) {
	start := p.start()
	p.next()

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.While); err != nil {
		return nil, err
	}
	cond, err := p.parseParenthesized()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.DoWhileStatement{Header: p.header(start), Body: body, Condition: cond}, nil
}

func (p *parser) parseReturn() (*ast.Return, error) {
	start := p.start()
	p.next()

	stmt := new(ast.Return)
	if !p.at(token.Semicolon) {
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		stmt.Expression = expr
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	stmt.Header = p.header(start)
	return stmt, nil
}

// parseParenthesized parses "( expr )".
func (p *parser) parseParenthesized() (ast.Expression, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *parser) parseExpressionStatement() (*ast.ExpressionStatement, error) {
	start := p.start()
	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Header: p.header(start), Expression: expr}, nil
}

// tryParseVariableDeclarationStatement matches
//
//	type [location] name [= expr];
//	(type [location] name, , ...) = expr;
//
// and restores the cursor when the tokens turn out to start an expression.
// tryParseVariableDeclarationStatement 匹配变量声明语句，若标记实际是表达式的开头则恢复游标。
func (p *parser) tryParseVariableDeclarationStatement() (*ast.VariableDeclarationStatement, error) {
	start := p.start()
	mark := p.pos

	var decls []*ast.VariableDeclaration
	if p.at(token.LParen) {
		list, err := p.tryParseDeclarationTuple()
		if err != nil || list == nil {
			p.pos = mark
			return nil, err
		}
		decls = list
	} else {
		decl, err := p.tryParseLocalVariable()
		if err != nil || decl == nil {
			p.pos = mark
			return nil, err
		}
		decls = []*ast.VariableDeclaration{decl}
	}
	stmt := &ast.VariableDeclarationStatement{Declarations: decls}
	if len(decls) > 1 || p.at(token.Assign) {
		if _, err := p.expect(token.Assign); err != nil {
			return nil, err
		}
		init, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		stmt.Initial = init
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	stmt.Header = p.header(start)
	return stmt, nil
}

// tryParseDeclarationTuple matches "(decl, , decl)" followed by "=". Empty
// components are kept as nil entries.
func (p *parser) tryParseDeclarationTuple() ([]*ast.VariableDeclaration, error) {
	p.next()

	var (
		decls []*ast.VariableDeclaration
		named int
	)
	for {
		if p.at(token.Comma) || p.at(token.RParen) {
			decls = append(decls, nil)
		} else {
			decl, err := p.tryParseLocalVariable()
			if err != nil || decl == nil {
				return nil, err
			}
			decls = append(decls, decl)
			named++
		}
		if p.accept(token.RParen) {
			break
		}
		if !p.accept(token.Comma) {
			return nil, nil
		}
	}
	if named == 0 || !p.at(token.Assign) {
		return nil, nil
	}
	return decls, nil
}

// tryParseLocalVariable matches "type [location] name".
func (p *parser) tryParseLocalVariable() (*ast.VariableDeclaration, error) {
	start := p.start()
	typ, err := p.parseTypeName()
	if err != nil || typ == nil {
		return nil, err
	}
	decl := &ast.VariableDeclaration{Type: typ}
	if tok := p.peek(); tok != nil && tok.Kind.IsDataLocation() {
		decl.Location = p.next().Kind
	}
	if !p.at(token.Identifier) {
		return nil, nil
	}
	decl.Name = p.next().Text
	decl.Header = p.header(start)
	return decl, nil
}
