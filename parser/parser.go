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

// Package parser builds the syntax tree from a token sequence.
//
// The parser is recursive descent with speculation: every tryParseX method
// either consumes the tokens of its production or restores the cursor and
// reports no match with a nil node, so that the caller can attempt another
// production at the same position. Expressions are parsed with a Pratt loop
// driven by the binding power table in expression.go.
//
// Package parser 从标记序列构建语法树。
// 解析器是带有推测的递归下降解析器：每个 tryParseX 方法要么消费其产生式的标记，
// 要么恢复游标并返回 nil 节点表示不匹配。表达式使用 Pratt 循环解析。
package parser

import (
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/sunyihoo/go-solidity/ast"
	"github.com/sunyihoo/go-solidity/diag"
	"github.com/sunyihoo/go-solidity/lexer"
	"github.com/sunyihoo/go-solidity/token"
)

// parser holds the cursor over the token sequence and the node id counter.
// parser 保存标记序列上的游标和节点 ID 计数器。
type parser struct {
	tokens []token.Token
	pos    int
	nextID ast.NodeID
}

// Parse consumes the whole token sequence into a program. It returns the
// first syntax error encountered.
// Parse 将整个标记序列解析为程序，返回遇到的第一个语法错误。
func Parse(tokens []token.Token) (*ast.Program, error) {
	p := &parser{tokens: tokens}
	program := new(ast.Program)
	for !p.done() {
		unit, err := p.parseSourceUnit()
		if err != nil {
			return nil, err
		}
		program.Units = append(program.Units, unit)
	}
	log.Trace("Parsed program", "tokens", len(tokens), "units", len(program.Units), "nodes", int(p.nextID))
	return program, nil
}

// ParseSource tokenizes and parses the given source text.
func ParseSource(source string) (*ast.Program, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// ParseExpression parses a single expression spanning the whole source.
// It is used by tooling and tests that work on expression fragments.
func ParseExpression(source string) (ast.Expression, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, p.unexpected("end of input")
	}
	return expr, nil
}

// ParseStatement parses a single statement spanning the whole source.
func ParseStatement(source string) (ast.Statement, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, p.unexpected("end of input")
	}
	return stmt, nil
}

// done reports whether all tokens have been consumed.
func (p *parser) done() bool {
	return p.pos >= len(p.tokens)
}

// peek returns the current token, or nil at the end of input.
func (p *parser) peek() *token.Token {
	return p.peekAt(0)
}

// peekAt returns the token n positions ahead of the cursor.
func (p *parser) peekAt(n int) *token.Token {
	if p.pos+n >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos+n]
}

// at reports whether the current token has the given kind.
func (p *parser) at(kind token.Kind) bool {
	tok := p.peek()
	return tok != nil && tok.Kind == kind
}

// atIdent reports whether the current token is the identifier name. The
// contextual words "error", "revert" and "_" are recognised this way.
func (p *parser) atIdent(name string) bool {
	tok := p.peek()
	return tok != nil && tok.Kind == token.Identifier && tok.Text == name
}

// next consumes and returns the current token.
func (p *parser) next() token.Token {
	tok := p.tokens[p.pos]
	p.pos++
	return tok
}

// accept consumes the current token if it has the given kind.
func (p *parser) accept(kind token.Kind) bool {
	if p.at(kind) {
		p.pos++
		return true
	}
	return false
}

// expect consumes a token of the given kind or fails with a ParseError.
func (p *parser) expect(kind token.Kind) (token.Token, error) {
	if !p.at(kind) {
		return token.Token{}, p.unexpected(kind.String())
	}
	return p.next(), nil
}

// unexpected builds a ParseError for the current token.
func (p *parser) unexpected(want string) error {
	tok := p.peek()
	if tok == nil {
		return &diag.ParseError{Got: "end of input", Want: want, Span: p.endSpan()}
	}
	return &diag.ParseError{Got: describe(*tok), Want: want, Span: tok.Span}
}

// notImplemented reports a recognised but unsupported construct at the
// current token.
func (p *parser) notImplemented(feature string) error {
	if tok := p.peek(); tok != nil {
		return diag.NotImplemented(feature, tok.Span)
	}
	return diag.NotImplemented(feature, p.endSpan())
}

// endSpan is the empty span right after the last token.
func (p *parser) endSpan() token.Span {
	if len(p.tokens) == 0 {
		return token.Span{}
	}
	end := p.tokens[len(p.tokens)-1].Span.End
	return token.Span{Start: end, End: end}
}

// start returns the source offset where a production beginning at the
// cursor starts.
func (p *parser) start() int {
	if tok := p.peek(); tok != nil {
		return tok.Span.Start
	}
	return p.endSpan().Start
}

// header allocates a fresh node id for a node spanning from start up to the
// end of the last consumed token.
// header 为从 start 到最后一个已消费标记结尾的节点分配新的节点 ID。
func (p *parser) header(start int) ast.Header {
	end := start
	if p.pos > 0 {
		end = p.tokens[p.pos-1].Span.End
	}
	p.nextID++
	return ast.Header{NodeID: p.nextID, Source: token.Span{Start: start, End: end}}
}

// headerOf allocates a node id for a node covering exactly span.
func (p *parser) headerOf(span token.Span) ast.Header {
	p.nextID++
	return ast.Header{NodeID: p.nextID, Source: span}
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.Identifier, token.NumberLiteral, token.PragmaValue:
		return fmt.Sprintf("%v %q", tok.Kind, tok.Text)
	}
	if tok.Kind.IsKeyword() {
		return fmt.Sprintf("keyword %q", tok.Text)
	}
	return fmt.Sprintf("%q", tok.Text)
}
