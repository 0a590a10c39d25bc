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

// Package lexer turns Solidity source text into a flat token sequence.
// Package lexer 将 Solidity 源代码转换为扁平的标记序列。
package lexer

import (
	"strings"
	"unicode/utf8"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/log"
	"github.com/sunyihoo/go-solidity/diag"
	"github.com/sunyihoo/go-solidity/token"
)

// stateFn is used through the lifetime of the
// lexer to parse the different values at the
// current state.
// stateFn 在词法分析器的生命周期中用于解析当前状态下的不同值
type stateFn func(*lexer) stateFn

const eof rune = -1

const (
	decimalNumbers = "1234567890"                                           // characters representing any decimal number 表示任何十进制数字的字符
	alpha          = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ" // characters representing letters 表示字母的字符
	identChars     = alpha + "_" + decimalNumbers
)

// reserved holds the keywords Solidity reserves for future use. They are not
// valid identifiers and the compiler does not support them either.
// reserved 保存了 Solidity 保留供将来使用的关键字。
var reserved = mapset.NewThreadUnsafeSet(
	"after", "alias", "apply", "auto", "byte", "copyof", "define", "final",
	"implements", "in", "inline", "macro", "match", "mutable", "null", "of",
	"partial", "promise", "reference", "relocatable", "sealed", "sizeof",
	"static", "supports", "typedef", "typeof", "var",
)

// operator is one spelling in the maximal-munch table.
type operator struct {
	text string
	kind token.Kind
}

// operators lists, per leading character, every operator spelling starting
// with it. Longer spellings come first so the first match is the longest.
// operators 按首字符列出所有运算符拼写，较长的拼写排在前面。
var operators = map[rune][]operator{
	'(': {{"(", token.LParen}},
	')': {{")", token.RParen}},
	'[': {{"[", token.LBrack}},
	']': {{"]", token.RBrack}},
	'{': {{"{", token.LBrace}},
	'}': {{"}", token.RBrace}},
	':': {{":", token.Colon}},
	';': {{";", token.Semicolon}},
	'.': {{".", token.Period}},
	',': {{",", token.Comma}},
	'?': {{"?", token.Conditional}},
	'~': {{"~", token.BitNot}},
	'=': {{"==", token.Equal}, {"=>", token.Arrow}, {"=", token.Assign}},
	'!': {{"!=", token.NotEqual}, {"!", token.Not}},
	'<': {{"<<=", token.AssignShl}, {"<=", token.LessThanOrEqual}, {"<<", token.Shl}, {"<", token.LessThan}},
	'>': {{">>=", token.AssignSar}, {">=", token.GreaterThanOrEqual}, {">>", token.Sar}, {">", token.GreaterThan}},
	'+': {{"+=", token.AssignAdd}, {"++", token.Inc}, {"+", token.Add}},
	'-': {{"-=", token.AssignSub}, {"--", token.Dec}, {"-", token.Sub}},
	'*': {{"**", token.Exp}, {"*=", token.AssignMul}, {"*", token.Mul}},
	'/': {{"/=", token.AssignDiv}, {"/", token.Div}},
	'%': {{"%=", token.AssignMod}, {"%", token.Mod}},
	'&': {{"&&", token.And}, {"&=", token.AssignBitAnd}, {"&", token.BitAnd}},
	'|': {{"||", token.Or}, {"|=", token.AssignBitOr}, {"|", token.BitOr}},
	'^': {{"^=", token.AssignBitXor}, {"^", token.BitXor}},
}

// lexer is the basic construct for parsing
// source code and turning them in to tokens.
// lexer 是解析源代码并将其转换为标记的基本结构。
type lexer struct {
	input  string        // input contains the source code of the program
	tokens []token.Token // tokens collects the emitted tokens in order

	start, pos, width int // positions for lexing and returning value
	err               error
}

// Tokenize lexes the given source in a single forward pass. It returns the
// tokens in source order, or the first error encountered. Empty input yields
// an empty sequence.
// Tokenize 对给定源代码进行单遍词法分析，返回按源代码顺序排列的标记或遇到的第一个错误。
func Tokenize(source string) ([]token.Token, error) {
	l := &lexer{input: source}
	for state := lexSource; state != nil; {
		state = state(l)
	}
	if l.err != nil {
		return nil, l.err
	}
	log.Trace("Tokenized source", "bytes", len(source), "tokens", len(l.tokens))
	return l.tokens, nil
}

// next returns the next rune in the program's source.
// next 返回程序源代码中的下一个符文
func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += w
	return r
}

// backup backsup the last parsed element (multi-character)
// backup 备份最后解析的元素（多字符）
func (l *lexer) backup() {
	l.pos -= l.width
}

// peek returns the next rune but does not advance the seeker
// peek 返回下一个符文但不推进 seeker
func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// peekAt returns the rune n bytes after the current position.
func (l *lexer) peekAt(n int) rune {
	if l.pos+n >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos+n:])
	return r
}

// ignore advances the seeker and ignores the value
// ignore 推进 seeker 并忽略值
func (l *lexer) ignore() {
	l.start = l.pos
}

// accept checks whether the given input matches the next rune
// accept 检查给定输入是否与下一个符文匹配
func (l *lexer) accept(valid string) bool {
	if strings.ContainsRune(valid, l.next()) {
		return true
	}
	l.backup()
	return false
}

// acceptRun will continue to advance the seeker until valid
// can no longer be met.
// acceptRun 将继续推进 seeker，直到 valid 不再满足为止
func (l *lexer) acceptRun(valid string) {
	for strings.ContainsRune(valid, l.next()) {
	}
	l.backup()
}

// acceptRunUntil advances the seeker up to, but not including, the rune
// until. It returns false when the input ends first.
// acceptRunUntil 推进 seeker 直到遇到指定符文（不包含该符文）。
func (l *lexer) acceptRunUntil(until rune) bool {
	for {
		switch l.next() {
		case until:
			l.backup()
			return true
		case eof:
			return false
		}
	}
}

// blob returns the current value
// blob 返回当前值
func (l *lexer) blob() string {
	return l.input[l.start:l.pos]
}

func (l *lexer) span() token.Span {
	return token.Span{Start: l.start, End: l.pos}
}

// emit appends a new token built from the current blob.
// emit 将由当前值构建的新标记追加到标记序列中
func (l *lexer) emit(kind token.Kind, size int) {
	l.tokens = append(l.tokens, token.Token{Kind: kind, Text: l.blob(), Size: size, Span: l.span()})
	l.start = l.pos
}

// fail records err and stops the state machine.
func (l *lexer) fail(err error) stateFn {
	l.err = err
	return nil
}

func (l *lexer) failLex(kind diag.LexErrorKind) stateFn {
	return l.fail(&diag.LexError{Kind: kind, Text: l.blob(), Span: l.span()})
}

func (l *lexer) notImplemented(feature string) stateFn {
	return l.fail(diag.NotImplemented(feature, l.span()))
}

// lexSource is the main state, it dispatches on the first rune of every
// lexeme.
// lexSource 是主状态函数，根据每个词素的第一个符文进行分派
func lexSource(l *lexer) stateFn {
	for {
		switch r := l.next(); {
		case r == eof:
			return nil
		case isSpace(r):
			l.ignore()
		case r == '/' && l.peek() == '/':
			return lexLineComment
		case r == '/' && l.peek() == '*':
			return lexBlockComment
		case isDigit(r):
			return lexNumber
		case isIdentStart(r):
			return lexIdentifier
		case r == '"' || r == '\'':
			return l.notImplemented("string literal")
		default:
			l.backup()
			return lexOperator
		}
	}
}

// lexLineComment parses the current position until the end
// of the line and discards the text.
// lexLineComment 解析当前位置直到行尾并丢弃文本
func lexLineComment(l *lexer) stateFn {
	l.acceptRunUntil('\n')
	l.ignore()
	return lexSource
}

// lexBlockComment discards everything up to and including the first "*/".
// Block comments do not nest.
// lexBlockComment 丢弃直到第一个 "*/"（包含）的所有内容，块注释不可嵌套
func lexBlockComment(l *lexer) stateFn {
	l.next() // the '*' of the opening "/*"
	for {
		switch r := l.next(); {
		case r == eof:
			return l.failLex(diag.UnterminatedComment)
		case r == '*' && l.peek() == '/':
			l.next()
			l.ignore()
			return lexSource
		}
	}
}

// lexNumber lexes a decimal number. Hex, rational and scientific notations
// are recognised only to reject them explicitly.
// lexNumber 解析十进制数字。十六进制、有理数和科学计数法只会被识别以便显式拒绝。
func lexNumber(l *lexer) stateFn {
	if l.blob() == "0" && (l.peek() == 'x' || l.peek() == 'X') {
		l.next()
		l.acceptRun(identChars)
		return l.notImplemented("hex number literal")
	}
	l.acceptRun(decimalNumbers)

	switch next := l.peekAt(1); l.peek() {
	case '.':
		if isDigit(next) {
			l.next()
			l.acceptRun(decimalNumbers)
			return l.notImplemented("rational number literal")
		}
	case 'e', 'E':
		if isDigit(next) || next == '-' {
			l.next()
			l.acceptRun(decimalNumbers + "-")
			return l.notImplemented("scientific number literal")
		}
	}
	l.emit(token.NumberLiteral, 0)
	return lexSource
}

// lexIdentifier lexes an identifier and classifies it as a reserved word, a
// keyword, an elementary type name or a plain identifier.
// lexIdentifier 解析标识符，并将其归类为保留字、关键字、基本类型名或普通标识符
func lexIdentifier(l *lexer) stateFn {
	l.acceptRun(identChars)

	text := l.blob()
	if reserved.Contains(text) {
		return l.failLex(diag.ReservedKeyword)
	}
	if (text == "hex" || text == "unicode") && (l.peek() == '"' || l.peek() == '\'') {
		return l.notImplemented(text + " string literal")
	}
	kind, size := token.Lookup(text)
	l.emit(kind, size)

	if kind == token.Pragma {
		return lexPragma
	}
	return lexSource
}

// lexPragma captures the raw text of a pragma directive up to, but not
// including, the terminating semicolon.
// lexPragma 捕获 pragma 指令的原始文本，直到结束分号（不包含分号）
func lexPragma(l *lexer) stateFn {
	for isSpace(l.peek()) {
		l.next()
	}
	l.ignore()
	l.acceptRunUntil(';')

	raw := l.blob()
	if trimmed := strings.TrimRight(raw, " \t\r\n"); trimmed != "" {
		l.pos = l.start + len(trimmed)
		l.emit(token.PragmaValue, 0)
	}
	return lexSource
}

// lexOperator lexes punctuation and operators by maximal munch.
// lexOperator 以最长匹配原则解析标点符号和运算符
func lexOperator(l *lexer) stateFn {
	r := l.next()
	for _, op := range operators[r] {
		if strings.HasPrefix(l.input[l.start:], op.text) {
			l.pos = l.start + len(op.text)
			l.emit(op.kind, 0)
			return lexSource
		}
	}
	return l.failLex(diag.UnrecognizedSymbol)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
