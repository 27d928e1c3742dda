// Package lexer turns Lox source text into a stream of tokens.
package lexer

import (
	"strconv"

	"github.com/aledsdavies/lox/pkgs/errors"
	"github.com/aledsdavies/lox/pkgs/token"
)

// ASCII character-class lookup tables, built once so classification in the hot
// scanning loop is a single array index rather than a chain of comparisons.
var (
	isDigit      [128]bool
	isIdentStart [128]bool
	isIdentPart  [128]bool
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		isDigit[i] = ch >= '0' && ch <= '9'
		isIdentStart[i] = (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
		isIdentPart[i] = isIdentStart[i] || isDigit[i]
	}
}

// Lexer scans a Lox source string into tokens, left to right, in one pass.
type Lexer struct {
	input    string
	start    int // byte offset where the token under scan began
	current  int // next byte to consume
	line     int // current line, 1-based
	column   int // column of the next byte to consume, 1-based
	startLoc position
	reporter *errors.Reporter
}

// position is a line/column snapshot taken at the start of a token.
type position struct {
	line, column int
}

// New creates a Lexer over input, reporting lexical errors through reporter.
func New(input string, reporter *errors.Reporter) *Lexer {
	return &Lexer{input: input, line: 1, column: 1, reporter: reporter}
}

// ScanTokens scans the entire input and returns the token sequence, always
// terminated by exactly one EOF token.
func (l *Lexer) ScanTokens() []token.Token {
	var tokens []token.Token
	for {
		t, ok := l.scanToken()
		if ok {
			tokens = append(tokens, t)
		}
		if t.Type == token.EOF {
			return tokens
		}
	}
}

// scanToken scans and returns the next token. ok is false for bytes that
// produced no token (illegal characters) — the caller keeps scanning.
func (l *Lexer) scanToken() (token.Token, bool) {
	l.skipWhitespaceAndComments()
	l.start = l.current
	l.startLoc = position{l.line, l.column}

	if l.isAtEnd() {
		return l.makeToken(token.EOF), true
	}

	ch := l.advance()

	switch {
	case ch == '(':
		return l.makeToken(token.LPAREN), true
	case ch == ')':
		return l.makeToken(token.RPAREN), true
	case ch == '{':
		return l.makeToken(token.LBRACE), true
	case ch == '}':
		return l.makeToken(token.RBRACE), true
	case ch == ',':
		return l.makeToken(token.COMMA), true
	case ch == '.':
		return l.makeToken(token.DOT), true
	case ch == '-':
		return l.makeToken(token.MINUS), true
	case ch == '+':
		return l.makeToken(token.PLUS), true
	case ch == ';':
		return l.makeToken(token.SEMICOLON), true
	case ch == '*':
		return l.makeToken(token.STAR), true
	case ch == '/':
		return l.makeToken(token.SLASH), true
	case ch == '!':
		if l.match('=') {
			return l.makeToken(token.BANG_EQUAL), true
		}
		return l.makeToken(token.BANG), true
	case ch == '=':
		if l.match('=') {
			return l.makeToken(token.EQUAL_EQUAL), true
		}
		return l.makeToken(token.EQUAL), true
	case ch == '<':
		if l.match('=') {
			return l.makeToken(token.LESS_EQUAL), true
		}
		return l.makeToken(token.LESS), true
	case ch == '>':
		if l.match('=') {
			return l.makeToken(token.GREATER_EQUAL), true
		}
		return l.makeToken(token.GREATER), true
	case ch == '"':
		return l.scanString()
	case isDigitByte(ch):
		return l.scanNumber(), true
	case isIdentStartByte(ch):
		return l.scanIdentifier(), true
	default:
		l.reporter.Report(errors.NewLexError(l.startLoc.line, "unexpected character '"+string(ch)+"'"))
		return token.Token{}, false
	}
}

// skipWhitespaceAndComments advances past spaces, tabs, carriage returns,
// newlines (incrementing the line counter), and "//" line comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for !l.isAtEnd() {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.advance()
		case '\n':
			l.advance()
		case '/':
			if l.peekAt(1) == '/' {
				for !l.isAtEnd() && l.peek() != '\n' {
					l.advance()
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

// scanString consumes a "..." literal. The opening quote has already been
// consumed by the caller. Embedded newlines increment the line counter; an
// unterminated string fails at the opening line.
func (l *Lexer) scanString() (token.Token, bool) {
	for !l.isAtEnd() && l.peek() != '"' {
		l.advance()
	}
	if l.isAtEnd() {
		l.reporter.Report(errors.NewLexError(l.startLoc.line, "unterminated string"))
		return token.Token{}, false
	}
	value := l.input[l.start+1 : l.current]
	l.advance() // closing quote
	t := l.makeToken(token.STRING)
	t.Kind = token.StringLiteral
	t.Literal = value
	return t, true
}

// scanNumber consumes digits, optionally followed by a '.' and more digits.
// A '.' is only consumed as a decimal point when followed by at least one digit.
func (l *Lexer) scanNumber() token.Token {
	for !l.isAtEnd() && isDigitByte(l.peek()) {
		l.advance()
	}
	if !l.isAtEnd() && l.peek() == '.' && isDigitByte(l.peekAt(1)) {
		l.advance() // consume '.'
		for !l.isAtEnd() && isDigitByte(l.peek()) {
			l.advance()
		}
	}
	lexeme := l.input[l.start:l.current]
	n, _ := strconv.ParseFloat(lexeme, 64)
	t := l.makeToken(token.NUMBER)
	t.Kind = token.NumberLiteral
	t.Number = n
	return t
}

// scanIdentifier consumes an identifier and classifies it as a keyword or a
// plain identifier against the reserved-word table.
func (l *Lexer) scanIdentifier() token.Token {
	for !l.isAtEnd() && isIdentPartByte(l.peek()) {
		l.advance()
	}
	lexeme := l.input[l.start:l.current]
	tt := token.IDENTIFIER
	if kw, ok := token.Keywords[lexeme]; ok {
		tt = kw
	}
	t := l.makeToken(tt)
	if tt == token.TRUE || tt == token.FALSE {
		t.Kind = token.BooleanLiteral
		t.Bool = tt == token.TRUE
	}
	return t
}

func (l *Lexer) isAtEnd() bool { return l.current >= len(l.input) }

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.input[l.current]
}

func (l *Lexer) peekAt(offset int) byte {
	idx := l.current + offset
	if idx >= len(l.input) {
		return 0
	}
	return l.input[idx]
}

// advance consumes and returns the current byte, tracking line/column.
func (l *Lexer) advance() byte {
	ch := l.input[l.current]
	l.current++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.input[l.current] != expected {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) makeToken(tt token.Type) token.Token {
	return token.Token{
		Type:   tt,
		Lexeme: l.input[l.start:l.current],
		Line:   l.startLoc.line,
		Column: l.startLoc.column,
	}
}

func isDigitByte(ch byte) bool      { return ch < 128 && isDigit[ch] }
func isIdentStartByte(ch byte) bool { return ch < 128 && isIdentStart[ch] }
func isIdentPartByte(ch byte) bool  { return ch < 128 && isIdentPart[ch] }
