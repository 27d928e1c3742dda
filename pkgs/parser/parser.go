// Package parser implements a recursive-descent, one-token-lookahead parser
// that turns a Lox token stream into a statement list, following the grammar:
//
//	program    -> declaration* EOF
//	declaration-> varDecl | funDecl | statement
//	statement  -> exprStmt | forStmt | ifStmt | printStmt
//	            | returnStmt | whileStmt | block
//	assignment -> IDENTIFIER "=" assignment | logic_or
//	logic_or   -> logic_and ( "or" logic_and )*
//	logic_and  -> equality   ( "and" equality )*
//	equality   -> comparison ( ( "!=" | "==" ) comparison )*
//	comparison -> term       ( ( ">" | ">=" | "<" | "<=" ) term )*
//	term       -> factor     ( ( "-" | "+" ) factor )*
//	factor     -> unary      ( ( "/" | "*" ) unary )*
//	unary      -> ( "!" | "-" ) unary | call
//	call       -> primary ( "(" arguments? ")" )*
//	primary    -> NUMBER | STRING | "true" | "false" | "nil"
//	            | "(" expression ")" | IDENTIFIER
package parser

import (
	"strconv"

	"github.com/aledsdavies/lox/pkgs/ast"
	lerrors "github.com/aledsdavies/lox/pkgs/errors"
	"github.com/aledsdavies/lox/pkgs/lexer"
	"github.com/aledsdavies/lox/pkgs/token"
)

const maxArgs = 255

// Parser trusts the lexer to have already tokenized the input and focuses
// purely on assembling the statement list, collecting every distinct syntax
// error it can find in one pass rather than aborting at the first one.
type Parser struct {
	input    string
	tokens   []token.Token
	pos      int
	reporter *lerrors.Reporter
}

// Parse tokenizes and parses src, reporting every error through reporter and
// returning the statement list assembled so far. Per the core language's
// contract, the caller must check reporter.HadError() and must not evaluate
// a program that failed to parse.
func Parse(src string, reporter *lerrors.Reporter) []ast.Stmt {
	toks := lexer.New(src, reporter).ScanTokens()
	p := &Parser{input: src, tokens: toks, reporter: reporter}
	var stmts []ast.Stmt
	for !p.isAtEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

// --- Declarations ---

func (p *Parser) declaration() ast.Stmt {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.synchronize()
				return
			}
			panic(r)
		}
	}()

	switch {
	case p.match(token.VAR):
		return p.varDecl()
	case p.match(token.FUN):
		return p.function("function")
	default:
		return p.statement()
	}
}

func (p *Parser) varDecl() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "expect variable name")
	var initializer ast.Expr
	if p.match(token.EQUAL) {
		initializer = p.expression()
	}
	p.consume(token.SEMICOLON, "expect ';' after variable declaration")
	return &ast.VarStmt{Name: name, Initializer: initializer}
}

func (p *Parser) function(kind string) *ast.FunctionStmt {
	name := p.consume(token.IDENTIFIER, "expect "+kind+" name")
	p.consume(token.LPAREN, "expect '(' after "+kind+" name")
	var params []token.Token
	if !p.check(token.RPAREN) {
		for {
			if len(params) >= maxArgs {
				p.errorAt(p.current(), "can't have more than 255 parameters")
			}
			params = append(params, p.consume(token.IDENTIFIER, "expect parameter name"))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "expect ')' after parameters")
	p.consume(token.LBRACE, "expect '{' before "+kind+" body")
	body := p.block()
	return &ast.FunctionStmt{Name: name, Params: params, Body: body}
}

// --- Statements ---

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.LBRACE):
		return &ast.BlockStmt{Statements: p.block()}
	case p.check(token.CLASS):
		p.errorAt(p.current(), "classes are not implemented")
		panic(parseError{})
	default:
		return p.expressionStatement()
	}
}

// forStatement desugars `for (init; cond; incr) body` into
// Block([ init?, While(cond ?? true, Block([ body, Expression(incr) ])) ]),
// omitting the outer Block when init is absent and the inner
// Expression(incr) wrapping when incr is absent.
func (p *Parser) forStatement() ast.Stmt {
	p.consume(token.LPAREN, "expect '(' after 'for'")

	var initializer ast.Stmt
	switch {
	case p.match(token.SEMICOLON):
		// no initializer
	case p.check(token.VAR):
		p.advance()
		initializer = p.varDecl()
	default:
		initializer = p.expressionStatement()
	}

	var condition ast.Expr
	if !p.check(token.SEMICOLON) {
		condition = p.expression()
	}
	p.consume(token.SEMICOLON, "expect ';' after loop condition")

	var increment ast.Expr
	if !p.check(token.RPAREN) {
		increment = p.expression()
	}
	p.consume(token.RPAREN, "expect ')' after for clauses")

	body := p.statement()

	if increment != nil {
		body = &ast.BlockStmt{Statements: []ast.Stmt{body, &ast.ExpressionStmt{Expression: increment}}}
	}
	if condition == nil {
		condition = &ast.Literal{Kind: token.BooleanLiteral, Bool: true}
	}
	body = &ast.WhileStmt{Condition: condition, Body: body}

	if initializer != nil {
		body = &ast.BlockStmt{Statements: []ast.Stmt{initializer, body}}
	}
	return body
}

func (p *Parser) ifStatement() ast.Stmt {
	p.consume(token.LPAREN, "expect '(' after 'if'")
	condition := p.expression()
	p.consume(token.RPAREN, "expect ')' after if condition")

	thenBranch := p.statement()
	var elseBranch ast.Stmt
	if p.match(token.ELSE) {
		elseBranch = p.statement()
	}
	return &ast.IfStmt{Condition: condition, Then: thenBranch, Else: elseBranch}
}

func (p *Parser) printStatement() ast.Stmt {
	value := p.expression()
	p.consume(token.SEMICOLON, "expect ';' after value")
	return &ast.PrintStmt{Expression: value}
}

func (p *Parser) returnStatement() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(token.SEMICOLON) {
		value = p.expression()
	}
	p.consume(token.SEMICOLON, "expect ';' after return value")
	return &ast.ReturnStmt{Keyword: keyword, Value: value}
}

func (p *Parser) whileStatement() ast.Stmt {
	p.consume(token.LPAREN, "expect '(' after 'while'")
	condition := p.expression()
	p.consume(token.RPAREN, "expect ')' after condition")
	body := p.statement()
	return &ast.WhileStmt{Condition: condition, Body: body}
}

func (p *Parser) block() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.consume(token.RBRACE, "expect '}' after block")
	return stmts
}

func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "expect ';' after expression")
	return &ast.ExpressionStmt{Expression: expr}
}

// --- Expressions ---

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expr {
	expr := p.or()

	if p.match(token.EQUAL) {
		equals := p.previous()
		value := p.assignment() // right-associative

		if v, ok := expr.(*ast.Variable); ok {
			return &ast.Assign{Name: v.Name, Value: value}
		}
		p.errorAt(equals, "invalid assignment target")
		return expr
	}
	return expr
}

func (p *Parser) or() ast.Expr {
	expr := p.and()
	for p.match(token.OR) {
		op := p.previous()
		right := p.and()
		expr = &ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) and() ast.Expr {
	expr := p.equality()
	for p.match(token.AND) {
		op := p.previous()
		right := p.equality()
		expr = &ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.BANG_EQUAL, token.EQUAL_EQUAL) {
		op := p.previous()
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL) {
		op := p.previous()
		right := p.term()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.MINUS, token.PLUS) {
		op := p.previous()
		right := p.factor()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.SLASH, token.STAR) {
		op := p.previous()
		right := p.unary()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.BANG, token.MINUS) {
		op := p.previous()
		right := p.unary()
		return &ast.Unary{Operator: op, Right: right}
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()
	for {
		if p.match(token.LPAREN) {
			expr = p.finishCall(expr)
		} else if p.check(token.DOT) {
			p.errorAt(p.current(), "classes are not implemented")
			panic(parseError{})
		} else {
			break
		}
	}
	return expr
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RPAREN) {
		for {
			if len(args) >= maxArgs {
				p.errorAt(p.current(), "can't have more than 255 arguments")
			}
			args = append(args, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren := p.consume(token.RPAREN, "expect ')' after arguments")
	return &ast.Call{Callee: callee, Paren: paren, Arguments: args}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.FALSE):
		return &ast.Literal{Kind: token.BooleanLiteral, Bool: false}
	case p.match(token.TRUE):
		return &ast.Literal{Kind: token.BooleanLiteral, Bool: true}
	case p.match(token.NIL):
		return &ast.Literal{Kind: token.NoLiteral}
	case p.match(token.NUMBER):
		n, _ := strconv.ParseFloat(p.previous().Lexeme, 64)
		return &ast.Literal{Kind: token.NumberLiteral, Number: n}
	case p.match(token.STRING):
		return &ast.Literal{Kind: token.StringLiteral, Str: p.previous().Literal}
	case p.match(token.SUPER), p.match(token.THIS):
		p.errorAt(p.previous(), "classes are not implemented")
		panic(parseError{})
	case p.match(token.IDENTIFIER):
		return &ast.Variable{Name: p.previous()}
	case p.match(token.LPAREN):
		expr := p.expression()
		p.consume(token.RPAREN, "expect ')' after expression")
		return &ast.Grouping{Expression: expr}
	}

	p.errorAt(p.current(), "expect expression")
	panic(parseError{})
}

// --- Token-stream helpers ---

func (p *Parser) current() token.Token  { return p.tokens[p.pos] }
func (p *Parser) previous() token.Token { return p.tokens[p.pos-1] }

func (p *Parser) isAtEnd() bool { return p.current().Type == token.EOF }

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) check(tt token.Type) bool {
	if p.isAtEnd() {
		return tt == token.EOF
	}
	return p.current().Type == tt
}

func (p *Parser) match(types ...token.Type) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(tt token.Type, message string) token.Token {
	if p.check(tt) {
		return p.advance()
	}
	p.errorAt(p.current(), message)
	panic(parseError{})
}

// parseError is an internal control-flow signal: a production panics with it
// to unwind to declaration(), which recovers and synchronizes. It never
// escapes the package.
type parseError struct{}

func (p *Parser) errorAt(tok token.Token, message string) {
	if s := snippet(p.input, tok); s != "" {
		message = message + "\n" + s
	}
	p.reporter.Report(lerrors.NewParseError(tok.Line, tok.Column, tok.Lexeme, message))
}

// synchronize advances past the failing statement until it reaches a likely
// restart point: the most recently consumed token was ';', or the next token
// begins a new declaration/statement.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == token.SEMICOLON {
			return
		}
		switch p.current().Type {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}
