// Package parser implements component D: a recursive-descent parser with
// panic-mode error recovery that turns a token stream into a syntax tree.
// Unlike its teacher ancestor, this parser does no scope tracking of its
// own — every Variable/Assign/This/Super node it produces carries
// ast.UnresolvedDistance, and a separate resolver pass (component E)
// fills in Distance/Slot and enforces the static errors that depend on
// lexical context (undeclared-self-reference, this/super/break outside
// their contexts, redeclaration, self-inheriting classes). Keeping those
// two passes independent keeps their test surfaces independent too.
package parser

import (
	"fmt"

	"github.com/gregor-rust/loxwalk/ast"
	"github.com/gregor-rust/loxwalk/scanner"
	"github.com/gregor-rust/loxwalk/token"
)

const maxCallArguments = 255

// Error is a parse-time failure: a syntax error, or an invalid
// assignment target.
type Error struct {
	Line    int
	Token   token.Token
	Message string
}

func (e *Error) Error() string {
	at := "'" + e.Token.Lexeme + "'"
	if e.Token.Kind == token.END_OF_FILE {
		at = "end"
	}
	return fmt.Sprintf("[line %d] Error at %s: %s", e.Line, at, e.Message)
}

// syntaxError is panicked internally to unwind to the nearest
// synchronization point; it never escapes Parse.
type syntaxError struct{}

// Parser turns a token stream into a []ast.Stmt.
type Parser struct {
	toks []token.Token
	pos  int
	errs []*Error
}

// New builds a Parser over already-scanned tokens.
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse scans and parses source in one call, returning the statements and
// every scan or parse error encountered. Callers must not evaluate the
// result if len(errs) > 0.
func Parse(source string) ([]ast.Stmt, []error) {
	toks, scanErrs := scanner.ScanTokens(source)
	p := New(toks)
	stmts := p.Parse()

	var errs []error
	for _, e := range scanErrs {
		errs = append(errs, e)
	}
	for _, e := range p.errs {
		errs = append(errs, e)
	}
	return stmts, errs
}

// Errors returns every parse error collected during Parse.
func (p *Parser) Errors() []*Error {
	return p.errs
}

// Parse runs to completion, collecting as many errors as possible via
// panic-mode recovery at statement boundaries.
func (p *Parser) Parse() []ast.Stmt {
	var stmts []ast.Stmt

	for !p.check(token.END_OF_FILE) {
		if stmt := p.declarationRecovering(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	return stmts
}

func (p *Parser) declarationRecovering() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(syntaxError); !ok {
				panic(r)
			}
			p.synchronize()
			stmt = nil
		}
	}()

	return p.declaration()
}

// Statement parsing
// --------------------------------------------------------

func (p *Parser) declaration() ast.Stmt {
	switch {
	case p.match(token.CLASS):
		return p.classDeclaration()
	case p.match(token.FUN):
		return p.function(ast.KindFunction)
	case p.match(token.VAR):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expect class name.")

	var superclass *ast.Variable
	if p.match(token.LESS) {
		sname := p.consume(token.IDENTIFIER, "Expect superclass name.")
		superclass = &ast.Variable{Name: sname, Distance: ast.UnresolvedDistance}
	}

	p.consume(token.LEFT_BRACE, "Expect '{' before class body.")

	var methods []*ast.Function
	for !p.check(token.RIGHT_BRACE) && !p.check(token.END_OF_FILE) {
		kind := ast.KindMethod
		if p.current().Lexeme == "init" {
			kind = ast.KindInitializer
		}
		// If multiple methods share a name, the interpreter keeps the
		// last one declared when it builds the runtime method table.
		methods = append(methods, p.function(kind))
	}

	p.consume(token.RIGHT_BRACE, "Expect '}' after class body.")
	return &ast.Class{Name: name, Superclass: superclass, Methods: methods}
}

// function parses a function, method, or initializer body. Which one it
// is purely a matter of where it's invoked from (top level vs. inside a
// class body); the resolver, not the parser, decides whether that's
// actually legal in context.
func (p *Parser) function(kind ast.FunctionKind) *ast.Function {
	word := kind.String()
	name := p.consume(token.IDENTIFIER, "Expect "+word+" name.")

	p.consume(token.LEFT_PAREN, "Expect '(' after "+word+" name.")
	var params []token.Token
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(params) >= maxCallArguments {
				p.errorAt(p.current(), fmt.Sprintf("Can't have more than %d parameters.", maxCallArguments))
			}
			params = append(params, p.consume(token.IDENTIFIER, "Expect parameter name."))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after parameters.")

	p.consume(token.LEFT_BRACE, "Expect '{' before "+word+" body.")
	body := p.blockBody()

	return &ast.Function{Name: name, Kind: kind, Params: params, Body: body}
}

func (p *Parser) varDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expect a variable name.")

	var init ast.Expr = &ast.Literal{Value: nil}
	if p.match(token.EQUAL) {
		init = p.expression()
	}

	p.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	return &ast.Var{Name: name, Initializer: init}
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.BREAK):
		return p.breakStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.LEFT_BRACE):
		return ast.NewBlock(p.blockBody()...)
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) printStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after expression.")
	return &ast.Print{Expression: expr}
}

func (p *Parser) breakStatement() ast.Stmt {
	kw := p.previous()
	p.consume(token.SEMICOLON, "Expect ';' after 'break'.")
	return &ast.Break{Keyword: kw}
}

func (p *Parser) returnStatement() ast.Stmt {
	kw := p.previous()
	var value ast.Expr
	if !p.check(token.SEMICOLON) {
		value = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after return value.")
	return &ast.Return{Keyword: kw, Value: value}
}

func (p *Parser) ifStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'if'.")
	cond := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after if condition.")

	thenBranch := p.statement()
	var elseBranch ast.Stmt
	if p.match(token.ELSE) {
		elseBranch = p.statement()
	}
	return &ast.If{Condition: cond, ThenBranch: thenBranch, ElseBranch: elseBranch}
}

func (p *Parser) whileStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'while'.")
	cond := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after while condition.")
	body := p.statement()
	return &ast.While{Condition: cond, Body: body}
}

// forStatement desugars `for (init; cond; incr) body` into
// block(init?; while(cond ?? true, block(body, incr?))) at parse time,
// since the grammar only has a real while loop.
func (p *Parser) forStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'for'.")

	var init ast.Stmt
	switch {
	case p.match(token.SEMICOLON):
		init = nil
	case p.match(token.VAR):
		init = p.varDeclaration()
	default:
		init = p.expressionStatement()
	}

	var cond ast.Expr = &ast.Literal{Value: true}
	if !p.check(token.SEMICOLON) {
		cond = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after loop condition.")

	var incr ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		incr = p.expression()
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after for clauses.")

	body := p.statement()
	if incr != nil {
		body = ast.NewBlock(body, &ast.Expression{Expression: incr})
	}

	loop := &ast.While{Condition: cond, Body: body}
	return ast.NewBlock(init, loop)
}

// blockBody parses `declaration* "}"` without wrapping it in a Block —
// callers that share the scope with something else (function bodies with
// their parameter list) decide that for themselves.
func (p *Parser) blockBody() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RIGHT_BRACE) && !p.check(token.END_OF_FILE) {
		stmts = append(stmts, p.declaration())
	}
	p.consume(token.RIGHT_BRACE, "Expect '}' after block.")
	return stmts
}

func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after expression.")
	return &ast.Expression{Expression: expr}
}

// Expression parsing
// --------------------------------------------------------

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expr {
	expr := p.or()

	if p.match(token.EQUAL) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Target: target, Value: value}
		case *ast.Get:
			return &ast.Set{Object: target.Object, Name: target.Name, Value: value}
		default:
			p.errorAt(equals, "Invalid assignment target.")
			return expr
		}
	}

	return expr
}

func (p *Parser) or() ast.Expr {
	expr := p.and()
	for p.match(token.OR) {
		op := p.previous()
		right := p.and()
		expr = &ast.Logical{Operator: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) and() ast.Expr {
	expr := p.equality()
	for p.match(token.AND) {
		op := p.previous()
		right := p.equality()
		expr = &ast.Logical{Operator: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.matchAny(token.EQUAL_EQUAL, token.BANG_EQUAL) {
		op := p.previous()
		right := p.comparison()
		expr = &ast.Binary{Operator: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for p.matchAny(token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL) {
		op := p.previous()
		right := p.term()
		expr = &ast.Binary{Operator: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.matchAny(token.PLUS, token.MINUS) {
		op := p.previous()
		right := p.factor()
		expr = &ast.Binary{Operator: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.matchAny(token.STAR, token.SLASH) {
		op := p.previous()
		right := p.unary()
		expr = &ast.Binary{Operator: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.matchAny(token.BANG, token.MINUS) {
		op := p.previous()
		right := p.unary()
		return &ast.Unary{Operator: op, Right: right}
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()

	for {
		switch {
		case p.match(token.LEFT_PAREN):
			expr = p.finishCall(expr)
		case p.match(token.DOT):
			name := p.consume(token.IDENTIFIER, "Expect property name after '.'.")
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(args) >= maxCallArguments {
				p.errorAt(p.current(), fmt.Sprintf("Can't have more than %d arguments.", maxCallArguments))
			}
			args = append(args, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren := p.consume(token.RIGHT_PAREN, "Expect ')' after arguments.")
	return &ast.Call{Callee: callee, Paren: paren, Arguments: args}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.FALSE):
		return &ast.Literal{Value: false}
	case p.match(token.TRUE):
		return &ast.Literal{Value: true}
	case p.match(token.NIL):
		return &ast.Literal{Value: nil}
	case p.matchAny(token.NUMBER, token.STRING):
		return &ast.Literal{Value: p.previous().Literal}
	case p.match(token.THIS):
		return &ast.This{Keyword: p.previous(), Distance: ast.UnresolvedDistance}
	case p.match(token.SUPER):
		return p.superExpr()
	case p.match(token.IDENTIFIER):
		return &ast.Variable{Name: p.previous(), Distance: ast.UnresolvedDistance}
	case p.match(token.LEFT_PAREN):
		expr := p.expression()
		p.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
		return &ast.Grouping{Expr: expr}
	}

	p.errorAt(p.current(), "Expect expression.")
	panic(syntaxError{})
}

func (p *Parser) superExpr() ast.Expr {
	kw := p.previous()
	p.consume(token.DOT, "Expect '.' after 'super'.")
	method := p.consume(token.IDENTIFIER, "Expect superclass method name.")
	return &ast.Super{Keyword: kw, Method: method, Distance: ast.UnresolvedDistance}
}

// Token stream helpers
// --------------------------------------------------------

func (p *Parser) errorAt(tok token.Token, message string) {
	p.errs = append(p.errs, &Error{Line: tok.Line, Token: tok, Message: message})
}

func (p *Parser) error(message string) {
	p.errorAt(p.previous(), message)
}

// synchronize discards tokens after an error until it finds something
// that looks like the start of the next statement, so a single mistake
// doesn't cascade into a wall of spurious errors.
func (p *Parser) synchronize() {
	p.advance()

	for !p.check(token.END_OF_FILE) {
		if p.previousKind() == token.SEMICOLON {
			return
		}

		switch p.current().Kind {
		case token.CLASS, token.FUN, token.VAR,
			token.FOR, token.IF, token.WHILE, token.RETURN, token.PRINT:
			return
		}

		p.advance()
	}
}

func (p *Parser) consume(kind token.TokenKind, message string) token.Token {
	if p.check(kind) {
		return p.advance()
	}
	p.error(message)
	panic(syntaxError{})
}

func (p *Parser) matchAny(kinds ...token.TokenKind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) match(kind token.TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) check(kind token.TokenKind) bool {
	return p.current().Kind == kind
}

func (p *Parser) current() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) previous() token.Token {
	return p.toks[p.pos-1]
}

func (p *Parser) previousKind() token.TokenKind {
	if p.pos == 0 {
		return token.INVALID
	}
	return p.toks[p.pos-1].Kind
}

func (p *Parser) advance() token.Token {
	tok := p.current()
	if tok.Kind != token.END_OF_FILE {
		p.pos++
	}
	return tok
}
