// Package resolver implements spec component E: a static pass over the
// syntax tree that the parser produced, run after parsing and before
// interpretation. It does two things in the same walk: it rewrites every
// ast.Variable/ast.Assign/ast.This/ast.Super node's Distance and Slot so
// the interpreter can fetch locals by a slice index instead of a name
// lookup, and it enforces the errors that only make sense once you know
// where you are (a bare `this`, a `return` outside any function, a loop
// control statement outside any loop, and so on).
//
// The resolver is adapted from the scope-tracking the teacher used to do
// inline inside its parser (parser/locals.go, parser/info.go); splitting
// it into its own pass means the parser only needs to get the grammar
// right, and the resolver's errors can be tested without a parser at all
// by handing it an already-built tree.
package resolver

import (
	"fmt"

	"github.com/gregor-rust/loxwalk/ast"
	"github.com/gregor-rust/loxwalk/token"
)

// Error is a static error detected during resolution: redeclaration, an
// out-of-context this/super/break/return, or a self-inheriting class.
type Error struct {
	Line    int
	Token   token.Token
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[line %d] Error at '%s': %s", e.Line, e.Token.Lexeme, e.Message)
}

type binding struct {
	name    string
	defined bool
}

// scope is one lexical frame; slot is the binding's index in vars, which
// doubles as the frame slot the interpreter will index into at runtime.
type scope struct {
	vars []binding
}

func (s *scope) find(name string) (slot int, defined bool, ok bool) {
	for i, b := range s.vars {
		if b.name == name {
			return i, b.defined, true
		}
	}
	return -1, false, false
}

type functionKind uint8

const (
	noFunction functionKind = iota
	inFunction
	inMethod
	inInitializer
)

type classKind uint8

const (
	noClass classKind = iota
	inClass
	inSubclass
)

// Resolver walks a tree exactly once, front to back, maintaining just
// enough state (the scope stack, and what kind of function/class/loop it
// is currently inside) to answer "how many frames out, and which slot".
type Resolver struct {
	scopes []scope

	currentFunction functionKind
	currentClass    classKind
	loopDepth       int

	errs []*Error
}

// New returns a Resolver ready to resolve a top-level program.
func New() *Resolver {
	return &Resolver{}
}

// Resolve runs the resolver over a parsed program, annotating its nodes
// in place and returning every static error found. The interpreter must
// not run a tree that came back with errors.
func Resolve(stmts []ast.Stmt) []error {
	r := New()
	r.resolveStmts(stmts)

	var errs []error
	for _, e := range r.errs {
		errs = append(errs, e)
	}
	return errs
}

// Statements
// --------------------------------------------------------

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	s.Accept(r)
}

func (r *Resolver) VisitBlockStmt(s *ast.Block) {
	r.beginScope()
	defer r.endScope()
	r.resolveStmts(s.Statements)
}

func (r *Resolver) VisitExpressionStmt(s *ast.Expression) {
	r.resolveExpr(s.Expression)
}

func (r *Resolver) VisitPrintStmt(s *ast.Print) {
	r.resolveExpr(s.Expression)
}

func (r *Resolver) VisitBreakStmt(s *ast.Break) {
	if r.loopDepth == 0 {
		r.error(s.Keyword, "Can't use 'break' outside of a loop.")
	}
}

func (r *Resolver) VisitReturnStmt(s *ast.Return) {
	if r.currentFunction == noFunction {
		r.error(s.Keyword, "Can't return from top-level code.")
	}
	if s.Value != nil {
		if r.currentFunction == inInitializer {
			r.error(s.Keyword, "Can't return a value from an initializer.")
		}
		r.resolveExpr(s.Value)
	}
}

func (r *Resolver) VisitIfStmt(s *ast.If) {
	r.resolveExpr(s.Condition)
	r.resolveStmt(s.ThenBranch)
	if s.ElseBranch != nil {
		r.resolveStmt(s.ElseBranch)
	}
}

func (r *Resolver) VisitWhileStmt(s *ast.While) {
	r.resolveExpr(s.Condition)

	r.loopDepth++
	defer func() { r.loopDepth-- }()
	r.resolveStmt(s.Body)
}

func (r *Resolver) VisitVarStmt(s *ast.Var) {
	r.declare(s.Name)
	r.resolveExpr(s.Initializer)
	r.define(s.Name)
}

func (r *Resolver) VisitFunctionStmt(s *ast.Function) {
	// A function can see its own name for recursion; declared in the
	// enclosing scope, not the one resolveFunction is about to push.
	r.declare(s.Name)
	r.define(s.Name)
	r.resolveFunction(s, inFunction)
}

func (r *Resolver) VisitClassStmt(s *ast.Class) {
	r.declare(s.Name)
	r.define(s.Name)

	enclosingClass := r.currentClass
	r.currentClass = inClass
	defer func() { r.currentClass = enclosingClass }()

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.error(s.Superclass.Name, "A class can't inherit from itself.")
		} else {
			r.currentClass = inSubclass
			r.resolveExpr(s.Superclass)
		}
	}

	if s.Superclass != nil {
		r.beginScope()
		defer r.endScope()
		r.bind("super")
	}

	r.beginScope()
	defer r.endScope()
	r.bind("this")

	for _, m := range s.Methods {
		kind := inMethod
		if m.Kind == ast.KindInitializer {
			kind = inInitializer
		}
		r.resolveFunction(m, kind)
	}
}

// resolveFunction pushes one scope for the parameter list and body —
// params and the statements that follow them are siblings in the same
// frame, matching how the interpreter lays out call frames.
func (r *Resolver) resolveFunction(fn *ast.Function, kind functionKind) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind
	defer func() { r.currentFunction = enclosingFunction }()

	// A loop enclosing this function lexically does not make `break` legal
	// inside it; loop depth resets at every function boundary.
	enclosingLoopDepth := r.loopDepth
	r.loopDepth = 0
	defer func() { r.loopDepth = enclosingLoopDepth }()

	r.beginScope()
	defer r.endScope()

	for _, p := range fn.Params {
		r.declare(p)
		r.define(p)
	}
	r.resolveStmts(fn.Body)
}

// Expressions
// --------------------------------------------------------

func (r *Resolver) resolveExpr(e ast.Expr) {
	if e == nil {
		return
	}
	e.Accept(r)
}

func (r *Resolver) VisitAssignExpr(e *ast.Assign) any {
	r.resolveExpr(e.Value)
	r.resolveVariable(e.Target)
	return nil
}

func (r *Resolver) VisitLogicalExpr(e *ast.Logical) any {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil
}

func (r *Resolver) VisitBinaryExpr(e *ast.Binary) any {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil
}

func (r *Resolver) VisitUnaryExpr(e *ast.Unary) any {
	r.resolveExpr(e.Right)
	return nil
}

func (r *Resolver) VisitCallExpr(e *ast.Call) any {
	r.resolveExpr(e.Callee)
	for _, a := range e.Arguments {
		r.resolveExpr(a)
	}
	return nil
}

func (r *Resolver) VisitGetExpr(e *ast.Get) any {
	r.resolveExpr(e.Object)
	return nil
}

func (r *Resolver) VisitSetExpr(e *ast.Set) any {
	r.resolveExpr(e.Value)
	r.resolveExpr(e.Object)
	return nil
}

func (r *Resolver) VisitSuperExpr(e *ast.Super) any {
	switch r.currentClass {
	case noClass:
		r.error(e.Keyword, "Can't use 'super' outside of a class.")
	case inClass:
		r.error(e.Keyword, "Can't use 'super' in a class with no superclass.")
	}
	e.Distance, e.Slot = r.resolveName("super")
	return nil
}

func (r *Resolver) VisitThisExpr(e *ast.This) any {
	if r.currentClass == noClass {
		r.error(e.Keyword, "Can't use 'this' outside of a class.")
	}
	e.Distance, e.Slot = r.resolveName("this")
	return nil
}

func (r *Resolver) VisitGroupingExpr(e *ast.Grouping) any {
	r.resolveExpr(e.Expr)
	return nil
}

func (r *Resolver) VisitLiteralExpr(e *ast.Literal) any {
	return nil
}

func (r *Resolver) VisitVariableExpr(e *ast.Variable) any {
	r.resolveVariable(e)
	return nil
}

// Scope bookkeeping
// --------------------------------------------------------

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, scope{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) top() *scope {
	return &r.scopes[len(r.scopes)-1]
}

// declare introduces name into the current scope, undefined. Redeclaring
// a name already present in the same scope is an error; shadowing a name
// from an enclosing scope is not. At global scope this is a no-op: the
// interpreter resolves undeclared-at-parse-time globals by name anyway.
func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	if _, _, ok := r.top().find(name.Lexeme); ok {
		r.error(name, fmt.Sprintf("Variable with name '%s' already exists in this scope.", name.Lexeme))
		return
	}
	r.top().vars = append(r.top().vars, binding{name: name.Lexeme})
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	top := r.top()
	for i := range top.vars {
		if top.vars[i].name == name.Lexeme {
			top.vars[i].defined = true
			return
		}
	}
}

// bind declares and immediately defines an implicit name (this, super)
// that has no declaration site of its own.
func (r *Resolver) bind(name string) {
	r.top().vars = append(r.top().vars, binding{name: name, defined: true})
}

// resolveVariable resolves a read or assignment target; reading a name
// in the very scope that is still resolving its own initializer is the
// one case the defined check below exists to catch.
func (r *Resolver) resolveVariable(v *ast.Variable) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		slot, defined, ok := r.scopes[i].find(v.Name.Lexeme)
		if !ok {
			continue
		}
		if !defined {
			r.error(v.Name, "Can't read local variable in its own initializer.")
		}
		v.Distance, v.Slot = len(r.scopes)-1-i, slot
		return
	}
	v.Distance, v.Slot = ast.GlobalDistance, -1
}

// resolveName resolves an implicit binding (this, super) the same way,
// without the self-initializer check since neither has a declaration
// site a program can read from.
func (r *Resolver) resolveName(name string) (distance, slot int) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if s, _, ok := r.scopes[i].find(name); ok {
			return len(r.scopes) - 1 - i, s
		}
	}
	return ast.GlobalDistance, -1
}

func (r *Resolver) error(tok token.Token, message string) {
	r.errs = append(r.errs, &Error{Line: tok.Line, Token: tok, Message: message})
}
