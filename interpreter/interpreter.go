// Package interpreter implements spec component H: a tree-walking
// evaluator over the resolved syntax tree. It assumes the tree it is
// given already passed through the resolver — every Variable, Assign
// target, This and Super node carries a real Distance/Slot, never
// ast.UnresolvedDistance.
package interpreter

import (
	"fmt"
	"io"
	"time"

	"github.com/gregor-rust/loxwalk/ast"
	"github.com/gregor-rust/loxwalk/environment"
	"github.com/gregor-rust/loxwalk/object"
	"github.com/gregor-rust/loxwalk/token"
	"github.com/gregor-rust/loxwalk/value"
)

// Interpreter holds the two pieces of state a tree-walking evaluator
// needs between calls: the global scope, which outlives every call, and
// whichever local frame is active right now.
type Interpreter struct {
	globals *environment.Globals
	local   *environment.Local
	out     io.Writer
}

// New builds an Interpreter with its native functions seeded into
// globals. now is injected (rather than calling time.Now directly) so
// that clock() is deterministic under test; the driver passes time.Now.
func New(out io.Writer, now func() time.Time) *Interpreter {
	globals := environment.NewGlobals()
	for _, n := range object.Natives(now) {
		globals.Define(n.Name, n)
	}
	return &Interpreter{globals: globals, out: out}
}

// Interpret runs a fully resolved program to completion, or until the
// first runtime error, which it returns rather than printing — rendering
// is the driver and diagnostics package's job (components I and J).
func (i *Interpreter) Interpret(stmts []ast.Stmt) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if re, ok := r.(*RuntimeError); ok {
				err = re
				return
			}
			panic(r)
		}
	}()

	for _, s := range stmts {
		i.execute(s)
	}
	return nil
}

// Statement evaluators
// --------------------------------------------------------

func (i *Interpreter) VisitBlockStmt(s *ast.Block) {
	i.executeBlock(s.Statements, environment.NewLocal(i.local))
}

func (i *Interpreter) VisitExpressionStmt(s *ast.Expression) {
	i.evaluate(s.Expression)
}

func (i *Interpreter) VisitPrintStmt(s *ast.Print) {
	fmt.Fprintln(i.out, i.evaluate(s.Expression).String())
}

func (i *Interpreter) VisitBreakStmt(s *ast.Break) {
	panic(controlBreak{})
}

func (i *Interpreter) VisitReturnStmt(s *ast.Return) {
	v := value.Value(value.Nil{})
	if s.Value != nil {
		v = i.evaluate(s.Value)
	}
	panic(controlReturn{Value: v})
}

func (i *Interpreter) VisitIfStmt(s *ast.If) {
	if bool(value.Truthiness(i.evaluate(s.Condition))) {
		i.execute(s.ThenBranch)
	} else if s.ElseBranch != nil {
		i.execute(s.ElseBranch)
	}
}

func (i *Interpreter) VisitWhileStmt(s *ast.While) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(controlBreak); ok {
				return
			}
			panic(r)
		}
	}()

	for bool(value.Truthiness(i.evaluate(s.Condition))) {
		i.execute(s.Body)
	}
}

func (i *Interpreter) VisitVarStmt(s *ast.Var) {
	i.defineVariable(s.Name.Lexeme, i.evaluate(s.Initializer))
}

func (i *Interpreter) VisitFunctionStmt(s *ast.Function) {
	i.defineVariable(s.Name.Lexeme, object.NewFunction(s, i.local))
}

func (i *Interpreter) VisitClassStmt(s *ast.Class) {
	var superclass *object.Class
	if s.Superclass != nil {
		sc := i.evaluate(s.Superclass)
		cls, ok := sc.(*object.Class)
		if !ok {
			panic(runtimeErrorf(s.Superclass.Name, "Superclass must be a class."))
		}
		superclass = cls
	}

	methodEnclosing := i.local
	if superclass != nil {
		superFrame := environment.NewLocal(i.local)
		superFrame.Push(superclass)
		methodEnclosing = superFrame
	}

	methods := make(map[string]*object.Function, len(s.Methods))
	for _, m := range s.Methods {
		// Last declaration of a given name wins, same as a map literal.
		methods[m.Name.Lexeme] = object.NewFunction(m, methodEnclosing)
	}

	i.defineVariable(s.Name.Lexeme, object.NewClass(s.Name.Lexeme, methods, superclass))
}

// Expression evaluators
// --------------------------------------------------------

func (i *Interpreter) VisitAssignExpr(e *ast.Assign) any {
	val := i.evaluate(e.Value)

	if e.Target.Distance == ast.GlobalDistance {
		if !i.globals.Assign(e.Target.Name.Lexeme, val) {
			// Assigning an undeclared global creates it (spec §4.G).
			i.globals.Define(e.Target.Name.Lexeme, val)
		}
	} else {
		i.local.AssignAt(e.Target.Slot, val, e.Target.Distance)
	}

	return val
}

func (i *Interpreter) VisitLogicalExpr(e *ast.Logical) any {
	left := i.evaluate(e.Left)

	switch e.Operator.Kind {
	case token.OR:
		if bool(value.Truthiness(left)) {
			return left
		}
	case token.AND:
		if !bool(value.Truthiness(left)) {
			return left
		}
	}

	return i.evaluate(e.Right)
}

func (i *Interpreter) VisitBinaryExpr(e *ast.Binary) any {
	left := i.evaluate(e.Left)
	right := i.evaluate(e.Right)

	switch e.Operator.Kind {
	case token.PLUS:
		return i.guard(e.Operator, "Operands must be two numbers or two strings.", func() value.Value {
			return value.Add(left, right)
		})
	case token.MINUS:
		return i.guard(e.Operator, "Operands must be numbers.", func() value.Value { return value.Sub(left, right) })
	case token.STAR:
		return i.guard(e.Operator, "Operands must be numbers.", func() value.Value { return value.Mul(left, right) })
	case token.SLASH:
		return i.guard(e.Operator, "Operands must be numbers.", func() value.Value { return value.Div(left, right) })
	case token.GREATER:
		return i.guard(e.Operator, "Operands must be numbers.", func() value.Value { return value.GreaterThan(left, right) })
	case token.GREATER_EQUAL:
		return i.guard(e.Operator, "Operands must be numbers.", func() value.Value {
			return value.GreaterThan(left, right) || value.EqualTo(left, right)
		})
	case token.LESS:
		return i.guard(e.Operator, "Operands must be numbers.", func() value.Value { return value.LessThan(left, right) })
	case token.LESS_EQUAL:
		return i.guard(e.Operator, "Operands must be numbers.", func() value.Value {
			return value.LessThan(left, right) || value.EqualTo(left, right)
		})
	case token.EQUAL_EQUAL:
		return value.EqualTo(left, right)
	case token.BANG_EQUAL:
		return !value.EqualTo(left, right)
	}

	panic(fmt.Sprintf("unreachable binary operator %v", e.Operator.Kind))
}

func (i *Interpreter) VisitUnaryExpr(e *ast.Unary) any {
	right := i.evaluate(e.Right)

	switch e.Operator.Kind {
	case token.BANG:
		return !value.Truthiness(right)
	case token.MINUS:
		return i.guard(e.Operator, "Operand must be a number.", func() value.Value { return value.Neg(right) })
	}

	panic(fmt.Sprintf("unreachable unary operator %v", e.Operator.Kind))
}

func (i *Interpreter) VisitCallExpr(e *ast.Call) any {
	callee := i.evaluate(e.Callee)

	args := make([]value.Value, len(e.Arguments))
	for idx, a := range e.Arguments {
		args[idx] = i.evaluate(a)
	}

	return i.call(callee, args, e.Paren)
}

func (i *Interpreter) VisitGetExpr(e *ast.Get) any {
	obj := i.evaluate(e.Object)

	inst, ok := obj.(*object.Instance)
	if !ok {
		panic(runtimeErrorf(e.Name, "Only instances have properties."))
	}

	v, ok := inst.Get(e.Name.Lexeme)
	if !ok {
		panic(runtimeErrorf(e.Name, "Undefined property '%s'.", e.Name.Lexeme))
	}
	return v
}

func (i *Interpreter) VisitSetExpr(e *ast.Set) any {
	obj := i.evaluate(e.Object)

	inst, ok := obj.(*object.Instance)
	if !ok {
		panic(runtimeErrorf(e.Name, "Only instances have fields."))
	}

	val := i.evaluate(e.Value)
	inst.Set(e.Name.Lexeme, val)
	return val
}

// VisitSuperExpr resolves `super.method`. The super binding sits exactly
// one frame further out than the matching this binding (see the
// environment layout note on invokeMethod), so the receiver is found
// at e.Distance-1 without needing a separate resolved slot for `this`.
func (i *Interpreter) VisitSuperExpr(e *ast.Super) any {
	superclass := i.local.GetAt(e.Slot, e.Distance).(*object.Class)
	receiver := i.local.GetAt(0, e.Distance-1).(*object.Instance)

	method := superclass.FindMethod(e.Method.Lexeme)
	if method == nil {
		panic(runtimeErrorf(e.Method, "Undefined property '%s'.", e.Method.Lexeme))
	}
	return &object.BoundMethod{Receiver: receiver, Method: method}
}

func (i *Interpreter) VisitThisExpr(e *ast.This) any {
	return i.local.GetAt(e.Slot, e.Distance)
}

func (i *Interpreter) VisitGroupingExpr(e *ast.Grouping) any {
	return i.evaluate(e.Expr)
}

func (i *Interpreter) VisitLiteralExpr(e *ast.Literal) any {
	switch v := e.Value.(type) {
	case nil:
		return value.Nil{}
	case bool:
		return value.Boolean(v)
	case float64:
		return value.Number(v)
	case string:
		return value.String(v)
	default:
		panic(fmt.Sprintf("unreachable literal type %T", v))
	}
}

func (i *Interpreter) VisitVariableExpr(e *ast.Variable) any {
	if e.Distance == ast.GlobalDistance {
		v, ok := i.globals.Get(e.Name.Lexeme)
		if !ok {
			panic(runtimeErrorf(e.Name, "Undefined variable '%s'.", e.Name.Lexeme))
		}
		return v
	}
	return i.local.GetAt(e.Slot, e.Distance)
}

// Calling
// --------------------------------------------------------

func (i *Interpreter) call(callee value.Value, args []value.Value, paren token.Token) value.Value {
	switch fn := callee.(type) {
	case *object.Function:
		return i.invokeFunction(fn, args, paren)
	case *object.BoundMethod:
		return i.invokeMethod(fn.Method, fn.Receiver, args, paren)
	case *object.NativeFunction:
		i.checkArity(fn.Arity(), len(args), paren)
		return fn.Call(args)
	case *object.Class:
		return i.instantiate(fn, args, paren)
	default:
		panic(runtimeErrorf(paren, "Can only call functions and classes."))
	}
}

func (i *Interpreter) checkArity(want, got int, paren token.Token) {
	if want != got {
		panic(runtimeErrorf(paren, "Expected %d arguments but got %d.", want, got))
	}
}

func (i *Interpreter) invokeFunction(fn *object.Function, args []value.Value, paren token.Token) value.Value {
	i.checkArity(fn.Arity(), len(args), paren)

	frame := environment.NewLocal(fn.Enclosing)
	for _, a := range args {
		frame.Push(a)
	}
	return i.runBody(fn.Declaration.Body, frame)
}

// invokeMethod binds the receiver into its own frame, one level out from
// the call's own param/body frame and (if fn's class has a superclass)
// one level in from the super frame — see VisitClassStmt.
func (i *Interpreter) invokeMethod(fn *object.Function, receiver *object.Instance, args []value.Value, paren token.Token) value.Value {
	i.checkArity(fn.Arity(), len(args), paren)

	thisFrame := environment.NewLocal(fn.Enclosing)
	thisFrame.Push(receiver)

	frame := environment.NewLocal(thisFrame)
	for _, a := range args {
		frame.Push(a)
	}

	result := i.runBody(fn.Declaration.Body, frame)
	if fn.IsInitializer() {
		return receiver
	}
	return result
}

func (i *Interpreter) instantiate(class *object.Class, args []value.Value, paren token.Token) value.Value {
	i.checkArity(class.Arity(), len(args), paren)

	instance := object.NewInstance(class)
	if init := class.FindMethod("init"); init != nil {
		i.invokeMethod(init, instance, args, paren)
	}
	return instance
}

// runBody executes a call's statements in frame, catching the
// controlReturn panic a `return` raises and yielding its value; a
// function that falls off the end returns nil.
func (i *Interpreter) runBody(body []ast.Stmt, frame *environment.Local) (result value.Value) {
	result = value.Nil{}

	prev := i.local
	i.local = frame
	defer func() { i.local = prev }()

	defer func() {
		if r := recover(); r != nil {
			if cr, ok := r.(controlReturn); ok {
				result = cr.Value
				return
			}
			panic(r)
		}
	}()

	for _, stmt := range body {
		i.execute(stmt)
	}
	return result
}

// guard runs an arithmetic/comparison helper from the value package,
// turning the value.TypeError it panics with on an operand mismatch into
// a RuntimeError that carries the operator's token.
func (i *Interpreter) guard(tok token.Token, message string, f func() value.Value) value.Value {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(value.TypeError); ok {
				panic(runtimeErrorf(tok, "%s", message))
			}
			panic(r)
		}
	}()
	return f()
}

// Utility
// --------------------------------------------------------

func (i *Interpreter) execute(s ast.Stmt) {
	s.Accept(i)
}

func (i *Interpreter) evaluate(e ast.Expr) value.Value {
	return e.Accept(i).(value.Value)
}

func (i *Interpreter) executeBlock(stmts []ast.Stmt, frame *environment.Local) {
	prev := i.local
	i.local = frame
	defer func() { i.local = prev }()

	for _, s := range stmts {
		i.execute(s)
	}
}

// defineVariable binds name to v in whichever scope is active: the
// global map at the top level, or the next slot of the current frame
// otherwise. Locals are always pushed in the same left-to-right order
// the resolver declared them in, so slot indices agree.
func (i *Interpreter) defineVariable(name string, v value.Value) {
	if i.local == nil {
		i.globals.Define(name, v)
	} else {
		i.local.Push(v)
	}
}
