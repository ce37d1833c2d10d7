package interpreter

import (
	"fmt"

	"github.com/gregor-rust/loxwalk/ast"
)

// ExprPrinter renders an expression tree as a parenthesized Lisp-ish
// string. It exists for debugging and satisfies ast.ExprVisitor just like
// the real evaluator does; no driver flag exposes it.
type ExprPrinter struct{}

func (p ExprPrinter) print(e ast.Expr) string {
	return e.Accept(p).(string)
}

func (p ExprPrinter) VisitAssignExpr(e *ast.Assign) any {
	return parens("=", e.Target.Name.Lexeme, p.print(e.Value))
}

func (p ExprPrinter) VisitLogicalExpr(e *ast.Logical) any {
	return parens(e.Operator.Lexeme, p.print(e.Left), p.print(e.Right))
}

func (p ExprPrinter) VisitBinaryExpr(e *ast.Binary) any {
	return parens(e.Operator.Lexeme, p.print(e.Left), p.print(e.Right))
}

func (p ExprPrinter) VisitUnaryExpr(e *ast.Unary) any {
	return parens(e.Operator.Lexeme, p.print(e.Right))
}

func (p ExprPrinter) VisitCallExpr(e *ast.Call) any {
	frags := []string{"call", p.print(e.Callee)}
	for _, arg := range e.Arguments {
		frags = append(frags, p.print(arg))
	}
	return parens(frags...)
}

func (p ExprPrinter) VisitGetExpr(e *ast.Get) any {
	return parens("get", p.print(e.Object), e.Name.Lexeme)
}

func (p ExprPrinter) VisitSetExpr(e *ast.Set) any {
	return parens("set", p.print(e.Object), e.Name.Lexeme, p.print(e.Value))
}

func (p ExprPrinter) VisitSuperExpr(e *ast.Super) any {
	return "super." + e.Method.Lexeme
}

func (p ExprPrinter) VisitThisExpr(e *ast.This) any {
	return "this"
}

func (p ExprPrinter) VisitGroupingExpr(e *ast.Grouping) any {
	return parens("group", p.print(e.Expr))
}

func (p ExprPrinter) VisitLiteralExpr(e *ast.Literal) any {
	if e.Value == nil {
		return "nil"
	}
	return fmt.Sprintf("%v", e.Value)
}

func (p ExprPrinter) VisitVariableExpr(e *ast.Variable) any {
	if e.Distance == ast.GlobalDistance {
		return "global:" + e.Name.Lexeme
	}
	return e.Name.Lexeme
}

func parens(frags ...string) string {
	out := "("
	for i, frag := range frags {
		out += frag
		if i != len(frags)-1 {
			out += " "
		}
	}
	return out + ")"
}
