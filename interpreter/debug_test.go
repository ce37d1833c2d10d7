package interpreter

import (
	"testing"

	"github.com/gregor-rust/loxwalk/ast"
	"github.com/gregor-rust/loxwalk/token"
)

func TestExprPrinter_BinaryExpression(t *testing.T) {
	expr := &ast.Binary{
		Operator: token.Token{Kind: token.PLUS, Lexeme: "+"},
		Left:     &ast.Literal{Value: 1.0},
		Right:    &ast.Literal{Value: 2.0},
	}
	got := ExprPrinter{}.print(expr)
	want := "(+ 1 2)"
	if got != want {
		t.Fatalf("print() = %q, want %q", got, want)
	}
}

func TestExprPrinter_NestedGrouping(t *testing.T) {
	expr := &ast.Grouping{Expr: &ast.Unary{
		Operator: token.Token{Kind: token.MINUS, Lexeme: "-"},
		Right:    &ast.Literal{Value: 5.0},
	}}
	got := ExprPrinter{}.print(expr)
	want := "(group (- 5))"
	if got != want {
		t.Fatalf("print() = %q, want %q", got, want)
	}
}

func TestExprPrinter_NilLiteral(t *testing.T) {
	got := ExprPrinter{}.print(&ast.Literal{Value: nil})
	if got != "nil" {
		t.Fatalf("print(nil literal) = %q, want %q", got, "nil")
	}
}

func TestExprPrinter_GlobalVariableIsMarked(t *testing.T) {
	v := &ast.Variable{Name: token.Token{Lexeme: "x"}, Distance: ast.GlobalDistance}
	got := ExprPrinter{}.print(v)
	if got != "global:x" {
		t.Fatalf("print(global var) = %q, want %q", got, "global:x")
	}
}

func TestExprPrinter_CallExpression(t *testing.T) {
	call := &ast.Call{
		Callee: &ast.Variable{Name: token.Token{Lexeme: "f"}, Distance: 0, Slot: 0},
		Arguments: []ast.Expr{
			&ast.Literal{Value: 1.0},
			&ast.Literal{Value: "x"},
		},
	}
	got := ExprPrinter{}.print(call)
	want := `(call f 1 x)`
	if got != want {
		t.Fatalf("print() = %q, want %q", got, want)
	}
}
