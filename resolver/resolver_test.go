package resolver

import (
	"testing"

	"github.com/gregor-rust/loxwalk/ast"
	"github.com/gregor-rust/loxwalk/parser"
)

func mustParse(t *testing.T, source string) []ast.Stmt {
	t.Helper()
	stmts, errs := parser.Parse(source)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", source, errs)
	}
	return stmts
}

func TestResolve_LocalVariableGetsDistanceAndSlot(t *testing.T) {
	stmts := mustParse(t, "{ var x = 1; print x; }")
	if errs := Resolve(stmts); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	block := stmts[0].(*ast.Block)
	print := block.Statements[1].(*ast.Print)
	v := print.Expression.(*ast.Variable)
	if v.Distance != 0 || v.Slot != 0 {
		t.Fatalf("want distance 0 slot 0, got distance=%d slot=%d", v.Distance, v.Slot)
	}
}

func TestResolve_GlobalVariableGetsGlobalDistance(t *testing.T) {
	stmts := mustParse(t, "var x = 1; print x;")
	if errs := Resolve(stmts); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	print := stmts[1].(*ast.Print)
	v := print.Expression.(*ast.Variable)
	if v.Distance != ast.GlobalDistance {
		t.Fatalf("want GlobalDistance, got %d", v.Distance)
	}
}

func TestResolve_NestedBlockSeesOuterAtDistanceOne(t *testing.T) {
	stmts := mustParse(t, "{ var x = 1; { print x; } }")
	if errs := Resolve(stmts); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	outer := stmts[0].(*ast.Block)
	inner := outer.Statements[1].(*ast.Block)
	print := inner.Statements[0].(*ast.Print)
	v := print.Expression.(*ast.Variable)
	if v.Distance != 1 || v.Slot != 0 {
		t.Fatalf("want distance 1 slot 0, got distance=%d slot=%d", v.Distance, v.Slot)
	}
}

func TestResolve_SelfReferenceInInitializerIsError(t *testing.T) {
	stmts := mustParse(t, "{ var x = x; }")
	errs := Resolve(stmts)
	if len(errs) != 1 {
		t.Fatalf("want 1 error, got %d: %v", len(errs), errs)
	}
}

func TestResolve_RedeclarationInSameScopeIsError(t *testing.T) {
	stmts := mustParse(t, "{ var x = 1; var x = 2; }")
	errs := Resolve(stmts)
	if len(errs) != 1 {
		t.Fatalf("want 1 error, got %d: %v", len(errs), errs)
	}
}

func TestResolve_ShadowingInNestedScopeIsNotError(t *testing.T) {
	stmts := mustParse(t, "{ var x = 1; { var x = 2; } }")
	if errs := Resolve(stmts); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestResolve_BreakOutsideLoopIsError(t *testing.T) {
	stmts := mustParse(t, "break;")
	errs := Resolve(stmts)
	if len(errs) != 1 {
		t.Fatalf("want 1 error, got %d: %v", len(errs), errs)
	}
}

func TestResolve_BreakInsideWhileIsFine(t *testing.T) {
	stmts := mustParse(t, "while (true) { break; }")
	if errs := Resolve(stmts); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestResolve_BreakInsideFunctionNestedInLoopIsError(t *testing.T) {
	// Loop depth must reset at a function boundary: a loop lexically
	// enclosing the function does not make `break` legal inside it.
	stmts := mustParse(t, "while (true) { fun f() { break; } }")
	errs := Resolve(stmts)
	if len(errs) != 1 {
		t.Fatalf("want 1 error, got %d: %v", len(errs), errs)
	}
}

func TestResolve_BreakInsideMethodNestedInLoopIsError(t *testing.T) {
	stmts := mustParse(t, "while (true) { class C { m() { break; } } }")
	errs := Resolve(stmts)
	if len(errs) != 1 {
		t.Fatalf("want 1 error, got %d: %v", len(errs), errs)
	}
}

func TestResolve_ReturnOutsideFunctionIsError(t *testing.T) {
	stmts := mustParse(t, "return 1;")
	errs := Resolve(stmts)
	if len(errs) != 1 {
		t.Fatalf("want 1 error, got %d: %v", len(errs), errs)
	}
}

func TestResolve_ReturnValueInInitializerIsError(t *testing.T) {
	stmts := mustParse(t, "class Point { init() { return 1; } }")
	errs := Resolve(stmts)
	if len(errs) != 1 {
		t.Fatalf("want 1 error, got %d: %v", len(errs), errs)
	}
}

func TestResolve_BareReturnInInitializerIsFine(t *testing.T) {
	stmts := mustParse(t, "class Point { init() { return; } }")
	if errs := Resolve(stmts); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestResolve_ThisOutsideClassIsError(t *testing.T) {
	stmts := mustParse(t, "print this;")
	errs := Resolve(stmts)
	if len(errs) != 1 {
		t.Fatalf("want 1 error, got %d: %v", len(errs), errs)
	}
}

func TestResolve_SuperWithoutSuperclassIsError(t *testing.T) {
	stmts := mustParse(t, "class A { m() { super.m(); } }")
	errs := Resolve(stmts)
	if len(errs) != 1 {
		t.Fatalf("want 1 error, got %d: %v", len(errs), errs)
	}
}

func TestResolve_SuperOutsideClassIsError(t *testing.T) {
	stmts := mustParse(t, "super.m();")
	errs := Resolve(stmts)
	if len(errs) != 1 {
		t.Fatalf("want 1 error, got %d: %v", len(errs), errs)
	}
}

func TestResolve_ClassInheritingFromItselfIsError(t *testing.T) {
	stmts := mustParse(t, "class A < A {}")
	errs := Resolve(stmts)
	if len(errs) != 1 {
		t.Fatalf("want 1 error, got %d: %v", len(errs), errs)
	}
}

func TestResolve_ThisInsideMethodResolvesAtDistanceOne(t *testing.T) {
	stmts := mustParse(t, "class Point { getX() { return this.x; } }")
	if errs := Resolve(stmts); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	c := stmts[0].(*ast.Class)
	ret := c.Methods[0].Body[0].(*ast.Return)
	get := ret.Value.(*ast.Get)
	this := get.Object.(*ast.This)
	if this.Distance != 1 {
		t.Fatalf("want this at distance 1, got %d", this.Distance)
	}
}

func TestResolve_SuperInsideSubclassMethodResolvesAtDistanceTwo(t *testing.T) {
	stmts := mustParse(t, "class Animal { speak() {} }\nclass Dog < Animal { speak() { super.speak(); } }")
	if errs := Resolve(stmts); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	dog := stmts[1].(*ast.Class)
	exprStmt := dog.Methods[0].Body[0].(*ast.Expression)
	call := exprStmt.Expression.(*ast.Call)
	super := call.Callee.(*ast.Super)
	if super.Distance != 2 {
		t.Fatalf("want super at distance 2, got %d", super.Distance)
	}
}

func TestResolve_FunctionCanReferenceItselfForRecursion(t *testing.T) {
	stmts := mustParse(t, "fun fact(n) { return fact(n); }")
	if errs := Resolve(stmts); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestResolve_ParamRedeclaredAsLocalIsError(t *testing.T) {
	stmts := mustParse(t, "fun f(a) { var a = 1; }")
	errs := Resolve(stmts)
	if len(errs) != 1 {
		t.Fatalf("want 1 error, got %d: %v", len(errs), errs)
	}
}
