package object

import (
	"fmt"

	"github.com/gregor-rust/loxwalk/ast"
	"github.com/gregor-rust/loxwalk/environment"
)

// Function is a Lox user-defined function or method value: the
// declaration it came from, plus the environment that was live when it
// was declared (its closure). Enclosing is fixed at construction and
// never the environment live at call time (spec §3 invariants).
type Function struct {
	Declaration *ast.Function
	Enclosing   *environment.Local
	Kind        ast.FunctionKind
}

func (*Function) LoxValueMarkerFunc() {}

func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.Declaration.Name.Lexeme)
}

// NewFunction builds a Function from its declaration and the environment
// live at the point of declaration.
func NewFunction(decl *ast.Function, enclosing *environment.Local) *Function {
	return &Function{Declaration: decl, Enclosing: enclosing, Kind: decl.Kind}
}

func (f *Function) Arity() int {
	return len(f.Declaration.Params)
}

func (f *Function) IsInitializer() bool {
	return f.Kind == ast.KindInitializer
}
