package object

import (
	"fmt"
	"time"

	"github.com/gregor-rust/loxwalk/value"
)

// NativeFunction wraps a Go function as a Lox callable. Natives() is the
// only source of them; per spec §6 the sole required entry is clock — the
// teacher's stubbed-out getattr/setattr/delattr/isinstance/string natives
// are standard-library surface the spec explicitly places out of scope
// ("standard library beyond what is literally exercised") and are not
// carried forward.
type NativeFunction struct {
	Name       string
	ParamCount int
	Function   func(args []value.Value) value.Value
}

func (*NativeFunction) LoxValueMarkerFunc() {}

func (n *NativeFunction) String() string {
	return fmt.Sprintf("<native fn %s>", n.Name)
}

func (n *NativeFunction) Arity() int {
	return n.ParamCount
}

// Call invokes the wrapped Go function. Arity is already checked by the
// interpreter before this is reached.
func (n *NativeFunction) Call(args []value.Value) value.Value {
	return n.Function(args)
}

// Natives returns the native-function table the interpreter seeds its
// globals with. now is injected so clock is deterministic in tests; the
// driver passes time.Now.
func Natives(now func() time.Time) []*NativeFunction {
	return []*NativeFunction{
		{Name: "clock", ParamCount: 0, Function: func(args []value.Value) value.Value {
			return value.Number(float64(now().UnixMilli()) / 1000.0)
		}},
	}
}
