package object

import "fmt"

// BoundMethod pairs a method with a receiver. It is its own callable
// variant (spec design note §9) rather than a Function whose captured
// environment was mutated to splice in `this`: the underlying Function is
// shared and unaffected, only the pairing is new, so reading the same
// method off the same instance twice is referentially transparent.
type BoundMethod struct {
	Receiver *Instance
	Method   *Function
}

func (*BoundMethod) LoxValueMarkerFunc() {}

func (b *BoundMethod) String() string {
	return fmt.Sprintf("<fn %s>", b.Method.Declaration.Name.Lexeme)
}

func (b *BoundMethod) Arity() int {
	return b.Method.Arity()
}
