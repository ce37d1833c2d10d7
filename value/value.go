// Package value defines the Lox runtime value model (spec component F):
// the closed set of primitive values every Lox expression evaluates to.
// Object values (functions, classes, instances) live in the sibling
// object package and implement the same Value interface by pointer.
package value

import "strconv"

// Value is implemented by every Lox runtime value. LoxValueMarkerFunc has
// no behavior; it exists only so arbitrary Go types can't satisfy Value by
// accident (every primitive and object type must opt in explicitly).
type Value interface {
	String() string
	LoxValueMarkerFunc()
}

// TypeError is panicked by the arithmetic and comparison helpers below on
// an operand type mismatch; the interpreter recovers it and turns it into
// a RuntimeError carrying the offending operator's token.
type TypeError struct{}

// Nil, Boolean, Number and String are the primitive Lox values, stored by
// value (not by pointer) since Lox primitives have no mutable identity.
type (
	Nil     struct{}
	Boolean bool
	Number  float64
	String  string
)

func (Nil) LoxValueMarkerFunc()     {}
func (Boolean) LoxValueMarkerFunc() {}
func (Number) LoxValueMarkerFunc()  {}
func (String) LoxValueMarkerFunc()  {}

func (Nil) String() string { return "nil" }

func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

func (s String) String() string { return string(s) }

// Truthiness implements Lox truthiness: nil and false are falsey,
// everything else (including 0 and "") is truthy.
func Truthiness(v Value) Boolean {
	switch t := v.(type) {
	case Nil:
		return false
	case Boolean:
		return t
	default:
		return true
	}
}

// LessThan and GreaterThan require both operands to be numbers; Lox does
// not order strings (spec §4.H).
func LessThan(a, b Value) Boolean {
	if x, ok := a.(Number); ok {
		if y, ok := b.(Number); ok {
			return x < y
		}
	}
	panic(TypeError{})
}

func GreaterThan(a, b Value) Boolean {
	if x, ok := a.(Number); ok {
		if y, ok := b.(Number); ok {
			return x > y
		}
	}
	panic(TypeError{})
}

// EqualTo never converts types: values of different dynamic types are
// unequal, numbers compare by IEEE-754 equality (so NaN != NaN), strings
// by byte sequence, booleans by identity, and object values (which are Go
// pointers under the interface) by reference identity.
func EqualTo(a, b Value) Boolean {
	return Boolean(a == b)
}

// Neg implements unary `-`; the operand must be a number.
func Neg(v Value) Value {
	if n, ok := v.(Number); ok {
		return -n
	}
	panic(TypeError{})
}

// Add implements `+`. Two numbers add; two strings concatenate; if either
// operand is a string, the other is coerced to its textual form first
// (spec §4.H, exercised by string-building `print` calls in the test
// suite — e.g. `"Expected '" + a + "'"` with a numeric a).
func Add(a, b Value) Value {
	if x, ok := a.(Number); ok {
		if y, ok := b.(Number); ok {
			return x + y
		}
	}

	_, aIsString := a.(String)
	_, bIsString := b.(String)
	if aIsString || bIsString {
		return String(a.String() + b.String())
	}

	panic(TypeError{})
}

func Sub(a, b Value) Value {
	if x, ok := a.(Number); ok {
		if y, ok := b.(Number); ok {
			return x - y
		}
	}
	panic(TypeError{})
}

func Mul(a, b Value) Value {
	if x, ok := a.(Number); ok {
		if y, ok := b.(Number); ok {
			return x * y
		}
	}
	panic(TypeError{})
}

// Div follows IEEE-754 float semantics on division by zero (±Inf or NaN);
// that is a deliberate language choice, not a bug (spec §9).
func Div(a, b Value) Value {
	if x, ok := a.(Number); ok {
		if y, ok := b.(Number); ok {
			return x / y
		}
	}
	panic(TypeError{})
}
