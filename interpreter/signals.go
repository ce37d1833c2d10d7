package interpreter

import (
	"fmt"

	"github.com/gregor-rust/loxwalk/token"
	"github.com/gregor-rust/loxwalk/value"
)

// controlBreak and controlReturn are panicked to unwind the Go call stack
// back to the nearest loop or function call respectively; neither ever
// escapes Interpret — every loop recovers the first, every call frame
// recovers the second.
type controlBreak struct{}

type controlReturn struct {
	Value value.Value
}

// RuntimeError is a spec §7 runtime error: a type mismatch, an undefined
// name, calling something uncallable, the wrong number of arguments, or
// inheriting from a non-class. It carries the offending token so the
// driver can report the line (and, via the diagnostics package, render
// the source context) without the interpreter knowing how errors are
// displayed.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[line %d] %s", e.Token.Line, e.Message)
}

func runtimeErrorf(tok token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}
