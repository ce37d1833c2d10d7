// Package environment implements the lexically nested scope chain (spec
// component G). Local frames are slot-indexed slices rather than
// name-keyed maps — the resolver has already computed a (distance, slot)
// pair for every local reference, so the evaluator never needs to search
// a frame by name. Globals are a separate, name-keyed map, since there is
// exactly one global frame and it is looked up by name from anywhere.
package environment

import "github.com/gregor-rust/loxwalk/value"

const initialFrameSize = 4

// Local is one scope frame: function parameters, a block's locals, or the
// single-binding `this`/`super` frames a method body is wrapped in.
type Local struct {
	enclosing *Local
	values    []value.Value
}

// NewLocal creates a frame parented to enclosing. A call's outermost frame
// is parented to the environment captured at the function's declaration
// site; enclosing is nil when the only scope outside the frame is the
// global one.
func NewLocal(enclosing *Local) *Local {
	return &Local{values: make([]value.Value, 0, initialFrameSize), enclosing: enclosing}
}

// Push appends a value, taking the next slot in this frame. The resolver
// and the evaluator must push in the same order for every frame shape
// they agree on (parameters, then the body's own locals as they declare).
func (l *Local) Push(v value.Value) {
	l.values = append(l.values, v)
}

// GetAt reads the value at slot, distance frames out from l.
func (l *Local) GetAt(slot, distance int) value.Value {
	return ancestor(l, distance).values[slot]
}

// AssignAt overwrites the value at slot, distance frames out from l.
func (l *Local) AssignAt(slot int, v value.Value, distance int) {
	ancestor(l, distance).values[slot] = v
}

// Enclosing returns the frame's parent, or nil when the frame has no
// local parent (only the globals lie outside it) or l itself is nil.
func (l *Local) Enclosing() *Local {
	if l == nil {
		return nil
	}
	return l.enclosing
}

func ancestor(l *Local, distance int) *Local {
	for i := 0; i < distance; i++ {
		l = l.enclosing
	}
	return l
}

// Globals is the sole frame without a parent; it is keyed by name rather
// than by slot because the resolver never assigns globals a slot.
type Globals struct {
	values map[string]value.Value
}

// NewGlobals returns an empty global scope.
func NewGlobals() *Globals {
	return &Globals{values: make(map[string]value.Value)}
}

// Define binds (or rebinds) name, unconditionally. Used both for `var`
// declarations at top level and, per spec §4.G / Open Questions, for
// assignment to a name that was never declared — that is not an error at
// global scope.
func (g *Globals) Define(name string, v value.Value) {
	g.values[name] = v
}

// Get looks up name, failing if it was never defined.
func (g *Globals) Get(name string) (value.Value, bool) {
	v, ok := g.values[name]
	return v, ok
}

// Assign overwrites an existing global and reports whether it existed.
// Per spec §4.G / Open Questions, the caller should fall back to Define
// when this returns false rather than treating it as an error.
func (g *Globals) Assign(name string, v value.Value) bool {
	if _, ok := g.values[name]; !ok {
		return false
	}
	g.values[name] = v
	return true
}
