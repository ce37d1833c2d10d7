package object

import (
	"fmt"

	"github.com/gregor-rust/loxwalk/value"
)

// Instance is a Lox object: an immutable class reference plus a mutable
// field map. Two references to the same construction share this pointer,
// so field mutation through one is visible through all (spec §3).
type Instance struct {
	Class  *Class
	Fields map[string]value.Value
}

func (*Instance) LoxValueMarkerFunc() {}

func (i *Instance) String() string {
	return fmt.Sprintf("<%s instance>", i.Class.Name)
}

// NewInstance constructs an instance with an empty field map; init (if
// any) is invoked by the interpreter after construction, not here.
func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]value.Value)}
}

// Get implements `instance.name`: fields take precedence over methods, and
// a found method comes back bound to this instance.
func (i *Instance) Get(name string) (value.Value, bool) {
	if v, ok := i.Fields[name]; ok {
		return v, true
	}
	if method := i.Class.FindMethod(name); method != nil {
		return &BoundMethod{Receiver: i, Method: method}, true
	}
	return nil, false
}

// Set always writes to the field map, never to a method slot; a
// previously read bound method is unaffected by this (spec §4.H).
func (i *Instance) Set(name string, v value.Value) {
	i.Fields[name] = v
}
