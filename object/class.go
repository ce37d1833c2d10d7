package object

// Class is a Lox class value: its methods and an optional superclass.
// Classes are themselves callable — calling one constructs an Instance
// (see interpreter.VisitCallExpr).
type Class struct {
	Name       string
	Methods    map[string]*Function
	Superclass *Class // nil for a class with no superclass
}

func (*Class) LoxValueMarkerFunc() {}

// String is the class's own name (spec §4.F), not a decorated form.
func (c *Class) String() string {
	return c.Name
}

// NewClass builds a class value from its own method set and superclass.
func NewClass(name string, methods map[string]*Function, superclass *Class) *Class {
	return &Class{Name: name, Methods: methods, Superclass: superclass}
}

// Arity is the arity of `init`, or zero if the class (and its ancestors)
// define no initializer.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// FindMethod walks the class chain — this class, then its superclass,
// then its superclass's superclass, and so on — stopping at the first
// class that defines name. super.m always starts the walk one class
// higher, skipping the current class unconditionally.
func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}
