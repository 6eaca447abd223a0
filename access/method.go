package access

import "strings"

// Type is a property or parameter type as seen by a class backend.
// Both reflect.Type and go/types.Type satisfy it; comparing two Types is
// the job of the Class that produced them.
type Type interface {
	String() string
}

// Method is an accessor candidate owned by a Class.
//
// Classes build their methods once, so the same lookup always yields the
// same *Method and pointer equality can be used for identity.
type Method struct {
	Name    string // Go method name, e.g. "SetX"
	Owner   string // Name of the owning class
	Params  []Type // Parameter types, receiver excluded
	Results []Type // Result types
	// Static is true for functions registered on a class that are not bound
	// to an instance. They never serve as property accessors.
	Static bool
	// Impl is the backend handle: reflect.Method or reflect.Value for
	// runtime classes, *types.Func for analyzed ones.
	Impl any
}

// String returns a signature such as "store.Point.SetX(float64)".
func (m *Method) String() string {
	if m == nil {
		return "<none>"
	}

	var b strings.Builder

	if m.Owner != "" {
		b.WriteString(m.Owner)
		b.WriteByte('.')
	}

	b.WriteString(m.Name)
	b.WriteByte('(')
	writeTypes(&b, m.Params)
	b.WriteByte(')')

	switch len(m.Results) {
	case 0:
	case 1:
		b.WriteByte(' ')
		b.WriteString(m.Results[0].String())
	default:
		b.WriteString(" (")
		writeTypes(&b, m.Results)
		b.WriteByte(')')
	}

	return b.String()
}

func writeTypes(b *strings.Builder, ts []Type) {
	for i, t := range ts {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(t.String())
	}
}

// Class is the metadata of a mapped struct needed to resolve accessors.
type Class interface {
	// Name returns a human-readable class name, e.g. "store.Point".
	Name() string
	// Method returns the method with exactly this name and exactly these
	// parameter types (receiver excluded), whatever its results, or nil.
	// Static members are returned too and flagged with Method.Static.
	Method(name string, params ...Type) *Method
}

// PropertyDescriptor describes one named property of a mapped class as
// discovered by introspection. Strategies treat it as read-only.
type PropertyDescriptor struct {
	Name        string  // Property name, e.g. "x"
	Type        Type    // Declared property type
	ReadMethod  *Method // Conventional getter, or nil
	WriteMethod *Method // Conventional setter (no results), or nil
}
