package introspect

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"property-mapper/access"
	"property-mapper/internal/common"
)

var (
	// ErrNotStruct is returned when the introspected value is not a struct.
	ErrNotStruct = errors.New("not a struct type")
	// ErrNotFunc is returned when a static member is not a function.
	ErrNotFunc = errors.New("static member is not a function")
)

// classCache holds classes built without options: map[reflect.Type]*Class.
var classCache sync.Map

// Class is the runtime metadata of a struct, backed by reflect.
// It is immutable once built and safe for concurrent use.
type Class struct {
	typ     reflect.Type
	name    string
	fields  []Field
	methods []*access.Method
	byName  map[string][]*access.Method // instance methods and statics
}

var (
	_ access.Class = (*Class)(nil)
	_ Shape        = (*Class)(nil)
)

// Option configures a Class.
type Option func(*classBuilder) error

type classBuilder struct {
	statics []*access.Method
}

// WithStatic registers fn as a static member called name. Go has no static
// methods; free functions such as factories play that role and are never
// accepted as accessors.
func WithStatic(name string, fn any) Option {
	return func(b *classBuilder) error {
		fv := reflect.ValueOf(fn)
		if fv.Kind() != reflect.Func {
			return fmt.Errorf("%w: %s is %T", ErrNotFunc, name, fn)
		}

		ft := fv.Type()
		b.statics = append(b.statics, &access.Method{
			Name:    name,
			Params:  typesOf(ft.NumIn(), ft.In),
			Results: typesOf(ft.NumOut(), ft.Out),
			Static:  true,
			Impl:    fv,
		})

		return nil
	}
}

// Of returns the class of v, which may be a reflect.Type, a struct value, or
// a pointer to either.
func Of(v any, opts ...Option) (*Class, error) {
	t, ok := v.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(v)
	}

	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v", ErrNotStruct, t)
	}

	if len(opts) == 0 {
		if cached, ok := classCache.Load(t); ok {
			return cached.(*Class), nil
		}
	}

	var b classBuilder
	for _, opt := range opts {
		if err := opt(&b); err != nil {
			return nil, err
		}
	}

	c := newClass(t, b.statics)
	if len(opts) == 0 {
		actual, _ := classCache.LoadOrStore(t, c)
		c = actual.(*Class)
	}

	return c, nil
}

// MustOf is like Of but panics on error. Intended for package-level vars.
func MustOf(v any, opts ...Option) *Class {
	c, err := Of(v, opts...)
	if err != nil {
		panic(err)
	}

	return c
}

func newClass(t reflect.Type, statics []*access.Method) *Class {
	c := &Class{
		typ:    t,
		name:   className(t),
		fields: visibleFields(t),
		byName: make(map[string][]*access.Method),
	}

	// The method set of *T holds value and pointer receivers as well as
	// methods promoted from embedded fields.
	pt := reflect.PointerTo(t)
	for i := range pt.NumMethod() {
		rm := pt.Method(i)
		m := &access.Method{
			Name:    rm.Name,
			Owner:   c.name,
			Params:  typesOf(rm.Type.NumIn()-1, func(i int) reflect.Type { return rm.Type.In(i + 1) }),
			Results: typesOf(rm.Type.NumOut(), rm.Type.Out),
			Impl:    rm,
		}
		c.methods = append(c.methods, m)
		c.byName[m.Name] = append(c.byName[m.Name], m)
	}

	for _, s := range statics {
		s.Owner = c.name
		c.byName[s.Name] = append(c.byName[s.Name], s)
	}

	return c
}

func className(t reflect.Type) string {
	if t.Name() == "" {
		return t.String()
	}

	return common.QualifiedName(t.PkgPath(), t.Name())
}

// visibleFields lists the fields reachable without dereferencing a pointer.
// Untagged embedded structs are flattened and not reported themselves; a
// tagged one is a single field and its own fields are not promoted.
func visibleFields(t reflect.Type) []Field {
	var (
		out    []Field
		opaque [][]int
	)

	for _, sf := range reflect.VisibleFields(t) {
		if underAny(sf.Index, opaque) || !directPath(t, sf.Index) {
			continue
		}

		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			if sf.Tag.Get(TagKey) == "" {
				continue
			}

			opaque = append(opaque, sf.Index)
		}

		out = append(out, Field{
			Name:     sf.Name,
			Type:     sf.Type,
			Exported: sf.IsExported(),
			Tag:      sf.Tag,
			Index:    sf.Index,
		})
	}

	return out
}

func underAny(index []int, prefixes [][]int) bool {
	for _, p := range prefixes {
		if len(index) > len(p) && slices.Equal(index[:len(p)], p) {
			return true
		}
	}

	return false
}

// directPath reports whether every intermediate field on index is a struct
// value (not a pointer), so the field can be reached on any instance.
func directPath(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		f := t.Field(i)
		if f.Type.Kind() != reflect.Struct {
			return false
		}

		t = f.Type
	}

	return true
}

func typesOf(n int, at func(int) reflect.Type) []access.Type {
	if n == 0 {
		return nil
	}

	out := make([]access.Type, n)
	for i := range n {
		out[i] = at(i)
	}

	return out
}

// Type returns the struct type.
func (c *Class) Type() reflect.Type {
	return c.typ
}

// Name returns the qualified class name, e.g. "store.Point".
func (c *Class) Name() string {
	return c.name
}

// Method returns the instance method or static member with exactly this
// name and parameter types.
func (c *Class) Method(name string, params ...access.Type) *access.Method {
	for _, m := range c.byName[name] {
		if sameTypes(m.Params, params) {
			return m
		}
	}

	return nil
}

func sameTypes(have, want []access.Type) bool {
	if len(have) != len(want) {
		return false
	}

	for i := range want {
		w, ok := want[i].(reflect.Type)
		if !ok || have[i].(reflect.Type) != w {
			return false
		}
	}

	return true
}

// Fields returns the mappable fields.
func (c *Class) Fields() []Field {
	return c.fields
}

// Methods returns the instance methods sorted by name.
func (c *Class) Methods() []*access.Method {
	return c.methods
}

// Statics returns the registered static members sorted by name.
func (c *Class) Statics() []*access.Method {
	var out []*access.Method

	for _, ms := range c.byName {
		for _, m := range ms {
			if m.Static {
				out = append(out, m)
			}
		}
	}

	slices.SortFunc(out, func(a, b *access.Method) int { return strings.Compare(a.Name, b.Name) })

	return out
}

// Identical reports whether a and b are the same reflect.Type.
func (c *Class) Identical(a, b access.Type) bool {
	ra, ok := a.(reflect.Type)
	if !ok {
		return false
	}

	rb, ok := b.(reflect.Type)

	return ok && ra == rb
}

// AssignableTo reports whether a value of type v is assignable to t.
func (c *Class) AssignableTo(v, t access.Type) bool {
	rv, ok := v.(reflect.Type)
	if !ok {
		return false
	}

	rt, ok := t.(reflect.Type)

	return ok && rv.AssignableTo(rt)
}

// IsBool reports whether t is a bool kind.
func (c *Class) IsBool(t access.Type) bool {
	rt, ok := t.(reflect.Type)
	return ok && rt.Kind() == reflect.Bool
}
