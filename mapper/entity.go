package mapper

import (
	"errors"
	"fmt"
	"reflect"
	"unsafe"

	"property-mapper/access"
	"property-mapper/internal/introspect"
)

var (
	// ErrInvalidTarget is returned when an object is not a non-nil pointer
	// to the bound struct.
	ErrInvalidTarget = errors.New("invalid target object")
	// ErrTypeMismatch is returned when a value cannot be assigned to a property.
	ErrTypeMismatch = errors.New("value type mismatch")
	// ErrUnknownProperty is returned when no bound property has the given name.
	ErrUnknownProperty = errors.New("unknown property")
	// ErrUnknownColumn is returned when a record holds a column no property maps to.
	ErrUnknownColumn = errors.New("unknown column")
)

var errorType = reflect.TypeFor[error]()

// Entity reads and writes the mapped properties of one struct type.
// It is immutable and safe for concurrent use.
type Entity struct {
	class    *introspect.Class
	plan     *Plan
	props    []*Property
	byName   map[string]*Property
	byColumn map[string]*Property
}

// Property is a bound property.
type Property struct {
	Resolution
	typ   reflect.Type
	read  func(obj reflect.Value) reflect.Value
	write func(obj, value reflect.Value) error
}

// Bind plans class with strategy and prepares invokers for every property.
func Bind(class *introspect.Class, strategy access.Strategy, opts ...Option) (*Entity, error) {
	plan, err := NewPlan(class, strategy, opts...)
	if err != nil {
		return nil, err
	}

	e := &Entity{
		class:    class,
		plan:     plan,
		byName:   make(map[string]*Property, len(plan.Resolutions)),
		byColumn: make(map[string]*Property, len(plan.Resolutions)),
	}

	for _, r := range plan.Resolutions {
		prop, err := bindProperty(class, r)
		if err != nil {
			return nil, fmt.Errorf("%w: [%s] %s: %w", ErrIllegalConfiguration, class.Name(), r.Property.Name, err)
		}

		e.props = append(e.props, prop)
		e.byName[r.Property.Name] = prop
		e.byColumn[r.Column] = prop
	}

	return e, nil
}

func bindProperty(class *introspect.Class, r Resolution) (*Property, error) {
	typ, ok := r.Property.Type.(reflect.Type)
	if !ok {
		return nil, fmt.Errorf("property type %s is not a runtime type", r.Property.Type)
	}

	p := &Property{Resolution: r, typ: typ}

	switch r.ReadVia {
	case ViaMethod:
		fn, err := invocable(r.Getter)
		if err != nil {
			return nil, err
		}

		p.read = func(obj reflect.Value) reflect.Value {
			return fn.Call([]reflect.Value{obj})[0]
		}
	case ViaField:
		index := r.Field.Index
		p.read = func(obj reflect.Value) reflect.Value {
			return fieldValue(obj, index)
		}
	default:
		return nil, fmt.Errorf("property of %s has no reader", class.Name())
	}

	switch r.WriteVia {
	case ViaMethod:
		fn, err := invocable(r.Setter)
		if err != nil {
			return nil, err
		}

		p.write = func(obj, value reflect.Value) error {
			for _, out := range fn.Call([]reflect.Value{obj, value}) {
				if out.Type() == errorType && !out.IsNil() {
					return out.Interface().(error)
				}
			}

			return nil
		}
	case ViaField:
		index := r.Field.Index
		p.write = func(obj, value reflect.Value) error {
			fieldValue(obj, index).Set(value)
			return nil
		}
	default:
		return nil, fmt.Errorf("property of %s has no writer", class.Name())
	}

	return p, nil
}

// invocable returns the function of a runtime method; the receiver is its
// first argument.
func invocable(m *access.Method) (reflect.Value, error) {
	rm, ok := m.Impl.(reflect.Method)
	if !ok || m.Static {
		return reflect.Value{}, fmt.Errorf("%s is not an invocable instance method", m)
	}

	return rm.Func, nil
}

// fieldValue returns the settable field at index, unexported ones included.
func fieldValue(obj reflect.Value, index []int) reflect.Value {
	f := obj.Elem().FieldByIndex(index)
	if !f.CanSet() {
		f = reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem()
	}

	return f
}

// Class returns the bound class.
func (e *Entity) Class() *introspect.Class {
	return e.class
}

// Plan returns the plan the entity was built from.
func (e *Entity) Plan() *Plan {
	return e.plan
}

// Properties returns the bound properties sorted by name.
func (e *Entity) Properties() []*Property {
	return e.props
}

// Property returns the bound property with the given name.
func (e *Entity) Property(name string) (*Property, bool) {
	p, ok := e.byName[name]
	return p, ok
}

func (e *Entity) target(obj any) (reflect.Value, error) {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Type() != e.class.Type() {
		return reflect.Value{}, fmt.Errorf("%w: want non-nil *%s, got %T", ErrInvalidTarget, e.class.Name(), obj)
	}

	return v, nil
}

// Get reads the named property of obj.
func (e *Entity) Get(obj any, property string) (any, error) {
	p, ok := e.byName[property]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no property %s", ErrUnknownProperty, e.class.Name(), property)
	}

	v, err := e.target(obj)
	if err != nil {
		return nil, err
	}

	return p.read(v).Interface(), nil
}

// Set writes the named property of obj.
func (e *Entity) Set(obj any, property string, value any) error {
	p, ok := e.byName[property]
	if !ok {
		return fmt.Errorf("%w: %s has no property %s", ErrUnknownProperty, e.class.Name(), property)
	}

	v, err := e.target(obj)
	if err != nil {
		return err
	}

	return p.set(v, value)
}

func (p *Property) set(obj reflect.Value, value any) error {
	val, err := p.convert(value)
	if err != nil {
		return err
	}

	return p.assign(obj, val)
}

// convert returns value as a p.typ value; nil becomes the zero value of
// nillable types.
func (p *Property) convert(value any) (reflect.Value, error) {
	val := reflect.New(p.typ).Elem()

	if value != nil {
		rv := reflect.ValueOf(value)
		if !rv.Type().AssignableTo(p.typ) {
			return reflect.Value{}, fmt.Errorf("%w: property %s is %s, got %s", ErrTypeMismatch, p.Property.Name, p.typ, rv.Type())
		}

		val.Set(rv)
	} else if !nillable(p.typ) {
		return reflect.Value{}, fmt.Errorf("%w: property %s is %s, got nil", ErrTypeMismatch, p.Property.Name, p.typ)
	}

	return val, nil
}

func (p *Property) assign(obj, val reflect.Value) error {
	if err := p.write(obj, val); err != nil {
		return fmt.Errorf("setting %s: %w", p.Property.Name, err)
	}

	return nil
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

// Record reads every property of obj, keyed by column.
func (e *Entity) Record(obj any) (map[string]any, error) {
	v, err := e.target(obj)
	if err != nil {
		return nil, err
	}

	row := make(map[string]any, len(e.props))
	for _, p := range e.props {
		row[p.Column] = p.read(v).Interface()
	}

	return row, nil
}

// Load writes every column of record into obj. Properties without a column
// in record are left untouched. Columns and value types are checked before
// anything is written; an error returned by a setter stops the load with the
// earlier properties already written.
func (e *Entity) Load(obj any, record map[string]any) error {
	v, err := e.target(obj)
	if err != nil {
		return err
	}

	for column := range record {
		if _, ok := e.byColumn[column]; !ok {
			return fmt.Errorf("%w: %s has no column %s", ErrUnknownColumn, e.class.Name(), column)
		}
	}

	type pending struct {
		prop *Property
		val  reflect.Value
	}

	writes := make([]pending, 0, len(record))
	for _, p := range e.props {
		value, ok := record[p.Column]
		if !ok {
			continue
		}

		val, err := p.convert(value)
		if err != nil {
			return err
		}

		writes = append(writes, pending{prop: p, val: val})
	}

	for _, w := range writes {
		if err := w.prop.assign(v, w.val); err != nil {
			return err
		}
	}

	return nil
}
