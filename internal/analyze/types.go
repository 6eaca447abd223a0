package analyze

import (
	"go/types"
	"reflect"

	"property-mapper/access"
	"property-mapper/internal/common"
	"property-mapper/internal/introspect"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "property-mapper/store"
	Name    string // e.g., "Point"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Class is the static metadata of a named struct type.
type Class struct {
	id      TypeID
	named   *types.Named
	fields  []introspect.Field
	methods []*access.Method
	byName  map[string]*access.Method
}

var (
	_ access.Class     = (*Class)(nil)
	_ introspect.Shape = (*Class)(nil)
)

func newClass(id TypeID, named *types.Named, st *types.Struct) *Class {
	c := &Class{
		id:     id,
		named:  named,
		fields: structFields(st),
		byName: make(map[string]*access.Method),
	}

	// Method set of *T: value and pointer receivers plus promoted methods.
	ms := types.NewMethodSet(types.NewPointer(named))
	for i := range ms.Len() {
		fn, ok := ms.At(i).Obj().(*types.Func)
		if !ok || !fn.Exported() {
			continue
		}

		sig := fn.Type().(*types.Signature)
		m := &access.Method{
			Name:    fn.Name(),
			Owner:   c.Name(),
			Params:  tupleTypes(sig.Params()),
			Results: tupleTypes(sig.Results()),
			Impl:    fn,
		}
		c.methods = append(c.methods, m)
		c.byName[m.Name] = m
	}

	return c
}

func tupleTypes(t *types.Tuple) []access.Type {
	if t.Len() == 0 {
		return nil
	}

	out := make([]access.Type, t.Len())
	for i := range t.Len() {
		out[i] = t.At(i).Type()
	}

	return out
}

type fieldAt struct {
	field introspect.Field
	depth int
}

// structFields flattens untagged embedded structs following Go's promotion
// rule: the shallowest field wins and same-depth duplicates cancel out.
func structFields(st *types.Struct) []introspect.Field {
	var collected []fieldAt

	collectFields(st, nil, 0, &collected)

	shallowest := make(map[string]int)
	count := make(map[string]int)

	for _, fa := range collected {
		d, seen := shallowest[fa.field.Name]
		switch {
		case !seen || fa.depth < d:
			shallowest[fa.field.Name] = fa.depth
			count[fa.field.Name] = 1
		case fa.depth == d:
			count[fa.field.Name]++
		}
	}

	var out []introspect.Field

	for _, fa := range collected {
		name := fa.field.Name
		if shallowest[name] == fa.depth && count[name] == 1 {
			out = append(out, fa.field)
		}
	}

	return out
}

func collectFields(st *types.Struct, prefix []int, depth int, out *[]fieldAt) {
	for i := range st.NumFields() {
		v := st.Field(i)
		tag := reflect.StructTag(st.Tag(i))
		index := append(append([]int{}, prefix...), i)

		if v.Embedded() && tag.Get(introspect.TagKey) == "" {
			if inner, ok := v.Type().Underlying().(*types.Struct); ok {
				collectFields(inner, index, depth+1, out)
				continue
			}
		}

		*out = append(*out, fieldAt{
			field: introspect.Field{
				Name:     v.Name(),
				Type:     v.Type(),
				Exported: v.Exported(),
				Tag:      tag,
				Index:    index,
			},
			depth: depth,
		})
	}
}

// ID returns the type identifier.
func (c *Class) ID() TypeID {
	return c.id
}

// Name returns the qualified class name, e.g. "store.Point".
func (c *Class) Name() string {
	return common.QualifiedName(c.id.PkgPath, c.id.Name)
}

// Method returns the method with exactly this name and parameter types.
// Analyzed classes have no static members.
func (c *Class) Method(name string, params ...access.Type) *access.Method {
	m, ok := c.byName[name]
	if !ok || len(m.Params) != len(params) {
		return nil
	}

	for i := range params {
		if !c.Identical(m.Params[i], params[i]) {
			return nil
		}
	}

	return m
}

// Fields returns the mappable fields.
func (c *Class) Fields() []introspect.Field {
	return c.fields
}

// Methods returns the exported methods sorted by name.
func (c *Class) Methods() []*access.Method {
	return c.methods
}

// Identical reports whether a and b are identical go/types types.
func (c *Class) Identical(a, b access.Type) bool {
	ta, ok := a.(types.Type)
	if !ok {
		return false
	}

	tb, ok := b.(types.Type)

	return ok && types.Identical(ta, tb)
}

// AssignableTo reports whether a value of type v is assignable to t.
func (c *Class) AssignableTo(v, t access.Type) bool {
	tv, ok := v.(types.Type)
	if !ok {
		return false
	}

	tt, ok := t.(types.Type)

	return ok && types.AssignableTo(tv, tt)
}

// IsBool reports whether t has an underlying boolean type.
func (c *Class) IsBool(t access.Type) bool {
	tt, ok := t.(types.Type)
	if !ok {
		return false
	}

	b, ok := tt.Underlying().(*types.Basic)

	return ok && b.Info()&types.IsBoolean != 0
}
