package introspect

import (
	"reflect"
	"strings"

	"property-mapper/access"
	"property-mapper/internal/common"
)

// TagKey is the struct tag consulted for column names and exclusions.
const TagKey = "map"

// Field describes a (possibly promoted) struct field.
type Field struct {
	Name     string            // Go field name
	Type     access.Type       // Field type
	Exported bool              // Whether the field is exported
	Tag      reflect.StructTag // Raw struct tag
	Index    []int             // Index path from the outer struct
}

// Property returns the name of the property backed by this field.
// Exported fields are decapitalized ("X" -> "x"); unexported names are kept.
func (f Field) Property() string {
	if f.Exported {
		return common.Decapitalize(f.Name)
	}

	return f.Name
}

// Column returns the column name from the `map` tag, or "" when absent.
func (f Field) Column() string {
	name, _, _ := strings.Cut(f.Tag.Get(TagKey), ",")
	if name == "-" {
		return ""
	}

	return name
}

// Skipped reports whether the field is excluded with `map:"-"`.
func (f Field) Skipped() bool {
	return f.Tag.Get(TagKey) == "-"
}

// Shape is the metadata of a struct needed to discover its properties.
type Shape interface {
	access.Class

	// Fields returns the mappable fields, promoted fields included.
	Fields() []Field
	// Methods returns the instance methods sorted by name; static members
	// are not included.
	Methods() []*access.Method
	// Identical reports whether a and b denote the same type.
	Identical(a, b access.Type) bool
	// AssignableTo reports whether a value of type v can be assigned to t.
	AssignableTo(v, t access.Type) bool
	// IsBool reports whether t is a boolean type.
	IsBool(t access.Type) bool
}

// FieldFor returns the field backing property, if any.
func FieldFor(s Shape, property string) (Field, bool) {
	for _, f := range s.Fields() {
		if f.Property() == property {
			return f, true
		}
	}

	return Field{}, false
}
