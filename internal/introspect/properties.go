package introspect

import (
	"slices"
	"strings"

	"property-mapper/access"
	"property-mapper/internal/common"
)

// getter naming ranks; a higher rank wins when several getters match.
const (
	rankBare = iota + 1
	rankIs
	rankGet
)

type candidate struct {
	desc  access.PropertyDescriptor
	field bool // backed by a field
	rank  int  // rank of the current ReadMethod
}

// Conflict lists fields whose names fold to the same property. Only the
// first field backs the property.
type Conflict struct {
	Property string
	Fields   []string
}

// Properties discovers the properties of s, sorted by name. Fields that
// collide with an earlier field are dropped; use Discover to see them.
func Properties(s Shape) []access.PropertyDescriptor {
	props, _ := Discover(s)
	return props
}

// Discover returns the properties of s, sorted by name, and the field
// collisions found on the way.
//
// Field-backed properties come first; a getter or setter only attaches to
// one when its type is identical to the field type. Accessors without a
// field define properties of their own.
func Discover(s Shape) ([]access.PropertyDescriptor, []Conflict) {
	props := make(map[string]*candidate)
	owners := make(map[string][]string)

	for _, f := range s.Fields() {
		if f.Skipped() {
			continue
		}

		name := f.Property()
		k := key(name)
		owners[k] = append(owners[k], f.Name)

		if _, dup := props[k]; dup {
			continue
		}

		props[k] = &candidate{
			desc:  access.PropertyDescriptor{Name: name, Type: f.Type},
			field: true,
		}
	}

	var conflicts []Conflict
	for k, fields := range owners {
		if len(fields) > 1 {
			conflicts = append(conflicts, Conflict{Property: props[k].desc.Name, Fields: fields})
		}
	}

	slices.SortFunc(conflicts, func(a, b Conflict) int {
		return strings.Compare(a.Property, b.Property)
	})

	methods := s.Methods()

	for _, m := range methods {
		base, rank, ok := getterBase(s, m)
		if !ok {
			continue
		}

		c, exists := props[key(base)]
		if rank == rankBare && (!exists || !c.field) {
			// Bare getters only make sense next to an unexported field.
			continue
		}

		if !exists {
			c = &candidate{desc: access.PropertyDescriptor{Name: common.Decapitalize(base), Type: m.Results[0]}}
			props[key(base)] = c
		}

		if !s.Identical(m.Results[0], c.desc.Type) || rank <= c.rank {
			continue
		}

		c.desc.ReadMethod = m
		c.rank = rank
	}

	for _, m := range methods {
		base, ok := setterBase(m)
		if !ok {
			continue
		}

		c, exists := props[key(base)]
		if !exists {
			c = &candidate{desc: access.PropertyDescriptor{Name: common.Decapitalize(base), Type: m.Params[0]}}
			props[key(base)] = c
		}

		if c.desc.WriteMethod == nil && s.Identical(m.Params[0], c.desc.Type) {
			c.desc.WriteMethod = m
		}
	}

	out := make([]access.PropertyDescriptor, 0, len(props))
	for _, c := range props {
		out = append(out, c.desc)
	}

	slices.SortFunc(out, func(a, b access.PropertyDescriptor) int {
		return strings.Compare(a.Name, b.Name)
	})

	return out, conflicts
}

// key folds case so that "ID", "Id" and "id" name the same property.
func key(name string) string {
	return strings.ToLower(name)
}

func getterBase(s Shape, m *access.Method) (string, int, bool) {
	if m.Static || len(m.Params) != 0 || len(m.Results) != 1 {
		return "", 0, false
	}

	if base, ok := strings.CutPrefix(m.Name, "Get"); ok && common.IsExportedName(base) {
		return base, rankGet, true
	}

	if base, ok := strings.CutPrefix(m.Name, "Is"); ok && common.IsExportedName(base) && s.IsBool(m.Results[0]) {
		return base, rankIs, true
	}

	return m.Name, rankBare, true
}

func setterBase(m *access.Method) (string, bool) {
	if m.Static || len(m.Params) != 1 || len(m.Results) != 0 {
		return "", false
	}

	base, ok := strings.CutPrefix(m.Name, access.SetterPrefix)
	if !ok || !common.IsExportedName(base) {
		return "", false
	}

	return base, true
}
