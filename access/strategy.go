package access

import "property-mapper/internal/common"

// Strategy determines how mapped properties are read and written.
//
// The mapper asks for the AccessMode once per class. LocateGetter and
// LocateSetter are never called when the mode disallows accessor access.
// A nil result means "no accessor": the property must then be reachable
// through its field, otherwise the mapping is rejected.
//
// Implementations must be safe for concurrent use and must not panic.
type Strategy interface {
	// AccessMode returns the mode enforced for all properties.
	AccessMode() AccessMode

	// LocateGetter returns the method reading property, or nil.
	// A non-standard method may be returned, e.g. "HasAccount() bool" for a
	// boolean property named hasAccount, as long as it takes no parameters
	// and its single result is assignable to the property type.
	LocateGetter(class Class, property PropertyDescriptor) *Method

	// LocateSetter returns the method writing property, or nil.
	// A non-standard method may be returned as long as it takes a single
	// parameter that accepts the property type.
	LocateSetter(class Class, property PropertyDescriptor) *Method
}

// SetterPrefix is prepended to the capitalized property name to build the
// conventional setter name.
const SetterPrefix = "Set"

// SetterName returns the conventional setter name for property ("x" -> "SetX").
func SetterName(property string) string {
	return SetterPrefix + common.Capitalize(property)
}

// DefaultStrategy tries accessors first and fields as a last resort.
//
// It uses the getter and setter discovered by introspection and also
// recognizes relaxed setters, i.e. Set<Property> methods whose results are
// not empty.
type DefaultStrategy struct{}

// Default is the strategy used by the mapper when none is configured.
var Default Strategy = DefaultStrategy{}

var _ Strategy = DefaultStrategy{}

// AccessMode returns Both.
func (DefaultStrategy) AccessMode() AccessMode {
	return Both
}

// LocateGetter returns the conventional getter verbatim. Getters have no
// fallback search.
func (DefaultStrategy) LocateGetter(_ Class, property PropertyDescriptor) *Method {
	return property.ReadMethod
}

// LocateSetter returns the conventional setter, or else a relaxed setter:
// a non-static method named SetterName(property.Name) taking exactly one
// parameter of exactly property.Type. Assignable parameter types are not
// considered, so overloaded setters never make the result ambiguous.
func (DefaultStrategy) LocateSetter(class Class, property PropertyDescriptor) *Method {
	if property.WriteMethod != nil {
		return property.WriteMethod
	}

	return findRelaxedSetter(class, property)
}

// findRelaxedSetter degrades every lookup failure, including a panicking
// Class, to nil.
func findRelaxedSetter(class Class, property PropertyDescriptor) (setter *Method) {
	if class == nil || property.Name == "" || property.Type == nil {
		return nil
	}

	defer func() {
		if recover() != nil {
			setter = nil
		}
	}()

	m := class.Method(SetterName(property.Name), property.Type)
	if m == nil || m.Static {
		return nil
	}

	return m
}

// WithMode returns a strategy that enforces mode and delegates accessor
// lookups to s (Default when s is nil).
func WithMode(s Strategy, mode AccessMode) Strategy {
	if s == nil {
		s = Default
	}

	if ms, ok := s.(modeStrategy); ok {
		s = ms.Strategy
	}

	return modeStrategy{Strategy: s, mode: mode}
}

type modeStrategy struct {
	Strategy
	mode AccessMode
}

func (s modeStrategy) AccessMode() AccessMode {
	return s.mode
}
