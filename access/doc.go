// Package access decides how the properties of a mapped struct are read and
// written.
//
// An AccessMode states whether the mapper may use struct fields, accessor
// methods, or both. A Strategy enforces one mode and locates the getter and
// setter for each property; a nil result tells the mapper to fall back to
// the field (when the mode allows it).
//
// DefaultStrategy uses the accessors discovered by introspection and, when
// no conventional setter exists, looks for a "relaxed" setter: a method named
// Set<Property> taking exactly the property type and returning anything,
// which covers fluent setters such as
//
//	func (a *Account) SetOwner(owner string) *Account
//
// Classes are abstracted behind the Class interface so the same strategy
// serves runtime reflection (internal/introspect) and static analysis over
// go/types (internal/analyze).
package access
