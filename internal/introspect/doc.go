// Package introspect builds class metadata and property descriptors.
//
// A Shape is anything that can list the fields and methods of a struct and
// compare the types they use. Class is the runtime implementation backed by
// reflect; internal/analyze provides one backed by go/types. Properties
// turns a Shape into access.PropertyDescriptor values using accessor naming
// conventions:
//
//   - getters: Get<Name>() T, Is<Name>() bool, or <Name>() T when the
//     backing field is unexported (the usual Go shape)
//   - setters: Set<Name>(T) with no results
//
// Fields tagged `map:"-"` are not properties. A tag value names the column a
// property is stored in (`map:"account_id"`).
package introspect
