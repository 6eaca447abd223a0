// Package mapper binds the properties of a struct to accessors or fields.
//
// NewPlan asks an access.Strategy for its mode once, locates accessors only
// when the mode allows them, and falls back to struct fields when a locate
// call returns nil and field access is allowed. Methods returned by the
// strategy are checked against the accessor contract. Every property that
// ends up without a reader or a writer is reported once, and the plan fails
// with ErrIllegalConfiguration.
//
// Bind turns a plan over a runtime class into an Entity that reads and
// writes properties, or whole records, of struct instances:
//
//	entity, err := mapper.Bind(introspect.MustOf(store.Point{}), access.Default)
//	...
//	row, err := entity.Record(&point)
package mapper
