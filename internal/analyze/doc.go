// Package analyze provides package loading and go/types backed classes.
//
// It uses golang.org/x/tools/go/packages to load packages without running
// them, so the accessor resolution of a struct can be checked statically.
//
// Key types:
//   - TypeID: package import path + type name
//   - Analyzer: loads packages and looks up struct classes
//   - Class: implements access.Class and introspect.Shape over go/types
package analyze
