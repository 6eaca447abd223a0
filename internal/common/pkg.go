package common

import "path"

// UnknownStr is the String() value of out-of-range enum values.
const UnknownStr = "unknown"

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}

// QualifiedName returns "alias.Name" for a type declared in pkgPath,
// or just name when the package path is empty.
func QualifiedName(pkgPath, name string) string {
	alias := PkgAlias(pkgPath)
	if alias == "" || alias == "." {
		return name
	}

	return alias + "." + name
}
