package analyze

import (
	"errors"
	"fmt"
	"go/types"
	"slices"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

var (
	// ErrTypeNotFound is returned when a type is not declared in a loaded package.
	ErrTypeNotFound = errors.New("type not found")
	// ErrNotStruct is returned when a type is not a struct.
	ErrNotStruct = errors.New("not a struct type")
)

// Analyzer loads Go packages and builds classes for their structs.
// It is not safe for concurrent use; the classes it returns are.
type Analyzer struct {
	pkgs    map[string]*packages.Package
	roots   []string
	classes map[TypeID]*Class
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		pkgs:    make(map[string]*packages.Package),
		classes: make(map[TypeID]*Class),
	}
}

// LoadPackages loads the specified packages.
// Patterns are standard Go package patterns (e.g., "./store", "property-mapper/store").
func (a *Analyzer) LoadPackages(patterns ...string) error {
	cfg := &packages.Config{
		Mode: LoadMode,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	for _, pkg := range pkgs {
		if _, ok := a.pkgs[pkg.PkgPath]; !ok {
			a.roots = append(a.roots, pkg.PkgPath)
		}
		a.pkgs[pkg.PkgPath] = pkg
	}

	return nil
}

// Packages returns the import paths of the loaded packages, in load order.
func (a *Analyzer) Packages() []string {
	return slices.Clone(a.roots)
}

// Structs returns the exported struct type names declared in pkgPath, sorted.
func (a *Analyzer) Structs(pkgPath string) []string {
	pkg, ok := a.pkgs[pkgPath]
	if !ok {
		return nil
	}

	var out []string

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !tn.Exported() || tn.IsAlias() {
			continue
		}

		if _, ok := tn.Type().Underlying().(*types.Struct); ok {
			out = append(out, name)
		}
	}

	return out
}

// Class returns the class of the named struct declared in pkgPath.
func (a *Analyzer) Class(pkgPath, typeName string) (*Class, error) {
	id := TypeID{PkgPath: pkgPath, Name: typeName}
	if c, ok := a.classes[id]; ok {
		return c, nil
	}

	pkg, ok := a.pkgs[pkgPath]
	if !ok {
		return nil, fmt.Errorf("%w: package %s is not loaded", ErrTypeNotFound, pkgPath)
	}

	tn, ok := pkg.Types.Scope().Lookup(typeName).(*types.TypeName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, id)
	}

	named, ok := tn.Type().(*types.Named)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a named type", ErrNotStruct, id)
	}

	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotStruct, id)
	}

	c := newClass(id, named, st)
	a.classes[id] = c

	return c, nil
}
