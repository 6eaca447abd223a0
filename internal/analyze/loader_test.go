package analyze

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-mapper/access"
	"property-mapper/internal/introspect"
)

const storePkg = "property-mapper/store"

func loadStore(t *testing.T) *Analyzer {
	t.Helper()

	analyzer := NewAnalyzer()
	require.NoError(t, analyzer.LoadPackages(storePkg))

	return analyzer
}

func TestAnalyzer_LoadPackages(t *testing.T) {
	analyzer := loadStore(t)
	assert.Equal(t, []string{storePkg}, analyzer.Packages())

	structs := analyzer.Structs(storePkg)
	assert.Contains(t, structs, "Point")
	assert.Contains(t, structs, "Immutable")
	assert.Contains(t, structs, "Account")
	assert.NotContains(t, structs, "ErrNegativeBalance")
}

func TestAnalyzer_LoadPackagesError(t *testing.T) {
	analyzer := NewAnalyzer()
	err := analyzer.LoadPackages("property-mapper/does-not-exist")
	require.Error(t, err)
}

func TestAnalyzer_Class(t *testing.T) {
	analyzer := loadStore(t)

	point, err := analyzer.Class(storePkg, "Point")
	require.NoError(t, err)
	assert.Equal(t, "store.Point", point.Name())
	assert.Equal(t, TypeID{PkgPath: storePkg, Name: "Point"}, point.ID())

	again, err := analyzer.Class(storePkg, "Point")
	require.NoError(t, err)
	assert.Same(t, point, again)

	_, err = analyzer.Class(storePkg, "Missing")
	require.ErrorIs(t, err, ErrTypeNotFound)

	_, err = analyzer.Class("property-mapper/other", "Point")
	require.ErrorIs(t, err, ErrTypeNotFound)

	_, err = analyzer.Class(storePkg, "SetDefaultRegion")
	require.ErrorIs(t, err, ErrTypeNotFound)
}

func TestClass_Method(t *testing.T) {
	analyzer := loadStore(t)

	account, err := analyzer.Class(storePkg, "Account")
	require.NoError(t, err)

	str := types.Typ[types.String]

	setOwner := account.Method("SetOwner", str)
	require.NotNil(t, setOwner)
	require.Len(t, setOwner.Results, 1)
	assert.Equal(t, "*property-mapper/store.Account", setOwner.Results[0].String())
	assert.IsType(t, &types.Func{}, setOwner.Impl)

	assert.Nil(t, account.Method("SetOwner", types.Typ[types.Int]))
	assert.Nil(t, account.Method("SetOwner"))
}

func TestClass_Fields(t *testing.T) {
	analyzer := loadStore(t)

	customer, err := analyzer.Class(storePkg, "Customer")
	require.NoError(t, err)

	var names []string
	for _, f := range customer.Fields() {
		names = append(names, f.Name)
	}

	assert.Equal(t, []string{"CreatedAt", "UpdatedAt", "ID", "Email", "FullName", "Address", "Active"}, names)
	assert.Equal(t, []int{0, 1}, customer.Fields()[1].Index)
}

func TestClass_Properties(t *testing.T) {
	analyzer := loadStore(t)

	account, err := analyzer.Class(storePkg, "Account")
	require.NoError(t, err)

	props := make(map[string]access.PropertyDescriptor)
	for _, p := range introspect.Properties(account) {
		props[p.Name] = p
	}

	require.Contains(t, props, "active")
	assert.Equal(t, "IsActive", props["active"].ReadMethod.Name)
	assert.Equal(t, "SetActive", props["active"].WriteMethod.Name)

	owner := props["owner"]
	assert.Equal(t, "Owner", owner.ReadMethod.Name)
	assert.Nil(t, owner.WriteMethod)

	relaxed := access.Default.LocateSetter(account, owner)
	require.NotNil(t, relaxed)
	assert.Equal(t, "SetOwner", relaxed.Name)
	assert.NotContains(t, props, "cache")
}

func TestClass_TypeQueries(t *testing.T) {
	analyzer := loadStore(t)

	point, err := analyzer.Class(storePkg, "Point")
	require.NoError(t, err)

	assert.True(t, point.IsBool(types.Typ[types.Bool]))
	assert.False(t, point.IsBool(types.Typ[types.String]))
	assert.True(t, point.Identical(types.Typ[types.Float64], types.Typ[types.Float64]))
	assert.True(t, point.AssignableTo(types.Typ[types.Int], types.Universe.Lookup("any").Type()))
	assert.False(t, point.AssignableTo(types.Typ[types.Int], types.Typ[types.String]))
}
