package mapper

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-mapper/access"
	"property-mapper/internal/diagnostic"
	"property-mapper/internal/introspect"
	"property-mapper/store"
)

// recordingStrategy counts locate calls and delegates to access.Default.
type recordingStrategy struct {
	mode access.AccessMode

	mu      sync.Mutex
	getters int
	setters int
}

func (s *recordingStrategy) AccessMode() access.AccessMode { return s.mode }

func (s *recordingStrategy) LocateGetter(c access.Class, p access.PropertyDescriptor) *access.Method {
	s.mu.Lock()
	s.getters++
	s.mu.Unlock()

	return access.Default.LocateGetter(c, p)
}

func (s *recordingStrategy) LocateSetter(c access.Class, p access.PropertyDescriptor) *access.Method {
	s.mu.Lock()
	s.setters++
	s.mu.Unlock()

	return access.Default.LocateSetter(c, p)
}

// funcStrategy returns whatever its functions return.
type funcStrategy struct {
	getter func(c access.Class, p access.PropertyDescriptor) *access.Method
	setter func(c access.Class, p access.PropertyDescriptor) *access.Method
}

func (funcStrategy) AccessMode() access.AccessMode { return access.Both }

func (s funcStrategy) LocateGetter(c access.Class, p access.PropertyDescriptor) *access.Method {
	if s.getter == nil {
		return access.Default.LocateGetter(c, p)
	}

	return s.getter(c, p)
}

func (s funcStrategy) LocateSetter(c access.Class, p access.PropertyDescriptor) *access.Method {
	if s.setter == nil {
		return access.Default.LocateSetter(c, p)
	}

	return s.setter(c, p)
}

func TestNewPlan_Point(t *testing.T) {
	plan, err := NewPlan(introspect.MustOf(store.Point{}), nil)
	require.NoError(t, err)
	assert.Equal(t, access.Both, plan.Mode)
	require.Len(t, plan.Resolutions, 2, spew.Sdump(plan.Resolutions))

	x, ok := plan.Resolution("x")
	require.True(t, ok)
	assert.Equal(t, ViaMethod, x.ReadVia)
	assert.Equal(t, ViaMethod, x.WriteVia)
	assert.Equal(t, "GetX", x.Getter.Name)
	assert.Equal(t, "SetX", x.Setter.Name)
	assert.False(t, x.Relaxed())
	assert.Empty(t, plan.Diagnostics.ByCode(diagnostic.CodeFieldFallback), "no field fallback needed")
}

func TestNewPlan_ImmutableFallsBackToField(t *testing.T) {
	plan, err := NewPlan(introspect.MustOf(store.Immutable{}), access.Default)
	require.NoError(t, err)

	id, ok := plan.Resolution("id")
	require.True(t, ok)
	assert.Equal(t, ViaMethod, id.ReadVia)
	assert.Equal(t, "GetID", id.Getter.Name)
	assert.Nil(t, id.Setter)
	assert.Equal(t, ViaField, id.WriteVia)
	require.NotNil(t, id.Field)
	assert.Equal(t, "id", id.Field.Name)
	assert.Len(t, plan.Diagnostics.ByCode(diagnostic.CodeFieldFallback), 1)
}

func TestNewPlan_ImmutableAccessorsOnly(t *testing.T) {
	plan, err := NewPlan(introspect.MustOf(store.Immutable{}), access.WithMode(nil, access.Accessors))
	require.ErrorIs(t, err, ErrIllegalConfiguration)
	require.NotNil(t, plan)

	unwritable := plan.Diagnostics.ByCode(diagnostic.CodeUnwritableProperty)
	require.Len(t, unwritable, 1)
	assert.Equal(t, "id", unwritable[0].Property)
	assert.Contains(t, err.Error(), "access mode accessors ignores fields")
	assert.Empty(t, plan.Diagnostics.ByCode(diagnostic.CodeUnreadableProperty))
}

func TestNewPlan_FieldsModeSkipsLocate(t *testing.T) {
	strategy := &recordingStrategy{mode: access.Fields}

	plan, err := NewPlan(introspect.MustOf(store.Point{}), strategy)
	require.NoError(t, err)
	assert.Zero(t, strategy.getters)
	assert.Zero(t, strategy.setters)

	for _, r := range plan.Resolutions {
		assert.Equal(t, ViaField, r.ReadVia)
		assert.Equal(t, ViaField, r.WriteVia)
		assert.Nil(t, r.Getter)
	}

	assert.Empty(t, plan.Diagnostics.ByCode(diagnostic.CodeFieldFallback), "field access is the mode, not a fallback")
}

func TestNewPlan_LocateCalledPerProperty(t *testing.T) {
	strategy := &recordingStrategy{mode: access.Both}

	_, err := NewPlan(introspect.MustOf(store.Point{}), strategy)
	require.NoError(t, err)
	assert.Equal(t, 2, strategy.getters)
	assert.Equal(t, 2, strategy.setters)
}

type counter struct{}

func (*counter) GetCount() int { return 0 }
func (*counter) SetCount(int)  {}

func TestNewPlan_FieldsModeWithoutField(t *testing.T) {
	class := introspect.MustOf(counter{})

	plan, err := NewPlan(class, access.WithMode(nil, access.Fields))
	require.ErrorIs(t, err, ErrIllegalConfiguration)
	assert.Len(t, plan.Diagnostics.ByCode(diagnostic.CodeUnreadableProperty), 1)
	assert.Len(t, plan.Diagnostics.ByCode(diagnostic.CodeUnwritableProperty), 1)
	assert.Contains(t, err.Error(), "access mode fields ignores accessors")

	plan, err = NewPlan(class, nil)
	require.NoError(t, err)

	count, ok := plan.Resolution("count")
	require.True(t, ok)
	assert.Nil(t, count.Field)
	assert.Equal(t, ViaMethod, count.ReadVia)
	assert.Equal(t, ViaMethod, count.WriteVia)
}

func TestNewPlan_RelaxedSetters(t *testing.T) {
	plan, err := NewPlan(introspect.MustOf(store.Account{}), access.Default)
	require.NoError(t, err)

	owner, ok := plan.Resolution("owner")
	require.True(t, ok)
	assert.Equal(t, "Owner", owner.Getter.Name)
	assert.Equal(t, "SetOwner", owner.Setter.Name)
	assert.True(t, owner.Relaxed())

	balance, ok := plan.Resolution("balance")
	require.True(t, ok)
	assert.Equal(t, "SetBalance", balance.Setter.Name)

	active, ok := plan.Resolution("active")
	require.True(t, ok)
	assert.False(t, active.Relaxed())

	id, ok := plan.Resolution("ID")
	require.True(t, ok)
	assert.Equal(t, "account_id", id.Column)

	_, ok = plan.Resolution("cache")
	assert.False(t, ok)

	assert.Len(t, plan.Diagnostics.ByCode(diagnostic.CodeRelaxedSetter), 2)
}

func TestNewPlan_StaticSetterRejected(t *testing.T) {
	class := introspect.MustOf(store.Tenant{}, introspect.WithStatic("SetRegion", store.SetDefaultRegion))

	plan, err := NewPlan(class, access.Default)
	require.NoError(t, err)

	region, ok := plan.Resolution("region")
	require.True(t, ok)
	assert.Nil(t, region.Setter)
	assert.Equal(t, ViaField, region.WriteVia)

	_, err = NewPlan(class, access.WithMode(nil, access.Accessors))
	require.ErrorIs(t, err, ErrIllegalConfiguration)
}

func TestNewPlan_SetterOfOtherType(t *testing.T) {
	plan, err := NewPlan(introspect.MustOf(store.Gauge{}), access.Default)
	require.NoError(t, err)

	for _, name := range []string{"level", "unit"} {
		r, ok := plan.Resolution(name)
		require.True(t, ok)
		assert.Equal(t, ViaMethod, r.ReadVia, name)
		assert.Equal(t, ViaField, r.WriteVia, name)
	}
}

func TestNewPlan_ContractViolations(t *testing.T) {
	class := introspect.MustOf(store.Broken{})
	strategy := funcStrategy{
		getter: func(c access.Class, _ access.PropertyDescriptor) *access.Method { return c.Method("Pair") },
		setter: func(c access.Class, p access.PropertyDescriptor) *access.Method {
			return c.Method("Split", p.Type, p.Type)
		},
	}

	plan, err := NewPlan(class, strategy)
	require.ErrorIs(t, err, ErrIllegalConfiguration)
	assert.Len(t, plan.Diagnostics.ByCode(diagnostic.CodeInvalidGetter), 1)
	assert.Len(t, plan.Diagnostics.ByCode(diagnostic.CodeInvalidSetter), 1)
	assert.Contains(t, err.Error(), "must return exactly one value")
	assert.Contains(t, err.Error(), "must take exactly one parameter")
	assert.Empty(t, plan.Resolutions)
}

func TestNewPlan_StaticFromCustomStrategy(t *testing.T) {
	class := introspect.MustOf(store.Tenant{}, introspect.WithStatic("SetRegion", store.SetDefaultRegion))
	strategy := funcStrategy{
		setter: func(c access.Class, p access.PropertyDescriptor) *access.Method {
			return c.Method(access.SetterName(p.Name), p.Type)
		},
	}

	plan, err := NewPlan(class, strategy)
	require.ErrorIs(t, err, ErrIllegalConfiguration)

	invalid := plan.Diagnostics.ByCode(diagnostic.CodeInvalidSetter)
	require.Len(t, invalid, 1)
	assert.Equal(t, "region", invalid[0].Property)
	assert.Contains(t, invalid[0].Message, "is static")
}

type member struct {
	account bool
}

func (m *member) HasAccount() bool { return m.account }

func TestNewPlan_VerbGetter(t *testing.T) {
	class := introspect.MustOf(member{})
	strategy := funcStrategy{
		getter: func(c access.Class, _ access.PropertyDescriptor) *access.Method {
			return c.Method("HasAccount")
		},
	}

	plan, err := NewPlan(class, strategy)
	require.NoError(t, err)

	r, ok := plan.Resolution("account")
	require.True(t, ok)
	assert.Equal(t, "HasAccount", r.Getter.Name)
	assert.Equal(t, ViaField, r.WriteVia)

	_, err = NewPlan(class, access.WithMode(strategy, access.Accessors))
	require.ErrorIs(t, err, ErrIllegalConfiguration, "no setter and fields are disabled")
}

func TestNewPlan_Options(t *testing.T) {
	class := introspect.MustOf(store.Customer{})

	plan, err := NewPlan(class, nil, WithIgnore("address", "emal"), WithColumns(map[string]string{"email": "mail"}))
	require.NoError(t, err)

	_, ok := plan.Resolution("address")
	assert.False(t, ok)

	email, ok := plan.Resolution("email")
	require.True(t, ok)
	assert.Equal(t, "mail", email.Column)

	fullName, ok := plan.Resolution("fullName")
	require.True(t, ok)
	assert.Equal(t, "full_name", fullName.Column)

	unknown := plan.Diagnostics.ByCode(diagnostic.CodeUnknownProperty)
	require.Len(t, unknown, 1)
	assert.Equal(t, diagnostic.DiagnosticWarning, unknown[0].Severity)
	assert.Equal(t, []string{"email"}, unknown[0].Suggestions)
}

func TestNewPlan_UnknownColumnOverride(t *testing.T) {
	_, err := NewPlan(introspect.MustOf(store.Customer{}), nil, WithColumns(map[string]string{"fulName": "name"}))
	require.ErrorIs(t, err, ErrIllegalConfiguration)
	assert.Contains(t, err.Error(), "did you mean fullName")
}

func TestNewPlan_DuplicateColumn(t *testing.T) {
	_, err := NewPlan(introspect.MustOf(store.Point{}), nil, WithColumns(map[string]string{"x": "coord", "y": "coord"}))
	require.ErrorIs(t, err, ErrIllegalConfiguration)
	assert.Contains(t, err.Error(), diagnostic.CodeDuplicateColumn)
}

type twinFields struct {
	Name string
	name string
}

func TestNewPlan_DuplicateProperty(t *testing.T) {
	plan, err := NewPlan(introspect.MustOf(twinFields{}), nil)
	require.ErrorIs(t, err, ErrIllegalConfiguration)

	dups := plan.Diagnostics.ByCode(diagnostic.CodeDuplicateProperty)
	require.Len(t, dups, 1)
	assert.Equal(t, "name", dups[0].Property)
	assert.Contains(t, dups[0].Message, "Name, name")
}

type invalidMode struct{ access.DefaultStrategy }

func (invalidMode) AccessMode() access.AccessMode { return 0 }

func TestNewPlan_InvalidMode(t *testing.T) {
	plan, err := NewPlan(introspect.MustOf(store.Point{}), invalidMode{})
	require.ErrorIs(t, err, ErrIllegalConfiguration)
	assert.Len(t, plan.Diagnostics.ByCode(diagnostic.CodeInvalidMode), 1)
}

func TestNewPlan_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := NewPlan(introspect.MustOf(store.Immutable{}), access.WithMode(nil, access.Accessors), WithLogger(logger))
	require.Error(t, err)

	_, err = NewPlan(introspect.MustOf(store.Point{}), nil, WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "mapping rejected")
	assert.Contains(t, out, "class=store.Immutable")
	assert.Contains(t, out, "resolved property")
	assert.Contains(t, out, "store.Point.GetX() float64")
}

func TestNewPlan_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	again, err := NewMetrics(reg)
	require.NoError(t, err)
	assert.Same(t, metrics.Collector(), again.Collector())

	_, err = NewPlan(introspect.MustOf(store.Immutable{}), nil, WithMetrics(metrics))
	require.NoError(t, err)

	_, err = NewPlan(introspect.MustOf(store.Immutable{}), access.WithMode(nil, access.Accessors), WithMetrics(metrics))
	require.Error(t, err, "rejected plans are not counted")

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "propaccess_property_bindings_total", families[0].GetName())

	counts := make(map[string]float64)
	for _, m := range families[0].GetMetric() {
		labels := make(map[string]string)
		for _, l := range m.GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}

		counts[labels["direction"]+"/"+labels["via"]] = m.GetCounter().GetValue()
	}

	assert.Equal(t, map[string]float64{"read/method": 1, "write/field": 1}, counts)
}

func TestVia_String(t *testing.T) {
	assert.Equal(t, "none", ViaNone.String())
	assert.Equal(t, "method", ViaMethod.String())
	assert.Equal(t, "field", ViaField.String())
}
