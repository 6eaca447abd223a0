package mapper

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"property-mapper/access"
	"property-mapper/internal/diagnostic"
	"property-mapper/internal/introspect"
	"property-mapper/internal/match"
)

// ErrIllegalConfiguration is wrapped by planning and binding errors.
var ErrIllegalConfiguration = diagnostic.ErrIllegalConfiguration

// Via tells how a property is read or written.
type Via int

const (
	ViaNone Via = iota
	ViaMethod
	ViaField
)

// String returns "none", "method" or "field".
func (v Via) String() string {
	switch v {
	case ViaMethod:
		return "method"
	case ViaField:
		return "field"
	default:
		return "none"
	}
}

// Resolution describes how one property is accessed.
type Resolution struct {
	Property access.PropertyDescriptor
	Column   string
	Getter   *access.Method    // set when ReadVia is ViaMethod
	Setter   *access.Method    // set when WriteVia is ViaMethod
	Field    *introspect.Field // backing field, if any
	ReadVia  Via
	WriteVia Via
}

// Relaxed reports whether the setter was located beyond the conventional
// one discovered by introspection.
func (r Resolution) Relaxed() bool {
	return r.Setter != nil && r.Setter != r.Property.WriteMethod
}

// Plan is the outcome of resolving every property of a class.
type Plan struct {
	Class       string
	Mode        access.AccessMode
	Resolutions []Resolution
	Diagnostics diagnostic.Diagnostics
}

// Resolution returns the resolution of the named property.
func (p *Plan) Resolution(property string) (Resolution, bool) {
	for _, r := range p.Resolutions {
		if r.Property.Name == property {
			return r, true
		}
	}

	return Resolution{}, false
}

// NewPlan resolves the properties of shape with strategy (access.Default
// when nil). The plan is returned even when it is invalid, together with an
// error wrapping ErrIllegalConfiguration.
func NewPlan(shape introspect.Shape, strategy access.Strategy, opts ...Option) (*Plan, error) {
	if strategy == nil {
		strategy = access.Default
	}

	o := newOptions(opts)
	p := &planner{
		shape:    shape,
		strategy: strategy,
		opts:     o,
		plan:     &Plan{Class: shape.Name(), Mode: strategy.AccessMode()},
		log:      o.logger.With("class", shape.Name()),
	}

	p.run()

	if err := p.plan.Diagnostics.Error(); err != nil {
		p.log.Warn("mapping rejected", "errors", len(p.plan.Diagnostics.Errors))
		return p.plan, err
	}

	for _, r := range p.plan.Resolutions {
		o.metrics.observe("read", r.ReadVia)
		o.metrics.observe("write", r.WriteVia)
	}

	return p.plan, nil
}

type planner struct {
	shape    introspect.Shape
	strategy access.Strategy
	opts     *options
	plan     *Plan
	log      *slog.Logger
	fields   []string
}

func (p *planner) diag() *diagnostic.Diagnostics {
	return &p.plan.Diagnostics
}

func (p *planner) run() {
	mode := p.plan.Mode
	if !mode.IsValid() {
		p.diag().AddError(diagnostic.CodeInvalidMode, fmt.Sprintf("strategy returned invalid access mode %s", mode), p.plan.Class, "")
		return
	}

	for _, f := range p.shape.Fields() {
		if !f.Skipped() {
			p.fields = append(p.fields, f.Property())
		}
	}

	props, conflicts := introspect.Discover(p.shape)
	for _, c := range conflicts {
		p.diag().AddError(diagnostic.CodeDuplicateProperty,
			fmt.Sprintf("fields %s map to the same property", strings.Join(c.Fields, ", ")), p.plan.Class, c.Property)
	}

	names := make([]string, 0, len(props))
	for _, prop := range props {
		names = append(names, prop.Name)
	}

	p.checkOptions(names)

	columns := make(map[string]string)

	for _, prop := range props {
		if p.opts.ignore[prop.Name] {
			continue
		}

		r, ok := p.resolve(prop, mode)
		if !ok {
			continue
		}

		if other, dup := columns[r.Column]; dup {
			p.diag().AddError(diagnostic.CodeDuplicateColumn,
				fmt.Sprintf("column %q is already used by property %s", r.Column, other), p.plan.Class, prop.Name)
			continue
		}

		columns[r.Column] = prop.Name
		p.plan.Resolutions = append(p.plan.Resolutions, r)

		p.log.Debug("resolved property",
			"property", prop.Name,
			"column", r.Column,
			"read", r.ReadVia.String(),
			"write", r.WriteVia.String(),
			"getter", r.Getter.String(),
			"setter", r.Setter.String())
	}
}

func (p *planner) checkOptions(names []string) {
	for _, name := range slices.Sorted(maps.Keys(p.opts.ignore)) {
		if !slices.Contains(names, name) {
			p.diag().AddWarning(diagnostic.CodeUnknownProperty, "ignored property does not exist",
				p.plan.Class, name, match.Suggest(name, names, match.DefaultThreshold, match.DefaultLimit)...)
		}
	}

	for _, name := range slices.Sorted(maps.Keys(p.opts.columns)) {
		if !slices.Contains(names, name) {
			p.diag().AddError(diagnostic.CodeUnknownProperty, "column override names an unknown property",
				p.plan.Class, name, match.Suggest(name, names, match.DefaultThreshold, match.DefaultLimit)...)
		}
	}
}

func (p *planner) resolve(prop access.PropertyDescriptor, mode access.AccessMode) (Resolution, bool) {
	r := Resolution{Property: prop}

	field, hasField := introspect.FieldFor(p.shape, prop.Name)
	if hasField {
		r.Field = &field
	}

	r.Column = p.column(prop.Name, r.Field)
	valid := true

	if mode.IsAccessorAccessAllowed() {
		if getter := p.strategy.LocateGetter(p.shape, prop); getter != nil {
			if reason := p.checkGetter(getter, prop); reason != "" {
				p.diag().AddError(diagnostic.CodeInvalidGetter, fmt.Sprintf("%s %s", getter, reason), p.plan.Class, prop.Name)
				valid = false
			} else {
				r.Getter, r.ReadVia = getter, ViaMethod
			}
		}

		if setter := p.strategy.LocateSetter(p.shape, prop); setter != nil {
			if reason := p.checkSetter(setter, prop); reason != "" {
				p.diag().AddError(diagnostic.CodeInvalidSetter, fmt.Sprintf("%s %s", setter, reason), p.plan.Class, prop.Name)
				valid = false
			} else {
				r.Setter, r.WriteVia = setter, ViaMethod
			}
		}
	}

	if !valid {
		return r, false
	}

	fieldOK := hasField && mode.IsFieldAccessAllowed()

	if r.ReadVia == ViaNone {
		if !fieldOK {
			p.diag().AddError(diagnostic.CodeUnreadableProperty, p.missing("getter", mode, hasField), p.plan.Class, prop.Name, p.suggestFields(prop.Name)...)
			valid = false
		} else {
			r.ReadVia = ViaField
		}
	}

	if r.WriteVia == ViaNone {
		if !fieldOK {
			p.diag().AddError(diagnostic.CodeUnwritableProperty, p.missing("setter", mode, hasField), p.plan.Class, prop.Name, p.suggestFields(prop.Name)...)
			valid = false
		} else {
			r.WriteVia = ViaField
		}
	}

	if valid && r.Relaxed() {
		p.diag().AddInfo(diagnostic.CodeRelaxedSetter, fmt.Sprintf("using relaxed setter %s", r.Setter), p.plan.Class, prop.Name)
	}

	if valid && mode.IsAccessorAccessAllowed() && (r.ReadVia == ViaField || r.WriteVia == ViaField) {
		p.diag().AddInfo(diagnostic.CodeFieldFallback, "falling back to field access", p.plan.Class, prop.Name)
	}

	return r, valid
}

func (p *planner) column(property string, field *introspect.Field) string {
	if c, ok := p.opts.columns[property]; ok && c != "" {
		return c
	}

	if field != nil {
		if c := field.Column(); c != "" {
			return c
		}
	}

	return property
}

func (p *planner) missing(accessor string, mode access.AccessMode, hasField bool) string {
	switch {
	case !mode.IsAccessorAccessAllowed():
		return fmt.Sprintf("no field to use and access mode %s ignores accessors", mode)
	case !mode.IsFieldAccessAllowed() && hasField:
		return fmt.Sprintf("no %s found and access mode %s ignores fields", accessor, mode)
	default:
		return fmt.Sprintf("no %s found and no field to fall back to", accessor)
	}
}

func (p *planner) suggestFields(property string) []string {
	if slices.Contains(p.fields, property) {
		return nil
	}

	return match.Suggest(property, p.fields, match.DefaultThreshold, match.DefaultLimit)
}

// checkGetter enforces the getter contract: no parameters and a single
// result assignable to the property type.
func (p *planner) checkGetter(m *access.Method, prop access.PropertyDescriptor) string {
	switch {
	case m.Static:
		return "is static"
	case len(m.Params) != 0:
		return "must not take parameters"
	case len(m.Results) != 1:
		return "must return exactly one value"
	case !p.shape.AssignableTo(m.Results[0], prop.Type):
		return fmt.Sprintf("returns %s, not assignable to %s", m.Results[0], prop.Type)
	}

	return ""
}

// checkSetter enforces the setter contract: a single parameter accepting
// the property type. Results are not constrained.
func (p *planner) checkSetter(m *access.Method, prop access.PropertyDescriptor) string {
	switch {
	case m.Static:
		return "is static"
	case len(m.Params) != 1:
		return "must take exactly one parameter"
	case !p.shape.AssignableTo(prop.Type, m.Params[0]):
		return fmt.Sprintf("takes %s, which does not accept %s", m.Params[0], prop.Type)
	}

	return ""
}
