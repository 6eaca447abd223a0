// Package store holds sample mapped structs covering the accessor shapes the
// mapper understands. Tests across the module load it both at runtime and
// through go/packages.
package store

import (
	"errors"
	"time"
)

// Point uses conventional getters and setters for both coordinates.
type Point struct {
	x float64
	y float64
}

func (p *Point) GetX() float64  { return p.x }
func (p *Point) SetX(x float64) { p.x = x }
func (p *Point) GetY() float64  { return p.y }
func (p *Point) SetY(y float64) { p.y = y }

// Immutable exposes a getter only; the mapper writes id through the field.
type Immutable struct {
	id string
}

// NewImmutable returns an Immutable with the given id.
func NewImmutable(id string) *Immutable {
	return &Immutable{id: id}
}

func (i *Immutable) GetID() string { return i.id }

// Account has Go-style bare getters and fluent ("relaxed") setters.
type Account struct {
	ID      int64 `map:"account_id"`
	owner   string
	balance int64
	active  bool
	cache   map[string]string `map:"-"`
}

// ErrNegativeBalance is returned by SetBalance.
var ErrNegativeBalance = errors.New("negative balance")

func (a *Account) Owner() string { return a.owner }

// SetOwner returns the account for chaining.
func (a *Account) SetOwner(owner string) *Account {
	a.owner = owner
	return a
}

func (a *Account) Balance() int64 { return a.balance }

// SetBalance rejects negative amounts.
func (a *Account) SetBalance(cents int64) error {
	if cents < 0 {
		return ErrNegativeBalance
	}

	a.balance = cents

	return nil
}

func (a *Account) IsActive() bool        { return a.active }
func (a *Account) SetActive(active bool) { a.active = active }

// Cached reports whether key is in the in-memory cache, which is not mapped.
func (a *Account) Cached(key string) bool {
	_, ok := a.cache[key]
	return ok
}

// Audit is embedded by mapped structs that track timestamps.
type Audit struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Touch sets UpdatedAt to now.
func (a *Audit) Touch() { a.UpdatedAt = time.Now() }

// Customer relies on exported fields and promoted Audit fields.
type Customer struct {
	Audit
	ID       int64
	Email    string
	FullName string  `map:"full_name"`
	Address  *string // optional
	Active   bool
}

// Tenant has a package-level SetDefaultRegion that looks like a setter but
// is not bound to an instance.
type Tenant struct {
	name   string
	region string
}

var defaultRegion = "eu-north-1"

// SetDefaultRegion changes the region used by NewTenant.
func SetDefaultRegion(region string) { defaultRegion = region }

// NewTenant returns a tenant in the default region.
func NewTenant(name string) *Tenant {
	return &Tenant{name: name, region: defaultRegion}
}

func (t *Tenant) Name() string        { return t.name }
func (t *Tenant) SetName(name string) { t.name = name }
func (t *Tenant) Region() string      { return t.region }

// Gauge has setters that do not take the property type.
type Gauge struct {
	level float64
	unit  string
}

func (g *Gauge) GetLevel() float64 { return g.level }

// SetLevel takes whole units only.
func (g *Gauge) SetLevel(level int) { g.level = float64(level) }

// SetUnit is an overload-style setter with extra parameters.
func (g *Gauge) SetUnit(unit string, scale int) {
	g.unit = unit
	g.level *= float64(scale)
}

func (g *Gauge) GetUnit() string { return g.unit }

// Broken declares accessors of the wrong shape for strategies to return.
type Broken struct {
	Value string
}

func (b *Broken) Pair() (string, error) { return b.Value, nil }
func (b *Broken) Split(a, c string)     { b.Value = a + c }
