package mapper

import (
	"log/slog"
	"maps"
)

// Option configures planning.
type Option func(*options)

type options struct {
	ignore  map[string]bool
	columns map[string]string
	logger  *slog.Logger
	metrics *Metrics
}

func newOptions(opts []Option) *options {
	o := &options{
		ignore:  make(map[string]bool),
		columns: make(map[string]string),
		logger:  slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// WithIgnore excludes properties from the mapping.
func WithIgnore(properties ...string) Option {
	return func(o *options) {
		for _, p := range properties {
			o.ignore[p] = true
		}
	}
}

// WithColumns overrides column names, keyed by property name.
func WithColumns(columns map[string]string) Option {
	return func(o *options) {
		maps.Copy(o.columns, columns)
	}
}

// WithLogger sets the logger used for resolution traces.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records bindings in m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}
