package mapper

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts planned property bindings.
type Metrics struct {
	bindings *prometheus.CounterVec
}

// NewMetrics creates the binding counters and registers them with reg.
// Registering twice on the same registry reuses the existing collector.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	bindings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "propaccess",
		Name:      "property_bindings_total",
		Help:      "Planned property bindings by direction (read, write) and access path (method, field).",
	}, []string{"direction", "via"})

	if reg != nil {
		if err := reg.Register(bindings); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return nil, fmt.Errorf("registering binding metrics: %w", err)
			}

			existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				return nil, fmt.Errorf("registering binding metrics: %w", err)
			}

			bindings = existing
		}
	}

	return &Metrics{bindings: bindings}, nil
}

func (m *Metrics) observe(direction string, via Via) {
	if m == nil || via == ViaNone {
		return
	}

	m.bindings.WithLabelValues(direction, via.String()).Inc()
}

// Collector exposes the underlying counter, mainly for tests.
func (m *Metrics) Collector() *prometheus.CounterVec {
	return m.bindings
}
