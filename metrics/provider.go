// Package metrics defines the instrument surface used by iterthreads and two
// in-process providers: NoopProvider (the default) and BasicProvider.
// Adapters for real backends live in subpackages, e.g. metrics/otelmetric.
package metrics

// Provider constructs instruments. Implementations must be safe for concurrent
// use and should return the same instrument for the same name.
type Provider interface {
	Counter(name string, opts ...InstrumentOption) Counter
	UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter
	Histogram(name string, opts ...InstrumentOption) Histogram
}

// Counter records monotonic counts, e.g. values produced.
type Counter interface {
	Add(n int64)
}

// UpDownCounter records a level that moves both ways, e.g. buffer depth.
type UpDownCounter interface {
	Add(n int64)
}

// Histogram records float64 measurements, e.g. push wait in seconds.
type Histogram interface {
	Record(v float64)
}

// InstrumentConfig carries advisory instrument metadata.
type InstrumentConfig struct {
	Description string
	Unit        string
	// Attributes are static key-value pairs. Keep cardinality bounded.
	Attributes map[string]string
}

// InstrumentOption mutates InstrumentConfig.
type InstrumentOption func(*InstrumentConfig)

// NewInstrumentConfig applies opts in order and skips nil entries.
func NewInstrumentConfig(opts ...InstrumentOption) InstrumentConfig {
	var cfg InstrumentConfig
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return cfg
}

// WithDescription sets the instrument description.
func WithDescription(desc string) InstrumentOption {
	return func(c *InstrumentConfig) { c.Description = desc }
}

// WithUnit sets the instrument unit (e.g., "1", "seconds").
func WithUnit(unit string) InstrumentOption {
	return func(c *InstrumentConfig) { c.Unit = unit }
}

// WithAttributes merges attrs into the instrument attributes. Empty values are dropped.
func WithAttributes(attrs map[string]string) InstrumentOption {
	return func(c *InstrumentConfig) {
		for k, v := range attrs {
			if v == "" {
				continue
			}
			if c.Attributes == nil {
				c.Attributes = make(map[string]string, len(attrs))
			}
			c.Attributes[k] = v
		}
	}
}
