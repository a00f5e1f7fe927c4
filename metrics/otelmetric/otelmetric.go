// Package otelmetric adapts an OpenTelemetry Meter to metrics.Provider.
package otelmetric

import (
	"context"
	"sort"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ivalmian/iterator-threads/metrics"
)

// Provider creates OpenTelemetry instruments on a Meter. Instrument creation
// errors are reported to the error handler and replaced by no-op instruments.
type Provider struct {
	meter   metric.Meter
	onError func(error)

	mu    sync.Mutex
	cache map[string]any
}

// Option configures a Provider.
type Option func(*Provider)

// WithErrorHandler receives instrument creation errors. Default: discard.
func WithErrorHandler(fn func(error)) Option {
	return func(p *Provider) { p.onError = fn }
}

// New wraps meter.
func New(meter metric.Meter, opts ...Option) *Provider {
	p := &Provider{meter: meter, onError: func(error) {}, cache: make(map[string]any)}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

func (p *Provider) Counter(name string, opts ...metrics.InstrumentOption) metrics.Counter {
	return cached(p, "c/"+name, func(cfg metrics.InstrumentConfig) metrics.Counter {
		c, err := p.meter.Int64Counter(name, metric.WithDescription(cfg.Description), metric.WithUnit(cfg.Unit))
		if err != nil {
			p.onError(err)
			return metrics.NewNoopProvider().Counter(name)
		}
		return &int64Adder{add: c.Add, set: attributes(cfg)}
	}, opts)
}

func (p *Provider) UpDownCounter(name string, opts ...metrics.InstrumentOption) metrics.UpDownCounter {
	return cached(p, "u/"+name, func(cfg metrics.InstrumentConfig) metrics.UpDownCounter {
		u, err := p.meter.Int64UpDownCounter(name, metric.WithDescription(cfg.Description), metric.WithUnit(cfg.Unit))
		if err != nil {
			p.onError(err)
			return metrics.NewNoopProvider().UpDownCounter(name)
		}
		return &int64Adder{add: u.Add, set: attributes(cfg)}
	}, opts)
}

func (p *Provider) Histogram(name string, opts ...metrics.InstrumentOption) metrics.Histogram {
	return cached(p, "h/"+name, func(cfg metrics.InstrumentConfig) metrics.Histogram {
		h, err := p.meter.Float64Histogram(name, metric.WithDescription(cfg.Description), metric.WithUnit(cfg.Unit))
		if err != nil {
			p.onError(err)
			return metrics.NewNoopProvider().Histogram(name)
		}
		return float64Recorder{h: h, set: attributes(cfg)}
	}, opts)
}

func cached[I any](p *Provider, key string, mk func(metrics.InstrumentConfig) I, opts []metrics.InstrumentOption) I {
	p.mu.Lock()
	defer p.mu.Unlock()
	if v, ok := p.cache[key]; ok {
		return v.(I)
	}
	v := mk(metrics.NewInstrumentConfig(opts...))
	p.cache[key] = v
	return v
}

// attributes converts static instrument attributes into a sorted attribute set.
func attributes(cfg metrics.InstrumentConfig) attribute.Set {
	kvs := make([]attribute.KeyValue, 0, len(cfg.Attributes))
	for k, v := range cfg.Attributes {
		kvs = append(kvs, attribute.String(k, v))
	}
	sort.Slice(kvs, func(i, j int) bool { return kvs[i].Key < kvs[j].Key })
	return attribute.NewSet(kvs...)
}

type int64Adder struct {
	add func(context.Context, int64, ...metric.AddOption)
	set attribute.Set
}

func (a *int64Adder) Add(n int64) {
	a.add(context.Background(), n, metric.WithAttributeSet(a.set))
}

type float64Recorder struct {
	h   metric.Float64Histogram
	set attribute.Set
}

func (r float64Recorder) Record(v float64) {
	r.h.Record(context.Background(), v, metric.WithAttributeSet(r.set))
}
