package iterthreads

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/ygrebnov/errorc"

	"github.com/ivalmian/iterator-threads/metrics"
	"github.com/ivalmian/iterator-threads/settings"
)

// config holds Iterator configuration.
type config struct {
	// Capacity is the maximum number of buffered items.
	// Default: 0 (unbounded)
	Capacity uint

	// GetTimeout bounds each Next call and each buffer read during Stop.
	// Default: 0 (wait forever)
	GetTimeout time.Duration

	// PutTimeout bounds each worker push into a full buffer. An expired push fails the worker.
	// Default: 0 (wait forever)
	PutTimeout time.Duration

	// JoinTimeout bounds the wait for the worker in Stop.
	// Default: unset, in which case GetTimeout is used.
	JoinTimeout    time.Duration
	joinTimeoutSet bool

	// Name identifies the worker goroutine in pprof labels, logs, metrics and signals.
	Name string

	// StartImmediately makes New start the worker with context.Background().
	// Default: false
	StartImmediately bool

	// Logger receives lifecycle events.
	// Default: zerolog.Nop()
	Logger zerolog.Logger

	// Metrics provides instruments.
	// Default: metrics.NoopProvider
	Metrics metrics.Provider
}

func defaultConfig() config {
	return config{
		Capacity:         0,
		GetTimeout:       0,
		PutTimeout:       0,
		StartImmediately: false,
		Logger:           zerolog.Nop(),
		Metrics:          metrics.NewNoopProvider(),
	}
}

// joinTimeout returns the deadline used by Stop when waiting for the worker.
func (c *config) joinTimeout() time.Duration {
	if c.joinTimeoutSet {
		return c.JoinTimeout
	}
	return c.GetTimeout
}

// Option configures an Iterator. Invalid input is reported as ErrInvalidConfig.
type Option func(*config) error

// WithCapacity bounds the buffer to size items. Zero means unbounded.
func WithCapacity(size uint) Option {
	return func(cfg *config) error { cfg.Capacity = size; return nil }
}

// WithGetTimeout bounds how long Next waits for a value. Zero waits forever.
func WithGetTimeout(d time.Duration) Option {
	return func(cfg *config) error {
		if d < 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithGetTimeout requires d >= 0"))
		}
		cfg.GetTimeout = d
		return nil
	}
}

// WithPutTimeout bounds how long the worker waits for buffer space. Zero waits forever.
// An expired put fails the worker; the consumer sees a *WorkerError wrapping ErrPutTimeout.
func WithPutTimeout(d time.Duration) Option {
	return func(cfg *config) error {
		if d < 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithPutTimeout requires d >= 0"))
		}
		cfg.PutTimeout = d
		return nil
	}
}

// WithJoinTimeout sets a Stop join deadline independent of the get timeout. Zero waits forever.
func WithJoinTimeout(d time.Duration) Option {
	return func(cfg *config) error {
		if d < 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithJoinTimeout requires d >= 0"))
		}
		cfg.JoinTimeout = d
		cfg.joinTimeoutSet = true
		return nil
	}
}

// WithName names the iterator.
func WithName(name string) Option {
	return func(cfg *config) error { cfg.Name = name; return nil }
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l zerolog.Logger) Option {
	return func(cfg *config) error { cfg.Logger = l; return nil }
}

// WithMetrics sets the metrics provider.
func WithMetrics(p metrics.Provider) Option {
	return func(cfg *config) error {
		if p == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithMetrics requires a non-nil provider"))
		}
		cfg.Metrics = p
		return nil
	}
}

// WithStartImmediately starts the worker from New.
func WithStartImmediately() Option {
	return func(cfg *config) error { cfg.StartImmediately = true; return nil }
}

// WithSettings applies a loaded settings document. A zero JoinTimeout keeps
// the join deadline tied to the get timeout.
func WithSettings(s settings.Settings) Option {
	return func(cfg *config) error {
		if err := s.Validate(); err != nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", err.Error()))
		}
		if s.Name != "" {
			cfg.Name = s.Name
		}
		cfg.Capacity = s.Capacity
		cfg.GetTimeout = s.GetTimeout
		cfg.PutTimeout = s.PutTimeout
		if s.JoinTimeout > 0 {
			cfg.JoinTimeout = s.JoinTimeout
			cfg.joinTimeoutSet = true
		}
		return nil
	}
}
