package checkpoint

import (
	"io"
	"math"
	"path/filepath"
	"time"

	"github.com/yndnr/ckptkit-go/internal/telemetry/logger"
	"github.com/yndnr/ckptkit-go/internal/telemetry/metric"
)

// Model is the collaborator whose weights are snapshotted. The
// training framework owns the model; the checkpointer only streams its
// weights in and out.
type Model interface {
	// SaveWeights serializes the model weights. The write must be
	// complete when SaveWeights returns.
	SaveWeights(w io.Writer) error

	// LoadWeights replaces the model weights in place.
	LoadWeights(r io.Reader) error
}

// FullStateModel is implemented by models that can also persist
// trainer state (optimizer moments, schedules). It is used when
// save_weights_only is false.
type FullStateModel interface {
	Model

	// SaveFull serializes weights plus trainer state.
	SaveFull(w io.Writer) error

	// LoadFull restores weights plus trainer state.
	LoadFull(r io.Reader) error
}

// State is the explicit policy state threaded through ShouldSave and
// WriteSnapshot calls. It is a value: each call returns the updated
// state instead of mutating shared fields.
type State struct {
	// BestStatLast is the best tracked-metric value seen so far;
	// +Inf until the first improvement.
	BestStatLast float64

	// TimestampLast is the wall-clock time of the previous snapshot;
	// zero before the first one.
	TimestampLast time.Time
}

// NewState returns the initial policy state. BestStatLast starts at
// +Inf so any first value counts as an improvement.
func NewState() State {
	return State{BestStatLast: math.Inf(1)}
}

// StateFromDescriptor rebuilds policy state from a restart descriptor
// so best-only gating continues where the previous process stopped.
func StateFromDescriptor(d *Descriptor) State {
	st := NewState()
	if d == nil {
		return st
	}
	st.BestStatLast = float64(d.BestStatLast)
	if ts, err := d.Time(); err == nil {
		st.TimestampLast = ts
	}
	return st
}

// Checkpointer writes and restores snapshots under a directory triple.
// It is driven by a single training loop; concurrent writers are
// unsupported.
type Checkpointer struct {
	cfg     Config
	log     logger.Logger
	metrics *metric.Registry
}

// Option configures a Checkpointer.
type Option func(*Checkpointer)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Checkpointer) { c.log = l }
}

// WithMetrics attaches a metrics registry.
func WithMetrics(m *metric.Registry) Option {
	return func(c *Checkpointer) { c.metrics = m }
}

// New creates a Checkpointer with the given configuration.
func New(cfg Config, opts ...Option) (*Checkpointer, error) {
	if cfg.SaveBestStat == "" {
		cfg.SaveBestStat = DefaultSaveBestStat
	}
	if err := Verify(&cfg); err != nil {
		return nil, err
	}
	c := &Checkpointer{
		cfg: cfg,
		log: logger.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "checkpoint")
	return c, nil
}

// Config returns the active configuration.
func (c *Checkpointer) Config() Config {
	return c.cfg
}

func (c *Checkpointer) workDir() string { return filepath.Join(c.cfg.Dir, DirWork) }
func (c *Checkpointer) goodDir() string { return filepath.Join(c.cfg.Dir, DirGood) }
func (c *Checkpointer) oldDir() string  { return filepath.Join(c.cfg.Dir, DirOld) }
