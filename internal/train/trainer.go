package train

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/ckptkit-go/internal/checkpoint"
	"github.com/yndnr/ckptkit-go/internal/config"
	"github.com/yndnr/ckptkit-go/internal/telemetry/logger"
	"github.com/yndnr/ckptkit-go/internal/telemetry/metric"
)

// Trainer runs the benchmark training loop against the checkpoint
// subsystem.
type Trainer struct {
	cfg     *config.Config
	ck      *checkpoint.Checkpointer
	model   *Classifier
	log     logger.Logger
	metrics *metric.Registry
	status  *Status
	runID   string

	// progress throttles per-batch debug logging to one line per
	// second regardless of batch throughput.
	progress *rate.Limiter
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(t *Trainer) { t.log = l }
}

// WithMetrics attaches a metrics registry.
func WithMetrics(m *metric.Registry) Option {
	return func(t *Trainer) { t.metrics = m }
}

// New creates a Trainer, its model, and the checkpointer it drives.
// Each Trainer gets a fresh ULID run ID which is recorded in every
// snapshot descriptor's metadata.
func New(cfg *config.Config, opts ...Option) (*Trainer, error) {
	t := &Trainer{
		cfg:      cfg,
		log:      logger.Default(),
		runID:    ulid.Make().String(),
		progress: rate.NewLimiter(rate.Every(time.Second), 1),
	}
	for _, opt := range opts {
		opt(t)
	}
	base := t.log
	t.log = base.With("component", "train", "run_id", t.runID)

	ckCfg, err := cfg.Checkpoint.Build()
	if err != nil {
		return nil, err
	}
	if ckCfg.Metadata == "" {
		ckCfg.Metadata = "run_id=" + t.runID
	} else {
		ckCfg.Metadata += " run_id=" + t.runID
	}

	ckOpts := []checkpoint.Option{checkpoint.WithLogger(base)}
	if t.metrics != nil {
		ckOpts = append(ckOpts, checkpoint.WithMetrics(t.metrics))
	}
	t.ck, err = checkpoint.New(ckCfg, ckOpts...)
	if err != nil {
		return nil, err
	}

	t.model = NewClassifier(cfg.Train.Classes, cfg.Train.Features)
	t.status = NewStatus(t.runID, cfg.Train.Epochs)
	return t, nil
}

// RunID returns the run's ULID.
func (t *Trainer) RunID() string { return t.runID }

// Status returns the live run status shared with the monitor server.
func (t *Trainer) Status() *Status { return t.status }

// Model returns the trainer's model.
func (t *Trainer) Model() *Classifier { return t.model }

// Run executes the training loop until all epochs are complete or ctx
// is canceled. It restores the last good snapshot first (per the
// restart mode) and consults the save policy after every epoch.
func (t *Trainer) Run(ctx context.Context) error {
	if err := t.run(ctx); err != nil {
		t.status.SetPhase("failed")
		return err
	}
	t.status.SetPhase("done")
	return nil
}

func (t *Trainer) run(ctx context.Context) error {
	tc := t.cfg.Train

	trainSet := Synthetic(tc.TrainSamples, tc.Classes, rand.New(rand.NewSource(tc.Seed)))
	validSet := Synthetic(tc.ValidSamples, tc.Classes, rand.New(rand.NewSource(tc.Seed+1)))

	desc, err := t.ck.Restart(t.model)
	if err != nil {
		return fmt.Errorf("train: restart: %w", err)
	}

	start := 0
	st := checkpoint.NewState()
	if desc != nil {
		start = desc.Epoch + 1
		st = checkpoint.StateFromDescriptor(desc)
		t.status.SetBestStat(st.BestStatLast)
		t.log.Info("resuming training",
			"epoch", start,
			"best_stat_last", desc.BestStatLast)
	}
	if start >= tc.Epochs {
		t.log.Info("nothing to do, snapshot already at final epoch",
			"epoch", start-1, "epochs", tc.Epochs)
		return nil
	}

	t.status.SetPhase("training")

	for epoch := start; epoch < tc.Epochs; epoch++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t.status.SetEpoch(epoch)
		if t.metrics != nil {
			t.metrics.CurrentEpoch.Set(float64(epoch))
		}

		trainLoss := t.trainEpoch(ctx, trainSet, epoch)
		eval := Evaluate(t.model, validSet)

		logs := map[string]float64{
			"loss":         trainLoss,
			"val_loss":     eval.Loss,
			"val_accuracy": eval.Accuracy,
			"val_f1":       eval.F1,
		}
		t.status.SetMetrics(logs)
		if t.metrics != nil {
			for name, v := range logs {
				t.metrics.Loss.WithLabelValues(name).Set(v)
			}
			t.metrics.EpochsCompleted.Inc()
		}
		t.log.Info("epoch complete",
			"epoch", epoch,
			"loss", fmt.Sprintf("%.4f", trainLoss),
			"val_loss", fmt.Sprintf("%.4f", eval.Loss),
			"val_accuracy", fmt.Sprintf("%.4f", eval.Accuracy),
			"val_f1", fmt.Sprintf("%.4f", eval.F1))

		save, next, err := t.ck.ShouldSave(logs, epoch, st)
		if err != nil {
			return err
		}
		st = next
		if save {
			st, err = t.ck.WriteSnapshot(t.model, epoch, st)
			if err != nil {
				return err
			}
			t.status.SetSnapshot(epoch, st.TimestampLast)
			t.status.SetBestStat(st.BestStatLast)
		}
	}

	t.log.Info("training complete", "epochs", tc.Epochs)
	return nil
}

// trainEpoch runs one pass over the training set and returns the mean
// batch loss. The shuffle order is derived from the seed and the epoch
// number, so a resumed run sees the same order it would have without
// the interruption.
func (t *Trainer) trainEpoch(ctx context.Context, ds *Dataset, epoch int) float64 {
	tc := t.cfg.Train
	rng := rand.New(rand.NewSource(tc.Seed + int64(epoch)*104729))
	order := ds.Shuffle(rng)

	var lossSum float64
	var batches int
	batch := make([]Sample, 0, tc.BatchSize)

	for i := 0; i < len(order); i += tc.BatchSize {
		select {
		case <-ctx.Done():
			return lossOrZero(lossSum, batches)
		default:
		}

		batch = batch[:0]
		for j := i; j < i+tc.BatchSize && j < len(order); j++ {
			batch = append(batch, ds.Samples[order[j]])
		}

		loss := t.model.TrainBatch(batch, tc.LearningRate)
		lossSum += loss
		batches++

		if t.progress.Allow() {
			t.log.Debug("batch processed",
				"epoch", epoch,
				"batch", batches,
				"loss", fmt.Sprintf("%.4f", loss))
		}
	}
	return lossOrZero(lossSum, batches)
}

func lossOrZero(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
