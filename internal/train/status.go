package train

import (
	"math"
	"sync"
	"time"
)

// Status is the live view of a training run, shared between the
// trainer and the monitor server. All methods are safe for concurrent
// use.
type Status struct {
	mu sync.RWMutex
	s  StatusSnapshot
}

// StatusSnapshot is a point-in-time copy of the run status.
type StatusSnapshot struct {
	RunID   string             `json:"run_id"`
	Phase   string             `json:"phase"`
	Epoch   int                `json:"epoch"`
	Epochs  int                `json:"epochs"`
	Metrics map[string]float64 `json:"metrics,omitempty"`

	// BestStat is the best tracked-statistic value so far; omitted
	// until the first snapshot establishes one.
	BestStat *float64 `json:"best_stat,omitempty"`

	LastSnapshotEpoch *int   `json:"last_snapshot_epoch,omitempty"`
	LastSnapshotTime  string `json:"last_snapshot_time,omitempty"`
}

// NewStatus creates a Status in the "starting" phase.
func NewStatus(runID string, epochs int) *Status {
	return &Status{s: StatusSnapshot{
		RunID:  runID,
		Phase:  "starting",
		Epochs: epochs,
	}}
}

// SetPhase records the run phase (starting, training, done, failed).
func (st *Status) SetPhase(phase string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Phase = phase
}

// SetEpoch records the epoch currently being trained.
func (st *Status) SetEpoch(epoch int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Epoch = epoch
}

// SetMetrics records the latest per-epoch metric values.
func (st *Status) SetMetrics(logs map[string]float64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	m := make(map[string]float64, len(logs))
	for k, v := range logs {
		m[k] = v
	}
	st.s.Metrics = m
}

// SetBestStat records the best tracked-statistic value. Infinite
// values are ignored: they mean no snapshot established a best yet.
func (st *Status) SetBestStat(v float64) {
	if math.IsInf(v, 0) {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	val := v
	st.s.BestStat = &val
}

// SetSnapshot records the epoch and time of the latest promoted
// snapshot.
func (st *Status) SetSnapshot(epoch int, at time.Time) {
	st.mu.Lock()
	defer st.mu.Unlock()
	e := epoch
	st.s.LastSnapshotEpoch = &e
	st.s.LastSnapshotTime = at.Format(time.RFC3339)
}

// Snapshot returns a copy of the current status.
func (st *Status) Snapshot() StatusSnapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := st.s
	if st.s.Metrics != nil {
		out.Metrics = make(map[string]float64, len(st.s.Metrics))
		for k, v := range st.s.Metrics {
			out.Metrics[k] = v
		}
	}
	return out
}
