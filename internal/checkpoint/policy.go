package checkpoint

import "fmt"

// ShouldSave decides whether this epoch's snapshot should be written,
// given the epoch's metric map and the current policy state. It
// returns the decision and the updated state; the state is only
// changed when the tracked metric improved.
//
// Decision order:
//   - epochs below skip_epochs never save (warm-up suppression)
//   - without save_best_only, every epoch saves
//   - with save_best_only, the tracked metric must be present, and
//     only a strict improvement (lower value) saves; ties do not.
func (c *Checkpointer) ShouldSave(logs map[string]float64, epoch int, st State) (bool, State, error) {
	if epoch < c.cfg.SkipEpochs {
		c.log.Debug("save suppressed during warm-up",
			"epoch", epoch,
			"skip_epochs", c.cfg.SkipEpochs)
		c.skipped("warmup")
		return false, st, nil
	}

	if !c.cfg.SaveBestOnly {
		return true, st, nil
	}

	current, ok := logs[c.cfg.SaveBestStat]
	if !ok {
		return false, st, fmt.Errorf("%w: save_best_stat=%q, metrics=%v",
			ErrMetricMissing, c.cfg.SaveBestStat, metricNames(logs))
	}

	symbol := "="
	switch {
	case current < st.BestStatLast:
		symbol = "<"
	case current > st.BestStatLast:
		symbol = ">"
	}
	c.log.Debug("best-stat comparison",
		"stat", c.cfg.SaveBestStat,
		"current", current,
		"symbol", symbol,
		"last", st.BestStatLast)

	if current < st.BestStatLast {
		st.BestStatLast = current
		return true, st, nil
	}

	c.log.Debug("not writing this epoch", "epoch", epoch)
	c.skipped("not_improved")
	return false, st, nil
}

func (c *Checkpointer) skipped(reason string) {
	if c.metrics != nil {
		c.metrics.SnapshotsSkipped.WithLabelValues(reason).Inc()
	}
}

func metricNames(logs map[string]float64) []string {
	names := make([]string, 0, len(logs))
	for name := range logs {
		names = append(names, name)
	}
	return names
}
