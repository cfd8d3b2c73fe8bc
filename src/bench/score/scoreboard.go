// Package score holds the golden-model reference and the ordered matching
// engine that reconciles observed results against it.
package score

import (
	"log/slog"

	"github.com/pkg/errors"

	"detbench/src/bench/bus"
	"detbench/src/bench/item"
)

// Stats accumulates the per-transaction outcomes of a run. Mismatches and
// timing deviations never abort the run; they are tallied and judged at
// check time.
type Stats struct {
	Expected        int
	Matched         int
	ValueMismatches int
	FlagMismatches  int
	DelayWarnings   int
	SpuriousOutputs int
	LostExpected    int
}

// Scoreboard owns the expected-result queue. It is mutated only from the
// draining component's context, so it needs no locking.
type Scoreboard struct {
	cfg    bus.Config
	logger *slog.Logger

	expected []*item.DeterminantItem
	stats    Stats
}

func NewScoreboard(cfg bus.Config, logger *slog.Logger) *Scoreboard {
	return &Scoreboard{
		cfg:    cfg,
		logger: logger.With("component", "scoreboard"),
	}
}

// Expected computes the golden-model output for an observed input
// transaction: the exact determinant saturated to the output bus width, and
// the delay heuristic of all pre-element delays plus the fixed pipeline
// latency.
func (s *Scoreboard) Expected(it *item.MatrixItem) *item.DeterminantItem {
	value, overflow := item.Saturate(it.Determinant(), s.cfg.DetMin(), s.cfg.DetMax())
	return &item.DeterminantItem{
		Value:    value,
		Overflow: overflow,
		Delay:    it.TotalDelay() + s.cfg.PipelineLatency,
	}
}

// ProcessInput appends the golden-model result for an input transaction to
// the expected queue.
func (s *Scoreboard) ProcessInput(it *item.MatrixItem) {
	exp := s.Expected(it)
	s.expected = append(s.expected, exp)
	s.stats.Expected++
	s.logger.Debug("expected item queued", "item", exp)
}

// CompareOutput matches an observed result against the front of the expected
// queue, strict FIFO. Out-of-order results are never matched.
func (s *Scoreboard) CompareOutput(actual *item.DeterminantItem) {
	if len(s.expected) == 0 {
		s.stats.SpuriousOutputs++
		s.logger.Error("unexpected output with empty expected queue", "actual", actual)
		return
	}

	exp := s.expected[0]
	s.expected = s.expected[1:]

	matched := true
	if exp.Value != actual.Value {
		matched = false
		s.stats.ValueMismatches++
		s.logger.Error("determinant mismatch", "expected", exp.Value, "actual", actual.Value)
	}
	if exp.Overflow != actual.Overflow {
		matched = false
		s.stats.FlagMismatches++
		s.logger.Error("overflow flag mismatch", "expected", exp.Overflow, "actual", actual.Overflow)
	}
	if matched {
		s.stats.Matched++
	}

	if delta := abs(exp.Delay - actual.Delay); delta > s.cfg.DelayTolerance {
		s.stats.DelayWarnings++
		s.logger.Warn("delay outside tolerance",
			"expected", exp.Delay, "actual", actual.Delay, "tolerance", s.cfg.DelayTolerance)
	}
}

// Check renders the run verdict. Items left in the expected queue are lost
// transactions; together with mismatches and spurious outputs they fail the
// run. Delay warnings never do.
func (s *Scoreboard) Check() error {
	s.stats.LostExpected = len(s.expected)
	for _, exp := range s.expected {
		s.logger.Error("lost transaction, no output observed", "expected", exp)
	}
	s.expected = nil

	if s.stats.LostExpected > 0 || s.stats.SpuriousOutputs > 0 {
		return errors.Errorf("score: queue imbalance: %d lost, %d spurious",
			s.stats.LostExpected, s.stats.SpuriousOutputs)
	}
	if s.stats.ValueMismatches > 0 || s.stats.FlagMismatches > 0 {
		return errors.Errorf("score: %d value and %d flag mismatches",
			s.stats.ValueMismatches, s.stats.FlagMismatches)
	}
	return nil
}

// Stats returns the accumulated outcome counters.
func (s *Scoreboard) Stats() Stats {
	return s.stats
}

// PendingExpected reports the current depth of the expected queue.
func (s *Scoreboard) PendingExpected() int {
	return len(s.expected)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
