// Package seq holds the transaction sequences a test run can be driven by.
// A sequence runs on its own goroutine and blocks in the sequencer until the
// driver has presented each transaction; an aborted submission is counted and
// skipped, never resubmitted.
package seq

import (
	"log/slog"
	"math/rand"

	"github.com/pkg/errors"

	"detbench/src/bench/agent"
	"detbench/src/bench/bus"
	"detbench/src/bench/item"
)

// Stats summarizes a sequence run.
type Stats struct {
	Submitted int
	Completed int
	Aborted   int
}

type Sequence interface {
	Name() string
	Run(sqr *agent.Sequencer) Stats
}

// New builds the sequence selected on the command line. numItems only applies
// to the sequences that generate items in a loop.
func New(name string, numItems int, cfg bus.Config, rng *rand.Rand, logger *slog.Logger) (Sequence, error) {
	switch name {
	case "simple":
		return NewSimpleSequence(cfg, logger), nil
	case "random":
		return NewRandomSequence(numItems, cfg, rng, logger), nil
	case "stress":
		return NewStressSequence(numItems, cfg, rng, logger), nil
	case "small":
		return NewSmallValueSequence(numItems, cfg, rng, logger), nil
	case "multi_reset":
		return NewMultiResetSequence(numItems, cfg, rng, logger), nil
	default:
		return nil, errors.Errorf("seq: unknown sequence %q", name)
	}
}

// submitAll drives the shared loop: submit each item, tally the verdicts.
func submitAll(sqr *agent.Sequencer, items []*item.MatrixItem, logger *slog.Logger) Stats {
	var st Stats
	for i, it := range items {
		st.Submitted++
		logger.Debug("submitting item", "index", i, "item", it)

		switch sqr.Submit(it) {
		case agent.DriveCompleted:
			st.Completed++
		case agent.DriveAborted:
			st.Aborted++
			logger.Info("item aborted", "index", i)
		}
	}
	return st
}

// SimpleSequence sends two known matrices: the identity with no delays, then
// a fixed matrix with one idle cycle before every element.
type SimpleSequence struct {
	cfg    bus.Config
	logger *slog.Logger
}

func NewSimpleSequence(cfg bus.Config, logger *slog.Logger) *SimpleSequence {
	return &SimpleSequence{cfg: cfg, logger: logger.With("sequence", "simple")}
}

func (s *SimpleSequence) Name() string { return "simple" }

func (s *SimpleSequence) Run(sqr *agent.Sequencer) Stats {
	n := s.cfg.MatrixSize

	identity := item.NewMatrixItem(n)
	for i := 0; i < n; i++ {
		identity.Values[i][i] = 1
	}

	known := item.NewMatrixItem(n)
	for i := 0; i < n; i++ {
		known.Values[i][i] = 1
		for j := 0; j < n; j++ {
			known.PreDelays[i][j] = 1
		}
	}
	if n >= 2 {
		known.Values[0][0] = 2
		known.Values[0][1] = 1
		known.Values[1][0] = 1
		known.Values[1][1] = 2
	}

	return submitAll(sqr, []*item.MatrixItem{identity, known}, s.logger)
}

// RandomSequence sends fully randomized items: values across the whole input
// range, pre-delays up to ten cycles.
type RandomSequence struct {
	numItems int
	cfg      bus.Config
	rng      *rand.Rand
	logger   *slog.Logger
}

func NewRandomSequence(numItems int, cfg bus.Config, rng *rand.Rand, logger *slog.Logger) *RandomSequence {
	return &RandomSequence{
		numItems: numItems,
		cfg:      cfg,
		rng:      rng,
		logger:   logger.With("sequence", "random"),
	}
}

func (s *RandomSequence) Name() string { return "random" }

func (s *RandomSequence) Run(sqr *agent.Sequencer) Stats {
	items := make([]*item.MatrixItem, s.numItems)
	for i := range items {
		it := item.NewMatrixItem(s.cfg.MatrixSize)
		it.Randomize(s.rng, s.cfg.MatMin(), s.cfg.MatMax(), 10)
		items[i] = it
	}
	return submitAll(sqr, items, s.logger)
}

// StressSequence sends random values with every pre-delay forced to zero,
// back to back, for maximum throughput.
type StressSequence struct {
	numItems int
	cfg      bus.Config
	rng      *rand.Rand
	logger   *slog.Logger
}

func NewStressSequence(numItems int, cfg bus.Config, rng *rand.Rand, logger *slog.Logger) *StressSequence {
	return &StressSequence{
		numItems: numItems,
		cfg:      cfg,
		rng:      rng,
		logger:   logger.With("sequence", "stress"),
	}
}

func (s *StressSequence) Name() string { return "stress" }

func (s *StressSequence) Run(sqr *agent.Sequencer) Stats {
	items := make([]*item.MatrixItem, s.numItems)
	for i := range items {
		it := item.NewMatrixItem(s.cfg.MatrixSize)
		it.Randomize(s.rng, s.cfg.MatMin(), s.cfg.MatMax(), 0)
		items[i] = it
	}
	return submitAll(sqr, items, s.logger)
}

// SmallValueSequence keeps elements within [-32, 32] so determinants stay far
// from the saturation limits, with short random delays.
type SmallValueSequence struct {
	numItems int
	cfg      bus.Config
	rng      *rand.Rand
	logger   *slog.Logger
}

func NewSmallValueSequence(numItems int, cfg bus.Config, rng *rand.Rand, logger *slog.Logger) *SmallValueSequence {
	return &SmallValueSequence{
		numItems: numItems,
		cfg:      cfg,
		rng:      rng,
		logger:   logger.With("sequence", "small"),
	}
}

func (s *SmallValueSequence) Name() string { return "small" }

func (s *SmallValueSequence) Run(sqr *agent.Sequencer) Stats {
	lo, hi := int64(-32), int64(32)
	if lo < s.cfg.MatMin() {
		lo = s.cfg.MatMin()
	}
	if hi > s.cfg.MatMax() {
		hi = s.cfg.MatMax()
	}

	items := make([]*item.MatrixItem, s.numItems)
	for i := range items {
		it := item.NewMatrixItem(s.cfg.MatrixSize)
		it.Randomize(s.rng, lo, hi, 5)
		items[i] = it
	}
	return submitAll(sqr, items, s.logger)
}

// MultiResetSequence sends random items while the environment injects reset
// pulses mid-run. Aborted items are expected here and simply tallied.
type MultiResetSequence struct {
	numItems int
	cfg      bus.Config
	rng      *rand.Rand
	logger   *slog.Logger
}

func NewMultiResetSequence(numItems int, cfg bus.Config, rng *rand.Rand, logger *slog.Logger) *MultiResetSequence {
	return &MultiResetSequence{
		numItems: numItems,
		cfg:      cfg,
		rng:      rng,
		logger:   logger.With("sequence", "multi_reset"),
	}
}

func (s *MultiResetSequence) Name() string { return "multi_reset" }

func (s *MultiResetSequence) Run(sqr *agent.Sequencer) Stats {
	items := make([]*item.MatrixItem, s.numItems)
	for i := range items {
		it := item.NewMatrixItem(s.cfg.MatrixSize)
		it.Randomize(s.rng, s.cfg.MatMin(), s.cfg.MatMax(), 10)
		items[i] = it
	}
	return submitAll(sqr, items, s.logger)
}
