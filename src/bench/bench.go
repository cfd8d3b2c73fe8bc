package bench

import (
	"log/slog"
	"math/rand"

	"github.com/pkg/errors"

	"detbench/src/bench/bus"
	"detbench/src/bench/seq"
)

// Options carries everything a run is parameterized by, straight from the
// command line.
type Options struct {
	Test     string
	NumItems int
	Seed     int64

	MatrixSize      int
	MatBusWidth     int
	DetBusWidth     int
	IdleData        string
	DelayTolerance  int
	PipelineLatency int

	AckDelay    int
	NumCycles   int
	ResetPulses int
}

func DefaultOptions() Options {
	cfg := bus.DefaultConfig()
	return Options{
		Test:            "simple",
		NumItems:        5,
		Seed:            1,
		MatrixSize:      cfg.MatrixSize,
		MatBusWidth:     cfg.MatBusWidth,
		DetBusWidth:     cfg.DetBusWidth,
		IdleData:        string(cfg.IdleData),
		DelayTolerance:  cfg.DelayTolerance,
		PipelineLatency: cfg.PipelineLatency,
		AckDelay:        0,
		NumCycles:       100000,
		ResetPulses:     20,
	}
}

// Bench is the top of the harness: it owns the environment, the selected
// sequence and the clock loop.
type Bench struct {
	opts     Options
	cfg      bus.Config
	env      *Environment
	sequence seq.Sequence
	logger   *slog.Logger

	seqStats seq.Stats
}

// NewBench validates the options and assembles the environment. The
// multi-reset test is the only one that arms mid-run reset injection.
func NewBench(opts Options, logger *slog.Logger) (*Bench, error) {
	idle, ok := bus.IdleDataFromString(opts.IdleData)
	if !ok {
		return nil, errors.Errorf("bench: unknown idle data policy %q", opts.IdleData)
	}

	cfg := bus.Config{
		MatrixSize:      opts.MatrixSize,
		MatBusWidth:     opts.MatBusWidth,
		DetBusWidth:     opts.DetBusWidth,
		IdleData:        idle,
		DelayTolerance:  opts.DelayTolerance,
		PipelineLatency: opts.PipelineLatency,
	}

	// The sequence goroutine and the reset controller draw concurrently;
	// rand.Rand is not goroutine-safe, so each gets its own seeded source.
	seqRng := rand.New(rand.NewSource(opts.Seed))
	resetRng := rand.New(rand.NewSource(opts.Seed + 1))

	reset := NewResetController(resetRng, logger)
	if opts.Test == "multi_reset" {
		reset.Pulses = opts.ResetPulses
	}

	sequence, err := seq.New(opts.Test, opts.NumItems, cfg, seqRng, logger)
	if err != nil {
		return nil, err
	}

	return &Bench{
		opts:     opts,
		cfg:      cfg,
		env:      NewEnvironment(cfg, reset, opts.AckDelay, logger),
		sequence: sequence,
		logger:   logger.With("component", "bench"),
	}, nil
}

// Run clocks the environment until the sequence has delivered its verdict for
// every item, then a flush period, then stops the kernel. An exhausted cycle
// budget is an error: something on the bus hung.
func (b *Bench) Run() error {
	b.logger.Info("starting run",
		"test", b.sequence.Name(),
		"num_items", b.opts.NumItems,
		"seed", b.opts.Seed,
	)

	done := make(chan seq.Stats, 1)
	go func() {
		done <- b.sequence.Run(b.env.Sequencer)
	}()

	// Enough cycles after the last submission for the final result to clear
	// the pipeline and the monitors.
	flush := b.cfg.PipelineLatency + 2*b.cfg.MatrixSize*b.cfg.MatrixSize + 10

	finished := false
	stopAt := -1
	for cycle := 0; cycle < b.opts.NumCycles; cycle++ {
		b.env.Kernel.Step()

		if !finished {
			select {
			case b.seqStats = <-done:
				finished = true
				stopAt = cycle + flush
			default:
			}
		} else if cycle >= stopAt {
			break
		}
	}

	b.env.Sequencer.Close()
	b.env.Kernel.Stop()

	if !finished {
		return errors.Errorf("bench: cycle budget of %d exhausted before the sequence finished", b.opts.NumCycles)
	}

	b.logger.Info("run finished",
		"cycles", b.env.Kernel.Cycle(),
		"submitted", b.seqStats.Submitted,
		"completed", b.seqStats.Completed,
		"aborted", b.seqStats.Aborted,
	)
	return nil
}

// Check returns the scoreboard verdict for the finished run.
func (b *Bench) Check() error {
	return b.env.Check()
}

// Report logs the coverage and scoreboard summaries.
func (b *Bench) Report() {
	b.env.Report()
}

// SequenceStats reports the submission tallies of the finished run.
func (b *Bench) SequenceStats() seq.Stats {
	return b.seqStats
}

// Environment exposes the wired environment, for the behavior tests.
func (b *Bench) Environment() *Environment {
	return b.env
}
