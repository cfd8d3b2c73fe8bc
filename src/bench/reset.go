package bench

import (
	"log/slog"
	"math/rand"

	"detbench/src/bench/bus"
	"detbench/src/bench/edge"
)

// ResetController owns the active-low reset line. It always applies the
// initial power-on pulse; when Pulses is non-zero it also injects that many
// random mid-run pulses, which is what the multi-reset test runs on.
type ResetController struct {
	b      *bus.Bus
	rng    *rand.Rand
	logger *slog.Logger

	InitialHold int // cycles the power-on reset is held
	Pulses      int // random mid-run pulses, 0 for none
	Hold        int // cycles each mid-run pulse is held
	MinGap      int // cycle bounds between mid-run pulses
	MaxGap      int
}

func NewResetController(rng *rand.Rand, logger *slog.Logger) *ResetController {
	return &ResetController{
		rng:         rng,
		logger:      logger.With("component", "reset"),
		InitialHold: 5,
		Hold:        5,
		MinGap:      50,
		MaxGap:      200,
	}
}

func (r *ResetController) Bind(b *bus.Bus) {
	r.b = b
}

func (r *ResetController) Register(k *edge.Kernel) {
	k.Spawn("reset", r.run)
}

func (r *ResetController) run(t *edge.Task) error {
	// One edge with reset deasserted, so the agents see a falling edge.
	r.b.SetRstN(true)
	if err := t.WaitEdge(); err != nil {
		return err
	}

	if err := r.pulse(t, r.InitialHold); err != nil {
		return err
	}

	for i := 0; i < r.Pulses; i++ {
		gap := r.MinGap
		if r.MaxGap > r.MinGap {
			gap += r.rng.Intn(r.MaxGap - r.MinGap + 1)
		}
		for c := 0; c < gap; c++ {
			if err := t.WaitEdge(); err != nil {
				return err
			}
		}

		r.logger.Info("injecting reset pulse", "pulse", i+1, "of", r.Pulses)
		if err := r.pulse(t, r.Hold); err != nil {
			return err
		}
	}

	// Line stays released; nothing further to drive.
	return nil
}

func (r *ResetController) pulse(t *edge.Task, hold int) error {
	r.b.SetRstN(false)
	for c := 0; c < hold; c++ {
		if err := t.WaitEdge(); err != nil {
			return err
		}
	}
	r.b.SetRstN(true)
	return nil
}
