package agent

import (
	"log/slog"

	"detbench/src/bench/bus"
	"detbench/src/bench/edge"
)

// waitResetAssert blocks until a falling edge of the reset line.
func waitResetAssert(t *edge.Task, b *bus.Bus) error {
	prev := b.Sampled().RstN
	for {
		if err := t.WaitEdge(); err != nil {
			return err
		}
		s := b.Sampled()
		if prev && !s.RstN {
			return nil
		}
		prev = s.RstN
	}
}

// waitResetCycle blocks until the initial reset assert-then-release sequence
// has been observed. Agents refuse to act on the bus before it.
func waitResetCycle(t *edge.Task, b *bus.Bus) error {
	if err := waitResetAssert(t, b); err != nil {
		return err
	}
	return waitResetRelease(t, b)
}

// waitResetRelease blocks until the reset line is deasserted.
func waitResetRelease(t *edge.Task, b *bus.Bus) error {
	for !b.Sampled().RstN {
		if err := t.WaitEdge(); err != nil {
			return err
		}
	}
	return nil
}

// watchResetEdge is the monitor-side reset watcher body: fire the interrupt
// on every falling edge of the reset line. Monitors drive nothing, so there
// is no bus state to restore.
func watchResetEdge(t *edge.Task, b *bus.Bus, intr *edge.Interrupt, logger *slog.Logger) error {
	prev := b.Sampled().RstN
	for {
		if err := t.WaitEdge(); err != nil {
			return err
		}
		s := b.Sampled()
		if prev && !s.RstN {
			logger.Info("reset detected, cancelling reconstruction")
			intr.Fire()
		}
		prev = s.RstN
	}
}
