// Package agent contains the protocol agents: the input-side driver and
// monitor, the output-side monitor, and the sequencer that feeds the driver.
// Each agent runs as a main handshake task plus a reset watcher task on the
// edge kernel; the watcher cancels the main loop through an interrupt latch
// checked at every edge, and forces the bus back to idle itself, so
// cancellation never waits on a handshake that reset may be blocking.
package agent

import (
	"log/slog"

	"github.com/pkg/errors"

	"detbench/src/bench/bus"
	"detbench/src/bench/edge"
	"detbench/src/bench/item"
)

// ErrUnboundBus reports an agent constructed without a bus handle. This is a
// configuration error, fatal and not retried.
var ErrUnboundBus = errors.New("agent: bus handle not bound")

// Driver presents matrix elements on the input interface in row-major order,
// honoring per-element pre-delays, and waits edge by edge for the
// acknowledgment strobe. There is deliberately no timeout on the
// acknowledgment wait: the harness trusts the core to eventually respond.
type Driver struct {
	cfg    bus.Config
	bus    *bus.Bus
	seq    *Sequencer
	logger *slog.Logger

	intr edge.Interrupt
}

func NewDriver(cfg bus.Config, b *bus.Bus, seq *Sequencer, logger *slog.Logger) *Driver {
	if b == nil {
		panic(ErrUnboundBus)
	}
	return &Driver{
		cfg:    cfg,
		bus:    b,
		seq:    seq,
		logger: logger.With("component", "driver"),
	}
}

// Register spawns the driver's main loop and reset watcher on the kernel.
// The watcher is spawned first so that within any edge it wins the race
// against the main loop.
func (d *Driver) Register(k *edge.Kernel) {
	k.Spawn("driver.reset", d.watchReset)
	k.Spawn("driver.main", d.run)
}

func (d *Driver) run(t *edge.Task) error {
	// Do not touch the bus until the first reset pulse has been observed.
	if err := waitResetAssert(t, d.bus); err != nil {
		return err
	}

	for {
		// Recovery: reset release plus one settling edge before a new
		// transaction is accepted.
		for !d.bus.Sampled().RstN {
			if err := t.WaitEdge(); err != nil {
				return err
			}
		}
		if err := t.WaitEdge(); err != nil {
			return err
		}
		d.intr.Clear()
		d.driveIdle()

		for !d.intr.Fired() {
			sub := d.seq.TryNext()
			if sub == nil {
				if err := t.WaitEdge(); err != nil {
					return err
				}
				continue
			}

			d.logger.Debug("driving item", "item", sub.Item)
			res, err := d.driveMatrix(t, sub.Item)
			if err != nil {
				sub.Respond(DriveAborted)
				return err
			}
			sub.Respond(res)

			if res == DriveAborted {
				d.logger.Info("drive aborted by reset")
				break
			}
			d.logger.Debug("completed item")
		}
	}
}

// driveMatrix presents one transaction. The interrupt latch is checked after
// every edge wait; on cancellation the watcher has already idled the bus, so
// the only job here is to stop.
func (d *Driver) driveMatrix(t *edge.Task, it *item.MatrixItem) (DriveResult, error) {
	for i := range it.Values {
		for j := range it.Values[i] {
			if d.intr.Fired() {
				return DriveAborted, nil
			}

			for cycle := 0; cycle < it.PreDelays[i][j]; cycle++ {
				d.driveIdle()
				if err := t.WaitEdge(); err != nil {
					return DriveAborted, err
				}
				if d.intr.Fired() {
					return DriveAborted, nil
				}
			}

			// Present the element, masked to the bus width, and hold it
			// until the edge where valid and the ack strobe are high
			// together.
			d.bus.SetMatValid(true)
			d.bus.SetMatIn(bus.Mask(it.Values[i][j], d.cfg.MatBusWidth))
			for {
				if err := t.WaitEdge(); err != nil {
					return DriveAborted, err
				}
				if d.intr.Fired() {
					return DriveAborted, nil
				}
				s := d.bus.Sampled()
				if s.MatValid && s.MatRequest {
					break
				}
			}
		}
	}

	d.driveIdle()
	return DriveCompleted, nil
}

// driveIdle deasserts valid and restores the configured idle data pattern.
func (d *Driver) driveIdle() {
	d.bus.SetMatValid(false)
	d.bus.SetMatIn(d.cfg.IdlePattern())
}

// watchReset observes the reset line every edge. On assertion it cancels the
// in-flight presentation and forces the bus back to idle immediately. It
// waits on raw clock edges only, never on acknowledgment strobes.
func (d *Driver) watchReset(t *edge.Task) error {
	prev := d.bus.Sampled().RstN
	for {
		if err := t.WaitEdge(); err != nil {
			return err
		}
		s := d.bus.Sampled()
		if prev && !s.RstN {
			d.logger.Info("reset detected, cancelling in-flight drive")
			d.intr.Fire()
			d.driveIdle()
		}
		prev = s.RstN
	}
}
