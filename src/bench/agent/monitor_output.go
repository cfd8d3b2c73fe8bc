package agent

import (
	"log/slog"

	"detbench/src/bench/bus"
	"detbench/src/bench/edge"
	"detbench/src/bench/item"
)

// OutputMonitor passively reconstructs determinant results. Per observation
// window it counts edges until output-valid is asserted, captures the scalar
// and overflow flag, then waits for output-valid to fall before opening the
// next window.
type OutputMonitor struct {
	cfg    bus.Config
	bus    *bus.Bus
	logger *slog.Logger

	Port AnalysisPort[*item.DeterminantItem]

	intr edge.Interrupt
}

func NewOutputMonitor(cfg bus.Config, b *bus.Bus, logger *slog.Logger) *OutputMonitor {
	if b == nil {
		panic(ErrUnboundBus)
	}
	return &OutputMonitor{
		cfg:    cfg,
		bus:    b,
		logger: logger.With("component", "output_monitor"),
	}
}

func (m *OutputMonitor) Register(k *edge.Kernel) {
	k.Spawn("output_monitor.reset", m.watchReset)
	k.Spawn("output_monitor.main", m.run)
}

func (m *OutputMonitor) run(t *edge.Task) error {
	if err := waitResetCycle(t, m.bus); err != nil {
		return err
	}

	for {
		m.intr.Clear()

		it, err := m.observe(t)
		if err != nil {
			return err
		}
		if it == nil {
			m.logger.Info("observation abandoned by reset")
			if err := waitResetRelease(t, m.bus); err != nil {
				return err
			}
			continue
		}

		m.logger.Debug("collected item", "item", it)
		m.Port.Publish(it)

		// Hold until output-valid deasserts so one result is not observed
		// twice.
		for m.bus.Sampled().DetValid {
			if err := t.WaitEdge(); err != nil {
				return err
			}
			if m.intr.Fired() {
				break
			}
		}
	}
}

func (m *OutputMonitor) observe(t *edge.Task) (*item.DeterminantItem, error) {
	delay := 0
	for !m.bus.Sampled().DetValid {
		if err := t.WaitEdge(); err != nil {
			return nil, err
		}
		if m.intr.Fired() {
			return nil, nil
		}
		delay++
	}

	s := m.bus.Sampled()
	return &item.DeterminantItem{
		Value:    bus.SignExtend(s.Det, m.cfg.DetBusWidth),
		Overflow: s.Overflow,
		Delay:    delay,
	}, nil
}

func (m *OutputMonitor) watchReset(t *edge.Task) error {
	return watchResetEdge(t, m.bus, &m.intr, m.logger)
}
