package agent

import (
	"log/slog"

	"detbench/src/bench/bus"
	"detbench/src/bench/edge"
	"detbench/src/bench/item"
)

// InputMonitor passively reconstructs matrix transactions by sampling the
// input interface every clock edge. It never drives a signal.
type InputMonitor struct {
	cfg    bus.Config
	bus    *bus.Bus
	logger *slog.Logger

	// Port publishes each fully reconstructed transaction.
	Port AnalysisPort[*item.MatrixItem]

	intr edge.Interrupt
}

func NewInputMonitor(cfg bus.Config, b *bus.Bus, logger *slog.Logger) *InputMonitor {
	if b == nil {
		panic(ErrUnboundBus)
	}
	return &InputMonitor{
		cfg:    cfg,
		bus:    b,
		logger: logger.With("component", "input_monitor"),
	}
}

func (m *InputMonitor) Register(k *edge.Kernel) {
	k.Spawn("input_monitor.reset", m.watchReset)
	k.Spawn("input_monitor.main", m.run)
}

func (m *InputMonitor) run(t *edge.Task) error {
	if err := waitResetCycle(t, m.bus); err != nil {
		return err
	}

	for {
		m.intr.Clear()

		it, err := m.collect(t)
		if err != nil {
			return err
		}
		if it == nil {
			// Reset preempted the reconstruction; no partial transaction
			// is published. Wait out the reset before resuming.
			m.logger.Info("collection abandoned by reset")
			if err := waitResetRelease(t, m.bus); err != nil {
				return err
			}
			continue
		}

		m.logger.Debug("collected item", "item", it)
		m.Port.Publish(it)

		// The next rising edge of the ack strobe marks the end of this
		// transaction window.
		if ok, err := m.waitRequestRise(t); err != nil {
			return err
		} else if !ok {
			m.logger.Info("transaction window cut short by reset")
			if err := waitResetRelease(t, m.bus); err != nil {
				return err
			}
		}
	}
}

// collect reconstructs one transaction. Returns nil when reset preempted it.
func (m *InputMonitor) collect(t *edge.Task) (*item.MatrixItem, error) {
	n := m.cfg.MatrixSize
	it := item.NewMatrixItem(n)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			preDelay := 0
			for {
				s := m.bus.Sampled()
				if s.MatValid && s.MatRequest {
					it.Values[i][j] = bus.SignExtend(s.MatIn, m.cfg.MatBusWidth)
					it.PreDelays[i][j] = preDelay
					break
				}
				if err := t.WaitEdge(); err != nil {
					return nil, err
				}
				if m.intr.Fired() {
					return nil, nil
				}
				preDelay++
			}

			// Move off the acceptance edge before looking for the next
			// element.
			if err := t.WaitEdge(); err != nil {
				return nil, err
			}
			if m.intr.Fired() {
				return nil, nil
			}
		}
	}
	return it, nil
}

func (m *InputMonitor) waitRequestRise(t *edge.Task) (bool, error) {
	prev := m.bus.Sampled().MatRequest
	for {
		if err := t.WaitEdge(); err != nil {
			return false, err
		}
		if m.intr.Fired() {
			return false, nil
		}
		s := m.bus.Sampled()
		if !prev && s.MatRequest {
			return true, nil
		}
		prev = s.MatRequest
	}
}

func (m *InputMonitor) watchReset(t *edge.Task) error {
	return watchResetEdge(t, m.bus, &m.intr, m.logger)
}
