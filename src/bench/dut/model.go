// Package dut provides a behavioral model of the determinant core, used to
// exercise the harness end to end. It honours the same signal-level contract
// the RTL does: elements are accepted on edges where input-valid and the ack
// strobe are both high, and the saturated result is pulsed on output-valid
// after a fixed compute latency.
package dut

import (
	"log/slog"

	"detbench/src/bench/bus"
	"detbench/src/bench/edge"
	"detbench/src/bench/item"
)

type state int

const (
	stateCollect state = iota
	stateCompute
	stateEmit
)

// Model is registered on the edge kernel like any other task. AckDelay
// inserts idle cycles between element acceptances to exercise the driver's
// handshake wait; zero means the core is always ready while collecting.
type Model struct {
	cfg      bus.Config
	bus      *bus.Bus
	logger   *slog.Logger
	ackDelay int

	st        state
	values    [][]int64
	row, col  int
	ackHold   int
	countdown int
}

func NewModel(cfg bus.Config, b *bus.Bus, ackDelay int, logger *slog.Logger) *Model {
	m := &Model{
		cfg:      cfg,
		bus:      b,
		logger:   logger.With("component", "dut"),
		ackDelay: ackDelay,
	}
	m.reset()
	return m
}

func (m *Model) Register(k *edge.Kernel) {
	k.Spawn("dut", m.run)
}

func (m *Model) reset() {
	m.st = stateCollect
	m.values = make([][]int64, m.cfg.MatrixSize)
	for i := range m.values {
		m.values[i] = make([]int64, m.cfg.MatrixSize)
	}
	m.row, m.col = 0, 0
	m.ackHold = 0
	m.countdown = 0
}

func (m *Model) run(t *edge.Task) error {
	for {
		if err := t.WaitEdge(); err != nil {
			return err
		}

		s := m.bus.Sampled()
		if !s.RstN {
			m.reset()
			m.bus.SetMatRequest(false)
			m.bus.SetDetValid(false)
			m.bus.SetDet(0)
			m.bus.SetOverflow(false)
			continue
		}

		switch m.st {
		case stateCollect:
			m.collect(s)
		case stateCompute:
			m.compute()
		case stateEmit:
			// One-cycle output pulse has been seen; return to collecting.
			m.bus.SetDetValid(false)
			m.st = stateCollect
			m.bus.SetMatRequest(true)
		}
	}
}

func (m *Model) collect(s bus.Signals) {
	if m.ackHold > 0 {
		m.ackHold--
		m.bus.SetMatRequest(m.ackHold == 0)
		return
	}

	if s.MatValid && s.MatRequest {
		m.values[m.row][m.col] = bus.SignExtend(s.MatIn, m.cfg.MatBusWidth)
		m.col++
		if m.col == m.cfg.MatrixSize {
			m.col = 0
			m.row++
		}
		if m.row == m.cfg.MatrixSize {
			m.row = 0
			m.st = stateCompute
			m.countdown = m.cfg.PipelineLatency
			m.bus.SetMatRequest(false)
			return
		}
		if m.ackDelay > 0 {
			m.ackHold = m.ackDelay
			m.bus.SetMatRequest(false)
			return
		}
	}
	m.bus.SetMatRequest(true)
}

func (m *Model) compute() {
	m.countdown--
	if m.countdown > 0 {
		return
	}

	value, overflow := item.Saturate(
		item.Determinant(m.values), m.cfg.DetMin(), m.cfg.DetMax())
	m.logger.Debug("result ready", "det", value, "overflow", overflow)

	m.bus.SetDet(bus.Mask(value, m.cfg.DetBusWidth))
	m.bus.SetOverflow(overflow)
	m.bus.SetDetValid(true)
	m.st = stateEmit
}
