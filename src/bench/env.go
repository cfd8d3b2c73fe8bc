// Package bench assembles the verification environment and runs it: agents,
// scoreboard and coverage wired over one bus, all clocked by the edge kernel.
package bench

import (
	"log/slog"

	"detbench/src/bench/agent"
	"detbench/src/bench/bus"
	"detbench/src/bench/cover"
	"detbench/src/bench/dut"
	"detbench/src/bench/edge"
	"detbench/src/bench/item"
	"detbench/src/bench/score"
)

// Environment owns every bench component and their wiring. Monitors publish
// into per-consumer FIFOs; the environment drains them into the scoreboard
// and the coverage collector once the clock has stopped.
type Environment struct {
	cfg    bus.Config
	logger *slog.Logger

	Kernel    *edge.Kernel
	Bus       *bus.Bus
	Sequencer *agent.Sequencer

	driver     *agent.Driver
	inMonitor  *agent.InputMonitor
	outMonitor *agent.OutputMonitor
	model      *dut.Model
	reset      *ResetController
	scoreboard *score.Scoreboard
	coverage   *cover.Collector

	scoreIn  agent.Fifo[*item.MatrixItem]
	scoreOut agent.Fifo[*item.DeterminantItem]
	coverIn  agent.Fifo[*item.MatrixItem]
	coverOut agent.Fifo[*item.DeterminantItem]
}

// NewEnvironment builds and registers every component. The reset controller
// owns the reset line; the behavioral core model stands in for the design
// under test.
func NewEnvironment(cfg bus.Config, reset *ResetController, ackDelay int, logger *slog.Logger) *Environment {
	e := &Environment{
		cfg:    cfg,
		logger: logger.With("component", "env"),
		Kernel: edge.NewKernel(),
		Bus:    bus.NewBus(),
	}

	e.Kernel.OnEdge(e.Bus.Sample)

	reset.Bind(e.Bus)
	e.reset = reset
	e.reset.Register(e.Kernel)

	e.model = dut.NewModel(cfg, e.Bus, ackDelay, logger)
	e.model.Register(e.Kernel)

	e.Sequencer = agent.NewSequencer()
	e.driver = agent.NewDriver(cfg, e.Bus, e.Sequencer, logger)
	e.driver.Register(e.Kernel)

	e.inMonitor = agent.NewInputMonitor(cfg, e.Bus, logger)
	e.inMonitor.Register(e.Kernel)
	e.outMonitor = agent.NewOutputMonitor(cfg, e.Bus, logger)
	e.outMonitor.Register(e.Kernel)

	e.inMonitor.Port.Connect(&e.scoreIn)
	e.inMonitor.Port.Connect(&e.coverIn)
	e.outMonitor.Port.Connect(&e.scoreOut)
	e.outMonitor.Port.Connect(&e.coverOut)

	e.scoreboard = score.NewScoreboard(cfg, logger)
	e.coverage = cover.NewCollector(cfg, logger)
	return e
}

// Drain feeds everything the monitors observed into the scoreboard and the
// coverage collector, in observation order.
func (e *Environment) Drain() {
	for _, it := range e.scoreIn.Drain() {
		e.scoreboard.ProcessInput(it)
	}
	for _, it := range e.scoreOut.Drain() {
		e.scoreboard.CompareOutput(it)
	}
	for _, it := range e.coverIn.Drain() {
		e.coverage.CollectInput(it)
	}
	for _, it := range e.coverOut.Drain() {
		e.coverage.CollectOutput(it)
	}
}

// Check drains any remaining observations and returns the run verdict.
func (e *Environment) Check() error {
	e.Drain()
	return e.scoreboard.Check()
}

// Report drains any remaining observations, then emits the coverage report
// and the scoreboard tallies.
func (e *Environment) Report() {
	e.Drain()
	e.coverage.Report()

	st := e.scoreboard.Stats()
	e.logger.Info("scoreboard summary",
		"expected", st.Expected,
		"matched", st.Matched,
		"value_mismatches", st.ValueMismatches,
		"flag_mismatches", st.FlagMismatches,
		"delay_warnings", st.DelayWarnings,
		"spurious_outputs", st.SpuriousOutputs,
		"lost_expected", st.LostExpected,
	)
}

// Scoreboard exposes the scoreboard for assertions in tests.
func (e *Environment) Scoreboard() *score.Scoreboard {
	return e.scoreboard
}

// Coverage exposes the coverage collector for assertions in tests.
func (e *Environment) Coverage() *cover.Collector {
	return e.coverage
}
