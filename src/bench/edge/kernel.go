// Package edge provides the cooperative clock kernel that the testbench
// components run on. Every component task is a goroutine, but only one task
// runs at a time: the kernel grants each task a turn per rising clock edge,
// in registration order, and a task gives the turn back by calling WaitEdge.
// Because tasks suspend only at edge waits, shared signal state needs no
// locking; the grant/park channel handshakes order all accesses.
package edge

import (
	"github.com/pkg/errors"
)

// ErrStopped is returned from WaitEdge once the kernel has been shut down.
// Task functions are expected to propagate it and return.
var ErrStopped = errors.New("edge: kernel stopped")

// Kernel owns the simulated clock and the task list.
type Kernel struct {
	tasks    []*Task
	hooks    []func()
	cycle    uint64
	stopping bool
}

// Task is the per-goroutine handle used to synchronize with the clock.
type Task struct {
	name   string
	kernel *Kernel

	edge    chan struct{}
	parked  chan struct{}
	stopped bool
	err     error
}

func NewKernel() *Kernel {
	return &Kernel{}
}

// OnEdge registers a hook executed at the start of every rising edge, before
// any task runs. The bus uses this to latch its sampled signal snapshot.
func (k *Kernel) OnEdge(fn func()) {
	k.hooks = append(k.hooks, fn)
}

// Spawn registers a task and starts its goroutine. The function body does not
// run until the first Step: that first granted turn executes the body from
// the top, so a task sees the starting edge directly and its first WaitEdge
// returns on the edge after it. From then on the body executes only between
// the WaitEdge calls it makes. Tasks run in Spawn order within each edge.
func (k *Kernel) Spawn(name string, fn func(*Task) error) *Task {
	t := &Task{
		name:   name,
		kernel: k,
		edge:   make(chan struct{}),
		parked: make(chan struct{}),
	}
	k.tasks = append(k.tasks, t)

	go func() {
		<-t.edge
		err := fn(t)
		if err != nil && !errors.Is(err, ErrStopped) {
			t.err = err
		}
		t.stopped = true
		t.parked <- struct{}{}
	}()

	return t
}

// Step advances the clock by one rising edge: hooks fire, then every live
// task runs from its parked point until it parks again.
func (k *Kernel) Step() {
	k.cycle++
	for _, hook := range k.hooks {
		hook()
	}
	for _, t := range k.tasks {
		if t.stopped {
			continue
		}
		t.edge <- struct{}{}
		<-t.parked
	}
}

// Run advances the clock by the requested number of edges.
func (k *Kernel) Run(cycles int) {
	for i := 0; i < cycles; i++ {
		k.Step()
	}
}

// Stop shuts the kernel down. Each live task is granted one final turn in
// which its WaitEdge returns ErrStopped.
func (k *Kernel) Stop() {
	k.stopping = true
	for _, t := range k.tasks {
		if t.stopped {
			continue
		}
		t.edge <- struct{}{}
		<-t.parked
	}
}

// Cycle returns the number of rising edges issued so far.
func (k *Kernel) Cycle() uint64 {
	return k.cycle
}

// WaitEdge parks the task until the next rising edge. It returns ErrStopped
// when the kernel is shutting down.
func (t *Task) WaitEdge() error {
	t.parked <- struct{}{}
	<-t.edge
	if t.kernel.stopping {
		return ErrStopped
	}
	return nil
}

func (t *Task) Name() string {
	return t.name
}

// Err reports the error the task function returned, if any. ErrStopped is
// not recorded; it is the normal shutdown path.
func (t *Task) Err() error {
	return t.err
}

// Stopped reports whether the task function has returned.
func (t *Task) Stopped() bool {
	return t.stopped
}
