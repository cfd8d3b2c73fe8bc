package agent

import "sync"

// Fifo is an unbounded observation queue. Monitors push during their kernel
// turns; the environment drains after the run. The mutex only matters for
// the post-run drain, publication itself is kernel-serialized.
type Fifo[T any] struct {
	mu    sync.Mutex
	items []T
}

func (f *Fifo[T]) Push(v T) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, v)
}

// Drain removes and returns everything collected so far.
func (f *Fifo[T]) Drain() []T {
	f.mu.Lock()
	defer f.mu.Unlock()

	items := f.items
	f.items = nil
	return items
}

func (f *Fifo[T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.items)
}

// AnalysisPort fans a monitor's observations out to any number of subscriber
// FIFOs, the scoreboard's and the coverage collector's among them.
type AnalysisPort[T any] struct {
	subs []*Fifo[T]
}

func (p *AnalysisPort[T]) Connect(f *Fifo[T]) {
	p.subs = append(p.subs, f)
}

func (p *AnalysisPort[T]) Publish(v T) {
	for _, f := range p.subs {
		f.Push(v)
	}
}
