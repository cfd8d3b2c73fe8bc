package edge

// Interrupt is a one-way cancellation latch shared between a watcher task and
// a main-loop task. The watcher fires it; the main loop checks it after every
// WaitEdge and clears it when beginning a fresh operation. Kernel turn
// ordering makes the unguarded flag safe.
type Interrupt struct {
	fired bool
}

func (i *Interrupt) Fire() {
	i.fired = true
}

func (i *Interrupt) Clear() {
	i.fired = false
}

func (i *Interrupt) Fired() bool {
	return i.fired
}
