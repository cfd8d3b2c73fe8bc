package agent

import (
	"sync"

	"detbench/src/bench/item"
)

// DriveResult is the driver's verdict on a submitted transaction.
type DriveResult int

const (
	// DriveCompleted means every element was presented and acknowledged.
	DriveCompleted DriveResult = iota
	// DriveAborted means a reset preempted the transaction. Recoverable;
	// the caller decides whether to resubmit.
	DriveAborted
)

func (r DriveResult) String() string {
	if r == DriveCompleted {
		return "completed"
	}
	return "aborted"
}

// Submission pairs a transaction with the channel its drive verdict is
// reported on.
type Submission struct {
	Item *item.MatrixItem
	resp chan DriveResult
}

// Respond delivers the drive verdict to the submitting goroutine.
func (s *Submission) Respond(r DriveResult) {
	s.resp <- r
}

// Sequencer decouples transaction generation from drive timing. A sequence
// goroutine blocks in Submit until the driver reports completion or
// abandonment; at most one transaction is in flight at a time. The driver
// polls TryNext at edge boundaries so it never blocks the clock.
type Sequencer struct {
	req chan *Submission

	closeOnce sync.Once
	closed    chan struct{}
}

func NewSequencer() *Sequencer {
	return &Sequencer{
		req:    make(chan *Submission, 1),
		closed: make(chan struct{}),
	}
}

// Submit hands a transaction to the driver and blocks until it has been
// driven. Returns DriveAborted when the sequencer is closed before a verdict
// arrives.
func (s *Sequencer) Submit(it *item.MatrixItem) DriveResult {
	sub := &Submission{Item: it, resp: make(chan DriveResult, 1)}

	select {
	case s.req <- sub:
	case <-s.closed:
		return DriveAborted
	}

	select {
	case r := <-sub.resp:
		return r
	case <-s.closed:
		return DriveAborted
	}
}

// TryNext returns the pending submission, if any, without blocking.
func (s *Sequencer) TryNext() *Submission {
	select {
	case sub := <-s.req:
		return sub
	default:
		return nil
	}
}

// Close releases any goroutine blocked in Submit. Used at end of run.
func (s *Sequencer) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
}
