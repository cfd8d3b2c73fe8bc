// Package bus models the signal-level interface between the harness and the
// determinant core. Writers drive the live signal set during their kernel
// turns; at every rising edge the kernel latches a snapshot, and all readers
// sample that snapshot. This gives register-transfer semantics: a value
// driven during cycle k is visible to every task from cycle k+1 on,
// independent of task ordering.
package bus

// Signals is the flattened pin view of the determinant interface.
// Directionality as seen from the harness: RstN, MatValid and MatIn are
// driven; MatRequest, DetValid, Det and Overflow are observed.
type Signals struct {
	RstN       bool
	MatValid   bool
	MatIn      uint64
	MatRequest bool
	DetValid   bool
	Det        uint64
	Overflow   bool
}

type Bus struct {
	cur Signals
	smp Signals
}

func NewBus() *Bus {
	return &Bus{}
}

// Sample latches the driven signals into the per-edge snapshot. The kernel
// calls this once per rising edge before any task runs.
func (b *Bus) Sample() {
	b.smp = b.cur
}

// Sampled returns the snapshot taken at the current edge.
func (b *Bus) Sampled() Signals {
	return b.smp
}

func (b *Bus) SetRstN(v bool)       { b.cur.RstN = v }
func (b *Bus) SetMatValid(v bool)   { b.cur.MatValid = v }
func (b *Bus) SetMatIn(v uint64)    { b.cur.MatIn = v }
func (b *Bus) SetMatRequest(v bool) { b.cur.MatRequest = v }
func (b *Bus) SetDetValid(v bool)   { b.cur.DetValid = v }
func (b *Bus) SetDet(v uint64)      { b.cur.Det = v }
func (b *Bus) SetOverflow(v bool)   { b.cur.Overflow = v }

// Mask truncates a signed value to the given bus width, as the driver must
// before placing data on the wire.
func Mask(v int64, width int) uint64 {
	return uint64(v) & ((1 << uint(width)) - 1)
}

// SignExtend converts a raw unsigned bus value back to signed form using
// two's-complement sign extension for the given width.
func SignExtend(raw uint64, width int) int64 {
	raw &= (1 << uint(width)) - 1
	if raw >= 1<<uint(width-1) {
		return int64(raw) - (1 << uint(width))
	}
	return int64(raw)
}
