package bus

// IdleData selects what the driver places on the data lines while no element
// is being presented. A true high-impedance state is not representable, so
// "hiz" is approximated as zero fill; "unknown" uses an alternating bit
// pattern standing in for an X value.
type IdleData string

const (
	IdleZero        IdleData = "zero"
	IdleAlternating IdleData = "unknown"
)

// IdleDataFromString converts an arbitrary string into an IdleData policy.
// When the provided value is unknown the bool return will be false.
func IdleDataFromString(value string) (IdleData, bool) {
	switch value {
	case string(IdleZero), "hiz":
		return IdleZero, true
	case string(IdleAlternating):
		return IdleAlternating, true
	default:
		return "", false
	}
}

// Config carries the documented size and width parameters of the determinant
// core, plus the harness policies layered on top of them. Nothing in the
// core logic hardcodes these.
type Config struct {
	MatrixSize  int
	MatBusWidth int
	DetBusWidth int

	IdleData       IdleData
	DelayTolerance int

	// PipelineLatency is the fixed term of the expected-delay heuristic.
	// It is a placeholder policy, not a verified timing contract.
	PipelineLatency int
}

func DefaultConfig() Config {
	n := 3
	return Config{
		MatrixSize:      n,
		MatBusWidth:     16,
		DetBusWidth:     16,
		IdleData:        IdleZero,
		DelayTolerance:  2,
		PipelineLatency: n * n,
	}
}

// MatMin returns the minimum representable signed value on the input bus.
func (c Config) MatMin() int64 {
	return -(1 << uint(c.MatBusWidth-1))
}

// MatMax returns the maximum representable signed value on the input bus.
func (c Config) MatMax() int64 {
	return 1<<uint(c.MatBusWidth-1) - 1
}

// DetMin returns the minimum representable signed value on the output bus,
// the saturation floor.
func (c Config) DetMin() int64 {
	return -(1 << uint(c.DetBusWidth-1))
}

// DetMax returns the maximum representable signed value on the output bus,
// the saturation ceiling.
func (c Config) DetMax() int64 {
	return 1<<uint(c.DetBusWidth-1) - 1
}

// IdlePattern returns the raw data value the driver emits during idle
// cycles, masked to the input bus width.
func (c Config) IdlePattern() uint64 {
	if c.IdleData == IdleAlternating {
		pattern := uint64(0)
		for bit := 1; bit < c.MatBusWidth; bit += 2 {
			pattern |= 1 << uint(bit)
		}
		return pattern
	}
	return 0
}
