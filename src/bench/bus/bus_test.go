package bus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSampleLatchesDrivenValues(t *testing.T) {
	b := NewBus()

	b.SetMatValid(true)
	b.SetMatIn(0x1234)
	require.False(t, b.Sampled().MatValid, "drives must not be visible before the next edge")

	b.Sample()
	s := b.Sampled()
	require.True(t, s.MatValid)
	require.Equal(t, uint64(0x1234), s.MatIn)

	b.SetMatValid(false)
	require.True(t, b.Sampled().MatValid, "snapshot holds until the next edge")
}

func TestMask(t *testing.T) {
	require.Equal(t, uint64(0xFFFF), Mask(-1, 16))
	require.Equal(t, uint64(0x8000), Mask(-32768, 16))
	require.Equal(t, uint64(0x7FFF), Mask(32767, 16))
	require.Equal(t, uint64(0), Mask(0, 16))
	require.Equal(t, uint64(0xAB), Mask(0x1AB, 8))
}

func TestSignExtend(t *testing.T) {
	tests := []struct {
		raw   uint64
		width int
		want  int64
	}{
		{0, 16, 0},
		{32767, 16, 32767},
		{32768, 16, -32768},
		{65535, 16, -1},
		{0x80, 8, -128},
		{0x7F, 8, 127},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, SignExtend(tt.raw, tt.width), "raw=%d width=%d", tt.raw, tt.width)
	}
}

func TestSignExtendInvertsMask(t *testing.T) {
	for _, v := range []int64{-32768, -1, 0, 1, 32767, -12345, 20000} {
		require.Equal(t, v, SignExtend(Mask(v, 16), 16))
	}
}

func TestConfigLimits(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, int64(-32768), cfg.MatMin())
	require.Equal(t, int64(32767), cfg.MatMax())
	require.Equal(t, int64(-32768), cfg.DetMin())
	require.Equal(t, int64(32767), cfg.DetMax())

	cfg.DetBusWidth = 8
	require.Equal(t, int64(-128), cfg.DetMin())
	require.Equal(t, int64(127), cfg.DetMax())
}

func TestIdlePattern(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, uint64(0), cfg.IdlePattern())

	cfg.IdleData = IdleAlternating
	require.Equal(t, uint64(0xAAAA), cfg.IdlePattern())

	cfg.MatBusWidth = 8
	require.Equal(t, uint64(0xAA), cfg.IdlePattern())
}

func TestIdleDataFromString(t *testing.T) {
	if v, ok := IdleDataFromString("zero"); !ok || v != IdleZero {
		t.Fatalf("zero: got %v %v", v, ok)
	}
	if v, ok := IdleDataFromString("hiz"); !ok || v != IdleZero {
		t.Fatalf("hiz: got %v %v", v, ok)
	}
	if v, ok := IdleDataFromString("unknown"); !ok || v != IdleAlternating {
		t.Fatalf("unknown: got %v %v", v, ok)
	}
	if _, ok := IdleDataFromString("float"); ok {
		t.Fatal("float must not parse")
	}
}
