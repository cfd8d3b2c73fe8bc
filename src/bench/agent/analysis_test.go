package agent

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFifoPushDrain(t *testing.T) {
	var f Fifo[int]
	require.Equal(t, 0, f.Len())

	f.Push(1)
	f.Push(2)
	f.Push(3)
	require.Equal(t, 3, f.Len())

	require.Equal(t, []int{1, 2, 3}, f.Drain())
	require.Equal(t, 0, f.Len())
	require.Empty(t, f.Drain())
}

func TestAnalysisPortFansOut(t *testing.T) {
	var (
		p    AnalysisPort[string]
		a, b Fifo[string]
	)
	p.Connect(&a)
	p.Connect(&b)

	p.Publish("x")
	p.Publish("y")

	require.Equal(t, []string{"x", "y"}, a.Drain())
	require.Equal(t, []string{"x", "y"}, b.Drain())
}

func TestAnalysisPortWithoutSubscribers(t *testing.T) {
	var p AnalysisPort[int]
	p.Publish(42)
}
