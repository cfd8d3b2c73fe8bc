package seq

import (
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"detbench/src/bench/agent"
	"detbench/src/bench/bus"
	"detbench/src/bench/item"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// runSequence consumes the sequencer on a side goroutine, answering every
// submission with the given verdict, and returns the items seen.
func runSequence(t *testing.T, s Sequence, verdict agent.DriveResult) (Stats, []*item.MatrixItem) {
	t.Helper()

	sqr := agent.NewSequencer()
	items := make(chan *item.MatrixItem, 1024)
	stop := make(chan struct{})
	go func() {
		for {
			sub := sqr.TryNext()
			if sub == nil {
				select {
				case <-stop:
					return
				case <-time.After(time.Microsecond):
				}
				continue
			}
			items <- sub.Item
			sub.Respond(verdict)
		}
	}()

	st := s.Run(sqr)
	close(stop)
	close(items)

	var got []*item.MatrixItem
	for it := range items {
		got = append(got, it)
	}
	return st, got
}

func TestSimpleSequence(t *testing.T) {
	cfg := bus.DefaultConfig()
	st, got := runSequence(t, NewSimpleSequence(cfg, discard()), agent.DriveCompleted)

	require.Equal(t, Stats{Submitted: 2, Completed: 2}, st)
	require.Len(t, got, 2)
	require.Equal(t, int64(1), got[0].Determinant())
	require.Zero(t, got[0].TotalDelay())
	require.Equal(t, int64(3), got[1].Determinant())
	require.Equal(t, 9, got[1].TotalDelay())
}

func TestRandomSequenceStaysInRange(t *testing.T) {
	cfg := bus.DefaultConfig()
	rng := rand.New(rand.NewSource(1))
	st, got := runSequence(t, NewRandomSequence(8, cfg, rng, discard()), agent.DriveCompleted)

	require.Equal(t, Stats{Submitted: 8, Completed: 8}, st)
	require.Len(t, got, 8)
	for _, it := range got {
		for i := range it.Values {
			for j := range it.Values[i] {
				require.GreaterOrEqual(t, it.Values[i][j], cfg.MatMin())
				require.LessOrEqual(t, it.Values[i][j], cfg.MatMax())
				require.GreaterOrEqual(t, it.PreDelays[i][j], 0)
				require.LessOrEqual(t, it.PreDelays[i][j], 10)
			}
		}
	}
}

func TestStressSequenceHasZeroDelays(t *testing.T) {
	cfg := bus.DefaultConfig()
	rng := rand.New(rand.NewSource(2))
	st, got := runSequence(t, NewStressSequence(5, cfg, rng, discard()), agent.DriveCompleted)

	require.Equal(t, 5, st.Completed)
	for _, it := range got {
		require.Zero(t, it.TotalDelay())
	}
}

func TestSmallValueSequenceBounds(t *testing.T) {
	cfg := bus.DefaultConfig()
	rng := rand.New(rand.NewSource(3))
	_, got := runSequence(t, NewSmallValueSequence(10, cfg, rng, discard()), agent.DriveCompleted)

	for _, it := range got {
		for i := range it.Values {
			for j := range it.Values[i] {
				require.GreaterOrEqual(t, it.Values[i][j], int64(-32))
				require.LessOrEqual(t, it.Values[i][j], int64(32))
				require.LessOrEqual(t, it.PreDelays[i][j], 5)
			}
		}
	}
}

func TestMultiResetSequenceToleratesAborts(t *testing.T) {
	cfg := bus.DefaultConfig()
	rng := rand.New(rand.NewSource(4))
	st, _ := runSequence(t, NewMultiResetSequence(6, cfg, rng, discard()), agent.DriveAborted)

	require.Equal(t, Stats{Submitted: 6, Aborted: 6}, st)
}

func TestNewSelectsByName(t *testing.T) {
	cfg := bus.DefaultConfig()
	rng := rand.New(rand.NewSource(5))

	for _, name := range []string{"simple", "random", "stress", "small", "multi_reset"} {
		s, err := New(name, 3, cfg, rng, discard())
		require.NoError(t, err)
		require.Equal(t, name, s.Name())
	}

	_, err := New("bogus", 3, cfg, rng, discard())
	require.Error(t, err)
}
