package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"detbench/src/bench/item"
)

func TestSubmitDeliversVerdict(t *testing.T) {
	s := NewSequencer()
	it := item.NewMatrixItem(3)

	res := make(chan DriveResult, 1)
	go func() {
		res <- s.Submit(it)
	}()

	var sub *Submission
	require.Eventually(t, func() bool {
		sub = s.TryNext()
		return sub != nil
	}, time.Second, time.Millisecond)
	require.Same(t, it, sub.Item)

	sub.Respond(DriveCompleted)
	select {
	case r := <-res:
		require.Equal(t, DriveCompleted, r)
	case <-time.After(time.Second):
		t.Fatal("submit never returned")
	}
}

func TestTryNextWithoutPendingSubmission(t *testing.T) {
	s := NewSequencer()
	require.Nil(t, s.TryNext())
}

func TestSubmitAfterCloseAborts(t *testing.T) {
	s := NewSequencer()
	s.Close()
	require.Equal(t, DriveAborted, s.Submit(item.NewMatrixItem(3)))
}

func TestCloseReleasesBlockedSubmit(t *testing.T) {
	s := NewSequencer()

	res := make(chan DriveResult, 1)
	go func() {
		res <- s.Submit(item.NewMatrixItem(3))
	}()

	require.Eventually(t, func() bool {
		return s.TryNext() != nil
	}, time.Second, time.Millisecond)

	// The submission was handed over but never answered; Close must still
	// release the submitter.
	s.Close()
	select {
	case r := <-res:
		require.Equal(t, DriveAborted, r)
	case <-time.After(time.Second):
		t.Fatal("submit never returned after close")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	s := NewSequencer()
	s.Close()
	s.Close()
}

func TestDriveResultString(t *testing.T) {
	require.Equal(t, "completed", DriveCompleted.String())
	require.Equal(t, "aborted", DriveAborted.String())
}
