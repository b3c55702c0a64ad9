package engine

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"boardbot/oracle"
	"boardbot/types"
)

func newTestScheduler(t *testing.T, v types.Variant, first types.Owner, o oracle.Oracle, cfg SchedulerConfig) (*Store, *Scheduler) {
	t.Helper()
	log := zap.NewNop().Sugar()
	store := NewStore(v, first, log)
	s := NewScheduler(store, o, cfg, log)
	t.Cleanup(s.Close)
	return store, s
}

func TestAutoplayRequestsMachineMove(t *testing.T) {
	// Given
	fake := newFakeOracle()
	fake.queueMove(0, 3, false)
	store, s := newTestScheduler(t, types.ConnectFour, types.Machine, fake, SchedulerConfig{Autoplay: true, SearchDepth: 4})

	// When
	store.Start()

	// Then
	eventually(t, func() bool { return store.Snapshot().Phase.Kind == AwaitingHumanMove }, "machine move applied")
	eventually(t, func() bool { return !s.Loading() }, "loading cleared")
	moves, outcomes := fake.counts()
	assert.Equal(t, 1, moves)
	assert.Equal(t, 0, outcomes)
	assert.Equal(t, []int{4}, fake.requestedDepths())
	assert.Equal(t, []types.Placement{{Row: 0, Column: 3}}, store.Snapshot().Highlight)
	assert.NoError(t, s.LastError())
}

func TestManualModeWaitsForTrigger(t *testing.T) {
	// Given
	fake := newFakeOracle()
	fake.queueMove(0, 2, false)
	store, s := newTestScheduler(t, types.ConnectFour, types.Human, fake, SchedulerConfig{SearchDepth: 6})
	store.Start()

	// When the human moves with autoplay off
	require.True(t, store.SubmitHumanPlacement(col(3)))

	// Then nothing is requested until the trigger
	time.Sleep(20 * time.Millisecond)
	moves, _ := fake.counts()
	assert.Equal(t, 0, moves)
	assert.Equal(t, AwaitingMachineMove, store.Snapshot().Phase.Kind)

	require.True(t, s.Trigger())
	eventually(t, func() bool { return store.Snapshot().Phase.Kind == AwaitingHumanMove }, "machine move applied")
	moves, _ = fake.counts()
	assert.Equal(t, 1, moves)
}

func TestTriggerOnHumanTurnIsIgnored(t *testing.T) {
	fake := newFakeOracle()
	store, s := newTestScheduler(t, types.ConnectFour, types.Human, fake, SchedulerConfig{})
	store.Start()

	assert.False(t, s.Trigger())
	moves, outcomes := fake.counts()
	assert.Zero(t, moves)
	assert.Zero(t, outcomes)
}

func TestAutoplayToggleDoesNotDoubleFire(t *testing.T) {
	// Given a machine turn with autoplay off
	fake := newFakeOracle().gated()
	fake.queueMove(0, 0, false)
	store, s := newTestScheduler(t, types.ConnectFour, types.Machine, fake, SchedulerConfig{SearchDepth: 6})
	var changes atomic.Int32
	s.OnChange(func() { changes.Add(1) })
	store.Start()

	// When autoplay is switched on, off and on again while the request runs
	s.SetAutoplay(true)
	fake.awaitCall(t, "move")
	s.SetAutoplay(false)
	s.SetAutoplay(true)
	assert.True(t, s.Loading())

	// Then only one request was issued
	fake.release(t)
	eventually(t, func() bool { return store.Snapshot().Phase.Kind == AwaitingHumanMove }, "machine move applied")
	eventually(t, func() bool { return !s.Loading() }, "loading cleared")
	moves, _ := fake.counts()
	assert.Equal(t, 1, moves)
	assert.Positive(t, changes.Load())
}

func TestTriggerJoinsRequestInFlight(t *testing.T) {
	fake := newFakeOracle().gated()
	fake.queueMove(0, 5, false)
	store, s := newTestScheduler(t, types.ConnectFour, types.Machine, fake, SchedulerConfig{Autoplay: true})
	store.Start()
	fake.awaitCall(t, "move")

	assert.True(t, s.Trigger(), "joining counts as started")

	fake.release(t)
	eventually(t, func() bool { return store.Snapshot().Phase.Kind == AwaitingHumanMove }, "machine move applied")
	moves, _ := fake.counts()
	assert.Equal(t, 1, moves)
}

func TestFailureThenManualRetry(t *testing.T) {
	// Given an oracle that fails once
	fake := newFakeOracle()
	fake.queueMoveError(fmt.Errorf("%w: boom", oracle.ErrRequestFailure))
	fake.queueMove(0, 1, false)
	store, s := newTestScheduler(t, types.ConnectFour, types.Machine, fake, SchedulerConfig{Autoplay: true})

	// When
	store.Start()

	// Then the phase stays put and the error is reported
	eventually(t, func() bool { return s.LastError() != nil }, "error recorded")
	assert.ErrorIs(t, s.LastError(), oracle.ErrRequestFailure)
	assert.False(t, s.Loading())
	assert.Equal(t, AwaitingMachineMove, store.Snapshot().Phase.Kind)
	moves, _ := fake.counts()
	assert.Equal(t, 1, moves, "no automatic retry")

	// When retried by hand
	require.True(t, s.Trigger())

	// Then
	eventually(t, func() bool { return store.Snapshot().Phase.Kind == AwaitingHumanMove }, "machine move applied")
	assert.NoError(t, s.LastError())
	moves, _ = fake.counts()
	assert.Equal(t, 2, moves)
}

func TestUnplayableMachineMoveIsAnError(t *testing.T) {
	fake := newFakeOracle()
	fake.queueMove(4, 4, false)
	store, s := newTestScheduler(t, types.ConnectFour, types.Machine, fake, SchedulerConfig{Autoplay: true})

	store.Start()

	eventually(t, func() bool { return s.LastError() != nil }, "error recorded")
	assert.ErrorIs(t, s.LastError(), oracle.ErrRequestFailure)
	assert.Equal(t, 0, store.Snapshot().Board.Len())
}

func TestStaleMoveAfterResetIsDropped(t *testing.T) {
	// Given a machine request in flight
	fake := newFakeOracle().gated()
	fake.queueMove(0, 4, false)
	store, s := newTestScheduler(t, types.ConnectFour, types.Human, fake, SchedulerConfig{Autoplay: true})
	store.Start()
	require.True(t, store.SubmitHumanPlacement(col(3)))
	fake.awaitCall(t, "move")

	// When the game is reset and the old reply arrives
	store.Reset()
	fake.release(t)

	// Then the fresh game is untouched
	eventually(t, func() bool { return !s.Loading() }, "loading cleared")
	st := store.Snapshot()
	assert.Equal(t, 0, st.Board.Len())
	assert.Equal(t, AwaitingHumanMove, st.Phase.Kind)
	assert.NoError(t, s.LastError())
}

func TestResetCancelsRequest(t *testing.T) {
	fake := newFakeOracle().gated()
	fake.honorCancel = true
	store, s := newTestScheduler(t, types.ConnectFour, types.Human, fake, SchedulerConfig{Autoplay: true})
	store.Start()
	require.True(t, store.SubmitHumanPlacement(col(0)))
	fake.awaitCall(t, "move")

	store.Reset()

	eventually(t, func() bool { return !s.Loading() }, "request cancelled")
	assert.NoError(t, s.LastError())
}

func TestOutcomeCheckedFromThreshold(t *testing.T) {
	// Given a gomoku game where the human builds a row of five
	fake := newFakeOracle()
	for c := 0; c < 4; c++ {
		fake.queueMove(0, c*3, false)
	}
	line := []types.Placement{{Row: 6, Column: 2}, {Row: 6, Column: 3}, {Row: 6, Column: 4}, {Row: 6, Column: 5}, {Row: 6, Column: 6}}
	fake.queueOutcome(oracle.Outcome{IsOver: true, Winner: types.WinnerHuman, WinningLine: line})
	store, _ := newTestScheduler(t, types.Gomoku, types.Human, fake, SchedulerConfig{Autoplay: true})
	store.Start()

	for c := 2; c <= 5; c++ {
		require.True(t, store.SubmitHumanPlacement(types.Placement{Row: 6, Column: c}))
		eventually(t, func() bool { return store.Snapshot().Phase.Kind == AwaitingHumanMove }, "machine replied")
		_, outcomes := fake.counts()
		require.Zero(t, outcomes, "no check below five stones")
	}

	// When
	require.True(t, store.SubmitHumanPlacement(types.Placement{Row: 6, Column: 6}))

	// Then
	eventually(t, func() bool { return store.Snapshot().Phase.IsOver() }, "game over")
	st := store.Snapshot()
	assert.Equal(t, types.WinnerHuman, st.Phase.Winner)
	assert.ElementsMatch(t, line, st.Highlight)
	moves, outcomes := fake.counts()
	assert.Equal(t, 4, moves)
	assert.Equal(t, 1, outcomes)
}

func TestOutcomeFailureRetries(t *testing.T) {
	fake := newFakeOracle()
	for c := 0; c < 3; c++ {
		fake.queueMove(c+1, 6, false)
	}
	fake.queueOutcomeError(fmt.Errorf("%w: timeout", oracle.ErrRequestFailure))
	fake.queueOutcome(oracle.Outcome{})
	fake.queueMove(4, 6, false)
	store, s := newTestScheduler(t, types.ConnectFour, types.Human, fake, SchedulerConfig{Autoplay: true})
	store.Start()

	// Machine answers by stacking column 6 on top of the human's first piece.
	require.True(t, store.SubmitHumanPlacement(col(6)))
	eventually(t, func() bool { return store.Snapshot().Phase.Kind == AwaitingHumanMove }, "machine replied")
	for c := 0; c < 2; c++ {
		require.True(t, store.SubmitHumanPlacement(col(c)))
		eventually(t, func() bool { return store.Snapshot().Phase.Kind == AwaitingHumanMove }, "machine replied")
	}

	require.True(t, store.SubmitHumanPlacement(col(2)))
	eventually(t, func() bool { return s.LastError() != nil }, "outcome failed")
	assert.Equal(t, ResolvingHumanMove, store.Snapshot().Phase.Kind)

	require.True(t, s.Trigger())
	eventually(t, func() bool { return store.Snapshot().Phase.Kind == AwaitingHumanMove }, "outcome resolved and machine replied")
	// The failed check, its retry, and the check after the machine's fourth piece.
	moves, outcomes := fake.counts()
	assert.Equal(t, 4, moves)
	assert.Equal(t, 3, outcomes)
	assert.NoError(t, s.LastError())
}

func TestWinningMoveFetchesLine(t *testing.T) {
	line := []types.Placement{{Row: 0, Column: 0}, {Row: 0, Column: 1}, {Row: 0, Column: 2}, {Row: 0, Column: 3}}

	t.Run("line fetched", func(t *testing.T) {
		fake := newFakeOracle()
		fake.queueMove(0, 3, true)
		fake.queueOutcome(oracle.Outcome{IsOver: true, Winner: types.WinnerMachine, WinningLine: line})
		store, _ := newTestScheduler(t, types.ConnectFour, types.Machine, fake, SchedulerConfig{Autoplay: true, FetchWinningLine: true})

		store.Start()

		eventually(t, func() bool { return len(store.Snapshot().Highlight) == 4 }, "line fetched")
		assert.Equal(t, Phase{Kind: Over, Winner: types.WinnerMachine}, store.Snapshot().Phase)
	})

	t.Run("fetch disabled", func(t *testing.T) {
		fake := newFakeOracle()
		fake.queueMove(0, 3, true)
		store, s := newTestScheduler(t, types.ConnectFour, types.Machine, fake, SchedulerConfig{Autoplay: true})

		store.Start()

		eventually(t, func() bool { return store.Snapshot().Phase.IsOver() }, "game over")
		eventually(t, func() bool { return !s.Loading() }, "loading cleared")
		_, outcomes := fake.counts()
		assert.Zero(t, outcomes)
		assert.Equal(t, []types.Placement{{Row: 0, Column: 3}}, store.Snapshot().Highlight)
	})

	t.Run("fetch failure keeps fallback", func(t *testing.T) {
		fake := newFakeOracle()
		fake.queueMove(0, 3, true)
		fake.queueOutcomeError(fmt.Errorf("%w: down", oracle.ErrRequestFailure))
		store, s := newTestScheduler(t, types.ConnectFour, types.Machine, fake, SchedulerConfig{Autoplay: true, FetchWinningLine: true})

		store.Start()

		eventually(t, func() bool {
			_, outcomes := fake.counts()
			return outcomes == 1 && !s.Loading()
		}, "fetch attempted")
		assert.Equal(t, []types.Placement{{Row: 0, Column: 3}}, store.Snapshot().Highlight)
		assert.NoError(t, s.LastError())
	})
}

func TestSearchDepthIsClamped(t *testing.T) {
	_, s := newTestScheduler(t, types.ConnectFour, types.Human, newFakeOracle(), SchedulerConfig{SearchDepth: 0})
	assert.Equal(t, MinSearchDepth, s.SearchDepth())

	s.SetSearchDepth(12)
	assert.Equal(t, MaxSearchDepth, s.SearchDepth())

	s.SetSearchDepth(3)
	assert.Equal(t, 3, s.SearchDepth())
}

func TestCloseStopsScheduling(t *testing.T) {
	fake := newFakeOracle().gated()
	fake.honorCancel = true
	store, s := newTestScheduler(t, types.ConnectFour, types.Machine, fake, SchedulerConfig{Autoplay: true})
	store.Start()
	fake.awaitCall(t, "move")

	done := make(chan struct{})
	go func() {
		s.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("close did not return")
	}
	assert.False(t, s.Trigger())
}
