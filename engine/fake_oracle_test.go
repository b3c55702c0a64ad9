package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"boardbot/oracle"
	"boardbot/types"
)

var errNoScript = errors.New("no scripted reply")

type moveReply struct {
	move oracle.Move
	err  error
}

type outcomeReply struct {
	outcome oracle.Outcome
	err     error
}

// fakeOracle answers from scripted queues. With a gate set, every call blocks
// until a token is sent on the gate, regardless of its context, so tests can
// deliver replies after a reset.
type fakeOracle struct {
	mu           sync.Mutex
	moves        []moveReply
	outcomes     []outcomeReply
	moveCalls    int
	outcomeCalls int
	depths       []int
	gate         chan struct{}
	honorCancel  bool
	started      chan string
}

func newFakeOracle() *fakeOracle {
	return &fakeOracle{started: make(chan string, 64)}
}

func (f *fakeOracle) gated() *fakeOracle {
	f.gate = make(chan struct{})
	return f
}

func (f *fakeOracle) queueMove(row, col int, isWin bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moves = append(f.moves, moveReply{move: oracle.Move{
		Placement:     types.Placement{Row: row, Column: col},
		IsWinningMove: isWin,
	}})
}

func (f *fakeOracle) queueMoveError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moves = append(f.moves, moveReply{err: err})
}

func (f *fakeOracle) queueOutcome(o oracle.Outcome) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, outcomeReply{outcome: o})
}

func (f *fakeOracle) queueOutcomeError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, outcomeReply{err: err})
}

func (f *fakeOracle) counts() (moves, outcomes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.moveCalls, f.outcomeCalls
}

func (f *fakeOracle) requestedDepths() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.depths...)
}

func (f *fakeOracle) RequestMachineMove(ctx context.Context, _ types.Variant, _ types.Board, depth int) (oracle.Move, error) {
	f.mu.Lock()
	f.moveCalls++
	f.depths = append(f.depths, depth)
	r := moveReply{err: errNoScript}
	if len(f.moves) > 0 {
		r = f.moves[0]
		f.moves = f.moves[1:]
	}
	f.mu.Unlock()

	f.started <- "move"
	if err := f.wait(ctx); err != nil {
		return oracle.Move{}, err
	}
	return r.move, r.err
}

func (f *fakeOracle) RequestOutcome(ctx context.Context, _ types.Variant, _ types.Board) (oracle.Outcome, error) {
	f.mu.Lock()
	f.outcomeCalls++
	r := outcomeReply{}
	if len(f.outcomes) > 0 {
		r = f.outcomes[0]
		f.outcomes = f.outcomes[1:]
	}
	f.mu.Unlock()

	f.started <- "outcome"
	if err := f.wait(ctx); err != nil {
		return oracle.Outcome{}, err
	}
	return r.outcome, r.err
}

func (f *fakeOracle) wait(ctx context.Context) error {
	if f.gate == nil {
		return nil
	}
	if f.honorCancel {
		select {
		case <-f.gate:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	<-f.gate
	return nil
}

// release lets one blocked call return.
func (f *fakeOracle) release(t *testing.T) {
	t.Helper()
	select {
	case f.gate <- struct{}{}:
	case <-time.After(2 * time.Second):
		t.Fatal("no call waiting on the gate")
	}
}

// awaitCall waits until a call of the given kind has started.
func (f *fakeOracle) awaitCall(t *testing.T, kind string) {
	t.Helper()
	select {
	case got := <-f.started:
		require.Equal(t, kind, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("no %s call started", kind)
	}
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, time.Millisecond, msg)
}
