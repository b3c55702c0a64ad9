package engine_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"boardbot/engine"
	"boardbot/oracle"
	"boardbot/oracle/oracletest"
	"boardbot/types"
)

func newHTTPGame(t *testing.T, cfg engine.GameConfig) (*engine.Game, *oracletest.Server) {
	t.Helper()
	srv := oracletest.NewServer()
	t.Cleanup(srv.Close)

	log := zap.NewNop().Sugar()
	client := oracle.NewHTTPClient(oracle.HTTPConfig{
		BaseURL:    srv.URL,
		Timeout:    time.Second,
		MaxRetries: 1,
		RetryWait:  time.Millisecond,
	}, log)
	g := engine.NewGame(cfg, client, log)
	t.Cleanup(g.Close)
	return g, srv
}

func waitFor(t *testing.T, g *engine.Game, cond func(engine.State) bool, msg string) {
	t.Helper()
	require.Eventually(t, func() bool { return cond(g.State()) }, 2*time.Second, time.Millisecond, msg)
}

func TestGameAgainstHTTPOracle(t *testing.T) {
	// Given
	cfg := engine.DefaultConfig()
	g, srv := newHTTPGame(t, cfg)
	// Gravity boards only trust the column of the reply.
	srv.QueueMove("connect4", oracle.MoveResponse{Row: 5, Column: 2})
	var changes atomic.Int32
	g.OnChange(func(engine.State) { changes.Add(1) })
	require.NoError(t, g.Connect())

	// When
	require.True(t, g.PlayMove(types.Placement{Column: 3}))
	assert.False(t, g.PlayMove(types.Placement{Column: 3}), "machine is to move")

	// Then
	waitFor(t, g, func(st engine.State) bool { return st.Phase.Kind == engine.AwaitingHumanMove }, "machine replied")
	st := g.State()
	assert.Equal(t, []types.Placement{{Row: 0, Column: 3}}, st.Board.Placements(types.Human))
	assert.Equal(t, []types.Placement{{Row: 0, Column: 2}}, st.Board.Placements(types.Machine))
	assert.Equal(t, []types.Placement{{Row: 0, Column: 2}}, st.Highlight)

	reqs := srv.MoveRequests("connect4")
	require.Len(t, reqs, 1)
	assert.Equal(t, []types.Placement{{Row: 0, Column: 3}}, reqs[0].HumanPlacements)
	assert.Empty(t, reqs[0].MachinePlacements)
	assert.Equal(t, cfg.SearchDepth, reqs[0].SearchDepth)
	assert.Positive(t, changes.Load())
}

func TestGameReportsServerFailure(t *testing.T) {
	// Given a server that keeps failing
	cfg := engine.DefaultConfig()
	cfg.StartingPlayer = types.Machine
	g, srv := newHTTPGame(t, cfg)
	srv.FailNext(2, 503)
	srv.QueueMove("connect4", oracle.MoveResponse{Column: 0})

	// When
	require.NoError(t, g.Connect())

	// Then
	waitFor(t, g, func(engine.State) bool { return g.LastError() != nil }, "failure reported")
	assert.ErrorIs(t, g.LastError(), oracle.ErrRequestFailure)
	assert.Equal(t, engine.AwaitingMachineMove, g.State().Phase.Kind)

	// When retried by hand
	require.True(t, g.RequestMachineMove())

	// Then
	waitFor(t, g, func(st engine.State) bool { return st.Phase.Kind == engine.AwaitingHumanMove }, "machine replied")
	assert.NoError(t, g.LastError())
}

func TestGameSettings(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.Autoplay = false
	g, srv := newHTTPGame(t, cfg)
	srv.QueueMove("connect4", oracle.MoveResponse{Column: 6})
	require.NoError(t, g.Connect())

	g.SetSearchDepth(2)
	g.SetStartingPlayer(types.Machine)
	assert.Equal(t, 2, g.SearchDepth())
	assert.False(t, g.Autoplay())

	require.True(t, g.PlayMove(types.Placement{Column: 0}))
	g.SetAutoplay(true)

	waitFor(t, g, func(st engine.State) bool { return st.Phase.Kind == engine.AwaitingHumanMove }, "machine replied")
	reqs := srv.MoveRequests("connect4")
	require.Len(t, reqs, 1)
	assert.Equal(t, 2, reqs[0].SearchDepth)

	g.Reset()
	st := g.State()
	assert.Equal(t, 0, st.Board.Len())
	assert.Equal(t, types.Machine, st.StartingPlayer)
	assert.Contains(t, []engine.PhaseKind{engine.AwaitingMachineMove, engine.AwaitingHumanMove}, st.Phase.Kind)
}
