// Package cache memoizes oracle replies by board position.
//
// Both oracle calls are pure functions of the placements (and the search
// depth for moves), so a reply can be reused whenever the same position is
// asked about again, typically after a reset replays an opening.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"boardbot/oracle"
	"boardbot/types"
)

// Backend stores encoded replies.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Oracle wraps another Oracle and serves repeated positions from a Backend.
// Backend failures are logged and fall through to the wrapped Oracle.
type Oracle struct {
	next    oracle.Oracle
	backend Backend
	log     *zap.SugaredLogger
}

// New creates a caching decorator around next.
func New(next oracle.Oracle, backend Backend, log *zap.SugaredLogger) *Oracle {
	return &Oracle{next: next, backend: backend, log: log}
}

type cachedMove struct {
	Placement types.Placement `json:"placement"`
	IsWin     bool            `json:"isWin"`
}

type cachedOutcome struct {
	IsOver      bool              `json:"isOver"`
	Winner      types.Winner      `json:"winner"`
	WinningLine []types.Placement `json:"winningLine"`
}

// RequestMachineMove returns a cached move for this position and depth, or asks next.
func (o *Oracle) RequestMachineMove(ctx context.Context, v types.Variant, b types.Board, depth int) (oracle.Move, error) {
	key := Key("move", v, b, depth)
	var hit cachedMove
	if o.lookup(ctx, key, &hit) {
		return oracle.Move{Placement: hit.Placement, IsWinningMove: hit.IsWin}, nil
	}
	mv, err := o.next.RequestMachineMove(ctx, v, b, depth)
	if err != nil {
		return mv, err
	}
	o.store(ctx, key, cachedMove{Placement: mv.Placement, IsWin: mv.IsWinningMove})
	return mv, nil
}

// RequestOutcome returns a cached verdict for this position, or asks next.
func (o *Oracle) RequestOutcome(ctx context.Context, v types.Variant, b types.Board) (oracle.Outcome, error) {
	key := Key("outcome", v, b, 0)
	var hit cachedOutcome
	if o.lookup(ctx, key, &hit) {
		return oracle.Outcome{IsOver: hit.IsOver, Winner: hit.Winner, WinningLine: hit.WinningLine}, nil
	}
	out, err := o.next.RequestOutcome(ctx, v, b)
	if err != nil {
		return out, err
	}
	o.store(ctx, key, cachedOutcome{IsOver: out.IsOver, Winner: out.Winner, WinningLine: out.WinningLine})
	return out, nil
}

// Close releases the backend.
func (o *Oracle) Close() error {
	return o.backend.Close()
}

func (o *Oracle) lookup(ctx context.Context, key string, into interface{}) bool {
	raw, ok, err := o.backend.Get(ctx, key)
	if err != nil {
		o.log.Warnw("cache read failed", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, into); err != nil {
		o.log.Warnw("cache entry unreadable", "key", key, "error", err)
		return false
	}
	o.log.Debugw("cache hit", "key", key)
	return true
}

func (o *Oracle) store(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		o.log.Warnw("cache encode failed", "key", key, "error", err)
		return
	}
	if err := o.backend.Set(ctx, key, raw); err != nil {
		o.log.Warnw("cache write failed", "key", key, "error", err)
	}
}

// Key derives a stable cache key for a position. Play order does not matter,
// only which cells each owner holds.
func Key(kind string, v types.Variant, b types.Board, depth int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s|%s|%d|", kind, v.Name, depth)
	writeCells(&sb, b.Placements(types.Human))
	sb.WriteByte('|')
	writeCells(&sb, b.Placements(types.Machine))
	sum := sha256.Sum256([]byte(sb.String()))
	return kind + ":" + v.Name + ":" + hex.EncodeToString(sum[:16])
}

func writeCells(sb *strings.Builder, cells []types.Placement) {
	sorted := append([]types.Placement(nil), cells...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Row != sorted[j].Row {
			return sorted[i].Row < sorted[j].Row
		}
		return sorted[i].Column < sorted[j].Column
	})
	for _, c := range sorted {
		fmt.Fprintf(sb, "%d.%d;", c.Row, c.Column)
	}
}
