package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"boardbot/oracle"
	"boardbot/types"
)

const (
	MinSearchDepth = 1
	MaxSearchDepth = 8
)

// SchedulerConfig holds the live settings of a Scheduler.
type SchedulerConfig struct {
	Autoplay    bool
	SearchDepth int
	// FetchWinningLine asks for the full line after the oracle reports a
	// winning machine move.
	FetchWinningLine bool
}

// Scheduler watches the store and issues oracle requests.
//
// At most one request is issued per phase entry (Ticket). Outcome checks run
// automatically; machine moves run automatically only with autoplay on and
// otherwise wait for Trigger. A failed request leaves the phase untouched so
// Trigger can retry it.
type Scheduler struct {
	store            *Store
	oracle           oracle.Oracle
	log              *zap.SugaredLogger
	group            singleflight.Group
	fetchWinningLine bool

	base context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	mu        sync.Mutex
	autoplay  bool
	depth     int
	busy      bool
	inflight  Ticket
	issued    Ticket
	runCtx    context.Context
	cancel    context.CancelFunc
	lastErr   error
	errTicket Ticket
	closed    bool

	listeners []func()
}

// NewScheduler subscribes to store. Requests go to o.
func NewScheduler(store *Store, o oracle.Oracle, cfg SchedulerConfig, log *zap.SugaredLogger) *Scheduler {
	base, stop := context.WithCancel(context.Background())
	s := &Scheduler{
		store:            store,
		oracle:           o,
		log:              log,
		fetchWinningLine: cfg.FetchWinningLine,
		base:             base,
		stop:             stop,
		autoplay:         cfg.Autoplay,
		depth:            clampDepth(cfg.SearchDepth),
	}
	store.OnChange(func(State) {
		s.evaluate(false)
	})
	return s
}

// OnChange registers a callback run when loading, error or settings change.
func (s *Scheduler) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Trigger requests the machine move by hand, or retries a failed request for
// the current phase entry. It reports whether a request was started or joined.
func (s *Scheduler) Trigger() bool {
	return s.evaluate(true)
}

// SetAutoplay switches automatic machine moves. Turning it on while the
// machine is to move issues the request unless one was already issued for
// this phase entry.
func (s *Scheduler) SetAutoplay(on bool) {
	s.mu.Lock()
	changed := s.autoplay != on
	s.autoplay = on
	s.mu.Unlock()

	if changed {
		s.log.Infow("autoplay changed", "autoplay", on)
		s.notify()
	}
	if on {
		s.evaluate(false)
	}
}

// Autoplay reports whether machine moves are requested automatically.
func (s *Scheduler) Autoplay() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoplay
}

// SetSearchDepth changes the depth sent with the next move request.
func (s *Scheduler) SetSearchDepth(depth int) {
	s.mu.Lock()
	s.depth = clampDepth(depth)
	s.mu.Unlock()
	s.notify()
}

// SearchDepth returns the depth sent with move requests.
func (s *Scheduler) SearchDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.depth
}

// Loading reports whether a request is in flight.
func (s *Scheduler) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// LastError returns the failure of the last request issued for the current
// phase entry, if any.
func (s *Scheduler) LastError() error {
	current := s.store.Snapshot().Ticket
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastErr != nil && s.errTicket == current {
		return s.lastErr
	}
	return nil
}

// Close cancels any request in flight and waits for it to return.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.stop()
	s.wg.Wait()
}

// evaluate decides whether the current phase entry needs a request and, if
// so, starts it on a new goroutine.
func (s *Scheduler) evaluate(manual bool) bool {
	st := s.store.Snapshot()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	if s.busy && s.inflight.Generation != st.Ticket.Generation {
		// The game was reset under a running request.
		s.log.Debugw("dropping request from previous game", "ticket", s.inflight.String())
		s.cancel()
		s.busy = false
	}
	if !s.wants(st, manual) {
		s.mu.Unlock()
		return false
	}

	joining := s.busy && s.inflight == st.Ticket
	if joining && !manual {
		s.mu.Unlock()
		return false
	}
	if !joining {
		if s.issued == st.Ticket && !manual {
			s.mu.Unlock()
			return false
		}
		if s.busy {
			s.cancel()
		}
		s.runCtx, s.cancel = context.WithCancel(s.base)
		s.busy = true
		s.inflight = st.Ticket
		s.issued = st.Ticket
		s.lastErr = nil
	}
	ctx := s.runCtx
	s.wg.Add(1)
	s.mu.Unlock()

	if !joining {
		s.log.Debugw("request issued", "phase", st.Phase.String(), "ticket", st.Ticket.String(), "manual", manual)
		s.notify()
	}

	go func() {
		defer s.wg.Done()
		_, err, _ := s.group.Do(st.Ticket.String(), func() (interface{}, error) {
			return nil, s.run(ctx, st)
		})
		s.finish(st.Ticket, err)
	}()
	return true
}

// wants reports whether st calls for a request. Must be called while holding the lock.
func (s *Scheduler) wants(st State, manual bool) bool {
	switch st.Phase.Kind {
	case AwaitingMachineMove:
		return s.autoplay || manual
	case ResolvingHumanMove, ResolvingMachineMove:
		return true
	case Over:
		return !manual && s.fetchWinningLine &&
			st.Phase.Winner == types.WinnerMachine && len(st.Highlight) <= 1
	}
	return false
}

func (s *Scheduler) run(ctx context.Context, st State) error {
	// A joined retry may arrive after the first attempt already succeeded.
	if s.store.Snapshot().Ticket != st.Ticket {
		return nil
	}

	switch st.Phase.Kind {
	case AwaitingMachineMove:
		mv, err := s.oracle.RequestMachineMove(ctx, st.Variant, st.Board, s.SearchDepth())
		if err != nil {
			return err
		}
		if !s.store.ReceiveMachineMove(st.Ticket, mv.Placement, mv.IsWinningMove) {
			if s.store.Snapshot().Ticket.Generation != st.Ticket.Generation {
				return nil
			}
			return fmt.Errorf("%w: unplayable machine move %v", oracle.ErrRequestFailure, mv.Placement)
		}

	case ResolvingHumanMove, ResolvingMachineMove:
		out, err := s.oracle.RequestOutcome(ctx, st.Variant, st.Board)
		if err != nil {
			return err
		}
		s.store.ReceiveOutcome(st.Ticket, out)

	case Over:
		out, err := s.oracle.RequestOutcome(ctx, st.Variant, st.Board)
		if err != nil {
			s.log.Warnw("winning line unavailable", "ticket", st.Ticket.String(), "error", err)
			return nil
		}
		if out.IsOver && len(out.WinningLine) > 0 {
			s.store.RefineHighlight(st.Ticket, out.WinningLine)
		}
	}
	return nil
}

// finish clears the loading state of the request for t and records its error.
func (s *Scheduler) finish(t Ticket, err error) {
	s.mu.Lock()
	if !s.busy || s.inflight != t {
		s.mu.Unlock()
		return
	}
	s.busy = false
	s.cancel()
	if err != nil && !errors.Is(s.base.Err(), context.Canceled) {
		s.lastErr = err
		s.errTicket = t
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Errorw("request failed", "ticket", t.String(), "error", err)
	}
	s.notify()
}

func (s *Scheduler) notify() {
	s.mu.Lock()
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

func clampDepth(depth int) int {
	if depth < MinSearchDepth {
		return MinSearchDepth
	}
	if depth > MaxSearchDepth {
		return MaxSearchDepth
	}
	return depth
}
