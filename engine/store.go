package engine

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"boardbot/board"
	"boardbot/oracle"
	"boardbot/types"
)

var (
	// ErrInvalidTransition is an intent the current phase does not accept.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrIllegalPlacement is a target that is off the board, full or occupied.
	ErrIllegalPlacement = errors.New("illegal placement")
	// ErrStaleTicket is a reply meant for an earlier phase entry.
	ErrStaleTicket = errors.New("stale ticket")
)

// Ticket identifies one phase entry. Generation changes on every reset and
// Seq on every transition, so a reply carrying an old ticket cannot be
// applied twice or to a later game.
type Ticket struct {
	Generation uint64
	Seq        uint64
}

func (t Ticket) String() string {
	return fmt.Sprintf("%d.%d", t.Generation, t.Seq)
}

// State is an immutable snapshot of the store.
type State struct {
	Ticket         Ticket
	Phase          Phase
	Board          types.Board
	Variant        types.Variant
	StartingPlayer types.Owner
	// Highlight is the winning line, or the last machine move while no win exists.
	Highlight []types.Placement
}

// Store owns the board and the phase. Every mutation goes through one of its
// intent methods, which run to completion under the lock and notify
// listeners after releasing it.
//
// Intents the current phase forbids are no-ops: they are logged and reported
// as not applied, never returned as errors.
type Store struct {
	mu             sync.Mutex
	variant        types.Variant
	startingPlayer types.Owner
	phase          Phase
	board          types.Board
	highlight      []types.Placement
	generation     uint64
	seq            uint64

	listeners []func(State)
	log       *zap.SugaredLogger
}

// NewStore creates a store in the NotStarted phase.
func NewStore(v types.Variant, startingPlayer types.Owner, log *zap.SugaredLogger) *Store {
	return &Store{
		variant:        v,
		startingPlayer: startingPlayer,
		board:          types.NewBoard(),
		log:            log,
	}
}

// OnChange registers a callback run after every applied intent.
// Callbacks must not be registered while intents are in progress.
func (s *Store) OnChange(fn func(State)) {
	s.listeners = append(s.listeners, fn)
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Start leaves NotStarted for the starting player's turn.
func (s *Store) Start() bool {
	return s.apply("start", func() error {
		return s.transition(beginEvent(s.startingPlayer), types.WinnerNone)
	})
}

// SubmitHumanPlacement plays the human's piece. On gravity boards only
// target.Column is used.
func (s *Store) SubmitHumanPlacement(target types.Placement) bool {
	return s.apply("human placement", func() error {
		if s.phase.Kind != AwaitingHumanMove {
			return fmt.Errorf("%w: human placement during %s", ErrInvalidTransition, s.phase)
		}
		cell, ok := board.Resolve(target, s.board.All(), s.variant)
		if !ok {
			return fmt.Errorf("%w: %v", ErrIllegalPlacement, target)
		}
		return s.place(types.Human, cell, false)
	})
}

// ReceiveMachineMove applies the oracle's placement for the phase entry t.
// A winning move ends the game at once.
func (s *Store) ReceiveMachineMove(t Ticket, p types.Placement, isWinningMove bool) bool {
	return s.apply("machine move", func() error {
		if err := s.checkTicket(t); err != nil {
			return err
		}
		if s.phase.Kind != AwaitingMachineMove {
			return fmt.Errorf("%w: machine move during %s", ErrInvalidTransition, s.phase)
		}
		cell, ok := board.Resolve(p, s.board.All(), s.variant)
		if !ok || cell != p {
			return fmt.Errorf("%w: machine %v", ErrIllegalPlacement, p)
		}
		return s.place(types.Machine, cell, isWinningMove)
	})
}

// ReceiveOutcome applies the oracle's verdict for the phase entry t.
func (s *Store) ReceiveOutcome(t Ticket, o oracle.Outcome) bool {
	return s.apply("outcome", func() error {
		if err := s.checkTicket(t); err != nil {
			return err
		}
		mover, ok := s.phase.TurnOwner()
		if !ok || !s.phase.IsResolving() {
			return fmt.Errorf("%w: outcome during %s", ErrInvalidTransition, s.phase)
		}
		if o.IsOver {
			winner := o.Winner
			if winner == types.WinnerNone {
				winner = types.WinnerOf(mover)
			}
			if err := s.transition(evFinish, winner); err != nil {
				return err
			}
			if len(o.WinningLine) > 0 {
				s.highlight = append([]types.Placement(nil), o.WinningLine...)
			}
			return nil
		}
		if board.IsBoardFull(s.board.All(), s.variant) {
			return s.transition(evFinish, types.WinnerDraw)
		}
		return s.transition(evContinue, types.WinnerNone)
	})
}

// RefineHighlight replaces the fallback highlight of a machine win with the
// full winning line. It does not change the phase.
func (s *Store) RefineHighlight(t Ticket, line []types.Placement) bool {
	return s.apply("refine highlight", func() error {
		if err := s.checkTicket(t); err != nil {
			return err
		}
		if s.phase.Kind != Over || s.phase.Winner != types.WinnerMachine || len(line) == 0 {
			return fmt.Errorf("%w: highlight during %s", ErrInvalidTransition, s.phase)
		}
		s.highlight = append([]types.Placement(nil), line...)
		return nil
	})
}

// Reset clears the board from any phase, invalidates outstanding tickets and
// starts a new game with the current starting player.
func (s *Store) Reset() {
	s.apply("reset", func() error {
		s.generation++
		s.seq = 0
		s.board = types.NewBoard()
		s.highlight = nil
		s.phase = Phase{Kind: NotStarted}
		return s.transition(beginEvent(s.startingPlayer), types.WinnerNone)
	})
}

// SetStartingPlayer records who opens the next game. Once a game has started
// the change only takes effect on the next Reset.
func (s *Store) SetStartingPlayer(o types.Owner) {
	s.apply("set starting player", func() error {
		s.startingPlayer = o
		if s.phase.Kind != NotStarted {
			s.log.Infow("starting player applies from the next game", "starting_player", o.String(), "phase", s.phase.String())
		}
		return nil
	})
}

// apply runs fn under the lock, then either notifies listeners or logs why
// the intent was ignored.
func (s *Store) apply(intent string, fn func() error) bool {
	s.mu.Lock()
	err := fn()
	st := s.snapshotLocked()
	s.mu.Unlock()

	if err != nil {
		s.log.Debugw("intent ignored", "intent", intent, "phase", st.Phase.String(), "ticket", st.Ticket.String(), "error", err)
		return false
	}
	s.log.Debugw("intent applied", "intent", intent, "phase", st.Phase.String(), "ticket", st.Ticket.String())
	for _, notify := range s.listeners {
		notify(st)
	}
	return true
}

// place records a piece for owner and moves to the matching phase.
// Must be called while holding the lock, with the phase already checked.
func (s *Store) place(owner types.Owner, cell types.Placement, isWinningMove bool) error {
	nextBoard := s.board.With(owner, cell)

	ev, winner := evPlace, types.WinnerNone
	switch {
	case isWinningMove:
		ev, winner = evFinish, types.WinnerOf(owner)
	case nextBoard.Count(owner) >= s.variant.WinLength:
		ev = evPlaceAndCheck
	case board.IsBoardFull(nextBoard.All(), s.variant):
		ev, winner = evFinish, types.WinnerDraw
	}

	to, err := next(s.phase, ev, winner)
	if err != nil {
		return err
	}
	s.board = nextBoard
	if owner == types.Machine {
		s.highlight = []types.Placement{cell}
	}
	s.commit(to)
	return nil
}

// transition moves along the table. Must be called while holding the lock.
func (s *Store) transition(ev event, winner types.Winner) error {
	to, err := next(s.phase, ev, winner)
	if err != nil {
		return err
	}
	s.commit(to)
	return nil
}

func (s *Store) commit(to Phase) {
	s.phase = to
	s.seq++
}

func (s *Store) checkTicket(t Ticket) error {
	if t != s.ticketLocked() {
		return fmt.Errorf("%w: got %s, current %s", ErrStaleTicket, t, s.ticketLocked())
	}
	return nil
}

func (s *Store) ticketLocked() Ticket {
	return Ticket{Generation: s.generation, Seq: s.seq}
}

func (s *Store) snapshotLocked() State {
	return State{
		Ticket:         s.ticketLocked(),
		Phase:          s.phase,
		Board:          s.board,
		Variant:        s.variant,
		StartingPlayer: s.startingPlayer,
		Highlight:      append([]types.Placement(nil), s.highlight...),
	}
}
