package engine

import (
	"fmt"

	"boardbot/types"
)

type event int

const (
	evBeginHuman event = iota
	evBeginMachine
	// evPlace records a placement below the win threshold.
	evPlace
	// evPlaceAndCheck records a placement that needs an outcome check.
	evPlaceAndCheck
	// evContinue hands the turn over after a negative outcome check.
	evContinue
	evFinish
)

func (e event) String() string {
	switch e {
	case evBeginHuman:
		return "begin_human"
	case evBeginMachine:
		return "begin_machine"
	case evPlace:
		return "place"
	case evPlaceAndCheck:
		return "place_and_check"
	case evContinue:
		return "continue"
	case evFinish:
		return "finish"
	}
	return fmt.Sprintf("event(%d)", int(e))
}

type transitionKey struct {
	from PhaseKind
	ev   event
}

// transitions is the complete phase machine. Reset is handled separately
// because it is legal from every phase.
var transitions = map[transitionKey]PhaseKind{
	{NotStarted, evBeginHuman}:   AwaitingHumanMove,
	{NotStarted, evBeginMachine}: AwaitingMachineMove,

	{AwaitingHumanMove, evPlace}:         AwaitingMachineMove,
	{AwaitingHumanMove, evPlaceAndCheck}: ResolvingHumanMove,
	{AwaitingHumanMove, evFinish}:        Over,
	{ResolvingHumanMove, evContinue}:     AwaitingMachineMove,
	{ResolvingHumanMove, evFinish}:       Over,

	{AwaitingMachineMove, evPlace}:         AwaitingHumanMove,
	{AwaitingMachineMove, evPlaceAndCheck}: ResolvingMachineMove,
	{AwaitingMachineMove, evFinish}:        Over,
	{ResolvingMachineMove, evContinue}:     AwaitingHumanMove,
	{ResolvingMachineMove, evFinish}:       Over,
}

// next looks up the phase reached from p on ev. winner is used only when the
// result is Over.
func next(p Phase, ev event, winner types.Winner) (Phase, error) {
	to, ok := transitions[transitionKey{p.Kind, ev}]
	if !ok {
		return p, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, p)
	}
	if to == Over {
		return Phase{Kind: Over, Winner: winner}, nil
	}
	return Phase{Kind: to}, nil
}

func beginEvent(o types.Owner) event {
	if o == types.Machine {
		return evBeginMachine
	}
	return evBeginHuman
}
