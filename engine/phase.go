package engine

import (
	"fmt"

	"boardbot/types"
)

// PhaseKind enumerates the stages of a game.
type PhaseKind int

const (
	NotStarted PhaseKind = iota
	// AwaitingHumanMove accepts the next human placement.
	AwaitingHumanMove
	// ResolvingHumanMove holds a recorded human placement while the outcome is checked.
	ResolvingHumanMove
	// AwaitingMachineMove waits for the oracle to pick the machine's placement.
	AwaitingMachineMove
	// ResolvingMachineMove holds a recorded machine placement while the outcome is checked.
	ResolvingMachineMove
	Over
)

func (k PhaseKind) String() string {
	switch k {
	case NotStarted:
		return "not_started"
	case AwaitingHumanMove:
		return "awaiting_human"
	case ResolvingHumanMove:
		return "resolving_human"
	case AwaitingMachineMove:
		return "awaiting_machine"
	case ResolvingMachineMove:
		return "resolving_machine"
	case Over:
		return "over"
	}
	return fmt.Sprintf("phase(%d)", int(k))
}

// Phase is the single source of truth for whose turn it is and whether the
// game has ended. Winner is only meaningful when Kind is Over.
type Phase struct {
	Kind   PhaseKind
	Winner types.Winner
}

func (p Phase) String() string {
	if p.Kind == Over {
		return fmt.Sprintf("over(%s)", p.Winner)
	}
	return p.Kind.String()
}

// TurnOwner returns the owner expected to move, if any.
func (p Phase) TurnOwner() (types.Owner, bool) {
	switch p.Kind {
	case AwaitingHumanMove, ResolvingHumanMove:
		return types.Human, true
	case AwaitingMachineMove, ResolvingMachineMove:
		return types.Machine, true
	}
	return 0, false
}

// IsOver reports whether the game has finished.
func (p Phase) IsOver() bool {
	return p.Kind == Over
}

// IsResolving reports whether an outcome check is pending.
func (p Phase) IsResolving() bool {
	return p.Kind == ResolvingHumanMove || p.Kind == ResolvingMachineMove
}
