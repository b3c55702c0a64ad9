// Package engine runs a game between the human and the oracle.
package engine

import "boardbot/types"

// GameEngine defines the interface the UI uses to play a game.
type GameEngine interface {
	// Connect starts the game.
	Connect() error

	// State returns the current game state.
	State() State

	// PlayMove submits the human's placement. On gravity boards only the
	// column is used. Returns false if the placement was ignored.
	PlayMove(target types.Placement) bool

	// RequestMachineMove asks the oracle for the machine's move by hand, or
	// retries the last failed request.
	RequestMachineMove() bool

	// Reset clears the board and starts over.
	Reset()

	SetAutoplay(on bool)
	Autoplay() bool
	SetSearchDepth(depth int)
	SearchDepth() int

	// SetStartingPlayer chooses who opens the next game.
	SetStartingPlayer(o types.Owner)

	// Loading returns true while an oracle request is in flight.
	Loading() bool

	// LastError returns the failure of the current phase's request, if any.
	LastError() error

	// OnChange registers a callback for any change of state, loading or error.
	OnChange(func(State))

	// Close stops outstanding requests.
	Close()
}

// GameConfig holds configuration for starting a new game.
type GameConfig struct {
	Variant          types.Variant
	StartingPlayer   types.Owner
	Autoplay         bool
	SearchDepth      int // 1 to 8
	FetchWinningLine bool
}

// DefaultConfig returns a reasonable default configuration.
func DefaultConfig() GameConfig {
	return GameConfig{
		Variant:          types.ConnectFour,
		StartingPlayer:   types.Human, // Human moves first
		Autoplay:         true,
		SearchDepth:      6,
		FetchWinningLine: true,
	}
}
