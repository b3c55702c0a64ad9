// Package oracle talks to the remote service that picks machine moves and
// decides whether a game is over.
package oracle

import (
	"context"
	"errors"
	"fmt"

	"boardbot/board"
	"boardbot/types"
)

// ErrRequestFailure wraps every network, status and decoding failure, as well
// as replies that cannot be applied to the board they were asked about.
var ErrRequestFailure = errors.New("oracle request failed")

// Move is a normalized machine move.
type Move struct {
	Placement     types.Placement
	IsWinningMove bool
}

// Outcome is a normalized game-over verdict.
type Outcome struct {
	IsOver      bool
	Winner      types.Winner
	WinningLine []types.Placement
}

// Oracle defines the two calls the game needs from the remote service.
// Both block until the service answers or ctx is done, and neither mutates
// the board passed in.
type Oracle interface {
	// RequestMachineMove asks for the machine's next placement on b.
	RequestMachineMove(ctx context.Context, v types.Variant, b types.Board, depth int) (Move, error)

	// RequestOutcome asks whether b is a finished game.
	RequestOutcome(ctx context.Context, v types.Variant, b types.Board) (Outcome, error)
}

// MoveRequest is the body of POST <variant>.
type MoveRequest struct {
	HumanPlacements   []types.Placement `json:"humanPlacements"`
	MachinePlacements []types.Placement `json:"machinePlacements"`
	SearchDepth       int               `json:"searchDepth"`
}

// MoveResponse is the reply to POST <variant>.
type MoveResponse struct {
	Row    int  `json:"row"`
	Column int  `json:"column"`
	IsWin  bool `json:"isWin"`
}

// OutcomeRequest is the body of POST <variant>/game_over.
type OutcomeRequest struct {
	HumanPlacements   []types.Placement `json:"humanPlacements"`
	MachinePlacements []types.Placement `json:"machinePlacements"`
}

// OutcomeResponse is the reply to POST <variant>/game_over.
type OutcomeResponse struct {
	IsOver           bool              `json:"isOver"`
	AIWins           bool              `json:"aiWins"`
	WinningLocations []types.Placement `json:"winningLocations"`
}

// NewMoveRequest builds the move request body for b.
func NewMoveRequest(b types.Board, depth int) MoveRequest {
	return MoveRequest{
		HumanPlacements:   b.Placements(types.Human),
		MachinePlacements: b.Placements(types.Machine),
		SearchDepth:       depth,
	}
}

// NewOutcomeRequest builds the game-over request body for b.
func NewOutcomeRequest(b types.Board) OutcomeRequest {
	return OutcomeRequest{
		HumanPlacements:   b.Placements(types.Human),
		MachinePlacements: b.Placements(types.Machine),
	}
}

// NormalizeMove turns a raw reply into a placement that is legal on b.
// Gravity boards only trust the column and derive the landing row locally.
func NormalizeMove(v types.Variant, b types.Board, resp MoveResponse) (Move, error) {
	target := types.Placement{Row: resp.Row, Column: resp.Column}
	cell, ok := board.Resolve(target, b.All(), v)
	if !ok {
		return Move{}, fmt.Errorf("%w: %s reply %v is not playable", ErrRequestFailure, v.Name, target)
	}
	return Move{Placement: cell, IsWinningMove: resp.IsWin}, nil
}

// NormalizeOutcome maps the service's verdict onto a Winner.
// A finished game with no winning line and no machine win is a draw.
func NormalizeOutcome(v types.Variant, resp OutcomeResponse) (Outcome, error) {
	if !resp.IsOver {
		return Outcome{}, nil
	}
	for _, p := range resp.WinningLocations {
		if !board.InBounds(p, v) {
			return Outcome{}, fmt.Errorf("%w: winning location %v out of bounds", ErrRequestFailure, p)
		}
	}
	out := Outcome{IsOver: true, WinningLine: resp.WinningLocations}
	switch {
	case resp.AIWins:
		out.Winner = types.WinnerMachine
	case len(resp.WinningLocations) > 0:
		out.Winner = types.WinnerHuman
	default:
		out.Winner = types.WinnerDraw
	}
	return out, nil
}
