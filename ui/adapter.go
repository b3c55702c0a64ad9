package ui

import (
	"fmt"

	"boardbot/board"
	"boardbot/engine"
	"boardbot/types"
)

// CellContent is what a single cell shows.
type CellContent int

const (
	CellEmpty CellContent = iota
	CellHuman
	CellMachine
)

// CellContents returns the grid for b indexed as [row][column] in board
// coordinates.
func CellContents(b types.Board, v types.Variant) [][]CellContent {
	grid := make([][]CellContent, v.Rows)
	for r := range grid {
		grid[r] = make([]CellContent, v.Columns)
	}
	for _, m := range b.Moves() {
		if !board.InBounds(m.Placement, v) {
			continue
		}
		c := CellHuman
		if m.Owner == types.Machine {
			c = CellMachine
		}
		grid[m.Placement.Row][m.Placement.Column] = c
	}
	return grid
}

// IsInteractive reports whether the board accepts the human's placement.
// Pending outcome checks count as not interactive.
func IsInteractive(p engine.Phase) bool {
	return p.Kind == engine.AwaitingHumanMove
}

// HoverPreview returns the cell a placement at target would occupy, or false
// when nothing should be previewed.
func HoverPreview(st engine.State, target types.Placement) (types.Placement, bool) {
	if !IsInteractive(st.Phase) {
		return types.Placement{}, false
	}
	return board.Resolve(target, st.Board.All(), st.Variant)
}

// IsHighlighted reports whether cell belongs to the winning line or is the
// machine's last move.
func IsHighlighted(st engine.State, cell types.Placement) bool {
	for _, p := range st.Highlight {
		if p == cell {
			return true
		}
	}
	return false
}

// MoveEntry is one line of the move list.
type MoveEntry struct {
	Number   int
	Owner    types.Owner
	Notation string
}

// MoveList renders the board's moves in play order.
func MoveList(b types.Board, v types.Variant) []MoveEntry {
	moves := b.Moves()
	out := make([]MoveEntry, len(moves))
	for i, m := range moves {
		out[i] = MoveEntry{Number: i + 1, Owner: m.Owner, Notation: board.Notation(m.Placement, v)}
	}
	return out
}

// StatusText describes the phase for the status bar.
func StatusText(st engine.State, loading bool, err error) string {
	switch {
	case err != nil:
		return fmt.Sprintf("Oracle error: %s (m to retry)", err)
	case st.Phase.Kind == engine.NotStarted:
		return "Not started"
	case st.Phase.Kind == engine.AwaitingHumanMove:
		return "Your move"
	case st.Phase.IsResolving():
		return "Checking the board..."
	case st.Phase.Kind == engine.AwaitingMachineMove && loading:
		return "Machine is thinking..."
	case st.Phase.Kind == engine.AwaitingMachineMove:
		return "Machine to move (m to request)"
	}
	switch st.Phase.Winner {
	case types.WinnerHuman:
		return "You win!"
	case types.WinnerMachine:
		return "Machine wins"
	case types.WinnerDraw:
		return "Draw"
	}
	return st.Phase.String()
}

// Selection is the cursor over the board. It is local UI state only.
// On gravity boards only Column matters.
type Selection struct {
	Row    int
	Column int
	active bool
}

// Active reports whether a cell is selected.
func (s *Selection) Active() bool {
	return s.active
}

// Reset hides the cursor.
func (s *Selection) Reset() {
	s.active = false
}

// Move shifts the cursor by dx columns and dy screen rows. The first move
// only shows the cursor, near the last move if any or in the middle.
func (s *Selection) Move(dx, dy int, st engine.State) {
	v := st.Variant
	if !s.active {
		s.active = true
		s.Row, s.Column = v.Rows/2, v.Columns/2
		if moves := st.Board.Moves(); len(moves) > 0 {
			last := moves[len(moves)-1].Placement
			s.Row, s.Column = last.Row, last.Column
		}
		return
	}
	if c := s.Column + dx; c >= 0 && c < v.Columns {
		s.Column = c
	}
	if v.Gravity {
		return
	}
	screen := board.ScreenRow(s.Row, v) + dy
	if screen >= 0 && screen < v.Rows {
		s.Row = board.BoardRow(screen, v)
	}
}

// Target returns the placement the cursor points at.
func (s *Selection) Target() (types.Placement, bool) {
	if !s.active {
		return types.Placement{}, false
	}
	return types.Placement{Row: s.Row, Column: s.Column}, true
}
