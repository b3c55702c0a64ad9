// Package types contains shared data structures for boardbot.
package types

import "fmt"

// Placement is a single occupied cell.
// For gravity boards row 0 is the bottom row, for free boards it is the top row.
type Placement struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

func (p Placement) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Column)
}

// Owner is the player holding a placement.
type Owner int

const (
	Human Owner = iota + 1
	Machine
)

// Other returns the opposing owner.
func (o Owner) Other() Owner {
	if o == Human {
		return Machine
	}
	return Human
}

func (o Owner) String() string {
	switch o {
	case Human:
		return "human"
	case Machine:
		return "machine"
	}
	return "unknown"
}

// ParseOwner accepts "human"/"machine" and the short forms used on the command line.
func ParseOwner(s string) (Owner, error) {
	switch s {
	case "human", "h", "user", "you":
		return Human, nil
	case "machine", "m", "ai", "bot":
		return Machine, nil
	}
	return 0, fmt.Errorf("unknown player %q", s)
}

// Winner is the result of a finished game.
type Winner int

const (
	WinnerNone Winner = iota
	WinnerHuman
	WinnerMachine
	WinnerDraw
)

func (w Winner) String() string {
	switch w {
	case WinnerHuman:
		return "human"
	case WinnerMachine:
		return "machine"
	case WinnerDraw:
		return "draw"
	}
	return "none"
}

// WinnerOf maps an owner to the matching winner.
func WinnerOf(o Owner) Winner {
	if o == Machine {
		return WinnerMachine
	}
	return WinnerHuman
}

// Variant describes the geometry and rules of a supported game.
type Variant struct {
	Name      string
	Title     string
	Rows      int
	Columns   int
	WinLength int
	Gravity   bool
	// Path is the oracle endpoint segment for this variant.
	Path string
}

var (
	ConnectFour = Variant{
		Name:      "connect4",
		Title:     "Connect Four",
		Rows:      6,
		Columns:   7,
		WinLength: 4,
		Gravity:   true,
		Path:      "connect4",
	}
	Gomoku = Variant{
		Name:      "gomoku",
		Title:     "Gomoku",
		Rows:      13,
		Columns:   13,
		WinLength: 5,
		Gravity:   false,
		Path:      "gomoku",
	}
)

// Variants lists every playable variant in menu order.
var Variants = []Variant{ConnectFour, Gomoku}

// VariantByName looks up a variant by its Name.
func VariantByName(name string) (Variant, bool) {
	for _, v := range Variants {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}

// Cells returns the number of cells on the board.
func (v Variant) Cells() int {
	return v.Rows * v.Columns
}

// Move is a placement together with its owner.
type Move struct {
	Owner     Owner
	Placement Placement
}

// Board is the ordered list of moves played so far.
// Board values are immutable; With returns a new Board.
type Board struct {
	moves []Move
}

// NewBoard creates a board from moves in play order.
func NewBoard(moves ...Move) Board {
	b := Board{moves: make([]Move, len(moves))}
	copy(b.moves, moves)
	return b
}

// With returns a copy of the board with one more move appended.
func (b Board) With(o Owner, p Placement) Board {
	moves := make([]Move, len(b.moves), len(b.moves)+1)
	copy(moves, b.moves)
	return Board{moves: append(moves, Move{Owner: o, Placement: p})}
}

// Moves returns the moves in play order.
func (b Board) Moves() []Move {
	out := make([]Move, len(b.moves))
	copy(out, b.moves)
	return out
}

// Len returns the number of placements on the board.
func (b Board) Len() int {
	return len(b.moves)
}

// All returns every placement regardless of owner.
func (b Board) All() []Placement {
	out := make([]Placement, len(b.moves))
	for i, m := range b.moves {
		out[i] = m.Placement
	}
	return out
}

// Placements returns the placements held by o in play order.
func (b Board) Placements(o Owner) []Placement {
	out := []Placement{}
	for _, m := range b.moves {
		if m.Owner == o {
			out = append(out, m.Placement)
		}
	}
	return out
}

// Count returns how many placements o holds.
func (b Board) Count(o Owner) int {
	n := 0
	for _, m := range b.moves {
		if m.Owner == o {
			n++
		}
	}
	return n
}

// OwnerAt reports who holds the cell p, if anyone.
func (b Board) OwnerAt(p Placement) (Owner, bool) {
	for _, m := range b.moves {
		if m.Placement == p {
			return m.Owner, true
		}
	}
	return 0, false
}

// Last returns the most recent move held by o.
func (b Board) Last(o Owner) (Placement, bool) {
	for i := len(b.moves) - 1; i >= 0; i-- {
		if b.moves[i].Owner == o {
			return b.moves[i].Placement, true
		}
	}
	return Placement{}, false
}
