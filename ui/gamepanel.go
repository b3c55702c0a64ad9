package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"boardbot/engine"
	"boardbot/types"
)

// GameInfoPanel displays game settings and the move list alongside the board.
type GameInfoPanel struct {
	box      *tview.TextView
	state    engine.State
	depth    int
	autoplay bool
}

// NewGameInfoPanel creates a new game info panel.
func NewGameInfoPanel() *GameInfoPanel {
	panel := &GameInfoPanel{
		box: tview.NewTextView(),
	}

	panel.box.SetDynamicColors(true)
	panel.box.SetBorder(false)
	panel.box.SetTextAlign(tview.AlignLeft)

	return panel
}

// Box returns the underlying tview component.
func (p *GameInfoPanel) Box() *tview.TextView {
	return p.box
}

// SetState updates the panel with the current game and its live settings.
func (p *GameInfoPanel) SetState(st engine.State, depth int, autoplay bool) {
	p.state = st
	p.depth = depth
	p.autoplay = autoplay
	p.box.SetText(p.render())
}

func (p *GameInfoPanel) render() string {
	st := p.state
	if st.Variant.Rows == 0 {
		return ""
	}

	var text strings.Builder

	text.WriteString("[white::b]Game Info[-:-:-]\n")
	text.WriteString("[dimgray]──────────────────────[-:-:-]\n")
	fmt.Fprintf(&text, "[white]Game:[-:-:-] %s\n", st.Variant.Title)
	fmt.Fprintf(&text, "[white]Depth:[-:-:-] %d\n", p.depth)
	auto := "off"
	if p.autoplay {
		auto = "on"
	}
	fmt.Fprintf(&text, "[white]Autoplay:[-:-:-] %s\n", auto)
	fmt.Fprintf(&text, "[white]Next first:[-:-:-] %s\n", st.StartingPlayer)
	fmt.Fprintf(&text, "[white]Move:[-:-:-] %d\n", st.Board.Len())

	moves := MoveList(st.Board, st.Variant)
	if len(moves) == 0 {
		return text.String()
	}

	text.WriteString("\n[white::b]Moves[-:-:-]\n")
	text.WriteString("[dimgray]──────────────────────[-:-:-]\n")

	// Show last N moves that fit
	maxVisible := 12
	start := 0
	if len(moves) > maxVisible {
		start = len(moves) - maxVisible
	}

	for i := start; i < len(moves); i++ {
		m := moves[i]

		who := "[yellow]You[-]"
		if m.Owner == types.Machine {
			who = "[red]AI [-]"
		}

		marker := " "
		if i == len(moves)-1 {
			marker = "[white]>[-]"
		}

		fmt.Fprintf(&text, "%s[dimgray]%3d.[-] %s %s\n", marker, m.Number, who, m.Notation)
	}

	if start > 0 {
		fmt.Fprintf(&text, "[dimgray]  ··· %d earlier[-]\n", start)
	}
	return text.String()
}

// CreateGameLayout creates the main game layout with board and side panel.
func CreateGameLayout(board *GameBoardUI, hint *tview.TextView) *tview.Flex {
	gameFrame := tview.NewFlex()
	RebuildNormalLayout(gameFrame, board, hint)
	return gameFrame
}

// CreateCenteredForm creates a centered container for the setup screen.
func CreateCenteredForm(form tview.Primitive, maxWidth, height int) *tview.Flex {
	column := tview.NewFlex().SetDirection(tview.FlexRow)
	column.AddItem(nil, 0, 1, false)
	column.AddItem(form, height, 0, true)
	column.AddItem(nil, 0, 1, false)

	centered := tview.NewFlex().SetDirection(tview.FlexColumn)
	centered.AddItem(nil, 0, 1, false)
	centered.AddItem(column, maxWidth, 0, true)
	centered.AddItem(nil, 0, 1, false)

	return centered
}

// RebuildNormalLayout restores the normal game layout with board, info panel, and hint.
func RebuildNormalLayout(gameFrame *tview.Flex, board *GameBoardUI, hint *tview.TextView) {
	gameFrame.Clear()

	infoPanel := NewGameInfoPanel()
	board.infoPanel = infoPanel
	board.refreshHint()

	// board | info panel
	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(board.Box, 0, 1, true)
	boardRow.AddItem(infoPanel.Box(), 26, 0, false)

	// Compact status bar at bottom
	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(boardRow, 0, 1, true)
	gameFrame.AddItem(hint, 4, 0, false)
}

// BuildFocusLayout builds the focus mode layout with just the centered board.
func BuildFocusLayout(gameFrame *tview.Flex, board *GameBoardUI) {
	gameFrame.Clear()
	board.infoPanel = nil

	boardWidth, boardHeight := BoardSize(types.ConnectFour)
	if v := board.State().Variant; v.Rows > 0 {
		boardWidth, boardHeight = BoardSize(v)
	}

	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(nil, 0, 1, false)

	centerRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	centerRow.AddItem(nil, 0, 1, false)
	centerRow.AddItem(board.Box, boardWidth, 0, true)
	centerRow.AddItem(nil, 0, 1, false)

	gameFrame.AddItem(centerRow, boardHeight, 0, true)
	gameFrame.AddItem(nil, 0, 1, false)
}
