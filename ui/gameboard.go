// Package ui specifies custom controls for tview to play Connect Four and
// Gomoku against the oracle in the terminal.
package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"boardbot/board"
	"boardbot/config"
	"boardbot/engine"
	"boardbot/types"
)

const (
	styleBoard = iota
	styleBoardAlt
	styleHuman
	styleMachine
	styleLine
	styleCursorFG
	styleCursorBG
	styleHighlight
)

type GameBoardUI struct {
	Box       *tview.Box
	hint      *tview.TextView
	cfg       *config.Config
	app       *tview.Application
	eng       engine.GameEngine
	styles    []tcell.Color
	infoPanel *GameInfoPanel
	focusMode bool
	selection Selection

	// Copied from the engine on the UI goroutine.
	state   engine.State
	loading bool
	lastErr error
}

// ToggleFocusMode toggles focus mode and returns the new state.
func (g *GameBoardUI) ToggleFocusMode() bool {
	g.focusMode = !g.focusMode
	g.refreshHint()
	return g.focusMode
}

// SetFocusMode sets focus mode to the given state.
func (g *GameBoardUI) SetFocusMode(enabled bool) {
	g.focusMode = enabled
	g.refreshHint()
}

func (g *GameBoardUI) IsFocusMode() bool {
	return g.focusMode
}

// HasSelection reports whether the cursor is shown.
func (g *GameBoardUI) HasSelection() bool {
	return g.selection.Active()
}

func (g *GameBoardUI) MoveSelection(h, v int) {
	if g.state.Phase.IsOver() {
		g.ResetSelection()
		return
	}
	g.selection.Move(h, v, g.state)
}

func (g *GameBoardUI) ResetSelection() {
	g.selection.Reset()
}

// State returns the last state drawn.
func (g *GameBoardUI) State() engine.State {
	return g.state
}

func NewGameBoard(app *tview.Application, c *config.Config, hint *tview.TextView) *GameBoardUI {
	gameBoard := &GameBoardUI{
		Box:  tview.NewBox(),
		hint: hint,
		app:  app,
	}
	gameBoard.SetConfig(c)
	gameBoard.Box.SetDrawFunc(func(screen tcell.Screen, x int, y int, width int, height int) (int, int, int, int) {
		v := gameBoard.state.Variant
		if v.Rows == 0 {
			return x, y, 1, 1
		}
		gameBoard.draw(screen, x, y)
		w, h := BoardSize(v)
		return x, y, w, h
	})
	return gameBoard
}

// BoardSize returns the screen cells needed to draw a board of variant v,
// including coordinates.
func BoardSize(v types.Variant) (int, int) {
	// 2 characters per cell for square appearance, plus the column marker row.
	return v.Columns*2 + 4, v.Rows + 2
}

// ConnectEngine connects the board to a game engine and starts the game.
func (g *GameBoardUI) ConnectEngine(e engine.GameEngine) error {
	g.Close()
	g.eng = e
	g.selection.Reset()

	e.OnChange(func(engine.State) {
		// Spawn goroutine to avoid deadlock when called from the main thread
		go func() {
			g.app.QueueUpdateDraw(g.sync)
		}()
	})

	if err := e.Connect(); err != nil {
		g.eng = nil
		return err
	}
	g.sync()
	return nil
}

// sync copies the engine's state. Must run on the UI goroutine.
func (g *GameBoardUI) sync() {
	if g.eng == nil {
		return
	}
	g.state = g.eng.State()
	g.loading = g.eng.Loading()
	g.lastErr = g.eng.LastError()
	if g.state.Phase.IsOver() {
		g.selection.Reset()
	}
	g.refreshHint()
}

// PlayMove places the human's piece under the cursor.
func (g *GameBoardUI) PlayMove() {
	if g.eng == nil {
		return
	}
	target, ok := g.selection.Target()
	if !ok || !IsInteractive(g.state.Phase) {
		return
	}
	g.eng.PlayMove(target)
	g.sync()
}

// RequestMachineMove asks for the machine's move, or retries a failed request.
func (g *GameBoardUI) RequestMachineMove() {
	if g.eng == nil {
		return
	}
	g.eng.RequestMachineMove()
	g.sync()
}

func (g *GameBoardUI) ToggleAutoplay() {
	if g.eng == nil {
		return
	}
	g.eng.SetAutoplay(!g.eng.Autoplay())
	g.sync()
}

// ChangeDepth moves the search depth by delta within its bounds.
func (g *GameBoardUI) ChangeDepth(delta int) {
	if g.eng == nil {
		return
	}
	g.eng.SetSearchDepth(g.eng.SearchDepth() + delta)
	g.sync()
}

// CycleStartingPlayer switches who opens the next game.
func (g *GameBoardUI) CycleStartingPlayer() {
	if g.eng == nil {
		return
	}
	g.eng.SetStartingPlayer(g.state.StartingPlayer.Other())
	g.sync()
}

// Reset clears the board and starts over.
func (g *GameBoardUI) Reset() {
	if g.eng == nil {
		return
	}
	g.selection.Reset()
	g.eng.Reset()
	g.sync()
}

// Close disconnects the engine.
func (g *GameBoardUI) Close() {
	if g.eng == nil {
		return
	}
	g.eng.Close()
	g.eng = nil
}

func (g *GameBoardUI) SetConfig(c *config.Config) {
	g.styles = []tcell.Color{
		styleBoard:     tcell.PaletteColor(c.Theme.Colors.BoardColor),
		styleBoardAlt:  tcell.PaletteColor(c.Theme.Colors.BoardColorAlt),
		styleHuman:     tcell.PaletteColor(c.Theme.Colors.HumanColor),
		styleMachine:   tcell.PaletteColor(c.Theme.Colors.MachineColor),
		styleLine:      tcell.PaletteColor(c.Theme.Colors.LineColor),
		styleCursorFG:  tcell.PaletteColor(c.Theme.Colors.CursorColorFG),
		styleCursorBG:  tcell.PaletteColor(c.Theme.Colors.CursorColorBG),
		styleHighlight: tcell.PaletteColor(c.Theme.Colors.HighlightColor),
	}
	g.cfg = c
}

func (g *GameBoardUI) draw(screen tcell.Screen, x, y int) {
	st := g.state
	v := st.Variant
	theme := g.cfg.Theme
	grid := CellContents(st.Board, v)

	preview, hasPreview := types.Placement{}, false
	if target, ok := g.selection.Target(); ok {
		preview, hasPreview = HoverPreview(st, target)
	}

	left, top := x+4, y+1
	if v.Gravity && g.selection.Active() {
		marker := tcell.StyleDefault.Foreground(g.styles[styleCursorBG])
		screen.SetContent(left+g.selection.Column*2, y, '▼', nil, marker)
	}

	for sy := 0; sy < v.Rows; sy++ {
		row := board.BoardRow(sy, v)
		for col := 0; col < v.Columns; col++ {
			cell := types.Placement{Row: row, Column: col}
			bg := g.styles[styleBoard]
			if (col+sy)%2 == 1 {
				bg = g.styles[styleBoardAlt]
			}

			var r rune
			fg := g.styles[styleLine]
			switch grid[row][col] {
			case CellHuman:
				r, fg = config.Symbol(theme.Symbols.HumanPiece), g.styles[styleHuman]
			case CellMachine:
				r, fg = config.Symbol(theme.Symbols.MachinePiece), g.styles[styleMachine]
			default:
				r = config.Symbol(theme.Symbols.BoardSquare)
				if theme.UseGridLines && !v.Gravity {
					r = getGridRune(col, sy, v.Columns, v.Rows)
				}
				if hasPreview && preview == cell {
					r, fg = config.Symbol(theme.Symbols.Preview), g.styles[styleHuman]
				}
			}

			if IsHighlighted(st, cell) && theme.DrawHighlightBackground {
				bg = g.styles[styleHighlight]
			}
			if g.isCursor(cell) && theme.DrawCursorBackground {
				bg = g.styles[styleCursorBG]
				if grid[row][col] == CellEmpty && !(hasPreview && preview == cell) {
					fg = g.styles[styleCursorFG]
				}
			}

			style := tcell.StyleDefault.Background(bg).Foreground(fg)
			if theme.UseGridLines && !v.Gravity && grid[row][col] == CellEmpty {
				hasPieceRight := col < v.Columns-1 && grid[row][col+1] != CellEmpty
				drawGridCell(screen, style, r, col, sy, left, top, v.Columns, hasPieceRight)
			} else {
				drawPieceCell(screen, style, r, col, sy, left, top)
			}
		}
	}
	g.drawCoordinates(screen, x, top)
}

// isCursor reports whether cell is under the cursor. On gravity boards the
// cursor covers the landing cell of the selected column.
func (g *GameBoardUI) isCursor(cell types.Placement) bool {
	target, ok := g.selection.Target()
	if !ok {
		return false
	}
	if g.state.Variant.Gravity {
		return cell == board.NextOpenCell(target.Column, g.state.Board.All())
	}
	return cell == target
}

func (g *GameBoardUI) refreshHint() {
	if g.infoPanel != nil {
		depth, autoplay := 0, false
		if g.eng != nil {
			depth, autoplay = g.eng.SearchDepth(), g.eng.Autoplay()
		}
		g.infoPanel.SetState(g.state, depth, autoplay)
	}

	if g.focusMode {
		g.hint.SetText("  f to toggle")
		return
	}

	var statusLine, controlsLine string
	status := StatusText(g.state, g.loading, g.lastErr)

	if g.state.Phase.IsOver() {
		statusLine = fmt.Sprintf("  Result: %s\n", status)
		controlsLine = "  r · new game   q · return to menu"
	} else {
		marker := "◌"
		if IsInteractive(g.state.Phase) {
			marker = "●"
		}
		if g.lastErr != nil {
			marker = "✗"
		}
		statusLine = fmt.Sprintf("  %s %s\n", marker, status)
		controlsLine = "  hjkl/↑↓←→ move  ⏎ play  m machine  a auto  +/- depth  s first  r reset  c colors  f focus  q quit"
	}

	g.hint.SetText(statusLine + controlsLine)
}

// drawPieceCell draws a piece cell (2 characters wide)
func drawPieceCell(s tcell.Screen, c tcell.Style, r rune, x, y, l, t int) {
	s.SetContent(l+x*2, t+y, r, nil, c)
	s.SetContent(l+x*2+1, t+y, ' ', nil, c)
}

// drawGridCell draws a cell using box-drawing characters for grid lines
func drawGridCell(s tcell.Screen, c tcell.Style, r rune, x, y, l, t, boardWidth int, hasPieceRight bool) {
	s.SetContent(l+x*2, t+y, r, nil, c)

	rightConn := '─'
	if x == boardWidth-1 || hasPieceRight {
		rightConn = ' '
	}
	s.SetContent(l+x*2+1, t+y, rightConn, nil, c)
}

// getGridRune returns the box-drawing character for a screen position
func getGridRune(x, y, width, height int) rune {
	if x == width/2 && y == height/2 {
		return '◦'
	}

	isTop := y == 0
	isBottom := y == height-1
	isLeft := x == 0
	isRight := x == width-1

	switch {
	case isTop && isLeft:
		return '┌'
	case isTop && isRight:
		return '┐'
	case isBottom && isLeft:
		return '└'
	case isBottom && isRight:
		return '┘'
	case isTop:
		return '┬'
	case isBottom:
		return '┴'
	case isLeft:
		return '├'
	case isRight:
		return '┤'
	default:
		return '┼'
	}
}

func (g *GameBoardUI) drawCoordinates(s tcell.Screen, x, top int) {
	v := g.state.Variant
	style := tcell.StyleDefault
	highlight := tcell.StyleDefault.Background(g.styles[styleCursorBG])
	target, selected := g.selection.Target()

	for ix := 0; ix < v.Columns; ix++ {
		_style := style
		if selected && ix == target.Column {
			_style = highlight
		}
		s.SetContent(x+4+(ix*2), top+v.Rows, rune('a'+ix), nil, _style)
		s.SetContent(x+4+(ix*2)+1, top+v.Rows, ' ', nil, _style)
	}

	for sy := 0; sy < v.Rows; sy++ {
		row := board.BoardRow(sy, v)
		_style := style
		if selected && !v.Gravity && row == target.Row {
			_style = highlight
		}
		label := fmt.Sprintf("%2d", board.DisplayRow(row, v))
		s.SetContent(x+1, top+sy, rune(label[0]), nil, _style)
		s.SetContent(x+2, top+sy, rune(label[1]), nil, _style)
	}
}
