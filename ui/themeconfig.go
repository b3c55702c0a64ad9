package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"boardbot/config"
)

type paletteColor struct {
	code int
	name string
}

var boardPalette = []paletteColor{
	{25, "Steel Blue"},
	{18, "Deep Blue"},
	{24, "Dark Cyan"},
	{23, "Teal"},
	{22, "Dark Green"},
	{94, "Saddle Brown"},
	{136, "Dark Brown"},
	{180, "Tan"},
	{236, "Dark Gray"},
	{250, "Gray"},
}

var piecePalette = []paletteColor{
	{226, "Yellow"},
	{220, "Gold"},
	{196, "Red"},
	{160, "Dark Red"},
	{208, "Orange"},
	{46, "Green"},
	{51, "Cyan"},
	{201, "Magenta"},
	{231, "White"},
	{16, "Black"},
}

type themeTarget int

const (
	targetBoard themeTarget = iota
	targetHuman
	targetMachine
)

var themeTargets = [...]struct {
	title   string
	palette []paletteColor
}{
	targetBoard:   {"Board", boardPalette},
	targetHuman:   {"Your pieces", piecePalette},
	targetMachine: {"Machine pieces", piecePalette},
}

// ThemeConfigUI picks board and piece colors with a live preview. Enter
// accepts a color and moves on to the next one.
type ThemeConfigUI struct {
	flex      *tview.Flex
	colorList *tview.List
	preview   *tview.Box
	theme     config.Theme
	target    themeTarget
	onDone    func(config.Theme)
}

// NewThemeConfig creates the theme screen starting from theme.
func NewThemeConfig(theme config.Theme, onDone func(config.Theme)) *ThemeConfigUI {
	tc := &ThemeConfigUI{
		theme:  theme,
		onDone: onDone,
	}

	tc.colorList = tview.NewList()
	tc.colorList.SetBorder(true)
	tc.colorList.ShowSecondaryText(false)
	tc.populateColorList()

	tc.colorList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		palette := themeTargets[tc.target].palette
		if index >= 0 && index < len(palette) {
			tc.setColor(palette[index].code)
		}
	})
	tc.colorList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		if tc.target == targetMachine {
			tc.onDone(tc.theme)
			return
		}
		tc.target++
		tc.populateColorList()
	})

	tc.preview = tview.NewBox()
	tc.preview.SetBorder(true)
	tc.preview.SetTitle(" Preview ")
	tc.preview.SetDrawFunc(tc.drawPreview)

	tc.flex = tview.NewFlex().
		AddItem(tc.colorList, 30, 0, true).
		AddItem(tc.preview, 0, 1, false)

	return tc
}

// Theme returns the theme as edited so far.
func (tc *ThemeConfigUI) Theme() config.Theme {
	return tc.theme
}

func (tc *ThemeConfigUI) color() int {
	switch tc.target {
	case targetHuman:
		return tc.theme.Colors.HumanColor
	case targetMachine:
		return tc.theme.Colors.MachineColor
	}
	return tc.theme.Colors.BoardColor
}

func (tc *ThemeConfigUI) setColor(code int) {
	switch tc.target {
	case targetBoard:
		tc.theme.Colors.BoardColor = code
		tc.theme.Colors.BoardColorAlt = code
	case targetHuman:
		tc.theme.Colors.HumanColor = code
	case targetMachine:
		tc.theme.Colors.MachineColor = code
	}
}

func (tc *ThemeConfigUI) populateColorList() {
	// Filling the list fires the changed func, which must not edit the theme.
	saved := tc.theme
	defer func() { tc.theme = saved }()

	current := tc.color()
	target := themeTargets[tc.target]

	tc.colorList.Clear()
	tc.colorList.SetTitle(fmt.Sprintf(" %s (Tab: next) ", target.title))
	for i, c := range target.palette {
		tc.colorList.AddItem(fmt.Sprintf("[#%06x]████[-] %s (%d)",
			tcell.PaletteColor(c.code).Hex(), c.name, c.code),
			"", rune('a'+i), nil)
	}
	for i, c := range target.palette {
		if c.code == current {
			tc.colorList.SetCurrentItem(i)
			break
		}
	}
}

func (tc *ThemeConfigUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	const rows, cols = 4, 5
	if width < cols*2+6 || height < rows+5 {
		return x, y, width, height
	}

	colors := tc.theme.Colors
	board := tcell.PaletteColor(colors.BoardColor)
	boardStyle := tcell.StyleDefault.Background(board).Foreground(tcell.PaletteColor(colors.LineColor))
	humanStyle := tcell.StyleDefault.Background(board).Foreground(tcell.PaletteColor(colors.HumanColor))
	machineStyle := tcell.StyleDefault.Background(board).Foreground(tcell.PaletteColor(colors.MachineColor))
	humanRune := config.Symbol(tc.theme.Symbols.HumanPiece)
	machineRune := config.Symbol(tc.theme.Symbols.MachinePiece)
	emptyRune := config.Symbol(tc.theme.Symbols.BoardSquare)

	// Bottom row first, as pieces fall.
	pieces := map[[2]int]CellContent{
		{0, 1}: CellHuman, {0, 2}: CellMachine, {0, 3}: CellHuman,
		{1, 2}: CellHuman, {1, 3}: CellMachine,
		{2, 2}: CellMachine,
	}

	left, top := x+2, y+1
	for r := 0; r < rows; r++ {
		screenY := top + rows - 1 - r
		screen.SetContent(left, screenY, ' ', nil, boardStyle)
		for c := 0; c < cols; c++ {
			screenX := left + 1 + c*2
			style, ch := boardStyle, emptyRune
			switch pieces[[2]int{r, c}] {
			case CellHuman:
				style, ch = humanStyle, humanRune
			case CellMachine:
				style, ch = machineStyle, machineRune
			}
			screen.SetContent(screenX, screenY, ch, nil, style)
			screen.SetContent(screenX+1, screenY, ' ', nil, boardStyle)
		}
	}

	info := fmt.Sprintf("Board %d  You %d  Machine %d", colors.BoardColor, colors.HumanColor, colors.MachineColor)
	for i, ch := range info {
		if left+i < x+width-1 {
			screen.SetContent(left+i, top+rows+1, ch, nil, tcell.StyleDefault)
		}
	}
	return x, y, width, height
}

// Flex returns the flex container for this UI.
func (tc *ThemeConfigUI) Flex() *tview.Flex {
	return tc.flex
}

// SetInputCapture sets the input capture for the color list.
func (tc *ThemeConfigUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	tc.colorList.SetInputCapture(capture)
}

// NextTarget moves on to the next color without leaving the screen.
func (tc *ThemeConfigUI) NextTarget() {
	tc.target = (tc.target + 1) % themeTarget(len(themeTargets))
	tc.populateColorList()
}
