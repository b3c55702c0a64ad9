package ui

import (
	"github.com/gdamore/tcell/v2"

	"boardbot/config"
)

// MenuPalette colors the setup card and its widgets.
type MenuPalette struct {
	Border      tcell.Color
	BorderFocus tcell.Color
	CardBG      tcell.Color
	Title       tcell.Color
	TitleAccent tcell.Color // human piece
	TitleAlt    tcell.Color // machine piece
	Label       tcell.Color
	Hint        tcell.Color
	Error       tcell.Color
	Selected    tcell.Color
	Unselected  tcell.Color
	ButtonFocus tcell.Color
	ButtonText  tcell.Color
}

// MenuColors is the palette in use. It follows the board theme.
var MenuColors = NewMenuPalette(config.DefaultTheme)

// NewMenuPalette derives the menu colors from the board theme: borders take
// the board color and accents take the piece colors.
func NewMenuPalette(theme config.Theme) MenuPalette {
	board := tcell.PaletteColor(theme.Colors.BoardColor)
	human := tcell.PaletteColor(theme.Colors.HumanColor)
	return MenuPalette{
		Border:      board,
		BorderFocus: tcell.PaletteColor(theme.Colors.LineColor),
		CardBG:      tcell.PaletteColor(236),
		Title:       tcell.PaletteColor(255),
		TitleAccent: human,
		TitleAlt:    tcell.PaletteColor(theme.Colors.MachineColor),
		Label:       tcell.PaletteColor(250),
		Hint:        tcell.PaletteColor(245),
		Error:       tcell.PaletteColor(203),
		Selected:    human,
		Unselected:  tcell.PaletteColor(245),
		ButtonFocus: tcell.PaletteColor(theme.Colors.LineColor),
		ButtonText:  tcell.PaletteColor(255),
	}
}

// SetMenuTheme recolors the menus after a theme change.
func SetMenuTheme(theme config.Theme) {
	MenuColors = NewMenuPalette(theme)
}

// menuStyle is fg on the card background.
func menuStyle(fg tcell.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(fg).Background(MenuColors.CardBG)
}

// drawText writes text from x and returns the column after it.
func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) int {
	for _, ch := range text {
		screen.SetContent(x, y, ch, nil, style)
		x++
	}
	return x
}

// drawFieldLabel draws the focus marker and "◈ label" and returns the next
// column.
func drawFieldLabel(screen tcell.Screen, x, y int, label string, focused bool) int {
	marker := ' '
	if focused {
		marker = '▸'
	}
	screen.SetContent(x, y, marker, nil, menuStyle(MenuColors.Selected))
	screen.SetContent(x+2, y, '◈', nil, menuStyle(MenuColors.TitleAccent))
	return drawText(screen, x+4, y, label, menuStyle(MenuColors.Label))
}
