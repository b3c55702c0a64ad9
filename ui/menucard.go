package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// MenuCard is a rounded card with a centered title and an optional footer
// message on the bottom border.
type MenuCard struct {
	*tview.Box
	title       string
	footer      string
	footerIsErr bool
	focused     bool
}

func NewMenuCard(title string) *MenuCard {
	return &MenuCard{
		Box:   tview.NewBox(),
		title: title,
	}
}

// SetFooter shows msg on the bottom border, in the error color when isErr.
// An empty msg clears it.
func (c *MenuCard) SetFooter(msg string, isErr bool) {
	c.footer = msg
	c.footerIsErr = isErr
}

func (c *MenuCard) Footer() string {
	return c.footer
}

func (c *MenuCard) SetFocused(focused bool) {
	c.focused = focused
}

func (c *MenuCard) borderStyle() tcell.Style {
	color := MenuColors.Border
	if c.focused {
		color = MenuColors.BorderFocus
	}
	return tcell.StyleDefault.Foreground(color).Background(MenuColors.CardBG)
}

func (c *MenuCard) hline(screen tcell.Screen, x, y, width int, left, right rune) {
	style := c.borderStyle()
	screen.SetContent(x, y, left, nil, style)
	for col := x + 1; col < x+width-1; col++ {
		screen.SetContent(col, y, '─', nil, style)
	}
	screen.SetContent(x+width-1, y, right, nil, style)
}

// Draw renders the card frame, title and footer.
func (c *MenuCard) Draw(screen tcell.Screen) {
	c.Box.DrawForSubclass(screen, c)

	x, y, width, height := c.GetInnerRect()
	if width < 10 || height < 5 {
		return
	}

	bg := tcell.StyleDefault.Background(MenuColors.CardBG)
	for row := y; row < y+height; row++ {
		for col := x; col < x+width; col++ {
			screen.SetContent(col, row, ' ', nil, bg)
		}
	}

	c.hline(screen, x, y, width, '╭', '╮')
	for row := y + 1; row < y+height-1; row++ {
		screen.SetContent(x, row, '│', nil, c.borderStyle())
		screen.SetContent(x+width-1, row, '│', nil, c.borderStyle())
	}
	c.hline(screen, x, y+height-1, width, '╰', '╯')

	if c.title != "" {
		// ● ○  T I T L E, with the pieces in the player colors.
		titleStyle := bg.Foreground(MenuColors.Title).Bold(true)
		titleLen := len([]rune(c.title)) + 5
		titleX := x + (width-titleLen)/2
		titleY := y + 2
		screen.SetContent(titleX, titleY, '●', nil, bg.Foreground(MenuColors.TitleAccent))
		screen.SetContent(titleX+2, titleY, '●', nil, bg.Foreground(MenuColors.TitleAlt))
		for i, ch := range []rune(c.title) {
			screen.SetContent(titleX+5+i, titleY, ch, nil, titleStyle)
		}
		c.hline(screen, x, y+4, width, '├', '┤')
	}

	if c.footer != "" {
		color := MenuColors.Hint
		if c.footerIsErr {
			color = MenuColors.Error
		}
		msg := []rune(" " + c.footer + " ")
		if len(msg) > width-4 {
			msg = append(msg[:width-5], '…')
		}
		for i, ch := range msg {
			screen.SetContent(x+2+i, y+height-1, ch, nil, bg.Foreground(color))
		}
	}
}

// DrawDivider draws a horizontal divider at row divY.
func (c *MenuCard) DrawDivider(screen tcell.Screen, divY int) {
	x, _, width, _ := c.GetInnerRect()
	c.hline(screen, x, divY, width, '├', '┤')
}
