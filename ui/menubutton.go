package ui

import (
	"github.com/gdamore/tcell/v2"
)

// MenuButton is a single-line button. A disabled button ignores Enter.
type MenuButton struct {
	label    string
	primary  bool
	focused  bool
	disabled bool
	onSelect func()
}

func NewMenuButton(label string, primary bool, onSelect func()) *MenuButton {
	return &MenuButton{
		label:    label,
		primary:  primary,
		onSelect: onSelect,
	}
}

func (b *MenuButton) SetFocused(focused bool) {
	b.focused = focused
}

func (b *MenuButton) SetEnabled(enabled bool) {
	b.disabled = !enabled
}

func (b *MenuButton) Enabled() bool {
	return !b.disabled
}

// HandleKey processes keyboard input. Returns true if handled.
func (b *MenuButton) HandleKey(event *tcell.EventKey) bool {
	if event.Key() != tcell.KeyEnter {
		return false
	}
	if !b.disabled && b.onSelect != nil {
		b.onSelect()
	}
	return true
}

func (b *MenuButton) text() string {
	if b.primary {
		return "▶ " + b.label
	}
	return b.label
}

// Draw renders the button at x, y and returns the width used.
func (b *MenuButton) Draw(screen tcell.Screen, x, y int) int {
	label := b.text()
	width := b.Width()

	var body, edge tcell.Style
	lb, rb := '[', ']'
	switch {
	case b.disabled:
		body = tcell.StyleDefault.Foreground(MenuColors.Unselected).Background(MenuColors.CardBG).StrikeThrough(true)
		edge = tcell.StyleDefault.Foreground(MenuColors.Unselected).Background(MenuColors.CardBG)
	case b.focused:
		body = tcell.StyleDefault.Foreground(MenuColors.ButtonText).Background(MenuColors.ButtonFocus)
		edge = body
		lb, rb = ' ', ' '
	default:
		body = tcell.StyleDefault.Foreground(MenuColors.Hint).Background(MenuColors.CardBG)
		edge = tcell.StyleDefault.Foreground(MenuColors.Border).Background(MenuColors.CardBG)
	}

	screen.SetContent(x, y, lb, nil, edge)
	col := x + 1
	for _, ch := range label {
		screen.SetContent(col, y, ch, nil, body)
		col++
	}
	screen.SetContent(col, y, rb, nil, edge)
	return width
}

// Width is the label plus one cell on each side.
func (b *MenuButton) Width() int {
	return len([]rune(b.text())) + 2
}
