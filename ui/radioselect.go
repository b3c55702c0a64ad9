package ui

import (
	"github.com/gdamore/tcell/v2"
)

type RadioOption struct {
	Label       string
	Description string
}

// RadioSelect is a group of exclusive options. Options without descriptions
// fit on the label row; otherwise each option gets its own row.
type RadioSelect struct {
	label    string
	options  []RadioOption
	selected int
	focused  bool
	onChange func(int)
}

func NewRadioSelect(label string, options []RadioOption, initial int, onChange func(int)) *RadioSelect {
	return &RadioSelect{
		label:    label,
		options:  options,
		selected: initial,
		onChange: onChange,
	}
}

func (r *RadioSelect) SetFocused(focused bool) {
	r.focused = focused
}

func (r *RadioSelect) inline() bool {
	for _, opt := range r.options {
		if opt.Description != "" {
			return false
		}
	}
	return true
}

// HandleKey processes keyboard input. Returns true if handled.
// Up on the first option and Down on the last are left to the caller.
func (r *RadioSelect) HandleKey(event *tcell.EventKey) bool {
	n := len(r.options)
	switch event.Key() {
	case tcell.KeyUp:
		if r.selected == 0 {
			return false
		}
		r.SetSelected(r.selected - 1)
	case tcell.KeyDown:
		if r.selected == n-1 {
			return false
		}
		r.SetSelected(r.selected + 1)
	case tcell.KeyLeft:
		r.SetSelected((r.selected + n - 1) % n)
	case tcell.KeyRight:
		r.SetSelected((r.selected + 1) % n)
	default:
		return false
	}
	return true
}

// Draw renders the group and returns the number of rows used.
func (r *RadioSelect) Draw(screen tcell.Screen, x, y, width int) int {
	col := drawFieldLabel(screen, x, y, r.label, r.focused)
	if r.inline() {
		col += 3
		for i, opt := range r.options {
			col = r.drawOption(screen, col, y, i, opt) + 2
		}
		return 1
	}

	for i, opt := range r.options {
		col = r.drawOption(screen, x+4, y+1+i, i, opt)
		if opt.Description != "" {
			drawText(screen, col+1, y+1+i, opt.Description, menuStyle(MenuColors.Hint))
		}
	}
	return 1 + len(r.options)
}

func (r *RadioSelect) drawOption(screen tcell.Screen, x, y, i int, opt RadioOption) int {
	style := menuStyle(MenuColors.Unselected)
	bullet := '○'
	if i == r.selected {
		style = menuStyle(MenuColors.Selected)
		bullet = '●'
	}
	screen.SetContent(x, y, bullet, nil, style)
	return drawText(screen, x+2, y, opt.Label, style)
}

func (r *RadioSelect) Selected() int {
	return r.selected
}

// SetSelected selects index and reports it. Out of range indexes are ignored.
func (r *RadioSelect) SetSelected(index int) {
	if index < 0 || index >= len(r.options) {
		return
	}
	r.selected = index
	if r.onChange != nil {
		r.onChange(index)
	}
}
