package ui

import (
	"strconv"

	"github.com/gdamore/tcell/v2"
)

// LevelSlider picks an integer in [min, max].
type LevelSlider struct {
	label    string
	min, max int
	value    int
	focused  bool
	caption  func(int) string
	onChange func(int)
}

func NewLevelSlider(label string, min, max, initial int, onChange func(int)) *LevelSlider {
	return &LevelSlider{
		label:    label,
		min:      min,
		max:      max,
		value:    initial,
		onChange: onChange,
	}
}

// SetCaption sets the text shown after the value, e.g. a strength hint.
func (s *LevelSlider) SetCaption(caption func(int) string) {
	s.caption = caption
}

func (s *LevelSlider) SetFocused(focused bool) {
	s.focused = focused
}

// HandleKey processes keyboard input. Returns true if handled.
func (s *LevelSlider) HandleKey(event *tcell.EventKey) bool {
	next := s.value
	switch event.Key() {
	case tcell.KeyLeft:
		next--
	case tcell.KeyRight:
		next++
	case tcell.KeyHome:
		next = s.min
	case tcell.KeyEnd:
		next = s.max
	case tcell.KeyRune:
		switch event.Rune() {
		case '-':
			next--
		case '+', '=':
			next++
		default:
			return false
		}
	default:
		return false
	}
	s.SetValue(next)
	return true
}

// Draw renders the slider on one row.
func (s *LevelSlider) Draw(screen tcell.Screen, x, y, width int) int {
	on, off := menuStyle(MenuColors.Selected), menuStyle(MenuColors.Unselected)
	arrows := off
	if s.focused {
		arrows = on
	}

	col := drawFieldLabel(screen, x, y, s.label, s.focused) + 3
	screen.SetContent(col, y, '◀', nil, arrows)
	col += 2
	for v := s.min; v <= s.max; v++ {
		if v <= s.value {
			screen.SetContent(col, y, '█', nil, on)
		} else {
			screen.SetContent(col, y, '░', nil, off)
		}
		col++
	}
	col = drawText(screen, col+1, y, strconv.Itoa(s.value), menuStyle(MenuColors.Label))
	screen.SetContent(col+1, y, '▶', nil, arrows)
	if s.caption != nil {
		drawText(screen, col+3, y, s.caption(s.value), menuStyle(MenuColors.Hint))
	}
	return 1
}

func (s *LevelSlider) Value() int {
	return s.value
}

// SetValue sets the slider value. Values outside the range are ignored.
func (s *LevelSlider) SetValue(v int) {
	if v < s.min || v > s.max || v == s.value {
		return
	}
	s.value = v
	if s.onChange != nil {
		s.onChange(v)
	}
}
