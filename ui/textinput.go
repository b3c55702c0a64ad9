package ui

import (
	"github.com/gdamore/tcell/v2"
)

// TextInput is a single-line input field.
type TextInput struct {
	label    string
	text     []rune
	focused  bool
	cursor   int
	accept   func(rune) bool
	onChange func(string)
}

// NewTextInput creates a new input field. accept filters typed runes and may
// be nil to allow any printable rune.
func NewTextInput(label, initial string, accept func(rune) bool, onChange func(string)) *TextInput {
	text := []rune(initial)
	return &TextInput{
		label:    label,
		text:     text,
		cursor:   len(text),
		accept:   accept,
		onChange: onChange,
	}
}

// SetFocused sets the focus state.
func (t *TextInput) SetFocused(focused bool) {
	t.focused = focused
}

// HandleKey processes keyboard input. Returns true if handled.
func (t *TextInput) HandleKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyLeft:
		if t.cursor > 0 {
			t.cursor--
		}
		return true
	case tcell.KeyRight:
		if t.cursor < len(t.text) {
			t.cursor++
		}
		return true
	case tcell.KeyHome, tcell.KeyCtrlA:
		t.cursor = 0
		return true
	case tcell.KeyEnd, tcell.KeyCtrlE:
		t.cursor = len(t.text)
		return true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if t.cursor > 0 {
			t.text = append(t.text[:t.cursor-1], t.text[t.cursor:]...)
			t.cursor--
			t.changed()
		}
		return true
	case tcell.KeyDelete:
		if t.cursor < len(t.text) {
			t.text = append(t.text[:t.cursor], t.text[t.cursor+1:]...)
			t.changed()
		}
		return true
	case tcell.KeyRune:
		ch := event.Rune()
		if ch < 32 || (t.accept != nil && !t.accept(ch)) {
			return true
		}
		text := make([]rune, 0, len(t.text)+1)
		text = append(text, t.text[:t.cursor]...)
		text = append(text, ch)
		t.text = append(text, t.text[t.cursor:]...)
		t.cursor++
		t.changed()
		return true
	}
	return false
}

func (t *TextInput) changed() {
	if t.onChange != nil {
		t.onChange(string(t.text))
	}
}

// Draw renders the input on one row, scrolling the text to keep the cursor
// visible. Returns the number of rows used.
func (t *TextInput) Draw(screen tcell.Screen, x, y, width int) int {
	labelStyle := menuStyle(MenuColors.Label)
	inputStyle := tcell.StyleDefault.Foreground(MenuColors.Label).Background(tcell.PaletteColor(238))
	cursorStyle := tcell.StyleDefault.Foreground(MenuColors.CardBG).Background(MenuColors.Selected)

	col := drawFieldLabel(screen, x, y, t.label, t.focused) + 3
	fieldWidth := x + width - col - 4
	if fieldWidth < 4 {
		return 1
	}

	screen.SetContent(col, y, '[', nil, labelStyle)
	col++
	screen.SetContent(col, y, ' ', nil, inputStyle)
	col++

	start := 0
	if t.cursor >= fieldWidth {
		start = t.cursor - fieldWidth + 1
	}
	for i := 0; i < fieldWidth; i++ {
		idx := start + i
		ch := ' '
		if idx < len(t.text) {
			ch = t.text[idx]
		}
		style := inputStyle
		if t.focused && idx == t.cursor {
			style = cursorStyle
		}
		screen.SetContent(col, y, ch, nil, style)
		col++
	}

	screen.SetContent(col, y, ' ', nil, inputStyle)
	col++
	screen.SetContent(col, y, ']', nil, labelStyle)

	return 1
}

// Value returns the current text.
func (t *TextInput) Value() string {
	return string(t.text)
}

// SetValue replaces the text and moves the cursor to its end.
func (t *TextInput) SetValue(s string) {
	t.text = []rune(s)
	t.cursor = len(t.text)
	t.changed()
}
