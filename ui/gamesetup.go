package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"boardbot/config"
	"boardbot/engine"
	"boardbot/types"
)

// GameSetup is what the setup screen produces.
type GameSetup struct {
	Game      engine.GameConfig
	OracleURL string
}

type setupField interface {
	SetFocused(bool)
	HandleKey(*tcell.EventKey) bool
}

// GameSetupUI is the card shown before a game starts.
type GameSetupUI struct {
	*MenuCard

	variant  *RadioSelect
	first    *RadioSelect
	autoplay *RadioSelect
	depth    *LevelSlider
	oracle   *TextInput
	start    *MenuButton
	quit     *MenuButton

	fields []setupField
	focus  int
	setup  GameSetup
}

// NewGameSetup creates the setup screen prefilled with defaults.
func NewGameSetup(defaults GameSetup, onStart func(GameSetup), onCancel func()) *GameSetupUI {
	s := &GameSetupUI{
		MenuCard: NewMenuCard("B O A R D B O T"),
		setup:    defaults,
	}

	variants := make([]RadioOption, len(types.Variants))
	selectedVariant := 0
	for i, v := range types.Variants {
		variants[i] = RadioOption{Label: v.Title, Description: variantDescription(v)}
		if v.Name == defaults.Game.Variant.Name {
			selectedVariant = i
		}
	}
	s.variant = NewRadioSelect("Game", variants, selectedVariant, func(i int) {
		s.setup.Game.Variant = types.Variants[i]
	})

	firstIndex := 0
	if defaults.Game.StartingPlayer == types.Machine {
		firstIndex = 1
	}
	s.first = NewRadioSelect("First Move", []RadioOption{
		{Label: "You"},
		{Label: "Machine"},
	}, firstIndex, func(i int) {
		s.setup.Game.StartingPlayer = types.Human
		if i == 1 {
			s.setup.Game.StartingPlayer = types.Machine
		}
	})

	autoIndex := 1
	if defaults.Game.Autoplay {
		autoIndex = 0
	}
	s.autoplay = NewRadioSelect("Machine Moves", []RadioOption{
		{Label: "Automatic"},
		{Label: "Manual", Description: "(press m)"},
	}, autoIndex, func(i int) {
		s.setup.Game.Autoplay = i == 0
	})

	s.depth = NewLevelSlider("Search Depth", engine.MinSearchDepth, engine.MaxSearchDepth, defaults.Game.SearchDepth, func(d int) {
		s.setup.Game.SearchDepth = d
	})
	s.depth.SetCaption(depthCaption)

	s.start = NewMenuButton("Start Game", true, func() {
		onStart(s.setup)
	})
	s.quit = NewMenuButton("Quit", false, onCancel)

	s.oracle = NewTextInput("Oracle", defaults.OracleURL, nil, s.setOracleURL)
	s.setOracleURL(defaults.OracleURL)

	s.fields = []setupField{s.variant, s.first, s.autoplay, s.depth, s.oracle, s.start, s.quit}
	s.fields[0].SetFocused(true)
	return s
}

// setOracleURL keeps Start disabled while the URL is not usable.
func (s *GameSetupUI) setOracleURL(text string) {
	s.setup.OracleURL = text
	if err := config.ValidateOracleURL(text); err != nil {
		s.start.SetEnabled(false)
		s.SetFooter("oracle URL must be http(s)://host/...", true)
		return
	}
	s.start.SetEnabled(true)
	s.SetFooter("Tab next · Esc quit", false)
}

func depthCaption(d int) string {
	switch {
	case d <= 2:
		return "quick"
	case d <= 5:
		return "balanced"
	}
	return "strong"
}

func variantDescription(v types.Variant) string {
	if v.Gravity {
		return "7x6, drop four"
	}
	return "13x13, five in a row"
}

// Setup returns the current choices.
func (s *GameSetupUI) Setup() GameSetup {
	return s.setup
}

// HandleKey moves focus between fields and forwards other keys to the
// focused one.
func (s *GameSetupUI) HandleKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyTab:
		s.moveFocus(1)
		return true
	case tcell.KeyBacktab:
		s.moveFocus(-1)
		return true
	}

	if s.fields[s.focus].HandleKey(event) {
		return true
	}

	switch event.Key() {
	case tcell.KeyDown:
		s.moveFocus(1)
		return true
	case tcell.KeyUp:
		s.moveFocus(-1)
		return true
	case tcell.KeyLeft, tcell.KeyRight:
		// Swap between the two buttons.
		if s.focus >= len(s.fields)-2 {
			s.setFocus(2*len(s.fields) - 3 - s.focus)
			return true
		}
	}
	return false
}

func (s *GameSetupUI) moveFocus(delta int) {
	s.setFocus((s.focus + delta + len(s.fields)) % len(s.fields))
}

func (s *GameSetupUI) setFocus(i int) {
	s.fields[s.focus].SetFocused(false)
	s.focus = i
	s.fields[s.focus].SetFocused(true)
}

// InputHandler returns the handler for this primitive.
func (s *GameSetupUI) InputHandler() func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
	return s.WrapInputHandler(func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
		s.HandleKey(event)
	})
}

// Draw renders the card and its fields.
func (s *GameSetupUI) Draw(screen tcell.Screen) {
	s.MenuCard.SetFocused(s.HasFocus())
	s.MenuCard.Draw(screen)

	x, y, width, height := s.GetInnerRect()
	if width < 10 || height < 5 {
		return
	}
	left := x + 3
	inner := width - 6
	row := y + 6

	row += s.variant.Draw(screen, left, row, inner) + 1
	row += s.first.Draw(screen, left, row, inner) + 1
	row += s.autoplay.Draw(screen, left, row, inner) + 1
	row += s.depth.Draw(screen, left, row, inner) + 1
	row += s.oracle.Draw(screen, left, row, inner) + 1

	s.DrawDivider(screen, row)
	row += 2

	col := left
	col += s.start.Draw(screen, col, row) + 2
	s.quit.Draw(screen, col, row)
}

// Height returns the rows the card needs.
func (s *GameSetupUI) Height() int {
	return 26
}
