// boardbot is a terminal application to play Connect Four and Gomoku against
// a remote move oracle.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"boardbot/config"
	"boardbot/engine"
	"boardbot/oracle"
	"boardbot/oracle/cache"
	"boardbot/types"
	"boardbot/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags. The game flags are bound to config keys by config.InitConfig.
var (
	flagVariant    = pflag.String("variant", "", "Game to play (connect4 or gomoku)")
	flagFirst      = pflag.String("first", "", "Who moves first (human or machine)")
	flagDepth      = pflag.Int("depth", 0, "Oracle search depth (1-8)")
	flagAutoplay   = pflag.Bool("autoplay", true, "Request machine moves automatically")
	flagOracle     = pflag.String("oracle", "", "Oracle base URL")
	flagConfig     = pflag.String("config", "", "Config file (default: $XDG_CONFIG_HOME/boardbot/config.json)")
	flagQuickStart = pflag.Bool("play", false, "Start game immediately")
	flagFocus      = pflag.Bool("focus", false, "Start in focus mode (fullscreen board)")
	flagVersion    = pflag.Bool("version", false, "Print version and exit")
)

var app *tview.Application
var rootPage *tview.Pages
var gameBoard *ui.GameBoardUI
var gameFrame *tview.Flex
var gameHint *tview.TextView
var cfg *config.Config
var logger *zap.SugaredLogger
var backend cache.Backend

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("boardbot %s\n", Version)
		return
	}

	var err error
	cfg, err = config.InitConfig(*flagConfig, pflag.CommandLine)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err = newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	backend = newCacheBackend(cfg.Cache)
	if backend != nil {
		defer backend.Close()
	}

	flags := pflag.CommandLine
	quickStart := *flagQuickStart || *flagFocus
	for _, name := range []string{"variant", "first", "depth", "autoplay", "oracle"} {
		quickStart = quickStart || flags.Changed(name)
	}
	logger.Infow("boardbot starting", "version", Version, "oracle", cfg.Oracle.BaseURL, "cache", cfg.Cache.Backend, "quick_start", quickStart)

	ui.SetMenuTheme(cfg.Theme)
	app = tview.NewApplication()
	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" ⬡ boardbot ")

	// Game view setup
	gameHint = tview.NewTextView()
	gameHint.SetBorder(true)
	gameHint.SetBorderPadding(0, 0, 1, 1)
	gameHint.SetTitle(" Status ")
	gameHint.SetTitleAlign(tview.AlignLeft)
	gameBoard = ui.NewGameBoard(app, cfg, gameHint)

	gameFrame = ui.CreateGameLayout(gameBoard, gameHint)

	// Game board input handling
	gameBoard.Box.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp:
			gameBoard.MoveSelection(0, -1)
		case tcell.KeyDown:
			gameBoard.MoveSelection(0, 1)
		case tcell.KeyLeft:
			gameBoard.MoveSelection(-1, 0)
		case tcell.KeyRight:
			gameBoard.MoveSelection(1, 0)
		case tcell.KeyEnter:
			gameBoard.PlayMove()
		case tcell.KeyRune:
			switch event.Rune() {
			case 'q':
				if gameBoard.HasSelection() {
					gameBoard.ResetSelection()
				} else {
					gameBoard.Close()
					rootPage.SwitchToPage("setup")
				}
				return nil
			case 'h':
				gameBoard.MoveSelection(-1, 0)
			case 'j':
				gameBoard.MoveSelection(0, 1)
			case 'k':
				gameBoard.MoveSelection(0, -1)
			case 'l':
				gameBoard.MoveSelection(1, 0)
			case 'm':
				gameBoard.RequestMachineMove()
			case 'a':
				gameBoard.ToggleAutoplay()
			case '+', '=':
				gameBoard.ChangeDepth(1)
			case '-':
				gameBoard.ChangeDepth(-1)
			case 's':
				gameBoard.CycleStartingPlayer()
			case 'r':
				gameBoard.Reset()
			case 'c':
				rootPage.SwitchToPage("theme")
				return nil
			case 'f':
				if gameBoard.ToggleFocusMode() {
					ui.BuildFocusLayout(gameFrame, gameBoard)
				} else {
					ui.RebuildNormalLayout(gameFrame, gameBoard, gameHint)
				}
			}
		}
		return event
	})

	defaults := setupFromConfig()

	// Game setup screen
	setupUI := ui.NewGameSetup(defaults, startGame, func() {
		gameBoard.Close()
		app.Stop()
	})
	setupUI.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc {
			app.Stop()
			return nil
		}
		return event
	})

	// Theme screen, opened from the game view
	themeConfig := ui.NewThemeConfig(cfg.Theme, func(theme config.Theme) {
		cfg.Theme = theme
		gameBoard.SetConfig(cfg)
		ui.SetMenuTheme(theme)
		if err := saveTheme(theme); err != nil {
			logger.Warnw("theme not saved", "error", err)
		}
		rootPage.SwitchToPage("gameview")
	})
	themeConfig.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || (event.Key() == tcell.KeyRune && event.Rune() == 'q') {
			rootPage.SwitchToPage("gameview")
			return nil
		}
		if event.Key() == tcell.KeyTab {
			themeConfig.NextTarget()
			return nil
		}
		return event
	})

	// Add pages - start on setup by default, or gameview if quick start
	rootPage.AddPage("setup", ui.CreateCenteredForm(setupUI, 64, setupUI.Height()), true, !quickStart)
	rootPage.AddPage("gameview", gameFrame, true, quickStart)
	rootPage.AddPage("theme", themeConfig.Flex(), true, false)

	if quickStart {
		startGame(defaults)
		if *flagFocus {
			gameBoard.SetFocusMode(true)
			ui.BuildFocusLayout(gameFrame, gameBoard)
		}
	}

	if err := app.SetRoot(rootPage, true).Run(); err != nil {
		logger.Errorw("ui stopped", "error", err)
		panic(err)
	}
	gameBoard.Close()
}

// setupFromConfig builds the setup screen defaults from the validated config.
func setupFromConfig() ui.GameSetup {
	variant, _ := types.VariantByName(cfg.Game.Variant)
	first, _ := types.ParseOwner(cfg.Game.StartingPlayer)
	return ui.GameSetup{
		Game: engine.GameConfig{
			Variant:          variant,
			StartingPlayer:   first,
			Autoplay:         cfg.Game.Autoplay,
			SearchDepth:      cfg.Game.SearchDepth,
			FetchWinningLine: cfg.Oracle.FetchWinningLine,
		},
		OracleURL: cfg.Oracle.BaseURL,
	}
}

// startGame starts a game with the given setup.
func startGame(setup ui.GameSetup) {
	if err := config.ValidateOracleURL(setup.OracleURL); err != nil {
		showError(err)
		return
	}
	setup.Game.FetchWinningLine = cfg.Oracle.FetchWinningLine

	eng := engine.NewGame(setup.Game, newOracle(setup.OracleURL), logger)
	if err := gameBoard.ConnectEngine(eng); err != nil {
		showError(err)
		return
	}
	if !gameBoard.IsFocusMode() {
		ui.RebuildNormalLayout(gameFrame, gameBoard, gameHint)
	}
	rootPage.SwitchToPage("gameview")
}

func showError(err error) {
	logger.Warnw("cannot start game", "error", err)
	modal := tview.NewModal().
		SetText(fmt.Sprintf("Failed to start game:\n%s", err.Error())).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			rootPage.RemovePage("error")
		})
	rootPage.AddPage("error", modal, true, true)
}

func saveTheme(theme config.Theme) error {
	path, err := config.FilePath(*flagConfig)
	if err != nil {
		return err
	}
	return config.SaveTheme(path, theme)
}

// newOracle builds the HTTP client for baseURL behind the shared cache.
func newOracle(baseURL string) oracle.Oracle {
	client := oracle.NewHTTPClient(oracle.HTTPConfig{
		BaseURL:    baseURL,
		Timeout:    cfg.Oracle.Timeout,
		MaxRetries: cfg.Oracle.MaxRetries,
		RetryWait:  cfg.Oracle.RetryWait,
	}, logger.With("oracle", baseURL))
	if backend == nil {
		return client
	}
	return cache.New(client, backend, logger)
}

// newCacheBackend opens the configured cache. A Redis cache that cannot be
// reached is reported and replaced by no cache.
func newCacheBackend(c config.CacheConfig) cache.Backend {
	switch c.Backend {
	case config.CacheMemory:
		lru, err := cache.NewLRU(c.Size)
		if err != nil {
			logger.Warnw("memory cache disabled", "error", err)
			return nil
		}
		return lru
	case config.CacheRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		r, err := cache.DialRedis(ctx, c.RedisURL, c.TTL)
		if err != nil {
			logger.Warnw("redis cache disabled", "error", err)
			return nil
		}
		return r
	}
	return nil
}
