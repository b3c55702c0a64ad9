package engine

import (
	"go.uber.org/zap"

	"boardbot/oracle"
	"boardbot/types"
)

// Game implements GameEngine by pairing a Store with a Scheduler.
type Game struct {
	config    GameConfig
	store     *Store
	scheduler *Scheduler
	log       *zap.SugaredLogger
}

var _ GameEngine = (*Game)(nil)

// NewGame creates a game that asks o for machine moves.
func NewGame(cfg GameConfig, o oracle.Oracle, log *zap.SugaredLogger) *Game {
	log = log.With("variant", cfg.Variant.Name)
	store := NewStore(cfg.Variant, cfg.StartingPlayer, log)
	scheduler := NewScheduler(store, o, SchedulerConfig{
		Autoplay:         cfg.Autoplay,
		SearchDepth:      cfg.SearchDepth,
		FetchWinningLine: cfg.FetchWinningLine,
	}, log)
	return &Game{
		config:    cfg,
		store:     store,
		scheduler: scheduler,
		log:       log,
	}
}

// Connect starts the game with the configured starting player.
func (g *Game) Connect() error {
	g.log.Infow("game started",
		"starting_player", g.config.StartingPlayer.String(),
		"autoplay", g.scheduler.Autoplay(),
		"depth", g.scheduler.SearchDepth())
	g.store.Start()
	return nil
}

func (g *Game) State() State {
	return g.store.Snapshot()
}

func (g *Game) PlayMove(target types.Placement) bool {
	return g.store.SubmitHumanPlacement(target)
}

func (g *Game) RequestMachineMove() bool {
	return g.scheduler.Trigger()
}

func (g *Game) Reset() {
	g.log.Infow("game reset")
	g.store.Reset()
}

func (g *Game) SetAutoplay(on bool) {
	g.scheduler.SetAutoplay(on)
}

func (g *Game) Autoplay() bool {
	return g.scheduler.Autoplay()
}

func (g *Game) SetSearchDepth(depth int) {
	g.scheduler.SetSearchDepth(depth)
}

func (g *Game) SearchDepth() int {
	return g.scheduler.SearchDepth()
}

func (g *Game) SetStartingPlayer(o types.Owner) {
	g.store.SetStartingPlayer(o)
}

func (g *Game) Loading() bool {
	return g.scheduler.Loading()
}

func (g *Game) LastError() error {
	return g.scheduler.LastError()
}

// OnChange registers fn for both store transitions and scheduler updates.
func (g *Game) OnChange(fn func(State)) {
	g.store.OnChange(fn)
	g.scheduler.OnChange(func() {
		fn(g.store.Snapshot())
	})
}

func (g *Game) Close() {
	g.scheduler.Close()
}
