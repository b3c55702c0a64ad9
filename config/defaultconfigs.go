package config

import (
	"time"

	"github.com/spf13/viper"
)

var DefaultConfig Config
var DefaultTheme Theme

func init() {
	DefaultTheme = Theme{
		DrawCursorBackground:    true,
		DrawHighlightBackground: true,
		UseGridLines:            true,
		Colors: ConfigColors{
			BoardColor:     25,
			BoardColorAlt:  24,
			HumanColor:     226,
			MachineColor:   196,
			LineColor:      67,
			CursorColorFG:  2,
			CursorColorBG:  4,
			HighlightColor: 2,
		},
		Symbols: ConfigSymbols{
			HumanPiece:   "●",
			MachinePiece: "●",
			BoardSquare:  "┼",
			Preview:      "○",
		},
	}

	DefaultConfig = Config{
		Oracle: OracleConfig{
			BaseURL:          "http://localhost:8000/api/game_pigeon",
			Timeout:          10 * time.Second,
			MaxRetries:       2,
			RetryWait:        250 * time.Millisecond,
			FetchWinningLine: true,
		},
		Cache: CacheConfig{
			Backend: CacheMemory,
			Size:    1024,
			TTL:     24 * time.Hour,
		},
		Game: GameConfig{
			Variant:        "connect4",
			StartingPlayer: "human",
			SearchDepth:    6,
			Autoplay:       true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Theme: DefaultTheme,
	}
}

// setDefaults registers every key so environment overrides apply to it.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig

	v.SetDefault("oracle.base_url", d.Oracle.BaseURL)
	v.SetDefault("oracle.timeout", d.Oracle.Timeout)
	v.SetDefault("oracle.max_retries", d.Oracle.MaxRetries)
	v.SetDefault("oracle.retry_wait", d.Oracle.RetryWait)
	v.SetDefault("oracle.fetch_winning_line", d.Oracle.FetchWinningLine)

	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.size", d.Cache.Size)
	v.SetDefault("cache.redis_url", d.Cache.RedisURL)
	v.SetDefault("cache.ttl", d.Cache.TTL)

	v.SetDefault("game.variant", d.Game.Variant)
	v.SetDefault("game.starting_player", d.Game.StartingPlayer)
	v.SetDefault("game.search_depth", d.Game.SearchDepth)
	v.SetDefault("game.autoplay", d.Game.Autoplay)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)

	t := d.Theme
	v.SetDefault("theme.draw_cursor_bg", t.DrawCursorBackground)
	v.SetDefault("theme.draw_highlight_bg", t.DrawHighlightBackground)
	v.SetDefault("theme.use_grid_lines", t.UseGridLines)
	v.SetDefault("theme.colors.board", t.Colors.BoardColor)
	v.SetDefault("theme.colors.board_alt", t.Colors.BoardColorAlt)
	v.SetDefault("theme.colors.human", t.Colors.HumanColor)
	v.SetDefault("theme.colors.machine", t.Colors.MachineColor)
	v.SetDefault("theme.colors.line", t.Colors.LineColor)
	v.SetDefault("theme.colors.cursor_fg", t.Colors.CursorColorFG)
	v.SetDefault("theme.colors.cursor_bg", t.Colors.CursorColorBG)
	v.SetDefault("theme.colors.highlight_bg", t.Colors.HighlightColor)
	v.SetDefault("theme.symbols.human", t.Symbols.HumanPiece)
	v.SetDefault("theme.symbols.machine", t.Symbols.MachinePiece)
	v.SetDefault("theme.symbols.board", t.Symbols.BoardSquare)
	v.SetDefault("theme.symbols.preview", t.Symbols.Preview)
}
