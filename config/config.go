// Package config loads settings from defaults, an XDG config file, the
// environment and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/adrg/xdg"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"boardbot/types"
)

var (
	cfgFile   = "boardbot/config.json"
	envPrefix = "BOARDBOT"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type OracleConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// Timeout bounds a single HTTP attempt.
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxRetries       int           `mapstructure:"max_retries"`
	RetryWait        time.Duration `mapstructure:"retry_wait"`
	FetchWinningLine bool          `mapstructure:"fetch_winning_line"`
}

type CacheConfig struct {
	Backend  string        `mapstructure:"backend"`
	Size     int           `mapstructure:"size"`
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// GameConfig holds the defaults offered on the setup screen.
type GameConfig struct {
	Variant        string `mapstructure:"variant"`
	StartingPlayer string `mapstructure:"starting_player"`
	SearchDepth    int    `mapstructure:"search_depth"`
	Autoplay       bool   `mapstructure:"autoplay"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	// File is the log destination. Empty means the XDG state directory.
	File string `mapstructure:"file"`
}

type ConfigColors struct {
	BoardColor     int `mapstructure:"board"`
	BoardColorAlt  int `mapstructure:"board_alt"`
	HumanColor     int `mapstructure:"human"`
	MachineColor   int `mapstructure:"machine"`
	LineColor      int `mapstructure:"line"`
	CursorColorFG  int `mapstructure:"cursor_fg"`
	CursorColorBG  int `mapstructure:"cursor_bg"`
	HighlightColor int `mapstructure:"highlight_bg"`
}

type ConfigSymbols struct {
	HumanPiece   string `mapstructure:"human"`
	MachinePiece string `mapstructure:"machine"`
	BoardSquare  string `mapstructure:"board"`
	Preview      string `mapstructure:"preview"`
}

type Theme struct {
	DrawCursorBackground    bool          `mapstructure:"draw_cursor_bg"`
	DrawHighlightBackground bool          `mapstructure:"draw_highlight_bg"`
	UseGridLines            bool          `mapstructure:"use_grid_lines"`
	Colors                  ConfigColors  `mapstructure:"colors"`
	Symbols                 ConfigSymbols `mapstructure:"symbols"`
}

type Config struct {
	Oracle OracleConfig `mapstructure:"oracle"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Game   GameConfig   `mapstructure:"game"`
	Log    LogConfig    `mapstructure:"log"`
	Theme  Theme        `mapstructure:"theme"`
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"variant":  "game.variant",
	"first":    "game.starting_player",
	"depth":    "game.search_depth",
	"autoplay": "game.autoplay",
	"oracle":   "oracle.base_url",
}

// InitConfig loads the configuration. path overrides the XDG search when set;
// flags may be nil.
func InitConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path == "" {
		if found, err := xdg.SearchConfigFile(cfgFile); err == nil {
			path = found
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	if _, ok := types.VariantByName(c.Game.Variant); !ok {
		return &InvalidConfig{fmt.Sprintf("unknown variant %q", c.Game.Variant)}
	}
	if _, err := types.ParseOwner(c.Game.StartingPlayer); err != nil {
		return &InvalidConfig{fmt.Sprintf("starting player: %s", err)}
	}
	if c.Game.SearchDepth < 1 || c.Game.SearchDepth > 8 {
		return &InvalidConfig{"search depth must be between 1 and 8"}
	}

	if err := ValidateOracleURL(c.Oracle.BaseURL); err != nil {
		return err
	}
	if c.Oracle.Timeout <= 0 {
		return &InvalidConfig{"oracle timeout must be positive"}
	}
	if c.Oracle.MaxRetries < 0 {
		return &InvalidConfig{"oracle max retries cannot be negative"}
	}

	switch c.Cache.Backend {
	case CacheNone:
	case CacheMemory:
		if c.Cache.Size <= 0 {
			return &InvalidConfig{"memory cache size must be positive"}
		}
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return &InvalidConfig{"redis cache needs cache.redis_url"}
		}
	default:
		return &InvalidConfig{fmt.Sprintf("unknown cache backend %q", c.Cache.Backend)}
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return &InvalidConfig{fmt.Sprintf("log level %q", c.Log.Level)}
	}

	for _, s := range []string{c.Theme.Symbols.HumanPiece, c.Theme.Symbols.MachinePiece, c.Theme.Symbols.BoardSquare, c.Theme.Symbols.Preview} {
		if utf8.RuneCountInString(s) != 1 {
			return &InvalidConfig{fmt.Sprintf("symbol %q must be a single character", s)}
		}
		r, _ := utf8.DecodeRuneInString(s)
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	return nil
}

// ValidateOracleURL checks that s is an absolute http(s) URL.
func ValidateOracleURL(s string) error {
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &InvalidConfig{fmt.Sprintf("oracle base URL %q must be an absolute http(s) URL", s)}
	}
	return nil
}

// Symbol returns the single rune of a validated theme symbol.
func Symbol(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

// FilePath returns the config file to write: path when set, otherwise the
// XDG location, whose directories are created.
func FilePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return xdg.ConfigFile(cfgFile)
}

// SaveTheme stores the theme colors in the config file at path. Other
// settings in the file are kept.
func SaveTheme(path string, theme Theme) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	c := theme.Colors
	for key, value := range map[string]int{
		"theme.colors.board":        c.BoardColor,
		"theme.colors.board_alt":    c.BoardColorAlt,
		"theme.colors.human":        c.HumanColor,
		"theme.colors.machine":      c.MachineColor,
		"theme.colors.line":         c.LineColor,
		"theme.colors.cursor_fg":    c.CursorColorFG,
		"theme.colors.cursor_bg":    c.CursorColorBG,
		"theme.colors.highlight_bg": c.HighlightColor,
	} {
		v.Set(key, value)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
