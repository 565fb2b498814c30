// Package config loads the game settings from snake3d.cfg.yaml and command line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "snake3d.cfg.yaml"

// WindowConfig holds the window settings.
type WindowConfig struct {
	Title  string `json:"title" mapstructure:"title"`
	Width  int    `json:"width" mapstructure:"width"`
	Height int    `json:"height" mapstructure:"height"`
}

// EngineConfig holds the engine loop settings.
type EngineConfig struct {
	TickRate       float64 `json:"tickRate" mapstructure:"tickRate"`
	RenderLimit    float64 `json:"renderLimit" mapstructure:"renderLimit"`
	Profiling      bool    `json:"profiling" mapstructure:"profiling"`
	ComputeWorkers int     `json:"computeWorkers" mapstructure:"computeWorkers"`
}

// AnimationConfig holds the animation scheduler settings.
type AnimationConfig struct {
	TickRate       int  `json:"tickRate" mapstructure:"tickRate"`
	StrictOrdering bool `json:"strictOrdering" mapstructure:"strictOrdering"`
}

// GameConfig holds the snake game settings.
type GameConfig struct {
	Mode           string  `json:"mode" mapstructure:"mode"`
	Speed          float32 `json:"speed" mapstructure:"speed"`
	SpeedIncrement float32 `json:"speedIncrement" mapstructure:"speedIncrement"`
	Spacing        float32 `json:"spacing" mapstructure:"spacing"`
	HeadY          float32 `json:"headY" mapstructure:"headY"`
	ThirdPerson    bool    `json:"thirdPerson" mapstructure:"thirdPerson"`
	DebugCamera    bool    `json:"debugCamera" mapstructure:"debugCamera"`
	Seed           uint64  `json:"seed" mapstructure:"seed"`
}

// ScoreboardConfig holds the local high score storage settings.
type ScoreboardConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

// Settings is the typed view of the whole configuration.
type Settings struct {
	LogLevel   string           `json:"logLevel" mapstructure:"logLevel"`
	LogFormat  string           `json:"logFormat" mapstructure:"logFormat"`
	Window     WindowConfig     `json:"window" mapstructure:"window"`
	Engine     EngineConfig     `json:"engine" mapstructure:"engine"`
	Animation  AnimationConfig  `json:"animation" mapstructure:"animation"`
	Game       GameConfig       `json:"game" mapstructure:"game"`
	Scoreboard ScoreboardConfig `json:"scoreboard" mapstructure:"scoreboard"`
}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFormat", "console")

	viper.SetDefault("window.title", "Snake3D")
	viper.SetDefault("window.width", 1280)
	viper.SetDefault("window.height", 720)

	viper.SetDefault("engine.tickRate", 60.0)
	viper.SetDefault("engine.renderLimit", 60.0)
	viper.SetDefault("engine.profiling", false)
	viper.SetDefault("engine.computeWorkers", 0)

	viper.SetDefault("animation.tickRate", 60)
	viper.SetDefault("animation.strictOrdering", false)

	viper.SetDefault("game.mode", "turn")
	viper.SetDefault("game.speed", 20.0)
	viper.SetDefault("game.speedIncrement", 0.2)
	viper.SetDefault("game.spacing", 73.0)
	viper.SetDefault("game.headY", 36.0)
	viper.SetDefault("game.thirdPerson", false)
	viper.SetDefault("game.debugCamera", false)
	viper.SetDefault("game.seed", 0)

	viper.SetDefault("scoreboard.enabled", true)
	viper.SetDefault("scoreboard.path", "snake3d_scores.db")
}

// Load reads configuration from the YAML file in configDir and sets default values.
// A missing file is not an error; the defaults apply.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"log-level":    "logLevel",
	"mode":         "game.mode",
	"speed":        "game.speed",
	"third-person": "game.thirdPerson",
	"seed":         "game.seed",
	"tick-rate":    "engine.tickRate",
	"profiling":    "engine.profiling",
	"scoreboard":   "scoreboard.path",
}

// BindFlags binds the known flags of fs to their config keys so that a flag set on the
// command line overrides the file. Flags missing from fs are skipped.
func BindFlags(fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("error binding flag %s: %w", name, err)
		}
	}
	return nil
}

// Current decodes the loaded configuration into Settings and validates it.
func Current() (Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("error decoding config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// Validate reports the first setting that the game cannot run with.
func (s Settings) Validate() error {
	switch {
	case s.Game.Mode != "path" && s.Game.Mode != "turn":
		return fmt.Errorf("invalid game.mode %q: want path or turn", s.Game.Mode)
	case s.Game.Speed <= 0:
		return fmt.Errorf("invalid game.speed %v: must be positive", s.Game.Speed)
	case s.Game.Spacing <= 0:
		return fmt.Errorf("invalid game.spacing %v: must be positive", s.Game.Spacing)
	case s.Window.Width <= 0 || s.Window.Height <= 0:
		return fmt.Errorf("invalid window size %dx%d", s.Window.Width, s.Window.Height)
	case s.LogFormat != "console" && s.LogFormat != "json":
		return fmt.Errorf("invalid logFormat %q: want console or json", s.LogFormat)
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
