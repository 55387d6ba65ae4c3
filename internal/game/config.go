package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultFPS is the simulation frame rate.
	DefaultFPS = 30
	// MaxPlayers is the number of input bindings available.
	MaxPlayers = 4
)

// Config holds game configuration options.
type Config struct {
	// Seed for random number generation. Used for reproducible caves.
	// A seed of 0 means a random seed will be generated.
	Seed int64
	// Players is the number of players, 1 to MaxPlayers.
	Players int
	// Level is the zero-based index of the first level.
	Level int
	// Muted disables sound.
	Muted bool
	// FPS is the number of frames simulated per second.
	FPS int
	// RandomLevels appends that many generated caves after the built-in levels.
	RandomLevels int
	// LevelPack is the path of a JSON level file replacing the built-in levels.
	LevelPack string
}

// Configuration errors.
var (
	ErrPlayers = errors.New("players out of range")
	ErrFPS     = errors.New("fps must be positive")
)

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Players: 1,
		FPS:     DefaultFPS,
	}
}

// Environment variables read by ConfigFromEnv.
const (
	EnvSeed         = "CAVEDASH_SEED"
	EnvPlayers      = "CAVEDASH_PLAYERS"
	EnvLevel        = "CAVEDASH_LEVEL"
	EnvMute         = "CAVEDASH_MUTE"
	EnvFPS          = "CAVEDASH_FPS"
	EnvRandomLevels = "CAVEDASH_RANDOM_LEVELS"
	EnvLevelPack    = "CAVEDASH_LEVELS"
)

// ConfigFromEnv builds a configuration from environment variables, starting
// from DefaultConfig. getenv is usually os.Getenv.
func ConfigFromEnv(getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()

	ints := []struct {
		key string
		dst *int
	}{
		{EnvPlayers, &cfg.Players},
		{EnvLevel, &cfg.Level},
		{EnvFPS, &cfg.FPS},
		{EnvRandomLevels, &cfg.RandomLevels},
	}
	for _, v := range ints {
		s := strings.TrimSpace(getenv(v.key))
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return cfg, fmt.Errorf("parse %s: %w", v.key, err)
		}
		*v.dst = n
	}

	if s := strings.TrimSpace(getenv(EnvSeed)); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("parse %s: %w", EnvSeed, err)
		}
		cfg.Seed = seed
	}
	if s := strings.TrimSpace(getenv(EnvMute)); s != "" {
		muted, err := strconv.ParseBool(s)
		if err != nil {
			return cfg, fmt.Errorf("parse %s: %w", EnvMute, err)
		}
		cfg.Muted = muted
	}
	cfg.LevelPack = strings.TrimSpace(getenv(EnvLevelPack))

	return cfg, cfg.Validate()
}

// Validate checks the configuration ranges.
func (c Config) Validate() error {
	if c.Players < 1 || c.Players > MaxPlayers {
		return fmt.Errorf("%w: %d (want 1-%d)", ErrPlayers, c.Players, MaxPlayers)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: %d", ErrFPS, c.FPS)
	}
	if c.RandomLevels < 0 {
		return fmt.Errorf("random levels must not be negative: %d", c.RandomLevels)
	}
	return nil
}
