// Package config provides YAML-based configuration for self-play runs,
// with environment overrides.
package config

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/zeroplay/internal/game"
	"github.com/vovakirdan/zeroplay/internal/games/mnk"
	"github.com/vovakirdan/zeroplay/internal/registry"
	"github.com/vovakirdan/zeroplay/internal/rng"
)

// Config contains everything a run needs besides its command-line flags.
type Config struct {
	Variant  string      `yaml:"variant" env:"VARIANT"`
	Seed     uint64      `yaml:"seed" env:"SEED"`
	Stream   uint64      `yaml:"stream" env:"STREAM"`
	Games    int         `yaml:"games" env:"GAMES"`
	Workers  int         `yaml:"workers" env:"WORKERS"` // 0 means one per CPU
	MaxTurns int         `yaml:"max_turns" env:"MAX_TURNS"`
	DBPath   string      `yaml:"db_path" env:"DB_PATH"`
	LogLevel string      `yaml:"log_level" env:"LOG_LEVEL"`
	MNK      mnk.Options `yaml:"mnk" envPrefix:"MNK_"`
}

// Default returns the hardcoded configuration.
func Default() Config {
	return Config{
		Variant:  game.VariantTicTacToe.String(),
		Seed:     rng.DefaultSeed,
		Stream:   rng.DefaultStream,
		Games:    1000,
		Workers:  0,
		MaxTurns: 0,
		DBPath:   "~/.zeroplay/zeroplay.db",
		LogLevel: "info",
		MNK:      mnk.DefaultOptions(),
	}
}

// GameVariant resolves the configured variant.
func (c Config) GameVariant() (game.Variant, error) {
	return game.ParseVariant(c.Variant)
}

// RegistryOptions returns the construction options for the configured games.
func (c Config) RegistryOptions() registry.Options {
	return registry.Options{MNK: c.MNK}
}

// Level parses the configured log level.
func (c Config) Level() (log.Level, error) {
	return log.ParseLevel(c.LogLevel)
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var errs []error

	v, err := c.GameVariant()
	if err != nil {
		errs = append(errs, err)
	}
	if c.Games < 0 {
		errs = append(errs, fmt.Errorf("games must be non-negative, got %d", c.Games))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be non-negative, got %d", c.Workers))
	}
	if c.MaxTurns < 0 {
		errs = append(errs, fmt.Errorf("max_turns must be non-negative, got %d", c.MaxTurns))
	}
	if v == game.VariantMNK {
		if err := c.MNK.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("mnk: %w", err))
		}
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
