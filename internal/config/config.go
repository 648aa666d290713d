package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	perrors "github.com/tesso57/commit-pet/internal/errors"
)

const (
	AppName        = "commit-pet"
	StateFileName  = "state.json"
	ConfigFileName = "config.yaml"
	HistoryDBName  = "history.db"

	configHomeEnv = "XDG_CONFIG_HOME"
)

const (
	ColorSchemeDefault    = "default"
	ColorSchemeMonochrome = "monochrome"
)

// Config is built once at process start and passed to whatever needs it.
type Config struct {
	// Dir is <config-root>/commit-pet.
	Dir string `yaml:"-"`

	Pet     PetConfig     `yaml:"pet"`
	Display DisplayConfig `yaml:"display"`
	History HistoryConfig `yaml:"history"`
}

type PetConfig struct {
	ExpPerCommit int `yaml:"exp_per_commit"`
}

type DisplayConfig struct {
	ShowEmoji   bool   `yaml:"show_emoji"`
	ColorScheme string `yaml:"color_scheme"`
}

type HistoryConfig struct {
	Enabled bool `yaml:"enabled"`
}

// StatePath is the location of the persisted pet record.
func (c Config) StatePath() string { return filepath.Join(c.Dir, StateFileName) }

// UserConfigPath is the optional YAML file holding user preferences.
func (c Config) UserConfigPath() string { return filepath.Join(c.Dir, ConfigFileName) }

// HistoryPath is the SQLite feed journal.
func (c Config) HistoryPath() string { return filepath.Join(c.Dir, HistoryDBName) }

func defaults(dir string) Config {
	return Config{
		Dir:     dir,
		Pet:     PetConfig{ExpPerCommit: 1},
		Display: DisplayConfig{ShowEmoji: true, ColorScheme: ColorSchemeDefault},
		History: HistoryConfig{Enabled: true},
	}
}

// Env looks up an environment variable. os.LookupEnv satisfies it.
type Env func(key string) (string, bool)

// ResolveDir returns <config-root>/commit-pet where <config-root> is
// $XDG_CONFIG_HOME, or ~/.config when that is unset or empty.
func ResolveDir(env Env, home func() (string, error)) (string, error) {
	if v, ok := env(configHomeEnv); ok && v != "" {
		return filepath.Join(v, AppName), nil
	}
	homeDir, err := home()
	if err != nil {
		return "", perrors.Wrap(perrors.KindFilesystem, err, "Failed to resolve home directory")
	}
	return filepath.Join(homeDir, ".config", AppName), nil
}

// Load resolves the config directory and overlays config.yaml, if present,
// onto the defaults. A config.yaml that fails to parse is ignored with a
// warning; values that parse but are out of range are a validation error.
func Load(env Env, log *zap.Logger) (Config, error) {
	dir, err := ResolveDir(env, os.UserHomeDir)
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(dir, log)
}

// LoadFrom is Load with an already resolved directory.
func LoadFrom(dir string, log *zap.Logger) (Config, error) {
	cfg := defaults(dir)

	data, err := os.ReadFile(cfg.UserConfigPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		log.Warn("could not read user config, using defaults", zap.String("path", cfg.UserConfigPath()), zap.Error(err))
		return cfg, nil
	}

	overlay := cfg
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		log.Warn("invalid user config, using defaults", zap.String("path", cfg.UserConfigPath()), zap.Error(err))
		return cfg, nil
	}
	overlay.Dir = dir

	if err := overlay.Validate(); err != nil {
		return Config{}, err
	}
	return overlay, nil
}

func (c Config) Validate() error {
	if c.Pet.ExpPerCommit < 1 {
		return perrors.New(perrors.KindValidation, fmt.Sprintf("pet.exp_per_commit must be at least 1 (got %d)", c.Pet.ExpPerCommit))
	}
	switch c.Display.ColorScheme {
	case ColorSchemeDefault, ColorSchemeMonochrome:
	default:
		return perrors.New(perrors.KindValidation, fmt.Sprintf("display.color_scheme must be %q or %q (got %q)", ColorSchemeDefault, ColorSchemeMonochrome, c.Display.ColorScheme))
	}
	return nil
}
