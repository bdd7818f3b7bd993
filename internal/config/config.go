// Package config loads wrongbook settings from an optional YAML file and
// WRONGBOOK_* environment variables. Environment values win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/wrongbook/internal/analyzer"
	"github.com/abhisek/wrongbook/internal/llm"
	"github.com/abhisek/wrongbook/internal/prompts"
)

// Config is the full application configuration.
type Config struct {
	// DBPath is the SQLite file. Empty means store.DefaultDBPath.
	DBPath string `yaml:"db_path"`

	// LogMode is "dev" or "prod".
	LogMode string `yaml:"log_mode"`

	// UserID scopes custom tags and error items on a shared database.
	UserID string `yaml:"user_id"`

	LLM     llm.Config    `yaml:"llm"`
	Prompts PromptsConfig `yaml:"prompts"`
}

// PromptsConfig tunes prompt rendering.
type PromptsConfig struct {
	Language      string             `yaml:"language"`
	ProviderHints string             `yaml:"provider_hints"`
	MaxTokens     int                `yaml:"max_tokens"`
	Temperature   float64            `yaml:"temperature"`
	Templates     analyzer.Templates `yaml:"templates"`
}

// Default returns the built-in configuration.
func Default() Config {
	an := analyzer.DefaultConfig()
	return Config{
		LogMode: "dev",
		UserID:  "local",
		LLM:     llm.DefaultConfig(),
		Prompts: PromptsConfig{
			Language:    string(an.Language),
			MaxTokens:   an.MaxTokens,
			Temperature: an.Temperature,
		},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/wrongbook/config.yaml, falling back to
// ~/.config.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "wrongbook", "config.yaml")
}

// Load reads path over the defaults and applies the environment. A missing
// file is not an error; an empty path means DefaultPath.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("WRONGBOOK_CONFIG")
	}
	if path == "" {
		path = DefaultPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.DBPath, "WRONGBOOK_DB")
	set(&c.LogMode, "WRONGBOOK_LOG_MODE")
	set(&c.UserID, "WRONGBOOK_USER")
	set(&c.Prompts.Language, "WRONGBOOK_LANGUAGE")
	set(&c.Prompts.ProviderHints, "WRONGBOOK_PROVIDER_HINTS")
	llm.ApplyEnv(&c.LLM)
}

// Analyzer returns the analyzer settings described by c.
func (c Config) Analyzer() analyzer.Config {
	return analyzer.Config{
		Language:      prompts.ParseLanguage(c.Prompts.Language),
		MaxTokens:     c.Prompts.MaxTokens,
		Temperature:   c.Prompts.Temperature,
		Templates:     c.Prompts.Templates,
		ProviderHints: c.Prompts.ProviderHints,
	}
}

// Save writes c as YAML, creating the directory when needed. API keys are
// written as given.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
