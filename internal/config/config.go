// Package config loads clipshelf settings from ~/.clipshelf/config.yaml, a
// .env file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/its-jojoo/clipshelf/internal/core"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

type Config struct {
	Backend     string        `yaml:"backend"`
	DataDir     string        `yaml:"data_dir"`
	MetricsAddr string        `yaml:"metrics_addr"`
	Capture     CaptureConfig `yaml:"capture"`
	Suggest     SuggestConfig `yaml:"suggest"`
}

type CaptureConfig struct {
	Interval          time.Duration `yaml:"interval"`
	Ignore            []string      `yaml:"ignore"`
	IgnoreRegex       bool          `yaml:"ignore_regex"`
	DedupeConsecutive bool          `yaml:"dedupe_consecutive"`
}

type SuggestConfig struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url,omitempty"`
	APIKey  string `yaml:"-"` // environment only
}

func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".clipshelf"
	}
	return filepath.Join(home, ".clipshelf")
}

func DefaultPath() string { return filepath.Join(DefaultDir(), "config.yaml") }

func DefaultConfig() Config {
	return Config{
		Backend: BackendSQLite,
		DataDir: DefaultDir(),
		Capture: CaptureConfig{
			Interval:          350 * time.Millisecond,
			Ignore:            append([]string(nil), core.DefaultIgnorePatterns...),
			DedupeConsecutive: true,
		},
		Suggest: SuggestConfig{Model: "gpt-4o-mini"},
	}
}

// Load reads path, creating it with the defaults when missing, then applies
// .env and environment overrides.
func Load(path string) (Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return Config{}, err
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	// a missing .env is normal
	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv("CLIPSHELF_BACKEND"); ok {
		c.Backend = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv("CLIPSHELF_DATA_DIR"); ok {
		c.DataDir = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
		c.Suggest.APIKey = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv("OPENAI_MODEL"); ok && v != "" {
		c.Suggest.Model = strings.TrimSpace(v)
	}
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendSQLite, BackendBadger:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	if c.DataDir == "" {
		return errors.New("config: data_dir is empty")
	}
	return nil
}

func createDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write defaults: %w", err)
	}
	return nil
}
