// Package prefs keeps per-machine preferences that never leave the device.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/its-jojoo/clipshelf/internal/core"
)

const FileName = "prefs.yaml"

type file struct {
	Theme string `yaml:"theme"`
}

type Store struct {
	path string
}

func New(dir string) *Store {
	return &Store{path: filepath.Join(dir, FileName)}
}

// Theme returns the saved theme, or system when nothing valid is saved.
func (s *Store) Theme() (core.Theme, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return core.ThemeSystem, nil
	}
	if err != nil {
		return core.ThemeSystem, fmt.Errorf("prefs: read: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return core.ThemeSystem, fmt.Errorf("prefs: parse %s: %w", s.path, err)
	}
	th, ok := core.ParseTheme(f.Theme)
	if !ok {
		return core.ThemeSystem, nil
	}
	return th, nil
}

func (s *Store) SetTheme(th core.Theme) error {
	if _, ok := core.ParseTheme(string(th)); !ok {
		return fmt.Errorf("prefs: unknown theme %q", th)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("prefs: create dir: %w", err)
	}
	raw, err := yaml.Marshal(file{Theme: string(th)})
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("prefs: write: %w", err)
	}
	return nil
}
