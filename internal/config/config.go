// Package config loads the tailview TOML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Display DisplayConfig
	Feed    FeedConfig
}

type DisplayConfig struct {
	// RefreshRateMS is the UI refresh tick interval.
	RefreshRateMS int `toml:"refresh_rate_ms"`

	// FollowToleranceLines is how far (in lines) the window may drift
	// from the bottom before auto-follow pauses.
	FollowToleranceLines int `toml:"follow_tolerance_lines"`

	// EntranceStaggerMS is the cosmetic per-item highlight delay applied
	// to freshly arrived events, proportional to their batch index.
	EntranceStaggerMS int `toml:"entrance_stagger_ms"`

	// NewHighlightMS is how long a freshly arrived event keeps its
	// highlight style.
	NewHighlightMS int `toml:"new_highlight_ms"`
}

type FeedConfig struct {
	// Path is the JSONL event file to follow. Empty means no file feed.
	Path string `toml:"path"`

	// PollIntervalMS is how often the follower checks for appended lines.
	PollIntervalMS int `toml:"poll_interval_ms"`
}

func DefaultConfig() Config {
	return Config{
		Display: DisplayConfig{
			RefreshRateMS:        200,
			FollowToleranceLines: 2,
			EntranceStaggerMS:    40,
			NewHighlightMS:       800,
		},
		Feed: FeedConfig{
			PollIntervalMS: 250,
		},
	}
}

type LoadResult struct {
	Config   Config
	Warnings []string
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tailview", "config.toml")
}

func Load() (*LoadResult, error) {
	return LoadFrom(defaultConfigPath())
}

func LoadFrom(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			return &LoadResult{Config: cfg}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromString(string(data))
}

type tomlFile struct {
	Display *DisplayConfig `toml:"display"`
	Feed    *FeedConfig    `toml:"feed"`
}

func LoadFromString(data string) (*LoadResult, error) {
	cfg := DefaultConfig()
	result := &LoadResult{Config: cfg}

	if data == "" {
		return result, nil
	}

	var raw map[string]any
	if _, err := toml.Decode(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	knownTopLevel := map[string]bool{
		"display": true,
		"feed":    true,
	}
	for key := range raw {
		if !knownTopLevel[key] {
			result.Warnings = append(result.Warnings, fmt.Sprintf("unknown config key: %q", key))
		}
	}

	var tf tomlFile
	if _, err := toml.Decode(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	mergeFromRaw(&result.Config, &tf, raw)

	if err := validate(&result.Config); err != nil {
		return nil, err
	}

	return result, nil
}

// mergeFromRaw overlays only the keys that actually appear in the file,
// so absent keys keep their defaults even when a section is present.
func mergeFromRaw(cfg *Config, tf *tomlFile, raw map[string]any) {
	if tf.Display != nil {
		if section, ok := rawSection(raw, "display"); ok {
			if _, exists := section["refresh_rate_ms"]; exists {
				cfg.Display.RefreshRateMS = tf.Display.RefreshRateMS
			}
			if _, exists := section["follow_tolerance_lines"]; exists {
				cfg.Display.FollowToleranceLines = tf.Display.FollowToleranceLines
			}
			if _, exists := section["entrance_stagger_ms"]; exists {
				cfg.Display.EntranceStaggerMS = tf.Display.EntranceStaggerMS
			}
			if _, exists := section["new_highlight_ms"]; exists {
				cfg.Display.NewHighlightMS = tf.Display.NewHighlightMS
			}
		}
	}
	if tf.Feed != nil {
		if section, ok := rawSection(raw, "feed"); ok {
			if _, exists := section["path"]; exists {
				cfg.Feed.Path = tf.Feed.Path
			}
			if _, exists := section["poll_interval_ms"]; exists {
				cfg.Feed.PollIntervalMS = tf.Feed.PollIntervalMS
			}
		}
	}
}

func rawSection(raw map[string]any, key string) (map[string]any, bool) {
	v, ok := raw[key]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

func validate(cfg *Config) error {
	var errs []string

	if cfg.Display.RefreshRateMS < 1 {
		errs = append(errs, fmt.Sprintf("refresh_rate_ms must be positive, got %d", cfg.Display.RefreshRateMS))
	}
	if cfg.Display.FollowToleranceLines < 0 {
		errs = append(errs, fmt.Sprintf("follow_tolerance_lines must be >= 0, got %d", cfg.Display.FollowToleranceLines))
	}
	if cfg.Display.EntranceStaggerMS < 0 {
		errs = append(errs, fmt.Sprintf("entrance_stagger_ms must be >= 0, got %d", cfg.Display.EntranceStaggerMS))
	}
	if cfg.Display.NewHighlightMS < 0 {
		errs = append(errs, fmt.Sprintf("new_highlight_ms must be >= 0, got %d", cfg.Display.NewHighlightMS))
	}
	if cfg.Feed.PollIntervalMS < 1 {
		errs = append(errs, fmt.Sprintf("poll_interval_ms must be positive, got %d", cfg.Feed.PollIntervalMS))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation error: %s", strings.Join(errs, "; "))
	}
	return nil
}
