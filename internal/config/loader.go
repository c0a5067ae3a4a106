package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if FFTOOL_CONFIG is set
//  3. env (prefix FFTOOL_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("FFTOOL_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: FFTOOL_TEAMS, FFTOOL_MIN_SOURCES, ...
	// Map env keys like FFTOOL_MIN_SOURCES -> min_sources (flat keys).
	envProvider := env.Provider("FFTOOL_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "fftool_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.Teams <= 0 || cfg.Budget <= 0 || cfg.RosterSize <= 0 {
		return nil, errors.New("teams, budget, and roster_size must be positive")
	}
	if cfg.MinSources < 1 {
		return nil, errors.New("min_sources must be at least 1")
	}
	if cfg.MaxQuarantineRatio < 0 || cfg.MaxQuarantineRatio > 1 {
		return nil, errors.New("max_quarantine_ratio must be in [0, 1]")
	}
	return &cfg, nil
}
