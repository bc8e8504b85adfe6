package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileName = "thrifty.yaml"

// Load resolves the configuration.
// Search order: customPath -> ~/.thrifty/configs/thrifty.yaml -> ./configs/thrifty.yaml -> embedded default.
// An explicit customPath that cannot be read or parsed is an error; the
// other locations are skipped silently when absent or malformed.
func Load(customPath string) (Config, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	for _, path := range []string{userConfigPath(), filepath.Join("configs", fileName)} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	cfg, err := Parse(defaultYAML)
	if err != nil {
		return Default(), nil
	}
	return cfg, nil
}

// Parse decodes YAML on top of the built-in defaults and validates the result.
// Sections missing from data keep their default values; lists given in data
// replace the default lists entirely.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	cfg.Categories = nil
	cfg.Rounds = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	def := Default()
	if cfg.Categories == nil {
		cfg.Categories = def.Categories
	}
	if cfg.Rounds == nil {
		cfg.Rounds = def.Rounds
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// userConfigPath returns ~/.thrifty/configs/thrifty.yaml, or "" without a home directory.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".thrifty", "configs", fileName)
}
