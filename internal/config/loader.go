package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Match3FileName is the rules file looked up in the config directories.
const Match3FileName = "match3.yaml"

// UserConfigPath returns ~/.arcade/configs/<filename>, or "" when the home
// directory is unknown.
func UserConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}

// searchPaths lists the files LoadMatch3 tries when no custom path is given,
// most specific first.
func searchPaths() []string {
	var paths []string
	if p := UserConfigPath(Match3FileName); p != "" {
		paths = append(paths, p)
	}
	return append(paths, filepath.Join("configs", Match3FileName))
}

// LoadMatch3 loads the match-3 rules. Files are layered over the embedded
// defaults, so a file only needs the keys it changes.
//
// A custom path must exist and parse, and unknown keys in it are rejected.
// Otherwise the first readable file of ~/.arcade/configs/match3.yaml and
// ./configs/match3.yaml is used, and broken files there are skipped.
func LoadMatch3(customPath string) (Match3Config, error) {
	cfg := embeddedMatch3()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := decodeStrict(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	for _, path := range searchPaths() {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		layered := cfg
		if err := yaml.Unmarshal(data, &layered); err == nil {
			return layered, nil
		}
	}
	return cfg, nil
}

// embeddedMatch3 parses the embedded defaults, falling back to the
// hardcoded ones.
func embeddedMatch3() Match3Config {
	var cfg Match3Config
	if err := yaml.Unmarshal(defaultMatch3YAML, &cfg); err != nil {
		return DefaultMatch3Config()
	}
	return cfg
}

func decodeStrict(data []byte, cfg *Match3Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// WriteDefaultMatch3 writes the embedded default rules to path, creating
// parent directories. An existing file is only replaced when overwrite is set.
func WriteDefaultMatch3(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config %s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}
	if err := os.WriteFile(path, GetDefaultYAML("match3"), 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}

// ApplyMatch3Preset modifies the config based on a difficulty preset.
// Normal keeps the loaded values.
func ApplyMatch3Preset(cfg *Match3Config, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Gameplay.StartingMoves = 30
		cfg.Board.Kinds = 4
	case DifficultyHard:
		cfg.Gameplay.StartingMoves = 12
		cfg.Board.Kinds = 6
	}
}
