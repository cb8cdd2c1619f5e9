package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	var fromYAML Match3Config
	if err := yaml.Unmarshal(GetDefaultYAML("match3"), &fromYAML); err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}

	if fromYAML != DefaultMatch3Config() {
		t.Errorf("embedded defaults = %+v, want %+v", fromYAML, DefaultMatch3Config())
	}
}

func TestLoadMatch3CustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	data := []byte(`
board:
  rows: 6
  cols: 7
  kinds: 4
gameplay:
  starting_moves: 9
  enforce_adjacency: true
reward:
  per_window: 10
  policy: combo
cascade:
  until_stable: true
  max_passes: 5
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadMatch3(path)
	if err != nil {
		t.Fatalf("LoadMatch3() failed: %v", err)
	}

	if cfg.Board.Rows != 6 || cfg.Board.Cols != 7 || cfg.Board.Kinds != 4 {
		t.Errorf("board = %+v", cfg.Board)
	}
	if cfg.Gameplay.StartingMoves != 9 || !cfg.Gameplay.EnforceAdjacency {
		t.Errorf("gameplay = %+v", cfg.Gameplay)
	}
	if cfg.Reward.PerWindow != 10 || cfg.Reward.Policy != "combo" {
		t.Errorf("reward = %+v", cfg.Reward)
	}
	if !cfg.Cascade.UntilStable || cfg.Cascade.MaxPasses != 5 {
		t.Errorf("cascade = %+v", cfg.Cascade)
	}
}

func TestLoadMatch3MissingCustomPath(t *testing.T) {
	_, err := LoadMatch3(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("expected error for missing custom config")
	}
}

func TestLoadMatch3InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("board: [1, 2"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadMatch3(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestApplyMatch3Preset(t *testing.T) {
	tests := []struct {
		preset DifficultyPreset
		moves  int
		kinds  int
	}{
		{DifficultyEasy, 30, 4},
		{DifficultyNormal, 20, 5},
		{DifficultyHard, 12, 6},
		{"", 20, 5},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultMatch3Config()
			ApplyMatch3Preset(&cfg, tc.preset)
			if cfg.Gameplay.StartingMoves != tc.moves {
				t.Errorf("moves = %d, want %d", cfg.Gameplay.StartingMoves, tc.moves)
			}
			if cfg.Board.Kinds != tc.kinds {
				t.Errorf("kinds = %d, want %d", cfg.Board.Kinds, tc.kinds)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	if ParsePreset("hard") != DifficultyHard {
		t.Error("hard should parse")
	}
	if ParsePreset("fixed") != "" {
		t.Error("unknown presets should map to empty")
	}
}

func TestLoadMatch3PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("gameplay:\n  starting_moves: 7\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadMatch3(path)
	if err != nil {
		t.Fatalf("LoadMatch3() failed: %v", err)
	}

	want := DefaultMatch3Config()
	want.Gameplay.StartingMoves = 7
	if cfg != want {
		t.Errorf("LoadMatch3() = %+v, want %+v", cfg, want)
	}
}

func TestLoadMatch3RejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	if err := os.WriteFile(path, []byte("board:\n  rowz: 9\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadMatch3(path); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestLoadMatch3EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadMatch3(path)
	if err != nil {
		t.Fatalf("LoadMatch3() failed: %v", err)
	}
	if cfg != DefaultMatch3Config() {
		t.Errorf("empty file changed the rules: %+v", cfg)
	}
}

func TestWriteDefaultMatch3(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "match3.yaml")

	if err := WriteDefaultMatch3(path, false); err != nil {
		t.Fatalf("WriteDefaultMatch3() failed: %v", err)
	}
	if err := WriteDefaultMatch3(path, false); err == nil {
		t.Error("second write without overwrite should fail")
	}
	if err := WriteDefaultMatch3(path, true); err != nil {
		t.Errorf("overwrite failed: %v", err)
	}

	cfg, err := LoadMatch3(path)
	if err != nil {
		t.Fatalf("LoadMatch3() failed: %v", err)
	}
	if cfg != DefaultMatch3Config() {
		t.Errorf("written file loads as %+v", cfg)
	}
}
