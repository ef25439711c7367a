package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}

	if cfg.Expression.Threshold != 5 {
		t.Errorf("expected expression threshold 5, got %d", cfg.Expression.Threshold)
	}
	if len(cfg.Icons.Primary) != 2 || len(cfg.Icons.Secondary) != 3 {
		t.Errorf("expected 2 primary and 3 secondary icons, got %d and %d",
			len(cfg.Icons.Primary), len(cfg.Icons.Secondary))
	}
	if cfg.Aura.Count != 500 {
		t.Errorf("expected 500 aura particles, got %d", cfg.Aura.Count)
	}
	if cfg.Derived.CycleTicks != 42 {
		t.Errorf("expected 42 ticks per jiggle cycle at speed 0.15, got %d", cfg.Derived.CycleTicks)
	}
	if cfg.Derived.MaxPolarAngle <= 1.57 || cfg.Derived.MaxPolarAngle >= 1.58 {
		t.Errorf("expected max polar angle pi/2, got %f", cfg.Derived.MaxPolarAngle)
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := []byte("sequencer:\n  pause_ticks: 30\nscreen:\n  width: 640\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Sequencer.PauseTicks != 30 {
		t.Errorf("expected pause_ticks 30, got %d", cfg.Sequencer.PauseTicks)
	}
	if cfg.Screen.Width != 640 {
		t.Errorf("expected width 640, got %d", cfg.Screen.Width)
	}
	// Untouched fields keep their defaults
	if cfg.Screen.Height != 800 {
		t.Errorf("expected default height 800, got %d", cfg.Screen.Height)
	}
	if cfg.Sequencer.Speed != 0.15 {
		t.Errorf("expected default speed 0.15, got %f", cfg.Sequencer.Speed)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero speed", "sequencer:\n  speed: 0\n"},
		{"negative pause", "sequencer:\n  pause_ticks: -1\n"},
		{"zero threshold", "expression:\n  threshold: 0\n"},
		{"bad background", "screen:\n  background: \"#12\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected an error, got nil")
			}
		})
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want [3]uint8
	}{
		{"#aaaaff", [3]uint8{0xaa, 0xaa, 0xff}},
		{"ff0000", [3]uint8{0xff, 0, 0}},
		{"", [3]uint8{}},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if err != nil {
			t.Errorf("ParseHexColor(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseHexColor("#zzzzzz"); err == nil {
		t.Error("expected error for non-hex digits")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("reloading written config failed: %v", err)
	}
	if again.Sequencer != cfg.Sequencer {
		t.Errorf("sequencer config changed across write: %+v vs %+v", again.Sequencer, cfg.Sequencer)
	}
}
