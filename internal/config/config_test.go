package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "cheese.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CHEESE_CONFIG", "")
	t.Setenv("STOCKFISH_PATH", "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.MoveTime != time.Second || cfg.Clock.Initial != 10*time.Minute {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.UI.SquarePx != 8 || cfg.UI.FrameRate != 60 {
		t.Fatalf("unexpected ui defaults: %+v", cfg.UI)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	p := writeConfig(t, `
engine:
  path: /opt/sf
  move_time: 250ms
  preset: level3
clock:
  initial: 5m
ui:
  square_px: 6
  theme:
    button: darkorange
`)
	t.Setenv("CHESS_CLOCK_MINUTES", "3")
	t.Setenv("STOCKFISH_PATH", "")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.Path != "/opt/sf" || cfg.Engine.MoveTime != 250*time.Millisecond || cfg.Engine.Preset != "level3" {
		t.Fatalf("engine = %+v", cfg.Engine)
	}
	if cfg.Clock.Initial != 3*time.Minute {
		t.Fatalf("env must override file, clock = %v", cfg.Clock.Initial)
	}
	if cfg.UI.SquarePx != 6 || cfg.UI.Theme.Button != "darkorange" || cfg.UI.Theme.Light != "#f0d9b5" {
		t.Fatalf("ui = %+v", cfg.UI)
	}
}

func TestLoadRejectsUnknownKeysAndBadValues(t *testing.T) {
	t.Setenv("UI_SQUARE_PX", "")
	if _, err := Load(writeConfig(t, "engine:\n  pth: x\n")); err == nil {
		t.Fatalf("expected unknown key error")
	}
	_, err := Load(writeConfig(t, "ui:\n  square_px: 7\n  theme:\n    dark: notacolour\n"))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"square_px", "ui.theme.dark"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q should mention %s", err, want)
		}
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected read error for a missing file")
	}
}

func TestEmptyFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Assets.PiecesDir != "assets/pieces" {
		t.Fatalf("pieces dir = %q", cfg.Assets.PiecesDir)
	}
}

func TestEmptyThemeColourKeepsDefault(t *testing.T) {
	cfg, err := Load(writeConfig(t, "ui:\n  theme:\n    light: \"\"\n    panel: \"  \"\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UI.Theme.Light != "" {
		t.Fatalf("light = %q, want it left empty for the renderer default", cfg.UI.Theme.Light)
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]color.NRGBA{
		"#f0d9b5":   {R: 0xf0, G: 0xd9, B: 0xb5, A: 0xff},
		"#F7F76996": {R: 0xf7, G: 0xf7, B: 0x69, A: 0x96},
		"#fff":      {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		"SteelBlue": {R: 70, G: 130, B: 180, A: 255},
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseColor(%q) = %v, want %v", in, got, want)
		}
	}
	for _, bad := range []string{"", "#12", "#zzzzzz", "nosuchcolour"} {
		if _, err := ParseColor(bad); err == nil {
			t.Fatalf("ParseColor(%q) should fail", bad)
		}
	}
}
