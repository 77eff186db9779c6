package chessbuilder

import (
	"context"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/park285/cheese-desk/internal/config"
	"github.com/park285/cheese-desk/internal/render"
	"github.com/park285/cheese-desk/internal/session"
)

func TestThemeOverridesAndErrors(t *testing.T) {
	th, err := Theme(config.ThemeConfig{Light: "#fff", Button: "tomato"})
	if err != nil {
		t.Fatalf("Theme: %v", err)
	}
	if th.Light != (color.NRGBA{255, 255, 255, 255}) {
		t.Fatalf("light = %v", th.Light)
	}
	if th.Button != (color.NRGBA{255, 99, 71, 255}) {
		t.Fatalf("button = %v", th.Button)
	}
	if th.Dark != render.DefaultTheme.Dark {
		t.Fatalf("empty entry must keep the default")
	}

	if _, err := Theme(config.ThemeConfig{Dark: "#12", Panel: "nocolour"}); err == nil {
		t.Fatalf("expected errors for bad colours")
	}
}

func TestPieceAssetsFallback(t *testing.T) {
	logger := zap.NewNop()
	if _, err := fs.Stat(PieceAssets("", logger), "wK.svg"); err != nil {
		t.Fatalf("embedded pieces: %v", err)
	}
	if _, err := fs.Stat(PieceAssets(filepath.Join(t.TempDir(), "missing"), logger), "bQ.svg"); err != nil {
		t.Fatalf("fallback pieces: %v", err)
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "custom.svg"), []byte("<svg/>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := fs.Stat(PieceAssets(dir, logger), "custom.svg"); err != nil {
		t.Fatalf("configured dir not used: %v", err)
	}
}

func TestNewWithoutEngine(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.Preset = "grandmaster-of-nothing"

	deps, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if deps.Engine != nil || deps.EngineErr == nil {
		t.Fatalf("engine = %v err = %v", deps.Engine, deps.EngineErr)
	}
	if deps.Sequencer.HasEngine() {
		t.Fatalf("sequencer must run without an engine")
	}
	if _, ok := deps.Sequencer.State().(session.ColorSelection); !ok {
		t.Fatalf("state = %T", deps.Sequencer.State())
	}
	if got := deps.Sequencer.Layout().Square; got != cfg.UI.SquarePx {
		t.Fatalf("square = %d, want %d", got, cfg.UI.SquarePx)
	}
}

func TestNewRejectsBadTheme(t *testing.T) {
	cfg := config.Default()
	cfg.UI.Theme.Text = "#zzzzzz"
	if _, err := New(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected theme error")
	}
}
