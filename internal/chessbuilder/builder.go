// Package chessbuilder assembles the engine, sequencer and renderer from
// the application config.
package chessbuilder

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"strings"

	petname "github.com/dustinkirkland/golang-petname"
	"go.uber.org/zap"

	"github.com/park285/cheese-desk/assets"
	"github.com/park285/cheese-desk/internal/board"
	corechess "github.com/park285/cheese-desk/internal/chess"
	"github.com/park285/cheese-desk/internal/config"
	"github.com/park285/cheese-desk/internal/msgcat"
	"github.com/park285/cheese-desk/internal/render"
	"github.com/park285/cheese-desk/internal/session"
)

type Deps struct {
	Sequencer *session.Sequencer
	Renderer  *render.Renderer
	// Engine is nil when no engine could be located or started; EngineErr
	// says why.
	Engine    *corechess.Engine
	EngineErr error
}

func New(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	theme, err := Theme(cfg.UI.Theme)
	if err != nil {
		return nil, fmt.Errorf("theme: %w", err)
	}
	msgs, err := msgcat.New(cfg.Messages.Dir)
	if err != nil {
		return nil, fmt.Errorf("messages: %w", err)
	}
	sprites := render.LoadSprites(PieceAssets(cfg.Assets.PiecesDir, logger), logger)

	deps := &Deps{Renderer: render.NewRenderer(sprites, theme, msgs)}
	deps.Engine, deps.EngineErr = startEngine(ctx, cfg.Engine, logger)
	if deps.EngineErr != nil {
		logger.Warn("engine_unavailable", zap.Error(deps.EngineErr))
	}

	seqCfg := session.Config{
		Clock:  cfg.Clock.Initial,
		Layout: board.Layout{Origin: render.BoardOrigin, Square: cfg.UI.SquarePx},
		Label:  func() string { return petname.Generate(2, "-") },
	}
	// A nil *Engine must not become a non-nil interface.
	var opponent session.Engine
	if deps.Engine != nil {
		opponent = deps.Engine
	}
	deps.Sequencer = session.New(opponent, seqCfg, logger)
	return deps, nil
}

func startEngine(ctx context.Context, cfg config.EngineConfig, logger *zap.Logger) (*corechess.Engine, error) {
	preset, err := corechess.GetPreset(cfg.Preset)
	if err != nil {
		return nil, err
	}
	explicit := append([]string{cfg.Path}, cfg.SearchPaths...)
	path, err := corechess.Locate(corechess.SearchPaths(explicit...))
	if err != nil {
		return nil, err
	}
	return corechess.NewEngine(ctx, corechess.EngineConfig{
		Path:     path,
		Preset:   preset,
		Threads:  cfg.Threads,
		MoveTime: cfg.MoveTime,
	}, logger)
}

// PieceAssets returns dir when it exists and the built-in pieces otherwise.
func PieceAssets(dir string, logger *zap.Logger) fs.FS {
	dir = strings.TrimSpace(dir)
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return os.DirFS(dir)
		}
		logger.Debug("pieces_dir_fallback", zap.String("dir", dir))
	}
	return assets.Pieces()
}

// Theme parses every configured colour. Empty entries keep the default.
func Theme(tc config.ThemeConfig) (render.Theme, error) {
	th := render.DefaultTheme
	fields := []struct {
		name string
		v    string
		dst  *color.NRGBA
	}{
		{"light", tc.Light, &th.Light},
		{"dark", tc.Dark, &th.Dark},
		{"highlight", tc.Highlight, &th.Highlight},
		{"move_highlight", tc.MoveHighlight, &th.MoveHighlight},
		{"last_move", tc.LastMove, &th.LastMove},
		{"panel", tc.Panel, &th.Panel},
		{"text", tc.Text, &th.Text},
		{"button", tc.Button, &th.Button},
	}
	var errs []error
	for _, f := range fields {
		if strings.TrimSpace(f.v) == "" {
			continue
		}
		c, err := config.ParseColor(f.v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.name, err))
			continue
		}
		*f.dst = c
	}
	return th, errors.Join(errs...)
}
