package chess

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/park285/cheese-desk/internal/chess/uci"
)

type EngineConfig struct {
	Path     string
	Preset   DifficultyPreset
	Threads  int
	MoveTime time.Duration
}

// Engine plays one side through a single UCI session.
type Engine struct {
	session *uci.Session
	limits  uci.Limits
	path    string
	logger  *zap.Logger

	closeOnce sync.Once
	closeErr  error
}

func NewEngine(ctx context.Context, cfg EngineConfig, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MoveTime <= 0 {
		return nil, fmt.Errorf("engine move time must be > 0: %v", cfg.MoveTime)
	}
	session, err := uci.NewSession(ctx, cfg.Path, cfg.Preset.Options(cfg.Threads), logger)
	if err != nil {
		return nil, fmt.Errorf("start engine %s: %w", cfg.Path, err)
	}
	logger.Info("engine_started",
		zap.String("path", cfg.Path),
		zap.String("preset", cfg.Preset.Name),
		zap.Duration("move_time", cfg.MoveTime))
	return &Engine{
		session: session,
		limits:  cfg.Preset.Limits(int(cfg.MoveTime / time.Millisecond)),
		path:    cfg.Path,
		logger:  logger,
	}, nil
}

func (e *Engine) Path() string { return e.path }

// NewGame clears the engine's hash between games.
func (e *Engine) NewGame(ctx context.Context) error {
	return e.session.NewGame(ctx)
}

// BestMove asks for a reply to the game given as UCI moves from the start
// position.
func (e *Engine) BestMove(ctx context.Context, moves []string) (string, error) {
	resp, err := e.session.Search(ctx, uci.SearchRequest{Moves: moves, Limits: e.limits})
	if err != nil {
		return "", err
	}
	fields := []zap.Field{
		zap.Int("ply", len(moves)+1),
		zap.String("uci", resp.BestMove),
		zap.Int("depth", resp.Score.Depth),
		zap.Duration("elapsed", resp.Elapsed),
	}
	switch {
	case resp.Score.HasMate:
		fields = append(fields, zap.Int("mate", resp.Score.Mate))
	case resp.Score.HasCP:
		fields = append(fields, zap.Int("cp", resp.Score.CP))
	}
	e.logger.Debug("engine_move", fields...)
	return resp.BestMove, nil
}

// Close stops the engine process. Only the first call does any work.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.closeErr = e.session.Close()
		e.logger.Info("engine_closed", zap.String("path", e.path))
	})
	return e.closeErr
}
