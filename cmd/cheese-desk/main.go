package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/park285/cheese-desk/internal/app"
	"github.com/park285/cheese-desk/internal/chessbuilder"
	"github.com/park285/cheese-desk/internal/config"
	"github.com/park285/cheese-desk/internal/obslog"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "YAML config file (default $CHEESE_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
		return 1
	}
	if err := obslog.InitFromEnv(); err != nil {
		fatal(fmt.Errorf("logging: %w", err))
		return 1
	}
	defer func() { _ = obslog.Sync() }()
	logger := obslog.L()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fatal(errors.New("stdout is not a terminal"))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := chessbuilder.New(ctx, cfg, logger)
	if err != nil {
		fatal(err)
		return 1
	}
	var opponent app.Opponent
	if deps.Engine != nil {
		defer func() { _ = deps.Engine.Close() }()
		opponent = deps.Engine
	} else {
		color.New(color.FgYellow).Fprintf(os.Stderr, "cheese-desk: %v; playing without an engine\n", deps.EngineErr)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fatal(fmt.Errorf("screen: %w", err))
		return 1
	}
	if err := screen.Init(); err != nil {
		fatal(fmt.Errorf("screen init: %w", err))
		return 1
	}
	defer screen.Fini()

	logger.Info("app_started",
		zap.Bool("engine", deps.Engine != nil),
		zap.Int("square_px", cfg.UI.SquarePx),
		zap.Duration("clock", cfg.Clock.Initial))

	a := app.New(screen, deps.Sequencer, deps.Renderer, app.Options{
		FrameRate: cfg.UI.FrameRate,
		Opponent:  opponent,
		Logger:    logger,
	})
	if err := a.Run(ctx); err != nil {
		screen.Fini()
		fatal(err)
		return 1
	}
	logger.Info("app_stopped")
	return 0
}

func fatal(err error) {
	color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "cheese-desk: %v\n", err)
}
