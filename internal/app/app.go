// Package app runs the terminal frame loop: it turns tcell events into
// sequencer calls and redraws the board every frame.
package app

import (
	"context"
	"time"

	nchess "github.com/corentings/chess/v2"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/park285/cheese-desk/internal/board"
	"github.com/park285/cheese-desk/internal/render"
	"github.com/park285/cheese-desk/internal/session"
)

// Opponent is the engine process as the app sees it.
type Opponent interface {
	NewGame(ctx context.Context) error
	Close() error
}

type Options struct {
	FrameRate int
	// Opponent may be nil when no engine is running.
	Opponent Opponent
	Logger   *zap.Logger
}

type App struct {
	screen   tcell.Screen
	seq      *session.Sequencer
	renderer *render.Renderer
	opponent Opponent
	frame    time.Duration
	logger   *zap.Logger

	geom    render.Geometry
	pressed bool
}

func New(screen tcell.Screen, seq *session.Sequencer, renderer *render.Renderer, opt Options) *App {
	if opt.FrameRate <= 0 {
		opt.FrameRate = 60
	}
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}
	return &App{
		screen:   screen,
		seq:      seq,
		renderer: renderer,
		opponent: opt.Opponent,
		frame:    time.Second / time.Duration(opt.FrameRate),
		logger:   opt.Logger,
	}
}

// Run loops until the user quits or ctx is done. The opponent is closed on
// every exit path; the screen belongs to the caller.
func (a *App) Run(ctx context.Context) error {
	defer a.closeOpponent()

	a.screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents)
	a.screen.HideCursor()

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	go a.screen.ChannelEvents(events, quit)
	defer close(quit)

	ticker := time.NewTicker(a.frame)
	defer ticker.Stop()

	a.draw()
	if w, h := a.screen.Size(); w < a.geom.Width || h < a.geom.Height {
		a.logger.Warn("terminal_too_small",
			zap.Int("width", w), zap.Int("height", h),
			zap.Int("need_width", a.geom.Width), zap.Int("need_height", a.geom.Height))
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if a.handle(ctx, ev) {
				return nil
			}
		case <-ticker.C:
			a.step(ctx)
		}
	}
}

// step advances one frame: clocks, redraw, then the engine's ply if it is
// due, drawn straight away.
func (a *App) step(ctx context.Context) {
	a.seq.Tick()
	a.draw()
	if _, ok := a.seq.State().(session.EngineTurn); ok {
		a.seq.StepEngine(ctx)
		a.draw()
	}
}

func (a *App) draw() {
	a.geom = a.renderer.Draw(a.screen, a.seq.Snapshot())
}

// handle applies one event and reports whether the app should quit.
func (a *App) handle(ctx context.Context, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.key(ev)
	case *tcell.EventMouse:
		a.mouse(ctx, ev)
	case *tcell.EventResize:
		a.screen.Sync()
		a.draw()
	}
	return false
}

func (a *App) key(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
	default:
		return false
	}
	switch ev.Rune() {
	case 'q', 'Q':
		return true
	case 'r', 'R':
		a.seq.Reset()
		a.logger.Info("game_reset")
	case 'u', 'U':
		if err := a.seq.Undo(); err != nil {
			a.logger.Debug("undo_refused", zap.Error(err))
		}
	case 'e', 'E':
		a.seq.RetryEngine()
	}
	a.draw()
	return false
}

func (a *App) mouse(ctx context.Context, ev *tcell.EventMouse) {
	x, y := ev.Position()
	pt := board.CellToPixel(x, y)
	down := ev.Buttons()&tcell.Button1 != 0

	switch {
	case down && !a.pressed:
		a.pressed = true
		if a.click(ctx, x, y) {
			break
		}
		a.seq.Press(pt)
	case down:
		a.seq.Drag(pt)
	case a.pressed:
		a.pressed = false
		a.seq.Release(pt)
	default:
		return
	}
	a.draw()
}

// click handles the colour and New Game buttons.
func (a *App) click(ctx context.Context, x, y int) bool {
	switch a.geom.Hit(a.seq.State(), x, y) {
	case render.HitWhite:
		a.start(ctx, nchess.White)
	case render.HitBlack:
		a.start(ctx, nchess.Black)
	case render.HitNewGame:
		a.seq.Dismiss()
	default:
		return false
	}
	return true
}

func (a *App) start(ctx context.Context, c nchess.Color) {
	if a.opponent != nil {
		if err := a.opponent.NewGame(ctx); err != nil {
			a.logger.Warn("engine_newgame_failed", zap.Error(err))
		}
	}
	if err := a.seq.ChooseColor(ctx, c); err != nil {
		a.logger.Warn("choose_color_failed", zap.Error(err))
	}
}

func (a *App) closeOpponent() {
	if a.opponent == nil {
		return
	}
	if err := a.opponent.Close(); err != nil {
		a.logger.Warn("engine_close_failed", zap.Error(err))
	}
}
