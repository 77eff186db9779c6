package app

import (
	"context"
	"errors"
	"testing"
	"time"

	nchess "github.com/corentings/chess/v2"
	"github.com/gdamore/tcell/v2"

	"github.com/park285/cheese-desk/internal/board"
	"github.com/park285/cheese-desk/internal/msgcat"
	"github.com/park285/cheese-desk/internal/render"
	"github.com/park285/cheese-desk/internal/session"
)

type scriptedOpponent struct {
	replies  []string
	newGames int
	closes   int
}

func (o *scriptedOpponent) BestMove(context.Context, []string) (string, error) {
	if len(o.replies) == 0 {
		return "", errors.New("no reply scripted")
	}
	r := o.replies[0]
	o.replies = o.replies[1:]
	return r, nil
}

func (o *scriptedOpponent) NewGame(context.Context) error { o.newGames++; return nil }

func (o *scriptedOpponent) Close() error { o.closes++; return nil }

func newTestApp(t *testing.T, opp *scriptedOpponent) (*App, *session.Sequencer) {
	t.Helper()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	layout := board.Layout{Origin: render.BoardOrigin, Square: 8}
	seq := session.New(opp, session.Config{
		Clock:  5 * time.Minute,
		Layout: layout,
		Now:    func() time.Time { return now },
		Label:  func() string { return "quiet-otter" },
	}, nil)

	msgs, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat: %v", err)
	}
	g := render.NewGeometry(layout)
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	screen.SetSize(g.Width, g.Height)
	t.Cleanup(screen.Fini)

	a := New(screen, seq, render.NewRenderer(nil, render.DefaultTheme, msgs), Options{Opponent: opp})
	a.draw()
	return a, seq
}

func click(t *testing.T, a *App, x, y int) {
	t.Helper()
	ctx := context.Background()
	a.handle(ctx, tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone))
	a.handle(ctx, tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone))
}

// cellOf returns a terminal cell inside sq.
func cellOf(a *App, sq nchess.Square) (int, int) {
	r := a.seq.Layout().Rect(sq)
	c := r.Min.Add(r.Size().Div(2))
	return board.PixelToCell(c)
}

func drag(t *testing.T, a *App, from, to nchess.Square) {
	t.Helper()
	ctx := context.Background()
	fx, fy := cellOf(a, from)
	tx, ty := cellOf(a, to)
	a.handle(ctx, tcell.NewEventMouse(fx, fy, tcell.Button1, tcell.ModNone))
	a.handle(ctx, tcell.NewEventMouse(tx, ty, tcell.Button1, tcell.ModNone))
	a.handle(ctx, tcell.NewEventMouse(tx, ty, tcell.ButtonNone, tcell.ModNone))
}

func key(a *App, r rune) bool {
	return a.handle(context.Background(), tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
}

func TestChooseColorAndPlay(t *testing.T) {
	opp := &scriptedOpponent{replies: []string{"e7e5"}}
	a, seq := newTestApp(t, opp)

	click(t, a, a.geom.WhiteButton.Min.X+1, a.geom.WhiteButton.Min.Y+1)
	if _, ok := seq.State().(session.HumanTurn); !ok {
		t.Fatalf("state after White = %T", seq.State())
	}
	if opp.newGames != 1 {
		t.Fatalf("NewGame calls = %d", opp.newGames)
	}

	drag(t, a, nchess.E2, nchess.E4)
	if _, ok := seq.State().(session.EngineTurn); !ok {
		t.Fatalf("state after e2e4 = %T", seq.State())
	}
	a.step(context.Background())
	snap := seq.Snapshot()
	if len(snap.Rows) != 1 || snap.Rows[0].White != "e4" || snap.Rows[0].Black != "e5" {
		t.Fatalf("rows = %+v", snap.Rows)
	}

	if key(a, 'u') {
		t.Fatalf("undo must not quit")
	}
	if rows := seq.Snapshot().Rows; len(rows) != 0 {
		t.Fatalf("rows after undo = %+v", rows)
	}
}

func TestBlackStartsWithEngineMove(t *testing.T) {
	opp := &scriptedOpponent{replies: []string{"d2d4"}}
	a, seq := newTestApp(t, opp)

	click(t, a, a.geom.BlackButton.Min.X+1, a.geom.BlackButton.Min.Y+1)
	if seq.Human() != nchess.Black || !seq.Layout().Flipped {
		t.Fatalf("human = %v flipped = %v", seq.Human(), seq.Layout().Flipped)
	}
	snap := seq.Snapshot()
	if snap.Turn != nchess.Black || len(snap.Rows) != 1 {
		t.Fatalf("turn = %v rows = %+v", snap.Turn, snap.Rows)
	}
}

func TestGameOverNewGame(t *testing.T) {
	opp := &scriptedOpponent{replies: []string{"e7e5", "d8h4"}}
	a, seq := newTestApp(t, opp)

	click(t, a, a.geom.WhiteButton.Min.X+1, a.geom.WhiteButton.Min.Y+1)
	drag(t, a, nchess.F2, nchess.F3)
	a.step(context.Background())
	drag(t, a, nchess.G2, nchess.G4)
	a.step(context.Background())

	over, ok := seq.State().(session.GameOver)
	if !ok {
		t.Fatalf("state = %T, want GameOver", seq.State())
	}
	if over.Outcome.Winner != nchess.Black || over.Outcome.Reason != session.ReasonCheckmate {
		t.Fatalf("outcome = %+v", over.Outcome)
	}

	// Board clicks are ignored while the popup is up.
	drag(t, a, nchess.E2, nchess.E4)
	if _, ok := seq.State().(session.GameOver); !ok {
		t.Fatalf("popup dismissed by a board drag")
	}

	click(t, a, a.geom.NewGame.Min.X+1, a.geom.NewGame.Min.Y+1)
	if _, ok := seq.State().(session.ColorSelection); !ok {
		t.Fatalf("state after New Game = %T", seq.State())
	}
}

func TestKeys(t *testing.T) {
	opp := &scriptedOpponent{}
	a, seq := newTestApp(t, opp)
	click(t, a, a.geom.WhiteButton.Min.X+1, a.geom.WhiteButton.Min.Y+1)

	if key(a, 'r') {
		t.Fatalf("reset must not quit")
	}
	if _, ok := seq.State().(session.ColorSelection); !ok {
		t.Fatalf("state after r = %T", seq.State())
	}
	if !key(a, 'q') {
		t.Fatalf("q must quit")
	}
	ctx := context.Background()
	if !a.handle(ctx, tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Fatalf("Esc must quit")
	}
	if !a.handle(ctx, tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)) {
		t.Fatalf("Ctrl-C must quit")
	}
}

func TestEngineFailureThenRetry(t *testing.T) {
	opp := &scriptedOpponent{}
	a, seq := newTestApp(t, opp)
	click(t, a, a.geom.WhiteButton.Min.X+1, a.geom.WhiteButton.Min.Y+1)
	drag(t, a, nchess.E2, nchess.E4)

	a.step(context.Background())
	snap := seq.Snapshot()
	if !snap.EngineWaiting {
		t.Fatalf("expected skipped engine ply")
	}

	opp.replies = []string{"c7c5"}
	key(a, 'e')
	a.step(context.Background())
	if rows := seq.Snapshot().Rows; len(rows) != 1 || rows[0].Black != "c5" {
		t.Fatalf("rows after retry = %+v", rows)
	}
}

func TestRunClosesOpponentOnce(t *testing.T) {
	opp := &scriptedOpponent{}
	a, _ := newTestApp(t, opp)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if opp.closes != 1 {
		t.Fatalf("Close calls = %d, want 1", opp.closes)
	}
}
