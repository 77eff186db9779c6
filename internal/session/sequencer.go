// Package session sequences a game between the human at the board and the
// engine: colour choice, moves, clocks, undo and the game-over popup.
package session

import (
	"context"
	"errors"
	"image"
	"time"

	nchess "github.com/corentings/chess/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/cheese-desk/internal/board"
	"github.com/park285/cheese-desk/internal/clock"
	"github.com/park285/cheese-desk/internal/rules"
)

var (
	ErrNoGame        = errors.New("no game in progress")
	ErrNothingToUndo = errors.New("no move of yours to take back")
	ErrTimeoutFinal  = errors.New("a game lost on time cannot be taken back")
	ErrWrongState    = errors.New("not allowed in the current state")
)

// Engine produces the opposing side's moves.
type Engine interface {
	BestMove(ctx context.Context, moves []string) (string, error)
}

type Config struct {
	Clock  time.Duration
	Layout board.Layout
	// Now defaults to time.Now.
	Now func() time.Time
	// Label names a new game for display, e.g. a petname.
	Label func() string
}

type Sequencer struct {
	engine Engine
	cfg    Config
	logger *zap.Logger

	state   State
	game    *rules.Game
	record  Record
	clocks  *clock.Pair
	human   nchess.Color
	layout  board.Layout
	gameID  string
	label   string
	opening string
}

// New returns a sequencer waiting for a colour choice. engine may be nil, in
// which case every engine ply is skipped.
func New(engine Engine, cfg Config, logger *zap.Logger) *Sequencer {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Clock <= 0 {
		cfg.Clock = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Sequencer{engine: engine, cfg: cfg, logger: logger}
	s.Reset()
	return s
}

// Reset discards the current game and returns to colour selection.
func (s *Sequencer) Reset() {
	s.state = ColorSelection{}
	s.game = rules.New()
	s.record = Record{}
	s.clocks = clock.NewPair(s.cfg.Clock)
	s.human = nchess.White
	s.layout = s.cfg.Layout
	s.layout.Flipped = false
	s.gameID = ""
	s.label = ""
	s.opening = ""
}

func (s *Sequencer) State() State { return s.state }

func (s *Sequencer) Human() nchess.Color { return s.human }

func (s *Sequencer) Layout() board.Layout { return s.layout }

func (s *Sequencer) GameID() string { return s.gameID }

func (s *Sequencer) HasEngine() bool { return s.engine != nil }

// ChooseColor starts a game with the human playing c. When c is Black the
// engine makes White's first move before this returns.
func (s *Sequencer) ChooseColor(ctx context.Context, c nchess.Color) error {
	if _, ok := s.state.(ColorSelection); !ok {
		return ErrWrongState
	}
	if c != nchess.White && c != nchess.Black {
		return errors.New("colour must be white or black")
	}
	s.human = c
	s.layout.Flipped = c == nchess.Black
	s.gameID = uuid.NewString()
	if s.cfg.Label != nil {
		s.label = s.cfg.Label()
	}
	s.logger.Info("game_started",
		zap.String("game_id", s.gameID),
		zap.String("label", s.label),
		zap.String("human", c.Name()),
		zap.Duration("clock", s.cfg.Clock))

	s.clocks.Start(s.cfg.Now())
	if c == nchess.White {
		s.state = HumanTurn{}
		return nil
	}
	s.state = EngineTurn{}
	s.StepEngine(ctx)
	return nil
}

// Press starts dragging the piece under pt if it belongs to the human and
// it is the human's move.
func (s *Sequencer) Press(pt image.Point) {
	if _, ok := s.state.(HumanTurn); !ok {
		return
	}
	if s.game.Turn() != s.human {
		return
	}
	sq, ok := s.layout.SquareAt(pt)
	if !ok {
		return
	}
	piece := s.game.PieceAt(sq)
	if piece == nchess.NoPiece || piece.Color() != s.human {
		return
	}
	s.state = HumanTurn{Selection: &Selection{
		From:  sq,
		Piece: piece,
		Moves: s.game.LegalMovesFrom(sq),
		Point: pt,
	}}
}

func (s *Sequencer) Drag(pt image.Point) {
	if st, ok := s.state.(HumanTurn); ok && st.Selection != nil {
		st.Selection.Point = pt
	}
}

// Release drops the dragged piece. A legal destination plays the move;
// anything else just clears the selection.
func (s *Sequencer) Release(pt image.Point) {
	st, ok := s.state.(HumanTurn)
	if !ok || st.Selection == nil {
		return
	}
	// The human's clock runs until the piece is dropped.
	s.Tick()
	if _, over := s.state.(GameOver); over {
		return
	}
	sel := st.Selection
	s.state = HumanTurn{}

	to, ok := s.layout.SquareAt(pt)
	if !ok {
		return
	}
	mv, ok := rules.FindMove(sel.Moves, sel.From, to)
	if !ok {
		return
	}
	if err := s.play(mv, OwnerHuman); err != nil {
		s.logger.Warn("human_move_rejected", zap.String("game_id", s.gameID), zap.Error(err))
		return
	}
	if _, over := s.state.(GameOver); !over {
		s.state = EngineTurn{}
	}
}

// StepEngine plays the engine's ply. Any failure skips the ply and hands the
// turn back to the human.
func (s *Sequencer) StepEngine(ctx context.Context) {
	if _, ok := s.state.(EngineTurn); !ok {
		return
	}
	if s.engine == nil {
		s.skipEngine(errors.New("no engine available"))
		return
	}
	reply, err := s.engine.BestMove(ctx, s.game.UCIMoves())
	// Thinking time belongs to the engine's clock.
	s.Tick()
	if _, over := s.state.(GameOver); over {
		return
	}
	if err != nil {
		s.skipEngine(err)
		return
	}
	mv, err := s.game.ParseUCI(reply)
	if err != nil {
		s.skipEngine(err)
		return
	}
	if err := s.play(mv, OwnerEngine); err != nil {
		s.skipEngine(err)
		return
	}
	if _, over := s.state.(GameOver); !over {
		s.state = HumanTurn{}
	}
}

func (s *Sequencer) skipEngine(err error) {
	s.logger.Warn("engine_ply_skipped",
		zap.String("game_id", s.gameID),
		zap.Int("ply", s.game.Plies()+1),
		zap.Error(err))
	s.state = HumanTurn{}
}

// RetryEngine hands the move back to the engine after a skipped ply.
func (s *Sequencer) RetryEngine() bool {
	if _, ok := s.state.(HumanTurn); !ok || s.game.Turn() == s.human {
		return false
	}
	s.state = EngineTurn{}
	return true
}

// Tick charges elapsed time to the side to move and ends the game when that
// clock runs out.
func (s *Sequencer) Tick() {
	switch s.state.(type) {
	case HumanTurn, EngineTurn:
	default:
		return
	}
	side := s.game.Turn()
	if s.clocks.Tick(s.cfg.Now(), side) {
		s.finish(Outcome{Winner: side.Other(), Reason: ReasonTimeout})
	}
}

// Undo takes back the human's latest ply together with any engine reply to
// it, leaving the human to move.
func (s *Sequencer) Undo() error {
	switch st := s.state.(type) {
	case ColorSelection:
		return ErrNoGame
	case GameOver:
		if st.Outcome.Reason == ReasonTimeout {
			return ErrTimeoutFinal
		}
	}
	n := s.record.undoDepth()
	if n == 0 {
		return ErrNothingToUndo
	}
	if err := s.game.Undo(n); err != nil {
		return err
	}
	s.record.Truncate(s.record.Len() - n)
	s.refreshOpening()
	if _, over := s.state.(GameOver); over {
		s.clocks.Start(s.cfg.Now())
	}
	s.state = HumanTurn{}
	s.logger.Info("plies_undone",
		zap.String("game_id", s.gameID),
		zap.Int("count", n),
		zap.Int("ply", s.game.Plies()))
	return nil
}

// Dismiss closes the game-over popup and starts over.
func (s *Sequencer) Dismiss() {
	if _, ok := s.state.(GameOver); ok {
		s.Reset()
	}
}

// play records and applies mv for the side to move, then checks for the end
// of the game.
func (s *Sequencer) play(mv nchess.Move, owner Owner) error {
	side := s.game.Turn()
	san := s.game.SAN(mv)
	uci := s.game.UCI(mv)
	captured := nchess.NoPieceType
	if p := s.game.PieceAt(mv.S2()); p != nchess.NoPiece && p.Color() != side {
		captured = p.Type()
	}
	if err := s.game.Apply(mv); err != nil {
		return err
	}
	s.record.Append(Ply{
		Number:   (s.game.Plies() + 1) / 2,
		Side:     side,
		Owner:    owner,
		SAN:      san,
		UCI:      uci,
		Captured: captured,
	})
	s.refreshOpening()
	s.logger.Info("ply",
		zap.String("game_id", s.gameID),
		zap.Int("ply", s.game.Plies()),
		zap.String("side", side.Name()),
		zap.Stringer("owner", owner),
		zap.String("san", san),
		zap.String("uci", uci))

	if s.game.Over() {
		out := Outcome{Reason: reasonFromMethod(s.game.Method())}
		if out.Reason == ReasonCheckmate {
			out.Winner = side
		}
		s.finish(out)
	}
	return nil
}

func (s *Sequencer) finish(out Outcome) {
	s.clocks.Stop()
	s.state = GameOver{Outcome: out}
	s.logger.Info("game_over",
		zap.String("game_id", s.gameID),
		zap.String("winner", out.Winner.Name()),
		zap.Stringer("reason", out.Reason),
		zap.Int("plies", s.game.Plies()))
}

func (s *Sequencer) refreshOpening() {
	code, title := s.game.Opening()
	if code == "" {
		s.opening = ""
		return
	}
	s.opening = code + " " + title
}

// Snapshot is everything needed to draw one frame.
type Snapshot struct {
	State    State
	Human    nchess.Color
	Turn     nchess.Color
	Layout   board.Layout
	Pieces   map[nchess.Square]nchess.Piece
	LastMove [2]nchess.Square
	HasLast  bool
	Rows     []Row
	Captures Captures
	White    time.Duration
	Black    time.Duration
	Label    string
	Opening  string
	// EngineWaiting is set when the engine's ply was skipped and the
	// engine side is still to move.
	EngineWaiting bool
	HasEngine     bool
}

func (s *Sequencer) Snapshot() Snapshot {
	snap := Snapshot{
		State:     s.state,
		Human:     s.human,
		Turn:      s.game.Turn(),
		Layout:    s.layout,
		Pieces:    s.game.Pieces(),
		Rows:      s.record.Rows(),
		Captures:  s.record.Captures(),
		White:     s.clocks.Remaining(nchess.White),
		Black:     s.clocks.Remaining(nchess.Black),
		Label:     s.label,
		Opening:   s.opening,
		HasEngine: s.engine != nil,
	}
	if from, to, ok := s.game.LastMove(); ok {
		snap.LastMove = [2]nchess.Square{from, to}
		snap.HasLast = true
	}
	if _, ok := s.state.(HumanTurn); ok && snap.Turn != s.human {
		snap.EngineWaiting = true
	}
	return snap
}
