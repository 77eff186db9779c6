// Package rules adapts corentings/chess to the operations the board needs:
// legality, notation, application, undo and termination.
package rules

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	nchess "github.com/corentings/chess/v2"
	"github.com/corentings/chess/v2/opening"
)

var (
	ErrIllegalMove   = errors.New("illegal move")
	ErrNothingToUndo = errors.New("nothing to undo")
)

// Game is the authoritative position plus its UCI move list.
type Game struct {
	g     *nchess.Game
	moves []string
}

func New() *Game {
	return &Game{g: nchess.NewGame()}
}

// Replay rebuilds a game from a UCI move list.
func Replay(moves []string) (*Game, error) {
	game := New()
	for _, mv := range moves {
		parsed, err := game.ParseUCI(mv)
		if err != nil {
			return nil, fmt.Errorf("decode move %s: %w", mv, err)
		}
		if err := game.Apply(parsed); err != nil {
			return nil, fmt.Errorf("apply move %s: %w", mv, err)
		}
	}
	return game, nil
}

func (g *Game) Turn() nchess.Color {
	return g.g.Position().Turn()
}

func (g *Game) PieceAt(sq nchess.Square) nchess.Piece {
	return g.g.Position().Board().Piece(sq)
}

// Pieces returns the occupied squares of the current position.
func (g *Game) Pieces() map[nchess.Square]nchess.Piece {
	out := make(map[nchess.Square]nchess.Piece, 32)
	for sq, p := range g.g.Position().Board().SquareMap() {
		if p != nchess.NoPiece {
			out[sq] = p
		}
	}
	return out
}

// LegalMovesFrom lists the legal moves whose origin is sq.
func (g *Game) LegalMovesFrom(sq nchess.Square) []nchess.Move {
	if g.Over() {
		return nil
	}
	valid := g.g.ValidMoves()
	out := make([]nchess.Move, 0, 8)
	for i := range valid {
		if valid[i].S1() == sq {
			out = append(out, valid[i])
		}
	}
	return out
}

// FindMove picks the legal move from one square to another. A pawn reaching
// the last rank is promoted to a queen.
func FindMove(moves []nchess.Move, from, to nchess.Square) (nchess.Move, bool) {
	var (
		found nchess.Move
		ok    bool
	)
	for _, mv := range moves {
		if mv.S1() != from || mv.S2() != to {
			continue
		}
		switch mv.Promo() {
		case nchess.NoPieceType, nchess.Queen:
			return mv, true
		}
		if !ok {
			found, ok = mv, true
		}
	}
	return found, ok
}

func (g *Game) ParseUCI(s string) (nchess.Move, error) {
	text := strings.ToLower(strings.TrimSpace(s))
	if text == "" || text == "(none)" || text == "0000" {
		return nchess.Move{}, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	mv, err := nchess.UCINotation{}.Decode(g.g.Position(), text)
	if err != nil {
		return nchess.Move{}, fmt.Errorf("%w: %q: %v", ErrIllegalMove, s, err)
	}
	return *mv, nil
}

// SAN encodes mv against the current position, so it must be called before Apply.
func (g *Game) SAN(mv nchess.Move) string {
	return nchess.AlgebraicNotation{}.Encode(g.g.Position(), &mv)
}

func (g *Game) UCI(mv nchess.Move) string {
	return strings.ToLower(nchess.UCINotation{}.Encode(g.g.Position(), &mv))
}

// Apply validates and plays mv.
func (g *Game) Apply(mv nchess.Move) error {
	if g.Over() {
		return fmt.Errorf("%w: game is over", ErrIllegalMove)
	}
	uci := g.UCI(mv)
	played := mv
	if err := g.g.Move(&played, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	g.moves = append(g.moves, uci)
	return nil
}

// Undo takes back the last n plies by replaying the remaining ones.
func (g *Game) Undo(n int) error {
	if n <= 0 {
		return nil
	}
	if n > len(g.moves) {
		return fmt.Errorf("%w: %d of %d plies", ErrNothingToUndo, n, len(g.moves))
	}
	rebuilt, err := Replay(g.moves[:len(g.moves)-n])
	if err != nil {
		return err
	}
	*g = *rebuilt
	return nil
}

func (g *Game) UCIMoves() []string {
	return append([]string(nil), g.moves...)
}

func (g *Game) Plies() int { return len(g.moves) }

func (g *Game) FEN() string { return g.g.FEN() }

func (g *Game) Over() bool { return g.g.Outcome() != nchess.NoOutcome }

func (g *Game) Outcome() nchess.Outcome { return g.g.Outcome() }

func (g *Game) Method() nchess.Method { return g.g.Method() }

// LastMove reports the squares of the most recent ply.
func (g *Game) LastMove() (from, to nchess.Square, ok bool) {
	moves := g.g.Moves()
	if len(moves) == 0 {
		return nchess.NoSquare, nchess.NoSquare, false
	}
	last := moves[len(moves)-1]
	return last.S1(), last.S2(), true
}

var (
	ecoOnce sync.Once
	ecoBook *opening.BookECO
)

// Opening names the ECO line the game is in, if any.
func (g *Game) Opening() (code, title string) {
	if len(g.moves) == 0 {
		return "", ""
	}
	ecoOnce.Do(func() { ecoBook = opening.NewBookECO() })
	if ecoBook == nil {
		return "", ""
	}
	if eco := ecoBook.Find(g.g.Moves()); eco != nil {
		return eco.Code(), eco.Title()
	}
	return "", ""
}
