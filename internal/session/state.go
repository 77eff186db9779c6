package session

import (
	"image"

	nchess "github.com/corentings/chess/v2"
)

// State is one of ColorSelection, HumanTurn, EngineTurn or GameOver.
type State interface {
	state()
}

type ColorSelection struct{}

// HumanTurn waits for the human's move. Selection is nil until a piece is
// pressed.
type HumanTurn struct {
	Selection *Selection
}

type EngineTurn struct{}

type GameOver struct {
	Outcome Outcome
}

func (ColorSelection) state() {}
func (HumanTurn) state()      {}
func (EngineTurn) state()     {}
func (GameOver) state()       {}

// Selection is a piece being dragged by the human.
type Selection struct {
	From  nchess.Square
	Piece nchess.Piece
	Moves []nchess.Move
	Point image.Point
}

// Targets returns the destination squares of the selection's legal moves.
func (s *Selection) Targets() []nchess.Square {
	if s == nil {
		return nil
	}
	seen := make(map[nchess.Square]struct{}, len(s.Moves))
	out := make([]nchess.Square, 0, len(s.Moves))
	for _, mv := range s.Moves {
		if _, ok := seen[mv.S2()]; ok {
			continue
		}
		seen[mv.S2()] = struct{}{}
		out = append(out, mv.S2())
	}
	return out
}

type Reason int

const (
	ReasonCheckmate Reason = iota + 1
	ReasonStalemate
	ReasonInsufficientMaterial
	ReasonRepetition
	ReasonMoveRule
	ReasonTimeout
	ReasonOther
)

func (r Reason) String() string {
	switch r {
	case ReasonCheckmate:
		return "checkmate"
	case ReasonStalemate:
		return "stalemate"
	case ReasonInsufficientMaterial:
		return "insufficient_material"
	case ReasonRepetition:
		return "repetition"
	case ReasonMoveRule:
		return "move_rule"
	case ReasonTimeout:
		return "timeout"
	default:
		return "other"
	}
}

// Outcome is how a finished game ended. Winner is NoColor for a draw.
type Outcome struct {
	Winner nchess.Color
	Reason Reason
}

func (o Outcome) Draw() bool { return o.Winner == nchess.NoColor }

func reasonFromMethod(m nchess.Method) Reason {
	switch m {
	case nchess.Checkmate:
		return ReasonCheckmate
	case nchess.Stalemate:
		return ReasonStalemate
	case nchess.InsufficientMaterial:
		return ReasonInsufficientMaterial
	case nchess.ThreefoldRepetition, nchess.FivefoldRepetition:
		return ReasonRepetition
	case nchess.FiftyMoveRule, nchess.SeventyFiveMoveRule:
		return ReasonMoveRule
	default:
		return ReasonOther
	}
}
