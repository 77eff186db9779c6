package session

import (
	nchess "github.com/corentings/chess/v2"
)

// Owner says who played a ply.
type Owner int

const (
	OwnerHuman Owner = iota
	OwnerEngine
)

func (o Owner) String() string {
	if o == OwnerEngine {
		return "engine"
	}
	return "human"
}

type Ply struct {
	Number   int
	Side     nchess.Color
	Owner    Owner
	SAN      string
	UCI      string
	Captured nchess.PieceType
}

// Row is one line of the two-column move list.
type Row struct {
	Number int
	White  string
	Black  string
}

// Captures lists the piece types each side has taken, in capture order.
type Captures struct {
	White []nchess.PieceType
	Black []nchess.PieceType
}

var pieceValues = map[nchess.PieceType]int{
	nchess.Pawn: 1, nchess.Knight: 3, nchess.Bishop: 3, nchess.Rook: 5, nchess.Queen: 9,
}

// Material is the value of the pieces side has taken.
func (c Captures) Material(side nchess.Color) int {
	taken := c.White
	if side == nchess.Black {
		taken = c.Black
	}
	total := 0
	for _, t := range taken {
		total += pieceValues[t]
	}
	return total
}

// Record is the append-only list of plies of the current game.
type Record struct {
	plies []Ply
}

func (r *Record) Append(p Ply) { r.plies = append(r.plies, p) }

func (r *Record) Len() int { return len(r.plies) }

func (r *Record) Plies() []Ply { return append([]Ply(nil), r.plies...) }

func (r *Record) Last() (Ply, bool) {
	if len(r.plies) == 0 {
		return Ply{}, false
	}
	return r.plies[len(r.plies)-1], true
}

// Truncate keeps the first n plies.
func (r *Record) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n < len(r.plies) {
		r.plies = r.plies[:n]
	}
}

// undoDepth counts the plies to take back so the latest human ply is
// removed together with every engine reply after it. Zero means there is no
// human ply to take back.
func (r *Record) undoDepth() int {
	n := 0
	for i := len(r.plies) - 1; i >= 0; i-- {
		n++
		if r.plies[i].Owner == OwnerHuman {
			return n
		}
	}
	return 0
}

func (r *Record) Rows() []Row {
	rows := make([]Row, 0, (len(r.plies)+1)/2)
	for _, p := range r.plies {
		if p.Side == nchess.White || len(rows) == 0 {
			rows = append(rows, Row{Number: p.Number})
		}
		row := &rows[len(rows)-1]
		if p.Side == nchess.White {
			row.White = p.SAN
		} else {
			row.Black = p.SAN
		}
	}
	return rows
}

func (r *Record) Captures() Captures {
	var c Captures
	for _, p := range r.plies {
		if p.Captured == nchess.NoPieceType {
			continue
		}
		if p.Side == nchess.White {
			c.White = append(c.White, p.Captured)
		} else {
			c.Black = append(c.Black, p.Captured)
		}
	}
	return c
}
