// Package board maps between canvas pixels and board squares.
package board

import (
	"image"

	nchess "github.com/corentings/chess/v2"
)

// Layout places the 8x8 board on the canvas. Flipped puts rank 8 at the
// bottom, which is how Black sees the board.
type Layout struct {
	Origin  image.Point
	Square  int
	Flipped bool
}

func (l Layout) Size() int { return l.Square * 8 }

func (l Layout) Bounds() image.Rectangle {
	return image.Rectangle{Min: l.Origin, Max: l.Origin.Add(image.Pt(l.Size(), l.Size()))}
}

// SquareAt returns the square under pt; ok is false off the board.
func (l Layout) SquareAt(pt image.Point) (nchess.Square, bool) {
	if l.Square <= 0 || !pt.In(l.Bounds()) {
		return nchess.NoSquare, false
	}
	col := (pt.X - l.Origin.X) / l.Square
	row := (pt.Y - l.Origin.Y) / l.Square
	return nchess.NewSquare(l.FileAt(col), l.RankAt(row)), true
}

// Rect is the pixel area covered by sq.
func (l Layout) Rect(sq nchess.Square) image.Rectangle {
	col := int(sq.File())
	row := 7 - int(sq.Rank())
	if l.Flipped {
		col = 7 - col
		row = 7 - row
	}
	topLeft := l.Origin.Add(image.Pt(col*l.Square, row*l.Square))
	return image.Rectangle{Min: topLeft, Max: topLeft.Add(image.Pt(l.Square, l.Square))}
}

// FileAt returns the file shown in screen column col (0 = left).
func (l Layout) FileAt(col int) nchess.File {
	if l.Flipped {
		return nchess.File(7 - col)
	}
	return nchess.File(col)
}

// RankAt returns the rank shown in screen row row (0 = top).
func (l Layout) RankAt(row int) nchess.Rank {
	if l.Flipped {
		return nchess.Rank(row)
	}
	return nchess.Rank(7 - row)
}

// CellToPixel converts a terminal cell to the top pixel it draws. Each cell
// holds one pixel column and two pixel rows.
func CellToPixel(x, y int) image.Point {
	return image.Pt(x, y*2)
}

// PixelToCell is the inverse of CellToPixel, rounding down.
func PixelToCell(pt image.Point) (x, y int) {
	return pt.X, pt.Y / 2
}
