package render

import (
	"image"

	"github.com/park285/cheese-desk/internal/board"
)

// BoardOrigin is where the board's top-left pixel sits on the canvas: three
// cells in, below the two header rows.
var BoardOrigin = board.CellToPixel(3, 2)

// Geometry places everything on the terminal, in cells.
type Geometry struct {
	Board       image.Rectangle
	PanelX      int
	WhiteButton image.Rectangle
	BlackButton image.Rectangle
	Popup       image.Rectangle
	NewGame     image.Rectangle
	// Width and Height are the smallest terminal that shows everything.
	Width  int
	Height int
}

const (
	panelWidth  = 30
	buttonWidth = 14
	popupWidth  = 26
	popupHeight = 9
)

func NewGeometry(l board.Layout) Geometry {
	bx, by := board.PixelToCell(l.Origin)
	w, h := l.Size(), l.Size()/2
	g := Geometry{Board: image.Rect(bx, by, bx+w, by+h)}
	g.PanelX = g.Board.Max.X + 3

	cx := g.Board.Min.X + w/2
	cy := g.Board.Min.Y + h/2
	g.WhiteButton = image.Rect(cx-buttonWidth-1, cy-1, cx-1, cy+2)
	g.BlackButton = image.Rect(cx+1, cy-1, cx+1+buttonWidth, cy+2)

	g.Popup = image.Rect(cx-popupWidth/2, cy-popupHeight/2, cx+popupWidth/2, cy+popupHeight/2+1)
	g.NewGame = image.Rect(cx-6, g.Popup.Max.Y-4, cx+6, g.Popup.Max.Y-1)

	g.Width = g.PanelX + panelWidth
	g.Height = g.Board.Max.Y + 3
	return g
}

// cellsToPixels converts a cell rectangle to canvas pixels.
func cellsToPixels(r image.Rectangle) image.Rectangle {
	return image.Rectangle{Min: board.CellToPixel(r.Min.X, r.Min.Y), Max: board.CellToPixel(r.Max.X, r.Max.Y)}
}
