package render

import (
	"image"
	"image/color"
	"image/draw"

	nchess "github.com/corentings/chess/v2"

	"github.com/park285/cheese-desk/internal/board"
	"github.com/park285/cheese-desk/internal/session"
)

// Compose paints one frame of the pixel canvas. It never mutates snap.
func Compose(dst *image.RGBA, snap session.Snapshot, g Geometry, sprites *Sprites, th Theme) {
	fill(dst, dst.Bounds(), th.Panel)

	if _, ok := snap.State.(session.ColorSelection); ok {
		fill(dst, cellsToPixels(g.WhiteButton), th.Button)
		fill(dst, cellsToPixels(g.BlackButton), th.Button)
		return
	}

	l := snap.Layout
	drawSquares(dst, l, th)
	if snap.HasLast {
		tint(dst, l.Rect(snap.LastMove[0]), th.LastMove)
		tint(dst, l.Rect(snap.LastMove[1]), th.LastMove)
	}

	var sel *session.Selection
	if st, ok := snap.State.(session.HumanTurn); ok {
		sel = st.Selection
	}
	if sel != nil {
		tint(dst, l.Rect(sel.From), th.Highlight)
		for _, sq := range sel.Targets() {
			tint(dst, l.Rect(sq), th.MoveHighlight)
		}
	}

	for sq, p := range snap.Pieces {
		if sel != nil && sq == sel.From {
			continue
		}
		drawSprite(dst, sprites.Image(p, l.Square), l.Rect(sq).Min)
	}
	if sel != nil {
		half := l.Square / 2
		drawSprite(dst, sprites.Image(sel.Piece, l.Square), sel.Point.Sub(image.Pt(half, half)))
	}

	if _, ok := snap.State.(session.GameOver); ok {
		tint(dst, l.Bounds(), dimColor)
		popup := cellsToPixels(g.Popup)
		fill(dst, popup, popupBorder)
		fill(dst, popup.Inset(1), th.Panel)
		fill(dst, cellsToPixels(g.NewGame), th.Button)
	}
}

func drawSquares(dst *image.RGBA, l board.Layout, th Theme) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sq := nchess.NewSquare(l.FileAt(col), l.RankAt(row))
			c := th.Dark
			if (int(sq.File())+int(sq.Rank()))%2 == 1 {
				c = th.Light
			}
			fill(dst, l.Rect(sq), c)
		}
	}
}

func drawSprite(dst *image.RGBA, img image.Image, at image.Point) {
	if img == nil {
		return
	}
	r := image.Rectangle{Min: at, Max: at.Add(img.Bounds().Size())}
	draw.Draw(dst, r, img, img.Bounds().Min, draw.Over)
}

func fill(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func tint(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
}
