package render

import (
	"image"
	"strings"

	nchess "github.com/corentings/chess/v2"
	"github.com/gdamore/tcell/v2"

	"github.com/park285/cheese-desk/internal/clock"
	"github.com/park285/cheese-desk/internal/msgcat"
	"github.com/park285/cheese-desk/internal/session"
)

// halfBlock shows the upper pixel as foreground and the lower as background.
const halfBlock = '▀'

// Renderer draws snapshots onto a tcell screen.
type Renderer struct {
	sprites *Sprites
	theme   Theme
	msgs    *msgcat.Catalog
	canvas  *image.RGBA
}

func NewRenderer(sprites *Sprites, theme Theme, msgs *msgcat.Catalog) *Renderer {
	return &Renderer{sprites: sprites, theme: theme, msgs: msgs}
}

// Draw paints snap and returns the geometry it used, which is also the one
// input hit-testing must use.
func (r *Renderer) Draw(s tcell.Screen, snap session.Snapshot) Geometry {
	g := NewGeometry(snap.Layout)
	w, h := s.Size()
	if r.canvas == nil || r.canvas.Bounds().Dx() != w || r.canvas.Bounds().Dy() != h*2 {
		r.canvas = image.NewRGBA(image.Rect(0, 0, w, h*2))
	}
	Compose(r.canvas, snap, g, r.sprites, r.theme)
	blit(s, r.canvas)

	switch st := snap.State.(type) {
	case session.ColorSelection:
		r.drawSelection(s, g)
	case session.GameOver:
		r.drawBoardText(s, snap, g)
		r.drawPopup(s, g, st.Outcome)
	default:
		r.drawBoardText(s, snap, g)
	}
	s.Show()
	return g
}

func blit(s tcell.Screen, img *image.RGBA) {
	w, h := s.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			top := img.RGBAAt(x, 2*y)
			bottom := img.RGBAAt(x, 2*y+1)
			s.SetContent(x, y, halfBlock, nil, style(top, bottom))
		}
	}
}

// text writes str from (x, y), one cell per rune, and returns the next x.
func text(s tcell.Screen, x, y int, str string, st tcell.Style) int {
	for _, r := range str {
		s.SetContent(x, y, r, nil, st)
		x++
	}
	return x
}

func centered(s tcell.Screen, r image.Rectangle, y int, str string, st tcell.Style) {
	x := r.Min.X + (r.Dx()-len([]rune(str)))/2
	text(s, x, y, str, st)
}

func (r *Renderer) drawSelection(s tcell.Screen, g Geometry) {
	panel := style(r.theme.Text, r.theme.Panel)
	button := style(buttonText, r.theme.Button)
	centered(s, g.Board, g.WhiteButton.Min.Y-3, r.msgs.Text("title", nil), panel.Bold(true))
	centered(s, g.Board, g.WhiteButton.Min.Y-2, r.msgs.Text("select.prompt", nil), panel)
	centered(s, g.WhiteButton, g.WhiteButton.Min.Y+1, r.msgs.Text("select.white", nil), button)
	centered(s, g.BlackButton, g.BlackButton.Min.Y+1, r.msgs.Text("select.black", nil), button)
	centered(s, g.Board, g.WhiteButton.Max.Y+1, r.msgs.Text("select.footer", nil), panel)
}

func (r *Renderer) colorName(c nchess.Color) string {
	if c == nchess.Black {
		return r.msgs.Text("color.black", nil)
	}
	return r.msgs.Text("color.white", nil)
}

func (r *Renderer) drawBoardText(s tcell.Screen, snap session.Snapshot, g Geometry) {
	panel := style(r.theme.Text, r.theme.Panel)
	l := snap.Layout

	text(s, 1, 0, r.msgs.Text("header.playing_as", map[string]string{
		"Label": snap.Label,
		"Color": r.colorName(snap.Human),
	}), panel.Bold(true))
	switch {
	case !snap.HasEngine:
		text(s, 1, 1, r.msgs.Text("header.no_engine", nil), panel.Italic(true))
	case snap.EngineWaiting:
		text(s, 1, 1, r.msgs.Text("header.waiting", nil), panel.Italic(true))
	case snap.Opening != "":
		text(s, 1, 1, r.msgs.Text("header.opening", map[string]string{"Code": snap.Opening}), panel)
	}

	rowCells := l.Square / 2
	for row := 0; row < 8; row++ {
		y := g.Board.Min.Y + row*rowCells + rowCells/2
		text(s, g.Board.Min.X-2, y, string(rune('1'+int(l.RankAt(row)))), panel)
	}
	for col := 0; col < 8; col++ {
		x := g.Board.Min.X + col*l.Square + l.Square/2
		text(s, x, g.Board.Max.Y, string(rune('a'+int(l.FileAt(col)))), panel)
	}

	top, bottom := nchess.Black, nchess.White
	if l.Flipped {
		top, bottom = nchess.White, nchess.Black
	}
	r.drawClock(s, g.PanelX, g.Board.Min.Y, top, snap)
	r.drawCaptures(s, g.PanelX, g.Board.Min.Y+1, top, snap.Captures)
	r.drawCaptures(s, g.PanelX, g.Board.Max.Y-2, bottom, snap.Captures)
	r.drawClock(s, g.PanelX, g.Board.Max.Y-1, bottom, snap)

	r.drawHistory(s, g.PanelX, g.Board.Min.Y+3, g.Board.Max.Y-4, snap.Rows)
	text(s, 1, g.Board.Max.Y+2, r.msgs.Text("keys.help", nil), panel)
}

func (r *Renderer) drawClock(s tcell.Screen, x, y int, side nchess.Color, snap session.Snapshot) {
	remaining := snap.White
	if side == nchess.Black {
		remaining = snap.Black
	}
	st := style(r.theme.Text, r.theme.Panel)
	if side == snap.Turn {
		if _, over := snap.State.(session.GameOver); !over {
			st = style(buttonText, r.theme.Button).Bold(true)
		}
	}
	text(s, x, y, r.msgs.Text("clock.line", map[string]string{
		"Color": r.colorName(side),
		"Time":  clock.Format(remaining),
	}), st)
}

// drawCaptures lists the pieces side has taken, drawn in the victim's colour.
func (r *Renderer) drawCaptures(s tcell.Screen, x, y int, side nchess.Color, caps session.Captures) {
	taken := caps.White
	if side == nchess.Black {
		taken = caps.Black
	}
	var sb strings.Builder
	for _, t := range taken {
		sb.WriteRune(glyph(side.Other(), t))
	}
	if lead := caps.Material(side) - caps.Material(side.Other()); lead > 0 {
		sb.WriteString(r.msgs.Text("captures.lead", map[string]int{"Points": lead}))
	}
	text(s, x, y, r.msgs.Text("captures.line", map[string]string{
		"Color":  r.colorName(side),
		"Pieces": sb.String(),
	}), style(r.theme.Text, r.theme.Panel))
}

// drawHistory shows the latest rows that fit between top and bottom.
func (r *Renderer) drawHistory(s tcell.Screen, x, top, bottom int, rows []session.Row) {
	panel := style(r.theme.Text, r.theme.Panel)
	text(s, x, top, r.msgs.Text("history.title", nil), panel.Underline(true))
	fit := bottom - top
	if fit <= 0 {
		return
	}
	if len(rows) > fit {
		rows = rows[len(rows)-fit:]
	}
	for i, row := range rows {
		text(s, x, top+1+i, r.msgs.Text("history.row", row), panel)
	}
}

func (r *Renderer) drawPopup(s tcell.Screen, g Geometry, out session.Outcome) {
	panel := style(r.theme.Text, r.theme.Panel)
	key := "popup.draw"
	switch out.Winner {
	case nchess.White:
		key = "popup.white_wins"
	case nchess.Black:
		key = "popup.black_wins"
	}
	centered(s, g.Popup, g.Popup.Min.Y+1, r.msgs.Text(key, nil), panel.Bold(true))
	reason := r.msgs.Text("reason."+out.Reason.String(), nil)
	centered(s, g.Popup, g.Popup.Min.Y+2, r.msgs.Text("popup.reason", map[string]string{"Reason": reason}), panel)
	centered(s, g.NewGame, g.NewGame.Min.Y+1, r.msgs.Text("popup.new_game", nil), style(buttonText, r.theme.Button))
}

// Hit reports which button, if any, contains the cell (x, y).
type Hit int

const (
	HitNone Hit = iota
	HitWhite
	HitBlack
	HitNewGame
)

func (g Geometry) Hit(state session.State, x, y int) Hit {
	pt := image.Pt(x, y)
	switch state.(type) {
	case session.ColorSelection:
		if pt.In(g.WhiteButton) {
			return HitWhite
		}
		if pt.In(g.BlackButton) {
			return HitBlack
		}
	case session.GameOver:
		if pt.In(g.NewGame) {
			return HitNewGame
		}
	}
	return HitNone
}
