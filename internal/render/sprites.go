package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"sync"

	nchess "github.com/corentings/chess/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"
)

var errNoPaths = errors.New("svg has no drawable paths")

// Rasterizing this much larger and scaling down keeps tiny sprites legible.
const oversample = 8

type spriteKey struct {
	piece nchess.Piece
	size  int
}

// Sprites holds parsed piece icons and their rasterized images per size.
type Sprites struct {
	mu    sync.Mutex
	icons map[nchess.Piece]*oksvg.SvgIcon
	cache map[spriteKey]*image.RGBA
}

var allPieces = []nchess.Piece{
	nchess.WhiteKing, nchess.WhiteQueen, nchess.WhiteRook, nchess.WhiteBishop, nchess.WhiteKnight, nchess.WhitePawn,
	nchess.BlackKing, nchess.BlackQueen, nchess.BlackRook, nchess.BlackBishop, nchess.BlackKnight, nchess.BlackPawn,
}

// LoadSprites reads {w,b}{K,Q,R,B,N,P}.svg from fsys. Missing or broken
// files are logged and left out; those pieces are simply not drawn.
func LoadSprites(fsys fs.FS, logger *zap.Logger) *Sprites {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Sprites{
		icons: make(map[nchess.Piece]*oksvg.SvgIcon, len(allPieces)),
		cache: make(map[spriteKey]*image.RGBA),
	}
	for _, p := range allPieces {
		name := pieceAssetName(p)
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			logger.Warn("sprite_missing", zap.String("path", name), zap.Error(err))
			continue
		}
		icon, err := oksvg.ReadIconStream(bytes.NewReader(sanitizeSVG(data)))
		if err == nil && len(icon.SVGPaths) == 0 {
			err = errNoPaths
		}
		if err != nil {
			logger.Warn("sprite_invalid", zap.String("path", name), zap.Error(err))
			continue
		}
		s.icons[p] = icon
	}
	logger.Debug("sprites_loaded", zap.Int("count", len(s.icons)))
	return s
}

func (s *Sprites) Len() int { return len(s.icons) }

// Image returns the sprite for p scaled to size x size, or nil when the
// piece has no sprite.
func (s *Sprites) Image(p nchess.Piece, size int) image.Image {
	if s == nil || size <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := spriteKey{piece: p, size: size}
	if img, ok := s.cache[key]; ok {
		return img
	}
	icon, ok := s.icons[p]
	if !ok {
		return nil
	}

	hi := size * oversample
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		icon.ViewBox.W, icon.ViewBox.H = float64(hi), float64(hi)
	}
	icon.SetTarget(0, 0, float64(hi), float64(hi))
	big := image.NewRGBA(image.Rect(0, 0, hi, hi))
	scanner := rasterx.NewScannerGV(hi, hi, big, big.Bounds())
	icon.Draw(rasterx.NewDasher(hi, hi, scanner), 1.0)

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(img, img.Bounds(), big, big.Bounds(), xdraw.Src, nil)
	s.cache[key] = img
	return img
}

func pieceAssetName(p nchess.Piece) string {
	prefix := "b"
	if p.Color() == nchess.White {
		prefix = "w"
	}
	return fmt.Sprintf("%s%s.svg", prefix, pieceLetter(p.Type()))
}

func pieceLetter(t nchess.PieceType) string {
	switch t {
	case nchess.King:
		return "K"
	case nchess.Queen:
		return "Q"
	case nchess.Rook:
		return "R"
	case nchess.Bishop:
		return "B"
	case nchess.Knight:
		return "N"
	case nchess.Pawn:
		return "P"
	}
	return "?"
}

// sanitizeSVG fixes style spellings oksvg rejects.
func sanitizeSVG(svg []byte) []byte {
	fixed := bytes.ReplaceAll(svg, []byte("fill:000000"), []byte("fill:#000000"))
	fixed = bytes.ReplaceAll(fixed, []byte("fill: 000000"), []byte("fill:#000000"))
	fixed = bytes.ReplaceAll(fixed, []byte("stroke: 000000"), []byte("stroke:#000000"))
	fixed = bytes.ReplaceAll(fixed, []byte("fill: #"), []byte("fill:#"))
	fixed = bytes.ReplaceAll(fixed, []byte("stroke: #"), []byte("stroke:#"))
	return fixed
}

var (
	whiteGlyphs = map[nchess.PieceType]rune{
		nchess.King: '♔', nchess.Queen: '♕', nchess.Rook: '♖',
		nchess.Bishop: '♗', nchess.Knight: '♘', nchess.Pawn: '♙',
	}
	blackGlyphs = map[nchess.PieceType]rune{
		nchess.King: '♚', nchess.Queen: '♛', nchess.Rook: '♜',
		nchess.Bishop: '♝', nchess.Knight: '♞', nchess.Pawn: '♟',
	}
)

// glyph is the Unicode figure for a piece, used in the capture tally.
func glyph(c nchess.Color, t nchess.PieceType) rune {
	if c == nchess.White {
		return whiteGlyphs[t]
	}
	return blackGlyphs[t]
}
