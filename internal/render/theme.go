package render

import (
	"image/color"

	"github.com/gdamore/tcell/v2"
)

type Theme struct {
	Light         color.NRGBA
	Dark          color.NRGBA
	Highlight     color.NRGBA
	MoveHighlight color.NRGBA
	LastMove      color.NRGBA
	Panel         color.NRGBA
	Text          color.NRGBA
	Button        color.NRGBA
}

var DefaultTheme = Theme{
	Light:         color.NRGBA{240, 217, 181, 255},
	Dark:          color.NRGBA{181, 136, 99, 255},
	Highlight:     color.NRGBA{247, 247, 105, 150},
	MoveHighlight: color.NRGBA{106, 168, 79, 150},
	LastMove:      color.NRGBA{205, 210, 106, 128},
	Panel:         color.NRGBA{240, 240, 240, 255},
	Text:          color.NRGBA{50, 50, 50, 255},
	Button:        color.NRGBA{70, 130, 180, 255},
}

var (
	dimColor    = color.NRGBA{0, 0, 0, 128}
	buttonText  = color.NRGBA{255, 255, 255, 255}
	popupBorder = color.NRGBA{90, 90, 90, 255}
)

func tcellColor(c color.Color) tcell.Color {
	r, g, b, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}

func style(fg, bg color.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(tcellColor(fg)).Background(tcellColor(bg))
}
