package styles

import (
	"fmt"
	"image/color"
	"strconv"
)

// Color is a straight-alpha RGB colour as used by CSS and SVG.
type Color struct {
	R, G, B uint8
	A       float64
}

// RGB returns an opaque colour.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 1} }

// RGBA returns a colour with the given alpha in [0,1].
func RGBA(r, g, b uint8, a float64) Color { return Color{R: r, G: g, B: b, A: a} }

// CSS formats the colour as rgb() or rgba().
func (c Color) CSS() string {
	if c.A >= 1 {
		return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// Hex formats the opaque part of the colour as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// NRGBA converts to an image/color value.
func (c Color) NRGBA() color.NRGBA {
	a := c.A
	a = max(0, min(1, a))
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(a*255 + 0.5)}
}

// Palette.
var (
	White       = RGB(255, 255, 255)
	Accent      = RGB(79, 70, 229)
	Amber       = RGB(245, 158, 11)
	Success     = RGB(16, 185, 129)
	Danger      = RGB(239, 68, 68)
	Neutral     = RGB(107, 114, 128)
	NeutralDark = RGB(75, 85, 99)
)

// WithAlpha returns c with alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}
