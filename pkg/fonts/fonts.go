// Package fonts provides the glyph font for raster rendering.
//
// The Go Regular face ships with golang.org/x/image, so the binary needs no
// system fonts to draw node glyphs into PNGs.
package fonts

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Parsed font (computed once on first access).
var (
	regular     *truetype.Font
	regularErr  error
	regularOnce sync.Once
)

// Regular returns the parsed Go Regular font.
func Regular() (*truetype.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = truetype.Parse(goregular.TTF)
		if regularErr != nil {
			regularErr = fmt.Errorf("parse go regular: %w", regularErr)
		}
	})
	return regular, regularErr
}

// Face returns a Go Regular face at the given size in points (72 DPI, so one
// point is one pixel).
func Face(size float64) (font.Face, error) {
	f, err := Regular()
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}), nil
}

// FontFamily is the CSS font-family used for SVG glyphs. Browsers fall back
// to sans-serif when Arial is missing.
const FontFamily = "Arial, Helvetica, sans-serif"
