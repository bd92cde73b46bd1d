// font/face.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package font

import (
	"fmt"
	"image"

	"github.com/mmp/spritebatch/renderer"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Number of glyph cells in each row of a rasterized atlas.
const atlasColumns = 16

// PrintableASCII returns the runes from ' ' through '~'.
func PrintableASCII() []rune {
	var r []rune
	for ch := ' '; ch <= '~'; ch++ {
		r = append(r, ch)
	}
	return r
}

// NewFromFace rasterizes the given runes of face into an atlas of
// equal-sized cells. Runes that face has no glyph for are skipped.
func NewFromFace(face xfont.Face, id FontIdentifier, runes []rune) (*Font, error) {
	m := face.Metrics()
	ascent := m.Ascent.Ceil()
	cellHeight := max(m.Height.Ceil(), (m.Ascent + m.Descent).Ceil())

	cellWidth := 0
	var have []rune
	for _, ch := range runes {
		if adv, ok := face.GlyphAdvance(ch); ok {
			cellWidth = max(cellWidth, adv.Ceil())
			have = append(have, ch)
		}
	}
	if len(have) == 0 || cellWidth == 0 || cellHeight == 0 {
		return nil, fmt.Errorf("%s: face has none of the %d requested glyphs", id.Name, len(runes))
	}

	// Cells are separated by a pixel so that linear filtering doesn't
	// pick up the neighbors.
	pw, ph := cellWidth+1, cellHeight+1
	rows := (len(have) + atlasColumns - 1) / atlasColumns
	atlas := image.NewRGBA(image.Rect(0, 0, atlasColumns*pw+1, rows*ph+1))

	d := xfont.Drawer{Dst: atlas, Src: image.White, Face: face}
	f := makeFont(id, float32(cellHeight), atlas)
	for i, ch := range have {
		x, y := 1+pw*(i%atlasColumns), 1+ph*(i/atlasColumns)
		d.Dot = fixed.P(x, y+ascent)
		d.DrawString(string(ch))

		adv, _ := face.GlyphAdvance(ch)
		f.AddGlyph(ch, &Glyph{
			Bounds: renderer.Rectangle{
				X:      float32(x),
				Y:      float32(y),
				Width:  float32(cellWidth),
				Height: float32(cellHeight),
			},
			AdvanceX: float32(adv.Ceil()),
		})
	}
	f.setMissing('?', ' ')

	return f, nil
}

// Default returns the printable ASCII range of the 7x13 fixed font from
// x/image.
func Default() *Font {
	f, err := NewFromFace(basicfont.Face7x13, FontIdentifier{Name: "Fixed", Size: 13}, PrintableASCII())
	if err != nil {
		// The face is built in, so this is a bug.
		panic(err)
	}
	return f
}
