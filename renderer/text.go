// renderer/text.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"github.com/mmp/spritebatch/math"
)

// glyphCount returns the number of quads DrawString emits for s.
func glyphCount(s string) int {
	n := 0
	for _, ch := range s {
		if ch != '\n' && ch != '\r' {
			n++
		}
	}
	return n
}

// DrawString records one quad per character of text using the font's
// glyph atlas. Glyphs are placed on a fixed-pitch grid: each advances by
// font.Spacing()*scale[0] and each '\n' moves down by
// font.Size()*scale[1] and back to the first column; '\r' is ignored.
// origin, in unscaled pixels from the upper left of the laid-out text, is
// placed at position. After layout, the glyph corners are rotated by
// rotation radians about position and then mirrored about it according
// to orient.
//
// Mirroring along exactly one axis reverses the winding of the glyph
// triangles, so such text is discarded when the pass culls either
// winding.
func (sb *SpriteBatch) DrawString(font Font, text string, position [2]float32, color RGBA,
	origin [2]float32, rotation float32, scale [2]float32, orient Orientation, depth float32) error {
	if err := sb.reserve("DrawString", glyphCount(text)); err != nil {
		return err
	}
	if font == nil {
		return sb.fail("DrawString", ErrNilFont)
	}
	tex := font.Texture()
	if err := checkTexture(tex); err != nil {
		return sb.fail("DrawString", err)
	}

	start := sb.items.len()
	left := -origin[0] * scale[0]
	offset := [2]float32{left, -origin[1] * scale[1]}
	for _, ch := range text {
		switch ch {
		case '\n':
			offset[0] = left
			offset[1] += font.Size() * scale[1]
		case '\r':
		default:
			p := math.Add2f(position, offset)
			q := SpriteQuad(tex.Width(), tex.Height(), p, font.GlyphBounds(ch), color, [2]float32{}, 0,
				scale, OrientationNone, depth)
			sb.items.add(tex.ID(), depth, q)
			offset[0] += font.Spacing() * scale[0]
		}
	}

	if rotation == 0 && orient == OrientationNone {
		return nil
	}

	rotate := math.Rotator2f(rotation, position)
	xf := func(p [2]float32) [2]float32 {
		p = rotate(p)
		if orient.Has(FlipHorizontal) {
			p[0] = 2*position[0] - p[0]
		}
		if orient.Has(FlipVertical) {
			p[1] = 2*position[1] - p[1]
		}
		return p
	}
	for i := start; i < sb.items.len(); i++ {
		sb.items.items[i].Quad.transformPositions(xf)
	}
	return nil
}

// MeasureString returns the size of the box DrawString would lay text out
// in, before any rotation.
func MeasureString(font Font, text string, scale [2]float32) [2]float32 {
	var width, x float32
	lines := 1
	for _, ch := range text {
		switch ch {
		case '\n':
			lines++
			x = 0
		case '\r':
		default:
			x += font.Spacing() * scale[0]
			width = math.Max(width, x)
		}
	}
	return [2]float32{width, float32(lines) * font.Size() * scale[1]}
}
