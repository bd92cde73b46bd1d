// renderer/rgb.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"github.com/mmp/spritebatch/math"
)

///////////////////////////////////////////////////////////////////////////
// RGBA

// RGBA is a color with normalized [0,1] channels. Colors are copied into
// vertices as given; it is up to the pass's BlendMode whether they are
// interpreted as premultiplied.
type RGBA struct {
	R, G, B, A float32
}

var (
	White       = RGBA{1, 1, 1, 1}
	Black       = RGBA{0, 0, 0, 1}
	Red         = RGBA{1, 0, 0, 1}
	Green       = RGBA{0, 1, 0, 1}
	Blue        = RGBA{0, 0, 1, 1}
	Yellow      = RGBA{1, 1, 0, 1}
	Transparent = RGBA{}
)

func LerpRGBA(x float32, a, b RGBA) RGBA {
	return RGBA{
		R: math.Lerp(x, a.R, b.R),
		G: math.Lerp(x, a.G, b.G),
		B: math.Lerp(x, a.B, b.B),
		A: math.Lerp(x, a.A, b.A),
	}
}

// RGBAFromHex converts a packed integer color value to an opaque RGBA
// where the low 8 bits give blue, the next 8 give green, and then the
// next 8 give red.
func RGBAFromHex(c int) RGBA {
	r, g, b := (c>>16)&255, (c>>8)&255, c&255
	return RGBA{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255, A: 1}
}

func RGBAFromUInt8(r, g, b, a uint8) RGBA {
	return RGBA{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255, A: float32(a) / 255}
}

// Premultiplied returns the color with its RGB channels scaled by alpha,
// as expected when drawing with BlendPremultiplied.
func (c RGBA) Premultiplied() RGBA {
	return RGBA{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

func (c RGBA) Scale(v float32) RGBA {
	return RGBA{R: c.R * v, G: c.G * v, B: c.B * v, A: c.A}
}
