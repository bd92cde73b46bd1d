// renderer/geometry.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"strings"

	"github.com/mmp/spritebatch/math"
)

///////////////////////////////////////////////////////////////////////////
// Orientation

// Orientation is a set of independent mirroring flags.
type Orientation uint8

const (
	FlipHorizontal Orientation = 1 << iota
	FlipVertical

	OrientationNone Orientation = 0
)

func (o Orientation) Has(f Orientation) bool {
	return o&f == f
}

func (o Orientation) With(f Orientation) Orientation {
	return o | f
}

func (o Orientation) Without(f Orientation) Orientation {
	return o &^ f
}

func (o Orientation) String() string {
	var s []string
	if o.Has(FlipHorizontal) {
		s = append(s, "FlipHorizontal")
	}
	if o.Has(FlipVertical) {
		s = append(s, "FlipVertical")
	}
	if len(s) == 0 {
		return "None"
	}
	return strings.Join(s, "|")
}

///////////////////////////////////////////////////////////////////////////
// Rectangle

// Rectangle is an axis-aligned rectangle with its origin at the upper
// left, in pixels.
type Rectangle struct {
	X, Y, Width, Height float32
}

func (r Rectangle) Min() [2]float32  { return [2]float32{r.X, r.Y} }
func (r Rectangle) Max() [2]float32  { return [2]float32{r.X + r.Width, r.Y + r.Height} }
func (r Rectangle) Size() [2]float32 { return [2]float32{r.Width, r.Height} }

func (r Rectangle) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// textureBounds returns the rectangle covering all of t.
func textureBounds(t Texture) Rectangle {
	return Rectangle{Width: float32(t.Width()), Height: float32(t.Height())}
}

///////////////////////////////////////////////////////////////////////////
// Quad

// Quad holds the four corners of one rectangle, named by their position
// before any rotation.
type Quad struct {
	TL, TR, BL, BR Vertex
}

// Positions returns the corner positions in TL, TR, BL, BR order.
func (q *Quad) Positions() [4][2]float32 {
	return [4][2]float32{
		{q.TL.Position[0], q.TL.Position[1]},
		{q.TR.Position[0], q.TR.Position[1]},
		{q.BL.Position[0], q.BL.Position[1]},
		{q.BR.Position[0], q.BR.Position[1]},
	}
}

// FlipUVs mirrors the quad's texture coordinates along each axis named
// in orient. Flipping twice along an axis restores the original mapping.
func (q *Quad) FlipUVs(orient Orientation) {
	if orient.Has(FlipHorizontal) {
		q.TL.UV[0], q.TR.UV[0] = q.TR.UV[0], q.TL.UV[0]
		q.BL.UV[0], q.BR.UV[0] = q.BR.UV[0], q.BL.UV[0]
	}
	if orient.Has(FlipVertical) {
		q.TL.UV[1], q.BL.UV[1] = q.BL.UV[1], q.TL.UV[1]
		q.TR.UV[1], q.BR.UV[1] = q.BR.UV[1], q.TR.UV[1]
	}
}

func (q *Quad) transformPositions(xf func([2]float32) [2]float32) {
	for _, v := range []*Vertex{&q.TL, &q.TR, &q.BL, &q.BR} {
		p := xf([2]float32{v.Position[0], v.Position[1]})
		v.Position[0], v.Position[1] = p[0], p[1]
	}
}

// SpriteQuad returns the quad that draws the src region of a texture of
// the given pixel dimensions. The region is scaled by scale and rotated by
// rotation radians about origin, which is given in unscaled source
// pixels relative to the region's upper left; the origin is then placed
// at position. Texture coordinates are inset by one texel on each edge
// and are swapped along each axis named in orient.
func SpriteQuad(texWidth, texHeight int, position [2]float32, src Rectangle, color RGBA,
	origin [2]float32, rotation float32, scale [2]float32, orient Orientation, depth float32) Quad {
	texSize := [2]float32{float32(texWidth), float32(texHeight)}
	c := [2]float32{1 / texSize[0], 1 / texSize[1]}

	uv0 := math.Add2f([2]float32{src.X / texSize[0], src.Y / texSize[1]}, c)
	uv1 := math.Sub2f([2]float32{(src.X + src.Width) / texSize[0], (src.Y + src.Height) / texSize[1]}, c)

	size := math.Mul2f(src.Size(), scale)
	o := math.Scale2f(math.Mul2f(origin, scale), -1)

	sin, cos := math.SinCos(rotation)
	corner := func(dx, dy float32) [2]float32 {
		return math.Add2f(position, math.Rotate2f(math.Add2f(o, [2]float32{dx, dy}), sin, cos))
	}

	q := Quad{
		TL: makeVertex(corner(0, 0), depth, color, uv0),
		TR: makeVertex(corner(size[0], 0), depth, color, [2]float32{uv1[0], uv0[1]}),
		BL: makeVertex(corner(0, size[1]), depth, color, [2]float32{uv0[0], uv1[1]}),
		BR: makeVertex(corner(size[0], size[1]), depth, color, uv1),
	}
	q.FlipUVs(orient)
	return q
}

// SolidQuad returns a quad with the given corners that samples all of a
// texture without inset; it is used with a 1x1 white texture for filled
// shapes.
func SolidQuad(tl, tr, bl, br [2]float32, color RGBA, depth float32) Quad {
	return GradientQuad(tl, tr, bl, br, color, color, depth)
}

// GradientQuad is like SolidQuad but colors the top corners with top and
// the bottom corners with bottom.
func GradientQuad(tl, tr, bl, br [2]float32, top, bottom RGBA, depth float32) Quad {
	return Quad{
		TL: makeVertex(tl, depth, top, [2]float32{0, 0}),
		TR: makeVertex(tr, depth, top, [2]float32{1, 0}),
		BL: makeVertex(bl, depth, bottom, [2]float32{0, 1}),
		BR: makeVertex(br, depth, bottom, [2]float32{1, 1}),
	}
}

// LineQuad returns a quad of the given thickness running from a to b,
// colored ca at a and cb at b. A degenerate segment gives a quad with no
// area.
func LineQuad(a, b [2]float32, thickness float32, ca, cb RGBA, depth float32) Quad {
	p := math.Scale2f(math.Perp2f(a, b), thickness/2)
	return GradientQuad(math.Add2f(a, p), math.Sub2f(a, p), math.Add2f(b, p), math.Sub2f(b, p), ca, cb, depth)
}
