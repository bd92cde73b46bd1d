// renderer/texture.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Texture is a device texture. The batcher never creates or frees
// textures; it only uses their identity and dimensions.
type Texture interface {
	// ID returns the device handle, which is also used to group items.
	ID() uint32
	Width() int
	Height() int
}

// TextureRef is a Texture described by value.
type TextureRef struct {
	Handle uint32
	Size   [2]int
}

func (t TextureRef) ID() uint32  { return t.Handle }
func (t TextureRef) Width() int  { return t.Size[0] }
func (t TextureRef) Height() int { return t.Size[1] }

// Font provides the glyph layout information used by DrawString.
type Font interface {
	// Texture returns the glyph atlas.
	Texture() Texture
	// GlyphBounds returns the glyph's rectangle in atlas pixels.
	GlyphBounds(ch rune) Rectangle
	// Size returns the line height.
	Size() float32
	// Spacing returns the horizontal advance between glyphs.
	Spacing() float32
}

// Camera supplies the matrices passed to an Effect at Begin.
type Camera interface {
	Projection() mgl32.Mat4
	View() mgl32.Mat4
}

// Effect is a shader program that transforms batched vertices.
type Effect interface {
	SetProjection(m mgl32.Mat4)
	SetView(m mgl32.Mat4)
	// Use makes the effect the device's current program.
	Use()
}

// OrthoCamera maps screen coordinates, with the origin at the upper left
// and y increasing downward, to clip space. Depth values in [-1,1] are
// visible; larger depths are nearer the viewer.
type OrthoCamera struct {
	Width, Height float32
	// Position is the world-space point shown at the upper left.
	Position [2]float32
	Zoom     float32
}

func NewOrthoCamera(width, height float32) *OrthoCamera {
	return &OrthoCamera{Width: width, Height: height, Zoom: 1}
}

func (c *OrthoCamera) Projection() mgl32.Mat4 {
	return mgl32.Ortho(0, c.Width, c.Height, 0, -1, 1)
}

func (c *OrthoCamera) View() mgl32.Mat4 {
	zoom := c.Zoom
	if zoom == 0 {
		zoom = 1
	}
	return mgl32.Scale3D(zoom, zoom, 1).Mul4(mgl32.Translate3D(-c.Position[0], -c.Position[1], 0))
}
