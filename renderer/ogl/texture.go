// renderer/ogl/texture.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package ogl

import (
	"image"
	"image/draw"
	"unsafe"

	"github.com/mmp/spritebatch/renderer"
	"github.com/mmp/spritebatch/util"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"
)

// Texture is a GL texture created by a Device.
type Texture struct {
	id            uint32
	width, height int
}

func (t *Texture) ID() uint32  { return t.id }
func (t *Texture) Width() int  { return t.width }
func (t *Texture) Height() int { return t.height }

func (d *Device) createdTexture(texid uint32, bytes int) {
	_, exists := d.createdTextures[texid]

	d.createdTextures[texid] = bytes

	reduce := func(id uint32, bytes int, total int) int { return total + bytes }
	total := util.ReduceMap[uint32, int, int](d.createdTextures, reduce, 0)
	mb := float32(total) / (1024 * 1024)

	if exists {
		d.lg.Infof("Updated tex id %d: %d bytes -> %.2f MiB of textures total", texid, bytes, mb)
	} else {
		d.lg.Infof("Created tex id %d: %d bytes -> %.2f MiB of textures total", texid, bytes, mb)
	}
}

// CreateTexture creates a texture from img.
func (d *Device) CreateTexture(img image.Image) (renderer.Texture, error) {
	return d.createTexture([]image.Image{img})
}

// CreateTextureFromImages creates a mipmapped texture; pyramid[0] is the
// base level and each following image is half the size of the previous.
func (d *Device) CreateTextureFromImages(pyramid []image.Image) (renderer.Texture, error) {
	return d.createTexture(pyramid)
}

func (d *Device) createTexture(pyramid []image.Image) (*Texture, error) {
	if len(pyramid) == 0 {
		return nil, errors.New("no images provided for texture")
	}
	b := pyramid[0].Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, errors.Wrapf(renderer.ErrInvalidTexture, "%dx%d image", b.Dx(), b.Dy())
	}

	t := &Texture{width: b.Dx(), height: b.Dy()}
	gl.GenTextures(1, &t.id)
	if err := d.updateTexture(t.id, pyramid); err != nil {
		gl.DeleteTextures(1, &t.id)
		delete(d.createdTextures, t.id)
		return nil, err
	}
	return t, nil
}

// UpdateTexture replaces the contents of t with img, which must have the
// same dimensions.
func (d *Device) UpdateTexture(t renderer.Texture, img image.Image) error {
	if b := img.Bounds(); b.Dx() != t.Width() || b.Dy() != t.Height() {
		return errors.Errorf("%dx%d image doesn't match %dx%d texture", b.Dx(), b.Dy(), t.Width(), t.Height())
	}
	return d.updateTexture(t.ID(), []image.Image{img})
}

func (d *Device) updateTexture(texid uint32, pyramid []image.Image) error {
	var lastTexture int32
	gl.GetIntegerv(gl.TEXTURE_BINDING_2D, &lastTexture)

	gl.BindTexture(gl.TEXTURE_2D, texid)
	if len(pyramid) == 1 {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	bytes := 0
	for level, img := range pyramid {
		rgba := toRGBA(img)
		nx, ny := rgba.Bounds().Dx(), rgba.Bounds().Dy()
		bytes += 4 * nx * ny

		gl.TexImage2D(gl.TEXTURE_2D, int32(level), gl.RGBA, int32(nx), int32(ny), 0, gl.RGBA,
			gl.UNSIGNED_BYTE, unsafe.Pointer(&rgba.Pix[0]))
	}

	gl.BindTexture(gl.TEXTURE_2D, uint32(lastTexture))
	if err := d.check("uploading texture"); err != nil {
		return err
	}

	d.createdTexture(texid, bytes)
	return nil
}

// toRGBA returns img as an *image.RGBA whose pixels start at the origin
// and are tightly packed.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) &&
		rgba.Stride == 4*rgba.Bounds().Dx() {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

func (d *Device) DestroyTexture(t renderer.Texture) {
	texid := t.ID()
	if _, ok := d.createdTextures[texid]; !ok {
		d.lg.Warnf("%d: destroying unknown texture", texid)
		return
	}
	gl.DeleteTextures(1, &texid)
	delete(d.createdTextures, texid)
}

// TextureMemory returns the number of bytes of texture data the device
// has uploaded.
func (d *Device) TextureMemory() int {
	return util.ReduceMap(d.createdTextures, func(_ uint32, bytes int, total int) int { return total + bytes }, 0)
}
