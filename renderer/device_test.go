// renderer/device_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

var errDeviceOutOfMemory = errors.New("out of device memory")

// spyDraw records the state in effect at one DrawIndexed call.
type spyDraw struct {
	texture  uint32
	buffer   Handle
	vertices []float32
	indices  int
}

// spyDevice is a Device that tracks buffer lifetimes and the data each
// draw call would consume.
type spyDevice struct {
	calls []string

	next  Handle
	live  map[Handle]string
	index map[Handle][]uint16
	// vertex buffer contents and capacity, in floats
	contents map[Handle][]float32
	capacity map[Handle]int

	// Fail the n'th vertex buffer creation (1-based) if non-zero.
	failVertexBuffer int
	nVertexBuffers   int

	blend        BlendMode
	rasterizer   RasterizerState
	sampler      SamplerState
	depthStencil DepthStencilState
	stateSets    int

	boundTexture uint32
	boundBuffer  Handle
	draws        []spyDraw
	errors       []string
}

func newSpyDevice() *spyDevice {
	return &spyDevice{
		live:     make(map[Handle]string),
		index:    make(map[Handle][]uint16),
		contents: make(map[Handle][]float32),
		capacity: make(map[Handle]int),
	}
}

func (d *spyDevice) errorf(f string, args ...any) {
	d.errors = append(d.errors, fmt.Sprintf(f, args...))
}

func (d *spyDevice) CreateIndexBuffer(indices []uint16) (Handle, error) {
	d.calls = append(d.calls, "CreateIndexBuffer")
	d.next++
	d.live[d.next] = "index"
	d.index[d.next] = slices.Clone(indices)
	return d.next, nil
}

func (d *spyDevice) CreateVertexBuffer(format VertexFormat, maxVertices int, ib Handle) (Handle, error) {
	d.calls = append(d.calls, "CreateVertexBuffer")
	d.nVertexBuffers++
	if d.nVertexBuffers == d.failVertexBuffer {
		return 0, errDeviceOutOfMemory
	}
	if d.live[ib] != "index" {
		d.errorf("CreateVertexBuffer with invalid index buffer %d", ib)
	}
	d.next++
	d.live[d.next] = "vertex"
	d.capacity[d.next] = maxVertices * format.Stride()
	return d.next, nil
}

func (d *spyDevice) DeleteIndexBuffer(h Handle) {
	d.calls = append(d.calls, "DeleteIndexBuffer")
	if d.live[h] != "index" {
		d.errorf("DeleteIndexBuffer of invalid handle %d", h)
	}
	delete(d.live, h)
}

func (d *spyDevice) DeleteVertexBuffer(h Handle) {
	d.calls = append(d.calls, "DeleteVertexBuffer")
	if d.live[h] != "vertex" {
		d.errorf("DeleteVertexBuffer of invalid handle %d", h)
	}
	delete(d.live, h)
}

func (d *spyDevice) SetBlendMode(b BlendMode) {
	d.calls = append(d.calls, "SetBlendMode "+b.String())
	d.blend = b
	d.stateSets++
}

func (d *spyDevice) SetRasterizerState(r RasterizerState) {
	d.calls = append(d.calls, "SetRasterizerState "+r.String())
	d.rasterizer = r
}

func (d *spyDevice) SetSamplerState(s SamplerState) {
	d.calls = append(d.calls, "SetSamplerState "+s.String())
	d.sampler = s
}

func (d *spyDevice) SetDepthStencilState(ds DepthStencilState) {
	d.calls = append(d.calls, "SetDepthStencilState "+ds.String())
	d.depthStencil = ds
}

func (d *spyDevice) BindTexture(id uint32) {
	d.calls = append(d.calls, fmt.Sprintf("BindTexture %d", id))
	d.boundTexture = id
}

func (d *spyDevice) BindVertexBuffer(h Handle) {
	d.calls = append(d.calls, fmt.Sprintf("BindVertexBuffer %d", h))
	if d.live[h] != "vertex" {
		d.errorf("BindVertexBuffer of invalid handle %d", h)
	}
	d.boundBuffer = h
}

func (d *spyDevice) UploadVertices(data []float32) {
	d.calls = append(d.calls, fmt.Sprintf("UploadVertices %d", len(data)))
	if d.boundBuffer == 0 {
		d.errorf("UploadVertices with no bound buffer")
		return
	}
	if len(data) > d.capacity[d.boundBuffer] {
		d.errorf("UploadVertices of %d floats overflows buffer of %d", len(data), d.capacity[d.boundBuffer])
	}
	d.contents[d.boundBuffer] = slices.Clone(data)
}

func (d *spyDevice) DrawIndexed(indexCount int) {
	d.calls = append(d.calls, fmt.Sprintf("DrawIndexed %d", indexCount))
	if indexCount <= 0 {
		d.errorf("DrawIndexed with %d indices", indexCount)
	}
	d.draws = append(d.draws, spyDraw{
		texture:  d.boundTexture,
		buffer:   d.boundBuffer,
		vertices: d.contents[d.boundBuffer],
		indices:  indexCount,
	})
}

func (d *spyDevice) Unbind() {
	d.calls = append(d.calls, "Unbind")
	d.boundTexture = 0
	d.boundBuffer = 0
}

// spyEffect counts the calls made to it.
type spyEffect struct {
	projections, views, uses int
	calls                    []string
}

func (e *spyEffect) SetProjection(m mgl32.Mat4) {
	e.projections++
	e.calls = append(e.calls, "SetProjection")
}

func (e *spyEffect) SetView(m mgl32.Mat4) {
	e.views++
	e.calls = append(e.calls, "SetView")
}

func (e *spyEffect) Use() {
	e.uses++
	e.calls = append(e.calls, "Use")
}

// testFont lays out glyphs from a 64x64 atlas of 8x16 cells.
type testFont struct {
	tex Texture
}

func (f testFont) Texture() Texture { return f.tex }
func (f testFont) Size() float32    { return 16 }
func (f testFont) Spacing() float32 { return 10 }

func (f testFont) GlyphBounds(ch rune) Rectangle {
	i := int(ch) % 32
	return Rectangle{X: float32(8 * (i % 8)), Y: float32(16 * (i / 8)), Width: 8, Height: 16}
}
