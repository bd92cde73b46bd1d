// cmd/capdump/device.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"fmt"

	"github.com/mmp/spritebatch/renderer"
)

type vertexBuffer struct {
	format   renderer.VertexFormat
	vertices int
	ib       renderer.Handle
	// floats in the most recent upload
	uploaded int
}

// statsDevice is a renderer.Device that draws nothing; it checks that the
// calls made to it are consistent and tallies what a real device would
// have been asked to do.
type statsDevice struct {
	next          renderer.Handle
	indexBuffers  map[renderer.Handle]int
	vertexBuffers map[renderer.Handle]*vertexBuffer

	texture uint32
	bound   renderer.Handle

	// Quads drawn with each texture.
	TextureQuads map[uint32]int
	// Number of draw calls per pass, in order.
	PassDraws    []int
	TextureBinds int
	StateChanges int
	MaxUpload    int
	Problems     []string

	lastState  [4]uint32
	stateValid [4]bool
}

func newStatsDevice() *statsDevice {
	return &statsDevice{
		indexBuffers:  make(map[renderer.Handle]int),
		vertexBuffers: make(map[renderer.Handle]*vertexBuffer),
		TextureQuads:  make(map[uint32]int),
	}
}

func (d *statsDevice) problem(f string, args ...any) {
	d.Problems = append(d.Problems, fmt.Sprintf(f, args...))
}

func (d *statsDevice) CreateIndexBuffer(indices []uint16) (renderer.Handle, error) {
	d.next++
	d.indexBuffers[d.next] = len(indices)
	return d.next, nil
}

func (d *statsDevice) CreateVertexBuffer(format renderer.VertexFormat, maxVertices int, ib renderer.Handle) (renderer.Handle, error) {
	if _, ok := d.indexBuffers[ib]; !ok {
		return 0, fmt.Errorf("%d: unknown index buffer", ib)
	}
	d.next++
	d.vertexBuffers[d.next] = &vertexBuffer{format: format, vertices: maxVertices, ib: ib}
	return d.next, nil
}

func (d *statsDevice) DeleteIndexBuffer(h renderer.Handle) {
	if _, ok := d.indexBuffers[h]; !ok {
		d.problem("%d: deleting unknown index buffer", h)
	}
	delete(d.indexBuffers, h)
}

func (d *statsDevice) DeleteVertexBuffer(h renderer.Handle) {
	if _, ok := d.vertexBuffers[h]; !ok {
		d.problem("%d: deleting unknown vertex buffer", h)
	}
	if d.bound == h {
		d.problem("%d: deleting bound vertex buffer", h)
	}
	delete(d.vertexBuffers, h)
}

// setState counts state changes; the blend mode is set first in each
// pass, so it also marks the start of a new pass.
func (d *statsDevice) setState(i int, v uint32) {
	if i == 0 {
		d.PassDraws = append(d.PassDraws, 0)
	}
	if !d.stateValid[i] || d.lastState[i] != v {
		d.StateChanges++
	}
	d.lastState[i], d.stateValid[i] = v, true
}

func (d *statsDevice) SetBlendMode(b renderer.BlendMode) { d.setState(0, uint32(b)) }
func (d *statsDevice) SetRasterizerState(r renderer.RasterizerState) {
	d.setState(1, uint32(r))
}
func (d *statsDevice) SetSamplerState(s renderer.SamplerState) { d.setState(2, uint32(s)) }
func (d *statsDevice) SetDepthStencilState(ds renderer.DepthStencilState) {
	d.setState(3, uint32(ds))
}

func (d *statsDevice) BindTexture(id uint32) {
	d.texture = id
	d.TextureBinds++
}

func (d *statsDevice) BindVertexBuffer(h renderer.Handle) {
	if _, ok := d.vertexBuffers[h]; !ok {
		d.problem("%d: binding unknown vertex buffer", h)
	}
	d.bound = h
}

func (d *statsDevice) UploadVertices(data []float32) {
	vb, ok := d.vertexBuffers[d.bound]
	if !ok {
		d.problem("upload of %d floats with no vertex buffer bound", len(data))
		return
	}
	if capacity := vb.vertices * vb.format.Stride(); len(data) > capacity {
		d.problem("%d: upload of %d floats overflows %d float buffer", d.bound, len(data), capacity)
	}
	if len(data)%vb.format.Stride() != 0 {
		d.problem("%d: upload of %d floats is not a whole number of %s vertices", d.bound, len(data), vb.format)
	}
	vb.uploaded = len(data)
	d.MaxUpload = max(d.MaxUpload, len(data))
}

func (d *statsDevice) DrawIndexed(indexCount int) {
	vb, ok := d.vertexBuffers[d.bound]
	if !ok {
		d.problem("draw of %d indices with no vertex buffer bound", indexCount)
		return
	}
	if indexCount%6 != 0 {
		d.problem("draw of %d indices is not a whole number of quads", indexCount)
	}
	if n := d.indexBuffers[vb.ib]; indexCount > n {
		d.problem("draw of %d indices exceeds the %d index buffer", indexCount, n)
	}
	if uploadedQuads := vb.uploaded / vb.format.Stride() / 4; indexCount/6 > uploadedQuads {
		d.problem("draw of %d quads with %d uploaded", indexCount/6, uploadedQuads)
	}

	d.TextureQuads[d.texture] += indexCount / 6
	if len(d.PassDraws) == 0 {
		d.PassDraws = append(d.PassDraws, 0)
	}
	d.PassDraws[len(d.PassDraws)-1]++
}

func (d *statsDevice) Unbind() {
	d.texture = 0
	d.bound = 0
}

// Leaked returns the number of buffers that were never deleted.
func (d *statsDevice) Leaked() int {
	return len(d.indexBuffers) + len(d.vertexBuffers)
}
