// renderer/renderer.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"log/slog"
)

// Handle identifies a buffer created by a Device. The zero Handle is never
// returned by a successful create call.
type Handle uint32

// Device is the graphics device context used by SpriteBatch. All calls
// are made from a single goroutine in program order; binds made through
// it are undone by Unbind before the batcher returns control.
type Device interface {
	// CreateIndexBuffer creates a static 16-bit index buffer holding
	// the given indices.
	CreateIndexBuffer(indices []uint16) (Handle, error)
	// CreateVertexBuffer creates a dynamic vertex buffer with room for
	// maxVertices vertices of the given format, along with the vertex
	// layout that binds it with the index buffer ib.
	CreateVertexBuffer(format VertexFormat, maxVertices int, ib Handle) (Handle, error)
	DeleteIndexBuffer(h Handle)
	DeleteVertexBuffer(h Handle)

	SetBlendMode(b BlendMode)
	SetRasterizerState(r RasterizerState)
	SetSamplerState(s SamplerState)
	SetDepthStencilState(d DepthStencilState)

	BindTexture(id uint32)
	BindVertexBuffer(h Handle)
	// UploadVertices replaces the start of the bound vertex buffer
	// with the given interleaved vertex data.
	UploadVertices(data []float32)
	// DrawIndexed draws indexCount indices from the start of the bound
	// vertex buffer's index buffer as a triangle list.
	DrawIndexed(indexCount int)
	Unbind()
}

// RendererStats encapsulates assorted statistics from rendering.
type RendererStats struct {
	Passes      int
	DrawCalls   int
	Quads       int
	Vertices    int
	Indices     int
	UploadBytes int
	Buffers     int
	BufferBytes int
}

func (rs *RendererStats) String() string {
	return fmt.Sprintf("%d passes, %d buffers (%.2f MB), %d draw calls: %d quads, %d vertices, %d indices, %.2f MB uploaded",
		rs.Passes, rs.Buffers, float32(rs.BufferBytes)/(1024*1024), rs.DrawCalls, rs.Quads, rs.Vertices,
		rs.Indices, float32(rs.UploadBytes)/(1024*1024))
}

func (rs *RendererStats) Merge(s RendererStats) {
	rs.Passes += s.Passes
	rs.DrawCalls += s.DrawCalls
	rs.Quads += s.Quads
	rs.Vertices += s.Vertices
	rs.Indices += s.Indices
	rs.UploadBytes += s.UploadBytes
	rs.Buffers += s.Buffers
	rs.BufferBytes += s.BufferBytes
}

func (rs RendererStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("passes", rs.Passes),
		slog.Int("draw_calls", rs.DrawCalls),
		slog.Int("quads", rs.Quads),
		slog.Int("vertices", rs.Vertices),
		slog.Int("indices", rs.Indices),
		slog.Int("upload_bytes", rs.UploadBytes),
		slog.Int("buffers", rs.Buffers),
		slog.Int("buffer_memory", rs.BufferBytes),
	)
}
