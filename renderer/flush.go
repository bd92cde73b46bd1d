// renderer/flush.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"log/slog"

	"github.com/mmp/spritebatch/log"
)

// MaxQuadsPerIndexBuffer is the largest quad count whose vertices can be
// addressed with 16-bit indices.
const MaxQuadsPerIndexBuffer = 65536 / 4

// quadIndices returns the static index pattern for nquads quads whose
// vertices are stored BL, BR, TR, TL: triangles (BL, BR, TR) and
// (BL, TR, TL).
func quadIndices(nquads int) []uint16 {
	idx := make([]uint16, 0, 6*nquads)
	for i := range nquads {
		v := uint16(4 * i)
		idx = append(idx, v, v+1, v+2, v, v+2, v+3)
	}
	return idx
}

// bufferRing owns the device buffers used to submit batched quads: one
// static index buffer shared by a ring of vertex buffers. Each flush
// uploads into the next vertex buffer in the ring, so a buffer is not
// rewritten until len(slots)-1 further flushes have been issued.
type bufferRing struct {
	device       Device
	format       VertexFormat
	quadCapacity int

	indices Handle
	slots   []Handle
	next    int

	// CPU-side copy of the run being staged.
	staging []float32
	lg      *log.Logger
}

// newBufferRing creates the index buffer and count vertex buffers. If any
// creation fails, the buffers created so far are released.
func newBufferRing(d Device, format VertexFormat, quadCapacity, count int, lg *log.Logger) (r *bufferRing, err error) {
	r = &bufferRing{
		device:       d,
		format:       format,
		quadCapacity: quadCapacity,
		staging:      make([]float32, 0, 4*quadCapacity*format.Stride()),
		lg:           lg,
	}
	defer func() {
		if err != nil {
			r.dispose()
			r = nil
		}
	}()

	if r.indices, err = d.CreateIndexBuffer(quadIndices(quadCapacity)); err != nil {
		return r, fmt.Errorf("index buffer: %w", err)
	}

	for i := range count {
		vb, err := d.CreateVertexBuffer(format, 4*quadCapacity, r.indices)
		if err != nil {
			return r, fmt.Errorf("vertex buffer %d: %w", i, err)
		}
		r.slots = append(r.slots, vb)
	}

	lg.Info("created device buffers", slog.Int("quad_capacity", quadCapacity),
		slog.Int("ring_buffers", count), slog.String("format", format.String()))

	return r, nil
}

func (r *bufferRing) dispose() {
	for _, vb := range r.slots {
		r.device.DeleteVertexBuffer(vb)
	}
	r.slots = nil
	if r.indices != 0 {
		r.device.DeleteIndexBuffer(r.indices)
		r.indices = 0
	}
}

func (r *bufferRing) stats() RendererStats {
	return RendererStats{
		Buffers:     1 + len(r.slots),
		BufferBytes: 2*6*r.quadCapacity + len(r.slots)*4*r.quadCapacity*r.format.Stride()*4,
	}
}

// render submits the items in the given order, issuing one draw call for
// each run of items that share a texture. Runs are also split at the
// buffer capacity.
func (r *bufferRing) render(items []BatchItem, order []int32, stats *RendererStats) {
	var texture uint32
	staged := 0
	for _, i := range order {
		item := &items[i]
		if staged > 0 && (item.TextureID != texture || staged == r.quadCapacity) {
			r.flush(texture, staged, stats)
			staged = 0
		}
		texture = item.TextureID
		r.staging = r.format.appendQuad(r.staging, &item.Quad)
		staged++
	}
	r.flush(texture, staged, stats)
}

func (r *bufferRing) flush(texture uint32, nquads int, stats *RendererStats) {
	if nquads == 0 {
		return
	}

	vb := r.slots[r.next]
	r.next = (r.next + 1) % len(r.slots)

	d := r.device
	d.BindTexture(texture)
	d.BindVertexBuffer(vb)
	d.UploadVertices(r.staging)
	d.DrawIndexed(6 * nquads)
	d.Unbind()

	stats.DrawCalls++
	stats.Quads += nquads
	stats.Vertices += 4 * nquads
	stats.Indices += 6 * nquads
	stats.UploadBytes += 4 * len(r.staging)

	r.lg.Debug("flush", slog.Int("texture", int(texture)), slog.Int("quads", nquads),
		slog.Int("buffer", int(vb)))

	r.staging = r.staging[:0]
}
