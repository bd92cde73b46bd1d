// renderer/commandbuffer.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	gomath "math"
	"sync"
)

// The command buffer stores a series of device calls, represented by the
// following values. Each one is followed in the buffer by a number of
// arguments, after which the next command follows. Comments after each
// command briefly describe its arguments.
//
// Vertex and index data are stored inline, immediately after the command
// that uses them.

type Opcode uint32

const (
	OpCreateIndexBuffer  Opcode = iota // handle, count, then (count+1)/2 words of packed uint16 indices
	OpCreateVertexBuffer               // handle, vertex format, max vertices, index buffer handle
	OpDeleteIndexBuffer                // handle
	OpDeleteVertexBuffer               // handle
	OpBlendMode                        // BlendMode
	OpRasterizerState                  // RasterizerState
	OpSamplerState                     // SamplerState
	OpDepthStencilState                // DepthStencilState
	OpBindTexture                      // texture id
	OpBindVertexBuffer                 // handle
	OpUploadVertices                   // count, then count float32 values
	OpDrawIndexed                      // index count
	OpUnbind                           // no args
)

var opcodeNames = []string{"CreateIndexBuffer", "CreateVertexBuffer", "DeleteIndexBuffer",
	"DeleteVertexBuffer", "BlendMode", "RasterizerState", "SamplerState", "DepthStencilState",
	"BindTexture", "BindVertexBuffer", "UploadVertices", "DrawIndexed", "Unbind"}

func (op Opcode) String() string { return enumName(opcodeNames, int(op)) }

// CommandBuffer is a Device that records the calls made to it so that
// they can be replayed later on another Device or saved as a capture.
// Handles it returns are sequential and only meaningful within the
// buffer.
type CommandBuffer struct {
	Buf []uint32

	nextHandle Handle
}

// CommandBuffers are managed using a sync.Pool so that their buf slice
// allocations persist across multiple uses.
var commandBufferPool = sync.Pool{New: func() any { return &CommandBuffer{} }}

func GetCommandBuffer() *CommandBuffer {
	return commandBufferPool.Get().(*CommandBuffer)
}

func ReturnCommandBuffer(cb *CommandBuffer) {
	cb.Reset()
	commandBufferPool.Put(cb)
}

// Reset resets the command buffer's length to zero so that it can be
// reused.
func (cb *CommandBuffer) Reset() {
	cb.Buf = cb.Buf[:0]
	cb.nextHandle = 0
}

// growFor ensures that at least n more values can be added to the end of
// the buffer without going past its capacity.
func (cb *CommandBuffer) growFor(n int) {
	if len(cb.Buf)+n > cap(cb.Buf) {
		sz := 2 * cap(cb.Buf)
		if sz < 1024 {
			sz = 1024
		}
		if sz < len(cb.Buf)+n {
			sz = 2 * (len(cb.Buf) + n)
		}
		b := make([]uint32, len(cb.Buf), sz)
		copy(b, cb.Buf)
		cb.Buf = b
	}
}

func (cb *CommandBuffer) appendOp(op Opcode, args ...uint32) {
	cb.Buf = append(cb.Buf, uint32(op))
	cb.Buf = append(cb.Buf, args...)
}

func (cb *CommandBuffer) appendFloats(floats []float32) {
	cb.growFor(len(floats))
	for _, f := range floats {
		// Convert each one to a uint32 since that's the type that is
		// actually stored...
		cb.Buf = append(cb.Buf, gomath.Float32bits(f))
	}
}

func (cb *CommandBuffer) newHandle() Handle {
	cb.nextHandle++
	return cb.nextHandle
}

func (cb *CommandBuffer) CreateIndexBuffer(indices []uint16) (Handle, error) {
	h := cb.newHandle()
	cb.appendOp(OpCreateIndexBuffer, uint32(h), uint32(len(indices)))
	cb.growFor((len(indices) + 1) / 2)
	for i := 0; i < len(indices); i += 2 {
		w := uint32(indices[i])
		if i+1 < len(indices) {
			w |= uint32(indices[i+1]) << 16
		}
		cb.Buf = append(cb.Buf, w)
	}
	return h, nil
}

func (cb *CommandBuffer) CreateVertexBuffer(format VertexFormat, maxVertices int, ib Handle) (Handle, error) {
	h := cb.newHandle()
	cb.appendOp(OpCreateVertexBuffer, uint32(h), uint32(format), uint32(maxVertices), uint32(ib))
	return h, nil
}

func (cb *CommandBuffer) DeleteIndexBuffer(h Handle)  { cb.appendOp(OpDeleteIndexBuffer, uint32(h)) }
func (cb *CommandBuffer) DeleteVertexBuffer(h Handle) { cb.appendOp(OpDeleteVertexBuffer, uint32(h)) }

func (cb *CommandBuffer) SetBlendMode(b BlendMode) { cb.appendOp(OpBlendMode, uint32(b)) }

func (cb *CommandBuffer) SetRasterizerState(r RasterizerState) {
	cb.appendOp(OpRasterizerState, uint32(r))
}

func (cb *CommandBuffer) SetSamplerState(s SamplerState) { cb.appendOp(OpSamplerState, uint32(s)) }

func (cb *CommandBuffer) SetDepthStencilState(d DepthStencilState) {
	cb.appendOp(OpDepthStencilState, uint32(d))
}

func (cb *CommandBuffer) BindTexture(id uint32)     { cb.appendOp(OpBindTexture, id) }
func (cb *CommandBuffer) BindVertexBuffer(h Handle) { cb.appendOp(OpBindVertexBuffer, uint32(h)) }

func (cb *CommandBuffer) UploadVertices(data []float32) {
	cb.appendOp(OpUploadVertices, uint32(len(data)))
	cb.appendFloats(data)
}

func (cb *CommandBuffer) DrawIndexed(indexCount int) { cb.appendOp(OpDrawIndexed, uint32(indexCount)) }
func (cb *CommandBuffer) Unbind()                    { cb.appendOp(OpUnbind) }

// Command is one decoded command buffer entry. Only the fields relevant
// to Op are set; Indices and Vertices alias scratch storage that is
// reused for the next command.
type Command struct {
	Op       Opcode
	Handle   Handle
	Value    uint32
	Format   VertexFormat
	Count    int
	Indices  []uint16
	Vertices []float32
}

// Decode calls fn for each command in the buffer, in order, stopping at
// the first error that fn returns. It returns an error wrapping
// ErrBadCapture if the buffer is malformed.
func (cb *CommandBuffer) Decode(fn func(c *Command) error) error {
	buf := cb.Buf
	var c Command
	var indices []uint16
	var vertices []float32

	i := 0
	words := func(n int) ([]uint32, error) {
		if n < 0 || i+n > len(buf) {
			return nil, fmt.Errorf("%w: %d words needed at %d, %d available", ErrBadCapture, n, i, len(buf)-i)
		}
		i += n
		return buf[i-n : i], nil
	}

	for i < len(buf) {
		start := i
		op := buf[i]
		i++
		c = Command{Op: Opcode(op)}

		var args []uint32
		var err error
		switch c.Op {
		case OpCreateIndexBuffer:
			if args, err = words(2); err != nil {
				return err
			}
			c.Handle, c.Count = Handle(args[0]), int(args[1])
			packed, err := words((c.Count + 1) / 2)
			if err != nil {
				return err
			}
			indices = indices[:0]
			for j := range c.Count {
				indices = append(indices, uint16(packed[j/2]>>(16*(j%2))))
			}
			c.Indices = indices

		case OpCreateVertexBuffer:
			if args, err = words(4); err != nil {
				return err
			}
			c.Handle, c.Format, c.Count, c.Value = Handle(args[0]), VertexFormat(args[1]), int(args[2]), args[3]

		case OpDeleteIndexBuffer, OpDeleteVertexBuffer, OpBindVertexBuffer:
			if args, err = words(1); err != nil {
				return err
			}
			c.Handle = Handle(args[0])

		case OpBlendMode, OpRasterizerState, OpSamplerState, OpDepthStencilState, OpBindTexture:
			if args, err = words(1); err != nil {
				return err
			}
			c.Value = args[0]

		case OpUploadVertices:
			if args, err = words(1); err != nil {
				return err
			}
			c.Count = int(args[0])
			data, err := words(c.Count)
			if err != nil {
				return err
			}
			vertices = vertices[:0]
			for _, w := range data {
				vertices = append(vertices, gomath.Float32frombits(w))
			}
			c.Vertices = vertices

		case OpDrawIndexed:
			if args, err = words(1); err != nil {
				return err
			}
			c.Count = int(args[0])

		case OpUnbind:

		default:
			return fmt.Errorf("%w: unknown command %d at word %d", ErrBadCapture, op, start)
		}

		if err := fn(&c); err != nil {
			return err
		}
	}
	return nil
}

// Replay issues the recorded calls on d, translating the buffer's handles
// to the ones d returns, and returns statistics for the replayed draws.
func (cb *CommandBuffer) Replay(d Device) (RendererStats, error) {
	var stats RendererStats
	handles := make(map[Handle]Handle)
	lookup := func(h Handle) (Handle, error) {
		if dh, ok := handles[h]; ok {
			return dh, nil
		}
		return 0, fmt.Errorf("%w: unknown handle %d", ErrBadCapture, h)
	}

	err := cb.Decode(func(c *Command) error {
		switch c.Op {
		case OpCreateIndexBuffer:
			h, err := d.CreateIndexBuffer(c.Indices)
			if err != nil {
				return err
			}
			handles[c.Handle] = h
			stats.Buffers++
			stats.BufferBytes += 2 * len(c.Indices)

		case OpCreateVertexBuffer:
			ib, err := lookup(Handle(c.Value))
			if err != nil {
				return err
			}
			h, err := d.CreateVertexBuffer(c.Format, c.Count, ib)
			if err != nil {
				return err
			}
			handles[c.Handle] = h
			stats.Buffers++
			stats.BufferBytes += 4 * c.Count * c.Format.Stride()

		case OpDeleteIndexBuffer, OpDeleteVertexBuffer:
			h, err := lookup(c.Handle)
			if err != nil {
				return err
			}
			if c.Op == OpDeleteIndexBuffer {
				d.DeleteIndexBuffer(h)
			} else {
				d.DeleteVertexBuffer(h)
			}
			delete(handles, c.Handle)

		case OpBlendMode:
			d.SetBlendMode(BlendMode(c.Value))
		case OpRasterizerState:
			d.SetRasterizerState(RasterizerState(c.Value))
		case OpSamplerState:
			d.SetSamplerState(SamplerState(c.Value))
		case OpDepthStencilState:
			d.SetDepthStencilState(DepthStencilState(c.Value))
		case OpBindTexture:
			d.BindTexture(c.Value)

		case OpBindVertexBuffer:
			h, err := lookup(c.Handle)
			if err != nil {
				return err
			}
			d.BindVertexBuffer(h)

		case OpUploadVertices:
			d.UploadVertices(c.Vertices)
			stats.UploadBytes += 4 * len(c.Vertices)

		case OpDrawIndexed:
			d.DrawIndexed(c.Count)
			stats.DrawCalls++
			stats.Indices += c.Count
			stats.Quads += c.Count / 6
			stats.Vertices += 4 * (c.Count / 6)

		case OpUnbind:
			d.Unbind()
		}
		return nil
	})
	return stats, err
}
