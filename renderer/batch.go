// renderer/batch.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"log/slog"

	"github.com/mmp/spritebatch/log"
	"github.com/mmp/spritebatch/util"
)

const (
	DefaultMaxIndexCount   = 6 * 4096
	DefaultRingBufferCount = 3
	MaxRingBufferCount     = 16
)

// Config specifies the device resources allocated by a SpriteBatch.
type Config struct {
	// MaxIndexCount bounds the indices in one draw call; the batch
	// holds at most MaxIndexCount/6 quads per pass.
	MaxIndexCount   int          `json:"max_index_count" toml:"max_index_count"`
	RingBufferCount int          `json:"ring_buffer_count" toml:"ring_buffer_count"`
	VertexFormat    VertexFormat `json:"vertex_format" toml:"vertex_format"`
}

func DefaultConfig() Config {
	return Config{
		MaxIndexCount:   DefaultMaxIndexCount,
		RingBufferCount: DefaultRingBufferCount,
		VertexFormat:    PositionColorNormalTexture,
	}
}

// QuadCapacity returns the number of quads that can be drawn in a pass.
func (c Config) QuadCapacity() int {
	return c.MaxIndexCount / 6
}

func (c Config) Validate(e *util.ErrorLogger) {
	if c.MaxIndexCount <= 0 {
		e.ErrorString("MaxIndexCount %d must be positive", c.MaxIndexCount)
	} else if c.MaxIndexCount%6 != 0 {
		e.ErrorString("MaxIndexCount %d must be a multiple of 6", c.MaxIndexCount)
	} else if c.QuadCapacity() > MaxQuadsPerIndexBuffer {
		e.ErrorString("MaxIndexCount %d exceeds the %d quads addressable with 16-bit indices",
			c.MaxIndexCount, MaxQuadsPerIndexBuffer)
	}
	if c.RingBufferCount < 1 || c.RingBufferCount > MaxRingBufferCount {
		e.ErrorString("RingBufferCount %d must be between 1 and %d", c.RingBufferCount, MaxRingBufferCount)
	}
	if !c.VertexFormat.Valid() {
		e.ErrorString("%s: invalid VertexFormat", c.VertexFormat)
	}
}

// SpriteBatch accumulates quads between Begin and End and submits them to
// its Device at End, sorted according to the pass's SortMode and grouped
// into one draw call per run of quads that share a texture.
//
// Draw methods return an error if no pass is open or if the pass does
// not have room for all of the quads the call would add; in either case
// nothing is recorded. A SpriteBatch must only be used from one
// goroutine.
type SpriteBatch struct {
	device Device
	white  Texture
	config Config
	lg     *log.Logger

	items itemStore
	order []int32
	ring  *bufferRing

	pass     PassState
	open     bool
	disposed bool

	// scratch storage for circle points
	points [][2]float32

	lastPass RendererStats
	total    RendererStats
}

// New returns a SpriteBatch that renders through d. white must be a 1x1
// opaque white texture; it is used for lines and filled shapes. Device
// buffer creation failures are returned and nothing is left allocated.
func New(d Device, white Texture, config Config, lg *log.Logger) (*SpriteBatch, error) {
	var e util.ErrorLogger
	e.Push("SpriteBatch Config")
	config.Validate(&e)
	e.Pop()
	if e.HaveErrors() {
		lg.Errorf("%s", e.String())
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, e.String())
	}
	if white == nil {
		return nil, fmt.Errorf("white texture: %w", ErrNilTexture)
	}

	ring, err := newBufferRing(d, config.VertexFormat, config.QuadCapacity(), config.RingBufferCount, lg)
	if err != nil {
		lg.Errorf("SpriteBatch: %v", err)
		return nil, err
	}

	return &SpriteBatch{
		device: d,
		white:  white,
		config: config,
		lg:     lg,
		items:  makeItemStore(config.QuadCapacity()),
		order:  make([]int32, 0, config.QuadCapacity()),
		ring:   ring,
	}, nil
}

// Dispose releases the batch's device buffers. The batch may not be used
// afterward.
func (sb *SpriteBatch) Dispose() {
	if sb.disposed {
		return
	}
	sb.ring.dispose()
	sb.disposed = true
	sb.open = false
	sb.lg.Info("SpriteBatch disposed", slog.Any("stats", sb.total))
}

func (sb *SpriteBatch) Config() Config {
	return sb.config
}

// QuadCapacity returns the number of quads that can be drawn in one pass.
func (sb *SpriteBatch) QuadCapacity() int {
	return sb.items.capacity()
}

// IsOpen reports whether a pass is open.
func (sb *SpriteBatch) IsOpen() bool {
	return sb.open
}

// PassState returns the configuration of the open pass, or of the most
// recent one if no pass is open.
func (sb *SpriteBatch) PassState() PassState {
	return sb.pass
}

// QuadCount returns the number of quads drawn so far in the open pass.
func (sb *SpriteBatch) QuadCount() int {
	return sb.items.len()
}

// Stats returns statistics for the most recently completed pass.
func (sb *SpriteBatch) Stats() RendererStats {
	return sb.lastPass
}

// TotalStats returns statistics accumulated over all passes, including
// the device buffers held by the batch.
func (sb *SpriteBatch) TotalStats() RendererStats {
	s := sb.total
	if !sb.disposed {
		s.Merge(sb.ring.stats())
	}
	return s
}

// DrawCallCount returns the number of device draw calls issued by the
// most recently completed pass.
func (sb *SpriteBatch) DrawCallCount() int {
	return sb.lastPass.DrawCalls
}

func (sb *SpriteBatch) fail(op string, err error) error {
	sb.lg.Warn("SpriteBatch: "+op, slog.Any("error", err))
	return fmt.Errorf("%s: %w", op, err)
}

// Begin opens a pass with the given configuration. If p.Effect is
// non-nil, it is given p.Camera's matrices (when there is a camera) and
// activated.
func (sb *SpriteBatch) Begin(p PassState) error {
	if sb.disposed {
		return sb.fail("Begin", ErrDisposed)
	}
	if sb.open {
		return sb.fail("Begin", ErrAlreadyBegun)
	}

	sb.items.reset()
	sb.pass = p
	sb.open = true

	if p.Effect != nil {
		if p.Camera != nil {
			p.Effect.SetProjection(p.Camera.Projection())
			p.Effect.SetView(p.Camera.View())
		}
		p.Effect.Use()
	}
	return nil
}

// End sorts the pass's quads, applies the pass's device state and
// submits the quads to the device. The pass is closed even if no quads
// were drawn, in which case nothing is submitted.
func (sb *SpriteBatch) End() error {
	if !sb.open {
		return sb.fail("End", ErrNotBegun)
	}
	sb.open = false

	d := sb.device
	d.SetBlendMode(sb.pass.Blend)
	d.SetRasterizerState(sb.pass.Rasterizer)
	d.SetSamplerState(sb.pass.Sampler)
	d.SetDepthStencilState(sb.pass.DepthStencil)

	stats := RendererStats{Passes: 1}
	if items := sb.items.active(); len(items) > 0 {
		sb.order = sortItems(items, sb.pass.Sort, sb.order)
		sb.ring.render(items, sb.order, &stats)
	}
	sb.items.reset()

	sb.lastPass = stats
	sb.total.Merge(stats)
	sb.lg.Debug("pass", slog.String("sort", sb.pass.Sort.String()), slog.Any("stats", stats))

	return nil
}

// reserve checks that a pass is open and has room for n more quads.
func (sb *SpriteBatch) reserve(op string, n int) error {
	if !sb.open {
		if sb.disposed {
			return sb.fail(op, ErrDisposed)
		}
		return sb.fail(op, ErrNotBegun)
	}
	if n > sb.items.remaining() {
		return sb.fail(op, fmt.Errorf("%w: %d quads requested, %d of %d available", ErrBatchFull,
			n, sb.items.remaining(), sb.items.capacity()))
	}
	return nil
}

func checkTexture(t Texture) error {
	if t == nil {
		return ErrNilTexture
	}
	if t.Width() <= 0 || t.Height() <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidTexture, t.Width(), t.Height())
	}
	return nil
}

// Sprite describes one textured quad.
type Sprite struct {
	Texture  Texture
	Position [2]float32
	// Source is the region of the texture to draw; nil means all of it.
	Source *Rectangle
	Color  RGBA
	// Origin is the pivot for rotation and the point placed at
	// Position, in source pixels relative to the region's upper left.
	Origin [2]float32
	// Rotation is in radians.
	Rotation    float32
	Scale       [2]float32
	Orientation Orientation
	Depth       float32
}

// Draw records the given sprite; it is equivalent to calling DrawSprite
// with the sprite's fields.
func (sb *SpriteBatch) Draw(s Sprite) error {
	return sb.DrawSprite(s.Texture, s.Position, s.Source, s.Color, s.Origin, s.Rotation, s.Scale,
		s.Orientation, s.Depth)
}

// DrawSprite records the src region of tex (all of it if src is nil),
// scaled by scale and rotated by rotation radians about origin, with
// origin placed at position.
func (sb *SpriteBatch) DrawSprite(tex Texture, position [2]float32, src *Rectangle, color RGBA,
	origin [2]float32, rotation float32, scale [2]float32, orient Orientation, depth float32) error {
	if err := sb.reserve("DrawSprite", 1); err != nil {
		return err
	}
	if err := checkTexture(tex); err != nil {
		return sb.fail("DrawSprite", err)
	}

	r := textureBounds(tex)
	if src != nil {
		r = *src
	}
	q := SpriteQuad(tex.Width(), tex.Height(), position, r, color, origin, rotation, scale, orient, depth)
	sb.items.add(tex.ID(), depth, q)
	return nil
}

// DrawSpriteAt records all of tex, unscaled, with its upper left corner
// at position.
func (sb *SpriteBatch) DrawSpriteAt(tex Texture, position [2]float32, color RGBA, depth float32) error {
	return sb.DrawSprite(tex, position, nil, color, [2]float32{}, 0, [2]float32{1, 1}, OrientationNone, depth)
}

// DrawSpriteRect records the src region of tex (all of it if src is nil)
// stretched to cover dst. origin is given in source pixels; the
// corresponding point of the stretched sprite is placed at dst's upper
// left and rotation is about that point.
func (sb *SpriteBatch) DrawSpriteRect(tex Texture, dst Rectangle, src *Rectangle, color RGBA,
	origin [2]float32, rotation float32, orient Orientation, depth float32) error {
	var r Rectangle
	if src != nil {
		r = *src
	} else if tex != nil {
		r = textureBounds(tex)
	}
	// An empty source region gives a zero-area quad.
	var scale [2]float32
	if !r.Empty() {
		scale = [2]float32{dst.Width / r.Width, dst.Height / r.Height}
	}
	return sb.DrawSprite(tex, dst.Min(), &r, color, origin, rotation, scale, orient, depth)
}
