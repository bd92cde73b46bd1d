// renderer/ogl/device.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package ogl

import (
	"image"
	"log/slog"

	"github.com/mmp/spritebatch/log"
	"github.com/mmp/spritebatch/renderer"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"
)

// Attribute locations shared by all effects; shaders must declare their
// inputs with these layout locations.
var attributeLocations = map[string]uint32{
	"inPosition": 0,
	"inColor":    1,
	"inNormal":   2,
	"inUV":       3,
}

type vertexArray struct {
	vao, vbo uint32
	format   renderer.VertexFormat
	// capacity in float32s
	capacity int
}

// Device is a renderer.Device that draws with OpenGL 4.1 core. All of its
// methods must be called from the thread that owns the GL context.
type Device struct {
	lg *log.Logger

	indexBuffers  map[renderer.Handle]uint32
	vertexBuffers map[renderer.Handle]*vertexArray
	bound         *vertexArray

	samplers        [4]uint32
	createdTextures map[uint32]int

	effect *Effect
	white  *Texture
}

// NewDevice initializes OpenGL, which must have a current context, and
// creates the default effect and the white texture.
func NewDevice(lg *log.Logger) (*Device, error) {
	lg.Info("Starting OpenGL device initialization")
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize OpenGL")
	}

	lg.Info("OpenGL", slog.String("vendor", gl.GoStr(gl.GetString(gl.VENDOR))),
		slog.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		slog.String("version", gl.GoStr(gl.GetString(gl.VERSION))))

	effect, err := NewEffect(vertexShader, fragmentShader)
	if err != nil {
		return nil, err
	}

	d := &Device{
		lg:              lg,
		indexBuffers:    make(map[renderer.Handle]uint32),
		vertexBuffers:   make(map[renderer.Handle]*vertexArray),
		createdTextures: make(map[uint32]int),
		effect:          effect,
	}

	gl.GenSamplers(int32(len(d.samplers)), &d.samplers[0])
	for i, s := range d.samplers {
		initSampler(s, renderer.SamplerState(i))
	}

	white := image.NewRGBA(image.Rect(0, 0, 1, 1))
	copy(white.Pix, []uint8{0xff, 0xff, 0xff, 0xff})
	if d.white, err = d.createTexture([]image.Image{white}); err != nil {
		d.Dispose()
		return nil, err
	}

	if err := d.check("initialization"); err != nil {
		d.Dispose()
		return nil, err
	}

	lg.Info("Finished OpenGL device initialization")
	return d, nil
}

func initSampler(s uint32, state renderer.SamplerState) {
	filter := int32(gl.NEAREST)
	if state.Linear() {
		filter = gl.LINEAR
	}
	wrap := int32(gl.CLAMP_TO_EDGE)
	if state.Wrap() {
		wrap = gl.REPEAT
	}
	gl.SamplerParameteri(s, gl.TEXTURE_MIN_FILTER, filter)
	gl.SamplerParameteri(s, gl.TEXTURE_MAG_FILTER, filter)
	gl.SamplerParameteri(s, gl.TEXTURE_WRAP_S, wrap)
	gl.SamplerParameteri(s, gl.TEXTURE_WRAP_T, wrap)
}

// check returns an error if GL has recorded one.
func (d *Device) check(what string) error {
	if err := gl.GetError(); err != gl.NO_ERROR {
		return errors.Errorf("%s: GL error 0x%x", what, err)
	}
	return nil
}

// oglCheck logs any GL error recorded by an operation that cannot return
// one.
func (d *Device) oglCheck() {
	if err := gl.GetError(); err != gl.NO_ERROR {
		frame := log.Callstack(nil)[0]
		d.lg.Errorf("%s:%d: GL Error 0x%x", frame.File, frame.Line, err)
	}
}

// Effect returns the device's default effect; it draws textured, vertex
// colored quads.
func (d *Device) Effect() *Effect {
	return d.effect
}

// WhiteTexture returns a 1x1 opaque white texture for drawing solid
// shapes.
func (d *Device) WhiteTexture() renderer.Texture {
	return d.white
}

func (d *Device) Dispose() {
	for h := range d.vertexBuffers {
		d.DeleteVertexBuffer(h)
	}
	for h := range d.indexBuffers {
		d.DeleteIndexBuffer(h)
	}
	for texid := range d.createdTextures {
		gl.DeleteTextures(1, &texid)
	}
	clear(d.createdTextures)
	gl.DeleteSamplers(int32(len(d.samplers)), &d.samplers[0])
	if d.effect != nil {
		d.effect.Dispose()
	}
}

func (d *Device) CreateIndexBuffer(indices []uint16) (renderer.Handle, error) {
	var ib uint32
	gl.GenBuffers(1, &ib)
	// Buffers are untyped; the index buffer is attached to each vertex
	// array as its element array.
	gl.BindBuffer(gl.ARRAY_BUFFER, ib)
	if len(indices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 2*len(indices), gl.Ptr(indices), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if err := d.check("creating index buffer"); err != nil {
		gl.DeleteBuffers(1, &ib)
		return 0, err
	}

	h := renderer.Handle(ib)
	d.indexBuffers[h] = ib
	return h, nil
}

func (d *Device) CreateVertexBuffer(format renderer.VertexFormat, maxVertices int, ib renderer.Handle) (renderer.Handle, error) {
	ibo, ok := d.indexBuffers[ib]
	if !ok {
		return 0, errors.Errorf("%d: unknown index buffer", ib)
	}

	va := &vertexArray{format: format, capacity: maxVertices * format.Stride()}
	gl.GenVertexArrays(1, &va.vao)
	gl.BindVertexArray(va.vao)

	gl.GenBuffers(1, &va.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, va.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 4*va.capacity, nil, gl.DYNAMIC_DRAW)

	stride := int32(4 * format.Stride())
	for _, attr := range format.Attributes() {
		loc := attributeLocations[attr.Name]
		gl.VertexAttribPointerWithOffset(loc, int32(attr.Components), gl.FLOAT, false, stride,
			uintptr(4*attr.Offset))
		gl.EnableVertexAttribArray(loc)
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ibo)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if err := d.check("creating vertex buffer"); err != nil {
		gl.DeleteVertexArrays(1, &va.vao)
		gl.DeleteBuffers(1, &va.vbo)
		return 0, err
	}

	h := renderer.Handle(va.vbo)
	d.vertexBuffers[h] = va
	d.lg.Debugf("created %s vertex buffer %d: %d vertices", format, h, maxVertices)
	return h, nil
}

func (d *Device) DeleteIndexBuffer(h renderer.Handle) {
	if ib, ok := d.indexBuffers[h]; ok {
		gl.DeleteBuffers(1, &ib)
		delete(d.indexBuffers, h)
	}
}

func (d *Device) DeleteVertexBuffer(h renderer.Handle) {
	if va, ok := d.vertexBuffers[h]; ok {
		if d.bound == va {
			d.Unbind()
		}
		gl.DeleteVertexArrays(1, &va.vao)
		gl.DeleteBuffers(1, &va.vbo)
		delete(d.vertexBuffers, h)
	}
}

func (d *Device) SetBlendMode(b renderer.BlendMode) {
	src, dst, enabled := b.Factors()
	if !enabled {
		gl.Disable(gl.BLEND)
		return
	}
	gl.Enable(gl.BLEND)
	gl.BlendFunc(blendFactor(src), blendFactor(dst))
}

func blendFactor(f renderer.BlendFactor) uint32 {
	switch f {
	case renderer.BlendZero:
		return gl.ZERO
	case renderer.BlendSrcAlpha:
		return gl.SRC_ALPHA
	case renderer.BlendOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	default:
		return gl.ONE
	}
}

func (d *Device) SetRasterizerState(r renderer.RasterizerState) {
	switch r.CullFace() {
	case renderer.CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	case renderer.CullBack:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	default:
		gl.Disable(gl.CULL_FACE)
	}
	gl.FrontFace(gl.CCW)
}

func (d *Device) SetSamplerState(s renderer.SamplerState) {
	if int(s) < 0 || int(s) >= len(d.samplers) {
		d.lg.Errorf("%s: invalid sampler state", s)
		return
	}
	gl.BindSampler(0, d.samplers[s])
}

func (d *Device) SetDepthStencilState(ds renderer.DepthStencilState) {
	if !ds.DepthTest() {
		gl.Disable(gl.DEPTH_TEST)
		return
	}
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.DepthMask(ds.DepthWrite())
}

func (d *Device) BindTexture(id uint32) {
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, id)
}

func (d *Device) BindVertexBuffer(h renderer.Handle) {
	va, ok := d.vertexBuffers[h]
	if !ok {
		d.lg.Errorf("%d: unknown vertex buffer", h)
		return
	}
	gl.BindVertexArray(va.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, va.vbo)
	d.bound = va
}

func (d *Device) UploadVertices(data []float32) {
	if d.bound == nil {
		d.lg.Error("UploadVertices with no vertex buffer bound")
		return
	}
	if len(data) > d.bound.capacity {
		d.lg.Errorf("%d floats overflow vertex buffer of %d", len(data), d.bound.capacity)
		data = data[:d.bound.capacity]
	}
	if len(data) == 0 {
		return
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, 4*len(data), gl.Ptr(data))
	d.oglCheck()
}

func (d *Device) DrawIndexed(indexCount int) {
	gl.DrawElements(gl.TRIANGLES, int32(indexCount), gl.UNSIGNED_SHORT, nil)
	d.oglCheck()
}

func (d *Device) Unbind() {
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	d.bound = nil
}

// Clear clears the color and depth buffers.
func (d *Device) Clear(c renderer.RGBA) {
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}
