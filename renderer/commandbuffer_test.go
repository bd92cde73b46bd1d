// renderer/commandbuffer_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"bytes"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/mmp/spritebatch/util"
)

// drawScene issues the same set of passes to sb each time it is called.
func drawScene(t *testing.T, sb *SpriteBatch) {
	t.Helper()
	p := DefaultPassState()
	if err := sb.Begin(p); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	sb.DrawSpriteAt(texA, [2]float32{1, 2}, White, 0)
	sb.DrawSprite(texB, [2]float32{50, 60}, &Rectangle{0, 0, 8, 8}, Red, [2]float32{4, 4}, 0.5,
		[2]float32{2, 2}, FlipHorizontal, 0.25)
	sb.DrawCircle([2]float32{100, 100}, 20, 2, 0, Yellow, Green)
	sb.DrawString(testFont{tex: atlas}, "hello\nworld", [2]float32{10, 10}, Black, [2]float32{}, 0, [2]float32{1, 1},
		OrientationNone, 0)
	if err := sb.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	p.Sort = SortBackToFront
	p.Blend = BlendAdditive
	sb.Begin(p)
	sb.DrawGradientRectangle(0, 0, 640, 480, Blue, Black, -1)
	sb.DrawSolidQuad([2]float32{0, 0}, [2]float32{10, 0}, [2]float32{0, 10}, [2]float32{10, 10}, White, 1)
	sb.End()
}

func TestCommandBufferReplay(t *testing.T) {
	direct, d := newTestBatch(t, DefaultConfig())
	drawScene(t, direct)
	direct.Dispose()

	cb := GetCommandBuffer()
	defer ReturnCommandBuffer(cb)

	recorded, err := New(cb, whiteTexture, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	drawScene(t, recorded)
	recorded.Dispose()

	r := newSpyDevice()
	stats, err := cb.Replay(r)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	checkDevice(t, r)

	if !slices.Equal(d.calls, r.calls) {
		t.Errorf("replayed calls differ\ndirect   %v\nreplayed %v", d.calls, r.calls)
	}
	if len(d.draws) != len(r.draws) {
		t.Fatalf("%d replayed draws, expected %d", len(r.draws), len(d.draws))
	}
	for i := range d.draws {
		a, b := d.draws[i], r.draws[i]
		if a.texture != b.texture || a.indices != b.indices || !slices.Equal(a.vertices, b.vertices) {
			t.Errorf("draw %d differs: texture %d/%d indices %d/%d", i, a.texture, b.texture, a.indices, b.indices)
		}
	}
	if len(r.live) != 0 {
		t.Errorf("%d buffers live after replaying Dispose", len(r.live))
	}

	tot := recorded.TotalStats()
	if stats.DrawCalls != tot.DrawCalls || stats.Quads != tot.Quads || stats.Indices != tot.Indices ||
		stats.UploadBytes != tot.UploadBytes {
		t.Errorf("replay stats %s, expected %s", stats.String(), tot.String())
	}
	if stats.Buffers != 1+DefaultRingBufferCount {
		t.Errorf("replay created %d buffers", stats.Buffers)
	}
}

func TestCommandBufferDecode(t *testing.T) {
	var cb CommandBuffer
	h, _ := cb.CreateIndexBuffer([]uint16{1, 2, 65535})
	cb.SetSamplerState(SamplerPointClamp)
	cb.UploadVertices([]float32{0.5, -1, 3})
	cb.Unbind()

	var ops []Opcode
	err := cb.Decode(func(c *Command) error {
		ops = append(ops, c.Op)
		switch c.Op {
		case OpCreateIndexBuffer:
			if c.Handle != h || !slices.Equal(c.Indices, []uint16{1, 2, 65535}) {
				t.Errorf("index buffer %d %v", c.Handle, c.Indices)
			}
		case OpSamplerState:
			if SamplerState(c.Value) != SamplerPointClamp {
				t.Errorf("sampler %d", c.Value)
			}
		case OpUploadVertices:
			if !slices.Equal(c.Vertices, []float32{0.5, -1, 3}) {
				t.Errorf("vertices %v", c.Vertices)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !slices.Equal(ops, []Opcode{OpCreateIndexBuffer, OpSamplerState, OpUploadVertices, OpUnbind}) {
		t.Errorf("decoded ops %v", ops)
	}

	errStop := errors.New("stop")
	n := 0
	if err := cb.Decode(func(c *Command) error { n++; return errStop }); err != errStop || n != 1 {
		t.Errorf("Decode did not stop at callback error: %v after %d", err, n)
	}

	cb.Reset()
	if len(cb.Buf) != 0 {
		t.Errorf("Reset left %d words", len(cb.Buf))
	}
	if h, _ := cb.CreateIndexBuffer(nil); h != 1 {
		t.Errorf("handle %d after Reset, expected 1", h)
	}
}

func TestCommandBufferMalformed(t *testing.T) {
	for _, test := range []struct {
		name string
		buf  []uint32
	}{
		{"unknown opcode", []uint32{99}},
		{"truncated vertices", []uint32{uint32(OpUploadVertices), 10, 1, 2}},
		{"missing argument", []uint32{uint32(OpDrawIndexed)}},
		{"truncated indices", []uint32{uint32(OpCreateIndexBuffer), 1, 6, 0}},
		{"unknown handle", []uint32{uint32(OpBindVertexBuffer), 7}},
	} {
		cb := CommandBuffer{Buf: test.buf}
		if _, err := cb.Replay(newSpyDevice()); !errors.Is(err, ErrBadCapture) {
			t.Errorf("%s: got %v, expected ErrBadCapture", test.name, err)
		}
	}
}

func TestCapture(t *testing.T) {
	cb := &CommandBuffer{}
	sb, err := New(cb, whiteTexture, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	drawScene(t, sb)

	var buf bytes.Buffer
	if err := SaveCapture(&buf, cb, "two passes"); err != nil {
		t.Fatalf("SaveCapture: %v", err)
	}
	loaded, c, err := LoadCapture(&buf)
	if err != nil {
		t.Fatalf("LoadCapture: %v", err)
	}
	if !slices.Equal(loaded.Buf, cb.Buf) {
		t.Errorf("loaded %d words, expected %d", len(loaded.Buf), len(cb.Buf))
	}
	if c.Note != "two passes" || c.Version != CaptureVersion || c.Created.IsZero() {
		t.Errorf("capture header %+v", c)
	}

	path := filepath.Join(t.TempDir(), "frame.capture")
	if err := SaveCaptureFile(path, cb, ""); err != nil {
		t.Fatalf("SaveCaptureFile: %v", err)
	}
	loaded, _, err = LoadCaptureFile(path)
	if err != nil {
		t.Fatalf("LoadCaptureFile: %v", err)
	}
	if _, err := loaded.Replay(newSpyDevice()); err != nil {
		t.Errorf("replaying loaded capture: %v", err)
	}
}

func TestBadCapture(t *testing.T) {
	var buf bytes.Buffer
	if err := util.EncodeObject(&buf, Capture{Magic: "something else", Version: CaptureVersion}); err != nil {
		t.Fatalf("EncodeObject: %v", err)
	}
	if _, _, err := LoadCapture(&buf); !errors.Is(err, ErrBadCapture) {
		t.Errorf("wrong magic: got %v", err)
	}

	buf.Reset()
	util.EncodeObject(&buf, Capture{Magic: captureMagic, Version: CaptureVersion + 1})
	if _, _, err := LoadCapture(&buf); !errors.Is(err, ErrBadCapture) {
		t.Errorf("wrong version: got %v", err)
	}

	if _, _, err := LoadCapture(bytes.NewReader([]byte("not a capture"))); !errors.Is(err, ErrBadCapture) {
		t.Errorf("garbage: got %v", err)
	}
}
