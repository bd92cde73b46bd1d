// renderer/geometry_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"testing"

	"github.com/mmp/spritebatch/math"
)

func approxEqual(a, b float32) bool {
	return math.Abs(a-b) < 1e-4
}

func approxEqual2(a, b [2]float32) bool {
	return approxEqual(a[0], b[0]) && approxEqual(a[1], b[1])
}

func checkPositions(t *testing.T, name string, q Quad, expected [4][2]float32) {
	t.Helper()
	corners := []string{"TL", "TR", "BL", "BR"}
	for i, p := range q.Positions() {
		if !approxEqual2(p, expected[i]) {
			t.Errorf("%s: %s got %v, expected %v", name, corners[i], p, expected[i])
		}
	}
}

func TestSpriteQuadLayout(t *testing.T) {
	for _, test := range []struct {
		name     string
		pos      [2]float32
		src      Rectangle
		origin   [2]float32
		rotation float32
		scale    [2]float32
		expected [4][2]float32
	}{
		{
			name:     "identity",
			pos:      [2]float32{10, 20},
			src:      Rectangle{0, 0, 64, 32},
			scale:    [2]float32{1, 1},
			expected: [4][2]float32{{10, 20}, {74, 20}, {10, 52}, {74, 52}},
		},
		{
			name:     "origin and scale",
			pos:      [2]float32{100, 100},
			src:      Rectangle{16, 8, 10, 20},
			origin:   [2]float32{5, 10},
			scale:    [2]float32{2, 3},
			expected: [4][2]float32{{90, 70}, {110, 70}, {90, 130}, {110, 130}},
		},
		{
			name:     "quarter turn about center",
			pos:      [2]float32{100, 100},
			src:      Rectangle{0, 0, 10, 20},
			origin:   [2]float32{5, 10},
			rotation: math.Pi() / 2,
			scale:    [2]float32{1, 1},
			expected: [4][2]float32{{110, 95}, {110, 105}, {90, 95}, {90, 105}},
		},
		{
			name:     "half turn about corner",
			pos:      [2]float32{0, 0},
			src:      Rectangle{0, 0, 4, 2},
			rotation: math.Pi(),
			scale:    [2]float32{1, 1},
			expected: [4][2]float32{{0, 0}, {-4, 0}, {0, -2}, {-4, -2}},
		},
	} {
		q := SpriteQuad(64, 32, test.pos, test.src, White, test.origin, test.rotation, test.scale, OrientationNone, 0)
		checkPositions(t, test.name, q, test.expected)
	}
}

func TestSpriteQuadZeroRotationIsIdentity(t *testing.T) {
	src := Rectangle{3, 5, 17, 9}
	origin := [2]float32{4, 2}
	scale := [2]float32{1.5, 0.5}
	q := SpriteQuad(32, 32, [2]float32{7, 11}, src, White, origin, 0, scale, OrientationNone, 0)

	// The unrotated layout: the scaled region with the scaled origin at
	// the position.
	x0, y0 := 7-origin[0]*scale[0], 11-origin[1]*scale[1]
	x1, y1 := x0+src.Width*scale[0], y0+src.Height*scale[1]
	checkPositions(t, "zero rotation", q, [4][2]float32{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}})
}

func TestSpriteQuadUVs(t *testing.T) {
	q := SpriteQuad(64, 32, [2]float32{}, Rectangle{16, 8, 32, 16}, White, [2]float32{}, 0,
		[2]float32{1, 1}, OrientationNone, 0)

	uv0 := [2]float32{16.0/64 + 1.0/64, 8.0/32 + 1.0/32}
	uv1 := [2]float32{48.0/64 - 1.0/64, 24.0/32 - 1.0/32}
	for _, c := range []struct {
		name string
		got  [2]float32
		exp  [2]float32
	}{
		{"TL", q.TL.UV, uv0},
		{"TR", q.TR.UV, [2]float32{uv1[0], uv0[1]}},
		{"BL", q.BL.UV, [2]float32{uv0[0], uv1[1]}},
		{"BR", q.BR.UV, uv1},
	} {
		if !approxEqual2(c.got, c.exp) {
			t.Errorf("%s UV got %v, expected %v", c.name, c.got, c.exp)
		}
	}

	for _, v := range []Vertex{q.TL, q.TR, q.BL, q.BR} {
		if v.Color != White {
			t.Errorf("vertex color got %v, expected %v", v.Color, White)
		}
		if v.Normal != [3]float32{0, 0, 1} {
			t.Errorf("vertex normal got %v, expected [0 0 1]", v.Normal)
		}
	}
}

func TestSpriteQuadFlips(t *testing.T) {
	src := Rectangle{0, 0, 16, 16}
	mk := func(o Orientation) Quad {
		return SpriteQuad(64, 64, [2]float32{5, 5}, src, White, [2]float32{}, 0, [2]float32{1, 1}, o, 0)
	}
	none, h, v, hv := mk(OrientationNone), mk(FlipHorizontal), mk(FlipVertical), mk(FlipHorizontal|FlipVertical)

	if h.TL.UV != none.TR.UV || h.BR.UV != none.BL.UV {
		t.Errorf("horizontal flip did not swap U: got %v %v", h.TL.UV, h.BR.UV)
	}
	if v.TL.UV != none.BL.UV || v.BR.UV != none.TR.UV {
		t.Errorf("vertical flip did not swap V: got %v %v", v.TL.UV, v.BR.UV)
	}
	if hv.TL.UV != none.BR.UV || hv.TR.UV != none.BL.UV {
		t.Errorf("combined flip got %v %v", hv.TL.UV, hv.TR.UV)
	}
	if h.Positions() != none.Positions() {
		t.Errorf("flip changed positions")
	}

	// Two flips along the same axis cancel.
	for _, o := range []Orientation{FlipHorizontal, FlipVertical, FlipHorizontal | FlipVertical} {
		q := none
		q.FlipUVs(o)
		q.FlipUVs(o)
		if q != none {
			t.Errorf("%s: double flip got %+v, expected %+v", o, q, none)
		}
	}
}

func TestLineQuad(t *testing.T) {
	q := LineQuad([2]float32{0, 0}, [2]float32{10, 0}, 2, Red, Blue, 0.25)
	checkPositions(t, "horizontal line", q, [4][2]float32{{0, 1}, {0, -1}, {10, 1}, {10, -1}})
	if q.TL.Color != Red || q.TR.Color != Red || q.BL.Color != Blue || q.BR.Color != Blue {
		t.Errorf("line colors got %v %v %v %v", q.TL.Color, q.TR.Color, q.BL.Color, q.BR.Color)
	}
	if q.TL.Position[2] != 0.25 {
		t.Errorf("line depth got %f, expected 0.25", q.TL.Position[2])
	}

	q = LineQuad([2]float32{5, 5}, [2]float32{5, 15}, 4, White, White, 0)
	checkPositions(t, "vertical line", q, [4][2]float32{{3, 5}, {7, 5}, {3, 15}, {7, 15}})
}

func TestOrientation(t *testing.T) {
	o := OrientationNone.With(FlipHorizontal)
	if !o.Has(FlipHorizontal) || o.Has(FlipVertical) {
		t.Errorf("%s: unexpected flags", o)
	}
	o = o.With(FlipVertical).Without(FlipHorizontal)
	if o != FlipVertical {
		t.Errorf("got %s, expected FlipVertical", o)
	}
	if s := (FlipHorizontal | FlipVertical).String(); s != "FlipHorizontal|FlipVertical" {
		t.Errorf("String got %q", s)
	}
}
