// font/font_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package font

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmp/spritebatch/renderer"
)

type testLoader struct {
	images []image.Image
	fail   bool
}

var errNoTextures = errors.New("out of textures")

func (l *testLoader) CreateTexture(img image.Image) (renderer.Texture, error) {
	if l.fail {
		return nil, errNoTextures
	}
	l.images = append(l.images, img)
	b := img.Bounds()
	return renderer.TextureRef{Handle: uint32(len(l.images)), Size: [2]int{b.Dx(), b.Dy()}}, nil
}

func TestDefaultFont(t *testing.T) {
	f := Default()

	if f.Size() != 13 || f.Spacing() != 7 {
		t.Errorf("size %f spacing %f, expected 13 and 7", f.Size(), f.Spacing())
	}
	if n := len(f.Runes()); n != 95 {
		t.Errorf("%d glyphs, expected 95", n)
	}

	// 'A' is the 34th printable character: second column of the third row.
	if b := f.GlyphBounds('A'); b != (renderer.Rectangle{X: 9, Y: 29, Width: 7, Height: 13}) {
		t.Errorf("'A' bounds %+v", b)
	}
	if f.GlyphBounds('é') != f.GlyphBounds('?') {
		t.Errorf("missing glyph does not fall back to '?'")
	}

	atlas := f.Atlas.(*image.RGBA)
	a := f.GlyphBounds('A')
	lit := 0
	for y := int(a.Y); y < int(a.Y+a.Height); y++ {
		for x := int(a.X); x < int(a.X+a.Width); x++ {
			if atlas.RGBAAt(x, y).A != 0 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Errorf("no pixels set in the 'A' cell")
	}
	for y := range atlas.Bounds().Dy() {
		if atlas.RGBAAt(0, y).A != 0 {
			t.Errorf("padding column has a pixel set at y=%d", y)
			break
		}
	}
}

func TestBoundText(t *testing.T) {
	f := Default()
	if b := f.BoundText("hello\nhi"); b != [2]float32{35, 26} {
		t.Errorf("BoundText got %v, expected [35 26]", b)
	}
}

func TestUpload(t *testing.T) {
	f := Default()
	if f.Texture() != nil {
		t.Errorf("texture set before Upload")
	}

	if err := f.Upload(&testLoader{fail: true}); !errors.Is(err, errNoTextures) {
		t.Errorf("Upload with failing loader: got %v", err)
	}

	l := &testLoader{}
	if err := f.Upload(l); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(l.images) != 1 || l.images[0] != f.Atlas {
		t.Errorf("loader was not given the atlas")
	}
	tex := f.Texture()
	if tex == nil || tex.Width() != f.Atlas.Bounds().Dx() {
		t.Errorf("texture %v", tex)
	}

	// The font can now be used to draw text.
	var cb renderer.CommandBuffer
	sb, err := renderer.New(&cb, renderer.TextureRef{Handle: 100, Size: [2]int{1, 1}}, renderer.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("renderer.New: %v", err)
	}
	sb.Begin(renderer.DefaultPassState())
	if err := sb.DrawString(f, "Hi there\n!", [2]float32{10, 10}, renderer.White, [2]float32{}, 0, [2]float32{1, 1},
		renderer.OrientationNone, 0); err != nil {
		t.Errorf("DrawString: %v", err)
	}
	if sb.QuadCount() != 9 {
		t.Errorf("%d quads, expected 9", sb.QuadCount())
	}
	sb.End()
	if sb.DrawCallCount() != 1 {
		t.Errorf("%d draw calls, expected 1", sb.DrawCallCount())
	}
}

func TestRegistry(t *testing.T) {
	a := makeFont(FontIdentifier{Name: "Zed", Size: 10}, 10, nil)
	b := makeFont(FontIdentifier{Name: "Alpha", Size: 14}, 14, nil)
	c := makeFont(FontIdentifier{Name: "Alpha", Size: 12}, 12, nil)
	for _, f := range []*Font{a, b, c} {
		Register(f)
	}

	if GetFont(FontIdentifier{Name: "Alpha", Size: 14}) != b {
		t.Errorf("GetFont did not return the registered font")
	}
	if GetFont(FontIdentifier{Name: "Alpha", Size: 13}) != nil {
		t.Errorf("GetFont returned a font that wasn't registered")
	}

	var got []FontIdentifier
	for _, id := range AvailableFonts() {
		if id.Name == "Alpha" || id.Name == "Zed" {
			got = append(got, id)
		}
	}
	expected := []FontIdentifier{{"Alpha", 12}, {"Alpha", 14}, {"Zed", 10}}
	if len(got) != len(expected) {
		t.Fatalf("got %v, expected %v", got, expected)
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Errorf("got %v, expected %v", got, expected)
		}
	}
}

const testFNT = `info face="Test" size=16 bold=0 italic=0 charset="" unicode=1 stretchH=100 smooth=1 aa=1 padding=0,0,0,0 spacing=1,1 outline=0
common lineHeight=18 base=14 scaleW=32 scaleH=32 pages=1 packed=0 alphaChnl=0 redChnl=4 greenChnl=4 blueChnl=4
page id=0 file="test_0.png"
chars count=3
char id=63   x=0     y=0     width=8     height=16    xoffset=0     yoffset=0     xadvance=9     page=0  chnl=15
char id=65   x=8     y=0     width=8     height=16    xoffset=0     yoffset=0     xadvance=9     page=0  chnl=15
char id=66   x=16    y=0     width=6     height=16    xoffset=1     yoffset=0     xadvance=7     page=0  chnl=15
`

func TestLoadBMFont(t *testing.T) {
	dir := t.TempDir()

	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	img.Set(9, 3, color.White)
	pf, err := os.Create(filepath.Join(dir, "test_0.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(pf, img); err != nil {
		t.Fatal(err)
	}
	pf.Close()

	path := filepath.Join(dir, "test.fnt")
	if err := os.WriteFile(path, []byte(testFNT), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := LoadBMFont(path)
	if err != nil {
		t.Fatalf("LoadBMFont: %v", err)
	}
	if f.Id != (FontIdentifier{Name: "Test", Size: 16}) {
		t.Errorf("identifier %+v", f.Id)
	}
	if f.Size() != 18 || f.Spacing() != 9 {
		t.Errorf("size %f spacing %f, expected 18 and 9", f.Size(), f.Spacing())
	}
	if b := f.GlyphBounds('B'); b != (renderer.Rectangle{X: 16, Width: 6, Height: 16}) {
		t.Errorf("'B' bounds %+v", b)
	}
	if f.GlyphBounds('Z') != f.GlyphBounds('?') {
		t.Errorf("missing glyph does not fall back to '?'")
	}
	if b := f.Atlas.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Errorf("atlas bounds %v", b)
	}

	if _, err := LoadBMFont(filepath.Join(dir, "missing.fnt")); err == nil {
		t.Errorf("LoadBMFont of a missing file succeeded")
	}
}
