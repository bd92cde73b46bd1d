// font/font.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package font

import (
	"fmt"
	"image"
	"slices"
	"strings"
	"sync"

	"github.com/mmp/spritebatch/renderer"
	"github.com/mmp/spritebatch/util"
)

// TextureLoader creates device textures from images; *ogl.Device
// implements it.
type TextureLoader interface {
	CreateTexture(img image.Image) (renderer.Texture, error)
}

// Glyph records where a character's bitmap lies in the font's atlas.
type Glyph struct {
	Bounds renderer.Rectangle
	// Distance to advance in x after the character in proportional
	// layout; DrawString uses the font's fixed Spacing instead.
	AdvanceX float32
}

// FontIdentifier is used for looking up fonts that have been loaded.
type FontIdentifier struct {
	Name string
	Size int
}

// Font is a glyph table backed by a single atlas texture. It satisfies
// renderer.Font.
type Font struct {
	// Glyphs for the commonly-used ASCII range can be looked up using a
	// directly-mapped array, for efficiency.
	lowGlyphs [128]*Glyph
	// Everything else.
	glyphs map[rune]*Glyph
	// Returned for runes the font doesn't have.
	missing *Glyph

	Id         FontIdentifier
	LineHeight float32
	// Fixed horizontal pitch; the widest advance of any glyph.
	Pitch float32

	Atlas   image.Image
	texture renderer.Texture
}

func makeFont(id FontIdentifier, lineHeight float32, atlas image.Image) *Font {
	return &Font{
		glyphs:     make(map[rune]*Glyph),
		Id:         id,
		LineHeight: lineHeight,
		Atlas:      atlas,
	}
}

func (f *Font) AddGlyph(ch rune, g *Glyph) {
	if ch >= 0 && int(ch) < len(f.lowGlyphs) {
		f.lowGlyphs[ch] = g
	} else {
		f.glyphs[ch] = g
	}
	f.Pitch = max(f.Pitch, g.AdvanceX)
}

// LookupGlyph returns the Glyph for the specified rune, or nil if the
// font doesn't have one.
func (f *Font) LookupGlyph(ch rune) *Glyph {
	if ch >= 0 && int(ch) < len(f.lowGlyphs) {
		return f.lowGlyphs[ch]
	}
	return f.glyphs[ch]
}

// setMissing chooses the glyph used for runes the font lacks: the first
// of the candidates that the font has.
func (f *Font) setMissing(candidates ...rune) {
	for _, ch := range candidates {
		if g := f.LookupGlyph(ch); g != nil {
			f.missing = g
			return
		}
	}
	f.missing = &Glyph{}
}

// Runes returns the characters the font has glyphs for, in order.
func (f *Font) Runes() []rune {
	var r []rune
	for ch, g := range f.lowGlyphs {
		if g != nil {
			r = append(r, rune(ch))
		}
	}
	return append(r, util.SortedMapKeys(f.glyphs)...)
}

// Upload creates the atlas texture; it must be called before the font is
// used for drawing.
func (f *Font) Upload(tl TextureLoader) error {
	tex, err := tl.CreateTexture(f.Atlas)
	if err != nil {
		return fmt.Errorf("%s: %w", f.Id.Name, err)
	}
	f.texture = tex
	return nil
}

func (f *Font) Texture() renderer.Texture {
	return f.texture
}

func (f *Font) GlyphBounds(ch rune) renderer.Rectangle {
	if g := f.LookupGlyph(ch); g != nil {
		return g.Bounds
	}
	return f.missing.Bounds
}

func (f *Font) Size() float32 {
	return f.LineHeight
}

func (f *Font) Spacing() float32 {
	return f.Pitch
}

// BoundText returns the size of the box that DrawString lays s out in at
// unit scale.
func (f *Font) BoundText(s string) [2]float32 {
	return renderer.MeasureString(f, s, [2]float32{1, 1})
}

var (
	// All of the available fonts.
	fonts   = make(map[FontIdentifier]*Font)
	fontsMu sync.Mutex
)

// Register makes f available via GetFont.
func Register(f *Font) {
	fontsMu.Lock()
	defer fontsMu.Unlock()
	fonts[f.Id] = f
}

// GetFont returns the registered font with the given identifier, or nil.
func GetFont(id FontIdentifier) *Font {
	fontsMu.Lock()
	defer fontsMu.Unlock()
	return fonts[id]
}

// AvailableFonts returns the identifiers of all registered fonts, sorted
// by name and then size.
func AvailableFonts() []FontIdentifier {
	fontsMu.Lock()
	defer fontsMu.Unlock()

	var ids []FontIdentifier
	for id := range fonts {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b FontIdentifier) int {
		if a.Name != b.Name {
			return strings.Compare(a.Name, b.Name)
		}
		return a.Size - b.Size
	})
	return ids
}
