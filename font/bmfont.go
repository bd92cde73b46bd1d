// font/bmfont.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package font

import (
	"fmt"

	"github.com/mmp/spritebatch/renderer"

	"github.com/fzipp/bmfont"
)

// LoadBMFont loads an AngelCode BMFont descriptor along with its page
// images. Only glyphs on the first page are used, since a Font draws from
// a single texture.
func LoadBMFont(path string) (*Font, error) {
	bf, err := bmfont.Load(path)
	if err != nil {
		return nil, err
	}
	if len(bf.PageSheets) == 0 {
		return nil, fmt.Errorf("%s: no page images", path)
	}

	desc := bf.Descriptor
	id := FontIdentifier{Name: desc.Info.Face, Size: int(desc.Info.Size)}
	f := makeFont(id, float32(desc.Common.LineHeight), bf.PageSheets[0])

	for _, ch := range desc.Chars {
		if ch.Page != 0 {
			continue
		}
		f.AddGlyph(rune(ch.ID), &Glyph{
			Bounds: renderer.Rectangle{
				X:      float32(ch.X),
				Y:      float32(ch.Y),
				Width:  float32(ch.Width),
				Height: float32(ch.Height),
			},
			AdvanceX: float32(ch.XAdvance),
		})
	}
	if len(f.Runes()) == 0 {
		return nil, fmt.Errorf("%s: no glyphs on the first page", path)
	}
	f.setMissing('?', ' ')

	return f, nil
}
