// cmd/spritedemo/assets.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"fmt"
	"image"
	"image/color"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/mmp/spritebatch/font"
	"github.com/mmp/spritebatch/log"
	"github.com/mmp/spritebatch/math"
	"github.com/mmp/spritebatch/renderer"
	"github.com/mmp/spritebatch/util"

	"golang.org/x/sync/errgroup"
)

// Images that are generated rather than loaded from files; they are
// always available so that the demo runs without any assets.
const (
	builtinChecker = "builtin:checker"
	builtinDisc    = "builtin:disc"
	builtinRing    = "builtin:ring"
)

var builtinImages = []string{builtinChecker, builtinDisc, builtinRing}

// Assets holds the decoded images and fonts used by the demo. Decoding
// happens concurrently; creating textures from them must happen on the
// thread that owns the GL context.
type Assets struct {
	Images map[string]image.Image
	Fonts  []*font.Font
}

func LoadAssets(config *Config, lg *log.Logger) (*Assets, error) {
	a := &Assets{
		Images: map[string]image.Image{
			builtinChecker: makeChecker(32, 8),
			builtinDisc:    makeDisc(32, 0),
			builtinRing:    makeDisc(32, 10),
		},
	}

	var mu sync.Mutex
	var eg errgroup.Group
	eg.SetLimit(runtime.NumCPU())

	for _, fn := range config.Images {
		eg.Go(func() error {
			img, err := renderer.LoadImage(fn)
			if err != nil {
				return err
			}
			lg.Debugf("%s: decoded %dx%d image", fn, img.Bounds().Dx(), img.Bounds().Dy())

			mu.Lock()
			defer mu.Unlock()
			a.Images[fn] = img
			return nil
		})
	}

	fonts := make([]*font.Font, len(config.Fonts))
	for i, fn := range config.Fonts {
		eg.Go(func() error {
			f, err := font.LoadBMFont(fn)
			if err != nil {
				return fmt.Errorf("%s: %w", fn, err)
			}
			fonts[i] = f
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	a.Fonts = append([]*font.Font{font.Default()}, fonts...)
	return a, nil
}

// ImageNames returns the names of the loaded images in sorted order.
func (a *Assets) ImageNames() []string {
	return util.SortedMapKeys(a.Images)
}

// Upload creates textures for the fonts and registers them. Images are
// uploaded lazily through the texture cache.
func (a *Assets) Upload(tl font.TextureLoader) error {
	for _, f := range a.Fonts {
		if err := f.Upload(tl); err != nil {
			return fmt.Errorf("%s: %w", f.Id.Name, err)
		}
		font.Register(f)
	}
	return nil
}

// Texture returns the texture for the named image, creating it if it
// isn't in the cache.
func (a *Assets) Texture(tc *renderer.TextureCache, name string) (renderer.Texture, error) {
	return tc.GetFunc(name, func() (image.Image, error) {
		img, ok := a.Images[name]
		if !ok {
			return nil, fmt.Errorf("%s: no such image", name)
		}
		return img, nil
	})
}

// SpriteImages returns the names of the images used for the bouncing
// sprites; files from the configuration come first.
func (a *Assets) SpriteImages() []string {
	names := a.ImageNames()
	slices.SortStableFunc(names, func(x, y string) int {
		bx, by := isBuiltin(x), isBuiltin(y)
		if bx == by {
			return 0
		}
		if bx {
			return 1
		}
		return -1
	})
	return names
}

func isBuiltin(name string) bool {
	return strings.HasPrefix(name, "builtin:")
}

func makeChecker(size, cell int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			if (x/cell+y/cell)%2 == 0 {
				img.Set(x, y, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
			} else {
				img.Set(x, y, color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff})
			}
		}
	}
	return img
}

// makeDisc returns a white disc with premultiplied alpha; if inner is
// non-zero, the disc has a hole of that radius.
func makeDisc(size int, inner float32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	r := float32(size) / 2
	for y := range size {
		for x := range size {
			d := math.Distance2f([2]float32{float32(x) + 0.5, float32(y) + 0.5}, [2]float32{r, r})
			// One pixel of antialiasing at each edge.
			cov := math.Clamp(r-d, 0, 1)
			if inner > 0 {
				cov = math.Min(cov, math.Clamp(d-inner, 0, 1))
			}
			v := uint8(255 * cov)
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: v})
		}
	}
	return img
}
