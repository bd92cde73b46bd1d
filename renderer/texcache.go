// renderer/texcache.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/mmp/spritebatch/log"

	lru "github.com/hashicorp/golang-lru/v2"
)

// TextureManager creates and destroys device textures; *ogl.Device
// implements it.
type TextureManager interface {
	CreateTexture(img image.Image) (Texture, error)
	DestroyTexture(t Texture)
}

// TextureCache holds textures loaded from image files, keyed by path.
// When it is full, the least recently used texture is evicted to make
// room. Items recorded in an open pass may still refer to an evicted
// texture, so evicted textures are only destroyed by ReleaseEvicted,
// which should be called once the pass has ended.
type TextureCache struct {
	cache   *lru.Cache[string, Texture]
	manager TextureManager
	evicted []Texture
	lg      *log.Logger

	hits, misses int
}

func NewTextureCache(manager TextureManager, size int, lg *log.Logger) (*TextureCache, error) {
	tc := &TextureCache{manager: manager, lg: lg}
	var err error
	tc.cache, err = lru.NewWithEvict(size, func(path string, t Texture) {
		lg.Debugf("%s: evicting texture %d", path, t.ID())
		tc.evicted = append(tc.evicted, t)
	})
	if err != nil {
		return nil, err
	}
	return tc, nil
}

// Get returns the texture for the image file at path, decoding and
// uploading it if it isn't cached.
func (tc *TextureCache) Get(path string) (Texture, error) {
	return tc.GetFunc(path, func() (image.Image, error) { return LoadImage(path) })
}

// GetFunc is like Get but calls load to produce the image on a miss.
func (tc *TextureCache) GetFunc(key string, load func() (image.Image, error)) (Texture, error) {
	if t, ok := tc.cache.Get(key); ok {
		tc.hits++
		return t, nil
	}
	tc.misses++

	img, err := load()
	if err != nil {
		return nil, err
	}
	t, err := tc.manager.CreateTexture(img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	tc.cache.Add(key, t)
	return t, nil
}

// Add caches a texture created elsewhere under the given key; the cache
// takes ownership of it.
func (tc *TextureCache) Add(key string, t Texture) {
	tc.cache.Add(key, t)
}

func (tc *TextureCache) Len() int {
	return tc.cache.Len()
}

// ReleaseEvicted destroys the textures evicted since the last call. It
// must not be called while a pass that used the cache is open.
func (tc *TextureCache) ReleaseEvicted() {
	for _, t := range tc.evicted {
		tc.manager.DestroyTexture(t)
	}
	clear(tc.evicted)
	tc.evicted = tc.evicted[:0]
}

// Purge destroys all of the cached and evicted textures.
func (tc *TextureCache) Purge() {
	tc.lg.Infof("texture cache: %d hits, %d misses", tc.hits, tc.misses)
	tc.cache.Purge()
	tc.ReleaseEvicted()
}

// LoadImage decodes a PNG or JPEG file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}
