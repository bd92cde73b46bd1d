// cmd/spritedemo/config_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mmp/spritebatch/renderer"
	"github.com/mmp/spritebatch/util"
)

func TestDefaultConfigIsCopied(t *testing.T) {
	a := getDefaultConfig()
	a.Images = append(a.Images, "x.png")
	a.Renderer.RingBufferCount = 7

	b := getDefaultConfig()
	if len(b.Images) != 0 || b.Renderer.RingBufferCount != renderer.DefaultRingBufferCount {
		t.Errorf("modifying one default config changed another: %+v", b)
	}

	var e util.ErrorLogger
	b.Validate(&e)
	if e.HaveErrors() {
		t.Errorf("default config is invalid: %s", e.String())
	}
}

func TestDecodeConfig(t *testing.T) {
	for _, test := range []struct {
		name     string
		contents string
		toml     bool
		check    func(c *Config) bool
		err      bool
	}{
		{
			name:     "json",
			contents: `{"sprites": 10, "pass": {"sort": "BackToFront", "blend": "Additive"}}`,
			check: func(c *Config) bool {
				return c.Sprites == 10 && c.Pass.Sort == renderer.SortBackToFront &&
					c.Pass.Blend == renderer.BlendAdditive &&
					// unspecified fields keep their defaults
					c.Renderer == renderer.DefaultConfig() && c.SpriteScale == 1
			},
		},
		{
			name: "toml",
			contents: `sprites = 25
sprite_scale = 0.5

[renderer]
max_index_count = 600
ring_buffer_count = 2
vertex_format = "PositionColorTexture"

[pass]
sort = "FrontToBack"
depth_stencil = "DepthRead"
`,
			toml: true,
			check: func(c *Config) bool {
				return c.Sprites == 25 && c.SpriteScale == 0.5 &&
					c.Renderer == renderer.Config{MaxIndexCount: 600, RingBufferCount: 2,
						VertexFormat: renderer.PositionColorTexture} &&
					c.Pass.Sort == renderer.SortFrontToBack && c.Pass.DepthStencil == renderer.DepthRead &&
					c.Pass.Blend == renderer.BlendAlphaBlended
			},
		},
		{name: "unknown field", contents: `{"spirtes": 10}`, err: true},
		{name: "bad enum", contents: `{"pass": {"sort": "Sideways"}}`, err: true},
		{name: "future version", contents: `{"version": 99}`, err: true},
		{name: "bad toml", contents: "sprites = [", toml: true, err: true},
	} {
		t.Run(test.name, func(t *testing.T) {
			c, err := decodeConfig([]byte(test.contents), test.toml)
			if test.err {
				if err == nil {
					t.Errorf("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !test.check(c) {
				t.Errorf("unexpected config %+v", c)
			}
			if c.Version != CurrentConfigVersion {
				t.Errorf("version %d", c.Version)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	c := getDefaultConfig()
	c.Sprites = -1
	c.SpriteScale = 0
	c.TextureLRU = 0
	c.Background[1] = 2
	c.Renderer.MaxIndexCount = 7
	c.Images = []string{filepath.Join(t.TempDir(), "missing.png")}

	var e util.ErrorLogger
	c.Validate(&e)
	s := e.String()
	for _, expect := range []string{"sprites", "sprite_scale", "texture_lru", "background[1]",
		"renderer: MaxIndexCount 7", "missing.png"} {
		if !strings.Contains(s, expect) {
			t.Errorf("errors %q don't mention %q", s, expect)
		}
	}
}

func TestValidateTextureLRU(t *testing.T) {
	c := getDefaultConfig()
	c.TextureLRU = len(builtinImages)
	var e util.ErrorLogger
	c.Validate(&e)
	if e.HaveErrors() {
		t.Errorf("LRU holding every builtin image rejected: %s", e.String())
	}

	fn := filepath.Join(t.TempDir(), "sprite.png")
	if err := os.WriteFile(fn, []byte("png"), 0o600); err != nil {
		t.Fatal(err)
	}
	c.Images = []string{fn}
	e = util.ErrorLogger{}
	c.Validate(&e)
	if s := e.String(); !strings.Contains(s, "texture_lru: 3 must be at least 4") {
		t.Errorf("LRU smaller than the sprite images accepted: %q", s)
	}
}

func TestLoadOrMakeDefaultConfig(t *testing.T) {
	for _, fn := range []string{"config.json", "config.toml"} {
		t.Run(fn, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), fn)
			c, err := LoadOrMakeDefaultConfig(path, nil)
			if err != nil {
				t.Fatalf("creating default: %v", err)
			}
			if _, err := os.Stat(path); err != nil {
				t.Fatalf("default config not written: %v", err)
			}

			c.Sprites = 123
			c.Pass.Sampler = renderer.SamplerPointWrap
			if err := c.Save(path, nil); err != nil {
				t.Fatalf("Save: %v", err)
			}

			c2, err := LoadOrMakeDefaultConfig(path, nil)
			if err != nil {
				t.Fatalf("loading: %v", err)
			}
			if c2.Sprites != 123 || c2.Pass.Sampler != renderer.SamplerPointWrap {
				t.Errorf("saved config not loaded: %+v", c2)
			}
		})
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte(`{"sprite_scale": -1}`), 0o600)
	if _, err := LoadConfig(path, nil); err == nil {
		t.Errorf("invalid config loaded without error")
	}
}

func TestConfigWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := getDefaultConfig().Save(path, nil); err != nil {
		t.Fatal(err)
	}

	w, err := NewConfigWatcher(path, nil)
	if err != nil {
		t.Skipf("file watching unavailable: %v", err)
	}
	defer w.Close()

	// An invalid edit is ignored; the following valid one is delivered.
	os.WriteFile(path, []byte(`{"sprites": -5}`), 0o600)
	os.WriteFile(path, []byte(`{"sprites": 42}`), 0o600)

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-w.Updates:
			if c.Sprites == 42 {
				return
			}
			if c.Sprites < 0 {
				t.Fatalf("invalid configuration delivered")
			}
		case <-deadline:
			t.Fatalf("no configuration update received")
		}
	}
}
