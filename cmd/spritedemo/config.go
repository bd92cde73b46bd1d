// cmd/spritedemo/config.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmp/spritebatch/log"
	"github.com/mmp/spritebatch/platform"
	"github.com/mmp/spritebatch/renderer"
	"github.com/mmp/spritebatch/util"

	"github.com/brunoga/deep"
	"github.com/pelletier/go-toml/v2"
)

const CurrentConfigVersion = 1

type Config struct {
	Version int `json:"version" toml:"version"`

	Window   platform.Config    `json:"window" toml:"window"`
	Renderer renderer.Config    `json:"renderer" toml:"renderer"`
	Pass     renderer.PassState `json:"pass" toml:"pass"`

	Background [3]float32 `json:"background" toml:"background"`
	// Sprites gives the number of bouncing sprites drawn each frame.
	Sprites     int      `json:"sprites" toml:"sprites"`
	SpriteScale float32  `json:"sprite_scale" toml:"sprite_scale"`
	Images      []string `json:"images" toml:"images"`
	Fonts       []string `json:"fonts" toml:"fonts"`
	ShowShapes  bool     `json:"show_shapes" toml:"show_shapes"`
	ShowStats   bool     `json:"show_stats" toml:"show_stats"`
	TextureLRU  int      `json:"texture_lru" toml:"texture_lru"`
}

var defaultConfig = Config{
	Version: CurrentConfigVersion,
	Window: platform.Config{
		InitialWindowSize:     [2]int{1280, 800},
		InitialWindowPosition: [2]int{100, 100},
		Title:                 "spritedemo",
	},
	Renderer:    renderer.DefaultConfig(),
	Pass:        renderer.DefaultPassState(),
	Background:  [3]float32{0.1, 0.1, 0.15},
	Sprites:     2000,
	SpriteScale: 1,
	ShowShapes:  true,
	ShowStats:   true,
	TextureLRU:  64,
}

func getDefaultConfig() *Config {
	c := deep.MustCopy(defaultConfig)
	return &c
}

func defaultConfigPath(lg *log.Logger) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		lg.Errorf("Unable to find user config dir: %v", err)
		dir = "."
	}

	dir = filepath.Join(dir, "SpriteBatch")
	err = os.MkdirAll(dir, 0o700)
	if err != nil {
		lg.Errorf("%s: unable to make directory for config file: %v", dir, err)
	}

	return filepath.Join(dir, "config.json")
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Validate reports every problem with the configuration to e.
func (c *Config) Validate(e *util.ErrorLogger) {
	e.Push("renderer")
	c.Renderer.Validate(e)
	e.Pop()

	if c.Sprites < 0 {
		e.ErrorString("sprites: %d must not be negative", c.Sprites)
	}
	if c.SpriteScale <= 0 {
		e.ErrorString("sprite_scale: %f must be positive", c.SpriteScale)
	}
	// Every sprite image may be drawn in the same frame.
	if n := len(c.Images) + len(builtinImages); c.TextureLRU < n {
		e.ErrorString("texture_lru: %d must be at least %d, the number of sprite images", c.TextureLRU, n)
	}
	for i, v := range c.Background {
		if v < 0 || v > 1 {
			e.ErrorString("background[%d]: %f must be between 0 and 1", i, v)
		}
	}
	for _, fn := range append(append([]string{}, c.Images...), c.Fonts...) {
		if _, err := os.Stat(fn); err != nil {
			e.Error(err)
		}
	}
}

func (c *Config) Encode(w io.Writer, asTOML bool) error {
	if asTOML {
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		return enc.Encode(c)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(c)
}

func (c *Config) Save(path string, lg *log.Logger) error {
	lg.Infof("Saving config to: %s", path)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return c.Encode(f, isTOML(path))
}

// decodeConfig parses contents over the default configuration, so fields
// missing from the file keep their default values.
func decodeConfig(contents []byte, asTOML bool) (*Config, error) {
	config := getDefaultConfig()
	var err error
	if asTOML {
		err = toml.NewDecoder(bytes.NewReader(contents)).DisallowUnknownFields().Decode(config)
	} else {
		d := json.NewDecoder(bytes.NewReader(contents))
		d.DisallowUnknownFields()
		err = d.Decode(config)
	}
	if err != nil {
		return nil, err
	}
	if config.Version > CurrentConfigVersion {
		return nil, fmt.Errorf("config version %d is newer than supported version %d", config.Version,
			CurrentConfigVersion)
	}
	config.Version = CurrentConfigVersion
	return config, nil
}

// LoadConfig reads and validates the configuration at path.
func LoadConfig(path string, lg *log.Logger) (*Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	config, err := decodeConfig(contents, isTOML(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var e util.ErrorLogger
	e.Push(path)
	config.Validate(&e)
	e.Pop()
	if e.HaveErrors() {
		e.PrintErrors(lg)
		return nil, fmt.Errorf("%s: invalid configuration", path)
	}
	return config, nil
}

// LoadOrMakeDefaultConfig loads the configuration at path; if there is no
// file there, the default configuration is written to it and returned.
func LoadOrMakeDefaultConfig(path string, lg *log.Logger) (*Config, error) {
	lg.Infof("Loading config from: %s", path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		config := getDefaultConfig()
		if err := config.Save(path, lg); err != nil {
			lg.Warnf("%s: unable to save default config: %v", path, err)
		}
		return config, nil
	}
	return LoadConfig(path, lg)
}
