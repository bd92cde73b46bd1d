// cmd/spritedemo/scene.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/mmp/spritebatch/math"
	"github.com/mmp/spritebatch/renderer"
)

type sprite struct {
	image    string
	pos, vel [2]float32
	rotation float32
	spin     float32
	scale    float32
	color    renderer.RGBA
	orient   renderer.Orientation
	depth    float32
}

// Scene is a set of sprites that bounce around a rectangular area, along
// with a few shapes and a text overlay.
type Scene struct {
	Size    [2]float32
	sprites []sprite
	time    float32
	r       *rand.Rand

	// Dropped counts the draws rejected because the batch was full in
	// the most recent call to Draw.
	Dropped int
}

func NewScene(size [2]float32, images []string, n int, scale float32, seed uint64) *Scene {
	s := &Scene{
		Size: size,
		r:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	s.Resize(images, n, scale)
	return s
}

// Resize changes the number of sprites, keeping existing ones.
func (s *Scene) Resize(images []string, n int, scale float32) {
	if n < len(s.sprites) {
		s.sprites = s.sprites[:n]
	}
	for len(s.sprites) < n {
		s.sprites = append(s.sprites, s.randomSprite(images, scale))
	}
	for i := range s.sprites {
		s.sprites[i].scale = scale * (0.5 + float32(i%4)/4)
	}
}

func (s *Scene) randomSprite(images []string, scale float32) sprite {
	f := func(lo, hi float32) float32 { return math.Lerp(s.r.Float32(), lo, hi) }

	sp := sprite{
		pos:      [2]float32{f(0, s.Size[0]), f(0, s.Size[1])},
		vel:      [2]float32{f(-200, 200), f(-200, 200)},
		rotation: f(0, 2*math.Pi()),
		spin:     f(-2, 2),
		scale:    scale,
		color:    renderer.RGBA{R: f(0.5, 1), G: f(0.5, 1), B: f(0.5, 1), A: 1},
		depth:    f(-0.9, 0.9),
	}
	if len(images) > 0 {
		sp.image = images[s.r.IntN(len(images))]
	}
	if s.r.IntN(4) == 0 {
		sp.orient = sp.orient.With(renderer.FlipHorizontal)
	}
	if s.r.IntN(4) == 0 {
		sp.orient = sp.orient.With(renderer.FlipVertical)
	}
	return sp
}

// Update advances the simulation by dt seconds.
func (s *Scene) Update(dt float32) {
	s.time += dt
	for i := range s.sprites {
		sp := &s.sprites[i]
		sp.pos = math.Add2f(sp.pos, math.Scale2f(sp.vel, dt))
		sp.rotation += sp.spin * dt
		for c := range 2 {
			if sp.pos[c] < 0 {
				sp.pos[c], sp.vel[c] = -sp.pos[c], -sp.vel[c]
			} else if sp.pos[c] > s.Size[c] {
				sp.pos[c], sp.vel[c] = 2*s.Size[c]-sp.pos[c], -sp.vel[c]
			}
		}
	}
}

// Textures looks up the texture for an image name.
type Textures func(name string) (renderer.Texture, error)

// Draw records the scene into sb, which must have an open pass. Draws
// that don't fit in the batch are counted in Dropped; other errors are
// returned.
func (s *Scene) Draw(sb *renderer.SpriteBatch, textures Textures, shapes bool) error {
	s.Dropped = 0
	check := func(err error) error {
		if errors.Is(err, renderer.ErrBatchFull) {
			s.Dropped++
			return nil
		}
		return err
	}

	for _, sp := range s.sprites {
		tex, err := textures(sp.image)
		if err != nil {
			return err
		}
		origin := [2]float32{float32(tex.Width()) / 2, float32(tex.Height()) / 2}
		if err := check(sb.DrawSprite(tex, sp.pos, nil, sp.color, origin, sp.rotation,
			[2]float32{sp.scale, sp.scale}, sp.orient, sp.depth)); err != nil {
			return err
		}
	}

	if shapes {
		if err := check(s.drawShapes(sb)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scene) drawShapes(sb *renderer.SpriteBatch) error {
	w, h := s.Size[0], s.Size[1]
	const depth = 0.95

	// Frame around the bounce area.
	border := [][2]float32{{4, 4}, {w - 4, 4}, {w - 4, h - 4}, {4, h - 4}}
	if err := sb.DrawLineLoop(border, 2, depth, renderer.Red, renderer.Yellow, renderer.Green, renderer.Blue); err != nil {
		return err
	}

	// A pulsing circle and a rotating gradient spoke in the middle.
	center := [2]float32{w / 2, h / 2}
	radius := 60 + 20*math.Sin(2*s.time)
	if err := sb.DrawCircle(center, radius, 3, depth, renderer.White, renderer.RGBA{R: 0.3, G: 0.6, B: 1, A: 1}); err != nil {
		return err
	}
	sin, cos := math.SinCos(s.time)
	tip := math.Add2f(center, math.Scale2f([2]float32{cos, sin}, radius))
	if err := sb.DrawLine(center, tip, 2, renderer.Yellow, renderer.Red, depth); err != nil {
		return err
	}

	// Translucent panel that the stats text sits on.
	if err := sb.DrawGradientRectangle(0, 0, w, 24, renderer.RGBA{A: 0.8}, renderer.RGBA{A: 0.4}, depth); err != nil {
		return err
	}

	// Wave along the bottom.
	var wave [][2]float32
	for x := float32(0); x <= w; x += 16 {
		wave = append(wave, [2]float32{x, h - 40 + 12*math.Sin(x/40+3*s.time)})
	}
	if len(wave) >= 2 {
		if err := sb.DrawLines(wave, 2, depth, renderer.Green); err != nil {
			return err
		}
	}
	return nil
}

// DrawOverlay draws text at the top of the scene.
func (s *Scene) DrawOverlay(sb *renderer.SpriteBatch, font renderer.Font, text string) error {
	if err := sb.DrawString(font, text, [2]float32{8, 6}, renderer.White, [2]float32{}, 0, [2]float32{1, 1},
		renderer.OrientationNone, 1); err != nil {
		return fmt.Errorf("overlay: %w", err)
	}
	return nil
}

func (s *Scene) SpriteCount() int {
	return len(s.sprites)
}
