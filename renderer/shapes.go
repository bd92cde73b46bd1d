// renderer/shapes.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"

	"github.com/mmp/spritebatch/math"
)

// CircleSegments is the number of line segments DrawCircle uses.
const CircleSegments = 32

func (sb *SpriteBatch) addSolid(q Quad, depth float32) {
	sb.items.add(sb.white.ID(), depth, q)
}

// DrawLine records a line of the given thickness from a to b whose color
// is interpolated from ca at a to cb at b.
func (sb *SpriteBatch) DrawLine(a, b [2]float32, thickness float32, ca, cb RGBA, depth float32) error {
	if err := sb.reserve("DrawLine", 1); err != nil {
		return err
	}
	sb.addSolid(LineQuad(a, b, thickness, ca, cb, depth), depth)
	return nil
}

// DrawLines records the polyline through points, one quad per segment.
// The color at point i is colors[i%len(colors)]. At least two points and
// one color must be given.
func (sb *SpriteBatch) DrawLines(points [][2]float32, thickness, depth float32, colors ...RGBA) error {
	if err := sb.reserve("DrawLines", max(len(points)-1, 0)); err != nil {
		return err
	}
	if err := checkPolyline("DrawLines", points, 2, colors); err != nil {
		return sb.fail("DrawLines", err)
	}
	sb.addPolyline(points, thickness, depth, colors, false)
	return nil
}

// DrawLineLoop is like DrawLines but adds a segment from the last point
// back to the first; at least three points must be given.
func (sb *SpriteBatch) DrawLineLoop(points [][2]float32, thickness, depth float32, colors ...RGBA) error {
	if err := sb.reserve("DrawLineLoop", len(points)); err != nil {
		return err
	}
	if err := checkPolyline("DrawLineLoop", points, 3, colors); err != nil {
		return sb.fail("DrawLineLoop", err)
	}
	sb.addPolyline(points, thickness, depth, colors, true)
	return nil
}

func checkPolyline(op string, points [][2]float32, minPoints int, colors []RGBA) error {
	if len(points) < minPoints {
		return fmt.Errorf("%w: %s requires at least %d points, got %d", ErrTooFewPoints, op, minPoints, len(points))
	}
	if len(colors) == 0 {
		return ErrNoColors
	}
	return nil
}

func (sb *SpriteBatch) addPolyline(points [][2]float32, thickness, depth float32, colors []RGBA, loop bool) {
	n := len(points)
	nseg := n - 1
	if loop {
		nseg = n
	}
	for i := range nseg {
		j := (i + 1) % n
		q := LineQuad(points[i], points[j], thickness, colors[i%len(colors)], colors[j%len(colors)], depth)
		sb.addSolid(q, depth)
	}
}

// DrawCircle records the outline of a circle as a closed loop of
// CircleSegments lines.
func (sb *SpriteBatch) DrawCircle(center [2]float32, radius, thickness, depth float32, colors ...RGBA) error {
	return sb.DrawCircleSegments(center, radius, CircleSegments, thickness, depth, colors...)
}

// DrawCircleSegments is like DrawCircle but uses nsegs segments.
func (sb *SpriteBatch) DrawCircleSegments(center [2]float32, radius float32, nsegs int, thickness, depth float32,
	colors ...RGBA) error {
	if err := sb.reserve("DrawCircle", max(nsegs, 0)); err != nil {
		return err
	}
	if nsegs < 3 {
		return sb.fail("DrawCircle", fmt.Errorf("%w: %d segments", ErrTooFewPoints, nsegs))
	}
	if len(colors) == 0 {
		return sb.fail("DrawCircle", ErrNoColors)
	}

	sb.points = sb.points[:0]
	for _, p := range math.CirclePoints(nsegs) {
		sb.points = append(sb.points, math.Add2f(center, math.Scale2f(p, radius)))
	}
	sb.addPolyline(sb.points, thickness, depth, colors, true)
	return nil
}

// DrawSolidRectangle records a filled axis-aligned rectangle with its
// upper left corner at (x, y).
func (sb *SpriteBatch) DrawSolidRectangle(x, y, width, height float32, color RGBA, depth float32) error {
	if err := sb.reserve("DrawSolidRectangle", 1); err != nil {
		return err
	}
	q := SolidQuad([2]float32{x, y}, [2]float32{x + width, y}, [2]float32{x, y + height},
		[2]float32{x + width, y + height}, color, depth)
	sb.addSolid(q, depth)
	return nil
}

// DrawSolidQuad records a filled quadrilateral with the given corners.
func (sb *SpriteBatch) DrawSolidQuad(tl, tr, bl, br [2]float32, color RGBA, depth float32) error {
	if err := sb.reserve("DrawSolidQuad", 1); err != nil {
		return err
	}
	sb.addSolid(SolidQuad(tl, tr, bl, br, color, depth), depth)
	return nil
}

// DrawGradientRectangle records a filled rectangle shaded from top along
// its upper edge to bottom along its lower edge.
func (sb *SpriteBatch) DrawGradientRectangle(x, y, width, height float32, top, bottom RGBA, depth float32) error {
	if err := sb.reserve("DrawGradientRectangle", 1); err != nil {
		return err
	}
	q := GradientQuad([2]float32{x, y}, [2]float32{x + width, y}, [2]float32{x, y + height},
		[2]float32{x + width, y + height}, top, bottom, depth)
	sb.addSolid(q, depth)
	return nil
}
