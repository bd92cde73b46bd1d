// math/vecmat.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

///////////////////////////////////////////////////////////////////////////
// point 2f

// Various useful functions for arithmetic with 2D points/vectors.
// Names are brief in order to avoid clutter when they're used.

// a+b
func Add2f(a [2]float32, b [2]float32) [2]float32 {
	return [2]float32{a[0] + b[0], a[1] + b[1]}
}

// a-b
func Sub2f(a [2]float32, b [2]float32) [2]float32 {
	return [2]float32{a[0] - b[0], a[1] - b[1]}
}

// a*s
func Scale2f(a [2]float32, s float32) [2]float32 {
	return [2]float32{s * a[0], s * a[1]}
}

// componentwise a*b
func Mul2f(a [2]float32, b [2]float32) [2]float32 {
	return [2]float32{a[0] * b[0], a[1] * b[1]}
}

func Dot(a, b [2]float32) float32 {
	return a[0]*b[0] + a[1]*b[1]
}

// Length of v
func Length2f(v [2]float32) float32 {
	return Sqrt(v[0]*v[0] + v[1]*v[1])
}

// Distance between two points
func Distance2f(a [2]float32, b [2]float32) float32 {
	return Length2f(Sub2f(a, b))
}

// Normalizes the given vector. The zero vector is returned unchanged.
func Normalize2f(a [2]float32) [2]float32 {
	l := Length2f(a)
	if l == 0 {
		return [2]float32{0, 0}
	}
	return Scale2f(a, 1/l)
}

// Perp2f returns the unit vector perpendicular to the segment from a to b,
// rotated 90 degrees counterclockwise in a y-up frame.
func Perp2f(a, b [2]float32) [2]float32 {
	return Normalize2f([2]float32{a[1] - b[1], b[0] - a[0]})
}

// Rotate2f rotates p about the origin given the sine and cosine of the
// rotation angle.
func Rotate2f(p [2]float32, sin, cos float32) [2]float32 {
	return [2]float32{p[0]*cos - p[1]*sin, p[0]*sin + p[1]*cos}
}

// Rotator2f returns a function that rotates points about the given center
// by the specified angle (given in radians).
func Rotator2f(angle float32, center [2]float32) func([2]float32) [2]float32 {
	s, c := SinCos(angle)
	return func(p [2]float32) [2]float32 {
		return Add2f(center, Rotate2f(Sub2f(p, center), s, c))
	}
}
