package vmath

import "math"

// Vec2 is a world-space position or velocity in world units
type Vec2 struct {
	X, Y float64
}

// V2 builds a Vec2
func V2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns a + b
func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{X: a.X + b.X, Y: a.Y + b.Y}
}

// Sub returns a - b
func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{X: a.X - b.X, Y: a.Y - b.Y}
}

// Scale multiplies both components by factor
func (a Vec2) Scale(factor float64) Vec2 {
	return Vec2{X: a.X * factor, Y: a.Y * factor}
}

// Dot returns a.X*b.X + a.Y*b.Y
func (a Vec2) Dot(b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// LenSq returns squared magnitude without sqrt
func (a Vec2) LenSq() float64 {
	return a.X*a.X + a.Y*a.Y
}

// Len returns vector magnitude
func (a Vec2) Len() float64 {
	return math.Hypot(a.X, a.Y)
}

// IsZero reports whether both components are exactly zero
func (a Vec2) IsZero() bool {
	return a.X == 0 && a.Y == 0
}

// Normalize returns the unit vector, zero-safe
func (a Vec2) Normalize() Vec2 {
	l := a.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: a.X / l, Y: a.Y / l}
}

// ClampLen limits vector to maxLen while preserving direction
func (a Vec2) ClampLen(maxLen float64) Vec2 {
	l := a.Len()
	if l <= maxLen || l == 0 {
		return a
	}
	return a.Scale(maxLen / l)
}

// Dist returns the euclidean distance between a and b
func Dist(a, b Vec2) float64 {
	return a.Sub(b).Len()
}

// DistSq returns the squared distance between a and b
func DistSq(a, b Vec2) float64 {
	return a.Sub(b).LenSq()
}
