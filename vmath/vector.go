package vmath

import (
	"fmt"
	"math"
)

// Vector2 is a float direction or position
type Vector2 struct {
	X, Y float64
}

// Vec is shorthand for Vector2{X: x, Y: y}
func Vec(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

// Unit vectors in screen space, y grows downward
var (
	VecZero  = Vector2{0, 0}
	VecOne   = Vector2{1, 1}
	VecUp    = Vector2{0, -1}
	VecDown  = Vector2{0, 1}
	VecLeft  = Vector2{-1, 0}
	VecRight = Vector2{1, 0}
)

func (v Vector2) Add(o Vector2) Vector2 { return Vector2{v.X + o.X, v.Y + o.Y} }
func (v Vector2) Sub(o Vector2) Vector2 { return Vector2{v.X - o.X, v.Y - o.Y} }
func (v Vector2) Mul(o Vector2) Vector2 { return Vector2{v.X * o.X, v.Y * o.Y} }
func (v Vector2) Div(o Vector2) Vector2 { return Vector2{v.X / o.X, v.Y / o.Y} }

// Scale multiplies both components by f
func (v Vector2) Scale(f float64) Vector2 { return Vector2{v.X * f, v.Y * f} }

// Length returns the Euclidean length
func (v Vector2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalized returns a unit vector, zero-length input yields the zero vector
func (v Vector2) Normalized() Vector2 {
	l := v.Length()
	if l == 0 {
		return VecZero
	}
	return v.Scale(1 / l)
}

// Rotated returns the vector rotated clockwise on screen by angle degrees
func (v Vector2) Rotated(angle float64) Vector2 {
	rad := angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	return Vector2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Point truncates both components toward zero
func (v Vector2) Point() Point {
	return Point{int(v.X), int(v.Y)}
}

func (v Vector2) String() string {
	return fmt.Sprintf("Vector2(%g, %g)", v.X, v.Y)
}
