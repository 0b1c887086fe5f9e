package vmath

import "fmt"

// Point is an integer position in virtual pixels
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{X: x, Y: y}
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(o Point) Point { return Point{p.X + o.X, p.Y + o.Y} }
func (p Point) Sub(o Point) Point { return Point{p.X - o.X, p.Y - o.Y} }
func (p Point) Mul(o Point) Point { return Point{p.X * o.X, p.Y * o.Y} }

// Div divides componentwise, a zero component in o panics like any integer division
func (p Point) Div(o Point) Point { return Point{p.X / o.X, p.Y / o.Y} }

// Scale multiplies both components and truncates toward zero
func (p Point) Scale(f float64) Point {
	return Point{int(float64(p.X) * f), int(float64(p.Y) * f)}
}

// Vector converts the point to a float vector
func (p Point) Vector() Vector2 {
	return Vector2{float64(p.X), float64(p.Y)}
}

func (p Point) String() string {
	return fmt.Sprintf("Point(%d, %d)", p.X, p.Y)
}
