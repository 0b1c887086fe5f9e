package vmath

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned for values outside an operation's domain
var ErrInvalidArgument = errors.New("invalid argument")

// Pivot is a normalized anchor inside a box
//
//	0    X    1
//	+----+----+  0
//	|    |    |
//	+----+----+  Y
//	|    |    |
//	+----+----+  1
type Pivot struct {
	x, y float64
}

func (p Pivot) X() float64 { return p.x }
func (p Pivot) Y() float64 { return p.y }

// Set assigns the anchor, both values must be within [0, 1]
func (p *Pivot) Set(x, y float64) error {
	if x < 0 || x > 1 || y < 0 || y > 1 {
		return fmt.Errorf("pivot (%g, %g) outside [0,1]: %w", x, y, ErrInvalidArgument)
	}
	p.x, p.y = x, y
	return nil
}

func (p *Pivot) SetCenter()      { p.x, p.y = 0.5, 0.5 }
func (p *Pivot) SetCenterLeft()  { p.x, p.y = 0, 0.5 }
func (p *Pivot) SetCenterRight() { p.x, p.y = 1, 0.5 }

// Offset returns the pivot displacement for a box of the given size, truncated
func (p Pivot) Offset(width, height int) Point {
	return Point{int(p.x * float64(width)), int(p.y * float64(height))}
}
