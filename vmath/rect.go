package vmath

// Rect is an axis-aligned rectangle anchored at its top-left corner
type Rect struct {
	X, Y          int
	Width, Height int
}

func (r Rect) Left() int   { return r.X }
func (r Rect) Right() int  { return r.X + r.Width }
func (r Rect) Top() int    { return r.Y }
func (r Rect) Bottom() int { return r.Y + r.Height }

// Location returns the top-left corner
func (r Rect) Location() Point { return Point{r.X, r.Y} }

// Size returns width and height as a point
func (r Rect) Size() Point { return Point{r.Width, r.Height} }

// Intersects reports overlap using open intervals, shared edges or corners do not count
func (r Rect) Intersects(o Rect) bool {
	return o.Left() < r.Right() &&
		r.Left() < o.Right() &&
		o.Top() < r.Bottom() &&
		r.Top() < o.Bottom()
}
