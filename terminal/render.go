package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/rally/content"
	"github.com/lixenwraith/rally/vmath"
)

// The field is scaled to fill the terminal; each cell covers a
// field/cols by field/rows block of pixels

func (s *Service) Clear() {
	s.screen.Clear()
}

func (s *Service) Present() {
	s.screen.Show()
}

// DrawSprite fills every cell the sprite's box touches with its color
func (s *Service) DrawSprite(v *content.Visual, at vmath.Point) {
	if v.Fill.A == 0 {
		return
	}
	c0, c1 := span(at.X, v.Width, s.field.X, s.cols)
	r0, r1 := span(at.Y, v.Height, s.field.Y, s.rows)
	style := tcell.StyleDefault.Background(toColor(v.Fill))
	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			s.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

// DrawText writes one rune per cell, vertically centered on the glyph box
// and keeping whatever background is already there
func (s *Service) DrawText(face *content.Face, text string, at vmath.Point) {
	if s.cols == 0 || s.rows == 0 {
		return
	}
	col := scale(at.X, s.field.X, s.cols)
	row := scale(at.Y+face.GlyphHeight/2, s.field.Y, s.rows)
	if row < 0 || row >= s.rows {
		return
	}
	fg := toColor(face.Color)
	for _, r := range text {
		if col >= 0 && col < s.cols {
			_, _, under, _ := s.screen.GetContent(col, row)
			_, bg, _ := under.Decompose()
			s.screen.SetContent(col, row, r, nil, tcell.StyleDefault.Foreground(fg).Background(bg).Bold(true))
		}
		col++
	}
}

// CellSize reports the terminal size in cells
func (s *Service) CellSize() vmath.Point {
	return vmath.Pt(s.cols, s.rows)
}

// span maps the pixel interval [pos, pos+length) onto cells, returning at
// least one cell for visible boxes
func span(pos, length, field, cells int) (int, int) {
	if field <= 0 || cells <= 0 || length <= 0 {
		return 0, 0
	}
	lo := scale(pos, field, cells)
	hi := ((pos+length)*cells + field - 1) / field
	if pos+length <= 0 {
		hi = 0
	}
	if hi <= lo {
		hi = lo + 1
	}
	return max(lo, 0), min(hi, cells)
}

// scale converts a pixel coordinate to a cell index, flooring
func scale(v, field, cells int) int {
	n := v * cells
	if n < 0 {
		return -((-n + field - 1) / field)
	}
	return n / field
}

func toColor(c content.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
