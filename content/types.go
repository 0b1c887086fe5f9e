package content

import (
	"errors"
	"fmt"
	"time"

	"github.com/gopxl/beep"
)

var (
	ErrNotFound = errors.New("content not found")
	ErrDecode   = errors.New("content decode failed")
)

// Color is an 8-bit RGBA color independent of the output device
type Color struct {
	R, G, B, A uint8
}

var (
	White = Color{255, 255, 255, 255}
	Black = Color{0, 0, 0, 255}
)

func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Visual is a decoded sprite: its pixel size and the average color of its
// opaque pixels, which is all a cell renderer can show
type Visual struct {
	Path   string
	Width  int
	Height int
	Fill   Color
}

// Face is a font at a concrete size and color
// Glyph metrics are in field pixels, scaled from the descriptor's base size
type Face struct {
	Path        string
	Name        string
	Size        int
	Color       Color
	GlyphWidth  int
	GlyphHeight int
}

// Measure returns the field-pixel size of text set in this face
func (f *Face) Measure(text string) (w, h int) {
	return len([]rune(text)) * f.GlyphWidth, f.GlyphHeight
}

// Clip is a fully decoded sound held in memory so it can be replayed
// without touching the file system
type Clip struct {
	Path   string
	buffer *beep.Buffer
}

func (c *Clip) Format() beep.Format {
	return c.buffer.Format()
}

func (c *Clip) Len() int {
	return c.buffer.Len()
}

func (c *Clip) Duration() time.Duration {
	return c.buffer.Format().SampleRate.D(c.buffer.Len())
}

// Streamer returns a fresh cursor over the whole clip
func (c *Clip) Streamer() beep.StreamSeeker {
	return c.buffer.Streamer(0, c.buffer.Len())
}
