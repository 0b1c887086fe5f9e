package engine

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/rally/content"
	"github.com/lixenwraith/rally/vmath"
)

var errNoContent = errors.New("context has no content cache")

// Sprite draws a loaded image anchored at its pivot
type Sprite struct {
	Pivot vmath.Pivot

	visual *content.Visual
	render Renderer
}

func LoadSprite(ctx *Context, path string) (*Sprite, error) {
	if ctx.Content == nil {
		return nil, errNoContent
	}
	v, err := ctx.Content.Sprite(path)
	if err != nil {
		return nil, fmt.Errorf("sprite: %w", err)
	}
	return &Sprite{visual: v, render: ctx.Render}, nil
}

func (s *Sprite) Width() int  { return s.visual.Width }
func (s *Sprite) Height() int { return s.visual.Height }

// Draw places the sprite so its pivot lands on pos
func (s *Sprite) Draw(pos vmath.Point) {
	s.render.DrawSprite(s.visual, pos.Sub(s.Pivot.Offset(s.visual.Width, s.visual.Height)))
}

// Text is a string set in a font face, anchored at its pivot
type Text struct {
	Pivot vmath.Pivot

	face   *content.Face
	text   string
	render Renderer
}

func LoadText(ctx *Context, fontPath string, size int, color content.Color) (*Text, error) {
	if ctx.Content == nil {
		return nil, errNoContent
	}
	face, err := ctx.Content.Font(fontPath, size, color)
	if err != nil {
		return nil, fmt.Errorf("text: %w", err)
	}
	return &Text{face: face, render: ctx.Render}, nil
}

func (t *Text) Text() string { return t.text }

func (t *Text) SetText(s string) { t.text = s }

// Size is the rendered extent of the current string
func (t *Text) Size() vmath.Point {
	w, h := t.face.Measure(t.text)
	return vmath.Pt(w, h)
}

func (t *Text) Draw(pos vmath.Point) {
	size := t.Size()
	t.render.DrawText(t.face, t.text, pos.Sub(t.Pivot.Offset(size.X, size.Y)))
}

// Sound is a clip bound to the audio service
type Sound struct {
	clip  *content.Clip
	audio AudioPlayer
}

func LoadSound(ctx *Context, path string) (*Sound, error) {
	if ctx.Content == nil {
		return nil, errNoContent
	}
	clip, err := ctx.Content.Audio(path)
	if err != nil {
		return nil, fmt.Errorf("sound: %w", err)
	}
	return &Sound{clip: clip, audio: ctx.Audio}, nil
}

// Play starts the clip without waiting for it
func (s *Sound) Play() {
	s.audio.Play(s.clip)
}
