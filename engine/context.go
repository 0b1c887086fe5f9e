package engine

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/lixenwraith/rally/content"
	"github.com/lixenwraith/rally/core"
	"github.com/lixenwraith/rally/input"
	"github.com/lixenwraith/rally/status"
	"github.com/lixenwraith/rally/vmath"
)

// Renderer draws into a back buffer that Present makes visible
// Positions are top-left corners in field pixels
type Renderer interface {
	Clear()
	DrawSprite(v *content.Visual, at vmath.Point)
	DrawText(face *content.Face, text string, at vmath.Point)
	Present()
}

// ContentCache hands out loaded assets, content.ErrNotFound on a miss
type ContentCache interface {
	Sprite(path string) (*content.Visual, error)
	Font(path string, size int, color content.Color) (*content.Face, error)
	Audio(path string) (*content.Clip, error)
}

// AudioPlayer starts a clip and returns immediately
type AudioPlayer interface {
	Play(clip *content.Clip)
}

// Input reports held keys as of the current tick
type Input interface {
	IsKeyDown(k input.Key) bool
}

type Window interface {
	SetTitle(title string)
}

// EventSource drains pending platform events, reporting a quit request
type EventSource interface {
	PollEvents() (quit bool)
}

// Context carries the shared clock and services into every entity hook
type Context struct {
	Time    *core.Time
	Input   Input
	Render  Renderer
	Audio   AudioPlayer
	Content ContentCache
	Window  Window
	Events  EventSource
	Log     *zap.Logger
	Rand    *rand.Rand
	Status  *status.Registry
}

// NewContext fills any service left nil with a no-op so entities never
// need nil checks
func NewContext(c Context) *Context {
	ctx := c
	if ctx.Time == nil {
		ctx.Time = core.NewTime()
	}
	if ctx.Input == nil {
		ctx.Input = NoInput{}
	}
	if ctx.Render == nil {
		ctx.Render = NopRenderer{}
	}
	if ctx.Audio == nil {
		ctx.Audio = NopAudio{}
	}
	if ctx.Window == nil {
		ctx.Window = NopWindow{}
	}
	if ctx.Log == nil {
		ctx.Log = zap.NewNop()
	}
	if ctx.Rand == nil {
		ctx.Rand = rand.New(rand.NewSource(1))
	}
	if ctx.Status == nil {
		ctx.Status = status.NewRegistry()
	}
	return &ctx
}

// No-op services used headless and in tests

type NoInput struct{}

func (NoInput) IsKeyDown(input.Key) bool { return false }

type NopRenderer struct{}

func (NopRenderer) Clear()                                      {}
func (NopRenderer) DrawSprite(*content.Visual, vmath.Point)     {}
func (NopRenderer) DrawText(*content.Face, string, vmath.Point) {}
func (NopRenderer) Present()                                    {}

type NopAudio struct{}

func (NopAudio) Play(*content.Clip) {}

type NopWindow struct{}

func (NopWindow) SetTitle(string) {}
