package pong

import (
	c "github.com/lixenwraith/rally/constants"
	"github.com/lixenwraith/rally/engine"
	"github.com/lixenwraith/rally/input"
)

// Paddle is the movement and drawing shared by both sides
type Paddle struct {
	engine.Actor

	MoveSpeed float64
	sprite    *engine.Sprite
}

func (p *Paddle) setup(ctx *engine.Context, spritePath string) error {
	sprite, err := engine.LoadSprite(ctx, spritePath)
	if err != nil {
		return err
	}
	sprite.Pivot.SetCenter()
	p.sprite = sprite
	p.Width, p.Height = sprite.Width(), sprite.Height()
	p.Pivot.SetCenter()
	p.MoveSpeed = c.PaddleSpeed
	return nil
}

func (p *Paddle) AfterUpdate(*engine.Context) {
	p.keepInBounds()
}

// keepInBounds nudges the paddle back until its box is on screen
func (p *Paddle) keepInBounds() {
	for p.BBox().Top() < 0 {
		p.Y++
	}
	for p.BBox().Bottom() > c.ScreenHeight {
		p.Y--
	}
}

func (p *Paddle) Draw(*engine.Context) {
	p.sprite.Draw(p.Position())
}

// PlayerPaddle follows the held up and down keys
type PlayerPaddle struct {
	Paddle
}

func NewPlayerPaddle(ctx *engine.Context) (*PlayerPaddle, error) {
	p := &PlayerPaddle{}
	if err := p.setup(ctx, c.SpritePlayer); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *PlayerPaddle) Initialize(*engine.Context) {
	p.X, p.Y = c.PlayerStartX, c.PlayerStartY
}

func (p *PlayerPaddle) Update(ctx *engine.Context) {
	if ctx.Input.IsKeyDown(input.KeyUp) {
		p.MoveY(-p.MoveSpeed, nil)
	}
	if ctx.Input.IsKeyDown(input.KeyDown) {
		p.MoveY(p.MoveSpeed, nil)
	}
}
