package pong

import (
	"strconv"
	"sync/atomic"

	c "github.com/lixenwraith/rally/constants"
	"github.com/lixenwraith/rally/content"
	"github.com/lixenwraith/rally/engine"
	"github.com/lixenwraith/rally/vmath"
)

var scoreColor = content.RGB(255, 253, 242)

// Score shows both players' points either side of the center line
type Score struct {
	engine.Base

	player1, player2 int
	text1, text2     *engine.Text
	spacing          int

	stat1, stat2 *atomic.Int64
}

func NewScore(ctx *engine.Context) (*Score, error) {
	s := &Score{
		spacing: c.ScoreSpacing,
		stat1:   ctx.Status.Ints.Get("score.player1"),
		stat2:   ctx.Status.Ints.Get("score.player2"),
	}
	var err error
	if s.text1, err = engine.LoadText(ctx, c.FontScore, c.ScoreFontSize, scoreColor); err != nil {
		return nil, err
	}
	if s.text2, err = engine.LoadText(ctx, c.FontScore, c.ScoreFontSize, scoreColor); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Score) Initialize(*engine.Context) {
	s.X, s.Y = c.ScreenWidth/2, c.ScoreY
	s.text1.Pivot.SetCenterRight()
	s.text2.Pivot.SetCenterLeft()
}

func (s *Score) Start(*engine.Context) {
	s.SetPlayer1(0)
	s.SetPlayer2(0)
}

func (s *Score) Player1() int { return s.player1 }
func (s *Score) Player2() int { return s.player2 }

func (s *Score) SetPlayer1(n int) {
	s.player1 = n
	s.text1.SetText(strconv.Itoa(n))
	s.stat1.Store(int64(n))
}

func (s *Score) SetPlayer2(n int) {
	s.player2 = n
	s.text2.SetText(strconv.Itoa(n))
	s.stat2.Store(int64(n))
}

func (s *Score) IncreasePlayer1() { s.SetPlayer1(s.player1 + 1) }
func (s *Score) IncreasePlayer2() { s.SetPlayer2(s.player2 + 1) }

func (s *Score) Draw(*engine.Context) {
	s.text1.Draw(vmath.Pt(s.X-s.spacing/2, s.Y))
	s.text2.Draw(vmath.Pt(s.X+s.spacing/2+1, s.Y))
}

// Background fills the field behind everything else
type Background struct {
	engine.Base
	sprite *engine.Sprite
}

func NewBackground(ctx *engine.Context) (*Background, error) {
	sprite, err := engine.LoadSprite(ctx, c.SpriteBackground)
	if err != nil {
		return nil, err
	}
	return &Background{sprite: sprite}, nil
}

func (b *Background) Draw(*engine.Context) {
	b.sprite.Draw(b.Position())
}
