package pong

import (
	"math/rand"

	"go.uber.org/zap"

	c "github.com/lixenwraith/rally/constants"
	"github.com/lixenwraith/rally/engine"
	"github.com/lixenwraith/rally/vmath"
)

// Ball bounces between the paddles and the top and bottom edges
//
// Every change of direction recomputes ScorePosition, the point where the
// ball will reach a paddle's plane, which the computer uses to aim
type Ball struct {
	engine.Actor

	Direction     vmath.Vector2
	Speed         float64
	StartSpeed    float64
	Angle         float64
	MaxAngle      float64
	Scored        bool
	ScorePosition vmath.Vector2

	sprite        *engine.Sprite
	bounceSound   *engine.Sound
	playerSound   *engine.Sound
	computerSound *engine.Sound

	score    *Score
	player   *PlayerPaddle
	computer *ComputerPaddle
	rng      *rand.Rand
	log      *zap.Logger
}

func NewBall(ctx *engine.Context) (*Ball, error) {
	b := &Ball{
		StartSpeed: c.BallStartSpeed,
		Speed:      c.BallStartSpeed,
		MaxAngle:   c.BallMaxAngle,
		rng:        ctx.Rand,
		log:        ctx.Log,
	}
	var err error
	if b.sprite, err = engine.LoadSprite(ctx, c.SpriteBall); err != nil {
		return nil, err
	}
	b.sprite.Pivot.SetCenter()
	b.Width, b.Height = b.sprite.Width(), b.sprite.Height()
	b.Pivot.SetCenter()

	if b.bounceSound, err = engine.LoadSound(ctx, c.SoundBounce); err != nil {
		return nil, err
	}
	if b.playerSound, err = engine.LoadSound(ctx, c.SoundScorePlayer); err != nil {
		return nil, err
	}
	if b.computerSound, err = engine.LoadSound(ctx, c.SoundScoreComputer); err != nil {
		return nil, err
	}
	return b, nil
}

// Velocity is the per-tick displacement
func (b *Ball) Velocity() vmath.Vector2 {
	return b.Direction.Scale(b.Speed)
}

func (b *Ball) Initialize(ctx *engine.Context) {
	b.score = lookup[*Score](b, c.NameScore, ctx)
	b.player = lookup[*PlayerPaddle](b, c.NamePlayer, ctx)
	b.computer = lookup[*ComputerPaddle](b, c.NameComputer, ctx)
	b.ResetBall()
}

func (b *Ball) Update(ctx *engine.Context) {
	b.checkForScore()
	b.checkForEdgeBounce()

	v := b.Velocity()
	b.MoveX(v.X, b.onCollideX)
	b.MoveY(v.Y, b.onCollideY)
}

func (b *Ball) Draw(ctx *engine.Context) {
	b.sprite.Draw(b.Position())
}

// ResetBall parks the ball stopped at the center of the field
func (b *Ball) ResetBall() {
	b.Scored = false
	b.StopBall()
	b.X, b.Y = c.ScreenWidth/2, c.ScreenHeight/2
}

func (b *Ball) StopBall() {
	b.Speed = b.StartSpeed
	b.Direction = vmath.VecZero
}

// LaunchBall serves horizontally toward a random side
func (b *Ball) LaunchBall() {
	if b.rng.Float64() < 0.5 {
		b.Direction = vmath.VecLeft
	} else {
		b.Direction = vmath.VecRight
	}
	b.Speed = b.StartSpeed
	b.CalculateScorePosition()
	b.bounceSound.Play()
}

// checkForScore awards the point when the ball passes a side edge while
// still travelling toward it
func (b *Ball) checkForScore() {
	box := b.BBox()
	switch {
	case box.Left() <= 0 && b.Direction.X < 0:
		b.Scored = true
		b.StopBall()
		b.score.IncreasePlayer2()
		b.computer.ResetMoveTarget()
		b.computerSound.Play()
		b.log.Debug("point scored", zap.String("side", "computer"), zap.Int("y", b.Y))
	case box.Right() >= c.ScreenWidth && b.Direction.X > 0:
		b.Scored = true
		b.StopBall()
		b.score.IncreasePlayer1()
		b.computer.ResetMoveTarget()
		b.playerSound.Play()
		b.log.Debug("point scored", zap.String("side", "player"), zap.Int("y", b.Y))
	}
}

func (b *Ball) checkForEdgeBounce() {
	box := b.BBox()
	if (box.Top() <= 0 && b.Direction.Y < 0) || (box.Bottom() >= c.ScreenHeight && b.Direction.Y > 0) {
		b.Direction.Y *= -1
		b.bounceSound.Play()
	}
}

func (b *Ball) onCollideX(other engine.Entity) {
	if other.Entity().HasTag(c.TagPaddle) {
		b.onHitPaddle(other)
	} else {
		b.Direction.X *= -1
	}
	b.bounceSound.Play()
}

func (b *Ball) onCollideY(engine.Entity) {
	b.Direction.Y *= -1
	b.bounceSound.Play()
}

// onHitPaddle deflects by where the ball struck: the center sends it back
// flat, the ends at up to MaxAngle
func (b *Ball) onHitPaddle(paddle engine.Entity) {
	box := paddle.Entity().BBox()
	contact := vmath.Clamp(
		vmath.Remap(float64(b.Y), float64(box.Top()), float64(box.Bottom()), -1, 1),
		-1, 1)

	var angle float64
	if b.Direction.X > 0 {
		b.Direction = vmath.VecLeft
		angle = -b.MaxAngle * contact
	} else {
		b.Direction = vmath.VecRight
		angle = b.MaxAngle * contact
	}

	b.Angle = float64(vmath.SnapToInterval(angle, c.BounceAngleInterval))
	b.Direction = b.Direction.Rotated(b.Angle)
	b.CalculateScorePosition()
	b.Speed += c.BallSpeedIncrement
}

// CalculateScorePosition traces the ball's path with edge bounces until it
// reaches the plane just in front of the paddle it is heading for
func (b *Ball) CalculateScorePosition() {
	dir := b.Direction
	if dir.X == 0 {
		b.ScorePosition = b.Position().Vector()
		return
	}

	pos := b.Position().Vector()
	playerRight := b.player.BBox().Right()
	computerLeft := b.computer.BBox().Left()

	for {
		pos = pos.Add(dir)
		box := b.BBoxAt(int(pos.X), int(pos.Y))

		if (box.Top() <= 0 && dir.Y < 0) || (box.Bottom() >= c.ScreenHeight && dir.Y > 0) {
			dir.Y *= -1
		}
		if dir.X < 0 && box.Left() <= playerRight+1 {
			break
		}
		if dir.X > 0 && box.Right() >= computerLeft-1 {
			break
		}
	}
	b.ScorePosition = pos
}
