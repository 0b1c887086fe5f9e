package pong

import (
	"math"
	"math/rand"

	"go.uber.org/zap"

	c "github.com/lixenwraith/rally/constants"
	"github.com/lixenwraith/rally/engine"
	"github.com/lixenwraith/rally/status"
	"github.com/lixenwraith/rally/vmath"
)

type ComputerState uint8

const (
	ComputerWaiting ComputerState = iota
	ComputerThinking
	ComputerMoving
)

func (s ComputerState) String() string {
	switch s {
	case ComputerWaiting:
		return "waiting"
	case ComputerThinking:
		return "thinking"
	case ComputerMoving:
		return "moving"
	}
	return "unknown"
}

// AimModel sizes the computer's defense error before its random sign
//
//	angleRatio     |ball angle| / max angle
//	distanceRatio  1 with the ball at the player, 0 at the computer
type AimModel interface {
	DefenseError(base, angleRatio, distanceRatio, speed float64) (float64, error)
}

// BuiltinAim misses more on steep, distant and fast balls
type BuiltinAim struct{}

func (BuiltinAim) DefenseError(base, angleRatio, distanceRatio, speed float64) (float64, error) {
	angleMult := vmath.Remap(angleRatio, 0, 1, 0.5, 1)
	speedMult := speed/10 + 1
	return base * angleMult * distanceRatio * speedMult, nil
}

// ComputerPaddle waits for the ball to head its way, hesitates, then moves
// to an imperfect guess of where the ball will arrive
type ComputerPaddle struct {
	Paddle

	state      ComputerState
	moveTarget vmath.Vector2
	thinkTimer float64

	ball   *Ball
	player *PlayerPaddle

	aim       AimModel
	aimFailed bool
	rng       *rand.Rand
	log       *zap.Logger
	statState *status.Label
}

func NewComputerPaddle(ctx *engine.Context, aim AimModel) (*ComputerPaddle, error) {
	if aim == nil {
		aim = BuiltinAim{}
	}
	p := &ComputerPaddle{
		aim:       aim,
		rng:       ctx.Rand,
		log:       ctx.Log,
		statState: ctx.Status.Labels.Get("ai.state"),
	}
	if err := p.setup(ctx, c.SpriteComputer); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *ComputerPaddle) State() ComputerState { return p.state }

func (p *ComputerPaddle) MoveTarget() vmath.Vector2 { return p.moveTarget }

func (p *ComputerPaddle) Initialize(ctx *engine.Context) {
	p.X, p.Y = c.ComputerStartX, c.ComputerStartY
	p.ball = lookup[*Ball](p, c.NameBall, ctx)
	p.player = lookup[*PlayerPaddle](p, c.NamePlayer, ctx)
}

func (p *ComputerPaddle) Update(ctx *engine.Context) {
	switch p.state {
	case ComputerWaiting:
		p.handleWaiting()
	case ComputerThinking:
		p.handleThinking(ctx)
	case ComputerMoving:
		p.handleMoving()
	}
}

// SetState switches state; a move to a target closer than the jitter
// threshold becomes a wait
func (p *ComputerPaddle) SetState(s ComputerState) {
	if s == ComputerMoving && math.Abs(p.moveTarget.Y-float64(p.Y)) < c.MoveJitterThreshold {
		s = ComputerWaiting
	}
	p.state = s
	p.statState.Store(s.String())
}

func (p *ComputerPaddle) handleWaiting() {
	if p.ball.Direction.X > 0 {
		p.resetThinkTimer()
		p.SetState(ComputerThinking)
	}
}

// resetThinkTimer hesitates less the closer the ball already is
func (p *ComputerPaddle) resetThinkTimer() {
	scale := vmath.Remap(float64(p.ball.X), float64(p.player.X), float64(p.X), 1, 0.5)
	p.thinkTimer = max(c.ThinkTimerMax*scale, c.ThinkTimerMin)
}

func (p *ComputerPaddle) handleThinking(ctx *engine.Context) {
	if p.thinkTimer > 0 {
		p.thinkTimer -= ctx.Time.DeltaTime
		return
	}
	p.pickDefensePosition()
	p.SetState(ComputerMoving)
}

// pickDefensePosition aims at the ball's predicted arrival plus an error
func (p *ComputerPaddle) pickDefensePosition() {
	target := p.ball.ScorePosition

	angleRatio := math.Abs(p.ball.Angle / p.ball.MaxAngle)
	distanceRatio := vmath.Remap(float64(p.ball.X), float64(p.player.X), float64(p.X), 1, 0)
	miss := p.defenseError(angleRatio, distanceRatio, p.ball.Speed)
	if p.rng.Float64() > 0.5 {
		miss = -miss
	}

	target.Y += miss
	p.moveTarget = target
}

func (p *ComputerPaddle) defenseError(angleRatio, distanceRatio, speed float64) float64 {
	miss, err := p.aim.DefenseError(c.AimErrorBase, angleRatio, distanceRatio, speed)
	if err == nil {
		return miss
	}
	if !p.aimFailed {
		p.log.Warn("aim model failed, using builtin", zap.Error(err))
		p.aimFailed = true
	}
	miss, _ = BuiltinAim{}.DefenseError(c.AimErrorBase, angleRatio, distanceRatio, speed)
	return miss
}

func (p *ComputerPaddle) handleMoving() {
	delta := p.moveTarget.Y - float64(p.Y)

	if math.Abs(delta) < c.MoveDeadband {
		p.SetState(ComputerWaiting)
	}
	if box := p.BBox(); box.Top() == 0 || box.Bottom() == c.ScreenHeight {
		p.SetState(ComputerWaiting)
	}

	// the step still completes on the tick the paddle arrives
	dir := float64(vmath.Sign(delta))
	p.MoveY(min(p.MoveSpeed, math.Abs(delta))*dir, nil)
}

// ResetMoveTarget drifts back toward the middle after a point
func (p *ComputerPaddle) ResetMoveTarget() {
	y := c.IdleTargetMinY + p.rng.Intn(c.IdleTargetMaxY-c.IdleTargetMinY+1)
	p.moveTarget = vmath.Vec(c.ComputerStartX, float64(y))
	p.SetState(ComputerMoving)
}

// OnCollide stops chasing once the ball has been met
func (p *ComputerPaddle) OnCollide(other engine.Entity) {
	if other.Entity().Name() == c.NameBall {
		p.SetState(ComputerWaiting)
	}
}
