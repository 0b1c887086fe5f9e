package pong

import (
	"go.uber.org/zap"

	c "github.com/lixenwraith/rally/constants"
	"github.com/lixenwraith/rally/engine"
	"github.com/lixenwraith/rally/status"
)

type GameState uint8

const (
	GameWaiting GameState = iota
	GamePlaying
	GameScored
)

func (s GameState) String() string {
	switch s {
	case GameWaiting:
		return "waiting"
	case GamePlaying:
		return "playing"
	case GameScored:
		return "scored"
	}
	return "unknown"
}

// GameManager runs the serve, rally, point cycle
//
// It sits first in the scene so a point scored on one tick is seen at the
// start of the next, before the ball moves again
type GameManager struct {
	engine.Base

	state     GameState
	waitTimer float64
	waitMax   float64
	ball      *Ball

	log       *zap.Logger
	statState *status.Label
}

func NewGameManager(ctx *engine.Context) *GameManager {
	return &GameManager{
		waitMax:   c.ServeDelay,
		log:       ctx.Log,
		statState: ctx.Status.Labels.Get("game.state"),
	}
}

func (m *GameManager) State() GameState { return m.state }

func (m *GameManager) Initialize(ctx *engine.Context) {
	m.ball = lookup[*Ball](m, c.NameBall, ctx)
}

func (m *GameManager) Start(*engine.Context) {
	m.resetState()
}

func (m *GameManager) Update(ctx *engine.Context) {
	switch m.state {
	case GameWaiting:
		m.waitTimer -= ctx.Time.DeltaTime
		if m.waitTimer <= 0 {
			m.ball.LaunchBall()
			m.setState(GamePlaying)
		}
	case GamePlaying:
		if m.ball.Scored {
			m.setState(GameScored)
		}
	case GameScored:
		m.ball.ResetBall()
		m.resetState()
	}
}

func (m *GameManager) resetState() {
	m.setState(GameWaiting)
	m.waitTimer = m.waitMax
}

func (m *GameManager) setState(s GameState) {
	if s != m.state {
		m.log.Debug("game state", zap.Stringer("from", m.state), zap.Stringer("to", s))
	}
	m.state = s
	m.statState.Store(s.String())
}
