package pong

import (
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"

	"github.com/lixenwraith/rally/asset"
	c "github.com/lixenwraith/rally/constants"
	"github.com/lixenwraith/rally/content"
	"github.com/lixenwraith/rally/engine"
	"github.com/lixenwraith/rally/scripting"
	"github.com/lixenwraith/rally/status"
	"github.com/lixenwraith/rally/vmath"
)

const step = 1.0 / 60

type match struct {
	ctx      *engine.Context
	scene    *engine.Scene
	manager  *GameManager
	ball     *Ball
	score    *Score
	player   *PlayerPaddle
	computer *ComputerPaddle
}

// newMatch builds the default scene against the bundled assets without an
// engine, so tests drive ticks by hand
func newMatch(t *testing.T, aim AimModel) *match {
	t.Helper()
	reg := status.NewRegistry()
	ctx := engine.NewContext(engine.Context{
		Content: content.NewCache(asset.FS, reg, zap.NewNop()),
		Status:  reg,
	})

	scene := NewScene(DefaultSceneDef(), aim)
	loader := &GameScene{def: DefaultSceneDef(), aim: aim}
	if err := loader.LoadEntities(scene, ctx); err != nil {
		t.Fatalf("Failed to load entities: %v", err)
	}
	scene.Entities().ApplyPending(ctx)

	m := &match{ctx: ctx, scene: scene}
	var ok bool
	if m.manager, ok = scene.Find(c.NameManager).(*GameManager); !ok {
		t.Fatal("Expected game manager in scene")
	}
	if m.ball, ok = scene.Find(c.NameBall).(*Ball); !ok {
		t.Fatal("Expected ball in scene")
	}
	if m.score, ok = scene.Find(c.NameScore).(*Score); !ok {
		t.Fatal("Expected score in scene")
	}
	if m.player, ok = scene.Find(c.NamePlayer).(*PlayerPaddle); !ok {
		t.Fatal("Expected player paddle in scene")
	}
	if m.computer, ok = scene.Find(c.NameComputer).(*ComputerPaddle); !ok {
		t.Fatal("Expected computer paddle in scene")
	}
	return m
}

func (m *match) tick() {
	m.ctx.Time.Update(step)
	m.scene.Update(m.ctx)
}

type fixedAim float64

func (f fixedAim) DefenseError(float64, float64, float64, float64) (float64, error) {
	return float64(f), nil
}

type brokenAim struct{}

func (brokenAim) DefenseError(float64, float64, float64, float64) (float64, error) {
	return 0, errors.New("boom")
}

func TestInitialLayout(t *testing.T) {
	m := newMatch(t, nil)

	if got := m.ball.Position(); got != vmath.Pt(160, 90) {
		t.Errorf("Expected ball at (160,90), got %v", got)
	}
	if m.ball.Direction != vmath.VecZero || m.ball.Speed != c.BallStartSpeed {
		t.Errorf("Expected ball parked at start speed, got dir %v speed %v", m.ball.Direction, m.ball.Speed)
	}
	if got := m.player.Position(); got != vmath.Pt(20, 90) {
		t.Errorf("Expected player at (20,90), got %v", got)
	}
	if got := m.computer.Position(); got != vmath.Pt(300, 90) {
		t.Errorf("Expected computer at (300,90), got %v", got)
	}
	if m.manager.State() != GameWaiting {
		t.Errorf("Expected manager waiting, got %v", m.manager.State())
	}
	if m.score.Player1() != 0 || m.score.Player2() != 0 {
		t.Error("Expected score 0-0")
	}
	if !m.player.HasTag(c.TagPaddle) || !m.computer.HasTag(c.TagPaddle) {
		t.Error("Expected both paddles tagged")
	}
	if m.ball.HasTag(c.TagPaddle) {
		t.Error("Expected ball without paddle tag")
	}
}

func TestServeAfterDelay(t *testing.T) {
	m := newMatch(t, fixedAim(0))

	for range 170 {
		m.tick()
	}
	if m.manager.State() != GameWaiting {
		t.Fatalf("Expected no serve yet, got state %v", m.manager.State())
	}
	if m.ball.Direction != vmath.VecZero {
		t.Fatal("Expected ball still before serve")
	}

	for range 15 {
		m.tick()
	}
	if m.manager.State() != GamePlaying {
		t.Fatalf("Expected playing after serve delay, got %v", m.manager.State())
	}
	if x := m.ball.Direction.X; x != 1 && x != -1 {
		t.Errorf("Expected serve left or right, got %v", m.ball.Direction)
	}
	if m.ball.Direction.Y != 0 {
		t.Errorf("Expected horizontal serve, got %v", m.ball.Direction)
	}
}

func TestDeadCenterPaddleHit(t *testing.T) {
	m := newMatch(t, fixedAim(0))

	m.ball.X, m.ball.Y = 294, 90
	m.ball.Direction = vmath.VecRight
	m.ball.Speed = 2

	m.ball.Update(m.ctx)

	if m.ball.X != 295 {
		t.Errorf("Expected ball x 295 stopped before the paddle, got %d", m.ball.X)
	}
	if m.ball.Direction.X != -1 || m.ball.Direction.Y != 0 {
		t.Errorf("Expected direction (-1,0), got %v", m.ball.Direction)
	}
	if m.ball.Angle != 0 {
		t.Errorf("Expected angle 0, got %v", m.ball.Angle)
	}
	if math.Abs(m.ball.Speed-2.1) > 1e-9 {
		t.Errorf("Expected speed 2.1, got %v", m.ball.Speed)
	}
	if m.computer.State() != ComputerWaiting {
		t.Errorf("Expected computer waiting after meeting the ball, got %v", m.computer.State())
	}
}

func TestEdgeHitDeflects(t *testing.T) {
	m := newMatch(t, fixedAim(0))

	// near the bottom of the player paddle while travelling left
	m.ball.X, m.ball.Y = 26, 100
	m.ball.Direction = vmath.VecLeft

	m.ball.Update(m.ctx)

	if m.ball.Direction.X <= 0 {
		t.Fatalf("Expected ball returned to the right, got %v", m.ball.Direction)
	}
	if m.ball.Angle <= 0 || m.ball.Angle > c.BallMaxAngle {
		t.Errorf("Expected a downward deflection up to %v, got %v", c.BallMaxAngle, m.ball.Angle)
	}
	if int(m.ball.Angle)%c.BounceAngleInterval != 0 {
		t.Errorf("Expected angle a multiple of %d, got %v", c.BounceAngleInterval, m.ball.Angle)
	}
	if m.ball.ScorePosition.X < 290 {
		t.Errorf("Expected score position near the computer, got %v", m.ball.ScorePosition)
	}
}

func TestTopEdgeBounce(t *testing.T) {
	m := newMatch(t, fixedAim(0))

	m.ball.X, m.ball.Y = 160, 3
	m.ball.Direction = vmath.Vec(1, -1).Normalized()

	m.ball.Update(m.ctx)

	if m.ball.Direction.Y <= 0 {
		t.Errorf("Expected downward direction after top edge, got %v", m.ball.Direction)
	}
}

func TestScoreCycle(t *testing.T) {
	m := newMatch(t, fixedAim(0))
	m.manager.setState(GamePlaying)

	m.ball.X, m.ball.Y = 3, 30
	m.ball.Direction = vmath.VecLeft

	m.tick()
	if !m.ball.Scored {
		t.Fatal("Expected ball past the left edge to score")
	}
	if m.score.Player2() != 1 || m.score.Player1() != 0 {
		t.Errorf("Expected score 0-1, got %d-%d", m.score.Player1(), m.score.Player2())
	}
	if m.manager.State() != GamePlaying {
		t.Errorf("Expected manager still playing in the scoring tick, got %v", m.manager.State())
	}
	if y := m.computer.MoveTarget().Y; y < c.IdleTargetMinY || y > c.IdleTargetMaxY {
		t.Errorf("Expected idle target y in [%d,%d], got %v", c.IdleTargetMinY, c.IdleTargetMaxY, y)
	}

	m.tick()
	if m.manager.State() != GameScored {
		t.Fatalf("Expected scored, got %v", m.manager.State())
	}

	m.tick()
	if m.manager.State() != GameWaiting {
		t.Errorf("Expected waiting, got %v", m.manager.State())
	}
	if m.ball.Scored || m.ball.Position() != vmath.Pt(160, 90) {
		t.Errorf("Expected ball reset to center, got scored=%v at %v", m.ball.Scored, m.ball.Position())
	}
	if got := m.ctx.Status.Ints.Get("score.player2").Load(); got != 1 {
		t.Errorf("Expected status score.player2 1, got %d", got)
	}
}

func TestRightEdgeScoresForPlayer(t *testing.T) {
	m := newMatch(t, fixedAim(0))

	m.ball.X, m.ball.Y = 317, 20
	m.ball.Direction = vmath.VecRight

	m.ball.Update(m.ctx)

	if !m.ball.Scored || m.score.Player1() != 1 {
		t.Errorf("Expected player point, got scored=%v player1=%d", m.ball.Scored, m.score.Player1())
	}
}

func TestPaddleStaysOnScreen(t *testing.T) {
	m := newMatch(t, nil)

	m.player.Y = -40
	m.player.AfterUpdate(m.ctx)
	if m.player.BBox().Top() != 0 {
		t.Errorf("Expected top 0, got %d", m.player.BBox().Top())
	}

	m.player.Y = 400
	m.player.AfterUpdate(m.ctx)
	if m.player.BBox().Bottom() != c.ScreenHeight {
		t.Errorf("Expected bottom %d, got %d", c.ScreenHeight, m.player.BBox().Bottom())
	}
}

func TestComputerChasesBall(t *testing.T) {
	m := newMatch(t, fixedAim(0))

	m.computer.Y = 40
	m.ball.Direction = vmath.VecRight
	m.ball.CalculateScorePosition()

	m.computer.Update(m.ctx)
	if m.computer.State() != ComputerThinking {
		t.Fatalf("Expected thinking, got %v", m.computer.State())
	}

	for range 30 {
		m.ctx.Time.Update(step)
		m.computer.Update(m.ctx)
	}
	if m.computer.State() != ComputerMoving {
		t.Fatalf("Expected moving after hesitation, got %v", m.computer.State())
	}
	if got := m.computer.MoveTarget(); got != m.ball.ScorePosition {
		t.Errorf("Expected target %v, got %v", m.ball.ScorePosition, got)
	}

	for range 60 {
		m.ctx.Time.Update(step)
		m.computer.Update(m.ctx)
	}
	// arrived, it may already be rethinking but never chases a target
	// inside the jitter threshold
	if m.computer.State() == ComputerMoving {
		t.Errorf("Expected arrival, got still moving at %d", m.computer.Y)
	}
	if d := math.Abs(float64(m.computer.Y) - m.ball.ScorePosition.Y); d > c.MoveDeadband {
		t.Errorf("Expected paddle within %v of target, got y %d off by %v", c.MoveDeadband, m.computer.Y, d)
	}
}

func TestComputerIgnoresBallLeaving(t *testing.T) {
	m := newMatch(t, fixedAim(0))

	m.ball.Direction = vmath.VecLeft
	m.computer.Update(m.ctx)

	if m.computer.State() != ComputerWaiting {
		t.Errorf("Expected waiting, got %v", m.computer.State())
	}
}

func TestComputerJitterBecomesWait(t *testing.T) {
	m := newMatch(t, fixedAim(0))

	m.computer.moveTarget = vmath.Vec(300, float64(m.computer.Y)+3)
	m.computer.SetState(ComputerMoving)

	if m.computer.State() != ComputerWaiting {
		t.Errorf("Expected small move suppressed, got %v", m.computer.State())
	}
}

func TestBrokenAimFallsBack(t *testing.T) {
	m := newMatch(t, brokenAim{})

	m.ball.X = 100
	m.ball.Direction = vmath.VecRight
	m.ball.CalculateScorePosition()
	m.computer.pickDefensePosition()

	if !m.computer.aimFailed {
		t.Error("Expected aim failure recorded")
	}
	want := BuiltinAim{}
	miss, _ := want.DefenseError(c.AimErrorBase, 0, vmath.Remap(100, 20, 300, 1, 0), m.ball.Speed)
	if d := math.Abs(m.computer.MoveTarget().Y - m.ball.ScorePosition.Y); math.Abs(d-miss) > 1e-9 {
		t.Errorf("Expected miss %v, got %v", miss, d)
	}
}

func TestLuaAimMatchesBuiltin(t *testing.T) {
	eng, err := scripting.Load(asset.FS, asset.AIScript, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer eng.Close()

	cases := [][4]float64{
		{10, 0, 1, 2},
		{10, 1, 1, 2},
		{10, 0.5, 0.25, 3.4},
		{10, 0.75, 0, 2.1},
	}
	for _, in := range cases {
		want, _ := BuiltinAim{}.DefenseError(in[0], in[1], in[2], in[3])
		got, err := eng.DefenseError(in[0], in[1], in[2], in[3])
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("defense_error%v: Expected builtin %v, got %v", in, want, got)
		}
	}
}

func TestLoadBundledScene(t *testing.T) {
	def, err := LoadSceneDef(asset.FS, asset.SceneFile)
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultSceneDef()
	if def.Name != want.Name || len(def.Entities) != len(want.Entities) {
		t.Fatalf("Expected scene %q with %d entities, got %q with %d", want.Name, len(want.Entities), def.Name, len(def.Entities))
	}
	for i, e := range def.Entities {
		w := want.Entities[i]
		if e.Kind != w.Kind || e.Name != w.Name || len(e.Tags) != len(w.Tags) {
			t.Errorf("entity %d: Expected %+v, got %+v", i, w, e)
		}
	}
}

func TestParseSceneErrors(t *testing.T) {
	if _, err := ParseSceneDef([]byte("name: x\nentities:\n  - kind: dragon\n")); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Expected ErrUnknownKind, got %v", err)
	}
	if _, err := ParseSceneDef([]byte("name: x\n")); !errors.Is(err, ErrEmptyScene) {
		t.Errorf("Expected ErrEmptyScene, got %v", err)
	}
	if _, err := ParseSceneDef([]byte("entities: [")); err == nil {
		t.Error("Expected malformed yaml rejected")
	}
}

func TestMissingContentFailsLoad(t *testing.T) {
	ctx := engine.NewContext(engine.Context{})
	loader := &GameScene{def: DefaultSceneDef()}
	if err := loader.LoadEntities(engine.NewScene("game", nil), ctx); err == nil {
		t.Error("Expected load without content to fail")
	}
}
