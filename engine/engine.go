// Package engine runs scenes of entities on a fixed-timestep loop
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/rally/status"
)

const (
	DefaultTimestep = 1.0 / 60

	// snapTolerance is how close a measured delta must be to a common
	// refresh interval to be replaced by it
	snapTolerance = 0.0002

	// minWait keeps a loop iteration from spinning when a step is due now
	minWait = time.Millisecond
)

var snapTargets = [...]float64{1.0 / 120, 1.0 / 60, 1.0 / 30}

// SnapDelta replaces a frame delta within tolerance of 1/120, 1/60 or
// 1/30 seconds with that exact value, removing vsync jitter
func SnapDelta(delta float64) float64 {
	for _, t := range snapTargets {
		if math.Abs(delta-t) < snapTolerance {
			return t
		}
	}
	return delta
}

var ErrNoScene = errors.New("no scene to run")

type Options struct {
	Title        string
	Timestep     float64 // seconds, DefaultTimestep when <= 0
	MaxFrameTime float64 // accumulator clamp in seconds, <= 0 disables
	Clock        Clock   // SystemClock when nil
}

// Engine owns the active scene and advances it in fixed steps
type Engine struct {
	ctx   *Context
	clock Clock
	log   *zap.Logger

	title        string
	timestep     float64
	maxFrameTime float64

	lastTick    time.Time
	accumulator float64

	frameCounter int
	fpsTimer     float64
	fps          int

	scene     *Scene
	nextScene *Scene
	running   atomic.Bool

	statTicks    *atomic.Int64
	statEntities *atomic.Int64
	statFPS      *status.Float
	statScene    *status.Label
}

func New(ctx *Context, opts Options) *Engine {
	if opts.Timestep <= 0 {
		opts.Timestep = DefaultTimestep
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	e := &Engine{
		ctx:          ctx,
		clock:        opts.Clock,
		log:          ctx.Log.Named("engine"),
		title:        opts.Title,
		timestep:     opts.Timestep,
		maxFrameTime: opts.MaxFrameTime,
		statTicks:    ctx.Status.Ints.Get("engine.ticks"),
		statEntities: ctx.Status.Ints.Get("engine.entities"),
		statFPS:      ctx.Status.Floats.Get("engine.fps"),
		statScene:    ctx.Status.Labels.Get("engine.scene"),
	}
	e.lastTick = e.clock.Now()
	return e
}

func (e *Engine) Context() *Context { return e.ctx }

// Scene returns the active scene
func (e *Engine) Scene() *Scene { return e.scene }

// SetScene requests a switch; it happens after the current update finishes
func (e *Engine) SetScene(s *Scene) { e.nextScene = s }

// FPS is the number of fixed steps run during the last full second
func (e *Engine) FPS() int { return e.fps }

func (e *Engine) Running() bool { return e.running.Load() }

// Quit ends Run after the current iteration
func (e *Engine) Quit() { e.running.Store(false) }

// Run activates first and loops until quit, a platform quit event, ctx
// cancellation or an error from a scene transition
func (e *Engine) Run(ctx context.Context, first *Scene) error {
	if first == nil {
		return ErrNoScene
	}
	e.SetScene(first)
	if err := e.transition(); err != nil {
		return err
	}

	e.running.Store(true)
	defer e.running.Store(false)
	e.lastTick = e.clock.Now()

	for e.running.Load() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.Step(); err != nil {
			return err
		}
		e.wait(ctx)
	}
	e.log.Info("engine stopped", zap.Uint64("ticks", e.ctx.Time.Ticks))
	return nil
}

// Step runs one loop iteration: poll events, measure and snap the frame
// delta, run every due fixed step, refresh the fps counter
func (e *Engine) Step() error {
	if e.ctx.Events != nil && e.ctx.Events.PollEvents() {
		e.Quit()
		return nil
	}

	now := e.clock.Now()
	delta := SnapDelta(now.Sub(e.lastTick).Seconds())
	e.lastTick = now

	e.fpsTimer += delta
	e.accumulator += delta
	if e.maxFrameTime > 0 && e.accumulator > e.maxFrameTime {
		e.accumulator = e.maxFrameTime
	}

	for e.accumulator > e.timestep {
		e.accumulator -= e.timestep
		if err := e.Tick(); err != nil {
			return err
		}
	}

	e.updateFPS()
	return nil
}

// Tick advances the game by exactly one fixed step and draws it
func (e *Engine) Tick() error {
	e.ctx.Time.Update(e.timestep)
	e.frameCounter++
	e.statTicks.Add(1)

	if e.scene != nil {
		e.scene.Update(e.ctx)
	}
	if e.nextScene != e.scene {
		if err := e.transition(); err != nil {
			return err
		}
	}

	r := e.ctx.Render
	r.Clear()
	if e.scene != nil {
		e.scene.Draw(e.ctx)
		e.statEntities.Store(int64(e.scene.entities.Len()))
	}
	r.Present()
	return nil
}

// transition ends the active scene, loads the next one and commits its
// entities, then attaches the engine. Entities of the first batch see no
// engine while they initialize and start
func (e *Engine) transition() error {
	if e.scene != nil {
		e.scene.end()
	}
	e.scene = e.nextScene
	if e.scene == nil {
		return nil
	}

	if err := e.scene.load(e.ctx); err != nil {
		failed := e.scene
		failed.end()
		e.scene, e.nextScene = nil, nil
		return fmt.Errorf("load scene %q: %w", failed.name, err)
	}
	e.scene.entities.ApplyPending(e.ctx)
	e.scene.start(e)

	e.statScene.Store(e.scene.name)
	e.log.Info("scene started",
		zap.String("scene", e.scene.name),
		zap.Int("entities", e.scene.entities.Len()))
	return nil
}

func (e *Engine) updateFPS() {
	if e.fpsTimer < 1 {
		return
	}
	e.fps = e.frameCounter
	e.frameCounter = 0
	e.fpsTimer -= 1
	e.statFPS.Store(float64(e.fps))
	e.ctx.Window.SetTitle(fmt.Sprintf("%s [ %d fps ]", e.title, e.fps))
}

// wait sleeps until the next step is due
func (e *Engine) wait(ctx context.Context) {
	d := max(time.Duration((e.timestep-e.accumulator)*float64(time.Second)), minWait)
	if s, ok := e.clock.(sleeper); ok {
		s.Sleep(ctx, d)
		return
	}
	SystemClock{}.Sleep(ctx, d)
}
