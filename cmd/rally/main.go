package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/rally/asset"
	"github.com/lixenwraith/rally/audio"
	"github.com/lixenwraith/rally/config"
	c "github.com/lixenwraith/rally/constants"
	"github.com/lixenwraith/rally/content"
	"github.com/lixenwraith/rally/core"
	"github.com/lixenwraith/rally/engine"
	"github.com/lixenwraith/rally/input"
	"github.com/lixenwraith/rally/pong"
	"github.com/lixenwraith/rally/scripting"
	"github.com/lixenwraith/rally/service"
	"github.com/lixenwraith/rally/status"
	"github.com/lixenwraith/rally/terminal"
	"github.com/lixenwraith/rally/vmath"
)

var (
	configPath = flag.String("config", "", "TOML config file, defaults when empty")
	debugFlag  = flag.Bool("debug", false, "log at debug level to the configured log file")
	headless   = flag.Bool("headless", false, "simulate without terminal or audio and log the result")
	ticks      = flag.Int("ticks", 3600, "fixed steps to simulate with -headless")
)

func main() {
	// Restore the terminal before reporting a crash on the main goroutine
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "rally: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *debugFlag {
		cfg.Logging.Enabled = true
		cfg.Logging.Level = "debug"
	}

	log, err := core.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	if *headless {
		return simulate(cfg, log, *ticks)
	}
	return play(cfg, log)
}

// play runs the interactive game until quit or a termination signal
func play(cfg *config.Config, log *zap.Logger) error {
	reg := status.NewRegistry()

	bindings, err := input.DefaultBindings().Merge(cfg.Keys)
	if err != nil {
		return err
	}
	keys := input.NewState(cfg.Display.HoldWindow, cfg.Display.RepeatDelay)

	contentSvc := content.NewService(cfg.Content.Root, asset.FS, reg, log)
	audioSvc := audio.NewEngine(cfg.Audio, reg, log)
	termSvc := terminal.NewService(cfg.Display, vmath.Pt(c.ScreenWidth, c.ScreenHeight), bindings, keys, reg, log)
	termSvc.OnKey(input.KeyMute, func() {
		log.Info("audio mute toggled", zap.Bool("muted", audioSvc.ToggleMute()))
	})

	hub := service.NewHub(log)
	for _, svc := range []service.Service{contentSvc, audioSvc, termSvc} {
		if err := hub.Register(svc); err != nil {
			return err
		}
	}
	if err := hub.InitAll(); err != nil {
		return err
	}
	if err := hub.StartAll(); err != nil {
		return err
	}
	log.Info("services started", zap.Strings("order", hub.Order()))
	defer func() {
		if err := hub.StopAll(); err != nil {
			log.Warn("service shutdown", zap.Error(err))
		}
		log.Info("final status", zap.Strings("status", reg.Snapshot()))
	}()

	scene, closeAim, err := loadGame(contentSvc.FS(), cfg, log)
	if err != nil {
		return err
	}
	defer closeAim()

	ctx := engine.NewContext(engine.Context{
		Input:   keys,
		Render:  termSvc,
		Audio:   audioSvc,
		Content: contentSvc.Cache(),
		Window:  termSvc,
		Events:  termSvc,
		Log:     log,
		Rand:    newRand(cfg.Engine.Seed),
		Status:  reg,
	})
	ctx.Time.TimeScale = cfg.Engine.TimeScale

	eng := engine.New(ctx, engineOptions(cfg, nil))

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = eng.Run(sigCtx, scene)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// simulate steps the game on a mock clock with no platform services
// A fixed seed gives the same match every run
func simulate(cfg *config.Config, log *zap.Logger, n int) error {
	reg := status.NewRegistry()

	contentSvc := content.NewService(cfg.Content.Root, asset.FS, reg, log)
	if err := contentSvc.Init(); err != nil {
		return err
	}
	defer contentSvc.Stop()

	scene, closeAim, err := loadGame(contentSvc.FS(), cfg, log)
	if err != nil {
		return err
	}
	defer closeAim()

	ctx := engine.NewContext(engine.Context{
		Content: contentSvc.Cache(),
		Log:     log,
		Rand:    newRand(cfg.Engine.Seed),
		Status:  reg,
	})
	ctx.Time.TimeScale = cfg.Engine.TimeScale

	eng := engine.New(ctx, engineOptions(cfg, engine.NewMockClock(time.Unix(0, 0))))
	eng.SetScene(scene)
	for range n {
		if err := eng.Tick(); err != nil {
			return err
		}
	}

	if score, ok := scene.Find(c.NameScore).(*pong.Score); ok {
		log.Info("simulation finished",
			zap.Int("ticks", n),
			zap.Int("player", score.Player1()),
			zap.Int("computer", score.Player2()))
	}
	log.Info("final status", zap.Strings("status", reg.Snapshot()))
	return nil
}

// loadGame reads the scene layout and the optional aim script from the
// content tree; a missing layout falls back to the built-in one
func loadGame(fsys fs.FS, cfg *config.Config, log *zap.Logger) (*engine.Scene, func(), error) {
	def, err := pong.LoadSceneDef(fsys, asset.SceneFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Warn("scene file missing, using built-in layout", zap.String("file", asset.SceneFile))
		def = pong.DefaultSceneDef()
	case err != nil:
		return nil, nil, err
	}

	if cfg.AI.Script == "" {
		return pong.NewScene(def, nil), func() {}, nil
	}
	script, err := scripting.Load(fsys, cfg.AI.Script, log)
	if err != nil {
		return nil, nil, err
	}
	log.Info("aim script loaded", zap.String("script", script.Name()))
	return pong.NewScene(def, script), script.Close, nil
}

func engineOptions(cfg *config.Config, clock engine.Clock) engine.Options {
	return engine.Options{
		Title:        c.Title,
		Timestep:     cfg.Engine.Timestep,
		MaxFrameTime: cfg.Engine.MaxFrameTime,
		Clock:        clock,
	}
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
