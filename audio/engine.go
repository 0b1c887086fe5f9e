// Package audio plays game sound clips through the system speaker
package audio

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/lixenwraith/rally/config"
	"github.com/lixenwraith/rally/content"
	"github.com/lixenwraith/rally/status"
)

const (
	// bufferLatency trades output latency against underruns
	bufferLatency = 50 * time.Millisecond

	// maxVoices caps concurrently mixed clips; extra plays are dropped
	maxVoices = 8

	resampleQuality = 4
)

// Engine mixes clips into a single speaker stream
//
// When the device cannot be opened, or audio is disabled in config, the
// engine runs silent: Play becomes a counted no-op and the game continues
type Engine struct {
	cfg  config.AudioConfig
	rate beep.SampleRate
	log  *zap.Logger

	mu    sync.Mutex
	mixer *beep.Mixer

	running atomic.Bool
	silent  atomic.Bool
	muted   atomic.Bool

	// sink receives each prepared voice; mixer add by default
	sink func(s beep.Streamer) bool

	statPlayed  *atomic.Int64
	statDropped *atomic.Int64
	statSilent  *status.Label
}

func NewEngine(cfg config.AudioConfig, reg *status.Registry, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	e := &Engine{
		cfg:         cfg,
		rate:        beep.SampleRate(cfg.SampleRate),
		log:         log.Named("audio"),
		mixer:       &beep.Mixer{},
		statPlayed:  reg.Ints.Get("audio.played"),
		statDropped: reg.Ints.Get("audio.dropped"),
		statSilent:  reg.Labels.Get("audio.mode"),
	}
	e.sink = e.mix
	return e
}

func (e *Engine) Name() string           { return "audio" }
func (e *Engine) Dependencies() []string { return nil }

// Init opens the speaker, falling back to silent mode on failure
func (e *Engine) Init() error {
	if !e.cfg.Enabled {
		e.goSilent("disabled")
		return nil
	}
	if err := speaker.Init(e.rate, e.rate.N(bufferLatency)); err != nil {
		e.log.Warn("audio device unavailable, running silent", zap.Error(err))
		e.goSilent("no device")
		return nil
	}
	e.statSilent.Store("speaker")
	return nil
}

func (e *Engine) Start() error {
	if !e.silent.Load() {
		speaker.Play(e.mixer)
	}
	e.running.Store(true)
	return nil
}

func (e *Engine) Stop() error {
	if !e.running.Swap(false) {
		return nil
	}
	if !e.silent.Load() {
		speaker.Lock()
		e.mixer.Clear()
		speaker.Unlock()
		speaker.Clear()
	}
	return nil
}

// Play starts clip at master volume, resampled to the output rate
func (e *Engine) Play(clip *content.Clip) {
	if clip == nil || !e.running.Load() || e.silent.Load() || e.muted.Load() {
		e.statDropped.Add(1)
		return
	}

	var s beep.Streamer = clip.Streamer()
	if src := clip.Format().SampleRate; src != e.rate {
		s = beep.Resample(resampleQuality, src, e.rate, s)
	}
	s = withVolume(s, e.cfg.MasterVolume)

	if e.sink(s) {
		e.statPlayed.Add(1)
	} else {
		e.statDropped.Add(1)
	}
}

func (e *Engine) SetMuted(muted bool) { e.muted.Store(muted) }

func (e *Engine) IsMuted() bool { return e.muted.Load() }

// ToggleMute flips the mute flag and returns the new state
func (e *Engine) ToggleMute() bool {
	for {
		muted := e.muted.Load()
		if e.muted.CompareAndSwap(muted, !muted) {
			return !muted
		}
	}
}

// IsSilent reports that no output device is in use
func (e *Engine) IsSilent() bool { return e.silent.Load() }

func (e *Engine) mix(s beep.Streamer) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	speaker.Lock()
	defer speaker.Unlock()
	if e.mixer.Len() >= maxVoices {
		return false
	}
	e.mixer.Add(s)
	return true
}

func (e *Engine) goSilent(reason string) {
	e.silent.Store(true)
	e.statSilent.Store("silent: " + reason)
}

// withVolume scales s by a linear gain; zero or less is silence
func withVolume(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}
