package audio

import (
	"testing"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/rally/asset"
	"github.com/lixenwraith/rally/config"
	"github.com/lixenwraith/rally/content"
	"github.com/lixenwraith/rally/status"
)

func loadClip(t *testing.T, path string) *content.Clip {
	t.Helper()
	clip, err := content.NewCache(asset.FS, nil, nil).Audio(path)
	if err != nil {
		t.Fatal(err)
	}
	return clip
}

// captureEngine bypasses the speaker and records prepared voices
func captureEngine(cfg config.AudioConfig, reg *status.Registry) (*Engine, *[]beep.Streamer) {
	e := NewEngine(cfg, reg, nil)
	var got []beep.Streamer
	e.sink = func(s beep.Streamer) bool {
		got = append(got, s)
		return true
	}
	e.running.Store(true)
	return e, &got
}

func TestDisabledRunsSilent(t *testing.T) {
	reg := status.NewRegistry()
	cfg := config.Default().Audio
	cfg.Enabled = false
	e := NewEngine(cfg, reg, nil)

	if err := e.Init(); err != nil {
		t.Fatal(err)
	}
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	if !e.IsSilent() {
		t.Fatal("Expected silent mode")
	}

	e.Play(loadClip(t, "bounce.wav"))
	if got := reg.Ints.Get("audio.dropped").Load(); got != 1 {
		t.Errorf("Expected 1 dropped, got %d", got)
	}
	if err := e.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := e.Stop(); err != nil {
		t.Errorf("Expected second Stop to be a no-op, got %v", err)
	}
}

func TestPlayResamplesAndScales(t *testing.T) {
	reg := status.NewRegistry()
	cfg := config.Default().Audio
	e, got := captureEngine(cfg, reg)

	clip := loadClip(t, "bounce.wav")
	e.Play(clip)

	if len(*got) != 1 {
		t.Fatalf("Expected 1 voice, got %d", len(*got))
	}
	vol, ok := (*got)[0].(*effects.Volume)
	if !ok {
		t.Fatalf("Expected volume wrapper, got %T", (*got)[0])
	}
	if _, ok := vol.Streamer.(*beep.Resampler); !ok {
		t.Errorf("Expected 22050 Hz clip resampled to %d, got %T", cfg.SampleRate, vol.Streamer)
	}
	if vol.Volume != -1 {
		t.Errorf("Expected log2 volume -1 for gain 0.5, got %v", vol.Volume)
	}
	if reg.Ints.Get("audio.played").Load() != 1 {
		t.Error("Expected played counter advanced")
	}
}

func TestPlayMatchingRateSkipsResample(t *testing.T) {
	cfg := config.Default().Audio
	cfg.SampleRate = 22050
	cfg.MasterVolume = 0
	e, got := captureEngine(cfg, nil)

	e.Play(loadClip(t, "score_player.wav"))
	vol := (*got)[0].(*effects.Volume)
	if _, ok := vol.Streamer.(*beep.Resampler); ok {
		t.Error("Expected no resampler")
	}
	if !vol.Silent {
		t.Error("Expected zero gain silent")
	}
}

func TestMutedAndStoppedDrop(t *testing.T) {
	reg := status.NewRegistry()
	e, got := captureEngine(config.Default().Audio, reg)
	clip := loadClip(t, "bounce.wav")

	e.SetMuted(true)
	e.Play(clip)
	e.SetMuted(false)
	e.running.Store(false)
	e.Play(clip)
	e.Play(nil)

	if len(*got) != 0 {
		t.Errorf("Expected 0 voices, got %d", len(*got))
	}
	if got := reg.Ints.Get("audio.dropped").Load(); got != 3 {
		t.Errorf("Expected 3 dropped, got %d", got)
	}
}

func TestToggleMute(t *testing.T) {
	reg := status.NewRegistry()
	e, got := captureEngine(config.Default().Audio, reg)
	clip := loadClip(t, "bounce.wav")

	if !e.ToggleMute() || !e.IsMuted() {
		t.Fatal("Expected first toggle to mute")
	}
	e.Play(clip)
	if len(*got) != 0 {
		t.Errorf("Expected muted play dropped, got %d voices", len(*got))
	}
	if e.ToggleMute() || e.IsMuted() {
		t.Fatal("Expected second toggle to unmute")
	}
	e.Play(clip)
	if len(*got) != 1 {
		t.Errorf("Expected 1 voice after unmute, got %d", len(*got))
	}
}
