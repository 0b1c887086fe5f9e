package content

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/lixenwraith/rally/asset"
	"github.com/lixenwraith/rally/status"
)

func TestSpriteDecodedOnce(t *testing.T) {
	reg := status.NewRegistry()
	c := NewCache(asset.FS, reg, nil)

	a, err := c.Sprite("ball.png")
	if err != nil {
		t.Fatal(err)
	}
	if a.Width != 6 || a.Height != 6 {
		t.Errorf("Expected 6x6, got %dx%d", a.Width, a.Height)
	}
	if a.Fill != RGB(255, 253, 242) {
		t.Errorf("Expected ball fill, got %v", a.Fill)
	}

	b, err := c.Sprite("ball.png")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("Expected second load to return the cached handle")
	}
	if got := reg.Ints.Get("content.loads").Load(); got != 1 {
		t.Errorf("Expected 1 load, got %d", got)
	}
}

func TestMissingAssetIsNotFound(t *testing.T) {
	reg := status.NewRegistry()
	c := NewCache(fstest.MapFS{}, reg, nil)

	if _, err := c.Sprite("nope.png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("sprite: Expected ErrNotFound, got %v", err)
	}
	if _, err := c.Audio("nope.wav"); !errors.Is(err, ErrNotFound) {
		t.Errorf("audio: Expected ErrNotFound, got %v", err)
	}
	if _, err := c.Font("nope.toml", 16, White); !errors.Is(err, ErrNotFound) {
		t.Errorf("font: Expected ErrNotFound, got %v", err)
	}
	if got := reg.Ints.Get("content.misses").Load(); got != 3 {
		t.Errorf("Expected 3 misses, got %d", got)
	}
}

func TestCorruptSprite(t *testing.T) {
	fsys := fstest.MapFS{"bad.png": {Data: []byte("not a png")}}
	c := NewCache(fsys, nil, nil)
	if _, err := c.Sprite("bad.png"); !errors.Is(err, ErrDecode) {
		t.Errorf("Expected ErrDecode, got %v", err)
	}
}

func TestFontKeyedBySizeAndColor(t *testing.T) {
	c := NewCache(asset.FS, nil, nil)

	a, err := c.Font("m5x7.toml", 32, White)
	if err != nil {
		t.Fatal(err)
	}
	if a.GlyphWidth != 12 || a.GlyphHeight != 18 {
		t.Errorf("Expected 12x18 glyphs, got %dx%d", a.GlyphWidth, a.GlyphHeight)
	}
	if w, h := a.Measure("10"); w != 24 || h != 18 {
		t.Errorf("Expected 24x18, got %dx%d", w, h)
	}

	same, _ := c.Font("m5x7.toml", 32, White)
	if same != a {
		t.Error("Expected same key cached")
	}
	red, _ := c.Font("m5x7.toml", 32, RGB(255, 0, 0))
	small, _ := c.Font("m5x7.toml", 16, White)
	if red == a || small == a {
		t.Error("Expected a distinct face per size and color")
	}
	if small.GlyphWidth != 6 {
		t.Errorf("Expected base size glyph width 6, got %d", small.GlyphWidth)
	}
	if _, err := c.Font("m5x7.toml", 0, White); !errors.Is(err, ErrDecode) {
		t.Errorf("zero size: Expected ErrDecode, got %v", err)
	}
}

func TestAudioClip(t *testing.T) {
	c := NewCache(asset.FS, nil, nil)
	clip, err := c.Audio("bounce.wav")
	if err != nil {
		t.Fatal(err)
	}
	if clip.Format().SampleRate != 22050 || clip.Format().NumChannels != 1 {
		t.Errorf("Expected 22050 Hz mono, got %+v", clip.Format())
	}
	if clip.Len() == 0 || clip.Duration() <= 0 {
		t.Error("Expected non-empty clip")
	}
	s := clip.Streamer()
	if s.Len() != clip.Len() || s.Position() != 0 {
		t.Errorf("Expected streamer at 0 of %d, got pos %d of %d", clip.Len(), s.Position(), s.Len())
	}
}

func TestTruncatedAudioFailsDecode(t *testing.T) {
	data, err := fs.ReadFile(asset.FS, "bounce.wav")
	if err != nil {
		t.Fatal(err)
	}
	// the data chunk header still claims the full length
	fsys := fstest.MapFS{"cut.wav": {Data: data[:1000]}}
	c := NewCache(fsys, nil, nil)

	if _, err := c.Audio("cut.wav"); !errors.Is(err, ErrDecode) {
		t.Errorf("Expected ErrDecode, got %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Expected nothing cached, got %d", c.Len())
	}
}

func TestOverlayPrefersFirstLayer(t *testing.T) {
	top := fstest.MapFS{"m5x7.toml": {Data: []byte("name = \"big\"\nbase_size = 8\nglyph_width = 8\nglyph_height = 8\n")}}
	c := NewCache(Overlay(top, asset.FS), nil, nil)

	face, err := c.Font("m5x7.toml", 16, White)
	if err != nil {
		t.Fatal(err)
	}
	if face.Name != "big" || face.GlyphWidth != 16 {
		t.Errorf("Expected overridden descriptor, got %+v", face)
	}
	if _, err := c.Sprite("ball.png"); err != nil {
		t.Errorf("Expected fallback layer, got %v", err)
	}
}

func TestServiceWithoutRoot(t *testing.T) {
	s := NewService("", asset.FS, nil, nil)
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Cache().Audio("score_player.wav"); err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	if s.Cache().Len() != 0 {
		t.Error("Expected Stop to clear the cache")
	}
}

func TestServiceBadRoot(t *testing.T) {
	s := NewService(t.TempDir()+"/missing", asset.FS, nil, nil)
	if err := s.Init(); err == nil {
		t.Error("Expected error for missing root")
	}
}
