package content

import (
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"io/fs"
	"sync"
	"sync/atomic"

	"github.com/BurntSushi/toml"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/lixenwraith/rally/status"
)

// fontDescriptor is the TOML sidecar describing a bitmap font's metrics
type fontDescriptor struct {
	Name        string `toml:"name"`
	BaseSize    int    `toml:"base_size"`
	GlyphWidth  int    `toml:"glyph_width"`
	GlyphHeight int    `toml:"glyph_height"`
}

// Cache loads each asset once and hands out the same handle afterwards
// Fonts are keyed by path, size and color together
type Cache struct {
	fsys fs.FS
	log  *zap.Logger

	mu      sync.Mutex
	sprites map[string]*Visual
	fonts   map[string]*Face
	clips   map[string]*Clip
	descs   map[string]fontDescriptor

	loads  *atomic.Int64
	misses *atomic.Int64
}

func NewCache(fsys fs.FS, reg *status.Registry, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Cache{
		fsys:    fsys,
		log:     log,
		sprites: make(map[string]*Visual),
		fonts:   make(map[string]*Face),
		clips:   make(map[string]*Clip),
		descs:   make(map[string]fontDescriptor),
		loads:   reg.Ints.Get("content.loads"),
		misses:  reg.Ints.Get("content.misses"),
	}
}

// Sprite returns the decoded image at path
func (c *Cache) Sprite(path string) (*Visual, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.sprites[path]; ok {
		return v, nil
	}

	f, err := c.open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: sprite %s: %v", ErrDecode, path, err)
	}

	v := &Visual{
		Path:   path,
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		Fill:   averageColor(img),
	}
	c.sprites[path] = v
	c.loaded("sprite", path)
	return v, nil
}

// Font returns a face for the descriptor at path rendered at size and color
func (c *Cache) Font(path string, size int, color Color) (*Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: font %s: size %d", ErrDecode, path, size)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := fmt.Sprintf("%s.%d.%s", path, size, color)
	if face, ok := c.fonts[key]; ok {
		return face, nil
	}

	desc, ok := c.descs[path]
	if !ok {
		f, err := c.open(path)
		if err != nil {
			return nil, err
		}
		_, err = toml.NewDecoder(f).Decode(&desc)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: font %s: %v", ErrDecode, path, err)
		}
		if desc.BaseSize <= 0 || desc.GlyphWidth <= 0 || desc.GlyphHeight <= 0 {
			return nil, fmt.Errorf("%w: font %s: non-positive metrics", ErrDecode, path)
		}
		c.descs[path] = desc
	}

	face := &Face{
		Path:        path,
		Name:        desc.Name,
		Size:        size,
		Color:       color,
		GlyphWidth:  max(1, desc.GlyphWidth*size/desc.BaseSize),
		GlyphHeight: max(1, desc.GlyphHeight*size/desc.BaseSize),
	}
	c.fonts[key] = face
	c.loaded("font", key)
	return face, nil
}

// Audio returns the decoded WAV clip at path
func (c *Cache) Audio(path string) (*Clip, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if clip, ok := c.clips[path]; ok {
		return clip, nil
	}

	f, err := c.open(path)
	if err != nil {
		return nil, err
	}
	stream, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: audio %s: %v", ErrDecode, path, err)
	}
	src := &frameGuard{s: stream}
	buf := beep.NewBuffer(format)
	buf.Append(src)
	if err := multierr.Append(src.Err(), stream.Close()); err != nil {
		return nil, fmt.Errorf("%w: audio %s: %v", ErrDecode, path, err)
	}

	clip := &Clip{Path: path, buffer: buf}
	c.clips[path] = clip
	c.loaded("audio", path)
	return clip, nil
}

// frameGuard ends a stream that stops yielding frames before reporting its
// end, which is how the wav decoder behaves on a truncated data chunk
type frameGuard struct {
	s   beep.Streamer
	err error
}

func (g *frameGuard) Stream(samples [][2]float64) (int, bool) {
	n, ok := g.s.Stream(samples)
	if ok && n == 0 && len(samples) > 0 {
		g.err = io.ErrUnexpectedEOF
		return 0, false
	}
	return n, ok
}

func (g *frameGuard) Err() error {
	if g.err != nil {
		return g.err
	}
	return g.s.Err()
}

// Len reports how many distinct assets are resident
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sprites) + len(c.fonts) + len(c.clips)
}

// Clear drops every cached handle
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.sprites)
	clear(c.fonts)
	clear(c.clips)
	clear(c.descs)
}

func (c *Cache) open(path string) (fs.File, error) {
	f, err := c.fsys.Open(path)
	if err != nil {
		c.misses.Add(1)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

func (c *Cache) loaded(kind, key string) {
	c.loads.Add(1)
	c.log.Debug("content loaded", zap.String("kind", kind), zap.String("key", key))
}

// averageColor blends the non-transparent pixels of img
func averageColor(img image.Image) Color {
	var r, g, b, n uint64
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			pr, pg, pb, pa := img.At(x, y).RGBA()
			if pa == 0 {
				continue
			}
			// un-premultiply back to straight 8-bit
			r += uint64(pr * 0xff / pa)
			g += uint64(pg * 0xff / pa)
			b += uint64(pb * 0xff / pa)
			n++
		}
	}
	if n == 0 {
		return Color{}
	}
	return RGB(uint8(r/n), uint8(g/n), uint8(b/n))
}
