// Package terminal renders the game field into a tcell screen and turns
// terminal key events into game input
package terminal

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/rally/config"
	"github.com/lixenwraith/rally/core"
	"github.com/lixenwraith/rally/input"
	"github.com/lixenwraith/rally/status"
	"github.com/lixenwraith/rally/vmath"
)

const (
	eventBuffer = 256
	stopTimeout = 200 * time.Millisecond
)

// Service owns the tcell screen
//
// It is the game's Renderer, Window and EventSource. Events are read on a
// background goroutine and handed to the game loop through a channel
type Service struct {
	cfg      config.DisplayConfig
	field    vmath.Point // logical field size in pixels
	bindings input.Bindings
	keys     *input.State
	actions  map[input.Key]func()
	log      *zap.Logger

	screen  tcell.Screen
	eventCh chan tcell.Event
	stopCh  chan struct{}
	doneCh  chan struct{}

	mu       sync.Mutex
	running  bool
	stopOnce sync.Once

	cols, rows int
	title      string

	statEvents *atomic.Int64
	statCols   *atomic.Int64
	statRows   *atomic.Int64
}

func NewService(cfg config.DisplayConfig, field vmath.Point, bindings input.Bindings,
	keys *input.State, reg *status.Registry, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Service{
		cfg:        cfg,
		field:      field,
		bindings:   bindings,
		keys:       keys,
		actions:    make(map[input.Key]func()),
		log:        log.Named("terminal"),
		eventCh:    make(chan tcell.Event, eventBuffer),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
		statEvents: reg.Ints.Get("terminal.events"),
		statCols:   reg.Ints.Get("terminal.cols"),
		statRows:   reg.Ints.Get("terminal.rows"),
	}
}

// UseScreen supplies the screen Init will set up instead of the real tty
func (s *Service) UseScreen(screen tcell.Screen) {
	s.screen = screen
}

// OnKey runs fn on the game goroutine for every press of k instead of
// marking k held. Register before Start
func (s *Service) OnKey(k input.Key, fn func()) {
	s.actions[k] = fn
}

func (s *Service) Name() string           { return "terminal" }
func (s *Service) Dependencies() []string { return nil }

func (s *Service) Init() error {
	if s.screen == nil {
		applyColorMode(s.cfg.Color)
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("terminal: %w", err)
		}
		s.screen = screen
	}
	if err := s.screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	core.SetCrashFinalizer(s.screen.Fini)

	s.screen.HideCursor()
	s.screen.EnableFocus()
	s.screen.Clear()
	s.resize()
	s.log.Info("terminal ready", zap.Int("cols", s.cols), zap.Int("rows", s.rows),
		zap.Int("colors", s.screen.Colors()))
	return nil
}

// Start launches the event pump
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	s.running = true
	core.Go(s.pollLoop)
	return nil
}

func (s *Service) Stop() error {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		if s.screen != nil {
			s.screen.Fini()
		}
		s.mu.Lock()
		running := s.running
		s.mu.Unlock()
		if running {
			select {
			case <-s.doneCh:
			case <-time.After(stopTimeout):
				s.log.Warn("event pump did not exit")
			}
		}
	})
	return nil
}

// pollLoop forwards screen events until the screen is finalized
func (s *Service) pollLoop() {
	defer close(s.doneCh)
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case s.eventCh <- ev:
		case <-s.stopCh:
			return
		}
	}
}

// PollEvents drains queued events without blocking, then snapshots held
// keys. Reports true when the player asked to quit
func (s *Service) PollEvents() bool {
	quit := false
	for drained := false; !drained; {
		select {
		case ev := <-s.eventCh:
			if s.handle(ev) {
				quit = true
			}
		default:
			drained = true
		}
	}
	s.keys.Snapshot(time.Now())
	return quit
}

func (s *Service) handle(ev tcell.Event) bool {
	s.statEvents.Add(1)
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			return true
		}
		k := s.bindings.Lookup(keyName(ev))
		if ev.Key() == tcell.KeyRune {
			k = s.bindings.LookupRune(ev.Rune())
		}
		if fn, ok := s.actions[k]; ok {
			fn()
			return false
		}
		switch k {
		case input.KeyNone:
		case input.KeyQuit:
			return true
		default:
			s.keys.Press(k, ev.When())
		}
	case *tcell.EventFocus:
		// the key-up of a held key is lost with the focus
		if !ev.Focused {
			s.keys.Reset()
		}
	case *tcell.EventResize:
		s.screen.Sync()
		s.resize()
	}
	return false
}

func keyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyEscape:
		return "escape"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyTab:
		return "tab"
	}
	return ""
}

func (s *Service) resize() {
	s.cols, s.rows = s.screen.Size()
	s.statCols.Store(int64(s.cols))
	s.statRows.Store(int64(s.rows))
}

// SetTitle sets the terminal window title
func (s *Service) SetTitle(title string) {
	if title == s.title {
		return
	}
	s.title = title
	s.screen.SetTitle(title)
}

// applyColorMode steers tcell's color detection through its environment
func applyColorMode(mode string) {
	switch mode {
	case "256":
		os.Setenv("TCELL_TRUECOLOR", "disable")
	case "truecolor":
		os.Setenv("COLORTERM", "truecolor")
	}
}
