package input

import (
	"sync"
	"time"
)

// State tracks which logical keys count as held
//
// Terminals report presses and auto-repeats but never releases, so a key
// stays down for the hold window after its most recent press. The first
// press of a hold lasts at least the repeat delay, the gap before the
// terminal starts auto-repeating. Presses arrive from the event goroutine;
// the game reads a snapshot taken once per scheduler iteration so every
// entity in a tick sees the same keys
type State struct {
	hold    time.Duration
	initial time.Duration

	mu        sync.Mutex
	lastPress [keyCount]time.Time
	pressed   [keyCount]bool
	repeating [keyCount]bool

	down [keyCount]bool // snapshot, read on the game goroutine only
}

// NewState holds repeats for hold and a fresh press for the longer of
// hold and repeatDelay
func NewState(hold, repeatDelay time.Duration) *State {
	return &State{hold: hold, initial: max(hold, repeatDelay)}
}

// Press records a press or repeat of k at time at
// A press landing while k is still held counts as an auto-repeat
func (s *State) Press(k Key, at time.Time) {
	if k == KeyNone || k >= keyCount {
		return
	}
	s.mu.Lock()
	s.repeating[k] = s.heldAt(k, at)
	s.lastPress[k] = at
	s.pressed[k] = true
	s.mu.Unlock()
}

// heldAt reports whether k is within its window at now, caller holds mu
func (s *State) heldAt(k Key, now time.Time) bool {
	if !s.pressed[k] {
		return false
	}
	window := s.initial
	if s.repeating[k] {
		window = s.hold
	}
	return now.Sub(s.lastPress[k]) < window
}

// Snapshot freezes the held set as of now
func (s *State) Snapshot(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.down {
		held := s.heldAt(Key(k), now)
		if s.pressed[k] && !held {
			s.pressed[k] = false
			s.repeating[k] = false
		}
		s.down[k] = held
	}
}

// IsKeyDown reports k from the last snapshot
func (s *State) IsKeyDown(k Key) bool {
	if k >= keyCount {
		return false
	}
	return s.down[k]
}

// Reset forgets every press, used when the terminal loses focus
// The snapshot keeps its keys until the next Snapshot
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pressed = [keyCount]bool{}
	s.repeating = [keyCount]bool{}
}
