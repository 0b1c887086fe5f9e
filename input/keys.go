// Package input turns terminal key events into the held-key state the game
// polls once per tick
package input

import (
	"errors"
	"fmt"
	"strings"
)

// Key is a logical game key; several physical keys may map to one
type Key uint8

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyQuit
	KeyMute
	keyCount
)

var keyNames = [keyCount]string{
	KeyNone: "none",
	KeyUp:   "up",
	KeyDown: "down",
	KeyQuit: "quit",
	KeyMute: "mute",
}

func (k Key) String() string {
	if k < keyCount {
		return keyNames[k]
	}
	return fmt.Sprintf("key(%d)", uint8(k))
}

// ParseKey resolves a logical key by name
func ParseKey(name string) (Key, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range keyNames {
		if n == name {
			return Key(k), true
		}
	}
	return KeyNone, false
}

var ErrBinding = errors.New("invalid key binding")

// Bindings maps physical key names to logical keys
// Physical names are single characters or the named keys the terminal
// reports: "up", "down", "escape", "enter", "space"
type Bindings map[string]Key

// Named physical keys accepted in bindings
var physicalNames = map[string]bool{
	"up": true, "down": true, "left": true, "right": true,
	"escape": true, "enter": true, "space": true, "tab": true,
}

// DefaultBindings covers arrows, W/S, Esc/Q and M for mute
func DefaultBindings() Bindings {
	return Bindings{
		"up":     KeyUp,
		"down":   KeyDown,
		"w":      KeyUp,
		"s":      KeyDown,
		"escape": KeyQuit,
		"q":      KeyQuit,
		"m":      KeyMute,
	}
}

// Merge returns a copy of b with overrides applied
// A value of "none" removes the physical key
func (b Bindings) Merge(overrides map[string]string) (Bindings, error) {
	out := make(Bindings, len(b)+len(overrides))
	for k, v := range b {
		out[k] = v
	}
	for phys, logical := range overrides {
		name, err := normalizePhysical(phys)
		if err != nil {
			return nil, err
		}
		key, ok := ParseKey(logical)
		if !ok {
			return nil, fmt.Errorf("%w: %q -> unknown key %q", ErrBinding, phys, logical)
		}
		if key == KeyNone {
			delete(out, name)
			continue
		}
		out[name] = key
	}
	return out, nil
}

// Lookup resolves a physical key, KeyNone when unbound
func (b Bindings) Lookup(physical string) Key {
	return b[strings.ToLower(physical)]
}

// LookupRune resolves a printable key
func (b Bindings) LookupRune(r rune) Key {
	if r == ' ' {
		return b["space"]
	}
	return b.Lookup(string(r))
}

func normalizePhysical(s string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if physicalNames[name] || len([]rune(name)) == 1 {
		return name, nil
	}
	return "", fmt.Errorf("%w: unknown physical key %q", ErrBinding, s)
}
