// Package pong is the game: a ball, two paddles, a score and the manager
// that serves and resets rallies
package pong

import (
	"go.uber.org/zap"

	"github.com/lixenwraith/rally/engine"
)

// lookup resolves a sibling entity by name
// A missing or mistyped sibling is logged and left nil; the entity faults
// when it first uses the reference
func lookup[T engine.Entity](self engine.Entity, name string, ctx *engine.Context) T {
	found, ok := engine.FindAs[T](self, name)
	if !ok {
		ctx.Log.Warn("sibling entity not found",
			zap.String("entity", self.Entity().Name()),
			zap.String("want", name))
	}
	return found
}
