package engine

import (
	"iter"
)

// SceneLoader populates a scene when it becomes active
type SceneLoader interface {
	LoadEntities(s *Scene, ctx *Context) error
}

// SceneLoaderFunc adapts a function to SceneLoader
type SceneLoaderFunc func(s *Scene, ctx *Context) error

func (f SceneLoaderFunc) LoadEntities(s *Scene, ctx *Context) error { return f(s, ctx) }

// Scene owns one entity registry and is driven by the engine while active
type Scene struct {
	name     string
	loader   SceneLoader
	entities *EntityList
	engine   *Engine
}

// NewScene creates an inactive scene; loader may be nil
func NewScene(name string, loader SceneLoader) *Scene {
	s := &Scene{name: name, loader: loader}
	s.entities = newEntityList(s)
	return s
}

func (s *Scene) Name() string { return s.name }

func (s *Scene) Entities() *EntityList { return s.entities }

// Engine is nil while the scene is inactive
func (s *Scene) Engine() *Engine { return s.engine }

// Add queues e for the next ApplyPending
func (s *Scene) Add(e Entity) { s.entities.Add(e) }

func (s *Scene) Remove(e Entity) { s.entities.Remove(e) }

func (s *Scene) Find(name string) Entity { return s.entities.Find(name) }

// Collidables yields live entities that take part in collision
func (s *Scene) Collidables() iter.Seq[Entity] {
	return s.entities.ByType(isCollidable)
}

func isCollidable(e Entity) bool {
	_, ok := e.(Collidable)
	return ok
}

func (s *Scene) start(e *Engine) { s.engine = e }

func (s *Scene) end() { s.engine = nil }

func (s *Scene) load(ctx *Context) error {
	if s.loader == nil {
		return nil
	}
	return s.loader.LoadEntities(s, ctx)
}

// Update commits pending changes, then runs Update and AfterUpdate passes
func (s *Scene) Update(ctx *Context) {
	s.entities.ApplyPending(ctx)
	s.entities.Update(ctx)
	s.entities.AfterUpdate(ctx)
}

func (s *Scene) Draw(ctx *Context) {
	s.entities.Draw(ctx)
}
