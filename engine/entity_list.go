package engine

import (
	"iter"
	"slices"
)

// EntityList is a scene's registry
//
// Add and Remove only queue; ApplyPending commits the queue at a point
// where nothing is iterating the live list. Live order is insertion order
// and drives update and draw order
type EntityList struct {
	scene *Scene

	live     []Entity
	current  map[Entity]struct{}
	toAdd    []Entity
	adding   map[Entity]struct{}
	toRemove []Entity
	removing map[Entity]struct{}
	names    map[string]Entity
}

func newEntityList(s *Scene) *EntityList {
	return &EntityList{
		scene:    s,
		current:  make(map[Entity]struct{}),
		adding:   make(map[Entity]struct{}),
		removing: make(map[Entity]struct{}),
		names:    make(map[string]Entity),
	}
}

// Add queues e; a no-op when e is live or already queued
func (l *EntityList) Add(e Entity) {
	if _, ok := l.current[e]; ok {
		return
	}
	if _, ok := l.adding[e]; ok {
		return
	}
	l.adding[e] = struct{}{}
	l.toAdd = append(l.toAdd, e)
}

// Remove queues e; a no-op unless e is live and not already queued
func (l *EntityList) Remove(e Entity) {
	if _, ok := l.current[e]; !ok {
		return
	}
	if _, ok := l.removing[e]; ok {
		return
	}
	l.removing[e] = struct{}{}
	l.toRemove = append(l.toRemove, e)
}

// ApplyPending commits queued changes
//
// Added entities join the live list and get their scene, then every one of
// them is initialized before any is started. Removed entities leave the
// list and lose their scene. Adds requested from inside the hooks are
// queued for the next call
func (l *EntityList) ApplyPending(ctx *Context) {
	if len(l.toAdd) == 0 && len(l.toRemove) == 0 {
		return
	}

	added, removed := l.toAdd, l.toRemove
	l.toAdd, l.toRemove = nil, nil
	clear(l.adding)
	clear(l.removing)

	for _, e := range added {
		b := e.Entity()
		b.scene = l.scene
		b.owner = e
		l.live = append(l.live, e)
		l.current[e] = struct{}{}
		if n := b.name; n != "" {
			if _, taken := l.names[n]; !taken {
				l.names[n] = e
			}
		}
	}

	for _, e := range removed {
		b := e.Entity()
		if i := slices.Index(l.live, e); i >= 0 {
			l.live = slices.Delete(l.live, i, i+1)
		}
		delete(l.current, e)
		l.unindex(e, b.name)
		b.scene = nil
	}

	for _, e := range added {
		if h, ok := e.(Initializer); ok && e.Entity().scene != nil {
			h.Initialize(ctx)
		}
	}
	for _, e := range added {
		if h, ok := e.(Starter); ok && e.Entity().scene != nil {
			h.Start(ctx)
		}
	}
}

func (l *EntityList) Update(ctx *Context) {
	for _, e := range l.live {
		if h, ok := e.(Updater); ok {
			h.Update(ctx)
		}
	}
}

func (l *EntityList) AfterUpdate(ctx *Context) {
	for _, e := range l.live {
		if h, ok := e.(AfterUpdater); ok {
			h.AfterUpdate(ctx)
		}
	}
}

func (l *EntityList) Draw(ctx *Context) {
	for _, e := range l.live {
		if h, ok := e.(Drawer); ok {
			h.Draw(ctx)
		}
	}
}

// Find returns the first live entity with the given name, nil if none
func (l *EntityList) Find(name string) Entity {
	return l.names[name]
}

// Contains reports whether e is live
func (l *EntityList) Contains(e Entity) bool {
	_, ok := l.current[e]
	return ok
}

func (l *EntityList) Len() int { return len(l.live) }

func (l *EntityList) Pending() int { return len(l.toAdd) + len(l.toRemove) }

// All yields live entities in order
func (l *EntityList) All() iter.Seq[Entity] {
	return slices.Values(l.live)
}

// ByType lazily yields live entities matching pred
func (l *EntityList) ByType(pred func(Entity) bool) iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for _, e := range l.live {
			if pred(e) && !yield(e) {
				return
			}
		}
	}
}

// OfType yields live entities that are a T
func OfType[T any](l *EntityList) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, e := range l.live {
			if t, ok := e.(T); ok && !yield(t) {
				return
			}
		}
	}
}

func (l *EntityList) rename(e Entity, old string) {
	l.unindex(e, old)
	if n := e.Entity().name; n != "" {
		if _, taken := l.names[n]; !taken {
			l.names[n] = e
		}
	}
}

// unindex drops e from the name index, promoting the next live holder
func (l *EntityList) unindex(e Entity, name string) {
	if name == "" || l.names[name] != e {
		return
	}
	delete(l.names, name)
	for _, other := range l.live {
		if other != e && other.Entity().name == name {
			l.names[name] = other
			return
		}
	}
}
