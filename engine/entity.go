package engine

import (
	"slices"

	"github.com/lixenwraith/rally/vmath"
)

// Entity is anything a scene can hold
// Embedding Base satisfies it
type Entity interface {
	Entity() *Base
}

// Lifecycle hooks, each optional
//
// Initialize runs for every entity of an insertion batch before any Start
// in that batch, so Start may rely on siblings being initialized

type Initializer interface {
	Initialize(ctx *Context)
}

type Starter interface {
	Start(ctx *Context)
}

type Updater interface {
	Update(ctx *Context)
}

type AfterUpdater interface {
	AfterUpdate(ctx *Context)
}

type Drawer interface {
	Draw(ctx *Context)
}

// Collider is notified when an actor's move is blocked by other, or when
// other's move is blocked by it
type Collider interface {
	OnCollide(other Entity)
}

// Collidable entities take part in actor collision checks
type Collidable interface {
	Entity
	Body() *Actor
}

// Base is the state every entity shares: a name, tags, an integer
// position, a size and a pivot mapping the position onto the box
type Base struct {
	X, Y          int
	Width, Height int
	Pivot         vmath.Pivot

	name  string
	tags  []string
	scene *Scene
	owner Entity // outermost value, set when added to a scene
}

func (b *Base) Entity() *Base { return b }

func (b *Base) Name() string { return b.name }

// SetName renames the entity, keeping the scene's name index current
func (b *Base) SetName(name string) {
	if b.name == name {
		return
	}
	old := b.name
	b.name = name
	if b.scene != nil && b.owner != nil {
		b.scene.entities.rename(b.owner, old)
	}
}

func (b *Base) Tags() []string { return b.tags }

func (b *Base) AddTag(tag string) {
	if !b.HasTag(tag) {
		b.tags = append(b.tags, tag)
	}
}

func (b *Base) RemoveTag(tag string) {
	if i := slices.Index(b.tags, tag); i >= 0 {
		b.tags = slices.Delete(b.tags, i, i+1)
	}
}

func (b *Base) HasTag(tag string) bool {
	return slices.Contains(b.tags, tag)
}

// Scene is nil until the entity is live
func (b *Base) Scene() *Scene { return b.scene }

func (b *Base) Position() vmath.Point {
	return vmath.Pt(b.X, b.Y)
}

func (b *Base) SetPosition(p vmath.Point) {
	b.X, b.Y = p.X, p.Y
}

func (b *Base) Size() vmath.Point {
	return vmath.Pt(b.Width, b.Height)
}

// BBox is the entity's box at its current position
func (b *Base) BBox() vmath.Rect {
	return b.BBoxAt(b.X, b.Y)
}

// BBoxAt is the box the entity would have at (x, y)
func (b *Base) BBoxAt(x, y int) vmath.Rect {
	off := b.Pivot.Offset(b.Width, b.Height)
	return vmath.Rect{X: x - off.X, Y: y - off.Y, Width: b.Width, Height: b.Height}
}

// self is the value other entities see in callbacks
func (b *Base) self() Entity {
	if b.owner != nil {
		return b.owner
	}
	return b
}

// Find returns the live entity named name in the same scene as e
func Find(e Entity, name string) Entity {
	s := e.Entity().scene
	if s == nil {
		return nil
	}
	return s.entities.Find(name)
}

// FindAs looks up a sibling by name and asserts its type
func FindAs[T Entity](e Entity, name string) (T, bool) {
	var zero T
	found := Find(e, name)
	if found == nil {
		return zero, false
	}
	t, ok := found.(T)
	return t, ok
}
