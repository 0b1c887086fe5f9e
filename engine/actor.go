package engine

import (
	"github.com/lixenwraith/rally/vmath"
)

// Actor is an entity that moves in whole pixels and collides with other
// actors in its scene. Fractional movement carries over between calls
type Actor struct {
	Base

	xRemainder float64
	yRemainder float64
}

func (a *Actor) Body() *Actor { return a }

// Remainder returns the fractional movement not yet applied
func (a *Actor) Remainder() vmath.Vector2 {
	return vmath.Vec(a.xRemainder, a.yRemainder)
}

// MoveX moves horizontally by amount, stopping before the first pixel that
// would overlap another collidable. On a block both parties' OnCollide run,
// then onCollide if given. The leftover distance is discarded
func (a *Actor) MoveX(amount float64, onCollide func(other Entity)) {
	a.move(&a.xRemainder, amount, 1, 0, onCollide)
}

// MoveY is MoveX along the vertical axis
func (a *Actor) MoveY(amount float64, onCollide func(other Entity)) {
	a.move(&a.yRemainder, amount, 0, 1, onCollide)
}

func (a *Actor) move(rem *float64, amount float64, dx, dy int, onCollide func(Entity)) {
	*rem += amount
	steps := vmath.RoundToInt(*rem)
	if steps == 0 {
		return
	}
	*rem -= float64(steps)

	dir := vmath.Sign(float64(steps))
	for steps != 0 {
		nx, ny := a.X+dx*dir, a.Y+dy*dir
		if hits := a.CheckCollisions(nx, ny); len(hits) > 0 {
			self := a.self()
			for _, other := range hits {
				if c, ok := self.(Collider); ok {
					c.OnCollide(other)
				}
				if c, ok := other.(Collider); ok {
					c.OnCollide(self)
				}
				if onCollide != nil {
					onCollide(other)
				}
			}
			return
		}
		a.X, a.Y = nx, ny
		steps -= dir
	}
}

// CheckCollisions returns the live collidables other than a whose boxes
// overlap a's box placed at (x, y)
func (a *Actor) CheckCollisions(x, y int) []Entity {
	if a.scene == nil {
		return nil
	}
	box := a.BBoxAt(x, y)
	self := a.self()

	var hits []Entity
	for e := range a.scene.Collidables() {
		if e == self {
			continue
		}
		if box.Intersects(e.Entity().BBox()) {
			hits = append(hits, e)
		}
	}
	return hits
}
