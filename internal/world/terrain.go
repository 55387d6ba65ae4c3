package world

import "math"

// ExplosionDuration is how long an explosion lingers, in seconds.
const ExplosionDuration = 0.25

// explosionFrames is the number of animation frames of an explosion.
const explosionFrames = 4

// Soil can be dug through by miners.
type Soil struct {
	Base
}

func newSoil(c *Cave, p Point) Tile {
	t := &Soil{}
	c.adopt(t, KindSoil, p)
	return t
}

// CanBeOccupied admits miners only.
func (s *Soil) CanBeOccupied(by Tile, d Point) bool {
	_, ok := by.(*Miner)
	return ok
}

// Collect is worth nothing but makes noise.
func (s *Soil) Collect(by *Miner) int {
	s.cave.play(SoundSoil)
	return 0
}

// BrickWall blocks movement. Weighted tiles roll off it.
type BrickWall struct {
	Base
}

func newBrickWall(c *Cave, p Point) Tile {
	t := &BrickWall{}
	c.adopt(t, KindBrickWall, p)
	return t
}

func (w *BrickWall) rounded() {}

// MetalWall blocks movement and survives explosions.
type MetalWall struct {
	Base
}

func newMetalWall(c *Cave, p Point) Tile {
	t := &MetalWall{}
	c.adopt(t, KindMetalWall, p)
	return t
}

// CanBreak returns false.
func (w *MetalWall) CanBreak() bool { return false }

// Unknown stands in for map symbols without a tile kind.
type Unknown struct {
	Base
}

func newUnknown(c *Cave, p Point) Tile {
	t := &Unknown{}
	c.adopt(t, KindUnknown, p)
	return t
}

// Explosion is a short-lived effect that behaves as an empty cell.
type Explosion struct {
	Base
}

func newExplosion(c *Cave, p Point) Tile {
	t := &Explosion{}
	c.adopt(t, KindExplosion, p)
	t.cooldown = ExplosionDuration
	return t
}

// CanBeOccupied admits anything.
func (e *Explosion) CanBeOccupied(by Tile, d Point) bool { return true }

// Update advances the animation along with the cooldown.
func (e *Explosion) Update(dt float64) {
	e.Base.Update(dt)
	if e.cooldown > 0 {
		e.skin = int(math.Floor(explosionFrames * (1 - e.cooldown/ExplosionDuration)))
	}
}

// Tick clears the cell.
func (e *Explosion) Tick() {
	e.cave.Replace(e, nil)
}

// ExpandingWall grows sideways into every cell that admits it.
type ExpandingWall struct {
	Base
}

func newExpandingWall(c *Cave, p Point) Tile {
	t := &ExpandingWall{}
	c.adopt(t, KindExpandingWall, p)
	t.speed /= 2
	t.TryWait()
	return t
}

// Tick spawns a new wall segment on each free side.
func (w *ExpandingWall) Tick() {
	w.skin = 0
	for _, d := range [...]Point{Left, Right} {
		if !w.CanMove(d) {
			continue
		}
		grown := newExpandingWall(w.cave, w.pos).(*ExpandingWall)
		grown.skin = 1
		if d.X < 0 {
			grown.skin = 2
		}
		w.cave.play(SoundBoulderFall)
		grown.TryMove(d)
	}
}

// SmallDiamond is a light gem that does not fall.
// It only counts toward the goal on cells where x+y is even.
type SmallDiamond struct {
	Base
}

func newSmallDiamond(c *Cave, p Point) Tile {
	t := &SmallDiamond{}
	c.adopt(t, KindSmallDiamond, p)
	return t
}

// CanBeOccupied admits miners only.
func (s *SmallDiamond) CanBeOccupied(by Tile, d Point) bool {
	_, ok := by.(*Miner)
	return ok
}

// Collect scores one point.
func (s *SmallDiamond) Collect(by *Miner) int {
	s.cave.play(SoundDiamond)
	if (s.pos.X+s.pos.Y)%2 == 0 {
		s.cave.collected++
	}
	return 1
}
