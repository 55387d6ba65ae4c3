package world

const magicFrames = 3

// MagicWall lets falling tiles through, transmuting the mutable ones on the way.
type MagicWall struct {
	BrickWall
}

func newMagicWall(c *Cave, p Point) Tile {
	t := &MagicWall{}
	c.adopt(t, KindMagicWall, p)
	return t
}

// Tick flickers the wall.
func (w *MagicWall) Tick() {
	rng := w.cave.rng
	if rng.Intn(7) == 0 {
		w.skin = rng.Intn(magicFrames)
	}
}

// CanBeOccupied admits moving weighted tiles.
func (w *MagicWall) CanBeOccupied(by Tile, d Point) bool {
	wt, ok := by.(Weighted)
	return ok && wt.Moving()
}

// OnDestroy captures the tile that entered the wall, mutates it when it came
// in vertically, lets it fall on through and restores the wall.
func (w *MagicWall) OnDestroy() {
	c := w.cave
	rock, ok := c.at(w.pos).(Weighted)
	if !ok {
		return
	}
	var next Tile = rock
	if m, ok := rock.(Mutable); ok && rock.Facing().Y != 0 {
		next = m.Mutate()
		b := next.base()
		b.moving = true
		b.facing = rock.Facing()
		c.play(SoundMagic)
	}
	next.Tick()
	c.set(w.pos, w)
}
