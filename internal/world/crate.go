package world

// Crate is a pushable box that does not fall. Wood crates break when hit,
// metal crates survive explosions.
type Crate struct {
	Base
	metal  bool
	solved bool
}

func newWoodCrate(c *Cave, p Point) Tile {
	t := &Crate{}
	c.adopt(t, KindWoodCrate, p)
	return t
}

func newMetalCrate(c *Cave, p Point) Tile {
	t := &Crate{metal: true}
	c.adopt(t, KindMetalCrate, p)
	return t
}

func (cr *Crate) pushable() {}

// Solved returns true once the crate completed the puzzle.
func (cr *Crate) Solved() bool { return cr.solved }

// TryActivate pushes the crate by d.
func (cr *Crate) TryActivate(by Tile, d Point) bool {
	if !cr.TryMove(d) {
		return false
	}
	cr.cave.play(SoundPush)
	return true
}

// OnMoved shows whether the crate stands on a target.
func (cr *Crate) OnMoved(into Tile) {
	cr.skin = 0
	if t := cr.cave.back[cr.cave.index(cr.pos)]; t != nil && t.Kind() == KindCrateTarget {
		cr.skin = 1
	}
}

// CanBeOccupied lets moving massive tiles smash wood crates.
func (cr *Crate) CanBeOccupied(by Tile, d Point) bool {
	if cr.metal {
		return false
	}
	m, ok := by.(Massive)
	return ok && m.Moving()
}

// CanBreak returns false for metal crates.
func (cr *Crate) CanBreak() bool { return !cr.metal }

// OnDestroy explodes a wood crate unless it was turned into a diamond.
func (cr *Crate) OnDestroy() {
	if cr.metal || cr.solved {
		return
	}
	cr.cave.Explode(cr.pos, KindExplosion)
}

// CrateTarget marks a background cell crates must be pushed onto.
type CrateTarget struct {
	Base
}

func newCrateTarget(c *Cave, p Point) Tile {
	t := &CrateTarget{}
	c.adopt(t, KindCrateTarget, p)
	return t
}

// CanBreak returns false.
func (ct *CrateTarget) CanBreak() bool { return false }

// crateHook turns every crate into a diamond once all targets are covered.
func crateHook(c *Cave) {
	targets := c.BackTiles(KindCrateTarget)
	if len(targets) == 0 {
		return
	}
	crates := make([]*Crate, 0, len(targets))
	for _, t := range targets {
		cr, ok := c.at(t.Pos()).(*Crate)
		if !ok {
			return
		}
		crates = append(crates, cr)
	}
	for _, cr := range crates {
		cr.solved = true
		c.ReplaceKind(cr, KindDiamond)
	}
	c.play(SoundDiamond)
}
