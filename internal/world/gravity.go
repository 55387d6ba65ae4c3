package world

import "math"

const (
	// CrackDelay is the time in seconds a cracked tile takes to break.
	CrackDelay = 0.125
	// FrightenDuration is how long an energizer frightens insects, in seconds.
	FrightenDuration = 5.0

	diamondFrames = 4
)

// weighted falls along its gravity and rolls off rounded tiles.
type weighted struct {
	Base
	gravity int
}

// Gravity returns the vertical fall direction: -1 falls down, +1 rises.
func (w *weighted) Gravity() int { return w.gravity }

// CanMove restricts weighted tiles to lateral moves and moves along gravity.
func (w *weighted) CanMove(d Point) bool {
	return (d.Y == 0 || d.Y == w.gravity) && w.Base.CanMove(d)
}

// Tick falls, lands, then tries to roll to a random side.
func (w *weighted) Tick() {
	fall := Point{0, w.gravity}
	if w.TryMove(fall) {
		return
	}
	if w.moving {
		if l, ok := w.self.(lander); ok {
			l.endFall(w.neighbor(fall))
		}
	}
	dx := w.cave.rng.Intn(2)*2 - 1
	if !w.tryRoll(dx) {
		w.tryRoll(-dx)
	}
}

// tryRoll moves sideways off a rounded tile, only if the fall can continue from there.
func (w *weighted) tryRoll(dx int) bool {
	if _, ok := w.neighbor(Point{0, w.gravity}).(Rounded); !ok {
		return false
	}
	side := Point{dx, 0}
	if !w.self.CanMove(side) {
		return false
	}
	lateral, ok := w.cave.fold(w.pos.Add(side))
	if !ok || !w.cave.CanMoveFrom(w.self, lateral, Point{0, w.gravity}) {
		return false
	}
	return w.TryMove(side)
}

func (w *weighted) endFall(onto Tile) {}

func (w *weighted) pushable() {}

// TryActivate pushes the tile by d.
func (w *weighted) TryActivate(by Tile, d Point) bool {
	if !w.TryMove(d) {
		return false
	}
	w.cave.play(SoundPush)
	return true
}

// massive crushes creatures and cracks fragile tiles it lands on.
type massive struct {
	weighted
	fallSound Sound
}

func (m *massive) rounded() {}
func (m *massive) heavy() {}

func (m *massive) endFall(onto Tile) {
	m.cave.play(m.fallSound)
	if f, ok := onto.(Fragile); ok {
		f.Crack(m.self)
	}
}

func (c *Cave) initMassive(m *massive, t Tile, k Kind, p Point, fall Sound) {
	c.adopt(t, k, p)
	m.gravity = -1
	m.fallSound = fall
}

// Boulder is a plain falling rock.
type Boulder struct {
	massive
}

func newBoulder(c *Cave, p Point) Tile {
	t := &Boulder{}
	c.initMassive(&t.massive, t, KindBoulder, p, SoundBoulderFall)
	return t
}

// Mutate turns the boulder into a diamond.
func (b *Boulder) Mutate() Tile {
	return newDiamond(b.cave, b.pos)
}

// Diamond is the gem miners must collect. It survives explosions.
type Diamond struct {
	massive
}

func newDiamond(c *Cave, p Point) Tile {
	t := &Diamond{}
	c.initMassive(&t.massive, t, KindDiamond, p, SoundDiamondFall)
	return t
}

// CanBeOccupied admits miners only.
func (d *Diamond) CanBeOccupied(by Tile, dir Point) bool {
	_, ok := by.(*Miner)
	return ok
}

// CanBreak returns false.
func (d *Diamond) CanBreak() bool { return false }

// Collect counts the diamond toward the goal. It is worth more once the goal is met.
func (d *Diamond) Collect(by *Miner) int {
	d.cave.play(SoundDiamond)
	d.cave.collected++
	if d.cave.IsComplete() {
		return 5
	}
	return 2
}

// Mutate turns the diamond into a boulder.
func (d *Diamond) Mutate() Tile {
	return newBoulder(d.cave, d.pos)
}

// Tick occasionally shines, then falls.
func (d *Diamond) Tick() {
	d.shine()
	d.weighted.Tick()
}

func (d *Diamond) shine() {
	rng := d.cave.rng
	if rng.Intn(4) != 1 {
		return
	}
	s := rng.Intn(10*diamondFrames) + 1
	if s >= diamondFrames {
		s = 0
	}
	d.skin = s
}

// Energizer is a diamond that frightens every insect when collected.
type Energizer struct {
	Diamond
}

func newEnergizer(c *Cave, p Point) Tile {
	t := &Energizer{}
	c.initMassive(&t.massive, t, KindEnergizer, p, SoundDiamondFall)
	return t
}

// Collect frightens insects and reverses their heading.
func (e *Energizer) Collect(by *Miner) int {
	e.cave.play(SoundBonus)
	for _, in := range tilesOf[*Insect](e.cave) {
		in.frightened = FrightenDuration
		in.facing = in.facing.Neg()
	}
	return e.Diamond.Collect(by)
}

// Cracked is a fragile rock that breaks shortly after a landing.
// Cracked boulders break into explosions, minerals into diamonds.
type Cracked struct {
	massive
	breaksInto Kind
	crackTime  float64
}

func newCracked(c *Cave, p Point, k Kind, into Kind, fall Sound) *Cracked {
	t := &Cracked{breaksInto: into, crackTime: math.Inf(1)}
	c.initMassive(&t.massive, t, k, p, fall)
	return t
}

func newCrackedBoulder(c *Cave, p Point) Tile {
	return newCracked(c, p, KindCrackedBoulder, KindExplosion, SoundBoulderFall)
}

func newMineral(c *Cave, p Point) Tile {
	return newCracked(c, p, KindMineral, KindDiamond, SoundDiamondFall)
}

// Crack starts the breaking delay.
func (k *Cracked) Crack(by Tile) {
	k.cave.play(SoundCrack)
	k.skin = 1
	k.crackTime = CrackDelay
}

func (k *Cracked) endFall(onto Tile) {
	k.massive.endFall(onto)
	k.Crack(onto)
}

// Update counts the crack delay down along with the cooldown.
func (k *Cracked) Update(dt float64) {
	k.crackTime -= dt
	k.Base.Update(dt)
}

// Tick breaks the tile once the crack delay ran out, otherwise falls.
func (k *Cracked) Tick() {
	if k.crackTime <= epsilon {
		k.cave.ReplaceKind(k, k.breaksInto)
		return
	}
	k.weighted.Tick()
}

// Mutate swaps cracked boulders and minerals.
func (k *Cracked) Mutate() Tile {
	if k.kind == KindMineral {
		return newCrackedBoulder(k.cave, k.pos)
	}
	return newMineral(k.cave, k.pos)
}

// Balloon is lighter than air and rises instead of falling.
type Balloon struct {
	weighted
}

func newBalloon(c *Cave, p Point) Tile {
	t := &Balloon{}
	c.adopt(t, KindBalloon, p)
	t.gravity = +1
	return t
}

func (b *Balloon) rounded() {}
