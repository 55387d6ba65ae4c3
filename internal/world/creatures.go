package world

import "github.com/samdwyer/cavedash/internal/entity"

const (
	minerSkins  = 4
	insectScore = 5
)

// creature is crushed by moving massive tiles and explodes when destroyed.
type creature struct {
	Base
	explodesInto Kind
}

// CanBeOccupied admits moving massive tiles.
func (cr *creature) CanBeOccupied(by Tile, d Point) bool {
	m, ok := by.(Massive)
	return ok && m.Moving()
}

// OnDestroy explodes.
func (cr *creature) OnDestroy() {
	cr.cave.Explode(cr.pos, cr.explodesInto)
}

// ============================================================================
// Miner
// ============================================================================

// Miner is the player-controlled digger.
type Miner struct {
	creature
	player *entity.Player
	latch  Point // direction of a pending push
}

func newMiner(c *Cave, p Point, player *entity.Player) *Miner {
	t := &Miner{player: player}
	c.adopt(t, c.minerKind, p)
	t.explodesInto = KindExplosion
	t.tier = TierHigh
	t.skin = player.ID % minerSkins
	return t
}

// Player returns the player controlling the miner.
func (m *Miner) Player() *entity.Player { return m.player }

// CanBeOccupied admits crushing tiles and insects that are not frightened,
// and only while the level is in progress.
func (m *Miner) CanBeOccupied(by Tile, d Point) bool {
	if m.cave.status != StatusInProgress {
		return false
	}
	if m.creature.CanBeOccupied(by, d) {
		return true
	}
	in, ok := by.(*Insect)
	return ok && in.frightened <= 0
}

// OnMoved collects what the miner moved onto.
func (m *Miner) OnMoved(into Tile) {
	m.latch = Zero
	if item, ok := into.(Collectable); ok {
		if m.player.AddScore(item.Collect(m)) {
			m.cave.play(SoundBonus)
		}
	}
}

// Tick follows the held directions: moving first, then using what is in the way.
func (m *Miner) Tick() {
	if m.cave.status != StatusInProgress {
		return
	}
	dirs := m.player.Directions()
	if len(dirs) == 0 {
		m.latch = Zero
		return
	}
	for _, d := range dirs {
		if m.TryMove(Point{d.DX, d.DY}) {
			return
		}
	}
	// A pending push survives only a tick that uses the latched direction again.
	for _, d := range dirs {
		p := Point{d.DX, d.DY}
		if m.tryUse(p) {
			if m.latch != p {
				m.latch = Zero
			}
			return
		}
	}
	m.latch = Zero
}

// move moves by d, falling back to using the neighbor when allowed.
func (m *Miner) move(d Point, allowUse bool) bool {
	return m.TryMove(d) || (allowUse && m.tryUse(d))
}

// tryUse activates the neighbor in direction d. Pushing requires the same
// direction on two consecutive ticks.
func (m *Miner) tryUse(d Point) bool {
	used, ok := m.neighbor(d).(Activable)
	if !ok {
		return false
	}
	if m.moving {
		return m.TryWait()
	}
	if _, ok := used.(Pushable); ok && m.latch != d {
		m.latch = d
		m.facing = d
		return m.TryWait()
	}
	return used.TryActivate(m, d) && (m.TryMove(d) || m.TryWait())
}

// OnDestroy explodes and costs the player a life.
func (m *Miner) OnDestroy() {
	m.creature.OnDestroy()
	m.player.Kill()
	m.cave.onKill()
}

// ============================================================================
// Insects
// ============================================================================

// Insect wanders along walls and kills miners it touches.
// Fireflies explode into explosions, butterflies into diamonds.
type Insect struct {
	creature
	rotation   int
	frightened float64
}

func newInsect(c *Cave, p Point, k Kind, heading Point, rotation int, into Kind) *Insect {
	t := &Insect{rotation: rotation}
	c.adopt(t, k, p)
	t.explodesInto = into
	t.speed /= 2
	t.tier = TierLow
	t.facing = heading
	return t
}

func newFirefly(c *Cave, p Point) Tile {
	return newInsect(c, p, KindFirefly, Left, -1, KindExplosion)
}

func newButterfly(c *Cave, p Point) Tile {
	return newInsect(c, p, KindButterfly, Down, +1, KindDiamond)
}

// Frightened returns the remaining frightened time in seconds.
func (in *Insect) Frightened() float64 { return in.frightened }

// CanBeOccupied admits crushing tiles and miners.
func (in *Insect) CanBeOccupied(by Tile, d Point) bool {
	if in.creature.CanBeOccupied(by, d) {
		return true
	}
	_, ok := by.(*Miner)
	return ok
}

// Collect rewards eating a frightened insect.
func (in *Insect) Collect(by *Miner) int {
	in.cave.play(SoundMagic)
	if in.frightened > 0 {
		return insectScore
	}
	return 0
}

// Update counts the frightened time down along with the cooldown.
func (in *Insect) Update(dt float64) {
	in.frightened = max(0, in.frightened-dt)
	in.Base.Update(dt)
}

// Tick chases an adjacent miner unless frightened, otherwise wanders.
func (in *Insect) Tick() {
	skin := in.skin ^ 1
	switch {
	case in.frightened <= 0:
		skin &= 1
	case in.frightened > 1:
		skin |= 2
	default:
		skin ^= 2
	}
	in.skin = skin

	if in.frightened <= 0 {
		for _, d := range orthogonal {
			if _, ok := in.neighbor(d).(*Miner); ok && in.TryMove(d) {
				return
			}
		}
	}
	in.wander()
}

// wander tries to turn, go straight, turn the other way, then back up, in
// the order given by the insect's rotation. It waits when boxed in.
func (in *Insect) wander() bool {
	ix, iy := in.facing.X, in.facing.Y
	var order [4]Point
	if in.rotation > 0 {
		order = [4]Point{{iy, -ix}, {ix, iy}, {-iy, ix}, {-ix, -iy}}
	} else {
		order = [4]Point{{-iy, ix}, {ix, iy}, {iy, -ix}, {-ix, -iy}}
	}
	for _, d := range order {
		if in.TryMove(d) {
			return true
		}
	}
	return in.TryWait()
}

// OnDestroy explodes, unless a miner just ate the frightened insect.
func (in *Insect) OnDestroy() {
	if in.frightened > 0 {
		if _, eaten := in.cave.at(in.pos).(*Miner); eaten {
			return
		}
	}
	in.creature.OnDestroy()
}
