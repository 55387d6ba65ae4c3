// Package world provides the cave simulation: the tile grid, tile behaviors,
// movement resolution and the level session state machine.
package world

const (
	// DefaultSpeed is the number of cells per second a tile moves at.
	DefaultSpeed = 10.0

	// epsilon absorbs float drift when cooldowns are decremented by frame deltas.
	epsilon = 1e-9
)

// Tier controls the order in which tiles tick within a frame.
type Tier int

const (
	TierHigh Tier = iota
	TierMedium
	TierLow
)

// tiers lists every tier in update order.
var tiers = [...]Tier{TierHigh, TierMedium, TierLow}

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	case TierLow:
		return "low"
	default:
		return "unknown"
	}
}

// Tile is a single occupant of a cave cell.
// Concrete kinds embed Base and override the hooks they need.
type Tile interface {
	Kind() Kind
	Pos() Point
	Facing() Point
	Skin() int
	Tier() Tier
	Moving() bool

	// Update advances the tile's cooldown and calls Tick when it elapses.
	Update(dt float64)
	// Tick runs the tile's behavior.
	Tick()
	// CanMove reports whether the tile may move by d.
	CanMove(d Point) bool
	// CanBeOccupied reports whether by may move into this tile's cell.
	CanBeOccupied(by Tile, d Point) bool
	// OnMoved is called after the tile moved, with the previous occupant of its new cell.
	OnMoved(into Tile)
	// OnDestroy is called once the tile has been displaced from the grid.
	OnDestroy()
	// CanBreak reports whether explosions destroy the tile.
	CanBreak() bool

	base() *Base
}

// ============================================================================
// Capabilities
// ============================================================================

// Rounded tiles let weighted tiles roll off them.
type Rounded interface {
	Tile
	rounded()
}

// Weighted tiles fall along their gravity.
type Weighted interface {
	Tile
	Gravity() int
}

// Massive tiles crush creatures and crack fragile tiles when they land.
type Massive interface {
	Weighted
	heavy()
}

// Collectable tiles reward a miner who moves onto them.
type Collectable interface {
	Tile
	Collect(by *Miner) int
}

// Fragile tiles react to being landed upon.
type Fragile interface {
	Tile
	Crack(by Tile)
}

// Mutable tiles transform when passing through a magic wall.
type Mutable interface {
	Tile
	Mutate() Tile
}

// Activable tiles may be used by a miner standing next to them.
type Activable interface {
	Tile
	TryActivate(by Tile, d Point) bool
}

// Pushable tiles are activated by pushing them, which requires a held direction.
type Pushable interface {
	Activable
	pushable()
}

// Triggerable tiles are switched remotely by levers.
type Triggerable interface {
	Tile
	Trigger(by Tile)
}

// Redirector tiles change where an approaching actor actually lands.
type Redirector interface {
	Tile
	Redirect(observer Tile, d Point) Point
}

// lander is implemented by weighted tiles that react when a fall ends.
type lander interface {
	endFall(onto Tile)
}

// ============================================================================
// Base
// ============================================================================

// Base holds the state shared by every tile kind.
type Base struct {
	cave *Cave
	self Tile

	kind     Kind
	pos      Point
	facing   Point
	cooldown float64
	speed    float64
	tier     Tier
	moved    bool
	moving   bool
	skin     int
	serial   uint64
}

func (b *Base) base() *Base { return b }

// Kind returns the tile kind.
func (b *Base) Kind() Kind { return b.kind }

// Pos returns the cell the tile was last written to.
func (b *Base) Pos() Point { return b.pos }

// Facing returns the direction of the tile's last successful move.
func (b *Base) Facing() Point { return b.facing }

// Skin returns the animation frame index.
func (b *Base) Skin() int { return b.skin }

// Tier returns the update tier.
func (b *Base) Tier() Tier { return b.tier }

// Moving returns true if the tile moved during its last tick.
func (b *Base) Moving() bool { return b.moving }

// Serial returns the identifier assigned when the tile joined its cave.
func (b *Base) Serial() uint64 { return b.serial }

// Update decrements the cooldown and ticks once it has elapsed.
func (b *Base) Update(dt float64) {
	if b.cooldown > 0 {
		b.cooldown -= dt
		if b.cooldown > epsilon {
			return
		}
	}
	b.cooldown = 0
	b.moved = false
	b.self.Tick()
	b.moving = b.moved
}

// Tick does nothing by default.
func (b *Base) Tick() {}

// CanMove asks the cave whether the destination admits this tile.
func (b *Base) CanMove(d Point) bool {
	return b.cave.CanMoveFrom(b.self, b.pos, d)
}

// CanBeOccupied refuses every visitor by default.
func (b *Base) CanBeOccupied(by Tile, d Point) bool { return false }

// OnMoved does nothing by default.
func (b *Base) OnMoved(into Tile) {}

// OnDestroy does nothing by default.
func (b *Base) OnDestroy() {}

// CanBreak returns true by default.
func (b *Base) CanBreak() bool { return true }

// TryMove moves the tile by d and starts a cooldown on success.
func (b *Base) TryMove(d Point) bool {
	if !b.cave.TryMove(b.self, d) {
		return false
	}
	b.moved = true
	return b.TryWait()
}

// TryWait starts a cooldown of one cell at the tile's speed. It always returns true.
func (b *Base) TryWait() bool {
	b.cooldown = 1 / b.speed
	return true
}

// neighbor returns the front tile next to this one, without redirection.
func (b *Base) neighbor(d Point) Tile {
	t, _, _ := b.cave.neighbor(b.pos, d)
	return t
}
