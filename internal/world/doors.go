package world

// EntryDelay is how long entry doors stay closed after a level loads, in seconds.
const EntryDelay = 0.75

// entryOffsets are the cells an entry door tries, in order, when placing a miner.
var entryOffsets = [...]Point{
	{0, 0},
	{-1, 0}, {+1, 0}, {0, +1}, {0, -1},
	{-1, +1}, {+1, +1}, {-1, -1}, {+1, -1},
}

// Entry is the door miners enter the cave through.
type Entry struct {
	Base
}

func newEntry(c *Cave, p Point) Tile {
	t := &Entry{}
	c.adopt(t, KindEntry, p)
	t.cooldown = EntryDelay
	return t
}

// CanBeOccupied admits miners only.
func (e *Entry) CanBeOccupied(by Tile, d Point) bool {
	_, ok := by.(*Miner)
	return ok
}

// Tick places a miner for every living player not yet in the cave.
// Once everyone is in, every entry door turns into an explosion.
func (e *Entry) Tick() {
	c := e.cave
	waiting := false
	for _, player := range c.players {
		if !player.IsAlive() || c.placed.Has(player) {
			continue
		}
		m := newMiner(c, e.pos, player)
		placed := false
		for _, d := range entryOffsets {
			if m.TryMove(d) {
				placed = true
				break
			}
		}
		if !placed {
			waiting = true
			continue
		}
		c.placed.Put(player)
		c.play(SoundEntry)
		if c.status == StatusStarting {
			c.setStatus(StatusInProgress)
		}
	}
	if waiting {
		e.TryWait()
		return
	}
	if c.isOccupant(e) {
		c.play(SoundCrack)
		c.ReplaceKind(e, KindExplosion)
	}
	c.ReplaceAll(KindEntry, KindExplosion)
}

// Exit opens once the goal is met and ends the level when a miner enters it.
type Exit struct {
	Base
	opened bool
}

func newExit(c *Cave, p Point) Tile {
	t := &Exit{}
	c.adopt(t, KindExit, p)
	return t
}

// Opened returns true once the exit admits miners.
func (x *Exit) Opened() bool { return x.opened }

// Tick opens the exit when the cave is complete.
func (x *Exit) Tick() {
	if !x.opened && x.cave.IsComplete() {
		x.opened = true
		x.skin = 1
		x.cave.play(SoundEntry)
	}
}

// CanBeOccupied admits miners once opened.
func (x *Exit) CanBeOccupied(by Tile, d Point) bool {
	_, ok := by.(*Miner)
	return ok && x.opened
}

// CanBreak returns false.
func (x *Exit) CanBreak() bool { return false }

// OnDestroy marks the level as succeeded.
func (x *Exit) OnDestroy() {
	x.cave.play(SoundExit)
	x.cave.setStatus(StatusSucceeded)
}
