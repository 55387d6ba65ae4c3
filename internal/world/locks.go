package world

// Door blocks movement while closed and lets tiles through to the far side when opened.
type Door struct {
	Base
	opened bool
}

// Opened returns true if the door lets tiles through.
func (d *Door) Opened() bool { return d.opened }

// CanBreak returns false.
func (d *Door) CanBreak() bool { return false }

// Redirect sends approaching tiles to the cell beyond an opened door.
func (d *Door) Redirect(observer Tile, dir Point) Point {
	if d.opened {
		return d.pos.Add(dir)
	}
	return d.pos
}

func (d *Door) toggle() {
	d.opened = !d.opened
	d.skin ^= 1
}

// ActivableDoor is opened and closed by miners.
type ActivableDoor struct {
	Door
}

func newActivableDoor(c *Cave, p Point) Tile {
	t := &ActivableDoor{}
	c.adopt(t, KindActivableDoor, p)
	return t
}

// TryActivate toggles the door.
func (d *ActivableDoor) TryActivate(by Tile, dir Point) bool {
	d.toggle()
	return true
}

// LockedDoor turns into an activable door when its key is collected.
type LockedDoor struct {
	Door
	id int
}

func newLockedDoor(c *Cave, p Point) Tile {
	t := &LockedDoor{id: c.nextID(KindLockedDoor)}
	c.adopt(t, KindLockedDoor, p)
	return t
}

// ID returns the key color that unlocks the door.
func (d *LockedDoor) ID() int { return d.id }

// Unlock replaces the door with an activable one.
func (d *LockedDoor) Unlock() {
	d.cave.play(SoundExit)
	d.cave.ReplaceKind(d, KindActivableDoor)
}

// TriggeredDoor is toggled by levers with the same id.
type TriggeredDoor struct {
	Door
	id int
}

func newTriggeredDoor(c *Cave, p Point) Tile {
	t := &TriggeredDoor{id: c.nextID(KindTriggeredDoor)}
	c.adopt(t, KindTriggeredDoor, p)
	return t
}

// ID returns the lever color that toggles the door.
func (d *TriggeredDoor) ID() int { return d.id }

// Trigger toggles the door.
func (d *TriggeredDoor) Trigger(by Tile) {
	d.toggle()
}

// Key unlocks the locked doors with the same id when collected.
type Key struct {
	Base
	id int
}

func newKey(c *Cave, p Point) Tile {
	t := &Key{id: c.nextID(KindKey)}
	c.adopt(t, KindKey, p)
	t.skin = t.id
	return t
}

// ID returns the key color.
func (k *Key) ID() int { return k.id }

// CanBeOccupied admits miners only.
func (k *Key) CanBeOccupied(by Tile, d Point) bool {
	_, ok := by.(*Miner)
	return ok
}

// Collect unlocks the matching doors.
func (k *Key) Collect(by *Miner) int {
	for _, d := range tilesOf[*LockedDoor](k.cave) {
		if d.id == k.id {
			d.Unlock()
		}
	}
	return 0
}

// Lever toggles the triggered doors with the same id, when used or when something lands on it.
type Lever struct {
	Base
	id int
	on bool
}

func newLever(c *Cave, p Point) Tile {
	t := &Lever{id: c.nextID(KindLever)}
	c.adopt(t, KindLever, p)
	return t
}

// ID returns the lever color.
func (l *Lever) ID() int { return l.id }

// On returns the lever position.
func (l *Lever) On() bool { return l.on }

// TryActivate toggles the lever.
func (l *Lever) TryActivate(by Tile, d Point) bool {
	l.toggle(by)
	return true
}

// Crack toggles the lever.
func (l *Lever) Crack(by Tile) {
	l.toggle(by)
}

func (l *Lever) toggle(by Tile) {
	l.on = !l.on
	l.skin ^= 1
	l.cave.play(SoundCrack)
	for _, d := range tilesOf[*TriggeredDoor](l.cave) {
		if d.id == l.id {
			d.Trigger(l)
		}
	}
}
