package world

// mover is implemented by every tile through Base.
type mover interface {
	TryMove(d Point) bool
}

// Portal teleports tiles to its linked portal. Portals pair up in load order.
type Portal struct {
	Base
	link    *Portal
	probing bool
}

func newPortal(c *Cave, p Point) Tile {
	t := &Portal{}
	c.adopt(t, KindPortal, p)
	if c.pendingPortal == nil {
		c.pendingPortal = t
		return t
	}
	t.link = c.pendingPortal
	t.link.link = t
	t.skin = 1
	c.pendingPortal = nil
	return t
}

// Link returns the paired portal, or nil if the portal is unpaired.
func (p *Portal) Link() *Portal { return p.link }

// CanBreak returns false.
func (p *Portal) CanBreak() bool { return false }

// Redirect sends approaching tiles to the matching cell beyond the linked portal.
func (p *Portal) Redirect(observer Tile, d Point) Point {
	if p.link == nil {
		return p.pos
	}
	return p.link.pos.Add(d)
}

// CanBeOccupied admits a tile that could continue its move from the linked portal.
func (p *Portal) CanBeOccupied(by Tile, d Point) bool {
	if p.link == nil || p.probing {
		return false
	}
	p.probing = true
	defer func() { p.probing = false }()
	return p.cave.CanMoveFrom(by, p.link.pos, d)
}

// OnDestroy restores the portal, moves the tile that entered it onto the
// linked portal and replays its move from there.
func (p *Portal) OnDestroy() {
	c := p.cave
	t := c.at(p.pos)
	c.set(p.pos, p)
	if t == nil || p.link == nil {
		return
	}
	t.base().pos = p.link.pos
	c.play(SoundPortal)
	d := t.Facing()
	if m, ok := t.(*Miner); ok {
		m.move(d, true)
		return
	}
	if mv, ok := t.(mover); ok {
		mv.TryMove(d)
	}
}
