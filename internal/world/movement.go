package world

// resolve returns the cell an actor moving from p by d actually lands in.
// At most one redirection is followed.
func (c *Cave) resolve(actor Tile, p, d Point) (Point, bool) {
	q, ok := c.fold(p.Add(d))
	if !ok {
		return q, false
	}
	if r, isRedirector := c.at(q).(Redirector); isRedirector && Tile(r) != actor {
		return c.fold(r.Redirect(actor, d))
	}
	return q, true
}

// CanMoveFrom reports whether actor could move by d if it stood at p.
// An empty cell, or one holding the actor itself, always admits.
func (c *Cave) CanMoveFrom(actor Tile, p, d Point) bool {
	q, ok := c.resolve(actor, p, d)
	if !ok {
		return false
	}
	occ := c.at(q)
	if occ == nil || occ == actor {
		return true
	}
	return occ.CanBeOccupied(actor, d)
}

// TryMove moves actor by d if its CanMove allows it.
// The actor is notified with the displaced tile before that tile is destroyed,
// and the displaced tile is only destroyed if it lost its cell.
func (c *Cave) TryMove(actor Tile, d Point) bool {
	if !actor.CanMove(d) {
		return false
	}
	b := actor.base()
	b.facing = d
	if d.IsZero() && c.isOccupant(actor) {
		return true
	}
	to, ok := c.resolve(actor, b.pos, d)
	if !ok {
		return false
	}
	if c.isOccupant(actor) {
		c.set(b.pos, nil)
	}
	prev := c.set(to, actor)
	actor.OnMoved(prev)
	if prev != nil && !c.isOccupant(prev) {
		prev.OnDestroy()
	}
	return true
}
