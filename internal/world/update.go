package world

import (
	"context"

	"github.com/zyedidia/generic/mapset"
)

// Update advances the cave by dt seconds: status timers first, then every
// tier of tiles in order, then the global hooks.
func (c *Cave) Update(dt float64) {
	c.played = mapset.New[Sound]()

	switch c.status {
	case StatusNotLoaded, StatusPaused:
		return
	}

	if c.status.IsTerminal() {
		c.statusTimer -= dt
		if c.statusTimer <= 0 {
			next := c.level
			if c.status == StatusSucceeded {
				next++
			}
			// A failed load leaves the status unchanged and Err reports why.
			_ = c.Start(context.Background(), next)
			return
		}
	}

	if c.status == StatusInProgress && c.timeLimit > 0 {
		c.timeRemaining -= dt
		if c.timeRemaining <= 0 {
			c.timeRemaining = 0
			c.timeOut()
		}
	}

	for _, tier := range tiers {
		for _, t := range c.snapshot(tier) {
			if c.isOccupant(t) {
				t.Update(dt)
			}
		}
	}

	for _, hook := range c.hooks {
		hook(c)
	}
}

// snapshot lists the front tiles of a tier, bottom row first, x ascending.
func (c *Cave) snapshot(tier Tier) []Tile {
	var out []Tile
	for _, t := range c.front {
		if t != nil && t.Tier() == tier {
			out = append(out, t)
		}
	}
	return out
}

// timeOut destroys every miner and fails the level.
func (c *Cave) timeOut() {
	for _, m := range tilesOf[*Miner](c) {
		c.Replace(m, nil)
	}
	if c.status == StatusInProgress {
		c.setStatus(StatusFailed)
	}
}
