package world

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samdwyer/cavedash/internal/entity"
)

// frame is the simulated frame duration used throughout the tests.
const frame = 0.1

// levelList is an in-memory level source.
type levelList []Level

func (l levelList) Count() int { return len(l) }

func (l levelList) Level(i int) (Level, error) { return l[i], nil }

// soundLog records played sounds.
type soundLog struct {
	played []Sound
}

func (s *soundLog) Play(snd Sound) { s.played = append(s.played, snd) }

func (s *soundLog) count(snd Sound) int {
	n := 0
	for _, p := range s.played {
		if p == snd {
			n++
		}
	}
	return n
}

// newTestCave loads rows as a level with the given goal and one player.
func newTestCave(t *testing.T, goal int, rows ...string) (*Cave, *entity.Player) {
	t.Helper()
	c := New(Config{Seed: 42})
	player := entity.NewPlayer(0)
	c.SetPlayers([]*entity.Player{player})
	require.NoError(t, c.Load(Level{Name: "test", Goal: goal, Rows: rows}))
	return c, player
}

// placeMiner puts a miner for player directly at p.
func placeMiner(c *Cave, p Point, player *entity.Player) *Miner {
	m := newMiner(c, p, player)
	c.set(p, m)
	return m
}

func step(c *Cave, n int) {
	for i := 0; i < n; i++ {
		c.Update(frame)
	}
}

// stepUntil steps until cond holds, failing after limit frames.
func stepUntil(t *testing.T, c *Cave, limit int, cond func() bool) {
	t.Helper()
	for i := 0; i < limit; i++ {
		if cond() {
			return
		}
		c.Update(frame)
	}
	require.True(t, cond(), "condition not reached after %d frames", limit)
}

// waitForMiner steps until an entry door placed the first miner.
func waitForMiner(t *testing.T, c *Cave) *Miner {
	t.Helper()
	stepUntil(t, c, 20, func() bool { return len(tilesOf[*Miner](c)) > 0 })
	return tilesOf[*Miner](c)[0]
}

// moveMiner holds dir until the miner changes cell, then releases it.
func moveMiner(t *testing.T, c *Cave, m *Miner, dir entity.Direction) {
	t.Helper()
	from := m.Pos()
	m.player.SetDirections(dir)
	stepUntil(t, c, 10, func() bool { return m.Pos() != from })
	m.player.SetDirections()
}

func countKind(c *Cave, k Kind) int {
	return len(c.Tiles(k))
}

func kindAt(c *Cave, x, y int) Kind {
	t := c.At(x, y)
	if t == nil {
		return -1
	}
	return t.Kind()
}
