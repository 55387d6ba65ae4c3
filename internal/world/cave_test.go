package world

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/cavedash/internal/entity"
)

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		want  error
	}{
		{"no rows", Level{Goal: 1}, ErrNoRows},
		{"empty rows", Level{Rows: []string{"", ""}}, ErrNoRows},
		{"negative goal", Level{Goal: -1, Rows: []string{"..."}}, ErrNegativeGoal},
		{"negative time limit", Level{TimeLimit: -5, Rows: []string{"..."}}, ErrNegativeTime},
		{"unknown miner", Level{Miner: "robot", Rows: []string{"..."}}, ErrUnknownMinerKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(Config{Seed: 1})
			err := c.Load(tt.level)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, StatusNotLoaded, c.Status())
		})
	}
}

func TestLoadLayout(t *testing.T) {
	c, _ := newTestCave(t, 3,
		"wW",
		"rd",
		"+",
	)

	require.Equal(t, 2, c.Width())
	require.Equal(t, 3, c.Height())

	// Rows are authored top first, so the last row is y=0.
	assert.Nil(t, c.At(0, 0))
	assert.Equal(t, KindCrateTarget, c.Back(0, 0).Kind())
	assert.Equal(t, KindBoulder, kindAt(c, 0, 1))
	assert.Equal(t, KindDiamond, kindAt(c, 1, 1))
	assert.Equal(t, KindBrickWall, kindAt(c, 0, 2))
	assert.Equal(t, KindMetalWall, kindAt(c, 1, 2))

	// Ragged rows are padded with empty cells.
	assert.Nil(t, c.At(1, 0))

	assert.Nil(t, c.At(-1, 0), "out of bounds")
	assert.Nil(t, c.At(0, 3), "out of bounds")

	// No entry door: the level starts right away.
	assert.Equal(t, StatusInProgress, c.Status())
	assert.Equal(t, 3, c.Goal())
	assert.False(t, c.IsComplete())
}

func TestTilesUpdateOrder(t *testing.T) {
	c, _ := newTestCave(t, 0,
		"wW",
		"rd",
	)

	var got []Kind
	for _, tile := range c.Tiles() {
		got = append(got, tile.Kind())
	}
	want := []Kind{KindBoulder, KindDiamond, KindBrickWall, KindMetalWall}
	assert.Equal(t, want, got, "bottom row first, x ascending")
}

func TestUnknownSymbolsArePlaceholders(t *testing.T) {
	c, _ := newTestCave(t, 0, "?.Z")

	assert.Equal(t, 2, c.UnknownSymbols())
	assert.Equal(t, 2, countKind(c, KindUnknown))
	assert.Equal(t, KindSoil, kindAt(c, 1, 0))
}

func TestSerialsAreUnique(t *testing.T) {
	c, _ := newTestCave(t, 0,
		"rrr",
		"ddd",
	)
	seen := make(map[uint64]bool)
	for _, tile := range c.Tiles() {
		s := tile.base().Serial()
		assert.False(t, seen[s], "duplicate serial %d", s)
		seen[s] = true
	}
}

func TestStartWrapsLevelIndex(t *testing.T) {
	c := New(Config{Seed: 1})
	c.SetPlayers(entity.NewPlayers(1))
	c.SetLevels(levelList{
		{Name: "one", Rows: []string{"."}},
		{Name: "two", Rows: []string{".."}},
	})

	require.NoError(t, c.Start(context.Background(), 3))
	assert.Equal(t, 1, c.Level())
	assert.Equal(t, "two", c.Name())

	require.NoError(t, c.Start(context.Background(), -1))
	assert.Equal(t, 1, c.Level())

	require.NoError(t, c.Start(context.Background(), 0))
	assert.Equal(t, "one", c.Name())
}

func TestStartWithoutLevels(t *testing.T) {
	c := New(Config{Seed: 1})
	assert.ErrorIs(t, c.Start(context.Background(), 0), ErrNoLevels)
	assert.ErrorIs(t, c.Err(), ErrNoLevels)
}

func TestSoundsPlayOncePerFrame(t *testing.T) {
	sink := &soundLog{}
	c := New(Config{Seed: 1, Sound: sink})
	require.NoError(t, c.Load(Level{Rows: []string{"..."}}))

	c.play(SoundExplosion)
	c.play(SoundExplosion)
	c.play(SoundDiamond)
	assert.Equal(t, 1, sink.count(SoundExplosion))

	c.Update(frame)
	c.play(SoundExplosion)
	assert.Equal(t, 2, sink.count(SoundExplosion))
	assert.Equal(t, 1, sink.count(SoundDiamond))
}

// ============================================================================
// Movement
// ============================================================================

func TestTryMoveVacatesOrigin(t *testing.T) {
	c, player := newTestCave(t, 0, "  ")
	m := placeMiner(c, Point{0, 0}, player)

	require.True(t, c.TryMove(m, Right))
	assert.Nil(t, c.At(0, 0))
	assert.Same(t, m, c.At(1, 0))
	assert.Equal(t, Point{1, 0}, m.Pos())
	assert.Equal(t, Right, m.Facing())
}

func TestTryMoveBlocked(t *testing.T) {
	c, player := newTestCave(t, 0, " w")
	m := placeMiner(c, Point{0, 0}, player)

	assert.False(t, c.TryMove(m, Right), "wall")
	assert.False(t, c.TryMove(m, Left), "out of bounds")
	assert.Same(t, m, c.At(0, 0))
	assert.Equal(t, Zero, m.Facing(), "failed moves leave no trace")
}

func TestTryMoveInPlace(t *testing.T) {
	c, player := newTestCave(t, 0, "  ")
	m := placeMiner(c, Point{0, 0}, player)
	assert.True(t, c.TryMove(m, Zero))

	// A stale miner that no longer owns its cell cannot stay put.
	stale := newMiner(c, Point{0, 0}, player)
	assert.False(t, c.TryMove(stale, Zero))
	assert.Same(t, m, c.At(0, 0))
}

func TestWrapFoldsCoordinates(t *testing.T) {
	c := New(Config{Seed: 1})
	player := entity.NewPlayer(0)
	c.SetPlayers([]*entity.Player{player})
	require.NoError(t, c.Load(Level{Wrap: true, Rows: []string{"   ", "   "}}))
	m := placeMiner(c, Point{0, 0}, player)

	player.SetDirections(entity.DirLeft)
	step(c, 1)
	assert.Equal(t, Point{2, 0}, m.Pos())

	player.SetDirections(entity.DirDown)
	step(c, 1)
	assert.Equal(t, Point{2, 1}, m.Pos())

	assert.Same(t, m, c.At(-1, -1))
}

func TestExclusivity(t *testing.T) {
	c, _ := newTestCave(t, 0,
		"r d r k n l    ",
		"  r  d  r  d   ",
		"    a  f  b    ",
		"  w  w  w  w   ",
		"               ",
		"WWWWWWWWWWWWWWW",
	)
	for i := 0; i < 100; i++ {
		c.Update(frame)
		seen := make(map[uint64]bool)
		for y := 0; y < c.Height(); y++ {
			for x := 0; x < c.Width(); x++ {
				tile := c.At(x, y)
				if tile == nil {
					continue
				}
				require.Equal(t, Point{x, y}, tile.Pos(), "frame %d", i)
				s := tile.base().Serial()
				require.False(t, seen[s], "tile in two cells at frame %d", i)
				seen[s] = true
			}
		}
	}
}

func TestDeterministicReplay(t *testing.T) {
	rows := []string{
		" r d r  r d ",
		"  a   b  f  ",
		" w r w d  w ",
		"            ",
		"WWWWWWWWWWWW",
	}
	run := func() []Kind {
		c := New(Config{Seed: 7})
		c.SetPlayers(entity.NewPlayers(1))
		require.NoError(t, c.Load(Level{Rows: rows}))
		step(c, 80)
		var kinds []Kind
		for y := 0; y < c.Height(); y++ {
			for x := 0; x < c.Width(); x++ {
				kinds = append(kinds, kindAt(c, x, y))
			}
		}
		return kinds
	}
	assert.Equal(t, run(), run())
}

// ============================================================================
// Session state machine
// ============================================================================

func TestDigAndCollect(t *testing.T) {
	c, player := newTestCave(t, 1,
		".....",
		"...d.",
		".....",
		".....",
		"E....",
	)
	require.Equal(t, StatusStarting, c.Status())

	m := waitForMiner(t, c)
	require.Equal(t, StatusInProgress, c.Status())
	require.Equal(t, Point{0, 0}, m.Pos())

	for i := 0; i < 3; i++ {
		moveMiner(t, c, m, entity.DirRight)
	}
	for i := 0; i < 3; i++ {
		moveMiner(t, c, m, entity.DirUp)
	}

	assert.Equal(t, 1, c.Collected())
	assert.True(t, c.IsComplete())
	assert.Equal(t, Point{3, 3}, m.Pos())
	assert.Same(t, m, c.At(3, 3))
	assert.Equal(t, 5, player.Score(), "diamond completing the goal is worth 5")

	// Collection never goes backwards.
	step(c, 10)
	assert.Equal(t, 1, c.Collected())
	assert.True(t, c.IsComplete())
}

// crushLevel drops a boulder on the miner once it steps back under it.
var crushLevel = []string{
	" r ",
	" . ",
	"E  ",
	"WWW",
}

func crushMiner(t *testing.T, c *Cave) {
	t.Helper()
	m := waitForMiner(t, c)
	moveMiner(t, c, m, entity.DirRight)
	moveMiner(t, c, m, entity.DirUp)
	moveMiner(t, c, m, entity.DirDown)
	stepUntil(t, c, 10, func() bool { return c.Status() != StatusInProgress })
}

func TestLevelFailureReloads(t *testing.T) {
	c := New(Config{Seed: 3})
	player := entity.NewPlayer(0)
	player.Lives = 2
	c.SetPlayers([]*entity.Player{player})
	c.SetLevels(levelList{{Name: "crush", Rows: crushLevel}})
	require.NoError(t, c.Start(context.Background(), 0))

	crushMiner(t, c)
	require.Equal(t, StatusFailed, c.Status())
	assert.Equal(t, 1, player.Lives)
	assert.Empty(t, tilesOf[*Miner](c))

	// The same level reloads after the settle delay.
	stepUntil(t, c, 5, func() bool { return c.Status() == StatusStarting })
	assert.Equal(t, 0, c.Level())
	assert.Equal(t, 1, countKind(c, KindEntry))
	assert.Equal(t, KindBoulder, kindAt(c, 1, 3))
}

func TestLastLifeIsGameOver(t *testing.T) {
	sink := &soundLog{}
	c := New(Config{Seed: 3, Sound: sink})
	player := entity.NewPlayer(0)
	player.Lives = 1
	c.SetPlayers([]*entity.Player{player})
	c.SetLevels(levelList{{Name: "crush", Rows: crushLevel}})
	require.NoError(t, c.Start(context.Background(), 0))

	crushMiner(t, c)
	assert.Equal(t, StatusGameOver, c.Status())
	assert.Equal(t, 0, player.Lives)
	assert.Equal(t, 1, sink.count(SoundGameOver))

	// Game over is final: no reload.
	step(c, 20)
	assert.Equal(t, StatusGameOver, c.Status())
}

func TestSuccessLoadsNextLevel(t *testing.T) {
	c := New(Config{Seed: 3})
	player := entity.NewPlayer(0)
	c.SetPlayers([]*entity.Player{player})
	c.SetLevels(levelList{
		{Name: "first", Rows: []string{" X"}},
		{Name: "second", Rows: []string{"E.."}},
	})
	require.NoError(t, c.Start(context.Background(), 0))
	m := placeMiner(c, Point{0, 0}, player)

	// The exit opens on its first tick since the goal is zero.
	step(c, 1)
	x, ok := c.At(1, 0).(*Exit)
	require.True(t, ok)
	require.True(t, x.Opened())

	moveMiner(t, c, m, entity.DirRight)
	require.Equal(t, StatusSucceeded, c.Status())

	stepUntil(t, c, 5, func() bool { return c.Level() == 1 })
	assert.Equal(t, "second", c.Name())
	assert.Equal(t, StatusStarting, c.Status())
}

func TestClosedExitBlocksMiner(t *testing.T) {
	c, player := newTestCave(t, 1, " X")
	m := placeMiner(c, Point{0, 0}, player)
	player.SetDirections(entity.DirRight)
	step(c, 5)
	assert.Equal(t, Point{0, 0}, m.Pos())
	assert.Equal(t, StatusInProgress, c.Status())
}

func TestPauseFreezesEverything(t *testing.T) {
	c := New(Config{Seed: 1})
	player := entity.NewPlayer(0)
	c.SetPlayers([]*entity.Player{player})
	require.NoError(t, c.Load(Level{TimeLimit: 10, Rows: []string{"r  ", "   "}}))
	m := placeMiner(c, Point{0, 0}, player)

	c.TogglePause()
	require.Equal(t, StatusPaused, c.Status())

	player.SetDirections(entity.DirRight)
	step(c, 5)
	assert.Equal(t, Point{0, 0}, m.Pos())
	assert.Equal(t, KindBoulder, kindAt(c, 0, 1))
	assert.InDelta(t, 10.0, c.TimeRemaining(), 1e-9)

	c.TogglePause()
	require.Equal(t, StatusInProgress, c.Status())
	step(c, 1)
	assert.Equal(t, Point{1, 0}, m.Pos())
	assert.InDelta(t, 9.9, c.TimeRemaining(), 1e-9)
}

func TestPauseOnlyFromInProgress(t *testing.T) {
	c, _ := newTestCave(t, 0, "E")
	require.Equal(t, StatusStarting, c.Status())
	c.TogglePause()
	assert.Equal(t, StatusStarting, c.Status())
}

func TestTimeLimitFailsLevel(t *testing.T) {
	c := New(Config{Seed: 1})
	player := entity.NewPlayer(0)
	c.SetPlayers([]*entity.Player{player})
	require.NoError(t, c.Load(Level{TimeLimit: 1, Rows: []string{"   ", "   ", "   "}}))
	placeMiner(c, Point{1, 1}, player)

	stepUntil(t, c, 20, func() bool { return c.Status() != StatusInProgress })
	assert.Equal(t, StatusFailed, c.Status())
	assert.Equal(t, 0.0, c.TimeRemaining())
	assert.Equal(t, entity.StartingLives-1, player.Lives)
	assert.Empty(t, tilesOf[*Miner](c))
}

func TestEntryPlacesEveryPlayer(t *testing.T) {
	c := New(Config{Seed: 1})
	players := entity.NewPlayers(2)
	c.SetPlayers(players)
	require.NoError(t, c.Load(Level{Miner: "girl", Rows: []string{
		"WWWWW",
		"W E W",
		"WWWWW",
	}}))

	stepUntil(t, c, 20, func() bool { return len(tilesOf[*Miner](c)) == 2 })
	miners := tilesOf[*Miner](c)
	// Update order is x ascending, so the miner west of the door comes first.
	assert.Equal(t, Point{1, 1}, miners[0].Pos())
	assert.Same(t, players[1], miners[0].Player())
	assert.Equal(t, Point{2, 1}, miners[1].Pos())
	assert.Same(t, players[0], miners[1].Player())
	assert.Equal(t, KindGirl, miners[0].Kind())
	assert.Zero(t, countKind(c, KindEntry))
}

func TestEntrySkipsDeadPlayers(t *testing.T) {
	c := New(Config{Seed: 1})
	players := entity.NewPlayers(2)
	players[0].Lives = 0
	c.SetPlayers(players)
	require.NoError(t, c.Load(Level{Rows: []string{"E "}}))

	stepUntil(t, c, 20, func() bool { return c.Status() == StatusInProgress })
	miners := tilesOf[*Miner](c)
	require.Len(t, miners, 1)
	assert.Same(t, players[1], miners[0].Player())
}
