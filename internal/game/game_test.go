package game

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/cavedash/internal/entity"
	"github.com/samdwyer/cavedash/internal/gamedata"
	"github.com/samdwyer/cavedash/internal/ui"
	"github.com/samdwyer/cavedash/internal/world"
)

// fakeSound records sound requests.
type fakeSound struct {
	muted  bool
	played []world.Sound
	closed bool
}

func (f *fakeSound) Play(s world.Sound)  { f.played = append(f.played, s) }
func (f *fakeSound) SetMuted(muted bool) { f.muted = muted }
func (f *fakeSound) Muted() bool         { return f.muted }
func (f *fakeSound) Close()              { f.closed = true }

// testLevels has no entry doors, so every level starts in progress.
var testLevels = gamedata.NewLevelRegistry([]gamedata.LevelDef{
	{Name: "One", Goal: 1, Rows: []string{"WWW", "W.W", "WWW"}},
	{Name: "Two", Goal: 1, Rows: []string{"WWWW", "W.dW", "WWWW"}},
	{Name: "Three", Goal: 0, Rows: []string{"W"}},
})

func newTestGame(t *testing.T, players int) (*Game, *fakeSound) {
	t.Helper()
	screen, err := ui.NewScreenFrom(tcell.NewSimulationScreen("UTF-8"))
	if err != nil {
		t.Fatalf("NewScreenFrom() error = %v", err)
	}
	cfg := DefaultConfig()
	cfg.Seed = 7
	cfg.Players = players
	sound := &fakeSound{}
	g := newGame(cfg, screen, gamedata.MustLoadStyleSheet(), testLevels, sound)
	t.Cleanup(g.Close)
	g.restart(context.Background(), 0)
	return g, sound
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestBuildLevels(t *testing.T) {
	builtin, err := gamedata.LoadLevelRegistry()
	if err != nil {
		t.Fatalf("LoadLevelRegistry() error = %v", err)
	}

	cfg := DefaultConfig()
	levels, err := BuildLevels(cfg)
	if err != nil {
		t.Fatalf("BuildLevels() error = %v", err)
	}
	if levels.Count() != builtin.Count() {
		t.Errorf("Count() = %d, want %d", levels.Count(), builtin.Count())
	}

	cfg.Seed = 3
	cfg.RandomLevels = 2
	levels, err = BuildLevels(cfg)
	if err != nil {
		t.Fatalf("BuildLevels(random) error = %v", err)
	}
	if levels.Count() != builtin.Count()+2 {
		t.Errorf("Count() = %d, want %d", levels.Count(), builtin.Count()+2)
	}
	level, err := levels.Level(builtin.Count())
	if err != nil {
		t.Fatalf("Level(%d) error = %v", builtin.Count(), err)
	}
	if level.Name != "Random cave 1" {
		t.Errorf("first generated level = %q, want %q", level.Name, "Random cave 1")
	}
}

func TestBuildLevelsMissingPack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LevelPack = filepath.Join(t.TempDir(), "missing.json")
	if _, err := BuildLevels(cfg); err == nil {
		t.Error("BuildLevels() with a missing pack should fail")
	}
}

func TestLevelNavigation(t *testing.T) {
	g, _ := newTestGame(t, 1)
	ctx := context.Background()
	now := time.Now()

	steps := []struct {
		ev   *tcell.EventKey
		want int
	}{
		{runeKey('+'), 1},
		{key(tcell.KeyPgUp), 2},
		{runeKey('='), 0},
		{runeKey('-'), 2},
		{key(tcell.KeyPgDn), 1},
	}
	for i, s := range steps {
		g.handleKeyEvent(ctx, s.ev, now)
		if got := g.cave.Level(); got != s.want {
			t.Fatalf("step %d: Level() = %d, want %d", i, got, s.want)
		}
	}
	if g.cave.Name() != "Two" {
		t.Errorf("Name() = %q, want %q", g.cave.Name(), "Two")
	}
}

func TestNavigationKeepsPlayers(t *testing.T) {
	g, _ := newTestGame(t, 1)
	player := g.cave.Players()[0]
	player.AddScore(7)

	g.handleKeyEvent(context.Background(), runeKey('+'), time.Now())
	if g.cave.Players()[0] != player {
		t.Error("changing level should keep the players")
	}

	g.handleKeyEvent(context.Background(), key(tcell.KeyF5), time.Now())
	if got := g.cave.Players()[0].Score(); got != 0 {
		t.Errorf("score after restart = %d, want 0", got)
	}
	if g.cave.Level() != 1 {
		t.Errorf("restart changed level to %d, want 1", g.cave.Level())
	}
}

func TestCyclePlayers(t *testing.T) {
	g, _ := newTestGame(t, 1)
	for _, want := range []int{2, 3, 4, 1} {
		g.handleKeyEvent(context.Background(), runeKey('/'), time.Now())
		if got := len(g.cave.Players()); got != want {
			t.Errorf("players = %d, want %d", got, want)
		}
	}
}

func TestPauseKey(t *testing.T) {
	g, _ := newTestGame(t, 1)
	if g.cave.Status() != world.StatusInProgress {
		t.Fatalf("Status() = %v, want in_progress", g.cave.Status())
	}
	g.handleKeyEvent(context.Background(), runeKey('p'), time.Now())
	if g.cave.Status() != world.StatusPaused {
		t.Errorf("Status() = %v, want paused", g.cave.Status())
	}
	g.handleKeyEvent(context.Background(), runeKey('P'), time.Now())
	if g.cave.Status() != world.StatusInProgress {
		t.Errorf("Status() = %v, want in_progress", g.cave.Status())
	}
}

func TestMuteKey(t *testing.T) {
	g, sound := newTestGame(t, 1)
	g.handleKeyEvent(context.Background(), runeKey('m'), time.Now())
	if !sound.muted {
		t.Error("m should mute")
	}
	g.handleKeyEvent(context.Background(), runeKey('m'), time.Now())
	if sound.muted {
		t.Error("m should unmute")
	}
}

func TestQuitKeys(t *testing.T) {
	for _, ev := range []*tcell.EventKey{key(tcell.KeyEscape), key(tcell.KeyCtrlC), runeKey('q'), runeKey('Q')} {
		g, _ := newTestGame(t, 1)
		g.handleKeyEvent(context.Background(), ev, time.Now())
		if g.running {
			t.Errorf("key %v should quit", ev.Name())
		}
	}
}

func TestFrameAppliesHeldKeys(t *testing.T) {
	g, _ := newTestGame(t, 2)
	now := time.Now()
	ctx := context.Background()

	g.handleKeyEvent(ctx, key(tcell.KeyUp), now)
	g.handleKeyEvent(ctx, runeKey('a'), now)
	g.frame(ctx, now.Add(10*time.Millisecond))

	players := g.cave.Players()
	if got := players[0].Directions(); len(got) != 1 || got[0] != entity.DirUp {
		t.Errorf("player 1 directions = %v, want [up]", got)
	}
	if got := players[1].Directions(); len(got) != 1 || got[0] != entity.DirLeft {
		t.Errorf("player 2 directions = %v, want [left]", got)
	}

	g.frame(ctx, now.Add(HoldDuration))
	if got := players[0].Directions(); len(got) != 0 {
		t.Errorf("expired directions = %v, want none", got)
	}
}

func TestKeysOfAbsentPlayersIgnored(t *testing.T) {
	g, _ := newTestGame(t, 1)
	g.handleKeyEvent(context.Background(), runeKey('i'), time.Now())
	if len(g.input.held[2]) != 0 {
		t.Error("player 3 key should be ignored with one player")
	}
}

func TestObserveTracksLevel(t *testing.T) {
	g, _ := newTestGame(t, 1)
	if g.lastLevel != 0 || g.lastStatus != world.StatusInProgress {
		t.Errorf("observed level %d status %v, want 0 in_progress", g.lastLevel, g.lastStatus)
	}
	if g.levelSpan == nil {
		t.Error("level span not started")
	}
	g.handleKeyEvent(context.Background(), runeKey('+'), time.Now())
	if g.lastLevel != 1 {
		t.Errorf("observed level %d, want 1", g.lastLevel)
	}
}

func TestLoadErrorShowsMessage(t *testing.T) {
	screen, err := ui.NewScreenFrom(tcell.NewSimulationScreen("UTF-8"))
	if err != nil {
		t.Fatalf("NewScreenFrom() error = %v", err)
	}
	empty := gamedata.NewLevelRegistry(nil)
	g := newGame(DefaultConfig(), screen, gamedata.MustLoadStyleSheet(), empty, &fakeSound{})
	t.Cleanup(g.Close)

	g.restart(context.Background(), 0)
	if !errors.Is(g.cave.Err(), world.ErrNoLevels) {
		t.Errorf("Err() = %v, want ErrNoLevels", g.cave.Err())
	}
	if g.message == "" {
		t.Error("load error should be shown")
	}
}

func TestRunStopsWhenContextDone(t *testing.T) {
	g, sound := newTestGame(t, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- g.Run(ctx) }()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not stop")
	}
	if !sound.closed {
		t.Error("Run() should close the sound output")
	}
}
