// Package game provides the main game loop and input handling.
package game

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/cavedash/internal/audio"
	"github.com/samdwyer/cavedash/internal/entity"
	"github.com/samdwyer/cavedash/internal/gamedata"
	"github.com/samdwyer/cavedash/internal/telemetry"
	"github.com/samdwyer/cavedash/internal/ui"
	"github.com/samdwyer/cavedash/internal/world"
)

// Sound is the sound output controlled by the game.
type Sound interface {
	world.SoundSink
	SetMuted(muted bool)
	Muted() bool
	Close()
}

// Game holds the entire game state.
type Game struct {
	cfg      Config
	screen   *ui.Screen
	renderer *ui.Renderer
	cave     *world.Cave
	sound    Sound
	input    *Input
	players  int
	running  bool
	message  string

	lastStatus world.Status
	lastLevel  int
	levelSpan  trace.Span
}

// New creates a game on the terminal with the configured levels and sound.
func New(cfg Config) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	levels, err := BuildLevels(cfg)
	if err != nil {
		return nil, err
	}
	styles, err := gamedata.LoadStyleSheet()
	if err != nil {
		return nil, err
	}

	player := audio.NewPlayer(audio.Config{
		SampleRate: audio.DefaultSampleRate,
		Volume:     audio.DefaultVolume,
		Muted:      cfg.Muted,
	})
	var message string
	if !cfg.Muted {
		if err := player.Start(); err != nil {
			player.SetMuted(true)
			message = "Sound disabled: " + err.Error()
		}
	}

	screen, err := ui.NewScreen()
	if err != nil {
		player.Close()
		return nil, err
	}

	g := newGame(cfg, screen, styles, levels, player)
	g.message = message
	return g, nil
}

// newGame assembles a game from its parts.
func newGame(cfg Config, screen *ui.Screen, styles *gamedata.StyleSheet, levels world.Levels, sound Sound) *Game {
	cave := world.New(world.Config{Seed: cfg.Seed, Sound: sound})
	cave.SetLevels(levels)
	return &Game{
		cfg:        cfg,
		screen:     screen,
		renderer:   ui.NewRenderer(screen, styles),
		cave:       cave,
		sound:      sound,
		input:      NewInput(HoldDuration),
		players:    cfg.Players,
		running:    true,
		lastStatus: world.StatusNotLoaded,
		lastLevel:  -1,
	}
}

// BuildLevels returns the built-in levels, or the configured level pack,
// followed by the configured number of generated caves.
func BuildLevels(cfg Config) (world.Levels, error) {
	var (
		base *gamedata.LevelRegistry
		err  error
	)
	if cfg.LevelPack != "" {
		base, err = gamedata.LoadLevelPack(cfg.LevelPack)
	} else {
		base, err = gamedata.LoadLevelRegistry()
	}
	if err != nil {
		return nil, err
	}

	var generated world.Levels
	if cfg.RandomLevels > 0 {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		generated = world.GeneratedLevels{
			Seed:   seed,
			N:      cfg.RandomLevels,
			Width:  world.DefaultCaveWidth,
			Height: world.DefaultCaveHeight,
		}
	}

	levels := gamedata.Chain(base, generated)
	if levels.Count() == 0 {
		return nil, world.ErrNoLevels
	}
	return levels, nil
}

// Cave returns the simulated cave.
func (g *Game) Cave() *world.Cave {
	return g.cave
}

// Run executes the main game loop until the player quits or ctx is done.
func (g *Game) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("game")
	ctx, runSpan := tracer.Start(ctx, "game.run",
		trace.WithAttributes(attribute.String("session.id", telemetry.SessionID())))
	defer runSpan.End()

	// Initialize game (traced)
	_, initSpan := tracer.Start(ctx, "game.init")
	notice := g.message
	g.restart(ctx, g.cfg.Level)
	if g.message == "" {
		g.message = notice
	}
	initSpan.SetAttributes(
		attribute.Int("game.players", g.players),
		attribute.Int("game.fps", g.cfg.FPS),
		attribute.Int("game.level", g.cave.Level()),
		attribute.Bool("game.muted", g.sound.Muted()),
	)
	if err := g.cave.Err(); err != nil {
		initSpan.RecordError(err)
	}
	initSpan.End()

	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	go pollEvents(g.screen, events, done)

	ticker := time.NewTicker(time.Second / time.Duration(g.cfg.FPS))
	defer ticker.Stop()

	g.render()
	for g.running {
		select {
		case <-ctx.Done():
			g.running = false
		case ev := <-events:
			g.handleEvent(ctx, ev, time.Now())
		case now := <-ticker.C:
			g.frame(ctx, now)
			g.render()
		}
	}

	close(done)
	g.shutdown(ctx)
	return nil
}

// pollEvents forwards terminal events until the screen is finalized or done is closed.
func pollEvents(screen *ui.Screen, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// frame advances the cave by one fixed step.
func (g *Game) frame(ctx context.Context, now time.Time) {
	g.input.Apply(g.cave.Players(), now)
	g.cave.Update(1 / float64(g.cfg.FPS))
	if err := g.cave.Err(); err != nil {
		g.message = err.Error()
	}
	g.observe(ctx)
}

// observe records level changes and status transitions on the level span.
func (g *Game) observe(ctx context.Context) {
	status, level := g.cave.Status(), g.cave.Level()
	if status == g.lastStatus && level == g.lastLevel {
		return
	}

	if level != g.lastLevel || g.levelSpan == nil {
		if g.levelSpan != nil {
			g.levelSpan.End()
		}
		_, g.levelSpan = telemetry.Tracer("game").Start(ctx, "game.level",
			trace.WithAttributes(
				attribute.Int("cave.level", level),
				attribute.String("cave.name", g.cave.Name()),
				attribute.Int("game.players", g.players),
			))
	}
	g.levelSpan.AddEvent("status", trace.WithAttributes(
		attribute.String("cave.status", status.String()),
		attribute.String("cave.previous_status", g.lastStatus.String()),
		attribute.Int("cave.collected", g.cave.Collected()),
		attribute.Int("game.score", g.totalScore()),
	))

	if status == world.StatusGameOver {
		g.message = fmt.Sprintf("Game over with %d points - press F5 to restart", g.totalScore())
	} else if g.lastStatus == world.StatusGameOver || level != g.lastLevel {
		g.message = ""
	}
	g.lastStatus, g.lastLevel = status, level
}

func (g *Game) totalScore() int {
	total := 0
	for _, p := range g.cave.Players() {
		total += p.Score()
	}
	return total
}

func (g *Game) render() {
	g.renderer.Render(g.cave, g.message)
}

// handleEvent processes a single input event.
func (g *Game) handleEvent(ctx context.Context, ev tcell.Event, now time.Time) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ctx, ev, now)
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey, now time.Time) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false
		return
	case tcell.KeyF5:
		g.restart(ctx, g.cave.Level())
		return
	case tcell.KeyPgUp:
		g.load(ctx, g.cave.Level()+1)
		return
	case tcell.KeyPgDn:
		g.load(ctx, g.cave.Level()-1)
		return
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			g.running = false
			return
		case 'p', 'P':
			g.cave.TogglePause()
			return
		case 'm', 'M':
			g.sound.SetMuted(!g.sound.Muted())
			return
		case '+', '=':
			g.load(ctx, g.cave.Level()+1)
			return
		case '-':
			g.load(ctx, g.cave.Level()-1)
			return
		case '/':
			g.players = g.players%MaxPlayers + 1
			g.restart(ctx, g.cave.Level())
			return
		}
	}

	if b, ok := lookupBinding(ev); ok && b.player < g.players {
		g.input.Press(b.player, b.dir, now)
	}
}

// restart starts level with fresh players.
func (g *Game) restart(ctx context.Context, level int) {
	g.cave.SetPlayers(entity.NewPlayers(g.players))
	g.load(ctx, level)
}

// load starts level, keeping the players.
func (g *Game) load(ctx context.Context, level int) {
	g.input.Release()
	if err := g.cave.Start(ctx, level); err != nil {
		g.message = err.Error()
		return
	}
	g.message = ""
	g.observe(ctx)
}

// shutdown releases the screen and the sound output.
func (g *Game) shutdown(ctx context.Context) {
	_, span := telemetry.Tracer("game").Start(ctx, "game.shutdown")
	defer span.End()
	span.SetAttributes(
		attribute.Int("cave.level", g.cave.Level()),
		attribute.Int("game.score", g.totalScore()),
	)
	if g.levelSpan != nil {
		g.levelSpan.End()
		g.levelSpan = nil
	}
	g.Close()
}

// Close cleans up game resources.
func (g *Game) Close() {
	if g.sound != nil {
		g.sound.Close()
	}
	if g.screen != nil {
		g.screen.Close()
		g.screen = nil
	}
}
