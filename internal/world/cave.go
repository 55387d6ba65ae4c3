package world

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/zyedidia/generic/mapset"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/cavedash/internal/entity"
	"github.com/samdwyer/cavedash/internal/telemetry"
)

// DefaultSettleDelay is the pause in seconds between a terminal status and the level change.
const DefaultSettleDelay = 0.25

// Level describes one cave. Rows are authored top row first.
type Level struct {
	Name      string
	Goal      int
	TimeLimit float64 // seconds, zero means no limit
	Wrap      bool
	Miner     string // "", "miner" or "girl"
	Rows      []string
}

// Levels provides level descriptors by index.
type Levels interface {
	Count() int
	Level(i int) (Level, error)
}

// Config holds cave options.
type Config struct {
	// Seed for the random source driving rolls, growth and animation.
	// A seed of 0 means a random seed will be generated.
	Seed int64
	// Sound receives sound requests. May be nil.
	Sound SoundSink
	// SettleDelay overrides DefaultSettleDelay when positive.
	SettleDelay float64
}

// Load errors.
var (
	ErrNoRows           = errors.New("level has no rows")
	ErrNegativeGoal     = errors.New("level goal is negative")
	ErrNegativeTime     = errors.New("level time limit is negative")
	ErrUnknownMinerKind = errors.New("unknown miner kind")
	ErrNoLevels         = errors.New("no levels available")
)

// Cave is the tile grid of one level plus the session state.
// It is not safe for concurrent use.
type Cave struct {
	width, height int
	front         []Tile
	back          []Tile

	collected     int
	goal          int
	status        Status
	statusTimer   float64
	settleDelay   float64
	wrap          bool
	minerKind     Kind
	timeLimit     float64
	timeRemaining float64
	level         int
	name          string

	levels  Levels
	players []*entity.Player
	placed  mapset.Set[*entity.Player]
	hooks   []func(*Cave)

	rng    *rand.Rand
	sound  SoundSink
	played mapset.Set[Sound]

	serial        uint64
	pendingPortal *Portal
	ids           map[Kind]int
	unknown       int
	lastErr       error
}

// New creates an empty cave. Nothing is loaded until Start or Load is called.
func New(cfg Config) *Cave {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	settle := cfg.SettleDelay
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	return &Cave{
		status:      StatusNotLoaded,
		settleDelay: settle,
		rng:         rand.New(rand.NewSource(seed)),
		sound:       cfg.Sound,
		played:      mapset.New[Sound](),
		placed:      mapset.New[*entity.Player](),
		hooks:       []func(*Cave){amoebaHook, crateHook},
	}
}

// SetLevels sets the level source used by Start and level transitions.
func (c *Cave) SetLevels(levels Levels) {
	c.levels = levels
}

// SetPlayers sets the players whose miners enter through entry doors.
func (c *Cave) SetPlayers(players []*entity.Player) {
	c.players = players
}

// Players returns the session players.
func (c *Cave) Players() []*entity.Player {
	return c.players
}

// Start loads level i of the level source, wrapping out of range indices.
func (c *Cave) Start(ctx context.Context, i int) error {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "cave.load")
	defer span.End()

	if c.levels == nil || c.levels.Count() == 0 {
		c.lastErr = ErrNoLevels
		span.RecordError(ErrNoLevels)
		return ErrNoLevels
	}
	n := c.levels.Count()
	i = ((i % n) + n) % n

	level, err := c.levels.Level(i)
	if err == nil {
		err = c.Load(level)
	}
	if err != nil {
		c.lastErr = fmt.Errorf("start level %d: %w", i, err)
		span.RecordError(c.lastErr)
		return c.lastErr
	}
	c.level = i
	c.lastErr = nil

	span.SetAttributes(
		attribute.Int("cave.level", i),
		attribute.String("cave.name", c.name),
		attribute.Int("cave.width", c.width),
		attribute.Int("cave.height", c.height),
		attribute.Int("cave.goal", c.goal),
		attribute.Int("cave.unknown_symbols", c.unknown),
	)
	return nil
}

// Load replaces the grid with the given level. A level without entry doors
// starts in progress, otherwise the cave waits for its doors to open.
func (c *Cave) Load(level Level) error {
	if len(level.Rows) == 0 {
		return ErrNoRows
	}
	if level.Goal < 0 {
		return ErrNegativeGoal
	}
	if level.TimeLimit < 0 {
		return ErrNegativeTime
	}
	miner, ok := minerKinds[level.Miner]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMinerKind, level.Miner)
	}

	rows := make([][]rune, len(level.Rows))
	width := 0
	for r, row := range level.Rows {
		rows[r] = []rune(row)
		width = max(width, len(rows[r]))
	}
	if width == 0 {
		return ErrNoRows
	}

	c.width, c.height = width, len(rows)
	c.front = make([]Tile, c.width*c.height)
	c.back = make([]Tile, c.width*c.height)
	c.collected = 0
	c.goal = level.Goal
	c.wrap = level.Wrap
	c.minerKind = miner
	c.timeLimit = level.TimeLimit
	c.timeRemaining = level.TimeLimit
	c.name = level.Name
	c.placed = mapset.New[*entity.Player]()
	c.pendingPortal = nil
	c.ids = make(map[Kind]int)
	c.unknown = 0
	c.statusTimer = 0

	entries := 0
	for y := 0; y < c.height; y++ {
		row := rows[c.height-1-y]
		for x := 0; x < c.width; x++ {
			r := ' '
			if x < len(row) {
				r = row[x]
			}
			if blanks[r] {
				continue
			}
			kind, ok := symbols[r]
			if !ok {
				kind = KindUnknown
				c.unknown++
			}
			p := Point{x, y}
			t := c.spawn(kind, p)
			if kind == KindCrateTarget {
				c.back[c.index(p)] = t
				continue
			}
			if kind == KindEntry {
				entries++
			}
			c.set(p, t)
		}
	}

	if entries == 0 {
		c.status = StatusInProgress
	} else {
		c.status = StatusStarting
	}
	return nil
}

// Err returns the error of the last failed level load, if any.
func (c *Cave) Err() error {
	return c.lastErr
}

// ============================================================================
// Session state
// ============================================================================

// Status returns the session status.
func (c *Cave) Status() Status {
	return c.status
}

// setStatus changes the status and arms the settle timer.
func (c *Cave) setStatus(s Status) {
	c.status = s
	if s.IsTerminal() {
		c.statusTimer = c.settleDelay
	}
}

// TogglePause switches between in progress and paused.
func (c *Cave) TogglePause() {
	switch c.status {
	case StatusInProgress:
		c.status = StatusPaused
	case StatusPaused:
		c.status = StatusInProgress
	}
}

// IsComplete returns true once enough diamonds were collected.
func (c *Cave) IsComplete() bool {
	return c.collected >= c.goal
}

// Collected returns the number of diamonds collected on this level.
func (c *Cave) Collected() int { return c.collected }

// Goal returns the number of diamonds required to open the exit.
func (c *Cave) Goal() int { return c.goal }

// TimeLimit returns the level time limit in seconds, zero when unlimited.
func (c *Cave) TimeLimit() float64 { return c.timeLimit }

// TimeRemaining returns the seconds left before the level fails.
func (c *Cave) TimeRemaining() float64 { return c.timeRemaining }

// Level returns the index of the loaded level.
func (c *Cave) Level() int { return c.level }

// Name returns the name of the loaded level.
func (c *Cave) Name() string { return c.name }

// Width returns the grid width.
func (c *Cave) Width() int { return c.width }

// Height returns the grid height.
func (c *Cave) Height() int { return c.height }

// Wraps returns true if coordinates fold at the grid edges.
func (c *Cave) Wraps() bool { return c.wrap }

// UnknownSymbols returns how many map symbols were loaded as placeholders.
func (c *Cave) UnknownSymbols() int { return c.unknown }

// onKill decides the outcome after a player lost a life.
func (c *Cave) onKill() {
	if entity.AnyAlive(c.players) {
		if c.status != StatusSucceeded {
			c.setStatus(StatusFailed)
		}
		return
	}
	c.setStatus(StatusGameOver)
	c.play(SoundGameOver)
}

// ============================================================================
// Grid access
// ============================================================================

func (c *Cave) index(p Point) int {
	return p.Y*c.width + p.X
}

// fold applies the wrap policy. It returns false for cells outside a non-wrapping grid.
func (c *Cave) fold(p Point) (Point, bool) {
	if c.wrap {
		p.X = ((p.X % c.width) + c.width) % c.width
		p.Y = ((p.Y % c.height) + c.height) % c.height
		return p, true
	}
	return p, p.X >= 0 && p.Y >= 0 && p.X < c.width && p.Y < c.height
}

// at returns the front tile at an in-bounds cell.
func (c *Cave) at(p Point) Tile {
	return c.front[c.index(p)]
}

// set writes t to an in-bounds cell and returns the previous occupant.
func (c *Cave) set(p Point, t Tile) Tile {
	i := c.index(p)
	prev := c.front[i]
	c.front[i] = t
	if t != nil {
		t.base().pos = p
	}
	return prev
}

// At returns the front tile at (x, y), or nil for empty or out of bounds cells.
func (c *Cave) At(x, y int) Tile {
	p, ok := c.fold(Point{x, y})
	if !ok {
		return nil
	}
	return c.at(p)
}

// Back returns the background tile at (x, y), or nil.
func (c *Cave) Back(x, y int) Tile {
	p, ok := c.fold(Point{x, y})
	if !ok {
		return nil
	}
	return c.back[c.index(p)]
}

// neighbor returns the front tile at p+d after wrapping, with its cell.
func (c *Cave) neighbor(p, d Point) (Tile, Point, bool) {
	q, ok := c.fold(p.Add(d))
	if !ok {
		return nil, q, false
	}
	return c.at(q), q, true
}

// isOccupant reports whether t is still the tile recorded in its cell.
func (c *Cave) isOccupant(t Tile) bool {
	b := t.base()
	if b.cave != c {
		return false
	}
	occ := c.at(b.pos)
	return occ != nil && occ.base().serial == b.serial
}

// Tiles returns the front tiles of the given kinds in update order, or all of them.
func (c *Cave) Tiles(kinds ...Kind) []Tile {
	return c.collect(c.front, kinds)
}

// BackTiles returns the background tiles of the given kinds, or all of them.
func (c *Cave) BackTiles(kinds ...Kind) []Tile {
	return c.collect(c.back, kinds)
}

func (c *Cave) collect(grid []Tile, kinds []Kind) []Tile {
	var out []Tile
	for _, t := range grid {
		if t == nil {
			continue
		}
		if len(kinds) == 0 {
			out = append(out, t)
			continue
		}
		for _, k := range kinds {
			if t.Kind() == k {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// tilesOf returns the front tiles implementing T, in update order.
func tilesOf[T Tile](c *Cave) []T {
	var out []T
	for _, t := range c.front {
		if v, ok := t.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// ============================================================================
// Tile lifecycle
// ============================================================================

// adopt binds a freshly built tile to the cave and assigns its serial.
func (c *Cave) adopt(t Tile, kind Kind, p Point) {
	c.serial++
	b := t.base()
	b.cave = c
	b.self = t
	b.kind = kind
	b.pos = p
	b.serial = c.serial
	b.speed = DefaultSpeed
	b.tier = TierMedium
}

// spawn builds a tile of the given kind at p without placing it.
func (c *Cave) spawn(k Kind, p Point) Tile {
	build, ok := constructors[k]
	if !ok {
		build = newUnknown
	}
	return build(c, p)
}

// nextID numbers tiles of a kind in load order, modulo the number of key colors.
func (c *Cave) nextID(k Kind) int {
	id := c.ids[k] % 3
	c.ids[k]++
	return id
}

// Replace puts by in t's cell and destroys t, if t is still the occupant.
// by may be nil to empty the cell.
func (c *Cave) Replace(t Tile, by Tile) {
	if !c.isOccupant(t) {
		return
	}
	c.set(t.Pos(), by)
	t.OnDestroy()
}

// ReplaceKind replaces t with a new tile of kind k.
func (c *Cave) ReplaceKind(t Tile, k Kind) {
	if !c.isOccupant(t) {
		return
	}
	c.Replace(t, c.spawn(k, t.Pos()))
}

// ReplaceAll replaces every front tile of kind from with a new tile of kind to.
func (c *Cave) ReplaceAll(from, to Kind) {
	for _, t := range c.Tiles(from) {
		c.ReplaceKind(t, to)
	}
}

// Explode turns the 3x3 block around center into tiles of kind k.
// Cells that are empty, or breakable and not already of kind k, are replaced.
func (c *Cave) Explode(center Point, k Kind) {
	c.play(SoundExplosion)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			p, ok := c.fold(center.Add(Point{dx, dy}))
			if !ok {
				continue
			}
			t := c.at(p)
			if t != nil && (t.Kind() == k || !t.CanBreak()) {
				continue
			}
			c.set(p, c.spawn(k, p))
			if t != nil {
				t.OnDestroy()
			}
		}
	}
}
