package gamedata

import (
	"errors"
	"fmt"

	"github.com/samdwyer/cavedash/internal/world"
)

// LevelDef defines a cave loaded from JSON. Rows are listed top row first.
type LevelDef struct {
	Name      string   `json:"name" jsonschema:"title=Name,description=Display name shown in the HUD,minLength=1,required"`
	Goal      int      `json:"goal" jsonschema:"title=Goal,description=Diamonds required to open the exit,minimum=0,required"`
	TimeLimit float64  `json:"timeLimit,omitempty" jsonschema:"title=Time limit,description=Seconds before the level fails; 0 disables the limit,minimum=0"`
	Wrap      bool     `json:"wrap,omitempty" jsonschema:"title=Wrap,description=Fold coordinates at the edges (torus geometry)"`
	Miner     string   `json:"miner,omitempty" jsonschema:"title=Miner,description=Miner skin,enum=miner,enum=girl"`
	Rows      []string `json:"rows" jsonschema:"title=Rows,description=Map rows from top to bottom; one character per cell,minItems=1,required"`
}

// ToLevel converts the definition to a world level.
func (d *LevelDef) ToLevel() world.Level {
	return world.Level{
		Name:      d.Name,
		Goal:      d.Goal,
		TimeLimit: d.TimeLimit,
		Wrap:      d.Wrap,
		Miner:     d.Miner,
		Rows:      d.Rows,
	}
}

// LevelsFile represents the structure of levels.json.
type LevelsFile struct {
	Levels []LevelDef `json:"levels" jsonschema:"title=Levels,description=Caves in play order,minItems=1,required"`
}

// LoadLevels loads level definitions from the embedded levels.json file.
func LoadLevels() ([]LevelDef, error) {
	file, err := Load[LevelsFile]("levels.json")
	if err != nil {
		return nil, err
	}
	return file.Levels, nil
}

// =============================================================================
// LevelRegistry
// =============================================================================

// LevelRegistry holds level definitions and serves them to a cave by index.
type LevelRegistry struct {
	levels []LevelDef
}

// NewLevelRegistry creates a registry from loaded level definitions.
func NewLevelRegistry(levels []LevelDef) *LevelRegistry {
	return &LevelRegistry{levels: levels}
}

// LoadLevelRegistry loads and creates a registry from the embedded levels.json.
func LoadLevelRegistry() (*LevelRegistry, error) {
	levels, err := LoadLevels()
	if err != nil {
		return nil, err
	}
	if len(levels) == 0 {
		return nil, errors.New("no levels loaded from levels.json")
	}
	return NewLevelRegistry(levels), nil
}

// MustLoadLevelRegistry loads a registry, panicking on error.
func MustLoadLevelRegistry() *LevelRegistry {
	registry, err := LoadLevelRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// LoadLevelPack creates a registry from a level file on disk.
func LoadLevelPack(path string) (*LevelRegistry, error) {
	file, err := LoadFile[LevelsFile](path)
	if err != nil {
		return nil, err
	}
	if len(file.Levels) == 0 {
		return nil, fmt.Errorf("%s: no levels", path)
	}
	return NewLevelRegistry(file.Levels), nil
}

// Count returns the number of levels in the registry.
func (r *LevelRegistry) Count() int {
	return len(r.levels)
}

// Level returns level i as a world level.
func (r *LevelRegistry) Level(i int) (world.Level, error) {
	if i < 0 || i >= len(r.levels) {
		return world.Level{}, fmt.Errorf("%w: %d", world.ErrLevelIndex, i)
	}
	return r.levels[i].ToLevel(), nil
}

// GetByName returns the level definition with the given name, or nil if not found.
func (r *LevelRegistry) GetByName(name string) *LevelDef {
	for i := range r.levels {
		if r.levels[i].Name == name {
			return &r.levels[i]
		}
	}
	return nil
}

// All returns all level definitions.
func (r *LevelRegistry) All() []LevelDef {
	return r.levels
}

// chain serves several level sources as one, in order.
type chain []world.Levels

// Chain concatenates level sources. Empty sources are skipped.
func Chain(sources ...world.Levels) world.Levels {
	var c chain
	for _, s := range sources {
		if s != nil && s.Count() > 0 {
			c = append(c, s)
		}
	}
	return c
}

func (c chain) Count() int {
	n := 0
	for _, s := range c {
		n += s.Count()
	}
	return n
}

func (c chain) Level(i int) (world.Level, error) {
	for _, s := range c {
		if i < s.Count() {
			return s.Level(i)
		}
		i -= s.Count()
	}
	return world.Level{}, fmt.Errorf("%w: %d", world.ErrLevelIndex, i)
}
