package world

const (
	// AmoebaMaxSize is the colony size at which every amoeba turns into a boulder.
	AmoebaMaxSize = 200

	// A neighbor is colonized with probability 1/odds per tick.
	amoebaEmptyOdds = 21
	amoebaSoilOdds  = 81

	amoebaFrames = 4
)

// Amoeba grows into empty and soil cells and absorbs insects.
type Amoeba struct {
	Base
	trapped bool
}

func newAmoeba(c *Cave, p Point) Tile {
	t := &Amoeba{}
	c.adopt(t, KindAmoeba, p)
	t.skin = c.rng.Intn(amoebaFrames)
	t.TryWait()
	return t
}

// Trapped returns true if the amoeba found no room to grow on its last tick.
func (a *Amoeba) Trapped() bool { return a.trapped }

// Tick looks for room around the amoeba and randomly grows into it.
func (a *Amoeba) Tick() {
	c := a.cave
	if c.rng.Intn(5) == 0 {
		a.skin = c.rng.Intn(amoebaFrames)
	}
	a.trapped = true
	for _, d := range orthogonal {
		n, q, ok := c.neighbor(a.pos, d)
		if !ok {
			continue
		}
		odds := amoebaEmptyOdds
		if n != nil {
			if _, soil := n.(*Soil); !soil {
				continue
			}
			odds = amoebaSoilOdds
		}
		a.trapped = false
		if c.rng.Intn(odds) == 0 {
			c.set(q, newAmoeba(c, q))
		}
	}
	a.TryWait()
}

// CanBeOccupied admits insects.
func (a *Amoeba) CanBeOccupied(by Tile, d Point) bool {
	_, ok := by.(*Insect)
	return ok
}

// OnDestroy kills the insect that entered the cell: the amoeba takes the
// cell back and the insect explodes as it does when crushed.
func (a *Amoeba) OnDestroy() {
	in, ok := a.cave.at(a.pos).(*Insect)
	if !ok {
		return
	}
	a.cave.set(a.pos, newAmoeba(a.cave, a.pos))
	in.OnDestroy()
}

// amoebaHook converts the colony as a whole: into boulders once it grew too
// large, otherwise into diamonds once no member can grow.
func amoebaHook(c *Cave) {
	colony := tilesOf[*Amoeba](c)
	if len(colony) == 0 {
		return
	}
	if len(colony) >= AmoebaMaxSize {
		for _, a := range colony {
			c.ReplaceKind(a, KindBoulder)
		}
		c.play(SoundBoulderFall)
		return
	}
	for _, a := range colony {
		if !a.trapped {
			return
		}
	}
	for _, a := range colony {
		c.ReplaceKind(a, KindDiamond)
	}
	c.play(SoundDiamond)
}
