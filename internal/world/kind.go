package world

// Kind tags the concrete variant of a tile.
type Kind int

const (
	KindUnknown Kind = iota
	KindSoil
	KindBrickWall
	KindMetalWall
	KindMagicWall
	KindExpandingWall
	KindBoulder
	KindDiamond
	KindCrackedBoulder
	KindMineral
	KindBalloon
	KindSmallDiamond
	KindEnergizer
	KindExplosion
	KindEntry
	KindExit
	KindMiner
	KindGirl
	KindFirefly
	KindButterfly
	KindAmoeba
	KindPortal
	KindWoodCrate
	KindMetalCrate
	KindCrateTarget
	KindKey
	KindLockedDoor
	KindActivableDoor
	KindTriggeredDoor
	KindLever

	kindCount
)

var kindNames = [kindCount]string{
	KindUnknown:        "unknown",
	KindSoil:           "soil",
	KindBrickWall:      "brick_wall",
	KindMetalWall:      "metal_wall",
	KindMagicWall:      "magic_wall",
	KindExpandingWall:  "expanding_wall",
	KindBoulder:        "boulder",
	KindDiamond:        "diamond",
	KindCrackedBoulder: "cracked_boulder",
	KindMineral:        "mineral",
	KindBalloon:        "balloon",
	KindSmallDiamond:   "small_diamond",
	KindEnergizer:      "energizer",
	KindExplosion:      "explosion",
	KindEntry:          "entry",
	KindExit:           "exit",
	KindMiner:          "miner",
	KindGirl:           "girl",
	KindFirefly:        "firefly",
	KindButterfly:      "butterfly",
	KindAmoeba:         "amoeba",
	KindPortal:         "portal",
	KindWoodCrate:      "wood_crate",
	KindMetalCrate:     "metal_crate",
	KindCrateTarget:    "crate_target",
	KindKey:            "key",
	KindLockedDoor:     "locked_door",
	KindActivableDoor:  "activable_door",
	KindTriggeredDoor:  "triggered_door",
	KindLever:          "lever",
}

// String returns the kind's identifier, as used by style tables.
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Kinds returns every tile kind.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// KindByName looks a kind up by its identifier.
func KindByName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return KindUnknown, false
}

// symbols maps level map characters to tile kinds. Blank cells map to no tile.
var symbols = map[rune]Kind{
	'.': KindSoil,
	'w': KindBrickWall,
	'W': KindMetalWall,
	'm': KindMagicWall,
	'e': KindExpandingWall,
	'r': KindBoulder,
	'd': KindDiamond,
	'k': KindCrackedBoulder,
	'n': KindMineral,
	'l': KindBalloon,
	'*': KindSmallDiamond,
	'g': KindEnergizer,
	'E': KindEntry,
	'X': KindExit,
	'f': KindFirefly,
	'b': KindButterfly,
	'a': KindAmoeba,
	'p': KindPortal,
	'c': KindWoodCrate,
	'h': KindMetalCrate,
	'+': KindCrateTarget,
	'%': KindKey,
	'L': KindLockedDoor,
	'D': KindActivableDoor,
	'T': KindTriggeredDoor,
	'/': KindLever,
}

// blanks are map characters that leave the cell empty.
var blanks = map[rune]bool{' ': true, '_': true}

// minerKinds maps level "miner" overrides to miner kinds.
var minerKinds = map[string]Kind{
	"":      KindMiner,
	"miner": KindMiner,
	"girl":  KindGirl,
}

// constructors builds a tile of each map-placeable kind at a position.
// Miners are built by entry doors since they need a player.
var constructors map[Kind]func(c *Cave, p Point) Tile

func init() {
	constructors = map[Kind]func(c *Cave, p Point) Tile{
		KindUnknown:        newUnknown,
		KindSoil:           newSoil,
		KindBrickWall:      newBrickWall,
		KindMetalWall:      newMetalWall,
		KindMagicWall:      newMagicWall,
		KindExpandingWall:  newExpandingWall,
		KindBoulder:        newBoulder,
		KindDiamond:        newDiamond,
		KindCrackedBoulder: newCrackedBoulder,
		KindMineral:        newMineral,
		KindBalloon:        newBalloon,
		KindSmallDiamond:   newSmallDiamond,
		KindEnergizer:      newEnergizer,
		KindExplosion:      newExplosion,
		KindEntry:          newEntry,
		KindExit:           newExit,
		KindFirefly:        newFirefly,
		KindButterfly:      newButterfly,
		KindAmoeba:         newAmoeba,
		KindPortal:         newPortal,
		KindWoodCrate:      newWoodCrate,
		KindMetalCrate:     newMetalCrate,
		KindCrateTarget:    newCrateTarget,
		KindKey:            newKey,
		KindLockedDoor:     newLockedDoor,
		KindActivableDoor:  newActivableDoor,
		KindTriggeredDoor:  newTriggeredDoor,
		KindLever:          newLever,
	}
}

// Symbol returns the map character for a kind, or '?' when it has none.
func (k Kind) Symbol() rune {
	for r, kind := range symbols {
		if kind == k {
			return r
		}
	}
	return '?'
}
