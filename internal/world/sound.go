package world

// Sound identifies a sound effect requested by the simulation.
type Sound int

const (
	SoundSoil Sound = iota
	SoundPush
	SoundCrack
	SoundBoulderFall
	SoundDiamondFall
	SoundDiamond
	SoundMagic
	SoundExplosion
	SoundEntry
	SoundExit
	SoundPortal
	SoundBonus
	SoundGameOver
)

// Sounds lists every sound effect, for sinks that preload them.
var Sounds = []Sound{
	SoundSoil, SoundPush, SoundCrack, SoundBoulderFall, SoundDiamondFall, SoundDiamond,
	SoundMagic, SoundExplosion, SoundEntry, SoundExit, SoundPortal, SoundBonus, SoundGameOver,
}

// String returns the sound name.
func (s Sound) String() string {
	switch s {
	case SoundSoil:
		return "soil"
	case SoundPush:
		return "push"
	case SoundCrack:
		return "crack"
	case SoundBoulderFall:
		return "boulder_fall"
	case SoundDiamondFall:
		return "diamond_fall"
	case SoundDiamond:
		return "diamond"
	case SoundMagic:
		return "magic"
	case SoundExplosion:
		return "explosion"
	case SoundEntry:
		return "entry"
	case SoundExit:
		return "exit"
	case SoundPortal:
		return "portal"
	case SoundBonus:
		return "bonus"
	case SoundGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// SoundSink receives fire-and-forget sound requests. Play must not block.
type SoundSink interface {
	Play(s Sound)
}

// SoundFunc adapts a function to SoundSink.
type SoundFunc func(s Sound)

// Play calls f(s).
func (f SoundFunc) Play(s Sound) {
	f(s)
}

// play forwards s to the sink at most once per frame.
func (c *Cave) play(s Sound) {
	if c.sound == nil || c.played.Has(s) {
		return
	}
	c.played.Put(s)
	c.sound.Play(s)
}
