package audio

import (
	"time"

	"github.com/gopxl/beep"

	"github.com/samdwyer/cavedash/internal/world"
)

// Effect builds the streamer for one cave sound at the given volume (0..1).
// Unknown sounds return nil.
func Effect(s world.Sound, rate beep.SampleRate, vol float64) beep.Streamer {
	var st beep.Streamer
	switch s {
	case world.SoundSoil:
		st = tone(0, 0, 40*time.Millisecond, WaveNoise, rate)
	case world.SoundPush:
		st = tone(90, 70, 120*time.Millisecond, WaveSaw, rate)
	case world.SoundCrack:
		st = beep.Mix(
			tone(0, 0, 80*time.Millisecond, WaveNoise, rate),
			newVolume(tone(300, 120, 80*time.Millisecond, WaveSquare, rate), 0.3),
		)
	case world.SoundBoulderFall:
		st = tone(110, 55, 150*time.Millisecond, WaveSquare, rate)
	case world.SoundDiamondFall:
		st = tone(1760, 1320, 90*time.Millisecond, WaveSine, rate)
	case world.SoundDiamond:
		st = beep.Seq(
			tone(1318.51, 1318.51, 60*time.Millisecond, WaveSquare, rate),
			tone(1975.53, 1975.53, 120*time.Millisecond, WaveSquare, rate),
		)
	case world.SoundMagic:
		st = tone(440, 1760, 250*time.Millisecond, WaveSine, rate)
	case world.SoundExplosion:
		st = beep.Mix(
			tone(0, 0, 500*time.Millisecond, WaveNoise, rate),
			tone(80, 30, 500*time.Millisecond, WaveSine, rate),
		)
	case world.SoundEntry:
		st = beep.Seq(
			tone(523.25, 523.25, 80*time.Millisecond, WaveSquare, rate),
			tone(659.25, 659.25, 80*time.Millisecond, WaveSquare, rate),
			tone(783.99, 783.99, 160*time.Millisecond, WaveSquare, rate),
		)
	case world.SoundExit:
		st = tone(392, 1568, 400*time.Millisecond, WaveSquare, rate)
	case world.SoundPortal:
		st = tone(1200, 200, 200*time.Millisecond, WaveSine, rate)
	case world.SoundBonus:
		st = beep.Seq(
			tone(880, 880, 70*time.Millisecond, WaveSine, rate),
			tone(1108.73, 1108.73, 70*time.Millisecond, WaveSine, rate),
			tone(1318.51, 1318.51, 140*time.Millisecond, WaveSine, rate),
		)
	case world.SoundGameOver:
		st = beep.Seq(
			tone(392, 392, 250*time.Millisecond, WaveSaw, rate),
			tone(329.63, 329.63, 250*time.Millisecond, WaveSaw, rate),
			tone(261.63, 196, 600*time.Millisecond, WaveSaw, rate),
		)
	default:
		return nil
	}
	return newVolume(st, vol*0.5)
}
