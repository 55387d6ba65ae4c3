package audio

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/samdwyer/cavedash/internal/world"
)

const (
	// DefaultSampleRate is the speaker sample rate.
	DefaultSampleRate beep.SampleRate = 44100
	// DefaultVolume is the master volume (0..1).
	DefaultVolume = 0.6

	// queueSize bounds pending sound requests. Requests beyond it are dropped.
	queueSize = 32
)

// Config holds the audio settings.
type Config struct {
	SampleRate beep.SampleRate
	Volume     float64
	Muted      bool
}

// DefaultConfig returns the default audio settings.
func DefaultConfig() Config {
	return Config{
		SampleRate: DefaultSampleRate,
		Volume:     DefaultVolume,
	}
}

// Player is a world.SoundSink that synthesizes effects into a speaker mixer.
// Play never blocks: requests go through a bounded queue drained by a
// background goroutine.
type Player struct {
	cfg    Config
	mixer  *beep.Mixer
	queue  chan world.Sound
	muted  atomic.Bool
	played atomic.Int64

	mu      sync.Mutex
	started bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewPlayer creates a stopped player. Call Start to open the speaker.
func NewPlayer(cfg Config) *Player {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	p := &Player{
		cfg:   cfg,
		mixer: &beep.Mixer{},
		queue: make(chan world.Sound, queueSize),
	}
	p.muted.Store(cfg.Muted)
	return p
}

// Start initializes the speaker and begins draining the queue.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}

	if err := speaker.Init(p.cfg.SampleRate, p.cfg.SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("audio: init speaker: %w", err)
	}
	speaker.Play(p.mixer)

	p.startLocked(func(s beep.Streamer) {
		speaker.Lock()
		p.mixer.Add(s)
		speaker.Unlock()
	})
	return nil
}

func (p *Player) startLocked(add func(beep.Streamer)) {
	p.started = true
	p.done = make(chan struct{})
	p.wg.Add(1)
	go p.run(add)
}

func (p *Player) run(add func(beep.Streamer)) {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case s := <-p.queue:
			if st := Effect(s, p.cfg.SampleRate, p.cfg.Volume); st != nil {
				add(st)
				p.played.Add(1)
			}
		}
	}
}

// Play queues s. It is dropped when muted or when the queue is full.
func (p *Player) Play(s world.Sound) {
	if p.muted.Load() {
		return
	}
	select {
	case p.queue <- s:
	default:
	}
}

// SetMuted silences or restores playback. Muting clears sounds in flight.
func (p *Player) SetMuted(muted bool) {
	p.muted.Store(muted)
	if !muted {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		speaker.Lock()
		p.mixer.Clear()
		speaker.Unlock()
	}
}

// Muted returns true if playback is silenced.
func (p *Player) Muted() bool {
	return p.muted.Load()
}

// Played returns the number of effects handed to the mixer.
func (p *Player) Played() int64 {
	return p.played.Load()
}

// Close stops the queue and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	close(p.done)
	p.wg.Wait()
	p.started = false
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
}
