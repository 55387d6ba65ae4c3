package world

// Status represents the session state of a cave.
type Status int

const (
	// StatusNotLoaded is the state before the first level is loaded.
	StatusNotLoaded Status = iota
	// StatusStarting is a freshly loaded level waiting for its entry doors to open.
	StatusStarting
	// StatusInProgress is normal play.
	StatusInProgress
	// StatusPaused freezes tiles, the settle timer and the time limit.
	StatusPaused
	// StatusSucceeded means a miner reached the opened exit.
	StatusSucceeded
	// StatusFailed means a miner died and some player still has lives.
	StatusFailed
	// StatusGameOver means every player ran out of lives.
	StatusGameOver
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusNotLoaded:
		return "not_loaded"
	case StatusStarting:
		return "starting"
	case StatusInProgress:
		return "in_progress"
	case StatusPaused:
		return "paused"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the status waits on the settle timer.
func (s Status) IsTerminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}
