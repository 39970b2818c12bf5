package minesweeper

import "time"

// Stopwatch measures round time on the wall clock, so slow or delayed ticks
// never slow it down.
type Stopwatch struct {
	now     func() time.Time
	started time.Time
	elapsed time.Duration // Accumulated before the current run
	running bool
}

// NewStopwatch creates a stopped stopwatch reading now, or time.Now if nil.
func NewStopwatch(now func() time.Time) Stopwatch {
	if now == nil {
		now = time.Now
	}
	return Stopwatch{now: now}
}

// Start resumes counting. Starting a running stopwatch is a no-op.
func (s *Stopwatch) Start() {
	if s.running {
		return
	}
	s.started = s.now()
	s.running = true
}

// Stop freezes the current value.
func (s *Stopwatch) Stop() {
	if !s.running {
		return
	}
	s.elapsed += s.now().Sub(s.started)
	s.running = false
}

// Elapsed returns the total measured time.
func (s *Stopwatch) Elapsed() time.Duration {
	if s.running {
		return s.elapsed + s.now().Sub(s.started)
	}
	return s.elapsed
}

// Seconds returns the whole seconds measured so far. The HUD clamps the
// value with engine.FormatCounter; stored results keep the real time.
func (s *Stopwatch) Seconds() int {
	return int(s.Elapsed() / time.Second)
}
