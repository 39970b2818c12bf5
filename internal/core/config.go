package core

// RuntimeConfig is passed to games when a round is (re)started.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second
	Seed     int64 // RNG seed for the mine layout, 0 means time-based
}

// DefaultConfig returns a RuntimeConfig for an 80x24 terminal at 30 FPS.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		Seed:     0,
	}
}

// GameState is the summary a game reports to the platform.
type GameState struct {
	Elapsed   int  // Whole seconds on the round clock
	Remaining int  // Mines minus flags, never negative
	Revealed  int  // Safe cells revealed
	Started   bool // The first reveal has happened
	Won       bool
	GameOver  bool // Won or lost
}

// StepResult is returned by Game.Step after each tick.
type StepResult struct {
	State GameState

	// Finished is set on the one tick where the round ended, so the
	// platform records each result exactly once.
	Finished bool
}
