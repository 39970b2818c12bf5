package engine

// Phase is the coarse state of a round.
type Phase int

const (
	PhaseReady   Phase = iota // No reveal yet
	PhasePlaying              // At least one cell revealed
	PhaseWon                  // Every safe cell revealed (terminal)
	PhaseLost                 // A mine was revealed (terminal)
)

// String returns a lowercase name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhasePlaying:
		return "playing"
	case PhaseWon:
		return "won"
	case PhaseLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Over reports whether the phase is terminal.
func (p Phase) Over() bool {
	return p == PhaseWon || p == PhaseLost
}
