// Package engine implements the Minesweeper board model and its reveal/flag
// state machine.
//
// The engine performs no I/O and holds no timer. Callers drive it with cell
// coordinates and read back change-sets, accessors and snapshots. Gameplay
// calls never fail: input that does not apply to the current state (out of
// bounds, already revealed, flagged, or after the round is over) is ignored.
// Only board construction reports errors.
package engine
