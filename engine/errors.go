// Package engine implements the deterministic battle core: the hex grid,
// the per-epoch pipeline (movement, items, prediction, combat, storm, bleed,
// death, respawn), and the Arena orchestrator that owns all battle state.
package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors for the grid accessors and the arena state machine.
// Accessor errors never escape the engine; one reaching a caller is promoted
// to a BugError.
var (
	ErrInvalidState = errors.New("battle not active")
	ErrOutOfBounds  = errors.New("coordinate outside arena")
	ErrTileOccupied = errors.New("tile already occupied")
	ErrTileEmpty    = errors.New("tile has no occupant")
)

// BugError is an internal invariant violation. The epoch aborts and the
// error propagates with enough context to reproduce the run.
type BugError struct {
	BattleID string
	Epoch    int
	Msg      string
	Err      error
}

func (e *BugError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("engine bug: battle %s epoch %d: %s: %v", e.BattleID, e.Epoch, e.Msg, e.Err)
	}
	return fmt.Sprintf("engine bug: battle %s epoch %d: %s", e.BattleID, e.Epoch, e.Msg)
}

func (e *BugError) Unwrap() error { return e.Err }

// IsBug reports whether err is an invariant violation.
func IsBug(err error) bool {
	var b *BugError
	return errors.As(err, &b)
}

func bugf(battleID string, epoch int, format string, args ...any) *BugError {
	return &BugError{BattleID: battleID, Epoch: epoch, Msg: fmt.Sprintf(format, args...)}
}
