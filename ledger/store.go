package ledger

import "errors"

// ErrCorrupt marks a state file that exists but cannot be trusted. Load
// still returns a usable zero ledger alongside it; the caller decides whether
// starting over is acceptable and must at least surface the warning.
var ErrCorrupt = errors.New("ledger state corrupt")

// Store persists the full ledger record. Save must be atomic: an interrupted
// write may never destroy the previous valid state.
type Store interface {
	Load() (Ledger, error)
	Save(Ledger) error
}
