// journal/journal.go
package journal

import "time"

// Kind distinguishes the two buys the cycle makes.
type Kind string

const (
	KindUnit Kind = "unit"
	KindDca  Kind = "dca"
)

// Fill is one broker-confirmed buy. The journal is an append-only audit
// trail; the position ledger stays the source of truth for state.
type Fill struct {
	ID     string
	Time   time.Time
	Symbol string
	Kind   Kind
	Units  float64
	Price  float64
	Cost   float64
}

type Journal interface {
	RecordFill(Fill) error
	Close() error
}

// Nop discards everything, for runs with journaling disabled.
type Nop struct{}

func (Nop) RecordFill(Fill) error { return nil }
func (Nop) Close() error          { return nil }
