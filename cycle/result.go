package cycle

import "fmt"

// Action is what a tick did (or tried to do).
type Action string

const (
	UnitBuy Action = "unit_buy"
	DcaBuy  Action = "dca_buy"
)

// Reason says why a tick took no action. All of these are expected steady
// states, not failures.
type Reason string

const (
	DailyLimitReached        Reason = "daily_limit_reached"
	InsufficientFundsForUnit Reason = "insufficient_funds_for_unit"
	WaitingForPriceDrop      Reason = "waiting_for_price_drop"
	InsufficientFundsForDca  Reason = "insufficient_funds_for_dca"
)

type Outcome int

const (
	NoAction Outcome = iota
	Executed
	Failed
)

// Result is the structured outcome of one tick.
type Result struct {
	Outcome Outcome
	Action  Action // Executed and Failed
	Reason  Reason // NoAction
	Price   float64
	Shares  float64 // Executed: units bought
	Err     error   // Failed: the broker (or validation) error

	// Set for the insufficient-funds reasons.
	Required  float64
	Available float64
}

func (r Result) String() string {
	switch r.Outcome {
	case Executed:
		return fmt.Sprintf("executed %s: %.4f shares @ $%.2f", r.Action, r.Shares, r.Price)
	case Failed:
		return fmt.Sprintf("failed %s @ $%.2f: %v", r.Action, r.Price, r.Err)
	default:
		switch r.Reason {
		case InsufficientFundsForUnit, InsufficientFundsForDca:
			return fmt.Sprintf("no action (%s): need $%.2f, have $%.2f", r.Reason, r.Required, r.Available)
		default:
			return fmt.Sprintf("no action (%s)", r.Reason)
		}
	}
}
