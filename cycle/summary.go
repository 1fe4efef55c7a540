package cycle

import (
	"fmt"

	"github.com/rustyeddy/cyclebot/ledger"
)

// Summary is the caller-facing view of the position after a tick, marked to
// the supplied price.
type Summary struct {
	Symbol          string
	Phase           ledger.Phase
	ReferencePrice  *float64
	TotalInvested   float64
	TotalShares     float64
	AvgCost         float64
	MarketValue     float64
	UnrealizedPL    float64
	UnrealizedPLPct float64
	NextAction      string
}

// Summarize marks led to market at price. A zero or negative price leaves
// the mark-to-market fields at zero (no quote available).
func Summarize(led ledger.Ledger, symbol string, price float64) Summary {
	s := Summary{
		Symbol:         symbol,
		Phase:          led.Phase,
		ReferencePrice: led.ReferencePrice,
		TotalInvested:  led.TotalInvested,
		TotalShares:    led.TotalShares,
		AvgCost:        led.AvgCost(),
	}

	if price > 0 && led.TotalShares > 0 {
		s.MarketValue = led.TotalShares * price
		s.UnrealizedPL = s.MarketValue - led.TotalInvested
		if led.TotalInvested > 0 {
			s.UnrealizedPLPct = s.UnrealizedPL / led.TotalInvested * 100
		}
	}

	if led.Phase == ledger.DcaPending && led.ReferencePrice != nil {
		s.NextAction = fmt.Sprintf("DCA buy when price drops below $%.2f", *led.ReferencePrice)
	} else {
		s.NextAction = "buy 1 share at market"
	}
	return s
}
