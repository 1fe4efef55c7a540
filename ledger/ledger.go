package ledger

import (
	"errors"
	"time"
)

// Phase says which half of the accumulate/DCA cycle we are in.
type Phase string

const (
	// AccumulatePending: the next action, funds allowing, is a 1-share buy.
	AccumulatePending Phase = "accumulate_pending"
	// DcaPending: holding until the price drops below the reference price,
	// then a fixed-dollar DCA buy closes the cycle.
	DcaPending Phase = "dca_pending"
)

// DateLayout is the calendar-day format used for the daily trade quota.
const DateLayout = "2006-01-02"

var ErrInvalidPrice = errors.New("invalid price")

// Ledger is the durable position record for a single instrument. It is a
// plain value: mutate it, then hand it to a Store to persist.
type Ledger struct {
	// ReferencePrice is the price paid for the most recent 1-share buy,
	// nil until the first one ever happens.
	ReferencePrice *float64 `json:"reference_price"`
	TotalInvested  float64  `json:"total_invested"`
	TotalShares    float64  `json:"total_shares"`
	Phase          Phase    `json:"phase"`
	TradesToday    int      `json:"trades_today"`
	LastTradeDate  string   `json:"last_trade_date,omitempty"`
}

// Zero is the ledger before any trade: no position, accumulate next.
func Zero() Ledger {
	return Ledger{Phase: AccumulatePending}
}

// RolloverDay resets the daily trade counter on the first call of a new
// calendar day. Returns true if anything changed; calling it again with the
// same date is a no-op.
func (l *Ledger) RolloverDay(today time.Time) bool {
	date := today.Format(DateLayout)
	if l.LastTradeDate == date {
		return false
	}
	l.TradesToday = 0
	l.LastTradeDate = date
	return true
}

// RecordTrade counts one executed trade against today's quota.
func (l *Ledger) RecordTrade() {
	l.TradesToday++
}

// ApplyUnitBuy records a confirmed 1-share buy at price and arms the DCA leg.
func (l *Ledger) ApplyUnitBuy(price float64) {
	p := price
	l.ReferencePrice = &p
	l.TotalInvested += price
	l.TotalShares += 1
	l.Phase = DcaPending
}

// ApplyDcaBuy records a confirmed fixed-dollar buy at price and restarts the
// cycle. Returns the fractional share count bought.
func (l *Ledger) ApplyDcaBuy(price, dollarAmount float64) (float64, error) {
	if price <= 0 {
		return 0, ErrInvalidPrice
	}
	shares := dollarAmount / price
	l.TotalInvested += dollarAmount
	l.TotalShares += shares
	l.Phase = AccumulatePending
	return shares, nil
}

// AvgCost is total invested per share held, 0 while flat.
func (l Ledger) AvgCost() float64 {
	if l.TotalShares <= 0 {
		return 0
	}
	return l.TotalInvested / l.TotalShares
}
