package market

import "time"

// Quote is the latest bid/ask for one symbol.
type Quote struct {
	Symbol string
	Bid    float64
	Ask    float64
	Time   time.Time
}

// Price returns the quote price used for buy decisions: the ask, falling back
// to the bid when the feed has no ask side.
func (q Quote) Price() float64 {
	if q.Ask > 0 {
		return q.Ask
	}
	return q.Bid
}

func (q Quote) Mid() float64 {
	return (q.Bid + q.Ask) / 2
}

func (q Quote) Spread() float64 {
	return q.Ask - q.Bid
}
