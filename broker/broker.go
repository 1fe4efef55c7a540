package broker

import (
	"context"
	"time"

	"github.com/rustyeddy/cyclebot/market"
)

type Broker interface {
	GetBuyingPower(ctx context.Context) (float64, error)
	GetLatestQuote(ctx context.Context, symbol string) (market.Quote, error)
	IsMarketOpen(ctx context.Context) (bool, error)
	SubmitMarketOrder(ctx context.Context, req MarketOrderRequest) (Order, error)
}

type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

type MarketOrderRequest struct {
	Symbol        string
	Qty           float64
	Side          Side
	ClientOrderID string
}

// Order is the broker's acknowledgement of a submitted order. Fills are not
// tracked; acceptance is all the cycle needs.
type Order struct {
	ID            string
	ClientOrderID string
	Symbol        string
	Qty           float64
	Side          Side
	SubmittedAt   time.Time
}
