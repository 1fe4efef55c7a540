// Package sim is a deterministic in-memory broker for paper runs and tests.
package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rustyeddy/cyclebot/broker"
	"github.com/rustyeddy/cyclebot/market"
	"github.com/rustyeddy/cyclebot/pkg/id"
)

type Broker struct {
	mu      sync.Mutex
	balance float64
	quote   market.Quote
	open    bool
	fills   []broker.Order

	// submitErr, when set, fails the next order submission and clears.
	submitErr error
}

func New(balance float64) *Broker {
	return &Broker{balance: balance, open: true}
}

func (b *Broker) SetQuote(q market.Quote) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.quote = q
}

func (b *Broker) SetMarketOpen(open bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open = open
}

// FailNextOrder makes the next SubmitMarketOrder return err.
func (b *Broker) FailNextOrder(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.submitErr = err
}

// Fills returns every accepted order, oldest first.
func (b *Broker) Fills() []broker.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]broker.Order, len(b.fills))
	copy(out, b.fills)
	return out
}

func (b *Broker) GetBuyingPower(ctx context.Context) (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balance, nil
}

func (b *Broker) GetLatestQuote(ctx context.Context, symbol string) (market.Quote, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.quote.Price() <= 0 {
		return market.Quote{}, &broker.TransportError{Op: "get quote", Err: fmt.Errorf("no quote set for %s", symbol)}
	}
	q := b.quote
	q.Symbol = symbol
	return q, nil
}

func (b *Broker) IsMarketOpen(ctx context.Context) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open, nil
}

func (b *Broker) SubmitMarketOrder(ctx context.Context, req broker.MarketOrderRequest) (broker.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.submitErr != nil {
		err := b.submitErr
		b.submitErr = nil
		return broker.Order{}, err
	}

	cost := req.Qty * b.quote.Price()
	if cost > b.balance {
		return broker.Order{}, &broker.RejectedError{
			Symbol: req.Symbol,
			Reason: fmt.Sprintf("insufficient buying power: need %.2f, have %.2f", cost, b.balance),
		}
	}
	b.balance -= cost

	order := broker.Order{
		ID:            id.New(),
		ClientOrderID: req.ClientOrderID,
		Symbol:        req.Symbol,
		Qty:           req.Qty,
		Side:          req.Side,
		SubmittedAt:   time.Now().UTC(),
	}
	b.fills = append(b.fills, order)
	return order, nil
}
