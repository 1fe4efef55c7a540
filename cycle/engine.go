package cycle

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/cyclebot/broker"
	"github.com/rustyeddy/cyclebot/ledger"
	"github.com/rustyeddy/cyclebot/pkg/id"
)

// DailyTradeCap is the most trades (unit + DCA combined) allowed per
// calendar day.
const DailyTradeCap = 2

// Input is everything one tick evaluates: a fresh price and balance plus the
// wall clock for daily-quota bookkeeping.
type Input struct {
	Price   float64
	Balance float64
	Now     time.Time
}

// Engine runs the accumulate/DCA cycle for one instrument.
//
// Each Tick is one pass through the rule set: roll the daily counter, check
// the quota, then either buy 1 share (accumulate phase) or buy a fixed dollar
// amount once the price drops below the last unit-buy price (DCA phase).
// The ledger is only mutated, and only persisted, after the broker accepts
// an order, so a failed submission leaves state exactly as it was.
type Engine struct {
	symbol    string
	dcaAmount float64
	broker    broker.Broker
	store     ledger.Store
}

func NewEngine(symbol string, dcaAmount float64, b broker.Broker, store ledger.Store) *Engine {
	return &Engine{
		symbol:    symbol,
		dcaAmount: dcaAmount,
		broker:    b,
		store:     store,
	}
}

// Tick evaluates the cycle once against led and returns the (possibly
// updated) ledger and a structured result. Broker failures come back inside
// the Result; the returned error is reserved for conditions the bot cannot
// continue from, which is persistence failing underneath a confirmed trade
// or counter reset.
func (e *Engine) Tick(ctx context.Context, led ledger.Ledger, in Input) (ledger.Ledger, Result, error) {
	if in.Price <= 0 {
		return led, Result{
			Outcome: Failed,
			Price:   in.Price,
			Err:     fmt.Errorf("quote price %v: %w", in.Price, ledger.ErrInvalidPrice),
		}, nil
	}

	if led.RolloverDay(in.Now) {
		if err := e.store.Save(led); err != nil {
			return led, Result{}, fmt.Errorf("persist day rollover: %w", err)
		}
	}

	if led.TradesToday >= DailyTradeCap {
		return led, Result{Outcome: NoAction, Reason: DailyLimitReached, Price: in.Price}, nil
	}

	if led.Phase == ledger.DcaPending {
		return e.tickDca(ctx, led, in)
	}
	return e.tickUnit(ctx, led, in)
}

func (e *Engine) tickUnit(ctx context.Context, led ledger.Ledger, in Input) (ledger.Ledger, Result, error) {
	if in.Balance < in.Price {
		return led, Result{
			Outcome:   NoAction,
			Reason:    InsufficientFundsForUnit,
			Price:     in.Price,
			Required:  in.Price,
			Available: in.Balance,
		}, nil
	}

	if err := e.submit(ctx, 1); err != nil {
		return led, Result{Outcome: Failed, Action: UnitBuy, Price: in.Price, Err: err}, nil
	}

	led.ApplyUnitBuy(in.Price)
	led.RecordTrade()
	if err := e.store.Save(led); err != nil {
		return led, Result{}, fmt.Errorf("persist unit buy: %w", err)
	}
	return led, Result{Outcome: Executed, Action: UnitBuy, Price: in.Price, Shares: 1}, nil
}

func (e *Engine) tickDca(ctx context.Context, led ledger.Ledger, in Input) (ledger.Ledger, Result, error) {
	ref := *led.ReferencePrice

	if in.Price >= ref {
		return led, Result{Outcome: NoAction, Reason: WaitingForPriceDrop, Price: in.Price}, nil
	}
	if in.Balance < e.dcaAmount {
		return led, Result{
			Outcome:   NoAction,
			Reason:    InsufficientFundsForDca,
			Price:     in.Price,
			Required:  e.dcaAmount,
			Available: in.Balance,
		}, nil
	}

	qty := e.dcaAmount / in.Price
	if err := e.submit(ctx, qty); err != nil {
		return led, Result{Outcome: Failed, Action: DcaBuy, Price: in.Price, Err: err}, nil
	}

	shares, err := led.ApplyDcaBuy(in.Price, e.dcaAmount)
	if err != nil {
		// Unreachable given the price guard above, but never mutate on error.
		return led, Result{Outcome: Failed, Action: DcaBuy, Price: in.Price, Err: err}, nil
	}
	led.RecordTrade()
	if err := e.store.Save(led); err != nil {
		return led, Result{}, fmt.Errorf("persist dca buy: %w", err)
	}
	return led, Result{Outcome: Executed, Action: DcaBuy, Price: in.Price, Shares: shares}, nil
}

func (e *Engine) submit(ctx context.Context, qty float64) error {
	_, err := e.broker.SubmitMarketOrder(ctx, broker.MarketOrderRequest{
		Symbol:        e.symbol,
		Qty:           qty,
		Side:          broker.Buy,
		ClientOrderID: id.New(),
	})
	return err
}
