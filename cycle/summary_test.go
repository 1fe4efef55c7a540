package cycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/cyclebot/ledger"
)

func TestSummarizeFlatPosition(t *testing.T) {
	t.Parallel()

	s := Summarize(ledger.Zero(), "SOUN", 5)
	assert.Equal(t, ledger.AccumulatePending, s.Phase)
	assert.Nil(t, s.ReferencePrice)
	assert.Zero(t, s.MarketValue)
	assert.Zero(t, s.UnrealizedPL)
	assert.Equal(t, "buy 1 share at market", s.NextAction)
}

func TestSummarizeMarksToMarket(t *testing.T) {
	t.Parallel()

	led := ledger.Zero()
	led.ApplyUnitBuy(5)
	_, err := led.ApplyDcaBuy(4, 20)
	require.NoError(t, err)
	// 6 shares, $25 in.

	s := Summarize(led, "SOUN", 5)
	assert.InDelta(t, 25.0/6.0, s.AvgCost, 1e-9)
	assert.InDelta(t, 30.0, s.MarketValue, 1e-9)
	assert.InDelta(t, 5.0, s.UnrealizedPL, 1e-9)
	assert.InDelta(t, 20.0, s.UnrealizedPLPct, 1e-9)
	assert.Equal(t, "buy 1 share at market", s.NextAction)
}

func TestSummarizeDcaPending(t *testing.T) {
	t.Parallel()

	led := ledger.Zero()
	led.ApplyUnitBuy(5.25)

	s := Summarize(led, "SOUN", 5.5)
	require.NotNil(t, s.ReferencePrice)
	assert.Equal(t, 5.25, *s.ReferencePrice)
	assert.Equal(t, "DCA buy when price drops below $5.25", s.NextAction)
}

func TestSummarizeWithoutQuote(t *testing.T) {
	t.Parallel()

	led := ledger.Zero()
	led.ApplyUnitBuy(5)

	s := Summarize(led, "SOUN", 0)
	assert.Zero(t, s.MarketValue)
	assert.Zero(t, s.UnrealizedPL)
	assert.Equal(t, 5.0, s.AvgCost)
}

func TestResultString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		res  Result
		want string
	}{
		{
			"executed",
			Result{Outcome: Executed, Action: DcaBuy, Price: 4.5, Shares: 4.4444},
			"executed dca_buy: 4.4444 shares @ $4.50",
		},
		{
			"waiting",
			Result{Outcome: NoAction, Reason: WaitingForPriceDrop, Price: 5.5},
			"no action (waiting_for_price_drop)",
		},
		{
			"broke",
			Result{Outcome: NoAction, Reason: InsufficientFundsForUnit, Required: 5, Available: 3},
			"no action (insufficient_funds_for_unit): need $5.00, have $3.00",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.res.String())
		})
	}
}
