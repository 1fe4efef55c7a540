package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	ts, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return ts
}

func TestZeroState(t *testing.T) {
	t.Parallel()

	l := Zero()
	assert.Nil(t, l.ReferencePrice)
	assert.Zero(t, l.TotalInvested)
	assert.Zero(t, l.TotalShares)
	assert.Equal(t, AccumulatePending, l.Phase)
	assert.Zero(t, l.TradesToday)
	assert.Empty(t, l.LastTradeDate)
	assert.Zero(t, l.AvgCost())
}

func TestRolloverDayIdempotent(t *testing.T) {
	t.Parallel()

	l := Zero()
	l.TradesToday = 2

	assert.True(t, l.RolloverDay(date("2024-03-01")))
	assert.Zero(t, l.TradesToday)
	assert.Equal(t, "2024-03-01", l.LastTradeDate)

	// Second call on the same day changes nothing.
	l.TradesToday = 1
	assert.False(t, l.RolloverDay(date("2024-03-01")))
	assert.Equal(t, 1, l.TradesToday)

	assert.True(t, l.RolloverDay(date("2024-03-02")))
	assert.Zero(t, l.TradesToday)
}

func TestApplyUnitBuy(t *testing.T) {
	t.Parallel()

	l := Zero()
	l.ApplyUnitBuy(5)

	require.NotNil(t, l.ReferencePrice)
	assert.Equal(t, 5.0, *l.ReferencePrice)
	assert.Equal(t, 5.0, l.TotalInvested)
	assert.Equal(t, 1.0, l.TotalShares)
	assert.Equal(t, DcaPending, l.Phase)
	assert.Equal(t, 5.0, l.AvgCost())

	// A later unit buy moves the reference.
	l.Phase = AccumulatePending
	l.ApplyUnitBuy(4)
	assert.Equal(t, 4.0, *l.ReferencePrice)
	assert.Equal(t, 9.0, l.TotalInvested)
	assert.Equal(t, 2.0, l.TotalShares)
	assert.Equal(t, DcaPending, l.Phase)
}

func TestApplyDcaBuy(t *testing.T) {
	t.Parallel()

	l := Zero()
	l.ApplyUnitBuy(5)

	shares, err := l.ApplyDcaBuy(4.5, 20)
	require.NoError(t, err)
	assert.InDelta(t, 20.0/4.5, shares, 1e-9)
	assert.InDelta(t, 25.0, l.TotalInvested, 1e-9)
	assert.InDelta(t, 1+20.0/4.5, l.TotalShares, 1e-9)
	assert.Equal(t, AccumulatePending, l.Phase)
	// The reference survives until the next unit buy replaces it.
	assert.Equal(t, 5.0, *l.ReferencePrice)
}

func TestApplyDcaBuyInvalidPrice(t *testing.T) {
	t.Parallel()

	l := Zero()
	l.ApplyUnitBuy(5)
	before := l

	for _, price := range []float64{0, -0.01} {
		shares, err := l.ApplyDcaBuy(price, 20)
		assert.ErrorIs(t, err, ErrInvalidPrice)
		assert.Zero(t, shares)
		assert.Equal(t, before, l)
	}
}

func TestRecordTrade(t *testing.T) {
	t.Parallel()

	l := Zero()
	l.RecordTrade()
	l.RecordTrade()
	assert.Equal(t, 2, l.TradesToday)
}

func TestAvgCost(t *testing.T) {
	t.Parallel()

	l := Zero()
	assert.Zero(t, l.AvgCost())

	l.ApplyUnitBuy(10)
	_, err := l.ApplyDcaBuy(5, 20)
	require.NoError(t, err)

	// $30 for 5 shares.
	assert.InDelta(t, 6.0, l.AvgCost(), 1e-9)
}
