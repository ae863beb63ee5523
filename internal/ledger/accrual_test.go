package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/custodial-interest-ledger/internal/models"
)

func TestComputeInterest(t *testing.T) {
	tests := []struct {
		name    string
		balance int64
		rateBps int64
		elapsed time.Duration
		want    int64
	}{
		{name: "under one day accrues nothing", balance: 1000, rateBps: 500, elapsed: time.Hour, want: 0},
		{name: "just under the threshold", balance: 1000, rateBps: 500, elapsed: 24*time.Hour - time.Second, want: 0},
		{name: "one day rounds to zero on a small balance", balance: 1000, rateBps: 500, elapsed: 24 * time.Hour, want: 0},
		// floor(1000 * 500 * 400*86400 / (365*86400 * 10000)) = 54
		{name: "400 days on 1000 at 500 bps", balance: 1000, rateBps: 500, elapsed: 400 * 24 * time.Hour, want: 54},
		// floor(10000 * 1000 * 365*86400 / (365*86400 * 10000)) = 1000: a full
		// year at the 10% cap yields exactly 10%.
		{name: "full year at the rate cap", balance: models.MaxDeposit, rateBps: models.MaxInterestRateBps, elapsed: 365 * 24 * time.Hour, want: 1000},
		{name: "zero balance", balance: 0, rateBps: 500, elapsed: 400 * 24 * time.Hour, want: 0},
		{name: "zero rate", balance: 1000, rateBps: 0, elapsed: 400 * 24 * time.Hour, want: 0},
		// Truncation always rounds down: 2 days on 1000 at 500 bps is
		// 0.27 of a cent, not 1.
		{name: "fractional interest truncates to zero", balance: 1000, rateBps: 500, elapsed: 48 * time.Hour, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeInterest(tt.balance, tt.rateBps, tt.elapsed))
		})
	}
}

func TestAccrueInterestAppliesAndRecords(t *testing.T) {
	l := newTestLedger(t, 1000)
	ctx := context.Background()
	now := t0.Add(400 * 24 * time.Hour)

	interest, err := l.AccrueInterest(ctx, owner, now)
	require.NoError(t, err)
	assert.Equal(t, int64(54), interest)
	assert.Equal(t, int64(1054), l.Balance())
	assert.Equal(t, now, l.LastAccrual())

	records, err := l.History(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.KindInterest, records[0].Kind)
	assert.Equal(t, int64(54), records[0].Amount)
	assert.Equal(t, int64(1054), records[0].ResultingBalance)
	assert.Equal(t, now, records[0].Timestamp)
}

func TestAccrueInterestUnderThreshold(t *testing.T) {
	l := newTestLedger(t, 1000)

	interest, err := l.AccrueInterest(context.Background(), owner, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, interest)
	assertUnchanged(t, l, 1000, 0)
}

func TestAccrueInterestZeroResultDoesNotAdvanceClock(t *testing.T) {
	// One day on 1000 cents at 500 bps rounds down to zero. The accrual
	// clock must stay put so the elapsed interval keeps accumulating; a
	// later call then accrues over the whole span, not just the tail.
	l := newTestLedger(t, 1000)
	ctx := context.Background()

	interest, err := l.AccrueInterest(ctx, owner, t0.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, interest)
	assert.Equal(t, t0, l.LastAccrual())

	records, err := l.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	interest, err = l.AccrueInterest(ctx, owner, t0.Add(400*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(54), interest)
}

func TestAccrueInterestUnauthorized(t *testing.T) {
	l := newTestLedger(t, 1000)

	_, err := l.AccrueInterest(context.Background(), "intruder", t0.Add(400*24*time.Hour))
	assert.ErrorIs(t, err, ErrUnauthorized)
	assertUnchanged(t, l, 1000, 0)
}

func TestAccrueInterestZeroBalance(t *testing.T) {
	l := newTestLedger(t, 0)

	interest, err := l.AccrueInterest(context.Background(), owner, t0.Add(400*24*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, interest)
	assertUnchanged(t, l, 0, 0)
}
