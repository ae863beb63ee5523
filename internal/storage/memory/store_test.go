package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/custodial-interest-ledger/internal/models"
)

func record(id string, amount, balance int64) models.TransactionRecord {
	return models.TransactionRecord{
		ID:               id,
		Amount:           amount,
		Timestamp:        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Kind:             models.KindDeposit,
		ResultingBalance: balance,
	}
}

func TestAppendPreservesOrder(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, record("a", 10, 10)))
	require.NoError(t, store.Append(ctx, record("b", 20, 30)))
	require.NoError(t, store.Append(ctx, record("c", 5, 35)))

	records, err := store.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "a", records[0].ID)
	assert.Equal(t, "b", records[1].ID)
	assert.Equal(t, "c", records[2].ID)

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRecordsReturnsCopy(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, record("a", 10, 10)))

	first, err := store.Records(ctx)
	require.NoError(t, err)
	first[0].Amount = 12345

	second, err := store.Records(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), second[0].Amount)
}

func TestRecordsPage(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	ids := []string{"a", "b", "c", "d", "e"}
	for i, id := range ids {
		require.NoError(t, store.Append(ctx, record(id, int64(i+1), int64(i+1))))
	}

	tests := []struct {
		name    string
		offset  int
		limit   int
		wantIDs []string
	}{
		{name: "middle page", offset: 1, limit: 2, wantIDs: []string{"b", "c"}},
		{name: "past the end is clamped", offset: 3, limit: 10, wantIDs: []string{"d", "e"}},
		{name: "offset beyond log", offset: 10, limit: 2, wantIDs: []string{}},
		{name: "negative offset", offset: -1, limit: 2, wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := store.RecordsPage(ctx, tt.offset, tt.limit)
			require.NoError(t, err)
			got := make([]string, 0, len(page))
			for _, r := range page {
				got = append(got, r.ID)
			}
			assert.Equal(t, tt.wantIDs, got)
		})
	}
}
