package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/custodial-interest-ledger/internal/models"
	"github.com/sheikh-saqib/custodial-interest-ledger/internal/models/events"
)

func TestPublishFansOutToAllSubscribers(t *testing.T) {
	notifier := NewNotifier(4)
	first := notifier.Subscribe()
	second := notifier.Subscribe()

	event := events.LedgerEvent{
		Kind:             models.KindDeposit,
		Amount:           500,
		ResultingBalance: 500,
		OccurredAt:       time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, notifier.Publish("ledger_events", event))

	assert.Equal(t, event, <-first)
	assert.Equal(t, event, <-second)
}

func TestPublishDropsWhenSubscriberIsFull(t *testing.T) {
	notifier := NewNotifier(1)
	ch := notifier.Subscribe()

	e1 := events.LedgerEvent{Kind: models.KindDeposit, Amount: 1}
	e2 := events.LedgerEvent{Kind: models.KindDeposit, Amount: 2}
	require.NoError(t, notifier.Publish("ledger_events", e1))
	// Buffer full: the second event is dropped, the publisher never blocks.
	require.NoError(t, notifier.Publish("ledger_events", e2))

	assert.Equal(t, e1, <-ch)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra event: %+v", extra)
	default:
	}
}

func TestPublishIgnoresForeignPayloads(t *testing.T) {
	notifier := NewNotifier(1)
	ch := notifier.Subscribe()

	require.NoError(t, notifier.Publish("ledger_events", "not a ledger event"))
	select {
	case extra := <-ch:
		t.Fatalf("unexpected event: %+v", extra)
	default:
	}
}
