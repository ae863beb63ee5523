package events

import (
	"time"

	"github.com/sheikh-saqib/custodial-interest-ledger/internal/models"
)

// LedgerEvent is emitted after every committed balance-affecting operation so
// an embedding application can react without polling the ledger.
type LedgerEvent struct {
	Kind             models.Kind `json:"kind"`
	Amount           int64       `json:"amount"`
	ResultingBalance int64       `json:"resulting_balance"`
	OccurredAt       time.Time   `json:"occurred_at"`
}
