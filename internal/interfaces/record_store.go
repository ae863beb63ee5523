package interfaces

import (
	"context"

	"github.com/sheikh-saqib/custodial-interest-ledger/internal/models"
)

// RecordStore holds the append-only transaction log. Implementations must
// preserve insertion order and never mutate or drop an appended record.
type RecordStore interface {
	Append(ctx context.Context, record models.TransactionRecord) error
	Records(ctx context.Context) ([]models.TransactionRecord, error)
	// RecordsPage reads a slice of the log in insertion order, for embeddings
	// that archive or paginate a long-lived log externally.
	RecordsPage(ctx context.Context, offset, limit int) ([]models.TransactionRecord, error)
	Len(ctx context.Context) (int, error)
}
