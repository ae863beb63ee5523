package memory

import (
	"context"
	"sync"

	interfaces "github.com/sheikh-saqib/custodial-interest-ledger/internal/interfaces"
	"github.com/sheikh-saqib/custodial-interest-ledger/internal/models"
)

// Store is the in-memory implementation of interfaces.RecordStore. Records
// live in an append-only slice; reads hand out copies so callers can never
// alias or mutate the internal log.
type Store struct {
	mu      sync.Mutex
	records []models.TransactionRecord
}

// NewStore creates an empty in-memory record store.
func NewStore() *Store {
	return &Store{
		records: make([]models.TransactionRecord, 0),
	}
}

// Append adds a record to the end of the log. Never fails in memory.
func (s *Store) Append(_ context.Context, record models.TransactionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record)
	return nil
}

// Records returns a copy of the full log in insertion order.
func (s *Store) Records(_ context.Context) ([]models.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]models.TransactionRecord, len(s.records))
	copy(copied, s.records)
	return copied, nil
}

// RecordsPage returns up to limit records starting at offset, in insertion
// order. Out-of-range pages return an empty slice, not an error.
func (s *Store) RecordsPage(_ context.Context, offset, limit int) ([]models.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if offset < 0 || limit < 0 || offset >= len(s.records) {
		return []models.TransactionRecord{}, nil
	}
	end := offset + limit
	if end > len(s.records) {
		end = len(s.records)
	}
	copied := make([]models.TransactionRecord, end-offset)
	copy(copied, s.records[offset:end])
	return copied, nil
}

// Len returns the number of appended records.
func (s *Store) Len(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records), nil
}

// Compile-time check: Store implements the RecordStore interface.
var _ interfaces.RecordStore = (*Store)(nil)
