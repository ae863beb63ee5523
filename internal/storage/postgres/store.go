package postgres

import (
	"context"
	"database/sql"

	interfaces "github.com/sheikh-saqib/custodial-interest-ledger/internal/interfaces"
	"github.com/sheikh-saqib/custodial-interest-ledger/internal/models"
)

// Store is the postgres implementation of interfaces.RecordStore, for
// embeddings that want the append-only log durable and externally archivable.
// A bigserial seq column preserves insertion order; rows are never updated
// or deleted.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db: db,
	}
}

// EnsureSchema creates the records table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const query = `CREATE TABLE IF NOT EXISTS ledger_records (
		seq BIGSERIAL PRIMARY KEY,
		id TEXT NOT NULL UNIQUE,
		amount BIGINT NOT NULL,
		ts TIMESTAMPTZ NOT NULL,
		kind TEXT NOT NULL,
		resulting_balance BIGINT NOT NULL
	)`

	_, err := s.db.ExecContext(ctx, query)
	return err
}

func (s *Store) Append(ctx context.Context, record models.TransactionRecord) error {
	const query = `INSERT INTO ledger_records (id, amount, ts, kind, resulting_balance)
	VALUES ($1,$2,$3,$4,$5)`

	_, err := s.db.ExecContext(ctx, query,
		record.ID, record.Amount, record.Timestamp, record.Kind, record.ResultingBalance)
	return err
}

func (s *Store) Records(ctx context.Context) ([]models.TransactionRecord, error) {
	const query = `SELECT id, amount, ts, kind, resulting_balance FROM ledger_records
	ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (s *Store) RecordsPage(ctx context.Context, offset, limit int) ([]models.TransactionRecord, error) {
	const query = `SELECT id, amount, ts, kind, resulting_balance FROM ledger_records
	ORDER BY seq OFFSET $1 LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (s *Store) Len(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM ledger_records`

	var count int
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanRecords(rows *sql.Rows) ([]models.TransactionRecord, error) {
	var records []models.TransactionRecord

	for rows.Next() {
		var record models.TransactionRecord
		err := rows.Scan(
			&record.ID,
			&record.Amount,
			&record.Timestamp,
			&record.Kind,
			&record.ResultingBalance,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

var _ interfaces.RecordStore = (*Store)(nil)
