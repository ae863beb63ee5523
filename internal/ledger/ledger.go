package ledger

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sheikh-saqib/custodial-interest-ledger/internal/interfaces"
	"github.com/sheikh-saqib/custodial-interest-ledger/internal/models"
	"github.com/sheikh-saqib/custodial-interest-ledger/internal/models/events"
)

// Topic the publisher receives every committed ledger event on.
const EventsTopic = "ledger_events"

// Ledger is the single-owner custodial ledger. It owns the balance, the
// interest-rate parameter, the last-accrual timestamp, and writes the
// append-only transaction log through a RecordStore.
//
// One mutex serializes every operation, so each read-modify-append is atomic:
// an observer sees either all effects of an operation or none. The ledger
// never reads a clock; callers supply the current time explicitly, which
// keeps accrual deterministic and testable.
type Ledger struct {
	mu sync.Mutex

	owner          string
	balance        int64
	initialBalance int64
	rateBps        int64
	lastAccrual    time.Time

	store     interfaces.RecordStore
	publisher interfaces.EventPublisher
	log       logrus.FieldLogger
}

// Option configures optional ledger collaborators.
type Option func(*Ledger)

// WithPublisher wires an event publisher; every committed operation emits a
// LedgerEvent through it.
func WithPublisher(p interfaces.EventPublisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

// WithLogger replaces the default logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Ledger) { l.log = log }
}

// New creates a ledger holding initialBalance for owner. The interest rate
// defaults to models.DefaultInterestRateBps and the accrual clock starts at
// now. The owner identity is fixed for the ledger's lifetime.
func New(initialBalance int64, owner string, now time.Time, store interfaces.RecordStore, opts ...Option) (*Ledger, error) {
	if initialBalance < 0 {
		return nil, ErrInvalidAmount
	}
	if owner == "" {
		return nil, errors.New("owner identity is required")
	}
	if store == nil {
		return nil, errors.New("record store is required")
	}

	l := &Ledger{
		owner:          owner,
		balance:        initialBalance,
		initialBalance: initialBalance,
		rateBps:        models.DefaultInterestRateBps,
		lastAccrual:    now,
		store:          store,
		log:            logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Deposit adds amount to the balance and appends a deposit record.
// Only the owner may deposit. The amount must be positive, within
// models.MaxDeposit, and must not push the balance past models.MaxDeposit.
// No state changes on any failure path.
func (l *Ledger) Deposit(ctx context.Context, caller string, amount int64, now time.Time) (int64, error) {
	if err := l.authorize(caller, OpDeposit); err != nil {
		return 0, err
	}
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if amount > models.MaxDeposit || l.balance+amount > models.MaxDeposit {
		return 0, ErrLimitExceeded
	}
	return l.commit(ctx, models.KindDeposit, amount, l.balance+amount, now)
}

// Withdraw removes amount from the balance and appends a withdrawal record.
// Only the owner may withdraw. The amount must be positive and within
// models.MaxWithdrawal; withdrawing more than the current balance fails with
// *InsufficientBalanceError, which is distinct from the ceiling error.
func (l *Ledger) Withdraw(ctx context.Context, caller string, amount int64, now time.Time) (int64, error) {
	if err := l.authorize(caller, OpWithdraw); err != nil {
		return 0, err
	}
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	if amount > models.MaxWithdrawal {
		return 0, ErrLimitExceeded
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balance < amount {
		return 0, &InsufficientBalanceError{Balance: l.balance, Requested: amount}
	}
	return l.commit(ctx, models.KindWithdrawal, amount, l.balance-amount, now)
}

// SetInterestRate replaces the interest rate. Rate changes are parameter
// updates, not ledger events: no record is appended.
func (l *Ledger) SetInterestRate(caller string, rateBps int64) error {
	if err := l.authorize(caller, OpSetInterestRate); err != nil {
		return err
	}
	if rateBps < 0 || rateBps > models.MaxInterestRateBps {
		return ErrLimitExceeded
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.rateBps = rateBps
	return nil
}

// AccrueInterest computes simple interest over the time elapsed since the
// last accrual and, when positive, applies it to the balance and appends an
// interest record. It returns the amount accrued, possibly zero.
//
// Only a positive accrual commits state: when the computed interest is zero,
// whether because less than a day has elapsed or because the balance or rate
// rounds the product down to nothing, lastAccrual is left untouched so the
// next call computes over the cumulative interval.
func (l *Ledger) AccrueInterest(ctx context.Context, caller string, now time.Time) (int64, error) {
	if err := l.authorize(caller, OpAccrueInterest); err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	interest := ComputeInterest(l.balance, l.rateBps, now.Sub(l.lastAccrual))
	if interest == 0 {
		return 0, nil
	}

	if _, err := l.commit(ctx, models.KindInterest, interest, l.balance+interest, now); err != nil {
		return 0, err
	}
	l.lastAccrual = now
	return interest, nil
}

// commit appends a record and, only after the append succeeds, moves the
// balance. Called with l.mu held. A failed append leaves the ledger
// untouched.
func (l *Ledger) commit(ctx context.Context, kind models.Kind, amount, newBalance int64, now time.Time) (int64, error) {
	if newBalance < 0 {
		return 0, &InvariantViolationError{Balance: l.balance, Replayed: newBalance}
	}

	record := models.TransactionRecord{
		ID:               uuid.New().String(),
		Amount:           amount,
		Timestamp:        now,
		Kind:             kind,
		ResultingBalance: newBalance,
	}
	if err := l.store.Append(ctx, record); err != nil {
		return 0, err
	}
	l.balance = newBalance

	l.publishEvent(record)
	return newBalance, nil
}

// publishEvent emits the committed record as a LedgerEvent. Publishing is
// best-effort: a failure is logged and never rolls back ledger state, since
// the log is the source of truth.
func (l *Ledger) publishEvent(record models.TransactionRecord) {
	if l.publisher == nil {
		return
	}
	event := events.LedgerEvent{
		Kind:             record.Kind,
		Amount:           record.Amount,
		ResultingBalance: record.ResultingBalance,
		OccurredAt:       record.Timestamp,
	}
	if err := l.publisher.Publish(EventsTopic, event); err != nil {
		l.log.WithError(err).WithField("kind", record.Kind).Warn("failed to publish ledger event")
	}
}

// Owner returns the identity fixed at creation.
func (l *Ledger) Owner() string {
	return l.owner
}

// Balance returns the current balance.
func (l *Ledger) Balance() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// InterestRate returns the current rate in basis points.
func (l *Ledger) InterestRate() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rateBps
}

// LastAccrual returns the timestamp of the last applied accrual.
func (l *Ledger) LastAccrual() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastAccrual
}

// Limits returns the ledger's fixed parameters for the embedding layer.
func (l *Ledger) Limits() models.Limits {
	return models.DefaultLimits()
}

// History returns a copy of the full transaction log in insertion order.
// The returned slice never aliases internal storage.
func (l *Ledger) History(ctx context.Context) ([]models.TransactionRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Records(ctx)
}

// HistoryPage returns a slice of the log for external pagination or archival.
func (l *Ledger) HistoryPage(ctx context.Context, offset, limit int) ([]models.TransactionRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.RecordsPage(ctx, offset, limit)
}

// Verify replays the transaction log from the initial balance and checks it
// against the live balance. A mismatch means the ledger is corrupt and is
// returned as *InvariantViolationError, which the embedding application must
// treat as fatal.
func (l *Ledger) Verify(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.store.Records(ctx)
	if err != nil {
		return err
	}
	replayed := models.ReplayBalance(l.initialBalance, records)
	if replayed != l.balance {
		return &InvariantViolationError{Balance: l.balance, Replayed: replayed}
	}
	return nil
}
