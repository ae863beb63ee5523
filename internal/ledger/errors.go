package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when a caller other than the owner attempts
	// a mutating operation.
	ErrUnauthorized = errors.New("caller is not the ledger owner")

	// ErrLimitExceeded is returned when an amount or rate breaches a fixed
	// ceiling (deposit cap, balance cap, withdrawal cap, rate cap).
	ErrLimitExceeded = errors.New("amount exceeds ledger limit")

	// ErrInvalidAmount is returned for zero or negative amounts.
	ErrInvalidAmount = errors.New("amount must be positive")
)

// InsufficientBalanceError is returned when a withdrawal exceeds the current
// funds. It is structurally distinct from ErrLimitExceeded so callers can
// tell "over the ceiling" from "over the balance".
type InsufficientBalanceError struct {
	Balance   int64
	Requested int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: have %d, requested %d", e.Balance, e.Requested)
}

// InvariantViolationError signals ledger corruption: the transaction log no
// longer replays to the live balance. It is unreachable in correct code and
// must be treated as fatal by the embedding application.
type InvariantViolationError struct {
	Balance  int64
	Replayed int64
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("ledger invariant violated: balance %d, log replays to %d", e.Balance, e.Replayed)
}
