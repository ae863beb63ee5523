package models

import "time"

// Kind classifies a balance-affecting event. The set is closed: every record
// in the log is exactly one of these.
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindInterest   Kind = "interest"
)

// Valid reports whether k is one of the three known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindDeposit, KindWithdrawal, KindInterest:
		return true
	}
	return false
}

// Signed returns amount with the sign the kind implies: deposits and interest
// add to the balance, withdrawals subtract.
func (k Kind) Signed(amount int64) int64 {
	if k == KindWithdrawal {
		return -amount
	}
	return amount
}

// TransactionRecord is a single immutable entry in the ledger log.
// Amount is always positive; direction is implied by Kind.
// ResultingBalance is the ledger balance immediately after the event, frozen
// at append time so an auditor can check the log without replaying it.
type TransactionRecord struct {
	ID               string    `json:"id"`
	Amount           int64     `json:"amount"` // smallest currency unit (cents)
	Timestamp        time.Time `json:"timestamp"`
	Kind             Kind      `json:"kind"`
	ResultingBalance int64     `json:"resulting_balance"`
}

// ReplayBalance folds the signed amounts of records over an initial balance.
// For a valid log this reproduces the live balance exactly.
func ReplayBalance(initial int64, records []TransactionRecord) int64 {
	balance := initial
	for _, r := range records {
		balance += r.Kind.Signed(r.Amount)
	}
	return balance
}
