package models

import "time"

// Amounts are held in the smallest currency unit; one display unit is 100 of
// them. The caps below mirror the custody contract: deposits may never push
// the balance past MaxDeposit, a single withdrawal may not exceed
// MaxWithdrawal, and the owner may not set a rate above 10%.
const (
	CentsPerUnit int64 = 100

	MaxDeposit    = 100 * CentsPerUnit
	MaxWithdrawal = 50 * CentsPerUnit

	MaxInterestRateBps     int64 = 1000
	DefaultInterestRateBps int64 = 500

	SecondsPerYear     int64 = 365 * 86400
	MinAccrualInterval       = 24 * time.Hour
)

// Limits bundles the ledger's fixed parameters so an embedding layer can
// query them instead of hard-coding copies.
type Limits struct {
	MaxDeposit         int64         `json:"max_deposit"`
	MaxWithdrawal      int64         `json:"max_withdrawal"`
	MaxInterestRateBps int64         `json:"max_interest_rate_bps"`
	SecondsPerYear     int64         `json:"seconds_per_year"`
	MinAccrualInterval time.Duration `json:"min_accrual_interval"`
}

// DefaultLimits returns the contract constants as a Limits value.
func DefaultLimits() Limits {
	return Limits{
		MaxDeposit:         MaxDeposit,
		MaxWithdrawal:      MaxWithdrawal,
		MaxInterestRateBps: MaxInterestRateBps,
		SecondsPerYear:     SecondsPerYear,
		MinAccrualInterval: MinAccrualInterval,
	}
}
