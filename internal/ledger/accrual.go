package ledger

import (
	"math/big"
	"time"

	"github.com/sheikh-saqib/custodial-interest-ledger/internal/models"
)

// ComputeInterest is the accrual policy: time-proportional simple interest,
// pure and side-effect free.
//
//	interest = floor(balance * rateBps * elapsedSeconds / (SecondsPerYear * 10000))
//
// Elapsed time under MinAccrualInterval accrues nothing. The division
// truncates toward zero: interest below one smallest unit is legitimately
// zero, never rounded up. Intermediates go through big.Int so the triple
// product cannot overflow for any realistic balance, rate, or elapsed time.
func ComputeInterest(balance, rateBps int64, elapsed time.Duration) int64 {
	if elapsed < models.MinAccrualInterval {
		return 0
	}
	if balance <= 0 || rateBps <= 0 {
		return 0
	}

	num := new(big.Int).SetInt64(balance)
	num.Mul(num, big.NewInt(rateBps))
	num.Mul(num, big.NewInt(int64(elapsed/time.Second)))

	den := new(big.Int).SetInt64(models.SecondsPerYear)
	den.Mul(den, big.NewInt(10000))

	return num.Quo(num, den).Int64()
}
