package ledger

// Operation names a ledger call for authorization purposes.
type Operation string

const (
	OpDeposit         Operation = "deposit"
	OpWithdraw        Operation = "withdraw"
	OpSetInterestRate Operation = "set_interest_rate"
	OpAccrueInterest  Operation = "accrue_interest"
)

// authorize gates every mutating operation on caller identity. The ledger has
// a single owner; only the owner may mutate. Reads never pass through here.
// Pure predicate, no state is touched on failure.
func (l *Ledger) authorize(caller string, _ Operation) error {
	if caller != l.owner {
		return ErrUnauthorized
	}
	return nil
}
