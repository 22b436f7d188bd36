package registrar

import "github.com/holiman/uint256"

// BudgetLedger tracks the funds remaining across one register call. It is
// created from the call's attached value, charged once per settled item,
// and whatever remains at the end is the caller's refund. All arithmetic
// is exact unsigned 256-bit; a charge that would overdraw fails instead
// of wrapping.
type BudgetLedger struct {
	remaining *uint256.Int
}

// NewBudgetLedger starts a ledger holding the attached funds.
func NewBudgetLedger(funds *uint256.Int) *BudgetLedger {
	return &BudgetLedger{remaining: new(uint256.Int).Set(funds)}
}

// Charge deducts amount, failing with ErrInsufficientBudget if the ledger
// cannot cover it.
func (b *BudgetLedger) Charge(amount *uint256.Int) error {
	if amount.Gt(b.remaining) {
		return ErrInsufficientBudget
	}
	b.remaining.Sub(b.remaining, amount)
	return nil
}

// Remaining returns a copy of the unspent balance.
func (b *BudgetLedger) Remaining() *uint256.Int {
	return new(uint256.Int).Set(b.remaining)
}
