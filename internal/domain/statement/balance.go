package statement

import "github.com/shopspring/decimal"

// Balance is the signed sum of a user's record contributions. Statement is
// populated only when the caller asked for the contributing records.
type Balance struct {
	Total     decimal.Decimal
	Statement []*Operation
}

// ComputeBalance derives a balance from a set of operation records. It is a
// pure function: the sum is commutative, so record order does not matter.
// Arithmetic is exact decimal throughout; three deposits of 0.10 sum to
// exactly 0.30.
func ComputeBalance(ops []*Operation) decimal.Decimal {
	total := decimal.Zero
	for _, op := range ops {
		total = total.Add(op.Contribution())
	}
	return total
}
