package ledger

import (
	"fmt"

	"github.com/google/uuid"

	"splitsphere-backend/money"
)

// Transfer is one directed payment of a settlement plan: From pays To.
type Transfer struct {
	From   uuid.UUID
	To     uuid.UUID
	Amount money.Money
}

type party struct {
	id      uuid.UUID
	balance money.Money // creditors hold positive, debtors hold |balance|
}

// Simplify computes a settlement plan for the given balances: a list of
// transfers that, applied in full, zeroes every member's balance.
//
// Greedy largest-magnitude matching: repeatedly pair the creditor with the
// largest positive balance against the debtor with the largest debt and
// transfer min of the two, which zeroes at least one of them per step. The
// plan therefore has at most n-1 transfers for n non-zero balances. True
// minimum-cardinality settlement is NP-hard; this greedy plan is the
// documented contract, not an accidental heuristic. Ties are broken by
// lexicographic member UUID so the same balances always yield the same
// plan, in the same order.
//
// Balances that don't sum to zero indicate upstream corruption and fail
// with ErrLedgerCorruption instead of producing a wrong plan.
func Simplify(balances NetBalance) ([]Transfer, error) {
	if sum := balances.Sum(); !sum.IsZero() {
		return nil, fmt.Errorf("%w: sum %s", ErrLedgerCorruption, sum)
	}

	var creditors, debtors []party
	for id, b := range balances {
		switch {
		case b.IsPositive():
			creditors = append(creditors, party{id: id, balance: b})
		case b.IsNegative():
			debtors = append(debtors, party{id: id, balance: b.Neg()})
		}
	}

	var plan []Transfer
	for len(creditors) > 0 && len(debtors) > 0 {
		ci := largest(creditors)
		di := largest(debtors)

		amount := creditors[ci].balance.Min(debtors[di].balance)
		plan = append(plan, Transfer{
			From:   debtors[di].id,
			To:     creditors[ci].id,
			Amount: amount,
		})

		creditors[ci].balance = creditors[ci].balance.Sub(amount)
		debtors[di].balance = debtors[di].balance.Sub(amount)
		if creditors[ci].balance.IsZero() {
			creditors = remove(creditors, ci)
		}
		if debtors[di].balance.IsZero() {
			debtors = remove(debtors, di)
		}
	}

	return plan, nil
}

// largest picks the party with the biggest balance, smallest UUID string
// on ties.
func largest(parties []party) int {
	best := 0
	for i := 1; i < len(parties); i++ {
		switch parties[i].balance.Cmp(parties[best].balance) {
		case 1:
			best = i
		case 0:
			if parties[i].id.String() < parties[best].id.String() {
				best = i
			}
		}
	}
	return best
}

// remove drops index i preserving order, to keep selection deterministic.
func remove(parties []party, i int) []party {
	return append(parties[:i], parties[i+1:]...)
}
