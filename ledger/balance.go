package ledger

import (
	"fmt"

	"github.com/google/uuid"

	"splitsphere-backend/money"
)

// NetBalance maps each member to their signed net position: positive means
// the group owes them, negative means they owe the group. Derived from a
// snapshot, never stored.
type NetBalance map[uuid.UUID]money.Money

// Sum returns the total of all balances. Zero for any consistent ledger.
func (nb NetBalance) Sum() money.Money {
	var total money.Money
	for _, b := range nb {
		total = total.Add(b)
	}
	return total
}

// Balances projects a ledger snapshot onto per-member net balances.
//
// Every member mentioned by any event appears in the result, including
// members who net out to zero. For an expense the payer is credited the
// full total and each split member is debited their owed share; a payer
// who is also a participant nets the two. For a settlement the paying
// member is credited (their debt shrinks) and the receiving member is
// debited (they are owed less).
//
// The projection is pure and safe to run concurrently on the same
// snapshot. The zero-sum invariant is checked before returning; a non-zero
// sum means the ledger itself is corrupt and aggregation fails rather than
// reporting wrong numbers.
func Balances(events []Event) (NetBalance, error) {
	nb := make(NetBalance)

	for _, e := range events {
		switch ev := e.(type) {
		case *Expense:
			nb[ev.PayerID] = nb[ev.PayerID].Add(ev.Total)
			for _, s := range ev.Splits {
				nb[s.MemberID] = nb[s.MemberID].Sub(s.Owed)
			}
		case *Settlement:
			nb[ev.From] = nb[ev.From].Add(ev.Amount)
			nb[ev.To] = nb[ev.To].Sub(ev.Amount)
		default:
			return nil, fmt.Errorf("%w: %T", ErrUnknownEvent, e)
		}
	}

	if sum := nb.Sum(); !sum.IsZero() {
		return nil, fmt.Errorf("%w: sum %s over %d events", ErrLedgerCorruption, sum, len(events))
	}
	return nb, nil
}
