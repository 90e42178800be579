// Package ledger is the expense ledger and debt-settlement engine: an
// append-only per-group event history, a pure projection from that history
// to per-member net balances, and a deterministic greedy simplifier that
// turns balances into a short list of settling transfers.
//
// The package performs no I/O. Persistence and HTTP live behind the Store
// contract and the handlers that call Service.
package ledger

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"splitsphere-backend/money"
)

// Ledger holds the ordered event history for one group. Append and
// Snapshot are serialized per ledger, so a snapshot never observes a
// half-applied append. Ledgers of different groups share no state.
type Ledger struct {
	groupID uuid.UUID

	mu     sync.RWMutex
	events []Event
}

// New creates an empty ledger for a group.
func New(groupID uuid.UUID) *Ledger {
	return &Ledger{groupID: groupID}
}

// GroupID returns the group this ledger belongs to.
func (l *Ledger) GroupID() uuid.UUID { return l.groupID }

// Append validates the event and adds it to the history. A rejected event
// leaves the ledger untouched.
func (l *Ledger) Append(e Event) error {
	if err := Validate(e); err != nil {
		return err
	}
	if e.Group() != l.groupID {
		return fmt.Errorf("%w: event group %s, ledger group %s", ErrWrongGroup, e.Group(), l.groupID)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	return nil
}

// Snapshot returns the event history as of the call, in append order. The
// returned slice is a copy; later appends don't show up in it.
func (l *Ledger) Snapshot() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Event(nil), l.events...)
}

// Len returns the number of accepted events.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// Validate checks an event against the structural invariants: positive
// amounts, non-negative splits that sum to the expense total exactly, and
// no self-settlements.
func Validate(e Event) error {
	switch ev := e.(type) {
	case *Expense:
		return validateExpense(ev)
	case *Settlement:
		return validateSettlement(ev)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownEvent, e)
	}
}

func validateExpense(e *Expense) error {
	if !e.Total.IsPositive() {
		return fmt.Errorf("%w: expense total %s", ErrAmountNotPositive, e.Total)
	}
	var sum money.Money
	for _, s := range e.Splits {
		if s.Owed.IsNegative() {
			return fmt.Errorf("%w: member %s owes %s", ErrNegativeSplit, s.MemberID, s.Owed)
		}
		sum = sum.Add(s.Owed)
	}
	if sum != e.Total {
		return fmt.Errorf("%w: splits %s, total %s", ErrSplitSumMismatch, sum, e.Total)
	}
	return nil
}

func validateSettlement(s *Settlement) error {
	if !s.Amount.IsPositive() {
		return fmt.Errorf("%w: settlement amount %s", ErrAmountNotPositive, s.Amount)
	}
	if s.From == s.To {
		return fmt.Errorf("%w: member %s", ErrSelfSettlement, s.From)
	}
	return nil
}
