package ledger

import (
	"time"

	"github.com/google/uuid"

	"splitsphere-backend/money"
)

// Event is a single entry in a group's ledger: an expense somebody paid,
// or a settlement payment between two members. Events are immutable once
// accepted; a correction is a new offsetting event, never a mutation.
type Event interface {
	EventID() uuid.UUID
	Group() uuid.UUID
	OccurredAt() time.Time

	// sealed: only Expense and Settlement are ledger events.
	isLedgerEvent()
}

// Split is one member's share of an expense. Settled marks shares that
// were paid back outside the app; it is informational and does not affect
// balance computation (real repayments are Settlement events).
type Split struct {
	MemberID uuid.UUID
	Owed     money.Money
	Settled  bool
}

// Expense records that PayerID paid Total on behalf of the group, divided
// across Splits. The splits always sum to Total exactly; the payer may or
// may not appear among them.
type Expense struct {
	ID          uuid.UUID
	GroupID     uuid.UUID
	PayerID     uuid.UUID
	Description string
	Category    string
	Total       money.Money
	Splits      []Split
	CreatedAt   time.Time
}

func (e *Expense) EventID() uuid.UUID    { return e.ID }
func (e *Expense) Group() uuid.UUID      { return e.GroupID }
func (e *Expense) OccurredAt() time.Time { return e.CreatedAt }
func (e *Expense) isLedgerEvent()        {}

// Settlement records a real-world payment from one member to another,
// reducing what From owes.
type Settlement struct {
	ID        uuid.UUID
	GroupID   uuid.UUID
	From      uuid.UUID
	To        uuid.UUID
	Amount    money.Money
	Note      string
	CreatedAt time.Time
}

func (s *Settlement) EventID() uuid.UUID    { return s.ID }
func (s *Settlement) Group() uuid.UUID      { return s.GroupID }
func (s *Settlement) OccurredAt() time.Time { return s.CreatedAt }
func (s *Settlement) isLedgerEvent()        {}

// NewExpense builds a validated expense event.
func NewExpense(groupID, payerID uuid.UUID, description, category string, total money.Money, splits []Split) (*Expense, error) {
	e := &Expense{
		ID:          uuid.New(),
		GroupID:     groupID,
		PayerID:     payerID,
		Description: description,
		Category:    category,
		Total:       total,
		Splits:      append([]Split(nil), splits...),
		CreatedAt:   time.Now().UTC(),
	}
	if err := validateExpense(e); err != nil {
		return nil, err
	}
	return e, nil
}

// NewSettlement builds a validated settlement event.
func NewSettlement(groupID, from, to uuid.UUID, amount money.Money, note string) (*Settlement, error) {
	s := &Settlement{
		ID:        uuid.New(),
		GroupID:   groupID,
		From:      from,
		To:        to,
		Amount:    amount,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}
	if err := validateSettlement(s); err != nil {
		return nil, err
	}
	return s, nil
}
