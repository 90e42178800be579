package ledger

import (
	"context"

	"github.com/google/uuid"

	"splitsphere-backend/money"
)

// Service is the API the rest of the application talks to: record events,
// compute balances, compute settlement plans. Authorization (is the caller
// a member of the group?) is the HTTP layer's job and happens before any
// call lands here.
type Service struct {
	store Store
}

// NewService builds a service on top of a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// RecordExpense validates and appends an expense event. The splits must
// already be resolved to exact minor-unit amounts summing to total.
func (s *Service) RecordExpense(ctx context.Context, groupID, payerID uuid.UUID, description, category string, total money.Money, splits []Split) (*Expense, error) {
	expense, err := NewExpense(groupID, payerID, description, category, total, splits)
	if err != nil {
		return nil, err
	}
	if err := s.store.AppendEvent(ctx, groupID, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// RecordSettlement validates and appends a settlement event.
func (s *Service) RecordSettlement(ctx context.Context, groupID, from, to uuid.UUID, amount money.Money, note string) (*Settlement, error) {
	settlement, err := NewSettlement(groupID, from, to, amount, note)
	if err != nil {
		return nil, err
	}
	if err := s.store.AppendEvent(ctx, groupID, settlement); err != nil {
		return nil, err
	}
	return settlement, nil
}

// ComputeBalance loads the group's ledger and projects net balances.
func (s *Service) ComputeBalance(ctx context.Context, groupID uuid.UUID) (NetBalance, error) {
	events, err := s.store.LoadLedger(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return Balances(events)
}

// ComputeSettlementPlan loads the group's ledger and computes the greedy
// settlement plan for its current balances.
func (s *Service) ComputeSettlementPlan(ctx context.Context, groupID uuid.UUID) ([]Transfer, error) {
	balances, err := s.ComputeBalance(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return Simplify(balances)
}

// Events returns the group's full event history in ledger order.
func (s *Service) Events(ctx context.Context, groupID uuid.UUID) ([]Event, error) {
	return s.store.LoadLedger(ctx, groupID)
}
