// Package storage persists group ledgers in postgres through gorm. It is
// the production implementation of ledger.Store; the append-atomicity the
// core requires comes from wrapping each append in a database transaction.
package storage

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"splitsphere-backend/ledger"
	"splitsphere-backend/models"
	"splitsphere-backend/money"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AppendEvent writes one validated ledger event. An expense and its splits
// land in a single transaction so no reader ever sees a half-applied
// append.
func (s *Store) AppendEvent(ctx context.Context, groupID uuid.UUID, e ledger.Event) error {
	switch ev := e.(type) {
	case *ledger.Expense:
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			row := models.Expense{
				ID:          ev.ID,
				GroupID:     groupID,
				PaidBy:      ev.PayerID,
				Description: ev.Description,
				Category:    ev.Category,
				AmountCents: int64(ev.Total),
				SplitType:   "exact",
				ExpenseDate: ev.CreatedAt,
				CreatedAt:   ev.CreatedAt,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			for _, split := range ev.Splits {
				if err := tx.Create(&models.ExpenseSplit{
					ExpenseID: ev.ID,
					UserID:    split.MemberID,
					OwedCents: int64(split.Owed),
					Settled:   split.Settled,
				}).Error; err != nil {
					return err
				}
			}
			return nil
		})
	case *ledger.Settlement:
		return s.db.WithContext(ctx).Create(&models.Settlement{
			ID:          ev.ID,
			GroupID:     groupID,
			PaidBy:      ev.From,
			PaidTo:      ev.To,
			AmountCents: int64(ev.Amount),
			Notes:       ev.Note,
			CreatedAt:   ev.CreatedAt,
		}).Error
	default:
		return fmt.Errorf("%w: %T", ledger.ErrUnknownEvent, e)
	}
}

// LoadLedger reads the group's full event history. Expenses and
// settlements live in separate tables, so the merged order is made total
// by (CreatedAt, event id); within one table that matches insertion order.
func (s *Store) LoadLedger(ctx context.Context, groupID uuid.UUID) ([]ledger.Event, error) {
	var expenseRows []models.Expense
	if err := s.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Preload("Splits").
		Find(&expenseRows).Error; err != nil {
		return nil, err
	}

	var settlementRows []models.Settlement
	if err := s.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Find(&settlementRows).Error; err != nil {
		return nil, err
	}

	events := make([]ledger.Event, 0, len(expenseRows)+len(settlementRows))
	for i := range expenseRows {
		events = append(events, expenseToEvent(&expenseRows[i]))
	}
	for i := range settlementRows {
		events = append(events, settlementToEvent(&settlementRows[i]))
	}

	sort.SliceStable(events, func(i, j int) bool {
		ti, tj := events[i].OccurredAt(), events[j].OccurredAt()
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return events[i].EventID().String() < events[j].EventID().String()
	})

	return events, nil
}

func expenseToEvent(row *models.Expense) *ledger.Expense {
	splits := make([]ledger.Split, 0, len(row.Splits))
	for _, s := range row.Splits {
		splits = append(splits, ledger.Split{
			MemberID: s.UserID,
			Owed:     money.Money(s.OwedCents),
			Settled:  s.Settled,
		})
	}
	return &ledger.Expense{
		ID:          row.ID,
		GroupID:     row.GroupID,
		PayerID:     row.PaidBy,
		Description: row.Description,
		Category:    row.Category,
		Total:       money.Money(row.AmountCents),
		Splits:      splits,
		CreatedAt:   row.CreatedAt,
	}
}

func settlementToEvent(row *models.Settlement) *ledger.Settlement {
	return &ledger.Settlement{
		ID:        row.ID,
		GroupID:   row.GroupID,
		From:      row.PaidBy,
		To:        row.PaidTo,
		Amount:    money.Money(row.AmountCents),
		Note:      row.Notes,
		CreatedAt: row.CreatedAt,
	}
}
