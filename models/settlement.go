package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Settlement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID     uuid.UUID `gorm:"type:uuid;index" json:"group_id"`
	PaidBy      uuid.UUID `gorm:"type:uuid" json:"paid_by"`
	Payer       User      `gorm:"foreignKey:PaidBy" json:"payer,omitempty"`
	PaidTo      uuid.UUID `gorm:"type:uuid" json:"paid_to"`
	Payee       User      `gorm:"foreignKey:PaidTo" json:"payee,omitempty"`
	AmountCents int64     `gorm:"not null" json:"amount_cents"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *Settlement) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type CreateSettlementRequest struct {
	PaidTo string `json:"paid_to" binding:"required"`
	Amount string `json:"amount" binding:"required"`
	Notes  string `json:"notes"`
}

type SettlementResponse struct {
	ID          uuid.UUID `json:"id"`
	GroupID     uuid.UUID `json:"group_id"`
	PaidBy      uuid.UUID `json:"paid_by"`
	PayerName   string    `json:"payer_name,omitempty"`
	PaidTo      uuid.UUID `json:"paid_to"`
	PayeeName   string    `json:"payee_name,omitempty"`
	AmountCents int64     `json:"amount_cents"`
	Amount      string    `json:"amount"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
