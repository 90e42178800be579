package models

import "github.com/google/uuid"

// DebtResponse is one transfer of a settlement plan: From should pay To.
// This is the original app's "debt" — a derived suggestion, never stored.
type DebtResponse struct {
	From        uuid.UUID `json:"from"`
	FromName    string    `json:"from_name"`
	To          uuid.UUID `json:"to"`
	ToName      string    `json:"to_name"`
	AmountCents int64     `json:"amount_cents"`
	Amount      string    `json:"amount"`
	Currency    string    `json:"currency"`
}

// MemberBalanceResponse is one member's signed net position in a group:
// positive means the group owes them.
type MemberBalanceResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	BalanceCents int64     `json:"balance_cents"`
	Balance      string    `json:"balance"`
}

// GroupBalanceSummary is returned for GET /api/groups/:id/balances
type GroupBalanceSummary struct {
	GroupID         uuid.UUID               `json:"group_id"`
	GroupName       string                  `json:"group_name"`
	Balances        []MemberBalanceResponse `json:"balances"`
	SettlementPlan  []DebtResponse          `json:"settlement_plan"`
	TotalSpentCents int64                   `json:"total_spent_cents"`
	TotalSpent      string                  `json:"total_spent"`
}

// FriendBalance represents the overall balance with a single friend
type FriendBalance struct {
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	AmountCents int64     `json:"amount_cents"` // positive = they owe you, negative = you owe them
	Amount      string    `json:"amount"`
	Currency    string    `json:"currency"`
}

// OverallBalanceSummary is returned for GET /api/balances
type OverallBalanceSummary struct {
	TotalOwedCents  int64           `json:"total_owed_cents"`  // total others owe you
	TotalOwingCents int64           `json:"total_owing_cents"` // total you owe others
	TotalOwed       string          `json:"total_owed"`
	TotalOwing      string          `json:"total_owing"`
	Friends         []FriendBalance `json:"friends"`
}

// Dashboard payloads (home screen).
type DashboardBalance struct {
	TotalCents      int64  `json:"total_cents"`
	Total           string `json:"total"`
	YouOweCents     int64  `json:"you_owe_cents"`
	YouOwe          string `json:"you_owe"`
	YouAreOwedCents int64  `json:"you_are_owed_cents"`
	YouAreOwed      string `json:"you_are_owed"`
}

type SpendingPoint struct {
	Name        string `json:"name"` // month label, e.g. "Jan"
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
}

type RecentExpense struct {
	ExpenseResponse
	GroupName string `json:"group_name"`
}

type DashboardResponse struct {
	Balance        DashboardBalance `json:"balance"`
	RecentExpenses []RecentExpense  `json:"recent_expenses"`
	SpendingData   []SpendingPoint  `json:"spending_data"`
	Groups         []GroupResponse  `json:"groups"`
}
