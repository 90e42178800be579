package handlers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splitsphere-backend/ledger"
	"splitsphere-backend/models"
	"splitsphere-backend/money"
)

func splitTotal(splits []ledger.Split) money.Money {
	var sum money.Money
	for _, s := range splits {
		sum = sum.Add(s.Owed)
	}
	return sum
}

func TestResolveSplitsEqual(t *testing.T) {
	t.Parallel()

	members := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	splits, err := resolveSplits(money.Money(1000), "equal", nil, members)
	require.NoError(t, err)
	require.Len(t, splits, 3)

	assert.Equal(t, money.Money(1000), splitTotal(splits))
	// 10.00 over three members: first member picks up the extra paisa
	assert.Equal(t, money.Money(334), splits[0].Owed)
	assert.Equal(t, money.Money(333), splits[1].Owed)
	assert.Equal(t, money.Money(333), splits[2].Owed)
	for i, m := range members {
		assert.Equal(t, m, splits[i].MemberID)
	}
}

func TestResolveSplitsExact(t *testing.T) {
	t.Parallel()

	a, b := uuid.New(), uuid.New()
	inputs := []models.SplitInput{
		{UserID: a.String(), Value: "7.25"},
		{UserID: b.String(), Value: "2.75"},
	}

	splits, err := resolveSplits(money.Money(1000), "exact", inputs, nil)
	require.NoError(t, err)
	assert.Equal(t, money.Money(725), splits[0].Owed)
	assert.Equal(t, money.Money(275), splits[1].Owed)
}

func TestResolveSplitsExactSumMismatch(t *testing.T) {
	t.Parallel()

	inputs := []models.SplitInput{
		{UserID: uuid.New().String(), Value: "5.00"},
		{UserID: uuid.New().String(), Value: "4.00"},
	}

	_, err := resolveSplits(money.Money(1000), "exact", inputs, nil)
	assert.Error(t, err)
}

func TestResolveSplitsPercentage(t *testing.T) {
	t.Parallel()

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	inputs := []models.SplitInput{
		{UserID: a.String(), Value: "50"},
		{UserID: b.String(), Value: "30"},
		{UserID: c.String(), Value: "20"},
	}

	splits, err := resolveSplits(money.Money(999), "percentage", inputs, nil)
	require.NoError(t, err)
	assert.Equal(t, money.Money(999), splitTotal(splits))
	// Largest remainders pick up the two leftover paise
	assert.Equal(t, money.Money(499), splits[0].Owed)
	assert.Equal(t, money.Money(300), splits[1].Owed)
	assert.Equal(t, money.Money(200), splits[2].Owed)
}

func TestResolveSplitsPercentageFractional(t *testing.T) {
	t.Parallel()

	// 33.33 + 33.33 + 33.34 = 100 exactly in basis points
	inputs := []models.SplitInput{
		{UserID: uuid.New().String(), Value: "33.33"},
		{UserID: uuid.New().String(), Value: "33.33"},
		{UserID: uuid.New().String(), Value: "33.34"},
	}

	splits, err := resolveSplits(money.Money(10000), "percentage", inputs, nil)
	require.NoError(t, err)
	assert.Equal(t, money.Money(10000), splitTotal(splits))
}

func TestResolveSplitsPercentageMustSumTo100(t *testing.T) {
	t.Parallel()

	inputs := []models.SplitInput{
		{UserID: uuid.New().String(), Value: "60"},
		{UserID: uuid.New().String(), Value: "30"},
	}

	_, err := resolveSplits(money.Money(1000), "percentage", inputs, nil)
	assert.ErrorContains(t, err, "100")
}

func TestResolveSplitsShares(t *testing.T) {
	t.Parallel()

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	inputs := []models.SplitInput{
		{UserID: a.String(), Value: "2"},
		{UserID: b.String(), Value: "1"},
		{UserID: c.String(), Value: "3"},
	}

	splits, err := resolveSplits(money.Money(600), "shares", inputs, nil)
	require.NoError(t, err)
	assert.Equal(t, money.Money(200), splits[0].Owed)
	assert.Equal(t, money.Money(100), splits[1].Owed)
	assert.Equal(t, money.Money(300), splits[2].Owed)
}

func TestReversalEntriesNetToZero(t *testing.T) {
	t.Parallel()

	payer, b, c := uuid.New(), uuid.New(), uuid.New()
	groupID := uuid.New()
	expense := models.Expense{
		ID:          uuid.New(),
		GroupID:     groupID,
		PaidBy:      payer,
		Description: "groceries",
		AmountCents: 900,
		SplitType:   "equal",
		Splits: []models.ExpenseSplit{
			{UserID: payer, OwedCents: 300},
			{UserID: b, OwedCents: 300},
			{UserID: c, OwedCents: 300},
		},
	}

	entries, err := reversalEntries(expense)
	require.NoError(t, err)
	// The payer's own share cancelled itself, so only two entries
	require.Len(t, entries, 2)

	original, err := ledger.NewExpense(groupID, payer, expense.Description, "", money.Money(900), []ledger.Split{
		{MemberID: payer, Owed: 300},
		{MemberID: b, Owed: 300},
		{MemberID: c, Owed: 300},
	})
	require.NoError(t, err)

	events := []ledger.Event{original}
	for _, entry := range entries {
		rev, err := ledger.NewExpense(groupID, entry.payerID, "reversal", "", entry.total, entry.splits)
		require.NoError(t, err)
		events = append(events, rev)
	}

	balances, err := ledger.Balances(events)
	require.NoError(t, err)
	for id, net := range balances {
		assert.True(t, net.IsZero(), "member %s left with %s after reversal", id, net)
	}
}

func TestReversalEntriesSkipZeroShares(t *testing.T) {
	t.Parallel()

	payer, b := uuid.New(), uuid.New()
	expense := models.Expense{
		ID:          uuid.New(),
		GroupID:     uuid.New(),
		PaidBy:      payer,
		AmountCents: 500,
		SplitType:   "exact",
		Splits: []models.ExpenseSplit{
			{UserID: payer, OwedCents: 500},
			{UserID: b, OwedCents: 0},
		},
	}

	entries, err := reversalEntries(expense)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReversalEntriesRejectRepeat(t *testing.T) {
	t.Parallel()

	reversedAt := time.Now()
	expense := models.Expense{
		ID:          uuid.New(),
		GroupID:     uuid.New(),
		PaidBy:      uuid.New(),
		AmountCents: 900,
		SplitType:   "equal",
		ReversedAt:  &reversedAt,
		Splits: []models.ExpenseSplit{
			{UserID: uuid.New(), OwedCents: 900},
		},
	}

	// A retried delete must not append a second set of offsetting events
	_, err := reversalEntries(expense)
	assert.ErrorIs(t, err, errAlreadyReversed)
}

func TestReversalEntriesRejectReversalRows(t *testing.T) {
	t.Parallel()

	expense := models.Expense{
		ID:          uuid.New(),
		GroupID:     uuid.New(),
		PaidBy:      uuid.New(),
		AmountCents: 300,
		SplitType:   "reversal",
		Splits: []models.ExpenseSplit{
			{UserID: uuid.New(), OwedCents: 300},
		},
	}

	_, err := reversalEntries(expense)
	assert.ErrorIs(t, err, errReversalEntry)
}

func TestResolveSplitsRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		total     money.Money
		splitType string
		inputs    []models.SplitInput
		members   []uuid.UUID
	}{
		{"unknown_type", 100, "random", nil, []uuid.UUID{uuid.New()}},
		{"equal_no_members", 100, "equal", nil, nil},
		{"exact_no_inputs", 100, "exact", nil, nil},
		{"exact_bad_uuid", 100, "exact", []models.SplitInput{{UserID: "nope", Value: "1.00"}}, nil},
		{"exact_bad_amount", 100, "exact", []models.SplitInput{{UserID: uuid.New().String(), Value: "1.005"}}, nil},
		{"percentage_negative", 100, "percentage", []models.SplitInput{{UserID: uuid.New().String(), Value: "-50"}, {UserID: uuid.New().String(), Value: "150"}}, nil},
		{"shares_fractional", 100, "shares", []models.SplitInput{{UserID: uuid.New().String(), Value: "1.5"}, {UserID: uuid.New().String(), Value: "1"}}, nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := resolveSplits(tt.total, tt.splitType, tt.inputs, tt.members)
			assert.Error(t, err)
		})
	}
}
