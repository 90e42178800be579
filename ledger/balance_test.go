package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splitsphere-backend/money"
)

func expense(t *testing.T, groupID, payer uuid.UUID, total money.Money, splits []Split) *Expense {
	t.Helper()
	e, err := NewExpense(groupID, payer, "test expense", "misc", total, splits)
	require.NoError(t, err)
	return e
}

func settlement(t *testing.T, groupID, from, to uuid.UUID, amount money.Money) *Settlement {
	t.Helper()
	s, err := NewSettlement(groupID, from, to, amount, "")
	require.NoError(t, err)
	return s
}

func TestBalancesEvenSplit(t *testing.T) {
	t.Parallel()

	groupID := uuid.New()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	// A pays 900 split evenly across A, B, C.
	events := []Event{
		expense(t, groupID, a, 900, []Split{
			{MemberID: a, Owed: 300}, {MemberID: b, Owed: 300}, {MemberID: c, Owed: 300},
		}),
	}

	nb, err := Balances(events)
	require.NoError(t, err)
	assert.Equal(t, money.Money(600), nb[a])
	assert.Equal(t, money.Money(-300), nb[b])
	assert.Equal(t, money.Money(-300), nb[c])
	assert.True(t, nb.Sum().IsZero())
}

func TestBalancesPayerOutsideSplits(t *testing.T) {
	t.Parallel()

	groupID := uuid.New()
	a, b := uuid.New(), uuid.New()

	// A covers B's 500 entirely.
	nb, err := Balances([]Event{
		expense(t, groupID, a, 500, []Split{{MemberID: b, Owed: 500}}),
	})
	require.NoError(t, err)
	assert.Equal(t, money.Money(500), nb[a])
	assert.Equal(t, money.Money(-500), nb[b])
}

func TestBalancesSettlement(t *testing.T) {
	t.Parallel()

	groupID := uuid.New()
	a, b := uuid.New(), uuid.New()

	events := []Event{
		// B owes A 500.
		expense(t, groupID, a, 500, []Split{{MemberID: b, Owed: 500}}),
		// B pays A back.
		settlement(t, groupID, b, a, 500),
	}

	nb, err := Balances(events)
	require.NoError(t, err)
	assert.True(t, nb[a].IsZero())
	assert.True(t, nb[b].IsZero())
	assert.True(t, nb.Sum().IsZero())
}

func TestBalancesPartialSettlement(t *testing.T) {
	t.Parallel()

	groupID := uuid.New()
	a, b := uuid.New(), uuid.New()

	events := []Event{
		expense(t, groupID, a, 1000, []Split{{MemberID: a, Owed: 200}, {MemberID: b, Owed: 800}}),
		settlement(t, groupID, b, a, 500),
	}

	nb, err := Balances(events)
	require.NoError(t, err)
	// Settling 500 moves B's balance up and A's down by the same amount.
	assert.Equal(t, money.Money(300), nb[a])
	assert.Equal(t, money.Money(-300), nb[b])
	assert.True(t, nb.Sum().IsZero())
}

func TestBalancesConservation(t *testing.T) {
	t.Parallel()

	groupID := uuid.New()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	// A mixed history of expenses and settlements always sums to zero.
	events := []Event{
		expense(t, groupID, a, 901, []Split{
			{MemberID: a, Owed: 301}, {MemberID: b, Owed: 300}, {MemberID: c, Owed: 300},
		}),
		expense(t, groupID, b, 450, []Split{
			{MemberID: a, Owed: 150}, {MemberID: b, Owed: 150}, {MemberID: c, Owed: 150},
		}),
		settlement(t, groupID, c, a, 200),
		expense(t, groupID, c, 77, []Split{{MemberID: a, Owed: 77}}),
		settlement(t, groupID, b, a, 123),
	}

	for cut := 1; cut <= len(events); cut++ {
		nb, err := Balances(events[:cut])
		require.NoError(t, err)
		assert.True(t, nb.Sum().IsZero(), "after %d events", cut)
	}
}

func TestBalancesIdempotent(t *testing.T) {
	t.Parallel()

	groupID := uuid.New()
	a, b := uuid.New(), uuid.New()
	events := []Event{
		expense(t, groupID, a, 1000, []Split{{MemberID: a, Owed: 500}, {MemberID: b, Owed: 500}}),
		settlement(t, groupID, b, a, 250),
	}

	first, err := Balances(events)
	require.NoError(t, err)
	second, err := Balances(events)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBalancesEmptyLedger(t *testing.T) {
	t.Parallel()

	nb, err := Balances(nil)
	require.NoError(t, err)
	assert.Empty(t, nb)
	assert.True(t, nb.Sum().IsZero())
}
