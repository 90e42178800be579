package ledger

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splitsphere-backend/money"
)

func TestAppendValidation(t *testing.T) {
	t.Parallel()

	groupID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	tests := []struct {
		name    string
		event   func() Event
		wantErr error
	}{
		{
			name: "valid_expense",
			event: func() Event {
				return &Expense{
					ID: uuid.New(), GroupID: groupID, PayerID: alice, Total: 1000,
					Splits: []Split{{MemberID: alice, Owed: 500}, {MemberID: bob, Owed: 500}},
				}
			},
		},
		{
			name: "zero_total",
			event: func() Event {
				return &Expense{ID: uuid.New(), GroupID: groupID, PayerID: alice, Total: 0}
			},
			wantErr: ErrAmountNotPositive,
		},
		{
			name: "negative_total",
			event: func() Event {
				return &Expense{ID: uuid.New(), GroupID: groupID, PayerID: alice, Total: -100}
			},
			wantErr: ErrAmountNotPositive,
		},
		{
			name: "splits_under_total",
			event: func() Event {
				return &Expense{
					ID: uuid.New(), GroupID: groupID, PayerID: alice, Total: 1000,
					Splits: []Split{{MemberID: alice, Owed: 400}, {MemberID: bob, Owed: 400}},
				}
			},
			wantErr: ErrSplitSumMismatch,
		},
		{
			name: "splits_over_total",
			event: func() Event {
				return &Expense{
					ID: uuid.New(), GroupID: groupID, PayerID: alice, Total: 1000,
					Splits: []Split{{MemberID: alice, Owed: 600}, {MemberID: bob, Owed: 500}},
				}
			},
			wantErr: ErrSplitSumMismatch,
		},
		{
			name: "negative_split",
			event: func() Event {
				return &Expense{
					ID: uuid.New(), GroupID: groupID, PayerID: alice, Total: 100,
					Splits: []Split{{MemberID: alice, Owed: 200}, {MemberID: bob, Owed: -100}},
				}
			},
			wantErr: ErrNegativeSplit,
		},
		{
			name: "payer_not_in_splits_is_fine",
			event: func() Event {
				return &Expense{
					ID: uuid.New(), GroupID: groupID, PayerID: alice, Total: 300,
					Splits: []Split{{MemberID: bob, Owed: 300}},
				}
			},
		},
		{
			name: "valid_settlement",
			event: func() Event {
				return &Settlement{ID: uuid.New(), GroupID: groupID, From: alice, To: bob, Amount: 500}
			},
		},
		{
			name: "zero_settlement",
			event: func() Event {
				return &Settlement{ID: uuid.New(), GroupID: groupID, From: alice, To: bob, Amount: 0}
			},
			wantErr: ErrAmountNotPositive,
		},
		{
			name: "self_settlement",
			event: func() Event {
				return &Settlement{ID: uuid.New(), GroupID: groupID, From: alice, To: alice, Amount: 500}
			},
			wantErr: ErrSelfSettlement,
		},
		{
			name: "wrong_group",
			event: func() Event {
				return &Settlement{ID: uuid.New(), GroupID: uuid.New(), From: alice, To: bob, Amount: 500}
			},
			wantErr: ErrWrongGroup,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			l := New(groupID)
			err := l.Append(tt.event())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.True(t, IsValidation(err))
				assert.Equal(t, 0, l.Len(), "rejected append must leave no trace")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, l.Len())
		})
	}
}

func TestSnapshotIsolation(t *testing.T) {
	t.Parallel()

	groupID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()
	l := New(groupID)

	first, err := NewExpense(groupID, alice, "groceries", "food", 1000, []Split{
		{MemberID: alice, Owed: 500}, {MemberID: bob, Owed: 500},
	})
	require.NoError(t, err)
	require.NoError(t, l.Append(first))

	snap := l.Snapshot()
	require.Len(t, snap, 1)

	second, err := NewSettlement(groupID, bob, alice, 500, "")
	require.NoError(t, err)
	require.NoError(t, l.Append(second))

	// The earlier snapshot must not grow.
	assert.Len(t, snap, 1)
	assert.Len(t, l.Snapshot(), 2)
	assert.Equal(t, first.ID, snap[0].EventID())
}

func TestConcurrentAppends(t *testing.T) {
	t.Parallel()

	groupID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()
	l := New(groupID)

	const n = 64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, err := NewExpense(groupID, alice, "round", "misc", 100, []Split{{MemberID: bob, Owed: 100}})
			require.NoError(t, err)
			require.NoError(t, l.Append(e))
		}()
	}
	// Concurrent readers must only ever see fully applied appends.
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			nb, err := Balances(l.Snapshot())
			require.NoError(t, err)
			assert.True(t, nb.Sum().IsZero())
		}()
	}
	wg.Wait()

	require.Equal(t, n, l.Len())
	nb, err := Balances(l.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, money.Money(n*100), nb[alice])
	assert.Equal(t, money.Money(-n*100), nb[bob])
}
