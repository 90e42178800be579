package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splitsphere-backend/money"
)

func TestServiceRecordAndCompute(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewService(NewMemoryStore())
	groupID := uuid.New()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	_, err := svc.RecordExpense(ctx, groupID, a, "dinner", "food", 900, []Split{
		{MemberID: a, Owed: 300}, {MemberID: b, Owed: 300}, {MemberID: c, Owed: 300},
	})
	require.NoError(t, err)

	nb, err := svc.ComputeBalance(ctx, groupID)
	require.NoError(t, err)
	assert.Equal(t, money.Money(600), nb[a])
	assert.Equal(t, money.Money(-300), nb[b])
	assert.Equal(t, money.Money(-300), nb[c])

	plan, err := svc.ComputeSettlementPlan(ctx, groupID)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	for _, tr := range plan {
		assert.Equal(t, a, tr.To)
		assert.Equal(t, money.Money(300), tr.Amount)
	}

	// B settles up; the plan shrinks to C's debt only.
	_, err = svc.RecordSettlement(ctx, groupID, b, a, 300, "venmo")
	require.NoError(t, err)

	plan, err = svc.ComputeSettlementPlan(ctx, groupID)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, Transfer{From: c, To: a, Amount: 300}, plan[0])

	events, err := svc.Events(ctx, groupID)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestServiceValidationRejectsBeforeAppend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewService(NewMemoryStore())
	groupID := uuid.New()
	a, b := uuid.New(), uuid.New()

	_, err := svc.RecordExpense(ctx, groupID, a, "bad", "misc", 1000, []Split{
		{MemberID: a, Owed: 400}, {MemberID: b, Owed: 400},
	})
	require.ErrorIs(t, err, ErrSplitSumMismatch)

	_, err = svc.RecordSettlement(ctx, groupID, a, a, 100, "")
	require.ErrorIs(t, err, ErrSelfSettlement)

	// Nothing reached the ledger.
	events, err := svc.Events(ctx, groupID)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestServiceGroupsAreIndependent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewService(NewMemoryStore())
	g1, g2 := uuid.New(), uuid.New()
	a, b := uuid.New(), uuid.New()

	_, err := svc.RecordExpense(ctx, g1, a, "only in g1", "misc", 500, []Split{{MemberID: b, Owed: 500}})
	require.NoError(t, err)

	nb, err := svc.ComputeBalance(ctx, g2)
	require.NoError(t, err)
	assert.Empty(t, nb)
}

type failingStore struct{ err error }

func (f *failingStore) LoadLedger(context.Context, uuid.UUID) ([]Event, error) { return nil, f.err }
func (f *failingStore) AppendEvent(context.Context, uuid.UUID, Event) error    { return f.err }

func TestServicePropagatesStorageErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storeErr := errors.New("connection reset")
	svc := NewService(&failingStore{err: storeErr})
	groupID := uuid.New()
	a, b := uuid.New(), uuid.New()

	_, err := svc.RecordSettlement(ctx, groupID, a, b, 100, "")
	require.ErrorIs(t, err, storeErr)

	_, err = svc.ComputeBalance(ctx, groupID)
	require.ErrorIs(t, err, storeErr)

	_, err = svc.ComputeSettlementPlan(ctx, groupID)
	require.ErrorIs(t, err, storeErr)
}
