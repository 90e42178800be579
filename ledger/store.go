package ledger

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Store is the persistence contract the service runs on. Implementations
// must serialize AppendEvent and LoadLedger per group so a load never sees
// a partially applied append; the gorm adapter does this with database
// transactions, MemoryStore with one lock per group. Storage failures are
// returned unchanged — retry policy belongs to the storage layer.
type Store interface {
	LoadLedger(ctx context.Context, groupID uuid.UUID) ([]Event, error)
	AppendEvent(ctx context.Context, groupID uuid.UUID, e Event) error
}

// MemoryStore keeps one in-memory Ledger per group. It is the reference
// Store implementation and the backend used in tests.
type MemoryStore struct {
	mu      sync.Mutex
	ledgers map[uuid.UUID]*Ledger
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{ledgers: make(map[uuid.UUID]*Ledger)}
}

func (m *MemoryStore) ledger(groupID uuid.UUID) *Ledger {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.ledgers[groupID]
	if !ok {
		l = New(groupID)
		m.ledgers[groupID] = l
	}
	return l
}

func (m *MemoryStore) LoadLedger(_ context.Context, groupID uuid.UUID) ([]Event, error) {
	return m.ledger(groupID).Snapshot(), nil
}

func (m *MemoryStore) AppendEvent(_ context.Context, groupID uuid.UUID, e Event) error {
	return m.ledger(groupID).Append(e)
}
