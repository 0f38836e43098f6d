package ports_test

import (
	"context"
	"testing"

	"github.com/aretw0/careerbot/pkg/domain"
	"github.com/aretw0/careerbot/pkg/ports"
)

// MockStore is an in-memory implementation of StateStore for testing purposes.
type MockStore struct {
	data map[string]*domain.State
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.State),
	}
}

func (m *MockStore) Save(ctx context.Context, conversationID string, state *domain.State) error {
	m.data[conversationID] = state.Clone()
	return nil
}

func (m *MockStore) Load(ctx context.Context, conversationID string) (*domain.State, error) {
	s, ok := m.data[conversationID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s.Clone(), nil
}

func (m *MockStore) Delete(ctx context.Context, conversationID string) error {
	delete(m.data, conversationID)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestMockStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, NewMockStore())
}
