package memory

import (
	"context"
	"sync"

	"github.com/hamed0406/sessionkeeper/internal/domain"
)

// Store is a fixed-capacity ring of the most recent cycles.
type Store struct {
	mu     sync.RWMutex
	cycles []domain.Cycle
	next   int
	full   bool
}

func New(capacity int) *Store {
	if capacity < 1 {
		capacity = 1
	}
	return &Store{cycles: make([]domain.Cycle, capacity)}
}

func (m *Store) Append(ctx context.Context, c *domain.Cycle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cycles[m.next] = *c
	m.next = (m.next + 1) % len(m.cycles)
	if m.next == 0 {
		m.full = true
	}
	return nil
}

func (m *Store) Latest(ctx context.Context) (*domain.Cycle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.len() == 0 {
		return nil, nil
	}
	c := m.cycles[(m.next-1+len(m.cycles))%len(m.cycles)]
	return &c, nil
}

func (m *Store) List(ctx context.Context, limit int) ([]domain.Cycle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := m.len()
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.Cycle, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, m.cycles[(m.next-i+len(m.cycles))%len(m.cycles)])
	}
	return out, nil
}

func (m *Store) len() int {
	if m.full {
		return len(m.cycles)
	}
	return m.next
}
