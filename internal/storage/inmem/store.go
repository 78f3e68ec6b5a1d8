// Package inmem is an in-memory implementation of the persistence
// interfaces, used by tests and local runs without a database.
package inmem

import (
	"context"
	"sync"

	"github.com/tenderhound/tenderhound/internal/domain"
)

type Store struct {
	mu      sync.RWMutex
	notices []domain.ProcurementNotice
	cursor  *domain.FetchCursor
}

func New() *Store {
	return &Store{}
}

func (s *Store) Upsert(ctx context.Context, notice domain.ProcurementNotice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notices {
		if s.notices[i].DocumentID == notice.DocumentID {
			s.notices[i] = notice
			return nil
		}
	}
	s.notices = append(s.notices, notice)
	return nil
}

func (s *Store) List(ctx context.Context, limit int64) ([]domain.ProcurementNotice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.notices)
	if limit > 0 && int64(n) > limit {
		n = int(limit)
	}
	out := make([]domain.ProcurementNotice, n)
	copy(out, s.notices[:n])
	return out, nil
}

func (s *Store) SaveCursor(ctx context.Context, c domain.FetchCursor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = &c
	return nil
}

func (s *Store) LoadCursor(ctx context.Context) (*domain.FetchCursor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cursor == nil {
		return nil, nil
	}
	c := *s.cursor
	return &c, nil
}

func (s *Store) Close(ctx context.Context) error {
	return nil
}
