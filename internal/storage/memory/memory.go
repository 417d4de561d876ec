// Package memory keeps the high score in process memory. It backs tests
// and runs where no database file is wanted.
package memory

import (
	"context"
	"sync"
)

type Store struct {
	mu    sync.RWMutex
	best  int64
	saves int
}

func New(initial int64) *Store {
	return &Store{best: initial}
}

func (s *Store) HighScore(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.best, nil
}

func (s *Store) SetHighScore(ctx context.Context, ms int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.best = ms
	s.saves++
	return nil
}

// Saves counts SetHighScore calls.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
