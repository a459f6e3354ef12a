// Package memory provides an in-process storage.Provider used by tests and
// the "memory:" config target.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Naimy441/nutriuni/internal/storage"
)

// Op names a Provider operation for fault injection.
type Op string

const (
	OpGet    Op = "get"
	OpSet    Op = "set"
	OpDelete Op = "delete"
	OpList   Op = "list"
	OpClear  Op = "clear"
)

type Store struct {
	mu     sync.RWMutex
	data   map[string]string
	faults map[Op]error
}

func NewStore() *Store {
	return &Store{
		data:   make(map[string]string),
		faults: make(map[Op]error),
	}
}

// Fail makes every subsequent call of op return err. A nil err clears the fault.
func (s *Store) Fail(op Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

func (s *Store) fault(op Op) error {
	if err, ok := s.faults[op]; ok {
		return fmt.Errorf("memory store %s: %w", op, err)
	}
	return nil
}

func (s *Store) Init() error  { return nil }
func (s *Store) Load() error  { return nil }
func (s *Store) Close() error { return nil }

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fault(OpGet); err != nil {
		return "", err
	}
	v, ok := s.data[key]
	if !ok {
		return "", fmt.Errorf("%s: %w", key, storage.ErrNotFound)
	}
	return v, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault(OpSet); err != nil {
		return err
	}
	s.data[key] = value
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault(OpDelete); err != nil {
		return err
	}
	delete(s.data, key)
	return nil
}

func (s *Store) ListKeys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fault(OpList); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault(OpClear); err != nil {
		return err
	}
	s.data = make(map[string]string)
	return nil
}

func (s *Store) GetConfigPath() string {
	return "memory"
}
