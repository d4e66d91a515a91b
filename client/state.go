package client

import (
	"context"
	"sync"

	"github.com/CPU-commits/CareerNest/models"
)

// Slice is the loading / error / data state of one fetch.
type Slice[T any] struct {
	Loading bool
	Err     error
	Data    T
}

// Store keeps one Slice per key. Loads of the same key are not
// de-duplicated: the last one to finish wins.
type Store[K comparable, T any] struct {
	mu     sync.RWMutex
	slices map[K]Slice[T]
}

func (s *Store[K, T]) Get(key K) Slice[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slices[key]
}

func (s *Store[K, T]) set(key K, slice Slice[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slices[key] = slice
}

// Load marks key as loading, runs fetch and stores its outcome. A failed
// fetch keeps the previous data.
func (s *Store[K, T]) Load(ctx context.Context, key K, fetch func(ctx context.Context) (T, error)) Slice[T] {
	previous := s.Get(key)
	s.set(key, Slice[T]{Loading: true, Data: previous.Data})

	data, err := fetch(ctx)
	slice := Slice[T]{Data: data, Err: err}
	if err != nil {
		slice.Data = previous.Data
	}
	s.set(key, slice)
	return slice
}

func NewStore[K comparable, T any]() *Store[K, T] {
	return &Store[K, T]{
		slices: make(map[K]Slice[T]),
	}
}

// ListingsStore holds one page per kind.
type ListingsStore = Store[models.Kind, *ListingPage]
