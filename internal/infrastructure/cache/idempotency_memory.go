package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Inventario-sucursales/internal/application/ports"
)

var _ ports.IdempotencyStore = (*MemoryIdempotencyStore)(nil)

type memoryEntry struct {
	resp      ports.StoredResponse
	expiresAt time.Time
}

// MemoryIdempotencyStore alternativa local cuando no hay Redis configurado (una sola instancia).
type MemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryIdempotencyStore crea el store vacío.
func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryIdempotencyStore) Get(_ context.Context, key string) (*ports.StoredResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return nil, nil
	}
	resp := e.resp
	return &resp, nil
}

func (s *MemoryIdempotencyStore) Save(_ context.Context, key string, resp ports.StoredResponse, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	// Limpieza perezosa de entradas vencidas.
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
		}
	}
	s.entries[key] = memoryEntry{resp: resp, expiresAt: now.Add(ttl)}
	return nil
}
