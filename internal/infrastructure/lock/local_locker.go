package lock

import (
	"context"
	"sync"

	"github.com/jhoicas/Inventario-sucursales/internal/application/ports"
)

var _ ports.Locker = (*LocalLocker)(nil)

// LocalLocker locks por llave dentro del proceso (sin Redis).
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocalLocker crea el locker vacío.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]struct{})}
}

// Obtain no espera: si la llave está tomada devuelve ports.ErrLockNotObtained.
func (l *LocalLocker) Obtain(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return nil, ports.ErrLockNotObtained
	}
	l.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, nil
}
