package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-sucursales/internal/application/ports"
)

var _ ports.Locker = (*RedisLocker)(nil)

// RedisLocker lock distribuido con bsm/redislock; sirve entre varias instancias de la API.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewRedisLocker construye el locker. ttl acota cuánto vive un lock si el proceso muere sin liberarlo.
func NewRedisLocker(rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb), ttl: ttl, log: log}
}

// Obtain intenta tomar el lock una sola vez; si está tomado devuelve ports.ErrLockNotObtained.
func (l *RedisLocker) Obtain(ctx context.Context, key string) (func(), error) {
	lk, err := l.client.Obtain(ctx, "lock:"+key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ports.ErrLockNotObtained
	}
	if err != nil {
		return nil, fmt.Errorf("obtain redis lock: %w", err)
	}
	return func() {
		// Contexto propio: el de la petición puede estar cancelado al liberar.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := lk.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warn().Err(err).Str("key", key).Msg("no se pudo liberar el lock")
		}
	}, nil
}
