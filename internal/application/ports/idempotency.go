package ports

import (
	"context"
	"time"
)

// StoredResponse respuesta HTTP guardada para reproducir peticiones repetidas.
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyStore guarda la primera respuesta exitosa asociada a una Idempotency-Key.
type IdempotencyStore interface {
	// Get devuelve nil, nil si la llave no tiene respuesta guardada.
	Get(ctx context.Context, key string) (*StoredResponse, error)
	Save(ctx context.Context, key string, resp StoredResponse, ttl time.Duration) error
}
