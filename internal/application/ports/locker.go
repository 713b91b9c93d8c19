package ports

import (
	"context"
	"errors"
)

// ErrLockNotObtained la llave ya está tomada por otra petición.
var ErrLockNotObtained = errors.New("lock no obtenido")

// Locker bloqueo exclusivo por llave (entre instancias si la implementación lo soporta).
// El unlock devuelto debe llamarse siempre.
type Locker interface {
	Obtain(ctx context.Context, key string) (unlock func(), err error)
}
