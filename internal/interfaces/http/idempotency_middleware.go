package http

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Inventario-sucursales/internal/application/dto"
	"github.com/jhoicas/Inventario-sucursales/internal/application/ports"
)

// HeaderIdempotencyKey header opcional en los POST que mueven inventario.
const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"
)

// Idempotency guarda la primera respuesta 2xx de cada Idempotency-Key y la repite en reintentos.
// La llave se aísla por usuario, método y ruta. Mientras una petición con la misma llave está en curso,
// las demás reciben 409 REQUEST_IN_PROGRESS. Sin header la petición pasa sin cambios.
func Idempotency(store ports.IdempotencyStore, locker ports.Locker, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := strings.TrimSpace(c.Get(HeaderIdempotencyKey))
		if key == "" {
			return c.Next()
		}
		if len(key) > 200 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "Idempotency-Key demasiado larga"})
		}
		scoped := GetUserID(c) + ":" + c.Method() + ":" + c.Path() + ":" + key

		if done, err := replay(c, store, scoped); done {
			return err
		}

		unlock, err := locker.Obtain(c.Context(), "idem:"+scoped)
		if errors.Is(err, ports.ErrLockNotObtained) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "REQUEST_IN_PROGRESS", Message: "ya hay una petición en curso con esta Idempotency-Key"})
		}
		if err != nil {
			return writeError(c, err)
		}
		defer unlock()

		// Otra petición pudo terminar entre la primera lectura y el lock.
		if done, err := replay(c, store, scoped); done {
			return err
		}

		if err := c.Next(); err != nil {
			return err
		}
		status := c.Response().StatusCode()
		if status < 200 || status >= 300 {
			return nil
		}
		resp := ports.StoredResponse{
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
		}
		if err := store.Save(c.Context(), scoped, resp, ttl); err != nil {
			log.Warn().Err(err).Str("path", c.Path()).Msg("no se pudo guardar la respuesta idempotente")
		}
		return nil
	}
}

// replay responde con la respuesta guardada. done=true si la petición ya quedó respondida.
func replay(c *fiber.Ctx, store ports.IdempotencyStore, key string) (done bool, err error) {
	stored, err := store.Get(c.Context(), key)
	if err != nil {
		return true, writeError(c, err)
	}
	if stored == nil {
		return false, nil
	}
	c.Set(HeaderReplayed, "true")
	if stored.ContentType != "" {
		c.Set(fiber.HeaderContentType, stored.ContentType)
	}
	return true, c.Status(stored.Status).Send(stored.Body)
}
