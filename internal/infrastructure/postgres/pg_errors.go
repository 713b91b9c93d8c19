package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Inventario-sucursales/internal/domain"
)

// Códigos SQLSTATE que el dominio sabe interpretar.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNumericOutOfRange   = "22003"
)

// pgCode devuelve el SQLSTATE del error o "" si no viene de Postgres.
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool { return pgCode(err) == codeUniqueViolation }

// mapWriteError traduce violaciones de constraints a errores de dominio.
// op se usa como prefijo del mensaje ("insert sale", "adjust inventory").
func mapWriteError(op string, err error) error {
	switch pgCode(err) {
	case codeUniqueViolation:
		return domain.ErrDuplicate
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %s referencia un registro inexistente", domain.ErrNotFound, op)
	case codeNumericOutOfRange:
		return fmt.Errorf("%w: %s cantidad fuera de rango", domain.ErrInvalidInput, op)
	case codeCheckViolation:
		return fmt.Errorf("%w: %s viola una restricción de datos", domain.ErrInvalidInput, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}
