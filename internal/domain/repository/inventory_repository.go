package repository

import (
	"context"

	"github.com/jhoicas/Inventario-sucursales/internal/domain/entity"
)

// InventoryRepository puerto del libro de inventario por (producto, sucursal).
type InventoryRepository interface {
	// Get devuelve el registro; si no existe devuelve cantidad 0 (sin error).
	Get(ctx context.Context, productID, branchID string) (*entity.InventoryRecord, error)
	// Adjust aplica delta de forma atómica sobre la llave y devuelve la nueva cantidad.
	// Devuelve domain.ErrInsufficientStock si el resultado sería negativo (sin modificar nada).
	// Crea la fila en el primer incremento.
	Adjust(ctx context.Context, productID, branchID string, delta int) (int, error)
	// ListByBranch devuelve los productos con registro en la sucursal unidos a su cantidad.
	ListByBranch(ctx context.Context, branchID string) ([]*entity.InventoryView, error)
}
