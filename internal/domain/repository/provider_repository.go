package repository

import (
	"context"

	"github.com/jhoicas/Inventario-sucursales/internal/domain/entity"
)

// ProviderRepository define el puerto de persistencia para proveedores y sus consecutivos.
type ProviderRepository interface {
	Create(ctx context.Context, provider *entity.Provider) error
	GetByID(ctx context.Context, id string) (*entity.Provider, error)
	// GetForUpdate bloquea la fila del proveedor hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Provider, error)
	// Update persiste nombre, letra, consecutivo de letra, código visual y ean_global_id.
	// No toca last_sku_sequence.
	Update(ctx context.Context, provider *entity.Provider) error
	// AdvanceSKUSequence guarda seq solo si es estrictamente mayor al valor actual.
	// Devuelve false si no avanzó (guardado repetido o fuera de orden).
	AdvanceSKUSequence(ctx context.Context, providerID string, seq int) (bool, error)
	// LockLetter serializa la asignación de consecutivos para una letra hasta el fin de la transacción.
	LockLetter(ctx context.Context, letter string) error
	// MaxLetterSequence devuelve el mayor letter_sequence emitido para la letra (0 si ninguno).
	MaxLetterSequence(ctx context.Context, letter string) (int, error)
}
