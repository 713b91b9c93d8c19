package repository

import (
	"context"

	"github.com/jhoicas/Inventario-sucursales/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SupplyBatchRepository define el puerto de persistencia para lotes de abastecimiento.
type SupplyBatchRepository interface {
	// GetByProviderAndCodeForUpdate busca el lote y bloquea su fila; nil si no existe.
	GetByProviderAndCodeForUpdate(ctx context.Context, providerID, batchCode string) (*entity.SupplyBatch, error)
	// Create devuelve domain.ErrDuplicate si ya existe un lote con (provider_id, batch_code).
	Create(ctx context.Context, batch *entity.SupplyBatch) error
	GetByID(ctx context.Context, id string) (*entity.SupplyBatch, error)
	// AddTotalCost incrementa total_cost de forma atómica y devuelve el nuevo total.
	AddTotalCost(ctx context.Context, batchID string, delta decimal.Decimal) (decimal.Decimal, error)
	CreateLineItem(ctx context.Context, item *entity.SupplyLineItem) error
	ListLineItems(ctx context.Context, batchID string) ([]*entity.SupplyLineItem, error)
}
