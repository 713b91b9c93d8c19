package ports

import (
	"context"

	"github.com/jhoicas/Inventario-sucursales/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Branches  repository.BranchRepository
	Providers repository.ProviderRepository
	Products  repository.ProductRepository
	Inventory repository.InventoryRepository
	Batches   repository.SupplyBatchRepository
	Transfers repository.TransferRepository
	Sales     repository.SaleRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD con repositorios atados a esa tx.
// Commit si fn devuelve nil; Rollback de todas las escrituras parciales en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
