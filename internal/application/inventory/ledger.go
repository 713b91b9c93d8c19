package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-sucursales/internal/application/catalog"
	"github.com/jhoicas/Inventario-sucursales/internal/application/dto"
	"github.com/jhoicas/Inventario-sucursales/internal/application/ports"
	"github.com/jhoicas/Inventario-sucursales/internal/domain"
	"github.com/jhoicas/Inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/Inventario-sucursales/internal/domain/repository"
)

// Delta cambio relativo de stock de un producto.
type Delta struct {
	ProductID string
	Quantity  int // positivo suma, negativo resta
}

// AdjustInTx aplica los deltas sobre la sucursal usando el repositorio de la transacción del caller.
// Las llaves se ajustan en orden de producto para que transacciones concurrentes no se bloqueen
// mutuamente. Ante el primer error se devuelve y el caller hace rollback: nunca queda aplicado a medias.
func AdjustInTx(ctx context.Context, inv repository.InventoryRepository, branchID string, deltas []Delta) error {
	ordered := make([]Delta, len(deltas))
	copy(ordered, deltas)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ProductID < ordered[j].ProductID })

	for _, d := range ordered {
		if d.Quantity == 0 {
			continue
		}
		if _, err := inv.Adjust(ctx, d.ProductID, branchID, d.Quantity); err != nil {
			return fmt.Errorf("producto %s en sucursal %s: %w", d.ProductID, branchID, err)
		}
	}
	return nil
}

// LedgerUseCase lectura y ajuste manual del libro de inventario por (producto, sucursal).
type LedgerUseCase struct {
	txRunner  ports.TxRunner
	inventory repository.InventoryRepository
	branches  repository.BranchRepository
	log       zerolog.Logger
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner ports.TxRunner,
	inventory repository.InventoryRepository,
	branches repository.BranchRepository,
	log zerolog.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:  txRunner,
		inventory: inventory,
		branches:  branches,
		log:       log,
	}
}

// Get devuelve la cantidad del producto en la sucursal (0 si nunca tuvo stock).
// branchID vacío = sucursal principal.
func (uc *LedgerUseCase) Get(ctx context.Context, productID, branchID string) (*dto.StockResponse, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: product_id es requerido", domain.ErrInvalidInput)
	}
	branchID, err := catalog.ResolveBranchID(ctx, uc.branches, branchID)
	if err != nil {
		return nil, err
	}
	rec, err := uc.inventory.Get(ctx, productID, branchID)
	if err != nil {
		return nil, err
	}
	return &dto.StockResponse{ProductID: productID, BranchID: branchID, Quantity: rec.Quantity}, nil
}

// Adjust aplica un ajuste relativo en su propia transacción y devuelve la nueva cantidad.
// Falla con domain.ErrInsufficientStock si la cantidad quedaría negativa; en ese caso no cambia nada.
func (uc *LedgerUseCase) Adjust(ctx context.Context, userID string, in dto.AdjustStockRequest) (*dto.StockResponse, error) {
	if in.ProductID == "" || in.Delta == 0 {
		return nil, fmt.Errorf("%w: product_id y delta distinto de 0 son requeridos", domain.ErrInvalidInput)
	}
	if in.Delta > entity.MaxQuantity || in.Delta < -entity.MaxQuantity {
		return nil, fmt.Errorf("%w: delta fuera de rango", domain.ErrInvalidInput)
	}
	var out *dto.StockResponse
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		branchID, err := catalog.ResolveBranchID(ctx, r.Branches, in.BranchID)
		if err != nil {
			return err
		}
		product, err := r.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
		}
		qty, err := r.Inventory.Adjust(ctx, in.ProductID, branchID, in.Delta)
		if err != nil {
			return err
		}
		out = &dto.StockResponse{ProductID: in.ProductID, BranchID: branchID, Quantity: qty}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("product_id", out.ProductID).
		Str("branch_id", out.BranchID).
		Int("delta", in.Delta).
		Int("quantity", out.Quantity).
		Str("user_id", userID).
		Msg("ajuste de inventario")
	return out, nil
}

// ListByBranch devuelve el inventario de la sucursal como vistas producto + cantidad.
func (uc *LedgerUseCase) ListByBranch(ctx context.Context, branchID string) (*dto.BranchInventoryResponse, error) {
	branchID, err := catalog.ResolveBranchID(ctx, uc.branches, branchID)
	if err != nil {
		return nil, err
	}
	views, err := uc.inventory.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InventoryViewResponse, 0, len(views))
	for _, v := range views {
		items = append(items, dto.InventoryViewResponse{
			ProductID:  v.ProductID,
			ProviderID: v.ProviderID,
			SKU:        v.SKU,
			Barcode:    v.Barcode,
			Name:       v.Name,
			SalePrice:  v.SalePrice,
			CostPrice:  v.CostPrice,
			Quantity:   v.Quantity,
			UpdatedAt:  v.UpdatedAt,
		})
	}
	return &dto.BranchInventoryResponse{BranchID: branchID, Items: items}, nil
}
