package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-sucursales/internal/application/catalog"
	"github.com/jhoicas/Inventario-sucursales/internal/application/dto"
	"github.com/jhoicas/Inventario-sucursales/internal/application/inventory"
	"github.com/jhoicas/Inventario-sucursales/internal/application/ports"
	"github.com/jhoicas/Inventario-sucursales/internal/domain"
	"github.com/jhoicas/Inventario-sucursales/internal/domain/entity"
)

// RegisterSaleUseCase registra una venta y descuenta el inventario de la sucursal en una sola transacción.
type RegisterSaleUseCase struct {
	txRunner ports.TxRunner
	log      zerolog.Logger
}

// NewRegisterSaleUseCase construye el caso de uso.
func NewRegisterSaleUseCase(txRunner ports.TxRunner, log zerolog.Logger) *RegisterSaleUseCase {
	return &RegisterSaleUseCase{txRunner: txRunner, log: log}
}

// RegisterSale descuenta cada línea de la sucursal y guarda cabecera y líneas.
// Si alguna línea no tiene stock se devuelve domain.ErrInsufficientStock y no se registra nada.
func (uc *RegisterSaleUseCase) RegisterSale(ctx context.Context, userID string, in dto.RegisterSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: items es requerido", domain.ErrInvalidInput)
	}
	for _, item := range in.Items {
		if item.ProductID == "" || item.Quantity <= 0 || item.Quantity > entity.MaxQuantity {
			return nil, fmt.Errorf("%w: cada línea requiere product_id y cantidad mayor a 0", domain.ErrInvalidInput)
		}
		if item.UnitPrice != nil && item.UnitPrice.LessThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: unit_price no puede ser negativo", domain.ErrInvalidInput)
		}
	}

	var (
		sale  *entity.Sale
		lines []*entity.SaleLineItem
	)
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		branchID, err := catalog.ResolveBranchID(ctx, r.Branches, in.BranchID)
		if err != nil {
			return err
		}

		sale = &entity.Sale{
			ID:        uuid.New().String(),
			BranchID:  branchID,
			Total:     decimal.Zero,
			SoldAt:    time.Now(),
			CreatedBy: userID,
		}
		deltas := make([]inventory.Delta, 0, len(in.Items))
		lines = make([]*entity.SaleLineItem, 0, len(in.Items))
		for _, item := range in.Items {
			product, err := r.Products.GetByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, item.ProductID)
			}
			price := product.SalePrice
			if item.UnitPrice != nil {
				price = *item.UnitPrice
			}
			subtotal := price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			sale.Total = sale.Total.Add(subtotal)
			lines = append(lines, &entity.SaleLineItem{
				ID:        uuid.New().String(),
				SaleID:    sale.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: price,
				Subtotal:  subtotal,
			})
			deltas = append(deltas, inventory.Delta{ProductID: item.ProductID, Quantity: -item.Quantity})
		}

		// 1) Salida de inventario; sin stock se hace rollback completo.
		if err := inventory.AdjustInTx(ctx, r.Inventory, branchID, deltas); err != nil {
			return err
		}
		// 2) Cabecera y líneas
		if err := r.Sales.Create(ctx, sale); err != nil {
			return err
		}
		for _, l := range lines {
			if err := r.Sales.CreateLineItem(ctx, l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("branch_id", sale.BranchID).
		Str("total", sale.Total.String()).
		Str("user_id", userID).
		Msg("venta registrada")

	items := make([]dto.SaleLineResponse, 0, len(lines))
	for _, l := range lines {
		items = append(items, dto.SaleLineResponse{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		})
	}
	return &dto.SaleResponse{
		ID:       sale.ID,
		BranchID: sale.BranchID,
		Total:    sale.Total,
		SoldAt:   sale.SoldAt,
		Items:    items,
	}, nil
}
