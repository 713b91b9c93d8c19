package postgres

import (
	"context"

	"github.com/jhoicas/Inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/Inventario-sucursales/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas y sus líneas.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de la venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO sales (id, branch_id, total, sold_at, created_by) VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.BranchID, s.Total, s.SoldAt, s.CreatedBy,
	)
	if err != nil {
		return mapWriteError("insert sale", err)
	}
	return nil
}

// CreateLineItem persiste una línea de la venta.
func (r *SaleRepo) CreateLineItem(ctx context.Context, it *entity.SaleLineItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sale_line_items (id, sale_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		it.ID, it.SaleID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal,
	)
	if err != nil {
		return mapWriteError("insert sale line item", err)
	}
	return nil
}
