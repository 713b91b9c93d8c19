package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-sucursales/internal/domain"
	"github.com/jhoicas/Inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/Inventario-sucursales/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo libro de inventario sobre la tabla inventory_records (PK product_id, branch_id).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Get obtiene la cantidad actual; sin fila devuelve cantidad 0.
func (r *InventoryRepo) Get(ctx context.Context, productID, branchID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT product_id, branch_id, quantity, updated_at
		FROM inventory_records WHERE product_id = $1 AND branch_id = $2`
	var rec entity.InventoryRecord
	err := r.q.QueryRow(ctx, query, productID, branchID).Scan(
		&rec.ProductID, &rec.BranchID, &rec.Quantity, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryRecord{ProductID: productID, BranchID: branchID}, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return &rec, nil
}

// Adjust aplica delta en una sola sentencia: la fila queda bloqueada hasta el fin de la tx del caller.
// Incrementos hacen upsert; decrementos solo actualizan si el resultado no es negativo.
func (r *InventoryRepo) Adjust(ctx context.Context, productID, branchID string, delta int) (int, error) {
	var qty int
	if delta >= 0 {
		query := `
			INSERT INTO inventory_records (product_id, branch_id, quantity, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (product_id, branch_id)
			DO UPDATE SET quantity = inventory_records.quantity + EXCLUDED.quantity, updated_at = now()
			RETURNING quantity`
		if err := r.q.QueryRow(ctx, query, productID, branchID, delta).Scan(&qty); err != nil {
			return 0, mapWriteError("increment inventory", err)
		}
		return qty, nil
	}

	query := `
		UPDATE inventory_records
		SET quantity = quantity + $3, updated_at = now()
		WHERE product_id = $1 AND branch_id = $2 AND quantity + $3 >= 0
		RETURNING quantity`
	err := r.q.QueryRow(ctx, query, productID, branchID, delta).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrInsufficientStock
		}
		return 0, fmt.Errorf("decrement inventory: %w", err)
	}
	return qty, nil
}

// ListByBranch une inventory_records con products para la sucursal.
func (r *InventoryRepo) ListByBranch(ctx context.Context, branchID string) ([]*entity.InventoryView, error) {
	query := `
		SELECT i.branch_id, p.id, p.provider_id, p.sku, COALESCE(p.barcode, ''), p.name,
		       p.sale_price, p.cost_price, i.quantity, i.updated_at
		FROM inventory_records i
		JOIN products p ON p.id = i.product_id
		WHERE i.branch_id = $1
		ORDER BY p.sku`
	rows, err := r.q.Query(ctx, query, branchID)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var list []*entity.InventoryView
	for rows.Next() {
		var v entity.InventoryView
		if err := rows.Scan(
			&v.BranchID, &v.ProductID, &v.ProviderID, &v.SKU, &v.Barcode, &v.Name,
			&v.SalePrice, &v.CostPrice, &v.Quantity, &v.UpdatedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}
