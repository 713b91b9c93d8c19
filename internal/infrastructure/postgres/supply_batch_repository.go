package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-sucursales/internal/domain"
	"github.com/jhoicas/Inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/Inventario-sucursales/internal/domain/repository"
)

var _ repository.SupplyBatchRepository = (*SupplyBatchRepo)(nil)

// SupplyBatchRepo lotes de abastecimiento y sus líneas.
type SupplyBatchRepo struct {
	q Querier
}

// NewSupplyBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplyBatchRepository(q Querier) *SupplyBatchRepo {
	return &SupplyBatchRepo{q: q}
}

const batchColumns = `id, provider_id, branch_id, batch_code, total_cost, received_at, created_by`

func scanBatch(row pgx.Row) (*entity.SupplyBatch, error) {
	var b entity.SupplyBatch
	if err := row.Scan(&b.ID, &b.ProviderID, &b.BranchID, &b.BatchCode, &b.TotalCost, &b.ReceivedAt, &b.CreatedBy); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetByProviderAndCodeForUpdate busca el lote por su llave natural y bloquea la fila.
func (r *SupplyBatchRepo) GetByProviderAndCodeForUpdate(ctx context.Context, providerID, batchCode string) (*entity.SupplyBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM supply_batches WHERE provider_id = $1 AND batch_code = $2 FOR UPDATE`
	b, err := scanBatch(r.q.QueryRow(ctx, query, providerID, batchCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supply batch for update: %w", err)
	}
	return b, nil
}

// Create inserta el lote. ON CONFLICT DO NOTHING espera a la tx que insertó la misma llave
// y no aborta la transacción del caller: sin fila insertada se devuelve domain.ErrDuplicate.
func (r *SupplyBatchRepo) Create(ctx context.Context, b *entity.SupplyBatch) error {
	query := `
		INSERT INTO supply_batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (provider_id, batch_code) DO NOTHING`
	tag, err := r.q.Exec(ctx, query, b.ID, b.ProviderID, b.BranchID, b.BatchCode, b.TotalCost, b.ReceivedAt, b.CreatedBy)
	if err != nil {
		return mapWriteError("insert supply batch", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDuplicate
	}
	return nil
}

// GetByID obtiene el lote; nil si no existe.
func (r *SupplyBatchRepo) GetByID(ctx context.Context, id string) (*entity.SupplyBatch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, `SELECT `+batchColumns+` FROM supply_batches WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supply batch: %w", err)
	}
	return b, nil
}

// AddTotalCost suma delta sobre el valor guardado (no sobre una lectura previa).
func (r *SupplyBatchRepo) AddTotalCost(ctx context.Context, batchID string, delta decimal.Decimal) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`UPDATE supply_batches SET total_cost = total_cost + $2 WHERE id = $1 RETURNING total_cost`,
		batchID, delta,
	).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("add batch total cost: %w", err)
	}
	return total, nil
}

// CreateLineItem agrega una línea al lote.
func (r *SupplyBatchRepo) CreateLineItem(ctx context.Context, item *entity.SupplyLineItem) error {
	query := `
		INSERT INTO supply_line_items (id, batch_id, product_id, quantity_received, unit_cost, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.BatchID, item.ProductID, item.QuantityReceived, item.UnitCost, item.CreatedAt,
	)
	if err != nil {
		return mapWriteError("insert supply line item", err)
	}
	return nil
}

// ListLineItems líneas del lote en orden de llegada.
func (r *SupplyBatchRepo) ListLineItems(ctx context.Context, batchID string) ([]*entity.SupplyLineItem, error) {
	query := `
		SELECT id, batch_id, product_id, quantity_received, unit_cost, created_at
		FROM supply_line_items WHERE batch_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("list supply line items: %w", err)
	}
	defer rows.Close()

	var list []*entity.SupplyLineItem
	for rows.Next() {
		var it entity.SupplyLineItem
		if err := rows.Scan(&it.ID, &it.BatchID, &it.ProductID, &it.QuantityReceived, &it.UnitCost, &it.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
