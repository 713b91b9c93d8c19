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

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo traslados entre sucursales y sus líneas.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, origin_branch_id, destination_branch_id, state, sent_at, resolved_at, reject_reason, sent_by, resolved_by`

func scanTransfer(row pgx.Row) (*entity.Transfer, error) {
	var t entity.Transfer
	err := row.Scan(
		&t.ID, &t.OriginBranchID, &t.DestinationBranchID, &t.State, &t.SentAt,
		&t.ResolvedAt, &t.RejectReason, &t.SentBy, &t.ResolvedBy,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransferRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Transfer, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	var list []*entity.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Create persiste la cabecera del traslado.
func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	query := `
		INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.OriginBranchID, t.DestinationBranchID, t.State, t.SentAt,
		t.ResolvedAt, t.RejectReason, t.SentBy, t.ResolvedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

// CreateLineItem persiste una línea del traslado.
func (r *TransferRepo) CreateLineItem(ctx context.Context, item *entity.TransferLineItem) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO transfer_line_items (id, transfer_id, product_id, quantity_sent) VALUES ($1, $2, $3, $4)`,
		item.ID, item.TransferID, item.ProductID, item.QuantitySent,
	)
	if err != nil {
		return mapWriteError("insert transfer line item", err)
	}
	return nil
}

// GetByID obtiene el traslado; nil si no existe.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, `SELECT `+transferColumns+` FROM transfers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return t, nil
}

// GetForUpdate obtiene el traslado y bloquea la fila.
func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, `SELECT `+transferColumns+` FROM transfers WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer for update: %w", err)
	}
	return t, nil
}

// ListLineItems líneas del traslado.
func (r *TransferRepo) ListLineItems(ctx context.Context, transferID string) ([]*entity.TransferLineItem, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, transfer_id, product_id, quantity_sent FROM transfer_line_items WHERE transfer_id = $1 ORDER BY product_id`,
		transferID,
	)
	if err != nil {
		return nil, fmt.Errorf("list transfer line items: %w", err)
	}
	defer rows.Close()

	var list []*entity.TransferLineItem
	for rows.Next() {
		var it entity.TransferLineItem
		if err := rows.Scan(&it.ID, &it.TransferID, &it.ProductID, &it.QuantitySent); err != nil {
			return nil, err
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// Resolve solo cambia traslados que siguen IN_TRANSIT; dos resoluciones concurrentes no pueden ganar ambas.
func (r *TransferRepo) Resolve(ctx context.Context, t *entity.Transfer) error {
	query := `
		UPDATE transfers
		SET state = $2, resolved_at = $3, resolved_by = $4, reject_reason = $5
		WHERE id = $1 AND state = $6`
	tag, err := r.q.Exec(ctx, query,
		t.ID, t.State, t.ResolvedAt, t.ResolvedBy, t.RejectReason, entity.TransferStateInTransit,
	)
	if err != nil {
		return fmt.Errorf("resolve transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidStateTransition
	}
	return nil
}

// ListByDestination traslados hacia la sucursal, más recientes primero.
func (r *TransferRepo) ListByDestination(ctx context.Context, branchID string, states ...string) ([]*entity.Transfer, error) {
	if len(states) == 0 {
		return r.list(ctx,
			`SELECT `+transferColumns+` FROM transfers WHERE destination_branch_id = $1 ORDER BY sent_at DESC`,
			branchID,
		)
	}
	return r.list(ctx,
		`SELECT `+transferColumns+` FROM transfers WHERE destination_branch_id = $1 AND state = ANY($2) ORDER BY sent_at DESC`,
		branchID, states,
	)
}

// ListTerminalByBranch traslados COMPLETED o REJECTED donde la sucursal es origen o destino.
func (r *TransferRepo) ListTerminalByBranch(ctx context.Context, branchID string) ([]*entity.Transfer, error) {
	return r.list(ctx, `
		SELECT `+transferColumns+` FROM transfers
		WHERE (origin_branch_id = $1 OR destination_branch_id = $1) AND state = ANY($2)
		ORDER BY resolved_at DESC`,
		branchID, []string{entity.TransferStateCompleted, entity.TransferStateRejected},
	)
}
