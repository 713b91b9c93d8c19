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

var _ repository.ProviderRepository = (*ProviderRepo)(nil)

// ProviderRepo implementación de ProviderRepository sobre PostgreSQL (usable con pool o tx).
type ProviderRepo struct {
	q Querier
}

// NewProviderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProviderRepository(q Querier) *ProviderRepo {
	return &ProviderRepo{q: q}
}

const providerColumns = `id, name, visual_code, letter_prefix, letter_sequence, ean_global_id, last_sku_sequence, created_at, updated_at`

func scanProvider(row pgx.Row) (*entity.Provider, error) {
	var p entity.Provider
	err := row.Scan(
		&p.ID, &p.Name, &p.VisualCode, &p.LetterPrefix, &p.LetterSequence,
		&p.EANGlobalID, &p.LastSKUSequence, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un proveedor. Código visual o ean_global_id repetidos devuelven domain.ErrDuplicate.
func (r *ProviderRepo) Create(ctx context.Context, p *entity.Provider) error {
	query := `
		INSERT INTO providers (` + providerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.VisualCode, p.LetterPrefix, p.LetterSequence,
		p.EANGlobalID, p.LastSKUSequence, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert provider: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID; nil si no existe.
func (r *ProviderRepo) GetByID(ctx context.Context, id string) (*entity.Provider, error) {
	p, err := scanProvider(r.q.QueryRow(ctx, `SELECT `+providerColumns+` FROM providers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get provider: %w", err)
	}
	return p, nil
}

// GetForUpdate obtiene el proveedor y bloquea la fila (SELECT FOR UPDATE).
func (r *ProviderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Provider, error) {
	p, err := scanProvider(r.q.QueryRow(ctx, `SELECT `+providerColumns+` FROM providers WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get provider for update: %w", err)
	}
	return p, nil
}

// Update persiste los datos editables del proveedor. last_sku_sequence no se toca.
func (r *ProviderRepo) Update(ctx context.Context, p *entity.Provider) error {
	query := `
		UPDATE providers
		SET name = $2, visual_code = $3, letter_prefix = $4, letter_sequence = $5, ean_global_id = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.VisualCode, p.LetterPrefix, p.LetterSequence, p.EANGlobalID, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update provider: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdvanceSKUSequence solo avanza el consecutivo si seq es mayor al guardado.
func (r *ProviderRepo) AdvanceSKUSequence(ctx context.Context, providerID string, seq int) (bool, error) {
	query := `
		UPDATE providers SET last_sku_sequence = $2, updated_at = now()
		WHERE id = $1 AND last_sku_sequence < $2`
	tag, err := r.q.Exec(ctx, query, providerID, seq)
	if err != nil {
		return false, fmt.Errorf("advance sku sequence: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// LockLetter toma un advisory lock transaccional por letra; se libera en commit o rollback.
func (r *ProviderRepo) LockLetter(ctx context.Context, letter string) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('provider_letter:' || $1))`, letter); err != nil {
		return fmt.Errorf("lock provider letter: %w", err)
	}
	return nil
}

// MaxLetterSequence mayor consecutivo emitido para la letra; 0 si no hay proveedores con ella.
func (r *ProviderRepo) MaxLetterSequence(ctx context.Context, letter string) (int, error) {
	var max int
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(MAX(letter_sequence), 0) FROM providers WHERE letter_prefix = $1`, letter,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max letter sequence: %w", err)
	}
	return max, nil
}
