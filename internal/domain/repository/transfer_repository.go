package repository

import (
	"context"

	"github.com/jhoicas/Inventario-sucursales/internal/domain/entity"
)

// TransferRepository define el puerto de persistencia para traslados entre sucursales.
type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.Transfer) error
	CreateLineItem(ctx context.Context, item *entity.TransferLineItem) error
	GetByID(ctx context.Context, id string) (*entity.Transfer, error)
	// GetForUpdate bloquea la fila del traslado (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error)
	ListLineItems(ctx context.Context, transferID string) ([]*entity.TransferLineItem, error)
	// Resolve cambia el estado desde IN_TRANSIT al estado terminal de t (State, ResolvedAt,
	// ResolvedBy, RejectReason). Devuelve domain.ErrInvalidStateTransition si ya no estaba en tránsito.
	Resolve(ctx context.Context, t *entity.Transfer) error
	// ListByDestination traslados cuyo destino es la sucursal; states vacío = todos.
	ListByDestination(ctx context.Context, branchID string, states ...string) ([]*entity.Transfer, error)
	// ListTerminalByBranch traslados terminados donde la sucursal es origen o destino.
	ListTerminalByBranch(ctx context.Context, branchID string) ([]*entity.Transfer, error)
}
