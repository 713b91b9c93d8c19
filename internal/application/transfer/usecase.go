package transfer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-sucursales/internal/application/catalog"
	"github.com/jhoicas/Inventario-sucursales/internal/application/dto"
	"github.com/jhoicas/Inventario-sucursales/internal/application/inventory"
	"github.com/jhoicas/Inventario-sucursales/internal/application/ports"
	"github.com/jhoicas/Inventario-sucursales/internal/domain"
	"github.com/jhoicas/Inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/Inventario-sucursales/internal/domain/repository"
)

// UseCase flujo de traslados entre sucursales: envío, recepción y rechazo.
type UseCase struct {
	txRunner  ports.TxRunner
	transfers repository.TransferRepository
	branches  repository.BranchRepository
	log       zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner ports.TxRunner,
	transfers repository.TransferRepository,
	branches repository.BranchRepository,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		transfers: transfers,
		branches:  branches,
		log:       log,
	}
}

// Send descuenta las cantidades del origen y crea el traslado IN_TRANSIT con sus líneas.
// Si alguna línea no tiene stock suficiente no se descuenta nada ni se crea el traslado.
func (uc *UseCase) Send(ctx context.Context, userID string, in dto.SendTransferRequest) (*dto.TransferResponse, error) {
	if in.DestinationBranchID == "" || len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: destination_branch_id e items son requeridos", domain.ErrInvalidInput)
	}
	// Cantidades agregadas por producto; se conserva el orden de primera aparición.
	qty := make(map[string]int, len(in.Items))
	order := make([]string, 0, len(in.Items))
	for _, item := range in.Items {
		if item.ProductID == "" || item.Quantity <= 0 || item.Quantity > entity.MaxQuantity {
			return nil, fmt.Errorf("%w: cada línea requiere product_id y cantidad mayor a 0", domain.ErrInvalidInput)
		}
		if _, ok := qty[item.ProductID]; !ok {
			order = append(order, item.ProductID)
		}
		total, ok := entity.AddQuantity(qty[item.ProductID], item.Quantity)
		if !ok {
			return nil, fmt.Errorf("%w: la cantidad total de %s supera %d", domain.ErrInvalidInput, item.ProductID, entity.MaxQuantity)
		}
		qty[item.ProductID] = total
	}

	var (
		t     *entity.Transfer
		lines []*entity.TransferLineItem
	)
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		originID, err := catalog.ResolveBranchID(ctx, r.Branches, in.OriginBranchID)
		if err != nil {
			return err
		}
		destID, err := catalog.ResolveBranchID(ctx, r.Branches, in.DestinationBranchID)
		if err != nil {
			return err
		}
		if originID == destID {
			return fmt.Errorf("%w: origen y destino deben ser sucursales distintas", domain.ErrInvalidInput)
		}

		deltas := make([]inventory.Delta, 0, len(order))
		for _, productID := range order {
			product, err := r.Products.GetByID(ctx, productID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
			}
			deltas = append(deltas, inventory.Delta{ProductID: productID, Quantity: -qty[productID]})
		}
		if err := inventory.AdjustInTx(ctx, r.Inventory, originID, deltas); err != nil {
			return err
		}

		t = &entity.Transfer{
			ID:                  uuid.New().String(),
			OriginBranchID:      originID,
			DestinationBranchID: destID,
			State:               entity.TransferStateInTransit,
			SentAt:              time.Now(),
			SentBy:              userID,
		}
		if err := r.Transfers.Create(ctx, t); err != nil {
			return err
		}
		lines = make([]*entity.TransferLineItem, 0, len(order))
		for _, productID := range order {
			line := &entity.TransferLineItem{
				ID:           uuid.New().String(),
				TransferID:   t.ID,
				ProductID:    productID,
				QuantitySent: qty[productID],
			}
			if err := r.Transfers.CreateLineItem(ctx, line); err != nil {
				return err
			}
			lines = append(lines, line)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("transfer_id", t.ID).
		Str("origin_branch_id", t.OriginBranchID).
		Str("destination_branch_id", t.DestinationBranchID).
		Int("lines", len(lines)).
		Str("user_id", userID).
		Msg("traslado enviado")
	return toTransferResponse(t, lines), nil
}

// Receive acredita en el destino las cantidades enviadas (tomadas de las líneas guardadas)
// y marca el traslado COMPLETED. Un traslado ya resuelto devuelve domain.ErrInvalidStateTransition.
func (uc *UseCase) Receive(ctx context.Context, userID, transferID string) (*dto.TransferResponse, error) {
	return uc.resolve(ctx, userID, transferID, entity.TransferStateCompleted, "")
}

// Reject devuelve las cantidades al origen y marca el traslado REJECTED.
func (uc *UseCase) Reject(ctx context.Context, userID, transferID string, in dto.RejectTransferRequest) (*dto.TransferResponse, error) {
	return uc.resolve(ctx, userID, transferID, entity.TransferStateRejected, strings.TrimSpace(in.Reason))
}

func (uc *UseCase) resolve(ctx context.Context, userID, transferID, state, reason string) (*dto.TransferResponse, error) {
	if transferID == "" {
		return nil, fmt.Errorf("%w: transfer_id es requerido", domain.ErrInvalidInput)
	}
	var (
		t     *entity.Transfer
		lines []*entity.TransferLineItem
	)
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		var err error
		t, err = r.Transfers.GetForUpdate(ctx, transferID)
		if err != nil {
			return err
		}
		if t == nil {
			return fmt.Errorf("%w: traslado %s", domain.ErrNotFound, transferID)
		}
		if t.State != entity.TransferStateInTransit {
			return fmt.Errorf("%w: el traslado %s está %s", domain.ErrInvalidStateTransition, t.ID, t.State)
		}
		lines, err = r.Transfers.ListLineItems(ctx, t.ID)
		if err != nil {
			return err
		}

		target := t.DestinationBranchID
		if state == entity.TransferStateRejected {
			target = t.OriginBranchID
		}
		deltas := make([]inventory.Delta, 0, len(lines))
		for _, l := range lines {
			deltas = append(deltas, inventory.Delta{ProductID: l.ProductID, Quantity: l.QuantitySent})
		}
		if err := inventory.AdjustInTx(ctx, r.Inventory, target, deltas); err != nil {
			return err
		}

		now := time.Now()
		t.State = state
		t.ResolvedAt = &now
		t.ResolvedBy = userID
		t.RejectReason = reason
		return r.Transfers.Resolve(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("transfer_id", t.ID).
		Str("state", t.State).
		Str("user_id", userID).
		Msg("traslado resuelto")
	return toTransferResponse(t, lines), nil
}

// Get devuelve el traslado con sus líneas.
func (uc *UseCase) Get(ctx context.Context, transferID string) (*dto.TransferResponse, error) {
	t, err := uc.transfers.GetByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: traslado %s", domain.ErrNotFound, transferID)
	}
	lines, err := uc.transfers.ListLineItems(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return toTransferResponse(t, lines), nil
}

// ListIncoming traslados cuyo destino es la sucursal, en cualquier estado.
// states opcional restringe el resultado (p. ej. solo IN_TRANSIT para la bandeja de recepción).
func (uc *UseCase) ListIncoming(ctx context.Context, branchID string, states ...string) (*dto.TransferListResponse, error) {
	for _, s := range states {
		switch s {
		case entity.TransferStateInTransit, entity.TransferStateCompleted, entity.TransferStateRejected:
		default:
			return nil, fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, s)
		}
	}
	branchID, err := catalog.ResolveBranchID(ctx, uc.branches, branchID)
	if err != nil {
		return nil, err
	}
	list, err := uc.transfers.ListByDestination(ctx, branchID, states...)
	if err != nil {
		return nil, err
	}
	return uc.toList(ctx, list)
}

// ListHistory traslados terminados (COMPLETED o REJECTED) donde la sucursal participó.
func (uc *UseCase) ListHistory(ctx context.Context, branchID string) (*dto.TransferListResponse, error) {
	branchID, err := catalog.ResolveBranchID(ctx, uc.branches, branchID)
	if err != nil {
		return nil, err
	}
	list, err := uc.transfers.ListTerminalByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	return uc.toList(ctx, list)
}

func (uc *UseCase) toList(ctx context.Context, list []*entity.Transfer) (*dto.TransferListResponse, error) {
	items := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		lines, err := uc.transfers.ListLineItems(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, *toTransferResponse(t, lines))
	}
	return &dto.TransferListResponse{Items: items}, nil
}

func toTransferResponse(t *entity.Transfer, lines []*entity.TransferLineItem) *dto.TransferResponse {
	items := make([]dto.TransferLineResponse, 0, len(lines))
	for _, l := range lines {
		items = append(items, dto.TransferLineResponse{
			ID:           l.ID,
			ProductID:    l.ProductID,
			QuantitySent: l.QuantitySent,
		})
	}
	return &dto.TransferResponse{
		ID:                  t.ID,
		OriginBranchID:      t.OriginBranchID,
		DestinationBranchID: t.DestinationBranchID,
		State:               t.State,
		SentAt:              t.SentAt,
		ResolvedAt:          t.ResolvedAt,
		RejectReason:        t.RejectReason,
		Items:               items,
	}
}
