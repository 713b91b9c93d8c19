package supply

import (
	"context"
	"errors"
	"fmt"
	"strings"
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

// ReceiveBatchUseCase registra ingresos de mercancía de un proveedor en lotes.
// Un segundo ingreso con el mismo (proveedor, código de lote) se fusiona en el lote existente.
type ReceiveBatchUseCase struct {
	txRunner ports.TxRunner
	docs     ports.DocumentGenerator
	log      zerolog.Logger
}

// NewReceiveBatchUseCase construye el caso de uso.
func NewReceiveBatchUseCase(txRunner ports.TxRunner, docs ports.DocumentGenerator, log zerolog.Logger) *ReceiveBatchUseCase {
	return &ReceiveBatchUseCase{txRunner: txRunner, docs: docs, log: log}
}

// ReceiveBatch valida todas las líneas, crea o fusiona el lote, agrega las líneas, acumula el costo
// y suma las cantidades en la sucursal destino; todo en una sola transacción.
// Un costo unitario igual o mayor al precio de venta se rechaza antes de cualquier escritura.
func (uc *ReceiveBatchUseCase) ReceiveBatch(ctx context.Context, userID string, in dto.ReceiveBatchRequest) (*dto.BatchReceiptResponse, error) {
	batchCode := strings.TrimSpace(in.BatchCode)
	if in.ProviderID == "" || batchCode == "" || len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: provider_id, batch_code e items son requeridos", domain.ErrInvalidInput)
	}
	for _, item := range in.Items {
		if item.ProductID == "" || item.Quantity <= 0 || item.Quantity > entity.MaxQuantity {
			return nil, fmt.Errorf("%w: cada línea requiere product_id y cantidad mayor a 0", domain.ErrInvalidInput)
		}
		if item.UnitCost.LessThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: unit_cost no puede ser negativo", domain.ErrInvalidInput)
		}
	}

	var receipt *ports.BatchReceipt
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		provider, err := r.Providers.GetByID(ctx, in.ProviderID)
		if err != nil {
			return err
		}
		if provider == nil {
			return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, in.ProviderID)
		}
		branchID, err := catalog.ResolveBranchID(ctx, r.Branches, in.BranchID)
		if err != nil {
			return err
		}

		// Validar productos y márgenes antes de escribir nada
		partialCost := decimal.Zero
		deltas := make([]inventory.Delta, 0, len(in.Items))
		for _, item := range in.Items {
			product, err := r.Products.GetByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, item.ProductID)
			}
			if product.ProviderID != provider.ID {
				return fmt.Errorf("%w: el producto %s no pertenece al proveedor %s", domain.ErrInvalidInput, product.SKU, provider.VisualCode)
			}
			if item.UnitCost.GreaterThanOrEqual(product.SalePrice) {
				return fmt.Errorf("%w: costo %s del producto %s no es menor al precio de venta %s",
					domain.ErrInvalidInput, item.UnitCost.String(), product.SKU, product.SalePrice.String())
			}
			partialCost = partialCost.Add(item.UnitCost.Mul(decimal.NewFromInt(int64(item.Quantity))))
			deltas = append(deltas, inventory.Delta{ProductID: item.ProductID, Quantity: item.Quantity})
		}

		now := time.Now()
		batch, merged, err := uc.openBatch(ctx, r, provider.ID, branchID, batchCode, partialCost, userID, now)
		if err != nil {
			return err
		}

		for _, item := range in.Items {
			line := &entity.SupplyLineItem{
				ID:               uuid.New().String(),
				BatchID:          batch.ID,
				ProductID:        item.ProductID,
				QuantityReceived: item.Quantity,
				UnitCost:         item.UnitCost,
				CreatedAt:        now,
			}
			if err := r.Batches.CreateLineItem(ctx, line); err != nil {
				return err
			}
		}

		if err := inventory.AdjustInTx(ctx, r.Inventory, branchID, deltas); err != nil {
			return err
		}

		receipt, err = buildReceipt(ctx, r, batch)
		if err != nil {
			return err
		}
		receipt.Merged = merged
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("batch_id", receipt.Batch.ID).
		Str("batch_code", receipt.Batch.BatchCode).
		Str("provider_id", receipt.Batch.ProviderID).
		Str("branch_id", receipt.Batch.BranchID).
		Bool("merged", receipt.Merged).
		Int("lines", len(in.Items)).
		Str("total_cost", receipt.Batch.TotalCost.String()).
		Str("user_id", userID).
		Msg("lote recibido")
	return toReceiptResponse(receipt), nil
}

// openBatch devuelve el lote (bloqueado) donde se registrará el ingreso.
// Si no existe lo crea con el costo parcial; si existe suma el costo parcial de forma atómica.
func (uc *ReceiveBatchUseCase) openBatch(
	ctx context.Context,
	r ports.Repos,
	providerID, branchID, batchCode string,
	partialCost decimal.Decimal,
	userID string,
	now time.Time,
) (*entity.SupplyBatch, bool, error) {
	existing, err := r.Batches.GetByProviderAndCodeForUpdate(ctx, providerID, batchCode)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		batch := &entity.SupplyBatch{
			ID:         uuid.New().String(),
			ProviderID: providerID,
			BranchID:   branchID,
			BatchCode:  batchCode,
			TotalCost:  partialCost,
			ReceivedAt: now,
			CreatedBy:  userID,
		}
		err := r.Batches.Create(ctx, batch)
		if err == nil {
			return batch, false, nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, false, err
		}
		// Otro ingreso creó el lote entre la lectura y el insert: se fusiona en él.
		existing, err = r.Batches.GetByProviderAndCodeForUpdate(ctx, providerID, batchCode)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, fmt.Errorf("%w: lote %s duplicado pero no encontrado", domain.ErrInvalidStateTransition, batchCode)
		}
	}

	if existing.BranchID != branchID {
		return nil, false, fmt.Errorf("%w: el lote %s pertenece a otra sucursal", domain.ErrInvalidStateTransition, batchCode)
	}
	total, err := r.Batches.AddTotalCost(ctx, existing.ID, partialCost)
	if err != nil {
		return nil, false, err
	}
	existing.TotalCost = total
	return existing, true, nil
}

// GetReceipt reconstruye el recibo del lote con todas sus líneas.
func (uc *ReceiveBatchUseCase) GetReceipt(ctx context.Context, batchID string) (*dto.BatchReceiptResponse, error) {
	receipt, err := uc.loadReceipt(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return toReceiptResponse(receipt), nil
}

// ReceiptPDF genera el recibo imprimible del lote.
func (uc *ReceiveBatchUseCase) ReceiptPDF(ctx context.Context, batchID string) ([]byte, string, error) {
	receipt, err := uc.loadReceipt(ctx, batchID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.docs.BatchReceiptPDF(ctx, receipt)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("lote-%s-%s.pdf", receipt.Provider.VisualCode, receipt.Batch.BatchCode), nil
}

func (uc *ReceiveBatchUseCase) loadReceipt(ctx context.Context, batchID string) (*ports.BatchReceipt, error) {
	var receipt *ports.BatchReceipt
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		batch, err := r.Batches.GetByID(ctx, batchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return fmt.Errorf("%w: lote %s", domain.ErrNotFound, batchID)
		}
		receipt, err = buildReceipt(ctx, r, batch)
		return err
	})
	return receipt, err
}

func buildReceipt(ctx context.Context, r ports.Repos, batch *entity.SupplyBatch) (*ports.BatchReceipt, error) {
	provider, err := r.Providers.GetByID(ctx, batch.ProviderID)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, batch.ProviderID)
	}
	branch, err := r.Branches.GetByID(ctx, batch.BranchID)
	if err != nil {
		return nil, err
	}
	items, err := r.Batches.ListLineItems(ctx, batch.ID)
	if err != nil {
		return nil, err
	}

	products := make(map[string]*entity.Product)
	lines := make([]ports.ReceiptLine, 0, len(items))
	for _, item := range items {
		p, ok := products[item.ProductID]
		if !ok {
			if p, err = r.Products.GetByID(ctx, item.ProductID); err != nil {
				return nil, err
			}
			products[item.ProductID] = p
		}
		line := ports.ReceiptLine{Item: item}
		if p != nil {
			line.SKU = p.SKU
			line.ProductName = p.Name
		}
		lines = append(lines, line)
	}
	return &ports.BatchReceipt{Batch: batch, Provider: provider, Branch: branch, Lines: lines}, nil
}

func toReceiptResponse(r *ports.BatchReceipt) *dto.BatchReceiptResponse {
	items := make([]dto.SupplyLineResponse, 0, len(r.Lines))
	for _, l := range r.Lines {
		items = append(items, dto.SupplyLineResponse{
			ID:               l.Item.ID,
			ProductID:        l.Item.ProductID,
			SKU:              l.SKU,
			ProductName:      l.ProductName,
			QuantityReceived: l.Item.QuantityReceived,
			UnitCost:         l.Item.UnitCost,
			Subtotal:         l.Item.Subtotal(),
			CreatedAt:        l.Item.CreatedAt,
		})
	}
	return &dto.BatchReceiptResponse{
		ID:           r.Batch.ID,
		ProviderID:   r.Batch.ProviderID,
		ProviderCode: r.Provider.VisualCode,
		BranchID:     r.Batch.BranchID,
		BatchCode:    r.Batch.BatchCode,
		TotalCost:    r.Batch.TotalCost,
		ReceivedAt:   r.Batch.ReceivedAt,
		Merged:       r.Merged,
		Items:        items,
	}
}
