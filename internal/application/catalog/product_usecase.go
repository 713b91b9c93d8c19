package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-sucursales/internal/application/dto"
	"github.com/jhoicas/Inventario-sucursales/internal/application/ports"
	"github.com/jhoicas/Inventario-sucursales/internal/domain"
	"github.com/jhoicas/Inventario-sucursales/internal/domain/codegen"
	"github.com/jhoicas/Inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/Inventario-sucursales/internal/domain/repository"
)

// ProductUseCase alta de productos con SKU y EAN-13 generados a partir del consecutivo del proveedor.
type ProductUseCase struct {
	txRunner  ports.TxRunner
	products  repository.ProductRepository
	providers repository.ProviderRepository
	docs      ports.DocumentGenerator
	log       zerolog.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	txRunner ports.TxRunner,
	products repository.ProductRepository,
	providers repository.ProviderRepository,
	docs ports.DocumentGenerator,
	log zerolog.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		txRunner:  txRunner,
		products:  products,
		providers: providers,
		docs:      docs,
		log:       log,
	}
}

// Create crea el producto. El consecutivo del proveedor se reserva dentro de la misma transacción
// (fila del proveedor bloqueada) y solo avanza si el producto se guarda.
// Si el SKU choca con uno existente se reintenta una única vez con un consecutivo posterior;
// un segundo choque se devuelve como domain.ErrDuplicate (reintentable por el caller).
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.ProviderID == "" || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: provider_id y name son requeridos", domain.ErrInvalidInput)
	}
	if !in.SalePrice.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: sale_price debe ser mayor a 0", domain.ErrInvalidInput)
	}
	if in.CostPrice.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: cost_price no puede ser negativo", domain.ErrInvalidInput)
	}

	product, seq, err := uc.createAttempt(ctx, in, 0)
	if errors.Is(err, domain.ErrDuplicate) {
		uc.log.Warn().
			Str("provider_id", in.ProviderID).
			Int("sequence", seq).
			Msg("SKU duplicado, se reintenta con el siguiente consecutivo")
		product, _, err = uc.createAttempt(ctx, in, seq)
	}
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("product_id", product.ID).
		Str("sku", product.SKU).
		Str("barcode", product.Barcode).
		Msg("producto creado")
	return toProductResponse(product), nil
}

// createAttempt genera y guarda el producto en una transacción. floor fuerza a que el consecutivo
// sea mayor que un valor ya usado (reintento tras colisión). Devuelve el consecutivo intentado.
func (uc *ProductUseCase) createAttempt(ctx context.Context, in dto.CreateProductRequest, floor int) (*entity.Product, int, error) {
	var (
		product *entity.Product
		seq     int
	)
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		provider, err := r.Providers.GetForUpdate(ctx, in.ProviderID)
		if err != nil {
			return err
		}
		if provider == nil {
			return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, in.ProviderID)
		}
		last := provider.LastSKUSequence
		if floor > last {
			last = floor
		}
		var sku string
		sku, seq = codegen.NextSKU(provider.VisualCode, last)

		barcode := ""
		if in.WithBarcode {
			if barcode, err = codegen.NextEAN13(provider.EANGlobalID, seq); err != nil {
				return err
			}
		}

		now := time.Now()
		product = &entity.Product{
			ID:          uuid.New().String(),
			ProviderID:  provider.ID,
			SKU:         sku,
			Barcode:     barcode,
			Name:        strings.TrimSpace(in.Name),
			Description: in.Description,
			SalePrice:   in.SalePrice,
			CostPrice:   in.CostPrice,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := r.Products.Create(ctx, product); err != nil {
			return err
		}
		_, err = r.Providers.AdvanceSKUSequence(ctx, provider.ID, seq)
		return err
	})
	if err != nil {
		return nil, seq, err
	}
	return product, seq, nil
}

// GetByID obtiene un producto por ID; nil si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// GetBySKU busca un producto por su SKU (lector de etiquetas en punto de venta); nil si no existe.
func (uc *ProductUseCase) GetBySKU(ctx context.Context, sku string) (*dto.ProductResponse, error) {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if sku == "" {
		return nil, fmt.Errorf("%w: sku es requerido", domain.ErrInvalidInput)
	}
	product, err := uc.products.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// LabelPDF genera la etiqueta imprimible del producto (nombre, SKU, precio y código de barras).
func (uc *ProductUseCase) LabelPDF(ctx context.Context, id string) ([]byte, string, error) {
	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("label: obtener producto: %w", err)
	}
	if product == nil {
		return nil, "", domain.ErrNotFound
	}
	provider, err := uc.providers.GetByID(ctx, product.ProviderID)
	if err != nil {
		return nil, "", fmt.Errorf("label: obtener proveedor: %w", err)
	}
	if provider == nil {
		return nil, "", domain.ErrNotFound
	}
	pdf, err := uc.docs.ProductLabelPDF(ctx, product, provider)
	if err != nil {
		return nil, "", err
	}
	return pdf, "etiqueta-" + product.SKU + ".pdf", nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		ProviderID:  p.ProviderID,
		SKU:         p.SKU,
		Barcode:     p.Barcode,
		Name:        p.Name,
		Description: p.Description,
		SalePrice:   p.SalePrice,
		CostPrice:   p.CostPrice,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
