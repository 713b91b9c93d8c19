package repository

import (
	"context"

	"github.com/jhoicas/Inventario-sucursales/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product.
// El núcleo solo crea productos (con SKU/código de barras) y lee precio/costo.
type ProductRepository interface {
	// Create devuelve domain.ErrDuplicate si el SKU o el código de barras ya existen.
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
}
