package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo (sin stock: el stock vive por sucursal en InventoryRecord).
type Product struct {
	ID          string
	ProviderID  string
	SKU         string // "{visual_code}-{consecutivo:05d}", único
	Barcode     string // EAN-13 o vacío
	Name        string
	Description string
	SalePrice   decimal.Decimal
	CostPrice   decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
