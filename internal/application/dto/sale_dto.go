package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta. UnitPrice vacío = precio de venta del producto.
type SaleItemRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"gt=0,lte=2147483647"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// RegisterSaleRequest body para POST /api/sales.
type RegisterSaleRequest struct {
	BranchID string            `json:"branch_id"` // vacío = sucursal principal
	Items    []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleLineResponse línea de venta registrada.
type SaleLineResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse venta registrada.
type SaleResponse struct {
	ID       string             `json:"id"`
	BranchID string             `json:"branch_id"`
	Total    decimal.Decimal    `json:"total"`
	SoldAt   time.Time          `json:"sold_at"`
	Items    []SaleLineResponse `json:"items"`
}
