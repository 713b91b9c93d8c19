package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/inventory/adjustments (ajuste manual relativo).
type AdjustStockRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	BranchID  string `json:"branch_id"` // vacío = sucursal principal
	Delta     int    `json:"delta" validate:"required,ne=0,gte=-2147483647,lte=2147483647"`
}

// StockResponse cantidad de un producto en una sucursal.
type StockResponse struct {
	ProductID string `json:"product_id"`
	BranchID  string `json:"branch_id"`
	Quantity  int    `json:"quantity"`
}

// InventoryViewResponse producto con su cantidad en la sucursal.
type InventoryViewResponse struct {
	ProductID  string          `json:"product_id"`
	ProviderID string          `json:"provider_id"`
	SKU        string          `json:"sku"`
	Barcode    string          `json:"barcode,omitempty"`
	Name       string          `json:"name"`
	SalePrice  decimal.Decimal `json:"sale_price"`
	CostPrice  decimal.Decimal `json:"cost_price"`
	Quantity   int             `json:"quantity"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// BranchInventoryResponse inventario completo de una sucursal.
type BranchInventoryResponse struct {
	BranchID string                  `json:"branch_id"`
	Items    []InventoryViewResponse `json:"items"`
}
