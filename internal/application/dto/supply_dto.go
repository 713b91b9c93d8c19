package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplyItemRequest línea de un ingreso de mercancía.
type SupplyItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gt=0,lte=2147483647"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// ReceiveBatchRequest body para POST /api/supply/batches.
type ReceiveBatchRequest struct {
	ProviderID string              `json:"provider_id" validate:"required"`
	BranchID   string              `json:"branch_id"` // vacío = sucursal principal
	BatchCode  string              `json:"batch_code" validate:"required,max=100"`
	Items      []SupplyItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SupplyLineResponse línea del recibo.
type SupplyLineResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	SKU              string          `json:"sku"`
	ProductName      string          `json:"product_name"`
	QuantityReceived int             `json:"quantity_received"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	CreatedAt        time.Time       `json:"created_at"`
}

// BatchReceiptResponse cabecera del lote más todas sus líneas (incluye fusiones anteriores).
type BatchReceiptResponse struct {
	ID           string               `json:"id"`
	ProviderID   string               `json:"provider_id"`
	ProviderCode string               `json:"provider_code"`
	BranchID     string               `json:"branch_id"`
	BatchCode    string               `json:"batch_code"`
	TotalCost    decimal.Decimal      `json:"total_cost"`
	ReceivedAt   time.Time            `json:"received_at"`
	Merged       bool                 `json:"merged"`
	Items        []SupplyLineResponse `json:"items"`
}
