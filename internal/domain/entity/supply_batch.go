package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplyBatch lote de abastecimiento de un proveedor. BatchCode es único por proveedor:
// ingresos posteriores con el mismo código se fusionan en el mismo lote.
type SupplyBatch struct {
	ID         string
	ProviderID string
	BranchID   string
	BatchCode  string
	TotalCost  decimal.Decimal
	ReceivedAt time.Time
	CreatedBy  string
}

// SupplyLineItem línea de un lote (append-only).
type SupplyLineItem struct {
	ID               string
	BatchID          string
	ProductID        string
	QuantityReceived int
	UnitCost         decimal.Decimal
	CreatedAt        time.Time
}

// Subtotal devuelve cantidad × costo unitario.
func (l SupplyLineItem) Subtotal() decimal.Decimal {
	return l.UnitCost.Mul(decimal.NewFromInt(int64(l.QuantityReceived)))
}
