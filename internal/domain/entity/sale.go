package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale venta registrada en una sucursal; descuenta el stock de cada línea.
type Sale struct {
	ID        string
	BranchID  string
	Total     decimal.Decimal
	SoldAt    time.Time
	CreatedBy string
}

// SaleLineItem línea de una venta.
type SaleLineItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}
