package entity

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// MaxQuantity tope de cualquier cantidad guardada (columnas INTEGER).
const MaxQuantity = math.MaxInt32

// AddQuantity suma dos cantidades no negativas; false si el resultado supera MaxQuantity.
func AddQuantity(a, b int) (int, bool) {
	if a > MaxQuantity-b {
		return 0, false
	}
	return a + b, true
}

// InventoryRecord cantidad en stock de un producto en una sucursal.
// La fila se crea en el primer incremento y nunca se elimina; su ausencia equivale a 0.
type InventoryRecord struct {
	ProductID string
	BranchID  string
	Quantity  int
	UpdatedAt time.Time
}

// InventoryView une el producto del catálogo con su cantidad en una sucursal concreta.
type InventoryView struct {
	BranchID   string
	ProductID  string
	ProviderID string
	SKU        string
	Barcode    string
	Name       string
	SalePrice  decimal.Decimal
	CostPrice  decimal.Decimal
	Quantity   int
	UpdatedAt  time.Time
}
