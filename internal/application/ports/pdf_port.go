package ports

import (
	"context"

	"github.com/jhoicas/Inventario-sucursales/internal/domain/entity"
)

// BatchReceipt cabecera del lote con todas sus líneas (incluidas las fusionadas).
type BatchReceipt struct {
	Batch    *entity.SupplyBatch
	Provider *entity.Provider
	Branch   *entity.Branch
	Lines    []ReceiptLine
	Merged   bool // true si este ingreso se fusionó en un lote existente
}

// ReceiptLine línea del recibo con los datos del producto para mostrar.
type ReceiptLine struct {
	Item        *entity.SupplyLineItem
	SKU         string
	ProductName string
}

// DocumentGenerator genera los documentos imprimibles del inventario.
type DocumentGenerator interface {
	BatchReceiptPDF(ctx context.Context, receipt *BatchReceipt) ([]byte, error)
	ProductLabelPDF(ctx context.Context, product *entity.Product, provider *entity.Provider) ([]byte, error)
}
