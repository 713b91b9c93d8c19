package entity

import "time"

// Estados de un traslado entre sucursales.
const (
	TransferStateInTransit = "IN_TRANSIT"
	TransferStateCompleted = "COMPLETED"
	TransferStateRejected  = "REJECTED"
)

// Transfer traslado unidireccional de mercancía. El stock se descuenta del origen al enviar
// y se acredita en el destino al recibir; mientras tanto no es visible en ninguna sucursal.
type Transfer struct {
	ID                  string
	OriginBranchID      string
	DestinationBranchID string
	State               string
	SentAt              time.Time
	ResolvedAt          *time.Time // recepción o rechazo; nil mientras está en tránsito
	RejectReason        string
	SentBy              string
	ResolvedBy          string
}

// IsTerminal indica si el traslado ya no admite transiciones.
func (t *Transfer) IsTerminal() bool {
	return t.State == TransferStateCompleted || t.State == TransferStateRejected
}

// TransferLineItem línea inmutable de un traslado.
type TransferLineItem struct {
	ID           string
	TransferID   string
	ProductID    string
	QuantitySent int
}
