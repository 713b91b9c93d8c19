package dto

import "time"

// TransferItemRequest línea de un traslado.
type TransferItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0,lte=2147483647"`
}

// SendTransferRequest body para POST /api/transfers.
type SendTransferRequest struct {
	OriginBranchID      string                `json:"origin_branch_id"` // vacío = sucursal principal
	DestinationBranchID string                `json:"destination_branch_id" validate:"required"`
	Items               []TransferItemRequest `json:"items" validate:"required,min=1,dive"`
}

// RejectTransferRequest body para POST /api/transfers/:id/reject.
type RejectTransferRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// TransferLineResponse línea de un traslado.
type TransferLineResponse struct {
	ID           string `json:"id"`
	ProductID    string `json:"product_id"`
	QuantitySent int    `json:"quantity_sent"`
}

// TransferResponse traslado con sus líneas.
type TransferResponse struct {
	ID                  string                 `json:"id"`
	OriginBranchID      string                 `json:"origin_branch_id"`
	DestinationBranchID string                 `json:"destination_branch_id"`
	State               string                 `json:"state"`
	SentAt              time.Time              `json:"sent_at"`
	ResolvedAt          *time.Time             `json:"resolved_at,omitempty"`
	RejectReason        string                 `json:"reject_reason,omitempty"`
	Items               []TransferLineResponse `json:"items,omitempty"`
}

// TransferListResponse lista de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
}
