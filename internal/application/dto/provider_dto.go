package dto

import "time"

// CreateProviderRequest entrada para crear un proveedor (emprendedor).
type CreateProviderRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Letter      string `json:"letter" validate:"required"`
	EANGlobalID int    `json:"ean_global_id" validate:"min=0,max=999"`
}

// UpdateProviderRequest entrada para editar un proveedor. Si Letter no cambia se conserva el código visual.
type UpdateProviderRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Letter      *string `json:"letter"`
	EANGlobalID *int    `json:"ean_global_id" validate:"omitempty,min=0,max=999"`
}

// ProviderResponse salida de un proveedor.
type ProviderResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	VisualCode      string    `json:"visual_code"`
	LetterPrefix    string    `json:"letter_prefix"`
	LetterSequence  int       `json:"letter_sequence"`
	EANGlobalID     int       `json:"ean_global_id"`
	LastSKUSequence int       `json:"last_sku_sequence"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NextCodesResponse vista previa de los próximos códigos (no avanza el consecutivo).
type NextCodesResponse struct {
	ProviderID string `json:"provider_id"`
	Sequence   int    `json:"sequence"`
	SKU        string `json:"sku"`
	Barcode    string `json:"barcode,omitempty"`
}
