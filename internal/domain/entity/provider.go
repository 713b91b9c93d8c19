package entity

import "time"

// Provider representa un emprendedor/proveedor que surte productos a las sucursales.
// LetterPrefix + LetterSequence forman el VisualCode (ej: "B001").
// LastSKUSequence es el último consecutivo emitido para SKUs; solo avanza al confirmar el producto.
type Provider struct {
	ID              string
	Name            string
	VisualCode      string
	LetterPrefix    string
	LetterSequence  int
	EANGlobalID     int // 0..999, se usa dentro del EAN-13
	LastSKUSequence int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
