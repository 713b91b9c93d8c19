package entity

import "time"

// Branch representa una sucursal. Solo una puede ser principal (IsPrimary);
// el núcleo la referencia pero nunca la modifica.
type Branch struct {
	ID        string
	Name      string
	Address   string
	IsPrimary bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
