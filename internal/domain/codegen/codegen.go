// Package codegen contiene los algoritmos deterministas de codificación de productos y proveedores:
// SKU secuencial por proveedor, EAN-13 con dígito de control y código visual de proveedor.
//
// Todas las funciones son puras: reciben los consecutivos actuales y devuelven el siguiente valor.
// Persistir el consecutivo es responsabilidad del caller, y solo después de guardar la entidad dueña.
package codegen

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jhoicas/Inventario-sucursales/internal/domain"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// eanPrefix prefijo GS1 de uso interno (circulación restringida).
	eanPrefix = "20"
	// eanFiller relleno fijo de dos dígitos al final de la base.
	eanFiller = "00"

	MaxEANGlobalID    = 999
	MaxEANSequence    = 99999
	MaxLetterSequence = 999
)

// NextSKU devuelve el SKU para el siguiente consecutivo del proveedor y dicho consecutivo.
// Ej: ("B001", 5) → ("B001-00006", 6).
func NextSKU(visualCode string, lastSKUSequence int) (string, int) {
	next := lastSKUSequence + 1
	return FormatSKU(visualCode, next), next
}

// FormatSKU arma "{visual_code}-{seq:05d}".
func FormatSKU(visualCode string, seq int) string {
	return fmt.Sprintf("%s-%05d", visualCode, seq)
}

// EANBase arma la base de 12 dígitos: "20" + global(3) + consecutivo(5) + "00".
func EANBase(eanGlobalID, seq int) (string, error) {
	if eanGlobalID < 0 || eanGlobalID > MaxEANGlobalID {
		return "", fmt.Errorf("%w: ean_global_id fuera de rango (0-%d): %d", domain.ErrInvalidInput, MaxEANGlobalID, eanGlobalID)
	}
	if seq < 0 || seq > MaxEANSequence {
		return "", fmt.Errorf("%w: consecutivo EAN fuera de rango (0-%d): %d", domain.ErrInvalidInput, MaxEANSequence, seq)
	}
	return fmt.Sprintf("%s%03d%05d%s", eanPrefix, eanGlobalID, seq, eanFiller), nil
}

// EAN13Checksum calcula el dígito de control EAN-13 sobre una base de 12 dígitos.
// Posiciones pares (base 0) pesan 1, impares pesan 3; control = (10 − suma mod 10) mod 10.
func EAN13Checksum(base string) (int, error) {
	if len(base) != 12 {
		return 0, fmt.Errorf("%w: la base EAN-13 debe tener 12 dígitos, tiene %d", domain.ErrInvalidInput, len(base))
	}
	sum := 0
	for i, r := range base {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: la base EAN-13 solo admite dígitos", domain.ErrInvalidInput)
		}
		d := int(r - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return (10 - sum%10) % 10, nil
}

// NextEAN13 devuelve el código EAN-13 completo para el proveedor y el consecutivo dado
// (el mismo consecutivo que el SKU del producto).
func NextEAN13(eanGlobalID, seq int) (string, error) {
	base, err := EANBase(eanGlobalID, seq)
	if err != nil {
		return "", err
	}
	check, err := EAN13Checksum(base)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d", base, check), nil
}

// ValidEAN13 verifica longitud y dígito de control de un código de 13 dígitos.
func ValidEAN13(code string) bool {
	if len(code) != 13 {
		return false
	}
	check, err := EAN13Checksum(code[:12])
	if err != nil {
		return false
	}
	return int(code[12]-'0') == check
}

// NextVisualCode devuelve el código visual y el consecutivo de letra siguientes.
// maxSequence es el mayor consecutivo emitido para la letra entre todos los proveedores (0 si ninguno).
// Ej: ("A", 0) → ("A001", 1).
func NextVisualCode(letter string, maxSequence int) (string, int, error) {
	l, err := NormalizeLetter(letter)
	if err != nil {
		return "", 0, err
	}
	next := maxSequence + 1
	if next > MaxLetterSequence {
		return "", 0, fmt.Errorf("%w: la letra %s agotó sus consecutivos", domain.ErrConflict, l)
	}
	return FormatVisualCode(l, next), next, nil
}

// FormatVisualCode arma "{letra}{seq:03d}".
func FormatVisualCode(letter string, seq int) string {
	return fmt.Sprintf("%s%03d", letter, seq)
}

// NormalizeLetter quita tildes/diacríticos y espacios y pasa a mayúscula ("á " → "A").
// El resultado debe ser una sola letra A–Z.
func NormalizeLetter(letter string) (string, error) {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, strings.TrimSpace(letter))
	if err != nil {
		return "", fmt.Errorf("%w: letra inválida", domain.ErrInvalidInput)
	}
	s = strings.ToUpper(s)
	if len(s) != 1 || s[0] < 'A' || s[0] > 'Z' {
		return "", fmt.Errorf("%w: la letra debe ser A-Z, recibido %q", domain.ErrInvalidInput, letter)
	}
	return s, nil
}
