package codegen_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-sucursales/internal/domain"
	"github.com/jhoicas/Inventario-sucursales/internal/domain/codegen"
)

// ──────────────────────────────────────────────────────────────────────────────
// EAN-13: vectores literales calculados a mano.
//
//	base 200550000500 → pares (1×): 2+0+5+0+0+0 = 7
//	                    impares (3×): (0+5+0+0+5+0)·3 = 30
//	                    suma 37 → control (10 − 7) mod 10 = 3
// ──────────────────────────────────────────────────────────────────────────────

func TestEAN13Checksum_VectorProveedor55(t *testing.T) {
	check, err := codegen.EAN13Checksum("200550000500")
	require.NoError(t, err)
	assert.Equal(t, 3, check)

	code, err := codegen.NextEAN13(55, 5)
	require.NoError(t, err)
	assert.Equal(t, "2005500005003", code)
}

func TestEAN13Checksum_BaseEnCeros(t *testing.T) {
	check, err := codegen.EAN13Checksum("000000000000")
	require.NoError(t, err)
	assert.Equal(t, 0, check)
}

// Suma ya múltiplo de 10: 2+0+2+0+0+0 = 4; (0+1+0+0+1+0)·3 = 6; total 10 → control 0.
func TestEAN13Checksum_SumaMultiploDeDiez(t *testing.T) {
	check, err := codegen.EAN13Checksum("200120000100")
	require.NoError(t, err)
	assert.Equal(t, 0, check)

	code, err := codegen.NextEAN13(12, 1)
	require.NoError(t, err)
	assert.Equal(t, "2001200001000", code)
}

// Código comercial conocido 4006381333931.
func TestEAN13Checksum_CodigoComercial(t *testing.T) {
	check, err := codegen.EAN13Checksum("400638133393")
	require.NoError(t, err)
	assert.Equal(t, 1, check)
	assert.True(t, codegen.ValidEAN13("4006381333931"))
	assert.False(t, codegen.ValidEAN13("4006381333932"))
}

func TestNextEAN13_ProveedorUno(t *testing.T) {
	code, err := codegen.NextEAN13(1, 6)
	require.NoError(t, err)
	assert.Equal(t, "2000100006009", code)
	assert.True(t, codegen.ValidEAN13(code))
}

func TestEAN13Checksum_BaseInvalida(t *testing.T) {
	_, err := codegen.EAN13Checksum("12345")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = codegen.EAN13Checksum("20055000050A")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestNextEAN13_FueraDeRango(t *testing.T) {
	_, err := codegen.NextEAN13(1000, 1)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "ean_global_id > 999")

	_, err = codegen.NextEAN13(1, 100000)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "consecutivo > 99999")
}

// ──────────────────────────────────────────────────────────────────────────────
// SKU
// ──────────────────────────────────────────────────────────────────────────────

func TestNextSKU_Monotonico(t *testing.T) {
	last := 4

	sku, next := codegen.NextSKU("B001", last)
	assert.Equal(t, "B001-00005", sku)
	assert.Equal(t, 5, next)
	last = next // persistido tras guardar el producto

	sku, next = codegen.NextSKU("B001", last)
	assert.Equal(t, "B001-00006", sku)
	assert.Equal(t, 6, next)
}

func TestNextSKU_NoPersistirRepiteElMismo(t *testing.T) {
	// Sin persistir el consecutivo (formulario abandonado) se vuelve a generar el mismo SKU.
	a, _ := codegen.NextSKU("C010", 9)
	b, _ := codegen.NextSKU("C010", 9)
	assert.Equal(t, "C010-00010", a)
	assert.Equal(t, a, b)
}

// ──────────────────────────────────────────────────────────────────────────────
// Código visual de proveedor
// ──────────────────────────────────────────────────────────────────────────────

func TestNextVisualCode_PrimeraDeLaLetra(t *testing.T) {
	code, seq, err := codegen.NextVisualCode("A", 0)
	require.NoError(t, err)
	assert.Equal(t, "A001", code)
	assert.Equal(t, 1, seq)
}

func TestNextVisualCode_SiguienteAlMaximo(t *testing.T) {
	code, seq, err := codegen.NextVisualCode("b", 41)
	require.NoError(t, err)
	assert.Equal(t, "B042", code)
	assert.Equal(t, 42, seq)
}

func TestNextVisualCode_LetraAgotada(t *testing.T) {
	_, _, err := codegen.NextVisualCode("Z", codegen.MaxLetterSequence)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestNormalizeLetter(t *testing.T) {
	l, err := codegen.NormalizeLetter(" á ")
	require.NoError(t, err)
	assert.Equal(t, "A", l)

	l, err = codegen.NormalizeLetter("É")
	require.NoError(t, err)
	assert.Equal(t, "E", l)

	for _, bad := range []string{"", "AB", "1", "ñn", "-"} {
		_, err := codegen.NormalizeLetter(bad)
		assert.Truef(t, errors.Is(err, domain.ErrInvalidInput), "letra %q debe ser inválida", bad)
	}
}
