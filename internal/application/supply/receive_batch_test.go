package supply_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-sucursales/internal/application/dto"
	"github.com/jhoicas/Inventario-sucursales/internal/application/supply"
	"github.com/jhoicas/Inventario-sucursales/internal/domain"
	"github.com/jhoicas/Inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/Inventario-sucursales/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Inventario-sucursales/internal/infrastructure/pdf"
)

const (
	branchCentro = "suc-centro"
	branchNorte  = "suc-norte"
)

func newSupply(t *testing.T) (*memory.Store, *supply.ReceiveBatchUseCase) {
	t.Helper()
	store := memory.NewStore(
		entity.Branch{ID: branchCentro, Name: "Centro", IsPrimary: true},
		entity.Branch{ID: branchNorte, Name: "Norte"},
	)
	repos := store.Repos()
	ctx := context.Background()
	require.NoError(t, repos.Providers.Create(ctx, &entity.Provider{ID: "prov-a", Name: "Ana", VisualCode: "A001", LetterPrefix: "A", LetterSequence: 1, EANGlobalID: 1}))
	require.NoError(t, repos.Providers.Create(ctx, &entity.Provider{ID: "prov-b", Name: "Bruno", VisualCode: "B001", LetterPrefix: "B", LetterSequence: 1, EANGlobalID: 2}))
	products := []entity.Product{
		{ID: "collar", ProviderID: "prov-a", SKU: "A001-00001", Name: "Collar", SalePrice: decimal.NewFromInt(25000)},
		{ID: "pulsera", ProviderID: "prov-a", SKU: "A001-00002", Name: "Pulsera", SalePrice: decimal.NewFromInt(12000)},
		{ID: "bolso", ProviderID: "prov-b", SKU: "B001-00001", Name: "Bolso", SalePrice: decimal.NewFromInt(80000)},
	}
	for i := range products {
		require.NoError(t, repos.Products.Create(ctx, &products[i]))
	}
	return store, supply.NewReceiveBatchUseCase(store, infrapdf.NewMarotoPDFGenerator(), zerolog.Nop())
}

func qty(t *testing.T, store *memory.Store, productID, branchID string) int {
	t.Helper()
	rec, err := store.Repos().Inventory.Get(context.Background(), productID, branchID)
	require.NoError(t, err)
	return rec.Quantity
}

func line(productID string, quantity int, cost int64) dto.SupplyItemRequest {
	return dto.SupplyItemRequest{ProductID: productID, Quantity: quantity, UnitCost: decimal.NewFromInt(cost)}
}

func TestReceiveBatch_LoteNuevo(t *testing.T) {
	store, uc := newSupply(t)

	out, err := uc.ReceiveBatch(context.Background(), "u1", dto.ReceiveBatchRequest{
		ProviderID: "prov-a",
		BatchCode:  "L-100",
		Items:      []dto.SupplyItemRequest{line("collar", 10, 15000), line("pulsera", 4, 7000)},
	})
	require.NoError(t, err)
	assert.False(t, out.Merged)
	assert.Equal(t, branchCentro, out.BranchID)
	assert.Equal(t, "A001", out.ProviderCode)
	assert.True(t, decimal.NewFromInt(178000).Equal(out.TotalCost), "10·15000 + 4·7000")
	assert.Len(t, out.Items, 2)

	assert.Equal(t, 10, qty(t, store, "collar", branchCentro))
	assert.Equal(t, 4, qty(t, store, "pulsera", branchCentro))
}

// Mismo (proveedor, batch_code): se fusiona en el lote existente y el total se acumula.
func TestReceiveBatch_FusionaMismoCodigo(t *testing.T) {
	store, uc := newSupply(t)
	ctx := context.Background()

	first, err := uc.ReceiveBatch(ctx, "u1", dto.ReceiveBatchRequest{
		ProviderID: "prov-a", BatchCode: "L-100",
		Items: []dto.SupplyItemRequest{line("collar", 10, 15000)},
	})
	require.NoError(t, err)

	second, err := uc.ReceiveBatch(ctx, "u1", dto.ReceiveBatchRequest{
		ProviderID: "prov-a", BatchCode: " L-100 ",
		Items: []dto.SupplyItemRequest{line("collar", 2, 16000)},
	})
	require.NoError(t, err)

	assert.True(t, second.Merged)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, decimal.NewFromInt(182000).Equal(second.TotalCost))
	assert.Len(t, second.Items, 2, "el recibo incluye las líneas anteriores")
	assert.Equal(t, 12, qty(t, store, "collar", branchCentro))

	receipt, err := uc.GetReceipt(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, second.TotalCost.Equal(receipt.TotalCost))
}

func TestReceiveBatch_MismoCodigoOtroProveedorEsOtroLote(t *testing.T) {
	_, uc := newSupply(t)
	ctx := context.Background()

	a, err := uc.ReceiveBatch(ctx, "u1", dto.ReceiveBatchRequest{ProviderID: "prov-a", BatchCode: "L-1", Items: []dto.SupplyItemRequest{line("collar", 1, 1)}})
	require.NoError(t, err)
	b, err := uc.ReceiveBatch(ctx, "u1", dto.ReceiveBatchRequest{ProviderID: "prov-b", BatchCode: "L-1", Items: []dto.SupplyItemRequest{line("bolso", 1, 1)}})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, b.Merged)
}

// Costo igual o mayor al precio de venta: se rechaza todo el ingreso.
func TestReceiveBatch_CostoNoMenorAlPrecio(t *testing.T) {
	store, uc := newSupply(t)

	_, err := uc.ReceiveBatch(context.Background(), "u1", dto.ReceiveBatchRequest{
		ProviderID: "prov-a", BatchCode: "L-200",
		Items: []dto.SupplyItemRequest{line("collar", 5, 10000), line("pulsera", 1, 12000)},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Equal(t, 0, qty(t, store, "collar", branchCentro), "ninguna línea se registra")

	b, err := store.Repos().Batches.GetByProviderAndCodeForUpdate(context.Background(), "prov-a", "L-200")
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestReceiveBatch_ProductoDeOtroProveedor(t *testing.T) {
	_, uc := newSupply(t)
	_, err := uc.ReceiveBatch(context.Background(), "u1", dto.ReceiveBatchRequest{
		ProviderID: "prov-a", BatchCode: "L-1",
		Items: []dto.SupplyItemRequest{line("bolso", 1, 100)},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestReceiveBatch_LoteDeOtraSucursal(t *testing.T) {
	store, uc := newSupply(t)
	ctx := context.Background()

	_, err := uc.ReceiveBatch(ctx, "u1", dto.ReceiveBatchRequest{ProviderID: "prov-a", BatchCode: "L-1", Items: []dto.SupplyItemRequest{line("collar", 1, 100)}})
	require.NoError(t, err)
	_, err = uc.ReceiveBatch(ctx, "u1", dto.ReceiveBatchRequest{ProviderID: "prov-a", BranchID: branchNorte, BatchCode: "L-1", Items: []dto.SupplyItemRequest{line("collar", 1, 100)}})
	assert.True(t, errors.Is(err, domain.ErrInvalidStateTransition))
	assert.Equal(t, 0, qty(t, store, "collar", branchNorte))
}

func TestReceiveBatch_Validaciones(t *testing.T) {
	_, uc := newSupply(t)
	ctx := context.Background()

	_, err := uc.ReceiveBatch(ctx, "u1", dto.ReceiveBatchRequest{ProviderID: "prov-a", BatchCode: " ", Items: []dto.SupplyItemRequest{line("collar", 1, 1)}})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.ReceiveBatch(ctx, "u1", dto.ReceiveBatchRequest{ProviderID: "prov-a", BatchCode: "L", Items: []dto.SupplyItemRequest{line("collar", 0, 1)}})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.ReceiveBatch(ctx, "u1", dto.ReceiveBatchRequest{ProviderID: "prov-a", BatchCode: "L", Items: []dto.SupplyItemRequest{line("collar", 1, -1)}})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.ReceiveBatch(ctx, "u1", dto.ReceiveBatchRequest{ProviderID: "prov-x", BatchCode: "L", Items: []dto.SupplyItemRequest{line("collar", 1, 1)}})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestReceiptPDF(t *testing.T) {
	_, uc := newSupply(t)
	ctx := context.Background()

	out, err := uc.ReceiveBatch(ctx, "u1", dto.ReceiveBatchRequest{ProviderID: "prov-a", BatchCode: "L-9", Items: []dto.SupplyItemRequest{line("collar", 3, 15000)}})
	require.NoError(t, err)

	pdf, filename, err := uc.ReceiptPDF(ctx, out.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
	assert.Equal(t, "lote-A001-L-9.pdf", filename)

	_, _, err = uc.ReceiptPDF(ctx, "no-existe")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// Ingresos concurrentes al mismo (proveedor, batch_code): un solo lote, ninguna suma parcial perdida.
func TestReceiveBatch_FusionesConcurrentes(t *testing.T) {
	store, uc := newSupply(t)
	ctx := context.Background()

	const n = 20
	ids := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := uc.ReceiveBatch(ctx, "u1", dto.ReceiveBatchRequest{
				ProviderID: "prov-a",
				BatchCode:  "L-CONC",
				Items:      []dto.SupplyItemRequest{line("collar", i+1, 1000), line("pulsera", 1, 500)},
			})
			errs[i] = err
			if out != nil {
				ids[i] = out.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i], "ingreso %d", i)
		assert.Equal(t, ids[0], ids[i], "todos los ingresos caen en el mismo lote")
	}

	receipt, err := uc.GetReceipt(ctx, ids[0])
	require.NoError(t, err)
	// Σ(i+1)·1000 para i<20 = 210000, más 20·500 = 10000.
	assert.True(t, decimal.NewFromInt(220000).Equal(receipt.TotalCost), "total %s", receipt.TotalCost)
	assert.Len(t, receipt.Items, 2*n)

	assert.Equal(t, 210, qty(t, store, "collar", branchCentro))
	assert.Equal(t, n, qty(t, store, "pulsera", branchCentro))
}
