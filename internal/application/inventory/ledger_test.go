package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-sucursales/internal/application/dto"
	"github.com/jhoicas/Inventario-sucursales/internal/application/inventory"
	"github.com/jhoicas/Inventario-sucursales/internal/application/ports"
	"github.com/jhoicas/Inventario-sucursales/internal/domain"
	"github.com/jhoicas/Inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/Inventario-sucursales/internal/infrastructure/memory"
)

const (
	branchCentro = "suc-centro"
	branchNorte  = "suc-norte"
)

func newLedger(t *testing.T, productIDs ...string) (*memory.Store, *inventory.LedgerUseCase) {
	t.Helper()
	store := memory.NewStore(
		entity.Branch{ID: branchCentro, Name: "Centro", IsPrimary: true},
		entity.Branch{ID: branchNorte, Name: "Norte"},
	)
	repos := store.Repos()
	ctx := context.Background()
	require.NoError(t, repos.Providers.Create(ctx, &entity.Provider{ID: "prov-a", Name: "Ana", VisualCode: "A001", LetterPrefix: "A", LetterSequence: 1, EANGlobalID: 1}))
	for i, id := range productIDs {
		require.NoError(t, repos.Products.Create(ctx, &entity.Product{
			ID:         id,
			ProviderID: "prov-a",
			SKU:        "A001-0000" + string(rune('1'+i)),
			Name:       "Producto " + id,
			SalePrice:  decimal.NewFromInt(1000),
		}))
	}
	return store, inventory.NewLedgerUseCase(store, repos.Inventory, repos.Branches, zerolog.Nop())
}

func TestLedger_GetSinRegistroEsCero(t *testing.T) {
	_, uc := newLedger(t, "p1")
	out, err := uc.Get(context.Background(), "p1", branchNorte)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Quantity)
}

func TestLedger_AjusteNuncaNegativo(t *testing.T) {
	_, uc := newLedger(t, "p1")
	ctx := context.Background()

	out, err := uc.Adjust(ctx, "u1", dto.AdjustStockRequest{ProductID: "p1", Delta: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, out.Quantity)
	assert.Equal(t, branchCentro, out.BranchID, "sin branch_id se usa la principal")

	out, err = uc.Adjust(ctx, "u1", dto.AdjustStockRequest{ProductID: "p1", Delta: -4})
	require.NoError(t, err)
	assert.Equal(t, 6, out.Quantity)

	_, err = uc.Adjust(ctx, "u1", dto.AdjustStockRequest{ProductID: "p1", Delta: -7})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	cur, err := uc.Get(ctx, "p1", "")
	require.NoError(t, err)
	assert.Equal(t, 6, cur.Quantity, "un ajuste rechazado no cambia nada")
}

func TestLedger_DescontarSinRegistro(t *testing.T) {
	_, uc := newLedger(t, "p1")
	_, err := uc.Adjust(context.Background(), "u1", dto.AdjustStockRequest{ProductID: "p1", BranchID: branchNorte, Delta: -1})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
}

func TestLedger_ErroresDeEntrada(t *testing.T) {
	_, uc := newLedger(t, "p1")
	ctx := context.Background()

	_, err := uc.Adjust(ctx, "u1", dto.AdjustStockRequest{ProductID: "p1", Delta: 0})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.Adjust(ctx, "u1", dto.AdjustStockRequest{ProductID: "nope", Delta: 1})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = uc.Adjust(ctx, "u1", dto.AdjustStockRequest{ProductID: "p1", BranchID: "suc-x", Delta: 1})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// Todo o nada: si un delta falla, los anteriores de la misma transacción se deshacen.
func TestAdjustInTx_RollbackCompleto(t *testing.T) {
	store, uc := newLedger(t, "p1", "p2")
	ctx := context.Background()

	err := store.Run(ctx, func(r ports.Repos) error {
		return inventory.AdjustInTx(ctx, r.Inventory, branchCentro, []inventory.Delta{
			{ProductID: "p1", Quantity: 5},
			{ProductID: "p2", Quantity: -1},
		})
	})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	out, err := uc.Get(ctx, "p1", branchCentro)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Quantity)
}

func TestLedger_AjustesConcurrentes(t *testing.T) {
	_, uc := newLedger(t, "p1")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = uc.Adjust(ctx, "u1", dto.AdjustStockRequest{ProductID: "p1", Delta: 2})
		}()
	}
	wg.Wait()

	out, err := uc.Get(ctx, "p1", "")
	require.NoError(t, err)
	assert.Equal(t, 100, out.Quantity)
}

func TestLedger_ListByBranch(t *testing.T) {
	_, uc := newLedger(t, "p1", "p2")
	ctx := context.Background()
	_, err := uc.Adjust(ctx, "u1", dto.AdjustStockRequest{ProductID: "p2", BranchID: branchNorte, Delta: 3})
	require.NoError(t, err)

	norte, err := uc.ListByBranch(ctx, branchNorte)
	require.NoError(t, err)
	require.Len(t, norte.Items, 1)
	assert.Equal(t, "p2", norte.Items[0].ProductID)
	assert.Equal(t, 3, norte.Items[0].Quantity)

	centro, err := uc.ListByBranch(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, centro.Items)
}
