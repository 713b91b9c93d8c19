package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-sucursales/internal/application/catalog"
	"github.com/jhoicas/Inventario-sucursales/internal/application/inventory"
	"github.com/jhoicas/Inventario-sucursales/internal/application/sales"
	"github.com/jhoicas/Inventario-sucursales/internal/application/supply"
	"github.com/jhoicas/Inventario-sucursales/internal/application/transfer"
	"github.com/jhoicas/Inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/Inventario-sucursales/internal/infrastructure/cache"
	"github.com/jhoicas/Inventario-sucursales/internal/infrastructure/lock"
	"github.com/jhoicas/Inventario-sucursales/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Inventario-sucursales/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Inventario-sucursales/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// API completa sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	branchCentro = "suc-centro"
	branchNorte  = "suc-norte"
)

func newTestAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore(
		entity.Branch{ID: branchCentro, Name: "Centro", IsPrimary: true},
		entity.Branch{ID: branchNorte, Name: "Norte"},
	)
	repos := store.Repos()
	docs := infrapdf.NewMarotoPDFGenerator()
	nop := zerolog.Nop()

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		BranchUC:         catalog.NewBranchUseCase(repos.Branches),
		ProviderUC:       catalog.NewProviderUseCase(store, repos.Providers, nop),
		ProductUC:        catalog.NewProductUseCase(store, repos.Products, repos.Providers, docs, nop),
		LedgerUC:         inventory.NewLedgerUseCase(store, repos.Inventory, repos.Branches, nop),
		SupplyUC:         supply.NewReceiveBatchUseCase(store, docs, nop),
		TransferUC:       transfer.NewUseCase(store, repos.Transfers, repos.Branches, nop),
		SaleUC:           sales.NewRegisterSaleUseCase(store, nop),
		JWTSecret:        testJWTSecret,
		JWTIssuer:        testIssuer,
		IdempotencyStore: cache.NewMemoryIdempotencyStore(),
		Locker:           lock.NewLocalLocker(),
		IdempotencyTTL:   time.Hour,
		Storage:          "memory",
	})
	return app
}

type apiResponse struct {
	status int
	header http.Header
	raw    []byte
}

func (r apiResponse) json(t *testing.T) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(r.raw, &out), string(r.raw))
	return out
}

func call(t *testing.T, app *fiber.App, method, path, role string, body any, headers ...string) apiResponse {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return apiResponse{status: resp.StatusCode, header: resp.Header, raw: raw}
}

// seedCatalog crea proveedor y producto vía API y recibe 10 unidades en la sucursal principal.
func seedCatalog(t *testing.T, app *fiber.App) (productID string) {
	t.Helper()
	prov := call(t, app, http.MethodPost, "/api/providers", apphttp.RoleBodeguero, map[string]any{
		"name": "Ana", "letter": "a", "ean_global_id": 55,
	})
	require.Equal(t, http.StatusCreated, prov.status, string(prov.raw))
	provider := prov.json(t)
	assert.Equal(t, "A001", provider["visual_code"])

	prod := call(t, app, http.MethodPost, "/api/products", apphttp.RoleBodeguero, map[string]any{
		"provider_id": provider["id"], "name": "Collar", "sale_price": 25000, "cost_price": 15000, "with_barcode": true,
	})
	require.Equal(t, http.StatusCreated, prod.status, string(prod.raw))
	product := prod.json(t)
	assert.Equal(t, "A001-00001", product["sku"])

	batch := call(t, app, http.MethodPost, "/api/supply/batches", apphttp.RoleBodeguero, map[string]any{
		"provider_id": provider["id"], "batch_code": "L-1",
		"items": []map[string]any{{"product_id": product["id"], "quantity": 10, "unit_cost": 15000}},
	})
	require.Equal(t, http.StatusCreated, batch.status, string(batch.raw))
	return product["id"].(string)
}

func quantity(t *testing.T, app *fiber.App, branchID, productID string) float64 {
	t.Helper()
	r := call(t, app, http.MethodGet, "/api/inventory/"+branchID+"/"+productID, apphttp.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, r.status, string(r.raw))
	return r.json(t)["quantity"].(float64)
}

// ──────────────────────────────────────────────────────────────────────────────
// Casos
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_HealthPublico(t *testing.T) {
	app := newTestAPI(t)
	r := call(t, app, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "memory", r.json(t)["storage"])
}

func TestAPI_SinTokenYRolIncorrecto(t *testing.T) {
	app := newTestAPI(t)

	r := call(t, app, http.MethodGet, "/api/branches", "", nil)
	assert.Equal(t, http.StatusUnauthorized, r.status)

	r = call(t, app, http.MethodPost, "/api/providers", apphttp.RoleVendedor, map[string]any{"name": "Ana", "letter": "A"})
	assert.Equal(t, http.StatusForbidden, r.status)
	assert.Equal(t, "FORBIDDEN", r.json(t)["code"])

	r = call(t, app, http.MethodPost, "/api/inventory/adjustments", apphttp.RoleBodeguero, map[string]any{"product_id": "p", "delta": 1})
	assert.Equal(t, http.StatusForbidden, r.status, "ajustes solo admin")
}

func TestAPI_SucursalPrincipal(t *testing.T) {
	app := newTestAPI(t)
	r := call(t, app, http.MethodGet, "/api/branches/default", apphttp.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, branchCentro, r.json(t)["id"])
}

func TestAPI_ValidacionDeCuerpo(t *testing.T) {
	app := newTestAPI(t)

	r := call(t, app, http.MethodPost, "/api/transfers", apphttp.RoleBodeguero, map[string]any{
		"items": []map[string]any{{"product_id": "p", "quantity": 0}},
	})
	assert.Equal(t, http.StatusBadRequest, r.status)
	body := r.json(t)
	assert.Equal(t, "VALIDATION", body["code"])
	assert.Contains(t, body["message"], "destination_branch_id")
	assert.Contains(t, body["message"], "items[0].quantity")

	r = call(t, app, http.MethodPost, "/api/transfers", apphttp.RoleBodeguero, map[string]any{
		"destination_branch_id": branchNorte,
		"items":                 []map[string]any{{"product_id": "p", "quantity": int64(1) << 40}},
	})
	assert.Equal(t, http.StatusBadRequest, r.status)
	assert.Contains(t, r.json(t)["message"], "items[0].quantity: lte=2147483647")

	req := httptest.NewRequest(http.MethodPost, "/api/sales", bytes.NewBufferString("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, apphttp.RoleVendedor))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_FlujoCompletoConTraslado(t *testing.T) {
	app := newTestAPI(t)
	productID := seedCatalog(t, app)
	assert.Equal(t, float64(10), quantity(t, app, branchCentro, productID))

	sent := call(t, app, http.MethodPost, "/api/transfers", apphttp.RoleBodeguero, map[string]any{
		"destination_branch_id": branchNorte,
		"items":                 []map[string]any{{"product_id": productID, "quantity": 4}},
	})
	require.Equal(t, http.StatusCreated, sent.status, string(sent.raw))
	transferID := sent.json(t)["id"].(string)
	assert.Equal(t, float64(6), quantity(t, app, branchCentro, productID))

	incoming := call(t, app, http.MethodGet, "/api/branches/"+branchNorte+"/transfers/incoming", apphttp.RoleBodeguero, nil)
	require.Equal(t, http.StatusOK, incoming.status)
	assert.Len(t, incoming.json(t)["items"], 1)

	recv := call(t, app, http.MethodPost, "/api/transfers/"+transferID+"/receive", apphttp.RoleBodeguero, nil)
	require.Equal(t, http.StatusOK, recv.status, string(recv.raw))
	assert.Equal(t, "COMPLETED", recv.json(t)["state"])
	assert.Equal(t, float64(4), quantity(t, app, branchNorte, productID))

	pending := call(t, app, http.MethodGet, "/api/branches/"+branchNorte+"/transfers/incoming?state=in_transit", apphttp.RoleBodeguero, nil)
	require.Equal(t, http.StatusOK, pending.status)
	assert.Empty(t, pending.json(t)["items"])

	again := call(t, app, http.MethodPost, "/api/transfers/"+transferID+"/receive", apphttp.RoleBodeguero, nil)
	assert.Equal(t, http.StatusConflict, again.status)
	assert.Equal(t, "INVALID_STATE", again.json(t)["code"])
	assert.Equal(t, float64(4), quantity(t, app, branchNorte, productID))
}

func TestAPI_VentaSinStock(t *testing.T) {
	app := newTestAPI(t)
	productID := seedCatalog(t, app)

	r := call(t, app, http.MethodPost, "/api/sales", apphttp.RoleVendedor, map[string]any{
		"items": []map[string]any{{"product_id": productID, "quantity": 11}},
	})
	assert.Equal(t, http.StatusConflict, r.status)
	assert.Equal(t, "INSUFFICIENT_STOCK", r.json(t)["code"])
	assert.Equal(t, float64(10), quantity(t, app, branchCentro, productID))
}

// La misma Idempotency-Key repite la respuesta sin volver a descontar.
func TestAPI_VentaIdempotente(t *testing.T) {
	app := newTestAPI(t)
	productID := seedCatalog(t, app)
	body := map[string]any{"items": []map[string]any{{"product_id": productID, "quantity": 3}}}

	first := call(t, app, http.MethodPost, "/api/sales", apphttp.RoleVendedor, body, apphttp.HeaderIdempotencyKey, "venta-1")
	require.Equal(t, http.StatusCreated, first.status, string(first.raw))
	assert.Empty(t, first.header.Get(apphttp.HeaderReplayed))

	second := call(t, app, http.MethodPost, "/api/sales", apphttp.RoleVendedor, body, apphttp.HeaderIdempotencyKey, "venta-1")
	assert.Equal(t, http.StatusCreated, second.status)
	assert.Equal(t, "true", second.header.Get(apphttp.HeaderReplayed))
	assert.JSONEq(t, string(first.raw), string(second.raw))
	assert.Equal(t, float64(7), quantity(t, app, branchCentro, productID))

	third := call(t, app, http.MethodPost, "/api/sales", apphttp.RoleVendedor, body, apphttp.HeaderIdempotencyKey, "venta-2")
	assert.Equal(t, http.StatusCreated, third.status)
	assert.Equal(t, float64(4), quantity(t, app, branchCentro, productID))
}

func TestAPI_ErroresNoSeGuardanComoIdempotentes(t *testing.T) {
	app := newTestAPI(t)
	productID := seedCatalog(t, app)
	tooMany := map[string]any{"items": []map[string]any{{"product_id": productID, "quantity": 50}}}
	ok := map[string]any{"items": []map[string]any{{"product_id": productID, "quantity": 1}}}

	r := call(t, app, http.MethodPost, "/api/sales", apphttp.RoleVendedor, tooMany, apphttp.HeaderIdempotencyKey, "k")
	assert.Equal(t, http.StatusConflict, r.status)

	r = call(t, app, http.MethodPost, "/api/sales", apphttp.RoleVendedor, ok, apphttp.HeaderIdempotencyKey, "k")
	assert.Equal(t, http.StatusCreated, r.status, "un error no bloquea el reintento con la misma llave")
}

func TestAPI_IdempotenciaEnCursoResponde409(t *testing.T) {
	ctx := context.Background()
	locker := lock.NewLocalLocker()
	app := fiber.New()
	app.Post("/op", apphttp.Idempotency(cache.NewMemoryIdempotencyStore(), locker, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	// Sin usuario autenticado la llave queda como ":POST:/op:k".
	unlock, err := locker.Obtain(ctx, "idem::POST:/op:k")
	require.NoError(t, err)
	defer unlock()

	req := httptest.NewRequest(http.MethodPost, "/op", nil)
	req.Header.Set(apphttp.HeaderIdempotencyKey, "k")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "REQUEST_IN_PROGRESS")
}

func TestAPI_ProductoYEtiqueta(t *testing.T) {
	app := newTestAPI(t)
	productID := seedCatalog(t, app)

	r := call(t, app, http.MethodGet, "/api/products/"+productID, apphttp.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "2005500001005", r.json(t)["barcode"])

	bySKU := call(t, app, http.MethodGet, "/api/products?sku=a001-00001", apphttp.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, bySKU.status, string(bySKU.raw))
	assert.Equal(t, productID, bySKU.json(t)["id"])
	r = call(t, app, http.MethodGet, "/api/products?sku=Z999-00001", apphttp.RoleVendedor, nil)
	assert.Equal(t, http.StatusNotFound, r.status)
	r = call(t, app, http.MethodGet, "/api/products", apphttp.RoleVendedor, nil)
	assert.Equal(t, http.StatusBadRequest, r.status)

	label := call(t, app, http.MethodGet, "/api/products/"+productID+"/label.pdf", apphttp.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, label.status)
	assert.Equal(t, "application/pdf", label.header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(label.raw, []byte("%PDF")))

	r = call(t, app, http.MethodGet, "/api/products/no-existe", apphttp.RoleVendedor, nil)
	assert.Equal(t, http.StatusNotFound, r.status)
	r = call(t, app, http.MethodGet, "/api/providers/no-existe", apphttp.RoleVendedor, nil)
	assert.Equal(t, http.StatusNotFound, r.status)
}
