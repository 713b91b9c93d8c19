package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-sucursales/internal/application/catalog"
	"github.com/jhoicas/Inventario-sucursales/internal/application/dto"
	"github.com/jhoicas/Inventario-sucursales/internal/application/inventory"
	"github.com/jhoicas/Inventario-sucursales/internal/application/ports"
	"github.com/jhoicas/Inventario-sucursales/internal/application/sales"
	"github.com/jhoicas/Inventario-sucursales/internal/application/supply"
	"github.com/jhoicas/Inventario-sucursales/internal/application/transfer"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	BranchUC   *catalog.BranchUseCase
	ProviderUC *catalog.ProviderUseCase
	ProductUC  *catalog.ProductUseCase
	LedgerUC   *inventory.LedgerUseCase
	SupplyUC   *supply.ReceiveBatchUseCase
	TransferUC *transfer.UseCase
	SaleUC     *sales.RegisterSaleUseCase

	JWTSecret string
	JWTIssuer string

	IdempotencyStore ports.IdempotencyStore
	Locker           ports.Locker
	IdempotencyTTL   time.Duration

	Storage string // se reporta en /health
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Health (público)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", Storage: deps.Storage})
	})

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	anyRole := RequireRole(RoleAdmin, RoleBodeguero, RoleVendedor)
	stockWriters := RequireRole(RoleAdmin, RoleBodeguero)
	sellers := RequireRole(RoleAdmin, RoleVendedor)
	adminOnly := RequireRole(RoleAdmin)
	idem := Idempotency(deps.IdempotencyStore, deps.Locker, deps.IdempotencyTTL)

	// Branches
	branches := protected.Group("/branches")
	branchHandler := NewBranchHandler(deps.BranchUC)
	transferHandler := NewTransferHandler(deps.TransferUC)
	branches.Get("/", anyRole, branchHandler.List)
	branches.Get("/default", anyRole, branchHandler.Default)
	branches.Get("/:id/transfers/incoming", anyRole, transferHandler.ListIncoming)
	branches.Get("/:id/transfers/history", anyRole, transferHandler.ListHistory)

	// Providers
	providers := protected.Group("/providers")
	providerHandler := NewProviderHandler(deps.ProviderUC)
	providers.Post("/", stockWriters, providerHandler.Create)
	providers.Put("/:id", stockWriters, providerHandler.Update)
	providers.Get("/:id", anyRole, providerHandler.GetByID)
	providers.Get("/:id/next-codes", stockWriters, providerHandler.NextCodes)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", stockWriters, productHandler.Create)
	products.Get("/", anyRole, productHandler.GetBySKU)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Get("/:id/label.pdf", anyRole, productHandler.Label)

	// Inventory
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LedgerUC)
	invGroup.Post("/adjustments", adminOnly, inventoryHandler.Adjust)
	invGroup.Get("/:branch_id", anyRole, inventoryHandler.ListByBranch)
	invGroup.Get("/:branch_id/:product_id", anyRole, inventoryHandler.Get)

	// Supply
	batches := protected.Group("/supply/batches")
	supplyHandler := NewSupplyHandler(deps.SupplyUC)
	batches.Post("/", stockWriters, idem, supplyHandler.Receive)
	batches.Get("/:id", stockWriters, supplyHandler.GetReceipt)
	batches.Get("/:id/receipt.pdf", stockWriters, supplyHandler.ReceiptPDF)

	// Transfers
	transfers := protected.Group("/transfers")
	transfers.Post("/", stockWriters, idem, transferHandler.Send)
	transfers.Get("/:id", anyRole, transferHandler.Get)
	transfers.Post("/:id/receive", stockWriters, transferHandler.Receive)
	transfers.Post("/:id/reject", stockWriters, transferHandler.Reject)

	// Sales
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Post("/", sellers, idem, saleHandler.Register)
}
