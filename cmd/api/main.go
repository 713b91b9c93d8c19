package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-sucursales/internal/application/catalog"
	"github.com/jhoicas/Inventario-sucursales/internal/application/inventory"
	"github.com/jhoicas/Inventario-sucursales/internal/application/ports"
	"github.com/jhoicas/Inventario-sucursales/internal/application/sales"
	"github.com/jhoicas/Inventario-sucursales/internal/application/supply"
	"github.com/jhoicas/Inventario-sucursales/internal/application/transfer"
	"github.com/jhoicas/Inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/Inventario-sucursales/internal/infrastructure/cache"
	"github.com/jhoicas/Inventario-sucursales/internal/infrastructure/lock"
	"github.com/jhoicas/Inventario-sucursales/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Inventario-sucursales/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-sucursales/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Inventario-sucursales/internal/interfaces/http"
	"github.com/jhoicas/Inventario-sucursales/pkg/config"
	"github.com/jhoicas/Inventario-sucursales/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Persistencia: PostgreSQL o store en memoria (desarrollo y demos).
	var (
		txRunner ports.TxRunner
		repos    ports.Repos
	)
	switch cfg.App.Storage {
	case config.StorageMemory:
		store := memory.NewStore(entity.Branch{
			ID:        uuid.New().String(),
			Name:      "Principal",
			IsPrimary: true,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		})
		txRunner, repos = store, store.Repos()
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		txRunner, repos = postgres.NewTxRunner(pool), postgres.NewRepos(pool)
	}

	// Idempotencia y locks: Redis si está configurado; si no, alternativas en proceso (una sola instancia).
	var (
		idemStore ports.IdempotencyStore
		locker    ports.Locker
	)
	if cfg.Redis.URL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		idemStore = cache.NewRedisIdempotencyStore(rdb)
		locker = lock.NewRedisLocker(rdb, cfg.Redis.LockTTL(), log.Component("lock"))
	} else {
		log.Warn().Msg("REDIS_URL vacío: idempotencia y locks en memoria del proceso")
		idemStore = cache.NewMemoryIdempotencyStore()
		locker = lock.NewLocalLocker()
	}

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	branchUC := catalog.NewBranchUseCase(repos.Branches)
	providerUC := catalog.NewProviderUseCase(txRunner, repos.Providers, log.Component("providers"))
	productUC := catalog.NewProductUseCase(txRunner, repos.Products, repos.Providers, pdfGenerator, log.Component("products"))
	ledgerUC := inventory.NewLedgerUseCase(txRunner, repos.Inventory, repos.Branches, log.Component("inventory"))
	supplyUC := supply.NewReceiveBatchUseCase(txRunner, pdfGenerator, log.Component("supply"))
	transferUC := transfer.NewUseCase(txRunner, repos.Transfers, repos.Branches, log.Component("transfers"))
	saleUC := sales.NewRegisterSaleUseCase(txRunner, log.Component("sales"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.HTTP.SwaggerFile != "" {
		if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.HTTP.SwaggerFile,
				Path:     "docs",
				Title:    "Inventario Sucursales API",
			}))
		} else {
			log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger no disponible")
		}
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		BranchUC:         branchUC,
		ProviderUC:       providerUC,
		ProductUC:        productUC,
		LedgerUC:         ledgerUC,
		SupplyUC:         supplyUC,
		TransferUC:       transferUC,
		SaleUC:           saleUC,
		JWTSecret:        cfg.JWT.Secret,
		JWTIssuer:        cfg.JWT.Issuer,
		IdempotencyStore: idemStore,
		Locker:           locker,
		IdempotencyTTL:   cfg.Redis.IdempotencyTTL(),
		Storage:          cfg.App.Storage,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
