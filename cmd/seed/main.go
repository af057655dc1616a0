// seed carga productos de demostración con algunos movimientos de stock e imprime
// tokens de desarrollo para cada rol.
//
// Uso: go run ./cmd/seed
// Requiere las mismas variables que la API (DATABASE_URL o DB_*, JWT_SECRET).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
	"github.com/jhoicas/kardex-api/internal/infrastructure/postgres"
	"github.com/jhoicas/kardex-api/pkg/config"
	"github.com/jhoicas/kardex-api/pkg/jwt"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

const seedUser = "seed"

var demoProducts = []dto.CreateProductRequest{
	{Name: "Cámara réflex", Description: "Cuerpo 24MP con lente 18-55", Category: "Electrónica", Price: decimal.RequireFromString("2450000"), Quantity: 8, MinimumStock: 3},
	{Name: "Trípode de aluminio", Description: "Altura máxima 1,6 m", Category: "Accesorios", Price: decimal.RequireFromString("185000"), Quantity: 2, MinimumStock: 5},
	{Name: "Tarjeta SD 128GB", Description: "Clase 10, U3", Category: "Accesorios", Price: decimal.RequireFromString("95000"), Quantity: 40, MinimumStock: 10},
	{Name: "Batería de repuesto", Description: "Compatible con la cámara réflex", Category: "Electrónica", Price: decimal.RequireFromString("160000"), Quantity: 0, MinimumStock: 4},
	{Name: "Mochila fotográfica", Description: "Impermeable, 20 L", Category: "Accesorios", Price: decimal.RequireFromString("320000"), Quantity: 6, MinimumStock: 2},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "kardex-seed"})
	ctx := context.Background()

	if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	movRepo := postgres.NewStockMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.Stock.TxMaxRetries, cfg.Stock.LockTimeout())
	productUC := usecase.NewProductUseCase(productRepo, txRunner, nil)
	stockUC := inventory.NewStockUseCase(txRunner, productRepo, movRepo, nil, log)

	res, err := productUC.Import(ctx, demoProducts)
	if err != nil {
		log.Fatal().Err(err).Msg("importar productos")
	}
	log.Info().Int("creados", res.Successful).Int("errores", res.Errors).Msg("productos de demostración")

	// Algunos movimientos para que el kardex no esté vacío
	all, err := productUC.All(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("listar productos")
	}
	for _, p := range all {
		if _, err := stockUC.RegisterStockIn(ctx, p.ID, 5, "Carga inicial de demostración", seedUser); err != nil {
			log.Error().Err(err).Str("product_id", p.ID).Msg("entrada de stock")
			continue
		}
		if _, err := stockUC.RegisterStockOut(ctx, p.ID, 1, "Venta de demostración", seedUser); err != nil {
			log.Error().Err(err).Str("product_id", p.ID).Msg("salida de stock")
		}
	}

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: no se generan tokens")
		return
	}
	for _, u := range []struct{ name, role string }{
		{"admin", jwt.RoleAdmin},
		{"empleado", jwt.RoleEmployee},
		{"invitado", jwt.RoleGuest},
	} {
		tok, err := jwt.Generate(cfg.JWT.Secret, u.name, u.role, cfg.JWT.Issuer, cfg.JWT.Expiration)
		if err != nil {
			log.Fatal().Err(err).Msg("generar token")
		}
		fmt.Printf("%-8s %-9s Bearer %s\n", u.role, u.name, tok)
	}
}
