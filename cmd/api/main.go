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
	"github.com/prometheus/client_golang/prometheus"

	"github.com/quizzdwwm/backoffice-api/internal/application/usecase"
	"github.com/quizzdwwm/backoffice-api/internal/infrastructure/pdf"
	"github.com/quizzdwwm/backoffice-api/internal/infrastructure/postgres"
	httpRouter "github.com/quizzdwwm/backoffice-api/internal/interfaces/http"
	"github.com/quizzdwwm/backoffice-api/pkg/config"
	"github.com/quizzdwwm/backoffice-api/pkg/logger"
	"github.com/quizzdwwm/backoffice-api/pkg/metrics"
	"github.com/quizzdwwm/backoffice-api/pkg/password"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	if err := postgres.RunMigrations(ctx, cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := os.MkdirAll(cfg.Upload.CSVDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Upload.CSVDir).Msg("directorio de subidas")
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	hasher := password.NewBcryptHasher()
	userUC := usecase.NewUserUseCase(userRepo, hasher, txRunner)
	exportUC := usecase.NewExportUseCase(userRepo, pdf.NewMarotoUserListGenerator())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Back-office API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		UserUC:   userUC,
		ExportUC: exportUC,
		CSVDir:   cfg.Upload.CSVDir,
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
