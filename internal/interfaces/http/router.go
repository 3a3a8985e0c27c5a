package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/quizzdwwm/backoffice-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	UserUC   *usecase.UserUseCase
	ExportUC *usecase.ExportUseCase
	CSVDir   string
}

// Router registra las rutas del back-office.
func Router(app *fiber.App, deps RouterDeps) {
	userHandler := NewUserHandler(deps.UserUC, deps.ExportUC)
	importHandler := NewImportHandler(deps.UserUC, deps.CSVDir)

	admin := app.Group("/admin")

	// Dashboard: redirige al listado
	admin.Get("/", userHandler.Dashboard)

	// CRUD de usuarios
	users := admin.Group("/users")
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/export.pdf", userHandler.ExportPDF)
	users.Get("/:id", userHandler.Detail)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Borrado por lotes (form data, redirect + flash)
	admin.Post("/batch-delete", userHandler.BatchDelete)

	// Importación CSV
	admin.Get("/import-users", importHandler.Form)
	admin.Post("/import-users", importHandler.Upload)

	// Prometheus
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
