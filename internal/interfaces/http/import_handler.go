package http

import (
	"errors"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/quizzdwwm/backoffice-api/internal/application/dto"
	"github.com/quizzdwwm/backoffice-api/internal/application/usecase"
	"github.com/quizzdwwm/backoffice-api/internal/domain"
)

// importForm formulario mínimo de subida; el back-office no tiene capa de
// plantillas.
const importForm = `<!doctype html>
<html><body>
<h1>Importar usuarios</h1>
<form method="post" action="/admin/import-users" enctype="multipart/form-data">
  <input type="file" name="csv_file" accept=".csv" required>
  <button type="submit">Importar</button>
</form>
</body></html>`

// ImportHandler recibe el CSV subido, lo guarda en el directorio configurado
// bajo un nombre generado y lanza la importación sobre la ruta guardada.
type ImportHandler struct {
	uc     *usecase.UserUseCase
	csvDir string
}

// NewImportHandler construye el handler de importación.
func NewImportHandler(uc *usecase.UserUseCase, csvDir string) *ImportHandler {
	return &ImportHandler{uc: uc, csvDir: csvDir}
}

// Form godoc
// @Summary      Formulario de importación CSV
// @Tags         import
// @Produce      html
// @Success      200
// @Router       /admin/import-users [get]
func (h *ImportHandler) Form(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(importForm)
}

// Upload godoc
// @Summary      Importar usuarios desde un CSV
// @Description  Archivo sin cabecera, 4 columnas: email, family_name,
// @Description  given_name, matricule. Filas inválidas se omiten y se cuentan.
// @Tags         import
// @Accept       multipart/form-data
// @Produce      json
// @Param        csv_file  formData  file  true  "archivo CSV"
// @Success      200  {object}  dto.ImportReport
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /admin/import-users [post]
func (h *ImportHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("csv_file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "se requiere el campo csv_file"})
	}

	// Nombre generado en el directorio configurado; la extensión original se
	// conserva para inspección posterior.
	dest := filepath.Join(h.csvDir, uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveFile(file, dest); err != nil {
		// Fallo de subida: se avisa y la importación no llega a empezar.
		SetFlash(c, "danger", "error al guardar el archivo")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "UPLOAD_FAILED", Message: "no se pudo guardar el archivo"})
	}

	report, err := h.uc.ImportFromCSV(c.Context(), dest)
	if err != nil {
		var impErr *domain.ImportError
		if errors.As(err, &impErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "IMPORT_FAILED", Message: impErr.Error()})
		}
		return internalError(c, err)
	}

	log.Info().
		Str("file", dest).
		Int("total", report.Total).
		Int("created", report.Created).
		Int("skipped", report.Skipped).
		Msg("importación CSV finalizada")

	SetFlash(c, "success", "usuarios importados")
	return c.JSON(report)
}
