package http

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/quizzdwwm/backoffice-api/internal/application/dto"
	"github.com/quizzdwwm/backoffice-api/internal/application/usecase"
	"github.com/quizzdwwm/backoffice-api/internal/domain"
)

// UserHandler expone las pantallas CRUD del back-office: listado, alta,
// detalle, edición, borrado individual y por lotes, y export PDF.
type UserHandler struct {
	uc     *usecase.UserUseCase
	export *usecase.ExportUseCase
}

// NewUserHandler construye el handler de usuarios.
func NewUserHandler(uc *usecase.UserUseCase, export *usecase.ExportUseCase) *UserHandler {
	return &UserHandler{uc: uc, export: export}
}

// Dashboard godoc
// @Summary      Redirección al listado de usuarios
// @Tags         admin
// @Success      302
// @Router       /admin [get]
func (h *UserHandler) Dashboard(c *fiber.Ctx) error {
	return c.Redirect("/admin/users", fiber.StatusFound)
}

// List godoc
// @Summary      Listar usuarios
// @Tags         users
// @Produce      json
// @Param        limit   query  int  false  "máx. resultados (def. 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /admin/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de paginación inválidos"})
	}
	users, err := h.uc.List(page)
	if err != nil {
		return internalError(c, err)
	}
	body := fiber.Map{"users": users}
	if level, msg, ok := ReadFlash(c); ok {
		body["notice"] = fiber.Map{"level": level, "message": msg}
	}
	return c.JSON(body)
}

// Create godoc
// @Summary      Crear usuario (password aleatorio, nunca devuelto)
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "email, family_name, given_name, matricule, roles"
// @Success      201  {object}  dto.UserResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /admin/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Email == "" || in.FamilyName == "" || in.GivenName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email, family_name y given_name son requeridos"})
	}
	user, err := h.uc.Create(in)
	if err != nil {
		return mapUserError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Detail godoc
// @Summary      Detalle de usuario
// @Tags         users
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /admin/users/{id} [get]
func (h *UserHandler) Detail(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id numérico requerido"})
	}
	user, err := h.uc.GetByID(id)
	if err != nil {
		return mapUserError(c, err)
	}
	return c.JSON(user)
}

// Update godoc
// @Summary      Edición parcial de usuario
// @Description  Campos ausentes quedan intactos; password vacío = sin cambios.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateUserRequest  true  "campos a sobreescribir"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /admin/users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id numérico requerido"})
	}
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	user, err := h.uc.Update(id, in)
	if err != nil {
		return mapUserError(c, err)
	}
	return c.JSON(user)
}

// Delete godoc
// @Summary      Eliminar usuario
// @Tags         users
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /admin/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id numérico requerido"})
	}
	if err := h.uc.Delete(id); err != nil {
		return mapUserError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BatchDelete godoc
// @Summary      Borrado por lotes
// @Description  Elimina los ids enviados en un solo commit; los ids
// @Description  inexistentes se omiten en silencio. Redirige al dashboard con
// @Description  un aviso flash.
// @Tags         users
// @Accept       x-www-form-urlencoded
// @Param        ids  formData  []int  true  "identificadores a eliminar"
// @Success      302
// @Router       /admin/batch-delete [post]
func (h *UserHandler) BatchDelete(c *fiber.Ctx) error {
	var in dto.BatchDeleteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "ids inválidos"})
	}
	deleted, err := h.uc.BatchDelete(c.Context(), in.IDs)
	if err != nil {
		return internalError(c, err)
	}
	SetFlash(c, "success", fmt.Sprintf("%d usuarios eliminados", deleted))
	return c.Redirect("/admin", fiber.StatusFound)
}

// ExportPDF godoc
// @Summary      Exportar el listado de usuarios como PDF
// @Tags         users
// @Produce      application/pdf
// @Success      200
// @Router       /admin/users/export.pdf [get]
func (h *UserHandler) ExportPDF(c *fiber.Ctx) error {
	doc, err := h.export.UserListPDF(c.Context())
	if err != nil {
		return internalError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="users.pdf"`)
	return c.Send(doc)
}

func parseID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

func mapUserError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: "el usuario no existe"})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		return internalError(c, err)
	}
}

func internalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
