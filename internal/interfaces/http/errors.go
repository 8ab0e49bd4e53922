package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/joyeria-crm/internal/application/dto"
	"github.com/jhoicas/joyeria-crm/internal/domain"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// El orden importa: ErrUserNotFound debe ir antes que cualquier envoltura genérica.
var errorTable = []errorMapping{
	{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnknownStatus, fiber.StatusBadRequest, "UNKNOWN_STATUS"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
}

// statusFor traduce un error de dominio a código HTTP.
func statusFor(err error) (int, string) {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// fail respuesta de error para lecturas.
func fail(c *fiber.Ctx, err error) error {
	status, code := statusFor(err)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

// reject respuesta de error para mutaciones: {"success": false, "message": ...}.
func reject(c *fiber.Ctx, err error) error {
	status, _ := statusFor(err)
	return c.Status(status).JSON(dto.MutationResponse{Success: false, Message: err.Error()})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.MutationResponse{Success: false, Message: "cuerpo inválido"})
}

func accepted(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(dto.MutationResponse{Success: true, Data: data})
}
