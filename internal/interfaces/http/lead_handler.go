package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/joyeria-crm/internal/application/dto"
	"github.com/jhoicas/joyeria-crm/internal/application/usecase"
)

// LeadHandler embudo comercial.
type LeadHandler struct {
	uc *usecase.LeadUseCase
}

func NewLeadHandler(uc *usecase.LeadUseCase) *LeadHandler {
	return &LeadHandler{uc: uc}
}

// List godoc
// @Summary      Listar leads
// @Tags         leads
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Etapa"
// @Success      200     {object}  dto.ListResponse[dto.LeadResponse]
// @Router       /api/leads [get]
func (h *LeadHandler) List(c *fiber.Ctx) error {
	var q dto.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return fail(c, err)
	}
	out, err := h.uc.List(c.UserContext(), CurrentUser(c), q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar lead
// @Tags         leads
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLeadRequest  true  "Lead"
// @Success      201   {object}  dto.MutationResponse
// @Failure      400   {object}  dto.MutationResponse
// @Router       /api/leads [post]
func (h *LeadHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLeadRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), CurrentUser(c), in)
	if err != nil {
		return reject(c, err)
	}
	return accepted(c, fiber.StatusCreated, out)
}

// Stage godoc
// @Summary      Mover lead de etapa
// @Tags         leads
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del lead"
// @Param        body  body  dto.StatusRequest  true  "{\"stage\": \"qualified\"}"
// @Success      200   {object}  dto.MutationResponse
// @Failure      409   {object}  dto.MutationResponse
// @Router       /api/leads/{id}/stage [patch]
func (h *LeadHandler) Stage(c *fiber.Ctx) error {
	var in dto.StatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Transition(c.UserContext(), CurrentUser(c), c.Params("id"), in.Value())
	if err != nil {
		return reject(c, err)
	}
	return accepted(c, fiber.StatusOK, out)
}
