package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/joyeria-crm/internal/application/dto"
	"github.com/jhoicas/joyeria-crm/internal/application/usecase"
)

// AppointmentHandler agenda de citas.
type AppointmentHandler struct {
	uc *usecase.AppointmentUseCase
}

func NewAppointmentHandler(uc *usecase.AppointmentUseCase) *AppointmentHandler {
	return &AppointmentHandler{uc: uc}
}

// List godoc
// @Summary      Listar citas
// @Tags         appointments
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Estado"
// @Param        from    query  string  false  "Desde (2006-01-02 o RFC3339)"
// @Param        to      query  string  false  "Hasta (inclusive)"
// @Param        store   query  string  false  "ID de tienda"
// @Success      200     {object}  dto.ListResponse[dto.AppointmentResponse]
// @Router       /api/appointments [get]
func (h *AppointmentHandler) List(c *fiber.Ctx) error {
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
// @Summary      Agendar cita
// @Tags         appointments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAppointmentRequest  true  "Cita"
// @Success      201   {object}  dto.MutationResponse
// @Failure      400   {object}  dto.MutationResponse
// @Router       /api/appointments [post]
func (h *AppointmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAppointmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), CurrentUser(c), in)
	if err != nil {
		return reject(c, err)
	}
	return accepted(c, fiber.StatusCreated, out)
}

// Update godoc
// @Summary      Reprogramar o editar cita
// @Tags         appointments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la cita"
// @Param        body  body  dto.UpdateAppointmentRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.MutationResponse
// @Failure      409   {object}  dto.MutationResponse
// @Router       /api/appointments/{id} [put]
func (h *AppointmentHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateAppointmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), CurrentUser(c), c.Params("id"), in)
	if err != nil {
		return reject(c, err)
	}
	return accepted(c, fiber.StatusOK, out)
}

// Transition godoc
// @Summary      Cambiar estado de la cita
// @Tags         appointments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la cita"
// @Param        body  body  dto.StatusRequest  true  "{\"status\": \"confirmed\"}"
// @Success      200   {object}  dto.MutationResponse
// @Failure      409   {object}  dto.MutationResponse
// @Router       /api/appointments/{id}/status [patch]
func (h *AppointmentHandler) Transition(c *fiber.Ctx) error {
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
