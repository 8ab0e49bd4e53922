package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/joyeria-crm/internal/application/dto"
	"github.com/jhoicas/joyeria-crm/internal/application/usecase"
)

// TeamHandler equipo, tiendas y tenants.
type TeamHandler struct {
	team    *usecase.TeamUseCase
	tenants *usecase.TenantUseCase
}

func NewTeamHandler(team *usecase.TeamUseCase, tenants *usecase.TenantUseCase) *TeamHandler {
	return &TeamHandler{team: team, tenants: tenants}
}

// List godoc
// @Summary      Listar equipo
// @Tags         team
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.UserResponse]
// @Router       /api/team [get]
func (h *TeamHandler) List(c *fiber.Ctx) error {
	var q dto.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return fail(c, err)
	}
	out, err := h.team.List(c.UserContext(), CurrentUser(c), q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Alta de miembro del equipo
// @Tags         team
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "Miembro"
// @Success      201   {object}  dto.MutationResponse
// @Failure      409   {object}  dto.MutationResponse
// @Router       /api/team [post]
func (h *TeamHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.team.Create(c.UserContext(), CurrentUser(c), in)
	if err != nil {
		return reject(c, err)
	}
	return accepted(c, fiber.StatusCreated, out)
}

// Delete godoc
// @Summary      Baja de miembro del equipo
// @Tags         team
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  dto.MutationResponse
// @Failure      409  {object}  dto.MutationResponse
// @Router       /api/team/{id} [delete]
func (h *TeamHandler) Delete(c *fiber.Ctx) error {
	if err := h.team.Delete(c.UserContext(), CurrentUser(c), c.Params("id")); err != nil {
		return reject(c, err)
	}
	return accepted(c, fiber.StatusOK, nil)
}

// Tenants godoc
// @Summary      Listar tenants
// @Tags         tenants
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.TenantResponse]
// @Router       /api/tenants [get]
func (h *TeamHandler) Tenants(c *fiber.Ctx) error {
	var q dto.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return fail(c, err)
	}
	out, err := h.tenants.List(c.UserContext(), CurrentUser(c), q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Stores godoc
// @Summary      Listar tiendas del tenant
// @Tags         stores
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.StoreResponse]
// @Router       /api/stores [get]
func (h *TeamHandler) Stores(c *fiber.Ctx) error {
	out, err := h.tenants.ListStores(c.UserContext(), CurrentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// CreateStore godoc
// @Summary      Abrir tienda
// @Tags         stores
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStoreRequest  true  "Tienda"
// @Success      201   {object}  dto.MutationResponse
// @Router       /api/stores [post]
func (h *TeamHandler) CreateStore(c *fiber.Ctx) error {
	var in dto.CreateStoreRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.tenants.CreateStore(c.UserContext(), CurrentUser(c), in)
	if err != nil {
		return reject(c, err)
	}
	return accepted(c, fiber.StatusCreated, out)
}
