package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-sucursales/internal/application/catalog"
)

// BranchHandler consultas al directorio de sucursales.
type BranchHandler struct {
	uc *catalog.BranchUseCase
}

// NewBranchHandler construye el handler.
func NewBranchHandler(uc *catalog.BranchUseCase) *BranchHandler {
	return &BranchHandler{uc: uc}
}

// List godoc
// @Summary      Listar sucursales
// @Tags         branches
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BranchListResponse
// @Router       /api/branches [get]
func (h *BranchHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Default godoc
// @Summary      Sucursal principal
// @Description  Sucursal usada cuando una operación no indica branch_id.
// @Tags         branches
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BranchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/branches/default [get]
func (h *BranchHandler) Default(c *fiber.Ctx) error {
	out, err := h.uc.Default(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
