package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-sucursales/internal/application/dto"
	"github.com/jhoicas/Inventario-sucursales/internal/application/inventory"
)

// InventoryHandler lectura y ajuste del inventario por sucursal (protegido).
type InventoryHandler struct {
	uc *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Get godoc
// @Summary      Cantidad de un producto en una sucursal
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id   path  string  true  "ID de la sucursal"
// @Param        product_id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{branch_id}/{product_id} [get]
func (h *InventoryHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("product_id"), c.Params("branch_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListByBranch godoc
// @Summary      Inventario de una sucursal
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id  path  string  true  "ID de la sucursal"
// @Success      200  {object}  dto.BranchInventoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{branch_id} [get]
func (h *InventoryHandler) ListByBranch(c *fiber.Ctx) error {
	out, err := h.uc.ListByBranch(c.Context(), c.Params("branch_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Ajuste manual de inventario
// @Description  Delta relativo (positivo o negativo). Nunca deja la cantidad negativa.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, branch_id (vacío = principal), delta"
// @Success      200   {object}  dto.StockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Adjust(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
