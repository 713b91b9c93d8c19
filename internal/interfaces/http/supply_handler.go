package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-sucursales/internal/application/dto"
	"github.com/jhoicas/Inventario-sucursales/internal/application/supply"
)

// SupplyHandler ingreso de mercancía por lotes.
type SupplyHandler struct {
	uc *supply.ReceiveBatchUseCase
}

// NewSupplyHandler construye el handler.
func NewSupplyHandler(uc *supply.ReceiveBatchUseCase) *SupplyHandler {
	return &SupplyHandler{uc: uc}
}

// Receive godoc
// @Summary      Recibir lote de proveedor
// @Description  Un batch_code repetido para el mismo proveedor se fusiona en el lote existente.
// @Description  Todo o nada: si una línea es inválida no se registra ninguna.
// @Tags         supply
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                   false  "reintentos seguros"
// @Param        body             body    dto.ReceiveBatchRequest  true   "provider_id, branch_id, batch_code, items"
// @Success      201   {object}  dto.BatchReceiptResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/supply/batches [post]
func (h *SupplyHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveBatchRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.ReceiveBatch(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetReceipt godoc
// @Summary      Recibo del lote
// @Tags         supply
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchReceiptResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/supply/batches/{id} [get]
func (h *SupplyHandler) GetReceipt(c *fiber.Ctx) error {
	out, err := h.uc.GetReceipt(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ReceiptPDF godoc
// @Summary      Recibo del lote en PDF
// @Tags         supply
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/supply/batches/{id}/receipt.pdf [get]
func (h *SupplyHandler) ReceiptPDF(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.ReceiptPDF(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, pdf, filename)
}
