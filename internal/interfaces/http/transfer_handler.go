package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-sucursales/internal/application/dto"
	"github.com/jhoicas/Inventario-sucursales/internal/application/transfer"
)

// TransferHandler traslados entre sucursales.
type TransferHandler struct {
	uc *transfer.UseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.UseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Send godoc
// @Summary      Enviar traslado
// @Description  Descuenta del origen y deja el traslado IN_TRANSIT.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                   false  "reintentos seguros"
// @Param        body             body    dto.SendTransferRequest  true   "origin_branch_id (vacío = principal), destination_branch_id, items"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Send(c *fiber.Ctx) error {
	var in dto.SendTransferRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Send(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Receive godoc
// @Summary      Recibir traslado
// @Description  Acredita en el destino las cantidades enviadas. Solo desde IN_TRANSIT.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/receive [post]
func (h *TransferHandler) Receive(c *fiber.Ctx) error {
	out, err := h.uc.Receive(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar traslado
// @Description  Devuelve las cantidades al origen. Solo desde IN_TRANSIT.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true   "ID del traslado"
// @Param        body  body  dto.RejectTransferRequest  false  "motivo"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/reject [post]
func (h *TransferHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectTransferRequest
	if len(c.Body()) > 0 {
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
	}
	out, err := h.uc.Reject(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListIncoming godoc
// @Summary      Traslados con destino en la sucursal
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID de la sucursal"
// @Param        state  query  string  false  "IN_TRANSIT, COMPLETED o REJECTED"
// @Failure      400  {object}  dto.ErrorResponse
// @Success      200  {object}  dto.TransferListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/branches/{id}/transfers/incoming [get]
func (h *TransferHandler) ListIncoming(c *fiber.Ctx) error {
	var states []string
	if s := strings.ToUpper(strings.TrimSpace(c.Query("state"))); s != "" {
		states = append(states, s)
	}
	out, err := h.uc.ListIncoming(c.Context(), c.Params("id"), states...)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListHistory godoc
// @Summary      Historial de traslados de la sucursal
// @Description  COMPLETED y REJECTED donde la sucursal fue origen o destino.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sucursal"
// @Success      200  {object}  dto.TransferListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/branches/{id}/transfers/history [get]
func (h *TransferHandler) ListHistory(c *fiber.Ctx) error {
	out, err := h.uc.ListHistory(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
