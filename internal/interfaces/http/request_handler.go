package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/dto"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/tramites"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"
)

// RequestHandler maneja el flujo de solicitudes administrativas (protegido;
// aprobar/rechazar solo ADMIN, eso lo impone el router).
type RequestHandler struct {
	uc *tramites.RequestUseCase
}

// NewRequestHandler construye el handler.
func NewRequestHandler(uc *tramites.RequestUseCase) *RequestHandler {
	return &RequestHandler{uc: uc}
}

// Create godoc
// @Summary      Crear solicitud administrativa
// @Tags         solicitudes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequestRequest  true  "Tipo y campos de la solicitud"
// @Success      201   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/solicitudes [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(in, GetOperatorName(c))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListPending godoc
// @Summary      Solicitudes pendientes (más antiguas primero)
// @Tags         solicitudes
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.RequestResponse
// @Router       /api/solicitudes/pendientes [get]
func (h *RequestHandler) ListPending(c *fiber.Ctx) error {
	out, err := h.uc.ListPending(GetOperatorID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ListResolved godoc
// @Summary      Historial de solicitudes resueltas (más recientes primero)
// @Tags         solicitudes
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.RequestResponse
// @Router       /api/solicitudes/resueltas [get]
func (h *RequestHandler) ListResolved(c *fiber.Ctx) error {
	out, err := h.uc.ListResolved(GetOperatorID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener solicitud por ID
// @Tags         solicitudes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/solicitudes/{id} [get]
func (h *RequestHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "solicitud no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar solicitud (solo ADMIN)
// @Tags         solicitudes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.ApproveRequestRequest  false  "Detalle del arreglo (solo PAYMENT_ARRANGEMENT)"
// @Success      200   {object}  dto.RequestResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/solicitudes/{id}/aprobar [post]
func (h *RequestHandler) Approve(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.ApproveRequestRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}

	current, err := h.uc.GetByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "solicitud no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	var res tramites.Resolution
	switch entity.RequestType(current.Type) {
	case entity.RequestVoidTransaction:
		res = tramites.VoidResolution{}
	case entity.RequestPaymentArrangement:
		res = tramites.ArrangementResolution{InitialPayment: in.InitialPayment, Installments: in.Installments}
	case entity.RequestUpdateTaxpayer:
		res = tramites.TaxpayerEditResolution{}
	}

	out, err := h.uc.Approve(id, res)
	if err != nil {
		return h.resolutionError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar solicitud (solo ADMIN)
// @Tags         solicitudes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.RejectRequestRequest  false  "Razón del rechazo"
// @Success      200   {object}  dto.RequestResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/solicitudes/{id}/rechazar [post]
func (h *RequestHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectRequestRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	out, err := h.uc.Reject(c.Params("id"), in.Reason)
	if err != nil {
		return h.resolutionError(c, err)
	}
	return c.JSON(out)
}

// Archive godoc
// @Summary      Archivar solicitud resuelta (descarte local del operador)
// @Tags         solicitudes
// @Security     Bearer
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      204  "archivada"
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/solicitudes/{id}/archivar [post]
func (h *RequestHandler) Archive(c *fiber.Ctx) error {
	err := h.uc.Archive(c.Params("id"), GetOperatorID(c))
	if err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "solicitud no encontrada"})
		}
		if errors.Is(err, domain.ErrRequestPending) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PENDING", Message: "una solicitud pendiente no puede archivarse"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RequestHandler) resolutionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrRequestNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "solicitud no encontrada"})
	case errors.Is(err, domain.ErrRequestNotPending):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_RESOLVED", Message: "la solicitud ya fue resuelta"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
