package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/caja"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/dto"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/usecase"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/infrastructure/pdf"
)

// PaymentHandler maneja el registro de pagos en ventanilla (protegido).
type PaymentHandler struct {
	uc        *caja.PaymentUseCase
	taxpayers *usecase.TaxpayerUseCase
	pdfGen    *pdf.MarotoPDFGenerator
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *caja.PaymentUseCase, taxpayers *usecase.TaxpayerUseCase, pdfGen *pdf.MarotoPDFGenerator) *PaymentHandler {
	return &PaymentHandler{uc: uc, taxpayers: taxpayers, pdfGen: pdfGen}
}

// Record godoc
// @Summary      Registrar pago
// @Tags         pagos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordPaymentRequest  true  "Datos del pago"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/pagos [post]
func (h *PaymentHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Record(in, GetOperatorName(c))
	if err != nil {
		if errors.Is(err, domain.ErrTaxpayerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "contribuyente no encontrado"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	// 202 si el pago quedó encolado localmente a la espera de sincronizar.
	if out.Queued {
		return c.Status(fiber.StatusAccepted).JSON(out)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListByDate godoc
// @Summary      Transacciones del día (cuadre de caja)
// @Tags         pagos
// @Security     Bearer
// @Produce      json
// @Param        fecha  query  string  false  "Fecha YYYY-MM-DD (hoy por defecto)"
// @Success      200    {array}  dto.TransactionResponse
// @Router       /api/pagos [get]
func (h *PaymentHandler) ListByDate(c *fiber.Ctx) error {
	day := time.Now()
	if q := c.Query("fecha"); q != "" {
		parsed, err := time.Parse("2006-01-02", q)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha debe ser YYYY-MM-DD"})
		}
		day = parsed
	}
	out, err := h.uc.ListByDate(day)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ListByTaxpayer godoc
// @Summary      Historial de pagos de un contribuyente
// @Tags         pagos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del contribuyente"
// @Success      200  {array}  dto.TransactionResponse
// @Router       /api/contribuyentes/{id}/pagos [get]
func (h *PaymentHandler) ListByTaxpayer(c *fiber.Ctx) error {
	out, err := h.uc.ListByTaxpayer(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener transacción por ID
// @Tags         pagos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la transacción"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pagos/{id} [get]
func (h *PaymentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "transacción no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Pending godoc
// @Summary      Pagos en cola offline a la espera de sincronizar
// @Tags         pagos
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.TransactionResponse
// @Router       /api/pagos/pendientes [get]
func (h *PaymentHandler) Pending(c *fiber.Ctx) error {
	out, err := h.uc.Pending()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Sync godoc
// @Summary      Sincronizar la cola offline contra la base
// @Tags         pagos
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncResultResponse
// @Router       /api/pagos/sincronizar [post]
func (h *PaymentHandler) Sync(c *fiber.Ctx) error {
	out, err := h.uc.SyncPending()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Recibo del pago en PDF
// @Tags         pagos
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la transacción"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pagos/{id}/recibo [get]
func (h *PaymentHandler) Receipt(c *fiber.Ctx) error {
	tx, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "transacción no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	tp, err := h.taxpayers.GetByID(tx.TaxpayerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	bytes, err := h.pdfGen.GenerateReceipt(c.Context(), transactionFromResponse(tx), taxpayerFromResponse(tp))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="recibo-`+tx.ID+`.pdf"`)
	return c.Send(bytes)
}

// transactionFromResponse rearma la entidad mínima que necesita el PDF.
func transactionFromResponse(r *dto.TransactionResponse) *entity.Transaction {
	date, _ := time.Parse("2006-01-02", r.Date)
	return &entity.Transaction{
		ID:            r.ID,
		TaxpayerID:    r.TaxpayerID,
		TaxType:       entity.TaxType(r.TaxType),
		Amount:        r.Amount,
		Date:          date,
		Time:          r.Time,
		Description:   r.Description,
		Status:        entity.TransactionStatus(r.Status),
		PaymentMethod: r.PaymentMethod,
		TellerName:    r.TellerName,
		Metadata:      entity.TransactionMetadata{PlateNumber: r.PlateNumber},
	}
}
