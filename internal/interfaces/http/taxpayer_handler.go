package http

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/dto"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/usecase"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/infrastructure/pdf"
)

// TaxpayerHandler maneja las peticiones HTTP del padrón (protegido).
type TaxpayerHandler struct {
	uc     *usecase.TaxpayerUseCase
	debts  *usecase.DebtUseCase
	pdfGen *pdf.MarotoPDFGenerator
}

// NewTaxpayerHandler construye el handler.
func NewTaxpayerHandler(uc *usecase.TaxpayerUseCase, debts *usecase.DebtUseCase, pdfGen *pdf.MarotoPDFGenerator) *TaxpayerHandler {
	return &TaxpayerHandler{uc: uc, debts: debts, pdfGen: pdfGen}
}

// Create godoc
// @Summary      Registrar contribuyente
// @Tags         contribuyentes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TaxpayerRequest  true  "Datos del contribuyente"
// @Success      201   {object}  dto.TaxpayerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/contribuyentes [post]
func (h *TaxpayerHandler) Create(c *fiber.Ctx) error {
	var in dto.TaxpayerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe un contribuyente con esa cédula/RUC"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar padrón
// @Tags         contribuyentes
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.TaxpayerResponse
// @Router       /api/contribuyentes [get]
func (h *TaxpayerHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if page.Limit > 100 {
		page.Limit = 100
	}
	out, err := h.uc.List(page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar contribuyentes por nombre (sin distinguir acentos)
// @Tags         contribuyentes
// @Security     Bearer
// @Produce      json
// @Param        nombre  query  string  true  "Nombre o parte del nombre"
// @Success      200     {array}  dto.TaxpayerResponse
// @Router       /api/contribuyentes/buscar [get]
func (h *TaxpayerHandler) Search(c *fiber.Ctx) error {
	nombre := strings.TrimSpace(c.Query("nombre"))
	if nombre == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query param nombre es requerido"})
	}
	out, err := h.uc.Search(nombre)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener contribuyente por ID
// @Tags         contribuyentes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del contribuyente"
// @Success      200  {object}  dto.TaxpayerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contribuyentes/{id} [get]
func (h *TaxpayerHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrTaxpayerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "contribuyente no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar contribuyente (reemplazo completo)
// @Tags         contribuyentes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del contribuyente"
// @Param        body  body  dto.TaxpayerRequest  true  "Registro completo"
// @Success      200   {object}  dto.TaxpayerResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/contribuyentes/{id} [put]
func (h *TaxpayerHandler) Update(c *fiber.Ctx) error {
	var in dto.TaxpayerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		if errors.Is(err, domain.ErrTaxpayerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "contribuyente no encontrado"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ChangeStatus godoc
// @Summary      Cambiar estado del contribuyente
// @Tags         contribuyentes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del contribuyente"
// @Param        body  body  object{status=string}  true  "ACTIVO | SUSPENDIDO | BLOQUEADO | MOROSO"
// @Success      200   {object}  dto.TaxpayerResponse
// @Router       /api/contribuyentes/{id}/estado [patch]
func (h *TaxpayerHandler) ChangeStatus(c *fiber.Ctx) error {
	var in struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.ChangeStatus(c.Params("id"), entity.TaxpayerStatus(in.Status))
	if err != nil {
		if errors.Is(err, domain.ErrTaxpayerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "contribuyente no encontrado"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Debts godoc
// @Summary      Deudas vigentes del contribuyente
// @Tags         contribuyentes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del contribuyente"
// @Success      200  {object}  dto.DebtSummaryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contribuyentes/{id}/deudas [get]
func (h *TaxpayerHandler) Debts(c *fiber.Ctx) error {
	out, err := h.debts.DebtsFor(c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrTaxpayerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "contribuyente no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// PazYSalvo godoc
// @Summary      Certificado de Paz y Salvo en PDF (solo sin deudas)
// @Tags         contribuyentes
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del contribuyente"
// @Success      200  {file}    binary
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/contribuyentes/{id}/pazysalvo [get]
func (h *TaxpayerHandler) PazYSalvo(c *fiber.Ctx) error {
	summary, err := h.debts.PazYSalvo(c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrTaxpayerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "contribuyente no encontrado"})
		}
		if errors.Is(err, domain.ErrOutstandingDebt) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "OUTSTANDING_DEBT", Message: "el contribuyente mantiene deudas pendientes"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	tp, err := h.uc.GetByID(summary.TaxpayerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	now := time.Now()
	certNumber := fmt.Sprintf("PS-%s-%d", now.Format("20060102"), tp.TaxpayerNumber)
	bytes, err := h.pdfGen.GeneratePazYSalvo(c.Context(), taxpayerFromResponse(tp), certNumber, now.Format("02/01/2006"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+certNumber+`.pdf"`)
	return c.Send(bytes)
}

// taxpayerFromResponse rearma la entidad mínima que necesita el PDF.
func taxpayerFromResponse(r *dto.TaxpayerResponse) *entity.Taxpayer {
	return &entity.Taxpayer{
		ID:             r.ID,
		TaxpayerNumber: r.TaxpayerNumber,
		Type:           entity.TaxpayerType(r.Type),
		DocID:          r.DocID,
		Name:           r.Name,
	}
}
