package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/dto"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/usecase"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain"
)

// ConfigHandler maneja la tabla de tarifas (lectura general, escritura ADMIN).
type ConfigHandler struct {
	uc      *usecase.ConfigUseCase
	morosos *usecase.DebtUseCase
}

// NewConfigHandler construye el handler.
func NewConfigHandler(uc *usecase.ConfigUseCase, morosos *usecase.DebtUseCase) *ConfigHandler {
	return &ConfigHandler{uc: uc, morosos: morosos}
}

// Get godoc
// @Summary      Tarifas vigentes
// @Tags         tarifas
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TaxConfigDTO
// @Router       /api/tarifas [get]
func (h *ConfigHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Save godoc
// @Summary      Reemplazar tarifas (solo ADMIN)
// @Tags         tarifas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TaxConfigDTO  true  "Tabla completa de tarifas"
// @Success      200   {object}  dto.TaxConfigDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/tarifas [put]
func (h *ConfigHandler) Save(c *fiber.Ctx) error {
	var in dto.TaxConfigDTO
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Save(in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Morosidad godoc
// @Summary      Tablero de morosidad del padrón (solo ADMIN)
// @Tags         morosidad
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MorosidadResponse
// @Router       /api/morosidad [get]
func (h *ConfigHandler) Morosidad(c *fiber.Ctx) error {
	out, err := h.morosos.Morosidad()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
