package usecase

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/dto"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/repository"
)

// ConfigUseCase administra la tabla única de tarifas municipales.
type ConfigUseCase struct {
	repo repository.TaxConfigRepository
}

func NewConfigUseCase(repo repository.TaxConfigRepository) *ConfigUseCase {
	return &ConfigUseCase{repo: repo}
}

// Get devuelve las tarifas vigentes. Si nadie las ha guardado todavía
// responde los valores por omisión del municipio.
func (uc *ConfigUseCase) Get() (*dto.TaxConfigDTO, error) {
	cfg, err := uc.repo.Get()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = entity.DefaultTaxConfig()
	}
	return dto.FromTaxConfig(cfg), nil
}

// Save reemplaza las tarifas vigentes. Solo valida no-negatividad: el monto
// cero es legítimo (exoneración).
func (uc *ConfigUseCase) Save(in dto.TaxConfigDTO) (*dto.TaxConfigDTO, error) {
	cfg := in.ToTaxConfig()
	cfg.UpdatedAt = time.Now()
	rates := map[string]decimal.Decimal{
		"tarifa_base_comercio": cfg.CommercialBaseRate,
		"basura_residencial":   cfg.GarbageResidentialRate,
		"basura_comercial":     cfg.GarbageCommercialRate,
		"placa_vehicular":      cfg.PlateCost,
		"construccion_m2":      cfg.ConstructionRatePerM2,
		"licencia_comercial":   cfg.LicenseFee,
		"rotulos_y_publicidad": cfg.AdvertisementFee,
	}
	for name, v := range rates {
		if v.IsNegative() {
			return nil, fmt.Errorf("%w: %s no puede ser negativa", domain.ErrInvalidInput, name)
		}
	}
	for cat, rate := range cfg.CommercialRates {
		if rate.IsNegative() {
			return nil, fmt.Errorf("%w: tarifa de la categoría %s no puede ser negativa", domain.ErrInvalidInput, cat)
		}
	}
	if err := uc.repo.Save(cfg); err != nil {
		return nil, err
	}
	return dto.FromTaxConfig(cfg), nil
}
