package dto

import (
	"github.com/shopspring/decimal"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"
)

// TaxConfigDTO tabla de tarifas en requests (PUT, solo ADMIN) y respuestas.
type TaxConfigDTO struct {
	CommercialRates        map[string]decimal.Decimal `json:"commercial_rates"`
	CommercialBaseRate     decimal.Decimal            `json:"commercial_base_rate"`
	GarbageResidentialRate decimal.Decimal            `json:"garbage_residential_rate"`
	GarbageCommercialRate  decimal.Decimal            `json:"garbage_commercial_rate"`
	PlateCost              decimal.Decimal            `json:"plate_cost"`
	ConstructionRatePerM2  decimal.Decimal            `json:"construction_rate_per_m2"`
	LicenseFee             decimal.Decimal            `json:"license_fee"`
	AdvertisementFee       decimal.Decimal            `json:"advertisement_fee"`
}

// FromTaxConfig arma el DTO desde la entidad.
func FromTaxConfig(cfg *entity.TaxConfig) *TaxConfigDTO {
	rates := make(map[string]decimal.Decimal, len(cfg.CommercialRates))
	for cat, rate := range cfg.CommercialRates {
		rates[string(cat)] = rate
	}
	return &TaxConfigDTO{
		CommercialRates:        rates,
		CommercialBaseRate:     cfg.CommercialBaseRate,
		GarbageResidentialRate: cfg.GarbageResidentialRate,
		GarbageCommercialRate:  cfg.GarbageCommercialRate,
		PlateCost:              cfg.PlateCost,
		ConstructionRatePerM2:  cfg.ConstructionRatePerM2,
		LicenseFee:             cfg.LicenseFee,
		AdvertisementFee:       cfg.AdvertisementFee,
	}
}

// ToTaxConfig convierte el DTO a la entidad.
func (d *TaxConfigDTO) ToTaxConfig() *entity.TaxConfig {
	rates := make(map[entity.CommercialCategory]decimal.Decimal, len(d.CommercialRates))
	for cat, rate := range d.CommercialRates {
		rates[entity.CommercialCategory(cat)] = rate
	}
	return &entity.TaxConfig{
		CommercialRates:        rates,
		CommercialBaseRate:     d.CommercialBaseRate,
		GarbageResidentialRate: d.GarbageResidentialRate,
		GarbageCommercialRate:  d.GarbageCommercialRate,
		PlateCost:              d.PlateCost,
		ConstructionRatePerM2:  d.ConstructionRatePerM2,
		LicenseFee:             d.LicenseFee,
		AdvertisementFee:       d.AdvertisementFee,
	}
}
