package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxConfig es la tabla de tarifas del municipio. La modifica solo un
// administrador; la leen el motor de deudas y el registro de pagos.
type TaxConfig struct {
	CommercialRates        map[CommercialCategory]decimal.Decimal
	CommercialBaseRate     decimal.Decimal // fallback para negocios sin categoría
	GarbageResidentialRate decimal.Decimal
	GarbageCommercialRate  decimal.Decimal
	PlateCost              decimal.Decimal // renovación anual de placa
	ConstructionRatePerM2  decimal.Decimal
	LicenseFee             decimal.Decimal
	AdvertisementFee       decimal.Decimal
	UpdatedAt              time.Time
}

// CommercialRateFor devuelve la tarifa comercial de la categoría, o la tarifa
// base si la categoría es NONE o no está en la tabla. Un negocio registrado
// pero sin clasificar sigue debiendo el impuesto base.
func (c *TaxConfig) CommercialRateFor(cat CommercialCategory) decimal.Decimal {
	if cat != CategoryNone {
		if rate, ok := c.CommercialRates[cat]; ok {
			return rate
		}
	}
	return c.CommercialBaseRate
}

// DefaultTaxConfig devuelve la tabla de tarifas vigente del municipio,
// usada por el comando de seed y como fallback si la tabla aún no existe.
func DefaultTaxConfig() *TaxConfig {
	return &TaxConfig{
		CommercialRates: map[CommercialCategory]decimal.Decimal{
			CategoryClaseA: decimal.NewFromInt(150),
			CategoryClaseB: decimal.NewFromInt(75),
			CategoryClaseC: decimal.NewFromInt(40),
		},
		CommercialBaseRate:     decimal.NewFromInt(25),
		GarbageResidentialRate: decimal.NewFromInt(5),
		GarbageCommercialRate:  decimal.NewFromInt(15),
		PlateCost:              decimal.NewFromInt(35),
		ConstructionRatePerM2:  decimal.NewFromInt(2),
		LicenseFee:             decimal.NewFromInt(50),
		AdvertisementFee:       decimal.NewFromInt(20),
		UpdatedAt:              time.Now(),
	}
}
