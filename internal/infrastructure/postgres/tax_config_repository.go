package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/repository"
)

var _ repository.TaxConfigRepository = (*TaxConfigRepo)(nil)

// TaxConfigRepo implementación del puerto TaxConfigRepository sobre
// PostgreSQL. La tabla de tarifas es un registro único (id fijo en 1).
type TaxConfigRepo struct {
	q Querier
}

// NewTaxConfigRepository construye el adaptador de tarifas. Pasar pool o tx (Querier).
func NewTaxConfigRepository(q Querier) *TaxConfigRepo {
	return &TaxConfigRepo{q: q}
}

// Get devuelve la tabla vigente, o nil si aún no fue sembrada.
func (r *TaxConfigRepo) Get() (*entity.TaxConfig, error) {
	query := `
		SELECT commercial_rates, commercial_base_rate, garbage_residential_rate,
			garbage_commercial_rate, plate_cost, construction_rate_per_m2,
			license_fee, advertisement_fee, updated_at
		FROM tarifas WHERE id = 1`
	var cfg entity.TaxConfig
	var rates []byte
	err := r.q.QueryRow(context.Background(), query).Scan(
		&rates, &cfg.CommercialBaseRate, &cfg.GarbageResidentialRate,
		&cfg.GarbageCommercialRate, &cfg.PlateCost, &cfg.ConstructionRatePerM2,
		&cfg.LicenseFee, &cfg.AdvertisementFee, &cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tarifas: %w", err)
	}
	if len(rates) > 0 {
		byCategory := map[string]decimal.Decimal{}
		if err := json.Unmarshal(rates, &byCategory); err != nil {
			return nil, fmt.Errorf("unmarshal tarifas comerciales: %w", err)
		}
		cfg.CommercialRates = make(map[entity.CommercialCategory]decimal.Decimal, len(byCategory))
		for cat, rate := range byCategory {
			cfg.CommercialRates[entity.CommercialCategory(cat)] = rate
		}
	}
	return &cfg, nil
}

// Save reemplaza la tabla completa (upsert del registro único).
func (r *TaxConfigRepo) Save(cfg *entity.TaxConfig) error {
	byCategory := make(map[string]decimal.Decimal, len(cfg.CommercialRates))
	for cat, rate := range cfg.CommercialRates {
		byCategory[string(cat)] = rate
	}
	rates, err := json.Marshal(byCategory)
	if err != nil {
		return fmt.Errorf("marshal tarifas comerciales: %w", err)
	}
	query := `
		INSERT INTO tarifas (id, commercial_rates, commercial_base_rate, garbage_residential_rate,
			garbage_commercial_rate, plate_cost, construction_rate_per_m2,
			license_fee, advertisement_fee, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			commercial_rates = EXCLUDED.commercial_rates,
			commercial_base_rate = EXCLUDED.commercial_base_rate,
			garbage_residential_rate = EXCLUDED.garbage_residential_rate,
			garbage_commercial_rate = EXCLUDED.garbage_commercial_rate,
			plate_cost = EXCLUDED.plate_cost,
			construction_rate_per_m2 = EXCLUDED.construction_rate_per_m2,
			license_fee = EXCLUDED.license_fee,
			advertisement_fee = EXCLUDED.advertisement_fee,
			updated_at = EXCLUDED.updated_at`
	_, err = r.q.Exec(context.Background(), query,
		rates, cfg.CommercialBaseRate, cfg.GarbageResidentialRate,
		cfg.GarbageCommercialRate, cfg.PlateCost, cfg.ConstructionRatePerM2,
		cfg.LicenseFee, cfg.AdvertisementFee, cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save tarifas: %w", err)
	}
	return nil
}
