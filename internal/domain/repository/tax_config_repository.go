package repository

import "github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"

// TaxConfigRepository define el puerto de persistencia para la tabla de
// tarifas (registro único del municipio).
type TaxConfigRepository interface {
	// Get devuelve la tabla vigente, o nil si aún no fue sembrada.
	Get() (*entity.TaxConfig, error)
	// Save reemplaza la tabla completa (upsert del registro único).
	Save(cfg *entity.TaxConfig) error
}
