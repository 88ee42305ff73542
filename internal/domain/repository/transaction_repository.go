package repository

import (
	"time"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"
)

// TransactionRepository define el puerto de persistencia para el libro de
// transacciones. El libro es append-only: no hay Update ni Delete — una
// anulación es un Create de contra-asiento.
type TransactionRepository interface {
	Create(tx *entity.Transaction) error
	GetByID(id string) (*entity.Transaction, error)
	ListByTaxpayer(taxpayerID string) ([]*entity.Transaction, error)
	// ListByDate lista las transacciones de un día (cuadre de caja).
	ListByDate(day time.Time) ([]*entity.Transaction, error)
}
