package repository

import "github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"

// OperatorRepository define el puerto de persistencia para Operator.
type OperatorRepository interface {
	Create(op *entity.Operator) error
	GetByID(id string) (*entity.Operator, error)
	GetByEmail(email string) (*entity.Operator, error)
}
