package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/repository"
)

var _ repository.OperatorRepository = (*OperatorRepo)(nil)

// OperatorRepo implementación del puerto OperatorRepository sobre PostgreSQL.
type OperatorRepo struct {
	q Querier
}

// NewOperatorRepository construye el adaptador de operadores. Pasar pool o tx (Querier).
func NewOperatorRepository(q Querier) *OperatorRepo {
	return &OperatorRepo{q: q}
}

// Create persiste un operador nuevo.
func (r *OperatorRepo) Create(op *entity.Operator) error {
	query := `
		INSERT INTO operadores (id, name, email, password_hash, role, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		op.ID, op.Name, op.Email, op.PasswordHash, op.Role, op.Active, op.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert operador: %w", err)
	}
	return nil
}

// GetByID obtiene un operador por ID.
func (r *OperatorRepo) GetByID(id string) (*entity.Operator, error) {
	return r.getBy("id = $1", id)
}

// GetByEmail obtiene un operador por email.
func (r *OperatorRepo) GetByEmail(email string) (*entity.Operator, error) {
	return r.getBy("email = $1", email)
}

func (r *OperatorRepo) getBy(where, arg string) (*entity.Operator, error) {
	query := `
		SELECT id, name, email, password_hash, role, active, created_at
		FROM operadores WHERE ` + where
	var op entity.Operator
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&op.ID, &op.Name, &op.Email, &op.PasswordHash, &op.Role, &op.Active, &op.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get operador: %w", err)
	}
	return &op, nil
}
