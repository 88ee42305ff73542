package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/tramites"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/repository"
)

var _ tramites.VoidTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunVoid inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Se usa al aprobar anulaciones: el contra-asiento del
// libro y la resolución de la solicitud se escriben atómicamente.
func (r *TxRunner) RunVoid(fn func(
	txRepo repository.TransactionRepository,
	reqRepo repository.AdminRequestRepository,
) error) error {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	txRepo := NewTransactionRepository(tx)
	reqRepo := NewAdminRequestRepository(tx)

	if err := fn(txRepo, reqRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
