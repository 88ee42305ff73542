package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación del puerto TransactionRepository sobre
// PostgreSQL (usable con pool o tx). El libro es append-only: aquí no hay
// UPDATE ni DELETE, una anulación entra como fila nueva.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador del libro de transacciones. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

const transactionColumns = `id, taxpayer_id, tax_type, amount, date, time, description, status,
		payment_method, teller_name, metadata, created_at`

// Create persiste una transacción nueva del libro.
func (r *TransactionRepo) Create(tx *entity.Transaction) error {
	metadata, err := json.Marshal(tx.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	query := `
		INSERT INTO transacciones (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = r.q.Exec(context.Background(), query,
		tx.ID, tx.TaxpayerID, tx.TaxType, tx.Amount, tx.Date, tx.Time, tx.Description, tx.Status,
		tx.PaymentMethod, tx.TellerName, metadata, tx.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transacción: %w", err)
	}
	return nil
}

// GetByID obtiene una transacción por ID.
func (r *TransactionRepo) GetByID(id string) (*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transacciones WHERE id = $1`
	var tx entity.Transaction
	var metadata []byte
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&tx.ID, &tx.TaxpayerID, &tx.TaxType, &tx.Amount, &tx.Date, &tx.Time, &tx.Description, &tx.Status,
		&tx.PaymentMethod, &tx.TellerName, &metadata, &tx.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transacción: %w", err)
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &tx.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return &tx, nil
}

// ListByTaxpayer lista el historial completo de un contribuyente, más
// reciente primero.
func (r *TransactionRepo) ListByTaxpayer(taxpayerID string) ([]*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transacciones WHERE taxpayer_id = $1 ORDER BY date DESC, created_at DESC`
	rows, err := r.q.Query(context.Background(), query, taxpayerID)
	if err != nil {
		return nil, fmt.Errorf("list transacciones: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListByDate lista las transacciones de un día (cuadre de caja).
func (r *TransactionRepo) ListByDate(day time.Time) ([]*entity.Transaction, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	query := `SELECT ` + transactionColumns + ` FROM transacciones WHERE date >= $1 AND date < $2 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, start, end)
	if err != nil {
		return nil, fmt.Errorf("list transacciones by date: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *TransactionRepo) scanAll(rows pgx.Rows) ([]*entity.Transaction, error) {
	var list []*entity.Transaction
	for rows.Next() {
		var tx entity.Transaction
		var metadata []byte
		if err := rows.Scan(
			&tx.ID, &tx.TaxpayerID, &tx.TaxType, &tx.Amount, &tx.Date, &tx.Time, &tx.Description, &tx.Status,
			&tx.PaymentMethod, &tx.TellerName, &metadata, &tx.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transacción: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &tx.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal metadata: %w", err)
			}
		}
		list = append(list, &tx)
	}
	return list, rows.Err()
}
