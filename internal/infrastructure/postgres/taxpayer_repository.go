package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/repository"
)

var _ repository.TaxpayerRepository = (*TaxpayerRepo)(nil)

// TaxpayerRepo implementación del puerto TaxpayerRepository sobre PostgreSQL
// (usable con pool o tx). Los vehículos se guardan como JSONB.
type TaxpayerRepo struct {
	q Querier
}

// NewTaxpayerRepository construye el adaptador de persistencia para contribuyentes. Pasar pool o tx (Querier).
func NewTaxpayerRepository(q Querier) *TaxpayerRepo {
	return &TaxpayerRepo{q: q}
}

const taxpayerColumns = `id, taxpayer_number, type, status, doc_id, name, address, phone, email,
		has_commercial_activity, commercial_category, commercial_name,
		has_construction, has_garbage_service, vehicles, balance, created_at, updated_at`

// Create persiste un contribuyente nuevo.
func (r *TaxpayerRepo) Create(tp *entity.Taxpayer) error {
	vehicles, err := json.Marshal(tp.Vehicles)
	if err != nil {
		return fmt.Errorf("marshal vehicles: %w", err)
	}
	query := `
		INSERT INTO contribuyentes (` + taxpayerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err = r.q.Exec(context.Background(), query,
		tp.ID, tp.TaxpayerNumber, tp.Type, tp.Status, tp.DocID, tp.Name, tp.Address, tp.Phone, tp.Email,
		tp.HasCommercialActivity, tp.CommercialCategory, tp.CommercialName,
		tp.HasConstruction, tp.HasGarbageService, vehicles, tp.Balance, tp.CreatedAt, tp.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert contribuyente: %w", err)
	}
	return nil
}

// GetByID obtiene un contribuyente por ID.
func (r *TaxpayerRepo) GetByID(id string) (*entity.Taxpayer, error) {
	query := `SELECT ` + taxpayerColumns + ` FROM contribuyentes WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get contribuyente")
}

// GetByDocID obtiene un contribuyente por cédula o RUC.
func (r *TaxpayerRepo) GetByDocID(docID string) (*entity.Taxpayer, error) {
	query := `SELECT ` + taxpayerColumns + ` FROM contribuyentes WHERE doc_id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, docID), "get contribuyente by doc_id")
}

// List lista el padrón ordenado por número de contribuyente.
func (r *TaxpayerRepo) List(limit, offset int) ([]*entity.Taxpayer, error) {
	query := `SELECT ` + taxpayerColumns + ` FROM contribuyentes ORDER BY taxpayer_number LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list contribuyentes: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// SearchByName busca por nombre con ILIKE. El patrón llega ya envuelto en %.
func (r *TaxpayerRepo) SearchByName(pattern string, limit int) ([]*entity.Taxpayer, error) {
	query := `SELECT ` + taxpayerColumns + ` FROM contribuyentes WHERE name ILIKE $1 ORDER BY name LIMIT $2`
	rows, err := r.q.Query(context.Background(), query, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search contribuyentes: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// Update reemplaza el registro completo. El número de contribuyente y
// created_at no se tocan.
func (r *TaxpayerRepo) Update(tp *entity.Taxpayer) error {
	vehicles, err := json.Marshal(tp.Vehicles)
	if err != nil {
		return fmt.Errorf("marshal vehicles: %w", err)
	}
	query := `
		UPDATE contribuyentes SET type = $2, status = $3, doc_id = $4, name = $5, address = $6,
			phone = $7, email = $8, has_commercial_activity = $9, commercial_category = $10,
			commercial_name = $11, has_construction = $12, has_garbage_service = $13,
			vehicles = $14, balance = $15, updated_at = $16
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query,
		tp.ID, tp.Type, tp.Status, tp.DocID, tp.Name, tp.Address,
		tp.Phone, tp.Email, tp.HasCommercialActivity, tp.CommercialCategory,
		tp.CommercialName, tp.HasConstruction, tp.HasGarbageService,
		vehicles, tp.Balance, tp.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update contribuyente: %w", err)
	}
	return nil
}

// NextNumber reserva el siguiente número de contribuyente de la secuencia.
func (r *TaxpayerRepo) NextNumber() (int, error) {
	var n int
	err := r.q.QueryRow(context.Background(), `SELECT nextval('contribuyente_numero_seq')`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next contribuyente number: %w", err)
	}
	return n, nil
}

func (r *TaxpayerRepo) scanOne(row pgx.Row, op string) (*entity.Taxpayer, error) {
	var tp entity.Taxpayer
	var vehicles []byte
	err := row.Scan(
		&tp.ID, &tp.TaxpayerNumber, &tp.Type, &tp.Status, &tp.DocID, &tp.Name, &tp.Address, &tp.Phone, &tp.Email,
		&tp.HasCommercialActivity, &tp.CommercialCategory, &tp.CommercialName,
		&tp.HasConstruction, &tp.HasGarbageService, &vehicles, &tp.Balance, &tp.CreatedAt, &tp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(vehicles) > 0 {
		if err := json.Unmarshal(vehicles, &tp.Vehicles); err != nil {
			return nil, fmt.Errorf("unmarshal vehicles: %w", err)
		}
	}
	return &tp, nil
}

func (r *TaxpayerRepo) scanAll(rows pgx.Rows) ([]*entity.Taxpayer, error) {
	var list []*entity.Taxpayer
	for rows.Next() {
		var tp entity.Taxpayer
		var vehicles []byte
		if err := rows.Scan(
			&tp.ID, &tp.TaxpayerNumber, &tp.Type, &tp.Status, &tp.DocID, &tp.Name, &tp.Address, &tp.Phone, &tp.Email,
			&tp.HasCommercialActivity, &tp.CommercialCategory, &tp.CommercialName,
			&tp.HasConstruction, &tp.HasGarbageService, &vehicles, &tp.Balance, &tp.CreatedAt, &tp.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan contribuyente: %w", err)
		}
		if len(vehicles) > 0 {
			if err := json.Unmarshal(vehicles, &tp.Vehicles); err != nil {
				return nil, fmt.Errorf("unmarshal vehicles: %w", err)
			}
		}
		list = append(list, &tp)
	}
	return list, rows.Err()
}
