package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/repository"
)

var _ repository.AdminRequestRepository = (*AdminRequestRepo)(nil)

// AdminRequestRepo implementación del puerto AdminRequestRepository sobre
// PostgreSQL (usable con pool o tx). El payload de UPDATE_TAXPAYER se guarda
// como JSONB; el archivado vive en una tabla aparte por operador.
type AdminRequestRepo struct {
	q Querier
}

// NewAdminRequestRepository construye el adaptador de solicitudes. Pasar pool o tx (Querier).
func NewAdminRequestRepository(q Querier) *AdminRequestRepo {
	return &AdminRequestRepo{q: q}
}

// payloadRecord es la forma JSONB del registro propuesto de contribuyente.
// La entidad no lleva tags json, así que el mapeo de nombres se hace aquí,
// en la frontera de persistencia.
type payloadRecord struct {
	ID                    string               `json:"id"`
	TaxpayerNumber        int                  `json:"taxpayer_number"`
	Type                  string               `json:"type"`
	Status                string               `json:"status"`
	DocID                 string               `json:"doc_id"`
	Name                  string               `json:"name"`
	Address               string               `json:"address"`
	Phone                 string               `json:"phone"`
	Email                 string               `json:"email"`
	HasCommercialActivity bool                 `json:"has_commercial_activity"`
	CommercialCategory    string               `json:"commercial_category"`
	CommercialName        string               `json:"commercial_name"`
	HasConstruction       bool                 `json:"has_construction"`
	HasGarbageService     bool                 `json:"has_garbage_service"`
	Vehicles              []entity.VehicleInfo `json:"vehicles"`
	Balance               decimal.Decimal      `json:"balance"`
	CreatedAt             time.Time            `json:"created_at"`
	UpdatedAt             time.Time            `json:"updated_at"`
}

func toPayloadRecord(tp *entity.Taxpayer) *payloadRecord {
	if tp == nil {
		return nil
	}
	return &payloadRecord{
		ID:                    tp.ID,
		TaxpayerNumber:        tp.TaxpayerNumber,
		Type:                  string(tp.Type),
		Status:                string(tp.Status),
		DocID:                 tp.DocID,
		Name:                  tp.Name,
		Address:               tp.Address,
		Phone:                 tp.Phone,
		Email:                 tp.Email,
		HasCommercialActivity: tp.HasCommercialActivity,
		CommercialCategory:    string(tp.CommercialCategory),
		CommercialName:        tp.CommercialName,
		HasConstruction:       tp.HasConstruction,
		HasGarbageService:     tp.HasGarbageService,
		Vehicles:              tp.Vehicles,
		Balance:               tp.Balance,
		CreatedAt:             tp.CreatedAt,
		UpdatedAt:             tp.UpdatedAt,
	}
}

func (p *payloadRecord) toEntity() *entity.Taxpayer {
	if p == nil {
		return nil
	}
	return &entity.Taxpayer{
		ID:                    p.ID,
		TaxpayerNumber:        p.TaxpayerNumber,
		Type:                  entity.TaxpayerType(p.Type),
		Status:                entity.TaxpayerStatus(p.Status),
		DocID:                 p.DocID,
		Name:                  p.Name,
		Address:               p.Address,
		Phone:                 p.Phone,
		Email:                 p.Email,
		HasCommercialActivity: p.HasCommercialActivity,
		CommercialCategory:    entity.CommercialCategory(p.CommercialCategory),
		CommercialName:        p.CommercialName,
		HasConstruction:       p.HasConstruction,
		HasGarbageService:     p.HasGarbageService,
		Vehicles:              p.Vehicles,
		Balance:               p.Balance,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

const requestColumns = `id, type, status, requester_name, taxpayer_name, description,
		transaction_id, total_debt, payload, response_note, approved_amount,
		approved_total_debt, installments, created_at, resolved_at`

// Create persiste una solicitud nueva (siempre PENDING).
func (r *AdminRequestRepo) Create(req *entity.AdminRequest) error {
	payload, err := marshalPayload(req.Payload)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO solicitudes_admin (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err = r.q.Exec(context.Background(), query,
		req.ID, req.Type, req.Status, req.RequesterName, req.TaxpayerName, req.Description,
		req.TransactionID, req.TotalDebt, payload, req.ResponseNote, req.ApprovedAmount,
		req.ApprovedTotalDebt, req.Installments, req.CreatedAt, req.ResolvedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert solicitud: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID.
func (r *AdminRequestRepo) GetByID(id string) (*entity.AdminRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM solicitudes_admin WHERE id = $1`
	req, err := scanRequest(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get solicitud: %w", err)
	}
	return req, nil
}

// ListPending lista las solicitudes PENDING, más antiguas primero.
func (r *AdminRequestRepo) ListPending() ([]*entity.AdminRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM solicitudes_admin WHERE status = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, entity.RequestPending)
	if err != nil {
		return nil, fmt.Errorf("list solicitudes pendientes: %w", err)
	}
	defer rows.Close()
	return scanRequests(rows)
}

// ListResolved lista APPROVED y REJECTED, más recientes primero.
func (r *AdminRequestRepo) ListResolved() ([]*entity.AdminRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM solicitudes_admin
		WHERE status IN ($1, $2) ORDER BY resolved_at DESC NULLS LAST`
	rows, err := r.q.Query(context.Background(), query, entity.RequestApproved, entity.RequestRejected)
	if err != nil {
		return nil, fmt.Errorf("list solicitudes resueltas: %w", err)
	}
	defer rows.Close()
	return scanRequests(rows)
}

// UpdateResolution escribe la transición PENDING→{APPROVED,REJECTED}. La
// cláusula WHERE status = PENDING garantiza que dos resoluciones
// concurrentes no pisen la primera.
func (r *AdminRequestRepo) UpdateResolution(req *entity.AdminRequest) error {
	query := `
		UPDATE solicitudes_admin
		SET status = $2, response_note = $3, approved_amount = $4,
			approved_total_debt = $5, installments = $6, resolved_at = $7
		WHERE id = $1 AND status = $8`
	cmd, err := r.q.Exec(context.Background(), query,
		req.ID, req.Status, req.ResponseNote, req.ApprovedAmount,
		req.ApprovedTotalDebt, req.Installments, req.ResolvedAt,
		entity.RequestPending,
	)
	if err != nil {
		return fmt.Errorf("update resolución: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrRequestNotPending
	}
	return nil
}

// Archive marca la solicitud como archivada para un operador. Idempotente:
// el ON CONFLICT absorbe el doble clic.
func (r *AdminRequestRepo) Archive(requestID, operatorID string) error {
	query := `
		INSERT INTO solicitudes_archivadas (request_id, operator_id, archived_at)
		VALUES ($1, $2, now())
		ON CONFLICT (request_id, operator_id) DO NOTHING`
	_, err := r.q.Exec(context.Background(), query, requestID, operatorID)
	if err != nil {
		return fmt.Errorf("archive solicitud: %w", err)
	}
	return nil
}

// ArchivedIDs devuelve las solicitudes archivadas por el operador.
func (r *AdminRequestRepo) ArchivedIDs(operatorID string) ([]string, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT request_id FROM solicitudes_archivadas WHERE operator_id = $1`, operatorID)
	if err != nil {
		return nil, fmt.Errorf("list archivadas: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan archivada: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func marshalPayload(tp *entity.Taxpayer) ([]byte, error) {
	if tp == nil {
		return nil, nil
	}
	b, err := json.Marshal(toPayloadRecord(tp))
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return b, nil
}

func scanRequest(row pgx.Row) (*entity.AdminRequest, error) {
	var req entity.AdminRequest
	var payload []byte
	err := row.Scan(
		&req.ID, &req.Type, &req.Status, &req.RequesterName, &req.TaxpayerName, &req.Description,
		&req.TransactionID, &req.TotalDebt, &payload, &req.ResponseNote, &req.ApprovedAmount,
		&req.ApprovedTotalDebt, &req.Installments, &req.CreatedAt, &req.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(payload) > 0 {
		var rec payloadRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal payload: %w", err)
		}
		req.Payload = rec.toEntity()
	}
	return &req, nil
}

func scanRequests(rows pgx.Rows) ([]*entity.AdminRequest, error) {
	var list []*entity.AdminRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan solicitud: %w", err)
		}
		list = append(list, req)
	}
	return list, rows.Err()
}
