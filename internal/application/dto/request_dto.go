package dto

import (
	"github.com/shopspring/decimal"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"
)

// CreateRequestRequest body para POST /api/solicitudes. Los campos extra
// varían por tipo: transaction_id (VOID_TRANSACTION), total_debt
// (PAYMENT_ARRANGEMENT), payload (UPDATE_TAXPAYER).
type CreateRequestRequest struct {
	Type         string           `json:"type"`
	TaxpayerName string           `json:"taxpayer_name"`
	Description  string           `json:"description,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`
	TotalDebt    decimal.Decimal  `json:"total_debt,omitempty"`
	PayloadID    string           `json:"payload_id,omitempty"`
	Payload      *TaxpayerRequest `json:"payload,omitempty"`
}

// ApproveRequestRequest body para POST /api/solicitudes/:id/aprobar.
// Solo se lee en arreglos de pago; los otros tipos no llevan input extra.
type ApproveRequestRequest struct {
	InitialPayment decimal.Decimal `json:"initial_payment"`
	Installments   int             `json:"installments"`
}

// RejectRequestRequest body para POST /api/solicitudes/:id/rechazar.
type RejectRequestRequest struct {
	Reason string `json:"reason"`
}

// RequestResponse solicitud administrativa en respuestas. Warning llega
// poblado cuando la aprobación completó con una anomalía referencial
// (p.ej. transacción a anular inexistente).
type RequestResponse struct {
	ID                string          `json:"id"`
	Type              string          `json:"type"`
	Status            string          `json:"status"`
	RequesterName     string          `json:"requester_name"`
	TaxpayerName      string          `json:"taxpayer_name"`
	Description       string          `json:"description,omitempty"`
	TransactionID     string          `json:"transaction_id,omitempty"`
	TotalDebt         decimal.Decimal `json:"total_debt"`
	ResponseNote      string          `json:"response_note,omitempty"`
	ApprovedAmount    decimal.Decimal `json:"approved_amount"`
	ApprovedTotalDebt decimal.Decimal `json:"approved_total_debt"`
	Installments      int             `json:"installments,omitempty"`
	CreatedAt         string          `json:"created_at"`
	ResolvedAt        string          `json:"resolved_at,omitempty"`
	Warning           string          `json:"warning,omitempty"`
}

// FromRequest arma la respuesta desde la entidad.
func FromRequest(req *entity.AdminRequest) *RequestResponse {
	out := &RequestResponse{
		ID:                req.ID,
		Type:              string(req.Type),
		Status:            string(req.Status),
		RequesterName:     req.RequesterName,
		TaxpayerName:      req.TaxpayerName,
		Description:       req.Description,
		TransactionID:     req.TransactionID,
		TotalDebt:         req.TotalDebt,
		ResponseNote:      req.ResponseNote,
		ApprovedAmount:    req.ApprovedAmount,
		ApprovedTotalDebt: req.ApprovedTotalDebt,
		Installments:      req.Installments,
		CreatedAt:         req.CreatedAt.Format("2006-01-02 15:04"),
	}
	if req.ResolvedAt != nil {
		out.ResolvedAt = req.ResolvedAt.Format("2006-01-02 15:04")
	}
	return out
}
