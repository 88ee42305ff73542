package dto

import (
	"github.com/shopspring/decimal"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"
)

// RecordPaymentRequest body para POST /api/pagos.
// AllowOffline habilita el fallback a la cola local si la persistencia falla;
// nunca se encola sin consentimiento explícito del operador.
type RecordPaymentRequest struct {
	TaxpayerID    string          `json:"taxpayer_id"`
	TaxType       string          `json:"tax_type"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Description   string          `json:"description,omitempty"`
	PlateNumber   string          `json:"plate_number,omitempty"`
	Month         int             `json:"month,omitempty"`
	Year          int             `json:"year,omitempty"`
	AllowOffline  bool            `json:"allow_offline"`
}

// TransactionResponse transacción en respuestas. Queued indica que el pago
// quedó en la cola offline en vez de persistido remotamente.
type TransactionResponse struct {
	ID            string          `json:"id"`
	TaxpayerID    string          `json:"taxpayer_id"`
	TaxType       string          `json:"tax_type"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	Time          string          `json:"time"`
	Description   string          `json:"description,omitempty"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	TellerName    string          `json:"teller_name"`
	PlateNumber   string          `json:"plate_number,omitempty"`
	Queued        bool            `json:"queued,omitempty"`
}

// SyncResultResponse resultado de POST /api/pagos/sincronizar.
type SyncResultResponse struct {
	Synced  int      `json:"synced"`
	Failed  int      `json:"failed"`
	Pending int      `json:"pending"`
	Errors  []string `json:"errors,omitempty"`
}

// FromTransaction arma la respuesta desde la entidad.
func FromTransaction(tx *entity.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:            tx.ID,
		TaxpayerID:    tx.TaxpayerID,
		TaxType:       string(tx.TaxType),
		Amount:        tx.Amount,
		Date:          tx.Date.Format("2006-01-02"),
		Time:          tx.Time,
		Description:   tx.Description,
		Status:        string(tx.Status),
		PaymentMethod: tx.PaymentMethod,
		TellerName:    tx.TellerName,
		PlateNumber:   tx.Metadata.PlateNumber,
	}
}
