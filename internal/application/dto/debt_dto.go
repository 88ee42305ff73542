package dto

import (
	"github.com/shopspring/decimal"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/tributo"
)

// DebtItemResponse obligación vigente derivada por el motor de deudas.
type DebtItemResponse struct {
	ID          string          `json:"id"`
	TaxType     string          `json:"tax_type"`
	Label       string          `json:"label"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	PlateNumber string          `json:"plate_number,omitempty"`
	DueDate     string          `json:"due_date"`
	Overdue     bool            `json:"overdue"`
}

// DebtSummaryResponse respuesta de GET /api/contribuyentes/:id/deudas.
type DebtSummaryResponse struct {
	TaxpayerID   string             `json:"taxpayer_id"`
	TaxpayerName string             `json:"taxpayer_name"`
	Items        []DebtItemResponse `json:"items"`
	Total        decimal.Decimal    `json:"total"`
	Delinquent   bool               `json:"delinquent"`
}

// MorosidadResponse agregado para el tablero de morosidad.
type MorosidadResponse struct {
	Delinquents      int                        `json:"delinquents"`
	TaxpayersChecked int                        `json:"taxpayers_checked"`
	TotalOutstanding decimal.Decimal            `json:"total_outstanding"`
	ByTaxType        map[string]decimal.Decimal `json:"by_tax_type"`
}

// FromDebtItems convierte los ítems del motor a DTOs.
func FromDebtItems(items []tributo.DebtItem) []DebtItemResponse {
	out := make([]DebtItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, DebtItemResponse{
			ID:          it.ID,
			TaxType:     string(it.TaxType),
			Label:       it.Label,
			Description: it.Description,
			Amount:      it.Amount,
			PlateNumber: it.Plate,
			DueDate:     it.DueDate.Format("2006-01-02"),
			Overdue:     it.Overdue,
		})
	}
	return out
}
