package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de impuesto municipal.
type TaxType string

const (
	TaxVehiculo     TaxType = "VEHICULO"
	TaxConstruccion TaxType = "CONSTRUCCION"
	TaxBasura       TaxType = "BASURA"
	TaxComercio     TaxType = "COMERCIO"
)

// ValidTaxType verifica que el tipo de impuesto sea uno de los conocidos.
func ValidTaxType(t TaxType) bool {
	switch t {
	case TaxVehiculo, TaxConstruccion, TaxBasura, TaxComercio:
		return true
	default:
		return false
	}
}

// Estados de una transacción del libro.
type TransactionStatus string

const (
	TransactionPagado    TransactionStatus = "PAGADO"
	TransactionPendiente TransactionStatus = "PENDIENTE"
	TransactionAnulado   TransactionStatus = "ANULADO"
)

// TransactionMetadata son los datos de cruce de período de la transacción.
// PlateNumber aplica a VEHICULO; Month/Year a los impuestos mensuales;
// OriginalFileName queda registrado en importaciones de recibos escaneados.
type TransactionMetadata struct {
	PlateNumber      string `json:"plate_number,omitempty"`
	Month            int    `json:"month,omitempty"`
	Year             int    `json:"year,omitempty"`
	OriginalFileName string `json:"original_file_name,omitempty"`
}

// Transaction es una entrada del libro de pagos. El libro es append-only:
// una anulación se registra como una transacción nueva con monto negado,
// nunca como mutación de la original.
type Transaction struct {
	ID            string
	TaxpayerID    string
	TaxType       TaxType
	Amount        decimal.Decimal // negativo en contra-asientos de anulación
	Date          time.Time
	Time          string // HH:MM, hora de caja
	Description   string
	Status        TransactionStatus
	PaymentMethod string
	TellerName    string
	Metadata      TransactionMetadata
	CreatedAt     time.Time
}

// IsVoid indica si la transacción es un contra-asiento de anulación.
func (t *Transaction) IsVoid() bool {
	return t.Status == TransactionAnulado && t.Amount.IsNegative()
}

// InMonth indica si la transacción cae en el mes/año de la fecha de referencia.
func (t *Transaction) InMonth(ref time.Time) bool {
	return t.Date.Year() == ref.Year() && t.Date.Month() == ref.Month()
}
