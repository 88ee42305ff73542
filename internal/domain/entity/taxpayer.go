package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de contribuyente.
type TaxpayerType string

const (
	TaxpayerNatural  TaxpayerType = "NATURAL"
	TaxpayerJuridica TaxpayerType = "JURIDICA"
)

// Estados del contribuyente. Se mantienen separados de los estados de
// transacción aunque algunos valores se parezcan: son vocabularios distintos.
type TaxpayerStatus string

const (
	TaxpayerActivo     TaxpayerStatus = "ACTIVO"
	TaxpayerSuspendido TaxpayerStatus = "SUSPENDIDO"
	TaxpayerBloqueado  TaxpayerStatus = "BLOQUEADO"
	TaxpayerMoroso     TaxpayerStatus = "MOROSO"
)

// Categorías comerciales para el impuesto de comercio.
// CategoryNone aplica cuando el contribuyente declara actividad comercial
// pero aún no fue clasificado: tributa con la tarifa base.
type CommercialCategory string

const (
	CategoryNone   CommercialCategory = "NONE"
	CategoryClaseA CommercialCategory = "CLASE_A"
	CategoryClaseB CommercialCategory = "CLASE_B"
	CategoryClaseC CommercialCategory = "CLASE_C"
)

// VehicleInfo describe un vehículo del contribuyente. La placa es la llave
// de cruce contra el libro de transacciones para la renovación anual.
type VehicleInfo struct {
	Plate                string `json:"plate"`
	Brand                string `json:"brand"`
	Model                string `json:"model"`
	Year                 int    `json:"year"`
	Color                string `json:"color"`
	MotorSerial          string `json:"motor_serial"`
	ChassisSerial        string `json:"chassis_serial"`
	HasTransferDocuments bool   `json:"has_transfer_documents"`
}

// Taxpayer representa un contribuyente del municipio.
// Balance es deuda histórica asignada manualmente, separada de las
// obligaciones periódicas; nunca debe ser negativo.
type Taxpayer struct {
	ID                    string
	TaxpayerNumber        int // secuencia visible al público, inmutable una vez asignada
	Type                  TaxpayerType
	Status                TaxpayerStatus
	DocID                 string // cédula o RUC
	Name                  string
	Address               string
	Phone                 string
	Email                 string
	HasCommercialActivity bool
	CommercialCategory    CommercialCategory
	CommercialName        string
	HasConstruction       bool
	HasGarbageService     bool
	Vehicles              []VehicleInfo
	Balance               decimal.Decimal
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// IsActive indica si el contribuyente genera obligaciones periódicas.
// MOROSO sigue generando deuda; SUSPENDIDO y BLOQUEADO no.
func (t *Taxpayer) IsActive() bool {
	return t.Status == TaxpayerActivo || t.Status == TaxpayerMoroso
}

// IsCommercial indica si le aplica la tarifa comercial de basura.
func (t *Taxpayer) IsCommercial() bool {
	return t.HasCommercialActivity || t.Type == TaxpayerJuridica
}
