package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de solicitud administrativa.
type RequestType string

const (
	RequestVoidTransaction    RequestType = "VOID_TRANSACTION"
	RequestPaymentArrangement RequestType = "PAYMENT_ARRANGEMENT"
	RequestUpdateTaxpayer     RequestType = "UPDATE_TAXPAYER"
)

// ValidRequestType verifica que el tipo de solicitud sea conocido.
func ValidRequestType(t RequestType) bool {
	switch t {
	case RequestVoidTransaction, RequestPaymentArrangement, RequestUpdateTaxpayer:
		return true
	default:
		return false
	}
}

// Estados de la solicitud. ARCHIVED no se escribe en el registro compartido:
// es una marca de visibilidad por operador (ver AdminRequestRepository.Archive)
// que la capa de presentación superpone al estado real.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
	RequestArchived RequestStatus = "ARCHIVED"
)

// AdminRequest es una solicitud de un cajero que requiere aprobación de un
// administrador: anular una transacción, negociar un arreglo de pago o
// corregir los datos de un contribuyente.
//
// Los campos de resolución (ResponseNote, ApprovedAmount, ApprovedTotalDebt,
// Installments) se fijan exactamente una vez, en la transición
// PENDING→{APPROVED,REJECTED}, y son inmutables después.
type AdminRequest struct {
	ID            string
	Type          RequestType
	Status        RequestStatus
	RequesterName string
	TaxpayerName  string
	Description   string

	// TransactionID es la transacción objetivo (solo VOID_TRANSACTION).
	TransactionID string
	// TotalDebt es la deuda propuesta a arreglar (solo PAYMENT_ARRANGEMENT).
	TotalDebt decimal.Decimal
	// Payload es el registro completo propuesto (solo UPDATE_TAXPAYER).
	Payload *Taxpayer

	ResponseNote      string
	ApprovedAmount    decimal.Decimal // abono inicial aprobado del arreglo
	ApprovedTotalDebt decimal.Decimal // copia de TotalDebt al aprobar, no recalculada
	Installments      int

	CreatedAt  time.Time
	ResolvedAt *time.Time
}

// CanResolve indica si un supervisor puede aprobar o rechazar la solicitud.
// Solo PENDING es accionable.
func (r *AdminRequest) CanResolve() bool {
	return r.Status == RequestPending
}

// CanArchive indica si la solicitud puede archivarse (descarte local).
// Una solicitud PENDING nunca se archiva.
func (r *AdminRequest) CanArchive() bool {
	return r.Status == RequestApproved || r.Status == RequestRejected
}
