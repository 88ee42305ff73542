package tramites

import "github.com/shopspring/decimal"

// Resolution es la unión etiquetada de resoluciones de aprobación. Cada tipo
// de solicitud acepta exactamente una variante; el resolver de Approve hace
// el match exhaustivo, de modo que agregar un tipo de solicitud nuevo es un
// cambio en un solo lugar verificado en compilación.
type Resolution interface {
	isResolution()
}

// VoidResolution aprueba una anulación. No lleva input extra: el
// contra-asiento se construye desde la transacción original.
type VoidResolution struct{}

// ArrangementResolution aprueba un arreglo de pago.
type ArrangementResolution struct {
	InitialPayment decimal.Decimal // abono inicial, ≥ 0 (0 por defecto)
	Installments   int             // cuotas, 12 por defecto
}

// TaxpayerEditResolution aprueba una corrección de datos. No lleva input
// extra: el registro propuesto viaja en la solicitud.
type TaxpayerEditResolution struct{}

func (VoidResolution) isResolution()        {}
func (ArrangementResolution) isResolution() {}
func (TaxpayerEditResolution) isResolution() {}
