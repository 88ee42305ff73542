// Package tributo implementa el motor de deudas: dado un contribuyente, su
// libro de transacciones y la tabla de tarifas, deriva las obligaciones
// vigentes del período. Es lógica pura de dominio — sin I/O y determinista:
// el mismo input produce siempre el mismo resultado, y las superficies que lo
// consumen recalculan en cada evento en vez de parchar resultados previos.
package tributo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"
)

// GraceDay es el día del mes a partir del cual una obligación mensual
// impaga pasa a morosa.
const GraceDay = 15

// DebtItem es una obligación vigente derivada, no un registro del libro.
type DebtItem struct {
	ID          string
	TaxType     entity.TaxType
	Label       string
	Description string
	Amount      decimal.Decimal
	Plate       string // solo en ítems de VEHICULO
	DueDate     time.Time
	Overdue     bool
}

// ComputeDebts deriva las obligaciones vigentes del contribuyente a la fecha
// de referencia. El orden de emisión es: saldo anterior, comercio, basura,
// vehículos (en el orden en que el contribuyente los registra).
func ComputeDebts(tp *entity.Taxpayer, ledger []*entity.Transaction, rates *entity.TaxConfig, ref time.Time) []DebtItem {
	var items []DebtItem

	// Saldo anterior: deuda histórica asignada manualmente. Siempre morosa.
	// La fecha de vencimiento (1 de enero del año de referencia) es solo
	// informativa, no un plazo real.
	if tp.Balance.IsPositive() {
		items = append(items, DebtItem{
			ID:          "saldo-" + tp.ID,
			TaxType:     entity.TaxComercio,
			Label:       "Saldo anterior",
			Description: "Deuda acumulada de períodos anteriores",
			Amount:      tp.Balance,
			DueDate:     time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, ref.Location()),
			Overdue:     true,
		})
	}

	if tp.HasCommercialActivity && tp.IsActive() && !paidThisMonth(ledger, entity.TaxComercio, ref) {
		items = append(items, DebtItem{
			ID:          fmt.Sprintf("comercio-%s-%d-%02d", tp.ID, ref.Year(), int(ref.Month())),
			TaxType:     entity.TaxComercio,
			Label:       "Impuesto de comercio",
			Description: fmt.Sprintf("Impuesto comercial %s de %s %d", tp.CommercialCategory, monthName(ref.Month()), ref.Year()),
			Amount:      rates.CommercialRateFor(tp.CommercialCategory),
			DueDate:     time.Date(ref.Year(), ref.Month(), GraceDay, 0, 0, 0, 0, ref.Location()),
			Overdue:     ref.Day() > GraceDay,
		})
	}

	if tp.HasGarbageService && tp.IsActive() && !paidThisMonth(ledger, entity.TaxBasura, ref) {
		amount := rates.GarbageResidentialRate
		if tp.IsCommercial() {
			amount = rates.GarbageCommercialRate
		}
		items = append(items, DebtItem{
			ID:          fmt.Sprintf("basura-%s-%d-%02d", tp.ID, ref.Year(), int(ref.Month())),
			TaxType:     entity.TaxBasura,
			Label:       "Tasa de aseo",
			Description: fmt.Sprintf("Recolección de basura %s %d", monthName(ref.Month()), ref.Year()),
			Amount:      amount,
			DueDate:     time.Date(ref.Year(), ref.Month(), GraceDay, 0, 0, 0, 0, ref.Location()),
			Overdue:     ref.Day() > GraceDay,
		})
	}

	if tp.IsActive() {
		for _, v := range tp.Vehicles {
			renewal := RenewalMonth(v.Plate)
			if int(ref.Month()) < renewal {
				continue
			}
			if platePaidThisYear(ledger, v.Plate, ref) {
				continue
			}
			items = append(items, DebtItem{
				ID:          fmt.Sprintf("placa-%s-%s-%d", tp.ID, v.Plate, ref.Year()),
				TaxType:     entity.TaxVehiculo,
				Label:       "Renovación de placa " + v.Plate,
				Description: fmt.Sprintf("Placa %s (%s %s) vence en %s", v.Plate, v.Brand, v.Model, monthName(time.Month(renewal))),
				Amount:      rates.PlateCost,
				Plate:       v.Plate,
				DueDate:     time.Date(ref.Year(), time.Month(renewal), 1, 0, 0, 0, 0, ref.Location()),
				Overdue:     int(ref.Month()) > renewal,
			})
		}
	}

	return items
}

// RenewalMonth deriva el mes de renovación de placa del último carácter:
// dígito 0 → octubre (10), dígitos 1–9 → ese mes. Un último carácter no
// numérico cae a enero (1), nunca a "sin renovación".
func RenewalMonth(plate string) int {
	if plate == "" {
		return 1
	}
	last := plate[len(plate)-1]
	if last < '0' || last > '9' {
		return 1
	}
	if last == '0' {
		return 10
	}
	return int(last - '0')
}

// TotalDebt suma los montos de los ítems derivados.
func TotalDebt(items []DebtItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}

// IsDelinquent indica membresía en el tablero de morosidad: cualquier
// contribuyente con al menos una obligación vigente.
func IsDelinquent(items []DebtItem) bool {
	return len(items) > 0
}

// paidThisMonth busca una transacción PAGADO del impuesto dado dentro del
// mes/año de referencia. PENDIENTE o ANULADO no satisfacen la obligación.
func paidThisMonth(ledger []*entity.Transaction, taxType entity.TaxType, ref time.Time) bool {
	for _, tx := range ledger {
		if tx.TaxType == taxType && tx.Status == entity.TransactionPagado && tx.InMonth(ref) {
			return true
		}
	}
	return false
}

// platePaidThisYear busca una transacción PAGADO de VEHICULO para la placa
// dentro del año de referencia: un solo pago satisface el año completo,
// sin importar el mes. Se exige PAGADO igual que en los impuestos mensuales.
func platePaidThisYear(ledger []*entity.Transaction, plate string, ref time.Time) bool {
	for _, tx := range ledger {
		if tx.TaxType == entity.TaxVehiculo &&
			tx.Status == entity.TransactionPagado &&
			tx.Metadata.PlateNumber == plate &&
			tx.Date.Year() == ref.Year() {
			return true
		}
	}
	return false
}

var monthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

func monthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}
