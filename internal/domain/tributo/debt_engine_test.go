package tributo_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/tributo"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// refFecha: 10 de junio de 2025 (antes del día de gracia 15).
var refFecha = time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

func tarifasDePrueba() *entity.TaxConfig {
	return &entity.TaxConfig{
		CommercialRates: map[entity.CommercialCategory]decimal.Decimal{
			entity.CategoryClaseA: decimal.NewFromInt(150),
			entity.CategoryClaseB: decimal.NewFromInt(75),
			entity.CategoryClaseC: decimal.NewFromInt(40),
		},
		CommercialBaseRate:     decimal.NewFromInt(25),
		GarbageResidentialRate: decimal.NewFromInt(5),
		GarbageCommercialRate:  decimal.NewFromInt(15),
		PlateCost:              decimal.NewFromInt(35),
	}
}

func contribuyenteComercial() *entity.Taxpayer {
	return &entity.Taxpayer{
		ID:                    "tp-1",
		Type:                  entity.TaxpayerNatural,
		Status:                entity.TaxpayerActivo,
		Name:                  "Abarrotería El Progreso",
		HasCommercialActivity: true,
		CommercialCategory:    entity.CategoryClaseB,
		HasGarbageService:     true,
		Balance:               decimal.Zero,
	}
}

func pago(taxType entity.TaxType, status entity.TransactionStatus, fecha time.Time) *entity.Transaction {
	return &entity.Transaction{
		ID:         "tx-" + string(taxType),
		TaxpayerID: "tp-1",
		TaxType:    taxType,
		Amount:     decimal.NewFromInt(10),
		Date:       fecha,
		Status:     status,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario de referencia: comercial CLASE_B + basura residencial
// ──────────────────────────────────────────────────────────────────────────────

// Contribuyente NATURAL con comercio CLASE_B (75) y basura residencial (5),
// libro vacío → dos ítems con total 80.00.
func TestComputeDebts_ComercialConBasura_Total80(t *testing.T) {
	items := tributo.ComputeDebts(contribuyenteComercial(), nil, tarifasDePrueba(), refFecha)

	require.Len(t, items, 2, "deben emitirse comercio y basura")
	assert.Equal(t, entity.TaxComercio, items[0].TaxType)
	assert.Equal(t, entity.TaxBasura, items[1].TaxType)
	assert.True(t, tributo.TotalDebt(items).Equal(decimal.NewFromInt(80)),
		"total esperado 80.00 (75 comercio + 5 basura), obtenido %s", tributo.TotalDebt(items))
}

// Mismo contribuyente con un COMERCIO PAGADO este mes → solo queda basura (5.00).
func TestComputeDebts_ComercioPagadoEsteMes_SoloBasura(t *testing.T) {
	ledger := []*entity.Transaction{
		pago(entity.TaxComercio, entity.TransactionPagado, refFecha.AddDate(0, 0, -3)),
	}
	items := tributo.ComputeDebts(contribuyenteComercial(), ledger, tarifasDePrueba(), refFecha)

	require.Len(t, items, 1)
	assert.Equal(t, entity.TaxBasura, items[0].TaxType)
	assert.True(t, tributo.TotalDebt(items).Equal(decimal.NewFromInt(5)))
}

// P1: motor determinista — mismo input, mismo resultado en llamadas repetidas.
func TestComputeDebts_Determinista(t *testing.T) {
	tp := contribuyenteComercial()
	tp.Vehicles = []entity.VehicleInfo{{Plate: "AB1234"}}
	tarifas := tarifasDePrueba()

	a := tributo.ComputeDebts(tp, nil, tarifas, refFecha)
	b := tributo.ComputeDebts(tp, nil, tarifas, refFecha)

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
		assert.True(t, a[i].Amount.Equal(b[i].Amount))
	}
}

// P2: un pago PAGADO de BASURA dentro del mes suprime el ítem de basura;
// PENDIENTE o ANULADO no lo suprimen.
func TestComputeDebts_PagoSuprimeBasura(t *testing.T) {
	casos := []struct {
		nombre string
		status entity.TransactionStatus
		espera int // ítems esperados
	}{
		{"pagado suprime", entity.TransactionPagado, 1},
		{"pendiente no suprime", entity.TransactionPendiente, 2},
		{"anulado no suprime", entity.TransactionAnulado, 2},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			ledger := []*entity.Transaction{pago(entity.TaxBasura, c.status, refFecha)}
			items := tributo.ComputeDebts(contribuyenteComercial(), ledger, tarifasDePrueba(), refFecha)
			assert.Len(t, items, c.espera)
		})
	}
}

// Un pago del mes anterior no satisface la obligación del mes corriente.
func TestComputeDebts_PagoMesAnteriorNoSatisface(t *testing.T) {
	ledger := []*entity.Transaction{
		pago(entity.TaxBasura, entity.TransactionPagado, refFecha.AddDate(0, -1, 0)),
	}
	items := tributo.ComputeDebts(contribuyenteComercial(), ledger, tarifasDePrueba(), refFecha)
	assert.Len(t, items, 2, "el pago de mayo no cubre junio")
}

// ──────────────────────────────────────────────────────────────────────────────
// Categoría comercial y fallback a tarifa base
// ──────────────────────────────────────────────────────────────────────────────

// Negocio registrado sin categoría (NONE) tributa con la tarifa base, no cero.
func TestComputeDebts_CategoriaNone_TarifaBase(t *testing.T) {
	tp := contribuyenteComercial()
	tp.CommercialCategory = entity.CategoryNone
	tp.HasGarbageService = false

	items := tributo.ComputeDebts(tp, nil, tarifasDePrueba(), refFecha)

	require.Len(t, items, 1)
	assert.True(t, items[0].Amount.Equal(decimal.NewFromInt(25)),
		"NONE debe caer a la tarifa base de 25")
}

// Contribuyente SUSPENDIDO o BLOQUEADO no genera obligaciones periódicas.
func TestComputeDebts_InactivoNoGeneraPeriodicas(t *testing.T) {
	for _, status := range []entity.TaxpayerStatus{entity.TaxpayerSuspendido, entity.TaxpayerBloqueado} {
		tp := contribuyenteComercial()
		tp.Status = status
		tp.Vehicles = []entity.VehicleInfo{{Plate: "AB1234"}}
		items := tributo.ComputeDebts(tp, nil, tarifasDePrueba(), refFecha)
		assert.Empty(t, items, "status %s no debe generar deuda periódica", status)
	}
}

// MOROSO sigue generando obligaciones (variante del tablero de morosidad).
func TestComputeDebts_MorosoSigueGenerando(t *testing.T) {
	tp := contribuyenteComercial()
	tp.Status = entity.TaxpayerMoroso
	items := tributo.ComputeDebts(tp, nil, tarifasDePrueba(), refFecha)
	assert.Len(t, items, 2)
}

// Basura: JURIDICA paga tarifa comercial aunque no declare actividad comercial.
func TestComputeDebts_BasuraJuridicaTarifaComercial(t *testing.T) {
	tp := &entity.Taxpayer{
		ID:                "tp-2",
		Type:              entity.TaxpayerJuridica,
		Status:            entity.TaxpayerActivo,
		HasGarbageService: true,
		Balance:           decimal.Zero,
	}
	items := tributo.ComputeDebts(tp, nil, tarifasDePrueba(), refFecha)
	require.Len(t, items, 1)
	assert.True(t, items[0].Amount.Equal(decimal.NewFromInt(15)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Día de gracia
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeDebts_MorosidadTrasDiaDeGracia(t *testing.T) {
	antes := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	despues := time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC)

	itemsAntes := tributo.ComputeDebts(contribuyenteComercial(), nil, tarifasDePrueba(), antes)
	itemsDespues := tributo.ComputeDebts(contribuyenteComercial(), nil, tarifasDePrueba(), despues)

	require.NotEmpty(t, itemsAntes)
	assert.False(t, itemsAntes[0].Overdue, "el día 15 aún no es moroso")
	assert.True(t, itemsDespues[0].Overdue, "el día 16 ya es moroso")
}

// ──────────────────────────────────────────────────────────────────────────────
// P3: renovación de placa por último dígito
// ──────────────────────────────────────────────────────────────────────────────

func TestRenewalMonth_Tabla(t *testing.T) {
	casos := []struct {
		placa string
		mes   int
	}{
		{"AB1237", 7},
		{"AB1230", 10}, // 0 → octubre
		{"AB1231", 1},
		{"AB1239", 9},
		{"AB123X", 1}, // no numérico → enero
		{"", 1},
	}
	for _, c := range casos {
		assert.Equal(t, c.mes, tributo.RenewalMonth(c.placa), "placa %q", c.placa)
	}
}

// Placa terminada en 7: exigible desde julio, no antes.
func TestComputeDebts_PlacaVenceDesdeJulio(t *testing.T) {
	tp := contribuyenteComercial()
	tp.HasCommercialActivity = false
	tp.HasGarbageService = false
	tp.Vehicles = []entity.VehicleInfo{{Plate: "AB1237", Brand: "Toyota", Model: "Hilux"}}
	tarifas := tarifasDePrueba()

	junio := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)
	julio := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	agosto := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)

	assert.Empty(t, tributo.ComputeDebts(tp, nil, tarifas, junio), "antes del mes de renovación no hay ítem")

	itemsJulio := tributo.ComputeDebts(tp, nil, tarifas, julio)
	require.Len(t, itemsJulio, 1)
	assert.Equal(t, "AB1237", itemsJulio[0].Plate)
	assert.False(t, itemsJulio[0].Overdue, "en el mes de renovación aún no es moroso")

	itemsAgosto := tributo.ComputeDebts(tp, nil, tarifas, agosto)
	require.Len(t, itemsAgosto, 1)
	assert.True(t, itemsAgosto[0].Overdue, "pasado el mes de renovación es moroso")
}

// Un pago de placa en cualquier mes del año satisface el año completo.
func TestComputeDebts_PagoPlacaCubreElAno(t *testing.T) {
	tp := contribuyenteComercial()
	tp.HasCommercialActivity = false
	tp.HasGarbageService = false
	tp.Vehicles = []entity.VehicleInfo{{Plate: "AB1231"}}

	pagoPlaca := &entity.Transaction{
		ID:         "tx-placa",
		TaxpayerID: tp.ID,
		TaxType:    entity.TaxVehiculo,
		Amount:     decimal.NewFromInt(35),
		Date:       time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC),
		Status:     entity.TransactionPagado,
		Metadata:   entity.TransactionMetadata{PlateNumber: "AB1231"},
	}

	noviembre := time.Date(2025, time.November, 10, 0, 0, 0, 0, time.UTC)
	items := tributo.ComputeDebts(tp, []*entity.Transaction{pagoPlaca}, tarifasDePrueba(), noviembre)
	assert.Empty(t, items, "el pago de febrero cubre todo 2025")

	// El mismo pago no cubre el año siguiente.
	items2026 := tributo.ComputeDebts(tp, []*entity.Transaction{pagoPlaca},
		tarifasDePrueba(), time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	assert.Len(t, items2026, 1)
}

// Un pago de placa de otro vehículo no satisface esta placa.
func TestComputeDebts_PagoDeOtraPlacaNoCubre(t *testing.T) {
	tp := contribuyenteComercial()
	tp.HasCommercialActivity = false
	tp.HasGarbageService = false
	tp.Vehicles = []entity.VehicleInfo{{Plate: "AB1231"}, {Plate: "CD5672"}}

	pagoPlaca := &entity.Transaction{
		TaxType:  entity.TaxVehiculo,
		Date:     refFecha,
		Status:   entity.TransactionPagado,
		Metadata: entity.TransactionMetadata{PlateNumber: "AB1231"},
	}
	items := tributo.ComputeDebts(tp, []*entity.Transaction{pagoPlaca}, tarifasDePrueba(), refFecha)
	require.Len(t, items, 1)
	assert.Equal(t, "CD5672", items[0].Plate)
}

// ──────────────────────────────────────────────────────────────────────────────
// P4: saldo anterior
// ──────────────────────────────────────────────────────────────────────────────

// balance > 0 emite siempre exactamente un ítem por ese monto, moroso,
// independiente de los demás flags.
func TestComputeDebts_SaldoAnteriorSiempreEmite(t *testing.T) {
	tp := &entity.Taxpayer{
		ID:      "tp-3",
		Type:    entity.TaxpayerNatural,
		Status:  entity.TaxpayerSuspendido, // ni siquiera activo
		Balance: decimal.NewFromFloat(123.45),
	}
	items := tributo.ComputeDebts(tp, nil, tarifasDePrueba(), refFecha)

	require.Len(t, items, 1)
	assert.True(t, items[0].Amount.Equal(decimal.NewFromFloat(123.45)))
	assert.True(t, items[0].Overdue, "el saldo anterior siempre es moroso")
	assert.Equal(t, time.January, items[0].DueDate.Month())
	assert.Equal(t, 1, items[0].DueDate.Day())
}

func TestComputeDebts_SinObligaciones_ListaVacia(t *testing.T) {
	tp := &entity.Taxpayer{
		ID:      "tp-4",
		Type:    entity.TaxpayerNatural,
		Status:  entity.TaxpayerActivo,
		Balance: decimal.Zero,
	}
	items := tributo.ComputeDebts(tp, nil, tarifasDePrueba(), refFecha)
	assert.Empty(t, items)
	assert.False(t, tributo.IsDelinquent(items))
	assert.True(t, tributo.TotalDebt(items).IsZero())
}
