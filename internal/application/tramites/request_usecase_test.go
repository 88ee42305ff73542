package tramites_test

import (
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/dto"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/tramites"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/repository"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/infrastructure/realtime"
)

// ──────────────────────────────────────────────────────────────────────────────
// Mocks en memoria de los puertos
// ──────────────────────────────────────────────────────────────────────────────

type requestRepoMock struct {
	byID     map[string]*entity.AdminRequest
	archived map[string]map[string]bool // operatorID → requestID
}

func newRequestRepoMock() *requestRepoMock {
	return &requestRepoMock{byID: map[string]*entity.AdminRequest{}, archived: map[string]map[string]bool{}}
}

func (m *requestRepoMock) Create(req *entity.AdminRequest) error {
	cp := *req
	m.byID[req.ID] = &cp
	return nil
}

func (m *requestRepoMock) GetByID(id string) (*entity.AdminRequest, error) {
	req, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

func (m *requestRepoMock) list(filter func(*entity.AdminRequest) bool) []*entity.AdminRequest {
	var out []*entity.AdminRequest
	for _, req := range m.byID {
		if filter(req) {
			cp := *req
			out = append(out, &cp)
		}
	}
	return out
}

func (m *requestRepoMock) ListPending() ([]*entity.AdminRequest, error) {
	out := m.list(func(r *entity.AdminRequest) bool { return r.Status == entity.RequestPending })
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *requestRepoMock) ListResolved() ([]*entity.AdminRequest, error) {
	out := m.list(func(r *entity.AdminRequest) bool { return r.Status != entity.RequestPending })
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *requestRepoMock) UpdateResolution(req *entity.AdminRequest) error {
	cp := *req
	m.byID[req.ID] = &cp
	return nil
}

func (m *requestRepoMock) Archive(requestID, operatorID string) error {
	if m.archived[operatorID] == nil {
		m.archived[operatorID] = map[string]bool{}
	}
	m.archived[operatorID][requestID] = true
	return nil
}

func (m *requestRepoMock) ArchivedIDs(operatorID string) ([]string, error) {
	var out []string
	for id := range m.archived[operatorID] {
		out = append(out, id)
	}
	return out, nil
}

type txRepoMock struct {
	byID    map[string]*entity.Transaction
	created []*entity.Transaction
}

func newTxRepoMock() *txRepoMock { return &txRepoMock{byID: map[string]*entity.Transaction{}} }

func (m *txRepoMock) Create(tx *entity.Transaction) error {
	cp := *tx
	m.byID[tx.ID] = &cp
	m.created = append(m.created, &cp)
	return nil
}

func (m *txRepoMock) GetByID(id string) (*entity.Transaction, error) {
	tx, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *tx
	return &cp, nil
}

func (m *txRepoMock) ListByTaxpayer(string) ([]*entity.Transaction, error) { return nil, nil }
func (m *txRepoMock) ListByDate(time.Time) ([]*entity.Transaction, error)  { return nil, nil }

type taxpayerRepoMock struct {
	byID map[string]*entity.Taxpayer
}

func newTaxpayerRepoMock() *taxpayerRepoMock { return &taxpayerRepoMock{byID: map[string]*entity.Taxpayer{}} }

func (m *taxpayerRepoMock) Create(tp *entity.Taxpayer) error { m.byID[tp.ID] = tp; return nil }
func (m *taxpayerRepoMock) GetByID(id string) (*entity.Taxpayer, error) {
	tp, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *tp
	return &cp, nil
}
func (m *taxpayerRepoMock) GetByDocID(string) (*entity.Taxpayer, error) { return nil, nil }
func (m *taxpayerRepoMock) List(int, int) ([]*entity.Taxpayer, error) {
	var out []*entity.Taxpayer
	for _, tp := range m.byID {
		out = append(out, tp)
	}
	return out, nil
}
func (m *taxpayerRepoMock) SearchByName(string, int) ([]*entity.Taxpayer, error) {
	return m.List(0, 0)
}
func (m *taxpayerRepoMock) Update(tp *entity.Taxpayer) error {
	cp := *tp
	m.byID[tp.ID] = &cp
	return nil
}
func (m *taxpayerRepoMock) NextNumber() (int, error) { return len(m.byID) + 1, nil }

// runnerMock ejecuta el callback directamente contra los mocks (sin tx real).
type runnerMock struct {
	txs  *txRepoMock
	reqs *requestRepoMock
}

func (r *runnerMock) RunVoid(fn func(repository.TransactionRepository, repository.AdminRequestRepository) error) error {
	return fn(r.txs, r.reqs)
}

type busMock struct{ events []realtime.Event }

func (b *busMock) Publish(evt realtime.Event) { b.events = append(b.events, evt) }

type fixture struct {
	uc   *tramites.RequestUseCase
	reqs *requestRepoMock
	txs  *txRepoMock
	tps  *taxpayerRepoMock
	bus  *busMock
}

func newFixture() *fixture {
	reqs := newRequestRepoMock()
	txs := newTxRepoMock()
	tps := newTaxpayerRepoMock()
	bus := &busMock{}
	uc := tramites.NewRequestUseCase(reqs, txs, tps, &runnerMock{txs: txs, reqs: reqs}, bus)
	return &fixture{uc: uc, reqs: reqs, txs: txs, tps: tps, bus: bus}
}

func crearAnulacion(t *testing.T, f *fixture, txID string) *dto.RequestResponse {
	t.Helper()
	resp, err := f.uc.Create(dto.CreateRequestRequest{
		Type:          string(entity.RequestVoidTransaction),
		TaxpayerName:  "José Pérez",
		TransactionID: txID,
	}, "Caja 1")
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación y validación por tipo
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_AnulacionSinTransactionID_Invalida(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Create(dto.CreateRequestRequest{
		Type:         string(entity.RequestVoidTransaction),
		TaxpayerName: "José Pérez",
	}, "Caja 1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_ArregloSinDeuda_Invalido(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Create(dto.CreateRequestRequest{
		Type:         string(entity.RequestPaymentArrangement),
		TaxpayerName: "José Pérez",
	}, "Caja 1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_TipoDesconocido_Invalido(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Create(dto.CreateRequestRequest{Type: "OTRA_COSA", TaxpayerName: "X"}, "Caja 1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_PublicaEventoInsert(t *testing.T) {
	f := newFixture()
	resp := crearAnulacion(t, f, "tx-1")

	require.Len(t, f.bus.events, 1)
	assert.Equal(t, realtime.EntityRequest, f.bus.events[0].Entity)
	assert.Equal(t, realtime.ChangeInsert, f.bus.events[0].Type)
	assert.Equal(t, resp.ID, f.bus.events[0].ID)
	assert.Equal(t, string(entity.RequestPending), resp.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// P5: la anulación es aditiva, nunca destructiva
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_Anulacion_CreaContraAsiento(t *testing.T) {
	f := newFixture()
	original := &entity.Transaction{
		ID:         "tx-25",
		TaxpayerID: "tp-1",
		TaxType:    entity.TaxBasura,
		Amount:     decimal.NewFromFloat(25.00),
		Date:       time.Now().AddDate(0, 0, -2),
		Status:     entity.TransactionPagado,
		TellerName: "Caja 1",
	}
	require.NoError(t, f.txs.Create(original))
	resp := crearAnulacion(t, f, "tx-25")

	approved, err := f.uc.Approve(resp.ID, tramites.VoidResolution{})
	require.NoError(t, err)
	assert.Equal(t, string(entity.RequestApproved), approved.Status)
	assert.Empty(t, approved.Warning)

	// Se agregó exactamente una transacción nueva con monto negado y ANULADO.
	require.Len(t, f.txs.created, 2) // la original del setup + el contra-asiento
	counter := f.txs.created[1]
	assert.True(t, counter.Amount.Equal(decimal.NewFromFloat(-25.00)))
	assert.Equal(t, entity.TransactionAnulado, counter.Status)
	assert.Equal(t, "ADMIN", counter.TellerName)
	assert.Contains(t, counter.Description, "tx-25")
	assert.Equal(t, original.TaxpayerID, counter.TaxpayerID)
	assert.Equal(t, original.TaxType, counter.TaxType)

	// La original quedó intacta.
	after, err := f.txs.GetByID("tx-25")
	require.NoError(t, err)
	assert.True(t, after.Amount.Equal(decimal.NewFromFloat(25.00)))
	assert.Equal(t, entity.TransactionPagado, after.Status)
}

// Transacción objetivo inexistente: se aprueba igual con advertencia,
// sin contra-asiento (aprobar optimista, señalar la anomalía).
func TestApprove_AnulacionSinTransaccion_ApruebaConAdvertencia(t *testing.T) {
	f := newFixture()
	resp := crearAnulacion(t, f, "tx-fantasma")

	approved, err := f.uc.Approve(resp.ID, tramites.VoidResolution{})
	require.NoError(t, err)
	assert.Equal(t, string(entity.RequestApproved), approved.Status)
	assert.NotEmpty(t, approved.Warning)
	assert.Empty(t, f.txs.created, "no debe crearse contra-asiento")
}

// ──────────────────────────────────────────────────────────────────────────────
// Arreglo de pago
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_Arreglo_GuardaDetalleSinTransaccion(t *testing.T) {
	f := newFixture()
	f.tps.byID["tp-1"] = &entity.Taxpayer{ID: "tp-1", Name: "José Pérez", Status: entity.TaxpayerActivo}

	resp, err := f.uc.Create(dto.CreateRequestRequest{
		Type:         string(entity.RequestPaymentArrangement),
		TaxpayerName: "Jose Perez", // sin acentos: el cruce es insensible
		TotalDebt:    decimal.NewFromInt(500),
	}, "Caja 1")
	require.NoError(t, err)

	approved, err := f.uc.Approve(resp.ID, tramites.ArrangementResolution{
		InitialPayment: decimal.NewFromInt(100),
		Installments:   10,
	})
	require.NoError(t, err)

	assert.Equal(t, string(entity.RequestApproved), approved.Status)
	assert.True(t, approved.ApprovedAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, approved.ApprovedTotalDebt.Equal(decimal.NewFromInt(500)), "copiada de la solicitud, no recalculada")
	assert.Equal(t, 10, approved.Installments)
	assert.Empty(t, approved.Warning)
	assert.Empty(t, f.txs.created, "la activación se difiere: sin transacción al aprobar")
}

func TestApprove_Arreglo_DefaultsYAdvertencia(t *testing.T) {
	f := newFixture() // sin contribuyentes registrados

	resp, err := f.uc.Create(dto.CreateRequestRequest{
		Type:         string(entity.RequestPaymentArrangement),
		TaxpayerName: "Nadie Conocido",
		TotalDebt:    decimal.NewFromInt(300),
	}, "Caja 1")
	require.NoError(t, err)

	approved, err := f.uc.Approve(resp.ID, tramites.ArrangementResolution{})
	require.NoError(t, err)
	assert.True(t, approved.ApprovedAmount.IsZero(), "abono inicial 0 por defecto")
	assert.Equal(t, 12, approved.Installments, "12 cuotas por defecto")
	assert.NotEmpty(t, approved.Warning, "contribuyente no hallado por nombre → advertencia")
}

func TestApprove_Arreglo_AbonoNegativoInvalido(t *testing.T) {
	f := newFixture()
	resp, err := f.uc.Create(dto.CreateRequestRequest{
		Type:         string(entity.RequestPaymentArrangement),
		TaxpayerName: "José Pérez",
		TotalDebt:    decimal.NewFromInt(300),
	}, "Caja 1")
	require.NoError(t, err)

	_, err = f.uc.Approve(resp.ID, tramites.ArrangementResolution{InitialPayment: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Corrección de datos del contribuyente
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_Correccion_SobreescribeContribuyente(t *testing.T) {
	f := newFixture()
	f.tps.byID["tp-1"] = &entity.Taxpayer{
		ID: "tp-1", TaxpayerNumber: 44, Name: "Jose Peres", DocID: "8-111-222",
		Status: entity.TaxpayerActivo, Type: entity.TaxpayerNatural,
		Balance: decimal.Zero, CreatedAt: time.Now().AddDate(-1, 0, 0),
	}

	resp, err := f.uc.Create(dto.CreateRequestRequest{
		Type:         string(entity.RequestUpdateTaxpayer),
		TaxpayerName: "Jose Peres",
		PayloadID:    "tp-1",
		Payload: &dto.TaxpayerRequest{
			Type: string(entity.TaxpayerNatural), Name: "José Pérez", DocID: "8-111-222",
			Balance: decimal.Zero,
		},
	}, "Caja 1")
	require.NoError(t, err)

	approved, err := f.uc.Approve(resp.ID, tramites.TaxpayerEditResolution{})
	require.NoError(t, err)
	assert.Equal(t, string(entity.RequestApproved), approved.Status)

	tp, _ := f.tps.GetByID("tp-1")
	assert.Equal(t, "José Pérez", tp.Name)
	assert.Equal(t, 44, tp.TaxpayerNumber, "el número de contribuyente es inmutable")
}

func TestApprove_ResolucionCruzada_Invalida(t *testing.T) {
	f := newFixture()
	resp := crearAnulacion(t, f, "tx-1")

	// Aprobar una anulación con resolución de arreglo debe rechazarse.
	_, err := f.uc.Approve(resp.ID, tramites.ArrangementResolution{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// P6: clausura de transiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestTransiciones_SoloDesdePending(t *testing.T) {
	f := newFixture()
	resp := crearAnulacion(t, f, "tx-x")

	_, err := f.uc.Reject(resp.ID, "sin sustento")
	require.NoError(t, err)

	// Resuelta: ni aprobar ni rechazar de nuevo.
	_, err = f.uc.Approve(resp.ID, tramites.VoidResolution{})
	assert.ErrorIs(t, err, domain.ErrRequestNotPending)
	_, err = f.uc.Reject(resp.ID, "otra vez")
	assert.ErrorIs(t, err, domain.ErrRequestNotPending)

	// Desde resuelta solo queda archivar, y archivar es idempotente.
	require.NoError(t, f.uc.Archive(resp.ID, "op-1"))
	require.NoError(t, f.uc.Archive(resp.ID, "op-1"))
}

func TestReject_RazonEnBlanco_NotaPorDefecto(t *testing.T) {
	f := newFixture()
	resp := crearAnulacion(t, f, "tx-x")

	rejected, err := f.uc.Reject(resp.ID, "   ")
	require.NoError(t, err)
	assert.Equal(t, string(entity.RequestRejected), rejected.Status)
	assert.NotEmpty(t, rejected.ResponseNote)
	assert.NotEqual(t, "   ", rejected.ResponseNote)
}

func TestArchive_PendingBloqueado(t *testing.T) {
	f := newFixture()
	resp := crearAnulacion(t, f, "tx-x")
	err := f.uc.Archive(resp.ID, "op-1")
	assert.ErrorIs(t, err, domain.ErrRequestPending)
}

// ──────────────────────────────────────────────────────────────────────────────
// P7: el archivado es local al operador
// ──────────────────────────────────────────────────────────────────────────────

func TestArchive_NoAfectaLaVistaDeOtroOperador(t *testing.T) {
	f := newFixture()
	resp := crearAnulacion(t, f, "tx-x")
	_, err := f.uc.Reject(resp.ID, "sin sustento")
	require.NoError(t, err)

	require.NoError(t, f.uc.Archive(resp.ID, "op-1"))

	vistaOp1, err := f.uc.ListResolved("op-1")
	require.NoError(t, err)
	assert.Empty(t, vistaOp1, "op-1 archivó: ya no la ve")

	vistaOp2, err := f.uc.ListResolved("op-2")
	require.NoError(t, err)
	require.Len(t, vistaOp2, 1, "op-2 la sigue viendo")
	assert.Equal(t, string(entity.RequestRejected), vistaOp2[0].Status,
		"el estado compartido sigue siendo REJECTED, no ARCHIVED")
}

// Resolver publica un evento UPDATE de solicitud para notificar al solicitante.
func TestResolve_PublicaEventoUpdate(t *testing.T) {
	f := newFixture()
	resp := crearAnulacion(t, f, "tx-x")
	f.bus.events = nil

	_, err := f.uc.Reject(resp.ID, "x")
	require.NoError(t, err)

	require.Len(t, f.bus.events, 1)
	assert.Equal(t, realtime.EntityRequest, f.bus.events[0].Entity)
	assert.Equal(t, realtime.ChangeUpdate, f.bus.events[0].Type)
}
