package caja_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/caja"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/dto"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/infrastructure/realtime"
)

// ──────────────────────────────────────────────────────────────────────────────
// Mocks
// ──────────────────────────────────────────────────────────────────────────────

// txRepoMock simula el repositorio remoto; failing y seen permiten simular
// caídas de red y detección de duplicados.
type txRepoMock struct {
	failing bool
	seen    map[string]*entity.Transaction
	order   []string
}

func newTxRepoMock() *txRepoMock { return &txRepoMock{seen: map[string]*entity.Transaction{}} }

func (m *txRepoMock) Create(tx *entity.Transaction) error {
	if m.failing {
		return errors.New("conexión rechazada")
	}
	if _, ok := m.seen[tx.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *tx
	m.seen[tx.ID] = &cp
	m.order = append(m.order, tx.ID)
	return nil
}

func (m *txRepoMock) GetByID(id string) (*entity.Transaction, error) {
	tx, ok := m.seen[id]
	if !ok {
		return nil, nil
	}
	return tx, nil
}
func (m *txRepoMock) ListByTaxpayer(string) ([]*entity.Transaction, error) { return nil, nil }
func (m *txRepoMock) ListByDate(time.Time) ([]*entity.Transaction, error)  { return nil, nil }

type taxpayerRepoMock struct{ ids map[string]bool }

func (m *taxpayerRepoMock) Create(*entity.Taxpayer) error { return nil }
func (m *taxpayerRepoMock) GetByID(id string) (*entity.Taxpayer, error) {
	if !m.ids[id] {
		return nil, nil
	}
	return &entity.Taxpayer{ID: id, Status: entity.TaxpayerActivo}, nil
}
func (m *taxpayerRepoMock) GetByDocID(string) (*entity.Taxpayer, error)          { return nil, nil }
func (m *taxpayerRepoMock) List(int, int) ([]*entity.Taxpayer, error)            { return nil, nil }
func (m *taxpayerRepoMock) SearchByName(string, int) ([]*entity.Taxpayer, error) { return nil, nil }
func (m *taxpayerRepoMock) Update(*entity.Taxpayer) error                        { return nil }
func (m *taxpayerRepoMock) NextNumber() (int, error)                             { return 1, nil }

// queueMock cola offline en memoria.
type queueMock struct{ list []*entity.Transaction }

func (q *queueMock) Enqueue(tx *entity.Transaction) error {
	q.list = append(q.list, tx)
	return nil
}
func (q *queueMock) List() ([]*entity.Transaction, error) { return q.list, nil }
func (q *queueMock) Replace(pending []*entity.Transaction) error {
	q.list = pending
	return nil
}

type busMock struct{ events []realtime.Event }

func (b *busMock) Publish(evt realtime.Event) { b.events = append(b.events, evt) }

func newUC() (*caja.PaymentUseCase, *txRepoMock, *queueMock, *busMock) {
	txs := newTxRepoMock()
	queue := &queueMock{}
	bus := &busMock{}
	uc := caja.NewPaymentUseCase(txs, &taxpayerRepoMock{ids: map[string]bool{"tp-1": true}}, queue, bus)
	return uc, txs, queue, bus
}

func pagoBasura() dto.RecordPaymentRequest {
	return dto.RecordPaymentRequest{
		TaxpayerID:    "tp-1",
		TaxType:       string(entity.TaxBasura),
		Amount:        decimal.NewFromInt(5),
		PaymentMethod: "EFECTIVO",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro de pagos
// ──────────────────────────────────────────────────────────────────────────────

func TestRecord_PagoExitoso(t *testing.T) {
	uc, txs, queue, bus := newUC()

	resp, err := uc.Record(pagoBasura(), "Caja 1")
	require.NoError(t, err)

	assert.Equal(t, string(entity.TransactionPagado), resp.Status)
	assert.Equal(t, "Caja 1", resp.TellerName)
	assert.False(t, resp.Queued)
	assert.Len(t, txs.seen, 1)
	assert.Empty(t, queue.list)
	require.Len(t, bus.events, 1)
	assert.Equal(t, realtime.EntityTransaction, bus.events[0].Entity)
}

func TestRecord_MontoCeroInvalido(t *testing.T) {
	uc, _, _, _ := newUC()
	in := pagoBasura()
	in.Amount = decimal.Zero
	_, err := uc.Record(in, "Caja 1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecord_ContribuyenteInexistente(t *testing.T) {
	uc, _, _, _ := newUC()
	in := pagoBasura()
	in.TaxpayerID = "tp-fantasma"
	_, err := uc.Record(in, "Caja 1")
	assert.ErrorIs(t, err, domain.ErrTaxpayerNotFound)
}

// Falla remota sin AllowOffline: error al operador, nada encolado.
func TestRecord_FallaSinFallback_ReportaError(t *testing.T) {
	uc, txs, queue, _ := newUC()
	txs.failing = true

	_, err := uc.Record(pagoBasura(), "Caja 1")
	assert.Error(t, err)
	assert.Empty(t, queue.list)
}

// Falla remota con AllowOffline: el pago queda encolado y marcado Queued.
func TestRecord_FallaConFallback_Encola(t *testing.T) {
	uc, txs, queue, bus := newUC()
	txs.failing = true

	in := pagoBasura()
	in.AllowOffline = true
	resp, err := uc.Record(in, "Caja 1")
	require.NoError(t, err)

	assert.True(t, resp.Queued)
	require.Len(t, queue.list, 1)
	assert.Equal(t, resp.ID, queue.list[0].ID)
	assert.Empty(t, bus.events, "un pago encolado no publica evento hasta sincronizar")
}

// ──────────────────────────────────────────────────────────────────────────────
// Sincronización de la cola offline
// ──────────────────────────────────────────────────────────────────────────────

func encolarPagos(t *testing.T, uc *caja.PaymentUseCase, txs *txRepoMock, n int) {
	t.Helper()
	txs.failing = true
	for i := 0; i < n; i++ {
		in := pagoBasura()
		in.AllowOffline = true
		_, err := uc.Record(in, "Caja 1")
		require.NoError(t, err)
	}
	txs.failing = false
}

func TestSyncPending_DrenaTodo(t *testing.T) {
	uc, txs, queue, _ := newUC()
	encolarPagos(t, uc, txs, 3)

	result, err := uc.SyncPending()
	require.NoError(t, err)

	assert.Equal(t, 3, result.Synced)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 0, result.Pending)
	assert.Empty(t, queue.list)
	assert.Len(t, txs.seen, 3)
}

// Una entrada ya conocida por el servidor (id estable duplicado) cuenta como
// sincronizada y no genera una transacción doble.
func TestSyncPending_DuplicadoNoSeRepite(t *testing.T) {
	uc, txs, queue, _ := newUC()
	encolarPagos(t, uc, txs, 2)

	// El primer pago "ya llegó" en un intento anterior interrumpido.
	primero := queue.list[0]
	require.NoError(t, txs.Create(primero))
	require.Len(t, txs.seen, 1)

	result, err := uc.SyncPending()
	require.NoError(t, err)

	assert.Equal(t, 2, result.Synced)
	assert.Equal(t, 0, result.Failed)
	assert.Len(t, txs.seen, 2, "el duplicado no debe insertarse dos veces")
	assert.Empty(t, queue.list)
}

// Drenado parcial: las fallidas quedan en la cola para el próximo intento.
func TestSyncPending_ParcialRetieneFallidas(t *testing.T) {
	uc, txs, queue, _ := newUC()
	encolarPagos(t, uc, txs, 2)

	txs.failing = true
	result, err := uc.SyncPending()
	require.NoError(t, err)
	assert.Equal(t, 0, result.Synced)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, 2, result.Pending)
	require.Len(t, queue.list, 2)

	// Red restablecida: el reintento drena lo retenido.
	txs.failing = false
	result, err = uc.SyncPending()
	require.NoError(t, err)
	assert.Equal(t, 2, result.Synced)
	assert.Empty(t, queue.list)
}

func TestPending_ListaMarcadaQueued(t *testing.T) {
	uc, txs, _, _ := newUC()
	encolarPagos(t, uc, txs, 1)

	list, err := uc.Pending()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Queued)
}
