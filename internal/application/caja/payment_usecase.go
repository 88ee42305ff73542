// Package caja implementa el registro de pagos en ventanilla: construcción
// de la transacción del libro, persistencia remota y, como fallback explícito
// ante fallas de red, la cola offline con sincronización posterior.
package caja

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/dto"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/repository"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/infrastructure/realtime"
)

// PaymentUseCase casos de uso de cobro.
type PaymentUseCase struct {
	txs       repository.TransactionRepository
	taxpayers repository.TaxpayerRepository
	queue     OfflineQueue
	bus       realtime.Publisher
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(
	txs repository.TransactionRepository,
	taxpayers repository.TaxpayerRepository,
	queue OfflineQueue,
	bus realtime.Publisher,
) *PaymentUseCase {
	return &PaymentUseCase{txs: txs, taxpayers: taxpayers, queue: queue, bus: bus}
}

// Record registra un pago a nombre del cajero actuante. Si la persistencia
// remota falla y el operador habilitó el fallback (AllowOffline), el pago se
// encola localmente con su id estable y se devuelve marcado Queued para
// reconciliación posterior; sin el fallback, el error se reporta tal cual y
// el operador puede reintentar.
func (uc *PaymentUseCase) Record(in dto.RecordPaymentRequest, tellerName string) (*dto.TransactionResponse, error) {
	if !entity.ValidTaxType(entity.TaxType(in.TaxType)) {
		return nil, fmt.Errorf("%w: tipo de impuesto %q", domain.ErrInvalidInput, in.TaxType)
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: el monto debe ser mayor que cero", domain.ErrInvalidInput)
	}
	tp, err := uc.taxpayers.GetByID(in.TaxpayerID)
	if err != nil {
		return nil, err
	}
	if tp == nil {
		return nil, domain.ErrTaxpayerNotFound
	}

	now := time.Now()
	tx := &entity.Transaction{
		ID:            uuid.New().String(),
		TaxpayerID:    in.TaxpayerID,
		TaxType:       entity.TaxType(in.TaxType),
		Amount:        in.Amount,
		Date:          now,
		Time:          now.Format("15:04"),
		Description:   in.Description,
		Status:        entity.TransactionPagado,
		PaymentMethod: in.PaymentMethod,
		TellerName:    tellerName,
		Metadata: entity.TransactionMetadata{
			PlateNumber: in.PlateNumber,
			Month:       in.Month,
			Year:        in.Year,
		},
		CreatedAt: now,
	}
	if tx.Metadata.Month == 0 {
		tx.Metadata.Month = int(now.Month())
	}
	if tx.Metadata.Year == 0 {
		tx.Metadata.Year = now.Year()
	}

	if err := uc.txs.Create(tx); err != nil {
		if !in.AllowOffline {
			return nil, fmt.Errorf("persistir pago: %w", err)
		}
		if qErr := uc.queue.Enqueue(tx); qErr != nil {
			return nil, errors.Join(fmt.Errorf("persistir pago: %w", err), qErr)
		}
		out := dto.FromTransaction(tx)
		out.Queued = true
		return out, nil
	}

	uc.bus.Publish(realtime.Event{Entity: realtime.EntityTransaction, Type: realtime.ChangeInsert, ID: tx.ID})
	return dto.FromTransaction(tx), nil
}

// SyncPending drena la cola offline secuencialmente, particionando en
// sincronizadas y fallidas; solo las fallidas quedan para el próximo intento.
// Un pago que el servidor ya conoce (id duplicado) cuenta como sincronizado:
// el replay es idempotente gracias a los ids estables generados en el cliente.
func (uc *PaymentUseCase) SyncPending() (*dto.SyncResultResponse, error) {
	pending, err := uc.queue.List()
	if err != nil {
		return nil, err
	}

	result := &dto.SyncResultResponse{}
	var failed []*entity.Transaction
	for _, tx := range pending {
		err := uc.txs.Create(tx)
		switch {
		case err == nil:
			result.Synced++
			uc.bus.Publish(realtime.Event{Entity: realtime.EntityTransaction, Type: realtime.ChangeInsert, ID: tx.ID})
		case errors.Is(err, domain.ErrDuplicate):
			// Ya llegó en un intento anterior que falló a mitad: no duplicar.
			result.Synced++
		default:
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", tx.ID, err))
			failed = append(failed, tx)
		}
	}

	if err := uc.queue.Replace(failed); err != nil {
		return nil, err
	}
	result.Pending = len(failed)
	return result, nil
}

// Pending lista los pagos aún en la cola offline.
func (uc *PaymentUseCase) Pending() ([]*dto.TransactionResponse, error) {
	pending, err := uc.queue.List()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.TransactionResponse, 0, len(pending))
	for _, tx := range pending {
		resp := dto.FromTransaction(tx)
		resp.Queued = true
		out = append(out, resp)
	}
	return out, nil
}

// ListByTaxpayer lista el libro de un contribuyente.
func (uc *PaymentUseCase) ListByTaxpayer(taxpayerID string) ([]*dto.TransactionResponse, error) {
	list, err := uc.txs.ListByTaxpayer(taxpayerID)
	if err != nil {
		return nil, err
	}
	return fromTransactions(list), nil
}

// ListByDate lista el libro de un día (cuadre de caja).
func (uc *PaymentUseCase) ListByDate(day time.Time) ([]*dto.TransactionResponse, error) {
	list, err := uc.txs.ListByDate(day)
	if err != nil {
		return nil, err
	}
	return fromTransactions(list), nil
}

// GetByID obtiene una transacción del libro.
func (uc *PaymentUseCase) GetByID(id string) (*dto.TransactionResponse, error) {
	tx, err := uc.txs.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrTransactionNotFound
	}
	return dto.FromTransaction(tx), nil
}

func fromTransactions(list []*entity.Transaction) []*dto.TransactionResponse {
	out := make([]*dto.TransactionResponse, 0, len(list))
	for _, tx := range list {
		out = append(out, dto.FromTransaction(tx))
	}
	return out
}
