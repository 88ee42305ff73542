// Package tramites implementa el flujo de solicitudes administrativas:
// un cajero crea la solicitud, un administrador la aprueba o rechaza, y la
// resolución aplica sus efectos (contra-asiento de anulación, activación de
// arreglo, corrección del contribuyente). Ambas partes se enteran por el bus
// de eventos; el estado autoritativo siempre se relee del repositorio.
package tramites

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/dto"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/repository"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/infrastructure/realtime"
	"github.com/egniscano-stack/sigma-changuinola-sub000/pkg/texto"
)

// Notas de resolución fijas por tipo.
const (
	noteVoidApproved        = "Transacción anulada mediante contra-asiento"
	noteArrangementApproved = "Arreglo de pago aprobado"
	noteTaxpayerUpdated     = "Datos del contribuyente actualizados"
	noteRejectedDefault     = "Solicitud rechazada por el administrador"
)

const defaultInstallments = 12

// RequestUseCase casos de uso del flujo de solicitudes.
type RequestUseCase struct {
	requests  repository.AdminRequestRepository
	txs       repository.TransactionRepository
	taxpayers repository.TaxpayerRepository
	runner    VoidTxRunner
	bus       realtime.Publisher
}

// NewRequestUseCase construye el caso de uso.
func NewRequestUseCase(
	requests repository.AdminRequestRepository,
	txs repository.TransactionRepository,
	taxpayers repository.TaxpayerRepository,
	runner VoidTxRunner,
	bus realtime.Publisher,
) *RequestUseCase {
	return &RequestUseCase{requests: requests, txs: txs, taxpayers: taxpayers, runner: runner, bus: bus}
}

// Create persiste una solicitud PENDING. Valida que los campos extra del
// tipo elegido estén presentes; un payload cruzado de tipo se rechaza antes
// de tocar la persistencia.
func (uc *RequestUseCase) Create(in dto.CreateRequestRequest, requesterName string) (*dto.RequestResponse, error) {
	reqType := entity.RequestType(in.Type)
	if !entity.ValidRequestType(reqType) {
		return nil, fmt.Errorf("%w: tipo de solicitud %q", domain.ErrInvalidInput, in.Type)
	}
	if strings.TrimSpace(in.TaxpayerName) == "" || strings.TrimSpace(requesterName) == "" {
		return nil, fmt.Errorf("%w: taxpayer_name y solicitante son requeridos", domain.ErrInvalidInput)
	}

	req := &entity.AdminRequest{
		ID:            uuid.New().String(),
		Type:          reqType,
		Status:        entity.RequestPending,
		RequesterName: requesterName,
		TaxpayerName:  in.TaxpayerName,
		Description:   in.Description,
		TotalDebt:     decimal.Zero,
		CreatedAt:     time.Now(),
	}

	switch reqType {
	case entity.RequestVoidTransaction:
		if in.TransactionID == "" {
			return nil, fmt.Errorf("%w: transaction_id es requerido para anulaciones", domain.ErrInvalidInput)
		}
		req.TransactionID = in.TransactionID
	case entity.RequestPaymentArrangement:
		if !in.TotalDebt.IsPositive() {
			return nil, fmt.Errorf("%w: total_debt debe ser mayor que cero", domain.ErrInvalidInput)
		}
		req.TotalDebt = in.TotalDebt
	case entity.RequestUpdateTaxpayer:
		if in.Payload == nil || in.PayloadID == "" {
			return nil, fmt.Errorf("%w: payload y payload_id son requeridos para correcciones", domain.ErrInvalidInput)
		}
		req.Payload = taxpayerFromPayload(in.PayloadID, in.Payload)
	}

	if err := uc.requests.Create(req); err != nil {
		return nil, err
	}
	uc.bus.Publish(realtime.Event{Entity: realtime.EntityRequest, Type: realtime.ChangeInsert, ID: req.ID})
	return dto.FromRequest(req), nil
}

// GetByID obtiene una solicitud.
func (uc *RequestUseCase) GetByID(id string) (*dto.RequestResponse, error) {
	req, err := uc.requests.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrRequestNotFound
	}
	return dto.FromRequest(req), nil
}

// Approve resuelve una solicitud PENDING con la resolución de su tipo.
// Devuelve la solicitud aprobada y, si la aprobación completó con una
// anomalía referencial, una advertencia: la política es aprobar de forma
// optimista y señalar la anomalía, no bloquear.
func (uc *RequestUseCase) Approve(requestID string, res Resolution) (*dto.RequestResponse, error) {
	req, err := uc.requests.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrRequestNotFound
	}
	if !req.CanResolve() {
		return nil, domain.ErrRequestNotPending
	}

	now := time.Now()
	var warning string

	switch r := res.(type) {
	case VoidResolution:
		if req.Type != entity.RequestVoidTransaction {
			return nil, fmt.Errorf("%w: la solicitud %s no es una anulación", domain.ErrInvalidInput, requestID)
		}
		warning, err = uc.approveVoid(req, now)
	case ArrangementResolution:
		if req.Type != entity.RequestPaymentArrangement {
			return nil, fmt.Errorf("%w: la solicitud %s no es un arreglo de pago", domain.ErrInvalidInput, requestID)
		}
		warning, err = uc.approveArrangement(req, r, now)
	case TaxpayerEditResolution:
		if req.Type != entity.RequestUpdateTaxpayer {
			return nil, fmt.Errorf("%w: la solicitud %s no es una corrección de datos", domain.ErrInvalidInput, requestID)
		}
		warning, err = uc.approveTaxpayerEdit(req, now)
	default:
		return nil, fmt.Errorf("%w: resolución desconocida %T", domain.ErrInvalidInput, res)
	}
	if err != nil {
		return nil, err
	}

	uc.bus.Publish(realtime.Event{Entity: realtime.EntityRequest, Type: realtime.ChangeUpdate, ID: req.ID})
	out := dto.FromRequest(req)
	out.Warning = warning
	return out, nil
}

// approveVoid crea el contra-asiento y marca APPROVED en una sola
// transacción. La transacción original nunca se muta ni se borra: el libro
// es append-only. Si la transacción referida no existe, la solicitud se
// aprueba igual y se devuelve la advertencia.
func (uc *RequestUseCase) approveVoid(req *entity.AdminRequest, now time.Time) (string, error) {
	original, err := uc.txs.GetByID(req.TransactionID)
	if err != nil {
		return "", err
	}

	req.Status = entity.RequestApproved
	req.ResponseNote = noteVoidApproved
	req.ResolvedAt = &now

	if original == nil {
		if err := uc.requests.UpdateResolution(req); err != nil {
			return "", err
		}
		return fmt.Sprintf("la transacción %s no existe; la solicitud quedó aprobada sin contra-asiento", req.TransactionID), nil
	}

	counter := &entity.Transaction{
		ID:          uuid.New().String(),
		TaxpayerID:  original.TaxpayerID,
		TaxType:     original.TaxType,
		Amount:      original.Amount.Neg(),
		Date:        now,
		Time:        now.Format("15:04"),
		Description: fmt.Sprintf("Anulación de transacción %s", original.ID),
		Status:      entity.TransactionAnulado,
		TellerName:  "ADMIN",
		Metadata:    original.Metadata,
		CreatedAt:   now,
	}

	err = uc.runner.RunVoid(func(txRepo repository.TransactionRepository, reqRepo repository.AdminRequestRepository) error {
		if err := txRepo.Create(counter); err != nil {
			return err
		}
		return reqRepo.UpdateResolution(req)
	})
	if err != nil {
		return "", err
	}
	uc.bus.Publish(realtime.Event{Entity: realtime.EntityTransaction, Type: realtime.ChangeInsert, ID: counter.ID})
	return "", nil
}

// approveArrangement guarda el detalle del arreglo en la solicitud. No se
// crea ninguna transacción: la activación se difiere hasta que el cajero
// cargue el arreglo en el flujo de cobro.
func (uc *RequestUseCase) approveArrangement(req *entity.AdminRequest, r ArrangementResolution, now time.Time) (string, error) {
	if r.InitialPayment.IsNegative() {
		return "", fmt.Errorf("%w: el abono inicial no puede ser negativo", domain.ErrInvalidInput)
	}
	installments := r.Installments
	if installments <= 0 {
		installments = defaultInstallments
	}

	req.Status = entity.RequestApproved
	req.ResponseNote = noteArrangementApproved
	req.ApprovedAmount = r.InitialPayment
	req.ApprovedTotalDebt = req.TotalDebt // copiada, no recalculada
	req.Installments = installments
	req.ResolvedAt = &now

	if err := uc.requests.UpdateResolution(req); err != nil {
		return "", err
	}

	if tp := uc.findTaxpayerByName(req.TaxpayerName); tp == nil {
		return fmt.Sprintf("no se encontró un contribuyente con nombre %q", req.TaxpayerName), nil
	}
	return "", nil
}

// approveTaxpayerEdit sobreescribe el registro del contribuyente con el
// payload completo propuesto y luego marca APPROVED.
func (uc *RequestUseCase) approveTaxpayerEdit(req *entity.AdminRequest, now time.Time) (string, error) {
	var warning string

	current, err := uc.taxpayers.GetByID(req.Payload.ID)
	if err != nil {
		return "", err
	}
	if current == nil {
		warning = fmt.Sprintf("el contribuyente %s ya no existe; no se aplicó la corrección", req.Payload.ID)
	} else {
		proposed := *req.Payload
		// El número de contribuyente es inmutable una vez asignado.
		proposed.TaxpayerNumber = current.TaxpayerNumber
		proposed.CreatedAt = current.CreatedAt
		proposed.UpdatedAt = now
		if err := uc.taxpayers.Update(&proposed); err != nil {
			return "", err
		}
		uc.bus.Publish(realtime.Event{Entity: realtime.EntityTaxpayer, Type: realtime.ChangeUpdate, ID: proposed.ID})
	}

	req.Status = entity.RequestApproved
	req.ResponseNote = noteTaxpayerUpdated
	req.ResolvedAt = &now
	if err := uc.requests.UpdateResolution(req); err != nil {
		return "", err
	}
	return warning, nil
}

// Reject transiciona PENDING→REJECTED con la razón dada; si viene en blanco
// se sustituye la nota por defecto.
func (uc *RequestUseCase) Reject(requestID, reason string) (*dto.RequestResponse, error) {
	req, err := uc.requests.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrRequestNotFound
	}
	if !req.CanResolve() {
		return nil, domain.ErrRequestNotPending
	}

	now := time.Now()
	req.Status = entity.RequestRejected
	if strings.TrimSpace(reason) == "" {
		reason = noteRejectedDefault
	}
	req.ResponseNote = reason
	req.ResolvedAt = &now

	if err := uc.requests.UpdateResolution(req); err != nil {
		return nil, err
	}
	uc.bus.Publish(realtime.Event{Entity: realtime.EntityRequest, Type: realtime.ChangeUpdate, ID: req.ID})
	return dto.FromRequest(req), nil
}

// Archive marca la solicitud como archivada para el operador. Es un descarte
// de visibilidad local: no cambia el estado que observa la contraparte y es
// idempotente. Una solicitud PENDING no puede archivarse.
func (uc *RequestUseCase) Archive(requestID, operatorID string) error {
	req, err := uc.requests.GetByID(requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return domain.ErrRequestNotFound
	}
	if !req.CanArchive() {
		return domain.ErrRequestPending
	}
	return uc.requests.Archive(requestID, operatorID)
}

// ListPending lista las solicitudes pendientes, más antiguas primero
// (triage FIFO), omitiendo las archivadas por el operador.
func (uc *RequestUseCase) ListPending(operatorID string) ([]*dto.RequestResponse, error) {
	list, err := uc.requests.ListPending()
	if err != nil {
		return nil, err
	}
	return uc.visible(list, operatorID)
}

// ListResolved lista el historial (aprobadas/rechazadas), más recientes
// primero, omitiendo las archivadas por el operador.
func (uc *RequestUseCase) ListResolved(operatorID string) ([]*dto.RequestResponse, error) {
	list, err := uc.requests.ListResolved()
	if err != nil {
		return nil, err
	}
	return uc.visible(list, operatorID)
}

func (uc *RequestUseCase) visible(list []*entity.AdminRequest, operatorID string) ([]*dto.RequestResponse, error) {
	archived, err := uc.requests.ArchivedIDs(operatorID)
	if err != nil {
		return nil, err
	}
	hidden := make(map[string]bool, len(archived))
	for _, id := range archived {
		hidden[id] = true
	}
	out := make([]*dto.RequestResponse, 0, len(list))
	for _, req := range list {
		if hidden[req.ID] {
			continue
		}
		out = append(out, dto.FromRequest(req))
	}
	return out, nil
}

func (uc *RequestUseCase) findTaxpayerByName(name string) *entity.Taxpayer {
	candidates, err := uc.taxpayers.SearchByName("%"+name+"%", 50)
	if err != nil || len(candidates) == 0 {
		// Segundo intento sin acentos sobre un listado acotado.
		candidates, err = uc.taxpayers.List(500, 0)
		if err != nil {
			return nil
		}
	}
	for _, tp := range candidates {
		if texto.Matches(tp.Name, name) {
			return tp
		}
	}
	return nil
}

func taxpayerFromPayload(id string, in *dto.TaxpayerRequest) *entity.Taxpayer {
	cat := entity.CommercialCategory(in.CommercialCategory)
	if cat == "" {
		cat = entity.CategoryNone
	}
	status := entity.TaxpayerStatus(in.Status)
	if status == "" {
		status = entity.TaxpayerActivo
	}
	return &entity.Taxpayer{
		ID:                    id,
		Type:                  entity.TaxpayerType(in.Type),
		Status:                status,
		DocID:                 in.DocID,
		Name:                  in.Name,
		Address:               in.Address,
		Phone:                 in.Phone,
		Email:                 in.Email,
		HasCommercialActivity: in.HasCommercialActivity,
		CommercialCategory:    cat,
		CommercialName:        in.CommercialName,
		HasConstruction:       in.HasConstruction,
		HasGarbageService:     in.HasGarbageService,
		Vehicles:              dto.ToVehicles(in.Vehicles),
		Balance:               in.Balance,
	}
}
