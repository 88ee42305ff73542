package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/dto"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/repository"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/infrastructure/realtime"
	"github.com/egniscano-stack/sigma-changuinola-sub000/pkg/texto"
)

// TaxpayerUseCase casos de uso del padrón de contribuyentes.
type TaxpayerUseCase struct {
	repo repository.TaxpayerRepository
	bus  realtime.Publisher
}

// NewTaxpayerUseCase construye el caso de uso.
func NewTaxpayerUseCase(repo repository.TaxpayerRepository, bus realtime.Publisher) *TaxpayerUseCase {
	return &TaxpayerUseCase{repo: repo, bus: bus}
}

// Create registra un contribuyente nuevo y le asigna el siguiente número de
// la secuencia (inmutable de ahí en adelante).
func (uc *TaxpayerUseCase) Create(in dto.TaxpayerRequest) (*dto.TaxpayerResponse, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.DocID) == "" {
		return nil, fmt.Errorf("%w: name y doc_id son requeridos", domain.ErrInvalidInput)
	}
	if in.Balance.IsNegative() {
		return nil, fmt.Errorf("%w: el saldo no puede ser negativo", domain.ErrInvalidInput)
	}
	tpType := entity.TaxpayerType(in.Type)
	if tpType != entity.TaxpayerNatural && tpType != entity.TaxpayerJuridica {
		return nil, fmt.Errorf("%w: tipo de contribuyente %q", domain.ErrInvalidInput, in.Type)
	}

	existing, _ := uc.repo.GetByDocID(in.DocID)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	number, err := uc.repo.NextNumber()
	if err != nil {
		return nil, err
	}

	cat := entity.CommercialCategory(in.CommercialCategory)
	if cat == "" {
		cat = entity.CategoryNone
	}
	now := time.Now()
	tp := &entity.Taxpayer{
		ID:                    uuid.New().String(),
		TaxpayerNumber:        number,
		Type:                  tpType,
		Status:                entity.TaxpayerActivo,
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
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := uc.repo.Create(tp); err != nil {
		return nil, err
	}
	uc.bus.Publish(realtime.Event{Entity: realtime.EntityTaxpayer, Type: realtime.ChangeInsert, ID: tp.ID})
	return dto.FromTaxpayer(tp), nil
}

// GetByID obtiene un contribuyente.
func (uc *TaxpayerUseCase) GetByID(id string) (*dto.TaxpayerResponse, error) {
	tp, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tp == nil {
		return nil, domain.ErrTaxpayerNotFound
	}
	return dto.FromTaxpayer(tp), nil
}

// List lista el padrón con paginación.
func (uc *TaxpayerUseCase) List(page dto.PageRequest) ([]*dto.TaxpayerResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.TaxpayerResponse, 0, len(list))
	for _, tp := range list {
		out = append(out, dto.FromTaxpayer(tp))
	}
	return out, nil
}

// Search busca por nombre sin distinguir acentos ni mayúsculas: primero
// ILIKE en la base y sobre los candidatos el cruce normalizado.
func (uc *TaxpayerUseCase) Search(name string) ([]*dto.TaxpayerResponse, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: nombre de búsqueda vacío", domain.ErrInvalidInput)
	}
	candidates, err := uc.repo.SearchByName("%"+name+"%", 50)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		// ILIKE no cruza "Perez" con "Pérez": reintento normalizando en memoria.
		all, err := uc.repo.List(500, 0)
		if err != nil {
			return nil, err
		}
		for _, tp := range all {
			if texto.Matches(tp.Name, name) {
				candidates = append(candidates, tp)
			}
		}
	}
	out := make([]*dto.TaxpayerResponse, 0, len(candidates))
	for _, tp := range candidates {
		out = append(out, dto.FromTaxpayer(tp))
	}
	return out, nil
}

// Update reemplaza el registro completo (last-write-wins: sin campo de
// versión, ediciones concurrentes las gana la última escritura). El número
// de contribuyente y la fecha de alta no se tocan.
func (uc *TaxpayerUseCase) Update(id string, in dto.TaxpayerRequest) (*dto.TaxpayerResponse, error) {
	current, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrTaxpayerNotFound
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.DocID) == "" {
		return nil, fmt.Errorf("%w: name y doc_id son requeridos", domain.ErrInvalidInput)
	}
	if in.Balance.IsNegative() {
		return nil, fmt.Errorf("%w: el saldo no puede ser negativo", domain.ErrInvalidInput)
	}

	status := entity.TaxpayerStatus(in.Status)
	if status == "" {
		status = current.Status
	}
	cat := entity.CommercialCategory(in.CommercialCategory)
	if cat == "" {
		cat = entity.CategoryNone
	}

	tp := &entity.Taxpayer{
		ID:                    current.ID,
		TaxpayerNumber:        current.TaxpayerNumber,
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
		CreatedAt:             current.CreatedAt,
		UpdatedAt:             time.Now(),
	}
	if err := uc.repo.Update(tp); err != nil {
		return nil, err
	}
	uc.bus.Publish(realtime.Event{Entity: realtime.EntityTaxpayer, Type: realtime.ChangeUpdate, ID: tp.ID})
	return dto.FromTaxpayer(tp), nil
}

// ChangeStatus cambia el estado del contribuyente. La baja es siempre un
// cambio de estado (SUSPENDIDO/BLOQUEADO), nunca un borrado físico mientras
// existan transacciones que lo referencien.
func (uc *TaxpayerUseCase) ChangeStatus(id string, status entity.TaxpayerStatus) (*dto.TaxpayerResponse, error) {
	switch status {
	case entity.TaxpayerActivo, entity.TaxpayerSuspendido, entity.TaxpayerBloqueado, entity.TaxpayerMoroso:
	default:
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	current, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrTaxpayerNotFound
	}
	current.Status = status
	current.UpdatedAt = time.Now()
	if err := uc.repo.Update(current); err != nil {
		return nil, err
	}
	uc.bus.Publish(realtime.Event{Entity: realtime.EntityTaxpayer, Type: realtime.ChangeUpdate, ID: current.ID})
	return dto.FromTaxpayer(current), nil
}
