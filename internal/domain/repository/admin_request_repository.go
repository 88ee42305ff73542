package repository

import "github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"

// AdminRequestRepository define el puerto de persistencia para las
// solicitudes administrativas.
//
// El archivado es una marca por operador (visibilidad local), no una
// escritura sobre el estado compartido: archivar en un cliente no cambia lo
// que observa otro.
type AdminRequestRepository interface {
	Create(req *entity.AdminRequest) error
	GetByID(id string) (*entity.AdminRequest, error)
	// ListPending lista las PENDING más antiguas primero (triage FIFO).
	ListPending() ([]*entity.AdminRequest, error)
	// ListResolved lista APPROVED/REJECTED más recientes primero (historial).
	ListResolved() ([]*entity.AdminRequest, error)
	// UpdateResolution escribe la transición PENDING→{APPROVED,REJECTED} con
	// sus campos de resolución. Los campos de resolución se escriben una sola vez.
	UpdateResolution(req *entity.AdminRequest) error
	// Archive marca la solicitud como archivada para un operador. Idempotente.
	Archive(requestID, operatorID string) error
	// ArchivedIDs devuelve las solicitudes archivadas por el operador.
	ArchivedIDs(operatorID string) ([]string, error)
}
