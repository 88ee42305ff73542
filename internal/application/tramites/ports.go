package tramites

import "github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/repository"

// VoidTxRunner ejecuta la resolución de una anulación dentro de una
// transacción de base de datos: el contra-asiento y la transición de la
// solicitud se confirman juntos o no se confirman.
type VoidTxRunner interface {
	RunVoid(fn func(
		txRepo repository.TransactionRepository,
		reqRepo repository.AdminRequestRepository,
	) error) error
}
