package caja

import "github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"

// OfflineQueue es el puerto de la cola local de pagos pendientes de
// sincronizar (durable por proceso; ver infrastructure/offline).
type OfflineQueue interface {
	Enqueue(tx *entity.Transaction) error
	List() ([]*entity.Transaction, error)
	// Replace reescribe la cola con las entradas aún pendientes.
	Replace(pending []*entity.Transaction) error
}
