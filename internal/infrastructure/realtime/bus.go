// Package realtime implementa el bus de eventos de cambio de filas: un
// publish/subscribe tipado por entidad que reemplaza la suscripción única de
// callbacks posicionales. Agregar un flujo de entidad nuevo no cambia la
// firma de suscripción.
//
// La entrega es advisory y como máximo una vez por suscriptor conectado: un
// suscriptor lento pierde eventos en vez de bloquear al publicador. El estado
// autoritativo siempre se re-deriva consultando el repositorio, nunca se
// confía en el payload del evento.
package realtime

import (
	"sync"
	"time"
)

// ChangeType es el tipo de cambio de fila notificado.
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// EntityKind identifica la tabla/entidad del evento.
type EntityKind string

const (
	EntityTaxpayer    EntityKind = "contribuyente"
	EntityTransaction EntityKind = "transaccion"
	EntityRequest     EntityKind = "solicitud"
)

// Event es una notificación de cambio de fila. Solo lleva identidad: los
// consumidores deben recargar el registro, no parchar estado local.
type Event struct {
	Entity EntityKind `json:"entidad"`
	Type   ChangeType `json:"evento"`
	ID     string     `json:"id"`
	At     time.Time  `json:"at"`
}

// Publisher es el puerto de publicación que consumen los casos de uso.
type Publisher interface {
	Publish(evt Event)
}

const subscriberBuffer = 16

type subscriber struct {
	ch       chan Event
	entities map[EntityKind]bool // vacío = todas
}

// Bus es el fan-out en proceso de eventos de cambio.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]*subscriber
	next int
}

// NewBus construye el bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]*subscriber)}
}

// Subscribe registra un suscriptor para las entidades dadas (ninguna = todas).
// Devuelve el canal de eventos y la función de baja; la baja es idempotente y
// cierra el canal.
func (b *Bus) Subscribe(entities ...EntityKind) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &subscriber{
		ch:       make(chan Event, subscriberBuffer),
		entities: make(map[EntityKind]bool, len(entities)),
	}
	for _, e := range entities {
		sub.entities[e] = true
	}
	id := b.next
	b.next++
	b.subs[id] = sub

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if s, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(s.ch)
			}
		})
	}
	return sub.ch, unsubscribe
}

// Publish entrega el evento a los suscriptores interesados sin bloquear:
// si el buffer de un suscriptor está lleno, ese suscriptor pierde el evento.
func (b *Bus) Publish(evt Event) {
	if evt.At.IsZero() {
		evt.At = time.Now()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		if len(sub.entities) > 0 && !sub.entities[evt.Entity] {
			continue
		}
		select {
		case sub.ch <- evt:
		default:
		}
	}
}

// SubscriberCount devuelve la cantidad de suscriptores activos (monitoreo).
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
