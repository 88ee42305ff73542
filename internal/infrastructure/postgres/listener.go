package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/infrastructure/realtime"
	"github.com/egniscano-stack/sigma-changuinola-sub000/pkg/logger"
)

// NotifyChannel es el canal de pg_notify al que emiten los triggers de las
// tablas observadas.
const NotifyChannel = "sigma_cambios"

// notifyPayload es el JSON que arma el trigger: pg_notify('sigma_cambios',
// json_build_object('tabla', TG_TABLE_NAME, 'evento', TG_OP, 'id', ...)).
type notifyPayload struct {
	Tabla  string `json:"tabla"`
	Evento string `json:"evento"`
	ID     string `json:"id"`
}

// Listener escucha LISTEN/NOTIFY de PostgreSQL y re-publica cada
// notificación en el bus de eventos. Mantiene una conexión dedicada fuera de
// la rotación del pool y se reconecta con backoff si se cae.
type Listener struct {
	pool *pgxpool.Pool
	bus  realtime.Publisher
	log  *logger.Logger
}

// NewListener construye el listener.
func NewListener(pool *pgxpool.Pool, bus realtime.Publisher, log *logger.Logger) *Listener {
	return &Listener{pool: pool, bus: bus, log: log}
}

// Run bloquea escuchando notificaciones hasta que el contexto se cancele.
// Pensado para correr en su propia goroutine desde main.
func (l *Listener) Run(ctx context.Context) {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return
		}
		if err := l.listen(ctx); err != nil && ctx.Err() == nil {
			l.log.Warn().Err(err).Dur("retry_in", backoff).Msg("listener desconectado, reintentando")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+NotifyChannel); err != nil {
		return err
	}
	l.log.Info().Str("channel", NotifyChannel).Msg("escuchando notificaciones de la base")

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		var payload notifyPayload
		if err := json.Unmarshal([]byte(notification.Payload), &payload); err != nil {
			l.log.Warn().Err(err).Str("payload", notification.Payload).Msg("notificación con payload inválido")
			continue
		}
		entity, ok := entityForTable(payload.Tabla)
		if !ok {
			continue
		}
		l.bus.Publish(realtime.Event{
			Entity: entity,
			Type:   realtime.ChangeType(payload.Evento),
			ID:     payload.ID,
		})
	}
}

func entityForTable(table string) (realtime.EntityKind, bool) {
	switch table {
	case "contribuyentes":
		return realtime.EntityTaxpayer, true
	case "transacciones":
		return realtime.EntityTransaction, true
	case "solicitudes_admin":
		return realtime.EntityRequest, true
	default:
		return "", false
	}
}
