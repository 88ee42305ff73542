package http

import (
	"bufio"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/infrastructure/realtime"
)

const heartbeatInterval = 25 * time.Second

// EventsHandler expone el bus de cambios como un stream Server-Sent Events.
// Los clientes reaccionan recargando el recurso notificado; el payload solo
// lleva identidad, nunca el registro.
type EventsHandler struct {
	bus *realtime.Bus
}

// NewEventsHandler construye el handler.
func NewEventsHandler(bus *realtime.Bus) *EventsHandler {
	return &EventsHandler{bus: bus}
}

// Stream godoc
// @Summary      Stream de cambios (SSE)
// @Tags         eventos
// @Security     Bearer
// @Produce      text/event-stream
// @Param        entidades  query  string  false  "Filtro: contribuyente,transaccion,solicitud (todas por defecto)"
// @Success      200  {string}  string  "eventos"
// @Router       /api/eventos [get]
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	var entities []realtime.EntityKind
	if q := c.Query("entidades"); q != "" {
		for _, name := range strings.Split(q, ",") {
			if name = strings.TrimSpace(name); name != "" {
				entities = append(entities, realtime.EntityKind(name))
			}
		}
	}

	ch, unsubscribe := h.bus.Subscribe(entities...)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case evt, ok := <-ch:
				if !ok {
					return
				}
				payload, err := json.Marshal(evt)
				if err != nil {
					continue
				}
				if _, err := w.WriteString("data: " + string(payload) + "\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-ticker.C:
				// Comentario SSE como keep-alive; si falla, el cliente se fue.
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})
	return nil
}
