package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"invofin-backend/internal/adapter/middleware"
	"invofin-backend/internal/adapter/notifier"

	"github.com/labstack/echo/v4"
)

const heartbeatInterval = 30 * time.Second

type EventsHandler struct{ hub *notifier.Hub }

func NewEventsHandler(hub *notifier.Hub) *EventsHandler { return &EventsHandler{hub: hub} }

// Stream serves server-sent events for the authenticated user. The
// subscription covers direct, role-wide and broadcast notifications; a
// heartbeat comment keeps intermediaries from closing the idle stream.
func (h *EventsHandler) Stream(c echo.Context) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	conn := h.hub.Subscribe(middleware.UserID(c), middleware.Role(c))
	defer h.hub.Unsubscribe(conn)

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return nil
			}
			w.Flush()
		case ev, ok := <-conn.Events():
			if !ok {
				return nil
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, payload); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
